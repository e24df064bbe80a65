// Package seed loads reference data and users from a YAML file into the store.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/restaurantchain/order-backend/internal/domain"
)

// File is the content of a seed file. Timestamps must be RFC 3339.
type File struct {
	domain.Catalog
	Users []User `json:"users"`
}

// User is a seeded account. A plain Password is hashed on load; PasswordHash is taken as is.
type User struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	PasswordHash string `json:"passwordHash"`
	Role         string `json:"role"`
}

type CatalogSaver interface {
	SaveCatalog(ctx context.Context, c *domain.Catalog) error
}

type UserSaver interface {
	SaveUsers(ctx context.Context, users []domain.User) error
}

// Load reads the seed file at path. The YAML is converted to JSON first so the
// domain types decode through their json tags.
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read_seed_file: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse_seed_file: %w", err)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("convert_seed_file: %w", err)
	}

	f := new(File)
	if err := json.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("decode_seed_file: %w", err)
	}

	return f, nil
}

// DomainUsers returns the seeded users with every password hashed
func (f *File) DomainUsers() ([]domain.User, error) {
	users := make([]domain.User, 0, len(f.Users))
	for _, u := range f.Users {
		hash := u.PasswordHash
		if u.Password != "" {
			h, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("hash password of %s: %w", u.Username, err)
			}
			hash = string(h)
		}
		if hash == "" {
			return nil, fmt.Errorf("user %s has no password", u.Username)
		}

		users = append(users, domain.User{Username: u.Username, PasswordHash: hash, Role: u.Role})
	}

	return users, nil
}

// Apply upserts the catalog and the users of f
func Apply(ctx context.Context, f *File, catalog CatalogSaver, users UserSaver) error {
	if err := catalog.SaveCatalog(ctx, &f.Catalog); err != nil {
		return fmt.Errorf("seed_catalog: %w", err)
	}

	if len(f.Users) == 0 {
		return nil
	}

	domainUsers, err := f.DomainUsers()
	if err != nil {
		return fmt.Errorf("seed_users: %w", err)
	}

	if err := users.SaveUsers(ctx, domainUsers); err != nil {
		return fmt.Errorf("seed_users: %w", err)
	}

	return nil
}
