package authn

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/restaurantchain/order-backend/internal/domain"
	"github.com/restaurantchain/order-backend/internal/repository"
)

// ErrInvalidCredentials is returned for an unknown user or a wrong password alike
var ErrInvalidCredentials = errors.New("invalid credentials")

type UserRepository interface {
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// dummyHash is compared against when the user does not exist, so both paths pay for bcrypt
var dummyHash = sync.OnceValue(func() []byte {
	hash, _ := bcrypt.GenerateFromPassword([]byte("unknown user"), bcrypt.DefaultCost)
	return hash
})

// PasswordAuthenticator checks passwords against the bcrypt hashes of the user store
type PasswordAuthenticator struct {
	users   UserRepository
	compare func(hash, password []byte) error
}

func (a *PasswordAuthenticator) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := a.users.GetUserByUsername(ctx, username)
	if err != nil {
		if repository.IsNotFound(err) {
			_ = a.compare(dummyHash(), []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := a.compare([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &User{Username: user.Username, Role: user.Role}, nil
}

func NewPasswordAuthenticator(users UserRepository) Authenticator {
	return &PasswordAuthenticator{
		users:   users,
		compare: bcrypt.CompareHashAndPassword,
	}
}
