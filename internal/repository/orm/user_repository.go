package orm

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/restaurantchain/order-backend/internal/domain"
	"github.com/restaurantchain/order-backend/internal/repository"
)

const (
	UserResource = "user"
)

// UserRepository provides database operations for staff accounts
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetUserByUsername retrieves a user by username
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var m UserModel

	err := r.db.WithContext(ctx).Where("username = ?", username).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &repository.NotFoundError{
				Resource: UserResource,
				Key:      "username",
				Value:    username,
			}
		}
		return nil, fmt.Errorf("failed to retrieve user %s: %w", username, err)
	}

	return &domain.User{
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
	}, nil
}

// SaveUsers upserts the given users
func (r *UserRepository) SaveUsers(ctx context.Context, users []domain.User) error {
	return upsert(r.db.WithContext(ctx), users, func(u *domain.User) UserModel {
		return UserModel{
			Username:     u.Username,
			PasswordHash: u.PasswordHash,
			Role:         u.Role,
		}
	})
}

