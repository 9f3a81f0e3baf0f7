package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/models"
	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/pkg/apierr"
)

// ErrUsernameTaken is returned when a username is already registered.
var ErrUsernameTaken = apierr.Validation("username already used")

type UserRepo struct {
	*Store
}

func NewUserRepo(s *Store) *UserRepo {
	return &UserRepo{Store: s}
}

func (r *UserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, apierr.Persistence(err)
	}
	return count > 0, nil
}

// Create inserts the user; a concurrent duplicate surfaces as
// ErrUsernameTaken through the unique index.
func (r *UserRepo) Create(ctx context.Context, u *models.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if IsUniqueViolation(err) {
			return ErrUsernameTaken
		}
		r.log.Error("create user failed", "error", err)
		return apierr.Persistence(err)
	}
	return nil
}

// FindByUsername returns nil, nil when no such user exists.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apierr.Persistence(err)
	}
	return &u, nil
}
