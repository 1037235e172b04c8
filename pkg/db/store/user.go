package store

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/clipdex/clipdex/pkg/db/models"
)

// CreateUser registers an account. The password is hashed with bcrypt before
// it touches the database; hashing happens here, not as a side effect of a
// field assignment.
func (s *GormStore) CreateUser(ctx context.Context, username, email, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateUsername
		}

		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateEmail
		}

		return tx.Create(user).Error
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser loads an account by id.
func (s *GormStore) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err, ErrUnknownUser)
	}
	return &user, nil
}

// Authenticate verifies a username/password pair against the stored hash.
func (s *GormStore) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, notFound(err, ErrUnknownUser)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// DeleteUser removes an account, its owned collections (with their
// memberships and shares) and the shares granted to it.
func (s *GormStore) DeleteUser(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return notFound(err, ErrUnknownUser)
		}

		var owned []uint
		if err := tx.Model(&models.Collection{}).Where("owner_id = ?", id).Pluck("id", &owned).Error; err != nil {
			return err
		}
		if len(owned) > 0 {
			if err := tx.Where("collection_id IN ?", owned).Delete(&models.CollectionVideo{}).Error; err != nil {
				return err
			}
			if err := tx.Where("collection_id IN ?", owned).Delete(&models.Share{}).Error; err != nil {
				return err
			}
			if err := tx.Where("owner_id = ?", id).Delete(&models.Collection{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.Share{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, id).Error
	})
}
