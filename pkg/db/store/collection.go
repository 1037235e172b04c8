package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/clipdex/clipdex/pkg/db/models"
)

// CreateCollection creates a named grouping owned by an existing user.
func (s *GormStore) CreateCollection(ctx context.Context, ownerID uint, name string) (*models.Collection, error) {
	col := &models.Collection{
		Name:    name,
		OwnerID: ownerID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owner models.User
		if err := tx.Select("id").First(&owner, ownerID).Error; err != nil {
			return notFound(err, ErrUnknownUser)
		}
		return tx.Create(col).Error
	})
	if err != nil {
		return nil, err
	}
	return col, nil
}

// GetCollection loads a collection with its memberships and shares.
func (s *GormStore) GetCollection(ctx context.Context, id uint) (*models.Collection, error) {
	var col models.Collection
	err := s.db.WithContext(ctx).
		Preload("Videos").
		Preload("Shares").
		First(&col, id).Error
	if err != nil {
		return nil, notFound(err, ErrUnknownCollection)
	}
	return &col, nil
}

// DeleteCollection removes a collection and cascades to its memberships and
// shares in one transaction.
func (s *GormStore) DeleteCollection(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var col models.Collection
		if err := tx.First(&col, id).Error; err != nil {
			return notFound(err, ErrUnknownCollection)
		}

		if err := tx.Where("collection_id = ?", id).Delete(&models.CollectionVideo{}).Error; err != nil {
			return err
		}
		if err := tx.Where("collection_id = ?", id).Delete(&models.Share{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Collection{}, id).Error
	})
}

// ListCollectionsForUser returns collections the user owns or that were
// shared with them.
func (s *GormStore) ListCollectionsForUser(ctx context.Context, userID uint) ([]models.Collection, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Select("id").First(&user, userID).Error; err != nil {
		return nil, notFound(err, ErrUnknownUser)
	}

	var collections []models.Collection
	err := s.db.WithContext(ctx).
		Joins("LEFT JOIN shares ON shares.collection_id = collections.id").
		Where("collections.owner_id = ? OR shares.user_id = ?", userID, userID).
		Group("collections.id").
		Order("collections.id").
		Find(&collections).Error
	return collections, err
}

// ShareCollection grants a user access to a collection; sharing twice with
// the same user is rejected.
func (s *GormStore) ShareCollection(ctx context.Context, collectionID, userID uint) (*models.Share, error) {
	share := &models.Share{
		CollectionID: collectionID,
		UserID:       userID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var col models.Collection
		if err := tx.Select("id").First(&col, collectionID).Error; err != nil {
			return notFound(err, ErrUnknownCollection)
		}

		var user models.User
		if err := tx.Select("id").First(&user, userID).Error; err != nil {
			return notFound(err, ErrUnknownUser)
		}

		var count int64
		if err := tx.Model(&models.Share{}).
			Where("collection_id = ? AND user_id = ?", collectionID, userID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateShare
		}

		return tx.Create(share).Error
	})
	if err != nil {
		return nil, err
	}
	return share, nil
}

// AddVideoToCollection appends a membership edge; duplicates are rejected.
func (s *GormStore) AddVideoToCollection(ctx context.Context, collectionID, videoID uint) (*models.CollectionVideo, error) {
	member := &models.CollectionVideo{
		CollectionID: collectionID,
		VideoID:      videoID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var col models.Collection
		if err := tx.Select("id").First(&col, collectionID).Error; err != nil {
			return notFound(err, ErrUnknownCollection)
		}

		var video models.Video
		if err := tx.Select("id").First(&video, videoID).Error; err != nil {
			return notFound(err, ErrUnknownVideo)
		}

		var count int64
		if err := tx.Model(&models.CollectionVideo{}).
			Where("collection_id = ? AND video_id = ?", collectionID, videoID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateMembership
		}

		return tx.Create(member).Error
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

// RemoveVideoFromCollection drops a membership edge.
func (s *GormStore) RemoveVideoFromCollection(ctx context.Context, collectionID, videoID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var member models.CollectionVideo
		err := tx.Where("collection_id = ? AND video_id = ?", collectionID, videoID).First(&member).Error
		if err != nil {
			return notFound(err, ErrUnknownMembership)
		}
		return tx.Delete(&models.CollectionVideo{}, member.ID).Error
	})
}
