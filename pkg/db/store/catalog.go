package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/clipdex/clipdex/pkg/db/models"
)

// CreateVideo catalogs a new video. The source path is the idempotency key;
// a second row with the same path is rejected, never silently deduped.
func (s *GormStore) CreateVideo(ctx context.Context, video *models.Video) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Video{}).Where("path = ?", video.Path).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicatePath
		}
		return tx.Create(video).Error
	})
}

// CreateVideoBatch inserts a batch in a single transaction, skipping entries
// whose path is already cataloged. Used by the ingestion pipeline as its
// crash-recovery checkpoint.
func (s *GormStore) CreateVideoBatch(ctx context.Context, videos []*models.Video) (created, skipped int, err error) {
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, video := range videos {
			var count int64
			if err := tx.Model(&models.Video{}).Where("path = ?", video.Path).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				skipped++
				continue
			}
			if err := tx.Create(video).Error; err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return created, skipped, nil
}

// GetVideo loads a video with its descriptions.
func (s *GormStore) GetVideo(ctx context.Context, id uint) (*models.Video, error) {
	var video models.Video
	err := s.db.WithContext(ctx).
		Preload("Descriptions").
		First(&video, id).Error
	if err != nil {
		return nil, notFound(err, ErrUnknownVideo)
	}
	return &video, nil
}

// VideoExistsByPath reports whether a path is already cataloged.
func (s *GormStore) VideoExistsByPath(ctx context.Context, path string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Video{}).Where("path = ?", path).Count(&count).Error
	return count > 0, err
}

// ListVideosByGenre returns all videos of a genre in catalog order.
func (s *GormStore) ListVideosByGenre(ctx context.Context, genre string) ([]models.Video, error) {
	var videos []models.Video
	err := s.db.WithContext(ctx).Where("genre = ?", genre).Order("id").Find(&videos).Error
	return videos, err
}

// UpdateVideo applies the non-nil fields of the update.
func (s *GormStore) UpdateVideo(ctx context.Context, id uint, update VideoUpdate) (*models.Video, error) {
	var video models.Video

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&video, id).Error; err != nil {
			return notFound(err, ErrUnknownVideo)
		}

		if update.Name != nil {
			video.Name = *update.Name
		}
		if update.AspectRatio != nil {
			video.AspectRatio = *update.AspectRatio
		}
		if update.Genre != nil {
			video.Genre = *update.Genre
		}

		return tx.Save(&video).Error
	})
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// DeleteVideo removes a video and all rows owned by it: tags, embeddings,
// descriptions and collection memberships commit or roll back together.
func (s *GormStore) DeleteVideo(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var video models.Video
		if err := tx.First(&video, id).Error; err != nil {
			return notFound(err, ErrUnknownVideo)
		}

		for _, owned := range []any{&models.Tag{}, &models.Embedding{}, &models.Description{}, &models.CollectionVideo{}} {
			if err := tx.Where("video_id = ?", id).Delete(owned).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.Video{}, id).Error
	})
}

// AddDescription attaches free text to a video with a confidence score.
func (s *GormStore) AddDescription(ctx context.Context, videoID uint, text string, confidence float64) (*models.Description, error) {
	if confidence < 0.0 || confidence > 1.0 {
		return nil, ErrInvalidConfidence
	}

	desc := &models.Description{
		VideoID:    videoID,
		Text:       text,
		Confidence: confidence,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var video models.Video
		if err := tx.Select("id").First(&video, videoID).Error; err != nil {
			return notFound(err, ErrUnknownVideo)
		}
		return tx.Create(desc).Error
	})
	if err != nil {
		return nil, err
	}
	return desc, nil
}

// DeleteDescription removes a single description.
func (s *GormStore) DeleteDescription(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var desc models.Description
		if err := tx.First(&desc, id).Error; err != nil {
			return notFound(err, ErrUnknownDescription)
		}
		return tx.Delete(&models.Description{}, id).Error
	})
}
