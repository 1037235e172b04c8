package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/clipdex/clipdex/pkg/db/models"
)

// AttachTag links a video to a property value. Both endpoints must exist,
// the confidence must be within [0.0, 1.0] and the pair must not already be
// linked; exactly one row is appended on success.
func (s *GormStore) AttachTag(ctx context.Context, videoID, propertyValueID uint, confidence float64) (*models.Tag, error) {
	if confidence < 0.0 || confidence > 1.0 {
		return nil, ErrInvalidConfidence
	}

	tag := &models.Tag{
		VideoID:         videoID,
		PropertyValueID: propertyValueID,
		Confidence:      confidence,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var video models.Video
		if err := tx.Select("id").First(&video, videoID).Error; err != nil {
			return notFound(err, ErrUnknownVideo)
		}

		var pv models.PropertyValue
		if err := tx.Select("id").First(&pv, propertyValueID).Error; err != nil {
			return notFound(err, ErrUnknownPropertyValue)
		}

		var count int64
		if err := tx.Model(&models.Tag{}).
			Where("video_id = ? AND property_value_id = ?", videoID, propertyValueID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateTag
		}

		return tx.Create(tag).Error
	})
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// DetachTag deletes a tag by id.
func (s *GormStore) DetachTag(ctx context.Context, tagID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tag models.Tag
		if err := tx.First(&tag, tagID).Error; err != nil {
			return notFound(err, ErrUnknownTag)
		}
		return tx.Delete(&models.Tag{}, tagID).Error
	})
}

// ListTagsForVideo returns a video's tags in insertion order, each resolved
// to its property value, owning property and that property's parent.
func (s *GormStore) ListTagsForVideo(ctx context.Context, videoID uint) ([]models.Tag, error) {
	var video models.Video
	if err := s.db.WithContext(ctx).Select("id").First(&video, videoID).Error; err != nil {
		return nil, notFound(err, ErrUnknownVideo)
	}

	var tags []models.Tag
	err := s.db.WithContext(ctx).
		Preload("PropertyValue").
		Preload("PropertyValue.Property").
		Preload("PropertyValue.Property.Parent").
		Where("video_id = ?", videoID).
		Order("id").
		Find(&tags).Error
	return tags, err
}

// ListVideosByPropertyValue returns all videos tagged with a value, for
// facet filtering.
func (s *GormStore) ListVideosByPropertyValue(ctx context.Context, propertyValueID uint) ([]models.Video, error) {
	var pv models.PropertyValue
	if err := s.db.WithContext(ctx).Select("id").First(&pv, propertyValueID).Error; err != nil {
		return nil, notFound(err, ErrUnknownPropertyValue)
	}

	var videos []models.Video
	err := s.db.WithContext(ctx).
		Joins("JOIN tags ON tags.video_id = videos.id").
		Where("tags.property_value_id = ?", propertyValueID).
		Order("videos.id").
		Find(&videos).Error
	return videos, err
}
