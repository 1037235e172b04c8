package models

import (
	"time"
)

// Tag links a video to a property value, carrying the confidence of the
// assignment. Each (video, property value) pair exists at most once.
type Tag struct {
	ID              uint    `gorm:"primaryKey"`
	VideoID         uint    `gorm:"not null;index:idx_tag_video;uniqueIndex:uq_tag_once"`
	PropertyValueID uint    `gorm:"not null;index:idx_tag_property_value;uniqueIndex:uq_tag_once"`
	Confidence      float64 `gorm:"not null;default:0;index:idx_tag_confidence"`

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships
	Video         Video         `gorm:"foreignKey:VideoID;references:ID"`
	PropertyValue PropertyValue `gorm:"foreignKey:PropertyValueID;references:ID"`
}
