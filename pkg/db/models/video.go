package models

import (
	"time"
)

// Video represents a cataloged video asset. The source path doubles as the
// idempotency key for ingestion: two rows never share a path.
type Video struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"type:text;not null;index:idx_video_name"`
	Path string `gorm:"type:text;not null;uniqueIndex:uq_video_path"`

	AspectRatio string `gorm:"type:text"`
	Genre       string `gorm:"type:text;index:idx_video_genre"`

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships
	Tags         []Tag             `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE"`
	Embeddings   []Embedding       `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE"`
	Descriptions []Description     `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE"`
	Collections  []CollectionVideo `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE"`
}

// Description is a free-text annotation for a video, usually produced by a
// captioning model together with a confidence score.
type Description struct {
	ID         uint    `gorm:"primaryKey"`
	VideoID    uint    `gorm:"not null;index:idx_description_video"`
	Text       string  `gorm:"type:text;not null"`
	Confidence float64 `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships
	Video Video `gorm:"foreignKey:VideoID;references:ID"`
}
