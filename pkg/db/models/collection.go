package models

import (
	"time"
)

// Collection is a user-owned named grouping of videos.
type Collection struct {
	ID      uint   `gorm:"primaryKey"`
	Name    string `gorm:"type:text;not null"`
	OwnerID uint   `gorm:"not null;index:idx_collection_owner"`

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships
	Owner  User              `gorm:"foreignKey:OwnerID;references:ID"`
	Videos []CollectionVideo `gorm:"foreignKey:CollectionID;constraint:OnDelete:CASCADE"`
	Shares []Share           `gorm:"foreignKey:CollectionID;constraint:OnDelete:CASCADE"`
}

// CollectionVideo is the membership edge between a collection and a video.
type CollectionVideo struct {
	ID           uint `gorm:"primaryKey"`
	CollectionID uint `gorm:"not null;index:idx_collection_video_collection;uniqueIndex:uq_collection_video"`
	VideoID      uint `gorm:"not null;uniqueIndex:uq_collection_video"`

	CreatedAt time.Time

	// Relationships
	Collection Collection `gorm:"foreignKey:CollectionID;references:ID"`
	Video      Video      `gorm:"foreignKey:VideoID;references:ID"`
}

// Share grants a user read access to somebody else's collection.
type Share struct {
	ID           uint `gorm:"primaryKey"`
	UserID       uint `gorm:"not null;index:idx_share_user;uniqueIndex:uq_share_once"`
	CollectionID uint `gorm:"not null;uniqueIndex:uq_share_once"`

	CreatedAt time.Time

	// Relationships
	User       User       `gorm:"foreignKey:UserID;references:ID"`
	Collection Collection `gorm:"foreignKey:CollectionID;references:ID"`
}
