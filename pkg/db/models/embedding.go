package models

import (
	"time"
)

// EmbeddingDim is the fixed length of every stored feature vector. It matches
// the output dimension of the CLIP model used for feature extraction.
const EmbeddingDim = 768

// Embedding stores a feature vector for a video. A video may carry more than
// one embedding, though typically it has exactly one.
type Embedding struct {
	ID      uint        `gorm:"primaryKey"`
	VideoID uint        `gorm:"not null;index:idx_embedding_video"`
	Vector  VectorField `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships
	Video Video `gorm:"foreignKey:VideoID;references:ID"`
}
