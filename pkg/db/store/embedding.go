package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/clipdex/clipdex/pkg/db/models"
)

// CreateEmbedding persists a feature vector for an existing video. The
// vector must be exactly models.EmbeddingDim long.
func (s *GormStore) CreateEmbedding(ctx context.Context, embedding *models.Embedding) error {
	if len(embedding.Vector) != models.EmbeddingDim {
		return ErrDimensionMismatch
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var video models.Video
		if err := tx.Select("id").First(&video, embedding.VideoID).Error; err != nil {
			return notFound(err, ErrUnknownVideo)
		}
		return tx.Create(embedding).Error
	})
}

// ListEmbeddings returns every stored vector in insertion order, for
// rebuilding the process-local ANN graph.
func (s *GormStore) ListEmbeddings(ctx context.Context) ([]models.Embedding, error) {
	var embeddings []models.Embedding
	err := s.db.WithContext(ctx).Order("id").Find(&embeddings).Error
	return embeddings, err
}

// DeleteEmbedding removes a single vector row.
func (s *GormStore) DeleteEmbedding(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var embedding models.Embedding
		if err := tx.First(&embedding, id).Error; err != nil {
			return notFound(err, ErrUnknownEmbedding)
		}
		return tx.Delete(&models.Embedding{}, id).Error
	})
}
