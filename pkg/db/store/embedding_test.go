package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipdex/clipdex/pkg/db/models"
)

func TestCreateEmbeddingDimensionCheck(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	video := seedVideo(t, s, "clip.mp4")

	err := s.CreateEmbedding(ctx, &models.Embedding{
		VideoID: video.ID,
		Vector:  make(models.VectorField, 10),
	})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	err = s.CreateEmbedding(ctx, &models.Embedding{
		VideoID: video.ID,
		Vector:  seedVector(0.25),
	})
	assert.NoError(t, err)
}

func TestCreateEmbeddingUnknownVideo(t *testing.T) {
	s := newTestStore(t)

	err := s.CreateEmbedding(context.Background(), &models.Embedding{
		VideoID: 999,
		Vector:  seedVector(0.25),
	})
	assert.ErrorIs(t, err, ErrUnknownVideo)
}

func TestListEmbeddingsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	video := seedVideo(t, s, "clip.mp4")

	first := &models.Embedding{VideoID: video.ID, Vector: seedVector(0.25)}
	second := &models.Embedding{VideoID: video.ID, Vector: seedVector(-1.5)}
	require.NoError(t, s.CreateEmbedding(ctx, first))
	require.NoError(t, s.CreateEmbedding(ctx, second))

	embeddings, err := s.ListEmbeddings(ctx)
	require.NoError(t, err)
	require.Len(t, embeddings, 2)

	assert.Equal(t, first.ID, embeddings[0].ID)
	require.Len(t, embeddings[0].Vector, models.EmbeddingDim)
	assert.Equal(t, float32(0.25), embeddings[0].Vector[0])
	assert.Equal(t, float32(-1.5), embeddings[1].Vector[models.EmbeddingDim-1])
}

func TestDeleteEmbedding(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	video := seedVideo(t, s, "clip.mp4")
	embedding := &models.Embedding{VideoID: video.ID, Vector: seedVector(1)}
	require.NoError(t, s.CreateEmbedding(ctx, embedding))

	require.NoError(t, s.DeleteEmbedding(ctx, embedding.ID))
	assert.ErrorIs(t, s.DeleteEmbedding(ctx, embedding.ID), ErrUnknownEmbedding)

	embeddings, err := s.ListEmbeddings(ctx)
	require.NoError(t, err)
	assert.Empty(t, embeddings)
}
