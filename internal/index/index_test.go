package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/clipdex/clipdex/internal/config/server"
	"github.com/clipdex/clipdex/pkg/db/models"
	"github.com/clipdex/clipdex/pkg/db/store"
	"github.com/clipdex/clipdex/pkg/log"
)

func testIndex(t *testing.T) (*EmbeddingIndex, *store.GormStore) {
	t.Helper()

	s, err := store.NewStore(store.Config{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, s.Connect(context.Background()))
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })

	logger := log.NewLoggerService("test", config.LogServerConfig{
		Level:      "ERROR",
		TimeFormat: "15:04:05",
		NoColor:    true,
	})

	idx := New(s, Config{DegreeBound: 16, ConstructionBreadth: 64, SearchBreadth: 32}, logger)
	return idx, s
}

func seedVideo(t *testing.T, s *store.GormStore, name string) *models.Video {
	t.Helper()

	video := &models.Video{Name: name, Path: "https://cdn.example.com/" + name}
	require.NoError(t, s.CreateVideo(context.Background(), video))
	return video
}

// basisVector puts the whole weight on one axis so expected similarities are
// exact.
func basisVector(axis int) []float32 {
	vec := make([]float32, models.EmbeddingDim)
	vec[axis] = 1
	return vec
}

func TestStoreAndQuery(t *testing.T) {
	idx, s := testIndex(t)
	ctx := context.Background()

	a := seedVideo(t, s, "a.mp4")
	b := seedVideo(t, s, "b.mp4")

	ea, err := idx.Store(ctx, a.ID, basisVector(0))
	require.NoError(t, err)
	_, err = idx.Store(ctx, b.ID, basisVector(1))
	require.NoError(t, err)

	matches, err := idx.Query(basisVector(0), 1, QueryOptions{})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, a.ID, matches[0].VideoID)
	assert.Equal(t, ea.ID, matches[0].EmbeddingID)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-6)
}

func TestStoreRejectsWrongDimension(t *testing.T) {
	idx, s := testIndex(t)
	ctx := context.Background()

	video := seedVideo(t, s, "a.mp4")
	_, err := idx.Store(ctx, video.ID, basisVector(0))
	require.NoError(t, err)

	before, err := idx.Query(basisVector(0), 10, QueryOptions{})
	require.NoError(t, err)

	_, err = idx.Store(ctx, video.ID, make([]float32, 10))
	assert.ErrorIs(t, err, store.ErrDimensionMismatch)

	// The rejected write left no trace in the store or the graph.
	rows, err := s.ListEmbeddings(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, 1, idx.Size())

	after, err := idx.Query(basisVector(0), 10, QueryOptions{})
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestQueryRejectsWrongDimension(t *testing.T) {
	idx, _ := testIndex(t)

	_, err := idx.Query(make([]float32, 3), 5, QueryOptions{})
	assert.ErrorIs(t, err, store.ErrDimensionMismatch)
}

func TestQueryFilterRestrictsToMatchingVideos(t *testing.T) {
	idx, s := testIndex(t)
	ctx := context.Background()

	a := seedVideo(t, s, "a.mp4")
	b := seedVideo(t, s, "b.mp4")

	_, err := idx.Store(ctx, a.ID, basisVector(0))
	require.NoError(t, err)
	_, err = idx.Store(ctx, b.ID, basisVector(1))
	require.NoError(t, err)

	matches, err := idx.Query(basisVector(0), 10, QueryOptions{
		Filter: func(videoID uint) bool { return videoID == b.ID },
	})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, b.ID, matches[0].VideoID)
}

func TestDeleteRemovesRowAndNode(t *testing.T) {
	idx, s := testIndex(t)
	ctx := context.Background()

	video := seedVideo(t, s, "a.mp4")
	embedding, err := idx.Store(ctx, video.ID, basisVector(0))
	require.NoError(t, err)

	require.NoError(t, idx.Delete(ctx, embedding.ID))
	assert.Equal(t, 0, idx.Size())

	rows, err := s.ListEmbeddings(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)

	matches, err := idx.Query(basisVector(0), 5, QueryOptions{})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestDropVideoTombstonesAllItsVectors(t *testing.T) {
	idx, s := testIndex(t)
	ctx := context.Background()

	a := seedVideo(t, s, "a.mp4")
	b := seedVideo(t, s, "b.mp4")

	_, err := idx.Store(ctx, a.ID, basisVector(0))
	require.NoError(t, err)
	_, err = idx.Store(ctx, a.ID, basisVector(1))
	require.NoError(t, err)
	_, err = idx.Store(ctx, b.ID, basisVector(2))
	require.NoError(t, err)

	idx.DropVideo(a.ID)
	assert.Equal(t, 1, idx.Size())

	matches, err := idx.Query(basisVector(0), 10, QueryOptions{})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, b.ID, matches[0].VideoID)

	idx.Compact()
	assert.Equal(t, 1, idx.Size())
}

func TestRebuildFromStoredRows(t *testing.T) {
	idx, s := testIndex(t)
	ctx := context.Background()

	a := seedVideo(t, s, "a.mp4")
	b := seedVideo(t, s, "b.mp4")

	_, err := idx.Store(ctx, a.ID, basisVector(0))
	require.NoError(t, err)
	_, err = idx.Store(ctx, b.ID, basisVector(1))
	require.NoError(t, err)

	// A cold start sees only the durable rows.
	fresh := New(s, Config{DegreeBound: 16, ConstructionBreadth: 64, SearchBreadth: 32}, idx.log)
	assert.Equal(t, 0, fresh.Size())

	require.NoError(t, fresh.Rebuild(ctx))
	assert.Equal(t, 2, fresh.Size())

	matches, err := fresh.Query(basisVector(1), 1, QueryOptions{})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, b.ID, matches[0].VideoID)
}
