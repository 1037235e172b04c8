package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clipdex/clipdex/pkg/db/models"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()

	s, err := NewStore(Config{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, s.Connect(context.Background()))
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func uintPtr(u uint) *uint { return &u }

func seedVideo(t *testing.T, s *GormStore, name string) *models.Video {
	t.Helper()

	video := &models.Video{Name: name, Path: "https://cdn.example.com/" + name}
	require.NoError(t, s.CreateVideo(context.Background(), video))
	return video
}

func seedUser(t *testing.T, s *GormStore, username string) *models.User {
	t.Helper()

	user, err := s.CreateUser(context.Background(), username, username+"@example.com", "hunter2")
	require.NoError(t, err)
	return user
}

func seedVector(fill float32) models.VectorField {
	vec := make(models.VectorField, models.EmbeddingDim)
	for i := range vec {
		vec[i] = fill
	}
	return vec
}

func seedPropertyValue(t *testing.T, s *GormStore, property, value string) *models.PropertyValue {
	t.Helper()

	prop, err := s.CreateProperty(context.Background(), property, nil, 0)
	require.NoError(t, err)
	pv, err := s.CreatePropertyValue(context.Background(), prop.ID, value, 0)
	require.NoError(t, err)
	return pv
}

func TestStoreHealth(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Health(context.Background()))
}

func TestMigrateIsRepeatable(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Migrate(context.Background()))
	require.NoError(t, s.Migrate(context.Background()))
}

var _ MetadataStore = (*GormStore)(nil)

func uniquePath(i int) string {
	return fmt.Sprintf("https://cdn.example.com/clip-%d.mp4", i)
}
