package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCollectionRequiresOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owner := seedUser(t, s, "alice")

	col, err := s.CreateCollection(ctx, owner.ID, "favorites")
	require.NoError(t, err)
	assert.Equal(t, owner.ID, col.OwnerID)

	_, err = s.CreateCollection(ctx, 999, "orphaned")
	assert.ErrorIs(t, err, ErrUnknownUser)
}

func TestShareCollectionOnce(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owner := seedUser(t, s, "alice")
	guest := seedUser(t, s, "bob")
	col, err := s.CreateCollection(ctx, owner.ID, "favorites")
	require.NoError(t, err)

	_, err = s.ShareCollection(ctx, col.ID, guest.ID)
	require.NoError(t, err)

	_, err = s.ShareCollection(ctx, col.ID, guest.ID)
	assert.ErrorIs(t, err, ErrDuplicateShare)

	_, err = s.ShareCollection(ctx, 999, guest.ID)
	assert.ErrorIs(t, err, ErrUnknownCollection)
	_, err = s.ShareCollection(ctx, col.ID, 999)
	assert.ErrorIs(t, err, ErrUnknownUser)
}

func TestListCollectionsForUserIncludesShared(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")

	owned, err := s.CreateCollection(ctx, bob.ID, "bobs own")
	require.NoError(t, err)
	shared, err := s.CreateCollection(ctx, alice.ID, "alices shared")
	require.NoError(t, err)
	_, err = s.CreateCollection(ctx, alice.ID, "alices private")
	require.NoError(t, err)

	_, err = s.ShareCollection(ctx, shared.ID, bob.ID)
	require.NoError(t, err)

	collections, err := s.ListCollectionsForUser(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, collections, 2)
	assert.Equal(t, owned.ID, collections[0].ID)
	assert.Equal(t, shared.ID, collections[1].ID)

	_, err = s.ListCollectionsForUser(ctx, 999)
	assert.ErrorIs(t, err, ErrUnknownUser)
}

func TestCollectionMembership(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owner := seedUser(t, s, "alice")
	col, err := s.CreateCollection(ctx, owner.ID, "favorites")
	require.NoError(t, err)
	video := seedVideo(t, s, "clip.mp4")

	_, err = s.AddVideoToCollection(ctx, col.ID, video.ID)
	require.NoError(t, err)

	_, err = s.AddVideoToCollection(ctx, col.ID, video.ID)
	assert.ErrorIs(t, err, ErrDuplicateMembership)

	got, err := s.GetCollection(ctx, col.ID)
	require.NoError(t, err)
	require.Len(t, got.Videos, 1)
	assert.Equal(t, video.ID, got.Videos[0].VideoID)

	require.NoError(t, s.RemoveVideoFromCollection(ctx, col.ID, video.ID))
	assert.ErrorIs(t, s.RemoveVideoFromCollection(ctx, col.ID, video.ID), ErrUnknownMembership)
}

func TestDeleteCollectionCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owner := seedUser(t, s, "alice")
	guest := seedUser(t, s, "bob")
	col, err := s.CreateCollection(ctx, owner.ID, "favorites")
	require.NoError(t, err)
	video := seedVideo(t, s, "clip.mp4")

	_, err = s.AddVideoToCollection(ctx, col.ID, video.ID)
	require.NoError(t, err)
	_, err = s.ShareCollection(ctx, col.ID, guest.ID)
	require.NoError(t, err)

	require.NoError(t, s.DeleteCollection(ctx, col.ID))

	_, err = s.GetCollection(ctx, col.ID)
	assert.ErrorIs(t, err, ErrUnknownCollection)

	// The shared user no longer sees it.
	collections, err := s.ListCollectionsForUser(ctx, guest.ID)
	require.NoError(t, err)
	assert.Empty(t, collections)

	// The video itself is untouched.
	_, err = s.GetVideo(ctx, video.ID)
	assert.NoError(t, err)
}
