package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachTagOnce(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	pv := seedPropertyValue(t, s, "Mood", "calm")
	video := seedVideo(t, s, "clip.mp4")

	tag, err := s.AttachTag(ctx, video.ID, pv.ID, 0.87)
	require.NoError(t, err)
	assert.Equal(t, video.ID, tag.VideoID)
	assert.Equal(t, pv.ID, tag.PropertyValueID)
	assert.Equal(t, 0.87, tag.Confidence)

	_, err = s.AttachTag(ctx, video.ID, pv.ID, 0.5)
	assert.ErrorIs(t, err, ErrDuplicateTag)

	tags, err := s.ListTagsForVideo(ctx, video.ID)
	require.NoError(t, err)
	assert.Len(t, tags, 1)
}

func TestAttachTagConfidenceBounds(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	pv := seedPropertyValue(t, s, "Mood", "calm")
	other := seedPropertyValue(t, s, "Genre", "drama")
	video := seedVideo(t, s, "clip.mp4")

	// Both ends of the range are inclusive.
	_, err := s.AttachTag(ctx, video.ID, pv.ID, 0.0)
	assert.NoError(t, err)
	_, err = s.AttachTag(ctx, video.ID, other.ID, 1.0)
	assert.NoError(t, err)

	_, err = s.AttachTag(ctx, video.ID, pv.ID, -0.01)
	assert.ErrorIs(t, err, ErrInvalidConfidence)
	_, err = s.AttachTag(ctx, video.ID, pv.ID, 1.01)
	assert.ErrorIs(t, err, ErrInvalidConfidence)
}

func TestAttachTagUnknownEndpoints(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	pv := seedPropertyValue(t, s, "Mood", "calm")
	video := seedVideo(t, s, "clip.mp4")

	_, err := s.AttachTag(ctx, 999, pv.ID, 0.5)
	assert.ErrorIs(t, err, ErrUnknownVideo)

	_, err = s.AttachTag(ctx, video.ID, 999, 0.5)
	assert.ErrorIs(t, err, ErrUnknownPropertyValue)
}

func TestDetachTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	pv := seedPropertyValue(t, s, "Mood", "calm")
	video := seedVideo(t, s, "clip.mp4")

	tag, err := s.AttachTag(ctx, video.ID, pv.ID, 0.5)
	require.NoError(t, err)

	require.NoError(t, s.DetachTag(ctx, tag.ID))
	assert.ErrorIs(t, s.DetachTag(ctx, tag.ID), ErrUnknownTag)

	// The pair can be linked again after detaching.
	_, err = s.AttachTag(ctx, video.ID, pv.ID, 0.6)
	assert.NoError(t, err)
}

func TestListTagsForVideoResolvesHierarchy(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	root, err := s.CreateProperty(ctx, "Setting", nil, 0)
	require.NoError(t, err)
	child, err := s.CreateProperty(ctx, "Environment", uintPtr(root.ID), 0)
	require.NoError(t, err)
	pv, err := s.CreatePropertyValue(ctx, child.ID, "forest", 0)
	require.NoError(t, err)

	video := seedVideo(t, s, "clip.mp4")
	_, err = s.AttachTag(ctx, video.ID, pv.ID, 0.9)
	require.NoError(t, err)

	tags, err := s.ListTagsForVideo(ctx, video.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)

	got := tags[0]
	assert.Equal(t, "forest", got.PropertyValue.Value)
	assert.Equal(t, "Environment", got.PropertyValue.Property.Name)
	require.NotNil(t, got.PropertyValue.Property.Parent)
	assert.Equal(t, "Setting", got.PropertyValue.Property.Parent.Name)
}

func TestListTagsForVideoInsertionOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	prop, err := s.CreateProperty(ctx, "Mood", nil, 0)
	require.NoError(t, err)
	video := seedVideo(t, s, "clip.mp4")

	for _, value := range []string{"calm", "tense", "joyful"} {
		pv, err := s.CreatePropertyValue(ctx, prop.ID, value, 0)
		require.NoError(t, err)
		_, err = s.AttachTag(ctx, video.ID, pv.ID, 0.5)
		require.NoError(t, err)
	}

	tags, err := s.ListTagsForVideo(ctx, video.ID)
	require.NoError(t, err)
	require.Len(t, tags, 3)
	assert.Equal(t, "calm", tags[0].PropertyValue.Value)
	assert.Equal(t, "tense", tags[1].PropertyValue.Value)
	assert.Equal(t, "joyful", tags[2].PropertyValue.Value)
}

func TestListTagsForUnknownVideo(t *testing.T) {
	s := newTestStore(t)

	_, err := s.ListTagsForVideo(context.Background(), 999)
	assert.ErrorIs(t, err, ErrUnknownVideo)
}

func TestListVideosByPropertyValue(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	pv := seedPropertyValue(t, s, "Mood", "calm")
	first := seedVideo(t, s, "first.mp4")
	second := seedVideo(t, s, "second.mp4")
	seedVideo(t, s, "untagged.mp4")

	_, err := s.AttachTag(ctx, first.ID, pv.ID, 0.5)
	require.NoError(t, err)
	_, err = s.AttachTag(ctx, second.ID, pv.ID, 0.5)
	require.NoError(t, err)

	videos, err := s.ListVideosByPropertyValue(ctx, pv.ID)
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, first.ID, videos[0].ID)
	assert.Equal(t, second.ID, videos[1].ID)

	_, err = s.ListVideosByPropertyValue(ctx, 999)
	assert.ErrorIs(t, err, ErrUnknownPropertyValue)
}
