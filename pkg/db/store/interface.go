package store

import (
	"context"

	"github.com/clipdex/clipdex/pkg/db/models"
)

// TaxonomyNode is one root of the shallow taxonomy materialization: the
// property itself, its values and exactly one level of child properties.
type TaxonomyNode struct {
	Property models.Property
	Values   []models.PropertyValue
	Children []TaxonomyNode
}

// VideoUpdate carries the mutable video fields; nil means leave unchanged.
type VideoUpdate struct {
	Name        *string
	AspectRatio *string
	Genre       *string
}

// TaxonomyStore manages the self-referencing property tree and its values.
type TaxonomyStore interface {
	CreateProperty(ctx context.Context, name string, parentID *uint, displayOrder int) (*models.Property, error)
	GetProperty(ctx context.Context, id uint) (*models.Property, error)
	UpdateProperty(ctx context.Context, id uint, name *string, parentID *uint, displayOrder *int) (*models.Property, error)
	DeleteProperty(ctx context.Context, id uint) error

	CreatePropertyValue(ctx context.Context, propertyID uint, value string, displayOrder int) (*models.PropertyValue, error)
	GetPropertyValue(ctx context.Context, id uint) (*models.PropertyValue, error)
	DeletePropertyValue(ctx context.Context, id uint) error

	ListTaxonomy(ctx context.Context) ([]TaxonomyNode, error)
}

// TaggingStore manages the video / property-value association edges.
type TaggingStore interface {
	AttachTag(ctx context.Context, videoID, propertyValueID uint, confidence float64) (*models.Tag, error)
	DetachTag(ctx context.Context, tagID uint) error
	ListTagsForVideo(ctx context.Context, videoID uint) ([]models.Tag, error)
	ListVideosByPropertyValue(ctx context.Context, propertyValueID uint) ([]models.Video, error)
}

// CatalogStore owns the video lifecycle and its descriptions.
type CatalogStore interface {
	CreateVideo(ctx context.Context, video *models.Video) error
	CreateVideoBatch(ctx context.Context, videos []*models.Video) (created, skipped int, err error)
	GetVideo(ctx context.Context, id uint) (*models.Video, error)
	VideoExistsByPath(ctx context.Context, path string) (bool, error)
	ListVideosByGenre(ctx context.Context, genre string) ([]models.Video, error)
	UpdateVideo(ctx context.Context, id uint, update VideoUpdate) (*models.Video, error)
	DeleteVideo(ctx context.Context, id uint) error

	AddDescription(ctx context.Context, videoID uint, text string, confidence float64) (*models.Description, error)
	DeleteDescription(ctx context.Context, id uint) error
}

// EmbeddingStore persists the per-video feature vectors. The ANN graph is
// process-local and rebuilt from these rows on startup.
type EmbeddingStore interface {
	CreateEmbedding(ctx context.Context, embedding *models.Embedding) error
	ListEmbeddings(ctx context.Context) ([]models.Embedding, error)
	DeleteEmbedding(ctx context.Context, id uint) error
}

// CollectionStore manages user-owned video groupings and their shares.
type CollectionStore interface {
	CreateCollection(ctx context.Context, ownerID uint, name string) (*models.Collection, error)
	GetCollection(ctx context.Context, id uint) (*models.Collection, error)
	DeleteCollection(ctx context.Context, id uint) error
	ListCollectionsForUser(ctx context.Context, userID uint) ([]models.Collection, error)

	ShareCollection(ctx context.Context, collectionID, userID uint) (*models.Share, error)
	AddVideoToCollection(ctx context.Context, collectionID, videoID uint) (*models.CollectionVideo, error)
	RemoveVideoFromCollection(ctx context.Context, collectionID, videoID uint) error
}

// UserStore manages accounts. Passwords are hashed on write and verified on
// read, never stored or compared in plain text.
type UserStore interface {
	CreateUser(ctx context.Context, username, email, password string) (*models.User, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	DeleteUser(ctx context.Context, id uint) error
}

// MetadataStore is the full catalog surface backed by the relational store.
type MetadataStore interface {
	// Lifecycle
	Connect(ctx context.Context) error
	Close() error
	Migrate(ctx context.Context) error
	Health(ctx context.Context) error

	TaxonomyStore
	TaggingStore
	CatalogStore
	EmbeddingStore
	CollectionStore
	UserStore
}
