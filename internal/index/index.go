package index

import (
	"context"
	"fmt"
	"sync"

	"github.com/clipdex/clipdex/pkg/ann"
	"github.com/clipdex/clipdex/pkg/db/models"
	"github.com/clipdex/clipdex/pkg/db/store"
	"github.com/clipdex/clipdex/pkg/log"
)

// Match is one similarity hit, resolved back to the owning video.
type Match struct {
	VideoID     uint
	EmbeddingID uint
	Score       float32
}

// QueryOptions tune a single similarity query.
type QueryOptions struct {
	// Filter restricts results to matching videos; it skips non-matching
	// candidates during traversal without changing the ranking of accepted
	// ones.
	Filter func(videoID uint) bool
	// SearchBreadth overrides the configured query breadth when positive.
	SearchBreadth int
}

// Config carries the ANN construction parameters.
type Config struct {
	DegreeBound         int
	ConstructionBreadth int
	SearchBreadth       int
}

// EmbeddingIndex stores per-video feature vectors and answers approximate
// nearest-neighbor queries. Vector rows are durable in the metadata store;
// the graph is process-local and rebuilt from them on startup.
type EmbeddingIndex struct {
	mu sync.RWMutex

	store store.EmbeddingStore
	graph *ann.Graph
	owner map[uint]uint // embedding id -> video id
	cfg   Config
	log   log.LoggerService
}

// New creates an empty index over the given embedding store.
func New(embeddings store.EmbeddingStore, cfg Config, logger log.LoggerService) *EmbeddingIndex {
	return &EmbeddingIndex{
		store: embeddings,
		graph: ann.NewGraph(ann.Options{
			M:              cfg.DegreeBound,
			EfConstruction: cfg.ConstructionBreadth,
			EfSearch:       cfg.SearchBreadth,
		}),
		owner: make(map[uint]uint),
		cfg:   cfg,
		log:   logger,
	}
}

// Store validates and persists a vector for a video, then publishes it to
// the graph. A wrong-length vector is rejected before anything is mutated.
func (idx *EmbeddingIndex) Store(ctx context.Context, videoID uint, vector []float32) (*models.Embedding, error) {
	if len(vector) != models.EmbeddingDim {
		return nil, fmt.Errorf("%w: got %d, want %d", store.ErrDimensionMismatch, len(vector), models.EmbeddingDim)
	}

	embedding := &models.Embedding{
		VideoID: videoID,
		Vector:  models.VectorField(vector),
	}
	if err := idx.store.CreateEmbedding(ctx, embedding); err != nil {
		return nil, err
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	if err := idx.graph.Insert(embedding.ID, vector); err != nil {
		return nil, fmt.Errorf("failed to index embedding %d: %w", embedding.ID, err)
	}
	idx.owner[embedding.ID] = videoID

	return embedding, nil
}

// Query returns up to k videos ranked by descending cosine similarity.
func (idx *EmbeddingIndex) Query(vector []float32, k int, opts QueryOptions) ([]Match, error) {
	if len(vector) != models.EmbeddingDim {
		return nil, fmt.Errorf("%w: got %d, want %d", store.ErrDimensionMismatch, len(vector), models.EmbeddingDim)
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var filter ann.Filter
	if opts.Filter != nil {
		filter = func(embeddingID uint) bool {
			videoID, ok := idx.owner[embeddingID]
			return ok && opts.Filter(videoID)
		}
	}

	results := idx.graph.Search(vector, k, filter, opts.SearchBreadth)

	matches := make([]Match, 0, len(results))
	for _, r := range results {
		matches = append(matches, Match{
			VideoID:     idx.owner[r.ID],
			EmbeddingID: r.ID,
			Score:       r.Score,
		})
	}
	return matches, nil
}

// Delete removes an embedding row and tombstones its graph node.
func (idx *EmbeddingIndex) Delete(ctx context.Context, embeddingID uint) error {
	if err := idx.store.DeleteEmbedding(ctx, embeddingID); err != nil {
		return err
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	if err := idx.graph.Delete(embeddingID); err == nil {
		delete(idx.owner, embeddingID)
	}
	return nil
}

// DropVideo tombstones every graph node belonging to a video. The rows
// themselves are removed by the catalog's cascading delete.
func (idx *EmbeddingIndex) DropVideo(videoID uint) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for embeddingID, owner := range idx.owner {
		if owner == videoID {
			if err := idx.graph.Delete(embeddingID); err == nil {
				delete(idx.owner, embeddingID)
			}
		}
	}
}

// Compact rebuilds the graph without tombstoned nodes.
func (idx *EmbeddingIndex) Compact() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.graph.Compact()
}

// Rebuild reloads the graph from the stored vector rows.
func (idx *EmbeddingIndex) Rebuild(ctx context.Context) error {
	embeddings, err := idx.store.ListEmbeddings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load stored embeddings: %w", err)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	graph := ann.NewGraph(ann.Options{
		M:              idx.cfg.DegreeBound,
		EfConstruction: idx.cfg.ConstructionBreadth,
		EfSearch:       idx.cfg.SearchBreadth,
	})
	owner := make(map[uint]uint, len(embeddings))

	for _, embedding := range embeddings {
		if len(embedding.Vector) != models.EmbeddingDim {
			// A malformed row must not invalidate the rest of the index.
			idx.log.Warn("Skipping embedding %d with dimension %d", embedding.ID, len(embedding.Vector))
			continue
		}
		if err := graph.Insert(embedding.ID, embedding.Vector); err != nil {
			return fmt.Errorf("failed to index embedding %d: %w", embedding.ID, err)
		}
		owner[embedding.ID] = embedding.VideoID
	}

	idx.graph = graph
	idx.owner = owner
	idx.log.Info("Rebuilt similarity index with %d embeddings", graph.Len())
	return nil
}

// Size returns the number of live vectors in the graph.
func (idx *EmbeddingIndex) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.graph.Len()
}
