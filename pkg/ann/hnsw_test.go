package ann

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGraph() *Graph {
	return NewGraph(Options{Seed: 42})
}

func TestInsertAndSearchOrdersByDescendingSimilarity(t *testing.T) {
	g := testGraph()

	require.NoError(t, g.Insert(1, []float32{1, 0, 0}))
	require.NoError(t, g.Insert(2, []float32{0, 1, 0}))
	require.NoError(t, g.Insert(3, []float32{0.9, 0.1, 0}))

	results := g.Search([]float32{1, 0, 0}, 3, nil, 0)
	require.Len(t, results, 3)
	assert.Equal(t, uint(1), results[0].ID)
	assert.Equal(t, uint(3), results[1].ID)
	assert.Equal(t, uint(2), results[2].ID)

	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i].Score, results[i-1].Score)
	}
	for _, r := range results {
		assert.GreaterOrEqual(t, r.Score, float32(-1.0001))
		assert.LessOrEqual(t, r.Score, float32(1.0001))
	}
}

func TestSearchReturnsAtMostK(t *testing.T) {
	g := testGraph()
	for i := uint(1); i <= 10; i++ {
		require.NoError(t, g.Insert(i, []float32{float32(i), 1, 0}))
	}

	results := g.Search([]float32{1, 1, 0}, 3, nil, 0)
	assert.Len(t, results, 3)
}

func TestSearchTiesBrokenByInsertionOrder(t *testing.T) {
	g := testGraph()

	// Same direction, different magnitude: identical cosine similarity.
	require.NoError(t, g.Insert(7, []float32{2, 2, 0}))
	require.NoError(t, g.Insert(3, []float32{1, 1, 0}))
	require.NoError(t, g.Insert(9, []float32{0, 0, 1}))

	results := g.Search([]float32{1, 1, 0}, 3, nil, 0)
	require.Len(t, results, 3)
	assert.Equal(t, uint(7), results[0].ID)
	assert.Equal(t, uint(3), results[1].ID)
	assert.Equal(t, results[0].Score, results[1].Score)
}

func TestInsertDuplicateID(t *testing.T) {
	g := testGraph()
	require.NoError(t, g.Insert(1, []float32{1, 0}))
	assert.ErrorIs(t, g.Insert(1, []float32{0, 1}), ErrDuplicateID)
	assert.Equal(t, 1, g.Len())
}

func TestDeleteTombstonesNode(t *testing.T) {
	g := testGraph()
	require.NoError(t, g.Insert(1, []float32{1, 0}))
	require.NoError(t, g.Insert(2, []float32{0.9, 0.1}))

	require.NoError(t, g.Delete(1))
	assert.False(t, g.Contains(1))
	assert.Equal(t, 1, g.Len())
	assert.ErrorIs(t, g.Delete(1), ErrUnknownID)

	results := g.Search([]float32{1, 0}, 2, nil, 0)
	require.Len(t, results, 1)
	assert.Equal(t, uint(2), results[0].ID)
}

func TestCompactRemovesTombstones(t *testing.T) {
	g := testGraph()
	for i := uint(1); i <= 20; i++ {
		require.NoError(t, g.Insert(i, []float32{float32(i), float32(20 - i)}))
	}
	for i := uint(1); i <= 10; i++ {
		require.NoError(t, g.Delete(i))
	}

	g.Compact()
	assert.Equal(t, 10, g.Len())

	results := g.Search([]float32{20, 0}, 20, nil, 0)
	require.Len(t, results, 10)
	for _, r := range results {
		assert.Greater(t, r.ID, uint(10))
	}
}

func TestFilterSkipsWithoutReordering(t *testing.T) {
	g := testGraph()
	require.NoError(t, g.Insert(1, []float32{1, 0, 0}))
	require.NoError(t, g.Insert(2, []float32{0.9, 0.1, 0}))
	require.NoError(t, g.Insert(3, []float32{0.8, 0.2, 0}))

	even := func(id uint) bool { return id%2 == 0 }
	results := g.Search([]float32{1, 0, 0}, 3, even, 0)
	require.Len(t, results, 1)
	assert.Equal(t, uint(2), results[0].ID)

	unfiltered := g.Search([]float32{1, 0, 0}, 3, nil, 0)
	require.Len(t, unfiltered, 3)
	// The accepted candidate keeps the same score as in the unfiltered run.
	assert.Equal(t, unfiltered[1].ID, results[0].ID)
	assert.Equal(t, unfiltered[1].Score, results[0].Score)
}

func TestSearchEmptyGraph(t *testing.T) {
	g := testGraph()
	assert.Nil(t, g.Search([]float32{1, 0}, 5, nil, 0))
}

func TestConcurrentSearches(t *testing.T) {
	g := testGraph()
	rng := rand.New(rand.NewSource(7))
	for i := uint(1); i <= 100; i++ {
		vec := make([]float32, 8)
		for j := range vec {
			vec[j] = rng.Float32()
		}
		require.NoError(t, g.Insert(i, vec))
	}

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				results := g.Search([]float32{1, 1, 1, 1, 0, 0, 0, 0}, 10, nil, 0)
				assert.LessOrEqual(t, len(results), 10)
				assert.NotEmpty(t, results)
			}
		}()
	}
	wg.Wait()
}
