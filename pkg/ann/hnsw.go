// Package ann implements an in-process approximate nearest-neighbor index
// over cosine similarity, using a hierarchical navigable small-world graph.
// Recall is traded for sub-linear query latency; exhaustive search is never
// performed.
package ann

import (
	"container/heap"
	"errors"
	"math"
	"math/rand"
	"sort"
	"sync"
)

const (
	// DefaultM bounds the neighbor list of every node.
	DefaultM = 16
	// DefaultEfConstruction is the candidate pool explored while inserting.
	DefaultEfConstruction = 64
	// DefaultEfSearch is the candidate pool explored at query time.
	DefaultEfSearch = 32
)

var (
	ErrDuplicateID = errors.New("ann: id already indexed")
	ErrUnknownID   = errors.New("ann: id not indexed")
)

// Filter decides whether a candidate may appear in the result set. Filtered
// nodes are still traversed so the graph stays navigable; they are only
// excluded from the results, never re-ranked.
type Filter func(id uint) bool

// Result is a single query hit. Score is cosine similarity in [-1, 1].
type Result struct {
	ID    uint
	Score float32
}

// Options tune the graph construction and search behavior.
type Options struct {
	// M is the degree bound per node; 0 means DefaultM.
	M int
	// EfConstruction is the construction search breadth; 0 means default.
	EfConstruction int
	// EfSearch is the query search breadth; 0 means default.
	EfSearch int
	// Seed makes layer assignment deterministic when non-zero.
	Seed int64
}

type node struct {
	id      uint
	vec     []float32 // unit-normalized
	level   int
	links   [][]*node // neighbor lists per layer, 0..level
	seq     int       // insertion sequence, used for tie-breaking
	deleted bool      // tombstone: excluded from results, still traversable
}

// Graph is the HNSW index. Queries may run concurrently; inserts and
// deletes are serialized by a writer lock so readers never observe a
// partially-linked node.
type Graph struct {
	mu sync.RWMutex

	m              int
	efConstruction int
	efSearch       int
	levelMult      float64

	rng   *rand.Rand
	nodes map[uint]*node
	entry *node
	seq   int
	live  int
}

// NewGraph creates an empty index.
func NewGraph(opts Options) *Graph {
	if opts.M <= 0 {
		opts.M = DefaultM
	}
	if opts.EfConstruction <= 0 {
		opts.EfConstruction = DefaultEfConstruction
	}
	if opts.EfSearch <= 0 {
		opts.EfSearch = DefaultEfSearch
	}
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	return &Graph{
		m:              opts.M,
		efConstruction: opts.EfConstruction,
		efSearch:       opts.EfSearch,
		levelMult:      1.0 / math.Log(float64(opts.M)),
		rng:            rand.New(rand.NewSource(seed)),
		nodes:          make(map[uint]*node),
	}
}

// Len returns the number of live (non-tombstoned) nodes.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.live
}

// Contains reports whether id is indexed and not tombstoned.
func (g *Graph) Contains(id uint) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[id]
	return ok && !n.deleted
}

// Insert adds a vector under the given id. The node's maximum layer is drawn
// from an exponential distribution; it is linked to its approximate nearest
// neighbors on each layer from the top down and only becomes reachable once
// all layers are wired.
func (g *Graph) Insert(id uint, vector []float32) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[id]; ok {
		return ErrDuplicateID
	}

	level := g.randomLevel()
	n := &node{
		id:    id,
		vec:   normalize(vector),
		level: level,
		links: make([][]*node, level+1),
		seq:   g.seq,
	}
	g.seq++
	g.live++

	if g.entry == nil {
		g.nodes[id] = n
		g.entry = n
		return nil
	}

	cur := g.entry

	// Greedy descent through the layers above the new node's level.
	for l := g.entry.level; l > level; l-- {
		cur = g.greedyClosest(n.vec, cur, l)
	}

	// Link from the highest shared layer down to the ground layer.
	top := level
	if g.entry.level < top {
		top = g.entry.level
	}
	for l := top; l >= 0; l-- {
		found := g.searchLayer(n.vec, []*node{cur}, g.efConstruction, l)

		neighbors := found
		if len(neighbors) > g.m {
			neighbors = neighbors[:g.m]
		}
		for _, nb := range neighbors {
			n.links[l] = append(n.links[l], nb.n)
			nb.n.links[l] = append(nb.n.links[l], n)
			g.pruneNeighbors(nb.n, l)
		}
		if len(found) > 0 {
			cur = found[0].n
		}
	}

	g.nodes[id] = n
	if level > g.entry.level {
		g.entry = n
	}
	return nil
}

// Delete tombstones a node: it no longer appears in results but keeps its
// links so the graph is not disconnected. Compact rebuilds without it.
func (g *Graph) Delete(id uint) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	n, ok := g.nodes[id]
	if !ok || n.deleted {
		return ErrUnknownID
	}
	n.deleted = true
	g.live--
	return nil
}

// Compact rebuilds the graph without tombstoned nodes, preserving insertion
// order so tie-breaking stays stable.
func (g *Graph) Compact() {
	g.mu.Lock()
	defer g.mu.Unlock()

	survivors := make([]*node, 0, g.live)
	for _, n := range g.nodes {
		if !n.deleted {
			survivors = append(survivors, n)
		}
	}
	sort.Slice(survivors, func(i, j int) bool { return survivors[i].seq < survivors[j].seq })

	rebuilt := &Graph{
		m:              g.m,
		efConstruction: g.efConstruction,
		efSearch:       g.efSearch,
		levelMult:      g.levelMult,
		rng:            g.rng,
		nodes:          make(map[uint]*node, len(survivors)),
	}
	for _, n := range survivors {
		// vec is already normalized; Insert normalizes idempotently.
		rebuilt.Insert(n.id, n.vec)
	}

	g.nodes = rebuilt.nodes
	g.entry = rebuilt.entry
	g.seq = rebuilt.seq
	g.live = rebuilt.live
}

// Search returns up to k results ordered by descending cosine similarity,
// ties broken by insertion order. A nil filter accepts everything. ef
// overrides the query search breadth when positive.
func (g *Graph) Search(query []float32, k int, filter Filter, ef int) []Result {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.entry == nil || k <= 0 {
		return nil
	}
	if ef <= 0 {
		ef = g.efSearch
	}
	if ef < k {
		ef = k
	}

	q := normalize(query)

	cur := g.entry
	for l := g.entry.level; l > 0; l-- {
		cur = g.greedyClosest(q, cur, l)
	}

	accept := func(n *node) bool {
		if n.deleted {
			return false
		}
		return filter == nil || filter(n.id)
	}

	found := g.searchLayerFiltered(q, []*node{cur}, ef, 0, accept)

	sort.Slice(found, func(i, j int) bool {
		if found[i].score != found[j].score {
			return found[i].score > found[j].score
		}
		return found[i].n.seq < found[j].n.seq
	})
	if len(found) > k {
		found = found[:k]
	}

	results := make([]Result, len(found))
	for i, s := range found {
		results[i] = Result{ID: s.n.id, Score: s.score}
	}
	return results
}

// randomLevel draws the node's maximum layer from an exponential
// distribution, controlling how often nodes participate in coarse layers.
func (g *Graph) randomLevel() int {
	r := g.rng.Float64()
	if r == 0 {
		r = math.SmallestNonzeroFloat64
	}
	return int(math.Floor(-math.Log(r) * g.levelMult))
}

// greedyClosest walks layer l from start toward the query until no neighbor
// improves on the current node.
func (g *Graph) greedyClosest(q []float32, start *node, l int) *node {
	cur := start
	curScore := dot(q, cur.vec)

	for {
		improved := false
		if l <= cur.level {
			for _, nb := range cur.links[l] {
				if s := dot(q, nb.vec); s > curScore {
					cur, curScore = nb, s
					improved = true
				}
			}
		}
		if !improved {
			return cur
		}
	}
}

// searchLayer explores layer l with breadth ef and returns the best
// candidates ordered by descending similarity.
func (g *Graph) searchLayer(q []float32, entry []*node, ef, l int) []scored {
	return g.searchLayerFiltered(q, entry, ef, l, nil)
}

// searchLayerFiltered is the classic beam search over one layer. Nodes
// failing accept are traversed but never admitted to the result set.
func (g *Graph) searchLayerFiltered(q []float32, entry []*node, ef, l int, accept func(*node) bool) []scored {
	visited := make(map[uint]bool, ef*2)
	candidates := candidateHeap{}
	results := resultHeap{}

	for _, e := range entry {
		if visited[e.id] {
			continue
		}
		visited[e.id] = true
		s := scored{n: e, score: dot(q, e.vec)}
		heap.Push(&candidates, s)
		if accept == nil || accept(e) {
			heap.Push(&results, s)
		}
	}

	for candidates.Len() > 0 {
		best := heap.Pop(&candidates).(scored)
		if results.Len() >= ef && best.score < results[0].score {
			break
		}

		if l > best.n.level {
			continue
		}
		for _, nb := range best.n.links[l] {
			if visited[nb.id] {
				continue
			}
			visited[nb.id] = true

			s := scored{n: nb, score: dot(q, nb.vec)}
			if results.Len() < ef || s.score > results[0].score {
				heap.Push(&candidates, s)
				if accept == nil || accept(nb) {
					heap.Push(&results, s)
					if results.Len() > ef {
						heap.Pop(&results)
					}
				}
			}
		}
	}

	out := make([]scored, 0, results.Len())
	for results.Len() > 0 {
		out = append(out, heap.Pop(&results).(scored))
	}
	// Min-heap pops worst first; reverse into descending order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// pruneNeighbors trims a node's layer-l neighbor list back to the degree
// bound, keeping the closest neighbors.
func (g *Graph) pruneNeighbors(n *node, l int) {
	if len(n.links[l]) <= g.m {
		return
	}
	sort.Slice(n.links[l], func(i, j int) bool {
		return dot(n.vec, n.links[l][i].vec) > dot(n.vec, n.links[l][j].vec)
	})
	n.links[l] = n.links[l][:g.m]
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func normalize(v []float32) []float32 {
	var sum float64
	for _, f := range v {
		sum += float64(f) * float64(f)
	}
	out := make([]float32, len(v))
	if sum == 0 {
		return out
	}
	inv := float32(1 / math.Sqrt(sum))
	for i, f := range v {
		out[i] = f * inv
	}
	return out
}
