package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/louisbranch/switchback/internal/platform/id"
)

// InMemoryBackend is a process-local Backend for tests and single-node
// runs without a database. Search ranks by keyword overlap with the query.
type InMemoryBackend struct {
	mu      sync.RWMutex
	entries map[Namespace][]entry
}

type entry struct {
	id       string
	content  string
	metadata map[string]string
}

// NewInMemoryBackend returns an empty backend.
func NewInMemoryBackend() *InMemoryBackend {
	return &InMemoryBackend{entries: make(map[Namespace][]entry)}
}

// Add stores the content under the namespace.
func (b *InMemoryBackend) Add(ctx context.Context, ns Namespace, content string, metadata map[string]string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	memID, err := id.NewID()
	if err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[ns] = append(b.entries[ns], entry{id: memID, content: content, metadata: metadata})
	return memID, nil
}

// Search returns the topK entries in the namespace ranked by keyword
// overlap, most recent first among ties.
func (b *InMemoryBackend) Search(ctx context.Context, ns Namespace, query string, topK int) ([]Snippet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	entries := b.entries[ns]
	scored := make([]Snippet, 0, len(entries))
	for i, e := range entries {
		score := OverlapScore(query, e.content)
		// Recency as a small tie-breaker.
		score += float64(i) * 1e-6
		scored = append(scored, Snippet{Content: e.content, Score: score, Metadata: e.metadata})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}

// OverlapScore is the fraction of query terms present in the content,
// case-insensitive. Shared with the sqlite backend so both rank alike.
func OverlapScore(query, content string) float64 {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return 0
	}
	haystack := strings.ToLower(content)
	var hits int
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			hits++
		}
	}
	return float64(hits) / float64(len(terms))
}
