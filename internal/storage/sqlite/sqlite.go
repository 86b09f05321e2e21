// Package sqlite is the durable memory backend. It stores memories in a
// single table keyed by namespace and ranks retrievals with the same
// keyword-overlap scoring as the in-process backend.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	_ "modernc.org/sqlite"

	"github.com/louisbranch/switchback/internal/platform/id"
	"github.com/louisbranch/switchback/internal/trek/memory"
)

//go:embed schema.sql
var schema string

// Store implements memory.Backend over a sqlite database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle. Safe on a nil store.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Add stores one memory under the namespace and returns its ID.
func (s *Store) Add(ctx context.Context, ns memory.Namespace, content string, metadata map[string]string) (string, error) {
	var meta []byte
	if len(metadata) > 0 {
		var err error
		meta, err = json.Marshal(metadata)
		if err != nil {
			return "", fmt.Errorf("encode metadata: %w", err)
		}
	}

	memID, err := id.NewID()
	if err != nil {
		return "", fmt.Errorf("generate memory id: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO memories (id, namespace, content, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		memID, string(ns), content, meta, time.Now().UnixMilli(),
	)
	if err != nil {
		return "", fmt.Errorf("insert memory: %w", err)
	}
	return memID, nil
}

// Search returns the topK memories in the namespace ranked by keyword
// overlap with the query, newest first among ties.
func (s *Store) Search(ctx context.Context, ns memory.Namespace, query string, topK int) ([]memory.Snippet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT content, metadata, created_at FROM memories
		 WHERE namespace = ? ORDER BY created_at ASC`,
		string(ns),
	)
	if err != nil {
		return nil, fmt.Errorf("query memories: %w", err)
	}
	defer rows.Close()

	var snippets []memory.Snippet
	for i := 0; rows.Next(); i++ {
		var content string
		var meta []byte
		var createdAt int64
		if err := rows.Scan(&content, &meta, &createdAt); err != nil {
			return nil, fmt.Errorf("scan memory: %w", err)
		}
		var metadata map[string]string
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &metadata); err != nil {
				return nil, fmt.Errorf("decode metadata: %w", err)
			}
		}
		// Recency as a small tie-breaker, matching the in-process backend.
		score := memory.OverlapScore(query, content) + float64(i)*1e-6
		snippets = append(snippets, memory.Snippet{Content: content, Score: score, Metadata: metadata})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate memories: %w", err)
	}

	sort.SliceStable(snippets, func(i, j int) bool { return snippets[i].Score > snippets[j].Score })
	if len(snippets) > topK {
		snippets = snippets[:topK]
	}
	return snippets, nil
}
