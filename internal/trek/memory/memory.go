// Package memory mediates between the trek engine and an external memory
// backend. It owns namespace construction, which is how the world-vs-role
// isolation invariant is enforced: callers never pass raw namespace strings.
package memory

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Namespace scopes a memory read or write. World memory is shared by the
// whole party; role memory belongs to exactly one role.
type Namespace string

// World returns the shared namespace for a session.
func World(sessionID string) Namespace {
	return Namespace(fmt.Sprintf("world:%s", sessionID))
}

// Role returns the private namespace for one role in a session.
func Role(sessionID, roleID string) Namespace {
	return Namespace(fmt.Sprintf("role:%s:%s", sessionID, roleID))
}

// Snippet is one retrieved memory with its relevance score.
type Snippet struct {
	Content  string
	Score    float64
	Metadata map[string]string
}

// Backend is the storage contract the gateway depends on. Ranking and
// filtering internals are opaque; only the namespace key scopes results.
type Backend interface {
	Add(ctx context.Context, ns Namespace, content string, metadata map[string]string) (string, error)
	Search(ctx context.Context, ns Namespace, query string, topK int) ([]Snippet, error)
}

// DefaultTopK is the retrieval depth used when callers pass zero.
const DefaultTopK = 5

// Gateway wraps a Backend with timeouts and the degrade-to-empty policy:
// a failed retrieval yields no context, never a failed turn.
type Gateway struct {
	backend Backend
	timeout time.Duration
	logf    func(format string, args ...any)
}

// NewGateway wraps the backend. A zero timeout defaults to two seconds.
func NewGateway(backend Backend, timeout time.Duration) *Gateway {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Gateway{backend: backend, timeout: timeout, logf: log.Printf}
}

// WriteWorldEvent records a shared event for the whole party.
func (g *Gateway) WriteWorldEvent(ctx context.Context, sessionID, event string, metadata map[string]string) error {
	return g.write(ctx, World(sessionID), event, metadata)
}

// WriteRoleEvent records a private event for one role.
func (g *Gateway) WriteRoleEvent(ctx context.Context, sessionID, roleID, event string, metadata map[string]string) error {
	return g.write(ctx, Role(sessionID, roleID), event, metadata)
}

func (g *Gateway) write(ctx context.Context, ns Namespace, event string, metadata map[string]string) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	if _, err := g.backend.Add(ctx, ns, event, metadata); err != nil {
		g.logf("memory: write to %s failed: %v", ns, err)
		return err
	}
	return nil
}

// Retrieve returns up to topK snippets for the namespace. Backend failures
// and timeouts degrade to an empty result plus the error: the turn still
// succeeds, but callers can tell "no memories yet" apart from "backend
// down" and withhold work that depends on real context.
func (g *Gateway) Retrieve(ctx context.Context, ns Namespace, query string, topK int) ([]Snippet, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	snippets, err := g.backend.Search(ctx, ns, query, topK)
	if err != nil {
		g.logf("memory: search %s failed: %v", ns, err)
		return nil, err
	}
	return snippets, nil
}
