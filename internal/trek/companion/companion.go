// Package companion turns resolver outcomes into in-character party
// dialogue. Each companion retrieves its own memory, generates a line, and
// remembers what it said; a failed generation skips that companion's turn
// rather than fabricating a line.
package companion

import (
	"context"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/louisbranch/switchback/internal/platform/id"
	"github.com/louisbranch/switchback/internal/trek/domain"
	"github.com/louisbranch/switchback/internal/trek/memory"
)

// Completer is the dialogue-generation contract: plain text in, one line of
// plain text out.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// ReplyLimit caps companion lines in runes.
const ReplyLimit = 180

// Turn is the context one generation round runs against.
type Turn struct {
	World        *domain.WorldState
	LocationName string
	// Trigger is the one-line summary of what just happened.
	Trigger string
}

// Generator fans generation out across companions and reassembles replies
// in roster order.
type Generator struct {
	gateway   *memory.Gateway
	completer Completer
	timeout   time.Duration
	now       func() time.Time
	newID     func() string
	logf      func(format string, args ...any)
}

// NewGenerator wires a generator. A zero timeout defaults to ten seconds.
func NewGenerator(gateway *memory.Gateway, completer Completer, timeout time.Duration) *Generator {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Generator{
		gateway:   gateway,
		completer: completer,
		timeout:   timeout,
		now:       time.Now,
		newID:     id.MustNewID,
		logf:      log.Printf,
	}
}

// React generates one line per companion. World memory is retrieved once
// and shared; each companion's retrieval, generation, and write-back run
// concurrently against disjoint role namespaces. Emission order follows the
// roster regardless of completion order.
func (g *Generator) React(ctx context.Context, turn Turn) []domain.Message {
	ws := turn.World
	companions := ws.Companions()
	if len(companions) == 0 {
		return nil
	}

	query := retrievalQuery(turn)
	worldSnips, err := g.gateway.Retrieve(ctx, memory.World(ws.SessionID), query, memory.DefaultTopK)
	if err != nil {
		// Shared context is gone for everyone; the whole round stays silent.
		g.logf("companion: world retrieval failed, skipping round: %v", err)
		return nil
	}

	replies := make([]string, len(companions))
	grp, gctx := errgroup.WithContext(ctx)
	for i, role := range companions {
		grp.Go(func() error {
			replies[i] = g.generate(gctx, turn, role, query, worldSnips)
			return nil
		})
	}
	// Workers only record failures as empty replies.
	_ = grp.Wait()

	var messages []domain.Message
	for i, role := range companions {
		if replies[i] == "" {
			continue
		}
		messages = append(messages, domain.Message{
			ID:        g.newID(),
			Kind:      domain.MessageSpeech,
			RoleID:    role.ID,
			RoleName:  role.Name,
			Content:   replies[i],
			Timestamp: g.now(),
		})
	}
	return messages
}

// generate runs one companion's retrieve, complete, write-back round.
// Every failure path returns an empty reply; a missing line is preferable
// to an inconsistent one.
func (g *Generator) generate(ctx context.Context, turn Turn, role domain.Role, query string, worldSnips []memory.Snippet) string {
	ws := turn.World
	roleSnips, err := g.gateway.Retrieve(ctx, memory.Role(ws.SessionID, role.ID), query, memory.DefaultTopK)
	if err != nil {
		g.logf("companion: retrieval for %s failed: %v", role.ID, err)
		return ""
	}

	cctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	raw, err := g.completer.Complete(cctx, systemPrompt(role), userPrompt(turn, role, roleSnips, worldSnips))
	if err != nil {
		g.logf("companion: generation for %s failed: %v", role.ID, err)
		return ""
	}
	reply := sanitizeReply(raw, role.Name)
	if reply == "" {
		return ""
	}

	event := role.Name + " said: " + reply
	if err := g.gateway.WriteRoleEvent(ctx, ws.SessionID, role.ID, event, map[string]string{
		"kind": "speech",
		"node": ws.CurrentNodeID,
	}); err != nil {
		// The line already exists; losing the memory write only dulls
		// future recall.
		g.logf("companion: write-back for %s failed: %v", role.ID, err)
	}
	return reply
}

// sanitizeReply trims generation artifacts and enforces the reply cap.
func sanitizeReply(raw, roleName string) string {
	reply := strings.TrimSpace(raw)
	reply = strings.Trim(reply, `"`)
	// Models often echo the speaker tag back.
	reply = strings.TrimPrefix(reply, roleName+":")
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return ""
	}
	runes := []rune(reply)
	if len(runes) > ReplyLimit {
		reply = string(runes[:ReplyLimit])
	}
	return reply
}
