package session

import (
	"context"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/switchback/internal/errors"
	"github.com/louisbranch/switchback/internal/trek/companion"
	"github.com/louisbranch/switchback/internal/trek/domain"
	"github.com/louisbranch/switchback/internal/trek/phase"
)

// Act applies one player action to a session. On success it returns the
// committed world state and the ordered message list: the action's own
// messages first, then companion lines in roster order. On a rejected
// action it returns the unchanged state, a single system message explaining
// the rejection, and the coded error; stored state is never mutated on any
// error path.
func (m *Manager) Act(ctx context.Context, sessionID string, action domain.Action) (domain.WorldState, []domain.Message, error) {
	ctx, span := m.tracer.Start(ctx, "trek.act", trace.WithAttributes(
		attribute.String("trek.session_id", sessionID),
		attribute.String("trek.action", string(action.Type)),
	))
	defer span.End()

	s, err := m.lookup(sessionID)
	if err != nil {
		return domain.WorldState{}, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.world.Roles) == 0 {
		return s.world.Clone(), nil, errors.New(errors.CodeRosterEmpty, "session has no roles")
	}
	if phase.TrekOver(&s.world, s.graph) {
		err := errors.New(errors.CodeTrekOver, "the trek has ended")
		return s.world.Clone(), m.rejectionMessages(err), err
	}

	next, out, err := s.resolver.Resolve(s.world, action)
	if err != nil {
		return s.world.Clone(), m.rejectionMessages(err), err
	}

	// The world event must land before fan-out: companions read it as
	// context for this very turn.
	if out.Summary != "" {
		_ = m.gateway.WriteWorldEvent(ctx, sessionID, out.Summary, map[string]string{
			"kind":   "event",
			"action": string(action.Type),
			"node":   next.CurrentNodeID,
			"day":    strconv.Itoa(next.Day),
		})
	}

	var companionMsgs []domain.Message
	if m.generator != nil && shouldReact(action.Type, out) {
		fanCtx, fanSpan := m.tracer.Start(ctx, "trek.companions", trace.WithAttributes(
			attribute.Int("trek.companions", len(next.Companions())),
		))
		companionMsgs = m.generator.React(fanCtx, companion.Turn{
			World:        &next,
			LocationName: s.graph.NodeName(positionID(&next)),
			Trigger:      out.Summary,
		})
		fanSpan.End()

		for _, msg := range companionMsgs {
			next.PushChat(domain.ChatEntry{
				SpeakerID:   msg.RoleID,
				SpeakerName: msg.RoleName,
				Kind:        msg.Kind,
				Content:     msg.Content,
			})
		}
		// A companion question hands the floor to the player.
		if n := len(companionMsgs); n > 0 && strings.HasSuffix(companionMsgs[n-1].Content, "?") {
			out.AwaitReply = true
		}
	}

	next.Phase = phase.Next(s.world.Phase, action.Type, out)
	s.world = next

	messages := append(out.Messages, companionMsgs...)
	return next.Clone(), messages, nil
}

// rejectionMessages wraps the user-facing explanation of a rejected action
// as the response's single system message.
func (m *Manager) rejectionMessages(err error) []domain.Message {
	return []domain.Message{{
		ID:        m.newID(),
		Kind:      domain.MessageSystem,
		Content:   errors.UserMessage(err, "en-US"),
		Timestamp: m.now(),
	}}
}

// shouldReact decides whether companions speak this turn: always after the
// player speaks, and on the notable world beats.
func shouldReact(action domain.ActionType, out domain.Outcome) bool {
	if action == domain.ActionSay {
		return true
	}
	return out.NodeCrossed || out.Nightfall || out.CampArrival
}

func positionID(ws *domain.WorldState) string {
	if ws.InTransit != nil {
		return ws.InTransit.FromID
	}
	return ws.CurrentNodeID
}
