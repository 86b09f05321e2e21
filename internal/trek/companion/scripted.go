package companion

import (
	"context"
	"strings"
	"sync"
)

// Scripted is a deterministic Completer for runs without a dialogue
// backend. It rotates through short canned lines keyed off the prompt so
// treks stay playable offline and tests need no network.
type Scripted struct {
	mu   sync.Mutex
	turn int
}

var scriptedLines = []string{
	"Keep the pace steady, we are doing fine.",
	"I will check the map at the next stop.",
	"Watch your footing through this stretch.",
	"Anyone else feel the temperature dropping?",
	"We should keep an eye on our supplies.",
	"This view almost makes the climb worth it.",
}

// Cues are checked in order so matching is deterministic when a prompt
// contains more than one.
var scriptedCues = []struct{ cue, line string }{
	{"night", "Long day. Let's sort out who leads tomorrow."},
	{"camp", "Camping here sounds sensible to me."},
	{"rain", "Get the covers on, this rain is settling in."},
	{"snow", "Snow this early? Stay close together."},
	{"ridge", "Rope up, the ridge wind is no joke."},
	{"arrive", "Good progress. Everyone still in one piece?"},
}

// Complete returns a canned line, preferring one matching a cue word in
// the prompt.
func (s *Scripted) Complete(ctx context.Context, system, user string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	lowered := strings.ToLower(user)
	for _, c := range scriptedCues {
		if strings.Contains(lowered, c.cue) {
			return c.line, nil
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	line := scriptedLines[s.turn%len(scriptedLines)]
	s.turn++
	return line, nil
}
