package companion

import (
	"fmt"
	"strings"

	"github.com/louisbranch/switchback/internal/trek/domain"
	"github.com/louisbranch/switchback/internal/trek/memory"
)

// chatWindow is how many transcript lines reach the prompt.
const chatWindow = 8

func systemPrompt(role domain.Role) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, a member of a small mountain trekking party.\n", role.Name)
	fmt.Fprintf(&b, "Persona: %s\n", role.Persona)
	b.WriteString("Stay in character. Reply with one short spoken line, no narration, no quotes, ")
	fmt.Fprintf(&b, "at most %d characters. React to what just happened.", ReplyLimit)
	return b.String()
}

func userPrompt(turn Turn, role domain.Role, roleSnips, worldSnips []memory.Snippet) string {
	ws := turn.World
	var b strings.Builder

	fmt.Fprintf(&b, "Day %d, %s, weather %s. Location: %s.\n", ws.Day, ws.TimeOfDay, ws.Weather, turn.LocationName)
	fmt.Fprintf(&b, "Your condition: stamina %d, mood %d, supplies %d.\n",
		role.Attrs.Stamina, role.Attrs.Mood, role.Attrs.Supplies)

	if len(worldSnips) > 0 {
		b.WriteString("What the party remembers:\n")
		for _, s := range worldSnips {
			fmt.Fprintf(&b, "- %s\n", s.Content)
		}
	}
	if len(roleSnips) > 0 {
		b.WriteString("What you personally remember:\n")
		for _, s := range roleSnips {
			fmt.Fprintf(&b, "- %s\n", s.Content)
		}
	}

	history := ws.ChatHistory
	if len(history) > chatWindow {
		history = history[len(history)-chatWindow:]
	}
	if len(history) > 0 {
		b.WriteString("Recent conversation:\n")
		for _, line := range history {
			fmt.Fprintf(&b, "%s: %s\n", line.SpeakerName, line.Content)
		}
	}

	fmt.Fprintf(&b, "Just now: %s\nYour reply:", turn.Trigger)
	return b.String()
}

// retrievalQuery builds the memory search text from where the party is and
// what just happened.
func retrievalQuery(turn Turn) string {
	ws := turn.World
	parts := []string{turn.LocationName, string(ws.Weather), turn.Trigger}
	if n := len(ws.RecentEvents); n > 0 {
		start := n - 3
		if start < 0 {
			start = 0
		}
		parts = append(parts, ws.RecentEvents[start:]...)
	}
	return strings.Join(parts, " ")
}
