package companion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/louisbranch/switchback/internal/trek/domain"
	"github.com/louisbranch/switchback/internal/trek/memory"
)

// fakeCompleter answers per role name with canned lines or failures.
type fakeCompleter struct {
	mu      sync.Mutex
	replies map[string]string
	fails   map[string]bool
	delays  map[string]time.Duration
	calls   []string
}

func (f *fakeCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	var name string
	f.mu.Lock()
	for candidate := range f.replies {
		if strings.Contains(system, candidate) {
			name = candidate
		}
	}
	for candidate := range f.fails {
		if strings.Contains(system, candidate) {
			name = candidate
		}
	}
	f.calls = append(f.calls, name)
	f.mu.Unlock()

	if d := f.delays[name]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.fails[name] {
		return "", errors.New("model unavailable")
	}
	return f.replies[name], nil
}

func testTurn(t *testing.T) (Turn, *memory.InMemoryBackend, *memory.Gateway) {
	t.Helper()
	backend := memory.NewInMemoryBackend()
	gateway := memory.NewGateway(backend, time.Second)
	ws := &domain.WorldState{
		SessionID:     "trek-1",
		Day:           1,
		TimeOfDay:     domain.TimeAfternoon,
		Weather:       domain.WeatherCloudy,
		CurrentNodeID: "camp_2800",
		Roles:         domain.QuickstartRoles(),
		ActiveRoleID:  "r_ao",
	}
	return Turn{World: ws, LocationName: "Camp 2800", Trigger: "The party reaches Camp 2800."}, backend, gateway
}

func newTestGenerator(gateway *memory.Gateway, completer Completer) *Generator {
	g := NewGenerator(gateway, completer, time.Second)
	g.logf = func(string, ...any) {}
	g.now = func() time.Time { return time.Unix(1700000000, 0).UTC() }
	var n int
	var mu sync.Mutex
	g.newID = func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("c%d", n)
	}
	return g
}

func TestReactEmitsInRosterOrder(t *testing.T) {
	turn, _, gateway := testTurn(t)
	completer := &fakeCompleter{
		replies: map[string]string{"Taibai": "Pressure is dropping.", "Xiaoshan": "Race you to the tents!"},
		// The first roster companion answers last.
		delays: map[string]time.Duration{"Taibai": 50 * time.Millisecond},
	}
	g := newTestGenerator(gateway, completer)

	msgs := g.React(context.Background(), turn)
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want 2", len(msgs))
	}
	if msgs[0].RoleID != "r_tb" || msgs[1].RoleID != "r_xs" {
		t.Errorf("order = %s, %s; want roster order r_tb, r_xs", msgs[0].RoleID, msgs[1].RoleID)
	}
	for _, m := range msgs {
		if m.Kind != domain.MessageSpeech {
			t.Errorf("kind = %s, want speech", m.Kind)
		}
	}
}

func TestReactSkipsActiveRole(t *testing.T) {
	turn, _, gateway := testTurn(t)
	completer := &fakeCompleter{replies: map[string]string{
		"Ao": "should never speak", "Taibai": "ok", "Xiaoshan": "ok",
	}}
	g := newTestGenerator(gateway, completer)

	for _, m := range g.React(context.Background(), turn) {
		if m.RoleID == "r_ao" {
			t.Error("active role must not generate a companion line")
		}
	}
}

func TestReactSkipsFailedRole(t *testing.T) {
	turn, _, gateway := testTurn(t)
	completer := &fakeCompleter{
		replies: map[string]string{"Xiaoshan": "Still with you!"},
		fails:   map[string]bool{"Taibai": true},
	}
	g := newTestGenerator(gateway, completer)

	msgs := g.React(context.Background(), turn)
	if len(msgs) != 1 {
		t.Fatalf("messages = %d, want 1 (failed role skipped)", len(msgs))
	}
	if msgs[0].RoleID != "r_xs" {
		t.Errorf("speaker = %s, want r_xs", msgs[0].RoleID)
	}
}

// nsFailBackend fails Search for selected namespaces and defers the rest to
// a working in-process backend.
type nsFailBackend struct {
	*memory.InMemoryBackend
	fail map[memory.Namespace]bool
}

func (b nsFailBackend) Search(ctx context.Context, ns memory.Namespace, query string, topK int) ([]memory.Snippet, error) {
	if b.fail[ns] {
		return nil, errors.New("backend down")
	}
	return b.InMemoryBackend.Search(ctx, ns, query, topK)
}

func TestReactSilentWhenWorldRetrievalFails(t *testing.T) {
	turn, _, _ := testTurn(t)
	backend := nsFailBackend{
		InMemoryBackend: memory.NewInMemoryBackend(),
		fail:            map[memory.Namespace]bool{memory.World("trek-1"): true},
	}
	gateway := memory.NewGateway(backend, time.Second)
	completer := &fakeCompleter{replies: map[string]string{"Taibai": "ok", "Xiaoshan": "ok"}}
	g := newTestGenerator(gateway, completer)

	if msgs := g.React(context.Background(), turn); msgs != nil {
		t.Errorf("messages = %+v, want none when shared retrieval fails", msgs)
	}
	if len(completer.calls) != 0 {
		t.Errorf("completer called %d times, want 0 without shared context", len(completer.calls))
	}
}

func TestReactSkipsRoleWhoseRetrievalFails(t *testing.T) {
	turn, _, _ := testTurn(t)
	backend := nsFailBackend{
		InMemoryBackend: memory.NewInMemoryBackend(),
		fail:            map[memory.Namespace]bool{memory.Role("trek-1", "r_tb"): true},
	}
	gateway := memory.NewGateway(backend, time.Second)
	completer := &fakeCompleter{replies: map[string]string{"Taibai": "ok", "Xiaoshan": "Still with you!"}}
	g := newTestGenerator(gateway, completer)

	msgs := g.React(context.Background(), turn)
	if len(msgs) != 1 || msgs[0].RoleID != "r_xs" {
		t.Errorf("messages = %+v, want only r_xs", msgs)
	}
}

func TestReactSkipsEmptyReply(t *testing.T) {
	turn, _, gateway := testTurn(t)
	completer := &fakeCompleter{replies: map[string]string{"Taibai": "   ", "Xiaoshan": "here"}}
	g := newTestGenerator(gateway, completer)

	msgs := g.React(context.Background(), turn)
	if len(msgs) != 1 || msgs[0].RoleID != "r_xs" {
		t.Errorf("messages = %+v, want only r_xs", msgs)
	}
}

func TestReactWritesBackToOwnNamespace(t *testing.T) {
	turn, _, gateway := testTurn(t)
	completer := &fakeCompleter{replies: map[string]string{"Taibai": "Logging the altitude.", "Xiaoshan": "Noted!"}}
	g := newTestGenerator(gateway, completer)

	g.React(context.Background(), turn)

	tb, err := gateway.Retrieve(context.Background(), memory.Role("trek-1", "r_tb"), "altitude", 5)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if len(tb) != 1 || !strings.Contains(tb[0].Content, "Taibai said:") {
		t.Fatalf("r_tb memory = %+v", tb)
	}
	xs, err := gateway.Retrieve(context.Background(), memory.Role("trek-1", "r_xs"), "altitude Noted", 5)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	for _, snip := range xs {
		if strings.Contains(snip.Content, "Taibai") {
			t.Errorf("r_xs namespace holds another role's line: %q", snip.Content)
		}
	}
}

func TestReactCapsReplyLength(t *testing.T) {
	turn, _, gateway := testTurn(t)
	completer := &fakeCompleter{replies: map[string]string{
		"Taibai": strings.Repeat("x", 400), "Xiaoshan": "short",
	}}
	g := newTestGenerator(gateway, completer)

	msgs := g.React(context.Background(), turn)
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want 2", len(msgs))
	}
	if got := len([]rune(msgs[0].Content)); got != ReplyLimit {
		t.Errorf("reply length = %d, want %d", got, ReplyLimit)
	}
}

func TestReactNoCompanions(t *testing.T) {
	turn, _, gateway := testTurn(t)
	turn.World.Roles = turn.World.Roles[:1]
	g := newTestGenerator(gateway, &fakeCompleter{})

	if msgs := g.React(context.Background(), turn); msgs != nil {
		t.Errorf("messages = %+v, want nil", msgs)
	}
}

func TestSanitizeReply(t *testing.T) {
	for _, tc := range []struct {
		in, want string
	}{
		{`"Rope up here."`, "Rope up here."},
		{"Taibai: checking the map", "checking the map"},
		{"  spaced  ", "spaced"},
		{"   ", ""},
	} {
		if got := sanitizeReply(tc.in, "Taibai"); got != tc.want {
			t.Errorf("sanitizeReply(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestScriptedCompleterCues(t *testing.T) {
	s := &Scripted{}

	line, err := s.Complete(context.Background(), "system", "Night falls over the mountain.")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !strings.Contains(line, "leads tomorrow") {
		t.Errorf("night cue line = %q", line)
	}

	first, _ := s.Complete(context.Background(), "system", "nothing special")
	second, _ := s.Complete(context.Background(), "system", "nothing special")
	if first == second {
		t.Error("uncued lines should rotate")
	}
}

func TestPromptsIncludeStateAndMemory(t *testing.T) {
	turn, _, _ := testTurn(t)
	turn.World.PushChat(domain.ChatEntry{SpeakerName: "Ao", Kind: domain.MessageSpeech, Content: "Stay sharp."})
	role := turn.World.Roles[1]

	sys := systemPrompt(role)
	if !strings.Contains(sys, "Taibai") || !strings.Contains(sys, role.Persona) {
		t.Errorf("system prompt missing identity: %q", sys)
	}

	user := userPrompt(turn, role, []memory.Snippet{{Content: "private note"}}, []memory.Snippet{{Content: "shared note"}})
	for _, want := range []string{"Camp 2800", "cloudy", "private note", "shared note", "Stay sharp.", turn.Trigger} {
		if !strings.Contains(user, want) {
			t.Errorf("user prompt missing %q", want)
		}
	}
}
