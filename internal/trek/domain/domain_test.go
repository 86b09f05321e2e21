package domain

import (
	"fmt"
	"testing"
)

func TestClampAttrs(t *testing.T) {
	a := RoleAttrs{Stamina: 120, Mood: -5, Experience: 50, RiskTolerance: 101, Supplies: 0}
	a.Clamp()
	if a.Stamina != 100 || a.Mood != 0 || a.Experience != 50 || a.RiskTolerance != 100 || a.Supplies != 0 {
		t.Errorf("clamped attrs = %+v", a)
	}
}

func TestApplyClamps(t *testing.T) {
	a := RoleAttrs{Stamina: 95, Mood: 3, Experience: 99, Supplies: 10}
	a.Apply(18, -6, 2, -12)
	if a.Stamina != 100 {
		t.Errorf("stamina = %d, want 100", a.Stamina)
	}
	if a.Mood != 0 {
		t.Errorf("mood = %d, want 0", a.Mood)
	}
	if a.Experience != 100 {
		t.Errorf("experience = %d, want 100", a.Experience)
	}
	if a.Supplies != 0 {
		t.Errorf("supplies = %d, want 0", a.Supplies)
	}
}

func TestNormalizeRole(t *testing.T) {
	role, err := NormalizeRole(Role{ID: " r1 ", Name: " Ada "})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if role.ID != "r1" || role.Name != "Ada" {
		t.Errorf("role = %+v", role)
	}
	if role.Attrs != DefaultRoleAttrs() {
		t.Errorf("attrs = %+v, want defaults", role.Attrs)
	}
	if role.AvatarKey != "default" {
		t.Errorf("avatar = %q", role.AvatarKey)
	}

	if _, err := NormalizeRole(Role{Name: "Ada"}); err != ErrEmptyRoleID {
		t.Errorf("missing id: err = %v", err)
	}
	if _, err := NormalizeRole(Role{ID: "r1", Name: "  "}); err != ErrEmptyRoleName {
		t.Errorf("missing name: err = %v", err)
	}
}

func TestNormalizeRoleKeepsExplicitAttrs(t *testing.T) {
	in := Role{ID: "r1", Name: "Ada", Attrs: RoleAttrs{Stamina: 200, Mood: 50, Experience: 1, RiskTolerance: 1, Supplies: 1}}
	role, err := NormalizeRole(in)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if role.Attrs.Stamina != 100 {
		t.Errorf("stamina = %d, want clamped 100", role.Attrs.Stamina)
	}
	if role.Attrs.Mood != 50 {
		t.Errorf("mood = %d, want 50", role.Attrs.Mood)
	}
}

func TestQuickstartRoles(t *testing.T) {
	roles := QuickstartRoles()
	if len(roles) != 3 {
		t.Fatalf("got %d roles, want 3", len(roles))
	}
	seen := map[string]bool{}
	for _, r := range roles {
		if seen[r.ID] {
			t.Errorf("duplicate role id %q", r.ID)
		}
		seen[r.ID] = true
		if _, err := NormalizeRole(r); err != nil {
			t.Errorf("role %q invalid: %v", r.ID, err)
		}
	}
	if roles[0].ID != "r_ao" {
		t.Errorf("first role = %q, want r_ao", roles[0].ID)
	}
}

func TestNextTime(t *testing.T) {
	for _, tc := range []struct {
		in      TimeOfDay
		want    TimeOfDay
		crossed bool
	}{
		{TimeMorning, TimeNoon, false},
		{TimeNoon, TimeAfternoon, false},
		{TimeAfternoon, TimeEvening, false},
		{TimeEvening, TimeNight, false},
		{TimeNight, TimeMorning, true},
	} {
		got, crossed := NextTime(tc.in)
		if got != tc.want || crossed != tc.crossed {
			t.Errorf("NextTime(%s) = (%s, %v), want (%s, %v)", tc.in, got, crossed, tc.want, tc.crossed)
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	ws := WorldState{
		SessionID:      "trek-1",
		InTransit:      &Transit{FromID: "a", ToID: "b", ProgressKM: 1, TotalKM: 4},
		VisitedNodeIDs: []string{"a"},
		Roles:          []Role{{ID: "r1", Name: "Ada", Attrs: DefaultRoleAttrs()}},
		RecentEvents:   []string{"left camp"},
	}
	clone := ws.Clone()
	clone.InTransit.ProgressKM = 3
	clone.Roles[0].Attrs.Stamina = 1
	clone.VisitedNodeIDs[0] = "z"
	clone.RecentEvents[0] = "changed"

	if ws.InTransit.ProgressKM != 1 {
		t.Error("transit shared between clone and original")
	}
	if ws.Roles[0].Attrs.Stamina != 70 {
		t.Error("roles shared between clone and original")
	}
	if ws.VisitedNodeIDs[0] != "a" || ws.RecentEvents[0] != "left camp" {
		t.Error("slices shared between clone and original")
	}
}

func TestRoleLookup(t *testing.T) {
	ws := WorldState{Roles: QuickstartRoles(), ActiveRoleID: "r_ao"}

	role, ok := ws.Role("r_tb")
	if !ok || role.Name != "Taibai" {
		t.Fatalf("Role(r_tb) = %v, %v", role, ok)
	}
	role.Attrs.Stamina = 5
	if again, _ := ws.Role("r_tb"); again.Attrs.Stamina != 5 {
		t.Error("Role should return a pointer into the roster")
	}

	if _, ok := ws.Role("missing"); ok {
		t.Error("unexpected hit for missing role")
	}

	active, ok := ws.ActiveRole()
	if !ok || active.ID != "r_ao" {
		t.Errorf("ActiveRole = %v, %v", active, ok)
	}

	companions := ws.Companions()
	if len(companions) != 2 {
		t.Fatalf("companions = %d, want 2", len(companions))
	}
	if companions[0].ID != "r_tb" || companions[1].ID != "r_xs" {
		t.Errorf("companion order = %s, %s", companions[0].ID, companions[1].ID)
	}
}

func TestAllExhausted(t *testing.T) {
	ws := WorldState{Roles: QuickstartRoles()}
	if ws.AllExhausted() {
		t.Error("fresh roster should not be exhausted")
	}
	for i := range ws.Roles {
		ws.Roles[i].Attrs.Stamina = 0
	}
	if !ws.AllExhausted() {
		t.Error("zeroed roster should be exhausted")
	}

	empty := WorldState{}
	if empty.AllExhausted() {
		t.Error("empty roster must not count as exhausted")
	}
}

func TestPushEventRing(t *testing.T) {
	var ws WorldState
	for i := 0; i < 15; i++ {
		ws.PushEvent(fmt.Sprintf("event %d", i))
	}
	if len(ws.RecentEvents) != 10 {
		t.Fatalf("ring size = %d, want 10", len(ws.RecentEvents))
	}
	if ws.RecentEvents[0] != "event 5" || ws.RecentEvents[9] != "event 14" {
		t.Errorf("ring window = [%s .. %s]", ws.RecentEvents[0], ws.RecentEvents[9])
	}
}

func TestPushChatWindow(t *testing.T) {
	var ws WorldState
	for i := 0; i < 25; i++ {
		ws.PushChat(ChatEntry{SpeakerName: "Ada", Kind: MessageSpeech, Content: fmt.Sprintf("line %d", i)})
	}
	if len(ws.ChatHistory) != 20 {
		t.Fatalf("window size = %d, want 20", len(ws.ChatHistory))
	}
	if ws.ChatHistory[0].Content != "line 5" {
		t.Errorf("oldest = %q", ws.ChatHistory[0].Content)
	}
}

func TestMarkVisited(t *testing.T) {
	var ws WorldState
	ws.MarkVisited("start")
	ws.MarkVisited("start")
	ws.MarkVisited("camp_2800")
	if len(ws.VisitedNodeIDs) != 2 {
		t.Errorf("visited = %v", ws.VisitedNodeIDs)
	}
	if !ws.Visited("camp_2800") || ws.Visited("ridge_wind") {
		t.Error("Visited lookups wrong")
	}
}

func TestActionTypeValid(t *testing.T) {
	for _, a := range []ActionType{ActionMoveForward, ActionRest, ActionCamp, ActionObserve, ActionSay, ActionDecide} {
		if !a.Valid() {
			t.Errorf("%s should be valid", a)
		}
	}
	if ActionType("DANCE").Valid() {
		t.Error("unknown action reported valid")
	}
}

func TestPhaseValid(t *testing.T) {
	for _, p := range []Phase{PhaseFree, PhaseAwaitPlayerSay, PhaseAwaitCampDecision, PhaseNightWaitPlayer, PhaseNightVoteReady} {
		if !p.Valid() {
			t.Errorf("%s should be valid", p)
		}
	}
	if Phase("limbo").Valid() {
		t.Error("unknown phase reported valid")
	}
}
