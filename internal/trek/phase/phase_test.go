package phase

import (
	"testing"

	"github.com/louisbranch/switchback/internal/trek/domain"
	"github.com/louisbranch/switchback/internal/trek/route"
)

var allActions = []domain.ActionType{
	domain.ActionMoveForward,
	domain.ActionRest,
	domain.ActionCamp,
	domain.ActionObserve,
	domain.ActionSay,
	domain.ActionDecide,
}

func TestIsActionAllowed(t *testing.T) {
	allowed := map[domain.Phase]map[domain.ActionType]bool{
		domain.PhaseFree: {
			domain.ActionMoveForward: true,
			domain.ActionRest:        true,
			domain.ActionObserve:     true,
			domain.ActionSay:         true,
		},
		domain.PhaseAwaitPlayerSay: {
			domain.ActionSay: true,
		},
		domain.PhaseAwaitCampDecision: {
			domain.ActionCamp:        true,
			domain.ActionMoveForward: true,
		},
		domain.PhaseNightWaitPlayer: {
			domain.ActionSay: true,
		},
		domain.PhaseNightVoteReady: {
			domain.ActionDecide: true,
		},
	}

	for phase, want := range allowed {
		for _, action := range allActions {
			if got := IsActionAllowed(phase, action); got != want[action] {
				t.Errorf("IsActionAllowed(%s, %s) = %v, want %v", phase, action, got, want[action])
			}
		}
	}
}

func TestIsActionAllowedUnknownPhase(t *testing.T) {
	for _, action := range allActions {
		if IsActionAllowed(domain.Phase("limbo"), action) {
			t.Errorf("unknown phase admitted %s", action)
		}
	}
}

func TestNextFromFree(t *testing.T) {
	for _, tc := range []struct {
		name string
		out  domain.Outcome
		want domain.Phase
	}{
		{"plain move", domain.Outcome{NodeCrossed: true}, domain.PhaseFree},
		{"camp arrival", domain.Outcome{NodeCrossed: true, CampArrival: true}, domain.PhaseAwaitCampDecision},
		{"nightfall", domain.Outcome{Nightfall: true}, domain.PhaseNightWaitPlayer},
		{"companion question", domain.Outcome{AwaitReply: true}, domain.PhaseAwaitPlayerSay},
	} {
		if got := Next(domain.PhaseFree, domain.ActionMoveForward, tc.out); got != tc.want {
			t.Errorf("%s: next = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestNightOutranksCamp(t *testing.T) {
	out := domain.Outcome{NodeCrossed: true, CampArrival: true, Nightfall: true}
	if got := Next(domain.PhaseFree, domain.ActionMoveForward, out); got != domain.PhaseNightWaitPlayer {
		t.Errorf("next = %s, want %s", got, domain.PhaseNightWaitPlayer)
	}
}

func TestNextFromAwaitPlayerSay(t *testing.T) {
	if got := Next(domain.PhaseAwaitPlayerSay, domain.ActionSay, domain.Outcome{GateSatisfied: true}); got != domain.PhaseFree {
		t.Errorf("next = %s, want %s", got, domain.PhaseFree)
	}
	out := domain.Outcome{GateSatisfied: true, Nightfall: true}
	if got := Next(domain.PhaseAwaitPlayerSay, domain.ActionSay, out); got != domain.PhaseNightWaitPlayer {
		t.Errorf("next with nightfall = %s, want %s", got, domain.PhaseNightWaitPlayer)
	}
}

func TestNextFromCampDecision(t *testing.T) {
	if got := Next(domain.PhaseAwaitCampDecision, domain.ActionCamp, domain.Outcome{DayCrossed: true}); got != domain.PhaseFree {
		t.Errorf("camp: next = %s, want %s", got, domain.PhaseFree)
	}
	if got := Next(domain.PhaseAwaitCampDecision, domain.ActionMoveForward, domain.Outcome{}); got != domain.PhaseFree {
		t.Errorf("push on: next = %s, want %s", got, domain.PhaseFree)
	}
}

func TestNightCycle(t *testing.T) {
	if got := Next(domain.PhaseNightWaitPlayer, domain.ActionSay, domain.Outcome{GateSatisfied: true}); got != domain.PhaseNightVoteReady {
		t.Errorf("night say: next = %s, want %s", got, domain.PhaseNightVoteReady)
	}
	if got := Next(domain.PhaseNightVoteReady, domain.ActionDecide, domain.Outcome{GateSatisfied: true}); got != domain.PhaseFree {
		t.Errorf("night vote: next = %s, want %s", got, domain.PhaseFree)
	}
}

func TestTrekOver(t *testing.T) {
	g, err := route.Load(route.DefaultTheme)
	if err != nil {
		t.Fatalf("load route: %v", err)
	}

	ws := domain.WorldState{CurrentNodeID: "start", Roles: domain.QuickstartRoles()}
	if TrekOver(&ws, g) {
		t.Error("fresh session should not be over")
	}

	ws.CurrentNodeID = "end_exit"
	if !TrekOver(&ws, g) {
		t.Error("terminal node should end the trek")
	}

	// In transit toward a terminal node is not arrival.
	ws.InTransit = &domain.Transit{FromID: "ba_xian_tai", ToID: "end_exit", TotalKM: 10}
	if TrekOver(&ws, g) {
		t.Error("party in transit is not at a terminal node")
	}

	ws = domain.WorldState{CurrentNodeID: "stone_sea", Roles: domain.QuickstartRoles()}
	for i := range ws.Roles {
		ws.Roles[i].Attrs.Stamina = 0
	}
	if !TrekOver(&ws, g) {
		t.Error("exhausted party should end the trek")
	}
}
