// Package phase owns the narrative state machine: which actions each phase
// admits, and which phase follows a resolved action.
package phase

import (
	"github.com/louisbranch/switchback/internal/trek/domain"
	"github.com/louisbranch/switchback/internal/trek/route"
)

// IsActionAllowed reports whether the phase admits the action. It says
// nothing about payload validity; the resolver checks that.
func IsActionAllowed(p domain.Phase, action domain.ActionType) bool {
	switch p {
	case domain.PhaseFree:
		switch action {
		case domain.ActionMoveForward, domain.ActionRest, domain.ActionObserve, domain.ActionSay:
			return true
		}
		return false
	case domain.PhaseAwaitPlayerSay, domain.PhaseNightWaitPlayer:
		return action == domain.ActionSay
	case domain.PhaseAwaitCampDecision:
		return action == domain.ActionCamp || action == domain.ActionMoveForward
	case domain.PhaseNightVoteReady:
		return action == domain.ActionDecide
	}
	return false
}

// Next computes the phase that follows a successfully resolved action.
// Nightfall outranks a camp prompt when one step triggers both; night is a
// hard boundary while camping is advisory.
func Next(current domain.Phase, action domain.ActionType, out domain.Outcome) domain.Phase {
	switch current {
	case domain.PhaseNightWaitPlayer:
		return domain.PhaseNightVoteReady
	case domain.PhaseNightVoteReady:
		return domain.PhaseFree
	case domain.PhaseFree, domain.PhaseAwaitPlayerSay, domain.PhaseAwaitCampDecision:
		if out.Nightfall {
			return domain.PhaseNightWaitPlayer
		}
		if out.CampArrival {
			return domain.PhaseAwaitCampDecision
		}
		if out.AwaitReply {
			return domain.PhaseAwaitPlayerSay
		}
		return domain.PhaseFree
	}
	return current
}

// TrekOver reports the derived game-over condition: the whole party is out
// of stamina, or the party stands on a terminal node. A party still in
// transit has not arrived anywhere.
func TrekOver(ws *domain.WorldState, g *route.Graph) bool {
	if ws.AllExhausted() {
		return true
	}
	return ws.InTransit == nil && g.IsTerminal(ws.CurrentNodeID)
}
