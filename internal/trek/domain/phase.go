package domain

// Phase gates which actions a session accepts. Transitions are owned by the
// phase package; this type only names the states.
type Phase string

const (
	// PhaseFree accepts every action; the default daytime state.
	PhaseFree Phase = "free"
	// PhaseAwaitPlayerSay expects the player to speak after companions
	// addressed them.
	PhaseAwaitPlayerSay Phase = "await_player_say"
	// PhaseAwaitCampDecision follows arrival at a campable node: camp or
	// push on.
	PhaseAwaitCampDecision Phase = "await_camp_decision"
	// PhaseNightWaitPlayer is the night conversation before the leader vote
	// is open.
	PhaseNightWaitPlayer Phase = "night_wait_player"
	// PhaseNightVoteReady accepts the leader vote that ends the night.
	PhaseNightVoteReady Phase = "night_vote_ready"
)

// Valid reports whether p is a known phase.
func (p Phase) Valid() bool {
	switch p {
	case PhaseFree, PhaseAwaitPlayerSay, PhaseAwaitCampDecision, PhaseNightWaitPlayer, PhaseNightVoteReady:
		return true
	}
	return false
}
