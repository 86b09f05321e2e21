package domain

// ActionType enumerates the player-issued verbs the engine understands.
type ActionType string

const (
	ActionMoveForward ActionType = "MOVE_FORWARD"
	ActionRest        ActionType = "REST"
	ActionCamp        ActionType = "CAMP"
	ActionObserve     ActionType = "OBSERVE"
	ActionSay         ActionType = "SAY"
	ActionDecide      ActionType = "DECIDE"
)

// Valid reports whether t is a known action type.
func (t ActionType) Valid() bool {
	switch t {
	case ActionMoveForward, ActionRest, ActionCamp, ActionObserve, ActionSay, ActionDecide:
		return true
	}
	return false
}

// DecisionKind names a structured decision carried by a DECIDE action.
type DecisionKind string

// DecisionNightVote elects the next day's leader during the night phase.
const DecisionNightVote DecisionKind = "night_vote"

// Decision is the structured payload of a DECIDE action. New kinds add
// fields here rather than new action types.
type Decision struct {
	Kind         DecisionKind `json:"kind"`
	LeaderRoleID string       `json:"leader_role_id,omitempty"`
}

// ActionPayload carries the optional parameters of an action. Which fields
// are meaningful depends on the action type.
type ActionPayload struct {
	// Text is the spoken line for SAY.
	Text string `json:"text,omitempty"`
	// NextNodeID picks a branch for MOVE_FORWARD at junctions.
	NextNodeID string `json:"next_node_id,omitempty"`
	// Decision is required for DECIDE.
	Decision *Decision `json:"decision,omitempty"`
}

// Action is a single player input to the engine.
type Action struct {
	Type    ActionType    `json:"type"`
	Payload ActionPayload `json:"payload"`
}
