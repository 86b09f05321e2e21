package domain

// Outcome reports what an action resolution produced beyond the mutated
// world state. The phase machine and orchestrator branch on these flags.
type Outcome struct {
	// Messages are the ordered narration lines for this step.
	Messages []Message
	// NodeCrossed is set when movement completed an edge this step.
	NodeCrossed bool
	// ArrivedNodeID is the node reached when NodeCrossed is set.
	ArrivedNodeID string
	// CampArrival marks arrival at a node where camping is offered.
	CampArrival bool
	// DayCrossed is set when the time cycle rolled into a new day.
	DayCrossed bool
	// Nightfall is set when the time step landed on night. Night outranks
	// a camp prompt when both fire on the same step.
	Nightfall bool
	// AwaitReply is set when a companion addressed the player directly and
	// the next input should be speech.
	AwaitReply bool
	// GateSatisfied marks that the action satisfied the current phase's
	// gate (the awaited SAY, the camp decision, the night vote).
	GateSatisfied bool
	// Terminal is set when the trek ended this step.
	Terminal bool
	// Summary is a one-line description of the step for memory events.
	Summary string
}
