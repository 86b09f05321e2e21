// Package resolve applies player actions to world state. The resolver is
// pure simulation: it never touches memory, generation, or transport.
//
// Resolve works on a copy of the incoming state. When an action is invalid
// the copy is discarded and the caller's state is untouched, which gives the
// orchestrator its commit-on-success contract for free.
package resolve

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/louisbranch/switchback/internal/errors"
	"github.com/louisbranch/switchback/internal/platform/id"
	"github.com/louisbranch/switchback/internal/trek/domain"
	"github.com/louisbranch/switchback/internal/trek/phase"
	"github.com/louisbranch/switchback/internal/trek/route"
)

// Movement and recovery tuning. Attribute deltas clamp to [0,100] on apply.
const (
	moveTickBaseKM = 2.0

	restStamina = 10
	restMood    = 4

	campStamina  = 18
	campMood     = 6
	campSupplies = 12

	observeStamina    = 2
	observeMood       = 2
	observeExperience = 1

	segmentMoodCost   = 2
	segmentExperience = 1

	weatherDriftChance = 0.35

	sayMemoryLimit = 80
)

// Resolver turns one action into a mutated world state plus an outcome.
// The RNG is owned by the session and must not be shared across sessions;
// per-session serialization makes unsynchronized use safe.
type Resolver struct {
	graph *route.Graph
	rng   *rand.Rand
	now   func() time.Time
	newID func() string
}

// New creates a resolver bound to a route graph and a session RNG.
func New(graph *route.Graph, rng *rand.Rand) *Resolver {
	return &Resolver{
		graph: graph,
		rng:   rng,
		now:   time.Now,
		newID: id.MustNewID,
	}
}

// Resolve applies the action to a copy of ws and returns the mutated copy
// with its outcome. On error the returned state is the zero value and ws is
// untouched.
func (r *Resolver) Resolve(ws domain.WorldState, action domain.Action) (domain.WorldState, domain.Outcome, error) {
	if !phase.IsActionAllowed(ws.Phase, action.Type) {
		return domain.WorldState{}, domain.Outcome{}, errors.WithMetadata(
			errors.CodeIllegalAction,
			fmt.Sprintf("action %s not allowed in phase %s", action.Type, ws.Phase),
			map[string]string{"Action": string(action.Type), "Phase": string(ws.Phase)},
		)
	}

	next := ws.Clone()
	var out domain.Outcome
	var err error

	switch action.Type {
	case domain.ActionMoveForward:
		err = r.moveForward(&next, action.Payload, &out)
	case domain.ActionRest:
		r.rest(&next, &out)
	case domain.ActionCamp:
		r.camp(&next, &out)
	case domain.ActionObserve:
		r.observe(&next, &out)
	case domain.ActionSay:
		err = r.say(&next, action.Payload, &out)
	case domain.ActionDecide:
		err = r.decide(&next, action.Payload, &out)
	default:
		err = errors.WithMetadata(errors.CodeIllegalAction,
			fmt.Sprintf("unknown action %s", action.Type),
			map[string]string{"Action": string(action.Type), "Phase": string(ws.Phase)})
	}
	if err != nil {
		return domain.WorldState{}, domain.Outcome{}, err
	}

	if out.Summary != "" {
		next.PushEvent(out.Summary)
	}
	if phase.TrekOver(&next, r.graph) {
		out.Terminal = true
	}
	return next, out, nil
}

func (r *Resolver) moveForward(ws *domain.WorldState, payload domain.ActionPayload, out *domain.Outcome) error {
	if ws.InTransit == nil {
		if err := r.startTransit(ws, payload); err != nil {
			return err
		}
	}

	transit := ws.InTransit
	tick := moveTickBaseKM * staminaFactor(ws.Roles) * weatherSpeed(ws.Weather)
	transit.ProgressKM = math.Min(transit.ProgressKM+tick, transit.TotalKM)

	toName := r.graph.NodeName(transit.ToID)
	if transit.ProgressKM >= transit.TotalKM {
		r.arrive(ws, out)
	} else {
		out.Summary = fmt.Sprintf("The party advanced toward %s (%.1f of %.1f km).", toName, transit.ProgressKM, transit.TotalKM)
		r.pushMessage(ws, out, domain.MessageAction, "", "",
			fmt.Sprintf("%s %.1f of %.1f km to %s.", r.movePhrase(), transit.ProgressKM, transit.TotalKM, toName))
	}

	r.advanceTime(ws, out)
	r.driftWeather(ws, out)
	return nil
}

// startTransit picks the outgoing edge and opens an in-transit record.
func (r *Resolver) startTransit(ws *domain.WorldState, payload domain.ActionPayload) error {
	options := r.graph.NextNodeIDs(ws.CurrentNodeID)
	if len(options) == 0 {
		return errors.WithMetadata(errors.CodeIllegalAction,
			fmt.Sprintf("no route forward from %s", ws.CurrentNodeID),
			map[string]string{"Action": string(domain.ActionMoveForward), "Phase": string(ws.Phase)})
	}

	target := payload.NextNodeID
	if len(options) == 1 && target == "" {
		target = options[0]
	}
	if target == "" {
		return errors.WithMetadata(errors.CodeInvalidChoice,
			fmt.Sprintf("branch at %s requires next_node_id", ws.CurrentNodeID),
			map[string]string{"Choice": "none", "Options": strings.Join(options, ", ")})
	}
	var valid bool
	for _, opt := range options {
		if opt == target {
			valid = true
			break
		}
	}
	if !valid {
		return errors.WithMetadata(errors.CodeInvalidChoice,
			fmt.Sprintf("node %s is not reachable from %s", target, ws.CurrentNodeID),
			map[string]string{"Choice": target, "Options": strings.Join(options, ", ")})
	}

	edge, ok := r.graph.EdgeBetween(ws.CurrentNodeID, target)
	if !ok {
		return errors.New(errors.CodeRouteUnknownNode,
			fmt.Sprintf("no edge %s -> %s", ws.CurrentNodeID, target))
	}
	ws.InTransit = &domain.Transit{
		FromID:  ws.CurrentNodeID,
		ToID:    target,
		TotalKM: edge.DistanceKM,
	}
	ws.AvailableNextIDs = nil
	return nil
}

// arrive finalizes a completed segment: position, stats, branches, prompts.
func (r *Resolver) arrive(ws *domain.WorldState, out *domain.Outcome) {
	transit := ws.InTransit
	ws.CurrentNodeID = transit.ToID
	ws.InTransit = nil
	ws.MarkVisited(transit.ToID)

	cost := int(math.Ceil(transit.TotalKM * weatherCost(ws.Weather)))
	for i := range ws.Roles {
		ws.Roles[i].Attrs.Apply(-cost, -segmentMoodCost, segmentExperience, 0)
	}

	node, _ := r.graph.Node(transit.ToID)
	out.NodeCrossed = true
	out.ArrivedNodeID = node.ID
	out.CampArrival = node.Kind == route.NodeKindCamp
	out.Summary = fmt.Sprintf("The party arrived at %s on day %d (%s, %s).", node.Name, ws.Day, ws.TimeOfDay, ws.Weather)

	if options := r.graph.NextNodeIDs(node.ID); len(options) > 1 {
		ws.AvailableNextIDs = options
	} else {
		ws.AvailableNextIDs = nil
	}

	r.pushMessage(ws, out, domain.MessageAction, "", "",
		fmt.Sprintf("The party reaches %s.", node.Name))
	if node.Hint != "" {
		r.pushMessage(ws, out, domain.MessageSystem, "", "", node.Hint)
	}
	if node.AllowsRetreat && len(ws.AvailableNextIDs) > 1 {
		r.pushMessage(ws, out, domain.MessageSystem, "", "",
			"An evacuation route is available from here.")
	}
}

func (r *Resolver) rest(ws *domain.WorldState, out *domain.Outcome) {
	for i := range ws.Roles {
		ws.Roles[i].Attrs.Apply(restStamina, restMood, 0, 0)
	}
	out.Summary = fmt.Sprintf("The party rested near %s.", r.graph.NodeName(r.positionID(ws)))
	r.pushMessage(ws, out, domain.MessageAction, "", "", r.restPhrase())
	r.advanceTime(ws, out)
}

func (r *Resolver) camp(ws *domain.WorldState, out *domain.Outcome) {
	for i := range ws.Roles {
		ws.Roles[i].Attrs.Apply(campStamina, campMood, 0, -campSupplies)
	}
	ws.Day++
	ws.TimeOfDay = domain.TimeMorning
	out.DayCrossed = true
	out.Summary = fmt.Sprintf("The party camped at %s; day %d begins.", r.graph.NodeName(ws.CurrentNodeID), ws.Day)
	r.pushMessage(ws, out, domain.MessageAction, "", "",
		fmt.Sprintf("The party makes camp. Morning of day %d.", ws.Day))
	r.driftWeather(ws, out)
}

func (r *Resolver) observe(ws *domain.WorldState, out *domain.Outcome) {
	for i := range ws.Roles {
		ws.Roles[i].Attrs.Apply(-observeStamina, observeMood, observeExperience, 0)
	}

	pos := r.positionID(ws)
	out.Summary = fmt.Sprintf("The party took in the surroundings near %s.", r.graph.NodeName(pos))
	if r.rng.Float64() < r.observeEventChance(ws, pos) {
		r.pushMessage(ws, out, domain.MessageSystem, "", "", r.observePhrase(ws.Weather))
	} else {
		r.pushMessage(ws, out, domain.MessageAction, "", "",
			"The party pauses and looks around. Nothing unusual.")
	}
}

func (r *Resolver) say(ws *domain.WorldState, payload domain.ActionPayload, out *domain.Outcome) error {
	text := strings.TrimSpace(payload.Text)
	if text == "" {
		return errors.New(errors.CodeEmptyInput, "say requires non-empty text")
	}
	speaker, ok := ws.ActiveRole()
	if !ok {
		return errors.New(errors.CodeActiveRoleUnset, "no active role to speak")
	}

	out.GateSatisfied = true
	out.Summary = fmt.Sprintf("%s said: %q", speaker.Name, truncate(text, sayMemoryLimit))
	r.pushMessage(ws, out, domain.MessageSpeech, speaker.ID, speaker.Name, text)

	if campIntent(text) {
		out.CampArrival = true
		r.pushMessage(ws, out, domain.MessageSystem, "", "",
			"Choose: camp to restore stamina, or continue forward.")
	}
	return nil
}

// campIntentKeywords mark speech that proposes settling down or breaking
// off the trek; either opens the camp-or-forward choice.
var campIntentKeywords = []string{
	"camp",
	"tent",
	"call it a day",
	"stop for the night",
	"turn in",
	"turn back",
}

func campIntent(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range campIntentKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func (r *Resolver) decide(ws *domain.WorldState, payload domain.ActionPayload, out *domain.Outcome) error {
	decision := payload.Decision
	if decision == nil {
		return errors.New(errors.CodeInvalidChoice, "decide requires a decision payload")
	}
	switch decision.Kind {
	case domain.DecisionNightVote:
		leader, ok := ws.Role(decision.LeaderRoleID)
		if !ok {
			return errors.WithMetadata(errors.CodeInvalidChoice,
				fmt.Sprintf("leader %s is not in the roster", decision.LeaderRoleID),
				map[string]string{"Choice": decision.LeaderRoleID})
		}
		ws.LeaderRoleID = leader.ID
		ws.Day++
		ws.TimeOfDay = domain.TimeMorning
		out.DayCrossed = true
		out.GateSatisfied = true
		out.Summary = fmt.Sprintf("%s leads the party on day %d.", leader.Name, ws.Day)
		r.pushMessage(ws, out, domain.MessageSystem, "", "",
			fmt.Sprintf("The party settles in for the night. %s will lead on day %d.", leader.Name, ws.Day))
		return nil
	default:
		return errors.WithMetadata(errors.CodeInvalidChoice,
			fmt.Sprintf("unknown decision kind %q", decision.Kind),
			map[string]string{"Choice": string(decision.Kind)})
	}
}

// advanceTime steps the clock and records day/night boundaries.
func (r *Resolver) advanceTime(ws *domain.WorldState, out *domain.Outcome) {
	next, rolled := domain.NextTime(ws.TimeOfDay)
	ws.TimeOfDay = next
	if rolled {
		ws.Day++
		out.DayCrossed = true
	}
	if next == domain.TimeNight {
		out.Nightfall = true
		r.pushMessage(ws, out, domain.MessageSystem, "", "",
			"Night falls over the mountain. The party gathers before turning in.")
	}
}

// driftWeather re-rolls conditions with a fixed chance after movement and
// camping.
func (r *Resolver) driftWeather(ws *domain.WorldState, out *domain.Outcome) {
	if r.rng.Float64() >= weatherDriftChance {
		return
	}
	next := domain.AllWeather[r.rng.Intn(len(domain.AllWeather))]
	if next == ws.Weather {
		return
	}
	ws.Weather = next
	r.pushMessage(ws, out, domain.MessageSystem, "", "",
		fmt.Sprintf("The weather shifts: %s.", next))
}

// positionID returns the node the party is at, or the transit origin while
// between nodes.
func (r *Resolver) positionID(ws *domain.WorldState) string {
	if ws.InTransit != nil {
		return ws.InTransit.FromID
	}
	return ws.CurrentNodeID
}

// observeEventChance scales flavor-event probability with weather and the
// node kind around the party.
func (r *Resolver) observeEventChance(ws *domain.WorldState, nodeID string) float64 {
	p := 0.5
	switch ws.Weather {
	case domain.WeatherFoggy, domain.WeatherRainy, domain.WeatherSnowy:
		p += 0.2
	}
	if node, ok := r.graph.Node(nodeID); ok {
		switch node.Kind {
		case route.NodeKindLake, route.NodeKindPeak, route.NodeKindJunction:
			p += 0.2
		}
	}
	return p
}

func (r *Resolver) pushMessage(ws *domain.WorldState, out *domain.Outcome, kind domain.MessageKind, roleID, roleName, content string) {
	out.Messages = append(out.Messages, domain.Message{
		ID:        r.newID(),
		Kind:      kind,
		RoleID:    roleID,
		RoleName:  roleName,
		Content:   content,
		Timestamp: r.now(),
	})
	speaker := roleName
	if speaker == "" {
		speaker = "Narrator"
	}
	ws.PushChat(domain.ChatEntry{SpeakerID: roleID, SpeakerName: speaker, Kind: kind, Content: content})
}

// staminaFactor scales tick distance by party average stamina.
func staminaFactor(roles []domain.Role) float64 {
	if len(roles) == 0 {
		return 1.0
	}
	var total int
	for _, r := range roles {
		total += r.Attrs.Stamina
	}
	avg := float64(total) / float64(len(roles))
	return 0.5 + avg/200
}

func weatherSpeed(w domain.Weather) float64 {
	switch w {
	case domain.WeatherRainy, domain.WeatherSnowy:
		return 0.6
	case domain.WeatherWindy, domain.WeatherFoggy:
		return 0.8
	default:
		return 1.0
	}
}

func weatherCost(w domain.Weather) float64 {
	switch w {
	case domain.WeatherRainy, domain.WeatherSnowy:
		return 2.0
	case domain.WeatherWindy, domain.WeatherFoggy:
		return 1.5
	default:
		return 1.0
	}
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
