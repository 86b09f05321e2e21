package domain

// TimeOfDay is the coarse in-game clock.
type TimeOfDay string

const (
	TimeMorning   TimeOfDay = "morning"
	TimeNoon      TimeOfDay = "noon"
	TimeAfternoon TimeOfDay = "afternoon"
	TimeEvening   TimeOfDay = "evening"
	TimeNight     TimeOfDay = "night"
)

// timeOrder fixes the daily cycle. Advancing past the last entry rolls the
// day and returns to morning.
var timeOrder = []TimeOfDay{TimeMorning, TimeNoon, TimeAfternoon, TimeEvening, TimeNight}

// NextTime returns the following time slot and whether the day rolled over.
func NextTime(t TimeOfDay) (TimeOfDay, bool) {
	for i, cur := range timeOrder {
		if cur == t {
			if i == len(timeOrder)-1 {
				return timeOrder[0], true
			}
			return timeOrder[i+1], false
		}
	}
	return TimeMorning, false
}

// Weather is the current conditions affecting movement and stamina costs.
type Weather string

const (
	WeatherSunny  Weather = "sunny"
	WeatherCloudy Weather = "cloudy"
	WeatherWindy  Weather = "windy"
	WeatherRainy  Weather = "rainy"
	WeatherSnowy  Weather = "snowy"
	WeatherFoggy  Weather = "foggy"
)

// AllWeather lists every condition the drift roll can pick from.
var AllWeather = []Weather{WeatherSunny, WeatherCloudy, WeatherWindy, WeatherRainy, WeatherSnowy, WeatherFoggy}

// Transit tracks partial progress along an edge between two nodes.
type Transit struct {
	FromID     string  `json:"from_id"`
	ToID       string  `json:"to_id"`
	ProgressKM float64 `json:"progress_km"`
	TotalKM    float64 `json:"total_km"`
}

const (
	// maxRecentEvents bounds the event ring carried in world state.
	maxRecentEvents = 10
	// maxChatHistory bounds the rolling transcript window.
	maxChatHistory = 20
)

// WorldState is the complete simulation state of one session. It is treated
// as a value: the resolver copies it, mutates the copy, and the orchestrator
// commits the copy only after the whole step succeeds.
type WorldState struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Theme     string `json:"theme"`
	// Seed drives the session RNG; replaying the same actions against the
	// same seed reproduces the trek.
	Seed int64 `json:"seed"`

	Phase Phase `json:"phase"`

	Day       int       `json:"day"`
	TimeOfDay TimeOfDay `json:"time_of_day"`
	Weather   Weather   `json:"weather"`

	CurrentNodeID  string   `json:"current_node_id"`
	InTransit      *Transit `json:"in_transit,omitempty"`
	VisitedNodeIDs []string `json:"visited_node_ids"`
	// AvailableNextIDs is non-empty only while stopped at a branch point
	// waiting for the player to pick a direction.
	AvailableNextIDs []string `json:"available_next_ids,omitempty"`

	Roles        []Role `json:"roles"`
	ActiveRoleID string `json:"active_role_id,omitempty"`
	LeaderRoleID string `json:"leader_role_id,omitempty"`

	RecentEvents []string    `json:"recent_events,omitempty"`
	ChatHistory  []ChatEntry `json:"chat_history,omitempty"`
}

// Clone deep-copies the state so callers can mutate the copy freely.
func (ws WorldState) Clone() WorldState {
	out := ws
	if ws.InTransit != nil {
		t := *ws.InTransit
		out.InTransit = &t
	}
	out.VisitedNodeIDs = append([]string(nil), ws.VisitedNodeIDs...)
	out.AvailableNextIDs = append([]string(nil), ws.AvailableNextIDs...)
	out.Roles = append([]Role(nil), ws.Roles...)
	out.RecentEvents = append([]string(nil), ws.RecentEvents...)
	out.ChatHistory = append([]ChatEntry(nil), ws.ChatHistory...)
	return out
}

// Role returns a pointer into the roster for in-place attribute updates.
func (ws *WorldState) Role(id string) (*Role, bool) {
	for i := range ws.Roles {
		if ws.Roles[i].ID == id {
			return &ws.Roles[i], true
		}
	}
	return nil, false
}

// ActiveRole returns the player-controlled role, if one is set.
func (ws *WorldState) ActiveRole() (*Role, bool) {
	if ws.ActiveRoleID == "" {
		return nil, false
	}
	return ws.Role(ws.ActiveRoleID)
}

// Companions returns every roster member except the active role, in roster
// order.
func (ws *WorldState) Companions() []Role {
	out := make([]Role, 0, len(ws.Roles))
	for _, r := range ws.Roles {
		if r.ID != ws.ActiveRoleID {
			out = append(out, r)
		}
	}
	return out
}

// AllExhausted reports whether every roster member is at zero stamina.
// True only for a non-empty roster.
func (ws *WorldState) AllExhausted() bool {
	if len(ws.Roles) == 0 {
		return false
	}
	for _, r := range ws.Roles {
		if r.Attrs.Stamina > 0 {
			return false
		}
	}
	return true
}

// Visited reports whether the party has already reached the node.
func (ws *WorldState) Visited(nodeID string) bool {
	for _, id := range ws.VisitedNodeIDs {
		if id == nodeID {
			return true
		}
	}
	return false
}

// MarkVisited records a node arrival once.
func (ws *WorldState) MarkVisited(nodeID string) {
	if !ws.Visited(nodeID) {
		ws.VisitedNodeIDs = append(ws.VisitedNodeIDs, nodeID)
	}
}

// PushEvent appends to the recent-event ring, dropping the oldest entry
// beyond the window.
func (ws *WorldState) PushEvent(event string) {
	ws.RecentEvents = append(ws.RecentEvents, event)
	if n := len(ws.RecentEvents); n > maxRecentEvents {
		ws.RecentEvents = ws.RecentEvents[n-maxRecentEvents:]
	}
}

// PushChat appends to the rolling transcript, dropping the oldest entry
// beyond the window.
func (ws *WorldState) PushChat(entry ChatEntry) {
	ws.ChatHistory = append(ws.ChatHistory, entry)
	if n := len(ws.ChatHistory); n > maxChatHistory {
		ws.ChatHistory = ws.ChatHistory[n-maxChatHistory:]
	}
}
