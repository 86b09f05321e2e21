// Package session owns live trek sessions: creation, the roster, and the
// per-action orchestration loop. One session is single-writer; a per-session
// mutex serializes Act calls while independent sessions run in parallel.
package session

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/switchback/internal/errors"
	"github.com/louisbranch/switchback/internal/platform/id"
	"github.com/louisbranch/switchback/internal/platform/random"
	"github.com/louisbranch/switchback/internal/trek/companion"
	"github.com/louisbranch/switchback/internal/trek/domain"
	"github.com/louisbranch/switchback/internal/trek/memory"
	"github.com/louisbranch/switchback/internal/trek/resolve"
	"github.com/louisbranch/switchback/internal/trek/route"
)

// session is one live trek. The mutex also guards the RNG and resolver,
// which are not safe for concurrent use.
type session struct {
	mu       sync.Mutex
	world    domain.WorldState
	resolver *resolve.Resolver
	graph    *route.Graph
}

// Manager is the session registry and orchestration façade.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*session

	gateway   *memory.Gateway
	generator *companion.Generator
	tracer    trace.Tracer
	now       func() time.Time
	newID     func() string
}

// NewManager wires a manager over a memory gateway and a companion
// generator.
func NewManager(gateway *memory.Gateway, generator *companion.Generator) *Manager {
	return &Manager{
		sessions:  make(map[string]*session),
		gateway:   gateway,
		generator: generator,
		tracer:    otel.Tracer("switchback/session"),
		now:       time.Now,
		newID:     id.MustNewID,
	}
}

// Create starts a new session on the given route theme. A zero seed picks
// one from the clock; a fixed seed replays the same trek.
func (m *Manager) Create(ctx context.Context, userID, theme string, seed int64) (domain.WorldState, error) {
	if userID == "" {
		return domain.WorldState{}, errors.New(errors.CodeSessionEmptyUserID, "user id is required")
	}
	if theme == "" {
		theme = route.DefaultTheme
	}
	graph, err := route.Load(theme)
	if err != nil {
		return domain.WorldState{}, errors.Wrap(errors.CodeRouteUnknownTheme,
			fmt.Sprintf("unknown route theme %q", theme), err)
	}

	if seed == 0 {
		if seed, err = random.NewSeed(); err != nil {
			seed = m.now().UnixNano()
		}
	}
	rng := rand.New(rand.NewSource(seed))

	sessionID := "trek-" + m.newID()
	ws := domain.WorldState{
		SessionID:      sessionID,
		UserID:         userID,
		Theme:          graph.Theme(),
		Seed:           seed,
		Phase:          domain.PhaseFree,
		Day:            1,
		TimeOfDay:      domain.TimeMorning,
		Weather:        startWeather(rng),
		CurrentNodeID:  graph.StartNodeID(),
		VisitedNodeIDs: []string{graph.StartNodeID()},
	}

	s := &session{
		world:    ws,
		resolver: resolve.New(graph, rng),
		graph:    graph,
	}
	m.mu.Lock()
	m.sessions[sessionID] = s
	m.mu.Unlock()

	// Seed shared memory so the first retrievals have context.
	event := fmt.Sprintf("The party sets out from %s in %s weather.",
		graph.NodeName(graph.StartNodeID()), ws.Weather)
	_ = m.gateway.WriteWorldEvent(ctx, sessionID, event, map[string]string{"kind": "setup", "theme": graph.Theme()})

	return ws.Clone(), nil
}

// Get returns a snapshot of the session's world state.
func (m *Manager) Get(sessionID string) (domain.WorldState, error) {
	s, err := m.lookup(sessionID)
	if err != nil {
		return domain.WorldState{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.world.Clone(), nil
}

// Map returns the route graph for a theme, defaulting like Create.
func (m *Manager) Map(theme string) (*route.Graph, error) {
	if theme == "" {
		theme = route.DefaultTheme
	}
	graph, err := route.Load(theme)
	if err != nil {
		return nil, errors.Wrap(errors.CodeRouteUnknownTheme,
			fmt.Sprintf("unknown route theme %q", theme), err)
	}
	return graph, nil
}

// UpsertRole replaces a roster entry by ID or appends a new one. The first
// role ever added becomes the active role.
func (m *Manager) UpsertRole(ctx context.Context, sessionID string, role domain.Role) (domain.WorldState, error) {
	s, err := m.lookup(sessionID)
	if err != nil {
		return domain.WorldState{}, err
	}

	role, nerr := domain.NormalizeRole(role)
	if nerr != nil {
		switch nerr {
		case domain.ErrEmptyRoleID:
			return domain.WorldState{}, errors.New(errors.CodeRoleEmptyID, nerr.Error())
		default:
			return domain.WorldState{}, errors.New(errors.CodeRoleEmptyName, nerr.Error())
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	replaced := false
	for i := range s.world.Roles {
		if s.world.Roles[i].ID == role.ID {
			s.world.Roles[i] = role
			replaced = true
			break
		}
	}
	if !replaced {
		s.world.Roles = append(s.world.Roles, role)
	}
	if s.world.ActiveRoleID == "" {
		s.world.ActiveRoleID = role.ID
	}
	return s.world.Clone(), nil
}

// Quickstart installs the default party. With an existing roster it is a
// no-op unless overwrite is set.
func (m *Manager) Quickstart(ctx context.Context, sessionID string, overwrite bool) (domain.WorldState, error) {
	s, err := m.lookup(sessionID)
	if err != nil {
		return domain.WorldState{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.world.Roles) > 0 && !overwrite {
		return s.world.Clone(), nil
	}
	s.world.Roles = domain.QuickstartRoles()
	s.world.ActiveRoleID = s.world.Roles[0].ID
	s.world.LeaderRoleID = ""
	return s.world.Clone(), nil
}

// SetActiveRole switches player control to a roster member.
func (m *Manager) SetActiveRole(ctx context.Context, sessionID, roleID string) (domain.WorldState, error) {
	s, err := m.lookup(sessionID)
	if err != nil {
		return domain.WorldState{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.world.Role(roleID); !ok {
		return domain.WorldState{}, errors.WithMetadata(errors.CodeRoleNotFound,
			fmt.Sprintf("role %s is not in the roster", roleID),
			map[string]string{"RoleID": roleID})
	}
	s.world.ActiveRoleID = roleID
	return s.world.Clone(), nil
}

func (m *Manager) lookup(sessionID string) (*session, error) {
	m.mu.RLock()
	s, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, errors.WithMetadata(errors.CodeSessionNotFound,
			fmt.Sprintf("session %s not found", sessionID),
			map[string]string{"SessionID": sessionID})
	}
	return s, nil
}

// startWeather favors mild conditions for day one.
func startWeather(rng *rand.Rand) domain.Weather {
	pool := []domain.Weather{
		domain.WeatherSunny, domain.WeatherSunny, domain.WeatherSunny,
		domain.WeatherCloudy, domain.WeatherCloudy,
		domain.WeatherWindy,
	}
	return pool[rng.Intn(len(pool))]
}
