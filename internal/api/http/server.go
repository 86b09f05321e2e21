// Package http exposes the trek engine as a thin JSON API. It owns no game
// logic: requests are decoded, handed to the session manager, and results
// or coded errors are written back.
package http

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/louisbranch/switchback/internal/errors"
	"github.com/louisbranch/switchback/internal/trek/domain"
	"github.com/louisbranch/switchback/internal/trek/route"
	"github.com/louisbranch/switchback/internal/trek/session"
)

// Server routes API requests to a session manager.
type Server struct {
	manager *session.Manager
	logf    func(format string, args ...any)
}

// NewServer builds the API server around a manager.
func NewServer(manager *session.Manager) *Server {
	return &Server{manager: manager, logf: log.Printf}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("POST /api/sessions/{id}/act", s.handleAct)
	mux.HandleFunc("POST /api/sessions/{id}/roles", s.handleUpsertRole)
	mux.HandleFunc("POST /api/sessions/{id}/roles/quickstart", s.handleQuickstart)
	mux.HandleFunc("POST /api/sessions/{id}/active-role", s.handleSetActiveRole)
	mux.HandleFunc("GET /api/map", s.handleMap)
	return s.logRequests(mux)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logf("http: %s %s (%s)", r.Method, r.URL.Path, time.Since(start).Round(time.Millisecond))
	})
}

type createSessionRequest struct {
	UserID string `json:"user_id"`
	Theme  string `json:"theme,omitempty"`
	Seed   int64  `json:"seed,omitempty"`
}

type stateResponse struct {
	WorldState domain.WorldState `json:"world_state"`
}

type actRequest struct {
	Action domain.Action `json:"action"`
}

type actResponse struct {
	WorldState domain.WorldState `json:"world_state"`
	Messages   []domain.Message  `json:"messages"`
	Error      *errorBody        `json:"error,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type quickstartRequest struct {
	Overwrite bool `json:"overwrite,omitempty"`
}

type activeRoleRequest struct {
	RoleID string `json:"role_id"`
}

type mapResponse struct {
	Theme       string       `json:"theme"`
	StartNodeID string       `json:"start_node_id"`
	Nodes       []route.Node `json:"nodes"`
	Edges       []route.Edge `json:"edges"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if !s.decode(w, r, &req) {
		return
	}
	ws, err := s.manager.Create(r.Context(), req.UserID, req.Theme, req.Seed)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, stateResponse{WorldState: ws})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	ws, err := s.manager.Get(r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stateResponse{WorldState: ws})
}

// handleAct runs one turn. Rejected turns come back with the error's HTTP
// status plus the unchanged state and the explanatory system message, so
// clients can render the rejection in-scene.
func (s *Server) handleAct(w http.ResponseWriter, r *http.Request) {
	var req actRequest
	if !s.decode(w, r, &req) {
		return
	}
	ws, messages, err := s.manager.Act(r.Context(), r.PathValue("id"), req.Action)
	if err != nil {
		code := errors.GetCode(err)
		s.writeJSON(w, code.HTTPStatus(), actResponse{
			WorldState: ws,
			Messages:   messages,
			Error: &errorBody{
				Code:    string(code),
				Message: errors.UserMessage(err, errors.DefaultLocale),
			},
		})
		return
	}
	s.writeJSON(w, http.StatusOK, actResponse{WorldState: ws, Messages: messages})
}

func (s *Server) handleUpsertRole(w http.ResponseWriter, r *http.Request) {
	var role domain.Role
	if !s.decode(w, r, &role) {
		return
	}
	ws, err := s.manager.UpsertRole(r.Context(), r.PathValue("id"), role)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stateResponse{WorldState: ws})
}

func (s *Server) handleQuickstart(w http.ResponseWriter, r *http.Request) {
	var req quickstartRequest
	if !s.decode(w, r, &req) {
		return
	}
	ws, err := s.manager.Quickstart(r.Context(), r.PathValue("id"), req.Overwrite)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stateResponse{WorldState: ws})
}

func (s *Server) handleSetActiveRole(w http.ResponseWriter, r *http.Request) {
	var req activeRoleRequest
	if !s.decode(w, r, &req) {
		return
	}
	ws, err := s.manager.SetActiveRole(r.Context(), r.PathValue("id"), req.RoleID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stateResponse{WorldState: ws})
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	graph, err := s.manager.Map(r.URL.Query().Get("theme"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, mapResponse{
		Theme:       graph.Theme(),
		StartNodeID: graph.StartNodeID(),
		Nodes:       graph.Nodes(),
		Edges:       graph.Edges(),
	})
}

// decode reads the JSON body into dst, writing a 400 on failure. An empty
// body decodes as the zero value.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorBody{
			Code:    string(errors.CodeUnknown),
			Message: "invalid JSON body",
		}})
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	s.writeJSON(w, code.HTTPStatus(), errorResponse{Error: errorBody{
		Code:    string(code),
		Message: errors.UserMessage(err, errors.DefaultLocale),
	}})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logf("http: encode response: %v", err)
	}
}
