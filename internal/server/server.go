// Package server provides the HTTP API for MasterList: capture free
// text into commands, query the task collection through the faceted
// engine, and inspect saved views, the vocabulary and the audit trail.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/noah-vh/masterlist/internal/audit"
	"github.com/noah-vh/masterlist/internal/capture"
	"github.com/noah-vh/masterlist/internal/models"
	"github.com/noah-vh/masterlist/internal/query"
	"github.com/noah-vh/masterlist/internal/taskstore"
	"github.com/noah-vh/masterlist/internal/vocab"
)

// Server wires the capture service, the task collection and the query
// engine behind a JSON API.
type Server struct {
	capture       *capture.Service
	store         *taskstore.Store
	recorder      *audit.Recorder
	defaultScreen models.Screen
	addr          string
	server        *http.Server
	now           func() time.Time

	mu    sync.Mutex
	views map[string]models.ApplyView
}

// New creates a server.
func New(svc *capture.Service, store *taskstore.Store, recorder *audit.Recorder, defaultScreen models.Screen, addr string) *Server {
	return &Server{
		capture:       svc,
		store:         store,
		recorder:      recorder,
		defaultScreen: defaultScreen,
		addr:          addr,
		now:           time.Now,
		views:         make(map[string]models.ApplyView),
	}
}

// SetClock overrides the clock used for date-scope evaluation, for tests.
func (s *Server) SetClock(now func() time.Time) {
	s.now = now
}

// Handler returns the route mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/capture", s.handleCapture)
	mux.HandleFunc("/tasks", s.handleTasks)
	mux.HandleFunc("/views", s.handleViews)
	mux.HandleFunc("/views/", s.handleViewByName)
	mux.HandleFunc("/vocab", s.handleVocab)
	mux.HandleFunc("/audit", s.handleAudit)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Start starts the HTTP server and blocks.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("Starting masterlist daemon on %s", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

type captureRequest struct {
	Text        string         `json:"text"`
	ViewContext string         `json:"view_context,omitempty"`
	Raw         map[string]any `json:"raw,omitempty"`
}

type captureResponse struct {
	Kind         string         `json:"kind"`
	Command      models.Command `json:"command"`
	CreatedTasks []models.Task  `json:"created_tasks"`
}

// handleCapture runs one submission: normalize (via the model boundary
// or a caller-supplied raw object), apply capture commands to the
// collection, save view commands by name.
func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req captureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" && req.Raw == nil {
		http.Error(w, "text required", http.StatusBadRequest)
		return
	}

	screen := s.screenFor(req.ViewContext)

	var cmd models.Command
	if req.Raw != nil {
		cmd = s.capture.NormalizeRaw(req.Raw, req.Text, screen)
	} else {
		var err error
		cmd, err = s.capture.Capture(r.Context(), req.Text, screen)
		if err != nil {
			s.recorder.Record("capture", req, "error", err.Error())
			switch {
			case errors.Is(err, capture.ErrUnavailable):
				http.Error(w, err.Error(), http.StatusBadGateway)
			case errors.Is(err, capture.ErrMalformed):
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			default:
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
			return
		}
	}

	created := s.store.Apply(cmd)
	if av, ok := cmd.(models.ApplyView); ok {
		s.saveView(av)
	}
	s.recorder.Record("capture", req, models.CommandKind(cmd), "")

	writeJSON(w, http.StatusOK, captureResponse{
		Kind:         models.CommandKind(cmd),
		Command:      cmd,
		CreatedTasks: created,
	})
}

// handleTasks evaluates the facet selection from the query string
// against a snapshot of the collection.
func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	state, err := stateFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	snapshot := s.store.Snapshot()
	var tasks []models.Task
	if r.URL.Query().Get("today") == "1" {
		tasks = query.TodayList(snapshot, state, s.now(), r.URL.Query().Get("q"))
	} else {
		tasks = query.Filter(snapshot, state, s.now())
	}

	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleViews(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	out := make([]models.ApplyView, 0, len(s.views))
	for _, view := range s.views {
		out = append(out, view)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ViewName < out[j].ViewName })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleViewByName(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/views/")
	s.mu.Lock()
	view, ok := s.views[name]
	s.mu.Unlock()
	if !ok {
		http.Error(w, "view not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleVocab(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, vocab.All())
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.recorder.Entries())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"tasks":  s.store.Len(),
		"time":   s.now().Format(time.RFC3339),
	})
}

func (s *Server) saveView(av models.ApplyView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views[av.ViewName] = av
}

// screenFor resolves the request's view context, falling back to the
// configured default.
func (s *Server) screenFor(raw string) models.Screen {
	switch screen := models.Screen(strings.ToLower(strings.TrimSpace(raw))); screen {
	case models.ScreenList, models.ScreenToday, models.ScreenRoutines, models.ScreenLibrary, models.ScreenJournal:
		return screen
	}
	return s.defaultScreen
}

// stateFromQuery builds a FilterState from query parameters. Unknown
// statuses and scopes are dropped rather than rejected; the engine is
// tolerant of sparse selections.
func stateFromQuery(r *http.Request) (models.FilterState, error) {
	q := r.URL.Query()

	state := models.FilterState{
		Tags:      splitParam(q.Get("tags")),
		Status:    []models.Status{},
		DateScope: models.ScopeAll,
	}

	for _, raw := range splitParam(q.Get("status")) {
		if st := models.Status(raw); st.Valid() {
			state.Status = append(state.Status, st)
		}
	}

	switch scope := models.DateScope(q.Get("scope")); scope {
	case models.ScopeToday, models.ScopeThisWeek, models.ScopeOverdue:
		state.DateScope = scope
	}

	from, err := parseDayParam(q.Get("range_from"))
	if err != nil {
		return state, err
	}
	to, err := parseDayParam(q.Get("range_to"))
	if err != nil {
		return state, err
	}
	if from != nil || to != nil {
		state.ActionDateRange = &models.DateRange{From: from, To: to}
	}

	return state, nil
}

func splitParam(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseDayParam(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, errors.New("invalid date, expected YYYY-MM-DD")
	}
	return &t, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
