// Package stubserver is a local stand-in for the remote form service. It
// serves the create-user and get-form endpoints from memory.
package stubserver

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/goliatone/go-formwizard/internal/contract"
	"github.com/goliatone/go-formwizard/pkg/schema"
)

// User is a registration held by the server.
type User struct {
	ID         string `json:"userId"`
	RollNumber string `json:"rollNumber"`
	Name       string `json:"name"`
}

// Server keeps registrations in memory and hands every registered user the
// same form.
type Server struct {
	mu    sync.RWMutex
	users map[string]User
	form  schema.Form
	open  bool

	logger *slog.Logger
	router *mux.Router
}

// Option configures a Server.
type Option func(*Server)

// WithForm sets the form served by get-form.
func WithForm(form schema.Form) Option {
	return func(s *Server) {
		s.form = form.Clone()
	}
}

// WithOpenAccess serves the form to unregistered roll numbers too.
func WithOpenAccess() Option {
	return func(s *Server) {
		s.open = true
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New builds a server serving DefaultForm unless WithForm overrides it.
func New(options ...Option) *Server {
	s := &Server{
		users:  make(map[string]User),
		form:   DefaultForm(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ServeHTTP lets the server be mounted directly.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// User returns the registration for rollNumber.
func (s *Server) User(rollNumber string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[rollNumber]
	return u, ok
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/openapi.yaml", s.handleDocument).Methods(http.MethodGet)
	r.HandleFunc(contract.PathCreateUser, s.handleCreateUser).Methods(http.MethodPost)
	r.HandleFunc(contract.PathGetForm, s.handleGetForm).Methods(http.MethodGet)
	r.Use(s.logRequests)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "OK\n")
}

func (s *Server) handleDocument(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(contract.Document())
}

type createUserRequest struct {
	RollNumber string `json:"rollNumber"`
	Name       string `json:"name"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.RollNumber = strings.TrimSpace(req.RollNumber)
	req.Name = strings.TrimSpace(req.Name)
	if req.RollNumber == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "rollNumber and name are required")
		return
	}

	s.mu.Lock()
	user, ok := s.users[req.RollNumber]
	if !ok {
		user = User{ID: uuid.NewString(), RollNumber: req.RollNumber}
	}
	user.Name = req.Name
	s.users[req.RollNumber] = user
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]string{"userId": user.ID})
}

func (s *Server) handleGetForm(w http.ResponseWriter, r *http.Request) {
	roll := strings.TrimSpace(r.URL.Query().Get("rollNumber"))
	if roll == "" {
		writeError(w, http.StatusBadRequest, "rollNumber query parameter is required")
		return
	}
	if !s.open {
		if _, ok := s.User(roll); !ok {
			writeError(w, http.StatusNotFound, "user not registered")
			return
		}
	}

	s.mu.RLock()
	form := s.form.Clone()
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, schema.Response{Form: &form})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
