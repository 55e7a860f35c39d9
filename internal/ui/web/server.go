// Package web serves the browser UI: an HTML rendering of the controller's
// view tree, kept live over a WebSocket.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/p-n-ai/pai-tube/internal/app"
	"github.com/p-n-ai/pai-tube/internal/view"
)

const (
	sessionCookie = "tube_session"
	// clientCookie identifies a browser across sessions so its last URL
	// can be restored without leaking to other visitors.
	clientCookie    = "tube_client"
	clientCookieAge = 365 * 24 * time.Hour
)

// Server holds the HTTP handlers.
type Server struct {
	sessions       *Sessions
	logger         *slog.Logger
	allowedOrigins []string
	lang           string
	// baseCtx outlives individual requests so backend calls finish even
	// when the tab that started them goes away.
	baseCtx context.Context
}

// Config configures a Server.
type Config struct {
	Sessions       *Sessions
	Logger         *slog.Logger
	AllowedOrigins []string
	Language       string
	BaseContext    context.Context
	// SessionIdle evicts sessions unused for this long. Zero keeps them
	// for the life of the process.
	SessionIdle time.Duration
}

// New creates a web server.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.BaseContext == nil {
		cfg.BaseContext = context.Background()
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.SessionIdle > 0 {
		logger := cfg.Logger
		go cfg.Sessions.Expire(cfg.BaseContext, cfg.SessionIdle, func(removed int) {
			logger.Info("expired idle sessions", "removed", removed, "remaining", cfg.Sessions.Len())
		})
	}
	return &Server{
		sessions:       cfg.Sessions,
		logger:         cfg.Logger,
		allowedOrigins: cfg.AllowedOrigins,
		lang:           cfg.Language,
		baseCtx:        cfg.BaseContext,
	}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.slogMiddleware)
	r.Use(middleware.Recoverer)

	if len(s.allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.allowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
			ExposedHeaders: []string{"Content-Disposition"},
			MaxAge:         300,
		}))
	}

	r.Get("/", s.handleIndex)
	r.Get("/ws", s.handleSocket)
	r.Get("/api/health", s.handleHealth)
	r.Post("/api/sessions", s.handleCreateSession)
	r.Route("/api/sessions/{id}", func(r chi.Router) {
		r.Get("/view", s.handleView)
		r.Post("/actions", s.handleAction)
		r.Get("/downloads/{name}", s.handleDownload)
	})
	return r
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (s *Server) slogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/health" {
			next.ServeHTTP(w, r)
			return
		}

		recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: message})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": s.sessions.Len()})
}

// clientID returns the browser's client ID, issuing a new cookie when the
// request carries none.
func clientID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(clientCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     clientCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(clientCookieAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// newSession creates a session for the requesting browser and restores that
// browser's persisted URL into it.
func (s *Server) newSession(w http.ResponseWriter, r *http.Request) *Session {
	sess := s.sessions.Create(clientID(w, r))
	if err := sess.Ctrl.Restore(r.Context()); err != nil {
		s.logger.Warn("failed to restore last url", "session", sess.ID, "error", err)
	}
	s.logger.Info("session created", "session", sess.ID)
	return sess
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var sess *Session
	if c, err := r.Cookie(sessionCookie); err == nil {
		sess, _ = s.sessions.Get(c.Value)
	}
	if sess == nil {
		sess = s.newSession(w, r)
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := writePage(w, s.lang, sess.ID, RenderHTML(sess.Ctrl.Render())); err != nil {
		s.logger.Error("render page", "error", err)
	}
}

type sessionResponse struct {
	ID   string    `json:"id"`
	View view.Node `json:"view"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.newSession(w, r)
	writeJSON(w, http.StatusCreated, sessionResponse{ID: sess.ID, View: sess.Ctrl.Render()})
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	sess, ok := s.sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
	}
	return sess, ok
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Ctrl.Render())
}

type actionResponse struct {
	View     view.Node `json:"view"`
	Copy     string    `json:"copy,omitempty"`
	Download string    `json:"download,omitempty"`
}

// handleAction dispatches one action synchronously. Analyze and quiz calls
// block until the backend answers.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var a view.Action
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeError(w, http.StatusBadRequest, "invalid action body")
		return
	}

	out, err := sess.Ctrl.Dispatch(context.WithoutCancel(r.Context()), a)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, app.ErrBusy) {
			status = http.StatusConflict
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, actionResponse{
		View:     sess.Ctrl.Render(),
		Copy:     out.Copied,
		Download: s.publishDownload(sess, out),
	})
}

// publishDownload stores an exported file on the session and returns the
// URL it can be fetched from.
func (s *Server) publishDownload(sess *Session, out app.Outcome) string {
	if out.Download == nil {
		return ""
	}
	sess.putDownload(*out.Download)
	return fmt.Sprintf("/api/sessions/%s/downloads/%s", sess.ID, out.Download.Name)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	f, ok := sess.download(chi.URLParam(r, "name"))
	if !ok {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}

	w.Header().Set("Content-Type", f.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": f.Name}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(f.Data)
}
