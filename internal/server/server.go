// Package server exposes the engine over HTTP: one POST per turn plus stats,
// health and Prometheus metrics.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"futurechat/internal/engine"
	"futurechat/internal/logging"
)

// RequestIDHeader carries the per-request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// MaxBodyBytes bounds a request body.
const MaxBodyBytes = 64 << 10

// Config configures the listener.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// ChatRequest is the POST /chat body.
type ChatRequest struct {
	Message string `json:"message"`
}

// TeachRequest is the POST /teach body.
type TeachRequest struct {
	Topic string `json:"topic"`
	Info  string `json:"info"`
}

// TeachResponse reports what a teach changed.
type TeachResponse struct {
	Key     string `json:"key"`
	Created bool   `json:"created"`
	Added   bool   `json:"added"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server routes HTTP requests to one shared engine.
type Server struct {
	router *chi.Mux
	engine *engine.Engine
	cfg    Config
}

// New builds the router.
func New(e *engine.Engine, cfg Config) *Server {
	s := &Server{router: chi.NewRouter(), engine: e, cfg: cfg}
	s.router.Use(middleware.RealIP)
	s.router.Use(requestID)
	s.router.Use(accessLog)
	s.router.Use(middleware.Recoverer)
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Post("/chat", s.handleChat)
	s.router.Post("/teach", s.handleTeach)
	s.router.Get("/stats", s.handleStats)
	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())
}

// Handler returns the router.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		logging.Server("Listening on %s", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logging.Server("Shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	}
}

// ===== HANDLERS =====

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Respond(r.Context(), req.Message))
}

func (s *Server) handleTeach(w http.ResponseWriter, r *http.Request) {
	var req TeachRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Topic) == "" || strings.TrimSpace(req.Info) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "topic and info are required"})
		return
	}
	res, err := s.engine.Teach(r.Context(), req.Topic, req.Info)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, TeachResponse{Key: res.Key, Created: res.Created, Added: res.Added})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Stats())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ===== HELPERS =====

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		logging.ServerWarn("Failed to write response: %v", err)
	}
}

// requestID keeps an incoming X-Request-ID or assigns a new one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(RequestIDHeader, id)
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logging.Get(logging.CategoryServer).Debug("%s %s -> %d (%s) id=%s",
			r.Method, r.URL.Path, ww.Status(), time.Since(start), r.Header.Get(RequestIDHeader))
	})
}
