// Package server exposes the readings store over HTTP.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jask/energylog/internal/database/repository"
	"github.com/jask/energylog/internal/energy"
	"github.com/jask/energylog/internal/metrics"
)

// Store is the part of service.EnergyService the handlers use.
type Store interface {
	Save(ctx context.Context, e energy.Energy) (energy.Energy, error)
	Get(ctx context.Context, id string) (energy.Energy, error)
	List(ctx context.Context) ([]energy.Energy, error)
	Last(ctx context.Context, n int) ([]energy.Energy, error)
	Delete(ctx context.Context, id string) error
	KindList(ctx context.Context) ([]energy.KindInfo, error)
}

// maxBodyBytes bounds POST bodies.
const maxBodyBytes = 1 << 20

// Config carries the optional parts of a Server.
type Config struct {
	// Token, when set, is required as a bearer token on every API route.
	Token   string
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// Server routes the HTTP API onto a Store.
type Server struct {
	store   Store
	token   string
	metrics *metrics.Metrics
	logger  *slog.Logger
	mux     *http.ServeMux
}

// New builds the server and registers its routes.
func New(store Store, cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		store:   store,
		token:   cfg.Token,
		metrics: cfg.Metrics,
		logger:  logger,
		mux:     http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.api("GET /energies", s.handleList)
	s.api("POST /energies", s.handleSave)
	s.api("GET /energies/{id}", s.handleGet)
	s.api("DELETE /energies/{id}", s.handleDelete)
	s.api("GET /lastenergies", s.handleLast)
	s.api("GET /kinds", s.handleKinds)
	s.handle("GET /healthz", http.HandlerFunc(s.handleHealth))
	if s.metrics != nil {
		s.handle("GET /metrics", s.metrics.Handler())
	}
}

// api registers an authenticated JSON route.
func (s *Server) api(pattern string, fn http.HandlerFunc) {
	s.handle(pattern, s.authenticate(fn))
}

func (s *Server) handle(pattern string, h http.Handler) {
	s.mux.Handle(pattern, s.instrument(pattern, h))
}

// Handler returns the root handler with CORS applied.
func (s *Server) Handler() http.Handler {
	return cors(s.mux)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
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
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nonNil(items))
}

func (s *Server) handleLast(w http.ResponseWriter, r *http.Request) {
	n := 0
	if raw := r.URL.Query().Get("count"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid count %q", raw))
			return
		}
		n = v
	}
	items, err := s.store.Last(r.Context(), n)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nonNil(items))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	e, err := s.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var e energy.Energy
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&e); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	saved, err := s.store.Save(r.Context(), e)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if s.metrics != nil {
		s.metrics.ReadingsSaved.Inc()
	}
	s.writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleKinds(w http.ResponseWriter, r *http.Request) {
	kinds, err := s.store.KindList(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, kinds)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// fail maps a store error onto a status code.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, energy.ErrInvalid):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "not found")
	default:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, message string) {
	s.writeJSON(w, code, map[string]string{"error": message})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token == "" {
			next.ServeHTTP(w, r)
			return
		}
		got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(s.token)) != 1 {
			s.writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder remembers the status code written through it.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)
		if s.metrics != nil {
			s.metrics.Observe(route, rec.code, elapsed)
		}
		s.logger.Debug("request", "route", route, "code", rec.code, "elapsed", elapsed)
	})
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func nonNil(items []energy.Energy) []energy.Energy {
	if items == nil {
		return []energy.Energy{}
	}
	return items
}
