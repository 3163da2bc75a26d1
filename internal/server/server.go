// Package server serves a directory of log files over the /logs-data
// protocol that lookout consumes.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/five82/lookout/internal/logsapi"
	"github.com/five82/lookout/internal/logtail"
)

const (
	defaultInitialLines  = 1000
	defaultMaxChunkBytes = 1 << 20
)

// Config holds configuration for the log server.
type Config struct {
	Addr string
	// Dir holds one <characterName>.log file per character.
	Dir string
	// InitialLines is the size of the snapshot sent to new clients.
	InitialLines int
	// MaxChunkBytes bounds one incremental response.
	MaxChunkBytes int64
	Logger        *zap.Logger
}

// Server is the HTTP log server.
type Server struct {
	cfg        Config
	router     *chi.Mux
	log        *zap.Logger
	mu         sync.Mutex
	httpServer *http.Server
	closed     bool
}

// New creates a server and registers its routes.
func New(cfg Config) *Server {
	if cfg.InitialLines <= 0 {
		cfg.InitialLines = defaultInitialLines
	}
	if cfg.MaxChunkBytes <= 0 {
		cfg.MaxChunkBytes = defaultMaxChunkBytes
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	s := &Server{cfg: cfg, router: r, log: cfg.Logger}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	s.router.Get("/logs-data", s.logsData)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address until Shutdown.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	server := s.httpServer
	s.mu.Unlock()

	s.log.Info("serving logs", zap.String("addr", s.cfg.Addr), zap.String("dir", s.cfg.Dir))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	server := s.httpServer
	s.mu.Unlock()

	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

func (s *Server) logsData(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	name := query.Get("characterName")
	if !validName(name) {
		http.Error(w, "invalid characterName", http.StatusBadRequest)
		return
	}
	path := filepath.Join(s.cfg.Dir, name+".log")

	batch, err := s.read(path, query.Get("offset"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.Error(w, "no log for "+name, http.StatusNotFound)
			return
		}
		s.log.Error("read log", zap.String("character", name), zap.Error(err))
		http.Error(w, "read log failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, s.log, batch)
}

// read answers an incremental request, or a snapshot when the offset is
// missing, malformed or past the end of a truncated file.
func (s *Server) read(path, rawOffset string) (logsapi.Batch, error) {
	if offset, err := strconv.ParseInt(rawOffset, 10, 64); err == nil && offset >= 0 {
		chunk, err := logtail.Since(path, offset, s.cfg.MaxChunkBytes)
		switch {
		case err == nil:
			return toBatch(chunk, false), nil
		case !errors.Is(err, logtail.ErrOffsetBeyondEOF):
			return logsapi.Batch{}, err
		}
	}
	chunk, err := logtail.Tail(path, s.cfg.InitialLines)
	if err != nil {
		return logsapi.Batch{}, err
	}
	return toBatch(chunk, true), nil
}

func toBatch(chunk logtail.Chunk, initial bool) logsapi.Batch {
	batch := logsapi.Batch{
		Offset:    logsapi.Cursor(strconv.FormatInt(chunk.Offset, 10)),
		IsInitial: initial,
	}
	if len(chunk.Lines) > 0 {
		batch.Content = strings.Join(chunk.Lines, "\n") + "\n"
	}
	return batch
}

func validName(name string) bool {
	if strings.TrimSpace(name) == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.ContainsRune(name, 0)
}

func writeJSON(w http.ResponseWriter, log *zap.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn("encode response", zap.Error(err))
	}
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("took", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
