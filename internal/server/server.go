// Package server exposes grids and mind maps over HTTP.
//
// Every request loads its document from the store, applies one operation
// through the engine and writes the document back. Requests for the same
// document are serialised with a per-name lock, so the engines keep their
// single-writer model even under concurrent clients.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/meldgrid/pkg/buildinfo"
	"github.com/matzehuels/meldgrid/pkg/grid"
	"github.com/matzehuels/meldgrid/pkg/mindmap"
	"github.com/matzehuels/meldgrid/pkg/observability"
	"github.com/matzehuels/meldgrid/pkg/store"
)

const defaultMaxBody = 4 << 20

// Config holds the engine settings used for documents that do not exist yet.
type Config struct {
	Grid grid.Config
	Tree mindmap.Config

	// MaxBodyBytes limits request bodies. Zero means 4 MiB.
	MaxBodyBytes int64
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for request logs and engine warnings.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithKeyer sets how document names map to store keys.
func WithKeyer(k store.Keyer) Option {
	return func(s *Server) {
		if k != nil {
			s.keys = k
		}
	}
}

// WithIDFunc sets the id generator for new mind map nodes.
func WithIDFunc(fn mindmap.IDFunc) Option {
	return func(s *Server) { s.ids = fn }
}

// Server serves the HTTP API.
type Server struct {
	store  store.Store
	keys   store.Keyer
	cfg    Config
	logger *log.Logger
	ids    mindmap.IDFunc
	locks  *keyedMutex
}

// New creates a server backed by st.
func New(st store.Store, cfg Config, opts ...Option) *Server {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBody
	}
	s := &Server{
		store:  st,
		keys:   store.NewDefaultKeyer(),
		cfg:    cfg,
		logger: log.Default(),
		locks:  newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLog)
	r.Use(middleware.Recoverer)
	r.Use(withSecurityHeaders)
	r.Use(s.limitBody)

	r.Get("/healthz", s.handleHealth)

	r.Route("/grids/{name}", func(r chi.Router) {
		r.Get("/", s.handleGetGrid)
		r.Put("/", s.handlePutGrid)
		r.Delete("/", s.handleDeleteGrid)
		r.Get("/svg", s.handleGridSVG)
		r.Post("/items", s.handleAddItem)
		r.Patch("/items/{id}", s.handleUpdateItem)
		r.Delete("/items/{id}", s.handleRemoveItem)
		r.Post("/items/{id}/move", s.handleMoveItem)
		r.Post("/items/{id}/resize", s.handleResizeItem)
	})

	r.Route("/trees/{name}", func(r chi.Router) {
		r.Get("/", s.handleGetTree)
		r.Put("/", s.handlePutTree)
		r.Delete("/", s.handleDeleteTree)
		r.Post("/nodes", s.handleAddNode)
		r.Patch("/nodes/{id}", s.handleEditNode)
		r.Delete("/nodes/{id}", s.handleDeleteNode)
		r.Post("/nodes/{id}/toggle", s.handleToggleNode)
		r.Post("/nodes/{id}/move", s.handleMoveNode)
		r.Post("/layout", s.handleLayout)
		r.Get("/svg", s.handleTreeSVG)
		r.Get("/dot", s.handleTreeDOT)
	})

	r.Get("/grids", s.listHandler(store.GridPrefix))
	r.Get("/trees", s.listHandler(store.TreePrefix))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, notFound("no route for %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Code: "METHOD_NOT_ALLOWED", Message: r.Method + " not allowed"})
	})
	return r
}

// Timeouts bound the HTTP server.
type Timeouts struct {
	Read     time.Duration
	Write    time.Duration
	Shutdown time.Duration
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully,
// giving in-flight requests up to t.Shutdown to finish.
func (s *Server) Run(ctx context.Context, addr string, t Timeouts) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadTimeout:       t.Read,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      t.Write,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down", "timeout", t.Shutdown)
		sctx, cancel := context.WithTimeout(context.Background(), t.Shutdown)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"store":  store.Backend(s.store),
		"build":  buildinfo.Get(),
	})
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		observability.HTTP().OnRequest(r.Context(), r.Method, route, status, elapsed)
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", elapsed,
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
		next.ServeHTTP(w, r)
	})
}

func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}
