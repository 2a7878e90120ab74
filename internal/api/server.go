// Package api provides the HTTP API server and handlers for the dream scoring server.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dreamnft/dreamnft-server/internal/ratelimit"
	"github.com/dreamnft/dreamnft-server/internal/service"
)

// DreamCounter reports how many dreams the record store holds.
type DreamCounter interface {
	CountDreams(ctx context.Context) (int, error)
}

// DocumentCounter reports how many documents the search index holds.
type DocumentCounter interface {
	DocumentCount() (uint64, error)
}

// Options configures a Server. Nil fields disable the matching feature.
type Options struct {
	CORSOrigins []string
	// Limiter throttles the scoring endpoints per client IP.
	Limiter *ratelimit.KeyedRateLimiter
	// Store and Index back the health check.
	Store DreamCounter
	Index DocumentCounter
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	dreams  *service.DreamService
	store   DreamCounter
	index   DocumentCounter
	limiter *ratelimit.KeyedRateLimiter
	router  *chi.Mux
	api     huma.API
	logger  *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(dreams *service.DreamService, opts Options, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	s := &Server{
		dreams:  dreams,
		store:   opts.Store,
		index:   opts.Index,
		limiter: opts.Limiter,
		router:  router,
		logger:  logger,
	}

	s.setupMiddleware(opts.CORSOrigins)

	humaConfig := huma.DefaultConfig("DreamNFT API", "1.0.0")
	humaConfig.Info.Description = "Dream narrative scoring, storage and search"
	// Responses are wrapped in the envelope, so no $schema links.
	humaConfig.CreateHooks = nil
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerScoringRoutes()
	s.registerDreamRoutes()
	s.registerEngagementRoutes()
	s.registerSearchRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the huma API, mainly for tests and OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

func (s *Server) setupMiddleware(origins []string) {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Retry-After", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// requestLogger logs one line per request with its status and duration.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			level := slog.LevelDebug
			if ww.Status() >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.Log(r.Context(), level, "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
