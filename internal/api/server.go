package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/shiftpulse/shiftpulse/internal/api/handler"
	"github.com/shiftpulse/shiftpulse/internal/cache"
	"github.com/shiftpulse/shiftpulse/internal/config"
	"github.com/shiftpulse/shiftpulse/internal/realtime"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(pool *pgxpool.Pool, appCache *cache.Cache, cfg *config.Config, hub *realtime.Hub, loc *time.Location) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "POST", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting. The SSE stream is exempt: it is one long-lived
	// request per client, not a burst source.
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow,
			"/api/v1/notifications/stream"))
	}

	// --- Handler dependencies ---
	h := handler.New(pool, appCache, cfg, hub, loc)

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/realtime", h.HealthCheckRealtime)
	})

	// Swagger UI
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Notification center
		r.Get("/notifications", h.ListNotifications)
		r.Get("/notifications/stream", h.StreamNotifications)
		r.Post("/notifications/{id}/read", h.MarkRead)
		r.Post("/notifications/{id}/clear", h.ClearNotification)

		// Break window inspection
		r.Get("/agents/{id}/windows", h.GetAgentWindows)
	})

	return r
}
