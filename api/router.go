// Package api provides the REST API for the settlement feasibility engine.
// It includes routing, handlers, and middleware.
package api

import (
	"net/http"
	"time"

	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/audit"
	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/calendar"
	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/config"
	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/holidaydata"
	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/notifications"
	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/registry"
	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/settlement"
	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/tracing"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

// NewRouter creates and configures the main HTTP router.
func NewRouter(
	cfg *config.Config,
	reg *registry.Registry,
	overrides *holidaydata.OverrideStore,
	cal *calendar.Service,
	engine *settlement.Engine,
	auditLog *audit.Store,
	notificationManager *notifications.Manager,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(TraceMiddleware)
	r.Use(middleware.RealIP)
	r.Use(zerologLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Rate limiting - prevent abuse.
	r.Use(httprate.LimitByIP(100, 1*time.Minute))
	r.Use(httprate.LimitByIP(20, 1*time.Second))

	// Request body size limit - prevent memory exhaustion attacks.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, 1048576)
			next.ServeHTTP(w, r)
		})
	})

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("Content-Security-Policy", "default-src 'self'")
			next.ServeHTTP(w, r)
		})
	})

	r.Use(newCORSMiddleware(cfg))

	h := NewHandler(reg, overrides, cal, engine, auditLog, notificationManager, cfg)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"service": "settlement-feasibility-engine", "version": "1.0.0", "status": "running",
		})
	})

	r.Get("/health", h.HealthHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(AuditMiddleware)

		// check_settlement, market lookups, and market status are read
		// endpoints and stay public; only override mutation requires
		// the API key.
		r.Post("/settlement/check", h.CheckSettlementHandler)

		r.Route("/markets", func(r chi.Router) {
			r.Get("/", h.ListMarketsHandler)
			r.Get("/compare", h.CompareMarketsHandler)
			r.Get("/{code}", h.GetMarketHandler)
			r.Get("/{code}/status", h.GetMarketStatusHandler)
		})

		r.Route("/overrides", func(r chi.Router) {
			r.Get("/", h.ListOverridesHandler)
			r.Group(func(r chi.Router) {
				r.Use(AuthMiddleware(cfg))
				r.Post("/", h.AddOverrideHandler)
				r.Delete("/{market}/{date}", h.RemoveOverrideHandler)
			})
		})

		r.Get("/notifications", h.GetNotificationsHandler)

		r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "active"})
		})
	})

	return r
}

// zerologLogger is middleware that logs requests using zerolog.
// Includes the trace_id from context for request correlation.
func zerologLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger := tracing.Logger(r.Context())
		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request completed")
	})
}

// newCORSMiddleware creates CORS middleware with origin whitelisting.
func newCORSMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			allowed := false
			for _, allowedOrigin := range cfg.AllowedOrigins {
				if origin == allowedOrigin {
					allowed = true
					break
				}
			}

			if allowed {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, PATCH, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Max-Age", "3600")
			}

			if r.Method == "OPTIONS" {
				if allowed {
					w.WriteHeader(http.StatusOK)
				} else {
					w.WriteHeader(http.StatusForbidden)
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
