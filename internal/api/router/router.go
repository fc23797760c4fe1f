package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/heritage-connect/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/heritage-connect/internal/http/middleware"
	"github.com/wolfman30/heritage-connect/internal/webchat"
	"github.com/wolfman30/heritage-connect/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	WebChat            *webchat.Handler
	Sites              *handlers.SitesHandler
	Bookings           *handlers.BookingsHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	RateLimiter        *httpmiddleware.RateLimiter
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (health checks, metrics)
	r.Get("/", handlers.Root)
	r.Get("/health", handlers.Health)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// The socket is hijacked, so it stays outside compression and the
	// per-request rate limit.
	if cfg.WebChat != nil {
		r.Get("/chat/ws", cfg.WebChat.HandleWebSocket)
	}

	r.Group(func(api chi.Router) {
		api.Use(middleware.Compress(5))
		if cfg.RateLimiter != nil {
			api.Use(httpmiddleware.RateLimit(cfg.RateLimiter, cfg.Logger))
		}

		if cfg.WebChat != nil {
			api.Post("/chat", cfg.WebChat.HandleMessage)
			api.Post("/chat/sessions", cfg.WebChat.HandleStart)
			api.Post("/chat/actions", cfg.WebChat.HandleAction)
			api.Get("/chat/history", cfg.WebChat.HandleHistory)
		}
		if cfg.Sites != nil {
			api.Route("/sites", func(sites chi.Router) {
				sites.Get("/", cfg.Sites.List)
				sites.Get("/search", cfg.Sites.Search)
				sites.Get("/{id}", cfg.Sites.Get)
			})
		}
		if cfg.Bookings != nil {
			api.Post("/quotes", cfg.Bookings.Quote)
			api.Post("/bookings", cfg.Bookings.Confirm)
		}
	})

	return r
}
