package api

import (
	"log/slog"

	"github.com/campusdesk/campusdesk/internal/api/handlers"
	"github.com/campusdesk/campusdesk/internal/api/middleware"
	"github.com/campusdesk/campusdesk/internal/auth"
	"github.com/campusdesk/campusdesk/internal/orgs"
	"github.com/campusdesk/campusdesk/internal/tickets"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB             *gorm.DB
	Redis          *redis.Client
	Logger         *slog.Logger
	JWTService     *auth.JWTService
	AuthService    *auth.Service
	TicketService  *tickets.Service
	OrgService     *orgs.Service
	UploadMaxBytes int64
	AllowedOrigins []string // CORS allowed origins
	RateLimitReqs  int      // Rate limit requests per window
	RateLimitSecs  int      // Rate limit window in seconds
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	// Rate limiting - applied globally to prevent abuse
	if cfg.RateLimitReqs > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitReqs, cfg.RateLimitSecs))
	}

	// CORS - restrict to configured origins, or allow localhost in development
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis)
	authHandler := handlers.NewAuthHandler(cfg.AuthService)
	ticketHandler := handlers.NewTicketHandler(cfg.TicketService)
	noteHandler := handlers.NewNoteHandler(cfg.TicketService)
	attachmentHandler := handlers.NewAttachmentHandler(cfg.TicketService, cfg.UploadMaxBytes)
	userHandler := handlers.NewUserHandler(cfg.OrgService)
	orgHandler := handlers.NewOrganizationHandler(cfg.OrgService)

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Public auth endpoints
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTService, cfg.AuthService))

			// Per-user budget once identity is known.
			if cfg.RateLimitReqs > 0 {
				r.Use(middleware.RateLimitByUser(cfg.RateLimitReqs, cfg.RateLimitSecs))
			}

			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/auth/me", authHandler.Me)

			// Tickets with notes and attachments
			r.Route("/tickets", func(r chi.Router) {
				r.Get("/", ticketHandler.List)
				r.Post("/", ticketHandler.Create)
				r.Get("/{id}", ticketHandler.Get)
				r.Put("/{id}", ticketHandler.Update)
				r.Delete("/{id}", ticketHandler.Delete)
				r.Post("/{id}/reopen", ticketHandler.Reopen)

				r.Get("/{id}/notes", noteHandler.List)
				r.Post("/{id}/notes", noteHandler.Create)

				r.Get("/{id}/attachments", attachmentHandler.List)
				r.Post("/{id}/attachments", attachmentHandler.Upload)
				r.Get("/{id}/attachments/{attachmentID}", attachmentHandler.Download)
			})

			// Organization-scoped user management
			r.Route("/admin/users", func(r chi.Router) {
				r.Use(middleware.RequireAdmin())
				r.Get("/", userHandler.List)
				r.Post("/", userHandler.Create)
				r.Get("/{id}", userHandler.Get)
				r.Put("/{id}", userHandler.Update)
				r.Delete("/{id}", userHandler.Delete)
			})

			// System-level organization management
			r.Route("/organizational", func(r chi.Router) {
				r.Use(middleware.RequireAdmin())

				r.Route("/organizations", func(r chi.Router) {
					r.Get("/", orgHandler.List)
					r.Post("/", orgHandler.Create)
					r.Delete("/{id}", orgHandler.Delete)
				})

				r.Route("/users", func(r chi.Router) {
					r.Get("/", userHandler.List)
					r.Post("/", userHandler.Create)
					r.Delete("/{id}", userHandler.Delete)
				})
			})
		})
	})

	return &Router{r}
}
