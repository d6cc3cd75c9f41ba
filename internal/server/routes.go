package server

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"painscout/internal/agent"
	"painscout/internal/db"
	"painscout/internal/handlers"
	"painscout/internal/middleware"
	"painscout/internal/quota"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, database *db.DB) error {
	gate := quota.New(s.Storage)
	agentClient := agent.NewClient(s.Cfg.AgentURL, s.Cfg.AgentAPIKey)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(database)

	// Initialize handlers
	analyzeHandler := handlers.NewAnalyzeHandler(database, gate, agentClient)
	historyHandler := handlers.NewHistoryHandler(database)
	redditHandler := handlers.NewRedditHandler()
	healthHandler := handlers.NewHealthHandler(database)

	// Guest identity cookie for anonymous quota tracking
	s.App.Use(middleware.GuestIdentity)

	// Auth routes - optional; without OIDC the service runs guest-only
	if s.Cfg.OIDCIssuer != "" {
		authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg, database, gate)
		if err != nil {
			return err
		}
		s.App.Get("/auth/login", authHandler.Login)
		s.App.Get("/auth/callback", authHandler.Callback)
		s.App.Get("/auth/logout", authHandler.Logout)
	} else {
		log.Println("OIDC authentication is disabled. Set OIDC_ISSUER to enable sign-in and history.")
	}

	// Analysis - guests allowed, gated by quota
	s.App.Post("/api/pain-points/analyze", authMiddleware.OptionalAuth, analyzeHandler.Analyze)

	// History - authenticated only
	s.App.Post("/api/pain-points/history", authMiddleware.RequireAuth, historyHandler.Create)
	s.App.Get("/api/pain-points/history", authMiddleware.RequireAuth, historyHandler.List)
	s.App.Get("/api/pain-points/history/:id", authMiddleware.RequireAuth, historyHandler.Get)
	s.App.Delete("/api/pain-points/history/:id", authMiddleware.RequireAuth, historyHandler.Delete)

	// Public
	s.App.Get("/api/reddit/subreddit/:name", redditHandler.Subreddit)
	s.App.Get("/api/health", healthHandler.Check)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	return nil
}
