package routes

import (
	"github.com/go-chi/chi/v5"

	"pinlock/internal/auth"
	"pinlock/internal/handlers"
	"pinlock/internal/middleware"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	ipfsHandler *handlers.IPFSHandler,
	solanaHandler *handlers.SolanaHandler,
	recordsHandler *handlers.RecordsHandler,
	systemHandler *handlers.SystemHandler,
	sessions auth.SessionValidator,
) {
	// Rate limiting config for credential-guessing surfaces
	rateLimitConfig := middleware.DefaultAuthRateLimit()

	// Public routes - no authentication required
	router.Get("/health", systemHandler.Health)
	router.Get("/config/save-dir", systemHandler.SaveDir)
	router.Get("/auth/first-time-check", authHandler.FirstTimeCheck)
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/auth/login", authHandler.Login)
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/auth/reset-application", authHandler.ResetApplication)
	router.Post("/ipfs/gateway-url", ipfsHandler.GatewayURL)

	// Protected routes - bearer session required
	router.Group(func(r chi.Router) {
		r.Use(auth.RequireSession(sessions))

		r.Post("/auth/logout", authHandler.Logout)
		r.Post("/auth/change-password", authHandler.ChangePassword)

		r.Post("/ipfs/upload", ipfsHandler.Upload)
		r.Post("/ipfs/download", ipfsHandler.Download)

		r.Post("/solana/validate-wallet", solanaHandler.ValidateWallet)
		r.Post("/solana/register", solanaHandler.Register)

		r.Get("/records/uploads", recordsHandler.ListUploads)
		r.Get("/records/downloads", recordsHandler.ListDownloads)
		r.Get("/records/transactions", recordsHandler.ListTransactions)
	})
}
