package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pinlock/internal/auth"
	"pinlock/internal/background"
	"pinlock/internal/clients/ipfs"
	"pinlock/internal/clients/solana"
	"pinlock/internal/config"
	"pinlock/internal/database"
	"pinlock/internal/handlers"
	middlewareCustom "pinlock/internal/middleware"
	"pinlock/internal/repositories"
	"pinlock/internal/routes"
	"pinlock/internal/services"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		slog.String("env", cfg.Server.Env),
		slog.String("data_dir", cfg.Server.DataDir))

	// Initialize database
	db, err := database.NewConnection(cfg.Server.DatabasePath(), logger)
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Initialize repositories
	identityRepo := repositories.NewIdentityRepository(db)
	recordRepo := repositories.NewRecordRepository(db)

	// Initialize session manager and rate limiter
	sessions, err := auth.NewSessionManager(cfg.Auth.SessionTTL)
	if err != nil {
		logger.Error("failed to create session manager", slog.Any("error", err))
		os.Exit(1)
	}

	rateLimitConfig := services.RateLimitConfig{
		MaxFailedAttempts: cfg.Auth.MaxFailedAttempts,
		LockoutDuration:   cfg.Auth.LockoutDuration,
	}
	limiter := services.NewRateLimitService(rateLimitConfig, logger)

	// Initialize external clients
	ipfsClient := ipfs.NewClient(cfg.IPFS.APIURL, cfg.IPFS.GatewayURL, cfg.IPFS.Timeout)
	solanaClient := solana.NewClient(cfg.Solana.RPCURL, cfg.Solana.Network, cfg.Solana.Timeout)

	// Initialize services
	authService := services.NewAuthService(identityRepo, sessions, limiter, cfg.Auth.BcryptCost, logger)
	ipfsService := services.NewIPFSService(ipfsClient, recordRepo, cfg.Files, logger)
	solanaService := services.NewSolanaService(solanaClient, recordRepo, logger)

	// Bootstrap operator credentials on first run
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := authService.EnsureProvisioned(ctx); err != nil {
		cancel()
		logger.Error("failed to provision operator identity", slog.Any("error", err))
		os.Exit(1)
	}
	cancel()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	ipfsHandler := handlers.NewIPFSHandler(ipfsService, cfg.Files.DefaultSaveDir)
	solanaHandler := handlers.NewSolanaHandler(solanaService)
	recordsHandler := handlers.NewRecordsHandler(recordRepo)
	systemHandler := handlers.NewSystemHandler(ipfsService, solanaService, cfg.Files.DefaultSaveDir, cfg.Server.DataDir)

	// Initialize cleanup manager
	cleanupManager := background.NewCleanupManager(limiter, logger, cfg.Auth.CleanupInterval)

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.CORS(middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Register routes
	routes.RegisterRoutes(router, authHandler, ipfsHandler, solanaHandler, recordsHandler, systemHandler, sessions)

	// Create server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start cleanup task
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()

	go cleanupManager.Start(cleanupCtx)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	cleanupCancel()
	cleanupManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}
