package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campusdesk/campusdesk/internal/api"
	"github.com/campusdesk/campusdesk/internal/auth"
	"github.com/campusdesk/campusdesk/internal/bootstrap"
	"github.com/campusdesk/campusdesk/internal/database"
	"github.com/campusdesk/campusdesk/internal/orgs"
	"github.com/campusdesk/campusdesk/internal/storage"
	"github.com/campusdesk/campusdesk/internal/tickets"
	"github.com/campusdesk/campusdesk/pkg/config"
	"github.com/campusdesk/campusdesk/pkg/util"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := util.NewLogger(cfg.Server.Env)
	slog.SetDefault(logger)

	logger.Info("starting CampusDesk server",
		"env", cfg.Server.Env,
		"addr", cfg.Server.Addr(),
	)

	// Connect to database
	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Apply schema and seed the first administrator if the system is empty
	if err := database.AutoMigrate(db); err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}
	if err := bootstrap.Run(context.Background(), db, &cfg.Bootstrap, logger); err != nil {
		logger.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Warn("failed to connect to Redis", "error", err)
		redisClient = nil
	}

	// Pick the attachment store backend
	var store storage.Store
	if cfg.Uploads.UseS3() {
		store, err = storage.NewS3Store(context.Background(), cfg.Uploads.S3Bucket, cfg.Uploads.S3Region)
		if err != nil {
			logger.Error("failed to initialize S3 store", "error", err)
			os.Exit(1)
		}
		logger.Info("using S3 attachment store", "bucket", cfg.Uploads.S3Bucket)
	} else {
		store, err = storage.NewDiskStore(cfg.Uploads.Dir)
		if err != nil {
			logger.Error("failed to initialize disk store", "error", err)
			os.Exit(1)
		}
	}

	// Initialize services
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())
	authService := auth.NewService(db, jwtService, cfg.Session.Lifetime())
	ticketService := tickets.NewService(db, store, logger)
	orgService := orgs.NewService(db)

	// Create router
	router := api.NewRouter(api.RouterConfig{
		DB:             db,
		Redis:          redisClient,
		Logger:         logger,
		JWTService:     jwtService,
		AuthService:    authService,
		TicketService:  ticketService,
		OrgService:     orgService,
		UploadMaxBytes: cfg.Uploads.MaxBytes,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimitReqs:  cfg.RateLimit.Requests,
		RateLimitSecs:  cfg.RateLimit.WindowSeconds,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	// Close Redis connection
	if redisClient != nil {
		redisClient.Close()
	}

	// Close database connection
	sqlDB, _ := db.DB()
	sqlDB.Close()

	logger.Info("server stopped")
}
