package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/servinear/marketplace-backend/internal/cache"
	"github.com/servinear/marketplace-backend/internal/config"
	"github.com/servinear/marketplace-backend/internal/database"
	"github.com/servinear/marketplace-backend/internal/handlers"
	"github.com/servinear/marketplace-backend/internal/services"
	"github.com/servinear/marketplace-backend/pkg/jwt"
	"github.com/servinear/marketplace-backend/pkg/password"
	"github.com/sirupsen/logrus"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Servinear marketplace backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	db, err := database.NewConnection(cfg.Database, logger)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(db.DB.DB, logger); err != nil {
			logger.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// List cache
	var listCache cache.Cache = cache.NewNoop()
	if cfg.Redis.URL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisCache, err := cache.NewRedis(ctx, cfg.Redis.URL)
		cancel()
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, catalog lists will not be cached")
		} else {
			listCache = redisCache
			logger.Info("Redis list cache enabled")
		}
	}
	defer listCache.Close()

	// Repositories
	userRepository := database.NewUserRepository(db)
	sessionRepository := database.NewUserSessionRepository(db)
	locationRepository := database.NewLocationRepository(db)
	serviceRepository := database.NewServiceRepository(db)
	providerServiceRepository := database.NewProviderServiceRepository(db)
	bookingRepository := database.NewBookingRepository(db)
	auditRepository := database.NewAuditRepository(db)

	// Services
	logger.Info("Initializing services...")
	hasher, err := password.NewHasher(cfg.Security.PasswordPepper, cfg.Security.BcryptCost)
	if err != nil {
		logger.Fatalf("Failed to initialize password hasher: %v", err)
	}
	jwtService := jwt.NewService(cfg.Session.Secret, cfg.Session.Expiry)

	authService := services.NewAuthService(userRepository, sessionRepository, hasher, jwtService, logger)
	auditService := services.NewAuditService(auditRepository, cfg.Security.EnableAuditLog)
	catalogService := services.NewCatalogService(locationRepository, serviceRepository, listCache, cfg.Redis.CacheTTL, logger)
	moderationService := services.NewModerationService(
		providerServiceRepository,
		serviceRepository,
		locationRepository,
		cfg.Policy.ModerationAllowRetransition,
		logger,
	)
	discoveryService := services.NewDiscoveryService(userRepository, providerServiceRepository)
	bookingService := services.NewBookingService(
		bookingRepository,
		userRepository,
		serviceRepository,
		providerServiceRepository,
		services.BookingPolicy{
			RequireOfferedService: cfg.Policy.BookingRequireOfferedService,
			RejectPastDates:       cfg.Policy.BookingRejectPastDates,
		},
		logger,
	)

	if cfg.Seed.OnStart {
		seedService := services.NewSeedService(locationRepository, serviceRepository, userRepository, hasher, logger)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := seedService.Seed(ctx, cfg.Seed.AdminUsername, cfg.Seed.AdminPassword)
		cancel()
		if err != nil {
			logger.Fatalf("Failed to seed database: %v", err)
		}
	}

	// Initialize and start cron service
	cronService := services.NewCronService(
		authService,
		auditService,
		cfg.Session.CleanupSchedule,
		cfg.Security.AuditRetention,
		logger,
	)
	if err := cronService.Start(); err != nil {
		logger.Fatalf("Failed to start cron service: %v", err)
	}
	// Sessions that expired while the server was down
	cronService.RunSessionCleanupNow()

	logger.Info("Services initialized")

	handlers.Version = version
	router := handlers.NewRouter(handlers.Dependencies{
		Auth:       authService,
		Catalog:    catalogService,
		Moderation: moderationService,
		Discovery:  discoveryService,
		Bookings:   bookingService,
		Audit:      auditService,
		DB:         db,
		Cache:      redisOrNil(listCache),
		Logger:     logger,
	}, handlers.RouterConfig{
		CORS: cfg.CORS,
		Cookie: handlers.CookieConfig{
			Name:   cfg.Session.CookieName,
			Domain: cfg.Session.CookieDomain,
			Secure: cfg.Session.CookieSecure,
		},
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	cronService.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// redisOrNil keeps the health check from reporting the no-op cache as a dependency
func redisOrNil(c cache.Cache) cache.Cache {
	if _, ok := c.(cache.Noop); ok {
		return nil
	}
	return c
}
