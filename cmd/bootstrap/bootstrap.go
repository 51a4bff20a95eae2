package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"teleradiology-case-routing/config"
	deliveryHttp "teleradiology-case-routing/internal/delivery/http"
	"teleradiology-case-routing/internal/delivery/http/handler"
	"teleradiology-case-routing/internal/delivery/http/middleware"
	"teleradiology-case-routing/internal/infrastructure/cache"
	"teleradiology-case-routing/internal/infrastructure/database"
	"teleradiology-case-routing/internal/infrastructure/realtime"
	"teleradiology-case-routing/internal/repository"
	"teleradiology-case-routing/internal/service"
	"teleradiology-case-routing/internal/usecase"
	"teleradiology-case-routing/pkg/jwt"
	"teleradiology-case-routing/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Hub         *realtime.Hub
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	app.Config = cfg

	db, err := OpenDatabase(cfg)
	if err != nil {
		return nil, err
	}
	app.DB = db

	if cfg.DB.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		logrus.Info("Database schema migrated")
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	app.Hub = realtime.NewHub(logrus.StandardLogger())

	// Initialize all layers
	app.Server = initializeServer(cfg, db, redisClient, app.Hub)

	return app, nil
}

// LoadConfig reads configuration and applies the logger settings from it.
func LoadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	setupLogger(cfg.App)
	logrus.Info("Configuration loaded successfully")
	return cfg, nil
}

// OpenDatabase connects to postgres with a gorm log level matching the environment.
func OpenDatabase(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.App.IsDevelopment() {
		logLevel = logger.Info
	}

	db, err := database.NewPostgresConnection(cfg.DB, logLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logrus.Info("Database connected successfully")
	return db, nil
}

// setupLogger configures the logrus logger
func setupLogger(cfg config.AppConfig) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, hub *realtime.Hub) *http.Server {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	radiologistProfileRepo := repository.NewRadiologistProfileRepository()
	centerProfileRepo := repository.NewCenterProfileRepository()
	caseRepo := repository.NewCaseRepository()
	reportRepo := repository.NewReportRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize services
	auditService := service.NewAuditService(db, log, auditLogRepo)
	notificationService := service.NewNotificationService(db, log, hub, radiologistProfileRepo)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, radiologistProfileRepo, centerProfileRepo, auditService, jwtService, redisClient)
	caseUsecase := usecase.NewCaseUsecase(db, log, caseRepo, reportRepo, auditService, notificationService)
	radiologistUsecase := usecase.NewRadiologistUsecase(db, log, radiologistProfileRepo, auditService)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator, jwtService)
	caseHandler := handler.NewCaseHandler(caseUsecase, customValidator)
	radiologistHandler := handler.NewRadiologistHandler(radiologistUsecase, customValidator)
	wsHandler := handler.NewWSHandler(hub, notificationService, log, cfg.WS.SendBuffer)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(authHandler, caseHandler, radiologistHandler, wsHandler, authMiddleware, corsMiddleware)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown does not wait for hijacked WebSocket connections; closing the hub
	// ends their writers.
	if app.Hub != nil {
		app.Hub.Close()
	}

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
