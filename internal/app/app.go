package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"userhub_backend/internal/config"
	"userhub_backend/internal/email"
	"userhub_backend/internal/handlers"
	"userhub_backend/internal/logger"
	"userhub_backend/internal/middleware"
	"userhub_backend/internal/models"
	"userhub_backend/internal/repositories"
	"userhub_backend/internal/routes"
	"userhub_backend/internal/services"
	"userhub_backend/internal/storage"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	db, err := OpenDatabase(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected", "driver", cfg.Database.Driver)

	// Schema setup is an explicit, always-invoked step; it is never gated
	// on the environment.
	if err := InitStore(db); err != nil {
		logger.Fatal("Failed to migrate database schema", "error", err)
	}

	emailProvider := email.NewSMTPProvider(email.SMTPConfig{
		Host:     cfg.Email.SMTPHost,
		Port:     cfg.Email.SMTPPort,
		Username: cfg.Email.SMTPUsername,
		Password: cfg.Email.SMTPPassword,
		From:     cfg.Email.FromEmail,
		BaseURL:  cfg.Email.BaseURL,
	})

	router, tokenService := SetupRouter(cfg, db, emailProvider)

	// Background sweep of expired tokens, stopped on process shutdown.
	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	defer cancelCleanup()
	tokenService.ScheduleCleanup(cleanupCtx, db)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := router.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// OpenDatabase opens a GORM connection with the configured driver.
func OpenDatabase(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.Database.Driver {
	case "mysql":
		return gorm.Open(mysql.Open(cfg.Database.DSN), &gorm.Config{})
	case "postgres", "":
		return gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
}

// InitStore migrates the schema for every model this service owns.
func InitStore(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Token{},
	)
}

// SetupRouter wires repositories, services and handlers onto a gin engine.
// It is exported so the test helpers can mount the full router onto their
// own database and email fake. The returned TokenService lets the caller
// own the cleanup worker's lifetime.
func SetupRouter(cfg *config.Config, db *gorm.DB, emailProvider email.Provider) (*gin.Engine, services.TokenService) {
	store, err := storage.NewLocalStorage(cfg.Storage.UploadDir)
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}

	userRepo := repositories.NewUserRepository()
	tokenRepo := repositories.NewTokenRepository()

	tokenService := services.NewTokenService(tokenRepo)
	fileService := services.NewFileService(store, cfg.Storage.ProfileDir)
	userService := services.NewUserService(userRepo, tokenService, fileService, emailProvider, cfg.Security.BcryptCost)
	authService := services.NewAuthService(userRepo, tokenService)

	baseHandler := handlers.NewBaseHandler()
	appHandlers := &handlers.AppHandlers{
		AuthHandler: handlers.NewAuthHandler(baseHandler, authService),
		UserHandler: handlers.NewUserHandler(baseHandler, userService),
		FileHandler: handlers.NewFileHandler(baseHandler, store, cfg.Storage.ProfileDir),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.DBMiddleware(db))
	router.Use(middleware.TokenAuthMiddleware(tokenService))

	routes.RegisterRoutes(router, appHandlers)

	return router, tokenService
}
