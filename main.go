package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopora-backend/config"
	"shopora-backend/database"
	"shopora-backend/logger"
	"shopora-backend/metrics"
	"shopora-backend/routes"
	"shopora-backend/storage"
	"shopora-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("Configuration validation failed: ", err)
	}

	if err := logger.Init(cfg.LogLevel, cfg.Env); err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer logger.L().Sync()

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		logger.L().Fatal("failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		logger.L().Fatal("failed to run migrations", zap.Error(err))
	}

	// Create default admin user if not exists
	if err := database.CreateDefaultAdmin(db, cfg); err != nil {
		logger.L().Warn("could not create default admin", zap.Error(err))
	}

	storageClient, err := storage.NewLocalClient(cfg.UploadDir)
	if err != nil {
		logger.L().Fatal("failed to initialize upload storage", zap.Error(err))
	}

	tokenManager := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(metrics.Middleware())

	// Limit multipart form memory to 10MB
	r.MaxMultipartMemory = 10 << 20

	origins := cfg.CORSOrigins()
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
		logger.L().Warn("no CORS origins configured, defaulting to http://localhost:3000")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Setup routes
	routes.SetupRoutes(r, db, storageClient, tokenManager, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Run server in a goroutine
	go func() {
		logger.L().Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.L().Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.L().Info("shutting down server")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.L().Fatal("server forced to shutdown", zap.Error(err))
	}

	// Close database connection
	sqlDB, err := db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.L().Error("error closing database connection", zap.Error(err))
		}
	}

	logger.L().Info("server exited gracefully")
}
