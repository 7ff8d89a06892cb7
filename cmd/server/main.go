package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/grievance_system/configs"
	"github.com/grievance_system/internal/auth"
	"github.com/grievance_system/internal/routes"
	"github.com/grievance_system/pkg/db"
	"github.com/grievance_system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title           Grievance System API
// @version         1.0
// @description     Citizen complaint tracking: registration, complaint submission with automatic priority, lifecycle management for officers and admins.
// @host            localhost:5000
// @BasePath        /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter the token with the `Bearer ` prefix
func main() {
	if err := run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func run() error {
	cfg, err := configs.LoadConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	gin.SetMode(cfg.GinMode)

	appLogger, err := logger.New(cfg.LogDir)
	if err != nil {
		return fmt.Errorf("initialise logger: %w", err)
	}
	defer appLogger.Close()

	gormDB, err := db.Open(cfg, appLogger)
	if err != nil {
		return err
	}
	defer db.Close(gormDB)

	if err := db.Migrate(gormDB); err != nil {
		return err
	}
	appLogger.Info("Database migration completed")

	denylist, closeDenylist, err := newDenylist(cfg, gormDB, appLogger)
	if err != nil {
		return fmt.Errorf("initialise token denylist: %w", err)
	}
	defer closeDenylist()

	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL, cfg.TokenIssuer, denylist)

	router := routes.SetupRouter(
		routes.NewHandlers(gormDB, hasher, tokens, appLogger),
		routes.Options{AllowedOrigins: cfg.AllowedOrigins, Logger: appLogger, Tokens: tokens},
	)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		appLogger.Info("Server starting on port %s...", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("run server: %w", err)
		}
	case <-ctx.Done():
	}
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	appLogger.Info("Server exited")
	return nil
}

// newDenylist picks redis when it is configured, the database otherwise.
func newDenylist(cfg *configs.Configuration, gormDB *gorm.DB, lg *logger.Logger) (auth.Denylist, func(), error) {
	if !cfg.RedisEnabled() {
		lg.Info("Token denylist stored in the database")
		return auth.NewGormDenylist(gormDB), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, nil, err
	}
	lg.Info("Token denylist stored in redis at %s", cfg.RedisAddr)
	return auth.NewRedisDenylist(rdb), func() { rdb.Close() }, nil
}
