package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zdy718/ClearDollar/internal/config"
	"github.com/zdy718/ClearDollar/internal/database"
	"github.com/zdy718/ClearDollar/internal/logger"
	"github.com/zdy718/ClearDollar/internal/plaid"
	"github.com/zdy718/ClearDollar/internal/server"
	"github.com/zdy718/ClearDollar/internal/services"
	"github.com/zdy718/ClearDollar/internal/session"
)

// @title           ClearDollar API
// @version         1.0
// @description     ClearDollar tracks spending and income against a user-defined category tree with per-category budgets.

// @host      localhost:8080
// @BasePath  /api/v1

const (
	sessionSweepInterval = 5 * time.Minute
	shutdownTimeout      = 30 * time.Second
)

func main() {
	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Init(appConfig.Env, appConfig.LogLevel)
	defer logger.Sync()
	log := logger.Get()

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	var bank services.BankSyncer
	if appConfig.PlaidEnabled() {
		bank = plaid.NewClient(appConfig.PlaidClientID, appConfig.PlaidSecret, appConfig.PlaidEnv,
			&http.Client{Timeout: appConfig.RequestTimeout})
		log.Infow("bank sync enabled", "plaid_env", appConfig.PlaidEnv)
	} else {
		log.Info("bank sync disabled: PLAID_CLIENT_ID and PLAID_SECRET are not set")
	}

	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	app := server.New(appConfig, dbManager.DB(), bank, uint64(time.Now().UnixNano()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sweepSessions(ctx, app.Sessions)

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting ClearDollar server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info("Server stopped gracefully")
	return nil
}

// sweepSessions evicts expired category tree sessions until ctx is done.
func sweepSessions(ctx context.Context, sessions *session.Manager) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.CleanExpired(); n > 0 {
				logger.Get().Debugw("evicted expired sessions", "count", n)
			}
		}
	}
}
