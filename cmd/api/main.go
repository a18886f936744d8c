// @title        Subscription Manager API
// @version      1.0
// @description  Shares streaming-service accounts between clients one profile at a time.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/streamshare/subscription-manager/internal/api"
	"github.com/streamshare/subscription-manager/internal/api/handler"
	"github.com/streamshare/subscription-manager/internal/core/service"
	"github.com/streamshare/subscription-manager/internal/infrastructure/db/mongo"
	"github.com/streamshare/subscription-manager/internal/infrastructure/db/redis"
	"github.com/streamshare/subscription-manager/internal/infrastructure/queue"
	"github.com/streamshare/subscription-manager/internal/pkg/config"
	"github.com/streamshare/subscription-manager/internal/pkg/vault"
	"github.com/streamshare/subscription-manager/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "subscription-manager",
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// --- Security ---
	cipher, err := vault.New(cfg.Crypto.SecretKey, logger.Component("vault"))
	if err != nil {
		return err
	}
	adminHash, err := adminPasswordHash(cfg.Auth)
	if err != nil {
		return err
	}

	// --- Repositories ---
	clientRepo := mongo.NewClientRepository(db)
	accountRepo := mongo.NewAccountRepository(db)
	assignmentRepo := mongo.NewAssignmentRepository(db)
	auditRepo := mongo.NewAuditRepository(db)
	tx := mongo.NewTxRunner(mongoClient, cfg.Mongo.Transactions)

	// --- Audit pipeline ---
	auditService := service.NewAuditService(auditRepo, logger.Component("audit"))
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, auditService, logger.Component("dispatcher"))
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workerCtx)

	// --- Services ---
	svcLog := logger.Component("service")
	services := api.Services{
		Auth:     service.NewAuthService(adminHash, redis.NewSessionStore(rdb), cfg.Auth.SessionSecret, cfg.Auth.SessionTTL, logger.Component("auth")),
		Accounts: service.NewAccountService(accountRepo, assignmentRepo, cipher, tx, dispatcher, svcLog),
		Clients:  service.NewClientService(clientRepo, assignmentRepo, accountRepo, tx, dispatcher, svcLog),
		Assignments: service.NewAssignmentService(
			assignmentRepo, clientRepo, accountRepo,
			redis.NewLocker(rdb, logger.Component("lock")),
			dispatcher, svcLog,
		),
		Access: service.NewAccessService(clientRepo, accountRepo, assignmentRepo, cipher),
		Audit:  auditService,
	}

	e := api.NewRouter(services, api.Options{
		Logger:        logger.Component("http"),
		SecureCookies: cfg.IsProduction(),
		Readiness: map[string]handler.Checker{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
	})

	// --- Serve ---
	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		stopWorkers()
		dispatcher.Wait()
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	// Requests are drained, so no more events can be published.
	stopWorkers()
	dispatcher.Wait()
	log.Info().Msg("shutdown complete")
	return nil
}

func adminPasswordHash(cfg config.AuthConfig) ([]byte, error) {
	if cfg.AdminPasswordHash != "" {
		return []byte(cfg.AdminPasswordHash), nil
	}
	return service.HashAdminPassword(cfg.AdminPassword)
}
