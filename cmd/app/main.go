// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"compta-billing-platform/internal/config"
	pg "compta-billing-platform/internal/infra/db/postgres"
	"compta-billing-platform/internal/infra/logging"
	"compta-billing-platform/internal/infra/metrics"
	red "compta-billing-platform/internal/infra/redis"
	"compta-billing-platform/internal/infra/sched"
	"compta-billing-platform/internal/infra/storage"
	"compta-billing-platform/internal/infra/web"
	"compta-billing-platform/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (pretty logs, relaxed cookies)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Logging ----
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("dev mode enabled")
	}

	// ---- Metrics ----
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	locker := red.NewLocker(redisClient)

	// ---- File storage ----
	store, err := storage.NewLocalStore(cfg.Storage.Root)
	if err != nil {
		logger.Fatal().Err(err).Msg("storage")
	}

	// ---- Repositories ----
	userRepo := pg.NewUserRepo(pool)
	planRepo := pg.NewPlanRepoCacheDecorator(pg.NewPlanRepo(pool), redisClient, cfg.Redis.TTL)
	companyRepo := pg.NewCompanyRepo(pool)
	subRepo := pg.NewSubscriptionRepo(pool)
	docRepo := pg.NewDocumentRepo(pool)
	delRepo := pg.NewDeletionRequestRepo(pool)
	txm := pg.NewTxManager(pool)

	// ---- Use cases ----
	userUC := usecase.NewUserUseCase(userRepo)
	planUC := usecase.NewPlanUseCase(planRepo)
	subUC := usecase.NewSubscriptionUseCase(subRepo, planRepo, txm, locker, logger)
	companyUC := usecase.NewCompanyUseCase(companyRepo, txm, locker, logger)
	docUC := usecase.NewDocumentUseCase(docRepo, subRepo, planRepo, store, subUC, logger)
	delUC := usecase.NewDeletionUseCase(delRepo, companyRepo, txm, logger)
	statsUC := usecase.NewStatsUseCase(userRepo, companyRepo, subRepo)

	// ---- HTTP server ----
	auth := web.NewAuthManager(cfg.Auth.JWTSecret, cfg.Auth.SecureCookie, cfg.Auth.CookieDomain, cfg.Auth.TokenTTL)
	srv := web.NewServer(userUC, companyUC, subUC, planUC, docUC, delUC, statsUC, auth, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Router(cfg.Server.CORSOrigins, cfg.Server.RequestTimeout),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server")
		}
	}()

	// ---- Expiry worker ----
	worker := sched.NewExpiryWorker(cfg.Scheduler.ExpiryInterval, subUC, subRepo, logger)
	go func() { _ = worker.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
