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

	"digital-storefront/internal/config"
	"digital-storefront/internal/domain/ports/adapter"
	"digital-storefront/internal/domain/ports/repository"
	pg "digital-storefront/internal/infra/db/postgres"
	"digital-storefront/internal/infra/download"
	"digital-storefront/internal/infra/email"
	"digital-storefront/internal/infra/logging"
	"digital-storefront/internal/infra/metrics"
	red "digital-storefront/internal/infra/redis"
	"digital-storefront/internal/infra/stripe"
	"digital-storefront/internal/infra/web"
	"digital-storefront/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, noop mailer fallback)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	productRepo := pg.NewProductRepo(pool)
	accountRepo := pg.NewAccountRepo(pool)
	orderRepo := pg.NewOrderRepo(pool)
	grantRepo := pg.NewDownloadGrantRepo(pool)
	tm := pg.NewTxManager(pool)

	// ---- Redis (product cache + charge locks) ----
	var fulfillProducts repository.ProductRepository = productRepo
	var locker red.Locker
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer redisClient.Close()
		fulfillProducts = pg.NewProductRepoCacheDecorator(productRepo, redisClient, cfg.Redis.TTL)
		locker = red.NewLocker(redisClient)
	} else {
		logger.Warn().Msg("redis not configured; product cache and charge locks disabled")
	}

	// ---- Mailer ----
	var mailer adapter.Mailer
	if cfg.Email.ResendKey != "" {
		mailer, err = email.NewResendMailer(cfg.Email.ResendKey, cfg.Email.Sender)
		if err != nil {
			log.Fatalf("resend mailer: %v", err)
		}
	} else {
		// LoadConfig only allows an empty key in dev mode.
		mailer = email.NewNoopMailer(logger)
	}
	logger.Info().Str("mailer", mailer.Name()).Msg("notification adapter ready")

	signer, err := download.NewTokenSigner(cfg.Download.TokenSecret)
	if err != nil {
		log.Fatalf("download signer: %v", err)
	}

	// ---- Use cases ----
	notifUC := usecase.NewNotificationUseCase(mailer, signer, orderRepo, grantRepo, cfg.Download.BaseURL, logger)
	fulfillUC := usecase.NewFulfillmentUseCase(fulfillProducts, accountRepo, orderRepo, grantRepo, tm, locker, logger)
	webhookUC := usecase.NewWebhookUseCase(fulfillUC, notifUC, logger)
	orderUC := usecase.NewOrderUseCase(orderRepo, notifUC)
	statsUC := usecase.NewStatsUseCase(orderRepo, accountRepo)

	// ---- HTTP ----
	verifier := stripe.NewVerifier(cfg.Webhook.Secret, cfg.Webhook.Tolerance)
	srv := web.NewServer(verifier, webhookUC, orderUC, statsUC, cfg.Admin.APIKey, logger)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Webhook.Port),
		Handler: srv.Router(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
}
