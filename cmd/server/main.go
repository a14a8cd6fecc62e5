package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/osa911/contact-api/internal/config"
	"github.com/osa911/contact-api/internal/logging"
	"github.com/osa911/contact-api/internal/metrics"
	"github.com/osa911/contact-api/internal/repository"
	"github.com/osa911/contact-api/internal/server"
	"github.com/osa911/contact-api/internal/service"
	"github.com/osa911/contact-api/internal/tasks"
	"github.com/osa911/contact-api/internal/telemetry"
	"github.com/osa911/contact-api/internal/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Configure and get logger
	if err := logging.Configure(&logging.Config{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     7,
		Requests:   cfg.LogRequests,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger := logging.GetLogger()
	defer logger.Close()

	logger.Info("Starting contact API %s in %s mode", version.Info(), cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracing, err := telemetry.Setup(ctx, telemetry.Config{
		Endpoint:       cfg.OTLPEndpoint,
		ServiceVersion: version.Version,
		Environment:    cfg.Environment,
	})
	if err != nil {
		logger.Error("Failed to initialize tracing: %v", err)
		return err
	}
	defer shutdownWithTimeout("tracer", tracing.Shutdown)

	store, err := repository.Open(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open %s store: %v", cfg.StoreDriver, err)
		return err
	}
	defer shutdownWithTimeout("store", store.Close)
	logger.Info("Using %s submission store", cfg.StoreDriver)

	m := metrics.New(prometheus.DefaultRegisterer)

	deps := service.ContactDeps{
		Repository: store,
		MinScore:   cfg.RecaptchaMinScore,
		Metrics:    m,
	}
	if cfg.RecaptchaSecretKey != "" {
		deps.Verifier = service.NewRecaptchaService(service.RecaptchaConfig{SecretKey: cfg.RecaptchaSecretKey})
	} else {
		logger.Warn("RECAPTCHA_SECRET_KEY not set, reCAPTCHA verification disabled")
	}
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		deps.Notifier = service.NewTelegramService(service.TelegramConfig{
			BotToken: cfg.TelegramBotToken,
			ChatID:   cfg.TelegramChatID,
		})
	} else {
		logger.Warn("Telegram not configured, submissions are stored without notification")
	}

	// Start submission retention task
	cleanup := tasks.NewSubmissionCleanup(store, cfg.SubmissionRetention, cfg.CleanupInterval)
	cleanup.Start(ctx)
	defer cleanup.Stop()

	srv := server.NewServer(cfg, server.Deps{
		Processor:      service.NewContactService(deps),
		Store:          store,
		Metrics:        m,
		Gatherer:       prometheus.DefaultGatherer,
		TracerProvider: tracing.TracerProvider(),
	})

	if err := srv.Start(ctx); err != nil {
		logger.Error("Failed to start server: %v", err)
		return err
	}
	return nil
}

func shutdownWithTimeout(name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		logging.GetLogger().Error("Failed to close %s: %v", name, err)
	}
}
