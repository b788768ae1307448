package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Zert0X/OnyxForum/internal/adapter/httpserver"
	"github.com/Zert0X/OnyxForum/internal/adapter/mail"
	"github.com/Zert0X/OnyxForum/internal/adapter/metrics"
	"github.com/Zert0X/OnyxForum/internal/adapter/postgres"
	"github.com/Zert0X/OnyxForum/internal/adapter/storage"
	"github.com/Zert0X/OnyxForum/internal/app"
	"github.com/Zert0X/OnyxForum/internal/platform/config"
	"github.com/Zert0X/OnyxForum/internal/platform/crypto"
	"github.com/Zert0X/OnyxForum/internal/platform/logging"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := postgres.RunMigrationsWithLock(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

func setupUploadStore(cfg *config.Config) app.UploadStore {
	switch cfg.UploadBackend {
	case "s3":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		store, err := storage.NewMinioStore(ctx, storage.MinioConfig{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			UseSSL:    cfg.S3UseSSL,
		})
		if err != nil {
			slog.Error("Failed to create s3 upload store", "error", err)
			os.Exit(1)
		}
		return store
	default:
		store, err := storage.NewLocalStore(cfg.UploadRoot)
		if err != nil {
			slog.Error("Failed to create local upload store", "error", err)
			os.Exit(1)
		}
		return store
	}
}

func runGracefulShutdown(srv *httpserver.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	pool := setupDB(cfg)
	defer pool.Close()

	var cryptoSvc crypto.Service = crypto.NoopService{}
	if cfg.TokenEncryptionKey != "" {
		svc, err := crypto.NewAesGcmService(cfg.TokenEncryptionKey)
		if err != nil {
			slog.Error("Failed to create crypto service", "error", err)
			os.Exit(1)
		}
		cryptoSvc = svc
	}

	var mailer app.Mailer
	if cfg.MailEnabled() {
		mailer = mail.NewMailer(mail.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
			From:     cfg.SenderEmail,
		}, logging.Logger)
	}

	appSvc := app.NewService(app.Options{
		Users:         postgres.NewUserRepo(pool),
		Files:         postgres.NewUploadRepo(pool),
		Tokens:        postgres.NewTokenRepo(pool),
		Links:         postgres.NewGameLinkRepo(pool),
		Forum:         postgres.NewForumRepo(pool),
		Store:         setupUploadStore(cfg),
		Mailer:        mailer,
		TokenCrypto:   cryptoSvc,
		Clock:         clockwork.NewRealClock(),
		Audit:         logging.Audit(),
		MaxUploadSize: cfg.MaxUploadSize,
	})

	registry := metrics.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	srv, err := httpserver.NewServer(cfg, appSvc,
		httpserver.WithMetrics(httpMetrics, metrics.Handler(registry)),
		httpserver.WithHealthChecks(httpserver.HealthCheck{
			Name:  "database",
			Check: pool.Ping,
		}),
	)
	if err != nil {
		slog.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	done := runGracefulShutdown(srv)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
