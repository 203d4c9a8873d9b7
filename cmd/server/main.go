package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/leasedesk/leasedesk/internal/adapter/export"
	httpadapter "github.com/leasedesk/leasedesk/internal/adapter/http"
	"github.com/leasedesk/leasedesk/internal/adapter/notification"
	"github.com/leasedesk/leasedesk/internal/adapter/persistence"
	"github.com/leasedesk/leasedesk/internal/config"
	"github.com/leasedesk/leasedesk/internal/service/logger"
	"github.com/leasedesk/leasedesk/internal/service/password"
	"github.com/leasedesk/leasedesk/internal/service/ratelimit"
	"github.com/leasedesk/leasedesk/internal/service/token"
	"github.com/leasedesk/leasedesk/internal/usecase"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	structuredLogger := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "leasedesk",
	})
	structuredLogger.Info(ctx, "application starting", map[string]interface{}{
		"env": cfg.Environment,
	})

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		structuredLogger.Error(ctx, "failed to open database", err, nil)
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		structuredLogger.Error(ctx, "failed to ping database", err, nil)
		log.Fatalf("Failed to ping database: %v", err)
	}
	structuredLogger.Info(ctx, "database connection established", nil)

	limiter, err := ratelimit.New(ratelimit.Config{
		Enabled:  cfg.RateLimitEnabled,
		RedisURL: cfg.RedisURL,
	})
	if err != nil {
		structuredLogger.Error(ctx, "failed to initialize rate limiter", err, map[string]interface{}{
			"redis_url": cfg.RedisURL,
		})
		log.Fatalf("Failed to initialize rate limiter: %v", err)
	}

	tokenService, err := token.NewJWTService(cfg.JWTSecret, cfg.AccessTokenTTL)
	if err != nil {
		log.Fatalf("Failed to initialize token service: %v", err)
	}
	passwordService := password.NewBcryptService(10)

	auditRepo := persistence.NewPostgresAuditLogRepository(db)
	leaseRepo := persistence.NewPostgresLeaseRepository(db)
	userRepo := persistence.NewPostgresUserRepository(db)

	exporter := export.NewCSVExporter()
	notifier := notification.NewSMTPNotifier(notification.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})

	auditUseCase := usecase.NewAuditUseCase(auditRepo, leaseRepo, exporter, notifier)
	leaseUseCase := usecase.NewLeaseUseCase(leaseRepo, auditUseCase)
	authUseCase := usecase.NewAuthUseCase(
		userRepo,
		passwordService,
		tokenService,
		limiter,
		cfg.LoginAttempts,
		cfg.LoginWindow,
	)

	authMiddleware := httpadapter.NewAuthMiddleware(tokenService)
	server := httpadapter.NewServer(
		httpadapter.ServerConfig{
			Host:         cfg.ServerHost,
			Port:         cfg.ServerPort,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		structuredLogger,
		authMiddleware,
		httpadapter.NewAuthHandler(authUseCase),
		httpadapter.NewLeaseHandler(leaseUseCase),
		httpadapter.NewAuditHandler(auditUseCase, structuredLogger),
	)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			structuredLogger.Error(ctx, "server failed", err, nil)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		structuredLogger.Error(ctx, "server forced to shutdown", err, nil)
	}
	structuredLogger.Info(ctx, "server exited", nil)
}
