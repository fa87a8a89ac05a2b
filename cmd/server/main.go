package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/percefons/auth-service/config"
	"github.com/percefons/auth-service/internal/email"
	"github.com/percefons/auth-service/internal/health"
	"github.com/percefons/auth-service/internal/infrastructure"
	ctxlog "github.com/percefons/auth-service/internal/log"
	"github.com/percefons/auth-service/internal/metrics"
	"github.com/percefons/auth-service/internal/password"
	"github.com/percefons/auth-service/internal/token"
	httptransport "github.com/percefons/auth-service/internal/transport/http"
	"github.com/percefons/auth-service/internal/transport/http/handler"
	"github.com/percefons/auth-service/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := ctxlog.New(os.Stdout, cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	store, err := infrastructure.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL, logger)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer store.Close()

	hasher, err := password.New(cfg.PasswordHasher, cfg.BcryptCost)
	if err != nil {
		stop()
		log.Fatalf("password hasher: %v", err)
	}

	tokens, err := token.New(token.Config{
		AccessSecret:  []byte(cfg.JWTAccessSecret),
		RefreshSecret: []byte(cfg.JWTRefreshSecret),
		Algorithm:     cfg.JWTAlgorithm,
		AccessTTL:     cfg.AccessTTL(),
		RefreshTTL:    cfg.RefreshTTL(),
	})
	if err != nil {
		stop()
		log.Fatalf("token service: %v", err)
	}

	// Permissions
	permUsecase := usecase.NewPermissionUsecase(store.Permissions, store.UserPermissions, store.Users, logger)
	permHandler := handler.NewPermissionHandler(permUsecase, logger)

	// Auth
	sender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)
	authUsecase := usecase.NewAuthUsecase(store.Users, hasher, tokens, permUsecase, sender, logger)
	authHandler := handler.NewAuthHandler(authUsecase, logger)

	metrics.Register(prometheus.DefaultRegisterer)
	checker := health.NewChecker(store.Pinger, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr: ":" + cfg.Port,
		Handler: httptransport.NewRouter(httptransport.Deps{
			Logger:            logger,
			APIPrefix:         cfg.APIPrefix,
			AuthHandler:       authHandler,
			PermissionHandler: permHandler,
			Verifier:          tokens,
			Users:             authUsecase,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, prometheus.DefaultGatherer, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port, "driver", cfg.DatabaseDriver, "hasher", cfg.PasswordHasher)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}
