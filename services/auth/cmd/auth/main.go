package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	pkgconfig "github.com/Skotchmaster/university/pkg/config"
	pkgdb "github.com/Skotchmaster/university/pkg/db"
	"github.com/Skotchmaster/university/pkg/events"
	"github.com/Skotchmaster/university/pkg/logging"
	loggingmw "github.com/Skotchmaster/university/pkg/middleware/logging"
	"github.com/Skotchmaster/university/pkg/tokens"
	"github.com/Skotchmaster/university/pkg/validation"

	authcfg "github.com/Skotchmaster/university/services/auth/internal/config"
	"github.com/Skotchmaster/university/services/auth/internal/httpserver"
	"github.com/Skotchmaster/university/services/auth/internal/repo"
	"github.com/Skotchmaster/university/services/auth/internal/revocation"
	"github.com/Skotchmaster/university/services/auth/internal/service"
)

func main() {
	if err := pkgconfig.LoadEnv(pkgconfig.EnvDefault("ENV_FILE", ".env"), "services/auth/.env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := authcfg.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	userRepo := &repo.GormRepo{DB: db}
	if err := userRepo.Migrate(); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	tm, err := tokens.NewManager(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessTTL, cfg.RefreshTTL)
	if err != nil {
		log.Fatalf("tokens: %v", err)
	}

	var registry revocation.Registry
	switch cfg.RevocationStore {
	case "db":
		registry = revocation.NewGorm(db)
	default:
		registry = revocation.NewMemory()
	}
	sweeper, err := revocation.StartSweeper(registry, cfg.RevocationSweep, logger)
	if err != nil {
		log.Fatalf("schedule revocation sweep: %v", err)
	}

	publisher := events.New(cfg.KafkaBrokers)

	svc := &service.AuthService{
		Repo:    userRepo,
		Tokens:  tm,
		Revoked: registry,
		Events:  publisher,
	}

	if cfg.SeedUsers {
		seedCtx := logging.IntoContext(context.Background(), logger)
		if err := svc.SeedDefaultUsers(seedCtx, cfg.SeedPassword); err != nil {
			log.Fatalf("seed users: %v", err)
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{Svc: svc},
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("auth listening", "addr", srv.Addr, "revocation_store", cfg.RevocationStore, "alg", tm.Algorithm())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	<-sweeper.Stop().Done()
	if err := publisher.Close(); err != nil {
		logger.Warn("event publisher close", "error", err)
	}
	_ = pkgdb.Close(db)

	logger.Info("auth stopped")
}
