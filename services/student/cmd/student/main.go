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

	"github.com/Skotchmaster/university/pkg/authclient"
	pkgconfig "github.com/Skotchmaster/university/pkg/config"
	pkgdb "github.com/Skotchmaster/university/pkg/db"
	"github.com/Skotchmaster/university/pkg/events"
	"github.com/Skotchmaster/university/pkg/logging"
	authmw "github.com/Skotchmaster/university/pkg/middleware/auth"
	loggingmw "github.com/Skotchmaster/university/pkg/middleware/logging"
	"github.com/Skotchmaster/university/pkg/tokens"
	"github.com/Skotchmaster/university/pkg/validation"

	studentcfg "github.com/Skotchmaster/university/services/student/internal/config"
	"github.com/Skotchmaster/university/services/student/internal/httpserver"
	"github.com/Skotchmaster/university/services/student/internal/repo"
	"github.com/Skotchmaster/university/services/student/internal/search"
	"github.com/Skotchmaster/university/services/student/internal/service"
)

func main() {
	if err := pkgconfig.LoadEnv(pkgconfig.EnvDefault("ENV_FILE", ".env"), "services/student/.env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := studentcfg.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	studentRepo := &repo.GormRepo{DB: db}
	if err := studentRepo.Migrate(); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	tm, err := tokens.NewManager(cfg.JWTSecret, cfg.JWTAlgorithm, 0, 0)
	if err != nil {
		log.Fatalf("tokens: %v", err)
	}
	var remote authmw.RemoteValidator
	if cfg.AuthHTTPURL != "" {
		remote = authclient.NewClient(cfg.AuthHTTPURL)
	}

	publisher := events.New(cfg.KafkaBrokers)
	svc := &service.StudentService{Repo: studentRepo, Events: publisher}

	if cfg.ESURL != "" {
		idx, err := search.NewElastic(cfg.ESURL, cfg.ESUser, cfg.ESPassword, cfg.ESIndex)
		if err != nil {
			log.Fatalf("search index: %v", err)
		}
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = idx.Ping(pingCtx)
		pingCancel()
		if err != nil {
			logger.Warn("elasticsearch unreachable, searches fall back to the database", "url", cfg.ESURL, "error", err)
		}
		svc.Index = idx

		if cfg.Reindex && err == nil {
			go func() {
				ctx := logging.IntoContext(context.Background(), logger)
				n, err := svc.Reindex(ctx)
				if err != nil {
					logger.Warn("reindex failed", "indexed", n, "error", err)
					return
				}
				logger.Info("students reindexed", "count", n)
			}()
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
		StudentHandler: &httpserver.StudentHTTP{Svc: svc},
		Auth:           authmw.NewBearerAuth(tm, remote).RequireAccess(),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("student listening", "addr", srv.Addr, "remote_auth", cfg.AuthHTTPURL != "", "search_index", cfg.ESURL != "")
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
	if err := publisher.Close(); err != nil {
		logger.Warn("event publisher close", "error", err)
	}
	_ = pkgdb.Close(db)

	logger.Info("student stopped")
}
