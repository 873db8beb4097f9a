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

	coursecfg "github.com/Skotchmaster/university/services/course/internal/config"
	"github.com/Skotchmaster/university/services/course/internal/httpserver"
	"github.com/Skotchmaster/university/services/course/internal/repo"
	"github.com/Skotchmaster/university/services/course/internal/service"
)

func main() {
	if err := pkgconfig.LoadEnv(pkgconfig.EnvDefault("ENV_FILE", ".env"), "services/course/.env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := coursecfg.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	courseRepo := &repo.GormRepo{DB: db}
	if err := courseRepo.Migrate(); err != nil {
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
	svc := &service.CourseService{Repo: courseRepo, Events: publisher}

	if cfg.SeedCourses {
		if err := svc.SeedSampleCourses(logging.IntoContext(context.Background(), logger)); err != nil {
			log.Fatalf("seed courses: %v", err)
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
		CourseHandler: &httpserver.CourseHTTP{Svc: svc},
		Auth:          authmw.NewBearerAuth(tm, remote).RequireAccess(),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("course listening", "addr", srv.Addr, "remote_auth", cfg.AuthHTTPURL != "")
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

	logger.Info("course stopped")
}
