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

	"github.com/Skotchmaster/university/gateway/internal/config"
	"github.com/Skotchmaster/university/gateway/internal/httpserver"
	"github.com/Skotchmaster/university/gateway/internal/middleware"
	"github.com/Skotchmaster/university/pkg/authclient"
	pkgconfig "github.com/Skotchmaster/university/pkg/config"
	"github.com/Skotchmaster/university/pkg/logging"
)

func main() {
	if err := pkgconfig.LoadEnv(pkgconfig.EnvDefault("ENV_FILE", ".env"), "gateway/.env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", "gateway")
	slog.SetDefault(logger)

	e := echo.New()
	e.HideBanner = true
	for _, m := range middleware.Common(logger, cfg.CORSOrigins) {
		e.Use(m)
	}

	if err := httpserver.Register(e, &httpserver.Deps{
		AuthURL:    cfg.AuthURL,
		CourseURL:  cfg.CourseURL,
		NoteURL:    cfg.NoteURL,
		StudentURL: cfg.StudentURL,
		Validator:  authclient.NewClient(cfg.AuthURL),
	}); err != nil {
		log.Fatal(err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("gateway listening", "addr", srv.Addr, "auth", cfg.AuthURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
	logger.Info("gateway stopped")
}
