package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/cesargomez89/mdlookup/internal/app"
	"github.com/cesargomez89/mdlookup/internal/config"
	"github.com/cesargomez89/mdlookup/internal/constants"
	httpapp "github.com/cesargomez89/mdlookup/internal/http"
	"github.com/cesargomez89/mdlookup/internal/logger"
	"github.com/cesargomez89/mdlookup/internal/metrics"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	metrics.Register()

	rt, err := app.NewRuntime(cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to init lookup service", "error", err)
		os.Exit(1)
	}
	defer rt.Close()

	names, def := rt.Lookups.Providers()
	appLogger.Info("Providers registered", "providers", names, "default", def, "journal", cfg.Journal.Enabled)

	h := httpapp.NewHandler(rt.Lookups, appLogger)
	r := httpapp.NewRouter(h, middleware.Logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		appLogger.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", "error", err)
	}

	appLogger.Info("Server exiting")
}
