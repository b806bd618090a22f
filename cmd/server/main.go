package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"hr-crud/internal/config"
	"hr-crud/internal/db"
	"hr-crud/internal/httpapi"
	"hr-crud/internal/service"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	// -- Configs preload --
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("config error", slog.Any("err", err))
		os.Exit(1)
	}

	// -- Logger --
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	// -- Connect to DB --
	database, err := db.Connect(cfg, logger)
	if err != nil {
		logger.Error("database connection error", slog.Any("err", err))
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(database); err != nil {
			logger.Error("close database", slog.Any("err", err))
		}
	}()

	ctx := context.Background()
	if cfg.AutoMigrate {
		if err := db.Migrate(ctx, database); err != nil {
			logger.Error("migration failed", slog.Any("err", err))
			os.Exit(1)
		}
		versions, err := db.Applied(ctx, database)
		if err == nil {
			logger.Info("schema up to date", slog.Int("migrations", len(versions)))
		}
	}

	employeeService := service.NewEmployeeService(database, cfg.MinimumAge)
	departmentService := service.NewDepartmentService(database)
	handler := httpapi.NewHandler(employeeService, departmentService, logger)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// -- Startup --
	go func() {
		logger.Info("starting server", slog.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", slog.Any("err", err))
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
