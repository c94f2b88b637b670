// Command api runs the LeafSense prediction API.
//
// The process starts degraded rather than failing when optional
// dependencies are missing: an absent model artifact disables prediction
// endpoints (503 per request) and an unreachable document store disables
// the record endpoints, while /health reports both conditions.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"leafsense/internal/api/handlers"
	"leafsense/internal/config"
	"leafsense/internal/core"
	"leafsense/internal/db"
	"leafsense/internal/pipeline"
	"leafsense/internal/predict"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel, cfg.Service)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Document store. Unreachable is degraded, not fatal.
	var client *mongo.Client
	if client, err = db.Connect(ctx, cfg.Mongo); err != nil {
		logger.Warn("document store unavailable, record endpoints disabled", "error", err)
		client = nil
	} else {
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := client.Disconnect(dctx); err != nil {
				logger.Error("document store disconnect failed", "error", err)
			}
		}()
	}

	// Model artifact. Absent is degraded, not fatal.
	artifact, err := pipeline.LoadArtifact(cfg.Model.ArtifactPath)
	if err != nil {
		logger.Warn("model artifact not loaded, prediction disabled",
			"path", cfg.Model.ArtifactPath, "error", err)
		artifact = nil
	} else {
		logger.Info("model artifact loaded",
			"path", cfg.Model.ArtifactPath,
			"classes", len(artifact.Classes),
			"trained_at", artifact.TrainedAt)
	}

	treatments, err := predict.LoadTreatments(cfg.Model.TreatmentsPath)
	if err != nil {
		logger.Warn("treatments not loaded, using fallback advice",
			"path", cfg.Model.TreatmentsPath, "error", err)
	}

	predictSvc := predict.NewService(logger, artifact, treatments)

	server, err := core.NewServer(cfg, logger)
	if err != nil {
		return err
	}

	var store handlers.RecordStore
	if client != nil {
		store = db.NewSubmissionRepo(client, cfg.Mongo.Database, logger)
		server.HealthProbes = append(server.HealthProbes, db.NewProbe(client))
	}
	server.HealthProbes = append(server.HealthProbes, predict.NewProbe(predictSvc))

	predictHandler := handlers.NewPredictHandler(logger, server.Validator, predictSvc, store, cfg.Service)
	recordsHandler := handlers.NewRecordsHandler(logger, server.Validator, store)
	server.APIRouteRegistrars = append(server.APIRouteRegistrars,
		predictHandler.RegisterRoutes,
		recordsHandler.RegisterRoutes,
	)
	server.MountRoutes()

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", httpServer.Addr, "env", cfg.Environment)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(sctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return server.Shutdown(sctx)
}

// newLogger builds the process-wide structured JSON logger.
func newLogger(level, service string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	return slog.New(h).With("service", service)
}
