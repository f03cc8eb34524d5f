package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Tomas5220/f1-api/internal/api"
	"github.com/Tomas5220/f1-api/internal/betting"
	"github.com/Tomas5220/f1-api/internal/cache"
	"github.com/Tomas5220/f1-api/internal/config"
	"github.com/Tomas5220/f1-api/internal/database"
	"github.com/Tomas5220/f1-api/internal/events"
	"github.com/Tomas5220/f1-api/internal/health"
	"github.com/Tomas5220/f1-api/internal/metrics"
	"github.com/Tomas5220/f1-api/internal/repository"
	"github.com/Tomas5220/f1-api/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the REST API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context(), cfg, appLogger)
	},
}

func serve(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	log.WithFields(logrus.Fields{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
		"commit":      GitCommit,
	}).Info("Starting f1-api")

	db, err := database.Initialize(ctx, &cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to create repositories: %w", err)
	}

	store, err := cache.New(ctx, cfg.Cache, log)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.WithError(err).Warn("Failed to close cache")
		}
	}()

	publisher := events.NewPublisher(cfg.Events, log)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.WithError(err).Warn("Failed to close event publisher")
		}
	}()

	coordinator := betting.NewCoordinator(
		repos.User,
		betting.NewStandingsReader(repos.Standings),
		betting.NewResultEvaluator(repos.RaceResult),
		repos.Ledger,
		repos.Wager,
		publisher,
		log,
	)

	apiServer := api.NewServer(cfg.Server, api.Services{
		Wagers:  coordinator,
		Users:   service.NewUserService(repos.User, store, log),
		Drivers: service.NewDriverService(repos.Driver, store, log),
	}, log)

	healthCfg := health.Config{
		ServiceName: cfg.App.Name,
		Version:     cfg.App.Version,
		Port:        cfg.Metrics.Port,
		Logger:      log,
		Checks: map[string]health.Pinger{
			"database": db,
			"cache":    store,
		},
	}
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		healthCfg.MetricsPath = cfg.Metrics.Path
		healthCfg.MetricsHandler = metrics.Handler()
	}
	healthServer := health.NewServer(healthCfg)
	healthServer.Start(ctx)

	healthServer.SetReady(true)
	err = apiServer.Run(ctx)
	healthServer.SetReady(false)
	if err != nil {
		return fmt.Errorf("api server: %w", err)
	}

	log.Info("f1-api stopped")
	return nil
}
