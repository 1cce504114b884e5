// Package main is the batch ingestion command: it runs the journey pipeline
// for one or more vehicles and exits. Scheduling (cron, systemd timer) is the
// caller's concern — running it serially per vehicle is what keeps a
// vehicle's history free of concurrent mutation.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	_ "time/tzdata"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"
	"github.com/urfave/cli/v2"

	"github.com/prestanaute/backend/internal/config"
	"github.com/prestanaute/backend/internal/masternaut"
	"github.com/prestanaute/backend/internal/metrics"
	"github.com/prestanaute/backend/internal/repo"
	"github.com/prestanaute/backend/internal/service"
	"github.com/prestanaute/backend/migrations"
)

func main() {
	app := &cli.App{
		Name:  "ingest",
		Usage: "fetch, clean and store vehicle journeys from the tracking api",

		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run the ingestion pipeline for the given vehicles",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "vehicle",
						Usage:    "vehicle id to ingest (repeatable)",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "migrate",
						Usage: "apply pending database migrations before ingesting",
					},
				},
				Action: runIngest,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("ingest failed", "error", err)
		os.Exit(1)
	}
}

func runIngest(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.RequireMasternaut(); err != nil {
		return err
	}

	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	ctx := c.Context

	if c.Bool("migrate") {
		if err := migrate(ctx, cfg.DatabaseURL); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("migrations applied")
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("create database pool: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	collector := metrics.NewCollector()
	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", collector.Handler())
			logger.Info("metrics server starting", "addr", cfg.MetricsAddr)
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				logger.Error("metrics server error", "error", err)
			}
		}()
	}

	source := masternaut.NewClient(cfg.MasternautURL, cfg.MasternautUser, cfg.MasternautPassword)
	ingestSvc := service.NewIngestService(
		source,
		repo.NewJourneyRepo(pool),
		logger,
		service.WithMetrics(collector),
	)

	// One vehicle at a time: ingestion for a vehicle must never race itself.
	var failed int
	for _, vehicleID := range c.StringSlice("vehicle") {
		report, err := ingestSvc.IngestVehicle(ctx, vehicleID)
		if err != nil {
			failed++
			logger.Error("vehicle ingestion failed", "vehicle_id", vehicleID, "error", err)
			continue
		}
		logger.Info("vehicle ingested",
			"vehicle_id", vehicleID,
			"stored", report.Stored,
			"conflicts", report.Conflicts,
			"failed", report.Failed,
		)
	}

	if failed > 0 {
		return fmt.Errorf("%d vehicle(s) failed", failed)
	}
	return nil
}

// migrate applies all pending goose migrations from the embedded FS.
// goose drives database/sql rather than the pgx pool, hence the second
// connection.
func migrate(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	_, err = provider.Up(ctx)
	return err
}
