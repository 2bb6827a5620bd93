// Package app assembles the replenishment service from configuration. It is
// shared by the HTTP server and the operator CLI.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/andresuchdata/stockcast/internal/artifact"
	"github.com/andresuchdata/stockcast/internal/cache"
	"github.com/andresuchdata/stockcast/internal/config"
	"github.com/andresuchdata/stockcast/internal/drive"
	"github.com/andresuchdata/stockcast/internal/forecast"
	"github.com/andresuchdata/stockcast/internal/metrics"
	"github.com/andresuchdata/stockcast/internal/notify"
	"github.com/andresuchdata/stockcast/internal/repository"
	"github.com/andresuchdata/stockcast/internal/repository/sqlstore"
	"github.com/andresuchdata/stockcast/internal/repository/workbook"
	"github.com/andresuchdata/stockcast/internal/service"
	"github.com/andresuchdata/stockcast/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// App holds the wired service and whatever must be closed on shutdown.
type App struct {
	Service  *service.ReplenishmentService
	Registry *artifact.Registry

	closers []io.Closer
}

// Close releases every resource opened by New.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			log.Warn().Err(err).Msg("app: close failed")
		}
	}
}

// New builds the store, artifact registry, forecast cache, notifier and
// service. reg may be nil to disable metrics.
func New(ctx context.Context, cfg *config.Config, reg prometheus.Registerer) (*App, error) {
	a := &App{}

	if cfg.Artifacts.SyncEnabled {
		if err := SyncArtifacts(ctx, cfg.Artifacts); err != nil {
			return nil, err
		}
	}
	if cfg.Data.Source == "workbook" && cfg.Drive.WorkbookFileID != "" {
		if err := FetchWorkbook(ctx, cfg); err != nil {
			log.Warn().Err(err).Msg("app: workbook refresh from Drive failed, using local copy")
		}
	}

	store, err := a.openStore(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	catalog, err := store.Catalog(ctx)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	a.Registry = artifact.LoadDir(cfg.Artifacts.Dir, catalog)

	forecastCache := cache.NewNoopForecastCache()
	if cfg.Cache.Enabled {
		forecastCache, err = cache.NewForecastCache(cfg.Cache)
		if err != nil {
			log.Warn().Err(err).Msg("app: forecast cache unavailable, continuing without it")
			forecastCache = cache.NewNoopForecastCache()
		}
	}

	var recorder *metrics.Recorder
	if reg != nil {
		recorder = metrics.New(reg)
	}

	notifier, err := notify.New(cfg.Notify)
	if err != nil {
		// Decisions are still served; reorders fail with a notification error.
		log.Warn().Err(err).Str("channel", cfg.Notify.Channel).Msg("app: notification channel unavailable")
	}
	if closer, ok := notifier.(io.Closer); ok {
		a.closers = append(a.closers, closer)
	}

	generator := forecast.NewGenerator(store, a.Registry, forecastCache, recorder)
	a.Service = service.NewReplenishmentService(store, generator, notifier, service.Options{
		DefaultLeadTime: cfg.Replenishment.DefaultLeadTime,
		OverviewWorkers: cfg.Replenishment.OverviewWorkers,
		Metrics:         recorder,
	})

	log.Info().
		Str("source", cfg.Data.Source).
		Strs("catalog", catalog).
		Strs("available", a.Registry.Available()).
		Msg("app: replenishment service ready")

	return a, nil
}

func (a *App) openStore(cfg *config.Config) (repository.Store, error) {
	switch cfg.Data.Source {
	case "", "workbook":
		return workbook.New(workbook.Config{
			Path:             cfg.Data.WorkbookPath,
			Products:         cfg.Data.Products,
			InventorySheet:   cfg.Data.InventorySheet,
			ProductInfoSheet: cfg.Data.ProductInfoSheet,
			DayFirst:         cfg.Data.DateDayFirst,
		}), nil
	case "sql":
		db, err := sqlstore.Open(cfg.Database)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db)
		return sqlstore.NewStore(db), nil
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.Data.Source)
	}
}

// SyncArtifacts mirrors the configured bucket prefix into the artifact directory.
func SyncArtifacts(ctx context.Context, cfg config.ArtifactConfig) error {
	client, err := storage.NewMinioClient(storage.MinioConfig{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Bucket:    cfg.Bucket,
		UseSSL:    cfg.UseSSL,
	})
	if err != nil {
		return err
	}

	n, err := storage.SyncPrefix(ctx, client, cfg.Prefix, cfg.Dir)
	if err != nil {
		return fmt.Errorf("artifact sync failed: %w", err)
	}
	log.Info().Int("objects", n).Str("bucket", cfg.Bucket).Str("dir", cfg.Dir).Msg("app: artifacts synced")
	return nil
}

// FetchWorkbook replaces the local workbook with the configured Drive file.
func FetchWorkbook(ctx context.Context, cfg *config.Config) error {
	if cfg.Drive.WorkbookFileID == "" {
		return fmt.Errorf("no Drive workbook file id configured")
	}
	svc, err := drive.NewService(ctx, cfg.Drive.CredentialsJSON)
	if err != nil {
		return err
	}
	return svc.FetchWorkbook(ctx, cfg.Drive.WorkbookFileID, cfg.Data.WorkbookPath)
}
