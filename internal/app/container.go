// Package app assembles the timetable services from configuration. Both the
// HTTP server and the command line tool build on it.
package app

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable/internal/repository"
	"github.com/noah-isme/sma-timetable/internal/service"
	"github.com/noah-isme/sma-timetable/pkg/cache"
	"github.com/noah-isme/sma-timetable/pkg/config"
	"github.com/noah-isme/sma-timetable/pkg/database"
	"github.com/noah-isme/sma-timetable/pkg/export"
	"github.com/noah-isme/sma-timetable/pkg/storage"
)

// Options selects which external backends are connected.
type Options struct {
	// Backends connects Postgres and Redis when their features are enabled.
	Backends bool
}

// Container holds the wired services.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	DB         *sqlx.DB
	Redis      *redis.Client
	CacheStore *repository.CacheRepository

	Metrics    *service.MetricsService
	Roster     *service.RosterService
	Timetables *service.TimetableService
	Overlaps   *service.OverlapService
	Exports    *service.ExportService
	Tokens     *service.TokenService
}

// New wires every service. Callers must Close the container.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Container{Config: cfg, Logger: logger, Metrics: service.NewMetricsService()}

	var store service.RosterStore
	if opts.Backends && cfg.Persistence.Enabled {
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		c.DB = db
		store = repository.NewRosterRepository(db)
	}

	var cacheSvc *service.CacheService
	if opts.Backends && cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		c.Redis = client
		c.CacheStore = repository.NewCacheRepository(client, "")
		cacheSvc = service.NewCacheService(c.CacheStore, c.Metrics, cfg.Cache.TTL, logger, true)
	}

	location, err := time.LoadLocation(cfg.Calendar.Location)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Calendar.Location, err)
	}

	validate := validator.New()

	resolver := service.NewScheduleResolver(service.ResolverConfig{
		Grade:  cfg.Timetable.Grade,
		Margin: cfg.Timetable.BlockMargin,
	}, logger)
	c.Roster = service.NewRosterService(service.RosterSources{
		GridPath:          cfg.Timetable.GridPath,
		GridSheet:         cfg.Timetable.GridSheet,
		ClassroomPath:     cfg.Timetable.ClassroomPath,
		ClassroomSheet:    cfg.Timetable.ClassroomSheet,
		MultiTeacherPath:  cfg.Timetable.MultiTeacherPath,
		MultiTeacherSheet: cfg.Timetable.MultiTeacherSheet,
	}, resolver, repository.NewWorkbookRepository(logger), store, c.Metrics, logger)

	c.Timetables = service.NewTimetableService(c.Roster, validate, logger)

	analyzer := service.NewOverlapAnalyzer(service.OverlapAnalyzerConfig{
		Workers:  cfg.Overlap.Workers,
		MemoSize: cfg.Overlap.MemoSize,
	}, logger)
	c.Overlaps = service.NewOverlapService(c.Roster, analyzer, cacheSvc, c.Metrics, service.OverlapServiceConfig{
		Threshold: cfg.Overlap.Threshold,
		TopK:      cfg.Overlap.TopK,
		CacheTTL:  cfg.Cache.TTL,
	}, validate, logger)
	c.Roster.OnSwap(c.Overlaps.HandleSwap)

	var (
		fileStore *storage.LocalStorage
		signer    *storage.SignedURLSigner
	)
	if cfg.Exports.Enabled {
		fileStore, err = storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("prepare export storage: %w", err)
		}
		signer = storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	}
	exportCfg := service.ExportServiceConfig{
		TermStart:    cfg.Calendar.TermStart,
		TermEnd:      cfg.Calendar.TermEnd,
		Location:     location,
		Enabled:      cfg.Exports.Enabled,
		Workers:      cfg.Exports.Workers,
		Retries:      cfg.Exports.Retries,
		RetentionTTL: cfg.Exports.SignedURLTTL,
		DownloadPath: cfg.APIPrefix + "/exports/download",
	}
	if fileStore != nil {
		c.Exports = service.NewExportService(c.Roster, c.Overlaps, export.NewPDFExporter(cfg.Exports.PDFFontPath), fileStore, signer, c.Metrics, exportCfg, validate, logger)
	} else {
		c.Exports = service.NewExportService(c.Roster, c.Overlaps, export.NewPDFExporter(cfg.Exports.PDFFontPath), nil, nil, c.Metrics, exportCfg, validate, logger)
	}

	c.Tokens = service.NewTokenService(service.TokenConfig{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
		Expiry: cfg.JWT.Expiration,
	}, validate)

	return c, nil
}

// Close releases the backend connections.
func (c *Container) Close() {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("close redis", zap.Error(err))
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			c.Logger.Warn("close postgres", zap.Error(err))
		}
	}
}
