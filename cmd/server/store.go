package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/evgeniy-krivenko/notes-query/internal/config"
	"github.com/evgeniy-krivenko/notes-query/internal/entity"
	"github.com/evgeniy-krivenko/notes-query/internal/query"
	"github.com/evgeniy-krivenko/notes-query/internal/repository"
	"github.com/evgeniy-krivenko/notes-query/internal/repository/memory"
	"github.com/evgeniy-krivenko/notes-query/internal/repository/sqlite"
	"github.com/evgeniy-krivenko/notes-query/pkg/database"
	"github.com/evgeniy-krivenko/notes-query/pkg/logger/slogx"
)

type store interface {
	FindNotes(ctx context.Context, f query.Filter, o query.Order, w query.Window, p query.Projection) ([]entity.Note, error)
	CountNotes(ctx context.Context, f query.Filter) (int64, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	CountByCategory(ctx context.Context) ([]entity.CategoryCount, error)
	CreateNote(ctx context.Context, in entity.NoteInput) (entity.Note, error)
	GetNote(ctx context.Context, id string) (entity.Note, error)
	UpdateNote(ctx context.Context, id string, patch entity.NotePatch) (entity.Note, error)
	DeleteNote(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

var (
	_ store = (*repository.Repo)(nil)
	_ store = (*sqlite.Store)(nil)
	_ store = (*memory.Store)(nil)
)

func openStore(ctx context.Context, cfg config.DatabaseConfig, reg prometheus.Registerer) (store, func(), error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := database.NewPGX(ctx, database.NewOptions(
			cfg.Addr(),
			cfg.User,
			cfg.Password,
			cfg.Name,
			database.WithRetryAttempts(cfg.RetryAttempts),
			database.WithMaxConns(cfg.MaxConns),
			database.WithLogger(slogx.Default()),
		))
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %v", err)
		}

		if err := repository.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}

		reg.MustRegister(
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Namespace: "notes",
				Subsystem: "db",
				Name:      "acquired_conns",
				Help:      "Number of currently acquired pool connections",
			}, func() float64 { return float64(pool.Stat().AcquiredConns()) }),
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Namespace: "notes",
				Subsystem: "db",
				Name:      "total_conns",
				Help:      "Total number of pool connections",
			}, func() float64 { return float64(pool.Stat().TotalConns()) }),
		)

		return repository.New(database.NewDatabase(pool)), pool.Close, nil

	case config.DriverSQLite:
		s, err := sqlite.Open(ctx, cfg.Path)
		if err != nil {
			return nil, nil, err
		}

		return s, func() {
			if err := s.Close(); err != nil {
				slogx.Warn(ctx, "close sqlite store", slogx.Err(err))
			}
		}, nil

	case config.DriverMemory:
		return memory.New(), func() {}, nil
	}

	return nil, nil, fmt.Errorf("unknown driver %q", cfg.Driver)
}

func storeName(cfg config.DatabaseConfig) string {
	switch cfg.Driver {
	case config.DriverPostgres:
		return cfg.Name
	case config.DriverSQLite:
		return cfg.Path
	}
	return ""
}

func storeHost(cfg config.DatabaseConfig) string {
	if cfg.Driver == config.DriverPostgres {
		return cfg.Addr()
	}
	return ""
}
