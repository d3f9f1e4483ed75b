// Package records reads the unit table from the configured store. Every
// FetchAll returns a fresh snapshot; nothing is cached between calls.
package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"unit-lookup/internal/common/config"
	"unit-lookup/internal/common/database"
	"unit-lookup/internal/common/logger"
	"unit-lookup/internal/common/metrics"
	"unit-lookup/internal/models"
)

// ErrUnreadable marks a store that answered but whose content could not be
// turned into rows: a corrupt workbook, a missing worksheet, a malformed CSV
// or a row the driver cannot scan. Anything else is the store being
// unavailable.
var ErrUnreadable = errors.New("store content unreadable")

type Source interface {
	Name() string
	FetchAll(ctx context.Context) ([]models.UnitRecord, error)
	Close() error
}

// Open builds the source selected by store.type and wraps it with metrics.
func Open(ctx context.Context, cfg *config.Config, log logger.Logger) (Source, error) {
	var (
		src Source
		err error
	)

	switch cfg.Store.Type {
	case config.StoreSheets:
		src, err = NewSheetsSource(ctx, cfg.Store.Sheets, log)
	case config.StoreXLSX:
		src = NewXLSXSource(cfg.Store.XLSX.Path, cfg.Store.XLSX.Sheet)
	case config.StoreCSV:
		src = NewCSVSource(cfg.Store.CSV.Path)
	case config.StorePostgres:
		src, err = openPostgres(ctx, cfg)
	case config.StoreSQLite:
		src, err = openSQLite(ctx, cfg)
	default:
		err = fmt.Errorf("unknown store type %q", cfg.Store.Type)
	}
	if err != nil {
		return nil, err
	}

	log.Info("record source opened", map[string]interface{}{"source": src.Name()})
	return Instrument(src), nil
}

func openPostgres(ctx context.Context, cfg *config.Config) (Source, error) {
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return nil, err
	}
	if err := pg.Ping(ctx); err != nil {
		pg.Close()
		return nil, err
	}
	src, err := NewSQLSource(config.StorePostgres, pg.GetDB(), cfg.Store.SQL.Table, cfg.Store.SQL.OrderBy)
	if err != nil {
		pg.Close()
		return nil, err
	}
	src.closer = pg
	return src, nil
}

func openSQLite(ctx context.Context, cfg *config.Config) (Source, error) {
	lite, err := database.NewSQLite(cfg.Database.SQLite)
	if err != nil {
		return nil, err
	}
	if err := lite.Ping(ctx); err != nil {
		lite.Close()
		return nil, err
	}
	src, err := NewSQLSource(config.StoreSQLite, lite.GetDB(), cfg.Store.SQL.Table, cfg.Store.SQL.OrderBy)
	if err != nil {
		lite.Close()
		return nil, err
	}
	src.closer = lite
	return src, nil
}

type instrumented struct {
	Source
}

// Instrument records fetch errors and snapshot sizes per source.
func Instrument(src Source) Source {
	if _, ok := src.(*instrumented); ok {
		return src
	}
	return &instrumented{Source: src}
}

func (s *instrumented) FetchAll(ctx context.Context) ([]models.UnitRecord, error) {
	start := time.Now()
	recs, err := s.Source.FetchAll(ctx)
	if err != nil {
		metrics.StoreFetchErrors.WithLabelValues(s.Name()).Inc()
		return nil, fmt.Errorf("%s fetch after %s: %w", s.Name(), time.Since(start).Round(time.Millisecond), err)
	}
	metrics.StoreRecordsFetched.WithLabelValues(s.Name()).Set(float64(len(recs)))
	return recs, nil
}
