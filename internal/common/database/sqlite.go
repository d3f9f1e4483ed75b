package database

import (
	"context"
	"database/sql"
	"fmt"

	"unit-lookup/internal/common/config"

	_ "modernc.org/sqlite"
)

// SQLiteClient opens a local SQLite export of the unit sheet, read-only.
type SQLiteClient struct {
	DB *sql.DB
}

func NewSQLite(cfg config.SQLiteConfig) (*SQLiteClient, error) {
	db, err := sql.Open("sqlite", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", cfg.Path, err)
	}
	db.SetMaxOpenConns(4)
	return &SQLiteClient{DB: db}, nil
}

func (c *SQLiteClient) Ping(ctx context.Context) error {
	if err := c.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite ping failed: %w", err)
	}
	return nil
}

func (c *SQLiteClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

func (c *SQLiteClient) GetDB() *sql.DB {
	return c.DB
}
