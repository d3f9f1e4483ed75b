package records

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"unit-lookup/internal/models"

	"github.com/lib/pq"
)

// SQLSource reads every row of one table; column names act as headers.
type SQLSource struct {
	name   string
	db     *sql.DB
	query  string
	closer io.Closer
}

func NewSQLSource(name string, db *sql.DB, table, orderBy string) (*SQLSource, error) {
	if strings.TrimSpace(table) == "" {
		return nil, fmt.Errorf("%s source: table is required", name)
	}
	query := "SELECT * FROM " + quoteQualified(table)
	if strings.TrimSpace(orderBy) != "" {
		query += " ORDER BY " + quoteQualified(orderBy)
	}
	return &SQLSource{name: name, db: db, query: query}, nil
}

func (s *SQLSource) Name() string { return s.name }

func (s *SQLSource) FetchAll(ctx context.Context) ([]models.UnitRecord, error) {
	rows, err := s.db.QueryContext(ctx, s.query)
	if err != nil {
		return nil, fmt.Errorf("query units: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	table := [][]string{columns}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row %d: %w: %w", len(table), ErrUnreadable, err)
		}
		row := make([]string, len(columns))
		for i, v := range values {
			row[i] = toText(v)
		}
		table = append(table, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return FromRows(table), nil
}

func (s *SQLSource) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// quoteQualified quotes each dot-separated part of schema.table.
func quoteQualified(name string) string {
	parts := strings.Split(strings.TrimSpace(name), ".")
	for i, p := range parts {
		parts[i] = pq.QuoteIdentifier(p)
	}
	return strings.Join(parts, ".")
}
