package records

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"unit-lookup/internal/models"
)

// CSVSource reads a local CSV export of the unit sheet.
type CSVSource struct {
	path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

func (s *CSVSource) Name() string { return "csv" }

func (s *CSVSource) FetchAll(ctx context.Context) ([]models.UnitRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w: %w", s.path, ErrUnreadable, err)
	}
	return FromRows(rows), nil
}

func (s *CSVSource) Close() error { return nil }
