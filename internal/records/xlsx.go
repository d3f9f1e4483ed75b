package records

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"unit-lookup/internal/models"

	"github.com/xuri/excelize/v2"
)

// XLSXSource reads a local workbook; the first sheet unless one is named.
type XLSXSource struct {
	path  string
	sheet string
}

func NewXLSXSource(path, sheet string) *XLSXSource {
	return &XLSXSource{path: path, sheet: sheet}
}

func (s *XLSXSource) Name() string { return "xlsx" }

func (s *XLSXSource) FetchAll(ctx context.Context) ([]models.UnitRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("open workbook %s: %w", s.path, err)
	}
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w: %w", s.path, ErrUnreadable, err)
	}
	defer f.Close()

	sheet := s.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets: %w", s.path, ErrUnreadable)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w: %w", sheet, ErrUnreadable, err)
	}
	return FromRows(rows), nil
}

func (s *XLSXSource) Close() error { return nil }
