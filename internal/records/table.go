package records

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"unit-lookup/internal/models"
)

// FromRows turns a header row followed by data rows into records. Headers
// are trimmed, columns with an empty header are dropped, short rows are
// padded and rows with no non-blank cell are skipped.
func FromRows(rows [][]string) []models.UnitRecord {
	if len(rows) == 0 {
		return nil
	}

	var (
		headers []string
		keep    []int
	)
	for i, h := range rows[0] {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if h = strings.TrimSpace(h); h != "" {
			headers = append(headers, h)
			keep = append(keep, i)
		}
	}

	out := make([]models.UnitRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		values := make([]string, len(keep))
		blank := true
		for j, idx := range keep {
			if idx < len(row) {
				values[j] = row[idx]
				if strings.TrimSpace(row[idx]) != "" {
					blank = false
				}
			}
		}
		if blank {
			continue
		}
		out = append(out, models.NewUnitRecord(headers, values))
	}
	return out
}

// toText renders a scalar from a driver or API response the way the sheet shows it.
func toText(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format("2006-01-02")
		}
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}

func toTextRows(values [][]interface{}) [][]string {
	rows := make([][]string, len(values))
	for i, r := range values {
		rows[i] = make([]string, len(r))
		for j, v := range r {
			rows[i][j] = toText(v)
		}
	}
	return rows
}
