// internal/workers/lookup/interpret-code/config.go
package interpretcode

import (
	"time"

	"unit-lookup/internal/common/config"
)

// Range is an inclusive integer interval.
type Range struct {
	Min int
	Max int
}

func (r Range) Contains(n int) bool {
	return n >= r.Min && n <= r.Max
}

// Ranges bounds the numbers the interpreter accepts.
type Ranges struct {
	Tower          Range
	House          Range
	Apartment      Range
	PlateMinLength int
}

func DefaultRanges() Ranges {
	return Ranges{
		Tower:          Range{Min: 1, Max: 21},
		House:          Range{Min: 1, Max: 280},
		Apartment:      Range{Min: 1, Max: 999},
		PlateMinLength: 6,
	}
}

// RangesFromConfig reads lookup.ranges and lookup.plate_min_length.
func RangesFromConfig(l config.LookupConfig) Ranges {
	return Ranges{
		Tower:          Range{Min: l.Ranges.Tower.Min, Max: l.Ranges.Tower.Max},
		House:          Range{Min: l.Ranges.House.Min, Max: l.Ranges.House.Max},
		Apartment:      Range{Min: l.Ranges.Apartment.Min, Max: l.Ranges.Apartment.Max},
		PlateMinLength: l.PlateMinLength,
	}
}

type Config struct {
	Timeout time.Duration
	Ranges  Ranges
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
		Ranges:  DefaultRanges(),
	}
}
