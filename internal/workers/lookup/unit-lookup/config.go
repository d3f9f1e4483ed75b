// internal/workers/lookup/unit-lookup/config.go
package unitlookup

import (
	"time"

	"unit-lookup/internal/common/config"
	interpretcode "unit-lookup/internal/workers/lookup/interpret-code"
	matchrecord "unit-lookup/internal/workers/lookup/match-record"
)

type Config struct {
	Timeout      time.Duration
	StoreTimeout time.Duration
	Ranges       interpretcode.Ranges
	Layout       matchrecord.Layout
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      15 * time.Second,
		StoreTimeout: 10 * time.Second,
		Ranges:       interpretcode.DefaultRanges(),
		Layout:       matchrecord.DefaultLayout(),
	}
}

// ConfigFrom takes the store timeout and lookup rules from the application config.
func ConfigFrom(cfg *config.Config) *Config {
	c := LoadConfig()
	if wc := config.GetWorkerConfig(cfg, TaskType); wc.Timeout > 0 {
		c.Timeout = config.GetDuration(wc.Timeout)
	}
	if cfg.Store.Timeout > 0 {
		c.StoreTimeout = config.GetDuration(cfg.Store.Timeout)
	}
	c.Ranges = interpretcode.RangesFromConfig(cfg.Lookup)
	c.Layout = matchrecord.LayoutFromConfig(cfg.Lookup)
	return c
}
