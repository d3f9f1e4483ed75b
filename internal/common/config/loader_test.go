package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "unit-lookup/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// ==========================
// Tests
// ==========================

func TestLoadFromFile_CSVStoreDefaults(t *testing.T) {
	path := writeConfig(t, `
store:
  type: csv
  csv:
    path: /data/units.csv
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "unit-lookup", cfg.App.Name)
	assert.Equal(t, ModePolling, cfg.Telegram.Mode)
	assert.Equal(t, 6, cfg.Lookup.PlateMinLength)
	assert.Equal(t, RangeConfig{Min: 1, Max: 21}, cfg.Lookup.Ranges.Tower)
	assert.Equal(t, RangeConfig{Min: 1, Max: 280}, cfg.Lookup.Ranges.House)
	assert.Equal(t, RangeConfig{Min: 1, Max: 999}, cfg.Lookup.Ranges.Apartment)
	assert.Equal(t, "torre", cfg.Lookup.Kinds.Tower)
	assert.Equal(t, "Tipo Vivienda", cfg.Lookup.Headers.Kind)
	assert.Equal(t, []string{"placa", "carro"}, cfg.Lookup.Columns.CarPlate)
	assert.Equal(t, "No registrada", cfg.Lookup.Placeholders.Plate)
	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, 10*time.Second, GetDuration(cfg.Store.Timeout))
}

func TestLoadFromFile_ShortEnvOverrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("SHEET_ID", "  sheet-42 \n")
	t.Setenv("GOOGLE_CREDENTIALS", `{"type":"service_account"}`)

	path := writeConfig(t, `
store:
  type: sheets
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.Equal(t, "sheet-42", cfg.Store.Sheets.SpreadsheetID)
	assert.Equal(t, `{"type":"service_account"}`, cfg.Store.Sheets.Credentials)
	assert.NoError(t, ValidateForBot(cfg))
}

func TestLoadFromFile_NestedEnvOverride(t *testing.T) {
	t.Setenv("STORE_TYPE", "xlsx")
	t.Setenv("STORE_XLSX_PATH", "/data/units.xlsx")

	cfg, err := LoadFromFile(writeConfig(t, "app:\n  name: test\n"))
	require.NoError(t, err)

	assert.Equal(t, StoreXLSX, cfg.Store.Type)
	assert.Equal(t, "/data/units.xlsx", cfg.Store.XLSX.Path)
}

func TestLoadFromFile_ExpandsPlaceholders(t *testing.T) {
	t.Setenv("UNITS_FILE", "/srv/units.csv")

	cfg, err := LoadFromFile(writeConfig(t, `
store:
  type: csv
  csv:
    path: ${UNITS_FILE}
`))
	require.NoError(t, err)
	assert.Equal(t, "/srv/units.csv", cfg.Store.CSV.Path)
}

func TestLoadFromFile_UnsetPlaceholderFallsBackToShortName(t *testing.T) {
	t.Setenv("BOT_TOKEN", "999:xyz")

	cfg, err := LoadFromFile(writeConfig(t, `
telegram:
  token: ${UNIT_LOOKUP_UNSET_TOKEN}
store:
  type: csv
  csv:
    path: /srv/units.csv
database:
  redis:
    address: ${UNIT_LOOKUP_UNSET_REDIS}
`))
	require.NoError(t, err)
	assert.Equal(t, "999:xyz", cfg.Telegram.Token)
	assert.Empty(t, cfg.Database.Redis.Address)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "unknown store",
			body:    "store:\n  type: mongo\n",
			wantErr: "unknown store.type",
		},
		{
			name:    "csv without path",
			body:    "store:\n  type: csv\n",
			wantErr: "store.csv.path is required",
		},
		{
			name:    "sqlite without table",
			body:    "store:\n  type: sqlite\ndatabase:\n  sqlite:\n    path: units.db\n",
			wantErr: "store.sql.table is required",
		},
		{
			name:    "inverted range",
			body:    "store:\n  type: csv\n  csv:\n    path: x.csv\nlookup:\n  ranges:\n    tower:\n      min: 10\n      max: 2\n",
			wantErr: "lookup.ranges.tower",
		},
		{
			name:    "bad telegram mode",
			body:    "store:\n  type: csv\n  csv:\n    path: x.csv\ntelegram:\n  mode: carrier-pigeon\n",
			wantErr: "telegram.mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeConfigInvalid))
		})
	}
}

func TestValidateForBot(t *testing.T) {
	cfg := &Config{Telegram: TelegramConfig{Mode: ModeWebhook, Token: "t"}}
	assert.ErrorContains(t, ValidateForBot(cfg), "webhook_url")

	cfg.Telegram.WebhookURL = "https://example.org/hook"
	assert.NoError(t, ValidateForBot(cfg))

	cfg.Telegram.Token = ""
	err := ValidateForBot(cfg)
	assert.ErrorContains(t, err, "BOT_TOKEN")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeConfigInvalid))
}

func TestWorkerConfigFallback(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"unit-lookup": {Enabled: false},
	}}

	assert.False(t, GetWorkerConfig(cfg, "unit-lookup").Enabled)
	assert.True(t, GetWorkerConfig(cfg, "interpret-code").Enabled)
	assert.Equal(t, 3, GetWorkerConfig(cfg, "interpret-code").MaxRetries)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file:/var/lib/units.db?mode=ro", SQLiteConfig{Path: "/var/lib/units.db"}.DSN())
}
