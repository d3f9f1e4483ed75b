// internal/common/config/loader.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "unit-lookup/internal/common/errors"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml on top
// and applies environment overrides.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, apperrors.NewConfigInvalidError(err)
	}
	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory to the first go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// setDefaults registers every key viper should resolve from the environment
// even when the yaml file leaves it out (TELEGRAM_MODE, STORE_TYPE, ...).
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "unit-lookup")
	v.SetDefault("app.environment", "development")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.mode", ModePolling)
	v.SetDefault("telegram.poll_timeout", 60)
	v.SetDefault("telegram.webhook_url", "")
	v.SetDefault("telegram.webhook_path", "/telegram/webhook")
	v.SetDefault("telegram.dedupe_ttl", 600000)
	v.SetDefault("telegram.reply_timeout", 15000)
	v.SetDefault("telegram.queue_size", 64)

	v.SetDefault("store.type", StoreSheets)
	v.SetDefault("store.timeout", 10000)
	v.SetDefault("store.sheets.spreadsheet_id", "")
	v.SetDefault("store.sheets.title", "")
	v.SetDefault("store.sheets.credentials", "")
	v.SetDefault("store.sheets.credentials_file", "")
	v.SetDefault("store.xlsx.path", "")
	v.SetDefault("store.csv.path", "")
	v.SetDefault("store.sql.table", "")

	v.SetDefault("http.address", ":8080")
	v.SetDefault("http.ready_checks_store", false)

	v.SetDefault("camunda.enabled", false)
	v.SetDefault("registry.path", "")
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			// unset variables expand to "" so the short-name fallbacks still apply
			if expanded := os.ExpandEnv(strVal); expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig honours the short variable names deployments already use.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Telegram.Token == "" {
		cfg.Telegram.Token = os.Getenv("BOT_TOKEN")
	}
	if cfg.Store.Sheets.SpreadsheetID == "" {
		cfg.Store.Sheets.SpreadsheetID = os.Getenv("SHEET_ID")
	}
	cfg.Store.Sheets.SpreadsheetID = strings.TrimSpace(cfg.Store.Sheets.SpreadsheetID)
	if cfg.Store.Sheets.Credentials == "" {
		cfg.Store.Sheets.Credentials = os.Getenv("GOOGLE_CREDENTIALS")
	}

	if cfg.Database.Postgres.User == "" {
		cfg.Database.Postgres.User = os.Getenv("DB_USER")
	}
	if cfg.Database.Postgres.Password == "" {
		cfg.Database.Postgres.Password = os.Getenv("DB_PASSWORD")
	}
	if cfg.Database.Redis.Address == "" {
		cfg.Database.Redis.Address = os.Getenv("REDIS_ADDRESS")
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	l := &cfg.Lookup
	if l.PlateMinLength == 0 {
		l.PlateMinLength = 6
	}
	setRange(&l.Ranges.Tower, 1, 21)
	setRange(&l.Ranges.House, 1, 280)
	setRange(&l.Ranges.Apartment, 1, 999)

	if l.Kinds.Tower == "" {
		l.Kinds.Tower = "torre"
	}
	if l.Kinds.House == "" {
		l.Kinds.House = "casa"
	}

	if l.Headers.Kind == "" {
		l.Headers.Kind = "Tipo Vivienda"
	}
	if l.Headers.Tower == "" {
		l.Headers.Tower = "Torre"
	}
	if l.Headers.Unit == "" {
		l.Headers.Unit = "Apartamento"
	}
	if l.Headers.Owner == "" {
		l.Headers.Owner = "Propietario"
	}
	if l.Headers.Status == "" {
		l.Headers.Status = "Estado"
	}

	if len(l.Columns.Balance) == 0 {
		l.Columns.Balance = []string{"saldo"}
	}
	if len(l.Columns.CarPlate) == 0 {
		l.Columns.CarPlate = []string{"placa", "carro"}
	}
	if len(l.Columns.MotoPlate) == 0 {
		l.Columns.MotoPlate = []string{"placa", "moto"}
	}

	if l.Placeholders.Balance == "" {
		l.Placeholders.Balance = "N/A"
	}
	if l.Placeholders.Plate == "" {
		l.Placeholders.Plate = "No registrada"
	}
	if l.Placeholders.Owner == "" {
		l.Placeholders.Owner = "No registrado"
	}

	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 10
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 2
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 30000
		}
		if worker.MaxRetries == 0 {
			worker.MaxRetries = 3
		}
		cfg.Workers[key] = worker
	}
}

func setRange(r *RangeConfig, min, max int) {
	if r.Min == 0 && r.Max == 0 {
		r.Min, r.Max = min, max
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	switch cfg.Store.Type {
	case StoreSheets:
		if cfg.Store.Sheets.SpreadsheetID == "" && cfg.Store.Sheets.Title == "" {
			return fmt.Errorf("store.sheets.spreadsheet_id (SHEET_ID) or store.sheets.title is required")
		}
		if cfg.Store.Sheets.Credentials == "" && cfg.Store.Sheets.CredentialsFile == "" {
			return fmt.Errorf("store.sheets.credentials (GOOGLE_CREDENTIALS) or store.sheets.credentials_file is required")
		}
	case StoreXLSX:
		if cfg.Store.XLSX.Path == "" {
			return fmt.Errorf("store.xlsx.path is required")
		}
	case StoreCSV:
		if cfg.Store.CSV.Path == "" {
			return fmt.Errorf("store.csv.path is required")
		}
	case StorePostgres:
		if cfg.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host is required")
		}
		if cfg.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.database is required")
		}
		if cfg.Store.SQL.Table == "" {
			return fmt.Errorf("store.sql.table is required")
		}
	case StoreSQLite:
		if cfg.Database.SQLite.Path == "" {
			return fmt.Errorf("database.sqlite.path is required")
		}
		if cfg.Store.SQL.Table == "" {
			return fmt.Errorf("store.sql.table is required")
		}
	default:
		return fmt.Errorf("unknown store.type %q", cfg.Store.Type)
	}

	for name, r := range map[string]RangeConfig{
		"tower":     cfg.Lookup.Ranges.Tower,
		"house":     cfg.Lookup.Ranges.House,
		"apartment": cfg.Lookup.Ranges.Apartment,
	} {
		if r.Min < 1 || r.Max < r.Min {
			return fmt.Errorf("lookup.ranges.%s must satisfy 1 <= min <= max", name)
		}
	}

	if cfg.Telegram.Mode != ModePolling && cfg.Telegram.Mode != ModeWebhook {
		return fmt.Errorf("telegram.mode must be %q or %q", ModePolling, ModeWebhook)
	}
	if cfg.Camunda.Enabled && cfg.Camunda.BrokerAddress == "" {
		return fmt.Errorf("camunda.broker_address is required when camunda is enabled")
	}
	return nil
}

// ValidateForBot checks the settings only the long-running bot needs.
func ValidateForBot(cfg *Config) error {
	if cfg.Telegram.Token == "" {
		return apperrors.NewConfigInvalidError(errors.New("telegram.token (BOT_TOKEN) is required"))
	}
	if cfg.Telegram.Mode == ModeWebhook && cfg.Telegram.WebhookURL == "" {
		return apperrors.NewConfigInvalidError(errors.New("telegram.webhook_url is required in webhook mode"))
	}
	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetWorkerConfig retrieves worker-specific configuration with fallback to defaults
func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}
	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30000,
		MaxRetries:    3,
	}
}
