// internal/common/config/config.go
package config

import (
	"fmt"
	"net/url"
)

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig               `mapstructure:"app"`
	Logging  LoggingConfig           `mapstructure:"logging"`
	Telegram TelegramConfig          `mapstructure:"telegram"`
	Store    StoreConfig             `mapstructure:"store"`
	Lookup   LookupConfig            `mapstructure:"lookup"`
	HTTP     HTTPConfig              `mapstructure:"http"`
	Database DatabaseConfig          `mapstructure:"database"`
	Camunda  CamundaConfig           `mapstructure:"camunda"`
	Workers  map[string]WorkerConfig `mapstructure:"workers"`
	Registry RegistryConfig          `mapstructure:"registry"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// TelegramConfig configures the chat transport.
type TelegramConfig struct {
	Token        string `mapstructure:"token"`
	Mode         string `mapstructure:"mode"`         // polling | webhook
	PollTimeout  int    `mapstructure:"poll_timeout"` // seconds
	WebhookURL   string `mapstructure:"webhook_url"`
	WebhookPath  string `mapstructure:"webhook_path"`
	DedupeTTL    int    `mapstructure:"dedupe_ttl"`    // milliseconds
	ReplyTimeout int    `mapstructure:"reply_timeout"` // milliseconds
	QueueSize    int    `mapstructure:"queue_size"`
	Debug        bool   `mapstructure:"debug"`
}

const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

// StoreConfig selects where unit records are read from.
type StoreConfig struct {
	Type    string       `mapstructure:"type"`    // sheets | xlsx | csv | postgres | sqlite
	Timeout int          `mapstructure:"timeout"` // milliseconds
	Sheets  SheetsConfig `mapstructure:"sheets"`
	XLSX    FileConfig   `mapstructure:"xlsx"`
	CSV     FileConfig   `mapstructure:"csv"`
	SQL     SQLConfig    `mapstructure:"sql"`
}

const (
	StoreSheets   = "sheets"
	StoreXLSX     = "xlsx"
	StoreCSV      = "csv"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

type SheetsConfig struct {
	SpreadsheetID   string `mapstructure:"spreadsheet_id"`
	Title           string `mapstructure:"title"` // used to search Drive when the id cannot be opened
	Worksheet       string `mapstructure:"worksheet"`
	Credentials     string `mapstructure:"credentials"` // service account JSON
	CredentialsFile string `mapstructure:"credentials_file"`
}

type FileConfig struct {
	Path  string `mapstructure:"path"`
	Sheet string `mapstructure:"sheet"`
}

type SQLConfig struct {
	Table   string `mapstructure:"table"`
	OrderBy string `mapstructure:"order_by"`
}

// LookupConfig holds the interpreter ranges and the record layout.
type LookupConfig struct {
	PlateMinLength int                `mapstructure:"plate_min_length"`
	Ranges         RangesConfig       `mapstructure:"ranges"`
	Kinds          KindsConfig        `mapstructure:"kinds"`
	Headers        HeadersConfig      `mapstructure:"headers"`
	Columns        ColumnsConfig      `mapstructure:"columns"`
	Placeholders   PlaceholdersConfig `mapstructure:"placeholders"`
}

type RangeConfig struct {
	Min int `mapstructure:"min"`
	Max int `mapstructure:"max"`
}

type RangesConfig struct {
	Tower     RangeConfig `mapstructure:"tower"`
	House     RangeConfig `mapstructure:"house"`
	Apartment RangeConfig `mapstructure:"apartment"`
}

type KindsConfig struct {
	Tower string `mapstructure:"tower"`
	House string `mapstructure:"house"`
}

type HeadersConfig struct {
	Kind   string `mapstructure:"kind"`
	Tower  string `mapstructure:"tower"`
	Unit   string `mapstructure:"unit"`
	Owner  string `mapstructure:"owner"`
	Status string `mapstructure:"status"`
}

// ColumnsConfig lists substrings used for fuzzy header lookup.
type ColumnsConfig struct {
	Balance   []string `mapstructure:"balance"`
	CarPlate  []string `mapstructure:"car_plate"`
	MotoPlate []string `mapstructure:"moto_plate"`
}

type PlaceholdersConfig struct {
	Balance string `mapstructure:"balance"`
	Plate   string `mapstructure:"plate"`
	Owner   string `mapstructure:"owner"`
}

type HTTPConfig struct {
	Address          string `mapstructure:"address"`
	ReadyChecksStore bool   `mapstructure:"ready_checks_store"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// DSN opens the database file read-only.
func (s SQLiteConfig) DSN() string {
	return "file:" + (&url.URL{Path: s.Path}).EscapedPath() + "?mode=ro"
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CamundaConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

type RegistryConfig struct {
	Path string `mapstructure:"path"`
}
