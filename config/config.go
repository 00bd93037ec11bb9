package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store backends selectable with STORE_BACKEND.
const (
	StoreFile     = "file"
	StoreGCS      = "gcs"
	StorePostgres = "postgres"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// Example ENV:
//
//	SERVER_PORT=8080
//	RATE_LIMIT_REQUESTS=60
//	RATE_LIMIT_WINDOW=1m
//	STORE_BACKEND=gcs
//	GCS_BUCKET=my-trades
//	GCS_CSV_PATH=trades.csv
//	PRICE_BACKEND=chain
//	PRICE_MARKETS=TW,TWO
//	COMPANY_NAMES_PATH=data/company_names.json
//	LINE_CHANNEL_SECRET=...
//	LINE_CHANNEL_TOKEN=...
//	LINE_PUSH_TO=U0123...
//	REPORT_CRON=CRON_TZ=Asia/Taipei 0 30 14 * * MON-FRI
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Postgres PostgresConfig
	Price    PriceConfig
	Names    NamesConfig
	Redis    RedisConfig
	Line     LineConfig
	Schedule ScheduleConfig
	Ledger   LedgerConfig
}

// ServerConfig holds HTTP server settings such as the port to listen on.
type ServerConfig struct {
	Port       string
	RateLimit  int           // requests per RateWindow per client IP; 0 disables
	RateWindow time.Duration
}

// StoreConfig selects where the trade log lives.
type StoreConfig struct {
	Backend   string // file | gcs | postgres
	CSVPath   string // local CSV for the file backend
	GCSBucket string
	GCSObject string
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// PriceConfig controls the close-price backends.
type PriceConfig struct {
	Backend      string   // finmind | yahoo | chain
	Markets      []string // suffix variants tried in order, e.g. TW, TWO
	FinMindToken string
	HTTPTimeout  time.Duration
}

// NamesConfig controls company-name resolution.
type NamesConfig struct {
	Path          string // local JSON/YAML table
	RemoteEnabled bool   // scrape names missing from the table
	CacheTTL      time.Duration
}

// RedisConfig is optional; an empty Addr disables the name cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LineConfig holds LINE Messaging API credentials.
type LineConfig struct {
	ChannelSecret string
	ChannelToken  string
	PushTo        string
}

// ScheduleConfig drives --mode schedule.
type ScheduleConfig struct {
	ReportCron string // robfig/cron spec with a seconds field
}

// LedgerConfig tunes reconstruction.
type LedgerConfig struct {
	SellWindowDays int // 0 disables SELL date gating
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing or invalid, validateConfig() terminates the app.
func LoadConfig() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("RATE_LIMIT_REQUESTS", 60)
	viper.SetDefault("RATE_LIMIT_WINDOW", "1m")

	viper.SetDefault("STORE_BACKEND", StoreFile)
	viper.SetDefault("TRADES_CSV_PATH", "data/trades.csv")
	viper.SetDefault("GCS_CSV_PATH", "trades.csv")

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "tradepulse")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	viper.SetDefault("PRICE_BACKEND", "chain")
	viper.SetDefault("PRICE_MARKETS", "TW,TWO")
	viper.SetDefault("HTTP_TIMEOUT", "10s")

	viper.SetDefault("COMPANY_NAMES_PATH", "data/company_names.json")
	viper.SetDefault("NAME_REMOTE_ENABLED", true)
	viper.SetDefault("NAME_CACHE_TTL", "720h")
	viper.SetDefault("REDIS_DB", 0)

	viper.SetDefault("REPORT_CRON", "CRON_TZ=Asia/Taipei 0 30 14 * * MON-FRI")
	viper.SetDefault("SELL_WINDOW_DAYS", 0)

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()

	AppConfig = Config{
		Server: ServerConfig{
			Port:       viper.GetString("SERVER_PORT"),
			RateLimit:  viper.GetInt("RATE_LIMIT_REQUESTS"),
			RateWindow: viper.GetDuration("RATE_LIMIT_WINDOW"),
		},
		Store: StoreConfig{
			Backend:   strings.ToLower(strings.TrimSpace(viper.GetString("STORE_BACKEND"))),
			CSVPath:   viper.GetString("TRADES_CSV_PATH"),
			GCSBucket: viper.GetString("GCS_BUCKET"),
			GCSObject: viper.GetString("GCS_CSV_PATH"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
		Price: PriceConfig{
			Backend:      strings.ToLower(strings.TrimSpace(viper.GetString("PRICE_BACKEND"))),
			Markets:      splitList(viper.GetString("PRICE_MARKETS")),
			FinMindToken: viper.GetString("FINMIND_TOKEN"),
			HTTPTimeout:  viper.GetDuration("HTTP_TIMEOUT"),
		},
		Names: NamesConfig{
			Path:          viper.GetString("COMPANY_NAMES_PATH"),
			RemoteEnabled: viper.GetBool("NAME_REMOTE_ENABLED"),
			CacheTTL:      viper.GetDuration("NAME_CACHE_TTL"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Line: LineConfig{
			ChannelSecret: viper.GetString("LINE_CHANNEL_SECRET"),
			ChannelToken:  viper.GetString("LINE_CHANNEL_TOKEN"),
			PushTo:        viper.GetString("LINE_PUSH_TO"),
		},
		Schedule: ScheduleConfig{
			ReportCron: viper.GetString("REPORT_CRON"),
		},
		Ledger: LedgerConfig{
			SellWindowDays: viper.GetInt("SELL_WINDOW_DAYS"),
		},
	}

	AppConfig.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		AppConfig.Postgres.User,
		AppConfig.Postgres.Password,
		AppConfig.Postgres.Host,
		AppConfig.Postgres.Port,
		AppConfig.Postgres.DBName,
		AppConfig.Postgres.SSLMode,
	)

	validateConfig()
}

// validateConfig terminates the application when Problems reports anything.
func validateConfig() {
	if problems := AppConfig.Problems(); len(problems) > 0 {
		log.Fatalf("❌ Invalid configuration: %v\n", problems)
	}
}

// Problems lists missing or invalid settings. Backend-specific keys are only
// required when that backend is selected.
func (c Config) Problems() []string {
	var missing []string

	if c.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}

	switch c.Store.Backend {
	case StoreFile:
		if c.Store.CSVPath == "" {
			missing = append(missing, "TRADES_CSV_PATH")
		}
	case StoreGCS:
		if c.Store.GCSBucket == "" {
			missing = append(missing, "GCS_BUCKET")
		}
		if c.Store.GCSObject == "" {
			missing = append(missing, "GCS_CSV_PATH")
		}
	case StorePostgres:
		if c.Postgres.Host == "" {
			missing = append(missing, "POSTGRES_HOST")
		}
		if c.Postgres.Port == 0 {
			missing = append(missing, "POSTGRES_PORT")
		}
		if c.Postgres.User == "" {
			missing = append(missing, "POSTGRES_USER")
		}
		if c.Postgres.Password == "" {
			missing = append(missing, "POSTGRES_PASSWORD")
		}
		if c.Postgres.DBName == "" {
			missing = append(missing, "POSTGRES_DB")
		}
	default:
		missing = append(missing, fmt.Sprintf("STORE_BACKEND (unknown %q)", c.Store.Backend))
	}

	switch c.Price.Backend {
	case "finmind", "yahoo", "chain":
	default:
		missing = append(missing, fmt.Sprintf("PRICE_BACKEND (unknown %q)", c.Price.Backend))
	}
	if c.Server.RateLimit < 0 {
		missing = append(missing, "RATE_LIMIT_REQUESTS (must be >= 0)")
	}
	if c.Server.RateLimit > 0 && c.Server.RateWindow <= 0 {
		missing = append(missing, "RATE_LIMIT_WINDOW (must be > 0)")
	}
	if c.Ledger.SellWindowDays < 0 {
		missing = append(missing, "SELL_WINDOW_DAYS (must be >= 0)")
	}

	return missing
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
