package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Sla      SlaConfig
	HourBank HourBankConfig
	Locale   LocaleConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// SlaConfig tunes the SLA engine.
type SlaConfig struct {
	// RiskFraction is the share of budget remaining at which a deadline
	// becomes at_risk (0.2 = alert at 20% remaining).
	RiskFraction float64
	// ReportCacheTTLSeconds bounds how stale a cached compliance report
	// may be. Zero disables report caching.
	ReportCacheTTLSeconds int
	// ConfigCacheTTLSeconds bounds the active-config lookup cache.
	ConfigCacheTTLSeconds int
}

// HourBankConfig tunes hour-bank policies.
type HourBankConfig struct {
	// EnforceActive rejects debits against expired or inactive banks when
	// set. Off by default: overage and late logging remain allowed and
	// surface as negative balances.
	EnforceActive bool
}

// LocaleConfig controls display formatting defaults.
type LocaleConfig struct {
	Default  string
	Currency string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	riskFraction, err := strconv.ParseFloat(getEnv("SLA_RISK_FRACTION", "0.2"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid SLA_RISK_FRACTION: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "helpdesk-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Sla: SlaConfig{
			RiskFraction:          riskFraction,
			ReportCacheTTLSeconds: getEnvAsInt("SLA_REPORT_CACHE_TTL_SECONDS", 300),
			ConfigCacheTTLSeconds: getEnvAsInt("SLA_CONFIG_CACHE_TTL_SECONDS", 600),
		},
		HourBank: HourBankConfig{
			EnforceActive: getEnvAsBool("HOURBANK_ENFORCE_ACTIVE", false),
		},
		Locale: LocaleConfig{
			Default:  getEnv("LOCALE_DEFAULT", "en-US"),
			Currency: getEnv("LOCALE_CURRENCY", "USD"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// ReportCacheTTL returns the report cache TTL duration.
func (s SlaConfig) ReportCacheTTL() time.Duration {
	return time.Duration(s.ReportCacheTTLSeconds) * time.Second
}

// ConfigCacheTTL returns the config cache TTL duration.
func (s SlaConfig) ConfigCacheTTL() time.Duration {
	return time.Duration(s.ConfigCacheTTLSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
