package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/TheDarkness2001/SMS-sub001/internal/pkg/helpers"
)

// Database drivers
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config is the service configuration. Values come from defaults, then the optional YAML
// file, then environment variables named by the env tags.
type Config struct {
	Server struct {
		Port         string `yaml:"port" env:"SERVER_PORT"`
		Mode         string `yaml:"mode" env:"SERVER_MODE"`
		ReadTimeout  string `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout string `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
		CORSOrigins  string `yaml:"cors_origins" env:"SERVER_CORS_ORIGINS"`
	} `yaml:"server"`

	Metrics struct {
		Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED"`
		Path    string `yaml:"path" env:"METRICS_PATH"`
	} `yaml:"metrics"`

	// Database holds the ledger. Driver "memory" ignores the connection settings.
	Database struct {
		Driver          string `yaml:"driver" env:"DB_DRIVER"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
		SeedFile        string `yaml:"seed_file" env:"DB_SEED_FILE"`
	} `yaml:"database"`

	Redis struct {
		Enabled  bool   `yaml:"enabled" env:"REDIS_ENABLED"`
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
	} `yaml:"redis"`

	// Billing tunes tariff resolution and reporting. Amounts are decimal strings.
	Billing struct {
		DefaultAmount   string            `yaml:"default_amount" env:"BILLING_DEFAULT_AMOUNT"`
		DueDay          int               `yaml:"due_day" env:"BILLING_DUE_DAY"`
		RevenueCacheTTL string            `yaml:"revenue_cache_ttl" env:"BILLING_REVENUE_CACHE_TTL"`
		StaticTariffs   map[string]string `yaml:"static_tariffs" env:"BILLING_STATIC_TARIFFS"`
	} `yaml:"billing"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig reads configPath when it exists, applies env overrides and validates the
// result. Unknown YAML keys are rejected.
func LoadConfig(configPath string) (*Config, error) {
	cfg := defaults()

	file, err := os.Open(configPath)
	switch {
	case err == nil:
		decoder := yaml.NewDecoder(file)
		decoder.KnownFields(true)
		decodeErr := decoder.Decode(cfg)
		file.Close()
		if decodeErr != nil && !errors.Is(decodeErr, io.EOF) {
			return nil, fmt.Errorf("failed to parse %s: %w", configPath, decodeErr)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := processStructFields(cfg); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{}

	cfg.Server.Port = "8080"
	cfg.Server.Mode = "development"
	cfg.Server.ReadTimeout = "10s"
	cfg.Server.WriteTimeout = "10s"
	cfg.Server.CORSOrigins = "*"

	cfg.Metrics.Enabled = true
	cfg.Metrics.Path = "/metrics"

	cfg.Database.Driver = DriverPostgres
	cfg.Database.Host = "localhost"
	cfg.Database.Port = "5432"
	cfg.Database.User = "postgres"
	cfg.Database.Password = "postgres"
	cfg.Database.DBName = "tutoring"
	cfg.Database.SSLMode = "disable"
	cfg.Database.MaxIdleConns = 5
	cfg.Database.MaxOpenConns = 20
	cfg.Database.ConnMaxLifetime = "1h"
	cfg.Database.MigrationsDir = "migrations"

	cfg.Redis.Addr = "localhost:6379"

	cfg.Billing.DefaultAmount = "100"
	cfg.Billing.DueDay = 5
	cfg.Billing.RevenueCacheTTL = "1m"

	cfg.Logging.Level = "info"
	cfg.Logging.Format = "json"
	return cfg
}

func validateConfig(cfg *Config) error {
	switch cfg.Database.Driver {
	case DriverPostgres:
		if cfg.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if _, err := time.ParseDuration(cfg.Database.ConnMaxLifetime); err != nil {
			return fmt.Errorf("invalid database connection lifetime: %w", err)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return fmt.Errorf("metrics path must start with /")
	}

	if cfg.Redis.Enabled && cfg.Redis.Addr == "" {
		return fmt.Errorf("redis address is required when redis is enabled")
	}

	amount, err := decimal.NewFromString(cfg.Billing.DefaultAmount)
	if err != nil {
		return fmt.Errorf("invalid billing default amount: %w", err)
	}
	if amount.IsNegative() {
		return fmt.Errorf("billing default amount cannot be negative")
	}

	for subject, value := range cfg.Billing.StaticTariffs {
		price, err := decimal.NewFromString(value)
		if err != nil {
			return fmt.Errorf("invalid static tariff for %q: %w", subject, err)
		}
		if price.IsNegative() {
			return fmt.Errorf("static tariff for %q cannot be negative", subject)
		}
	}

	if cfg.Billing.DueDay < 1 || cfg.Billing.DueDay > 28 {
		return fmt.Errorf("billing due day must be between 1 and 28")
	}

	for name, value := range map[string]string{
		"server read timeout":  cfg.Server.ReadTimeout,
		"server write timeout": cfg.Server.WriteTimeout,
		"revenue cache ttl":    cfg.Billing.RevenueCacheTTL,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}

	return nil
}

// GetPostgresConnectionString builds the pgx connection URL. Credentials are escaped.
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     net.JoinHostPort(c.Database.Host, c.Database.Port),
		Path:     "/" + c.Database.DBName,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return dsn.String()
}

// DefaultAmount returns the parsed fallback tariff. LoadConfig has already validated it.
func (c *Config) DefaultAmount() decimal.Decimal {
	amount, err := decimal.NewFromString(c.Billing.DefaultAmount)
	if err != nil {
		return decimal.NewFromInt(100)
	}
	return amount
}

// StaticTariffs returns the configured static table override, keyed as written.
func (c *Config) StaticTariffs() map[string]decimal.Decimal {
	if len(c.Billing.StaticTariffs) == 0 {
		return nil
	}
	tariffs := make(map[string]decimal.Decimal, len(c.Billing.StaticTariffs))
	for subject, value := range c.Billing.StaticTariffs {
		if price, err := decimal.NewFromString(value); err == nil {
			tariffs[subject] = price
		}
	}
	return tariffs
}

// AllowedOrigins splits the comma separated CORS origin list. "*" allows every origin.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.Server.CORSOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.ToLower(c.Server.Mode) == "production"
}

// ReadTimeout returns the HTTP server read timeout
func (c *Config) ReadTimeout() time.Duration {
	return helpers.ParseDuration(c.Server.ReadTimeout, 10*time.Second)
}

// WriteTimeout returns the HTTP server write timeout
func (c *Config) WriteTimeout() time.Duration {
	return helpers.ParseDuration(c.Server.WriteTimeout, 10*time.Second)
}

// RevenueCacheTTL returns how long a cached revenue summary stays valid
func (c *Config) RevenueCacheTTL() time.Duration {
	return helpers.ParseDuration(c.Billing.RevenueCacheTTL, time.Minute)
}
