package cmd

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable read by LoadConfig.
const EnvPrefix = "STOCKLEDGER"

type Config struct {
	HTTP      HTTPConfig
	DB        DBConfig
	Redis     RedisConfig
	Codes     CodeConfig
	Ledger    LedgerConfig
	Reconcile ReconcileConfig
	LogLevel  string `envconfig:"STOCKLEDGER_LOG_LEVEL" default:"info"`
}

type HTTPConfig struct {
	Port            string        `envconfig:"STOCKLEDGER_HTTP_PORT" default:"8080"`
	ShutdownTimeout time.Duration `envconfig:"STOCKLEDGER_HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
}

type DBConfig struct {
	Host     string `envconfig:"STOCKLEDGER_DB_HOST" default:"localhost"`
	Port     int    `envconfig:"STOCKLEDGER_DB_PORT" default:"5432"`
	User     string `envconfig:"STOCKLEDGER_DB_USER" default:"postgres"`
	Password string `envconfig:"STOCKLEDGER_DB_PASSWORD"`
	Name     string `envconfig:"STOCKLEDGER_DB_NAME" default:"stockledger"`
	SSLMode  string `envconfig:"STOCKLEDGER_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STOCKLEDGER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STOCKLEDGER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STOCKLEDGER_DB_CONN_MAX_LIFETIME" default:"1h"`

	// Isolation is the level of write transactions: read_committed or serializable.
	Isolation   string `envconfig:"STOCKLEDGER_DB_ISOLATION" default:"read_committed"`
	AutoMigrate bool   `envconfig:"STOCKLEDGER_DB_AUTO_MIGRATE" default:"true"`
}

// DSN renders the connection settings as a postgres URL.
func (c DBConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

// RedisConfig configures the idempotency store. An empty Address disables it.
type RedisConfig struct {
	Address        string        `envconfig:"STOCKLEDGER_REDIS_ADDR"`
	Password       string        `envconfig:"STOCKLEDGER_REDIS_PASSWORD"`
	DB             int           `envconfig:"STOCKLEDGER_REDIS_DB" default:"0"`
	IdempotencyTTL time.Duration `envconfig:"STOCKLEDGER_IDEMPOTENCY_TTL" default:"24h"`
	// PendingTTL bounds a reservation whose adjustment never committed.
	PendingTTL time.Duration `envconfig:"STOCKLEDGER_IDEMPOTENCY_PENDING_TTL" default:"2m"`
}

type CodeConfig struct {
	DefaultPrefix string        `envconfig:"STOCKLEDGER_CODE_PREFIX" default:"EQP"`
	MaxAttempts   int           `envconfig:"STOCKLEDGER_CODE_MAX_ATTEMPTS" default:"5"`
	RetryInterval time.Duration `envconfig:"STOCKLEDGER_CODE_RETRY_INTERVAL" default:"20ms"`
}

type LedgerConfig struct {
	HistoryPageSize int `envconfig:"STOCKLEDGER_HISTORY_PAGE_SIZE" default:"100"`
}

type ReconcileConfig struct {
	Enabled  bool   `envconfig:"STOCKLEDGER_RECONCILE_ENABLED" default:"true"`
	Schedule string `envconfig:"STOCKLEDGER_RECONCILE_SCHEDULE" default:"0 */15 * * * *"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Ledger.HistoryPageSize <= 0 {
		return Config{}, fmt.Errorf("parsing config: history page size must be positive, got %d", cfg.Ledger.HistoryPageSize)
	}
	if cfg.Codes.MaxAttempts <= 0 {
		return Config{}, fmt.Errorf("parsing config: code max attempts must be positive, got %d", cfg.Codes.MaxAttempts)
	}
	return cfg, nil
}
