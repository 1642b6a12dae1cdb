package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "FLASHNACKS_DB_DSN"
	EnvDBHost = "FLASHNACKS_DB_HOST"
	EnvDBUser = "FLASHNACKS_DB_USER"
	EnvDBName = "FLASHNACKS_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Session      SessionConfig
	Cart         CartConfig
	Checkout     CheckoutConfig
	Cron         CronConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FLASHNACKS_APP_ENV" required:"true"`
	Port         string `envconfig:"FLASHNACKS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FLASHNACKS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FLASHNACKS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FLASHNACKS_DB_DSN"`
	Driver string `envconfig:"FLASHNACKS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FLASHNACKS_DB_HOST"`
	LegacyPort     int    `envconfig:"FLASHNACKS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FLASHNACKS_DB_USER"`
	LegacyPassword string `envconfig:"FLASHNACKS_DB_PASSWORD"`
	LegacyName     string `envconfig:"FLASHNACKS_DB_NAME"`
	LegacySSLMode  string `envconfig:"FLASHNACKS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FLASHNACKS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FLASHNACKS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FLASHNACKS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FLASHNACKS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FLASHNACKS_REDIS_URL"`
	Address      string        `envconfig:"FLASHNACKS_REDIS_ADDR"`
	Password     string        `envconfig:"FLASHNACKS_REDIS_PASSWORD"`
	DB           int           `envconfig:"FLASHNACKS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FLASHNACKS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FLASHNACKS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FLASHNACKS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FLASHNACKS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FLASHNACKS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// SessionConfig governs customer token verification and anonymous sessions.
type SessionConfig struct {
	JWTSecret  string `envconfig:"FLASHNACKS_JWT_SECRET" required:"true"`
	JWTIssuer  string `envconfig:"FLASHNACKS_JWT_ISSUER" default:"flashnacks"`
	AdminToken string `envconfig:"FLASHNACKS_ADMIN_TOKEN" required:"true"`
}

type CartConfig struct {
	// StaleAfter is how long an anonymous cart may sit untouched before the
	// cron worker retires it.
	StaleAfter time.Duration `envconfig:"FLASHNACKS_CART_STALE_AFTER" default:"168h"`
}

type CheckoutConfig struct {
	// Strict fails the whole checkout when any line is unavailable instead
	// of skipping the line with a warning.
	Strict         bool          `envconfig:"FLASHNACKS_CHECKOUT_STRICT" default:"false"`
	IdempotencyTTL time.Duration `envconfig:"FLASHNACKS_CHECKOUT_IDEMPOTENCY_TTL" default:"168h"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"FLASHNACKS_CRON_INTERVAL" default:"1h"`
	LockTTL  time.Duration `envconfig:"FLASHNACKS_CRON_LOCK_TTL" default:"55m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FLASHNACKS_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
