package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Inventory    InventoryConfig
	Cart         CartConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite || cfg.Cart.StoreBackend == StoreBackendSQL {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	if err := cfg.Cart.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ROCKSHOES_APP_ENV" required:"true"`
	Port         string `envconfig:"ROCKSHOES_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ROCKSHOES_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ROCKSHOES_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ROCKSHOES_DB_DSN"`
	Driver string `envconfig:"ROCKSHOES_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ROCKSHOES_DB_HOST"`
	LegacyPort     int    `envconfig:"ROCKSHOES_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ROCKSHOES_DB_USER"`
	LegacyPassword string `envconfig:"ROCKSHOES_DB_PASSWORD"`
	LegacyName     string `envconfig:"ROCKSHOES_DB_NAME"`
	LegacySSLMode  string `envconfig:"ROCKSHOES_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ROCKSHOES_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"ROCKSHOES_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"ROCKSHOES_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ROCKSHOES_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ROCKSHOES_REDIS_URL"`
	Address      string        `envconfig:"ROCKSHOES_REDIS_ADDR"`
	Password     string        `envconfig:"ROCKSHOES_REDIS_PASSWORD"`
	DB           int           `envconfig:"ROCKSHOES_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ROCKSHOES_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ROCKSHOES_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ROCKSHOES_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ROCKSHOES_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ROCKSHOES_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// InventoryConfig points at the remote catalog service the cart engine
// validates against.
type InventoryConfig struct {
	BaseURL string        `envconfig:"ROCKSHOES_INVENTORY_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"ROCKSHOES_INVENTORY_TIMEOUT" default:"10s"`
}

// CartConfig controls snapshot storage for cart sessions.
type CartConfig struct {
	// StoreBackend selects where snapshots live: "redis" or "sql".
	StoreBackend string `envconfig:"ROCKSHOES_CART_STORE_BACKEND" default:"redis"`
	// SnapshotNamespace prefixes every persisted cart key.
	SnapshotNamespace string `envconfig:"ROCKSHOES_CART_SNAPSHOT_NAMESPACE" default:"rockshoes:cart"`
}

func (c CartConfig) validate() error {
	switch c.StoreBackend {
	case StoreBackendRedis, StoreBackendSQL:
		return nil
	}
	return fmt.Errorf("unknown cart store backend %q", c.StoreBackend)
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"ROCKSHOES_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"ROCKSHOES_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"ROCKSHOES_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	NotificationTopic string `envconfig:"ROCKSHOES_PUBSUB_NOTIFICATION_TOPIC" default:"rockshoes-cart-notifications"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	if strings.EqualFold(db.Driver, "sqlite") {
		return fmt.Errorf("%s is required for the sqlite driver", EnvDBDSN)
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
