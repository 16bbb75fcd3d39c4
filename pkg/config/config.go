package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is passed to envconfig; every variable below already spells the
// full name so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "WILLOWROOT_DB_DSN"
	EnvDBHost = "WILLOWROOT_DB_HOST"
	EnvDBUser = "WILLOWROOT_DB_USER"
	EnvDBName = "WILLOWROOT_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Auth         AuthConfig
	Checkout     CheckoutConfig
	Scheduling   SchedulingConfig
	Mailer       MailerConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
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
	Env          string `envconfig:"WILLOWROOT_APP_ENV" required:"true"`
	Port         string `envconfig:"WILLOWROOT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"WILLOWROOT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"WILLOWROOT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"WILLOWROOT_DB_DSN"`
	Driver string `envconfig:"WILLOWROOT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"WILLOWROOT_DB_HOST"`
	LegacyPort     int    `envconfig:"WILLOWROOT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"WILLOWROOT_DB_USER"`
	LegacyPassword string `envconfig:"WILLOWROOT_DB_PASSWORD"`
	LegacyName     string `envconfig:"WILLOWROOT_DB_NAME"`
	LegacySSLMode  string `envconfig:"WILLOWROOT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"WILLOWROOT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"WILLOWROOT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"WILLOWROOT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"WILLOWROOT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"WILLOWROOT_REDIS_URL"`
	Address      string        `envconfig:"WILLOWROOT_REDIS_ADDR"`
	Password     string        `envconfig:"WILLOWROOT_REDIS_PASSWORD"`
	DB           int           `envconfig:"WILLOWROOT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"WILLOWROOT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"WILLOWROOT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"WILLOWROOT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"WILLOWROOT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WILLOWROOT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// AuthConfig holds what is needed to verify tokens minted by the external
// identity provider. The platform never issues credentials itself.
type AuthConfig struct {
	JWTSecret string `envconfig:"WILLOWROOT_AUTH_JWT_SECRET" required:"true"`
	Issuer    string `envconfig:"WILLOWROOT_AUTH_ISSUER" default:"willowroot-identity"`
	Audience  string `envconfig:"WILLOWROOT_AUTH_AUDIENCE" default:"willowroot-api"`
}

// CheckoutConfig tunes the order pipeline. The defaults match the storefront
// pricing rules: free shipping at $50, $5.99 flat fee below it, 8% tax.
type CheckoutConfig struct {
	FreeShippingThreshold float64 `envconfig:"WILLOWROOT_CHECKOUT_FREE_SHIPPING_THRESHOLD" default:"50"`
	FlatShippingFee       float64 `envconfig:"WILLOWROOT_CHECKOUT_FLAT_SHIPPING_FEE" default:"5.99"`
	TaxRate               float64 `envconfig:"WILLOWROOT_CHECKOUT_TAX_RATE" default:"0.08"`
}

type SchedulingConfig struct {
	BaseURL string        `envconfig:"WILLOWROOT_SCHEDULING_BASE_URL"`
	Timeout time.Duration `envconfig:"WILLOWROOT_SCHEDULING_TIMEOUT" default:"10s"`
}

type MailerConfig struct {
	APIKey      string        `envconfig:"WILLOWROOT_MAILER_API_KEY"`
	BaseURL     string        `envconfig:"WILLOWROOT_MAILER_BASE_URL" default:"https://api.sendgrid.com"`
	DefaultFrom string        `envconfig:"WILLOWROOT_MAILER_FROM_EMAIL" default:"orders@willowroot.example"`
	Timeout     time.Duration `envconfig:"WILLOWROOT_MAILER_TIMEOUT" default:"10s"`
}

type GCPConfig struct {
	ProjectID       string `envconfig:"WILLOWROOT_GCP_PROJECT_ID"`
	CredentialsJSON string `envconfig:"WILLOWROOT_GCP_CREDENTIALS_JSON"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"WILLOWROOT_PUBSUB_ORDERS_TOPIC" default:"wr-order-events"`
	OrdersSubscription string `envconfig:"WILLOWROOT_PUBSUB_ORDERS_SUBSCRIPTION" default:"wr-order-events-mailer"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"WILLOWROOT_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"WILLOWROOT_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"WILLOWROOT_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"WILLOWROOT_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"WILLOWROOT_AUTO_MIGRATE" default:"false"`
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
