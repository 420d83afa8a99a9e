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
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Pricing      PricingConfig
	RateLimit    RateLimitConfig
	Webhook      WebhookConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	Cron         CronConfig
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
	Env          string `envconfig:"OVENMADE_APP_ENV" required:"true"`
	Port         string `envconfig:"OVENMADE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"OVENMADE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"OVENMADE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"OVENMADE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"OVENMADE_DB_DSN"`
	Driver string `envconfig:"OVENMADE_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"OVENMADE_DB_HOST"`
	Port     int    `envconfig:"OVENMADE_DB_PORT" default:"5432"`
	User     string `envconfig:"OVENMADE_DB_USER"`
	Password string `envconfig:"OVENMADE_DB_PASSWORD"`
	Name     string `envconfig:"OVENMADE_DB_NAME"`
	SSLMode  string `envconfig:"OVENMADE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"OVENMADE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"OVENMADE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"OVENMADE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"OVENMADE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	for env, value := range map[string]string{
		"OVENMADE_DB_HOST": db.Host,
		"OVENMADE_DB_USER": db.User,
		"OVENMADE_DB_NAME": db.Name,
	} {
		if value == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either OVENMADE_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"OVENMADE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"OVENMADE_REDIS_ADDR"`
	Password     string        `envconfig:"OVENMADE_REDIS_PASSWORD"`
	DB           int           `envconfig:"OVENMADE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"OVENMADE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"OVENMADE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"OVENMADE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"OVENMADE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"OVENMADE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"OVENMADE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"OVENMADE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"OVENMADE_JWT_EXPIRATION_MINUTES" default:"60"`
}

// PricingConfig carries the platform-level money knobs. Per-baker overrides
// live on the baker record; calculation never reads these ambiently, callers
// pass them down explicitly.
type PricingConfig struct {
	DefaultTaxRate        string `envconfig:"OVENMADE_PRICING_DEFAULT_TAX_RATE" default:"0"`
	PaymentToleranceCents int    `envconfig:"OVENMADE_PRICING_PAYMENT_TOLERANCE_CENTS" default:"0"`
	DefaultCurrency       string `envconfig:"OVENMADE_PRICING_DEFAULT_CURRENCY" default:"USD"`
}

// RateLimitConfig throttles the public calculator surface; the rest of the
// API sits behind authentication.
type RateLimitConfig struct {
	PublicWindow     time.Duration `envconfig:"OVENMADE_RATELIMIT_PUBLIC_WINDOW" default:"1m"`
	PublicIPLimit    int           `envconfig:"OVENMADE_RATELIMIT_PUBLIC_IP_LIMIT" default:"30"`
	PublicEmailLimit int           `envconfig:"OVENMADE_RATELIMIT_PUBLIC_EMAIL_LIMIT" default:"10"`
}

// WebhookConfig holds the shared secret the payment processor signs
// deliveries with.
type WebhookConfig struct {
	ProcessorSecret string `envconfig:"OVENMADE_WEBHOOK_PROCESSOR_SECRET"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"OVENMADE_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"OVENMADE_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"OVENMADE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"OVENMADE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	QuoteTopic        string `envconfig:"OVENMADE_PUBSUB_QUOTE_TOPIC" default:"om-quote-events"`
	PaymentTopic      string `envconfig:"OVENMADE_PUBSUB_PAYMENT_TOPIC" default:"om-payment-events"`
	OrderTopic        string `envconfig:"OVENMADE_PUBSUB_ORDER_TOPIC" default:"om-order-events"`
	NotificationTopic string `envconfig:"OVENMADE_PUBSUB_NOTIFICATION_TOPIC" default:"om-notification-events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"OVENMADE_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"OVENMADE_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"OVENMADE_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type CronConfig struct {
	Interval        time.Duration `envconfig:"OVENMADE_CRON_INTERVAL" default:"24h"`
	FollowUpAfter   time.Duration `envconfig:"OVENMADE_CRON_QUOTE_FOLLOWUP_AFTER" default:"120h"`
	LockKey         string        `envconfig:"OVENMADE_CRON_LOCK_KEY" default:"om:cron:leader"`
	LockTTL         time.Duration `envconfig:"OVENMADE_CRON_LOCK_TTL" default:"25h"`
	MetricsAddr     string        `envconfig:"OVENMADE_CRON_METRICS_ADDR" default:":9091"`
	OutboxRetention time.Duration `envconfig:"OVENMADE_CRON_OUTBOX_RETENTION" default:"720h"`
}
