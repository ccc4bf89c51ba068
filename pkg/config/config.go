package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Mailjet  MailjetConfig
	Xendit   XenditConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
}

type MailjetConfig struct {
	MailjetBaseUrl           string `env:"MAILJET_BASE_URL" envDefault:"https://api.mailjet.com"`
	MailjetBasicAuthUsername string `env:"MAILJET_BASIC_AUTH_USERNAME"`
	MailjetBasicAuthPassword string `env:"MAILJET_BASIC_AUTH_PASSWORD"`
	MailjetSenderEmail       string `env:"MAILJET_SENDER_EMAIL"`
	MailjetSenderName        string `env:"MAILJET_SENDER_NAME" envDefault:"bazaarHub"`
}

type AppConfig struct {
	Name                    string `env:"APP_NAME" envDefault:"bazaarHub API"`
	Version                 string `env:"APP_VERSION" envDefault:"1.0.0"`
	Environment             string `env:"APP_ENV" envDefault:"development"`
	LogLevel                string `env:"LOG_LEVEL"`
	AppDeploymentUrl        string `env:"APP_DEPLOYMENT_URL"`
	AppEmailVerificationKey string `env:"APP_EMAIL_VERIFICATION_KEY"`
	AutoMigrate             bool   `env:"APP_AUTO_MIGRATE" envDefault:"true"`
}

type ServerConfig struct {
	Port           string        `env:"PORT" envDefault:"8080"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	AllowOrigins   []string      `env:"CORS_ALLOW_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:8080"`
}

type DatabaseConfig struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME" envDefault:"bazaarhub"`
	SSLMode  string `env:"DB_SSL_MODE" envDefault:"disable"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

type JWTConfig struct {
	SecretKey string        `env:"JWT_SECRET"`
	TTL       time.Duration `env:"JWT_TTL" envDefault:"24h"`
}

type XenditConfig struct {
	XenditSecretKey                string `env:"XENDIT_SECRET_KEY"`
	XenditUrl                      string `env:"XENDIT_URL" envDefault:"https://api.xendit.co/v2/invoices"`
	RedirectUrl                    string `env:"REDIRECT_URL"`
	Currency                       string `env:"XENDIT_CURRENCY" envDefault:"BDT"`
	XenditWebhookVerificationToken string `env:"XENDIT_WEBHOOK_VERIFICATION_TOKEN"`
}

type RedisConfig struct {
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
}

// KafkaConfig leaves Brokers empty to disable event publishing.
type KafkaConfig struct {
	Brokers     []string `env:"KAFKA_BROKERS" envSeparator:","`
	TopicPrefix string   `env:"KAFKA_TOPIC_PREFIX" envDefault:"bazaarhub"`
}

func (k KafkaConfig) Enabled() bool {
	for _, b := range k.Brokers {
		if strings.TrimSpace(b) != "" {
			return true
		}
	}
	return false
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.SecretKey == "" {
		return errors.New("missing jwt secret")
	}

	if c.App.AppDeploymentUrl == "" {
		return errors.New("missing app deployment url")
	}

	// goshortcute AES-CBC needs a 16, 24 or 32 byte key
	switch len(c.App.AppEmailVerificationKey) {
	case 16, 24, 32:
	case 0:
		return errors.New("missing app email verification key")
	default:
		return errors.New("app email verification key must be 16, 24 or 32 bytes")
	}

	if c.Database.Password == "" {
		return errors.New("missing database password")
	}

	return nil
}
