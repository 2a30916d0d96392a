package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPAddr          = ":8080"
	defaultDatabaseURL       = "staybook.db"
	defaultJWTSecret         = "change-me-jwt-secret"
	defaultJWTTTL            = "24h"
	defaultNotifyDriver      = DriverMemory
	defaultNotifyWorkers     = "2"
	defaultNotifyQueueSize   = "256"
	defaultNotifyMaxAttempts = "3"
	defaultNotifyBackoff     = "2s"
	defaultKafkaTopic        = "notifications.email"
	defaultKafkaGroupID      = "staybook-mailer"
	defaultMailDriver        = MailConsole
	defaultSMTPPort          = "587"
	defaultMailFrom          = "noreply@travelapp.com"
)

const (
	DriverMemory = "memory"
	DriverKafka  = "kafka"

	MailConsole = "console"
	MailSMTP    = "smtp"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	DatabaseURL string
	JWTSecret   string
	JWTTTL      time.Duration
	CORSOrigins []string
	Notify      NotifyConfig
	Kafka       KafkaConfig
	Mail        MailConfig
}

type NotifyConfig struct {
	Driver       string
	Workers      int
	QueueSize    int
	MaxAttempts  int
	RetryBackoff time.Duration
}

type KafkaConfig struct {
	Brokers  []string
	Topic    string
	DLQTopic string
	GroupID  string
}

type MailConfig struct {
	Driver   string
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env not loaded: %v", err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.CORSOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))

	var err error
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL); err != nil {
		return nil, err
	}

	cfg.Notify.Driver = strings.ToLower(strings.TrimSpace(getEnv("NOTIFY_DRIVER", defaultNotifyDriver)))
	if cfg.Notify.Workers, err = parseIntEnv("NOTIFY_WORKERS", defaultNotifyWorkers); err != nil {
		return nil, err
	}
	if cfg.Notify.QueueSize, err = parseIntEnv("NOTIFY_QUEUE_SIZE", defaultNotifyQueueSize); err != nil {
		return nil, err
	}
	if cfg.Notify.MaxAttempts, err = parseIntEnv("NOTIFY_MAX_ATTEMPTS", defaultNotifyMaxAttempts); err != nil {
		return nil, err
	}
	if cfg.Notify.RetryBackoff, err = parseDurationEnv("NOTIFY_RETRY_BACKOFF", defaultNotifyBackoff); err != nil {
		return nil, err
	}

	cfg.Kafka.Brokers = splitList(os.Getenv("KAFKA_BROKERS"))
	cfg.Kafka.Topic = strings.TrimSpace(getEnv("KAFKA_TOPIC", defaultKafkaTopic))
	cfg.Kafka.DLQTopic = strings.TrimSpace(os.Getenv("KAFKA_DLQ_TOPIC"))
	cfg.Kafka.GroupID = strings.TrimSpace(getEnv("KAFKA_GROUP_ID", defaultKafkaGroupID))

	cfg.Mail.Driver = strings.ToLower(strings.TrimSpace(getEnv("MAIL_DRIVER", defaultMailDriver)))
	cfg.Mail.Host = strings.TrimSpace(os.Getenv("SMTP_HOST"))
	if cfg.Mail.Port, err = parseIntEnv("SMTP_PORT", defaultSMTPPort); err != nil {
		return nil, err
	}
	cfg.Mail.Username = os.Getenv("SMTP_USERNAME")
	cfg.Mail.Password = os.Getenv("SMTP_PASSWORD")
	cfg.Mail.From = strings.TrimSpace(getEnv("MAIL_FROM", defaultMailFrom))

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	log.Printf("config loaded: env=%s addr=%s notify=%s mail=%s", cfg.AppEnv, cfg.HTTPAddr, cfg.Notify.Driver, cfg.Mail.Driver)

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.Notify.Workers <= 0 {
		return fmt.Errorf("NOTIFY_WORKERS must be > 0")
	}
	if cfg.Notify.QueueSize <= 0 {
		return fmt.Errorf("NOTIFY_QUEUE_SIZE must be > 0")
	}
	if cfg.Notify.MaxAttempts <= 0 {
		return fmt.Errorf("NOTIFY_MAX_ATTEMPTS must be > 0")
	}
	if cfg.Notify.RetryBackoff <= 0 {
		return fmt.Errorf("NOTIFY_RETRY_BACKOFF must be > 0")
	}

	switch cfg.Notify.Driver {
	case DriverMemory:
	case DriverKafka:
		if len(cfg.Kafka.Brokers) == 0 {
			return fmt.Errorf("KAFKA_BROKERS must be set when NOTIFY_DRIVER=kafka")
		}
		if cfg.Kafka.Topic == "" {
			return fmt.Errorf("KAFKA_TOPIC must not be empty")
		}
	default:
		return fmt.Errorf("NOTIFY_DRIVER must be one of: memory, kafka")
	}

	switch cfg.Mail.Driver {
	case MailConsole:
	case MailSMTP:
		if cfg.Mail.Host == "" {
			return fmt.Errorf("SMTP_HOST must be set when MAIL_DRIVER=smtp")
		}
	default:
		return fmt.Errorf("MAIL_DRIVER must be one of: console, smtp")
	}
	if cfg.Mail.From == "" {
		return fmt.Errorf("MAIL_FROM must not be empty")
	}

	if isProdLike(cfg.AppEnv) && isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
