package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, DriverMemory, cfg.Notify.Driver)
	assert.Equal(t, 3, cfg.Notify.MaxAttempts)
	assert.Equal(t, MailConsole, cfg.Mail.Driver)
	assert.Equal(t, "noreply@travelapp.com", cfg.Mail.From)
}

func TestFromEnv_KafkaRequiresBrokers(t *testing.T) {
	t.Setenv("NOTIFY_DRIVER", "kafka")
	_, err := FromEnv()
	assert.Error(t, err)

	t.Setenv("KAFKA_BROKERS", "localhost:9092, broker2:9092")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{"localhost:9092", "broker2:9092"}, cfg.Kafka.Brokers)
}

func TestFromEnv_ProdRejectsDefaultSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	_, err := FromEnv()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "a-real-secret")
	_, err = FromEnv()
	assert.NoError(t, err)
}

func TestFromEnv_InvalidValues(t *testing.T) {
	t.Setenv("JWT_TTL", "soon")
	_, err := FromEnv()
	assert.Error(t, err)
}

func TestFromEnv_SMTPRequiresHost(t *testing.T) {
	t.Setenv("MAIL_DRIVER", "smtp")
	_, err := FromEnv()
	assert.Error(t, err)

	t.Setenv("SMTP_HOST", "smtp.example.com")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 587, cfg.Mail.Port)
}
