package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "127.0.0.1:6379", cfg.RedisAddr)
	assert.Equal(t, 3, cfg.TopOffersLimit)
	assert.Equal(t, "http://localhost:3000", cfg.AppURL)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("TOP_OFFERS_LIMIT", "5")
	t.Setenv("SWEEP_SECRET", "s3cret")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.TopOffersLimit)
	assert.Equal(t, "s3cret", cfg.SweepSecret)
}

func TestLoad_MailSettings(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_FROM", "noreply@example.com")
	t.Setenv("MAIL_PROVIDER", "plunk")
	t.Setenv("PLUNK_API_KEY", "pk_test")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com", cfg.SMTPHost)
	assert.Equal(t, "noreply@example.com", cfg.SMTPFrom)
	assert.Equal(t, "plunk", cfg.MailProvider)
	assert.Equal(t, "pk_test", cfg.PlunkAPIKey)
	assert.Equal(t, "https://api.useplunk.com/v1/send", cfg.PlunkAPIURL)
}
