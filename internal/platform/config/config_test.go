package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"classifieds/internal/consent/models"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("SITE_ADDR", "")
	t.Setenv("CONSENT_RETENTION_DAYS", "")
	t.Setenv("CONSENT_BANNER_EXIT_DELAY", "")

	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, models.CookieName, cfg.Consent.CookieName)
	assert.Equal(t, models.RetentionDays, cfg.Consent.RetentionDays)
	assert.Equal(t, 400*time.Millisecond, cfg.Consent.BannerExitDelay)
	assert.Equal(t, 100*time.Millisecond, cfg.Consent.BannerEnterDelay)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("SITE_ADDR", ":9090")
	t.Setenv("CONSENT_RETENTION_DAYS", "30")
	t.Setenv("CONSENT_GA_MEASUREMENT_ID", "G-TEST")
	t.Setenv("REQUEST_TIMEOUT", "5s")

	cfg := FromEnv()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 30, cfg.Consent.RetentionDays)
	assert.Equal(t, "G-TEST", cfg.Consent.MeasurementID)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
}

func TestFromEnvIgnoresInvalidValues(t *testing.T) {
	t.Setenv("CONSENT_RETENTION_DAYS", "-4")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	cfg := FromEnv()

	assert.Equal(t, 395, cfg.Consent.RetentionDays)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestFromEnvContact(t *testing.T) {
	t.Run("unset relay", func(t *testing.T) {
		t.Setenv("SMTP_HOST", "")
		t.Setenv("SMTP_PORT", "")

		cfg := FromEnv()

		assert.Empty(t, cfg.Contact.SMTPHost)
		assert.Equal(t, 587, cfg.Contact.SMTPPort)
	})

	t.Run("configured relay", func(t *testing.T) {
		t.Setenv("SMTP_HOST", "smtp.example.com")
		t.Setenv("SMTP_PORT", "2525")
		t.Setenv("SMTP_USER", "site@example.com")
		t.Setenv("SMTP_PASSWORD", "secret")
		t.Setenv("CONTACT_EMAIL", "owner@example.com")

		cfg := FromEnv()

		assert.Equal(t, Contact{
			SMTPHost:     "smtp.example.com",
			SMTPPort:     2525,
			SMTPUser:     "site@example.com",
			SMTPPassword: "secret",
			Recipient:    "owner@example.com",
		}, cfg.Contact)
	})
}
