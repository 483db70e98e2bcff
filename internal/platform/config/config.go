package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"classifieds/internal/consent/models"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	Environment     string
	LogLevel        string
	DefaultLocale   string
	CatalogPath     string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	Consent         Consent
	Contact         Contact
}

// Consent captures cookie consent behavior. The banner delays drive the controller's
// scheduler; server-rendered pages use an immediate scheduler, so they only take effect
// when a timed scheduler is configured.
type Consent struct {
	CookieName       string
	RetentionDays    int
	MeasurementID    string
	BannerEnterDelay time.Duration
	BannerExitDelay  time.Duration
}

// Contact captures the outgoing mail relay of the contact form. An empty SMTPHost
// leaves messages in the log only.
type Contact struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	Recipient    string
}

// FromEnv builds a Server config from environment variables so main stays lean.
// A .env file in the working directory is loaded first when present; real environment
// variables win over it.
func FromEnv() Server {
	_ = godotenv.Load()

	return Server{
		Addr:            getString("SITE_ADDR", ":8080"),
		Environment:     getString("SITE_ENV", "development"),
		LogLevel:        getString("LOG_LEVEL", "info"),
		DefaultLocale:   getString("DEFAULT_LOCALE", "fr"),
		CatalogPath:     os.Getenv("LISTINGS_CATALOG"),
		RequestTimeout:  getDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		Consent: Consent{
			CookieName:       getString("CONSENT_COOKIE_NAME", models.CookieName),
			RetentionDays:    getInt("CONSENT_RETENTION_DAYS", models.RetentionDays),
			MeasurementID:    getString("CONSENT_GA_MEASUREMENT_ID", "GA_MEASUREMENT_ID"),
			BannerEnterDelay: getDuration("CONSENT_BANNER_ENTER_DELAY", 100*time.Millisecond),
			BannerExitDelay:  getDuration("CONSENT_BANNER_EXIT_DELAY", 400*time.Millisecond),
		},
		Contact: Contact{
			SMTPHost:     os.Getenv("SMTP_HOST"),
			SMTPPort:     getInt("SMTP_PORT", 587),
			SMTPUser:     os.Getenv("SMTP_USER"),
			SMTPPassword: os.Getenv("SMTP_PASSWORD"),
			Recipient:    os.Getenv("CONTACT_EMAIL"),
		},
	}
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
