package app

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/walleto/walleto/pkg/cryptox"
	"github.com/walleto/walleto/pkg/jwtx"
)

// Config carries everything the process needs, sourced from the environment
// with an optional .env file for local development.
type Config struct {
	Port         string
	DatabaseFile string
	PepperFile   string

	// BaseURL is the public origin used in emailed links.
	BaseURL string

	JWTSecret []byte
	Issuer    string
	TokenTTL  time.Duration

	// Mailer selects the delivery backend: "smtp" or "log".
	Mailer       string
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	Env       string
	LogLevel  string
	LogFormat string

	ShutdownGracePeriod  time.Duration
	HousekeepingInterval time.Duration
}

// LoadConfig reads configuration from the environment. A .env file in the
// working directory is loaded first when present.
func LoadConfig() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:         getEnvOrDefault("PORT", "8080"),
		DatabaseFile: getEnvOrDefault("DATABASE_FILE", "walleto.db"),
		PepperFile:   getEnvOrDefault("PEPPER_FILE", "pepper.key"),
		BaseURL:      getEnvOrDefault("BASE_URL", "http://localhost:8080"),
		Issuer:       getEnvOrDefault("JWT_ISSUER", "walleto"),
		TokenTTL:     getEnvHours("JWT_TTL_HOURS", jwtx.DefaultAccessTokenTTL),
		Mailer:       getEnvOrDefault("MAILER", "log"),
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvOrDefault("SMTP_PORT", "587"),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     getEnvOrDefault("SMTP_FROM", "no-reply@localhost"),
		Env:          getEnvOrDefault("ENV", "dev"),
		LogLevel:     getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:    getEnvOrDefault("LOG_FORMAT", "json"),

		ShutdownGracePeriod:  getEnvDuration("SHUTDOWN_GRACE_PERIOD_SEC", 10*time.Second),
		HousekeepingInterval: getEnvDuration("HOUSEKEEPING_INTERVAL_SEC", time.Hour),
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWTSecret = []byte(secret)
	} else {
		// Ephemeral secret: fine for development, every restart invalidates
		// all issued credentials.
		slog.Warn("JWT_SECRET not set, generating ephemeral signing secret")
		cfg.JWTSecret = []byte(cryptox.MustGenerateToken(cryptox.TokenSize256))
	}

	return cfg
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvHours(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	hours, err := strconv.Atoi(v)
	if err != nil || hours <= 0 {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", v)
		return def
	}
	return time.Duration(hours) * time.Hour
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	sec, err := strconv.Atoi(v)
	if err != nil || sec <= 0 {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", v)
		return def
	}
	return time.Duration(sec) * time.Second
}
