package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// StoreDriver is "postgres" or "memory".
	StoreDriver string

	// JWT
	JWTSecret       string
	JWTAccessExpiry time.Duration
	JWTResetExpiry  time.Duration

	// Admin bootstrap: matching registrations start approved with admin rights.
	AdminEmails string

	// Server
	Port        string
	CORSOrigins string
	BodyLimitMB int

	// Image normalization
	ImageMaxBytes     int64
	ImageMaxPixels    int64
	ImageMaxDimension int
	ImageJPEGQuality  int
	ImageFetchTimeout time.Duration

	// Mail
	SMTPHost         string
	SMTPPort         int
	SMTPUser         string
	SMTPPassword     string
	MailFrom         string
	ExposeResetToken bool

	// Ops
	LogRetentionDays int
	SentryDSN        string
	AppEnv           string
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "wishlist"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", "postgres")),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTAccessExpiry: parseDuration(getEnv("JWT_ACCESS_EXPIRY", "24h"), 24*time.Hour),
		JWTResetExpiry:  parseDuration(getEnv("JWT_RESET_EXPIRY", "1h"), time.Hour),

		AdminEmails: getEnv("ADMIN_EMAILS", ""),

		Port:        getEnv("PORT", "3001"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		BodyLimitMB: getEnvInt("BODY_LIMIT_MB", 10),

		ImageMaxBytes:     int64(getEnvInt("IMAGE_MAX_BYTES", 10<<20)),
		ImageMaxPixels:    int64(getEnvInt("IMAGE_MAX_PIXELS", 40_000_000)),
		ImageMaxDimension: getEnvInt("IMAGE_MAX_DIMENSION", 800),
		ImageJPEGQuality:  getEnvInt("IMAGE_JPEG_QUALITY", 80),
		ImageFetchTimeout: parseDuration(getEnv("IMAGE_FETCH_TIMEOUT", "15s"), 15*time.Second),

		SMTPHost:         getEnv("SMTP_HOST", ""),
		SMTPPort:         getEnvInt("SMTP_PORT", 587),
		SMTPUser:         getEnv("SMTP_USER", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		MailFrom:         getEnv("MAIL_FROM", "no-reply@wishlist.local"),
		ExposeResetToken: getEnvBool("EXPOSE_RESET_TOKEN", false),

		LogRetentionDays: getEnvInt("LOG_RETENTION_DAYS", 30),
		SentryDSN:        getEnv("SENTRY_DSN", ""),
		AppEnv:           strings.ToLower(getEnv("APP_ENV", "production")),
	}
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable is required")
	}
	switch c.StoreDriver {
	case "postgres":
		if c.DBPassword == "" {
			return errors.New("DB_PASSWORD environment variable is required")
		}
	case "memory":
	default:
		return errors.New("STORE_DRIVER must be postgres or memory")
	}
	// A reset token in the response lets anyone who knows an email take the account.
	if c.ExposeResetToken && c.AppEnv != "development" {
		return errors.New("EXPOSE_RESET_TOKEN is only allowed with APP_ENV=development")
	}
	return nil
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// IsBootstrapAdmin reports whether email is listed in ADMIN_EMAILS.
func (c *Config) IsBootstrapAdmin(email string) bool {
	for _, e := range strings.Split(c.AdminEmails, ",") {
		if e = strings.TrimSpace(e); e != "" && strings.EqualFold(e, email) {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return b
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
