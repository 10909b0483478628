package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds everything the service reads from the environment. Values are
// loaded once at startup; a missing DATABASE_URL or JWT_SECRET is fatal.
type Config struct {
	Port        string
	Env         string
	DatabaseURL string
	JWTSecret   string

	// Auth gate: allow-listed admin emails all share SharedOrgID.
	AdminEmails []string
	SharedOrgID string

	// FX provider.
	FXProviderURL  string
	FXBaseCurrency string

	// Audit email relay.
	AuditRecipients []string
	SMTPHost        string
	SMTPPort        int
	SMTPEmail       string
	SMTPPass        string

	// Optional shared FX cache; empty disables Redis.
	RedisAddr string

	CorsOrigins []string
	LogLevel    string
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:           getenv("PORT", "8080"),
		Env:            strings.ToLower(getenv("ENV", "dev")),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      strings.TrimSpace(os.Getenv("JWT_SECRET")),
		SharedOrgID:    strings.TrimSpace(os.Getenv("SHARED_ORG_ID")),
		FXProviderURL:  getenv("FX_PROVIDER_URL", "https://open.er-api.com/v6/latest/USD"),
		FXBaseCurrency: getenv("FX_BASE_CURRENCY", "PKR"),
		SMTPHost:       os.Getenv("SMTP_HOST"),
		SMTPEmail:      os.Getenv("SMTP_EMAIL"),
		SMTPPass:       os.Getenv("SMTP_PASS"),
		RedisAddr:      strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		LogLevel:       getenv("LOG_LEVEL", "info"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	cfg.AdminEmails = splitList(os.Getenv("ADMIN_EMAILS"))
	cfg.AuditRecipients = splitList(os.Getenv("AUDIT_RECIPIENTS"))
	cfg.CorsOrigins = splitList(os.Getenv("CORS_ORIGIN"))

	if port := os.Getenv("SMTP_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT: %v", err)
		}
		cfg.SMTPPort = p
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
