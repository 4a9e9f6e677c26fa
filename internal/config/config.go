package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	// Supabase
	SupabaseURL            string
	SupabasePublishableKey string
	SupabaseStorageBucket  string

	// Staff sessions
	SessionSecret string
	SessionCookie string

	// Stripe
	StripeSecretKey     string
	StripeWebhookSecret string

	// LLM chat
	LLMAPIKey     string
	LLMAPIBaseURL string
	LLMModel      string

	// Voice / calling
	VoiceAPIBaseURL string
	VoiceAccountSID string
	VoiceAuthToken  string
	VoiceFromNumber string
	OfficePhone     string

	// QR generation
	QRAPIBaseURL string

	// Database
	DatabaseURL string

	// Server
	Port        string
	Environment string
	BaseURL     string
}

func Load() (*Config, error) {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load(".env")

	cfg := &Config{
		SupabaseURL:            getEnv("SUPABASE_URL", ""),
		SupabasePublishableKey: getEnv("SUPABASE_PUBLISHABLE_KEY", ""),
		SupabaseStorageBucket:  getEnv("SUPABASE_STORAGE_BUCKET", "quote-documents"),

		SessionSecret: getEnv("SESSION_SECRET", ""),
		SessionCookie: getEnv("SESSION_COOKIE", "admin_session"),

		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),

		LLMAPIKey:     getEnv("LLM_API_KEY", ""),
		LLMAPIBaseURL: getEnv("LLM_API_BASE_URL", "https://api.openai.com/v1/"),
		LLMModel:      getEnv("LLM_MODEL", "gpt-4o-mini"),

		VoiceAPIBaseURL: getEnv("VOICE_API_BASE_URL", "https://api.twilio.com/2010-04-01/"),
		VoiceAccountSID: getEnv("VOICE_ACCOUNT_SID", ""),
		VoiceAuthToken:  getEnv("VOICE_AUTH_TOKEN", ""),
		VoiceFromNumber: getEnv("VOICE_FROM_NUMBER", ""),
		OfficePhone:     getEnv("OFFICE_PHONE", ""),

		QRAPIBaseURL: getEnv("QR_API_BASE_URL", "https://api.qrserver.com/v1/"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabasePublishableKey == "" {
		return fmt.Errorf("SUPABASE_PUBLISHABLE_KEY is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
