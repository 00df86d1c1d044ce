package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool

	// VTEX platform access
	VtexAccount     string
	VtexEnvironment string
	VtexAuthToken   string

	// Base URLs; derived from account/environment when not set explicitly.
	GiftCardBaseURL   string
	MasterdataBaseURL string

	HTTPClientTimeout time.Duration

	// Rate limiting, e.g. "100-M" for 100 requests per minute.
	RateLimit string

	PosthogAPIKey string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("VTEX_ACCOUNT", "")
	viper.SetDefault("VTEX_ENVIRONMENT", "vtexcommercestable")
	viper.SetDefault("VTEX_AUTH_TOKEN", "")
	viper.SetDefault("GIFTCARD_BASE_URL", "")
	viper.SetDefault("MASTERDATA_BASE_URL", "")
	viper.SetDefault("HTTP_CLIENT_TIMEOUT", "15s")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("POSTHOG_API_KEY", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.VtexAccount = viper.GetString("VTEX_ACCOUNT")
	cfg.VtexEnvironment = viper.GetString("VTEX_ENVIRONMENT")
	cfg.VtexAuthToken = viper.GetString("VTEX_AUTH_TOKEN")
	if cfg.VtexAuthToken == "" {
		log.Println("Warning: VTEX_AUTH_TOKEN not set. Platform API calls will be rejected.")
	}

	cfg.GiftCardBaseURL = viper.GetString("GIFTCARD_BASE_URL")
	cfg.MasterdataBaseURL = viper.GetString("MASTERDATA_BASE_URL")
	if cfg.GiftCardBaseURL == "" || cfg.MasterdataBaseURL == "" {
		if cfg.VtexAccount == "" {
			return nil, fmt.Errorf("VTEX_ACCOUNT must be set when GIFTCARD_BASE_URL or MASTERDATA_BASE_URL is not provided")
		}
		platformURL := fmt.Sprintf("https://%s.%s.com.br", cfg.VtexAccount, cfg.VtexEnvironment)
		if cfg.GiftCardBaseURL == "" {
			cfg.GiftCardBaseURL = platformURL
		}
		if cfg.MasterdataBaseURL == "" {
			cfg.MasterdataBaseURL = platformURL
		}
	}

	timeoutStr := viper.GetString("HTTP_CLIENT_TIMEOUT")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		timeout = 15 * time.Second
		if timeoutStr != "" {
			log.Printf("Warning: Invalid value for HTTP_CLIENT_TIMEOUT ('%s'). Defaulting to %s.\n", timeoutStr, timeout)
		}
	}
	cfg.HTTPClientTimeout = timeout

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")

	return cfg, nil
}
