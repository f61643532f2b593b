package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	// Refresh Token Config
	RefreshTokenExpiryDuration time.Duration
	RefreshTokenCookieName     string
	RefreshTokenCookiePath     string `mapstructure:"REFRESH_TOKEN_COOKIE_PATH"`
	RefreshTokenSecret         string

	// Exchange rate provider
	RatesAPIBaseURL     string        `mapstructure:"RATES_API_BASE_URL"`
	RatesAPIKey         string        `mapstructure:"RATES_API_KEY"`
	RatesAPITimeout     time.Duration `mapstructure:"RATES_API_TIMEOUT"`
	DefaultBaseCurrency string        `mapstructure:"DEFAULT_BASE_CURRENCY"`

	// Cache TTLs per data class. Latest and pair rates move constantly, currency
	// metadata and historical closes barely change.
	LatestRatesTTL    time.Duration `mapstructure:"LATEST_RATES_TTL"`
	CurrencyListTTL   time.Duration `mapstructure:"CURRENCY_LIST_TTL"`
	HistoricalRateTTL time.Duration `mapstructure:"HISTORICAL_RATE_TTL"`
	TimeSeriesTTL     time.Duration `mapstructure:"TIME_SERIES_TTL"`
	PairRateTTL       time.Duration `mapstructure:"PAIR_RATE_TTL"`

	// Cache backend: "memory" or "redis"
	CacheBackend string `mapstructure:"CACHE_BACKEND"`
	RedisURL     string `mapstructure:"REDIS_URL"`

	// Where fired rate alerts are delivered. Empty means log-only.
	AlertWebhookURL string `mapstructure:"ALERT_WEBHOOK_URL"`

	// External OAuth Providers
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`
	FrontendBaseURL    string `mapstructure:"FRONTEND_BASE_URL"`

	// Analytics
	PosthogAPIKey string `mapstructure:"POSTHOG_API_KEY"`

	// Rate limit for auth endpoints, in ulule/limiter format (e.g., "10-M")
	AuthRateLimit string `mapstructure:"AUTH_RATE_LIMIT"`
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "subtrack")
	viper.SetDefault("REFRESH_TOKEN_EXPIRY_DURATION", "168h")
	viper.SetDefault("REFRESH_TOKEN_COOKIE_NAME", "rtid")
	viper.SetDefault("REFRESH_TOKEN_COOKIE_PATH", "/api/v1/auth")
	viper.SetDefault("REFRESH_TOKEN_SECRET", "default_insecure_refresh_secret_please_change_this_!@#$")
	viper.SetDefault("RATES_API_BASE_URL", "https://v6.exchangerate-api.com/v6")
	viper.SetDefault("RATES_API_KEY", "")
	viper.SetDefault("RATES_API_TIMEOUT", "10s")
	viper.SetDefault("DEFAULT_BASE_CURRENCY", "USD")
	viper.SetDefault("LATEST_RATES_TTL", "5m")
	viper.SetDefault("CURRENCY_LIST_TTL", "1h")
	viper.SetDefault("HISTORICAL_RATE_TTL", "168h")
	viper.SetDefault("TIME_SERIES_TTL", "24h")
	viper.SetDefault("PAIR_RATE_TTL", "5m")
	viper.SetDefault("CACHE_BACKEND", "memory")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("ALERT_WEBHOOK_URL", "")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("AUTH_RATE_LIMIT", "10-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTExpiryDuration = durationFromEnv("JWT_EXPIRY_DURATION", time.Hour)
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.RefreshTokenExpiryDuration = durationFromEnv("REFRESH_TOKEN_EXPIRY_DURATION", 7*24*time.Hour)
	cfg.RefreshTokenCookieName = viper.GetString("REFRESH_TOKEN_COOKIE_NAME")
	cfg.RefreshTokenCookiePath = viper.GetString("REFRESH_TOKEN_COOKIE_PATH")
	cfg.RefreshTokenSecret = viper.GetString("REFRESH_TOKEN_SECRET")
	if cfg.RefreshTokenSecret == "default_insecure_refresh_secret_please_change_this_!@#$" {
		log.Println("Warning: REFRESH_TOKEN_SECRET is not set, using default insecure secret. THIS IS NOT FOR PRODUCTION.")
	}

	cfg.RatesAPIBaseURL = viper.GetString("RATES_API_BASE_URL")
	cfg.RatesAPIKey = viper.GetString("RATES_API_KEY")
	if cfg.RatesAPIKey == "" {
		log.Println("Warning: RATES_API_KEY not set. The rate provider may reject or throttle requests.")
	}
	cfg.RatesAPITimeout = durationFromEnv("RATES_API_TIMEOUT", 10*time.Second)
	cfg.DefaultBaseCurrency = viper.GetString("DEFAULT_BASE_CURRENCY")

	cfg.LatestRatesTTL = durationFromEnv("LATEST_RATES_TTL", 5*time.Minute)
	cfg.CurrencyListTTL = durationFromEnv("CURRENCY_LIST_TTL", time.Hour)
	cfg.HistoricalRateTTL = durationFromEnv("HISTORICAL_RATE_TTL", 7*24*time.Hour)
	cfg.TimeSeriesTTL = durationFromEnv("TIME_SERIES_TTL", 24*time.Hour)
	cfg.PairRateTTL = durationFromEnv("PAIR_RATE_TTL", 5*time.Minute)

	cfg.CacheBackend = viper.GetString("CACHE_BACKEND")
	cfg.RedisURL = viper.GetString("REDIS_URL")
	if cfg.CacheBackend == "redis" && cfg.RedisURL == "" {
		log.Println("Warning: CACHE_BACKEND is redis but REDIS_URL is not set. Falling back to in-memory cache.")
		cfg.CacheBackend = "memory"
	}
	cfg.AlertWebhookURL = viper.GetString("ALERT_WEBHOOK_URL")

	cfg.GoogleClientID = viper.GetString("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = viper.GetString("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = viper.GetString("GOOGLE_REDIRECT_URL")
	cfg.FrontendBaseURL = viper.GetString("FRONTEND_BASE_URL")

	if cfg.GoogleClientID == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID not set. Google OAuth will not function.")
	}
	if cfg.GoogleClientSecret == "" {
		log.Println("Warning: GOOGLE_CLIENT_SECRET not set. Google OAuth will not function.")
	}
	if cfg.GoogleRedirectURL == "" {
		log.Println("Warning: GOOGLE_REDIRECT_URL not set. Google OAuth will not function.")
	}

	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.AuthRateLimit = viper.GetString("AUTH_RATE_LIMIT")

	return cfg, nil
}

// durationFromEnv parses the duration under key, logging and falling back when unset or invalid.
func durationFromEnv(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		}
		return fallback
	}
	return d
}
