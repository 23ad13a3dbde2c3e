package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// MissingPricePolicy controls what price resolution does when the
// currency price cache has no entry for a requested pair.
type MissingPricePolicy string

const (
	// MissingPriceDefaultOne treats an unknown rate as 1.
	MissingPriceDefaultOne MissingPricePolicy = "default_one"
	// MissingPriceFail fails the request with CANT_GET_PRICE.
	MissingPriceFail MissingPricePolicy = "fail"
)

// Config holds application configuration
type Config struct {
	Env      string
	LogLevel string

	// Server
	Port           string
	PipelineAPIKey string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Pricing
	DefaultBaseCurrency  string
	MissingPricePolicy   MissingPricePolicy
	CryptoQuoteAsset     string
	FCSAPIKey            string
	FCSBaseURL           string
	BinanceBaseURL       string
	PriceRateLimit       int
	PriceTimeout         time.Duration
	PriceRefreshInterval time.Duration
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		Port:           getEnv("PORT", "8080"),
		PipelineAPIKey: getEnv("PIPELINE_API_KEY", ""),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "finances"),
		DBPassword: getEnv("DB_PASSWORD", "finances"),
		DBName:     getEnv("DB_NAME", "finances"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		DefaultBaseCurrency: strings.ToUpper(getEnv("DEFAULT_BASE_CURRENCY", "USD")),
		CryptoQuoteAsset:    strings.ToUpper(getEnv("CRYPTO_QUOTE_ASSET", "USDT")),
		FCSAPIKey:           getEnv("FCS_API_KEY", ""),
		FCSBaseURL:          getEnv("FCS_BASE_URL", "https://fcsapi.com/api-v3"),
		BinanceBaseURL:      getEnv("BINANCE_BASE_URL", "https://api.binance.com"),
	}

	config.JWTExpirationDur = getDuration("JWT_EXPIRES_IN", 24*time.Hour)
	config.PriceTimeout = getDuration("PRICE_TIMEOUT", 10*time.Second)
	config.PriceRefreshInterval = getDuration("PRICE_REFRESH_INTERVAL", 0)

	rateLimit, err := strconv.Atoi(getEnv("PRICE_RATE_LIMIT", "5"))
	if err != nil || rateLimit <= 0 {
		log.Printf("Warning: invalid PRICE_RATE_LIMIT, falling back to 5\n")
		rateLimit = 5
	}
	config.PriceRateLimit = rateLimit

	switch policy := MissingPricePolicy(getEnv("MISSING_PRICE_POLICY", string(MissingPriceDefaultOne))); policy {
	case MissingPriceDefaultOne, MissingPriceFail:
		config.MissingPricePolicy = policy
	default:
		log.Printf("Warning: invalid MISSING_PRICE_POLICY value '%s', falling back to %s\n", policy, MissingPriceDefaultOne)
		config.MissingPricePolicy = MissingPriceDefaultOne
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}
