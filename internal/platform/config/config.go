package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	JWTSecret string
	JWTIssuer string

	// Rate limiting for the HTTP surface, e.g. "100-M" for 100 requests per minute.
	RateLimit string

	// How long graceful shutdown waits for in-flight requests.
	ShutdownTimeout time.Duration
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
	viper.SetDefault("JWT_ISSUER", "finbooks-backend")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "finbooks-backend"
	}

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	shutdownStr := viper.GetString("SHUTDOWN_TIMEOUT")
	shutdownTimeout, err := time.ParseDuration(shutdownStr)
	if err != nil {
		shutdownTimeout = 10 * time.Second
		if shutdownStr != "" {
			log.Printf("Warning: Invalid value for SHUTDOWN_TIMEOUT ('%s'). Defaulting to %s.\n", shutdownStr, shutdownTimeout.String())
		}
	}
	cfg.ShutdownTimeout = shutdownTimeout

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	return cfg, nil
}
