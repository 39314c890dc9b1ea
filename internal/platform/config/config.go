package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	RunMigrations bool
	LogLevel      string
	DBMaxConns    int32

	// Tokens are issued by the external identity provider and only verified here.
	JWTSecret       string
	JWTIssuer       string
	JWTCompanyClaim string

	RateLimit          string // ulule/limiter format, e.g. "300-M"
	RedisURL           string // optional; rate-limit store falls back to memory
	CORSAllowedOrigins []string

	InvoiceNumberMaxAttempts int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("RUN_MIGRATIONS", true)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_ISSUER", "")
	viper.SetDefault("JWT_COMPANY_CLAIM", "company_id")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("INVOICE_NUMBER_MAX_ATTEMPTS", 3)

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:              viper.GetString("PGSQL_URL"),
		Port:                     viper.GetString("PORT"),
		IsProduction:             viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:            viper.GetBool("ENABLE_DB_CHECK"),
		RunMigrations:            viper.GetBool("RUN_MIGRATIONS"),
		LogLevel:                 viper.GetString("LOG_LEVEL"),
		DBMaxConns:               viper.GetInt32("DB_MAX_CONNS"),
		JWTSecret:                viper.GetString("JWT_SECRET"),
		JWTIssuer:                viper.GetString("JWT_ISSUER"),
		JWTCompanyClaim:          viper.GetString("JWT_COMPANY_CLAIM"),
		RateLimit:                viper.GetString("RATE_LIMIT"),
		RedisURL:                 viper.GetString("REDIS_URL"),
		CORSAllowedOrigins:       splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		InvoiceNumberMaxAttempts: viper.GetInt("INVOICE_NUMBER_MAX_ATTEMPTS"),
	}

	if cfg.DatabaseURL == "" {
		log.Warn().Msg("PGSQL_URL environment variable not set.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Warn().Str("port", cfg.Port).Msg("PORT environment variable not set, using default")
	}
	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Warn().Msg("JWT_SECRET not set. Using default insecure key.")
	}
	if cfg.JWTCompanyClaim == "" {
		cfg.JWTCompanyClaim = "company_id"
	}
	if cfg.InvoiceNumberMaxAttempts < 1 {
		log.Warn().Int("value", cfg.InvoiceNumberMaxAttempts).Msg("INVOICE_NUMBER_MAX_ATTEMPTS must be at least 1, using 3")
		cfg.InvoiceNumberMaxAttempts = 3
	}
	if cfg.DBMaxConns < 1 {
		cfg.DBMaxConns = 10
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
