package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Session configuration
	Session SessionConfig

	// Security configuration
	Security SecurityConfig

	// CORS configuration
	CORS CORSConfig

	// Redis list cache configuration
	Redis RedisConfig

	// Business policy toggles
	Policy PolicyConfig

	// Seed data configuration
	Seed SeedConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	URL                string
	Driver             string // "postgres" (lib/pq) or "pgx"
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
	AutoMigrate        bool
}

// SessionConfig holds session cookie and token configuration
type SessionConfig struct {
	Secret          string
	Expiry          time.Duration
	CookieName      string
	CookieSecure    bool
	CookieDomain    string
	CleanupSchedule string // cron spec with seconds field
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	BcryptCost     int
	PasswordPepper string
	EnableAuditLog bool
	AuditRetention time.Duration
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// RedisConfig holds the optional list cache configuration
type RedisConfig struct {
	URL      string // empty disables the cache
	CacheTTL time.Duration
}

// PolicyConfig holds booking and moderation rules that are deployment choices
type PolicyConfig struct {
	BookingRequireOfferedService bool
	BookingRejectPastDates       bool
	ModerationAllowRetransition  bool
}

// SeedConfig holds seed data configuration
type SeedConfig struct {
	OnStart       bool
	AdminUsername string
	AdminPassword string
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	environment := getEnv("ENVIRONMENT", "development")
	production := environment == "production"

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: environment,
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			Driver:             getEnv("DATABASE_DRIVER", "postgres"),
			MaxConnections:     getEnvAsInt("DATABASE_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    time.Duration(getEnvAsInt("DATABASE_CONN_MAX_LIFETIME", 300)) * time.Second,
			AutoMigrate:        getEnvAsBool("DATABASE_AUTO_MIGRATE", true),
		},
		Session: SessionConfig{
			Secret:          getEnv("SESSION_SECRET", ""),
			Expiry:          time.Duration(getEnvAsInt("SESSION_EXPIRY", 604800)) * time.Second,
			CookieName:      getEnv("SESSION_COOKIE_NAME", "servinear_sid"),
			CookieSecure:    getEnvAsBool("SESSION_COOKIE_SECURE", production),
			CookieDomain:    getEnv("SESSION_COOKIE_DOMAIN", ""),
			CleanupSchedule: getEnv("SESSION_CLEANUP_SCHEDULE", "0 0 * * * *"),
		},
		Security: SecurityConfig{
			BcryptCost:     getEnvAsInt("BCRYPT_COST", 12),
			PasswordPepper: getEnv("PASSWORD_PEPPER", ""),
			EnableAuditLog: getEnvAsBool("ENABLE_AUDIT_LOGGING", true),
			AuditRetention: time.Duration(getEnvAsInt("AUDIT_RETENTION_DAYS", 90)) * 24 * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PATCH", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization"}),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			CacheTTL: time.Duration(getEnvAsInt("CACHE_TTL_SECONDS", 300)) * time.Second,
		},
		Policy: PolicyConfig{
			BookingRequireOfferedService: getEnvAsBool("BOOKING_REQUIRE_OFFERED_SERVICE", false),
			BookingRejectPastDates:       getEnvAsBool("BOOKING_REJECT_PAST_DATES", false),
			ModerationAllowRetransition:  getEnvAsBool("MODERATION_ALLOW_RETRANSITION", false),
		},
		Seed: SeedConfig{
			OnStart:       getEnvAsBool("SEED_ON_START", !production),
			AdminUsername: getEnv("SEED_ADMIN_USERNAME", "admin"),
			AdminPassword: getEnv("SEED_ADMIN_PASSWORD", ""),
		},
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Database.Driver != "postgres" && c.Database.Driver != "pgx" {
		return fmt.Errorf("invalid DATABASE_DRIVER: %s (must be 'postgres' or 'pgx')", c.Database.Driver)
	}

	if c.Session.Secret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}

	if c.Session.Expiry <= 0 {
		return fmt.Errorf("SESSION_EXPIRY must be positive")
	}

	if c.Security.BcryptCost < 4 || c.Security.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}

	if c.IsProduction() {
		if len(c.Session.Secret) < 32 {
			return fmt.Errorf("SESSION_SECRET must be at least 32 characters in production")
		}

		if c.Security.PasswordPepper == "" {
			return fmt.Errorf("PASSWORD_PEPPER is required in production")
		}

		if c.Seed.OnStart && c.Seed.AdminPassword == "" {
			return fmt.Errorf("SEED_ADMIN_PASSWORD is required when seeding in production")
		}
	}

	return nil
}

// Helper functions to get environment variables

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Invalid boolean value for %s, using default: %t", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
