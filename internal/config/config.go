// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Auth        AuthConfig
	Storefront  StorefrontConfig
	CORS        CORSConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

// AuthConfig covers verification of tokens issued by the external identity
// provider. This service never mints tokens itself.
type AuthConfig struct {
	JWTSecret string
	Issuer    string
}

type StorefrontConfig struct {
	PageSize         int
	PlaceholderImage string
	AssetOrigin      string
	DefaultSizes     []string
	DefaultCategory  string
	CartMirrorPath   string
	CartMirrorKey    string
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "proomtb_store"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "silent"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("AUTH_JWT_SECRET", "your-secret-key-change-in-production"),
			Issuer:    getEnv("AUTH_ISSUER", ""),
		},
		Storefront: StorefrontConfig{
			PageSize:         getEnvAsInt("STOREFRONT_PAGE_SIZE", 9),
			PlaceholderImage: getEnv("STOREFRONT_PLACEHOLDER_IMAGE", "/images/placeholder.jpg"),
			AssetOrigin:      getEnv("STOREFRONT_ASSET_ORIGIN", "http://localhost:8080"),
			DefaultSizes:     getEnvAsSlice("STOREFRONT_DEFAULT_SIZES", []string{"S", "M", "L", "XL"}),
			DefaultCategory:  getEnv("STOREFRONT_DEFAULT_CATEGORY", "accessories"),
			CartMirrorPath:   getEnv("CART_MIRROR_PATH", ""),
			CartMirrorKey:    getEnv("CART_MIRROR_KEY", "storefront-cart"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "your-secret-key-change-in-production" && c.Environment == "production" {
		return fmt.Errorf("auth JWT secret must be changed in production")
	}

	if c.Database.Password == "" && c.Environment == "production" {
		return fmt.Errorf("database password is required in production")
	}

	if c.Storefront.PageSize < 1 {
		return fmt.Errorf("storefront page size must be at least 1")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
