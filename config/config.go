package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the server needs at startup. Handlers
// receive it explicitly; nothing reads the environment after Load.
type Config struct {
	Port string
	Env  string

	DatabaseURL string

	JWTSecret    string
	JWTExpiry    time.Duration
	CookieSecure bool

	UploadDir string

	AuthRateLimit  int
	AuthRateWindow time.Duration

	FrontendURL string
	AdminURL    string

	AdminEmail    string
	AdminPassword string

	LogLevel string
}

// Load reads the optional .env file and builds the Config from the
// environment. A missing .env is fine; on production the variables are
// set directly.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("APP_ENV", "development"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTExpiry:      getEnvAsDuration("JWT_EXPIRY", 7*24*time.Hour),
		CookieSecure:   getEnvAsBool("COOKIE_SECURE", false),
		UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
		AuthRateLimit:  getEnvAsInt("AUTH_RATE_LIMIT", 10),
		AuthRateWindow: getEnvAsDuration("AUTH_RATE_WINDOW", time.Minute),
		FrontendURL:    os.Getenv("FRONTEND_URL"),
		AdminURL:       os.Getenv("ADMIN_URL"),
		AdminEmail:     getEnv("ADMIN_EMAIL", "admin@shopora.com"),
		AdminPassword:  getEnv("ADMIN_PASSWORD", "admin123"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the variables the application cannot function without.
func (c *Config) Validate() error {
	var missing []string
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("critical environment variables not set: %v", missing)
	}
	return nil
}

// CORSOrigins returns the configured frontend origins, dropping empties.
func (c *Config) CORSOrigins() []string {
	var origins []string
	for _, o := range []string{c.FrontendURL, c.AdminURL} {
		if o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}
