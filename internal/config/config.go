// Package config loads server configuration from the environment, after
// merging any .env file found in the working directory.
package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP server
	Port      string
	PublicURL string

	// Database
	DBDriver string
	DBDSN    string

	// Sessions
	JWTSecret string
	JWTTTL    time.Duration

	// Avatars
	AvatarDir string

	// Events. Empty AMQPURL disables publishing.
	AMQPURL      string
	AMQPExchange string

	// Currency rate lookup
	RateURL string
	RateTTL time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads .env files (default ".env"; missing files are ignored) and then
// the environment. Variables already set in the environment win.
func Load(files ...string) *Config {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}

	port := getEnv("PORT", "8080")
	return &Config{
		Port:      port,
		PublicURL: getEnv("PUBLIC_URL", "http://localhost:"+port),

		DBDriver: getEnv("DB_DRIVER", "sqlite"),
		DBDSN:    getEnv("DB_DSN", "./data/moneytravel.db"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTTTL:    getEnvDuration("JWT_TTL", 24*time.Hour),

		AvatarDir: getEnv("AVATAR_DIR", "./data/avatars"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "moneytravel"),

		RateURL: getEnv("RATE_URL", "https://economia.awesomeapi.com.br/json/last"),
		RateTTL: getEnvDuration("RATE_TTL", 10*time.Minute),

		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !validURL(c.PublicURL, "http", "https") {
		problems = append(problems, fmt.Sprintf("invalid public URL '%s'", c.PublicURL))
	}

	drivers := []string{"sqlite", "postgres"}
	if !slices.Contains(drivers, c.DBDriver) {
		problems = append(problems, fmt.Sprintf("invalid database driver '%s': must be one of %v", c.DBDriver, drivers))
	}
	if c.DBDSN == "" {
		problems = append(problems, "database DSN cannot be empty")
	}

	if len(c.JWTSecret) < 32 {
		problems = append(problems, "JWT_SECRET must be at least 32 characters")
	}
	if c.JWTTTL < time.Minute {
		problems = append(problems, fmt.Sprintf("invalid JWT TTL %v: must be at least 1 minute", c.JWTTTL))
	}

	if c.AvatarDir == "" {
		problems = append(problems, "avatar directory cannot be empty")
	}

	if c.AMQPURL != "" {
		if !validURL(c.AMQPURL, "amqp", "amqps") {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL '%s': scheme must be 'amqp' or 'amqps'", c.AMQPURL))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if !validURL(c.RateURL, "http", "https") {
		problems = append(problems, fmt.Sprintf("invalid rate URL '%s'", c.RateURL))
	}
	if c.RateTTL < 0 {
		problems = append(problems, fmt.Sprintf("invalid rate TTL %v: must not be negative", c.RateTTL))
	}

	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.LogLevel) {
		problems = append(problems, fmt.Sprintf("invalid log level '%s'", c.LogLevel))
	}
	if !slices.Contains([]string{"text", "json"}, c.LogFormat) {
		problems = append(problems, fmt.Sprintf("invalid log format '%s': must be text or json", c.LogFormat))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func validURL(raw string, schemes ...string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return slices.Contains(schemes, u.Scheme)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
