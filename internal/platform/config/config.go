package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the resolved configuration for the email API.
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Email    EmailConfig    `json:"email"`
	Dispatch DispatchConfig `json:"dispatch"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host      string `json:"host"`
	Port      int    `json:"port"`
	WebOrigin string `json:"webOrigin"`
	Debug     bool   `json:"debug"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Postgres PostgreSQLConfig `json:"postgres"`
}

// PostgreSQLConfig holds PostgreSQL-specific configuration. DSN, when set,
// takes precedence over the discrete fields (the deployment supplies
// DATABASE_URL the way the hosted Postgres add-ons emit it).
type PostgreSQLConfig struct {
	DSN             string        `json:"dsn"`
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	Username        string        `json:"username"`
	Password        string        `json:"password"`
	Database        string        `json:"database"`
	SSLMode         string        `json:"sslMode"`
	MaxOpenConns    int           `json:"maxOpenConns"`
	MaxIdleConns    int           `json:"maxIdleConns"`
	ConnMaxLifetime time.Duration `json:"connMaxLifetime"`
	ConnectTimeout  int           `json:"connectTimeout"`
}

// EmailConfig holds SMTP transport configuration.
type EmailConfig struct {
	SMTPHost  string `json:"smtpHost"`
	SMTPPort  int    `json:"smtpPort"`
	SMTPUser  string `json:"smtpUser"`
	SMTPPass  string `json:"smtpPass"`
	FromEmail string `json:"fromEmail"`
	FromName  string `json:"fromName"`
}

// DispatchConfig holds the delivery-engine knobs.
type DispatchConfig struct {
	Workers        int           `json:"workers"`
	MaxAttempts    int           `json:"maxAttempts"`
	RetryBackoff   time.Duration `json:"retryBackoff"`
	SendTimeout    time.Duration `json:"sendTimeout"`
	RatePerSecond  float64       `json:"ratePerSecond"`
	RequestTimeout time.Duration `json:"requestTimeout"`
}

// LoadFromEnv loads configuration from the environment.
// It follows a clear precedence:
// 1. Explicit Environment Variables (e.g., set in the shell or by CI)
// 2. Values from the .env file (if it exists)
// 3. Hardcoded defaults (if applicable)
func LoadFromEnv() (*Config, error) {
	// godotenv.Load() reads the .env file into the environment only for
	// keys that are not already set, which yields the precedence above.
	if err := godotenv.Load(".env"); err != nil {
		fmt.Println("INFO: .env file not found, using environment variables and defaults.")
	}

	config := &Config{
		Server: ServerConfig{
			Host:      getEnvOrDefault("HOST", "0.0.0.0"),
			Port:      getEnvAsInt("PORT", 8080),
			WebOrigin: getEnvOrDefault("WEB_ORIGIN", "*"),
			Debug:     getEnvAsBool("DEBUG", false),
		},
		Database: DatabaseConfig{
			Postgres: PostgreSQLConfig{
				DSN:             getEnvOrDefault("DATABASE_URL", ""),
				Host:            getEnvOrDefault("POSTGRES_HOST", "localhost"),
				Port:            getEnvAsInt("POSTGRES_PORT", 5432),
				Username:        getEnvOrDefault("POSTGRES_USERNAME", ""),
				Password:        getEnvOrDefault("POSTGRES_PASSWORD", ""),
				Database:        getEnvOrDefault("POSTGRES_DATABASE", "ireserve"),
				SSLMode:         getEnvOrDefault("POSTGRES_SSL_MODE", "disable"),
				MaxOpenConns:    getEnvAsInt("POSTGRES_MAX_OPEN_CONNS", 25),
				MaxIdleConns:    getEnvAsInt("POSTGRES_MAX_IDLE_CONNS", 25),
				ConnMaxLifetime: getEnvAsDuration("POSTGRES_CONN_MAX_LIFETIME", 5*time.Minute),
				ConnectTimeout:  getEnvAsInt("POSTGRES_CONNECT_TIMEOUT", 10),
			},
		},
		Email: EmailConfig{
			SMTPHost:  getEnvOrDefault("SMTP_SERVER", "mail.devs-central.co.za"),
			SMTPPort:  getEnvAsInt("SMTP_PORT", 465),
			SMTPUser:  getEnvOrDefault("SMTP_USER", ""),
			SMTPPass:  getEnvOrDefault("SMTP_PASS", ""),
			FromEmail: getEnvOrDefault("FROM_EMAIL", os.Getenv("SMTP_USER")),
			FromName:  getEnvOrDefault("FROM_NAME", "iReserve System"),
		},
		Dispatch: DispatchConfig{
			Workers:        getEnvAsInt("EMAIL_WORKERS", 5),
			MaxAttempts:    getEnvAsInt("EMAIL_MAX_ATTEMPTS", 3),
			RetryBackoff:   getEnvAsDuration("EMAIL_RETRY_BACKOFF", 500*time.Millisecond),
			SendTimeout:    getEnvAsDuration("EMAIL_SEND_TIMEOUT", 30*time.Second),
			RatePerSecond:  getEnvAsFloat("EMAIL_RATE_LIMIT", 10),
			RequestTimeout: getEnvAsDuration("EMAIL_REQUEST_TIMEOUT", 2*time.Minute),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate checks the loaded configuration for values the server cannot
// run without.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Email.SMTPHost) == "" {
		problems = append(problems, "SMTP_SERVER is required")
	}
	if c.Email.SMTPPort <= 0 || c.Email.SMTPPort > 65535 {
		problems = append(problems, "SMTP_PORT must be a valid port number")
	}
	if strings.TrimSpace(c.Email.FromEmail) == "" {
		problems = append(problems, "FROM_EMAIL (or SMTP_USER) is required")
	}
	if c.Dispatch.Workers < 1 {
		problems = append(problems, "EMAIL_WORKERS must be at least 1")
	}
	if c.Dispatch.MaxAttempts < 1 {
		problems = append(problems, "EMAIL_MAX_ATTEMPTS must be at least 1")
	}

	if len(problems) > 0 {
		return fmt.Errorf("validation errors: %s", strings.Join(problems, "; "))
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
