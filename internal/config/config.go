package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"mockprep/interview/internal/utils"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Port     string
	LogLevel string

	// AI provider, its own credentials are read by the provider package
	Provider        string
	ProviderTimeout time.Duration

	StoreBackend       string
	MongoURI           string
	MongoDBName        string
	SessionsCollection string
	Postgres           PostgresConfig

	// empty means in-process locking and no completion events
	RedisAddr      string
	RedisPassword  string
	SessionLockTTL time.Duration

	JWTSecret          string
	CORSAllowedOrigins []string
	RateLimitPerMinute int

	TotalMainQuestions int
	MaxFollowUps       int

	Retry RetryConfig
}

type PostgresConfig struct {
	Host     string
	User     string
	Password string
	DB       string
	Port     string
	SSLMode  string
	// how long startup keeps retrying the first connection
	ConnectTimeout time.Duration
}

func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		p.Host, p.User, p.Password, p.DB, p.Port, p.SSLMode)
}

type RetryConfig struct {
	Enabled     bool
	Schedule    string
	BatchSize   int
	Concurrency int
}

// LoadEnvFile loads a .env file if one exists. Variables already set in the
// environment win.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

// loads configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		Port:            getEnvOrDefault("PORT", "8080"),
		LogLevel:        getEnvOrDefault("LOG_LEVEL", "info"),
		Provider:        getEnvOrDefault("AI_PROVIDER", "gemini"),
		ProviderTimeout: getEnvDuration("PROVIDER_TIMEOUT", 30*time.Second),

		StoreBackend:       strings.ToLower(getEnvOrDefault("STORE_BACKEND", StoreMongo)),
		MongoURI:           os.Getenv("MONGO_URI"),
		MongoDBName:        getEnvOrDefault("MONGO_DB_NAME", "mockprep"),
		SessionsCollection: getEnvOrDefault("SESSIONS_COLLECTION", "interview_sessions"),
		Postgres: PostgresConfig{
			Host:           getEnvOrDefault("POSTGRES_HOST", "localhost"),
			User:           getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password:       getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
			DB:             getEnvOrDefault("POSTGRES_DB", "postgres"),
			Port:           getEnvOrDefault("POSTGRES_PORT", "5432"),
			SSLMode:        getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
			ConnectTimeout: getEnvDuration("DB_CONNECT_TIMEOUT", 30*time.Second),
		},

		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		SessionLockTTL: getEnvDuration("SESSION_LOCK_TTL", 2*time.Minute),

		JWTSecret:          os.Getenv("JWT_SECRET"),
		CORSAllowedOrigins: utils.SplitCSV(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 30),

		TotalMainQuestions: getEnvInt("TOTAL_MAIN_QUESTIONS", 3),
		MaxFollowUps:       getEnvInt("MAX_FOLLOW_UPS", 2),

		Retry: RetryConfig{
			Enabled:     getEnvBool("EVALUATION_RETRY_ENABLED", true),
			Schedule:    getEnvOrDefault("EVALUATION_RETRY_SCHEDULE", "*/5 * * * *"),
			BatchSize:   getEnvInt("EVALUATION_RETRY_BATCH", 20),
			Concurrency: getEnvInt("EVALUATION_RETRY_CONCURRENCY", 4),
		},
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateConfig(config *Config) error {
	var errs []error

	if config.Provider != "gemini" && config.Provider != "openai" {
		errs = append(errs, errors.New("unsupported AI provider: "+config.Provider+". Currently supported: gemini, openai"))
	}
	switch config.StoreBackend {
	case StoreMongo:
		if config.MongoURI == "" {
			errs = append(errs, errors.New("MONGO_URI is required when STORE_BACKEND=mongo"))
		}
	case StorePostgres, StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("unsupported STORE_BACKEND %q", config.StoreBackend))
	}
	if config.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if config.TotalMainQuestions < 1 {
		errs = append(errs, errors.New("TOTAL_MAIN_QUESTIONS must be at least 1"))
	}
	if config.MaxFollowUps < 0 {
		errs = append(errs, errors.New("MAX_FOLLOW_UPS must not be negative"))
	}
	if config.ProviderTimeout <= 0 {
		errs = append(errs, errors.New("PROVIDER_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
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
