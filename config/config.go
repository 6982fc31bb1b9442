package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string

	// Database configuration
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	SQLitePath    string
	MigrationsDir string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Session configuration
	JWTSecret   string
	SessionTTL  time.Duration
	MaxSessions int

	// Rate limiting of session actions (per session, per minute)
	RateLimitPerMinute int

	// Recipe search provider
	SpoonacularAPIKey  string
	SpoonacularURL     string
	SpoonacularSiteURL string
	PageSize           int

	// Translation provider
	TranslatorURL      string
	TranslatorEmail    string
	SourceLang         string
	TargetLang         string
	TranslationTTL     time.Duration
	TranslationLRUSize int
	TitleConcurrency   int

	// Outbound HTTP
	HTTPTimeout      time.Duration
	OutboundInterval time.Duration
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := defaults()

	loadEnvConfig(cfg)

	switch env {
	case CI, Development, Test:
	case Production:
		loadProdSecrets(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := loadAPIKey(cfg); err != nil {
		return nil, fmt.Errorf("failed to load spoonacular API key: %w", err)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		ServerPort:         "8080",
		ServerHost:         "0.0.0.0",
		CORSOrigins:        []string{"http://localhost:5173"},
		DBDriver:           "sqlite",
		DBHost:             "localhost",
		DBPort:             "5432",
		DBUser:             "postgres",
		DBName:             "recetas",
		DBSSLMode:          "disable",
		SQLitePath:         "recetas.db",
		MigrationsDir:      "migrations",
		RedisHost:          "localhost",
		RedisPort:          "6379",
		JWTSecret:          DefaultJWTSecret,
		SessionTTL:         2 * time.Hour,
		MaxSessions:        10000,
		RateLimitPerMinute: 60,
		SpoonacularURL:     "https://api.spoonacular.com",
		SpoonacularSiteURL: "https://spoonacular.com",
		PageSize:           10,
		TranslatorURL:      "https://api.mymemory.translated.net/get",
		SourceLang:         "es",
		TargetLang:         "en",
		TranslationTTL:     7 * 24 * time.Hour,
		TranslationLRUSize: 2048,
		TitleConcurrency:   4,
		HTTPTimeout:        15 * time.Second,
		OutboundInterval:   100 * time.Millisecond,
	}
}

// DefaultJWTSecret is only acceptable outside production
const DefaultJWTSecret = "recetas-dev-secret"

// loadEnvConfig overlays environment variables on top of the defaults
func loadEnvConfig(cfg *Config) {
	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.ServerHost = getEnv("SERVER_HOST", cfg.ServerHost)
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = splitList(origins)
	}

	cfg.DBDriver = getEnv("DB_DRIVER", cfg.DBDriver)
	cfg.DBHost = getEnv("DB_HOST", cfg.DBHost)
	cfg.DBPort = getEnv("DB_PORT", cfg.DBPort)
	cfg.DBUser = getEnv("DB_USER", cfg.DBUser)
	cfg.DBPassword = getEnv("DB_PASSWORD", cfg.DBPassword)
	cfg.DBName = getEnv("DB_NAME", cfg.DBName)
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", cfg.DBSSLMode)
	cfg.SQLitePath = getEnv("SQLITE_PATH", cfg.SQLitePath)
	cfg.MigrationsDir = getEnv("MIGRATIONS_DIR", cfg.MigrationsDir)

	cfg.RedisHost = getEnv("REDIS_HOST", cfg.RedisHost)
	cfg.RedisPort = getEnv("REDIS_PORT", cfg.RedisPort)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = getEnvInt("REDIS_DB", cfg.RedisDB)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)

	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.SessionTTL = getEnvDuration("SESSION_TTL", cfg.SessionTTL)
	cfg.MaxSessions = getEnvInt("MAX_SESSIONS", cfg.MaxSessions)
	cfg.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", cfg.RateLimitPerMinute)

	cfg.SpoonacularAPIKey = getEnv("SPOONACULAR_API_KEY", cfg.SpoonacularAPIKey)
	cfg.SpoonacularURL = getEnv("SPOONACULAR_API_URL", cfg.SpoonacularURL)
	cfg.SpoonacularSiteURL = getEnv("SPOONACULAR_SITE_URL", cfg.SpoonacularSiteURL)
	cfg.PageSize = getEnvInt("PAGE_SIZE", cfg.PageSize)

	cfg.TranslatorURL = getEnv("TRANSLATOR_API_URL", cfg.TranslatorURL)
	cfg.TranslatorEmail = getEnv("TRANSLATOR_EMAIL", cfg.TranslatorEmail)
	cfg.SourceLang = getEnv("SOURCE_LANG", cfg.SourceLang)
	cfg.TargetLang = getEnv("TARGET_LANG", cfg.TargetLang)
	cfg.TranslationTTL = getEnvDuration("TRANSLATION_CACHE_TTL", cfg.TranslationTTL)
	cfg.TranslationLRUSize = getEnvInt("TRANSLATION_LRU_SIZE", cfg.TranslationLRUSize)
	cfg.TitleConcurrency = getEnvInt("TITLE_CONCURRENCY", cfg.TitleConcurrency)

	cfg.HTTPTimeout = getEnvDuration("HTTP_TIMEOUT", cfg.HTTPTimeout)
	cfg.OutboundInterval = getEnvDuration("OUTBOUND_INTERVAL", cfg.OutboundInterval)
}

// loadProdSecrets loads sensitive values for production from Docker secrets
func loadProdSecrets(cfg *Config) {
	if v := readSecret("db_user"); v != "" {
		cfg.DBUser = v
	}
	if v := readSecret("db_password"); v != "" {
		cfg.DBPassword = v
	}
	if v := readSecret("redis_password"); v != "" {
		cfg.RedisPassword = v
	}
	if v := readSecret("redis_url"); v != "" {
		cfg.RedisURL = v
	}
	if v := readSecret("jwt_secret"); v != "" {
		cfg.JWTSecret = v
	}
	if v := readSecret("spoonacular_api_key"); v != "" {
		cfg.SpoonacularAPIKey = v
	}
}

// loadAPIKey resolves SPOONACULAR_API_KEY_FILE when the key itself is not set
func loadAPIKey(cfg *Config) error {
	if cfg.SpoonacularAPIKey != "" {
		return nil
	}
	keyFile := os.Getenv("SPOONACULAR_API_KEY_FILE")
	if keyFile == "" {
		return nil
	}

	keyBytes, err := os.ReadFile(keyFile)
	if err != nil {
		return fmt.Errorf("failed to read API key file: %w", err)
	}

	cfg.SpoonacularAPIKey = strings.TrimSpace(string(keyBytes))
	if cfg.SpoonacularAPIKey == "" {
		return fmt.Errorf("API key file is empty")
	}
	return nil
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
