package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	// Server configuration
	Port        int    `json:"port"`
	Environment string `json:"environment"`

	// Redis configuration
	RedisURI      string `json:"redis_uri"`
	RedisPassword string `json:"redis_password"`
	RedisDB       int    `json:"redis_db"`

	// MongoDB configuration (message audit log)
	MongoURI             string `json:"mongo_uri"`
	MongoDatabase        string `json:"mongo_database"`
	MessageLogCollection string `json:"mongo_message_log_collection"`

	// WhatsApp webhook configuration
	VerifyToken string `json:"-"`

	// Collaborator endpoints
	BaileysBaseURL      string `json:"baileys_base_url"`
	OrchestratorBaseURL string `json:"orchestrator_base_url"`

	// Session authorization configuration
	SessionAuthTTL time.Duration `json:"session_auth_ttl"`

	// Webhook rate limiting
	WebhookRateLimit  int           `json:"webhook_rate_limit"`
	WebhookRateRefill time.Duration `json:"webhook_rate_refill"`

	// Tracing configuration
	TracingEnabled  bool   `json:"tracing_enabled"`
	TracingEndpoint string `json:"tracing_endpoint"`
}

var (
	AppConfig *Config
)

// LoadConfig loads configuration from environment variables
func LoadConfig() error {
	port, err := strconv.Atoi(getEnvOrDefault("PORT", "8080"))
	if err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	if err != nil {
		return fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	sessionAuthTTL, err := time.ParseDuration(getEnvOrDefault("SESSION_AUTH_TTL", "1h"))
	if err != nil {
		return fmt.Errorf("invalid SESSION_AUTH_TTL: %w", err)
	}

	webhookRateLimit, err := strconv.Atoi(getEnvOrDefault("WEBHOOK_RATE_LIMIT", "60"))
	if err != nil {
		return fmt.Errorf("invalid WEBHOOK_RATE_LIMIT: %w", err)
	}

	webhookRateRefill, err := time.ParseDuration(getEnvOrDefault("WEBHOOK_RATE_REFILL", "1s"))
	if err != nil {
		return fmt.Errorf("invalid WEBHOOK_RATE_REFILL: %w", err)
	}

	AppConfig = &Config{
		// Server configuration
		Port:        port,
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),

		// Redis configuration
		RedisURI:      getEnvOrDefault("REDIS_URI", "localhost:6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,

		// MongoDB configuration
		MongoURI:             getEnvOrDefault("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:        getEnvOrDefault("MONGODB_DATABASE", "whatsapp_bridge"),
		MessageLogCollection: getEnvOrDefault("MONGODB_MESSAGE_LOG_COLLECTION", "message_log"),

		// WhatsApp webhook configuration
		VerifyToken: getEnvOrDefault("WHATSAPP_VERIFY_TOKEN", "s3nh@-webhook-2025-XYz"),

		// Collaborator endpoints
		BaileysBaseURL:      getEnvOrDefault("BAILEYS_BASE_URL", "http://localhost:3000"),
		OrchestratorBaseURL: getEnvOrDefault("ORCHESTRATOR_BASE_URL", "http://localhost:8000"),

		// Session authorization configuration
		SessionAuthTTL: sessionAuthTTL,

		// Webhook rate limiting
		WebhookRateLimit:  webhookRateLimit,
		WebhookRateRefill: webhookRateRefill,

		// Tracing configuration
		TracingEnabled:  getEnvOrDefault("TRACING_ENABLED", "false") == "true",
		TracingEndpoint: getEnvOrDefault("TRACING_ENDPOINT", "localhost:4317"),
	}

	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
