package config

import "os"

// Config holds process configuration loaded from the environment.
type Config struct {
	Port          string
	AllowedOrigin string
	DBDriver      string
	DBDSN         string
	AMQPURL       string
	AMQPExchange  string
	RedisAddr     string
	OTLPEndpoint  string
	Environment   string
	Debug         bool
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	return Config{
		Port:          getEnv("PORT", "8083"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "*"),
		DBDriver:      getEnv("DB_DRIVER", "sqlite3"),
		DBDSN:         getEnv("DB_DSN", "chat.db"),
		AMQPURL:       getEnv("AMQP_URL", ""),
		AMQPExchange:  getEnv("AMQP_EXCHANGE", "chat_relay_events"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		OTLPEndpoint:  getEnv("OTLP_ENDPOINT", ""),
		Environment:   getEnv("ENVIRONMENT", "dev"),
		Debug:         getEnv("DEBUG", "") == "true",
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
