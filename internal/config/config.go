package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	ServerAddr       string
	GinMode          string
	LogLevel         string
	DBDriver         string
	DBHost           string
	DBPort           string
	DBUser           string
	DBPassword       string
	DBName           string
	DBSSLMode        string
	RedisHost        string
	RedisPort        string
	RedisPassword    string
	SessionSecret    string
	TokenSecret      string
	TokenTTL         time.Duration
	TaskListCacheTTL time.Duration
	RequestTimeout   time.Duration
	OpenAIAPIKey     string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("failed to load .env file")
	}

	driver := strings.ToLower(getEnv("DB_DRIVER", "mysql"))

	return &Config{
		ServerAddr:       getEnv("SERVER_ADDR", ":8080"),
		GinMode:          getEnv("GIN_MODE", "debug"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		DBDriver:         driver,
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", defaultDBPort(driver)),
		DBUser:           getEnv("DB_USER", "marketuser"),
		DBPassword:       getEnv("DB_PASSWORD", "marketpassword"),
		DBName:           getEnv("DB_NAME", "task_marketplace"),
		DBSSLMode:        getEnv("DB_SSLMODE", "disable"),
		RedisHost:        getEnv("REDIS_HOST", "localhost"),
		RedisPort:        getEnv("REDIS_PORT", "6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		SessionSecret:    getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		TokenSecret:      getEnv("TOKEN_SECRET", "default-token-secret-change-me"),
		TokenTTL:         getDuration("TOKEN_TTL", 24*time.Hour),
		TaskListCacheTTL: getDuration("TASK_LIST_CACHE_TTL", 30*time.Second),
		RequestTimeout:   getDuration("REQUEST_TIMEOUT", 10*time.Second),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
	}
}

// RedisAddr returns host:port for the Redis server.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func defaultDBPort(driver string) string {
	if driver == "postgres" {
		return "5432"
	}
	return "3306"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("invalid duration, using default")
		return defaultValue
	}
	return d
}
