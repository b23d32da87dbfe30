package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the service settings read from the environment
type Config struct {
	HTTPPort string

	// Redis backs the session store; empty means in-process sessions
	RedisAddr string
	// Mongo backs the result archive; empty disables archiving
	MongoURI string
	MongoDB  string

	JWTSecret  string
	SessionTTL time.Duration
	AdminKey   string

	InstrumentFile string

	LogLevel string
	LogDev   bool

	CORSAllowedOrigins string
	CORSAllowedMethods string
	CORSAllowedHeaders string
}

// Load reads the configuration, falling back to development defaults
func Load() *Config {
	return &Config{
		HTTPPort:           getEnv("PORT", "8080"),
		RedisAddr:          redisAddr(),
		MongoURI:           os.Getenv("MONGO_URI"),
		MongoDB:            getEnv("MONGO_DB", "mindwell"),
		JWTSecret:          getEnv("JWT_SECRET", "super-secret-key-change-in-production"),
		SessionTTL:         getDuration("SESSION_TTL", 24*time.Hour),
		AdminKey:           os.Getenv("ADMIN_KEY"),
		InstrumentFile:     os.Getenv("INSTRUMENT_FILE"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogDev:             getBool("LOG_DEV", false),
		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		CORSAllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET, POST, PUT, DELETE, OPTIONS"),
		CORSAllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type, Authorization, X-Admin-Key"),
	}
}

// redisAddr accepts REDIS_ADDR or REDIS_URI, with or without the scheme
func redisAddr() string {
	addr := getEnv("REDIS_ADDR", os.Getenv("REDIS_URI"))
	return strings.TrimPrefix(addr, "redis://")
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil && d > 0 {
			return d
		}
	}
	return defaultVal
}

func getBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
