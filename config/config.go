package config

import (
	"os"
	"strconv"
)

// Config is the process configuration, sourced from the environment.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	AWSRegion string
	S3Bucket  string

	JWTSecret string

	PushGatewayURL string

	SwipeLimitPerMinute int
	SendLimitPerMinute  int
}

// Load reads configuration from the environment with local-development
// defaults. The JWT secret has no default on purpose.
func Load() *Config {
	return &Config{
		Port:                GetEnv("PORT", "8080"),
		Env:                 GetEnv("ENV", "development"),
		LogLevel:            GetEnv("LOG_LEVEL", "info"),
		AWSRegion:           GetEnv("AWS_REGION", "us-east-1"),
		S3Bucket:            GetEnv("S3_BUCKET_NAME", ""),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		PushGatewayURL:      GetEnv("PUSH_GATEWAY_URL", ""),
		SwipeLimitPerMinute: GetEnvInt("SWIPE_LIMIT_PER_MINUTE", 30),
		SendLimitPerMinute:  GetEnvInt("SEND_LIMIT_PER_MINUTE", 120),
	}
}

// GetEnv returns an environment variable or a default.
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetEnvInt returns an integer environment variable or a default.
func GetEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
