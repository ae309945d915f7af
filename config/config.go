package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                    string
	Env                     string
	MongoURI                string
	MongoDB                 string
	RedisURL                string
	JWTSecret               string
	StripeSecretKey         string
	StripeWebhookSecret     string
	AdminRegistrationSecret string
	FrontendURL             string
	LoginRatePerMinute      int
	LoginRateBurst          int
}

// LoadConfig reads configuration from the environment, loading a local
// .env file first when present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                    getEnv("PORT", "5000"),
		Env:                     getEnv("ENV", "development"),
		MongoURI:                getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:                 getEnv("MONGO_DB", "homecraft"),
		RedisURL:                getEnv("REDIS_URL", "redis://localhost:6379"),
		JWTSecret:               os.Getenv("JWT_SECRET"),
		StripeSecretKey:         os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret:     os.Getenv("STRIPE_WEBHOOK_SECRET"),
		AdminRegistrationSecret: os.Getenv("ADMIN_REGISTRATION_SECRET"),
		FrontendURL:             getEnv("FRONTEND_URL", "http://localhost:3000"),
		LoginRatePerMinute:      getEnvInt("LOGIN_RATE_PER_MINUTE", 30),
		LoginRateBurst:          getEnvInt("LOGIN_RATE_BURST", 10),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.StripeSecretKey == "" || cfg.StripeWebhookSecret == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY and STRIPE_WEBHOOK_SECRET are required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}
