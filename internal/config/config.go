package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig aggregates runtime configuration, injected through environment
// variables with safe defaults for local development.
type AppConfig struct {
	HTTPAddr string
	DBPath   string

	RedisAddr string
	RedisDB   int

	// Kafka brokers (comma separated), order event topic, tracker group.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string

	// Payment gateway credentials. Empty or placeholder values switch the
	// online path into demo mode instead of failing checkout.
	GatewayKeyID     string
	GatewayKeySecret string
	GatewayBaseURL   string

	// Checkout endpoint rate limiting.
	CheckoutRateLimit  int
	CheckoutRateWindow time.Duration
}

// Load reads and validates configuration, falling back to defaults.
func Load() (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		DBPath:             getEnv("DB_PATH", "medmarket.db"),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisDB:            0,
		KafkaBrokers:       splitCSV(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:         getEnv("KAFKA_TOPIC", "medmarket-order-events"),
		KafkaGroupID:       getEnv("KAFKA_GROUP_ID", "medmarket-order-tracker"),
		GatewayKeyID:       getEnv("GATEWAY_KEY_ID", ""),
		GatewayKeySecret:   getEnv("GATEWAY_KEY_SECRET", ""),
		GatewayBaseURL:     getEnv("GATEWAY_BASE_URL", "https://api.razorpay.com"),
		CheckoutRateLimit:  100,
		CheckoutRateWindow: time.Second,
	}

	redisDB, err := getEnvInt("REDIS_DB", cfg.RedisDB)
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.RedisDB = redisDB

	rateLimit, err := getEnvInt("CHECKOUT_RATE_LIMIT", cfg.CheckoutRateLimit)
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid CHECKOUT_RATE_LIMIT: %w", err)
	}
	if rateLimit <= 0 {
		return AppConfig{}, fmt.Errorf("CHECKOUT_RATE_LIMIT must be > 0")
	}
	cfg.CheckoutRateLimit = rateLimit

	windowSec, err := getEnvInt("CHECKOUT_RATE_WINDOW_SEC", int(cfg.CheckoutRateWindow.Seconds()))
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid CHECKOUT_RATE_WINDOW_SEC: %w", err)
	}
	if windowSec <= 0 {
		return AppConfig{}, fmt.Errorf("CHECKOUT_RATE_WINDOW_SEC must be > 0")
	}
	cfg.CheckoutRateWindow = time.Duration(windowSec) * time.Second

	if cfg.KafkaTopic == "" {
		return AppConfig{}, fmt.Errorf("KAFKA_TOPIC must not be empty")
	}
	if cfg.KafkaGroupID == "" {
		return AppConfig{}, fmt.Errorf("KAFKA_GROUP_ID must not be empty")
	}

	return cfg, nil
}

// GatewayConfigured reports whether real gateway credentials are present.
// Placeholder values from a copied sample env count as unconfigured so a
// fresh checkout silently runs in demo mode instead of erroring.
func (c AppConfig) GatewayConfigured() bool {
	return isRealCredential(c.GatewayKeyID) && isRealCredential(c.GatewayKeySecret)
}

func isRealCredential(v string) bool {
	if v == "" {
		return false
	}
	lower := strings.ToLower(v)
	return !strings.Contains(lower, "placeholder") && !strings.HasPrefix(lower, "your_")
}

func getEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
