package config

import (
	"os"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	MarketData MarketDataConfig
	Kafka      KafkaConfig
	LogLevel   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
	Host string
}

// MarketDataConfig holds upstream price source configuration. Empty base
// URLs fall back to the public endpoints.
type MarketDataConfig struct {
	YahooBaseURL        string
	AlphaVantageBaseURL string
	AlphaVantageKey     string
	RequestTimeout      time.Duration
}

// KafkaConfig holds Kafka configuration. Event publishing is disabled
// when no brokers are configured.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8000"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		MarketData: MarketDataConfig{
			YahooBaseURL:        getEnv("YAHOO_BASE_URL", ""),
			AlphaVantageBaseURL: getEnv("ALPHA_VANTAGE_BASE_URL", ""),
			AlphaVantageKey:     getEnv("ALPHA_VANTAGE_KEY", ""),
			RequestTimeout:      getDuration("MARKET_DATA_TIMEOUT", 15*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(getEnv("KAFKA_BROKERS", "")),
			Topic:   getEnv("KAFKA_TOPIC", "risk-events"),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
