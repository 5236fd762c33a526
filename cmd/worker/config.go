package main

import (
	"log"
	"os"
	"strconv"
)

// Config holds worker-specific tuning knobs
type Config struct {
	Concurrency     int
	RefundQueueSize int
}

// loadConfig loads worker tuning from environment variables
func loadConfig() *Config {
	cfg := &Config{
		Concurrency:     getEnvInt("WORKER_CONCURRENCY", 10),
		RefundQueueSize: getEnvInt("WORKER_REFUND_QUEUE_WEIGHT", 10),
	}

	log.Printf("[Config] Concurrency: %d, refund queue weight: %d",
		cfg.Concurrency, cfg.RefundQueueSize)

	return cfg
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
