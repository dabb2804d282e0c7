package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures service level configuration.
type Config struct {
	Addr        string
	Environment string

	// Universal-resolver style endpoint for DID document resolution.
	ResolverURL string
	// TTL for cached DID documents when Redis is configured.
	DIDDocCacheTTL time.Duration

	RedisURL    string
	DatabaseURL string

	Kafka Kafka
}

// Kafka holds broker and topic configuration for event ingestion and
// webhook delivery.
type Kafka struct {
	Brokers      string
	GroupID      string
	EventsTopic  string
	WebhookTopic string
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	cfg := Config{
		Addr:           envOr("BPAGENT_ADDR", ":8080"),
		Environment:    envOr("BPAGENT_ENV", "development"),
		ResolverURL:    envOr("BPAGENT_RESOLVER_URL", "http://localhost:8021"),
		DIDDocCacheTTL: envDurationOr("BPAGENT_DIDDOC_CACHE_TTL", 5*time.Minute),
		RedisURL:       os.Getenv("BPAGENT_REDIS_URL"),
		DatabaseURL:    os.Getenv("BPAGENT_DATABASE_URL"),
		Kafka: Kafka{
			Brokers:      os.Getenv("BPAGENT_KAFKA_BROKERS"),
			GroupID:      envOr("BPAGENT_KAFKA_GROUP_ID", "bpagent-resolver"),
			EventsTopic:  envOr("BPAGENT_KAFKA_EVENTS_TOPIC", "bpagent.events"),
			WebhookTopic: envOr("BPAGENT_KAFKA_WEBHOOK_TOPIC", "bpagent.webhooks"),
		},
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(v); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}
