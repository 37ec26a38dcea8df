package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Env string `env:"ENV" default:"dev"`

	Port string `env:"PORT" default:"8080"`

	// Identity used to namespace execution-log paths and derive execution ids.
	FunctionName string `env:"FUNCTION_NAME" default:"stockpipe-handler"`

	// Destination for merged inventory payloads. Required.
	WebhookURL string `env:"WEBHOOK_URL" default:""`

	// Optional webhook auth. Both default off.
	WebhookAPIKey     string `env:"WEBHOOK_API_KEY" default:""`
	WebhookSigningPEM string `env:"WEBHOOK_SIGNING_KEY_PEM" default:""`

	// Keyed store for per-sku inventory aggregation.
	StashBackend  string `env:"STASH_BACKEND" default:"memory"` // memory | dynamo | redis
	StashKeyspace string `env:"STASH_KEYSPACE" default:"inventory"`
	DynamoTable   string `env:"DYNAMO_TABLE" default:""` // required when STASH_BACKEND=dynamo
	RedisAddr     string `env:"REDIS_ADDR" default:""`   // required when STASH_BACKEND=redis

	// Execution-log storage for the tracker.
	TrackingBackend string `env:"TRACKING_BACKEND" default:"memory"` // memory | s3 | mysql
	TrackingBucket  string `env:"TRACKING_BUCKET" default:""`        // required when TRACKING_BACKEND=s3
	MySQLDSN        string `env:"DB_DSN" default:""`                 // required when TRACKING_BACKEND=mysql

	// Optional: run migrations at startup (dev convenience)
	RunMigrations bool `env:"RUN_MIGRATIONS" default:"false"`

	// Optional kafka progress sink. Disabled when brokers are empty.
	KafkaBrokers string `env:"KAFKA_BROKERS" default:""`
	KafkaTopic   string `env:"KAFKA_TOPIC" default:"stockpipe-progress"`
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Env:               getenv("ENV", "dev"),
		Port:              getenv("PORT", "8080"),
		FunctionName:      getenv("FUNCTION_NAME", "stockpipe-handler"),
		WebhookURL:        getenv("WEBHOOK_URL", ""),
		WebhookAPIKey:     getenv("WEBHOOK_API_KEY", ""),
		WebhookSigningPEM: getenv("WEBHOOK_SIGNING_KEY_PEM", ""),
		StashBackend:      getenv("STASH_BACKEND", "memory"),
		StashKeyspace:     getenv("STASH_KEYSPACE", "inventory"),
		DynamoTable:       getenv("DYNAMO_TABLE", ""),
		RedisAddr:         getenv("REDIS_ADDR", ""),
		TrackingBackend:   getenv("TRACKING_BACKEND", "memory"),
		TrackingBucket:    getenv("TRACKING_BUCKET", ""),
		MySQLDSN:          getenv("DB_DSN", ""),
		RunMigrations:     getenv("RUN_MIGRATIONS", "false") == "true",
		KafkaBrokers:      getenv("KAFKA_BROKERS", ""),
		KafkaTopic:        getenv("KAFKA_TOPIC", "stockpipe-progress"),
	}
	return cfg
}

// Validate checks values that have no usable default. A failure here is fatal
// for the whole invocation and surfaces through the same failure path as any
// other top-level fault.
func (c Config) Validate() error {
	if c.WebhookURL == "" {
		return errors.New("WEBHOOK_URL is required")
	}
	if c.StashBackend == "dynamo" && c.DynamoTable == "" {
		return errors.New("DYNAMO_TABLE is required when STASH_BACKEND=dynamo")
	}
	if c.StashBackend == "redis" && c.RedisAddr == "" {
		return errors.New("REDIS_ADDR is required when STASH_BACKEND=redis")
	}
	if c.TrackingBackend == "s3" && c.TrackingBucket == "" {
		return errors.New("TRACKING_BUCKET is required when TRACKING_BACKEND=s3")
	}
	if c.TrackingBackend == "mysql" && c.MySQLDSN == "" {
		return errors.New("DB_DSN is required when TRACKING_BACKEND=mysql")
	}
	return nil
}

func getenv(key string, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}
