package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/feedworks/stockpipe/internal/config"
	"github.com/feedworks/stockpipe/internal/logging"
	"github.com/feedworks/stockpipe/internal/migrate"
	"github.com/feedworks/stockpipe/internal/objectstore"
	"github.com/feedworks/stockpipe/internal/pipeline"
	"github.com/feedworks/stockpipe/internal/progress"
	"github.com/feedworks/stockpipe/internal/stash"
	"github.com/feedworks/stockpipe/internal/track"
	"github.com/feedworks/stockpipe/internal/webhook"
)

func main() {
	cfg := config.Load()
	logger := logging.NewStdLogger("stockpipe-handler ")
	slogger := logging.NewJSONLogger()
	slog.SetDefault(slogger)

	logger.Printf("ENV=%q STASH_BACKEND=%q TRACKING_BACKEND=%q",
		cfg.Env, cfg.StashBackend, cfg.TrackingBackend)

	if err := cfg.Validate(); err != nil {
		// Invalid configuration still answers every invocation with a
		// structured failure result.
		logger.Printf("config invalid: %v", err)
		lambda.Start(func(ctx context.Context, raw json.RawMessage) (pipeline.Result, error) {
			return pipeline.FatalResult(err), nil
		})
		return
	}

	ctx := context.Background()

	objects, err := objectstore.NewS3Store(ctx)
	if err != nil {
		logger.Printf("object store init failed: %v", err)
		os.Exit(1)
	}

	stashStore, err := stash.NewStore(ctx, stash.FactoryConfig{
		Backend:     cfg.StashBackend,
		DynamoTable: cfg.DynamoTable,
		RedisAddr:   cfg.RedisAddr,
	})
	if err != nil {
		logger.Printf("stash init failed: %v", err)
		os.Exit(1)
	}

	tracking, err := track.NewBlobStore(ctx, track.FactoryConfig{
		Backend:  cfg.TrackingBackend,
		Bucket:   cfg.TrackingBucket,
		MySQLDSN: cfg.MySQLDSN,
		Objects:  objects,
	})
	if err != nil {
		logger.Printf("tracking store init failed: %v", err)
		os.Exit(1)
	}

	if cfg.RunMigrations && tracking.DB != nil {
		if err := migrate.Apply(ctx, tracking.DB); err != nil {
			logger.Printf("migrations failed: %v", err)
			os.Exit(1)
		}
	}

	hook, err := webhook.NewClient(webhook.Options{
		URL:           cfg.WebhookURL,
		APIKey:        cfg.WebhookAPIKey,
		SigningKeyPEM: cfg.WebhookSigningPEM,
		Issuer:        cfg.FunctionName,
	})
	if err != nil {
		logger.Printf("webhook client init failed: %v", err)
		os.Exit(1)
	}

	sinks := progress.MultiSink{progress.LogSink{Logger: slogger}}
	if cfg.KafkaBrokers != "" {
		kafkaSink := progress.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic, slogger)
		defer kafkaSink.Close()
		sinks = append(sinks, kafkaSink)
	}

	p := &pipeline.Pipeline{
		Objects:  objects,
		Stash:    stashStore,
		Keyspace: cfg.StashKeyspace,
		Webhook:  hook,
		Tracker: track.Tracker{
			Store:        tracking.Store,
			FunctionName: cfg.FunctionName,
			Logger:       slogger,
		},
		Progress: sinks,
	}

	logger.Printf("starting (env=%s)", cfg.Env)
	lambda.Start(func(ctx context.Context, raw json.RawMessage) (pipeline.Result, error) {
		return p.Run(ctx, raw), nil
	})
}
