package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

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

// Self-hosted invocation surface: POST the same notification JSON the Lambda
// handler receives to /v1/events.
func main() {
	cfg := config.Load()
	logger := logging.NewStdLogger("stockpipe-server ")
	slogger := logging.NewJSONLogger()
	slog.SetDefault(slogger)

	if err := cfg.Validate(); err != nil {
		logger.Printf("config invalid: %v", err)
		os.Exit(1)
	}

	ctx := context.Background()

	objects, err := buildObjects(ctx)
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

	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	r.Post("/v1/events", func(w http.ResponseWriter, req *http.Request) {
		raw, err := io.ReadAll(req.Body)
		if err != nil {
			http.Error(w, "read body failed", http.StatusBadRequest)
			return
		}

		res := p.Run(req.Context(), raw)

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(res)
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Printf("starting (env=%s) on %s", cfg.Env, server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Printf("server stopped: %v", err)
			os.Exit(1)
		}
	}()

	waitForShutdown(logger.Printf, server)
}

// buildObjects picks the in-memory store for dev so the server runs without
// cloud credentials.
func buildObjects(ctx context.Context) (objectstore.Store, error) {
	if os.Getenv("OBJECT_BACKEND") == "memory" {
		return objectstore.NewMemoryStore(), nil
	}
	return objectstore.NewS3Store(ctx)
}

func waitForShutdown(logf func(string, ...any), server *http.Server) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logf("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = server.Shutdown(ctx)

	logf("shutdown complete")
}
