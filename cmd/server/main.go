package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/mfakhry/pantry-orders/internal/messaging"
	"github.com/mfakhry/pantry-orders/internal/ordering"
	"github.com/mfakhry/pantry-orders/internal/server"
	"github.com/mfakhry/pantry-orders/internal/store"
	"github.com/mfakhry/pantry-orders/internal/telemetry"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, "pantry-orders", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider("pantry-orders", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(ctx) }()

	st, err := openStore(logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}

	var pubs ordering.Publishers
	if kafkaBrokers := os.Getenv("KAFKA_BROKERS"); kafkaBrokers != "" {
		brokers := strings.Split(kafkaBrokers, ",")
		pubs.Submitted = messaging.NewProducer(brokers, messaging.TopicOrderSubmitted)
		pubs.Processed = messaging.NewProducer(brokers, messaging.TopicOrderProcessed)
		defer func() { _ = pubs.Submitted.Close() }()
		defer func() { _ = pubs.Processed.Close() }()
	}

	engine := ordering.New(st, pubs, logger)
	handler := server.NewHandler(engine, logger)

	mux := http.NewServeMux()
	handler.Routes(mux)
	mux.Handle("GET /metrics", metricsHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr: ":" + port,
		Handler: otelhttp.NewHandler(mux, "pantry-orders",
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				if r.Pattern != "" {
					return r.Pattern
				}
				return r.Method + " " + r.URL.Path
			}),
		),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting pantry-orders service", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}

// openStore picks the persistence backend from STORE_BACKEND: "redis",
// "postgres", or "memory" (the default for local runs).
func openStore(logger *slog.Logger) (store.Store, error) {
	switch backend := os.Getenv("STORE_BACKEND"); backend {
	case "redis":
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			redisURL = "redis://localhost:6379"
		}
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, err
		}
		client := redis.NewClient(opts)
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, err
		}
		logger.Info("using redis store", "url", redisURL)
		return store.NewRedisStore(client), nil

	case "postgres":
		db, err := telemetry.OpenDB("postgres", os.Getenv("POSTGRES_URL"))
		if err != nil {
			return nil, err
		}
		if err := db.Ping(); err != nil {
			return nil, err
		}
		logger.Info("using postgres store")
		return store.NewPostgresStore(db), nil

	default:
		logger.Info("using in-memory store")
		return store.NewMemoryStore(), nil
	}
}
