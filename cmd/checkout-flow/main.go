package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fjod/go_checkout/internal/dispatch"
	"github.com/fjod/go_checkout/internal/events"
	"github.com/fjod/go_checkout/internal/httpapi"
	"github.com/fjod/go_checkout/internal/pricing"
	"github.com/fjod/go_checkout/internal/store"
)

type Config struct {
	HTTPPort        string
	BackendAPIURL   string
	StoreBackend    string // "memory" or "mongo"
	MongoURI        string
	MongoDBName     string
	RedisAddr       string
	RedisPassword   string
	KafkaBrokers    string
	KafkaTopic      string
	SessionTTL      time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	Pricing         pricing.Config
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		BackendAPIURL:   getEnv("BACKEND_API_URL", "http://localhost:8000"),
		StoreBackend:    getEnv("STORE_BACKEND", "memory"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:     getEnv("MONGO_DB_NAME", "checkout"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:    getEnv("KAFKA_BROKERS", ""),
		KafkaTopic:      getEnv("KAFKA_TOPIC", "checkout-events"),
		SessionTTL:      24 * time.Hour,
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		Pricing: pricing.Config{
			FreeShippingThreshold: getEnvInt64("FREE_SHIPPING_THRESHOLD", pricing.DefaultConfig().FreeShippingThreshold),
			FlatShippingFee:       getEnvInt64("FLAT_SHIPPING_FEE", pricing.DefaultConfig().FlatShippingFee),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
		log.Printf("invalid %s=%q, using default %d", key, os.Getenv(key), defaultValue)
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	svc, cleanup := buildStore(cfg)
	defer cleanup()

	dispatcher := dispatch.NewClient(dispatch.Config{
		BaseURL: cfg.BackendAPIURL,
		Timeout: cfg.RequestTimeout,
	})

	var publisher *events.Publisher
	if cfg.KafkaBrokers != "" {
		publisher = events.NewPublisher(cfg.KafkaTopic, splitCSV(cfg.KafkaBrokers)...)
		defer publisher.Close()
	}

	var handler *httpapi.Handler
	if publisher != nil {
		handler = httpapi.NewHandler(dispatcher, svc, publisher, cfg.Pricing)
	} else {
		handler = httpapi.NewHandler(dispatcher, svc, nil, cfg.Pricing)
	}

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/", handler.Routes())

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "checkout-flow"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("checkout flow starting on :%s (store=%s)", cfg.HTTPPort, cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}

// buildStore wires the configured persistence: mongo for carts plus redis for
// cache and sessions, or the in-process store for local development.
func buildStore(cfg *Config) (*store.Service, func()) {
	if cfg.StoreBackend != "mongo" {
		memory := store.NewMemoryStore()
		return store.NewService(memory, nil, memory.Sessions()), func() {}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := store.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	repo := store.NewMongoRepository(db)
	if err := repo.CreateIndexes(ctx); err != nil {
		log.Fatalf("failed to create mongo indexes: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}

	cache := store.NewRedisCartCache(redisClient)
	sessions := store.NewRedisSessionStore(redisClient, cfg.SessionTTL)

	cleanup := func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("redis close error: %v", err)
		}
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		if err := db.Client().Disconnect(disconnectCtx); err != nil {
			log.Printf("mongodb disconnect error: %v", err)
		}
	}
	return store.NewService(repo, cache, sessions), cleanup
}

func splitCSV(value string) []string {
	var parts []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
