package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"bpagent/internal/clients/diddoc"
	"bpagent/internal/clients/profile"
	"bpagent/internal/events"
	"bpagent/internal/partner/store"
	"bpagent/internal/platform/config"
	"bpagent/internal/platform/database"
	"bpagent/internal/platform/health"
	"bpagent/internal/platform/kafka/consumer"
	"bpagent/internal/platform/kafka/producer"
	"bpagent/internal/platform/logger"
	platformredis "bpagent/internal/platform/redis"
	"bpagent/internal/resolver"
	"bpagent/internal/resolver/metrics"
	"bpagent/internal/resolver/tracer"
	httptransport "bpagent/internal/transport/http"
	"bpagent/internal/webhook"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal resolver package.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing bpagent",
		"addr", cfg.Addr,
		"resolver_url", cfg.ResolverURL,
	)

	// Partner store: Postgres when configured, in-memory otherwise.
	var partnerStore store.Store = store.NewInMemoryStore()
	pool, err := database.New(database.Config{
		URL:             cfg.DatabaseURL,
		MaxOpenConns:    database.DefaultConfig().MaxOpenConns,
		MaxIdleConns:    database.DefaultConfig().MaxIdleConns,
		ConnMaxLifetime: database.DefaultConfig().ConnMaxLifetime,
	})
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	if pool != nil {
		defer pool.Close()
		migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := pool.Migrate(migrateCtx); err != nil {
			cancel()
			return fmt.Errorf("run migrations: %w", err)
		}
		cancel()
		partnerStore = store.NewPostgres(pool.DB())
		log.Info("using postgres partner store")
	} else {
		log.Warn("no database configured, using in-memory partner store")
	}

	// DID document resolution, cached in Redis when configured.
	var docs diddoc.Resolver = diddoc.New(cfg.ResolverURL, diddoc.WithLogger(log))
	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("init redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		docs = diddoc.NewCached(docs, redisClient.Client, cfg.DIDDocCacheTTL, log)
		log.Info("did document cache enabled", "ttl", cfg.DIDDocCacheTTL)
	}

	profiles := profile.New(docs, profile.WithLogger(log))

	// Webhook delivery over Kafka; noop when Kafka is disabled.
	var webhookProducer interface {
		Produce(ctx context.Context, msg *producer.Message) error
	} = producer.NewNoopProducer()
	var kafkaProducer *producer.Producer
	if cfg.Kafka.Brokers != "" {
		kafkaProducer, err = producer.New(producer.Config{
			Brokers:         cfg.Kafka.Brokers,
			Retries:         3,
			DeliveryTimeout: 10 * time.Second,
		}, log)
		if err != nil {
			return fmt.Errorf("init kafka producer: %w", err)
		}
		defer kafkaProducer.Close()
		webhookProducer = kafkaProducer
	} else {
		log.Warn("no kafka brokers configured, webhook delivery disabled")
	}
	notifier := webhook.NewPublisher(webhookProducer, cfg.Kafka.WebhookTopic, log)

	resolverMetrics := metrics.New()
	svc := resolver.NewService(
		partnerStore,
		docs,
		profiles,
		notifier,
		resolver.WithLogger(log),
		resolver.WithTracer(tracer.NewOTel()),
		resolver.WithMetrics(resolverMetrics),
	)

	healthHandler := health.New(cfg.Environment)
	if pool != nil {
		healthHandler.RegisterCheck("postgres", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Health(ctx)
		})
	}
	if redisClient != nil {
		healthHandler.RegisterCheck("redis", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisClient.Health(ctx)
		})
	}

	// Event ingestion.
	var eventConsumer *consumer.Consumer
	if cfg.Kafka.Brokers != "" {
		handler := events.NewHandler(svc, partnerStore, log)
		eventConsumer, err = consumer.New(consumer.Config{
			Brokers: cfg.Kafka.Brokers,
			GroupID: cfg.Kafka.GroupID,
			Topics:  []string{cfg.Kafka.EventsTopic},
		}, handler, log)
		if err != nil {
			return fmt.Errorf("init kafka consumer: %w", err)
		}
		eventConsumer.Start()
		healthHandler.RegisterCheck("kafka", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if !eventConsumer.Healthy(ctx) {
				return fmt.Errorf("kafka consumer unhealthy")
			}
			return nil
		})
	}

	router := httptransport.NewRouter(healthHandler, log)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if eventConsumer != nil {
			if err := eventConsumer.Stop(shutdownCtx); err != nil {
				log.Error("consumer shutdown failed", "error", err)
			}
		}
		// Let in-flight resolution tasks finish before the process exits.
		svc.Wait()

		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		return err
	}

	log.Info("server stopped")
	return nil
}
