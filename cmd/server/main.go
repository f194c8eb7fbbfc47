package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	authorizeHandler "spendgate/internal/authorize/handler"
	authorizeMetrics "spendgate/internal/authorize/metrics"
	"spendgate/internal/authorize/ports"
	authorizeService "spendgate/internal/authorize/service"
	programStore "spendgate/internal/authorize/store/program"
	rulesetStore "spendgate/internal/authorize/store/ruleset"
	forecastHandler "spendgate/internal/forecast/handler"
	forecastService "spendgate/internal/forecast/service"
	usageStore "spendgate/internal/forecast/store/usage"
	jwttoken "spendgate/internal/jwt_token"
	"spendgate/internal/platform/config"
	"spendgate/internal/platform/httpserver"
	"spendgate/internal/platform/logger"
	platformmetrics "spendgate/internal/platform/metrics"
	platformpostgres "spendgate/internal/platform/postgres"
	platformredis "spendgate/internal/platform/redis"
	httptransport "spendgate/internal/transport/http"
	"spendgate/pkg/platform/audit"
	auditkafka "spendgate/pkg/platform/audit/kafka"
	"spendgate/pkg/platform/audit/publisher"
	auditmemory "spendgate/pkg/platform/audit/store/memory"
	auditpostgres "spendgate/pkg/platform/audit/store/postgres"
	auditworker "spendgate/pkg/platform/audit/worker"
)

const relayInterval = 5 * time.Second

// main wires the dependency graph and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage backends degrade to in-memory when unconfigured, so a bare
	// `go run ./cmd/server` works in development.
	db, err := platformpostgres.Open(cfg.Postgres)
	if err != nil {
		log.Error("postgres unavailable", "error", err)
		os.Exit(1)
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis unavailable", "error", err)
		os.Exit(1)
	}

	var rulesets ports.RulesetStore
	var auditStore audit.Store
	if db != nil {
		rulesets = rulesetStore.NewPostgres(db)
		auditStore = auditpostgres.New(db)
	} else {
		rulesets = rulesetStore.NewInMemory()
		auditStore = auditmemory.New()
	}

	var programs ports.ProgramRegistry
	var usage forecastService.UsageStore
	if redisClient != nil {
		programs = programStore.NewRedis(redisClient.Client)
		usage = usageStore.NewRedis(redisClient.Client)
	} else {
		programs = programStore.NewInMemory()
		usage = usageStore.NewInMemory()
	}

	// Audit pipeline: emitter -> worker -> store, with Kafka delivery either
	// inline (memory store) or through the outbox relay (postgres store).
	emitter := publisher.New(256, publisher.WithLogger(log))

	var sink auditworker.Sink
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher, err := auditkafka.New(ctx, cfg.Kafka.Brokers,
			auditkafka.WithTopic(cfg.Kafka.Topic),
			auditkafka.WithLogger(log),
		)
		if err != nil {
			log.Error("kafka unavailable", "error", err)
			os.Exit(1)
		}
		defer kafkaPublisher.Close()
		sink = kafkaPublisher
	}

	workerOpts := []auditworker.Option{auditworker.WithLogger(log)}
	if sink != nil && db == nil {
		workerOpts = append(workerOpts, auditworker.WithSink(sink))
	}
	worker := auditworker.NewWorker(auditStore, emitter.Inbox(), workerOpts...)
	go func() {
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("audit worker stopped", "error", err)
		}
	}()

	if sink != nil && db != nil {
		relay := auditworker.NewRelay(auditpostgres.New(db), sink, relayInterval, log)
		go func() {
			if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("audit relay stopped", "error", err)
			}
		}()
	}

	authMetrics := authorizeMetrics.New()
	authSvc, err := authorizeService.New(rulesets, programs,
		authorizeService.WithLogger(log),
		authorizeService.WithMetrics(authMetrics),
		authorizeService.WithAuditPublisher(emitter),
	)
	if err != nil {
		log.Error("authorize service init failed", "error", err)
		os.Exit(1)
	}

	forecastSvc, err := forecastService.New(usage, rulesets,
		forecastService.WithLogger(log),
		forecastService.WithAuditPublisher(emitter),
	)
	if err != nil {
		log.Error("forecast service init failed", "error", err)
		os.Exit(1)
	}

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "spendgate", "spendgate")

	router := httptransport.NewRouter(httptransport.Deps{
		Authorize: authorizeHandler.New(authSvc, log),
		Forecast:  forecastHandler.New(forecastSvc, log),
		Validator: jwtService,
		Metrics:   platformmetrics.New(),
		Logger:    log,
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting spendgate", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}

	if redisClient != nil {
		_ = redisClient.Close()
	}
	if db != nil {
		_ = db.Close()
	}
}
