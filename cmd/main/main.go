package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"evroute/internal/api"
	"evroute/internal/config"
	"evroute/internal/events"
	"evroute/internal/logger"
	"evroute/internal/osrm"
	"evroute/internal/plan"
	"evroute/internal/postgres"
	"evroute/internal/redis"
	"evroute/internal/service/trip"
	"evroute/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.AppEnv, "evroute")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts, closers := initializeBackends(cfg, log)
	defer closeConnections(closers, log)

	tripService := initializeServices(ctx, cfg, log, opts)

	workers := worker.StartAllWorkers(ctx, tripService, log)
	reportMemoryStats(ctx, log)

	runAPIServer(ctx, cfg, log, tripService)

	workers.Wait()

	flushCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := tripService.Flush(flushCtx); err != nil {
		log.Error("final flush failed", zap.Error(err))
	}
	log.Info("evroute stopped")
}

type closer struct {
	name  string
	close func() error
}

// initializeBackends connects the optional backends. An empty URL leaves a backend disabled.
func initializeBackends(cfg config.Config, log *zap.Logger) ([]trip.Option, []closer) {
	var (
		opts    []trip.Option
		closers []closer
	)

	if cfg.DBUrl != "" {
		db, err := postgres.Init(cfg.DBUrl, log)
		if err != nil {
			log.Fatal("failed to connect to postgres", zap.Error(err))
		}
		opts = append(opts, trip.WithRepository(postgres.NewTripRepository(db)))
		closers = append(closers, closer{"postgres", postgres.Close})
		log.Info("postgres enabled")
	}

	if cfg.RedisUrl != "" {
		client, err := redis.Init(cfg.RedisUrl, log)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		opts = append(opts, trip.WithCache(redis.NewTripCache(client, cfg.TripTTL)))
		closers = append(closers, closer{"redis", redis.Close})
	}

	scoringURL := cfg.ScoringServiceURL
	if scoringURL == "" {
		derived, err := plan.ScoringServiceURL(cfg.OSRMServiceURL)
		if err != nil {
			log.Warn("trip feedback is not forwarded to a scoring service", zap.Error(err))
		}
		scoringURL = derived
	}
	if scoringURL != "" {
		opts = append(opts, trip.WithFeedbackSinks(plan.NewFeedbackClient(scoringURL, nil, log)))
		log.Info("scoring service enabled", zap.String("url", scoringURL))
	}

	if brokers := cfg.Brokers(); len(brokers) > 0 {
		publisher := events.NewFeedbackPublisher(brokers, cfg.KafkaFeedbackTopic, log)
		opts = append(opts, trip.WithFeedbackSinks(publisher))
		closers = append(closers, closer{"kafka", publisher.Close})
		log.Info("kafka feedback events enabled",
			zap.Strings("brokers", brokers),
			zap.String("topic", cfg.KafkaFeedbackTopic),
		)
	}

	return opts, closers
}

func initializeServices(ctx context.Context, cfg config.Config, log *zap.Logger, opts []trip.Option) *trip.TripService {
	client := osrm.NewClient(osrm.Config{
		ServiceURL:        cfg.OSRMServiceURL,
		Profile:           cfg.OSRMProfile,
		Timeout:           cfg.OSRMTimeout,
		PolylinePrecision: cfg.OSRMPolylinePrecision,
		UseHints:          cfg.OSRMUseHints,
	}, log)

	if client.ServiceURL() == osrm.DefaultServiceURL {
		log.Warn("using the OSRM demo server; it is not suitable for production use")
	}

	opts = append(opts,
		trip.WithSnapWarnDistance(cfg.SnapWarnDistanceM),
		trip.WithTTL(cfg.TripTTL),
	)
	tripService := trip.NewTripService(client, log, opts...)

	if err := tripService.InitService(ctx); err != nil {
		log.Fatal("failed to initialize trip service", zap.Error(err))
	}
	return tripService
}

// runAPIServer serves until ctx is cancelled.
func runAPIServer(ctx context.Context, cfg config.Config, log *zap.Logger, tripService *trip.TripService) {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := api.NewEngine(log)

	info := map[string]string{
		"service": "evroute",
		"env":     cfg.AppEnv,
		"port":    cfg.Port,
		"osrm":    cfg.OSRMServiceURL,
		"profile": cfg.OSRMProfile,
	}
	api.SetupRouter(r, info, tripService)

	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.OSRMTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}
}

func reportMemoryStats(ctx context.Context, log *zap.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				var m runtime.MemStats
				runtime.ReadMemStats(&m)
				log.Debug("memory stats",
					zap.Uint64("alloc_mib", m.Alloc/1024/1024),
					zap.Uint64("total_alloc_mib", m.TotalAlloc/1024/1024),
					zap.Uint64("sys_mib", m.Sys/1024/1024),
					zap.Uint32("num_gc", m.NumGC),
				)
			}
		}
	}()
}

func closeConnections(closers []closer, log *zap.Logger) {
	for _, c := range closers {
		if err := c.close(); err != nil {
			log.Error("error closing connection", zap.String("backend", c.name), zap.Error(err))
		}
	}
}
