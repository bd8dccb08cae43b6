package worker

import (
	"context"
	"sync"

	"evroute/internal/config"

	"go.uber.org/zap"
)

// TripStore is the part of the trip service the workers drive.
type TripStore interface {
	SaveDirtyTripsToRedis(ctx context.Context) error
	SaveAllTripsToPG(ctx context.Context) error
	EvictExpired() int
}

// StartAllWorkers starts the background workers. They stop when ctx is cancelled; the returned
// WaitGroup is done once all of them have returned.
func StartAllWorkers(ctx context.Context, trips TripStore, log *zap.Logger) *sync.WaitGroup {
	log = log.Named("worker")
	var wg sync.WaitGroup

	start := func(name string, w *Ticker) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Run(ctx)
		}()
		log.Info("worker started", zap.String("worker", name), zap.Duration("interval", w.Interval))
	}

	start("redis-persistence", &Ticker{
		Name:     "redis-persistence",
		Interval: config.RedisBackupInterval,
		Task:     trips.SaveDirtyTripsToRedis,
		Log:      log,
	})
	start("postgres-persistence", &Ticker{
		Name:     "postgres-persistence",
		Interval: config.PostgresBackupInterval,
		Task:     trips.SaveAllTripsToPG,
		Log:      log,
	})
	start("eviction", &Ticker{
		Name:     "eviction",
		Interval: config.EvictionInterval,
		Task: func(context.Context) error {
			trips.EvictExpired()
			return nil
		},
		Log: log,
	})

	return &wg
}
