package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Ticker runs Task every Interval until its context is cancelled. Task errors are logged and
// do not stop the worker.
type Ticker struct {
	Name     string
	Interval time.Duration
	Task     func(ctx context.Context) error
	Log      *zap.Logger
}

func (t *Ticker) Run(ctx context.Context) {
	ticker := time.NewTicker(t.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := t.Task(ctx); err != nil {
				t.Log.Error("worker task failed", zap.String("worker", t.Name), zap.Error(err))
			}
		}
	}
}
