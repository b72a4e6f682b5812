package application

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const DefaultRefreshInterval = 100 * time.Millisecond

// Refresher runs tick on a fixed interval between Start and Stop.
type Refresher struct {
	interval time.Duration
	tick     func()
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewRefresher(interval time.Duration, tick func(), logger *slog.Logger) *Refresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}

	return &Refresher{interval: interval, tick: tick, logger: loggerOrDiscard(logger)}
}

func (r *Refresher) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.running = true

	r.wg.Add(1)
	go r.run(ctx)

	r.logger.Debug("refresher started", "interval", r.interval)
}

// Stop cancels the loop and returns only once no tick is in flight.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}

	r.running = false
	r.cancel()
	r.wg.Wait()

	r.logger.Debug("refresher stopped")
}

func (r *Refresher) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *Refresher) run(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			r.tick()
		}
	}
}

func loggerOrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
