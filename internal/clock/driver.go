package clock

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Ticker is the one store operation the driver needs: an atomic
// one-second decrement that reports whether the clock is still running.
type Ticker interface {
	TickClock() bool
}

// Driver fires the game clock: one decrement request per interval. The
// store stops itself at 00:00 and ticks while stopped are no-ops, so the
// driver runs for the life of the process rather than chasing the running
// flag. Stop closes the tick goroutine and waits for it; a stale timer can
// never race a fresh one over the same displayed value.
type Driver struct {
	store    Ticker
	interval time.Duration
	logger   *slog.Logger

	stopChan chan struct{}
	wg       sync.WaitGroup
	started  bool
	mu       sync.Mutex
}

// NewDriver creates a clock driver. A non-positive interval defaults to
// one second; tests inject a shorter one.
func NewDriver(store Ticker, interval time.Duration, logger *slog.Logger) *Driver {
	if interval <= 0 {
		interval = time.Second
	}
	return &Driver{
		store:    store,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start launches the tick loop. Calling Start twice without an intervening
// Stop is a no-op; there is never more than one active timer.
func (d *Driver) Start(ctx context.Context) {
	d.mu.Lock()
	if d.started {
		d.mu.Unlock()
		return
	}
	d.started = true
	d.mu.Unlock()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				d.store.TickClock()
			case <-d.stopChan:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	if d.logger != nil {
		d.logger.Info("clock driver started", "interval", d.interval.String())
	}
}

// Stop cancels the timer and waits for the tick goroutine to exit.
func (d *Driver) Stop() {
	d.mu.Lock()
	if !d.started {
		d.mu.Unlock()
		return
	}
	d.started = false
	d.mu.Unlock()

	close(d.stopChan)
	d.wg.Wait()

	if d.logger != nil {
		d.logger.Info("clock driver stopped")
	}
}
