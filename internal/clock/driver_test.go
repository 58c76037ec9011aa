package clock_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/XavierBriggs/Courtside/internal/clock"
	"github.com/XavierBriggs/Courtside/internal/store"
	"github.com/XavierBriggs/Courtside/pkg/testutil"
)

type countingTicker struct {
	ticks atomic.Int64
}

func (c *countingTicker) TickClock() bool {
	c.ticks.Add(1)
	return true
}

func TestDriver_RunsClockDownToZero(t *testing.T) {
	s := store.NewStore(store.DefaultConfig(), nil)
	home, away := testutil.HomeAwayTeams()
	s.StartGame(home, away)
	s.UpdateClock("00:03")
	s.ToggleClock()

	driver := clock.NewDriver(s, 5*time.Millisecond, nil)
	driver.Start(context.Background())
	defer driver.Stop()

	deadline := time.After(2 * time.Second)
	for {
		state := s.Snapshot()
		if state.Clock == "00:00" && !state.IsRunning {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("clock never reached zero, at %s running=%v", state.Clock, state.IsRunning)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestDriver_StopCancelsTimer(t *testing.T) {
	ticker := &countingTicker{}
	driver := clock.NewDriver(ticker, 5*time.Millisecond, nil)
	driver.Start(context.Background())

	time.Sleep(30 * time.Millisecond)
	driver.Stop()

	after := ticker.ticks.Load()
	time.Sleep(30 * time.Millisecond)
	if got := ticker.ticks.Load(); got != after {
		t.Errorf("ticks continued after Stop: %d -> %d", after, got)
	}
}

func TestDriver_StartTwiceKeepsSingleTimer(t *testing.T) {
	ticker := &countingTicker{}
	driver := clock.NewDriver(ticker, 20*time.Millisecond, nil)
	driver.Start(context.Background())
	driver.Start(context.Background())
	defer driver.Stop()

	time.Sleep(50 * time.Millisecond)
	if got := ticker.ticks.Load(); got > 3 {
		t.Errorf("expected a single active timer (<=3 ticks in 50ms at 20ms), got %d", got)
	}
}

func TestDriver_ContextCancelStopsTicking(t *testing.T) {
	ticker := &countingTicker{}
	driver := clock.NewDriver(ticker, 5*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	driver.Start(ctx)
	time.Sleep(20 * time.Millisecond)
	cancel()
	time.Sleep(20 * time.Millisecond)

	after := ticker.ticks.Load()
	time.Sleep(30 * time.Millisecond)
	if got := ticker.ticks.Load(); got != after {
		t.Errorf("ticks continued after context cancel: %d -> %d", after, got)
	}
}
