package persist

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/XavierBriggs/Courtside/pkg/models"
)

// GameStateKey is the fixed storage name the live game is persisted under.
const GameStateKey = "courtside:game"

// ErrNotFound is returned by a blob store when no value exists for a key.
var ErrNotFound = errors.New("blob not found")

// Blobs is a generic string-keyed durable store holding opaque payloads.
type Blobs interface {
	Save(ctx context.Context, key string, data []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
}

// Adapter snapshots game state to a blob store after every mutation and
// rehydrates it at startup. Writes are best-effort and asynchronous: the
// in-memory state is authoritative, a failed write is logged and retried
// implicitly on the next mutation, and no write failure ever surfaces as
// an operation error.
type Adapter struct {
	blobs  Blobs
	logger *slog.Logger

	// latest-wins mailbox: a mutation overwrites any pending snapshot
	// rather than queueing behind it
	pending chan models.GameState

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewAdapter creates a persistence adapter over the given blob store.
func NewAdapter(blobs Blobs, logger *slog.Logger) *Adapter {
	return &Adapter{
		blobs:    blobs,
		logger:   logger,
		pending:  make(chan models.GameState, 1),
		stopChan: make(chan struct{}),
	}
}

// Start launches the background write loop.
func (a *Adapter) Start(ctx context.Context) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		for {
			select {
			case state := <-a.pending:
				a.write(ctx, state)
			case <-a.stopChan:
				// final drain so the last mutation isn't lost on shutdown
				select {
				case state := <-a.pending:
					a.write(ctx, state)
				default:
				}
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop flushes any pending snapshot and stops the write loop.
func (a *Adapter) Stop() {
	close(a.stopChan)
	a.wg.Wait()
}

// Notify hands the adapter a fresh snapshot. Never blocks: if a write is
// already pending the stale snapshot is replaced by this one.
func (a *Adapter) Notify(state models.GameState) {
	for {
		select {
		case a.pending <- state:
			return
		default:
			select {
			case <-a.pending:
			default:
			}
		}
	}
}

// Restore loads the persisted game at startup. A missing snapshot or one
// that fails to parse falls back to the zero state and a false flag;
// this path never returns an error to the caller.
func (a *Adapter) Restore(ctx context.Context) (models.GameState, bool) {
	data, err := a.blobs.Load(ctx, GameStateKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			a.logWarn("game state load failed, starting empty", "err", err)
		}
		return models.GameState{}, false
	}

	var state models.GameState
	if err := json.Unmarshal(data, &state); err != nil {
		a.logWarn("persisted game state unparseable, starting empty", "err", err)
		return models.GameState{}, false
	}

	return state, true
}

func (a *Adapter) write(ctx context.Context, state models.GameState) {
	data, err := json.Marshal(state)
	if err != nil {
		a.logWarn("marshal game state failed", "err", err)
		return
	}

	if err := a.blobs.Save(ctx, GameStateKey, data); err != nil {
		a.logWarn("game state write failed, will retry on next mutation", "err", err)
	}
}

func (a *Adapter) logWarn(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Warn(msg, args...)
	}
}
