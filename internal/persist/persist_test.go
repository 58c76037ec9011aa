package persist_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/XavierBriggs/Courtside/internal/persist"
	"github.com/XavierBriggs/Courtside/pkg/testutil"
)

// fakeBlobs is an in-memory blob store with injectable failures.
type fakeBlobs struct {
	mu      sync.Mutex
	data    map[string][]byte
	saveErr error
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{data: make(map[string][]byte)}
}

func (f *fakeBlobs) Save(ctx context.Context, key string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.data[key] = data
	return nil
}

func (f *fakeBlobs) Load(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.data[key]
	if !ok {
		return nil, persist.ErrNotFound
	}
	return data, nil
}

func (f *fakeBlobs) put(key string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = data
}

func TestAdapter_RoundTrip(t *testing.T) {
	ctx := context.Background()
	blobs := newFakeBlobs()
	original := testutil.PopulatedGameState()

	writer := persist.NewAdapter(blobs, nil)
	writer.Notify(original)
	writer.Start(ctx)
	writer.Stop() // flushes the pending snapshot

	reader := persist.NewAdapter(blobs, nil)
	restored, ok := reader.Restore(ctx)
	assert.True(t, ok)
	assert.Equal(t, original, restored)
}

func TestRestore_MissingSnapshotFallsBackToEmpty(t *testing.T) {
	adapter := persist.NewAdapter(newFakeBlobs(), nil)

	state, ok := adapter.Restore(context.Background())
	assert.False(t, ok)
	assert.Empty(t, state.GameID)
	assert.Empty(t, state.Events)
}

func TestRestore_CorruptSnapshotFallsBackToEmpty(t *testing.T) {
	blobs := newFakeBlobs()
	blobs.put(persist.GameStateKey, []byte("{not json"))

	adapter := persist.NewAdapter(blobs, nil)
	state, ok := adapter.Restore(context.Background())
	assert.False(t, ok)
	assert.Empty(t, state.GameID)
}

func TestNotify_LatestSnapshotWins(t *testing.T) {
	ctx := context.Background()
	blobs := newFakeBlobs()

	stale := testutil.PopulatedGameState()
	fresh := testutil.PopulatedGameState()
	fresh.HomeTeam.Score = 50

	adapter := persist.NewAdapter(blobs, nil)
	// both queued before the write loop starts; the stale one is dropped
	adapter.Notify(stale)
	adapter.Notify(fresh)
	adapter.Start(ctx)
	adapter.Stop()

	restored, ok := persist.NewAdapter(blobs, nil).Restore(ctx)
	assert.True(t, ok)
	assert.Equal(t, 50, restored.HomeTeam.Score)
}

func TestWriteFailure_DoesNotPropagate(t *testing.T) {
	ctx := context.Background()
	blobs := newFakeBlobs()
	blobs.saveErr = errors.New("disk on fire")

	adapter := persist.NewAdapter(blobs, nil)
	adapter.Notify(testutil.PopulatedGameState())
	adapter.Start(ctx)
	adapter.Stop() // must not panic or surface the error

	_, ok := adapter.Restore(ctx)
	assert.False(t, ok)
}
