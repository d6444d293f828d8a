package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"tours365/internal/model"
)

func TestHolder(t *testing.T) {
	h := NewHolder(nil)
	assert.NotNil(t, h.Get())
	first := h.LoadedAt()

	h.Swap(sampleSnapshot())
	assert.Len(t, h.Get(), 2)
	assert.False(t, h.LoadedAt().Before(first))
}

func TestWatcher_ReloadsOnReplace(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "prg365.json")
	require.NoError(t, SaveFile(path, model.Snapshot{}))

	holder := NewHolder(model.Snapshot{})
	w, err := NewWatcher(path, holder, zap.NewNop())
	require.NoError(t, err)
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	require.NoError(t, SaveFile(path, sampleSnapshot()))

	require.Eventually(t, func() bool {
		return len(holder.Get()) == 2
	}, 5*time.Second, 10*time.Millisecond)

	w.Stop()
}

func TestWatcher_KeepsSnapshotOnBadFile(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "prg365.json")
	require.NoError(t, SaveFile(path, sampleSnapshot()))

	holder := NewHolder(sampleSnapshot())
	w, err := NewWatcher(path, holder, zap.NewNop())
	require.NoError(t, err)
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(path, []byte(`{"broken":`), 0o644))
	// a sibling file must not trigger a reload either
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.json"), []byte(`{}`), 0o644))

	time.Sleep(150 * time.Millisecond)
	assert.Len(t, holder.Get(), 2)

	w.Stop()
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := NewWatcher(filepath.Join(t.TempDir(), "x.json"), NewHolder(nil), zap.NewNop())
	require.NoError(t, err)
	w.Stop()
}
