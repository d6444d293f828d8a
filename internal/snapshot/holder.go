package snapshot

import (
	"sync"
	"time"

	"tours365/internal/model"
)

// Holder is the current snapshot of one site, swapped in whole on reload.
type Holder struct {
	mu       sync.RWMutex
	snap     model.Snapshot
	loadedAt time.Time
}

func NewHolder(snap model.Snapshot) *Holder {
	h := &Holder{}
	h.Swap(snap)
	return h
}

// Get returns the current snapshot. Callers must not modify it.
func (h *Holder) Get() model.Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snap
}

// Swap replaces the current snapshot.
func (h *Holder) Swap(snap model.Snapshot) {
	if snap == nil {
		snap = model.Snapshot{}
	}
	h.mu.Lock()
	h.snap = snap
	h.loadedAt = time.Now()
	h.mu.Unlock()
}

// LoadedAt is when the current snapshot was swapped in.
func (h *Holder) LoadedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.loadedAt
}
