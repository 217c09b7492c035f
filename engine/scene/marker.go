package scene

import (
	"sync"

	"github.com/Carmen-Shannon/spacenav/engine/pivot"
)

// MarkerStore keeps the latest pivot marker for the presenter and telemetry to read.
type MarkerStore struct {
	mu      sync.RWMutex
	marker  pivot.Marker
	updates uint64
}

var _ pivot.MarkerSink = &MarkerStore{}

// NewMarkerStore creates a store holding a hidden marker.
func NewMarkerStore() *MarkerStore {
	return &MarkerStore{}
}

func (m *MarkerStore) ShowMarker(mk pivot.Marker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mk.Visible = true
	m.marker = mk
	m.updates++
}

func (m *MarkerStore) HideMarker() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.marker.Visible = false
	m.updates++
}

// Marker returns the current marker; Visible is false while hidden.
func (m *MarkerStore) Marker() pivot.Marker {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.marker
}

// Updates counts Show and Hide calls.
func (m *MarkerStore) Updates() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.updates
}
