// Package telemetry streams committed camera poses to websocket clients.
package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/Carmen-Shannon/spacenav/engine/camera"
	"github.com/Carmen-Shannon/spacenav/engine/pivot"
	"github.com/gorilla/websocket"
)

const (
	clientBuffer = 16
	writeTimeout = time.Second
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// Snapshot is one committed view state.
type Snapshot struct {
	Revision      uint64       `json:"revision"`
	Position      [3]float64   `json:"position"`
	Orientation   [4]float64   `json:"orientation"`
	FocalDistance float64      `json:"focal_distance"`
	Height        float64      `json:"height"`
	Projection    string       `json:"projection"`
	Marker        pivot.Marker `json:"marker"`
	Navigating    bool         `json:"navigating"`
	Time          time.Time    `json:"time"`
}

// SnapshotOf reads a camera into a Snapshot.
//
// Parameters:
//   - cam: the camera
//   - marker: the current pivot marker
//   - navigating: whether a navigation session is active
//
// Returns:
//   - Snapshot: the snapshot
func SnapshotOf(cam camera.Camera, marker pivot.Marker, navigating bool) Snapshot {
	return snapshotFrom(cam.Snapshot(), marker, navigating)
}

func snapshotFrom(view camera.Snapshot, marker pivot.Marker, navigating bool) Snapshot {
	pose := view.Pose
	return Snapshot{
		Revision:      view.Revision,
		Position:      [3]float64(pose.Position),
		Orientation:   [4]float64(pose.Orientation),
		FocalDistance: pose.FocalDistance,
		Height:        pose.Height,
		Projection:    view.Projection.String(),
		Marker:        marker,
		Navigating:    navigating,
		Time:          time.Now(),
	}
}

// Hub fans snapshots out to websocket clients on /ws and serves the latest one on /api/pose.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]chan []byte
	latest  []byte
	sent    uint64
	dropped uint64
}

// NewHub creates a hub with no clients.
func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]chan []byte)}
}

// Handler returns the HTTP routes.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.handleWS)
	mux.HandleFunc("/api/pose", h.handlePose)
	return mux
}

// Publish broadcasts a snapshot. Clients whose buffer is full miss it.
//
// Parameters:
//   - s: the snapshot
func (h *Hub) Publish(s Snapshot) {
	b, err := json.Marshal(s)
	if err != nil {
		log.Printf("telemetry: failed to encode snapshot: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = b
	for _, ch := range h.clients {
		select {
		case ch <- b:
			h.sent++
		default:
			h.dropped++
		}
	}
}

// Clients returns the number of connected websocket clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ListenAndServe serves the hub on addr until ctx ends.
//
// Parameters:
//   - ctx: stops the server
//   - addr: listen address, e.g. 127.0.0.1:8765
//
// Returns:
//   - error: nil after a clean shutdown
func (h *Hub) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: h.Handler()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("telemetry: listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (h *Hub) handlePose(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	b := h.latest
	h.mu.Unlock()

	if b == nil {
		http.Error(w, "no pose committed yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(b)
}

// handleWS upgrades HTTP to websocket and registers the client for broadcasts.
func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	ch := make(chan []byte, clientBuffer)

	h.mu.Lock()
	h.clients[conn] = ch
	if h.latest != nil {
		ch <- h.latest
	}
	h.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			if err := conn.Close(); err != nil {
				log.Printf("telemetry: failed to close websocket: %v", err)
			}
		}()
		for {
			select {
			case <-done:
				return
			case b := <-ch:
				_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					return
				}
			}
		}
	}()
}

// PoseWatcher publishes a camera's pose only when a new one has been committed.
type PoseWatcher struct {
	hub    *Hub
	cam    camera.Camera
	marker func() pivot.Marker
	active func() bool
	last   uint64
	seen   bool
}

// NewPoseWatcher creates a watcher for cam. marker and active may be nil.
//
// Parameters:
//   - hub: where snapshots go
//   - cam: the watched camera
//   - marker: returns the current pivot marker
//   - active: reports whether navigation is running
//
// Returns:
//   - *PoseWatcher: the watcher
func NewPoseWatcher(hub *Hub, cam camera.Camera, marker func() pivot.Marker, active func() bool) *PoseWatcher {
	return &PoseWatcher{hub: hub, cam: cam, marker: marker, active: active}
}

// Check publishes if the camera revision moved since the last call.
//
// Returns:
//   - bool: whether a snapshot was published
func (p *PoseWatcher) Check() bool {
	view := p.cam.Snapshot()
	if p.seen && view.Revision == p.last {
		return false
	}
	p.last, p.seen = view.Revision, true

	var mk pivot.Marker
	if p.marker != nil {
		mk = p.marker()
	}
	navigating := p.active != nil && p.active()
	p.hub.Publish(snapshotFrom(view, mk, navigating))
	return true
}
