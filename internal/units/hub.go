// Package units tracks live EMS unit locations and broadcasts the full
// location map to every connected peer on each change.
package units

import (
	"sync"
	"time"
)

// Location is the last reported position of one unit.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	UnitID    string  `json:"unit_id"`
	Timestamp string  `json:"timestamp"`
}

// Conn is the peer abstraction the hub writes to. *websocket.Conn
// satisfies it via the handler's adapter.
type Conn interface {
	WriteJSON(v any) error
}

// broadcastMessage is the wire shape every peer receives: always the
// full unit map, never a delta.
type broadcastMessage struct {
	Type  string              `json:"type"`
	Units map[string]Location `json:"units"`
}

// Hub is the connection registry. All access is mutex-serialized; a
// failed write to one peer never affects delivery to the others.
type Hub struct {
	mu        sync.Mutex
	peers     map[Conn]struct{}
	locations map[string]Location
}

func NewHub() *Hub {
	return &Hub{
		peers:     make(map[Conn]struct{}),
		locations: make(map[string]Location),
	}
}

// Register adds a peer to the broadcast set.
func (h *Hub) Register(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.peers[c] = struct{}{}
}

// Unregister removes a peer. Removing an unknown peer is a no-op.
func (h *Hub) Unregister(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.peers, c)
}

// UpdateLocation records the unit's position and broadcasts the full map.
func (h *Hub) UpdateLocation(unitID string, lat, lng float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.locations[unitID] = Location{
		Latitude:  lat,
		Longitude: lng,
		UnitID:    unitID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	h.broadcastLocked()
}

// Drop removes a disconnected unit from the map and tells the remaining
// peers about the shrunken set.
func (h *Hub) Drop(unitID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.locations[unitID]; !ok {
		return
	}
	delete(h.locations, unitID)
	h.broadcastLocked()
}

func (h *Hub) broadcastLocked() {
	msg := broadcastMessage{Type: "location_update", Units: h.locations}
	for peer := range h.peers {
		// Dead peers error here; they get cleaned up by their own
		// read loop on disconnect.
		_ = peer.WriteJSON(msg)
	}
}
