package units

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Unit clients connect from the field app's origin; same policy as
	// the HTTP CORS layer.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Handler struct {
	hub    *Hub
	logger zerolog.Logger
}

func NewHandler(hub *Hub, logger zerolog.Logger) *Handler {
	return &Handler{hub: hub, logger: logger}
}

type locationUpdate struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Serve upgrades the connection and pumps location updates into the hub
// until the peer disconnects.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	unitID := chi.URLParam(r, "unitID")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Str("unit_id", unitID).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	h.hub.Register(conn)
	defer func() {
		h.hub.Unregister(conn)
		h.hub.Drop(unitID)
	}()

	for {
		var update locationUpdate
		if err := conn.ReadJSON(&update); err != nil {
			return
		}
		if update.Latitude == nil || update.Longitude == nil {
			continue
		}
		h.hub.UpdateLocation(unitID, *update.Latitude, *update.Longitude)
	}
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/ws/location/{unitID}", h.Serve)
}
