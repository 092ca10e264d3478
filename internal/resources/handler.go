package resources

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Default map center when the client sends no coordinates (Manhattan).
const (
	defaultLatitude  = 40.7128
	defaultLongitude = -74.0060
)

type Handler struct {
	board *HospitalBoard
	feed  *IncidentFeed
}

func NewHandler(board *HospitalBoard, feed *IncidentFeed) *Handler {
	return &Handler{board: board, feed: feed}
}

func (h *Handler) ListHospitals(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"hospitals": h.board.List()})
}

func (h *Handler) ListIncidents(w http.ResponseWriter, r *http.Request) {
	lat := queryFloat(r, "latitude", defaultLatitude)
	lng := queryFloat(r, "longitude", defaultLongitude)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"incidents": h.feed.Near(lat, lng)})
}

func queryFloat(r *http.Request, key string, fallback float64) float64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/hospitals", h.ListHospitals)
	r.Get("/incidents", h.ListIncidents)
}
