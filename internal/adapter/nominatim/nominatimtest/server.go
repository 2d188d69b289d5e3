// Package nominatimtest provides an in-process stand-in for the Nominatim
// search and reverse APIs, serving canned places. It backs adapter tests and
// the fakegeo development server.
package nominatimtest

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/couchcryptid/pg-locator/internal/domain"
)

// DefaultMaxDistance is how far, in meters, a reverse lookup may be from a
// fixture and still resolve to it.
const DefaultMaxDistance = 5000

// Fixture is one canned place.
type Fixture struct {
	PlaceID     int64               `json:"place_id"`
	Coordinate  domain.Coordinate   `json:"coordinate"`
	DisplayName string              `json:"display_name"`
	Address     domain.AddressParts `json:"address"`
}

// Handler answers /search, /reverse and /status from a fixed set of places.
type Handler struct {
	fixtures    []Fixture
	maxDistance float64

	searches atomic.Int64
	reverses atomic.Int64

	mu         sync.Mutex
	lastHeader http.Header
}

// NewHandler creates a handler over fixtures.
func NewHandler(fixtures []Fixture) *Handler {
	return &Handler{fixtures: fixtures, maxDistance: DefaultMaxDistance}
}

// NewServer starts an httptest server backed by a new Handler.
func NewServer(fixtures []Fixture) (*httptest.Server, *Handler) {
	h := NewHandler(fixtures)
	return httptest.NewServer(h), h
}

// Searches returns the number of /search requests served.
func (h *Handler) Searches() int64 { return h.searches.Load() }

// Reverses returns the number of /reverse requests served.
func (h *Handler) Reverses() int64 { return h.reverses.Load() }

// LastHeader returns the headers of the most recent geocoding request.
func (h *Handler) LastHeader() http.Header {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastHeader.Clone()
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	switch strings.TrimSuffix(r.URL.Path, "/") {
	case "/search":
		h.record(r)
		h.searches.Add(1)
		h.handleSearch(w, r)
	case "/reverse":
		h.record(r)
		h.reverses.Add(1)
		h.handleReverse(w, r)
	case "/status":
		writeJSON(w, http.StatusOK, map[string]any{"status": 0, "message": "OK"})
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) record(r *http.Request) {
	h.mu.Lock()
	h.lastHeader = r.Header.Clone()
	h.mu.Unlock()
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	terms := strings.Fields(strings.ToLower(q.Get("q")))
	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}

	out := make([]place, 0, limit)
	for _, f := range h.fixtures {
		if len(out) == limit {
			break
		}
		if len(terms) > 0 && matchesAll(strings.ToLower(f.DisplayName), terms) {
			out = append(out, toPlace(f))
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleReverse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(q.Get("lon"), 64)
	if errLat != nil || errLon != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Parameter 'lat' and 'lon' must be numbers"})
		return
	}

	at := domain.Coordinate{Latitude: lat, Longitude: lon}
	best, bestDist := -1, math.Inf(1)
	for i, f := range h.fixtures {
		if d := domain.DistanceMeters(at, f.Coordinate); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 || bestDist > h.maxDistance {
		writeJSON(w, http.StatusOK, map[string]string{"error": "Unable to geocode"})
		return
	}
	writeJSON(w, http.StatusOK, toPlace(h.fixtures[best]))
}

// place mirrors the Nominatim jsonv1 payload.
type place struct {
	PlaceID     int64               `json:"place_id"`
	DisplayName string              `json:"display_name"`
	Lat         string              `json:"lat"`
	Lon         string              `json:"lon"`
	Address     domain.AddressParts `json:"address"`
}

func toPlace(f Fixture) place {
	return place{
		PlaceID:     f.PlaceID,
		DisplayName: f.DisplayName,
		Lat:         strconv.FormatFloat(f.Coordinate.Latitude, 'f', 7, 64),
		Lon:         strconv.FormatFloat(f.Coordinate.Longitude, 'f', 7, 64),
		Address:     f.Address,
	}
}

func matchesAll(s string, terms []string) bool {
	for _, t := range terms {
		if !strings.Contains(s, t) {
			return false
		}
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // test double
}
