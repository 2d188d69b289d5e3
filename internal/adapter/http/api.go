package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-playground/validator/v10"

	"github.com/couchcryptid/pg-locator/internal/domain"
)

type searchParams struct {
	Query string `validate:"required,max=256"`
	Limit int    `validate:"min=1,max=50"`
}

type reverseParams struct {
	Lat    string `validate:"required,latitude"`
	Lon    string `validate:"required,longitude"`
	Detail string `validate:"omitempty,oneof=coarse full"`
}

type searchResponse struct {
	Results []domain.SearchResult `json:"results"`
}

type reverseResponse struct {
	Latitude  float64      `json:"lat"`
	Longitude float64      `json:"lon"`
	Address   string       `json:"address"`
	Detail    string       `json:"detail"`
	Place     domain.Place `json:"place"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type api struct {
	geocoder    domain.Geocoder
	searchLimit int
	validate    *validator.Validate
	logger      *slog.Logger
}

func newAPI(geocoder domain.Geocoder, searchLimit int, logger *slog.Logger) *api {
	if searchLimit <= 0 {
		searchLimit = 5
	}
	return &api{
		geocoder:    geocoder,
		searchLimit: searchLimit,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		logger:      logger,
	}
}

func (a *api) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := searchParams{
		Query: strings.TrimSpace(q.Get("q")),
		Limit: a.searchLimit,
	}
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		params.Limit = n
	}
	if err := a.validate.Struct(params); err != nil {
		writeError(w, http.StatusBadRequest, describe(err))
		return
	}

	results, err := a.geocoder.Search(r.Context(), params.Query, params.Limit)
	if err != nil {
		a.logger.Warn("search failed", "query", params.Query, "error", err)
		writeError(w, http.StatusBadGateway, "geocoding provider unavailable")
		return
	}
	if results == nil {
		results = []domain.SearchResult{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Results: results})
}

func (a *api) handleReverse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := reverseParams{
		Lat:    strings.TrimSpace(q.Get("lat")),
		Lon:    strings.TrimSpace(q.Get("lon")),
		Detail: q.Get("detail"),
	}
	if err := a.validate.Struct(params); err != nil {
		writeError(w, http.StatusBadRequest, describe(err))
		return
	}

	c, err := domain.SearchResult{Latitude: params.Lat, Longitude: params.Lon}.Coordinate()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	detail, err := domain.ParseAddressDetail(params.Detail)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	place, err := a.geocoder.Reverse(r.Context(), c.Latitude, c.Longitude)
	if err != nil {
		a.logger.Warn("reverse geocoding failed", "lat", c.Latitude, "lon", c.Longitude, "error", err)
		writeError(w, http.StatusBadGateway, "geocoding provider unavailable")
		return
	}
	writeJSON(w, http.StatusOK, reverseResponse{
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
		Address:   domain.FormatAddress(place, detail, ""),
		Detail:    detail.String(),
		Place:     place,
	})
}

// describe turns validation errors into a short client-facing message.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	name := map[string]string{
		"Query":  "q",
		"Limit":  "limit",
		"Lat":    "lat",
		"Lon":    "lon",
		"Detail": "detail",
	}[fe.Field()]
	if fe.Tag() == "required" {
		return fmt.Sprintf("missing %s", name)
	}
	return fmt.Sprintf("invalid %s", name)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	sharedobs.WriteJSON(w, status, v)
}
