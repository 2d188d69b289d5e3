package domain

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// SearchResult is one forward-search hit. Latitude and Longitude hold the
// provider's decimal strings unparsed.
type SearchResult struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Latitude    string `json:"lat"`
	Longitude   string `json:"lon"`
}

// Coordinate parses the result's position. Unparseable or out-of-range values
// return an error.
func (r SearchResult) Coordinate() (Coordinate, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(r.Latitude), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("parse latitude %q: %w", r.Latitude, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(r.Longitude), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("parse longitude %q: %w", r.Longitude, err)
	}
	c := Coordinate{Latitude: lat, Longitude: lon}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

// AddressParts holds the structured address components of a reverse lookup.
type AddressParts struct {
	Road          string `json:"road,omitempty"`
	Neighbourhood string `json:"neighbourhood,omitempty"`
	City          string `json:"city,omitempty"`
	State         string `json:"state,omitempty"`
	Postcode      string `json:"postcode,omitempty"`
	Country       string `json:"country,omitempty"`
}

// Place is the result of a reverse lookup.
type Place struct {
	DisplayName string       `json:"display_name"`
	Address     AddressParts `json:"address"`
}

// Searcher resolves free text into candidate places.
type Searcher interface {
	// Search returns up to limit results for query. An empty slice means no match.
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
}

// ReverseGeocoder resolves a coordinate into place details.
type ReverseGeocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (Place, error)
}

// Geocoder provides both lookup directions.
type Geocoder interface {
	Searcher
	ReverseGeocoder
}
