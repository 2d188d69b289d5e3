package domain

import (
	"errors"
	"fmt"
	"math"
)

// Viewport spans in degrees.
const (
	DefaultSpan = 0.05
	TightSpan   = 0.01
)

// ErrInvalidCoordinate is returned for latitudes or longitudes outside the WGS-84 range.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Coordinate is a WGS-84 latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate reports whether both axes are finite and within range.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Latitude) || c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v", ErrInvalidCoordinate, c.Latitude)
	}
	if math.IsNaN(c.Longitude) || c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v", ErrInvalidCoordinate, c.Longitude)
	}
	return nil
}

// MovedBeyond reports whether c differs from prev by more than threshold
// degrees on either axis.
func (c Coordinate) MovedBeyond(prev Coordinate, threshold float64) bool {
	return math.Abs(c.Latitude-prev.Latitude) > threshold ||
		math.Abs(c.Longitude-prev.Longitude) > threshold
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Latitude, c.Longitude)
}

// Region is a map viewport: a center plus the visible span on each axis.
type Region struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	LatitudeDelta  float64 `json:"latitude_delta"`
	LongitudeDelta float64 `json:"longitude_delta"`
}

// RegionAt returns a region centered on c with the same span on both axes.
func RegionAt(c Coordinate, span float64) Region {
	return Region{
		Latitude:       c.Latitude,
		Longitude:      c.Longitude,
		LatitudeDelta:  span,
		LongitudeDelta: span,
	}
}

// Center returns the region's center coordinate.
func (r Region) Center() Coordinate {
	return Coordinate{Latitude: r.Latitude, Longitude: r.Longitude}
}

// Recenter moves the region to c and keeps its current spans.
func (r Region) Recenter(c Coordinate) Region {
	r.Latitude = c.Latitude
	r.Longitude = c.Longitude
	return r
}

// earthRadius is the WGS-84 semi-major axis in meters.
const earthRadius = 6378137.0

// DistanceMeters returns the haversine great-circle distance between a and b.
func DistanceMeters(a, b Coordinate) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadius * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
