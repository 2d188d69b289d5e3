package picker

import (
	"context"
	"time"

	"github.com/couchcryptid/pg-locator/internal/domain"
)

// Host receives the coordinate and address updates the picker proposes.
// Implementations must be safe for concurrent use.
type Host interface {
	OnCoordinatesChange(c domain.Coordinate)
	OnAddressChange(address string)
	// OnAddressFetchingChange brackets every reverse lookup: true before it
	// starts, false exactly once after it settles.
	OnAddressFetchingChange(fetching bool)
}

// HostFuncs adapts plain functions to Host. Nil fields are skipped.
type HostFuncs struct {
	Coordinates     func(domain.Coordinate)
	Address         func(string)
	AddressFetching func(bool)
}

func (h HostFuncs) OnCoordinatesChange(c domain.Coordinate) {
	if h.Coordinates != nil {
		h.Coordinates(c)
	}
}

func (h HostFuncs) OnAddressChange(address string) {
	if h.Address != nil {
		h.Address(address)
	}
}

func (h HostFuncs) OnAddressFetchingChange(fetching bool) {
	if h.AddressFetching != nil {
		h.AddressFetching(fetching)
	}
}

// MapView is the map surface the picker moves programmatically.
type MapView interface {
	AnimateToRegion(r domain.Region, duration time.Duration)
}

// Alerter shows blocking, user-visible messages.
type Alerter interface {
	Alert(title, message string)
}

// PermissionProvider checks (and if needed requests) location permission.
type PermissionProvider interface {
	LocationPermission(ctx context.Context) (bool, error)
}

// PositionOptions are passed through to the device position request.
type PositionOptions struct {
	HighAccuracy bool
	MaximumAge   time.Duration
	Timeout      time.Duration
}

// PositionProvider returns the device's current position.
type PositionProvider interface {
	CurrentPosition(ctx context.Context, opts PositionOptions) (domain.Coordinate, error)
}

// Alert texts.
const (
	PermissionAlertTitle   = "Permission required"
	PermissionAlertMessage = "Location permission is needed to pick a place on the map."
	LocateAlertTitle       = "Location unavailable"
	LocateAlertMessage     = "Unable to fetch your current location. Please try again."
)
