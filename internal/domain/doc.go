// Package domain models the coordinates, viewports and geocoding payloads a
// location picker works with.
//
// # Coordinates
//
// A [Coordinate] is a WGS-84 latitude/longitude pair in decimal degrees.
// Latitude is bounded to [-90, 90] and longitude to [-180, 180]; anything
// outside fails [Coordinate.Validate] with [ErrInvalidCoordinate].
//
// # Regions
//
// A [Region] is a map viewport: a center plus a latitude/longitude span.
// Smaller spans mean a closer zoom. Two spans are used:
//
//	DefaultSpan (0.05)  general display, host-driven moves
//	TightSpan   (0.01)  centering on a freshly resolved point
//	                    (search selection, device location)
//
// # Geocoding Payloads
//
// Forward search results keep latitude and longitude as the decimal strings
// the provider returned. They are parsed only when a result is selected, and a
// result that does not parse is ignored rather than repaired.
//
// Reverse lookups return a [Place]: the provider's full display name plus the
// structured address parts (road, neighbourhood, city, state, postcode,
// country). [FormatAddress] turns a Place into the single-line address shown
// to the user:
//
//	DetailCoarse  city, state, postcode, country
//	DetailFull    road, neighbourhood, city, state, postcode, country
//
// Missing parts are skipped and the rest joined with ", ". When nothing is
// left the fallback order is display name, city, state, then the address the
// caller already holds.
package domain
