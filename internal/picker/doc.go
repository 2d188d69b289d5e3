// Package picker implements a headless location picker: the state behind a
// map card where a person searches for an address, drags the map, or asks for
// the device position, and the surrounding form receives a coordinate and an
// address.
//
// A Picker owns the map region and the search box. The host owns the
// coordinate and address; the picker only proposes updates through [Host]
// and learns about host-side changes through [Picker.SetCoordinates] and
// [Picker.SetAddress].
//
// Four flows feed one pipeline (coordinate update, region update, optional
// animation, reverse lookup, host notification):
//
//   - host moves: SetCoordinates with a 0.001 degree threshold
//   - map drags: RegionChangeComplete with a 0.0005 degree threshold
//   - search: SetSearchText debounced by 400ms, then SelectResult
//   - device position: LocateMe
//
// Lookups run on their own goroutines. Each search and each reverse lookup
// carries a sequence number and a response that arrives after a newer
// request was issued is dropped. Host methods may therefore be called from
// any goroutine, but never while the picker holds its lock, so a host may
// call back into the picker from inside a callback.
package picker
