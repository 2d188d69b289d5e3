package domain

import (
	"fmt"
	"strings"
)

// AddressDetail selects which address parts FormatAddress includes.
type AddressDetail int

const (
	// DetailCoarse keeps city, state, postcode and country.
	DetailCoarse AddressDetail = iota
	// DetailFull adds road and neighbourhood in front of the coarse parts.
	DetailFull
)

func (d AddressDetail) String() string {
	if d == DetailCoarse {
		return "coarse"
	}
	return "full"
}

// ParseAddressDetail maps "coarse" or "full" to an AddressDetail. An empty
// string means full.
func ParseAddressDetail(s string) (AddressDetail, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "full":
		return DetailFull, nil
	case "coarse":
		return DetailCoarse, nil
	default:
		return DetailFull, fmt.Errorf("unknown address detail %q", s)
	}
}

// FormatAddress builds a single-line address from p. current is the address
// the caller already holds and is the last non-empty fallback.
func FormatAddress(p Place, detail AddressDetail, current string) string {
	a := p.Address
	parts := make([]string, 0, 6)
	if detail == DetailFull {
		parts = append(parts, a.Road, a.Neighbourhood)
	}
	parts = append(parts, a.City, a.State, a.Postcode, a.Country)

	if s := joinNonEmpty(parts, ", "); s != "" {
		return s
	}
	return firstNonEmpty(p.DisplayName, a.City, a.State, current)
}

func joinNonEmpty(parts []string, sep string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
