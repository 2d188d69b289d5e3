package nominatim

import (
	"encoding/json"
	"strings"

	"github.com/couchcryptid/pg-locator/internal/domain"
)

// Nominatim API response types.

type searchItem struct {
	PlaceID     json.Number `json:"place_id"`
	DisplayName string      `json:"display_name"`
	Lat         string      `json:"lat"`
	Lon         string      `json:"lon"`
}

type reverseResponse struct {
	DisplayName string  `json:"display_name"`
	Address     address `json:"address"`
	Error       string  `json:"error"`
}

type address struct {
	Road          string `json:"road,omitempty"`
	Neighbourhood string `json:"neighbourhood,omitempty"`
	Suburb        string `json:"suburb,omitempty"`
	City          string `json:"city,omitempty"`
	Town          string `json:"town,omitempty"`
	Village       string `json:"village,omitempty"`
	State         string `json:"state,omitempty"`
	Postcode      string `json:"postcode,omitempty"`
	Country       string `json:"country,omitempty"`
}

func (r reverseResponse) place() domain.Place {
	return domain.Place{
		DisplayName: strings.TrimSpace(r.DisplayName),
		Address: domain.AddressParts{
			Road:          r.Address.Road,
			Neighbourhood: firstOf(r.Address.Neighbourhood, r.Address.Suburb),
			City:          firstOf(r.Address.City, r.Address.Town, r.Address.Village),
			State:         r.Address.State,
			Postcode:      r.Address.Postcode,
			Country:       r.Address.Country,
		},
	}
}

// firstOf returns the first non-empty value. Nominatim reports smaller
// settlements as town or village instead of city.
func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
