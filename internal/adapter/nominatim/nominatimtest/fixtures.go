package nominatimtest

import "github.com/couchcryptid/pg-locator/internal/domain"

// DefaultFixtures returns a handful of places around Indian PG hubs.
func DefaultFixtures() []Fixture {
	return []Fixture{
		{
			PlaceID:     1001,
			Coordinate:  domain.Coordinate{Latitude: 26.9124, Longitude: 75.7873},
			DisplayName: "MG Road, C-Scheme, Jaipur, Rajasthan, 302001, India",
			Address: domain.AddressParts{
				Road: "MG Road", Neighbourhood: "C-Scheme", City: "Jaipur",
				State: "Rajasthan", Postcode: "302001", Country: "India",
			},
		},
		{
			PlaceID:     1002,
			Coordinate:  domain.Coordinate{Latitude: 12.9716, Longitude: 77.5946},
			DisplayName: "Bengaluru, Bangalore North, Karnataka, 560001, India",
			Address: domain.AddressParts{
				City: "Bengaluru", State: "Karnataka", Postcode: "560001", Country: "India",
			},
		},
		{
			PlaceID:     1003,
			Coordinate:  domain.Coordinate{Latitude: 12.9352, Longitude: 77.6245},
			DisplayName: "80 Feet Road, Koramangala, Bengaluru, Karnataka, 560034, India",
			Address: domain.AddressParts{
				Road: "80 Feet Road", Neighbourhood: "Koramangala", City: "Bengaluru",
				State: "Karnataka", Postcode: "560034", Country: "India",
			},
		},
		{
			PlaceID:     1004,
			Coordinate:  domain.Coordinate{Latitude: 18.5204, Longitude: 73.8567},
			DisplayName: "FC Road, Shivajinagar, Pune, Maharashtra, 411005, India",
			Address: domain.AddressParts{
				Road: "FC Road", Neighbourhood: "Shivajinagar", City: "Pune",
				State: "Maharashtra", Postcode: "411005", Country: "India",
			},
		},
		{
			PlaceID:     1005,
			Coordinate:  domain.Coordinate{Latitude: 28.6139, Longitude: 77.2090},
			DisplayName: "Connaught Place, New Delhi, Delhi, 110001, India",
			Address: domain.AddressParts{
				Neighbourhood: "Connaught Place", City: "New Delhi",
				State: "Delhi", Postcode: "110001", Country: "India",
			},
		},
	}
}
