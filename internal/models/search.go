package models

// StreetSearchQuery is a free-text street lookup against the remote geocoder.
type StreetSearchQuery struct {
	Query   string `json:"query"`
	City    string `json:"city"`
	Country string `json:"country"`
	Limit   int    `json:"limit"`
}

// StreetSearchResult is one candidate returned by the remote geocoder.
type StreetSearchResult struct {
	DisplayName string     `json:"display_name"`
	Lat         float64    `json:"lat"`
	Lon         float64    `json:"lon"`
	Importance  float64    `json:"importance"`
	BoundingBox [4]float64 `json:"boundingbox"`
	PlaceID     int64      `json:"place_id,omitempty"`
	OSMType     string     `json:"osm_type,omitempty"`
	OSMID       int64      `json:"osm_id,omitempty"`
}

// ReverseGeocodeResult is the address found near a coordinate.
type ReverseGeocodeResult struct {
	DisplayName string `json:"display_name"`
	HouseNumber string `json:"house_number,omitempty"`
	Road        string `json:"road,omitempty"`
	Suburb      string `json:"suburb,omitempty"`
	City        string `json:"city,omitempty"`
	Postcode    string `json:"postcode,omitempty"`
}
