package models

// LatLon is a geographic coordinate pair
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Zone is a named polygon used to place synthetic incidents
type Zone struct {
	Name   string   `json:"name"`
	Bounds []LatLon `json:"bounds"` // polygon vertices, in order
	Center LatLon   `json:"center"`
}
