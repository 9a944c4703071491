package models

import "time"

// IncidentFilter represents filter parameters for the working-set listing
type IncidentFilter struct {
	Category    string `form:"category"`
	ArrestsOnly bool   `form:"arrestsOnly"`
	Limit       int    `form:"limit"`
}

// StoreFilter represents filter parameters for reading the local store
type StoreFilter struct {
	From  time.Time // zero means unbounded
	To    time.Time
	Limit int
}

// FetchRequest represents parameters for a fetch from the open-data API
type FetchRequest struct {
	Limit   int    `json:"limit"`
	MinDate string `json:"minDate"` // YYYY-MM-DD, optional
	Persist bool   `json:"persist"`
}

// GenerateRequest represents parameters for synthetic record generation
type GenerateRequest struct {
	Zone      string   `json:"zone"` // named zone; empty means center+radius
	CenterLat float64  `json:"centerLat"`
	CenterLon float64  `json:"centerLon"`
	Radius    float64  `json:"radius"`
	Count     int      `json:"count"`
	Types     []string `json:"types"`
	Persist   bool     `json:"persist"`
}
