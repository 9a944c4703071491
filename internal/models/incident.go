package models

import (
	"strings"
	"time"
)

// SyntheticIDPrefix marks generated records. Real Chicago record IDs are
// numeric, so the prefix reserves an ID space that never collides with
// fetched data.
const SyntheticIDPrefix = "SYN-"

// Incident is one crime report, fetched from the open-data feed or
// produced by the generator.
type Incident struct {
	ID                  string    `json:"id"`
	CaseNumber          string    `json:"case_number"`
	Date                time.Time `json:"date"`
	Block               string    `json:"block"`
	IUCR                string    `json:"iucr"`
	PrimaryType         string    `json:"primary_type"`
	Description         string    `json:"description"`
	LocationDescription string    `json:"location_description"`
	Arrest              bool      `json:"arrest"`
	Domestic            bool      `json:"domestic"`
	Beat                string    `json:"beat"`
	District            string    `json:"district"`
	Ward                string    `json:"ward"`
	CommunityArea       string    `json:"community_area"`
	FBICode             string    `json:"fbi_code"`
	Year                int       `json:"year"`
	UpdatedOn           time.Time `json:"updated_on"`
	Latitude            *float64  `json:"latitude,omitempty"`
	Longitude           *float64  `json:"longitude,omitempty"`
}

// HasCoordinates reports whether the record can be placed on the map.
func (i Incident) HasCoordinates() bool {
	return i.Latitude != nil && i.Longitude != nil
}

// IsSynthetic reports whether the record came from the generator.
func (i Incident) IsSynthetic() bool {
	return strings.HasPrefix(i.ID, SyntheticIDPrefix)
}
