package storage

import (
	"database/sql"
	"time"

	"github.com/emcr30/chicago-web/internal/models"
)

const selectColumns = `SELECT id, case_number, date, block, iucr, primary_type,
	description, location_description, arrest, domestic, beat, district, ward,
	community_area, fbi_code, year, updated_on, latitude, longitude`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanIncident reads one row in the crimes column order. Dates are stored
// as RFC3339 text; lat/lon may be NULL.
func scanIncident(row rowScanner) (*models.Incident, error) {
	var inc models.Incident
	var date, updatedOn string
	var arrest, domestic int
	var lat, lon sql.NullFloat64

	err := row.Scan(
		&inc.ID, &inc.CaseNumber, &date, &inc.Block, &inc.IUCR,
		&inc.PrimaryType, &inc.Description, &inc.LocationDescription,
		&arrest, &domestic, &inc.Beat, &inc.District, &inc.Ward,
		&inc.CommunityArea, &inc.FBICode, &inc.Year, &updatedOn, &lat, &lon,
	)
	if err != nil {
		return nil, err
	}

	if t, err := time.Parse(time.RFC3339, date); err == nil {
		inc.Date = t
	}
	if t, err := time.Parse(time.RFC3339, updatedOn); err == nil {
		inc.UpdatedOn = t
	}
	inc.Arrest = arrest != 0
	inc.Domestic = domestic != 0
	if lat.Valid {
		inc.Latitude = &lat.Float64
	}
	if lon.Valid {
		inc.Longitude = &lon.Float64
	}

	return &inc, nil
}

func scanIncidents(rows *sql.Rows) ([]models.Incident, error) {
	var incidents []models.Incident
	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			return nil, err
		}
		incidents = append(incidents, *inc)
	}
	return incidents, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullFloat(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}
