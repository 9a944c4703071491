package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/emcr30/chicago-web/internal/models"
)

var csvHeader = []string{
	"id", "case_number", "date", "block", "iucr", "primary_type",
	"description", "location_description", "arrest", "domestic", "beat",
	"district", "ward", "community_area", "fbi_code", "year", "updated_on",
	"latitude", "longitude",
}

// WriteCSV writes incidents as CSV, header first. Used by the dashboard
// export download.
func WriteCSV(w io.Writer, incidents []models.Incident) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	for i := range incidents {
		inc := &incidents[i]
		row := []string{
			inc.ID,
			inc.CaseNumber,
			inc.Date.UTC().Format(time.RFC3339),
			inc.Block,
			inc.IUCR,
			inc.PrimaryType,
			inc.Description,
			inc.LocationDescription,
			strconv.FormatBool(inc.Arrest),
			strconv.FormatBool(inc.Domestic),
			inc.Beat,
			inc.District,
			inc.Ward,
			inc.CommunityArea,
			inc.FBICode,
			strconv.Itoa(inc.Year),
			inc.UpdatedOn.UTC().Format(time.RFC3339),
			floatOrEmpty(inc.Latitude),
			floatOrEmpty(inc.Longitude),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func floatOrEmpty(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
