package stats

import (
	"math"
	"sort"

	"github.com/emcr30/chicago-web/internal/models"
)

// CountByCategory groups incidents by primary type, descending by count.
// The counts always sum to len(incidents); records without a category
// land in "UNKNOWN".
func CountByCategory(incidents []models.Incident) []models.CategoryCount {
	counts := make(map[string]int)
	for i := range incidents {
		cat := incidents[i].PrimaryType
		if cat == "" {
			cat = "UNKNOWN"
		}
		counts[cat]++
	}

	result := make([]models.CategoryCount, 0, len(counts))
	for cat, n := range counts {
		result = append(result, models.CategoryCount{Category: cat, Count: n})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Category < result[j].Category
	})
	return result
}

// MonthlySeries buckets incidents by calendar month, ordered
// chronologically. Incidents with a zero date are skipped.
func MonthlySeries(incidents []models.Incident) []models.MonthBucket {
	counts := make(map[string]int)
	for i := range incidents {
		if incidents[i].Date.IsZero() {
			continue
		}
		counts[incidents[i].Date.UTC().Format("2006-01")]++
	}

	result := make([]models.MonthBucket, 0, len(counts))
	for month, n := range counts {
		result = append(result, models.MonthBucket{Month: month, Count: n})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Month < result[j].Month
	})
	return result
}

// MapPoints returns the plottable subset: records with both coordinates
// present. Records lacking coordinates never appear in the output.
func MapPoints(incidents []models.Incident) []models.MapPoint {
	points := make([]models.MapPoint, 0, len(incidents))
	for i := range incidents {
		inc := &incidents[i]
		if !inc.HasCoordinates() {
			continue
		}
		points = append(points, models.MapPoint{
			ID:       inc.ID,
			Category: inc.PrimaryType,
			Lat:      *inc.Latitude,
			Lon:      *inc.Longitude,
		})
	}
	return points
}

// TopLocations returns the n most frequent location descriptions.
func TopLocations(incidents []models.Incident, n int) []models.LocationCount {
	counts := make(map[string]int)
	for i := range incidents {
		loc := incidents[i].LocationDescription
		if loc == "" {
			loc = "UNKNOWN"
		}
		counts[loc]++
	}

	result := make([]models.LocationCount, 0, len(counts))
	for loc, c := range counts {
		result = append(result, models.LocationCount{Location: loc, Count: c})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Location < result[j].Location
	})
	if n > 0 && len(result) > n {
		result = result[:n]
	}
	return result
}

// Hotspots bins coordinates to two decimal places (roughly a 1km cell at
// Chicago's latitude) and returns bins whose count exceeds threshold,
// densest first.
func Hotspots(incidents []models.Incident, threshold int) []models.Hotspot {
	type bin struct{ lat, lon float64 }
	counts := make(map[bin]int)
	for i := range incidents {
		inc := &incidents[i]
		if !inc.HasCoordinates() {
			continue
		}
		counts[bin{roundTo(*inc.Latitude, 2), roundTo(*inc.Longitude, 2)}]++
	}

	var result []models.Hotspot
	for b, n := range counts {
		if n > threshold {
			result = append(result, models.Hotspot{LatBin: b.lat, LonBin: b.lon, Count: n})
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		if result[i].LatBin != result[j].LatBin {
			return result[i].LatBin < result[j].LatBin
		}
		return result[i].LonBin < result[j].LonBin
	})
	return result
}

// Summarize computes the dashboard headline metrics.
func Summarize(incidents []models.Incident) models.Summary {
	s := models.Summary{Total: len(incidents)}
	for i := range incidents {
		inc := &incidents[i]
		if inc.Arrest {
			s.Arrests++
		}
		if inc.Domestic {
			s.Domestic++
		}
		if inc.IsSynthetic() {
			s.Synthetic++
		}
		if !inc.Date.IsZero() && (s.LatestReport == nil || inc.Date.After(*s.LatestReport)) {
			d := inc.Date
			s.LatestReport = &d
		}
	}
	return s
}

func roundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
