package stats_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emcr30/chicago-web/internal/models"
	"github.com/emcr30/chicago-web/internal/stats"
)

func incident(id, category string, date time.Time, lat, lon *float64) models.Incident {
	return models.Incident{
		ID:          id,
		PrimaryType: category,
		Date:        date,
		Latitude:    lat,
		Longitude:   lon,
	}
}

func coord(v float64) *float64 { return &v }

func TestCountByCategory_SumsToWorkingSetSize(t *testing.T) {
	now := time.Now()
	set := []models.Incident{
		incident("1", "THEFT", now, nil, nil),
		incident("2", "THEFT", now, nil, nil),
		incident("3", "BATTERY", now, nil, nil),
		incident("4", "", now, nil, nil),
	}

	counts := stats.CountByCategory(set)

	sum := 0
	for _, c := range counts {
		sum += c.Count
	}
	assert.Equal(t, len(set), sum)

	// Descending by count, uncategorized records under UNKNOWN.
	assert.Equal(t, "THEFT", counts[0].Category)
	assert.Equal(t, 2, counts[0].Count)

	categories := make(map[string]int)
	for _, c := range counts {
		categories[c.Category] = c.Count
	}
	assert.Equal(t, 1, categories["UNKNOWN"])
}

func TestMonthlySeries_ChronologicalOrder(t *testing.T) {
	set := []models.Incident{
		incident("1", "THEFT", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), nil, nil),
		incident("2", "THEFT", time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), nil, nil),
		incident("3", "THEFT", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), nil, nil),
		incident("4", "THEFT", time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), nil, nil),
		incident("5", "THEFT", time.Time{}, nil, nil), // no date, skipped
	}

	series := stats.MonthlySeries(set)

	require.Len(t, series, 3)
	assert.Equal(t, models.MonthBucket{Month: "2023-12", Count: 1}, series[0])
	assert.Equal(t, models.MonthBucket{Month: "2024-01", Count: 2}, series[1])
	assert.Equal(t, models.MonthBucket{Month: "2024-03", Count: 1}, series[2])
}

func TestMapPoints_ExcludesRecordsWithoutCoordinates(t *testing.T) {
	set := []models.Incident{
		incident("1", "THEFT", time.Now(), coord(41.88), coord(-87.63)),
		incident("2", "THEFT", time.Now(), nil, coord(-87.63)),
		incident("3", "THEFT", time.Now(), coord(41.88), nil),
		incident("4", "THEFT", time.Now(), nil, nil),
	}

	points := stats.MapPoints(set)

	require.Len(t, points, 1)
	assert.Equal(t, "1", points[0].ID)
	assert.InDelta(t, 41.88, points[0].Lat, 1e-9)
}

func TestTopLocations_LimitsAndOrders(t *testing.T) {
	mk := func(id, loc string) models.Incident {
		return models.Incident{ID: id, LocationDescription: loc}
	}
	set := []models.Incident{
		mk("1", "STREET"), mk("2", "STREET"), mk("3", "STREET"),
		mk("4", "RESIDENCE"), mk("5", "RESIDENCE"),
		mk("6", "BANK"),
	}

	top := stats.TopLocations(set, 2)

	require.Len(t, top, 2)
	assert.Equal(t, models.LocationCount{Location: "STREET", Count: 3}, top[0])
	assert.Equal(t, models.LocationCount{Location: "RESIDENCE", Count: 2}, top[1])
}

func TestHotspots_ThresholdAndBinning(t *testing.T) {
	var set []models.Incident
	// 5 incidents in one ~1km bin, 2 in another.
	for i := 0; i < 5; i++ {
		set = append(set, incident("a", "THEFT", time.Now(), coord(41.8812), coord(-87.6323)))
	}
	for i := 0; i < 2; i++ {
		set = append(set, incident("b", "THEFT", time.Now(), coord(41.7951), coord(-87.5948)))
	}
	set = append(set, incident("c", "THEFT", time.Now(), nil, nil))

	spots := stats.Hotspots(set, 3)

	require.Len(t, spots, 1)
	assert.Equal(t, 5, spots[0].Count)
	assert.InDelta(t, 41.88, spots[0].LatBin, 1e-9)
	assert.InDelta(t, -87.63, spots[0].LonBin, 1e-9)
}

func TestSummarize(t *testing.T) {
	latest := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	set := []models.Incident{
		{ID: "1", Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Arrest: true},
		{ID: "2", Date: latest, Domestic: true},
		{ID: models.SyntheticIDPrefix + "1", Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	}

	s := stats.Summarize(set)

	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.Arrests)
	assert.Equal(t, 1, s.Domestic)
	assert.Equal(t, 1, s.Synthetic)
	require.NotNil(t, s.LatestReport)
	assert.True(t, latest.Equal(*s.LatestReport))
}

func TestSummarize_Empty(t *testing.T) {
	s := stats.Summarize(nil)
	assert.Equal(t, 0, s.Total)
	assert.Nil(t, s.LatestReport)
}
