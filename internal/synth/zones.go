package synth

import "github.com/emcr30/chicago-web/internal/models"

// DefaultZones are demo areas of Chicago used to place synthetic
// incidents. Polygons are rough neighborhood outlines, not official
// boundaries.
var DefaultZones = []models.Zone{
	{
		Name: "The Loop",
		Bounds: []models.LatLon{
			{Lat: 41.8880, Lon: -87.6400},
			{Lat: 41.8880, Lon: -87.6240},
			{Lat: 41.8710, Lon: -87.6240},
			{Lat: 41.8710, Lon: -87.6400},
		},
		Center: models.LatLon{Lat: 41.8795, Lon: -87.6320},
	},
	{
		Name: "River North",
		Bounds: []models.LatLon{
			{Lat: 41.9010, Lon: -87.6450},
			{Lat: 41.9010, Lon: -87.6260},
			{Lat: 41.8890, Lon: -87.6260},
			{Lat: 41.8890, Lon: -87.6450},
		},
		Center: models.LatLon{Lat: 41.8950, Lon: -87.6355},
	},
	{
		Name: "Hyde Park",
		Bounds: []models.LatLon{
			{Lat: 41.8050, Lon: -87.6070},
			{Lat: 41.8050, Lon: -87.5830},
			{Lat: 41.7850, Lon: -87.5830},
			{Lat: 41.7850, Lon: -87.6070},
		},
		Center: models.LatLon{Lat: 41.7950, Lon: -87.5950},
	},
}

// ZoneByName looks up a default zone, reporting whether it exists.
func ZoneByName(name string) (models.Zone, bool) {
	for _, z := range DefaultZones {
		if z.Name == name {
			return z, true
		}
	}
	return models.Zone{}, false
}
