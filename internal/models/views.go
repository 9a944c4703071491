package models

import "time"

// CategoryCount is one bar of the category chart
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// MonthBucket is one point of the monthly time series
type MonthBucket struct {
	Month string `json:"month"` // YYYY-MM
	Count int    `json:"count"`
}

// MapPoint is one plottable incident
type MapPoint struct {
	ID       string  `json:"id"`
	Category string  `json:"category"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
}

// Hotspot is a coarse coordinate bin whose incident count exceeded the
// configured threshold
type Hotspot struct {
	LatBin float64 `json:"lat_bin"`
	LonBin float64 `json:"lon_bin"`
	Count  int     `json:"count"`
}

// LocationCount is one entry of the top-locations chart
type LocationCount struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

// Summary holds the dashboard headline metrics
type Summary struct {
	Total        int        `json:"total"`
	LatestReport *time.Time `json:"latest_report,omitempty"`
	Arrests      int        `json:"arrests"`
	Domestic     int        `json:"domestic"`
	Synthetic    int        `json:"synthetic"`
}
