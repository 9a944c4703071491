package synth

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/golang/geo/s2"
	"github.com/jonboulle/clockwork"

	"github.com/emcr30/chicago-web/internal/models"
)

// ErrInvalidCount is returned when a negative record count is requested.
var ErrInvalidCount = errors.New("record count must not be negative")

// categories maps a primary type to its candidate descriptions.
var categories = map[string][]string{
	"THEFT":           {"OVER $500", "UNDER $500", "POCKET-PICKING", "RETAIL THEFT"},
	"BATTERY":         {"SIMPLE", "AGGRAVATED", "DOMESTIC BATTERY SIMPLE"},
	"ROBBERY":         {"ARMED - HANDGUN", "STRONG ARM - NO WEAPON"},
	"CRIMINAL DAMAGE": {"TO PROPERTY", "TO VEHICLE", "GRAFFITI"},
	"ASSAULT":         {"SIMPLE", "AGGRAVATED - HANDGUN"},
}

var locationDescriptions = []string{
	"STREET", "SIDEWALK", "RESIDENCE", "APARTMENT", "SMALL RETAIL STORE",
	"RESTAURANT", "PARKING LOT", "CTA PLATFORM", "BANK", "PARK PROPERTY",
}

// Generator produces synthetic incidents matching the open-data schema.
// IDs carry the reserved SYN- prefix so they can never collide with real
// Socrata identifiers, which are numeric.
type Generator struct {
	clock clockwork.Clock
	rng   *rand.Rand
	seq   int
}

// New creates a generator. The clock is injectable so tests can pin
// timestamps; the seed makes output reproducible.
func New(clock clockwork.Clock, seed int64) *Generator {
	return &Generator{
		clock: clock,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Around produces n incidents uniformly jittered within +/-radius
// degrees of center, with timestamps spread over the last 30 days.
func (g *Generator) Around(center models.LatLon, radius float64, n int) ([]models.Incident, error) {
	if n < 0 {
		return nil, ErrInvalidCount
	}

	incidents := make([]models.Incident, 0, n)
	for i := 0; i < n; i++ {
		lat := center.Lat + g.rng.Float64()*2*radius - radius
		lon := center.Lon + g.rng.Float64()*2*radius - radius
		incidents = append(incidents, g.record(lat, lon, nil))
	}
	return incidents, nil
}

// InZone produces n incidents with coordinates inside the zone polygon,
// restricted to the given primary types (all known types when empty).
func (g *Generator) InZone(zone models.Zone, n int, types []string) ([]models.Incident, error) {
	if n < 0 {
		return nil, ErrInvalidCount
	}
	if len(zone.Bounds) < 3 {
		return nil, fmt.Errorf("zone %q has no usable polygon", zone.Name)
	}

	loop := loopFromBounds(zone.Bounds)

	incidents := make([]models.Incident, 0, n)
	for i := 0; i < n; i++ {
		lat, lon := g.pointInLoop(loop, zone)
		incidents = append(incidents, g.record(lat, lon, types))
	}
	return incidents, nil
}

// record builds one synthetic incident at the given coordinates.
func (g *Generator) record(lat, lon float64, types []string) models.Incident {
	now := g.clock.Now().UTC()

	if len(types) == 0 {
		types = defaultTypes
	}
	primary := types[g.rng.Intn(len(types))]
	descs := categories[primary]
	desc := "SYNTHETIC INCIDENT"
	if len(descs) > 0 {
		desc = descs[g.rng.Intn(len(descs))]
	}

	when := now.
		AddDate(0, 0, -g.rng.Intn(30)).
		Add(-time.Duration(g.rng.Intn(24)) * time.Hour).
		Add(-time.Duration(g.rng.Intn(60)) * time.Minute)

	g.seq++
	inc := models.Incident{
		ID:                  fmt.Sprintf("%s%d-%d", models.SyntheticIDPrefix, now.UnixMilli(), g.seq),
		CaseNumber:          fmt.Sprintf("SYN%d%06d", when.Year(), g.seq),
		Date:                when,
		Block:               fmt.Sprintf("%03dXX W SYNTHETIC AVE", g.rng.Intn(100)),
		IUCR:                fmt.Sprintf("%04d", g.rng.Intn(9000)+1000),
		PrimaryType:         primary,
		Description:         desc,
		LocationDescription: locationDescriptions[g.rng.Intn(len(locationDescriptions))],
		Arrest:              g.rng.Float64() < 0.15,
		Domestic:            g.rng.Float64() < 0.05,
		Beat:                fmt.Sprintf("%d", g.rng.Intn(900)+100),
		District:            fmt.Sprintf("%03d", g.rng.Intn(25)+1),
		Ward:                fmt.Sprintf("%d", g.rng.Intn(50)+1),
		CommunityArea:       fmt.Sprintf("%d", g.rng.Intn(77)+1),
		Year:                when.Year(),
		UpdatedOn:           now,
		Latitude:            &lat,
		Longitude:           &lon,
	}
	return inc
}

// pointInLoop rejection-samples the polygon's bounding box until a point
// lands inside the loop, falling back to the zone center after 100
// attempts so a degenerate polygon cannot stall generation.
func (g *Generator) pointInLoop(loop *s2.Loop, zone models.Zone) (float64, float64) {
	minLat, maxLat := zone.Bounds[0].Lat, zone.Bounds[0].Lat
	minLon, maxLon := zone.Bounds[0].Lon, zone.Bounds[0].Lon
	for _, b := range zone.Bounds[1:] {
		if b.Lat < minLat {
			minLat = b.Lat
		}
		if b.Lat > maxLat {
			maxLat = b.Lat
		}
		if b.Lon < minLon {
			minLon = b.Lon
		}
		if b.Lon > maxLon {
			maxLon = b.Lon
		}
	}

	for i := 0; i < 100; i++ {
		lat := minLat + g.rng.Float64()*(maxLat-minLat)
		lon := minLon + g.rng.Float64()*(maxLon-minLon)
		if loop.ContainsPoint(s2.PointFromLatLng(s2.LatLngFromDegrees(lat, lon))) {
			return lat, lon
		}
	}
	return zone.Center.Lat, zone.Center.Lon
}

func loopFromBounds(bounds []models.LatLon) *s2.Loop {
	points := make([]s2.Point, 0, len(bounds))
	for _, b := range bounds {
		points = append(points, s2.PointFromLatLng(s2.LatLngFromDegrees(b.Lat, b.Lon)))
	}
	loop := s2.LoopFromPoints(points)
	loop.Normalize()
	return loop
}

// defaultTypes is a stable ordering of the known primary types, so a
// seeded generator stays reproducible.
var defaultTypes = []string{"THEFT", "BATTERY", "ROBBERY", "CRIMINAL DAMAGE", "ASSAULT"}
