package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/emcr30/chicago-web/internal/models"
	"github.com/emcr30/chicago-web/internal/observability"
	"github.com/emcr30/chicago-web/internal/session"
	"github.com/emcr30/chicago-web/internal/socrata"
	"github.com/emcr30/chicago-web/internal/stats"
	"github.com/emcr30/chicago-web/internal/storage"
	"github.com/emcr30/chicago-web/internal/synth"
)

var (
	// ErrMemoryOnly is returned for store operations when no store could
	// be opened; the dashboard keeps working from memory.
	ErrMemoryOnly = errors.New("local store not available, running in memory-only mode")

	// ErrInvalidInput flags bad user-supplied parameters.
	ErrInvalidInput = errors.New("invalid input")
)

const (
	defaultFetchLimit = 2000
	maxFetchLimit     = 10000
)

// FetchResult summarizes one fetch-merge-persist cycle.
type FetchResult struct {
	Fetched   int    `json:"fetched"`
	Persisted int    `json:"persisted"`
	Total     int    `json:"total"`
	Warning   string `json:"warning,omitempty"`
}

// IncidentService runs the fetch/generate/persist/aggregate pipeline
// over the session working set.
type IncidentService struct {
	client  *socrata.Client
	gen     *synth.Generator
	ws      *session.WorkingSet
	store   storage.IncidentStore // nil in memory-only mode
	metrics *observability.Metrics
	log     *logrus.Logger
}

// NewIncidentService creates the pipeline service. store may be nil, in
// which case persistence requests fail softly with ErrMemoryOnly.
func NewIncidentService(client *socrata.Client, gen *synth.Generator, ws *session.WorkingSet,
	store storage.IncidentStore, metrics *observability.Metrics, log *logrus.Logger) *IncidentService {
	return &IncidentService{
		client:  client,
		gen:     gen,
		ws:      ws,
		store:   store,
		metrics: metrics,
		log:     log,
	}
}

// Fetch pulls records from the open-data API into the working set,
// replacing the previously fetched population. On a network failure the
// partial result is kept and the warning is surfaced to the dashboard.
func (s *IncidentService) Fetch(ctx context.Context, req models.FetchRequest) (*FetchResult, error) {
	start := time.Now()

	limit := req.Limit
	if limit == 0 {
		limit = defaultFetchLimit
	}
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", ErrInvalidInput)
	}
	if limit > maxFetchLimit {
		limit = maxFetchLimit
	}

	var minDate time.Time
	if req.MinDate != "" {
		t, err := time.Parse("2006-01-02", req.MinDate)
		if err != nil {
			return nil, fmt.Errorf("%w: minDate must be YYYY-MM-DD", ErrInvalidInput)
		}
		minDate = t
	}

	result := &FetchResult{}

	records, err := s.client.Fetch(ctx, minDate, limit)
	var netErr *socrata.NetworkError
	switch {
	case err == nil:
		s.metrics.FetchRequests.WithLabelValues("success").Inc()
	case errors.As(err, &netErr):
		// Partial results are acceptable, not fatal.
		outcome := "error"
		if len(records) > 0 {
			outcome = "partial"
		}
		s.metrics.FetchRequests.WithLabelValues(outcome).Inc()
		result.Warning = netErr.Error()
		s.log.WithError(netErr).WithField("collected", len(records)).
			Warn("open-data fetch failed, keeping partial results")
	default:
		return nil, err
	}

	s.metrics.RecordsFetched.Add(float64(len(records)))
	s.ws.ReplaceFetched(records)
	result.Fetched = len(records)

	if req.Persist && len(records) > 0 {
		inserted, perr := s.persist(records)
		if perr != nil {
			result.Warning = appendWarning(result.Warning, perr.Error())
		}
		result.Persisted = inserted
	}

	result.Total = s.ws.Len()
	s.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	return result, nil
}

// Generate adds synthetic incidents to the working set, either inside a
// named zone or jittered around an explicit center.
func (s *IncidentService) Generate(req models.GenerateRequest) (*FetchResult, error) {
	var (
		records []models.Incident
		err     error
	)

	if req.Zone != "" {
		zone, ok := synth.ZoneByName(req.Zone)
		if !ok {
			return nil, fmt.Errorf("%w: unknown zone %q", ErrInvalidInput, req.Zone)
		}
		records, err = s.gen.InZone(zone, req.Count, req.Types)
	} else {
		center := models.LatLon{Lat: req.CenterLat, Lon: req.CenterLon}
		records, err = s.gen.Around(center, req.Radius, req.Count)
	}
	if err != nil {
		return nil, err
	}

	s.metrics.RecordsGenerated.Add(float64(len(records)))
	s.ws.AddSynthetic(records)

	result := &FetchResult{Fetched: len(records)}
	if req.Persist && len(records) > 0 {
		inserted, perr := s.persist(records)
		if perr != nil {
			result.Warning = appendWarning(result.Warning, perr.Error())
		}
		result.Persisted = inserted
	}

	result.Total = s.ws.Len()
	return result, nil
}

// SaveWorkingSet flushes the current session to the local store.
func (s *IncidentService) SaveWorkingSet() (int, error) {
	return s.persist(s.ws.Snapshot())
}

// LoadStored merges stored rows into the working set, returning how many
// were new to the session.
func (s *IncidentService) LoadStored(filter models.StoreFilter) (int, error) {
	if s.store == nil {
		return 0, ErrMemoryOnly
	}
	records, err := s.store.List(filter)
	if err != nil {
		s.metrics.StoreErrors.Inc()
		return 0, err
	}
	return s.ws.MergeStored(records), nil
}

func (s *IncidentService) persist(records []models.Incident) (int, error) {
	if s.store == nil {
		return 0, ErrMemoryOnly
	}
	inserted, err := s.store.Persist(records)
	if err != nil {
		s.metrics.StoreErrors.Inc()
		s.log.WithError(err).Error("persist failed")
		return 0, err
	}
	s.metrics.RecordsPersisted.Add(float64(inserted))
	return inserted, nil
}

// List returns the working set filtered by category and arrest flag.
func (s *IncidentService) List(filter models.IncidentFilter) []models.Incident {
	snapshot := s.ws.Snapshot()
	filtered := make([]models.Incident, 0, len(snapshot))
	for i := range snapshot {
		inc := &snapshot[i]
		if filter.Category != "" && inc.PrimaryType != filter.Category {
			continue
		}
		if filter.ArrestsOnly && !inc.Arrest {
			continue
		}
		filtered = append(filtered, *inc)
		if filter.Limit > 0 && len(filtered) >= filter.Limit {
			break
		}
	}
	return filtered
}

// Views over the current working set. All are pure recomputations of
// the snapshot, so every interaction sees fresh numbers.

func (s *IncidentService) Summary() models.Summary {
	return stats.Summarize(s.ws.Snapshot())
}

func (s *IncidentService) Categories() []models.CategoryCount {
	return stats.CountByCategory(s.ws.Snapshot())
}

func (s *IncidentService) Monthly() []models.MonthBucket {
	return stats.MonthlySeries(s.ws.Snapshot())
}

func (s *IncidentService) TopLocations(n int) []models.LocationCount {
	return stats.TopLocations(s.ws.Snapshot(), n)
}

func (s *IncidentService) Hotspots(threshold int) []models.Hotspot {
	return stats.Hotspots(s.ws.Snapshot(), threshold)
}

func (s *IncidentService) MapPoints() []models.MapPoint {
	return stats.MapPoints(s.ws.Snapshot())
}

// ExportCSV streams the working set as CSV.
func (s *IncidentService) ExportCSV(w io.Writer) error {
	return storage.WriteCSV(w, s.ws.Snapshot())
}

// Zones lists the demo zones available to the generator.
func (s *IncidentService) Zones() []models.Zone {
	return synth.DefaultZones
}

// Store passthroughs for the admin endpoints.

func (s *IncidentService) StoreList(filter models.StoreFilter) ([]models.Incident, error) {
	if s.store == nil {
		return nil, ErrMemoryOnly
	}
	return s.store.List(filter)
}

func (s *IncidentService) StoreGet(id string) (*models.Incident, error) {
	if s.store == nil {
		return nil, ErrMemoryOnly
	}
	return s.store.GetByID(id)
}

func (s *IncidentService) StoreDelete(id string) (bool, error) {
	if s.store == nil {
		return false, ErrMemoryOnly
	}
	return s.store.DeleteByID(id)
}

func (s *IncidentService) StoreCount() (int64, error) {
	if s.store == nil {
		return 0, ErrMemoryOnly
	}
	return s.store.Count()
}

// StoreClear wipes the local store, returning how many rows were removed.
func (s *IncidentService) StoreClear() (int64, error) {
	if s.store == nil {
		return 0, ErrMemoryOnly
	}
	removed, err := s.store.Clear()
	if err != nil {
		s.metrics.StoreErrors.Inc()
		return 0, err
	}
	s.log.WithField("removed", removed).Info("local store cleared")
	return removed, nil
}

// ClearSession empties the working set; with syntheticOnly set, only the
// generated records are dropped and fetched ones stay.
func (s *IncidentService) ClearSession(syntheticOnly bool) int {
	if syntheticOnly {
		s.ws.ClearSynthetic()
	} else {
		s.ws.Clear()
	}
	return s.ws.Len()
}

func appendWarning(existing, msg string) string {
	if existing == "" {
		return msg
	}
	return existing + "; " + msg
}
