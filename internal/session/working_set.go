package session

import (
	"sort"
	"sync"

	"github.com/emcr30/chicago-web/internal/models"
)

// WorkingSet holds the records currently loaded for the dashboard
// session. Fetched records are replaced wholesale on every fetch, while
// synthetic records accumulate until cleared, mirroring how the two
// populations behave in the UI. Snapshots are deduplicated by ID and
// ordered newest first.
//
// A single working set serves the whole process; multi-user isolation
// is out of scope.
type WorkingSet struct {
	mu        sync.Mutex
	fetched   []models.Incident
	synthetic []models.Incident
}

// New creates an empty working set.
func New() *WorkingSet {
	return &WorkingSet{}
}

// ReplaceFetched swaps in a fresh batch of API records.
func (w *WorkingSet) ReplaceFetched(incidents []models.Incident) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.fetched = append([]models.Incident(nil), incidents...)
}

// AddSynthetic appends generated records to the session.
func (w *WorkingSet) AddSynthetic(incidents []models.Incident) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.synthetic = append(w.synthetic, incidents...)
}

// MergeStored folds records read back from the local store into the
// fetched population, skipping IDs already present.
func (w *WorkingSet) MergeStored(incidents []models.Incident) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	seen := make(map[string]struct{}, len(w.fetched)+len(w.synthetic))
	for i := range w.fetched {
		seen[w.fetched[i].ID] = struct{}{}
	}
	for i := range w.synthetic {
		seen[w.synthetic[i].ID] = struct{}{}
	}

	added := 0
	for i := range incidents {
		if _, ok := seen[incidents[i].ID]; ok {
			continue
		}
		seen[incidents[i].ID] = struct{}{}
		w.fetched = append(w.fetched, incidents[i])
		added++
	}
	return added
}

// Snapshot returns the merged session records, deduplicated by ID and
// sorted by date descending. The slice is a copy and safe to retain.
func (w *WorkingSet) Snapshot() []models.Incident {
	w.mu.Lock()
	defer w.mu.Unlock()

	merged := make([]models.Incident, 0, len(w.fetched)+len(w.synthetic))
	seen := make(map[string]struct{}, cap(merged))

	// Synthetic records win on ID collision; they are session-local and
	// the reserved prefix makes collisions impossible in practice.
	for _, group := range [][]models.Incident{w.synthetic, w.fetched} {
		for i := range group {
			if _, ok := seen[group[i].ID]; ok {
				continue
			}
			seen[group[i].ID] = struct{}{}
			merged = append(merged, group[i])
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Date.After(merged[j].Date)
	})
	return merged
}

// ClearSynthetic drops the accumulated synthetic records.
func (w *WorkingSet) ClearSynthetic() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.synthetic = nil
}

// Clear empties the whole session.
func (w *WorkingSet) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.fetched = nil
	w.synthetic = nil
}

// Len reports the size of the deduplicated session.
func (w *WorkingSet) Len() int {
	return len(w.Snapshot())
}
