package storage_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emcr30/chicago-web/internal/models"
	"github.com/emcr30/chicago-web/internal/storage"
)

func newTestStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func incident(id string, date time.Time) models.Incident {
	lat, lon := 41.88, -87.63
	return models.Incident{
		ID:          id,
		CaseNumber:  "JH" + id,
		Date:        date,
		PrimaryType: "THEFT",
		Year:        date.Year(),
		UpdatedOn:   date,
		Latitude:    &lat,
		Longitude:   &lon,
	}
}

func TestPersist_IsIdempotent(t *testing.T) {
	store := newTestStore(t)
	batch := []models.Incident{
		incident("1001", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)),
		incident("1002", time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)),
		incident("1003", time.Date(2024, 3, 3, 10, 0, 0, 0, time.UTC)),
	}

	inserted, err := store.Persist(batch)
	require.NoError(t, err)
	assert.Equal(t, 3, inserted)

	// Same batch again: row count must not change.
	inserted, err = store.Persist(batch)
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)

	count, err := store.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestPersist_OverlappingBatchInsertsOnlyNewRows(t *testing.T) {
	store := newTestStore(t)
	first := []models.Incident{
		incident("1001", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)),
		incident("1002", time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)),
	}
	overlapping := []models.Incident{
		incident("1002", time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)),
		incident("1003", time.Date(2024, 3, 3, 10, 0, 0, 0, time.UTC)),
	}

	_, err := store.Persist(first)
	require.NoError(t, err)

	inserted, err := store.Persist(overlapping)
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	count, err := store.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestPersist_ExistingRowsAreLeftUntouched(t *testing.T) {
	store := newTestStore(t)
	original := incident("1001", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	_, err := store.Persist([]models.Incident{original})
	require.NoError(t, err)

	modified := original
	modified.PrimaryType = "BATTERY"
	_, err = store.Persist([]models.Incident{modified})
	require.NoError(t, err)

	got, err := store.GetByID("1001")
	require.NoError(t, err)
	assert.Equal(t, "THEFT", got.PrimaryType)
}

func TestList_DateRangeAndOrdering(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Persist([]models.Incident{
		incident("1001", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)),
		incident("1002", time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)),
		incident("1003", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)

	all, err := store.List(models.StoreFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// newest first
	assert.Equal(t, "1003", all[0].ID)
	assert.Equal(t, "1001", all[2].ID)

	ranged, err := store.List(models.StoreFilter{
		From: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, "1002", ranged[0].ID)

	limited, err := store.List(models.StoreFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestRoundTrip_PreservesFields(t *testing.T) {
	store := newTestStore(t)
	in := incident("1001", time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC))
	in.Arrest = true
	in.Domestic = true
	in.LocationDescription = "STREET"

	_, err := store.Persist([]models.Incident{in})
	require.NoError(t, err)

	got, err := store.GetByID("1001")
	require.NoError(t, err)
	assert.Equal(t, in.CaseNumber, got.CaseNumber)
	assert.True(t, got.Arrest)
	assert.True(t, got.Domestic)
	assert.Equal(t, "STREET", got.LocationDescription)
	assert.True(t, in.Date.Equal(got.Date))
	require.True(t, got.HasCoordinates())
	assert.InDelta(t, 41.88, *got.Latitude, 1e-9)
}

func TestRoundTrip_NullCoordinates(t *testing.T) {
	store := newTestStore(t)
	in := incident("1001", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	in.Latitude = nil
	in.Longitude = nil

	_, err := store.Persist([]models.Incident{in})
	require.NoError(t, err)

	got, err := store.GetByID("1001")
	require.NoError(t, err)
	assert.False(t, got.HasCoordinates())
}

func TestClear_RemovesAllRows(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Persist([]models.Incident{
		incident("1001", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
		incident("1002", time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)

	removed, err := store.Clear()
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	count, err := store.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	// Clearing an empty store is a no-op.
	removed, err = store.Clear()
	require.NoError(t, err)
	assert.EqualValues(t, 0, removed)
}

func TestGetByID_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetByID("nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDeleteByID(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Persist([]models.Incident{
		incident("1001", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)

	deleted, err := store.DeleteByID("1001")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.DeleteByID("1001")
	require.NoError(t, err)
	assert.False(t, deleted)
}
