package socrata_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emcr30/chicago-web/internal/socrata"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// socrataRow mimics the feed's all-strings encoding.
func socrataRow(id int, date string) map[string]string {
	return map[string]string{
		"id":           strconv.Itoa(id),
		"case_number":  fmt.Sprintf("JH%06d", id),
		"date":         date,
		"primary_type": "THEFT",
		"latitude":     "41.881",
		"longitude":    "-87.632",
		"year":         "2024",
		"arrest":       "false",
		"domestic":     "false",
	}
}

func TestFetch_SinglePartialPageExhaustsFeed(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		rows := make([]map[string]string, 0, 40)
		if requests == 1 {
			for i := 0; i < 40; i++ {
				rows = append(rows, socrataRow(i+1, "2024-03-01T12:00:00.000"))
			}
		}
		json.NewEncoder(w).Encode(rows)
	}))
	defer srv.Close()

	client := socrata.NewClient(srv.URL, 1000, quietLogger())
	records, err := client.Fetch(context.Background(), time.Time{}, 100)

	require.NoError(t, err)
	assert.Len(t, records, 40)
	// The 40-record page was shorter than the requested limit, so no
	// second request is needed.
	assert.Equal(t, 1, requests)
}

func TestFetch_PagesUntilMaxCount(t *testing.T) {
	var offsets []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offsets = append(offsets, r.URL.Query().Get("$offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("$limit"))
		rows := make([]map[string]string, 0, limit)
		for i := 0; i < limit; i++ {
			rows = append(rows, socrataRow(len(offsets)*1000+i, "2024-03-01T12:00:00.000"))
		}
		json.NewEncoder(w).Encode(rows)
	}))
	defer srv.Close()

	client := socrata.NewClient(srv.URL, 10, quietLogger())
	records, err := client.Fetch(context.Background(), time.Time{}, 25)

	require.NoError(t, err)
	assert.Len(t, records, 25)
	assert.Equal(t, []string{"0", "10", "20"}, offsets)
}

func TestFetch_AppliesDateLowerBound(t *testing.T) {
	var where string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		where = r.URL.Query().Get("$where")
		json.NewEncoder(w).Encode([]map[string]string{})
	}))
	defer srv.Close()

	client := socrata.NewClient(srv.URL, 100, quietLogger())
	minDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := client.Fetch(context.Background(), minDate, 10)

	require.NoError(t, err)
	assert.Equal(t, "date >= '2024-01-01T00:00:00'", where)
}

func TestFetch_NonSuccessStatusIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := socrata.NewClient(srv.URL, 100, quietLogger())
	records, err := client.Fetch(context.Background(), time.Time{}, 10)

	var netErr *socrata.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, http.StatusBadGateway, netErr.StatusCode)
	assert.Empty(t, records)
}

func TestFetch_KeepsPartialResultsOnMidPaginationFailure(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests > 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		rows := make([]map[string]string, 0, 5)
		for i := 0; i < 5; i++ {
			rows = append(rows, socrataRow(i+1, "2024-03-01T12:00:00.000"))
		}
		json.NewEncoder(w).Encode(rows)
	}))
	defer srv.Close()

	client := socrata.NewClient(srv.URL, 5, quietLogger())
	records, err := client.Fetch(context.Background(), time.Time{}, 20)

	var netErr *socrata.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Len(t, records, 5)
}

func TestFetch_NeverExceedsMaxCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Ignore $limit and over-deliver.
		rows := make([]map[string]string, 0, 50)
		for i := 0; i < 50; i++ {
			rows = append(rows, socrataRow(i+1, "2024-03-01T12:00:00.000"))
		}
		json.NewEncoder(w).Encode(rows)
	}))
	defer srv.Close()

	client := socrata.NewClient(srv.URL, 100, quietLogger())
	records, err := client.Fetch(context.Background(), time.Time{}, 30)

	require.NoError(t, err)
	assert.Len(t, records, 30)
}

func TestFetch_ParsesStringEncodedFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]string{
			socrataRow(12345, "2024-03-15T08:30:00.000"),
		})
	}))
	defer srv.Close()

	client := socrata.NewClient(srv.URL, 100, quietLogger())
	records, err := client.Fetch(context.Background(), time.Time{}, 1)

	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "12345", rec.ID)
	assert.Equal(t, 2024, rec.Year)
	assert.Equal(t, time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC), rec.Date)
	require.True(t, rec.HasCoordinates())
	assert.InDelta(t, 41.881, *rec.Latitude, 1e-9)
	assert.InDelta(t, -87.632, *rec.Longitude, 1e-9)
}

func TestFetch_NullCoordinatesStayNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id":"7","date":"2024-03-15T08:30:00.000","primary_type":"THEFT","latitude":null,"longitude":null}]`)
	}))
	defer srv.Close()

	client := socrata.NewClient(srv.URL, 100, quietLogger())
	records, err := client.Fetch(context.Background(), time.Time{}, 1)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].Latitude)
	assert.Nil(t, records[0].Longitude)
	assert.False(t, records[0].HasCoordinates())
}

func TestFetch_MissingCoordinatesStayNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		row := socrataRow(7, "2024-03-15T08:30:00.000")
		delete(row, "latitude")
		delete(row, "longitude")
		json.NewEncoder(w).Encode([]map[string]string{row})
	}))
	defer srv.Close()

	client := socrata.NewClient(srv.URL, 100, quietLogger())
	records, err := client.Fetch(context.Background(), time.Time{}, 1)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, records[0].HasCoordinates())
}
