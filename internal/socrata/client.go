package socrata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/emcr30/chicago-web/internal/models"
)

// floatingTimestamp is the Socrata date format (no zone suffix).
const floatingTimestamp = "2006-01-02T15:04:05"

// NetworkError indicates the open-data endpoint was unreachable or
// returned a non-success status. Records collected before the failure
// are still returned to the caller.
type NetworkError struct {
	StatusCode int // 0 when the request never completed
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("open-data API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("open-data API unreachable: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Client fetches crime incidents from a Socrata resource endpoint.
type Client struct {
	baseURL    string
	pageSize   int
	httpClient *retryablehttp.Client
	log        *logrus.Logger
}

// NewClient creates a Socrata client. pageSize bounds each request's
// $limit; the transport retries transient failures a couple of times
// but there is no application-level retry loop.
func NewClient(baseURL string, pageSize int, log *logrus.Logger) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.HTTPClient.Timeout = 30 * time.Second
	rc.Logger = nil

	if pageSize <= 0 {
		pageSize = 1000
	}

	return &Client{
		baseURL:    baseURL,
		pageSize:   pageSize,
		httpClient: rc,
		log:        log,
	}
}

// Fetch returns at most maxCount incidents with date >= minDate, newest
// first, paging through the endpoint until maxCount is reached or an
// empty page comes back. On failure it returns whatever was collected
// so far together with a *NetworkError.
func (c *Client) Fetch(ctx context.Context, minDate time.Time, maxCount int) ([]models.Incident, error) {
	if maxCount <= 0 {
		return nil, nil
	}

	var collected []models.Incident
	offset := 0

	for len(collected) < maxCount {
		limit := c.pageSize
		if remaining := maxCount - len(collected); remaining < limit {
			limit = remaining
		}

		page, err := c.fetchPage(ctx, minDate, limit, offset)
		if err != nil {
			return collected, err
		}
		if len(page) == 0 {
			break
		}
		// A misbehaving endpoint may return more rows than requested;
		// never exceed the caller's budget.
		if len(page) > limit {
			page = page[:limit]
		}

		collected = append(collected, page...)
		offset += len(page)

		// A short page means the feed is exhausted.
		if len(page) < limit {
			break
		}
	}

	c.log.WithFields(logrus.Fields{
		"records": len(collected),
		"minDate": minDate.Format("2006-01-02"),
	}).Info("fetched incidents from open-data API")

	return collected, nil
}

func (c *Client) fetchPage(ctx context.Context, minDate time.Time, limit, offset int) ([]models.Incident, error) {
	params := url.Values{
		"$order":  {"date DESC"},
		"$limit":  {strconv.Itoa(limit)},
		"$offset": {strconv.Itoa(offset)},
	}
	if !minDate.IsZero() {
		params.Set("$where", fmt.Sprintf("date >= '%s'", minDate.UTC().Format(floatingTimestamp)))
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, &NetworkError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	var incidents []models.Incident
	for _, rec := range gjson.ParseBytes(body).Array() {
		incidents = append(incidents, parseRecord(rec))
	}
	return incidents, nil
}

// parseRecord converts one Socrata row. The feed emits numbers as
// strings, so gjson's coercions do the heavy lifting.
func parseRecord(rec gjson.Result) models.Incident {
	inc := models.Incident{
		ID:                  rec.Get("id").String(),
		CaseNumber:          rec.Get("case_number").String(),
		Block:               rec.Get("block").String(),
		IUCR:                rec.Get("iucr").String(),
		PrimaryType:         rec.Get("primary_type").String(),
		Description:         rec.Get("description").String(),
		LocationDescription: rec.Get("location_description").String(),
		Arrest:              rec.Get("arrest").Bool(),
		Domestic:            rec.Get("domestic").Bool(),
		Beat:                rec.Get("beat").String(),
		District:            rec.Get("district").String(),
		Ward:                rec.Get("ward").String(),
		CommunityArea:       rec.Get("community_area").String(),
		FBICode:             rec.Get("fbi_code").String(),
		Year:                int(rec.Get("year").Int()),
	}

	inc.Date = parseFloatingTimestamp(rec.Get("date").String())
	inc.UpdatedOn = parseFloatingTimestamp(rec.Get("updated_on").String())

	// The feed emits explicit nulls for unlocated records; those must not
	// become (0,0) coordinates.
	if lat := rec.Get("latitude"); lat.Exists() && lat.Type != gjson.Null {
		v := lat.Float()
		inc.Latitude = &v
	}
	if lon := rec.Get("longitude"); lon.Exists() && lon.Type != gjson.Null {
		v := lon.Float()
		inc.Longitude = &v
	}

	return inc
}

func parseFloatingTimestamp(s string) time.Time {
	for _, layout := range []string{floatingTimestamp + ".000", floatingTimestamp, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
