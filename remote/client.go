// Package remote talks to the bus-stop catalog API: one GET to import the
// full catalog, one best-effort PUT to push a single edited record back.
package remote

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/urbansurvey/stopsync/stops"
)

// Client is an HTTP client for the catalog endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

// NewClient creates a catalog client. timeoutMS bounds each request;
// zero means no timeout.
func NewClient(baseURL string, timeoutMS int) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: time.Duration(timeoutMS) * time.Millisecond},
		now:        time.Now,
	}
}

type catalogResponse struct {
	AllBusStops []json.RawMessage `json:"allBusStops"`
}

// FetchAll retrieves the full catalog. The response must carry an
// allBusStops array; anything else is an input-format error.
func (c *Client) FetchAll() ([]*stops.Row, error) {
	if c.baseURL == "" {
		return nil, eris.New("API URL is required")
	}
	resp, err := c.httpClient.Get(c.baseURL)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, eris.Errorf("catalog: HTTP %d from %s", resp.StatusCode, c.baseURL)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: read body")
	}
	var parsed catalogResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, eris.Wrap(err, "catalog: decode response")
	}
	if parsed.AllBusStops == nil {
		return nil, eris.New(`catalog: expected "allBusStops" to be an array`)
	}
	out := make([]*stops.Row, 0, len(parsed.AllBusStops))
	for _, msg := range parsed.AllBusStops {
		row := stops.NewRow()
		if err := row.UnmarshalJSON(msg); err != nil {
			continue // non-object element; row-level tolerance
		}
		out = append(out, row)
	}
	return out, nil
}

// UpdateStop PUTs one record to baseURL/{stop_id} with the full catalog
// schema as body: the user-editable fields come from current stop state,
// everything else passes through from the preserved original record. No
// retry; failure is reported to the caller.
func (c *Client) UpdateStop(st *stops.Stop) error {
	if c.baseURL == "" {
		return eris.New("API URL is required")
	}
	orig := func(key string, def any) any {
		if st.Original != nil {
			if v, ok := st.Original.Get(key); ok && v != nil {
				return v
			}
		}
		return def
	}
	payload := stops.NewRow()
	payload.Set("id", st.ID)
	payload.Set("name", st.Name)
	payload.Set("alias", orig("alias", nil))
	payload.Set("district", orig("district", nil))
	payload.Set("type", orig("type", nil))
	payload.Set("latitude", st.Lat)
	payload.Set("longitude", st.Lon)
	payload.Set("is_active", orig("is_active", true))
	payload.Set("description", st.Desc)
	payload.Set("capacity", orig("capacity", 0))
	payload.Set("operating_hours", orig("operating_hours", nil))
	payload.Set("nearby_landmarks", orig("nearby_landmarks", nil))
	payload.Set("highway", orig("highway", nil))
	payload.Set("created_at", orig("created_at", nil))
	payload.Set("updated_at", c.now().UTC().Format("2006-01-02T15:04:05.000Z"))

	body, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrap(err, "catalog: marshal record")
	}
	target := c.baseURL + "/" + url.PathEscape(strconv.FormatInt(st.ID, 10))
	req, err := http.NewRequest(http.MethodPut, target, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "catalog: build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return eris.Wrapf(err, "catalog: update stop %d", st.ID)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return eris.Errorf("catalog: update failed with HTTP %d", resp.StatusCode)
	}
	return nil
}
