package gtfsrt

import (
	"fmt"
	"io"
	"net/http"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
)

// Client is a simple HTTP client for fetching GTFS-RT protobuf data.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a new GTFS-RT HTTP client.
func NewClient() *Client {
	return &Client{httpClient: &http.Client{}}
}

// Fetch fetches a single GTFS-RT feed from a URL and returns raw protobuf
// bytes. Returns nil if url is empty (allows optional feeds).
func (c *Client) Fetch(url string) ([]byte, error) {
	if url == "" {
		return nil, nil
	}
	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

// FetchTripDelays fetches a TripUpdates feed and reduces it to per-trip
// departure delays. An empty URL yields no delays and no error.
func (c *Client) FetchTripDelays(url string) (map[string]int64, error) {
	b, err := c.Fetch(url)
	if err != nil || b == nil {
		return nil, err
	}
	return ParseTripDelays(b)
}

// ParseTripDelays extracts a trip_id -> departure delay (seconds) map from
// raw TripUpdates protobuf bytes. For each trip the first stop time update
// carrying a departure (or arrival) delay wins.
func ParseTripDelays(b []byte) (map[string]int64, error) {
	var fm gtfsrtpb.FeedMessage
	if err := proto.Unmarshal(b, &fm); err != nil {
		return nil, fmt.Errorf("failed to parse TripUpdates feed: %w", err)
	}
	delays := map[string]int64{}
	for _, e := range fm.Entity {
		tu := e.TripUpdate
		if tu == nil || tu.Trip == nil || tu.Trip.TripId == nil {
			continue
		}
		tripID := *tu.Trip.TripId
		if _, seen := delays[tripID]; seen {
			continue
		}
		for _, stu := range tu.StopTimeUpdate {
			if stu.Departure != nil && stu.Departure.Delay != nil {
				delays[tripID] = int64(*stu.Departure.Delay)
				break
			}
			if stu.Arrival != nil && stu.Arrival.Delay != nil {
				delays[tripID] = int64(*stu.Arrival.Delay)
				break
			}
		}
	}
	return delays, nil
}
