package server

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/urbansurvey/stopsync/schedule"
	"github.com/urbansurvey/stopsync/stops"
)

func testServer(t *testing.T, withSchedule bool) *Server {
	t.Helper()
	sess := stops.NewSession(
		stops.WithIDSource(&stops.IDSource{Now: func() time.Time { return time.UnixMilli(1000) }}),
	)
	sess.Record(stops.CaptureInput{Name: "Central", Lat: 46.05, Lon: 14.5})

	var idx *schedule.Index
	if withSchedule {
		idx = schedule.NewIndex()
		idx.StopTimes["S1000"] = []schedule.StopTime{
			{TripID: "t1", DepartureTime: "08:00:00"},
			{TripID: "t1", DepartureTime: "09:00:00"},
		}
		idx.Trips["t1"] = map[string]string{"trip_id": "t1", "route_id": "r1"}
		idx.Routes["r1"] = map[string]string{"route_id": "r1", "route_short_name": "12"}
	}
	return New(0, sess, idx)
}

func TestHandleHealth(t *testing.T) {
	s := testServer(t, true)
	w := httptest.NewRecorder()
	s.handleHealth(w, httptest.NewRequest("GET", "/api/health", nil))
	if w.Code != 200 {
		t.Fatalf("status = %d", w.Code)
	}
	var resp healthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" || resp.Stops != 1 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestHandleStops(t *testing.T) {
	s := testServer(t, true)
	w := httptest.NewRecorder()
	s.handleStops(w, httptest.NewRequest("GET", "/api/stops", nil))
	var list []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || list[0]["stop_name"] != "Central" {
		t.Errorf("list = %v", list)
	}
}

func TestHandleDepartures(t *testing.T) {
	s := testServer(t, true)
	tests := []struct {
		name   string
		target string
		status int
		count  int
	}{
		{"ok", "/api/departures?stop=S1000&at=08:30:00", 200, 1},
		{"with limit", "/api/departures?stop=S1000&at=00:00:00&limit=1", 200, 1},
		{"missing stop", "/api/departures?at=08:30:00", 400, 0},
		{"bad at", "/api/departures?stop=S1000&at=8h30", 400, 0},
		{"bad limit", "/api/departures?stop=S1000&at=08:30:00&limit=0", 400, 0},
		{"unknown stop", "/api/departures?stop=S9&at=08:30:00", 200, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			s.handleDepartures(w, httptest.NewRequest("GET", tt.target, nil))
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.status, w.Body)
			}
			if tt.status != 200 {
				return
			}
			var deps []schedule.Departure
			if err := json.Unmarshal(w.Body.Bytes(), &deps); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(deps) != tt.count {
				t.Errorf("got %d departures, want %d", len(deps), tt.count)
			}
		})
	}
}

func TestHandleDeparturesNoSchedule(t *testing.T) {
	s := testServer(t, false)
	w := httptest.NewRecorder()
	s.handleDepartures(w, httptest.NewRequest("GET", "/api/departures?stop=S1", nil))
	if w.Code != 503 {
		t.Errorf("status = %d, want 503 when no feed is loaded", w.Code)
	}
}

func TestValidClockTime(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"08:30:00", true},
		{"25:05:00", true}, // past-midnight trips
		{"8:30:00", false},
		{"08-30-00", false},
		{"08:30", false},
		{"ab:cd:ef", false},
	}
	for _, tt := range tests {
		if got := validClockTime(tt.in); got != tt.want {
			t.Errorf("validClockTime(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
