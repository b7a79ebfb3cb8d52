package remote

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/urbansurvey/stopsync/stops"
)

func TestFetchAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s", r.Method)
		}
		io.WriteString(w, `{"allBusStops":[
			{"id":1,"name":"A","latitude":46.05,"longitude":14.5},
			"junk",
			{"id":2,"name":"B","latitude":46.06,"longitude":14.51}
		]}`)
	}))
	defer srv.Close()

	rows, err := NewClient(srv.URL, 1000).FetchAll()
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2 (non-objects skipped)", len(rows))
	}
	if v, _ := rows[0].Get("name"); v != "A" {
		t.Errorf("name = %v", v)
	}
}

func TestFetchAllMissingArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"stops":[]}`)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL, 1000).FetchAll(); err == nil {
		t.Error("missing allBusStops must be an error")
	}
}

func TestFetchAllHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL, 1000).FetchAll(); err == nil {
		t.Error("non-2xx must be an error")
	}
}

func TestFetchAllRequiresURL(t *testing.T) {
	if _, err := NewClient("", 1000).FetchAll(); err == nil {
		t.Error("empty URL must be an error")
	}
}

func TestUpdateStop(t *testing.T) {
	var gotPath string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %s", ct)
		}
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
	}))
	defer srv.Close()

	original := stops.NewRow()
	original.Set("district", "Center")
	original.Set("capacity", float64(8))
	st := &stops.Stop{
		ID:       42,
		Name:     "Edited",
		Desc:     "new desc",
		Lat:      46.05,
		Lon:      14.5,
		Original: original,
	}
	c := NewClient(srv.URL, 1000)
	c.now = func() time.Time { return time.UnixMilli(2000) }
	if err := c.UpdateStop(st); err != nil {
		t.Fatalf("UpdateStop: %v", err)
	}
	if gotPath != "/42" {
		t.Errorf("path = %q, want /42", gotPath)
	}

	var payload map[string]any
	if err := json.Unmarshal(gotBody, &payload); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if payload["name"] != "Edited" || payload["description"] != "new desc" {
		t.Errorf("editable fields = %v", payload)
	}
	if payload["district"] != "Center" || payload["capacity"] != float64(8) {
		t.Errorf("pass-through fields = %v", payload)
	}
	if payload["is_active"] != true {
		t.Errorf("is_active default = %v", payload["is_active"])
	}
	if payload["updated_at"] != "1970-01-01T00:00:02.000Z" {
		t.Errorf("updated_at = %v", payload["updated_at"])
	}
}

func TestUpdateStopHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	st := &stops.Stop{ID: 1}
	if err := NewClient(srv.URL, 1000).UpdateStop(st); err == nil {
		t.Error("non-2xx must be an error")
	}
}
