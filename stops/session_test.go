package stops

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func testSession(ms int64) *Session {
	return NewSession(
		WithIDSource(fixedIDs(ms)),
		WithClock(func() time.Time { return time.UnixMilli(ms) }),
	)
}

func TestRecord(t *testing.T) {
	s := testSession(1700000000000)
	st := s.Record(CaptureInput{
		Name:      "  New Stop  ",
		Desc:      "corner ",
		Lat:       46.056946,
		Lon:       14.505751,
		PhotoName: "IMG_2041.JPEG",
		Photo:     []byte{0xff, 0xd8},
	})
	if st.ID != 1700000000000 || st.Code != "S1700000000000" {
		t.Errorf("identity = %d/%q", st.ID, st.Code)
	}
	if st.Name != "New Stop" || st.Desc != "corner" {
		t.Errorf("fields not trimmed: %q/%q", st.Name, st.Desc)
	}
	if st.PhotoFilename != "img46_056946_14_505751.jpeg" {
		t.Errorf("PhotoFilename = %q", st.PhotoFilename)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestPhotoFilenameDefaultExtension(t *testing.T) {
	got := PhotoFilename(1.5, -2.25, "noext")
	if got != "img1_500000_-2_250000.jpg" {
		t.Errorf("PhotoFilename = %q", got)
	}
}

func TestEditAndDelete(t *testing.T) {
	s := testSession(1000)
	st := s.Record(CaptureInput{Lat: 1, Lon: 2})

	if err := s.Edit(st.ID, "Renamed", "new desc", 3, 4); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if st.Name != "Renamed" || st.Lat != 3 || st.Lon != 4 {
		t.Errorf("edit not applied: %+v", st)
	}
	if err := s.Edit(99, "x", "", 0, 0); !errors.Is(err, ErrStopNotFound) {
		t.Errorf("Edit unknown id error = %v", err)
	}

	if err := s.Delete(st.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len after delete = %d", s.Len())
	}
	if err := s.Delete(st.ID); !errors.Is(err, ErrStopNotFound) {
		t.Errorf("Delete twice error = %v", err)
	}
}

func TestEditWritesThroughMapping(t *testing.T) {
	s := testSession(1000)
	text := "Title,Latitude,Lng,Notes\nCentral,46.05,14.5,old town\n"
	if err := s.ImportTable(text); err != nil {
		t.Fatalf("ImportTable: %v", err)
	}
	st := s.Stops()[0]
	if err := s.Edit(st.ID, "Renamed", "", st.Lat, st.Lon); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if v, _ := st.Original.Get("Title"); v != "Renamed" {
		t.Errorf("Title = %v, edit must write through to the original row", v)
	}
	if v, _ := st.Original.Get("Notes"); v != "old town" {
		t.Errorf("Notes = %v, unmapped column must stay", v)
	}
}

func TestEditWritesThroughCanonicalHeader(t *testing.T) {
	s := testSession(1000)
	text := "stop_id,stop_code,Stop_Name,stop_desc,stop_lat,stop_lon\n" +
		"5,S5,Old,old desc,1,2\n"
	if err := s.ImportTable(text); err != nil {
		t.Fatalf("ImportTable: %v", err)
	}
	if err := s.Edit(5, "New", "new desc", 1, 2); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	st := s.Find(5)
	if v, _ := st.Original.Get("Stop_Name"); v != "New" {
		t.Errorf("Stop_Name = %v, canonical edit must reach the verbatim column", v)
	}
	if v, _ := st.Original.Get("stop_desc"); v != "new desc" {
		t.Errorf("stop_desc = %v", v)
	}
}

func TestImportReplacesAtomically(t *testing.T) {
	s := testSession(1000)
	s.Record(CaptureInput{Name: "keep me", Lat: 1, Lon: 2})

	// A failed import must leave the collection untouched.
	if err := s.ImportTable("name,desc\nx,y\n"); err == nil {
		t.Fatal("expected import error")
	}
	if s.Len() != 1 || s.Stops()[0].Name != "keep me" {
		t.Fatalf("failed import mutated the collection: %+v", s.Stops())
	}

	if err := s.ImportTable("name,lat,lon\nFresh,1,2\n"); err != nil {
		t.Fatalf("ImportTable: %v", err)
	}
	if s.Len() != 1 || s.Stops()[0].Name != "Fresh" {
		t.Errorf("import did not replace the collection")
	}
	if s.Header() == nil || s.Mapping().IsZero() {
		t.Errorf("tabular import must install header and mapping")
	}

	// A JSON import resets tabular state.
	if err := s.ImportJSON([]byte(`[{"name":"J","lat":1,"lon":2}]`)); err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if s.Header() != nil || !s.Mapping().IsZero() {
		t.Errorf("JSON import must reset header and mapping")
	}
}

func TestSnapshotRestore(t *testing.T) {
	s := testSession(1000)
	if err := s.ImportTable("Title,Latitude,Lng,Notes\nCentral,46.05,14.5,old town\n"); err != nil {
		t.Fatalf("ImportTable: %v", err)
	}
	data, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	restored := testSession(2000)
	if err := restored.Restore(data); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.Len() != 1 {
		t.Fatalf("Len = %d", restored.Len())
	}
	st := restored.Stops()[0]
	if st.Name != "Central" || st.Lat != 46.05 {
		t.Errorf("restored stop = %+v", st)
	}
	if v, _ := st.Original.Get("Notes"); v != "old town" {
		t.Errorf("Notes = %v, original row must survive the round trip", v)
	}
	if restored.Header() == nil || restored.Mapping().Lat != "Latitude" {
		t.Errorf("header/mapping must survive the round trip: %+v", restored.Mapping())
	}
}

// A restored session must keep exporting with the original header and keep
// writing edits through the mapping, as if the import had happened in the
// same process.
func TestRestoredSessionExportsOriginalHeader(t *testing.T) {
	s := testSession(1000)
	if err := s.ImportTable("Title,Latitude,Lng,Notes\nCentral,46.05,14.5,old town\n"); err != nil {
		t.Fatalf("ImportTable: %v", err)
	}
	data, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	restored := testSession(2000)
	if err := restored.Restore(data); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	st := restored.Stops()[0]
	if err := restored.Edit(st.ID, "Renamed", "", st.Lat, st.Lon); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if v, _ := st.Original.Get("Title"); v != "Renamed" {
		t.Errorf("Title = %v, write-through must survive restore", v)
	}

	out, name, err := restored.ExportText(false)
	if err != nil {
		t.Fatalf("ExportText: %v", err)
	}
	if name != "stopsExport2000.txt" {
		t.Errorf("filename = %q, want original-header export not fallback", name)
	}
	lines := strings.Split(string(out), "\n")
	if lines[0] != "Title,Latitude,Lng,Notes" {
		t.Errorf("header = %q, want verbatim original", lines[0])
	}
	if lines[1] != "Renamed,46.05,14.5,old town" {
		t.Errorf("row = %q, unrecognized columns must survive restore", lines[1])
	}
}

func TestRestoreLegacyListSnapshot(t *testing.T) {
	s := testSession(1000)
	if err := s.Restore([]byte(`[{"stop_id":1,"stop_code":"S1","stop_lat":1,"stop_lon":2}]`)); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if s.Len() != 1 || s.Find(1) == nil {
		t.Errorf("legacy list restore failed: %+v", s.Stops())
	}
	if s.Header() != nil || !s.Mapping().IsZero() {
		t.Errorf("legacy snapshots carry no header or mapping")
	}
}

func TestRestoreEmptyAndCorrupt(t *testing.T) {
	s := testSession(1000)
	if err := s.Restore(nil); err != nil {
		t.Errorf("Restore(nil) = %v, want no error", err)
	}
	if err := s.Restore([]byte("{broken")); err == nil {
		t.Errorf("Restore(corrupt) = nil, want parse error")
	}
}

func TestClear(t *testing.T) {
	s := testSession(1000)
	if err := s.ImportTable("name,lat,lon\nA,1,2\n"); err != nil {
		t.Fatalf("ImportTable: %v", err)
	}
	s.Clear()
	if s.Len() != 0 || s.Header() != nil || !s.Mapping().IsZero() {
		t.Errorf("Clear left state behind")
	}
}

func TestSnapshotIsJSONObject(t *testing.T) {
	s := testSession(1000)
	s.Record(CaptureInput{Name: "A", Lat: 1, Lon: 2})
	data, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if !strings.HasPrefix(string(data), "{") {
		t.Errorf("snapshot = %s, want JSON object with stops/header/mapping", data)
	}
}
