package stops

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrStopNotFound reports an edit or delete against an unknown identifier.
var ErrStopNotFound = errors.New("stop not found")

// Session owns the mutable Stop collection together with the header and
// column mapping of the most recent tabular import. Every component takes
// the session explicitly; nothing closes over ambient state.
type Session struct {
	stops   []*Stop
	header  *Header
	mapping ColumnMapping
	ids     *IDSource
	now     func() time.Time
}

// Option customizes a Session.
type Option func(*Session)

// WithIDSource injects the identifier source, for deterministic tests or
// alternative generation strategies.
func WithIDSource(ids *IDSource) Option {
	return func(s *Session) { s.ids = ids }
}

// WithClock injects the wall clock used for export timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// NewSession returns an empty session backed by the wall clock.
func NewSession(opts ...Option) *Session {
	s := &Session{ids: NewIDSource(), now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Stops returns the current collection in insertion order.
func (s *Session) Stops() []*Stop { return s.stops }

// Len returns the number of stops.
func (s *Session) Len() int { return len(s.stops) }

// Header returns the original header of the last tabular import, or nil.
func (s *Session) Header() *Header { return s.header }

// Mapping returns the active column mapping.
func (s *Session) Mapping() ColumnMapping { return s.mapping }

// Find returns the stop with the given identifier, or nil.
func (s *Session) Find(id int64) *Stop {
	for _, st := range s.stops {
		if st.ID == id {
			return st
		}
	}
	return nil
}

// CaptureInput is a field capture: coordinates are required, everything
// else is optional.
type CaptureInput struct {
	Name      string
	Desc      string
	Lat       float64
	Lon       float64
	PhotoName string // original filename of the captured photo, if any
	Photo     []byte // preview bytes, kept in memory only
}

// Record creates a stop from a capture and appends it to the collection.
// Identifiers come from the session's id source; the photo is renamed to
// the coordinate-derived filename.
func (s *Session) Record(in CaptureInput) *Stop {
	id := s.ids.Next()
	st := &Stop{
		ID:       id,
		Code:     CodeFor(id),
		Name:     strings.TrimSpace(in.Name),
		Desc:     strings.TrimSpace(in.Desc),
		Lat:      in.Lat,
		Lon:      in.Lon,
		Original: NewRow(),
	}
	if in.PhotoName != "" || len(in.Photo) > 0 {
		st.PhotoFilename = PhotoFilename(in.Lat, in.Lon, in.PhotoName)
		st.PhotoPreview = in.Photo
	}
	s.stops = append(s.stops, st)
	return st
}

// PhotoFilename derives the stored photo name img{lat}_{lon}.{ext} with the
// decimal points replaced by underscores. The extension comes from the
// original filename, defaulting to jpg.
func PhotoFilename(lat, lon float64, name string) string {
	ext := "jpg"
	if i := strings.LastIndexByte(name, '.'); i >= 0 && i+1 < len(name) {
		ext = strings.ToLower(name[i+1:])
	}
	return fmt.Sprintf("img%s_%s.%s", sanitizeCoord(lat), sanitizeCoord(lon), ext)
}

func sanitizeCoord(c float64) string {
	return strings.ReplaceAll(fmt.Sprintf("%.6f", c), ".", "_")
}

// Edit mutates a stop in place. When a column mapping (or a canonical
// header) covers the edited field, the corresponding entry inside the
// preserved original row is updated too, so re-export reflects the edit.
func (s *Session) Edit(id int64, name, desc string, lat, lon float64) error {
	st := s.Find(id)
	if st == nil {
		return ErrStopNotFound
	}
	st.Name = strings.TrimSpace(name)
	st.Desc = strings.TrimSpace(desc)
	st.Lat = lat
	st.Lon = lon
	s.writeThrough(st)
	return nil
}

func (s *Session) writeThrough(st *Stop) {
	if st.Original == nil {
		return
	}
	if s.mapping.Name != "" {
		st.Original.Set(s.mapping.Name, st.Name)
	}
	if s.mapping.Desc != "" {
		st.Original.Set(s.mapping.Desc, st.Desc)
	}
	if s.header == nil || !s.mapping.IsZero() {
		return
	}
	// Canonical header: route the edit through the normalized column names.
	for i, norm := range s.header.Norm {
		switch norm {
		case "stop_name":
			st.Original.Set(s.header.Raw[i], st.Name)
		case "stop_desc":
			st.Original.Set(s.header.Raw[i], st.Desc)
		}
	}
}

// Delete removes a stop from the collection. No tombstone is kept.
func (s *Session) Delete(id int64) error {
	for i, st := range s.stops {
		if st.ID == id {
			s.stops = append(s.stops[:i], s.stops[i+1:]...)
			return nil
		}
	}
	return ErrStopNotFound
}

// Clear drops the collection and all import state.
func (s *Session) Clear() {
	s.stops = nil
	s.header = nil
	s.mapping = ColumnMapping{}
}

// ImportTable replaces the collection with the stops decoded from delimited
// text. The replacement is atomic: on error nothing changes.
func (s *Session) ImportTable(text string) error {
	res, err := DecodeTable(text, s.ids)
	if err != nil {
		return err
	}
	s.stops = res.Stops
	s.header = res.Header
	s.mapping = res.Mapping
	return nil
}

// ImportJSON replaces the collection from a JSON array of stop-like
// objects. JSON carries no ambiguous mapping, so header and mapping state
// are reset.
func (s *Session) ImportJSON(data []byte) error {
	res, err := DecodeJSON(data, s.ids)
	if err != nil {
		return err
	}
	s.stops = res.Stops
	s.header = nil
	s.mapping = ColumnMapping{}
	return nil
}

// ImportRemote replaces the collection from remote catalog objects.
func (s *Session) ImportRemote(objs []*Row) error {
	res, err := DecodeRemote(objs, s.ids)
	if err != nil {
		return err
	}
	s.stops = res.Stops
	s.header = nil
	s.mapping = ColumnMapping{}
	return nil
}

// sessionState is the autosave wire format. The header and mapping travel
// with the collection so original-header export and edit write-through keep
// working across process restarts.
type sessionState struct {
	Stops   []*Stop       `json:"stops"`
	Header  *Header       `json:"header,omitempty"`
	Mapping ColumnMapping `json:"mapping"`
}

// Snapshot serializes the collection together with the active header and
// column mapping for the autosave store.
func (s *Session) Snapshot() ([]byte, error) {
	return json.Marshal(sessionState{Stops: s.stops, Header: s.header, Mapping: s.mapping})
}

// Restore loads a previously snapshotted session. Empty input means no
// prior data; a parse failure is returned for the caller to treat the same
// way rather than as fatal. A bare JSON array (the older snapshot layout,
// stops only) restores with no header or mapping.
func (s *Session) Restore(data []byte) error {
	if len(data) == 0 {
		s.stops = nil
		s.header = nil
		s.mapping = ColumnMapping{}
		return nil
	}
	if trimmed := bytes.TrimLeft(data, " \t\r\n"); len(trimmed) > 0 && trimmed[0] == '[' {
		var list []*Stop
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		s.stops = list
		s.header = nil
		s.mapping = ColumnMapping{}
		return nil
	}
	var state sessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}
	s.stops = state.Stops
	s.header = state.Header
	s.mapping = state.Mapping
	return nil
}
