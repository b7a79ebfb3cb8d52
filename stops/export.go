package stops

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// isoTimestamp formats export update times the way the remote catalog
// stores them.
func isoTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// apiRow rebuilds one output record against the remote catalog schema:
// a clone of the preserved original row with the user-editable fields and
// the update timestamp overwritten, every other captured field passing
// through unchanged.
func apiRow(st *Stop, now time.Time) *Row {
	row := NewRow()
	if st.Original != nil {
		row = st.Original.Clone()
	}
	row.Set("id", st.ID)
	row.Set("name", st.Name)
	row.Set("description", st.Desc)
	row.Set("latitude", st.Lat)
	row.Set("longitude", st.Lon)
	row.Set("updated_at", isoTimestamp(now))
	return row
}

// ExportJSON dumps the collection as an indented JSON array of API-schema
// records. Returns the content and the timestamp-qualified filename.
func (s *Session) ExportJSON() ([]byte, string, error) {
	now := s.now()
	rows := make([]*Row, len(s.stops))
	for i, st := range s.stops {
		rows[i] = apiRow(st, now)
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("stopsExport%d.json", now.UnixMilli()), nil
}

// ExportText serializes the collection as delimited text. With apiMode the
// fixed remote catalog schema is emitted; otherwise the original header of
// the last tabular import is reused verbatim when one is active, and the
// six-column canonical schema is the fallback.
func (s *Session) ExportText(apiMode bool) ([]byte, string, error) {
	now := s.now()
	ts := now.UnixMilli()
	switch {
	case apiMode:
		return s.exportAPIText(now), fmt.Sprintf("stopsExport%d.txt", ts), nil
	case s.header != nil && len(s.header.Raw) > 0:
		return s.exportOriginalHeader(), fmt.Sprintf("stopsExport%d.txt", ts), nil
	default:
		return s.exportFallback(), fmt.Sprintf("stops%d.txt", ts), nil
	}
}

func (s *Session) exportAPIText(now time.Time) []byte {
	var b bytes.Buffer
	b.WriteString(strings.Join(remoteSchema, ","))
	for _, st := range s.stops {
		row := apiRow(st, now)
		b.WriteByte('\n')
		for i, col := range remoteSchema {
			if i > 0 {
				b.WriteByte(',')
			}
			v, _ := row.Get(col)
			b.WriteString(encodeValue(v))
		}
	}
	return b.Bytes()
}

// exportOriginalHeader rebuilds each output row by cloning the preserved
// original row, overlaying the current values for the mapped logical fields
// and for any canonically named identifier/coordinate columns, then emitting
// the columns in the exact original order. Columns the tool never understood
// pass through byte-for-byte.
func (s *Session) exportOriginalHeader() []byte {
	var b bytes.Buffer
	b.WriteString(strings.Join(s.header.Raw, ","))
	for _, st := range s.stops {
		row := NewRow()
		if st.Original != nil {
			row = st.Original.Clone()
		}
		if s.mapping.Name != "" {
			row.Set(s.mapping.Name, st.Name)
		}
		if s.mapping.Desc != "" {
			row.Set(s.mapping.Desc, st.Desc)
		}
		if s.mapping.Img != "" && st.PhotoFilename != "" {
			row.Set(s.mapping.Img, st.PhotoFilename)
		}
		if s.mapping.Lat != "" {
			row.Set(s.mapping.Lat, st.Lat)
		}
		if s.mapping.Lon != "" {
			row.Set(s.mapping.Lon, st.Lon)
		}
		for i, norm := range s.header.Norm {
			switch norm {
			case "stop_id":
				row.Set(s.header.Raw[i], st.ID)
			case "stop_code":
				row.Set(s.header.Raw[i], st.Code)
			case "stop_lat":
				row.Set(s.header.Raw[i], st.Lat)
			case "stop_lon":
				row.Set(s.header.Raw[i], st.Lon)
			}
		}
		b.WriteByte('\n')
		for i, col := range s.header.Raw {
			if i > 0 {
				b.WriteByte(',')
			}
			v, _ := row.Get(col)
			b.WriteString(encodeValue(v))
		}
	}
	return b.Bytes()
}

func (s *Session) exportFallback() []byte {
	var b bytes.Buffer
	b.WriteString("stop_id,stop_code,stop_name,stop_desc,stop_lat,stop_lon")
	for _, st := range s.stops {
		b.WriteByte('\n')
		fmt.Fprintf(&b, "%d,%s,\"%s\",\"%s\",%s,%s",
			st.ID,
			st.Code,
			strings.ReplaceAll(st.Name, `"`, `""`),
			strings.ReplaceAll(st.Desc, `"`, `""`),
			strconv.FormatFloat(st.Lat, 'f', -1, 64),
			strconv.FormatFloat(st.Lon, 'f', -1, 64),
		)
	}
	return b.Bytes()
}
