package stops

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// Import errors surfaced to the caller; the Stop collection is never
// touched when one of these is returned.
var (
	ErrEmptyInput = errors.New("input contains no header row")
	ErrNotArray   = errors.New("JSON must be an array of stop objects")
)

// ImportResult is the outcome of normalizing one source. The caller swaps
// it into the session atomically once decoding has fully succeeded.
type ImportResult struct {
	Stops   []*Stop
	Header  *Header       // nil for JSON and remote imports
	Mapping ColumnMapping // zero for canonical, JSON and remote imports
}

// DecodeTable normalizes delimited text with a header row. A header carrying
// all six canonical keys is read positionally with identifiers taken
// verbatim; anything else goes through alias resolution, which fails the
// whole import when no latitude or longitude column can be found.
func DecodeTable(text string, ids *IDSource) (*ImportResult, error) {
	lines := splitLines(text)
	if len(lines) == 0 {
		return nil, ErrEmptyInput
	}
	header := ParseHeader(lines[0])
	rows := lines[1:]

	if header.IsCanonical() {
		stops := decodeCanonicalRows(header, rows, ids)
		return &ImportResult{Stops: stops, Header: header}, nil
	}

	mapping, err := ResolveMapping(header)
	if err != nil {
		return nil, err
	}
	stops := decodeHeuristicRows(header, mapping, rows, ids)
	return &ImportResult{Stops: stops, Header: header, Mapping: mapping}, nil
}

func decodeCanonicalRows(header *Header, rows []string, ids *IDSource) []*Stop {
	idIdx := header.IndexOfNorm("stop_id")
	codeIdx := header.IndexOfNorm("stop_code")
	nameIdx := header.IndexOfNorm("stop_name")
	descIdx := header.IndexOfNorm("stop_desc")
	latIdx := header.IndexOfNorm("stop_lat")
	lonIdx := header.IndexOfNorm("stop_lon")
	imgIdx := header.IndexOfNorm("img_filename")

	base := ids.Next()
	out := make([]*Stop, 0, len(rows))
	for i, line := range rows {
		cols := SplitFields(line, ',')
		at := func(idx int) string {
			if idx >= 0 && idx < len(cols) {
				return cols[idx]
			}
			return ""
		}
		lat, latErr := parseCoord(at(latIdx))
		lon, lonErr := parseCoord(at(lonIdx))
		if latErr != nil || lonErr != nil {
			continue // row-level tolerance: coordinates are mandatory
		}
		// Identifiers come from the file, not the clock. A non-integer
		// stop_id cannot live in the canonical field and falls back to a
		// generated one; the verbatim value still survives in the row.
		id, err := strconv.ParseInt(strings.TrimSpace(at(idIdx)), 10, 64)
		if err != nil {
			id = base + int64(i)
		}
		s := &Stop{
			ID:            id,
			Code:          at(codeIdx),
			Name:          at(nameIdx),
			Desc:          at(descIdx),
			Lat:           lat,
			Lon:           lon,
			PhotoFilename: at(imgIdx),
			Original:      rowFromCols(header, cols),
		}
		out = append(out, s)
	}
	return out
}

func decodeHeuristicRows(header *Header, m ColumnMapping, rows []string, ids *IDSource) []*Stop {
	get := func(cols []string, rawName string) string {
		idx := header.IndexOfRaw(rawName)
		if rawName == "" || idx < 0 || idx >= len(cols) {
			return ""
		}
		return cols[idx]
	}
	base := ids.Next()
	out := make([]*Stop, 0, len(rows))
	for i, line := range rows {
		cols := SplitFields(line, ',')
		lat, latErr := parseCoord(get(cols, m.Lat))
		lon, lonErr := parseCoord(get(cols, m.Lon))
		if latErr != nil || lonErr != nil {
			continue
		}
		id := base + int64(i)
		s := &Stop{
			ID:            id,
			Code:          CodeFor(id),
			Name:          get(cols, m.Name),
			Desc:          get(cols, m.Desc),
			Lat:           lat,
			Lon:           lon,
			PhotoFilename: get(cols, m.Img),
			Original:      rowFromCols(header, cols),
		}
		out = append(out, s)
	}
	return out
}

// rowFromCols records an entry for every header column, padding short rows
// with empty strings and dropping fields past the header width.
func rowFromCols(header *Header, cols []string) *Row {
	row := NewRow()
	for i, name := range header.Raw {
		if i < len(cols) {
			row.Set(name, cols[i])
		} else {
			row.Set(name, "")
		}
	}
	return row
}

// DecodeJSON normalizes a JSON array of loosely-typed stop-like objects.
// Recognized alternate key names per field are tried in alias priority
// order; the complete original object is retained regardless of which keys
// were recognized.
func DecodeJSON(data []byte, ids *IDSource) (*ImportResult, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return nil, ErrNotArray
	}
	base := ids.Next()
	out := make([]*Stop, 0, len(raw))
	for i, msg := range raw {
		row := NewRow()
		if err := row.UnmarshalJSON(msg); err != nil {
			continue // non-object element, row-level tolerance
		}
		lat, latErr := floatField(row, FieldLat)
		lon, lonErr := floatField(row, FieldLon)
		if latErr != nil || lonErr != nil {
			continue
		}
		id, code := objectIdentifiers(row, base+int64(i))
		s := &Stop{
			ID:            id,
			Code:          code,
			Name:          stringField(row, FieldName),
			Desc:          stringField(row, FieldDesc),
			Lat:           lat,
			Lon:           lon,
			PhotoFilename: stringField(row, FieldImg),
			Original:      row,
		}
		out = append(out, s)
	}
	return &ImportResult{Stops: out}, nil
}

// remoteSchema is the fixed richer schema of the remote catalog, in its
// documented column order.
var remoteSchema = []string{
	"id", "name", "alias", "district", "type",
	"latitude", "longitude", "is_active", "description", "capacity",
	"operating_hours", "nearby_landmarks", "highway", "created_at", "updated_at",
}

// RemoteSchema returns the remote catalog column order.
func RemoteSchema() []string {
	out := make([]string, len(remoteSchema))
	copy(out, remoteSchema)
	return out
}

// DecodeRemote normalizes objects fetched from the remote catalog. The
// schema is fixed and destructured explicitly; only name, description and
// coordinates are user-editable, yet the full object is preserved so export
// round-trips every field.
func DecodeRemote(objs []*Row, ids *IDSource) (*ImportResult, error) {
	base := ids.Next()
	out := make([]*Stop, 0, len(objs))
	for i, src := range objs {
		original := NewRow()
		for _, key := range remoteSchema {
			if v, ok := src.Get(key); ok {
				original.Set(key, v)
			}
		}
		lat, latErr := coordOf(src, "latitude")
		lon, lonErr := coordOf(src, "longitude")
		if latErr != nil || lonErr != nil {
			continue
		}
		var id int64
		if v, ok := src.Get("id"); ok && v != nil {
			id, _ = toInt64(v)
		}
		if id == 0 {
			id = base + int64(i)
		}
		s := &Stop{
			ID:       id,
			Code:     CodeFor(id),
			Name:     stringOf(src, "name"),
			Desc:     stringOf(src, "description"),
			Lat:      lat,
			Lon:      lon,
			Original: original,
		}
		out = append(out, s)
	}
	return &ImportResult{Stops: out}, nil
}

func objectIdentifiers(row *Row, generated int64) (int64, string) {
	if v, ok := row.Get("stop_id"); ok && v != nil {
		if id, err := toInt64(v); err == nil && id != 0 {
			if c, ok := row.Get("stop_code"); ok {
				if cs, err := toString(c); err == nil && cs != "" {
					return id, cs
				}
			}
			return id, CodeFor(id)
		}
	}
	return generated, CodeFor(generated)
}

func stringField(row *Row, f Field) string {
	v, ok := objectValue(row, f)
	if !ok {
		return ""
	}
	s, err := toString(v)
	if err != nil {
		return ""
	}
	return s
}

func floatField(row *Row, f Field) (float64, error) {
	v, ok := objectValue(row, f)
	if !ok {
		return 0, errors.New("missing coordinate")
	}
	return toFloat(v)
}

func stringOf(row *Row, key string) string {
	v, ok := row.Get(key)
	if !ok || v == nil {
		return ""
	}
	s, err := toString(v)
	if err != nil {
		return ""
	}
	return s
}

func coordOf(row *Row, key string) (float64, error) {
	v, ok := row.Get(key)
	if !ok || v == nil {
		return 0, errors.New("missing coordinate")
	}
	return toFloat(v)
}

// Converters for flexible JSON scalar values.

func toString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		return "", errors.New("not a string")
	}
}

func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return finite(t)
	case string:
		return parseCoord(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, err
		}
		return finite(f)
	default:
		return 0, errors.New("not a float")
	}
}

func toInt64(v any) (int64, error) {
	switch t := v.(type) {
	case float64:
		return int64(t), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(t), 10, 64)
	case json.Number:
		return t.Int64()
	default:
		return 0, errors.New("not an int")
	}
}

func parseCoord(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	return finite(f)
}

func finite(f float64) (float64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.New("coordinate not finite")
	}
	return f, nil
}
