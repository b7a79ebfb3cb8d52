package stops

import (
	"errors"
	"strings"
)

// ErrNoCoordinateColumns rejects a heuristic import whose header resolves
// neither a latitude nor a longitude column.
var ErrNoCoordinateColumns = errors.New("could not detect latitude/longitude columns")

// Field names the logical fields a source column or object key can map to.
type Field string

const (
	FieldName Field = "name"
	FieldLat  Field = "lat"
	FieldLon  Field = "lon"
	FieldDesc Field = "desc"
	FieldImg  Field = "img"
)

// fieldAliases is the single declarative alias table shared by heuristic
// tabular, JSON and remote normalization. Tabular resolution walks the
// header in column order and takes the first column whose normalized key
// appears here; JSON resolution walks the aliases in the order below and
// takes the first key present on the object.
var fieldAliases = map[Field][]string{
	FieldName: {"name", "stop_name", "stopname", "title"},
	FieldLat:  {"lat", "latitude", "_lat", "stoplat", "stop_lat"},
	FieldLon:  {"lon", "lng", "longitude", "_lon", "stoplon", "stop_lon"},
	FieldDesc: {"desc", "description", "stopdesc", "stop_desc"},
	FieldImg:  {"img", "image", "photo", "imgfilename", "img_filename"},
}

// canonicalKeys are the six normalized keys whose joint presence classifies
// a header as canonical schema.
var canonicalKeys = []string{"stop_id", "stop_code", "stop_name", "stop_desc", "stop_lat", "stop_lon"}

// NormalizeKey reduces a header token to its comparison key: lowercase with
// everything outside [a-z0-9_] stripped. The original token is never mutated;
// exports reuse the verbatim header.
func NormalizeKey(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
			out = append(out, c+('a'-'A'))
		case (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_':
			out = append(out, c)
		}
	}
	return string(out)
}

// ParseHeader splits and trims a raw header line, keeping the verbatim
// column names alongside their normalized keys.
func ParseHeader(line string) *Header {
	fields := SplitFields(line, ',')
	h := &Header{Raw: make([]string, len(fields)), Norm: make([]string, len(fields))}
	for i, f := range fields {
		raw := strings.TrimSpace(f)
		h.Raw[i] = raw
		h.Norm[i] = NormalizeKey(raw)
	}
	return h
}

// IsCanonical reports whether the header carries all six canonical keys,
// in any order, case or punctuation.
func (h *Header) IsCanonical() bool {
	for _, key := range canonicalKeys {
		if h.IndexOfNorm(key) < 0 {
			return false
		}
	}
	return true
}

// ResolveMapping maps logical fields onto a heuristic header. For each field
// the first column (in header order) whose normalized key is a known alias
// wins; the mapping records the verbatim column name. Latitude and longitude
// are mandatory; everything else defaults to unmapped.
func ResolveMapping(h *Header) (ColumnMapping, error) {
	find := func(f Field) string {
		set := map[string]bool{}
		for _, a := range fieldAliases[f] {
			set[a] = true
		}
		for i, n := range h.Norm {
			if set[n] {
				return h.Raw[i]
			}
		}
		return ""
	}
	m := ColumnMapping{
		Name: find(FieldName),
		Lat:  find(FieldLat),
		Lon:  find(FieldLon),
		Desc: find(FieldDesc),
		Img:  find(FieldImg),
	}
	if m.Lat == "" || m.Lon == "" {
		return ColumnMapping{}, ErrNoCoordinateColumns
	}
	return m, nil
}

// objectValue walks the alias list for a logical field and returns the first
// non-null value present on a loosely-typed object.
func objectValue(row *Row, f Field) (any, bool) {
	for _, key := range fieldAliases[f] {
		if v, ok := row.Get(key); ok && v != nil {
			return v, true
		}
	}
	return nil, false
}
