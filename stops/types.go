package stops

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Stop is the canonical unit of the collection.
type Stop struct {
	ID            int64   `json:"stop_id"`
	Code          string  `json:"stop_code"`
	Name          string  `json:"stop_name"`
	Desc          string  `json:"stop_desc"`
	Lat           float64 `json:"stop_lat"`
	Lon           float64 `json:"stop_lon"`
	PhotoFilename string  `json:"photo_filename,omitempty"`
	// PhotoPreview holds in-memory preview bytes; never exported or persisted.
	PhotoPreview []byte `json:"-"`
	// Original preserves the source row or object at import time. Empty for
	// freshly captured stops. When non-empty it holds an entry for every
	// column of the header active at import, keyed by the verbatim column
	// name, so unmodified columns round-trip byte-for-byte.
	Original *Row `json:"original_row,omitempty"`
}

// ColumnMapping records how heuristic-schema columns resolve onto logical
// fields. Each entry is a verbatim source header name, or "" when unmapped.
// Reset whenever a canonical-schema, JSON or remote import occurs.
type ColumnMapping struct {
	Name string `json:"name,omitempty"`
	Lat  string `json:"lat,omitempty"`
	Lon  string `json:"lon,omitempty"`
	Desc string `json:"desc,omitempty"`
	Img  string `json:"img,omitempty"`
}

// IsZero reports whether no column resolved.
func (m ColumnMapping) IsZero() bool {
	return m == ColumnMapping{}
}

// Header is the exact ordered sequence of source column names from the last
// tabular import, paired with the normalized comparison key of each column.
type Header struct {
	Raw  []string `json:"raw"`
	Norm []string `json:"norm"`
}

// IndexOfNorm returns the position of the first column whose normalized key
// equals key, or -1.
func (h *Header) IndexOfNorm(key string) int {
	for i, n := range h.Norm {
		if n == key {
			return i
		}
	}
	return -1
}

// IndexOfRaw returns the position of the first column with the verbatim
// name, or -1.
func (h *Header) IndexOfRaw(name string) int {
	for i, r := range h.Raw {
		if r == name {
			return i
		}
	}
	return -1
}

// Row is an ordered association of original column names (or object keys)
// to their values. Construction happens once at import; afterwards only
// whitelisted overlay keys are written through Set.
type Row struct {
	keys []string
	vals map[string]any
}

// NewRow returns an empty row.
func NewRow() *Row {
	return &Row{vals: map[string]any{}}
}

// Set stores a value, appending the key on first use so ordering is stable.
func (r *Row) Set(key string, v any) {
	if _, ok := r.vals[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.vals[key] = v
}

// Get returns the value for key and whether it is present.
func (r *Row) Get(key string) (any, bool) {
	v, ok := r.vals[key]
	return v, ok
}

// Len returns the number of columns.
func (r *Row) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Keys returns the column names in insertion order.
func (r *Row) Keys() []string { return r.keys }

// Clone returns an independent copy sharing no state with the receiver.
func (r *Row) Clone() *Row {
	c := &Row{keys: make([]string, len(r.keys)), vals: make(map[string]any, len(r.vals))}
	copy(c.keys, r.keys)
	for k, v := range r.vals {
		c.vals[k] = v
	}
	return c
}

// MarshalJSON emits the row as a JSON object in insertion order.
func (r *Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(r.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object preserving top-level key order.
// Numbers are kept as json.Number so they re-serialize verbatim.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("row: expected object, got %v", tok)
	}
	r.keys = nil
	r.vals = map[string]any{}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := kt.(string)
		if !ok {
			return fmt.Errorf("row: non-string key %v", kt)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return err
		}
		r.Set(key, v)
	}
	_, err = dec.Token() // closing brace
	return err
}

// formatValue renders a row value for delimited-text output. Strings pass
// through untouched; numbers use their shortest decimal form.
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
