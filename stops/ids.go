package stops

import (
	"strconv"
	"time"
)

// IDSource issues identifiers for stops created without an external one.
// The default strategy is the current wall-clock time in milliseconds:
// ids are ordered, not guaranteed unique across rapid successive calls,
// and callers rely only on the ordering. The clock is injectable so tests
// and future collision-free generators can replace it.
type IDSource struct {
	Now func() time.Time
}

// NewIDSource returns a wall-clock backed source.
func NewIDSource() *IDSource {
	return &IDSource{Now: time.Now}
}

// Next returns a fresh timestamp identifier.
func (s *IDSource) Next() int64 {
	return s.Now().UnixMilli()
}

// CodeFor derives the stop code for an identifier.
func CodeFor(id int64) string {
	return "S" + strconv.FormatInt(id, 10)
}
