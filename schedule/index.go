package schedule

// StopTime is one timetable entry at a stop, in feed order.
type StopTime struct {
	TripID        string
	DepartureTime string // fixed-width HH:MM:SS; lexicographic order is time order
}

// Index stores the static schedule tables keyed by identifier string.
// Populated once per feed load and read-only thereafter. Fields are
// exported for the gob cache.
type Index struct {
	StopsMeta map[string]map[string]string // stop_id -> full stops.txt row
	Trips     map[string]map[string]string // trip_id -> full trips.txt row
	Routes    map[string]map[string]string // route_id -> full routes.txt row
	StopTimes map[string][]StopTime        // stop_id -> entries in feed order
}

// NewIndex creates an empty schedule index.
func NewIndex() *Index {
	return &Index{
		StopsMeta: map[string]map[string]string{},
		Trips:     map[string]map[string]string{},
		Routes:    map[string]map[string]string{},
		StopTimes: map[string][]StopTime{},
	}
}

// Departure is one upcoming departure at a stop.
type Departure struct {
	Time  string `json:"time"`
	Route string `json:"route"`
	// TripID identifies the serving trip; used for realtime annotation.
	TripID string `json:"trip_id,omitempty"`
	// DelaySeconds is a realtime departure delay when Realtime is set.
	DelaySeconds int64 `json:"delay_seconds,omitempty"`
	Realtime     bool  `json:"realtime,omitempty"`
}

// NextDepartures returns up to limit departures from the stop at or after
// the given HH:MM:SS time. Entries keep feed order: the filter-then-truncate
// behavior relies on feeds being pre-sorted and is intentionally not a sort.
// Times of 24:00:00 and later (past-midnight trips) compare correctly among
// themselves but not against same-day times.
//
// Entries whose trip or route cannot be resolved are dropped individually;
// an unknown stop yields an empty result.
func (x *Index) NextDepartures(stopCode, at string, limit int) []Departure {
	entries := x.StopTimes[stopCode]
	if len(entries) == 0 || limit <= 0 {
		return nil
	}
	upcoming := make([]StopTime, 0, limit)
	for _, e := range entries {
		if e.DepartureTime >= at {
			upcoming = append(upcoming, e)
			if len(upcoming) == limit {
				break
			}
		}
	}
	out := make([]Departure, 0, len(upcoming))
	for _, e := range upcoming {
		trip, ok := x.Trips[e.TripID]
		if !ok {
			continue
		}
		route, ok := x.Routes[trip["route_id"]]
		if !ok {
			continue
		}
		name := route["route_short_name"]
		if name == "" {
			name = route["route_long_name"]
		}
		out = append(out, Departure{Time: e.DepartureTime, Route: name, TripID: e.TripID})
	}
	return out
}

// StopName returns the stop_name from the feed metadata, or "".
func (x *Index) StopName(stopID string) string {
	return x.StopsMeta[stopID]["stop_name"]
}

// HasStop reports whether the feed carries timetable entries for the stop.
func (x *Index) HasStop(stopID string) bool {
	_, ok := x.StopTimes[stopID]
	return ok
}

// Annotate overlays realtime departure delays onto a departure list.
// Departures without a delay entry are left untouched.
func Annotate(deps []Departure, delays map[string]int64) []Departure {
	if len(delays) == 0 {
		return deps
	}
	for i := range deps {
		if d, ok := delays[deps[i].TripID]; ok {
			deps[i].DelaySeconds = d
			deps[i].Realtime = true
		}
	}
	return deps
}
