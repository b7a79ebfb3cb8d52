package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type healthResponse struct {
	Status string `json:"status"`
	Stops  int    `json:"stops"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Stops: s.session.Len()})
}

func (s *Server) handleStops(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Stops())
}

// handleDepartures answers /api/departures?stop=S1&at=08:30:00&limit=5.
// at defaults to the current minute, limit to 5.
func (s *Server) handleDepartures(w http.ResponseWriter, r *http.Request) {
	if s.sched == nil {
		writeError(w, http.StatusServiceUnavailable, "no schedule feed loaded")
		return
	}
	stop := strings.TrimSpace(r.URL.Query().Get("stop"))
	if stop == "" {
		writeError(w, http.StatusBadRequest, "you must provide a stop code")
		return
	}
	at := r.URL.Query().Get("at")
	if at == "" {
		at = time.Now().Format("15:04") + ":00"
	} else if !validClockTime(at) {
		writeError(w, http.StatusBadRequest, "at must be HH:MM:SS")
		return
	}
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.sched.NextDepartures(stop, at, limit))
}

func parseLimit(s string) (int, error) {
	if s == "" {
		return 5, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("limit must be a positive integer")
	}
	return v, nil
}

// validClockTime accepts fixed-width HH:MM:SS, including hours past 24 for
// past-midnight trips.
func validClockTime(s string) bool {
	if len(s) != 8 || s[2] != ':' || s[5] != ':' {
		return false
	}
	for _, i := range []int{0, 1, 3, 4, 6, 7} {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
