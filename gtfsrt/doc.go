/*
Package gtfsrt fetches and parses a GTFS-Realtime TripUpdates feed into
per-trip departure delays. The delays annotate schedule query results; a
fetch is a single best-effort request with no retry.
*/
package gtfsrt
