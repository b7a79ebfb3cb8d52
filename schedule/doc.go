/*
Package schedule loads a GTFS-like static feed into cross-referenced
in-memory lookup tables and answers "what departs from this stop after this
time".

The feed is up to four delimited tables with header rows: stops.txt,
stop_times.txt, trips.txt and routes.txt. Partial feeds are fine; missing
files are skipped and malformed rows within a file never abort the rest of
that file. No referential integrity is checked at load time; dangling
trip or route references simply fail to enrich at query time.

Load once, query many times: the index is read-only after Load and safe for
concurrent reads.
*/
package schedule
