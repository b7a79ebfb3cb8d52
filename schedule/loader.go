package schedule

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// feedFiles are the tables a feed may carry. Anything else in the container
// is ignored.
var feedFiles = []string{"stops.txt", "stop_times.txt", "trips.txt", "routes.txt"}

// Load populates the index from a container of named text blobs. Missing
// files are silently skipped; each present file is parsed independently.
func (x *Index) Load(files map[string][]byte) error {
	for _, name := range feedFiles {
		data, ok := files[name]
		if !ok {
			continue
		}
		x.loadTable(name, data)
	}
	return nil
}

// loadTable parses one delimited table. Build is append-only; a malformed
// row is skipped without aborting the rest of the file.
func (x *Index) loadTable(name string, data []byte) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	header, err := r.Read()
	if err != nil {
		return
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		row := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(rec) {
				row[h] = rec[i]
			} else {
				row[h] = ""
			}
		}
		switch name {
		case "stops.txt":
			if id := row["stop_id"]; id != "" {
				x.StopsMeta[id] = row
			}
		case "stop_times.txt":
			if id := row["stop_id"]; id != "" {
				x.StopTimes[id] = append(x.StopTimes[id], StopTime{
					TripID:        row["trip_id"],
					DepartureTime: row["departure_time"],
				})
			}
		case "trips.txt":
			if id := row["trip_id"]; id != "" {
				x.Trips[id] = row
			}
		case "routes.txt":
			if id := row["route_id"]; id != "" {
				x.Routes[id] = row
			}
		}
	}
}

// LoadZip builds an index from a zipped feed held in memory.
func LoadZip(data []byte) (*Index, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	files := map[string][]byte{}
	for _, f := range zr.File {
		name := strings.ToLower(filepath.Base(f.Name))
		if !isFeedFile(name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			continue
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		files[name] = b
	}
	x := NewIndex()
	if err := x.Load(files); err != nil {
		return nil, err
	}
	return x, nil
}

// LoadPath builds an index from a feed on disk: either a .zip file or a
// directory containing the four tables.
func LoadPath(path string) (*Index, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return LoadZip(data)
	}
	files := map[string][]byte{}
	for _, name := range feedFiles {
		b, err := os.ReadFile(filepath.Join(path, name))
		if err != nil {
			continue
		}
		files[name] = b
	}
	x := NewIndex()
	if err := x.Load(files); err != nil {
		return nil, err
	}
	return x, nil
}

func isFeedFile(name string) bool {
	for _, f := range feedFiles {
		if f == name {
			return true
		}
	}
	return false
}
