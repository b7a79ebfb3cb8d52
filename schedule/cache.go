package schedule

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
)

// EncodeIndex encodes an Index to bytes using gob encoding, for disk-based
// caching that avoids re-parsing the feed on every invocation.
func EncodeIndex(x *Index) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(x); err != nil {
		return nil, fmt.Errorf("failed to encode schedule index: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeIndex decodes an Index previously produced by EncodeIndex.
func DecodeIndex(data []byte) (*Index, error) {
	var x Index
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&x); err != nil {
		return nil, fmt.Errorf("failed to decode schedule index: %w", err)
	}
	return &x, nil
}

// SaveIndexFile writes a cached index to disk.
func SaveIndexFile(x *Index, path string) error {
	data, err := EncodeIndex(x)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadIndexFile reads a cached index from disk. A missing or corrupted
// cache is an error; callers fall back to parsing the feed.
func LoadIndexFile(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	return DecodeIndex(data)
}
