package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// fetchContent reads raw bytes from a local path or an HTTP URL. The core
// only ever sees content already in memory.
func fetchContent(pathOrURL string) ([]byte, error) {
	if !strings.HasPrefix(pathOrURL, "http://") && !strings.HasPrefix(pathOrURL, "https://") {
		return os.ReadFile(pathOrURL)
	}
	resp, err := http.Get(pathOrURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pathOrURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, pathOrURL)
	}
	return io.ReadAll(resp.Body)
}
