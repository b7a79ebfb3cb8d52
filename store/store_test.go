package store

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPutGetDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if v, err := s.Get(ctx, "missing"); err != nil || v != nil {
		t.Errorf("Get missing = %v, %v; want nil, nil", v, err)
	}

	if err := s.Put(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if v, err := s.Get(ctx, "k"); err != nil || !bytes.Equal(v, []byte("v1")) {
		t.Errorf("Get = %q, %v", v, err)
	}

	// Overwrite.
	if err := s.Put(ctx, "k", []byte("v2")); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	if v, _ := s.Get(ctx, "k"); !bytes.Equal(v, []byte("v2")) {
		t.Errorf("Get after overwrite = %q", v)
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if v, err := s.Get(ctx, "k"); err != nil || v != nil {
		t.Errorf("Get after delete = %v, %v", v, err)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete absent = %v, want nil", err)
	}
}

func TestSaveLoadClearStops(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if v, err := s.LoadStops(ctx); err != nil || v != nil {
		t.Errorf("LoadStops empty = %v, %v", v, err)
	}
	snapshot := []byte(`[{"stop_id":1}]`)
	if err := s.SaveStops(ctx, snapshot); err != nil {
		t.Fatalf("SaveStops: %v", err)
	}
	if v, _ := s.LoadStops(ctx); !bytes.Equal(v, snapshot) {
		t.Errorf("LoadStops = %q", v)
	}
	if err := s.ClearStops(ctx); err != nil {
		t.Fatalf("ClearStops: %v", err)
	}
	if v, _ := s.LoadStops(ctx); v != nil {
		t.Errorf("LoadStops after clear = %q", v)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.SaveStops(ctx, []byte("[]")); err != nil {
		t.Fatalf("SaveStops: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	if v, _ := s2.LoadStops(ctx); !bytes.Equal(v, []byte("[]")) {
		t.Errorf("LoadStops after reopen = %q", v)
	}
}
