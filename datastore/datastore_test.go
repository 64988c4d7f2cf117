package datastore

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

type item struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newStore(t *testing.T, path string) *DataStore {
	t.Helper()
	cfg := DefaultConfig(path)
	cfg.AutoSaveInterval = 0
	ds, err := NewWithConfig(cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return ds
}

func TestPutGetDelete(t *testing.T) {
	ds := newStore(t, filepath.Join(t.TempDir(), "db.json"))
	defer ds.Close()

	if err := ds.Put("a", item{Name: "x", Count: 2}); err != nil {
		t.Fatalf("put: %v", err)
	}

	var got item
	ok, err := ds.Get("a", &got)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got != (item{Name: "x", Count: 2}) {
		t.Fatalf("unexpected value %+v", got)
	}

	if err := ds.Delete("a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if ok, _ := ds.Get("a", &got); ok {
		t.Fatal("expected key to be gone")
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "db.json")
	ds := newStore(t, path)
	_ = ds.Put("k", item{Name: "kept"})
	if err := ds.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened := newStore(t, path)
	defer reopened.Close()

	var got item
	if ok, err := reopened.Get("k", &got); !ok || err != nil || got.Name != "kept" {
		t.Fatalf("expected persisted value, ok=%v err=%v got=%+v", ok, err, got)
	}
}

func TestKeysByPrefix(t *testing.T) {
	ds := newStore(t, filepath.Join(t.TempDir(), "db.json"))
	defer ds.Close()

	for _, k := range []string{"r:2", "other", "r:1"} {
		_ = ds.Put(k, 1)
	}
	if got := ds.Keys("r:"); !slices.Equal(got, []string{"r:1", "r:2"}) {
		t.Fatalf("unexpected keys %v", got)
	}
}

func TestMemoryLimit(t *testing.T) {
	cfg := DefaultConfig(filepath.Join(t.TempDir(), "db.json"))
	cfg.AutoSaveInterval = 0
	cfg.MaxMemorySize = 8
	ds, err := NewWithConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer ds.Close()

	if err := ds.Put("k", "far too long for the limit"); !errors.Is(err, ErrMemoryLimit) {
		t.Fatalf("expected ErrMemoryLimit, got %v", err)
	}
}

func TestClosedStoreRejectsWrites(t *testing.T) {
	ds := newStore(t, filepath.Join(t.TempDir(), "db.json"))
	if err := ds.Close(); err != nil {
		t.Fatal(err)
	}
	if err := ds.Put("k", 1); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if err := ds.Close(); err != nil {
		t.Fatalf("second close should be a no-op, got %v", err)
	}
}

func TestInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestBackupsAreRotated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	cfg := DefaultConfig(path)
	cfg.AutoSaveInterval = 0
	cfg.BackupCount = 2
	ds, err := NewWithConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer ds.Close()

	for i := 0; i < 5; i++ {
		_ = ds.Put("k", i)
		if err := ds.SaveToFile(); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	backups, _ := filepath.Glob(path + ".backup.*")
	if len(backups) != 2 {
		t.Fatalf("expected 2 backups, got %d", len(backups))
	}
}
