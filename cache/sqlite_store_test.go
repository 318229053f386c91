package cache

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	s := openTestStore(t)
	fp := FingerprintText("some slide text")

	if _, ok, err := s.Get(fp); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	if err := s.Put(fp, "payload"); err != nil {
		t.Fatalf("put: %v", err)
	}

	payload, ok, err := s.Get(fp)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if payload != "payload" {
		t.Errorf("payload: got %q, want %q", payload, "payload")
	}
}

func TestSQLiteStoreFirstWriteWins(t *testing.T) {
	s := openTestStore(t)
	fp := Fingerprint([]byte("image bytes"))

	if err := s.Put(fp, "first"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Put(fp, "second"); err != nil {
		t.Fatalf("second put: %v", err)
	}

	payload, ok, err := s.Get(fp)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if payload != "first" {
		t.Errorf("payload: got %q, want %q", payload, "first")
	}
}
