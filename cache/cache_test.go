package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
)

func TestFingerprintDeterministic(t *testing.T) {
	a := Fingerprint([]byte("slide content"))
	b := Fingerprint([]byte("slide content"))
	if a != b {
		t.Errorf("fingerprints differ for identical content: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("fingerprint length: got %d, want 64 hex chars", len(a))
	}
	if Fingerprint([]byte("other content")) == a {
		t.Error("distinct content produced identical fingerprints")
	}
}

func TestFingerprintTextCanonicalization(t *testing.T) {
	a := FingerprintText("Follow  For More   DAILY Tips!")
	b := FingerprintText("follow for more daily tips")
	if a != b {
		t.Errorf("canonicalized texts should hash identically: %s vs %s", a, b)
	}
}

func TestCanonicalizeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello,   World!", "hello world"},
		{"  spaced\tout\ntext  ", "spaced out text"},
		{"", ""},
		{"MiXeD CaSe", "mixed case"},
	}
	for _, tt := range tests {
		if got := CanonicalizeText(tt.in); got != tt.want {
			t.Errorf("CanonicalizeText(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestMemoryStoreFirstWriteWins(t *testing.T) {
	s := NewMemoryStore()
	fp := Fingerprint([]byte("img"))

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
		t.Errorf("payload: got %q, want %q (first write must win)", payload, "first")
	}
	if s.Len() != 1 {
		t.Errorf("entries: got %d, want 1", s.Len())
	}
}

func TestMemoryStoreMiss(t *testing.T) {
	s := NewMemoryStore()
	if _, ok, err := s.Get("missing"); ok || err != nil {
		t.Errorf("expected clean miss, got ok=%v err=%v", ok, err)
	}
}

func TestMemoizeComputesOnce(t *testing.T) {
	var calls int64
	recognize := func(ctx context.Context, content []byte) (string, error) {
		atomic.AddInt64(&calls, 1)
		return "recognized text", nil
	}

	cached := Memoize(NewMemoryStore(), recognize)
	image := []byte{0x89, 0x50, 0x4e, 0x47}

	first, err := cached(context.Background(), image)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := cached(context.Background(), image)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	if calls != 1 {
		t.Errorf("compute invoked %d times, want exactly 1", calls)
	}
	if first != "recognized text" || second != first {
		t.Errorf("cached payload changed: %q vs %q", first, second)
	}
}

func TestMemoizeDistinctContent(t *testing.T) {
	var calls int64
	cached := Memoize(NewMemoryStore(), func(ctx context.Context, content []byte) (string, error) {
		atomic.AddInt64(&calls, 1)
		return string(content), nil
	})

	_, _ = cached(context.Background(), []byte("one"))
	_, _ = cached(context.Background(), []byte("two"))

	if calls != 2 {
		t.Errorf("compute invoked %d times for distinct content, want 2", calls)
	}
}

func TestMemoizeConcurrentConvergence(t *testing.T) {
	store := NewMemoryStore()
	cached := Memoize(store, func(ctx context.Context, content []byte) (string, error) {
		return "ocr result", nil
	})

	image := []byte("same slide")
	var wg sync.WaitGroup
	results := make([]string, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := cached(context.Background(), image)
			if err != nil {
				t.Errorf("worker %d: %v", i, err)
				return
			}
			results[i] = out
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		if r != "ocr result" {
			t.Errorf("worker %d observed %q", i, r)
		}
	}
	if store.Len() != 1 {
		t.Errorf("store entries: got %d, want 1", store.Len())
	}
}
