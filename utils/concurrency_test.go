package utils

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestURLSetNoDuplicates(t *testing.T) {
	s := NewURLSet()

	added := s.Add("https://www.tiktok.com/@acct1/video/1")
	if !added {
		t.Error("first Add should return true")
	}

	added = s.Add("https://www.tiktok.com/@acct1/video/1")
	if added {
		t.Error("second Add of same URL should return false")
	}

	if !s.Contains("https://www.tiktok.com/@acct1/video/1") {
		t.Error("Contains should report the added URL")
	}
	if s.Size() != 1 {
		t.Errorf("size: got %d, want 1", s.Size())
	}
}

func TestURLSetConcurrency(t *testing.T) {
	s := NewURLSet()
	var added int64

	pool := NewWorkerPool(10, 0)
	for i := 0; i < 100; i++ {
		url := "https://www.tiktok.com/@acct1/video/same"
		pool.Submit(func() {
			if s.Add(url) {
				atomic.AddInt64(&added, 1)
			}
		})
	}
	pool.Wait()

	if added != 1 {
		t.Errorf("expected exactly 1 successful add, got %d", added)
	}
}

func TestWorkerPoolRateLimit(t *testing.T) {
	rateLimitMs := 100
	pool := NewWorkerPool(1, rateLimitMs)

	start := time.Now()
	for i := 0; i < 3; i++ {
		pool.Submit(func() {})
	}
	pool.Wait()

	// Three paced job starts cannot finish before two full intervals.
	min := 2 * time.Duration(rateLimitMs) * time.Millisecond
	if elapsed := time.Since(start); elapsed < min {
		t.Errorf("3 jobs finished in %v, want at least %v", elapsed, min)
	}
}

func TestWorkerPoolUnlimitedRate(t *testing.T) {
	pool := NewWorkerPool(4, 0)

	start := time.Now()
	var done int64
	for i := 0; i < 8; i++ {
		pool.Submit(func() {
			atomic.AddInt64(&done, 1)
		})
	}
	pool.Wait()

	if done != 8 {
		t.Errorf("jobs completed: got %d, want 8", done)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("unpaced pool took %v, expected near-instant completion", elapsed)
	}
}
