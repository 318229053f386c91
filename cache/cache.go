// Package cache provides content-addressable memoization for expensive,
// content-keyed work such as OCR. Identical input content maps to one
// fingerprint and, through a first-write-wins store, to at most one stored
// result.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"unicode"
)

// Store is the key-value contract a fingerprint cache is built on. Put is
// idempotent: the first payload written for a fingerprint wins, later
// writes for the same fingerprint are silently ignored.
type Store interface {
	Get(fingerprint string) (payload string, ok bool, err error)
	Put(fingerprint, payload string) error
}

// Fingerprint returns the hex SHA-256 digest of raw content bytes.
func Fingerprint(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// FingerprintText canonicalizes text before hashing so that trivially
// reformatted duplicates (case, punctuation, whitespace) hash identically.
func FingerprintText(text string) string {
	return Fingerprint([]byte(CanonicalizeText(text)))
}

// CanonicalizeText lower-cases, drops punctuation and collapses runs of
// whitespace into single spaces.
func CanonicalizeText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// MemoryStore is an in-process Store backed by a mutex-guarded map.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]string)}
}

// Get returns the payload stored for fingerprint, if any.
func (s *MemoryStore) Get(fingerprint string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.entries[fingerprint]
	return payload, ok, nil
}

// Put stores payload unless the fingerprint already has one.
func (s *MemoryStore) Put(fingerprint, payload string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[fingerprint]; exists {
		return nil
	}
	s.entries[fingerprint] = payload
	return nil
}

// Len returns the number of cached entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// ComputeFunc is an expensive content-derived computation, e.g. an OCR pass.
type ComputeFunc func(ctx context.Context, content []byte) (string, error)

// Memoize wraps compute so that byte-identical content is processed at most
// once per store. Concurrent callers racing on a fresh fingerprint may each
// compute once; the store converges via Put's first-write-wins rule, which
// bounds the duplicated work without serializing distinct fingerprints.
func Memoize(store Store, compute ComputeFunc) ComputeFunc {
	return func(ctx context.Context, content []byte) (string, error) {
		fp := Fingerprint(content)

		if payload, ok, err := store.Get(fp); err != nil {
			return "", err
		} else if ok {
			return payload, nil
		}

		payload, err := compute(ctx, content)
		if err != nil {
			return "", err
		}
		if err := store.Put(fp, payload); err != nil {
			return "", err
		}
		// Re-read so racing callers all observe the winning payload.
		if stored, ok, err := store.Get(fp); err == nil && ok {
			return stored, nil
		}
		return payload, nil
	}
}
