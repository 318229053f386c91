// Package ocr defines the boundary to an external text-recognition engine.
// The engine itself lives outside this repository; callers plug in any
// implementation of Func.
package ocr

import (
	"context"

	"tiktok-scraper/cache"
)

// Func converts image bytes into recognized text.
type Func func(ctx context.Context, image []byte) (string, error)

// Cached wraps fn with content-addressed memoization: byte-identical images
// are recognized at most once per store, later calls return the cached text.
func Cached(store cache.Store, fn Func) Func {
	memoized := cache.Memoize(store, cache.ComputeFunc(fn))
	return func(ctx context.Context, image []byte) (string, error) {
		return memoized(ctx, image)
	}
}
