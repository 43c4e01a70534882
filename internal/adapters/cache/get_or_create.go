package cache

import (
	"context"
	"fmt"

	"github.com/Amund211/pilgrim/internal/logging"
)

// Returns data, created, error
//
// Concurrent callers for the same key wait for the first one to create the entry.
// A failed create leaves the key free so the next caller can try again.
func GetOrCreate[T any](ctx context.Context, cache Cache[T], key string, create func() (T, error)) (T, bool, error) {
	claimed := false
	set := false
	defer func() {
		if claimed && !set {
			cache.Delete(key)
		}
	}()

	for {
		result := cache.getOrClaim(key)

		if result.claimed {
			claimed = true

			logging.FromContext(ctx).InfoContext(ctx, "Getting cache entry", "cache", "miss")

			data, err := create()
			if err != nil {
				var empty T
				return empty, false, fmt.Errorf("failed to create cache entry: %w", err)
			}

			cache.set(key, data)
			set = true

			return data, true, nil
		}

		if result.valid {
			logging.FromContext(ctx).InfoContext(ctx, "Getting cache entry", "cache", "hit")
			return result.data, false, nil
		}

		logging.FromContext(ctx).InfoContext(ctx, "Waiting for cache")
		cache.wait()
	}
}
