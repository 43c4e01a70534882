package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Amund211/pilgrim/internal/adapters/cache"
	"github.com/Amund211/pilgrim/internal/domain"
)

// Ranks may lag behind other players by this much
const RANK_CACHE_TTL = 10 * time.Second

type rankRepository interface {
	LoadProgress(ctx context.Context, userID string) (domain.PlayerProgress, error)
	CountUsersAbove(ctx context.Context, points int) (int, error)
}

// GetRank returns the 1-based position of the user by total points. Ties share a rank.
type GetRank func(ctx context.Context, userID string) (int, error)

// countCache holds CountUsersAbove results keyed by the point total
func BuildGetRank(store sessionStore, repo rankRepository, countCache cache.Cache[int]) GetRank {
	return func(ctx context.Context, userID string) (int, error) {
		// The session is ahead of storage while syncs are in flight
		progress, err := store.Get(userID)
		if err != nil {
			// NOTE: rankRepository implementations handle their own error reporting
			progress, err = repo.LoadProgress(ctx, userID)
			if err != nil {
				return 0, fmt.Errorf("failed to load progress: %w", err)
			}
		}

		above, _, err := cache.GetOrCreate(ctx, countCache, strconv.Itoa(progress.TotalPoints), func() (int, error) {
			return repo.CountUsersAbove(ctx, progress.TotalPoints)
		})
		if err != nil {
			return 0, fmt.Errorf("failed to count users above: %w", err)
		}

		return above + 1, nil
	}
}
