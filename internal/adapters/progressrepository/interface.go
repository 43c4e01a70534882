package progressrepository

import (
	"context"
	"time"

	"github.com/Amund211/pilgrim/internal/domain"
)

// ProgressRepository is the persistent source of truth for player progress
//
// The Persist* methods are the sync targets for in-memory sessions. They are
// safe to call in any order: stored points and campaign levels never decrease,
// and achievements and verses are stored at most once.
type ProgressRepository interface {
	LoadProgress(ctx context.Context, userID string) (domain.PlayerProgress, error)

	PersistPoints(ctx context.Context, userID string, newTotal int) error
	PersistAchievementUnlock(ctx context.Context, userID string, achievementID domain.AchievementID) error
	PersistVerse(ctx context.Context, userID string, verse string) error
	PersistCampaignProgress(ctx context.Context, userID string, campaignID domain.CampaignID, level int) error
	PersistDailyClaim(ctx context.Context, userID string, claimedAt time.Time) error

	// CountUsersAbove counts stored users with strictly more points
	CountUsersAbove(ctx context.Context, points int) (int, error)
}
