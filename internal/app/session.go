package app

import (
	"context"
	"fmt"

	"github.com/Amund211/pilgrim/internal/domain"
	"github.com/Amund211/pilgrim/internal/logging"
)

type sessionStore interface {
	Login(ctx context.Context, userID string) (domain.PlayerProgress, error)
	Get(userID string) (domain.PlayerProgress, error)
	Apply(userID string, transition func(progress domain.PlayerProgress) (domain.PlayerProgress, error)) (domain.PlayerProgress, domain.Delta, error)
	Logout(userID string)
}

type loginRegistrar interface {
	RegisterLogin(ctx context.Context, userID string) (domain.UserLogins, error)
}

// Login opens a session for the user
//
// Recording the login is best effort and never fails the login.
type Login func(ctx context.Context, userID string) (domain.PlayerProgress, error)

func BuildLogin(store sessionStore, logins loginRegistrar) Login {
	return func(ctx context.Context, userID string) (domain.PlayerProgress, error) {
		progress, err := store.Login(ctx, userID)
		if err != nil {
			// NOTE: sessionStore implementations handle their own error reporting
			return domain.PlayerProgress{}, fmt.Errorf("failed to log in: %w", err)
		}

		logger := logging.FromContext(ctx)

		summary, err := logins.RegisterLogin(ctx, userID)
		if err != nil {
			// NOTE: loginRegistrar implementations handle their own error reporting
			logger.WarnContext(ctx, "Failed to register login", "error", err.Error())
		} else {
			logger.InfoContext(ctx, "Registered login", "loginCount", summary.LoginCount, "firstLoginAt", summary.FirstLoginAt)
		}

		logger.InfoContext(ctx, "Logged in", "totalPoints", progress.TotalPoints)

		return progress, nil
	}
}

// Logout drops the session. Deltas still being synced finish in the background.
type Logout func(ctx context.Context, userID string)

func BuildLogout(store sessionStore) Logout {
	return func(ctx context.Context, userID string) {
		store.Logout(userID)
		logging.FromContext(ctx).InfoContext(ctx, "Logged out")
	}
}

type ProgressOverview struct {
	Progress  domain.PlayerProgress
	Level     domain.LevelThreshold
	NextLevel *domain.LevelThreshold
	Rank      int
}

type GetProgress func(ctx context.Context, userID string) (ProgressOverview, error)

func BuildGetProgress(store sessionStore, levels domain.LevelTable, getRank GetRank) GetProgress {
	return func(ctx context.Context, userID string) (ProgressOverview, error) {
		progress, err := store.Get(userID)
		if err != nil {
			return ProgressOverview{}, err
		}

		rank, err := getRank(ctx, userID)
		if err != nil {
			// NOTE: GetRank implementations handle their own error reporting
			return ProgressOverview{}, fmt.Errorf("failed to get rank: %w", err)
		}

		overview := ProgressOverview{
			Progress: progress,
			Level:    levels.LevelForPoints(progress.TotalPoints),
			Rank:     rank,
		}
		if next, ok := levels.NextLevel(progress.TotalPoints); ok {
			overview.NextLevel = &next
		}

		return overview, nil
	}
}
