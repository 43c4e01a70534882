package app

import (
	"context"
	"time"

	"github.com/Amund211/pilgrim/internal/domain"
	"github.com/Amund211/pilgrim/internal/logging"
)

type deltaSyncer interface {
	Sync(ctx context.Context, delta domain.Delta)
}

// ProgressUpdate is the state after a transition and the events it produced, in order
type ProgressUpdate struct {
	Progress domain.PlayerProgress
	Events   []domain.Event
}

type eventTransition func(progress domain.PlayerProgress) (domain.PlayerProgress, []domain.Event, error)

// Run the transition on the session and hand what changed to the syncer
func applyAndSync(ctx context.Context, store sessionStore, syncer deltaSyncer, userID string, transition eventTransition) (ProgressUpdate, error) {
	var events []domain.Event
	progress, delta, err := store.Apply(userID, func(progress domain.PlayerProgress) (domain.PlayerProgress, error) {
		next, transitionEvents, err := transition(progress)
		events = transitionEvents
		return next, err
	})
	if err != nil {
		return ProgressUpdate{}, err
	}

	syncer.Sync(ctx, delta)

	for _, event := range events {
		logging.FromContext(ctx).InfoContext(
			ctx,
			"Progression event",
			"kind", string(event.Kind),
			"level", event.Level,
			"achievementID", string(event.AchievementID),
		)
	}

	if events == nil {
		events = []domain.Event{}
	}
	return ProgressUpdate{Progress: progress, Events: events}, nil
}

type AddPoints func(ctx context.Context, userID string, amount int) (ProgressUpdate, error)

func BuildAddPoints(engine *domain.Engine, store sessionStore, syncer deltaSyncer) AddPoints {
	return func(ctx context.Context, userID string, amount int) (ProgressUpdate, error) {
		return applyAndSync(ctx, store, syncer, userID, func(progress domain.PlayerProgress) (domain.PlayerProgress, []domain.Event, error) {
			return engine.AddPoints(progress, amount)
		})
	}
}

type UnlockAchievement func(ctx context.Context, userID string, id domain.AchievementID) (ProgressUpdate, error)

func BuildUnlockAchievement(engine *domain.Engine, store sessionStore, syncer deltaSyncer) UnlockAchievement {
	return func(ctx context.Context, userID string, id domain.AchievementID) (ProgressUpdate, error) {
		return applyAndSync(ctx, store, syncer, userID, func(progress domain.PlayerProgress) (domain.PlayerProgress, []domain.Event, error) {
			return engine.UnlockAchievement(progress, id)
		})
	}
}

// Returns the update and whether the verse was new to the collection
type RecordVerse func(ctx context.Context, userID string, verse string) (ProgressUpdate, bool, error)

func BuildRecordVerse(engine *domain.Engine, store sessionStore, syncer deltaSyncer) RecordVerse {
	return func(ctx context.Context, userID string, verse string) (ProgressUpdate, bool, error) {
		wasNew := false
		update, err := applyAndSync(ctx, store, syncer, userID, func(progress domain.PlayerProgress) (domain.PlayerProgress, []domain.Event, error) {
			next, events, verseWasNew, err := engine.RecordVerse(progress, verse)
			wasNew = verseWasNew
			return next, events, err
		})
		if err != nil {
			return ProgressUpdate{}, false, err
		}
		return update, wasNew, nil
	}
}

// Returns the update and whether the campaign was finished
type CompleteLevel func(ctx context.Context, userID string, campaign domain.CampaignID, verse string, nextLevel int) (ProgressUpdate, bool, error)

func BuildCompleteLevel(engine *domain.Engine, store sessionStore, syncer deltaSyncer) CompleteLevel {
	return func(ctx context.Context, userID string, campaign domain.CampaignID, verse string, nextLevel int) (ProgressUpdate, bool, error) {
		victory := false
		update, err := applyAndSync(ctx, store, syncer, userID, func(progress domain.PlayerProgress) (domain.PlayerProgress, []domain.Event, error) {
			completion, err := engine.CompleteLevel(progress, campaign, verse, nextLevel)
			victory = completion.Victory
			return completion.Progress, completion.Events, err
		})
		if err != nil {
			return ProgressUpdate{}, false, err
		}
		return update, victory, nil
	}
}

type ClaimDailyReward func(ctx context.Context, userID string) (ProgressUpdate, error)

func BuildClaimDailyReward(engine *domain.Engine, store sessionStore, syncer deltaSyncer, nowFunc func() time.Time) ClaimDailyReward {
	return func(ctx context.Context, userID string) (ProgressUpdate, error) {
		now := nowFunc()
		return applyAndSync(ctx, store, syncer, userID, func(progress domain.PlayerProgress) (domain.PlayerProgress, []domain.Event, error) {
			return engine.ClaimDailyReward(progress, now)
		})
	}
}

type RecordSocialInteraction func(ctx context.Context, userID string, action domain.SocialAction) (ProgressUpdate, error)

func BuildRecordSocialInteraction(engine *domain.Engine, store sessionStore, syncer deltaSyncer) RecordSocialInteraction {
	return func(ctx context.Context, userID string, action domain.SocialAction) (ProgressUpdate, error) {
		return applyAndSync(ctx, store, syncer, userID, func(progress domain.PlayerProgress) (domain.PlayerProgress, []domain.Event, error) {
			return engine.RecordSocialInteraction(progress, action)
		})
	}
}

type RecordVisit func(ctx context.Context, userID string, surface domain.Surface) (ProgressUpdate, error)

func BuildRecordVisit(engine *domain.Engine, store sessionStore, syncer deltaSyncer) RecordVisit {
	return func(ctx context.Context, userID string, surface domain.Surface) (ProgressUpdate, error) {
		return applyAndSync(ctx, store, syncer, userID, func(progress domain.PlayerProgress) (domain.PlayerProgress, []domain.Event, error) {
			return engine.RecordVisit(progress, surface)
		})
	}
}
