package domain

import (
	"fmt"
	"time"
)

const (
	DailyRewardPoints   = 10
	DailyRewardCooldown = 24 * time.Hour
)

// DailyRewardReady reports whether a daily reward can be claimed at now
func DailyRewardReady(progress PlayerProgress, now time.Time) bool {
	if progress.LastDailyClaim.IsZero() {
		return true
	}
	return now.Sub(progress.LastDailyClaim) > DailyRewardCooldown
}

func (e *Engine) ClaimDailyReward(progress PlayerProgress, now time.Time) (PlayerProgress, []Event, error) {
	if !DailyRewardReady(progress, now) {
		return progress, nil, fmt.Errorf("%w: last claim at %s", ErrDailyRewardNotReady, progress.LastDailyClaim.Format(time.RFC3339))
	}

	next, events := e.grantPoints(progress, DailyRewardPoints)
	next.LastDailyClaim = now
	return next, events, nil
}

type SocialAction string

const (
	SocialActionLike    SocialAction = "like"
	SocialActionPray    SocialAction = "pray"
	SocialActionComment SocialAction = "comment"
	SocialActionShare   SocialAction = "share"
)

func SocialActionPoints(action SocialAction) (int, bool) {
	switch action {
	case SocialActionLike, SocialActionPray:
		return 5, true
	case SocialActionComment, SocialActionShare:
		return 10, true
	}
	return 0, false
}

func (e *Engine) RecordSocialInteraction(progress PlayerProgress, action SocialAction) (PlayerProgress, []Event, error) {
	points, ok := SocialActionPoints(action)
	if !ok {
		return progress, nil, fmt.Errorf("%w: %s", ErrUnknownSocialAction, action)
	}

	next, events := e.grantPoints(progress, points)

	if action == SocialActionComment {
		var unlockEvents []Event
		var err error
		next, unlockEvents, err = e.UnlockAchievement(next, AchievementSocialite)
		if err != nil {
			return progress, nil, fmt.Errorf("failed to unlock %s: %w", AchievementSocialite, err)
		}
		events = append(events, unlockEvents...)
	}

	return next, events, nil
}

// Surface is a part of the app whose visits earn rewards
type Surface string

const (
	SurfaceBibleReader Surface = "bible"
	SurfaceDevotional  Surface = "devotional"
	SurfaceChat        Surface = "chat"
)

// visitReward pays points on every visit and unlocks an achievement on the first
type visitReward struct {
	points      int
	achievement AchievementID
}

var surfaceRewards = map[Surface]visitReward{
	SurfaceBibleReader: {achievement: AchievementScholar},
	SurfaceDevotional:  {points: 10, achievement: AchievementDevoted},
	SurfaceChat:        {points: 5, achievement: AchievementSocialite},
}

func (e *Engine) RecordVisit(progress PlayerProgress, surface Surface) (PlayerProgress, []Event, error) {
	reward, ok := surfaceRewards[surface]
	if !ok {
		return progress, nil, fmt.Errorf("%w: %s", ErrUnknownSurface, surface)
	}

	next := progress
	var events []Event
	if reward.points > 0 {
		next, events = e.grantPoints(next, reward.points)
	}

	next, unlockEvents, err := e.UnlockAchievement(next, reward.achievement)
	if err != nil {
		return progress, nil, fmt.Errorf("failed to unlock %s: %w", reward.achievement, err)
	}
	return next, append(events, unlockEvents...), nil
}
