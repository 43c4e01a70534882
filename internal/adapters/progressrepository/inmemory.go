package progressrepository

import (
	"context"
	"sync"
	"time"

	"github.com/Amund211/pilgrim/internal/domain"
)

// InMemory keeps progress in process memory, for development and tests
type InMemory struct {
	mutex sync.Mutex
	users map[string]domain.PlayerProgress
}

func NewInMemory() *InMemory {
	return &InMemory{
		users: make(map[string]domain.PlayerProgress),
	}
}

// Run fn on a copy of the stored progress of the user and store the result
func (m *InMemory) update(userID string, fn func(progress *domain.PlayerProgress)) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	progress, ok := m.users[userID]
	if !ok {
		progress = domain.NewPlayerProgress(userID)
	} else {
		progress = progress.Clone()
	}

	fn(&progress)

	m.users[userID] = progress
}

func (m *InMemory) LoadProgress(ctx context.Context, userID string) (domain.PlayerProgress, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	progress, ok := m.users[userID]
	if !ok {
		return domain.NewPlayerProgress(userID), nil
	}
	return progress.Clone(), nil
}

func (m *InMemory) PersistPoints(ctx context.Context, userID string, newTotal int) error {
	m.update(userID, func(progress *domain.PlayerProgress) {
		progress.TotalPoints = max(progress.TotalPoints, newTotal)
	})
	return nil
}

func (m *InMemory) PersistAchievementUnlock(ctx context.Context, userID string, achievementID domain.AchievementID) error {
	m.update(userID, func(progress *domain.PlayerProgress) {
		if !progress.HasAchievement(achievementID) {
			progress.UnlockedAchievements = append(progress.UnlockedAchievements, achievementID)
		}
	})
	return nil
}

func (m *InMemory) PersistVerse(ctx context.Context, userID string, verse string) error {
	m.update(userID, func(progress *domain.PlayerProgress) {
		if !progress.HasVerse(verse) {
			progress.CollectedVerses = append(progress.CollectedVerses, verse)
		}
	})
	return nil
}

func (m *InMemory) PersistCampaignProgress(ctx context.Context, userID string, campaignID domain.CampaignID, level int) error {
	m.update(userID, func(progress *domain.PlayerProgress) {
		if current, ok := progress.CampaignProgress[campaignID]; !ok || level > current {
			progress.CampaignProgress[campaignID] = level
		}
	})
	return nil
}

func (m *InMemory) PersistDailyClaim(ctx context.Context, userID string, claimedAt time.Time) error {
	m.update(userID, func(progress *domain.PlayerProgress) {
		if claimedAt.After(progress.LastDailyClaim) {
			progress.LastDailyClaim = claimedAt
		}
	})
	return nil
}

func (m *InMemory) CountUsersAbove(ctx context.Context, points int) (int, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	count := 0
	for _, progress := range m.users {
		if progress.TotalPoints > points {
			count++
		}
	}
	return count, nil
}

var _ ProgressRepository = (*InMemory)(nil)
var _ ProgressRepository = (*Postgres)(nil)
