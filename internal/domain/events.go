package domain

type EventKind string

const (
	EventLevelUp             EventKind = "level_up"
	EventAchievementUnlocked EventKind = "achievement_unlocked"
)

// Event is a notification produced by a transition, in emission order
type Event struct {
	Kind EventKind

	// LevelUp
	Level int
	Title string

	// AchievementUnlocked
	AchievementID AchievementID
	XPReward      int
}

func NewLevelUpEvent(threshold LevelThreshold) Event {
	return Event{
		Kind:  EventLevelUp,
		Level: threshold.Level,
		Title: threshold.Title,
	}
}

func NewAchievementUnlockedEvent(definition AchievementDefinition) Event {
	return Event{
		Kind:          EventAchievementUnlocked,
		AchievementID: definition.ID,
		Title:         definition.Title,
		XPReward:      definition.XPReward,
	}
}
