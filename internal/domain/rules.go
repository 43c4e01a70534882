package domain

const (
	HighScorePoints     = 1000
	PrayerWarriorVerses = 5
)

// Rule decides whether an achievement is earned by the given progress
//
// Rules are evaluated by the engine after every mutating operation.
// Rules must only depend on the progress they are given.
type Rule struct {
	Name        string
	Achievement AchievementID
	Earned      func(progress PlayerProgress) bool
}

var HighScoreRule = Rule{
	Name:        "high score",
	Achievement: AchievementHighScore,
	Earned: func(progress PlayerProgress) bool {
		return progress.TotalPoints >= HighScorePoints
	},
}

var PrayerWarriorRule = Rule{
	Name:        "prayer warrior",
	Achievement: AchievementPrayerWarrior,
	Earned: func(progress PlayerProgress) bool {
		return len(progress.CollectedVerses) >= PrayerWarriorVerses
	},
}

var DefaultRules = []Rule{HighScoreRule, PrayerWarriorRule}
