package domain

import (
	"slices"
	"time"
)

// PlayerProgress is one user's cumulative standing
//
// Values are treated as immutable: every transition returns a new value and
// leaves its input untouched.
type PlayerProgress struct {
	UserID               string
	TotalPoints          int
	UnlockedAchievements []AchievementID
	CollectedVerses      []string
	CampaignProgress     map[CampaignID]int
	LastDailyClaim       time.Time
}

// NewPlayerProgress returns the progress of a fresh account
func NewPlayerProgress(userID string) PlayerProgress {
	return PlayerProgress{
		UserID:               userID,
		TotalPoints:          0,
		UnlockedAchievements: []AchievementID{},
		CollectedVerses:      []string{},
		CampaignProgress:     map[CampaignID]int{},
	}
}

func (p PlayerProgress) Clone() PlayerProgress {
	campaignProgress := make(map[CampaignID]int, len(p.CampaignProgress))
	for campaign, level := range p.CampaignProgress {
		campaignProgress[campaign] = level
	}

	achievements := make([]AchievementID, len(p.UnlockedAchievements))
	copy(achievements, p.UnlockedAchievements)

	verses := make([]string, len(p.CollectedVerses))
	copy(verses, p.CollectedVerses)

	return PlayerProgress{
		UserID:               p.UserID,
		TotalPoints:          p.TotalPoints,
		UnlockedAchievements: achievements,
		CollectedVerses:      verses,
		CampaignProgress:     campaignProgress,
		LastDailyClaim:       p.LastDailyClaim,
	}
}

func (p PlayerProgress) HasAchievement(id AchievementID) bool {
	return slices.Contains(p.UnlockedAchievements, id)
}

func (p PlayerProgress) HasVerse(verse string) bool {
	return slices.Contains(p.CollectedVerses, verse)
}

// CampaignLevel returns the highest unlocked level of the campaign. Campaigns start at 1.
func (p PlayerProgress) CampaignLevel(campaign CampaignID) int {
	level, ok := p.CampaignProgress[campaign]
	if !ok || level < 1 {
		return 1
	}
	return level
}

type CampaignLevel struct {
	Campaign CampaignID
	Level    int
}

// Delta is the part of a transition that has to reach persistent storage
type Delta struct {
	UserID string

	PointsChanged bool
	TotalPoints   int

	Achievements []AchievementID
	Verses       []string
	Campaigns    []CampaignLevel

	DailyClaim *time.Time
}

func (d Delta) IsEmpty() bool {
	return !d.PointsChanged &&
		len(d.Achievements) == 0 &&
		len(d.Verses) == 0 &&
		len(d.Campaigns) == 0 &&
		d.DailyClaim == nil
}

// Diff computes what changed between two progress values of the same user
func Diff(before, after PlayerProgress) Delta {
	delta := Delta{
		UserID:        after.UserID,
		PointsChanged: before.TotalPoints != after.TotalPoints,
		TotalPoints:   after.TotalPoints,
	}

	for _, id := range after.UnlockedAchievements {
		if !before.HasAchievement(id) {
			delta.Achievements = append(delta.Achievements, id)
		}
	}

	for _, verse := range after.CollectedVerses {
		if !before.HasVerse(verse) {
			delta.Verses = append(delta.Verses, verse)
		}
	}

	campaigns := make([]CampaignID, 0, len(after.CampaignProgress))
	for campaign := range after.CampaignProgress {
		campaigns = append(campaigns, campaign)
	}
	slices.Sort(campaigns)
	for _, campaign := range campaigns {
		level := after.CampaignProgress[campaign]
		previous, ok := before.CampaignProgress[campaign]
		if !ok || previous != level {
			delta.Campaigns = append(delta.Campaigns, CampaignLevel{Campaign: campaign, Level: level})
		}
	}

	if !after.LastDailyClaim.Equal(before.LastDailyClaim) {
		claimedAt := after.LastDailyClaim
		delta.DailyClaim = &claimedAt
	}

	return delta
}
