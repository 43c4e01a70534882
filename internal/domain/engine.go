package domain

import (
	"fmt"
	"math"
	"strings"
)

// LevelCompletionReward is paid when completing a level represents forward progress
const LevelCompletionReward = 100

// MaxTotalPoints is the highest total a player can hold. Matches the storage column.
const MaxTotalPoints = math.MaxInt32

// Engine computes progression transitions
//
// All methods are pure: they never mutate their input, and on error they
// return the input unchanged together with no events.
type Engine struct {
	levels       LevelTable
	achievements Catalog
	campaigns    Campaigns
	rules        []Rule
}

func NewEngine(levels LevelTable, achievements Catalog, campaigns Campaigns, rules []Rule) *Engine {
	return &Engine{
		levels:       levels,
		achievements: achievements,
		campaigns:    campaigns,
		rules:        rules,
	}
}

func NewDefaultEngine() *Engine {
	return NewEngine(
		MustNewLevelTable(PlayerLevels),
		MustNewCatalog(Achievements),
		DefaultCampaigns,
		DefaultRules,
	)
}

func (e *Engine) Levels() LevelTable {
	return e.levels
}

func (e *Engine) Achievements() Catalog {
	return e.achievements
}

func (e *Engine) Campaigns() Campaigns {
	return e.campaigns
}

func (e *Engine) AddPoints(progress PlayerProgress, amount int) (PlayerProgress, []Event, error) {
	if amount <= 0 {
		return progress, nil, fmt.Errorf("%w: %d", ErrInvalidAmount, amount)
	}
	if amount > MaxTotalPoints-progress.TotalPoints {
		return progress, nil, fmt.Errorf("%w: %d would exceed %d", ErrInvalidAmount, amount, MaxTotalPoints)
	}

	next := progress.Clone()
	events := e.addPoints(&next, amount)
	return next, events, nil
}

func (e *Engine) UnlockAchievement(progress PlayerProgress, id AchievementID) (PlayerProgress, []Event, error) {
	if progress.HasAchievement(id) {
		return progress, nil, nil
	}
	if _, ok := e.achievements.Lookup(id); !ok {
		return progress, nil, fmt.Errorf("%w: %s", ErrUnknownAchievement, id)
	}

	next := progress.Clone()
	events := e.unlock(&next, id)
	return next, events, nil
}

// RecordVerse adds the verse to the collection. Returns whether the verse was new.
func (e *Engine) RecordVerse(progress PlayerProgress, verse string) (PlayerProgress, []Event, bool, error) {
	if strings.TrimSpace(verse) == "" {
		return progress, nil, false, fmt.Errorf("%w: empty", ErrInvalidVerse)
	}
	if progress.HasVerse(verse) {
		return progress, nil, false, nil
	}

	next := progress.Clone()
	next.CollectedVerses = append(next.CollectedVerses, verse)
	events := e.evaluateRules(&next)
	return next, events, true, nil
}

// AdvanceCampaign raises the stored campaign level to candidate if it is higher.
// Returns whether the stored value increased.
func (e *Engine) AdvanceCampaign(progress PlayerProgress, campaignID CampaignID, candidate int) (PlayerProgress, bool, error) {
	campaign, ok := e.campaigns.Lookup(campaignID)
	if !ok {
		return progress, false, fmt.Errorf("%w: %s", ErrUnknownCampaign, campaignID)
	}
	if candidate < 1 || candidate > campaign.LevelCount()+1 {
		return progress, false, fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidLevel, candidate, campaign.LevelCount()+1)
	}

	if candidate <= progress.CampaignLevel(campaignID) {
		return progress, false, nil
	}

	next := progress.Clone()
	next.CampaignProgress[campaignID] = candidate
	return next, true, nil
}

type LevelCompletion struct {
	Progress PlayerProgress
	Victory  bool
	Events   []Event
}

// CompleteLevel applies the result of finishing a campaign level
//
// nextLevel is the index of the level after the finished one. Completion pays
// LevelCompletionReward only if the verse was new or the campaign advanced.
func (e *Engine) CompleteLevel(progress PlayerProgress, campaignID CampaignID, verse string, nextLevel int) (LevelCompletion, error) {
	campaign, ok := e.campaigns.Lookup(campaignID)
	if !ok {
		return LevelCompletion{Progress: progress}, fmt.Errorf("%w: %s", ErrUnknownCampaign, campaignID)
	}
	// Validate up front so a bad level index leaves no partial state behind
	if nextLevel < 2 || nextLevel > campaign.LevelCount()+1 {
		return LevelCompletion{Progress: progress}, fmt.Errorf("%w: next level %d not in [2, %d]", ErrInvalidLevel, nextLevel, campaign.LevelCount()+1)
	}

	victory := nextLevel > campaign.LevelCount()

	var events []Event

	next, verseEvents, verseWasNew, err := e.RecordVerse(progress, verse)
	if err != nil {
		return LevelCompletion{Progress: progress}, fmt.Errorf("failed to record verse: %w", err)
	}
	events = append(events, verseEvents...)

	next, progressWasNew, err := e.AdvanceCampaign(next, campaignID, nextLevel)
	if err != nil {
		return LevelCompletion{Progress: progress}, fmt.Errorf("failed to advance campaign: %w", err)
	}

	if progressWasNew || verseWasNew {
		var pointEvents []Event
		next, pointEvents = e.grantPoints(next, LevelCompletionReward)
		events = append(events, pointEvents...)
	}

	next, unlockEvents, err := e.UnlockAchievement(next, AchievementFirstStep)
	if err != nil {
		return LevelCompletion{Progress: progress}, fmt.Errorf("failed to unlock %s: %w", AchievementFirstStep, err)
	}
	events = append(events, unlockEvents...)

	return LevelCompletion{
		Progress: next,
		Victory:  victory,
		Events:   events,
	}, nil
}

// grantPoints pays a fixed server-side reward, saturating at MaxTotalPoints
func (e *Engine) grantPoints(progress PlayerProgress, amount int) (PlayerProgress, []Event) {
	next := progress.Clone()
	return next, e.addPoints(&next, amount)
}

// addPoints mutates progress in place. amount must be positive.
// The total saturates at MaxTotalPoints.
func (e *Engine) addPoints(progress *PlayerProgress, amount int) []Event {
	var events []Event

	before := e.levels.LevelForPoints(progress.TotalPoints)
	if amount > MaxTotalPoints-progress.TotalPoints {
		progress.TotalPoints = MaxTotalPoints
	} else {
		progress.TotalPoints += amount
	}
	after := e.levels.LevelForPoints(progress.TotalPoints)

	if after.Level > before.Level {
		// One event for the destination level, even when several thresholds were crossed
		events = append(events, NewLevelUpEvent(after))
	}

	return append(events, e.evaluateRules(progress)...)
}

// unlock mutates progress in place. id must be in the catalog and not yet unlocked.
func (e *Engine) unlock(progress *PlayerProgress, id AchievementID) []Event {
	definition, ok := e.achievements.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("logic error: unlocking unknown achievement %s", id))
	}

	progress.UnlockedAchievements = append(progress.UnlockedAchievements, id)

	events := []Event{NewAchievementUnlockedEvent(definition)}
	return append(events, e.addPoints(progress, definition.XPReward)...)
}

func (e *Engine) evaluateRules(progress *PlayerProgress) []Event {
	var events []Event
	for _, rule := range e.rules {
		if progress.HasAchievement(rule.Achievement) {
			continue
		}
		if _, ok := e.achievements.Lookup(rule.Achievement); !ok {
			// Rules for achievements outside the catalog can never pay out
			continue
		}
		if !rule.Earned(*progress) {
			continue
		}
		events = append(events, e.unlock(progress, rule.Achievement)...)
	}
	return events
}
