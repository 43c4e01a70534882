package ports

import (
	"time"

	"github.com/Amund211/pilgrim/internal/app"
	"github.com/Amund211/pilgrim/internal/domain"
)

type levelResponse struct {
	Level int    `json:"level"`
	XP    int    `json:"xp"`
	Title string `json:"title"`
}

type progressResponse struct {
	UserID               string         `json:"userId"`
	TotalPoints          int            `json:"totalPoints"`
	Level                levelResponse  `json:"level"`
	UnlockedAchievements []string       `json:"unlockedAchievements"`
	CollectedVerses      []string       `json:"collectedVerses"`
	CampaignProgress     map[string]int `json:"campaignProgress"`
	LastDailyClaim       *time.Time     `json:"lastDailyClaim"`
	DailyRewardReady     bool           `json:"dailyRewardReady"`
}

// Events carry a type discriminator. Only the fields of the type are set.
type eventResponse struct {
	Type string `json:"type"`

	Level int    `json:"level,omitempty"`
	Title string `json:"title"`

	ID       string `json:"id,omitempty"`
	XPReward int    `json:"xpReward,omitempty"`
}

func levelToResponse(threshold domain.LevelThreshold) levelResponse {
	return levelResponse{
		Level: threshold.Level,
		XP:    threshold.XP,
		Title: threshold.Title,
	}
}

func progressToResponse(progress domain.PlayerProgress, levels domain.LevelTable, now time.Time) progressResponse {
	achievements := make([]string, 0, len(progress.UnlockedAchievements))
	for _, id := range progress.UnlockedAchievements {
		achievements = append(achievements, string(id))
	}

	verses := make([]string, 0, len(progress.CollectedVerses))
	verses = append(verses, progress.CollectedVerses...)

	campaigns := make(map[string]int, len(progress.CampaignProgress))
	for campaign, level := range progress.CampaignProgress {
		campaigns[string(campaign)] = level
	}

	var lastDailyClaim *time.Time
	if !progress.LastDailyClaim.IsZero() {
		claimedAt := progress.LastDailyClaim.UTC()
		lastDailyClaim = &claimedAt
	}

	return progressResponse{
		UserID:               progress.UserID,
		TotalPoints:          progress.TotalPoints,
		Level:                levelToResponse(levels.LevelForPoints(progress.TotalPoints)),
		UnlockedAchievements: achievements,
		CollectedVerses:      verses,
		CampaignProgress:     campaigns,
		LastDailyClaim:       lastDailyClaim,
		DailyRewardReady:     domain.DailyRewardReady(progress, now),
	}
}

func eventsToResponse(events []domain.Event) []eventResponse {
	converted := make([]eventResponse, 0, len(events))
	for _, event := range events {
		switch event.Kind {
		case domain.EventLevelUp:
			converted = append(converted, eventResponse{
				Type:  string(event.Kind),
				Level: event.Level,
				Title: event.Title,
			})
		case domain.EventAchievementUnlocked:
			converted = append(converted, eventResponse{
				Type:     string(event.Kind),
				ID:       string(event.AchievementID),
				Title:    event.Title,
				XPReward: event.XPReward,
			})
		}
	}
	return converted
}

type updateResponse struct {
	Success  bool             `json:"success"`
	Progress progressResponse `json:"progress"`
	Events   []eventResponse  `json:"events"`

	// Set by the operations that report them
	VerseWasNew *bool `json:"verseWasNew,omitempty"`
	Victory     *bool `json:"victory,omitempty"`
}

func updateToResponse(update app.ProgressUpdate, levels domain.LevelTable, now time.Time) updateResponse {
	return updateResponse{
		Success:  true,
		Progress: progressToResponse(update.Progress, levels, now),
		Events:   eventsToResponse(update.Events),
	}
}

type ticketMessageResponse struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type ticketResponse struct {
	ID          string                  `json:"id"`
	Subject     string                  `json:"subject"`
	Category    string                  `json:"category"`
	Status      string                  `json:"status"`
	CreatedAt   time.Time               `json:"createdAt"`
	LastUpdated time.Time               `json:"lastUpdated"`
	Messages    []ticketMessageResponse `json:"messages"`
}

func ticketToResponse(ticket domain.Ticket) ticketResponse {
	messages := make([]ticketMessageResponse, 0, len(ticket.Messages))
	for _, message := range ticket.Messages {
		messages = append(messages, ticketMessageResponse{
			ID:        message.ID,
			Sender:    string(message.Sender),
			Text:      message.Text,
			Timestamp: message.Timestamp.UTC(),
		})
	}

	return ticketResponse{
		ID:          ticket.ID,
		Subject:     ticket.Subject,
		Category:    string(ticket.Category),
		Status:      string(ticket.Status),
		CreatedAt:   ticket.CreatedAt.UTC(),
		LastUpdated: ticket.LastUpdated.UTC(),
		Messages:    messages,
	}
}
