package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/Amund211/pilgrim/internal/domain"
)

type guideResponder interface {
	Respond(ctx context.Context, request domain.GuideRequest) (domain.GuideResponse, error)
}

type GuideQuestion struct {
	Campaign domain.CampaignID
	Level    int
	Message  string
	History  []string
	Language domain.GuideLanguage
}

// RespondToGuide answers the player in the context of a campaign level
//
// A successful answer pays nothing by itself. The client completes the level
// afterwards through CompleteLevel.
type RespondToGuide func(ctx context.Context, question GuideQuestion) (domain.GuideResponse, error)

func BuildRespondToGuide(campaigns domain.Campaigns, responder guideResponder) RespondToGuide {
	return func(ctx context.Context, question GuideQuestion) (domain.GuideResponse, error) {
		campaign, ok := campaigns.Lookup(question.Campaign)
		if !ok {
			return domain.GuideResponse{}, fmt.Errorf("%w: %s", domain.ErrUnknownCampaign, question.Campaign)
		}
		level, ok := campaign.Level(question.Level)
		if !ok {
			return domain.GuideResponse{}, fmt.Errorf("%w: %d not in [1, %d]", domain.ErrInvalidLevel, question.Level, campaign.LevelCount())
		}
		if strings.TrimSpace(question.Message) == "" {
			return domain.GuideResponse{}, fmt.Errorf("%w: empty", domain.ErrInvalidGuideMessage)
		}

		language := question.Language
		if language == "" {
			language = domain.DefaultGuideLanguage
		}

		response, err := responder.Respond(ctx, domain.GuideRequest{
			Campaign: campaign.ID,
			Level:    level,
			Message:  question.Message,
			History:  question.History,
			Language: language,
		})
		if err != nil {
			// NOTE: guideResponder implementations handle their own error reporting
			return domain.GuideResponse{}, fmt.Errorf("failed to get guide response: %w", err)
		}

		return response, nil
	}
}

type guideIntroducer interface {
	Intro(ctx context.Context, request domain.IntroRequest) (string, error)
}

// GetGuideIntro narrates the opening of a campaign level
type GetGuideIntro func(ctx context.Context, campaignID domain.CampaignID, levelNumber int, language domain.GuideLanguage) (string, error)

func BuildGetGuideIntro(campaigns domain.Campaigns, introducer guideIntroducer) GetGuideIntro {
	return func(ctx context.Context, campaignID domain.CampaignID, levelNumber int, language domain.GuideLanguage) (string, error) {
		campaign, ok := campaigns.Lookup(campaignID)
		if !ok {
			return "", fmt.Errorf("%w: %s", domain.ErrUnknownCampaign, campaignID)
		}
		level, ok := campaign.Level(levelNumber)
		if !ok {
			return "", fmt.Errorf("%w: %d not in [1, %d]", domain.ErrInvalidLevel, levelNumber, campaign.LevelCount())
		}

		if language == "" {
			language = domain.DefaultGuideLanguage
		}

		text, err := introducer.Intro(ctx, domain.IntroRequest{
			Campaign: campaign.ID,
			Level:    level,
			Language: language,
		})
		if err != nil {
			// NOTE: guideIntroducer implementations handle their own error reporting
			return "", fmt.Errorf("failed to get guide intro: %w", err)
		}

		return text, nil
	}
}
