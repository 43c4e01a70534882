package guide

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Amund211/pilgrim/internal/domain"
)

const DEFAULT_SIMULATED_DELAY = 1500 * time.Millisecond

// Words that show the player is engaging with the lesson
var successKeywords = []string{
	"pray", "god", "lord", "jesus", "faith", "forgive", "sorry", "repent",
	"help", "spirit", "trust", "mercy", "grace", "amen", "believe", "sin",
	"love", "peace", "truth", "yes",
}

// Single words don't count, even if they are keywords
const minSuccessLength = 9

// Simulated is the offline guide: a keyword classifier behind an artificial delay
type Simulated struct {
	delay     time.Duration
	afterFunc func(time.Duration) <-chan time.Time
}

func NewSimulated(delay time.Duration) *Simulated {
	return &Simulated{
		delay:     delay,
		afterFunc: time.After,
	}
}

func (s *Simulated) Respond(ctx context.Context, request domain.GuideRequest) (domain.GuideResponse, error) {
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return domain.GuideResponse{}, fmt.Errorf("guide response canceled: %w", ctx.Err())
		case <-s.afterFunc(s.delay):
		}
	}

	return simulateResponse(request.Level, request.Message), nil
}

// Intro narrates the level opening without delay
func (s *Simulated) Intro(ctx context.Context, request domain.IntroRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("guide intro canceled: %w", err)
	}
	return request.Level.NarrativeIntro, nil
}

func isSuccess(message string) bool {
	if utf8.RuneCountInString(message) < minSuccessLength {
		return false
	}

	lower := strings.ToLower(message)
	for _, keyword := range successKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func simulateResponse(level domain.GameLevel, message string) domain.GuideResponse {
	if isSuccess(message) {
		return domain.GuideResponse{
			Text: fmt.Sprintf(
				"(Simulation) Your heart speaks true. The grip of %s loosens as you embrace %s. The path forward is revealed.",
				level.Sin, level.Virtue,
			),
			IsSuccess:    true,
			ScriptureRef: level.KeyVerse,
		}
	}

	return domain.GuideResponse{
		Text: fmt.Sprintf(
			"(Simulation) The shadow of %s still clouds your path. You must look deeper within. Try asking for help or offering a prayer of %s.",
			level.Sin, level.Virtue,
		),
		IsSuccess: false,
	}
}
