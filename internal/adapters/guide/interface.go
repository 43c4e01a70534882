package guide

import (
	"context"

	"github.com/Amund211/pilgrim/internal/config"
	"github.com/Amund211/pilgrim/internal/domain"
)

type Responder interface {
	Respond(ctx context.Context, request domain.GuideRequest) (domain.GuideResponse, error)
	Intro(ctx context.Context, request domain.IntroRequest) (string, error)
}

// Responds with Gemini when an api key is configured, with the offline simulation otherwise
func NewResponder(ctx context.Context, config config.Config) (Responder, error) {
	simulated := NewSimulated(DEFAULT_SIMULATED_DELAY)
	if config.GeminiAPIKey() == "" {
		return simulated, nil
	}
	return NewGemini(ctx, config.GeminiAPIKey(), simulated)
}

var (
	_ Responder = (*Gemini)(nil)
	_ Responder = (*Simulated)(nil)
)
