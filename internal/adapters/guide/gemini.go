package guide

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Amund211/pilgrim/internal/domain"
	"github.com/Amund211/pilgrim/internal/logging"
	"github.com/Amund211/pilgrim/internal/ratelimiting"
	"github.com/Amund211/pilgrim/internal/reporting"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"
)

const GEMINI_MODEL = "gemini-2.5-flash"

// Free tier quota
const (
	geminiRequestsPerWindow = 10
	geminiWindow            = time.Minute
	geminiMaxRequestTime    = 15 * time.Second
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini lets the model play the guide. Any failure falls back to the simulation.
type Gemini struct {
	generator contentGenerator
	limiter   *ratelimiting.WindowLimiter
	fallback  Responder

	tracer trace.Tracer
}

func NewGemini(ctx context.Context, apiKey string, fallback Responder) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	limiter := ratelimiting.NewWindowLimiter(geminiRequestsPerWindow, geminiWindow, time.Now, time.After)

	return newGemini(client.Models, limiter, fallback), nil
}

func newGemini(generator contentGenerator, limiter *ratelimiting.WindowLimiter, fallback Responder) *Gemini {
	return &Gemini{
		generator: generator,
		limiter:   limiter,
		fallback:  fallback,

		tracer: otel.Tracer("pilgrim/guide/gemini"),
	}
}

var nullable = true

var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"text": {
			Type:        genai.TypeString,
			Description: "The guide's response to the user, strictly in character.",
		},
		"isSuccess": {
			Type:        genai.TypeBoolean,
			Description: "Whether the user's response demonstrates spiritual growth/overcoming the sin enough to proceed.",
		},
		"scriptureRef": {
			Type:        genai.TypeString,
			Description: "A relevant bible verse reference (e.g., 'James 1:5') if applicable, else null.",
			Nullable:    &nullable,
		},
	},
	Required: []string{"text", "isSuccess"},
}

type geminiResponse struct {
	Text         string  `json:"text"`
	IsSuccess    bool    `json:"isSuccess"`
	ScriptureRef *string `json:"scriptureRef"`
}

func languageOrDefault(language domain.GuideLanguage) domain.GuideLanguage {
	if language == "" {
		return domain.DefaultGuideLanguage
	}
	return language
}

func systemInstruction(request domain.GuideRequest) string {
	language := languageOrDefault(request.Language)
	level := request.Level

	return fmt.Sprintf(`You are 'The Guide', a wise spiritual mentor.
We are currently in a simulation of: %[1]s.

CRITICAL: YOU MUST COMMUNICATE IN %[2]s.

THE SCENE:
- Story: %[3]s (%[4]s)
- Key Character involved: %[5]s
- Sin to Overcome: %[6]s
- Target Virtue: %[7]s

YOUR ROLE:
- Act as a narrator and spiritual director.
- Immerse the user in the specific Bible story mentioned above.
- Ask them how they would advise the character (%[5]s) or how they see themselves in this story.
- The goal is for the user to admit the struggle with this sin and ask for God's help (Prayer).

RULES:
- Be concise (max 3 sentences).
- If the user shows deep reflection, repentance, or offers a prayer related to %[7]s, mark 'isSuccess' as true.
- When 'isSuccess' is true, quote or reference: %[8]s.
- If the user is casual or dismissive, gently challenge them using the story context.`,
		level.Name,
		strings.ToUpper(string(language)),
		level.Story,
		level.Reference,
		level.Character,
		level.Sin,
		level.Virtue,
		level.KeyVerse,
	)
}

const introPrompt = "Start the level."

func introInstruction(request domain.IntroRequest) string {
	language := languageOrDefault(request.Language)
	level := request.Level

	return fmt.Sprintf(`You are 'The Guide'. Introduce the user to the current scene.
CRITICAL: YOU MUST COMMUNICATE IN %[1]s.

Scene: %[3]s - %[4]s.
Narrative (Translate this context to %[2]s): %[5]s

Task: Set the scene vividly in 2-3 sentences in %[2]s and ask the user a question about how they relate to %[6]s's struggle with %[7]s.`,
		strings.ToUpper(string(language)),
		language,
		level.Name,
		level.Story,
		level.NarrativeIntro,
		level.Character,
		level.Sin,
	)
}

func prompt(request domain.GuideRequest) string {
	return fmt.Sprintf(`History of conversation:
%s

User's latest input: %q

Respond in JSON format.`,
		strings.Join(request.History, "\n"),
		request.Message,
	)
}

func parseGeminiResponse(text string) (domain.GuideResponse, error) {
	if text == "" {
		return domain.GuideResponse{}, fmt.Errorf("empty response")
	}

	var parsed geminiResponse
	err := json.Unmarshal([]byte(text), &parsed)
	if err != nil {
		return domain.GuideResponse{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if parsed.Text == "" {
		return domain.GuideResponse{}, fmt.Errorf("response missing text")
	}

	response := domain.GuideResponse{
		Text:      parsed.Text,
		IsSuccess: parsed.IsSuccess,
	}
	if parsed.ScriptureRef != nil {
		response.ScriptureRef = *parsed.ScriptureRef
	}
	return response, nil
}

// generateText runs a single limited request and returns the response text
func (g *Gemini) generateText(ctx context.Context, config *genai.GenerateContentConfig, text string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}

	var result *genai.GenerateContentResponse
	var err error
	ran := g.limiter.Limit(ctx, geminiMaxRequestTime, func() {
		result, err = g.generator.GenerateContent(ctx, GEMINI_MODEL, contents, config)
	})
	if !ran {
		return "", fmt.Errorf("%w: gemini quota exhausted", domain.ErrTemporarilyUnavailable)
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return result.Text(), nil
}

func (g *Gemini) generate(ctx context.Context, request domain.GuideRequest) (domain.GuideResponse, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction(request), genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    responseSchema,
	}

	text, err := g.generateText(ctx, config, prompt(request))
	if err != nil {
		return domain.GuideResponse{}, err
	}

	return parseGeminiResponse(text)
}

func (g *Gemini) Respond(ctx context.Context, request domain.GuideRequest) (domain.GuideResponse, error) {
	ctx, span := g.tracer.Start(ctx, "Gemini.Respond")
	defer span.End()

	response, err := g.generate(ctx, request)
	if err == nil {
		return response, nil
	}

	reporting.Report(ctx, err, map[string]string{
		"campaign": string(request.Campaign),
		"level":    request.Level.Name,
	})
	logging.FromContext(ctx).WarnContext(ctx, "Falling back to simulated guide", "error", err.Error())

	return g.fallback.Respond(ctx, request)
}

func (g *Gemini) Intro(ctx context.Context, request domain.IntroRequest) (string, error) {
	ctx, span := g.tracer.Start(ctx, "Gemini.Intro")
	defer span.End()

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(introInstruction(request), genai.RoleUser),
	}

	text, err := g.generateText(ctx, config, introPrompt)
	if err == nil && strings.TrimSpace(text) == "" {
		err = fmt.Errorf("empty response")
	}
	if err == nil {
		return text, nil
	}

	reporting.Report(ctx, err, map[string]string{
		"campaign": string(request.Campaign),
		"level":    request.Level.Name,
	})
	logging.FromContext(ctx).WarnContext(ctx, "Falling back to simulated intro", "error", err.Error())

	return g.fallback.Intro(ctx, request)
}
