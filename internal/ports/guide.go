package ports

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Amund211/pilgrim/internal/app"
	"github.com/Amund211/pilgrim/internal/domain"
	"github.com/Amund211/pilgrim/internal/logging"
	"github.com/Amund211/pilgrim/internal/reporting"
)

// Every guide message may cost a model call
var guideRateLimit = userRateLimit{refillPerSecond: 0.2, burstSize: 20}

// Keep prompts bounded
const maxGuideHistory = 20

type guideIntroResponse struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
}

type guideResponse struct {
	Success      bool   `json:"success"`
	Text         string `json:"text"`
	IsSuccess    bool   `json:"isSuccess"`
	ScriptureRef string `json:"scriptureRef,omitempty"`
}

func MakeRespondToGuideHandler(
	respondToGuide app.RespondToGuide,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildPortMiddleware("guide", guideRateLimit, allowedOrigins, rootLogger, sentryMiddleware)

	return middleware(withUserID(func(w http.ResponseWriter, r *http.Request, userID string) {
		var body struct {
			Campaign string   `json:"campaign"`
			Level    int      `json:"level"`
			Message  string   `json:"message"`
			History  []string `json:"history"`
			Language string   `json:"language"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "Invalid body")
			return
		}

		history := body.History
		if len(history) > maxGuideHistory {
			history = history[len(history)-maxGuideHistory:]
		}

		ctx := reporting.AddExtrasToContext(r.Context(), map[string]string{
			"campaign": body.Campaign,
			"level":    strconv.Itoa(body.Level),
		})

		response, err := respondToGuide(ctx, app.GuideQuestion{
			Campaign: domain.CampaignID(body.Campaign),
			Level:    body.Level,
			Message:  body.Message,
			History:  history,
			Language: domain.GuideLanguage(body.Language),
		})
		if err != nil {
			writeAppError(w, r, err)
			return
		}

		logging.FromContext(r.Context()).InfoContext(r.Context(), "Returning guide response", "isSuccess", response.IsSuccess)

		writeJSONResponse(w, r, guideResponse{
			Success:      true,
			Text:         response.Text,
			IsSuccess:    response.IsSuccess,
			ScriptureRef: response.ScriptureRef,
		})
	}))
}

func MakeGetGuideIntroHandler(
	getGuideIntro app.GetGuideIntro,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildPortMiddleware("guide-intro", guideRateLimit, allowedOrigins, rootLogger, sentryMiddleware)

	return middleware(withUserID(func(w http.ResponseWriter, r *http.Request, userID string) {
		query := r.URL.Query()
		campaign := query.Get("campaign")
		level, err := strconv.Atoi(query.Get("level"))
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "Invalid level")
			return
		}

		ctx := reporting.AddExtrasToContext(r.Context(), map[string]string{
			"campaign": campaign,
			"level":    strconv.Itoa(level),
		})

		text, err := getGuideIntro(ctx, domain.CampaignID(campaign), level, domain.GuideLanguage(query.Get("language")))
		if err != nil {
			writeAppError(w, r, err)
			return
		}

		writeJSONResponse(w, r, guideIntroResponse{
			Success: true,
			Text:    text,
		})
	}))
}
