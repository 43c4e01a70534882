package ports

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Amund211/pilgrim/internal/app"
	"github.com/Amund211/pilgrim/internal/domain"
	"github.com/Amund211/pilgrim/internal/reporting"
)

func MakeAddPointsHandler(
	addPoints app.AddPoints,
	levels domain.LevelTable,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildPortMiddleware("points", defaultUserRateLimit, allowedOrigins, rootLogger, sentryMiddleware)

	return middleware(withUserID(func(w http.ResponseWriter, r *http.Request, userID string) {
		var body struct {
			Amount int `json:"amount"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "Invalid body")
			return
		}

		update, err := addPoints(r.Context(), userID, body.Amount)
		if err != nil {
			writeAppError(w, r, err)
			return
		}

		writeJSONResponse(w, r, updateToResponse(update, levels, time.Now()))
	}))
}

func MakeUnlockAchievementHandler(
	unlockAchievement app.UnlockAchievement,
	levels domain.LevelTable,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildPortMiddleware("achievements", defaultUserRateLimit, allowedOrigins, rootLogger, sentryMiddleware)

	return middleware(withUserID(func(w http.ResponseWriter, r *http.Request, userID string) {
		id := domain.AchievementID(r.PathValue("id"))

		update, err := unlockAchievement(r.Context(), userID, id)
		if err != nil {
			writeAppError(w, r, err)
			return
		}

		writeJSONResponse(w, r, updateToResponse(update, levels, time.Now()))
	}))
}

func MakeRecordVerseHandler(
	recordVerse app.RecordVerse,
	levels domain.LevelTable,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildPortMiddleware("verses", defaultUserRateLimit, allowedOrigins, rootLogger, sentryMiddleware)

	return middleware(withUserID(func(w http.ResponseWriter, r *http.Request, userID string) {
		var body struct {
			Verse string `json:"verse"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "Invalid body")
			return
		}

		update, wasNew, err := recordVerse(r.Context(), userID, body.Verse)
		if err != nil {
			writeAppError(w, r, err)
			return
		}

		response := updateToResponse(update, levels, time.Now())
		response.VerseWasNew = &wasNew
		writeJSONResponse(w, r, response)
	}))
}

func MakeCompleteLevelHandler(
	completeLevel app.CompleteLevel,
	levels domain.LevelTable,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildPortMiddleware("completelevel", defaultUserRateLimit, allowedOrigins, rootLogger, sentryMiddleware)

	return middleware(withUserID(func(w http.ResponseWriter, r *http.Request, userID string) {
		campaign := domain.CampaignID(r.PathValue("campaign"))

		var body struct {
			Verse string `json:"verse"`
			Level int    `json:"level"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "Invalid body")
			return
		}

		ctx := reporting.AddExtrasToContext(r.Context(), map[string]string{
			"campaign": string(campaign),
			"level":    strconv.Itoa(body.Level),
		})

		update, victory, err := completeLevel(ctx, userID, campaign, body.Verse, body.Level)
		if err != nil {
			writeAppError(w, r, err)
			return
		}

		response := updateToResponse(update, levels, time.Now())
		response.Victory = &victory
		writeJSONResponse(w, r, response)
	}))
}

func MakeClaimDailyRewardHandler(
	claimDailyReward app.ClaimDailyReward,
	levels domain.LevelTable,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildPortMiddleware("daily", defaultUserRateLimit, allowedOrigins, rootLogger, sentryMiddleware)

	return middleware(withUserID(func(w http.ResponseWriter, r *http.Request, userID string) {
		update, err := claimDailyReward(r.Context(), userID)
		if err != nil {
			writeAppError(w, r, err)
			return
		}

		writeJSONResponse(w, r, updateToResponse(update, levels, time.Now()))
	}))
}

func MakeRecordSocialInteractionHandler(
	recordSocialInteraction app.RecordSocialInteraction,
	levels domain.LevelTable,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildPortMiddleware("social", defaultUserRateLimit, allowedOrigins, rootLogger, sentryMiddleware)

	return middleware(withUserID(func(w http.ResponseWriter, r *http.Request, userID string) {
		var body struct {
			Action string `json:"action"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "Invalid body")
			return
		}

		update, err := recordSocialInteraction(r.Context(), userID, domain.SocialAction(body.Action))
		if err != nil {
			writeAppError(w, r, err)
			return
		}

		writeJSONResponse(w, r, updateToResponse(update, levels, time.Now()))
	}))
}

func MakeRecordVisitHandler(
	recordVisit app.RecordVisit,
	levels domain.LevelTable,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildPortMiddleware("visits", defaultUserRateLimit, allowedOrigins, rootLogger, sentryMiddleware)

	return middleware(withUserID(func(w http.ResponseWriter, r *http.Request, userID string) {
		surface := domain.Surface(r.PathValue("surface"))

		update, err := recordVisit(r.Context(), userID, surface)
		if err != nil {
			writeAppError(w, r, err)
			return
		}

		writeJSONResponse(w, r, updateToResponse(update, levels, time.Now()))
	}))
}
