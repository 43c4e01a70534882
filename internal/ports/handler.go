package ports

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Amund211/pilgrim/internal/domain"
	"github.com/Amund211/pilgrim/internal/logging"
	"github.com/Amund211/pilgrim/internal/ratelimiting"
	"github.com/Amund211/pilgrim/internal/reporting"
	"github.com/Amund211/pilgrim/internal/strutils"
)

// Request bodies are small json documents
const maxBodyBytes = 64 * 1024

type userRateLimit struct {
	refillPerSecond ratelimiting.RefillPerSecond
	burstSize       ratelimiting.BurstSize
}

// Game clients report many small events while playing
var defaultUserRateLimit = userRateLimit{refillPerSecond: 2, burstSize: 120}

func writeErrorResponse(w http.ResponseWriter, statusCode int, cause string) {
	marshalled, err := json.Marshal(struct {
		Success bool   `json:"success"`
		Cause   string `json:"cause"`
	}{Success: false, Cause: cause})
	if err != nil {
		marshalled = []byte(`{"success":false,"cause":"Internal server error"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(marshalled)
}

func writeJSONResponse(w http.ResponseWriter, r *http.Request, response any) {
	marshalled, err := json.Marshal(response)
	if err != nil {
		reporting.Report(r.Context(), fmt.Errorf("failed to marshal response: %w", err))
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to marshal response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(marshalled)
}

func decodeBody(r *http.Request, target any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	err := decoder.Decode(target)
	if err != nil {
		return fmt.Errorf("failed to decode body: %w", err)
	}
	return nil
}

// Maps errors from the app layer to a status code and a cause safe to show the user
func errorResponseFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNoSession):
		return http.StatusUnauthorized, "No session"
	case errors.Is(err, domain.ErrDailyRewardNotReady):
		return http.StatusConflict, "Daily reward not ready"
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest, "Invalid amount"
	case errors.Is(err, domain.ErrUnknownAchievement):
		return http.StatusBadRequest, "Unknown achievement"
	case errors.Is(err, domain.ErrUnknownCampaign):
		return http.StatusBadRequest, "Unknown campaign"
	case errors.Is(err, domain.ErrInvalidLevel):
		return http.StatusBadRequest, "Invalid level"
	case errors.Is(err, domain.ErrInvalidVerse):
		return http.StatusBadRequest, "Invalid verse"
	case errors.Is(err, domain.ErrUnknownSocialAction):
		return http.StatusBadRequest, "Unknown social action"
	case errors.Is(err, domain.ErrUnknownSurface):
		return http.StatusBadRequest, "Unknown surface"
	case errors.Is(err, domain.ErrInvalidTicket):
		return http.StatusBadRequest, "Invalid ticket"
	case errors.Is(err, domain.ErrInvalidGuideMessage):
		return http.StatusBadRequest, "Invalid message"
	case errors.Is(err, domain.ErrTemporarilyUnavailable):
		return http.StatusServiceUnavailable, "Temporarily unavailable"
	}
	return http.StatusInternalServerError, "Internal server error"
}

func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode, cause := errorResponseFor(err)
	logging.FromContext(r.Context()).InfoContext(r.Context(), "Request failed", "statusCode", statusCode, "error", err.Error())
	writeErrorResponse(w, statusCode, cause)
}

// Resolve the user from the X-User-Id header before calling the handler
func withUserID(handler func(w http.ResponseWriter, r *http.Request, userID string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		rawUserID := r.Header.Get("X-User-Id")
		ctx = reporting.SetUserIDInContext(ctx, rawUserID)

		userID, err := strutils.NormalizeUUID(rawUserID)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "Invalid user id")
			return
		}

		ctx = logging.AddMetaToContext(ctx, slog.String("normalizedUserId", userID))

		handler(w, r.WithContext(ctx), userID)
	}
}

func buildPortMiddleware(
	port string,
	limit userRateLimit,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) func(http.HandlerFunc) http.HandlerFunc {
	ipLimiter, _ := ratelimiting.NewTokenBucketRateLimiter(
		ratelimiting.RefillPerSecond(4),
		ratelimiting.BurstSize(240),
	)
	ipRateLimiter := ratelimiting.NewRequestBasedRateLimiter(
		ipLimiter,
		ratelimiting.IPKeyFunc,
	)
	userIDLimiter, _ := ratelimiting.NewTokenBucketRateLimiter(
		limit.refillPerSecond,
		limit.burstSize,
	)
	userIDRateLimiter := ratelimiting.NewRequestBasedRateLimiter(
		// NOTE: Rate limiting based on user controlled value
		userIDLimiter,
		ratelimiting.UserIDKeyFunc,
	)

	onLimitExceeded := func(w http.ResponseWriter, r *http.Request) {
		writeErrorResponse(w, http.StatusTooManyRequests, "Rate limit exceeded")
	}

	return ComposeMiddlewares(
		buildMetricsMiddleware(port),
		logging.NewRequestLoggerMiddleware(rootLogger),
		sentryMiddleware,
		reporting.NewAddMetaMiddleware(port),
		BuildCORSMiddleware(allowedOrigins),
		NewRateLimitMiddleware(ipRateLimiter, onLimitExceeded),
		NewRateLimitMiddleware(userIDRateLimiter, onLimitExceeded),
	)
}
