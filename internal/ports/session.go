package ports

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Amund211/pilgrim/internal/app"
	"github.com/Amund211/pilgrim/internal/domain"
	"github.com/Amund211/pilgrim/internal/logging"
)

type loginResponse struct {
	Success  bool             `json:"success"`
	Progress progressResponse `json:"progress"`
}

func MakeLoginHandler(
	login app.Login,
	levels domain.LevelTable,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildPortMiddleware("login", defaultUserRateLimit, allowedOrigins, rootLogger, sentryMiddleware)

	return middleware(withUserID(func(w http.ResponseWriter, r *http.Request, userID string) {
		progress, err := login(r.Context(), userID)
		if err != nil {
			// NOTE: Login implementations handle their own error reporting
			writeAppError(w, r, err)
			return
		}

		writeJSONResponse(w, r, loginResponse{
			Success:  true,
			Progress: progressToResponse(progress, levels, time.Now()),
		})
	}))
}

func MakeLogoutHandler(
	logout app.Logout,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildPortMiddleware("logout", defaultUserRateLimit, allowedOrigins, rootLogger, sentryMiddleware)

	return middleware(withUserID(func(w http.ResponseWriter, r *http.Request, userID string) {
		logout(r.Context(), userID)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"success":true}`))
	}))
}

type getProgressResponse struct {
	Success   bool             `json:"success"`
	Progress  progressResponse `json:"progress"`
	NextLevel *levelResponse   `json:"nextLevel"`
	Rank      int              `json:"rank"`
}

func MakeGetProgressHandler(
	getProgress app.GetProgress,
	levels domain.LevelTable,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildPortMiddleware("progress", defaultUserRateLimit, allowedOrigins, rootLogger, sentryMiddleware)

	return middleware(withUserID(func(w http.ResponseWriter, r *http.Request, userID string) {
		overview, err := getProgress(r.Context(), userID)
		if err != nil {
			// NOTE: GetProgress implementations handle their own error reporting
			writeAppError(w, r, err)
			return
		}

		response := getProgressResponse{
			Success:  true,
			Progress: progressToResponse(overview.Progress, levels, time.Now()),
			Rank:     overview.Rank,
		}
		if overview.NextLevel != nil {
			next := levelToResponse(*overview.NextLevel)
			response.NextLevel = &next
		}

		logging.FromContext(r.Context()).InfoContext(r.Context(), "Returning progress", "rank", overview.Rank)

		writeJSONResponse(w, r, response)
	}))
}
