package ports

import (
	"log/slog"
	"net/http"

	"github.com/Amund211/pilgrim/internal/app"
)

type rankResponse struct {
	Success bool `json:"success"`
	Rank    int  `json:"rank"`
}

func MakeGetRankHandler(
	getRank app.GetRank,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildPortMiddleware("rank", defaultUserRateLimit, allowedOrigins, rootLogger, sentryMiddleware)

	return middleware(withUserID(func(w http.ResponseWriter, r *http.Request, userID string) {
		rank, err := getRank(r.Context(), userID)
		if err != nil {
			// NOTE: GetRank implementations handle their own error reporting
			writeAppError(w, r, err)
			return
		}

		writeJSONResponse(w, r, rankResponse{Success: true, Rank: rank})
	}))
}
