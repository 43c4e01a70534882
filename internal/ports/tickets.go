package ports

import (
	"log/slog"
	"net/http"

	"github.com/Amund211/pilgrim/internal/app"
	"github.com/Amund211/pilgrim/internal/domain"
)

// Opening tickets is rare, keep spam out of the support queue
var ticketRateLimit = userRateLimit{refillPerSecond: 0.05, burstSize: 5}

type createTicketResponse struct {
	Success bool           `json:"success"`
	Ticket  ticketResponse `json:"ticket"`
}

func MakeCreateTicketHandler(
	createTicket app.CreateTicket,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildPortMiddleware("createticket", ticketRateLimit, allowedOrigins, rootLogger, sentryMiddleware)

	return middleware(withUserID(func(w http.ResponseWriter, r *http.Request, userID string) {
		var body struct {
			Subject  string `json:"subject"`
			Category string `json:"category"`
			Message  string `json:"message"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "Invalid body")
			return
		}

		ticket, err := createTicket(r.Context(), userID, body.Subject, domain.TicketCategory(body.Category), body.Message)
		if err != nil {
			writeAppError(w, r, err)
			return
		}

		writeJSONResponse(w, r, createTicketResponse{Success: true, Ticket: ticketToResponse(ticket)})
	}))
}

type listTicketsResponse struct {
	Success bool             `json:"success"`
	Tickets []ticketResponse `json:"tickets"`
}

func MakeListTicketsHandler(
	listTickets app.ListTickets,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildPortMiddleware("listtickets", defaultUserRateLimit, allowedOrigins, rootLogger, sentryMiddleware)

	return middleware(withUserID(func(w http.ResponseWriter, r *http.Request, userID string) {
		tickets, err := listTickets(r.Context(), userID)
		if err != nil {
			// NOTE: ListTickets implementations handle their own error reporting
			writeAppError(w, r, err)
			return
		}

		response := listTicketsResponse{
			Success: true,
			Tickets: make([]ticketResponse, 0, len(tickets)),
		}
		for _, ticket := range tickets {
			response.Tickets = append(response.Tickets, ticketToResponse(ticket))
		}

		writeJSONResponse(w, r, response)
	}))
}
