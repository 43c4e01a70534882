package ticketrepository

import (
	"context"

	"github.com/Amund211/pilgrim/internal/domain"
)

type TicketRepository interface {
	CreateTicket(ctx context.Context, ticket domain.Ticket) error
	// Append a message to the ticket and move it to the given status
	//
	// Returns domain.ErrTicketNotFound if the ticket does not exist.
	AppendMessage(ctx context.Context, ticketID string, message domain.TicketMessage, status domain.TicketStatus) error
	// List the tickets of the user, newest first
	ListTickets(ctx context.Context, userID string) ([]domain.Ticket, error)
}

var (
	_ TicketRepository = (*Postgres)(nil)
	_ TicketRepository = (*InMemory)(nil)
)
