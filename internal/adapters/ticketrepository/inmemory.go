package ticketrepository

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/Amund211/pilgrim/internal/domain"
)

type InMemory struct {
	mutex   sync.Mutex
	tickets map[string]domain.Ticket
}

func NewInMemory() *InMemory {
	return &InMemory{
		tickets: make(map[string]domain.Ticket),
	}
}

func cloneTicket(ticket domain.Ticket) domain.Ticket {
	ticket.Messages = slices.Clone(ticket.Messages)
	if ticket.Messages == nil {
		ticket.Messages = []domain.TicketMessage{}
	}
	return ticket
}

func (m *InMemory) CreateTicket(ctx context.Context, ticket domain.Ticket) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, ok := m.tickets[ticket.ID]; ok {
		return fmt.Errorf("%w: duplicate id %s", domain.ErrInvalidTicket, ticket.ID)
	}
	m.tickets[ticket.ID] = cloneTicket(ticket)
	return nil
}

func (m *InMemory) AppendMessage(ctx context.Context, ticketID string, message domain.TicketMessage, status domain.TicketStatus) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	ticket, ok := m.tickets[ticketID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrTicketNotFound, ticketID)
	}

	ticket = cloneTicket(ticket)
	ticket.Messages = append(ticket.Messages, message)
	ticket.Status = status
	ticket.LastUpdated = message.Timestamp
	m.tickets[ticketID] = ticket
	return nil
}

func (m *InMemory) ListTickets(ctx context.Context, userID string) ([]domain.Ticket, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	tickets := []domain.Ticket{}
	for _, ticket := range m.tickets {
		if ticket.UserID == userID {
			tickets = append(tickets, cloneTicket(ticket))
		}
	}

	slices.SortFunc(tickets, func(a, b domain.Ticket) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})

	return tickets, nil
}
