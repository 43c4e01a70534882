package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Amund211/pilgrim/internal/domain"
	"github.com/Amund211/pilgrim/internal/logging"
	"github.com/google/uuid"
)

const AGENT_REPLY_DELAY = 5 * time.Second

const agentReplyTimeout = 10 * time.Second

type ticketRepository interface {
	CreateTicket(ctx context.Context, ticket domain.Ticket) error
	AppendMessage(ctx context.Context, ticketID string, message domain.TicketMessage, status domain.TicketStatus) error
	ListTickets(ctx context.Context, userID string) ([]domain.Ticket, error)
}

func newTicketID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "SUP-" + strings.ToUpper(hex[:8])
}

func newMessageID() string {
	return "msg-" + uuid.NewString()
}

type CreateTicket func(ctx context.Context, userID string, subject string, category domain.TicketCategory, message string) (domain.Ticket, error)

// BuildCreateTicket stores new tickets and schedules the automatic agent reply
//
// The reply is appended once, afterFunc(AGENT_REPLY_DELAY) after creation. It is
// not retried and is not cancelled by the request finishing.
func BuildCreateTicket(
	repo ticketRepository,
	nowFunc func() time.Time,
	afterFunc func(time.Duration, func()) *time.Timer,
) CreateTicket {
	return func(ctx context.Context, userID string, subject string, category domain.TicketCategory, message string) (domain.Ticket, error) {
		subject = strings.TrimSpace(subject)
		message = strings.TrimSpace(message)
		if subject == "" {
			return domain.Ticket{}, fmt.Errorf("%w: empty subject", domain.ErrInvalidTicket)
		}
		if message == "" {
			return domain.Ticket{}, fmt.Errorf("%w: empty message", domain.ErrInvalidTicket)
		}
		if !category.Valid() {
			return domain.Ticket{}, fmt.Errorf("%w: unknown category %s", domain.ErrInvalidTicket, category)
		}

		now := nowFunc()
		ticket := domain.Ticket{
			ID:          newTicketID(),
			UserID:      userID,
			Subject:     subject,
			Category:    category,
			Status:      domain.TicketStatusOpen,
			CreatedAt:   now,
			LastUpdated: now,
			Messages: []domain.TicketMessage{
				{
					ID:        newMessageID(),
					Sender:    domain.TicketSenderUser,
					Text:      message,
					Timestamp: now,
				},
			},
		}

		err := repo.CreateTicket(ctx, ticket)
		if err != nil {
			// NOTE: ticketRepository implementations handle their own error reporting
			return domain.Ticket{}, fmt.Errorf("failed to create ticket: %w", err)
		}

		ctx = logging.AddMetaToContext(context.WithoutCancel(ctx), slog.String("ticketID", ticket.ID))
		afterFunc(AGENT_REPLY_DELAY, func() {
			replyCtx, cancel := context.WithTimeout(ctx, agentReplyTimeout)
			defer cancel()

			reply := domain.TicketMessage{
				ID:        newMessageID(),
				Sender:    domain.TicketSenderAgent,
				Text:      domain.AgentAutoReply,
				Timestamp: nowFunc(),
			}
			err := repo.AppendMessage(replyCtx, ticket.ID, reply, domain.TicketStatusInProgress)
			if err != nil {
				logging.FromContext(replyCtx).ErrorContext(replyCtx, "Failed to send agent reply", "error", err.Error())
				return
			}
			logging.FromContext(replyCtx).InfoContext(replyCtx, "Sent agent reply")
		})

		return ticket, nil
	}
}

type ListTickets func(ctx context.Context, userID string) ([]domain.Ticket, error)

func BuildListTickets(repo ticketRepository) ListTickets {
	return func(ctx context.Context, userID string) ([]domain.Ticket, error) {
		tickets, err := repo.ListTickets(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to list tickets: %w", err)
		}
		return tickets, nil
	}
}
