package ticketrepository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Amund211/pilgrim/internal/domain"
	"github.com/Amund211/pilgrim/internal/reporting"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type Postgres struct {
	db     *sqlx.DB
	schema string

	tracer trace.Tracer
}

func NewPostgres(db *sqlx.DB, schema string) *Postgres {
	return &Postgres{
		db:     db,
		schema: schema,

		tracer: otel.Tracer("pilgrim/ticketrepository/postgres"),
	}
}

type dbTicketEntry struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	Subject      string    `db:"subject"`
	Category     string    `db:"category"`
	Status       string    `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
	LastUpdated  time.Time `db:"last_updated"`
	MessagesJSON []byte    `db:"messages_json"`
}

func (p *Postgres) table() string {
	return fmt.Sprintf("%s.support_tickets", pq.QuoteIdentifier(p.schema))
}

func (p *Postgres) CreateTicket(ctx context.Context, ticket domain.Ticket) error {
	ctx, span := p.tracer.Start(ctx, "Postgres.CreateTicket")
	defer span.End()

	messages := ticket.Messages
	if messages == nil {
		messages = []domain.TicketMessage{}
	}
	messagesJSON, err := json.Marshal(messages)
	if err != nil {
		err := fmt.Errorf("failed to marshal messages: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"ticketID": ticket.ID,
		})
		return err
	}

	_, err = p.db.ExecContext(
		ctx,
		fmt.Sprintf(
			`INSERT INTO %s
			(id, user_id, subject, category, status, created_at, last_updated, messages_json)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			p.table(),
		),
		ticket.ID,
		ticket.UserID,
		ticket.Subject,
		string(ticket.Category),
		string(ticket.Status),
		ticket.CreatedAt,
		ticket.LastUpdated,
		messagesJSON,
	)
	if err != nil {
		err := fmt.Errorf("failed to insert ticket: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"ticketID": ticket.ID,
			"userID":   ticket.UserID,
		})
		return err
	}

	return nil
}

func (p *Postgres) AppendMessage(ctx context.Context, ticketID string, message domain.TicketMessage, status domain.TicketStatus) error {
	ctx, span := p.tracer.Start(ctx, "Postgres.AppendMessage")
	defer span.End()

	messageJSON, err := json.Marshal([]domain.TicketMessage{message})
	if err != nil {
		err := fmt.Errorf("failed to marshal message: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"ticketID": ticketID,
		})
		return err
	}

	result, err := p.db.ExecContext(
		ctx,
		fmt.Sprintf(
			`UPDATE %s SET
				messages_json = messages_json || $2::jsonb,
				status = $3,
				last_updated = $4
			WHERE id = $1`,
			p.table(),
		),
		ticketID,
		messageJSON,
		string(status),
		message.Timestamp,
	)
	if err != nil {
		err := fmt.Errorf("failed to append message: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"ticketID": ticketID,
		})
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("failed to get affected rows: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"ticketID": ticketID,
		})
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrTicketNotFound, ticketID)
	}

	return nil
}

func (p *Postgres) ListTickets(ctx context.Context, userID string) ([]domain.Ticket, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.ListTickets")
	defer span.End()

	var entries []dbTicketEntry
	err := p.db.SelectContext(
		ctx,
		&entries,
		fmt.Sprintf(
			`SELECT id, user_id, subject, category, status, created_at, last_updated, messages_json
			FROM %s
			WHERE user_id = $1
			ORDER BY created_at DESC, id DESC`,
			p.table(),
		),
		userID,
	)
	if err != nil {
		err := fmt.Errorf("failed to select tickets: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"userID": userID,
		})
		return nil, err
	}

	tickets := make([]domain.Ticket, 0, len(entries))
	for _, entry := range entries {
		var messages []domain.TicketMessage
		err := json.Unmarshal(entry.MessagesJSON, &messages)
		if err != nil {
			err := fmt.Errorf("failed to unmarshal messages: %w", err)
			reporting.Report(ctx, err, map[string]string{
				"ticketID": entry.ID,
			})
			return nil, err
		}

		tickets = append(tickets, domain.Ticket{
			ID:          entry.ID,
			UserID:      entry.UserID,
			Subject:     entry.Subject,
			Category:    domain.TicketCategory(entry.Category),
			Status:      domain.TicketStatus(entry.Status),
			CreatedAt:   entry.CreatedAt,
			LastUpdated: entry.LastUpdated,
			Messages:    messages,
		})
	}

	return tickets, nil
}
