package domain

import "time"

type TicketCategory string

const (
	TicketCategoryAccount   TicketCategory = "account"
	TicketCategoryBug       TicketCategory = "bug"
	TicketCategorySpiritual TicketCategory = "spiritual"
	TicketCategoryBilling   TicketCategory = "billing"
	TicketCategoryOther     TicketCategory = "other"
)

func (c TicketCategory) Valid() bool {
	switch c {
	case TicketCategoryAccount, TicketCategoryBug, TicketCategorySpiritual, TicketCategoryBilling, TicketCategoryOther:
		return true
	}
	return false
}

type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

type TicketSender string

const (
	TicketSenderUser   TicketSender = "user"
	TicketSenderAgent  TicketSender = "agent"
	TicketSenderSystem TicketSender = "system"
)

type TicketMessage struct {
	ID        string       `json:"id"`
	Sender    TicketSender `json:"sender"`
	Text      string       `json:"text"`
	Timestamp time.Time    `json:"timestamp"`
}

type Ticket struct {
	ID          string
	UserID      string
	Subject     string
	Category    TicketCategory
	Status      TicketStatus
	CreatedAt   time.Time
	LastUpdated time.Time
	Messages    []TicketMessage
}

const AgentAutoReply = "Hello! Thank you for reaching out to Journey Support. A member of our team has received your request and will review it shortly. God bless!"
