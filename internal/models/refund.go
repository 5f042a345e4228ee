package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RefundCredit is a monetary balance granted to a user, optionally tied to a ticket.
type RefundCredit struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	TicketID        *string         `json:"ticket_id,omitempty"`
	CreditAvailable decimal.Decimal `json:"credit_available"`
	CreatedAt       time.Time       `json:"created_at"`
}
