package models

import "time"

// Ticket statuses.
const (
	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in_progress"
	TicketStatusClosed     = "closed"
)

// Ticket represents a support request opened by a user.
type Ticket struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// TicketDetail is a ticket joined with its requester.
type TicketDetail struct {
	Ticket
	RequesterFirstName string `json:"requester_first_name"`
	RequesterLastName  string `json:"requester_last_name"`
	RequesterEmail     string `json:"requester_email"`
}
