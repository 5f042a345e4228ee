package models

import "time"

// User represents a customer account in the system.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	EmailAddress string    `json:"email_address"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	Address      string    `json:"address"`
	CreditCard   string    `json:"credit_card"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
