package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/isdelr/helpdesk-be/internal/models"
)

// RefundServiceProvider defines the interface for refund credit lookups.
type RefundServiceProvider interface {
	GetCreditByUser(ctx context.Context, userID string) ([]models.RefundCredit, error)
}

// RefundService provides read access to refund credits.
type RefundService struct {
	db *sql.DB
}

// NewRefundService creates a new RefundService.
func NewRefundService(db *sql.DB) *RefundService {
	return &RefundService{db: db}
}

// GetCreditByUser returns every credit record of a user, oldest first.
func (s *RefundService) GetCreditByUser(ctx context.Context, userID string) ([]models.RefundCredit, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, user_id, ticket_id, credit_available, created_at
		FROM refund_credits WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list refund credits: %w", err)
	}
	defer rows.Close()

	credits := []models.RefundCredit{}
	for rows.Next() {
		var (
			c        models.RefundCredit
			ticketID sql.NullString
			created  int64
		)
		if err := rows.Scan(&c.ID, &c.UserID, &ticketID, &c.CreditAvailable, &created); err != nil {
			return nil, fmt.Errorf("scan refund credit: %w", err)
		}
		if ticketID.Valid {
			c.TicketID = &ticketID.String
		}
		c.CreatedAt = fromMillis(created)
		credits = append(credits, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list refund credits: %w", err)
	}
	return credits, nil
}
