package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/isdelr/helpdesk-be/internal/models"
)

// TicketQuery filters ticket lookups. Empty fields are ignored.
type TicketQuery struct {
	UserID string
	Status string
}

// TicketServiceProvider defines the interface for ticket lookups.
type TicketServiceProvider interface {
	GetAllTicketsDetailed(ctx context.Context, query TicketQuery) ([]models.TicketDetail, error)
}

// TicketService provides read access to support tickets.
type TicketService struct {
	db *sql.DB
}

// NewTicketService creates a new TicketService.
func NewTicketService(db *sql.DB) *TicketService {
	return &TicketService{db: db}
}

// GetAllTicketsDetailed returns matching tickets joined with their requester, newest first.
func (s *TicketService) GetAllTicketsDetailed(ctx context.Context, query TicketQuery) ([]models.TicketDetail, error) {
	var (
		conds []string
		args  []any
	)
	if query.UserID != "" {
		conds = append(conds, "t.user_id = ?")
		args = append(args, query.UserID)
	}
	if query.Status != "" {
		conds = append(conds, "t.status = ?")
		args = append(args, query.Status)
	}

	stmt := `SELECT t.id, t.user_id, t.subject, COALESCE(t.description, ''), t.status, t.created_at,
		u.first_name, u.last_name, u.email_address
		FROM tickets t JOIN users u ON u.id = t.user_id`
	if len(conds) > 0 {
		stmt += " WHERE " + strings.Join(conds, " AND ")
	}
	stmt += " ORDER BY t.created_at DESC, t.id"

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	tickets := []models.TicketDetail{}
	for rows.Next() {
		var (
			t       models.TicketDetail
			created int64
		)
		if err := rows.Scan(&t.ID, &t.UserID, &t.Subject, &t.Description, &t.Status, &created,
			&t.RequesterFirstName, &t.RequesterLastName, &t.RequesterEmail); err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		t.CreatedAt = fromMillis(created)
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, nil
}
