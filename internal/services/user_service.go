package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/helpdesk-be/internal/models"
)

// UserServiceProvider defines the interface for user persistence.
// Callers hash passwords before handing a user to CreateUser or UpdateUser.
type UserServiceProvider interface {
	GetAllUsers(ctx context.Context) ([]models.User, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	UpdateUser(ctx context.Context, id string, user models.User) (models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// UserService provides persistence for user management.
type UserService struct {
	db  *sql.DB
	now func() time.Time
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db, now: time.Now}
}

const userColumns = "id, first_name, last_name, email_address, address, credit_card, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner, withHash bool) (models.User, error) {
	var (
		user             models.User
		created, updated   int64
	)
	dest := []any{&user.ID, &user.FirstName, &user.LastName, &user.EmailAddress, &user.Address, &user.CreditCard, &created, &updated}
	if withHash {
		dest = append(dest, &user.PasswordHash)
	}
	if err := row.Scan(dest...); err != nil {
		return models.User{}, err
	}
	user.CreatedAt = fromMillis(created)
	user.UpdatedAt = fromMillis(updated)
	return user, nil
}

// GetAllUsers lists every user, oldest first.
func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows, false)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	user, err := scanUser(row, false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("get user %s: %w", id, err)
	}
	return user, nil
}

// GetUserByEmail retrieves a single user by their email, including the password hash.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+", password_hash FROM users WHERE email_address = ?", email)
	user, err := scanUser(row, true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

// CreateUser stores a new user. user.PasswordHash must already be hashed.
func (s *UserService) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	now := s.now().UTC().Truncate(time.Millisecond)
	user.ID = uuid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	stmt, err := s.db.PrepareContext(ctx, `INSERT INTO users(id, first_name, last_name, email_address, password_hash, address, credit_card, created_at, updated_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return models.User{}, fmt.Errorf("prepare insert user: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, user.ID, user.FirstName, user.LastName, user.EmailAddress, user.PasswordHash,
		user.Address, user.CreditCard, toMillis(user.CreatedAt), toMillis(user.UpdatedAt))
	if err != nil {
		if isUniqueConstraintError(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// UpdateUser replaces every mutable field of a user, including the password hash.
func (s *UserService) UpdateUser(ctx context.Context, id string, user models.User) (models.User, error) {
	stmt, err := s.db.PrepareContext(ctx, `UPDATE users
		SET first_name = ?, last_name = ?, email_address = ?, password_hash = ?, address = ?, credit_card = ?, updated_at = ?
		WHERE id = ?`)
	if err != nil {
		return models.User{}, fmt.Errorf("prepare update user: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.ExecContext(ctx, user.FirstName, user.LastName, user.EmailAddress, user.PasswordHash,
		user.Address, user.CreditCard, toMillis(s.now()), id)
	if err != nil {
		if isUniqueConstraintError(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, fmt.Errorf("update user %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.User{}, fmt.Errorf("update user %s: %w", id, err)
	}
	if affected == 0 {
		return models.User{}, ErrUserNotFound
	}
	return s.GetUserByID(ctx, id)
}

// DeleteUser removes a user from the database.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}
