package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/isdelr/helpdesk-be/internal/auth"
	"github.com/isdelr/helpdesk-be/internal/models"
	"github.com/isdelr/helpdesk-be/internal/services"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	msgUsersNotFound    = "Usuários não encontrados."
	msgUserNotFound     = "Nenhum usuário encontrado."
	msgMissingFields    = "Nem todas as propriedades necessárias foram fornecidas."
	msgDuplicateEmail   = "Usuário com esse e-mail existente."
	msgUserIDNotFound   = "Id de usuário não encontrado."
	msgNoCredits        = "Usuário não possui créditos."
	msgInvalidLogin     = "Email ou senha inválida."
	msgLoggedIn         = "Logado com sucesso."
	msgDeleted          = "Deletado com sucesso."
	msgUnauthorizedGet  = "O usuário atual não está autorizado a acessar estas informações."
	msgUnauthorizedEdit = "O usuário atual não está autorizado a executar a atualização."
	msgUnauthorizedWipe = "O usuário atual não está autorizado a deletar."
	msgInvalidBody      = "Corpo da requisição inválido."
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// TokenIssuer issues signed tokens carrying a user id.
type TokenIssuer interface {
	Issue(userID string) (token string, expiresAt time.Time, err error)
}

// UserHandler handles HTTP requests for user management.
type UserHandler struct {
	users        services.UserServiceProvider
	tickets      services.TicketServiceProvider
	refunds      services.RefundServiceProvider
	hasher       PasswordHasher
	tokens       TokenIssuer
	validate     *validator.Validate
	secureCookie bool
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(
	users services.UserServiceProvider,
	tickets services.TicketServiceProvider,
	refunds services.RefundServiceProvider,
	hasher PasswordHasher,
	tokens TokenIssuer,
	secureCookie bool,
) *UserHandler {
	return &UserHandler{
		users:        users,
		tickets:      tickets,
		refunds:      refunds,
		hasher:       hasher,
		tokens:       tokens,
		validate:     validator.New(),
		secureCookie: secureCookie,
	}
}

// UserPayload is the body of create and update requests.
type UserPayload struct {
	FirstName    string `json:"first_name" validate:"required"`
	LastName     string `json:"last_name" validate:"required"`
	EmailAddress string `json:"email_address" validate:"required"`
	Password     string `json:"password" validate:"required"`
	Address      string `json:"address" validate:"required"`
	CreditCard   string `json:"credit_card" validate:"required"`
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`
}

// LoginData is returned on successful login.
type LoginData struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

// isSelf reports whether the authenticated caller owns userID.
func isSelf(r *http.Request, userID string) bool {
	caller := auth.UserIDFromContext(r.Context())
	return caller != "" && caller == userID
}

func (h *UserHandler) decodeUser(r *http.Request) (UserPayload, bool) {
	var payload UserPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return UserPayload{}, false
	}
	if err := h.validate.Struct(payload); err != nil {
		return UserPayload{}, false
	}
	return payload, true
}

func (p UserPayload) toUser(passwordHash string) models.User {
	return models.User{
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		EmailAddress: p.EmailAddress,
		PasswordHash: passwordHash,
		Address:      p.Address,
		CreditCard:   p.CreditCard,
	}
}

// GetAll handles listing every user.
func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.GetAllUsers(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")
		writeResult(w, http.StatusInternalServerError, failure(err.Error()))
		return
	}
	if len(users) == 0 {
		writeResult(w, http.StatusNotFound, failure(msgUsersNotFound))
		return
	}
	writeResult(w, http.StatusOK, success(users))
}

// Get handles retrieving the caller's own user record.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userId")
	if !isSelf(r, id) {
		writeResult(w, http.StatusUnauthorized, failure(msgUnauthorizedGet))
		return
	}

	user, err := h.users.GetUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			writeResult(w, http.StatusNotFound, failure(msgUserNotFound))
			return
		}
		log.Error().Err(err).Str("user_id", id).Msg("Failed to get user by ID")
		writeResult(w, http.StatusInternalServerError, failure(err.Error()))
		return
	}

	// sanitize
	user.PasswordHash = ""
	writeResult(w, http.StatusOK, success(user))
}

// GetTickets handles listing the caller's support tickets. An optional
// status query parameter narrows the result.
func (h *UserHandler) GetTickets(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userId")
	if !isSelf(r, id) {
		writeResult(w, http.StatusUnauthorized, failure(msgUnauthorizedGet))
		return
	}

	query := services.TicketQuery{UserID: id, Status: r.URL.Query().Get("status")}
	tickets, err := h.tickets.GetAllTicketsDetailed(r.Context(), query)
	if err != nil {
		log.Error().Err(err).Str("user_id", id).Msg("Failed to list user tickets")
		writeResult(w, http.StatusInternalServerError, failure(err.Error()))
		return
	}
	if len(tickets) == 0 {
		writeResult(w, http.StatusNotFound, failure(msgUserNotFound))
		return
	}
	writeResult(w, http.StatusOK, success(tickets))
}

// GetRefunds handles summing the refund credits of a user. Failures other
// than a missing id are reported in the body with a 200 status.
func (h *UserHandler) GetRefunds(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userId")
	if id == "" {
		writeStatusResult(w, http.StatusNotFound, failure(msgUserIDNotFound))
		return
	}

	credits, err := h.refunds.GetCreditByUser(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("user_id", id).Msg("Failed to get refund credits")
		writeStatusResult(w, http.StatusOK, failure(err.Error()))
		return
	}
	if len(credits) == 0 {
		writeStatusResult(w, http.StatusOK, failure(msgNoCredits))
		return
	}

	total := decimal.Zero
	for _, c := range credits {
		total = total.Add(c.CreditAvailable)
	}
	writeStatusResult(w, http.StatusOK, success(total.InexactFloat64()))
}

// Create handles new user registration.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decodeUser(r)
	if !ok {
		writeResult(w, http.StatusBadRequest, failure(msgMissingFields))
		return
	}

	hash, err := h.hasher.Hash(payload.Password)
	if err != nil {
		log.Error().Err(err).Msg("Failed to hash password")
		writeResult(w, http.StatusInternalServerError, failure(err.Error()))
		return
	}

	user, err := h.users.CreateUser(r.Context(), payload.toUser(hash))
	if err != nil {
		if errors.Is(err, services.ErrDuplicateEmail) {
			writeResult(w, http.StatusBadRequest, failure(msgDuplicateEmail))
			return
		}
		log.Error().Err(err).Str("email", payload.EmailAddress).Msg("Failed to create user")
		writeResult(w, http.StatusInternalServerError, failure(err.Error()))
		return
	}

	// Don't send password hash back
	user.PasswordHash = ""
	writeResult(w, http.StatusCreated, success(user))
}

// Update handles replacing the caller's user record. The password is
// always re-hashed, so clients must send it on every update.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userId")
	payload, ok := h.decodeUser(r)
	if !ok || id == "" {
		writeResult(w, http.StatusBadRequest, failure(msgMissingFields))
		return
	}
	if !isSelf(r, id) {
		writeResult(w, http.StatusUnauthorized, failure(msgUnauthorizedEdit))
		return
	}

	hash, err := h.hasher.Hash(payload.Password)
	if err != nil {
		log.Error().Err(err).Str("user_id", id).Msg("Failed to hash password")
		writeResult(w, http.StatusInternalServerError, failure(err.Error()))
		return
	}

	user, err := h.users.UpdateUser(r.Context(), id, payload.toUser(hash))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			writeResult(w, http.StatusNotFound, failure(msgUserNotFound))
		case errors.Is(err, services.ErrDuplicateEmail):
			writeResult(w, http.StatusBadRequest, failure(msgDuplicateEmail))
		default:
			log.Error().Err(err).Str("user_id", id).Msg("Failed to update user")
			writeResult(w, http.StatusInternalServerError, failure(err.Error()))
		}
		return
	}

	// sanitize
	user.PasswordHash = ""
	writeResult(w, http.StatusOK, success(user))
}

// Delete handles the permanent deletion of the caller's account.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userId")
	if !isSelf(r, id) {
		writeResult(w, http.StatusUnauthorized, failure(msgUnauthorizedWipe))
		return
	}

	if err := h.users.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			writeResult(w, http.StatusNotFound, failure(msgUserNotFound))
			return
		}
		log.Error().Err(err).Str("user_id", id).Msg("Failed to delete user")
		writeResult(w, http.StatusInternalServerError, failure(err.Error()))
		return
	}
	writeResult(w, http.StatusOK, successMessage(msgDeleted, nil))
}

// Login handles user authentication and JWT generation.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeResult(w, http.StatusBadRequest, failure(msgInvalidBody))
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), payload.EmailAddress)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			writeResult(w, http.StatusNotFound, failure(msgUserNotFound))
			return
		}
		log.Error().Err(err).Str("email", payload.EmailAddress).Msg("Failed to look up user for login")
		writeResult(w, http.StatusInternalServerError, failure(err.Error()))
		return
	}

	if !h.hasher.Compare(user.PasswordHash, payload.Password) {
		log.Warn().Str("email", payload.EmailAddress).Msg("Failed authentication attempt")
		writeResult(w, http.StatusUnauthorized, failure(msgInvalidLogin))
		return
	}
	user.PasswordHash = ""

	token, expiresAt, err := h.tokens.Issue(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate JWT")
		writeResult(w, http.StatusInternalServerError, failure(err.Error()))
		return
	}

	cookie := &http.Cookie{
		Name:     "token",
		Value:    token,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	}
	if !expiresAt.IsZero() {
		cookie.Expires = expiresAt
	}
	http.SetCookie(w, cookie)

	writeResult(w, http.StatusOK, successMessage(msgLoggedIn, LoginData{UserID: user.ID, Token: token}))
}
