package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/devconnect/internal/auth"
	"github.com/sakif/devconnect/internal/service"
)

// UserHandler serves registration, login, and the current-user lookup.
//
// HANDLER RESPONSIBILITIES:
//   - HandleRegister → create an account, respond with the public record
//   - HandleLogin    → verify credentials, respond with a bearer token
//   - HandleCurrent  → return the authenticated caller's full record
type UserHandler struct {
	users  *service.AuthService
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler with its dependencies injected.
func NewUserHandler(users *service.AuthService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse carries the issued token with its scheme prefix, ready to
// be sent back verbatim in the Authorization header.
type loginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// HandleRegister creates a new account.
//
// HTTP: POST /users/register
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// HandleLogin verifies credentials and issues a token.
//
// HTTP: POST /users/login
func (h *UserHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Success: true,
		Token:   "Bearer " + result.Token,
	})
}

// HandleCurrent returns the authenticated caller's record, email included.
// The token only carries id/name/avatar, so this goes back to the store.
//
// HTTP: GET /users/current (protected)
func (h *UserHandler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireAuth, but don't crash if the route is
		// ever wired without it.
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"noauthorized": "valid authentication token required",
		})
		return
	}

	user, err := h.users.CurrentUser(r.Context(), identity.UserID)
	if err != nil {
		h.logger.Error("current user lookup failed",
			slog.String("userID", identity.UserID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
