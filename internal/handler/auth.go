package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/fantasy-forward/internal/auth"
	"github.com/sakif/fantasy-forward/internal/service"
)

// AuthHandler exposes the legacy email/password endpoints and /auth/me.
//
// Register and Login are the only routes that issue tokens from this
// backend; users of the hosted provider obtain tokens there and this API
// only ever verifies them (see auth.RequireAuth).
type AuthHandler struct {
	authService *service.AuthService
	logger      *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authService *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

// credentialsRequest is the body for both register and login.
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userResponse is the public view of a user — no password hash, ever.
type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// tokenResponse is the register/login response: the user plus the issued
// access token.
type tokenResponse struct {
	User        userResponse `json:"user"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
}

func newTokenResponse(result *service.AuthResult) tokenResponse {
	return tokenResponse{
		User: userResponse{
			ID:        result.User.ID,
			Email:     result.User.Email,
			CreatedAt: result.User.CreatedAt,
		},
		AccessToken: result.Token,
		TokenType:   "bearer",
	}
}

// HandleRegister creates a local account.
//
// HTTP: POST /api/v1/auth/register
// Body: {"email": "...", "password": "..."} (password >= 8 chars)
// 201 with user+token on success, 409 if the email is taken.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.authService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newTokenResponse(result))
}

// HandleLogin verifies credentials and issues an access token.
//
// HTTP: POST /api/v1/auth/login
// Failure is always the same 401 — the response does not distinguish an
// unknown email from a wrong password.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newTokenResponse(result))
}

// HandleMe returns the authenticated user's public fields.
//
// HTTP: GET /api/v1/auth/me (protected)
// The middleware has already resolved the principal; this just shapes it.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireAuth, kept as a guard.
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "could not validate credentials"})
		return
	}

	writeJSON(w, http.StatusOK, userResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}
