package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/songbook/internal/auth"
	"github.com/sakif/songbook/internal/service"
)

// AuthHandler manages email/password accounts and the session cookie.
//
// HANDLER RESPONSIBILITIES:
//   - HandleRegister → create an account, issue a JWT
//   - HandleLogin    → check credentials, issue a JWT
//   - HandleLogout   → clear the JWT cookie
//   - HandleMe       → return the logged-in user's account
//
// The token goes back both in the JSON body (for the mobile client, which
// sends it as a Bearer header) and as an HttpOnly cookie (for browsers).
type AuthHandler struct {
	users        *service.UserService
	secureCookie bool
	logger       *slog.Logger
}

func NewAuthHandler(users *service.UserService, secureCookie bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{users: users, secureCookie: secureCookie, logger: logger}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"max=100"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleRegister creates an account.
//
// HTTP: POST /auth/register
// REQUEST BODY: {"email": "ana@example.com", "password": "...", "name": "Ana"}
// RESPONSE: 201 {"user": {...}, "token": "...", "expiresAt": "..."}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.users.RegisterUser(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setTokenCookie(w, res.Token)
	writeJSON(w, http.StatusCreated, res)
}

// HandleLogin exchanges credentials for a token.
//
// HTTP: POST /auth/login
// An unknown email and a wrong password both answer 401 with the same body.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.users.LoginUser(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setTokenCookie(w, res.Token)
	writeJSON(w, http.StatusOK, res)
}

// HandleLogout clears the JWT cookie.
//
// HTTP: POST /auth/logout
//
// Tokens are stateless, so a Bearer token stays valid until it expires;
// the mobile client logs out by dropping it.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleMe returns the current user's account.
//
// HTTP: GET /api/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetCurrentUser(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.users.TokenTTL().Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
