// Package storefront implements the JSON HTTP API: account management,
// the product catalog, the cart, and checkout.
package storefront

import (
	"net/http"
	"time"

	"github.com/luminastore/lumina/internal/domain"
	"github.com/luminastore/lumina/internal/handler"
	"github.com/luminastore/lumina/internal/middleware"
)

// sessionCookieTTL matches the server-side session lifetime.
const sessionCookieTTL = 7 * 24 * time.Hour

// AuthHandler serves registration, login, logout, and the current-user
// endpoint.
type AuthHandler struct {
	users domain.UserService

	// secureCookies marks session cookies Secure; disabled in local dev
	// over plain HTTP.
	secureCookies bool
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(users domain.UserService, secureCookies bool) *AuthHandler {
	return &AuthHandler{users: users, secureCookies: secureCookies}
}

type registerRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
}

// Register handles POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := handler.DecodeAndValidate(r, &req); err != nil {
		handler.RespondError(w, r, err)
		return
	}

	_, err := h.users.Register(r.Context(), domain.RegisterParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Account created. Please login.",
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /login. A successful login sets the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := handler.DecodeAndValidate(r, &req); err != nil {
		handler.RespondError(w, r, err)
		return
	}

	user, token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}

	http.SetCookie(w, h.sessionCookie(token, sessionCookieTTL))

	handler.RespondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    userPayload(user),
	})
}

// Logout handles POST /logout. Destroys the server-side session and
// expires the cookie. Safe to call without a session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.users.Logout(r.Context(), cookie.Value); err != nil {
			handler.RespondError(w, r, err)
			return
		}
	}

	http.SetCookie(w, h.sessionCookie("", -time.Hour))

	handler.RespondJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Me handles GET /me. Requires authentication.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := domain.UserFromContext(r.Context())
	if user == nil {
		handler.RespondError(w, r, domain.Unauthorized("storefront.Me", "Please login first"))
		return
	}

	handler.RespondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    userPayload(user),
	})
}

func (h *AuthHandler) sessionCookie(token string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

func userPayload(user *domain.User) map[string]any {
	return map[string]any{
		"id":        user.ID,
		"email":     user.Email,
		"firstName": user.FirstName,
		"lastName":  user.LastName,
	}
}
