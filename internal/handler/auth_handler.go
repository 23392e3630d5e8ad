package handler

import (
	"net/http"
	"time"

	"smartnotes-server/internal/domain"
	"smartnotes-server/internal/middleware"
	"smartnotes-server/internal/service"
	"smartnotes-server/pkg/response"
)

type AuthHandler struct {
	authService  *service.AuthService
	secureCookie bool
}

func NewAuthHandler(authService *service.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		secureCookie: secureCookie,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.authService.Register(r.Context(), &req); err != nil {
		writeError(w, r, err, "Failed to register user")
		return
	}

	response.Message(w, http.StatusCreated, "User registered successfully")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	loginResp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		writeError(w, r, err, "Failed to log in")
		return
	}

	h.setSessionCookie(w, loginResp.AccessToken, h.authService.AccessTokenTTL())
	response.Success(w, loginResp)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req domain.RefreshTokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	tokenResp, err := h.authService.RefreshToken(r.Context(), &req)
	if err != nil {
		writeError(w, r, err, "Failed to refresh token")
		return
	}

	h.setSessionCookie(w, tokenResp.AccessToken, h.authService.AccessTokenTTL())
	response.Success(w, tokenResp)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.setSessionCookie(w, "", -1)
	response.Message(w, http.StatusOK, "Logged out successfully")
}

// setSessionCookie writes the session cookie; a negative ttl clears it.
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	cookie := &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl < 0 {
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
	} else {
		cookie.MaxAge = int(ttl.Seconds())
	}
	http.SetCookie(w, cookie)
}
