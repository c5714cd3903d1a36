package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/nkarpov/timebox-api/internal/model"
	"github.com/nkarpov/timebox-api/internal/service"
	"github.com/nkarpov/timebox-api/pkg/respond"
)

const sessionTTL = 7 * 24 * time.Hour

type AuthHandler struct {
	service *service.AuthService
	logger  *zap.Logger
}

func NewAuthHandler(srv *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: srv,
		logger:  logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool       `json:"success"`
	User    model.User `json:"user"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	user, err := h.service.Login(req.Email, req.Password)
	if err != nil {
		respond.Error(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	http.SetCookie(w, sessionCookieFor(user.ID, sessionTTL))
	respond.JSON(w, r, http.StatusOK, loginResponse{Success: true, User: user})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, sessionCookieFor("", -1))
	respond.Success(w, r)
}

// sessionCookieFor собирает http-only/secure/lax куку;
// отрицательный ttl немедленно гасит ее в браузере
func sessionCookieFor(value string, ttl time.Duration) *http.Cookie {
	maxAge := int(ttl.Seconds())
	if ttl < 0 {
		maxAge = -1
	}
	return &http.Cookie{
		Name:     sessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}
