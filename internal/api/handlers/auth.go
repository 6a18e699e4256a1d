package handlers

import (
	"net/http"

	"github.com/yourusername/project-hub/internal/domain"
	"github.com/yourusername/project-hub/internal/service"
	"github.com/yourusername/project-hub/pkg/logger"
)

// AuthHandler обрабатывает запросы аутентификации
type AuthHandler struct {
	BaseHandler
	userService *service.UserService
}

// NewAuthHandler создает новый экземпляр AuthHandler
func NewAuthHandler(userService *service.UserService, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(log),
		userService: userService,
	}
}

// Login обрабатывает вход пользователя
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := h.DecodeAndValidate(r, &req); err != nil {
		h.RespondWithError(w, err)
		return
	}

	resp, err := h.userService.Login(r.Context(), req)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}
	h.RespondWithSuccess(w, resp)
}

// Refresh обновляет пару токенов
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req domain.RefreshTokenRequest
	if err := h.DecodeAndValidate(r, &req); err != nil {
		h.RespondWithError(w, err)
		return
	}

	resp, err := h.userService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}
	h.RespondWithSuccess(w, resp)
}

// Me возвращает профиль текущего пользователя
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, err := h.Actor(r)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	user, err := h.userService.GetByID(r.Context(), actor.ID)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}
	h.RespondWithSuccess(w, user.ToResponse())
}

// ChangePassword меняет пароль текущего пользователя
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	actor, err := h.Actor(r)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	var req domain.ChangePasswordRequest
	if err := h.DecodeAndValidate(r, &req); err != nil {
		h.RespondWithError(w, err)
		return
	}

	if err := h.userService.ChangePassword(r.Context(), actor, req); err != nil {
		h.RespondWithError(w, err)
		return
	}
	h.Respond(w, http.StatusNoContent, nil)
}
