package handlers

import (
	"net/http"

	"github.com/yourusername/project-hub/internal/domain"
	"github.com/yourusername/project-hub/internal/service"
	"github.com/yourusername/project-hub/pkg/logger"
)

// UserHandler обрабатывает запросы управления пользователями
type UserHandler struct {
	BaseHandler
	userService *service.UserService
}

// NewUserHandler создает новый экземпляр UserHandler
func NewUserHandler(userService *service.UserService, log logger.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(log),
		userService: userService,
	}
}

// Create создает нового пользователя
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := h.Actor(r)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	var req domain.UserCreateRequest
	if err := h.DecodeAndValidate(r, &req); err != nil {
		h.RespondWithError(w, err)
		return
	}

	user, err := h.userService.Create(r.Context(), actor, req)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}
	h.RespondWithCreated(w, user.ToResponse())
}

// GetByID возвращает пользователя по ID
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.GetByID(r.Context(), h.GetURLParam(r, "id"))
	if err != nil {
		h.RespondWithError(w, err)
		return
	}
	h.RespondWithSuccess(w, user.ToResponse())
}

// Update обновляет данные пользователя
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := h.Actor(r)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	var req domain.UserUpdateRequest
	if err := h.DecodeAndValidate(r, &req); err != nil {
		h.RespondWithError(w, err)
		return
	}

	user, err := h.userService.Update(r.Context(), actor, h.GetURLParam(r, "id"), req)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}
	h.RespondWithSuccess(w, user.ToResponse())
}

// List возвращает страницу пользователей
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := h.GetPaginationParams(r)
	opts := domain.UserFilterOptions{
		Department: QueryString(r, "department"),
		SearchText: QueryString(r, "search"),
		Page:       page,
		PageSize:   pageSize,
	}
	if raw := QueryString(r, "role"); raw != nil {
		role := domain.UserRole(*raw)
		opts.Role = &role
	}

	users, total, err := h.userService.List(r.Context(), opts)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	responses := make([]domain.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, user.ToResponse())
	}
	h.RespondWithPagination(w, responses, total, page, pageSize)
}
