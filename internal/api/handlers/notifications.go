package handlers

import (
	"net/http"
	"strconv"

	"github.com/yourusername/project-hub/internal/domain"
	"github.com/yourusername/project-hub/internal/service"
	"github.com/yourusername/project-hub/pkg/logger"
)

// NotificationHandler обрабатывает запросы уведомлений пользователя
type NotificationHandler struct {
	BaseHandler
	notificationService *service.NotificationService
}

// NewNotificationHandler создает новый экземпляр NotificationHandler
func NewNotificationHandler(notificationService *service.NotificationService, log logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         NewBaseHandler(log),
		notificationService: notificationService,
	}
}

// List возвращает уведомления текущего пользователя, новые первыми
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := h.Actor(r)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	limit := 20
	offset := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	notifications, err := h.notificationService.ListByUser(r.Context(), actor, limit, offset)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	responses := make([]domain.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, n.ToResponse())
	}
	h.RespondWithSuccess(w, responses)
}

// MarkRead помечает уведомление прочитанным
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	actor, err := h.Actor(r)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	if err := h.notificationService.MarkRead(r.Context(), actor, h.GetURLParam(r, "id")); err != nil {
		h.RespondWithError(w, err)
		return
	}
	h.Respond(w, http.StatusNoContent, nil)
}

// CountUnread возвращает количество непрочитанных уведомлений
func (h *NotificationHandler) CountUnread(w http.ResponseWriter, r *http.Request) {
	actor, err := h.Actor(r)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	count, err := h.notificationService.CountUnread(r.Context(), actor)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}
	h.RespondWithSuccess(w, map[string]int{"unread": count})
}
