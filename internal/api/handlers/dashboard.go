package handlers

import (
	"net/http"

	"github.com/yourusername/project-hub/internal/service"
	"github.com/yourusername/project-hub/pkg/logger"
)

// DashboardHandler обрабатывает запросы сводной статистики
type DashboardHandler struct {
	BaseHandler
	statsService *service.StatsService
}

// NewDashboardHandler создает новый экземпляр DashboardHandler
func NewDashboardHandler(statsService *service.StatsService, log logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler:  NewBaseHandler(log),
		statsService: statsService,
	}
}

// GetStats возвращает сводку для дашборда текущего пользователя.
// Для роли member показатели ограничены его проектами и задачами.
func (h *DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	actor, err := h.Actor(r)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	stats, err := h.statsService.ComputeDashboardStats(r.Context(), actor)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}
	h.RespondWithSuccess(w, stats)
}
