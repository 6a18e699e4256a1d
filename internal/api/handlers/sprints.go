package handlers

import (
	"net/http"

	"github.com/yourusername/project-hub/internal/domain"
	"github.com/yourusername/project-hub/internal/service"
	"github.com/yourusername/project-hub/pkg/logger"
)

// SprintHandler обрабатывает запросы управления спринтами
type SprintHandler struct {
	BaseHandler
	sprintService *service.SprintService
	statsService  *service.StatsService
}

// NewSprintHandler создает новый экземпляр SprintHandler
func NewSprintHandler(sprintService *service.SprintService, statsService *service.StatsService, log logger.Logger) *SprintHandler {
	return &SprintHandler{
		BaseHandler:   NewBaseHandler(log),
		sprintService: sprintService,
		statsService:  statsService,
	}
}

// Create создает новый спринт
func (h *SprintHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := h.Actor(r)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	var req domain.SprintCreateRequest
	if err := h.DecodeAndValidate(r, &req); err != nil {
		h.RespondWithError(w, err)
		return
	}

	sprint, err := h.sprintService.Create(r.Context(), actor, req)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}
	h.RespondWithCreated(w, sprint.ToResponse())
}

// GetByID возвращает спринт со статистикой
func (h *SprintHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	actor, err := h.Actor(r)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	id := h.GetURLParam(r, "id")
	sprint, err := h.sprintService.GetByID(r.Context(), actor, id)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	resp := sprint.ToResponse()
	if stats, err := h.statsService.ComputeSprintStats(r.Context(), actor, id); err == nil {
		resp.Stats = stats
		resp.Progress = stats.Progress
	}
	h.RespondWithSuccess(w, resp)
}

// Update обновляет данные спринта
func (h *SprintHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := h.Actor(r)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	var req domain.SprintUpdateRequest
	if err := h.DecodeAndValidate(r, &req); err != nil {
		h.RespondWithError(w, err)
		return
	}

	sprint, err := h.sprintService.Update(r.Context(), actor, h.GetURLParam(r, "id"), req)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}
	h.RespondWithSuccess(w, sprint.ToResponse())
}

// Delete удаляет спринт, возвращая его задачи в бэклог
func (h *SprintHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := h.Actor(r)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	if err := h.sprintService.Delete(r.Context(), actor, h.GetURLParam(r, "id")); err != nil {
		h.RespondWithError(w, err)
		return
	}
	h.Respond(w, http.StatusNoContent, nil)
}

// ListByProject возвращает спринты проекта
func (h *SprintHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	actor, err := h.Actor(r)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	sprints, err := h.sprintService.ListByProject(r.Context(), actor, h.GetURLParam(r, "id"))
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	responses := make([]domain.SprintResponse, 0, len(sprints))
	for _, sprint := range sprints {
		responses = append(responses, sprint.ToResponse())
	}
	h.RespondWithSuccess(w, responses)
}

// GetStats возвращает статистику спринта
func (h *SprintHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	actor, err := h.Actor(r)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	stats, err := h.statsService.ComputeSprintStats(r.Context(), actor, h.GetURLParam(r, "id"))
	if err != nil {
		h.RespondWithError(w, err)
		return
	}
	h.RespondWithSuccess(w, stats)
}
