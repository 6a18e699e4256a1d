package handlers

import (
	"net/http"

	"github.com/yourusername/project-hub/internal/domain"
	"github.com/yourusername/project-hub/internal/service"
	"github.com/yourusername/project-hub/pkg/logger"
)

// ProjectHandler обрабатывает запросы управления проектами
type ProjectHandler struct {
	BaseHandler
	projectService *service.ProjectService
	statsService   *service.StatsService
}

// NewProjectHandler создает новый экземпляр ProjectHandler
func NewProjectHandler(projectService *service.ProjectService, statsService *service.StatsService, log logger.Logger) *ProjectHandler {
	return &ProjectHandler{
		BaseHandler:    NewBaseHandler(log),
		projectService: projectService,
		statsService:   statsService,
	}
}

// Create создает новый проект
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := h.Actor(r)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	var req domain.ProjectCreateRequest
	if err := h.DecodeAndValidate(r, &req); err != nil {
		h.RespondWithError(w, err)
		return
	}

	project, err := h.projectService.Create(r.Context(), actor, req)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}
	h.RespondWithCreated(w, project.ToResponse())
}

// GetByID возвращает проект со статистикой
func (h *ProjectHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	actor, err := h.Actor(r)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	id := h.GetURLParam(r, "id")
	project, err := h.projectService.GetByID(r.Context(), actor, id)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	resp := project.ToResponse()
	if stats, err := h.statsService.ComputeProjectStats(r.Context(), actor, id); err == nil {
		resp.Stats = stats
		resp.Progress = stats.Progress
	}
	h.RespondWithSuccess(w, resp)
}

// Update обновляет данные проекта
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := h.Actor(r)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	var req domain.ProjectUpdateRequest
	if err := h.DecodeAndValidate(r, &req); err != nil {
		h.RespondWithError(w, err)
		return
	}

	project, err := h.projectService.Update(r.Context(), actor, h.GetURLParam(r, "id"), req)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}
	h.RespondWithSuccess(w, project.ToResponse())
}

// Delete удаляет проект
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := h.Actor(r)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	if err := h.projectService.Delete(r.Context(), actor, h.GetURLParam(r, "id")); err != nil {
		h.RespondWithError(w, err)
		return
	}
	h.Respond(w, http.StatusNoContent, nil)
}

// List возвращает страницу проектов
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := h.Actor(r)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	page, pageSize := h.GetPaginationParams(r)
	opts := domain.ProjectFilterOptions{
		ManagerID:  QueryString(r, "manager_id"),
		MemberID:   QueryString(r, "member_id"),
		SearchText: QueryString(r, "search"),
		SortBy:     QueryString(r, "sort_by"),
		SortOrder:  QueryString(r, "sort_order"),
		Page:       page,
		PageSize:   pageSize,
	}
	if raw := QueryString(r, "status"); raw != nil {
		status := domain.ProjectStatus(*raw)
		opts.Status = &status
	}

	projects, total, err := h.projectService.List(r.Context(), actor, opts)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	responses := make([]domain.ProjectResponse, 0, len(projects))
	for _, project := range projects {
		responses = append(responses, project.ToResponse())
	}
	h.RespondWithPagination(w, responses, total, page, pageSize)
}

// GetStats возвращает статистику проекта
func (h *ProjectHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	actor, err := h.Actor(r)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	stats, err := h.statsService.ComputeProjectStats(r.Context(), actor, h.GetURLParam(r, "id"))
	if err != nil {
		h.RespondWithError(w, err)
		return
	}
	h.RespondWithSuccess(w, stats)
}

// GetTeam возвращает команду проекта
func (h *ProjectHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	actor, err := h.Actor(r)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	team, err := h.projectService.GetTeam(r.Context(), actor, h.GetURLParam(r, "id"))
	if err != nil {
		h.RespondWithError(w, err)
		return
	}
	h.RespondWithSuccess(w, team)
}

// AddTeamMember добавляет пользователя в команду проекта
func (h *ProjectHandler) AddTeamMember(w http.ResponseWriter, r *http.Request) {
	actor, err := h.Actor(r)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	var req domain.AddTeamMemberRequest
	if err := h.DecodeAndValidate(r, &req); err != nil {
		h.RespondWithError(w, err)
		return
	}

	if err := h.projectService.AddTeamMember(r.Context(), actor, h.GetURLParam(r, "id"), req.UserID); err != nil {
		h.RespondWithError(w, err)
		return
	}
	h.Respond(w, http.StatusNoContent, nil)
}

// RemoveTeamMember удаляет пользователя из команды проекта
func (h *ProjectHandler) RemoveTeamMember(w http.ResponseWriter, r *http.Request) {
	actor, err := h.Actor(r)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	projectID := h.GetURLParam(r, "id")
	userID := h.GetURLParam(r, "userID")
	if err := h.projectService.RemoveTeamMember(r.Context(), actor, projectID, userID); err != nil {
		h.RespondWithError(w, err)
		return
	}
	h.Respond(w, http.StatusNoContent, nil)
}
