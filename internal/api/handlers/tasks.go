package handlers

import (
	"net/http"

	"github.com/yourusername/project-hub/internal/domain"
	"github.com/yourusername/project-hub/internal/service"
	"github.com/yourusername/project-hub/pkg/logger"
)

// TaskHandler обрабатывает запросы управления задачами
type TaskHandler struct {
	BaseHandler
	taskService *service.TaskService
}

// NewTaskHandler создает новый экземпляр TaskHandler
func NewTaskHandler(taskService *service.TaskService, log logger.Logger) *TaskHandler {
	return &TaskHandler{
		BaseHandler: NewBaseHandler(log),
		taskService: taskService,
	}
}

// Create создает новую задачу
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := h.Actor(r)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	var req domain.TaskCreateRequest
	if err := h.DecodeAndValidate(r, &req); err != nil {
		h.RespondWithError(w, err)
		return
	}

	task, err := h.taskService.Create(r.Context(), actor, req)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	resp, err := h.taskService.BuildResponse(r.Context(), task, false)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}
	h.RespondWithCreated(w, resp)
}

// GetByID возвращает задачу с комментариями
func (h *TaskHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	actor, err := h.Actor(r)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	task, err := h.taskService.GetByID(r.Context(), actor, h.GetURLParam(r, "id"))
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	resp, err := h.taskService.BuildResponse(r.Context(), task, true)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}
	h.RespondWithSuccess(w, resp)
}

// Update обновляет задачу
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := h.Actor(r)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	var req domain.TaskUpdateRequest
	if err := h.DecodeAndValidate(r, &req); err != nil {
		h.RespondWithError(w, err)
		return
	}

	task, err := h.taskService.Update(r.Context(), actor, h.GetURLParam(r, "id"), req)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	resp, err := h.taskService.BuildResponse(r.Context(), task, false)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}
	h.RespondWithSuccess(w, resp)
}

// TransitionStatus переводит задачу в новый статус
func (h *TaskHandler) TransitionStatus(w http.ResponseWriter, r *http.Request) {
	actor, err := h.Actor(r)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	var req domain.TransitionStatusRequest
	if err := h.DecodeAndValidate(r, &req); err != nil {
		h.RespondWithError(w, err)
		return
	}

	task, err := h.taskService.TransitionStatus(r.Context(), actor, h.GetURLParam(r, "id"), req.Status)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	resp, err := h.taskService.BuildResponse(r.Context(), task, false)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}
	h.RespondWithSuccess(w, resp)
}

// LogTime списывает время на задачу
func (h *TaskHandler) LogTime(w http.ResponseWriter, r *http.Request) {
	actor, err := h.Actor(r)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	var req domain.LogTimeRequest
	if err := h.DecodeAndValidate(r, &req); err != nil {
		h.RespondWithError(w, err)
		return
	}

	task, err := h.taskService.LogTime(r.Context(), actor, h.GetURLParam(r, "id"), req)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	resp, err := h.taskService.BuildResponse(r.Context(), task, false)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}
	h.RespondWithSuccess(w, resp)
}

// GetTimeLogs возвращает журнал затраченного времени задачи
func (h *TaskHandler) GetTimeLogs(w http.ResponseWriter, r *http.Request) {
	actor, err := h.Actor(r)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	logs, err := h.taskService.GetTimeLogs(r.Context(), actor, h.GetURLParam(r, "id"))
	if err != nil {
		h.RespondWithError(w, err)
		return
	}
	h.RespondWithSuccess(w, logs)
}

// Delete удаляет задачу
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := h.Actor(r)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	if err := h.taskService.Delete(r.Context(), actor, h.GetURLParam(r, "id")); err != nil {
		h.RespondWithError(w, err)
		return
	}
	h.Respond(w, http.StatusNoContent, nil)
}

// List возвращает страницу задач
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := h.Actor(r)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	page, pageSize := h.GetPaginationParams(r)
	opts := domain.TaskFilterOptions{
		ProjectID:  QueryString(r, "project_id"),
		SprintID:   QueryString(r, "sprint_id"),
		AssigneeID: QueryString(r, "assignee_id"),
		CreatedBy:  QueryString(r, "created_by"),
		SearchText: QueryString(r, "search"),
		SortBy:     QueryString(r, "sort_by"),
		SortOrder:  QueryString(r, "sort_order"),
		Page:       page,
		PageSize:   pageSize,
	}
	if raw := QueryString(r, "status"); raw != nil {
		status := domain.TaskStatus(*raw)
		opts.Status = &status
	}
	if raw := QueryString(r, "priority"); raw != nil {
		priority := domain.TaskPriority(*raw)
		opts.Priority = &priority
	}

	tasks, total, err := h.taskService.List(r.Context(), actor, opts)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	responses := make([]domain.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		resp, err := h.taskService.BuildResponse(r.Context(), task, false)
		if err != nil {
			h.RespondWithError(w, err)
			return
		}
		responses = append(responses, resp)
	}
	h.RespondWithPagination(w, responses, total, page, pageSize)
}
