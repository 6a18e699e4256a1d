package handlers

import (
	"net/http"

	"github.com/yourusername/project-hub/internal/domain"
	"github.com/yourusername/project-hub/internal/service"
	"github.com/yourusername/project-hub/pkg/logger"
)

// CommentHandler обрабатывает запросы комментариев к задачам
type CommentHandler struct {
	BaseHandler
	commentService *service.CommentService
}

// NewCommentHandler создает новый экземпляр CommentHandler
func NewCommentHandler(commentService *service.CommentService, log logger.Logger) *CommentHandler {
	return &CommentHandler{
		BaseHandler:    NewBaseHandler(log),
		commentService: commentService,
	}
}

// Create добавляет комментарий к задаче
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := h.Actor(r)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	var req domain.CommentCreateRequest
	if err := h.DecodeAndValidate(r, &req); err != nil {
		h.RespondWithError(w, err)
		return
	}

	comment, err := h.commentService.Create(r.Context(), actor, h.GetURLParam(r, "id"), req)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}
	h.RespondWithCreated(w, comment)
}

// ListByTask возвращает комментарии задачи
func (h *CommentHandler) ListByTask(w http.ResponseWriter, r *http.Request) {
	actor, err := h.Actor(r)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	comments, err := h.commentService.ListByTask(r.Context(), actor, h.GetURLParam(r, "id"))
	if err != nil {
		h.RespondWithError(w, err)
		return
	}
	h.RespondWithSuccess(w, comments)
}

// Delete удаляет комментарий
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := h.Actor(r)
	if err != nil {
		h.RespondWithError(w, err)
		return
	}

	if err := h.commentService.Delete(r.Context(), actor, h.GetURLParam(r, "commentID")); err != nil {
		h.RespondWithError(w, err)
		return
	}
	h.Respond(w, http.StatusNoContent, nil)
}
