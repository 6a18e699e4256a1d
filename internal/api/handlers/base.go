package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yourusername/project-hub/internal/api/middleware"
	"github.com/yourusername/project-hub/internal/domain"
	apperrors "github.com/yourusername/project-hub/pkg/errors"
	"github.com/yourusername/project-hub/pkg/logger"
	"github.com/yourusername/project-hub/pkg/validator"
)

// StandardResponse представляет стандартную структуру ответа API
type StandardResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// ErrorResponse представляет структуру ответа с ошибкой
type ErrorResponse struct {
	Success      bool        `json:"success"`
	ErrorMessage string      `json:"error"`
	ErrorCode    string      `json:"error_code,omitempty"`
	Details      interface{} `json:"details,omitempty"`
}

// PaginationMeta представляет метаданные постраничной навигации
type PaginationMeta struct {
	TotalItems  int `json:"total_items"`
	TotalPages  int `json:"total_pages"`
	CurrentPage int `json:"current_page"`
	PageSize    int `json:"page_size"`
}

// BaseHandler содержит общие методы для всех обработчиков
type BaseHandler struct {
	Logger    logger.Logger
	Validator *validator.Validator
}

// NewBaseHandler создает новый экземпляр BaseHandler
func NewBaseHandler(log logger.Logger) BaseHandler {
	return BaseHandler{
		Logger:    log,
		Validator: validator.New(),
	}
}

// Respond отправляет ответ с указанным кодом статуса
func (h *BaseHandler) Respond(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			h.Logger.Error("encode response", err)
		}
	}
}

// RespondWithSuccess отправляет успешный ответ
func (h *BaseHandler) RespondWithSuccess(w http.ResponseWriter, data interface{}) {
	h.Respond(w, http.StatusOK, StandardResponse{Success: true, Data: data})
}

// RespondWithCreated отправляет ответ о созданном ресурсе
func (h *BaseHandler) RespondWithCreated(w http.ResponseWriter, data interface{}) {
	h.Respond(w, http.StatusCreated, StandardResponse{Success: true, Data: data})
}

// RespondWithError преобразует ошибку приложения в HTTP-ответ.
// Типизированные доменные ошибки несут код статуса и детали.
func (h *BaseHandler) RespondWithError(w http.ResponseWriter, err error) {
	appErr := apperrors.FromError(err)
	h.Respond(w, appErr.StatusCode, ErrorResponse{
		Success:      false,
		ErrorMessage: appErr.Message,
		ErrorCode:    appErr.Code,
		Details:      appErr.Data,
	})
}

// RespondWithPagination отправляет страницу данных с метаданными
func (h *BaseHandler) RespondWithPagination(w http.ResponseWriter, data interface{}, total, page, pageSize int) {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	h.Respond(w, http.StatusOK, StandardResponse{
		Success: true,
		Data:    data,
		Meta: PaginationMeta{
			TotalItems:  total,
			TotalPages:  totalPages,
			CurrentPage: page,
			PageSize:    pageSize,
		},
	})
}

// DecodeAndValidate разбирает JSON из тела запроса и валидирует его
func (h *BaseHandler) DecodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed JSON body", domain.ErrValidation)
	}
	return h.Validator.Validate(dst)
}

// GetPaginationParams извлекает параметры пагинации из запроса
func (h *BaseHandler) GetPaginationParams(r *http.Request) (int, int) {
	page := 1
	pageSize := 20

	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			pageSize = parsed
		}
	}
	return page, pageSize
}

// Actor возвращает актора текущего запроса
func (h *BaseHandler) Actor(r *http.Request) (domain.Actor, error) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		return domain.Actor{}, domain.ErrUnauthorized
	}
	return actor, nil
}

// GetURLParam извлекает параметр из URL
func (h *BaseHandler) GetURLParam(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// QueryString возвращает указатель на строковый query-параметр, если он задан
func QueryString(r *http.Request, key string) *string {
	if raw := r.URL.Query().Get(key); raw != "" {
		return &raw
	}
	return nil
}
