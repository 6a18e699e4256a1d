package domain

import (
	"time"
)

// Comment представляет модель комментария к задаче
type Comment struct {
	ID          string    `json:"id" db:"id"`
	TaskID      string    `json:"task_id" db:"task_id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Content     string    `json:"content" db:"content"`
	ParentID    *string   `json:"parent_id,omitempty" db:"parent_id"`
	Attachments []string  `json:"attachments,omitempty" db:"-"` // Вложения хранятся в отдельной таблице
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// IsReply проверяет, является ли комментарий ответом на другой комментарий
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}

// CommentCreateRequest представляет данные для создания комментария
type CommentCreateRequest struct {
	Content     string   `json:"content" validate:"required,min=1"`
	ParentID    *string  `json:"parent_id,omitempty" validate:"omitempty,uuid"`
	Attachments []string `json:"attachments,omitempty"`
}

// CommentResponse представляет данные комментария для API-ответов
type CommentResponse struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"task_id"`
	UserID      string    `json:"user_id"`
	User        UserBrief `json:"user"`
	Content     string    `json:"content"`
	ParentID    *string   `json:"parent_id,omitempty"`
	Attachments []string  `json:"attachments,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToResponse преобразует Comment в CommentResponse
func (c *Comment) ToResponse(user UserBrief) CommentResponse {
	return CommentResponse{
		ID:          c.ID,
		TaskID:      c.TaskID,
		UserID:      c.UserID,
		User:        user,
		Content:     c.Content,
		ParentID:    c.ParentID,
		Attachments: c.Attachments,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
