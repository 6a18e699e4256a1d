package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/yourusername/project-hub/internal/domain"
)

// CommentRepository хранит комментарии в памяти
type CommentRepository struct {
	mu       sync.RWMutex
	comments map[string]*domain.Comment
}

// NewCommentRepository создает пустой репозиторий комментариев
func NewCommentRepository() *CommentRepository {
	return &CommentRepository{comments: make(map[string]*domain.Comment)}
}

// Create создает новый комментарий
func (r *CommentRepository) Create(_ context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *comment
	clone.Attachments = append([]string(nil), comment.Attachments...)
	r.comments[comment.ID] = &clone
	return nil
}

// GetByID возвращает комментарий по ID
func (r *CommentRepository) GetByID(_ context.Context, id string) (*domain.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comment, ok := r.comments[id]
	if !ok {
		return nil, domain.NewNotFoundError("comment", id)
	}
	clone := *comment
	return &clone, nil
}

// ListByTask возвращает комментарии задачи в порядке создания
func (r *CommentRepository) ListByTask(_ context.Context, taskID string) ([]*domain.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var comments []*domain.Comment
	for _, comment := range r.comments {
		if comment.TaskID == taskID {
			clone := *comment
			comments = append(comments, &clone)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

// Delete удаляет комментарий по ID
func (r *CommentRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.comments[id]; !ok {
		return domain.NewNotFoundError("comment", id)
	}
	delete(r.comments, id)
	return nil
}

// DeleteByTask удаляет все комментарии задачи
func (r *CommentRepository) DeleteByTask(_ context.Context, taskID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, comment := range r.comments {
		if comment.TaskID == taskID {
			delete(r.comments, id)
		}
	}
	return nil
}
