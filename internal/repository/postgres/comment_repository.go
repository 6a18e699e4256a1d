package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/yourusername/project-hub/internal/domain"
	"github.com/yourusername/project-hub/pkg/database"
)

// CommentRepository реализует repository.CommentRepository поверх PostgreSQL
type CommentRepository struct {
	db *sqlx.DB
}

// NewCommentRepository создает репозиторий комментариев
func NewCommentRepository(db *sqlx.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create создает новый комментарий вместе с вложениями
func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	return database.ExecTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO comments (id, task_id, user_id, content, parent_id, created_at, updated_at)
			VALUES (:id, :task_id, :user_id, :content, :parent_id, :created_at, :updated_at)
		`
		if _, err := tx.NamedExecContext(ctx, query, comment); err != nil {
			return fmt.Errorf("insert comment: %w", err)
		}
		for _, url := range comment.Attachments {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO comment_attachments (comment_id, url) VALUES ($1, $2)`, comment.ID, url); err != nil {
				return fmt.Errorf("insert comment attachment: %w", err)
			}
		}
		return nil
	})
}

// GetByID возвращает комментарий по ID
func (r *CommentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	var comment domain.Comment
	query := `SELECT * FROM comments WHERE id = $1`
	if err := r.db.GetContext(ctx, &comment, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("comment", id)
		}
		return nil, fmt.Errorf("get comment by id: %w", err)
	}

	if err := r.loadAttachments(ctx, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByTask возвращает комментарии задачи в порядке создания
func (r *CommentRepository) ListByTask(ctx context.Context, taskID string) ([]*domain.Comment, error) {
	var comments []*domain.Comment
	query := `SELECT * FROM comments WHERE task_id = $1 ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &comments, query, taskID); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	for _, comment := range comments {
		if err := r.loadAttachments(ctx, comment); err != nil {
			return nil, err
		}
	}
	return comments, nil
}

// Delete удаляет комментарий по ID
func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return requireAffected(result, domain.NewNotFoundError("comment", id))
}

// DeleteByTask удаляет все комментарии задачи
func (r *CommentRepository) DeleteByTask(ctx context.Context, taskID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE task_id = $1`, taskID); err != nil {
		return fmt.Errorf("delete comments by task: %w", err)
	}
	return nil
}

func (r *CommentRepository) loadAttachments(ctx context.Context, comment *domain.Comment) error {
	query := `SELECT url FROM comment_attachments WHERE comment_id = $1 ORDER BY url`
	if err := r.db.SelectContext(ctx, &comment.Attachments, query, comment.ID); err != nil {
		return fmt.Errorf("load comment attachments: %w", err)
	}
	return nil
}
