package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/project-hub/internal/domain"
	"github.com/yourusername/project-hub/internal/messaging"
	"github.com/yourusername/project-hub/internal/repository"
	"github.com/yourusername/project-hub/pkg/logger"
)

// CommentService инкапсулирует бизнес-логику комментариев к задачам
type CommentService struct {
	repo       repository.CommentRepository
	taskRepo   repository.TaskRepository
	userRepo   repository.UserRepository
	authorizer *Authorizer
	producer   EventPublisher
	logger     logger.Logger
}

// NewCommentService создает сервис комментариев
func NewCommentService(
	repo repository.CommentRepository,
	taskRepo repository.TaskRepository,
	userRepo repository.UserRepository,
	producer EventPublisher,
	log logger.Logger,
) *CommentService {
	return &CommentService{
		repo:       repo,
		taskRepo:   taskRepo,
		userRepo:   userRepo,
		authorizer: NewAuthorizer(),
		producer:   producer,
		logger:     log,
	}
}

// Create добавляет комментарий к задаче. Комментировать может
// любой, кто видит задачу.
func (s *CommentService) Create(ctx context.Context, actor domain.Actor, taskID string, req domain.CommentCreateRequest) (*domain.Comment, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if d := s.authorizer.CanViewTask(actor, task); !d.Allowed {
		return nil, d.Err()
	}

	if req.ParentID != nil {
		parent, err := s.repo.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.TaskID != taskID {
			return nil, fmt.Errorf("%w: parent comment belongs to another task", domain.ErrValidation)
		}
	}

	now := time.Now()
	comment := &domain.Comment{
		ID:          uuid.New().String(),
		TaskID:      taskID,
		UserID:      actor.ID,
		Content:     req.Content,
		ParentID:    req.ParentID,
		Attachments: req.Attachments,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	if s.producer != nil {
		event := &messaging.CommentEvent{
			CommentID: comment.ID,
			TaskID:    taskID,
			TaskTitle: task.Title,
			UserID:    actor.ID,
			Content:   comment.Content,
			CreatedAt: now,
		}
		if err := s.producer.PublishCommentEvent(ctx, messaging.EventTypeCommentAdded, event); err != nil {
			s.logger.Error("publish comment event", err, "comment_id", comment.ID)
		}
	}

	s.logger.Info("comment added", "comment_id", comment.ID, "task_id", taskID, "actor_id", actor.ID)
	return comment, nil
}

// ListByTask возвращает комментарии задачи с карточками авторов
func (s *CommentService) ListByTask(ctx context.Context, actor domain.Actor, taskID string) ([]domain.CommentResponse, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if d := s.authorizer.CanViewTask(actor, task); !d.Allowed {
		return nil, d.Err()
	}

	comments, err := s.repo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	responses := make([]domain.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		var brief domain.UserBrief
		if author, err := s.userRepo.GetByID(ctx, comment.UserID); err == nil {
			brief = author.ToBrief()
		}
		responses = append(responses, comment.ToResponse(brief))
	}
	return responses, nil
}

// Delete удаляет комментарий. Удалять может автор или роль не ниже менеджера.
func (s *CommentService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	comment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.IsManagerOrAbove() && comment.UserID != actor.ID {
		return domain.NewForbiddenError(domain.DenyReasonRoleRestricted)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	s.logger.Info("comment deleted", "comment_id", id, "actor_id", actor.ID)
	return nil
}
