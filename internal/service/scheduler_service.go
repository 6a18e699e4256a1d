package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/yourusername/project-hub/internal/domain"
	"github.com/yourusername/project-hub/internal/repository"
	"github.com/yourusername/project-hub/pkg/config"
	"github.com/yourusername/project-hub/pkg/logger"
)

// SchedulerService выполняет периодические задачи по расписанию:
// поиск просроченных задач и рассылку ежедневных сводок
type SchedulerService struct {
	taskRepo      repository.TaskRepository
	userRepo      repository.UserRepository
	notifications *NotificationService
	cron          *cron.Cron
	config        *config.SchedulerConfig
	logger        logger.Logger

	mu       sync.Mutex
	notified map[string]bool // задачи, о просрочке которых уже уведомляли
}

// NewSchedulerService создает новый сервис планировщика
func NewSchedulerService(
	taskRepo repository.TaskRepository,
	userRepo repository.UserRepository,
	notifications *NotificationService,
	cfg *config.SchedulerConfig,
	log logger.Logger,
) *SchedulerService {
	return &SchedulerService{
		taskRepo:      taskRepo,
		userRepo:      userRepo,
		notifications: notifications,
		cron:          cron.New(),
		config:        cfg,
		logger:        log,
		notified:      make(map[string]bool),
	}
}

// Start регистрирует задачи и запускает планировщик.
// Планировщик останавливается при отмене контекста.
func (s *SchedulerService) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.config.OverdueScanCron, func() { s.scanOverdueTasks(ctx) }); err != nil {
		return fmt.Errorf("schedule overdue scan: %w", err)
	}

	if _, err := s.cron.AddFunc(s.config.DailyDigestCron, func() { s.sendDailyDigests(ctx) }); err != nil {
		return fmt.Errorf("schedule daily digest: %w", err)
	}

	s.logger.Info("Starting scheduler", map[string]interface{}{
		"overdue_scan_cron": s.config.OverdueScanCron,
		"daily_digest_cron": s.config.DailyDigestCron,
	})
	s.cron.Start()

	go func() {
		<-ctx.Done()
		s.logger.Info("Stopping scheduler")
		s.cron.Stop()
	}()

	return nil
}

// scanOverdueTasks уведомляет исполнителей просроченных задач.
// Повторные уведомления об одной задаче в рамках процесса не отправляются.
func (s *SchedulerService) scanOverdueTasks(ctx context.Context) {
	s.logger.Info("Running overdue tasks scan")

	tasks, err := s.taskRepo.GetOverdueTasks(ctx, time.Now())
	if err != nil {
		s.logger.Error("Failed to get overdue tasks", err)
		return
	}

	notifiedCount := 0
	for _, task := range tasks {
		s.mu.Lock()
		seen := s.notified[task.ID]
		s.mu.Unlock()
		if seen {
			continue
		}

		if err := s.notifications.NotifyTaskDue(ctx, task); err != nil {
			s.logger.Error("Failed to notify about overdue task", err, map[string]interface{}{
				"task_id": task.ID,
			})
			continue
		}

		s.mu.Lock()
		s.notified[task.ID] = true
		s.mu.Unlock()
		notifiedCount++
	}

	s.logger.Info("Overdue tasks scan completed", map[string]interface{}{
		"overdue":  len(tasks),
		"notified": notifiedCount,
	})
}

// sendDailyDigests отправляет каждому активному пользователю сводку его задач
func (s *SchedulerService) sendDailyDigests(ctx context.Context) {
	s.logger.Info("Running daily digest")

	isActive := true
	users, err := s.userRepo.List(ctx, repository.UserFilter{IsActive: &isActive})
	if err != nil {
		s.logger.Error("Failed to get users for daily digest", err)
		return
	}

	sent := 0
	for _, user := range users {
		tasks, err := s.taskRepo.List(ctx, repository.TaskFilter{AssigneeID: &user.ID})
		if err != nil {
			s.logger.Error("Failed to get tasks for daily digest", err, map[string]interface{}{
				"user_id": user.ID,
			})
			continue
		}

		content := formatDailyDigest(tasks, time.Now())
		if content == "" {
			continue
		}

		if err := s.notifications.NotifyDigest(ctx, user.ID, content); err != nil {
			s.logger.Error("Failed to send daily digest", err, map[string]interface{}{
				"user_id": user.ID,
			})
			continue
		}
		sent++
	}

	s.logger.Info("Daily digest completed", map[string]interface{}{
		"users": len(users),
		"sent":  sent,
	})
}

// formatDailyDigest строит текст сводки. Возвращает пустую строку,
// если у пользователя нет незавершенных задач.
func formatDailyDigest(tasks []*domain.Task, now time.Time) string {
	var open, inProgress, overdue int
	for _, task := range tasks {
		if task.Status == domain.TaskStatusDone {
			continue
		}
		open++
		if task.Status == domain.TaskStatusInProgress {
			inProgress++
		}
		if task.IsOverdue(now) {
			overdue++
		}
	}

	if open == 0 {
		return ""
	}

	return fmt.Sprintf("You have %d open tasks: %d in progress, %d overdue", open, inProgress, overdue)
}
