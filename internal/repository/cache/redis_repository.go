package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/project-hub/internal/domain"
	"github.com/yourusername/project-hub/pkg/cache"
)

const (
	taskKeyPrefix    = "task:"
	projectKeyPrefix = "project:"
	sprintKeyPrefix  = "sprint:"
	statsKeyPrefix   = "stats:"

	taskTTL    = 15 * time.Minute
	projectTTL = 30 * time.Minute
	sprintTTL  = 30 * time.Minute
	statsTTL   = 5 * time.Minute
)

// RedisRepository предоставляет кэширование доменных сущностей в Redis
type RedisRepository struct {
	client *cache.RedisClient
}

// NewRedisRepository создает новый репозиторий кэша
func NewRedisRepository(client *cache.RedisClient) *RedisRepository {
	return &RedisRepository{client: client}
}

// GetTask получает задачу из кэша
func (r *RedisRepository) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	var task domain.Task
	if err := r.client.Get(ctx, taskKeyPrefix+id, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// SetTask сохраняет задачу в кэш
func (r *RedisRepository) SetTask(ctx context.Context, task *domain.Task) error {
	return r.client.Set(ctx, taskKeyPrefix+task.ID, task, taskTTL)
}

// DeleteTask удаляет задачу из кэша
func (r *RedisRepository) DeleteTask(ctx context.Context, id string) error {
	return r.client.Delete(ctx, taskKeyPrefix+id)
}

// GetProject получает проект из кэша
func (r *RedisRepository) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	var project domain.Project
	if err := r.client.Get(ctx, projectKeyPrefix+id, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// SetProject сохраняет проект в кэш
func (r *RedisRepository) SetProject(ctx context.Context, project *domain.Project) error {
	return r.client.Set(ctx, projectKeyPrefix+project.ID, project, projectTTL)
}

// DeleteProject удаляет проект из кэша вместе с его статистикой
func (r *RedisRepository) DeleteProject(ctx context.Context, id string) error {
	return r.client.Delete(ctx,
		projectKeyPrefix+id,
		statsKeyPrefix+"project:"+id,
	)
}

// GetSprint получает спринт из кэша
func (r *RedisRepository) GetSprint(ctx context.Context, id string) (*domain.Sprint, error) {
	var sprint domain.Sprint
	if err := r.client.Get(ctx, sprintKeyPrefix+id, &sprint); err != nil {
		return nil, err
	}
	return &sprint, nil
}

// SetSprint сохраняет спринт в кэш
func (r *RedisRepository) SetSprint(ctx context.Context, sprint *domain.Sprint) error {
	return r.client.Set(ctx, sprintKeyPrefix+sprint.ID, sprint, sprintTTL)
}

// DeleteSprint удаляет спринт из кэша вместе с его статистикой
func (r *RedisRepository) DeleteSprint(ctx context.Context, id string) error {
	return r.client.Delete(ctx,
		sprintKeyPrefix+id,
		statsKeyPrefix+"sprint:"+id,
	)
}

// GetProjectStats получает статистику проекта из кэша
func (r *RedisRepository) GetProjectStats(ctx context.Context, projectID string) (*domain.ProjectStats, error) {
	var stats domain.ProjectStats
	if err := r.client.Get(ctx, statsKeyPrefix+"project:"+projectID, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// SetProjectStats сохраняет статистику проекта в кэш
func (r *RedisRepository) SetProjectStats(ctx context.Context, projectID string, stats *domain.ProjectStats) error {
	return r.client.Set(ctx, statsKeyPrefix+"project:"+projectID, stats, statsTTL)
}

// GetSprintStats получает статистику спринта из кэша
func (r *RedisRepository) GetSprintStats(ctx context.Context, sprintID string) (*domain.SprintStats, error) {
	var stats domain.SprintStats
	if err := r.client.Get(ctx, statsKeyPrefix+"sprint:"+sprintID, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// SetSprintStats сохраняет статистику спринта в кэш
func (r *RedisRepository) SetSprintStats(ctx context.Context, sprintID string, stats *domain.SprintStats) error {
	return r.client.Set(ctx, statsKeyPrefix+"sprint:"+sprintID, stats, statsTTL)
}

// InvalidateProjectStats сбрасывает кэш статистики по проекту и его спринтам
func (r *RedisRepository) InvalidateProjectStats(ctx context.Context, projectID string) error {
	if err := r.client.Delete(ctx, statsKeyPrefix+"project:"+projectID); err != nil {
		return fmt.Errorf("invalidate project stats: %w", err)
	}
	return r.client.DeleteByPattern(ctx, statsKeyPrefix+"sprint:*")
}
