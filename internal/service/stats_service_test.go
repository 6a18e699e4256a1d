package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/project-hub/internal/domain"
	"github.com/yourusername/project-hub/internal/repository/inmemory"
	"github.com/yourusername/project-hub/pkg/logger"
)

type statsFixture struct {
	svc      *StatsService
	tasks    *inmemory.TaskRepository
	projects *inmemory.ProjectRepository
	sprints  *inmemory.SprintRepository
	project  *domain.Project
	sprint   *domain.Sprint
	now      time.Time
}

func newStatsFixture(t *testing.T) *statsFixture {
	t.Helper()
	ctx := context.Background()

	tasks := inmemory.NewTaskRepository()
	projects := inmemory.NewProjectRepository()
	sprints := inmemory.NewSprintRepository()

	project := &domain.Project{
		ID:        uuid.New().String(),
		Title:     "Analytics",
		Status:    domain.ProjectStatusActive,
		ManagerID: managerActor.ID,
	}
	require.NoError(t, projects.Create(ctx, project))
	for _, userID := range []string{managerActor.ID, memberActor.ID} {
		require.NoError(t, projects.AddTeamMember(ctx, &domain.TeamMember{
			ProjectID: project.ID,
			UserID:    userID,
			AddedBy:   managerActor.ID,
			AddedAt:   time.Now(),
		}))
	}

	now := time.Date(2026, 3, 12, 12, 0, 0, 0, time.UTC)
	start := now.Add(-48 * time.Hour)
	sprint := &domain.Sprint{
		ID:        uuid.New().String(),
		Title:     "Sprint one",
		ProjectID: project.ID,
		StartDate: &start,
	}
	require.NoError(t, sprints.Create(ctx, sprint))

	svc := NewStatsService(tasks, projects, sprints, nil, logger.NewNop())
	svc.now = func() time.Time { return now }

	return &statsFixture{svc: svc, tasks: tasks, projects: projects, sprints: sprints, project: project, sprint: sprint, now: now}
}

func (f *statsFixture) addTask(t *testing.T, status domain.TaskStatus, assignees ...string) *domain.Task {
	t.Helper()
	task := &domain.Task{
		ID:        uuid.New().String(),
		Title:     "Task " + uuid.New().String()[:8],
		ProjectID: f.project.ID,
		SprintID:  &f.sprint.ID,
		Status:    status,
		Priority:  domain.TaskPriorityMedium,
		Assignees: assignees,
	}
	require.NoError(t, f.tasks.Create(context.Background(), task))
	return task
}

func TestStatsServiceProjectStats(t *testing.T) {
	f := newStatsFixture(t)
	ctx := context.Background()

	f.addTask(t, domain.TaskStatusDone)
	f.addTask(t, domain.TaskStatusDone)
	f.addTask(t, domain.TaskStatusInProgress)
	f.addTask(t, domain.TaskStatusTodo)

	stats, err := f.svc.ComputeProjectStats(ctx, managerActor, f.project.ID)
	require.NoError(t, err)

	assert.Equal(t, f.project.ID, stats.ProjectID)
	assert.Equal(t, 4, stats.TotalTasks)
	assert.Equal(t, 2, stats.CompletedTasks)
	assert.Equal(t, 50, stats.Progress)
}

func TestStatsServiceProjectStatsAccess(t *testing.T) {
	f := newStatsFixture(t)
	ctx := context.Background()

	t.Run("team member allowed", func(t *testing.T) {
		_, err := f.svc.ComputeProjectStats(ctx, memberActor, f.project.ID)
		assert.NoError(t, err)
	})

	t.Run("outsider member denied", func(t *testing.T) {
		stranger := domain.Actor{ID: uuid.New().String(), Role: domain.UserRoleMember}
		_, err := f.svc.ComputeProjectStats(ctx, stranger, f.project.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestStatsServiceSprintStats(t *testing.T) {
	f := newStatsFixture(t)
	ctx := context.Background()

	// Спринт начался двое суток назад: три завершенные задачи дают
	// скорость 1.5 задачи в день, одна оставшаяся - прогноз 2/3 дня
	f.addTask(t, domain.TaskStatusDone)
	f.addTask(t, domain.TaskStatusDone)
	f.addTask(t, domain.TaskStatusDone)
	f.addTask(t, domain.TaskStatusInProgress)

	stats, err := f.svc.ComputeSprintStats(ctx, managerActor, f.sprint.ID)
	require.NoError(t, err)

	assert.Equal(t, f.sprint.ID, stats.SprintID)
	assert.Equal(t, 4, stats.TotalTasks)
	assert.InDelta(t, 1.5, stats.Velocity, 0.001)
	assert.InDelta(t, 1.0/1.5, stats.ProjectedCompletionDays, 0.001)
}

func TestStatsServiceDashboard(t *testing.T) {
	f := newStatsFixture(t)
	ctx := context.Background()

	f.addTask(t, domain.TaskStatusDone, memberActor.ID)
	f.addTask(t, domain.TaskStatusTodo, memberActor.ID)
	f.addTask(t, domain.TaskStatusTodo) // не назначена на участника

	t.Run("manager sees the whole system", func(t *testing.T) {
		stats, err := f.svc.ComputeDashboardStats(ctx, managerActor)
		require.NoError(t, err)
		assert.Equal(t, 3, stats.TotalTasks)
		assert.Equal(t, 1, stats.ProjectCount)
		assert.Equal(t, 1, stats.SprintCount)
	})

	t.Run("member scoped to own tasks", func(t *testing.T) {
		stats, err := f.svc.ComputeDashboardStats(ctx, memberActor)
		require.NoError(t, err)
		assert.Equal(t, 2, stats.TotalTasks)
		assert.Equal(t, 1, stats.CompletedTasks)
		assert.Equal(t, 1, stats.ProjectCount)
	})
}
