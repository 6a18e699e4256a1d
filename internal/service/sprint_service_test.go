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

type sprintFixture struct {
	svc      *SprintService
	sprints  *inmemory.SprintRepository
	projects *inmemory.ProjectRepository
	tasks    *inmemory.TaskRepository
	project  *domain.Project
}

func newSprintFixture(t *testing.T) *sprintFixture {
	t.Helper()
	ctx := context.Background()

	sprints := inmemory.NewSprintRepository()
	projects := inmemory.NewProjectRepository()
	tasks := inmemory.NewTaskRepository()

	project := &domain.Project{
		ID:        uuid.New().String(),
		Title:     "Mobile app",
		Status:    domain.ProjectStatusActive,
		ManagerID: managerActor.ID,
	}
	require.NoError(t, projects.Create(ctx, project))
	require.NoError(t, projects.AddTeamMember(ctx, &domain.TeamMember{
		ProjectID: project.ID,
		UserID:    managerActor.ID,
		AddedBy:   managerActor.ID,
		AddedAt:   time.Now(),
	}))

	svc := NewSprintService(sprints, projects, tasks, nil, nil, logger.NewNop())

	return &sprintFixture{svc: svc, sprints: sprints, projects: projects, tasks: tasks, project: project}
}

func TestSprintServiceCreate(t *testing.T) {
	f := newSprintFixture(t)
	ctx := context.Background()

	t.Run("numbers are assigned sequentially", func(t *testing.T) {
		first, err := f.svc.Create(ctx, managerActor, domain.SprintCreateRequest{
			Title:     "Sprint one",
			ProjectID: f.project.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, first.SprintNumber)

		second, err := f.svc.Create(ctx, managerActor, domain.SprintCreateRequest{
			Title:     "Sprint two",
			ProjectID: f.project.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, second.SprintNumber)
	})

	t.Run("numbering is per project", func(t *testing.T) {
		other := &domain.Project{ID: uuid.New().String(), Title: "Other", ManagerID: managerActor.ID}
		require.NoError(t, f.projects.Create(ctx, other))

		sprint, err := f.svc.Create(ctx, managerActor, domain.SprintCreateRequest{
			Title:     "Fresh start",
			ProjectID: other.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, sprint.SprintNumber)
	})

	t.Run("end date must not precede start date", func(t *testing.T) {
		start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
		end := start.Add(-24 * time.Hour)

		_, err := f.svc.Create(ctx, managerActor, domain.SprintCreateRequest{
			Title:     "Backwards sprint",
			ProjectID: f.project.ID,
			StartDate: &start,
			EndDate:   &end,
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("member cannot create sprints", func(t *testing.T) {
		_, err := f.svc.Create(ctx, memberActor, domain.SprintCreateRequest{
			Title:     "Rogue sprint",
			ProjectID: f.project.ID,
		})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("unknown project", func(t *testing.T) {
		_, err := f.svc.Create(ctx, managerActor, domain.SprintCreateRequest{
			Title:     "Orphan sprint",
			ProjectID: uuid.New().String(),
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestSprintServiceUpdate(t *testing.T) {
	f := newSprintFixture(t)
	ctx := context.Background()

	sprint, err := f.svc.Create(ctx, managerActor, domain.SprintCreateRequest{
		Title:     "Sprint one",
		ProjectID: f.project.ID,
	})
	require.NoError(t, err)

	t.Run("number survives updates", func(t *testing.T) {
		title := "Sprint one, renamed"
		updated, err := f.svc.Update(ctx, managerActor, sprint.ID, domain.SprintUpdateRequest{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, sprint.SprintNumber, updated.SprintNumber)
		assert.Equal(t, title, updated.Title)
	})

	t.Run("merged dates are validated", func(t *testing.T) {
		start := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
		_, err := f.svc.Update(ctx, managerActor, sprint.ID, domain.SprintUpdateRequest{StartDate: &start})
		require.NoError(t, err)

		end := start.Add(-24 * time.Hour)
		_, err = f.svc.Update(ctx, managerActor, sprint.ID, domain.SprintUpdateRequest{EndDate: &end})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestSprintServiceDelete(t *testing.T) {
	f := newSprintFixture(t)
	ctx := context.Background()

	sprint, err := f.svc.Create(ctx, managerActor, domain.SprintCreateRequest{
		Title:     "Doomed sprint",
		ProjectID: f.project.ID,
	})
	require.NoError(t, err)

	task := &domain.Task{
		ID:        uuid.New().String(),
		Title:     "Orphaned task",
		ProjectID: f.project.ID,
		SprintID:  &sprint.ID,
		Status:    domain.TaskStatusTodo,
		Priority:  domain.TaskPriorityLow,
	}
	require.NoError(t, f.tasks.Create(ctx, task))

	require.NoError(t, f.svc.Delete(ctx, managerActor, sprint.ID))

	t.Run("sprint is gone", func(t *testing.T) {
		_, err := f.sprints.GetByID(ctx, sprint.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("tasks return to the backlog", func(t *testing.T) {
		stored, err := f.tasks.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Nil(t, stored.SprintID)
	})
}
