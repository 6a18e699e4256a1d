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

// taskFixture собирает сервис задач на репозиториях в памяти
// с проектом, спринтом и командой из менеджера и участника
type taskFixture struct {
	svc      *TaskService
	tasks    *inmemory.TaskRepository
	projects *inmemory.ProjectRepository
	sprints  *inmemory.SprintRepository
	comments *inmemory.CommentRepository
	users    *inmemory.UserRepository
	project  *domain.Project
	sprint   *domain.Sprint
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()
	ctx := context.Background()

	tasks := inmemory.NewTaskRepository()
	projects := inmemory.NewProjectRepository()
	sprints := inmemory.NewSprintRepository()
	comments := inmemory.NewCommentRepository()
	users := inmemory.NewUserRepository()

	for _, u := range []*domain.User{
		{ID: managerActor.ID, Name: "Manager", Email: "manager@example.com", Role: domain.UserRoleManager, IsActive: true},
		{ID: memberActor.ID, Name: "Member", Email: "member@example.com", Role: domain.UserRoleMember, IsActive: true},
	} {
		require.NoError(t, users.Create(ctx, u))
	}

	project := &domain.Project{
		ID:        uuid.New().String(),
		Title:     "Website redesign",
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
	project.Team = []string{managerActor.ID, memberActor.ID}

	sprint := &domain.Sprint{
		ID:        uuid.New().String(),
		Title:     "Sprint one",
		ProjectID: project.ID,
	}
	require.NoError(t, sprints.Create(ctx, sprint))

	svc := NewTaskService(tasks, projects, sprints, comments, users, nil, nil, logger.NewNop())

	return &taskFixture{
		svc:      svc,
		tasks:    tasks,
		projects: projects,
		sprints:  sprints,
		comments: comments,
		users:    users,
		project:  project,
		sprint:   sprint,
	}
}

func (f *taskFixture) createTask(t *testing.T, assignees ...string) *domain.Task {
	t.Helper()
	task, err := f.svc.Create(context.Background(), managerActor, domain.TaskCreateRequest{
		Title:     "Implement login page",
		ProjectID: f.project.ID,
		SprintID:  f.sprint.ID,
		Priority:  domain.TaskPriorityMedium,
		Assignees: assignees,
	})
	require.NoError(t, err)
	return task
}

func TestTaskServiceCreate(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	t.Run("requested status is ignored", func(t *testing.T) {
		task, err := f.svc.Create(ctx, managerActor, domain.TaskCreateRequest{
			Title:     "Set up CI",
			ProjectID: f.project.ID,
			SprintID:  f.sprint.ID,
			Status:    domain.TaskStatusDone,
			Priority:  domain.TaskPriorityHigh,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusTodo, task.Status)
		assert.Nil(t, task.CompletedAt)
	})

	t.Run("team member creates a task", func(t *testing.T) {
		task, err := f.svc.Create(ctx, memberActor, domain.TaskCreateRequest{
			Title:     "Fix typo",
			ProjectID: f.project.ID,
			SprintID:  f.sprint.ID,
			Priority:  domain.TaskPriorityLow,
		})
		require.NoError(t, err)
		assert.Equal(t, memberActor.ID, task.CreatedBy)
	})

	t.Run("outsider member denied", func(t *testing.T) {
		stranger := domain.Actor{ID: uuid.New().String(), Role: domain.UserRoleMember}
		_, err := f.svc.Create(ctx, stranger, domain.TaskCreateRequest{
			Title:     "Sneaky task",
			ProjectID: f.project.ID,
			SprintID:  f.sprint.ID,
			Priority:  domain.TaskPriorityLow,
		})

		var forbidden *domain.ForbiddenError
		require.ErrorAs(t, err, &forbidden)
		assert.Equal(t, domain.DenyReasonNotTeamMember, forbidden.Reason)
	})

	t.Run("sprint must belong to the project", func(t *testing.T) {
		otherProject := &domain.Project{ID: uuid.New().String(), Title: "Other", ManagerID: managerActor.ID}
		require.NoError(t, f.projects.Create(ctx, otherProject))
		otherSprint := &domain.Sprint{ID: uuid.New().String(), Title: "Foreign sprint", ProjectID: otherProject.ID}
		require.NoError(t, f.sprints.Create(ctx, otherSprint))

		_, err := f.svc.Create(ctx, managerActor, domain.TaskCreateRequest{
			Title:     "Misplaced task",
			ProjectID: f.project.ID,
			SprintID:  otherSprint.ID,
			Priority:  domain.TaskPriorityLow,
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("unknown project", func(t *testing.T) {
		_, err := f.svc.Create(ctx, managerActor, domain.TaskCreateRequest{
			Title:     "Orphan task",
			ProjectID: uuid.New().String(),
			SprintID:  f.sprint.ID,
			Priority:  domain.TaskPriorityLow,
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestTaskServiceTransitionStatus(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	t.Run("assignee member walks the lifecycle", func(t *testing.T) {
		task := f.createTask(t, memberActor.ID)

		task, err := f.svc.TransitionStatus(ctx, memberActor, task.ID, domain.TaskStatusInProgress)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusInProgress, task.Status)
		assert.Nil(t, task.CompletedAt)

		task, err = f.svc.TransitionStatus(ctx, memberActor, task.ID, domain.TaskStatusReview)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusReview, task.Status)
		assert.NotNil(t, task.CompletedAt)
	})

	t.Run("member cannot complete", func(t *testing.T) {
		task := f.createTask(t, memberActor.ID)
		_, err := f.svc.TransitionStatus(ctx, memberActor, task.ID, domain.TaskStatusInProgress)
		require.NoError(t, err)
		_, err = f.svc.TransitionStatus(ctx, memberActor, task.ID, domain.TaskStatusReview)
		require.NoError(t, err)

		_, err = f.svc.TransitionStatus(ctx, memberActor, task.ID, domain.TaskStatusDone)

		var forbidden *domain.ForbiddenTransitionError
		require.ErrorAs(t, err, &forbidden)

		stored, err := f.tasks.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusReview, stored.Status)
	})

	t.Run("manager completes from review", func(t *testing.T) {
		task := f.createTask(t, memberActor.ID)
		_, err := f.svc.TransitionStatus(ctx, managerActor, task.ID, domain.TaskStatusInProgress)
		require.NoError(t, err)
		_, err = f.svc.TransitionStatus(ctx, managerActor, task.ID, domain.TaskStatusReview)
		require.NoError(t, err)

		task, err = f.svc.TransitionStatus(ctx, managerActor, task.ID, domain.TaskStatusDone)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusDone, task.Status)
		assert.NotNil(t, task.CompletedAt)
	})

	t.Run("skipping a step is rejected", func(t *testing.T) {
		task := f.createTask(t, memberActor.ID)
		_, err := f.svc.TransitionStatus(ctx, managerActor, task.ID, domain.TaskStatusDone)

		var invalid *domain.InvalidTransitionError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, domain.TaskStatusTodo, invalid.From)
		assert.Equal(t, domain.TaskStatusDone, invalid.To)
	})

	t.Run("regress keeps completed_at", func(t *testing.T) {
		task := f.createTask(t, memberActor.ID)
		_, err := f.svc.TransitionStatus(ctx, managerActor, task.ID, domain.TaskStatusInProgress)
		require.NoError(t, err)
		reviewed, err := f.svc.TransitionStatus(ctx, managerActor, task.ID, domain.TaskStatusReview)
		require.NoError(t, err)
		require.NotNil(t, reviewed.CompletedAt)

		task, err = f.svc.TransitionStatus(ctx, managerActor, task.ID, domain.TaskStatusInProgress)
		require.NoError(t, err)
		require.NotNil(t, task.CompletedAt)
		assert.Equal(t, *reviewed.CompletedAt, *task.CompletedAt)

		stored, err := f.tasks.GetByID(ctx, task.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.CompletedAt)
		assert.Equal(t, *reviewed.CompletedAt, *stored.CompletedAt)
	})

	t.Run("non-assignee member denied", func(t *testing.T) {
		task := f.createTask(t) // без исполнителей
		_, err := f.svc.TransitionStatus(ctx, memberActor, task.ID, domain.TaskStatusInProgress)

		var forbidden *domain.ForbiddenError
		require.ErrorAs(t, err, &forbidden)
		assert.Equal(t, domain.DenyReasonNotAssignee, forbidden.Reason)
	})

	t.Run("concurrent change surfaces as conflict", func(t *testing.T) {
		task := f.createTask(t, memberActor.ID)
		stale, err := f.tasks.GetByID(ctx, task.ID)
		require.NoError(t, err)

		// Статус меняется из-под актора между чтением и записью
		ok, err := f.tasks.UpdateStatusIf(ctx, task.ID, domain.TaskStatusTodo, domain.TaskStatusInProgress, nil)
		require.NoError(t, err)
		require.True(t, ok)

		err = f.svc.transition(ctx, managerActor, stale, domain.TaskStatusInProgress, time.Now())
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}

func TestTaskServiceUpdate(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	t.Run("member updates allowed fields", func(t *testing.T) {
		task := f.createTask(t, memberActor.ID)
		hours := 3.5
		status := domain.TaskStatusInProgress

		updated, err := f.svc.Update(ctx, memberActor, task.ID, domain.TaskUpdateRequest{
			Status:      &status,
			ActualHours: &hours,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusInProgress, updated.Status)
		assert.Equal(t, 3.5, updated.ActualHours)
	})

	t.Run("one forbidden field rejects the whole request", func(t *testing.T) {
		task := f.createTask(t, memberActor.ID)
		status := domain.TaskStatusInProgress
		title := "Renamed by member"

		_, err := f.svc.Update(ctx, memberActor, task.ID, domain.TaskUpdateRequest{
			Status: &status,
			Title:  &title,
		})

		var fieldErr *domain.ForbiddenFieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, []string{"title"}, fieldErr.Fields)

		// Ни одно поле не применено
		stored, err := f.tasks.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusTodo, stored.Status)
		assert.Equal(t, task.Title, stored.Title)
	})

	t.Run("status equal to current is not a transition", func(t *testing.T) {
		task := f.createTask(t, memberActor.ID)
		status := domain.TaskStatusTodo
		title := "Renamed by manager"

		updated, err := f.svc.Update(ctx, managerActor, task.ID, domain.TaskUpdateRequest{
			Status: &status,
			Title:  &title,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusTodo, updated.Status)
		assert.Equal(t, title, updated.Title)
	})

	t.Run("status change via update follows the lifecycle", func(t *testing.T) {
		task := f.createTask(t, memberActor.ID)
		status := domain.TaskStatusDone

		_, err := f.svc.Update(ctx, managerActor, task.ID, domain.TaskUpdateRequest{Status: &status})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("rejected sprint change persists nothing", func(t *testing.T) {
		otherProject := &domain.Project{ID: uuid.New().String(), Title: "Other", ManagerID: managerActor.ID}
		require.NoError(t, f.projects.Create(ctx, otherProject))
		foreignSprint := &domain.Sprint{ID: uuid.New().String(), Title: "Foreign", ProjectID: otherProject.ID}
		require.NoError(t, f.sprints.Create(ctx, foreignSprint))

		task := f.createTask(t, memberActor.ID)
		status := domain.TaskStatusInProgress

		_, err := f.svc.Update(ctx, managerActor, task.ID, domain.TaskUpdateRequest{
			Status:   &status,
			SprintID: &foreignSprint.ID,
		})
		require.ErrorIs(t, err, domain.ErrValidation)

		// Отклоненный запрос не оставляет частичных изменений
		stored, err := f.tasks.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusTodo, stored.Status)
		require.NotNil(t, stored.SprintID)
		assert.Equal(t, f.sprint.ID, *stored.SprintID)
	})

	t.Run("manager replaces assignees", func(t *testing.T) {
		task := f.createTask(t, memberActor.ID)
		assignees := []string{managerActor.ID}

		updated, err := f.svc.Update(ctx, managerActor, task.ID, domain.TaskUpdateRequest{Assignees: &assignees})
		require.NoError(t, err)
		assert.Equal(t, assignees, updated.Assignees)

		stored, err := f.tasks.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, assignees, stored.Assignees)
	})
}

func TestTaskServiceLogTime(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	t.Run("accumulates actual hours", func(t *testing.T) {
		task := f.createTask(t, memberActor.ID)

		_, err := f.svc.LogTime(ctx, memberActor, task.ID, domain.LogTimeRequest{Hours: 2, Description: "layout"})
		require.NoError(t, err)
		updated, err := f.svc.LogTime(ctx, memberActor, task.ID, domain.LogTimeRequest{Hours: 1.5})
		require.NoError(t, err)

		assert.Equal(t, 3.5, updated.ActualHours)

		logs, err := f.svc.GetTimeLogs(ctx, memberActor, task.ID)
		require.NoError(t, err)
		require.Len(t, logs, 2)
		assert.Equal(t, memberActor.ID, logs[0].UserID)
	})

	t.Run("non-assignee member denied", func(t *testing.T) {
		task := f.createTask(t)
		_, err := f.svc.LogTime(ctx, memberActor, task.ID, domain.LogTimeRequest{Hours: 1})

		var forbidden *domain.ForbiddenError
		require.ErrorAs(t, err, &forbidden)
		assert.Equal(t, domain.DenyReasonNotAssignee, forbidden.Reason)
	})

	t.Run("non-positive hours rejected", func(t *testing.T) {
		task := f.createTask(t, memberActor.ID)

		_, err := f.svc.LogTime(ctx, memberActor, task.ID, domain.LogTimeRequest{Hours: 0})
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = f.svc.LogTime(ctx, memberActor, task.ID, domain.LogTimeRequest{Hours: -2})
		assert.ErrorIs(t, err, domain.ErrValidation)

		stored, err := f.tasks.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, 0.0, stored.ActualHours)

		logs, err := f.svc.GetTimeLogs(ctx, memberActor, task.ID)
		require.NoError(t, err)
		assert.Empty(t, logs)
	})
}

func TestTaskServiceViewScoping(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	assigned := f.createTask(t, memberActor.ID)
	unassigned := f.createTask(t)

	t.Run("member sees own task", func(t *testing.T) {
		task, err := f.svc.GetByID(ctx, memberActor, assigned.ID)
		require.NoError(t, err)
		assert.Equal(t, assigned.ID, task.ID)
	})

	t.Run("member denied on foreign task", func(t *testing.T) {
		_, err := f.svc.GetByID(ctx, memberActor, unassigned.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("list scoped to assignee for member", func(t *testing.T) {
		tasks, total, err := f.svc.List(ctx, memberActor, domain.TaskFilterOptions{})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, tasks, 1)
		assert.Equal(t, assigned.ID, tasks[0].ID)
	})

	t.Run("manager sees everything", func(t *testing.T) {
		_, total, err := f.svc.List(ctx, managerActor, domain.TaskFilterOptions{})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
	})
}

func TestTaskServiceDelete(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	task := f.createTask(t, memberActor.ID)
	require.NoError(t, f.comments.Create(ctx, &domain.Comment{
		ID:      uuid.New().String(),
		TaskID:  task.ID,
		UserID:  memberActor.ID,
		Content: "looks good",
	}))

	t.Run("member cannot delete", func(t *testing.T) {
		err := f.svc.Delete(ctx, memberActor, task.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("manager deletes task with comments", func(t *testing.T) {
		require.NoError(t, f.svc.Delete(ctx, managerActor, task.ID))

		_, err := f.tasks.GetByID(ctx, task.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		comments, err := f.comments.ListByTask(ctx, task.ID)
		require.NoError(t, err)
		assert.Empty(t, comments)
	})
}

func TestTaskServiceBuildResponse(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	task := f.createTask(t, memberActor.ID)
	require.NoError(t, f.comments.Create(ctx, &domain.Comment{
		ID:      uuid.New().String(),
		TaskID:  task.ID,
		UserID:  memberActor.ID,
		Content: "first",
	}))

	resp, err := f.svc.BuildResponse(ctx, task, true)
	require.NoError(t, err)

	require.Len(t, resp.Assignees, 1)
	assert.Equal(t, memberActor.ID, resp.Assignees[0].ID)
	require.NotNil(t, resp.Creator)
	assert.Equal(t, managerActor.ID, resp.Creator.ID)
	require.Len(t, resp.Comments, 1)
	assert.Equal(t, "first", resp.Comments[0].Content)
}
