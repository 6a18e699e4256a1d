package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/project-hub/internal/domain"
	"github.com/yourusername/project-hub/internal/repository/inmemory"
	"github.com/yourusername/project-hub/pkg/logger"
)

type projectFixture struct {
	svc      *ProjectService
	projects *inmemory.ProjectRepository
	users    *inmemory.UserRepository
	manager  *domain.User
	member   *domain.User
}

func newProjectFixture(t *testing.T) *projectFixture {
	t.Helper()
	ctx := context.Background()

	projects := inmemory.NewProjectRepository()
	users := inmemory.NewUserRepository()
	tasks := inmemory.NewTaskRepository()
	sprints := inmemory.NewSprintRepository()

	manager := &domain.User{ID: managerActor.ID, Name: "Manager", Email: "manager@example.com", Role: domain.UserRoleManager, IsActive: true}
	member := &domain.User{ID: memberActor.ID, Name: "Member", Email: "member@example.com", Role: domain.UserRoleMember, IsActive: true}
	require.NoError(t, users.Create(ctx, manager))
	require.NoError(t, users.Create(ctx, member))

	svc := NewProjectService(projects, users, tasks, sprints, nil, nil, logger.NewNop())

	return &projectFixture{svc: svc, projects: projects, users: users, manager: manager, member: member}
}

func (f *projectFixture) createProject(t *testing.T, team ...string) *domain.Project {
	t.Helper()
	project, err := f.svc.Create(context.Background(), managerActor, domain.ProjectCreateRequest{
		Title:     "CRM rollout",
		Client:    "Acme",
		ManagerID: f.manager.ID,
		Team:      team,
	})
	require.NoError(t, err)
	return project
}

func TestProjectServiceCreate(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()

	t.Run("manager always joins the team", func(t *testing.T) {
		project := f.createProject(t)
		assert.Contains(t, project.Team, f.manager.ID)
		assert.Equal(t, domain.ProjectStatusPlanned, project.Status)

		stored, err := f.projects.GetByID(ctx, project.ID)
		require.NoError(t, err)
		assert.Contains(t, stored.Team, f.manager.ID)
	})

	t.Run("requested team is added", func(t *testing.T) {
		project := f.createProject(t, f.member.ID)
		assert.ElementsMatch(t, []string{f.manager.ID, f.member.ID}, project.Team)
	})

	t.Run("member role cannot manage projects", func(t *testing.T) {
		_, err := f.svc.Create(ctx, memberActor, domain.ProjectCreateRequest{
			Title:     "Side project",
			Client:    "Acme",
			ManagerID: f.manager.ID,
		})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("member role cannot be project manager", func(t *testing.T) {
		_, err := f.svc.Create(ctx, managerActor, domain.ProjectCreateRequest{
			Title:     "Misassigned",
			Client:    "Acme",
			ManagerID: f.member.ID,
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestProjectServiceTeam(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()

	t.Run("add and remove member", func(t *testing.T) {
		project := f.createProject(t)

		require.NoError(t, f.svc.AddTeamMember(ctx, managerActor, project.ID, f.member.ID))
		stored, err := f.projects.GetByID(ctx, project.ID)
		require.NoError(t, err)
		assert.Contains(t, stored.Team, f.member.ID)

		require.NoError(t, f.svc.RemoveTeamMember(ctx, managerActor, project.ID, f.member.ID))
		stored, err = f.projects.GetByID(ctx, project.ID)
		require.NoError(t, err)
		assert.NotContains(t, stored.Team, f.member.ID)
	})

	t.Run("inactive user cannot join", func(t *testing.T) {
		project := f.createProject(t)
		inactive := &domain.User{ID: uuid.New().String(), Name: "Gone", Email: "gone@example.com", Role: domain.UserRoleMember}
		require.NoError(t, f.users.Create(ctx, inactive))

		err := f.svc.AddTeamMember(ctx, managerActor, project.ID, inactive.ID)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("project manager cannot be removed", func(t *testing.T) {
		project := f.createProject(t)
		err := f.svc.RemoveTeamMember(ctx, adminActor, project.ID, f.manager.ID)
		assert.ErrorIs(t, err, domain.ErrInvariantViolation)

		stored, err := f.projects.GetByID(ctx, project.ID)
		require.NoError(t, err)
		assert.Contains(t, stored.Team, f.manager.ID)
	})

	t.Run("team listing with briefs", func(t *testing.T) {
		project := f.createProject(t, f.member.ID)
		briefs, err := f.svc.GetTeam(ctx, managerActor, project.ID)
		require.NoError(t, err)
		require.Len(t, briefs, 2)
	})
}

func TestProjectServiceListScoping(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()

	withMember := f.createProject(t, f.member.ID)
	f.createProject(t) // проект без участника

	t.Run("member sees only own projects", func(t *testing.T) {
		projects, total, err := f.svc.List(ctx, memberActor, domain.ProjectFilterOptions{})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, projects, 1)
		assert.Equal(t, withMember.ID, projects[0].ID)
	})

	t.Run("manager sees all projects", func(t *testing.T) {
		_, total, err := f.svc.List(ctx, managerActor, domain.ProjectFilterOptions{})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
	})

	t.Run("member get denied on foreign project", func(t *testing.T) {
		foreign := f.createProject(t)
		_, err := f.svc.GetByID(ctx, memberActor, foreign.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestProjectServiceUpdateManager(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()

	secondManager := &domain.User{ID: uuid.New().String(), Name: "Second", Email: "second@example.com", Role: domain.UserRoleManager, IsActive: true}
	require.NoError(t, f.users.Create(ctx, secondManager))

	project := f.createProject(t)

	t.Run("new manager joins the team", func(t *testing.T) {
		updated, err := f.svc.Update(ctx, managerActor, project.ID, domain.ProjectUpdateRequest{ManagerID: &secondManager.ID})
		require.NoError(t, err)
		assert.Equal(t, secondManager.ID, updated.ManagerID)

		stored, err := f.projects.GetByID(ctx, project.ID)
		require.NoError(t, err)
		assert.Contains(t, stored.Team, secondManager.ID)
	})

	t.Run("member cannot become manager", func(t *testing.T) {
		_, err := f.svc.Update(ctx, managerActor, project.ID, domain.ProjectUpdateRequest{ManagerID: &f.member.ID})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}
