package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/project-hub/internal/domain"
)

var (
	adminActor   = domain.Actor{ID: "admin-1", Role: domain.UserRoleAdmin}
	managerActor = domain.Actor{ID: "manager-1", Role: domain.UserRoleManager}
	memberActor  = domain.Actor{ID: "member-1", Role: domain.UserRoleMember}
)

func TestAuthorizerCanViewProject(t *testing.T) {
	auth := NewAuthorizer()
	project := &domain.Project{ID: "p1", ManagerID: "manager-1", Team: []string{"manager-1", "member-1"}}

	tests := []struct {
		name    string
		actor   domain.Actor
		allowed bool
		reason  string
	}{
		{"admin sees any project", adminActor, true, ""},
		{"manager sees any project", managerActor, true, ""},
		{"team member sees own project", memberActor, true, ""},
		{"outsider member denied", domain.Actor{ID: "stranger", Role: domain.UserRoleMember}, false, domain.DenyReasonNotTeamMember},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := auth.CanViewProject(tt.actor, project)
			assert.Equal(t, tt.allowed, d.Allowed)
			assert.Equal(t, tt.reason, d.Reason)
		})
	}
}

func TestAuthorizerCanUpdateTask(t *testing.T) {
	auth := NewAuthorizer()
	task := &domain.Task{ID: "t1", Assignees: []string{"member-1"}}

	t.Run("manager updates any field", func(t *testing.T) {
		err := auth.CanUpdateTask(managerActor, task, []string{"title", "assignees", "due_date"})
		assert.NoError(t, err)
	})

	t.Run("assignee member updates allowed fields", func(t *testing.T) {
		err := auth.CanUpdateTask(memberActor, task, []string{"status", "actual_hours", "subtasks", "attachments"})
		assert.NoError(t, err)
	})

	t.Run("non-assignee member denied outright", func(t *testing.T) {
		stranger := domain.Actor{ID: "stranger", Role: domain.UserRoleMember}
		err := auth.CanUpdateTask(stranger, task, []string{"status"})

		var forbidden *domain.ForbiddenError
		require.ErrorAs(t, err, &forbidden)
		assert.Equal(t, domain.DenyReasonNotAssignee, forbidden.Reason)
	})

	t.Run("single forbidden field rejects whole request", func(t *testing.T) {
		err := auth.CanUpdateTask(memberActor, task, []string{"status", "title"})

		var fieldErr *domain.ForbiddenFieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, []string{"title"}, fieldErr.Fields)
	})

	t.Run("all forbidden fields listed sorted", func(t *testing.T) {
		err := auth.CanUpdateTask(memberActor, task, []string{"title", "due_date", "assignees", "actual_hours"})

		var fieldErr *domain.ForbiddenFieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, []string{"assignees", "due_date", "title"}, fieldErr.Fields)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestAuthorizerCanCreateUser(t *testing.T) {
	auth := NewAuthorizer()

	tests := []struct {
		name    string
		actor   domain.Actor
		role    domain.UserRole
		allowed bool
		reason  string
	}{
		{"admin creates admin", adminActor, domain.UserRoleAdmin, true, ""},
		{"admin creates manager", adminActor, domain.UserRoleManager, true, ""},
		{"manager creates member", managerActor, domain.UserRoleMember, true, ""},
		{"manager creates manager", managerActor, domain.UserRoleManager, true, ""},
		{"manager cannot create admin", managerActor, domain.UserRoleAdmin, false, domain.DenyReasonAdminTarget},
		{"member cannot create anyone", memberActor, domain.UserRoleMember, false, domain.DenyReasonRoleRestricted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := auth.CanCreateUser(tt.actor, tt.role)
			assert.Equal(t, tt.allowed, d.Allowed)
			assert.Equal(t, tt.reason, d.Reason)
		})
	}
}

func TestAuthorizerCanUpdateUser(t *testing.T) {
	auth := NewAuthorizer()

	adminRole := domain.UserRoleAdmin
	managerRole := domain.UserRoleManager
	inactive := false

	member := &domain.User{ID: "member-1", Role: domain.UserRoleMember, IsActive: true}
	otherAdmin := &domain.User{ID: "admin-2", Role: domain.UserRoleAdmin, IsActive: true}

	t.Run("admin promotes member", func(t *testing.T) {
		err := auth.CanUpdateUser(adminActor, member, domain.UserUpdateRequest{Role: &managerRole})
		assert.NoError(t, err)
	})

	t.Run("manager cannot change roles", func(t *testing.T) {
		err := auth.CanUpdateUser(managerActor, member, domain.UserUpdateRequest{Role: &adminRole})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("manager cannot deactivate admin", func(t *testing.T) {
		err := auth.CanUpdateUser(managerActor, otherAdmin, domain.UserUpdateRequest{IsActive: &inactive})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("nobody deactivates own account", func(t *testing.T) {
		self := &domain.User{ID: adminActor.ID, Role: domain.UserRoleAdmin, IsActive: true}
		err := auth.CanUpdateUser(adminActor, self, domain.UserUpdateRequest{IsActive: &inactive})

		var forbidden *domain.ForbiddenError
		require.ErrorAs(t, err, &forbidden)
		assert.Equal(t, domain.DenyReasonSelfTarget, forbidden.Reason)
	})

	t.Run("member edits own profile", func(t *testing.T) {
		self := &domain.User{ID: memberActor.ID, Role: domain.UserRoleMember, IsActive: true}
		name := "New Name"
		err := auth.CanUpdateUser(memberActor, self, domain.UserUpdateRequest{Name: &name})
		assert.NoError(t, err)
	})

	t.Run("member cannot edit others", func(t *testing.T) {
		name := "New Name"
		err := auth.CanUpdateUser(memberActor, otherAdmin, domain.UserUpdateRequest{Name: &name})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestAuthorizerCanRemoveTeamMember(t *testing.T) {
	auth := NewAuthorizer()
	project := &domain.Project{ID: "p1", ManagerID: "manager-1", Team: []string{"manager-1", "member-1", "member-2"}}

	t.Run("manager removes a member", func(t *testing.T) {
		other := domain.Actor{ID: "manager-2", Role: domain.UserRoleManager}
		assert.NoError(t, auth.CanRemoveTeamMember(other, project, "member-1"))
	})

	t.Run("project manager cannot be removed", func(t *testing.T) {
		err := auth.CanRemoveTeamMember(adminActor, project, "manager-1")

		var violation *domain.InvariantViolationError
		require.ErrorAs(t, err, &violation)
		assert.ErrorIs(t, err, domain.ErrInvariantViolation)
	})

	t.Run("actor cannot remove himself", func(t *testing.T) {
		actor := domain.Actor{ID: "member-2", Role: domain.UserRoleManager}
		err := auth.CanRemoveTeamMember(actor, project, "member-2")

		var forbidden *domain.ForbiddenError
		require.ErrorAs(t, err, &forbidden)
		assert.Equal(t, domain.DenyReasonSelfTarget, forbidden.Reason)
	})

	t.Run("member cannot manage team", func(t *testing.T) {
		err := auth.CanRemoveTeamMember(memberActor, project, "member-2")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestAuthorizerCanLogTime(t *testing.T) {
	auth := NewAuthorizer()
	task := &domain.Task{ID: "t1", Assignees: []string{"member-1"}}

	assert.True(t, auth.CanLogTime(managerActor, task).Allowed)
	assert.True(t, auth.CanLogTime(memberActor, task).Allowed)

	d := auth.CanLogTime(domain.Actor{ID: "stranger", Role: domain.UserRoleMember}, task)
	assert.False(t, d.Allowed)
	assert.Equal(t, domain.DenyReasonNotAssignee, d.Reason)
}
