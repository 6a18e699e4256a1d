package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/project-hub/internal/domain"
	"github.com/yourusername/project-hub/internal/repository/inmemory"
	"github.com/yourusername/project-hub/pkg/auth"
	"github.com/yourusername/project-hub/pkg/logger"
)

type userFixture struct {
	svc   *UserService
	users *inmemory.UserRepository
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	users := inmemory.NewUserRepository()
	jwtManager := auth.NewJWTManager("test-secret", "project-hub-test", 15*time.Minute, 24*time.Hour)
	return &userFixture{
		svc:   NewUserService(users, jwtManager, logger.NewNop()),
		users: users,
	}
}

func (f *userFixture) seedUser(t *testing.T, email, password string, role domain.UserRole, active bool) *domain.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{
		ID:             uuid.New().String(),
		Name:           "Seeded User",
		Email:          email,
		HashedPassword: string(hashed),
		Role:           role,
		IsActive:       active,
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func TestUserServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("manager invites a member", func(t *testing.T) {
		f := newUserFixture(t)
		user, err := f.svc.Create(ctx, managerActor, domain.UserCreateRequest{
			Name:     "New Member",
			Email:    "member@example.com",
			Password: "secret-pass",
			Role:     domain.UserRoleMember,
			Skills:   []string{"go", "sql"},
		})
		require.NoError(t, err)

		assert.True(t, user.IsActive)
		assert.NotEmpty(t, user.ID)
		assert.NotEqual(t, "secret-pass", user.HashedPassword)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte("secret-pass")))
	})

	t.Run("manager cannot create an admin", func(t *testing.T) {
		f := newUserFixture(t)
		_, err := f.svc.Create(ctx, managerActor, domain.UserCreateRequest{
			Name:     "Rogue Admin",
			Email:    "rogue@example.com",
			Password: "secret-pass",
			Role:     domain.UserRoleAdmin,
		})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		f := newUserFixture(t)
		f.seedUser(t, "taken@example.com", "whatever", domain.UserRoleMember, true)
		_, err := f.svc.Create(ctx, adminActor, domain.UserCreateRequest{
			Name:     "Second",
			Email:    "taken@example.com",
			Password: "secret-pass",
			Role:     domain.UserRoleMember,
		})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}

func TestUserServiceLogin(t *testing.T) {
	ctx := context.Background()
	f := newUserFixture(t)
	f.seedUser(t, "dev@example.com", "right-pass", domain.UserRoleMember, true)
	f.seedUser(t, "gone@example.com", "right-pass", domain.UserRoleMember, false)

	t.Run("success returns token pair", func(t *testing.T) {
		resp, err := f.svc.Login(ctx, domain.LoginRequest{Email: "dev@example.com", Password: "right-pass"})
		require.NoError(t, err)

		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Equal(t, "dev@example.com", resp.User.Email)

		stored, err := f.users.GetByEmail(ctx, "dev@example.com")
		require.NoError(t, err)
		assert.NotNil(t, stored.LastLoginAt)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := f.svc.Login(ctx, domain.LoginRequest{Email: "dev@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := f.svc.Login(ctx, domain.LoginRequest{Email: "nobody@example.com", Password: "right-pass"})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("deactivated account", func(t *testing.T) {
		_, err := f.svc.Login(ctx, domain.LoginRequest{Email: "gone@example.com", Password: "right-pass"})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestUserServiceRefresh(t *testing.T) {
	ctx := context.Background()
	f := newUserFixture(t)
	f.seedUser(t, "dev@example.com", "right-pass", domain.UserRoleMember, true)

	resp, err := f.svc.Login(ctx, domain.LoginRequest{Email: "dev@example.com", Password: "right-pass"})
	require.NoError(t, err)

	t.Run("refresh token accepted", func(t *testing.T) {
		renewed, err := f.svc.Refresh(ctx, resp.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, renewed.AccessToken)
		assert.Equal(t, resp.User.ID, renewed.User.ID)
	})

	t.Run("access token rejected as refresh", func(t *testing.T) {
		_, err := f.svc.Refresh(ctx, resp.AccessToken)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestUserServiceChangePassword(t *testing.T) {
	ctx := context.Background()
	f := newUserFixture(t)
	user := f.seedUser(t, "dev@example.com", "old-pass", domain.UserRoleMember, true)
	actor := domain.Actor{ID: user.ID, Role: user.Role}

	t.Run("wrong old password", func(t *testing.T) {
		err := f.svc.ChangePassword(ctx, actor, domain.ChangePasswordRequest{
			OldPassword: "not-it",
			NewPassword: "new-pass-123",
		})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("success allows login with new password", func(t *testing.T) {
		err := f.svc.ChangePassword(ctx, actor, domain.ChangePasswordRequest{
			OldPassword: "old-pass",
			NewPassword: "new-pass-123",
		})
		require.NoError(t, err)

		_, err = f.svc.Login(ctx, domain.LoginRequest{Email: "dev@example.com", Password: "old-pass"})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)

		_, err = f.svc.Login(ctx, domain.LoginRequest{Email: "dev@example.com", Password: "new-pass-123"})
		assert.NoError(t, err)
	})
}

func TestUserServiceUpdate(t *testing.T) {
	ctx := context.Background()
	f := newUserFixture(t)
	user := f.seedUser(t, "dev@example.com", "pass", domain.UserRoleMember, true)

	t.Run("admin promotes to manager", func(t *testing.T) {
		role := domain.UserRoleManager
		updated, err := f.svc.Update(ctx, adminActor, user.ID, domain.UserUpdateRequest{Role: &role})
		require.NoError(t, err)
		assert.Equal(t, domain.UserRoleManager, updated.Role)
	})

	t.Run("skills replaced", func(t *testing.T) {
		skills := []string{"kubernetes", "terraform"}
		actor := domain.Actor{ID: user.ID, Role: domain.UserRoleManager}
		updated, err := f.svc.Update(ctx, actor, user.ID, domain.UserUpdateRequest{Skills: &skills})
		require.NoError(t, err)
		assert.Equal(t, skills, updated.Skills)

		stored, err := f.users.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, skills, stored.Skills)
	})

	t.Run("self deactivation denied", func(t *testing.T) {
		inactive := false
		actor := domain.Actor{ID: user.ID, Role: domain.UserRoleManager}
		_, err := f.svc.Update(ctx, actor, user.ID, domain.UserUpdateRequest{IsActive: &inactive})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestUserServiceList(t *testing.T) {
	ctx := context.Background()
	f := newUserFixture(t)
	f.seedUser(t, "a@example.com", "pass", domain.UserRoleMember, true)
	f.seedUser(t, "b@example.com", "pass", domain.UserRoleMember, true)
	f.seedUser(t, "c@example.com", "pass", domain.UserRoleManager, false)

	t.Run("filter by active", func(t *testing.T) {
		active := true
		users, total, err := f.svc.List(ctx, domain.UserFilterOptions{IsActive: &active})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, users, 2)
	})

	t.Run("pagination caps page size", func(t *testing.T) {
		users, total, err := f.svc.List(ctx, domain.UserFilterOptions{Page: 1, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Len(t, users, 2)
	})
}
