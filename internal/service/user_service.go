package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/project-hub/internal/domain"
	"github.com/yourusername/project-hub/internal/repository"
	"github.com/yourusername/project-hub/pkg/auth"
	"github.com/yourusername/project-hub/pkg/logger"
)

// UserService инкапсулирует бизнес-логику работы с пользователями
// и аутентификацией
type UserService struct {
	repo       repository.UserRepository
	jwtManager *auth.JWTManager
	authorizer *Authorizer
	logger     logger.Logger
}

// NewUserService создает сервис пользователей
func NewUserService(repo repository.UserRepository, jwtManager *auth.JWTManager, log logger.Logger) *UserService {
	return &UserService{
		repo:       repo,
		jwtManager: jwtManager,
		authorizer: NewAuthorizer(),
		logger:     log,
	}
}

// Create создает нового пользователя. Менеджер может приглашать
// кого угодно, кроме администраторов.
func (s *UserService) Create(ctx context.Context, actor domain.Actor, req domain.UserCreateRequest) (*domain.User, error) {
	if d := s.authorizer.CanCreateUser(actor, req.Role); !d.Allowed {
		return nil, d.Err()
	}

	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("%w: email already in use", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:             uuid.New().String(),
		Name:           req.Name,
		Email:          req.Email,
		HashedPassword: string(hashed),
		Role:           req.Role,
		Department:     req.Department,
		Skills:         req.Skills,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user created", "user_id", user.ID, "role", string(user.Role), "actor_id", actor.ID)
	return user, nil
}

// Login проверяет учетные данные и возвращает пару токенов
func (s *UserService) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is deactivated", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}

	tokens, err := s.jwtManager.GenerateTokenPair(user)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	user.UpdatedAt = now
	if err := s.repo.Update(ctx, user); err != nil {
		s.logger.Warn("update last login", "user_id", user.ID, "error", err.Error())
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return &domain.LoginResponse{
		User:         user.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    now.Add(time.Duration(tokens.ExpiresIn) * time.Second),
	}, nil
}

// Refresh обновляет пару токенов по токену обновления
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*domain.LoginResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnauthorized, err.Error())
	}

	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is deactivated", domain.ErrUnauthorized)
	}

	tokens, err := s.jwtManager.GenerateTokenPair(user)
	if err != nil {
		return nil, err
	}
	return &domain.LoginResponse{
		User:         user.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(tokens.ExpiresIn) * time.Second),
	}, nil
}

// GetByID возвращает пользователя по ID
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

// Update обновляет данные пользователя. Роль меняет только админ,
// менеджер не может трогать администраторов, деактивировать
// собственную учетную запись нельзя.
func (s *UserService) Update(ctx context.Context, actor domain.Actor, id string, req domain.UserUpdateRequest) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorizer.CanUpdateUser(actor, user, req); err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Department != nil {
		user.Department = req.Department
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	user.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	if req.Skills != nil {
		user.Skills = *req.Skills
		if err := s.repo.UpdateSkills(ctx, id, *req.Skills); err != nil {
			return nil, fmt.Errorf("update skills: %w", err)
		}
	}

	s.logger.Info("user updated", "user_id", id, "actor_id", actor.ID)
	return user, nil
}

// ChangePassword меняет пароль пользователя после проверки старого
func (s *UserService) ChangePassword(ctx context.Context, actor domain.Actor, req domain.ChangePasswordRequest) error {
	user, err := s.repo.GetByID(ctx, actor.ID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.OldPassword)); err != nil {
		return fmt.Errorf("%w: wrong password", domain.ErrUnauthorized)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.HashedPassword = string(hashed)
	user.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	s.logger.Info("password changed", "user_id", user.ID)
	return nil
}

// List возвращает страницу пользователей
func (s *UserService) List(ctx context.Context, opts domain.UserFilterOptions) ([]*domain.User, int, error) {
	filter := repository.UserFilter{
		Role:       opts.Role,
		Department: opts.Department,
		IsActive:   opts.IsActive,
		SearchText: opts.SearchText,
	}

	page := opts.Page
	if page < 1 {
		page = 1
	}
	pageSize := opts.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize

	users, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	return users, total, nil
}
