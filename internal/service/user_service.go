package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// UserService manages the agent directory.
type UserService struct {
	users repository.UserRepository
	roles repository.RoleRepository
}

// UserInput is the payload for user create/update.
type UserInput struct {
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	RoleID *string `json:"roleId,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, roles repository.RoleRepository) *UserService {
	return &UserService{users: users, roles: roles}
}

// ListUsers returns all users.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// CreateUser persists a new user after checking its role reference.
func (s *UserService) CreateUser(ctx context.Context, input UserInput) (*domain.User, error) {
	if err := s.checkInput(ctx, input); err != nil {
		return nil, err
	}
	active := true
	if input.Active != nil {
		active = *input.Active
	}
	user := &domain.User{
		Name:   strings.TrimSpace(input.Name),
		Email:  strings.ToLower(strings.TrimSpace(input.Email)),
		RoleID: input.RoleID,
		Active: active,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// UpdateUser modifies an existing user.
func (s *UserService) UpdateUser(ctx context.Context, id string, input UserInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"userId": id})
		}
		return nil, apperrors.MapError(err)
	}
	if err := s.checkInput(ctx, input); err != nil {
		return nil, err
	}
	user.Name = strings.TrimSpace(input.Name)
	user.Email = strings.ToLower(strings.TrimSpace(input.Email))
	user.RoleID = input.RoleID
	if input.Active != nil {
		user.Active = *input.Active
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// DeleteUser removes a user.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"userId": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *UserService) checkInput(ctx context.Context, input UserInput) error {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Email) == "" {
		return apperrors.NewValidationError("name and email are required", nil)
	}
	if input.RoleID != nil {
		if _, err := s.roles.GetByID(ctx, *input.RoleID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewValidationError("unknown role", map[string]any{"roleId": *input.RoleID})
			}
			return apperrors.MapError(err)
		}
	}
	return nil
}
