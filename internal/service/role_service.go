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

// RoleService manages role administration.
type RoleService struct {
	roles repository.RoleRepository
}

// RoleInput is the payload for role create/update.
type RoleInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// NewRoleService constructs the service.
func NewRoleService(roles repository.RoleRepository) *RoleService {
	return &RoleService{roles: roles}
}

// ListRoles returns all roles.
func (s *RoleService) ListRoles(ctx context.Context) ([]domain.Role, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if roles == nil {
		roles = []domain.Role{}
	}
	return roles, nil
}

// GetRole fetches one role.
func (s *RoleService) GetRole(ctx context.Context, id string) (*domain.Role, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("role", map[string]any{"roleId": id})
		}
		return nil, apperrors.MapError(err)
	}
	return role, nil
}

// CreateRole persists a new role.
func (s *RoleService) CreateRole(ctx context.Context, input RoleInput) (*domain.Role, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("role name is required", nil)
	}
	role := &domain.Role{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
	}
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, apperrors.MapError(err)
	}
	return role, nil
}

// UpdateRole modifies an existing role.
func (s *RoleService) UpdateRole(ctx context.Context, id string, input RoleInput) (*domain.Role, error) {
	role, err := s.GetRole(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("role name is required", nil)
	}
	role.Name = strings.TrimSpace(input.Name)
	role.Description = strings.TrimSpace(input.Description)
	if err := s.roles.Update(ctx, role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("role", map[string]any{"roleId": id})
		}
		return nil, apperrors.MapError(err)
	}
	return role, nil
}

// DeleteRole removes a role unless an escalation tier still references it.
func (s *RoleService) DeleteRole(ctx context.Context, id string) error {
	refs, err := s.roles.TierReferences(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if refs > 0 {
		return apperrors.NewConflict("role is referenced by escalation tiers",
			map[string]any{"roleId": id, "tierCount": refs})
	}
	if err := s.roles.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("role", map[string]any{"roleId": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}
