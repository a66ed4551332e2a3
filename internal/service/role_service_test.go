package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

func TestCreateRoleRequiresName(t *testing.T) {
	roles := new(MockRoleRepository)
	svc := NewRoleService(roles)

	_, err := svc.CreateRole(context.Background(), RoleInput{Name: "  "})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
	roles.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateRoleTrimsInput(t *testing.T) {
	roles := new(MockRoleRepository)
	svc := NewRoleService(roles)

	roles.On("Create", mock.Anything, mock.Anything).Return(nil)

	role, err := svc.CreateRole(context.Background(), RoleInput{Name: " Support Agent ", Description: " Frontline "})
	require.NoError(t, err)
	assert.Equal(t, "Support Agent", role.Name)
	assert.Equal(t, "Frontline", role.Description)
}

func TestDeleteRoleRefusedWhileReferenced(t *testing.T) {
	roles := new(MockRoleRepository)
	svc := NewRoleService(roles)

	roles.On("TierReferences", mock.Anything, "role1").Return(3, nil)

	err := svc.DeleteRole(context.Background(), "role1")
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "CONFLICT", domainErr.Code)
	assert.Equal(t, 3, domainErr.Details["tierCount"])
	roles.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteRoleUnreferenced(t *testing.T) {
	roles := new(MockRoleRepository)
	svc := NewRoleService(roles)

	roles.On("TierReferences", mock.Anything, "role1").Return(0, nil)
	roles.On("Delete", mock.Anything, "role1").Return(nil)

	require.NoError(t, svc.DeleteRole(context.Background(), "role1"))
	roles.AssertExpectations(t)
}

func TestDeleteRoleNotFound(t *testing.T) {
	roles := new(MockRoleRepository)
	svc := NewRoleService(roles)

	roles.On("TierReferences", mock.Anything, "missing").Return(0, nil)
	roles.On("Delete", mock.Anything, "missing").Return(pgx.ErrNoRows)

	err := svc.DeleteRole(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}
