package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// RolesHandler manages the /roles resource.
type RolesHandler struct {
	service *service.RoleService
}

// NewRolesHandler constructs handler.
func NewRolesHandler(roleService *service.RoleService) *RolesHandler {
	return &RolesHandler{service: roleService}
}

// ListRoles GET /roles.
func (h *RolesHandler) ListRoles(c *fiber.Ctx) error {
	roles, err := h.service.ListRoles(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(roles)
}

// GetRole GET /roles/:id.
func (h *RolesHandler) GetRole(c *fiber.Ctx) error {
	role, err := h.service.GetRole(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(role)
}

// CreateRole POST /roles.
func (h *RolesHandler) CreateRole(c *fiber.Ctx) error {
	var req service.RoleInput
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	role, err := h.service.CreateRole(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(role)
}

// UpdateRole PUT /roles/:id.
func (h *RolesHandler) UpdateRole(c *fiber.Ctx) error {
	var req service.RoleInput
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	role, err := h.service.UpdateRole(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(role)
}

// DeleteRole DELETE /roles/:id.
func (h *RolesHandler) DeleteRole(c *fiber.Ctx) error {
	if err := h.service.DeleteRole(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
