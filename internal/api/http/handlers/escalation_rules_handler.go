package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// EscalationRulesHandler manages the /escalation-rules resource.
type EscalationRulesHandler struct {
	service *service.EscalationService
}

// NewEscalationRulesHandler constructs handler.
func NewEscalationRulesHandler(escalationService *service.EscalationService) *EscalationRulesHandler {
	return &EscalationRulesHandler{service: escalationService}
}

// ListRules GET /escalation-rules.
func (h *EscalationRulesHandler) ListRules(c *fiber.Ctx) error {
	rules, err := h.service.ListRules(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(rules)
}

// GetRule GET /escalation-rules/:id.
func (h *EscalationRulesHandler) GetRule(c *fiber.Ctx) error {
	rule, err := h.service.GetRule(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(rule)
}

// CreateRule POST /escalation-rules.
func (h *EscalationRulesHandler) CreateRule(c *fiber.Ctx) error {
	var req domain.EscalationRuleInput
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	rule, err := h.service.CreateRule(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(rule)
}

// UpdateRule PUT /escalation-rules/:id.
func (h *EscalationRulesHandler) UpdateRule(c *fiber.Ctx) error {
	var req domain.EscalationRulePatch
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	rule, err := h.service.UpdateRule(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(rule)
}

// DeleteRule DELETE /escalation-rules/:id.
func (h *EscalationRulesHandler) DeleteRule(c *fiber.Ctx) error {
	if err := h.service.DeleteRule(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
