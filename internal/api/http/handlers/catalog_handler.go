package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// CatalogHandler manages /help-topics and /canned-responses.
type CatalogHandler struct {
	service *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: catalogService}
}

// ListHelpTopics GET /help-topics.
func (h *CatalogHandler) ListHelpTopics(c *fiber.Ctx) error {
	topics, err := h.service.ListHelpTopics(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.HelpTopicResponse, 0, len(topics))
	for i := range topics {
		items = append(items, helpTopicResponse(&topics[i]))
	}
	return c.JSON(items)
}

// CreateHelpTopic POST /help-topics.
func (h *CatalogHandler) CreateHelpTopic(c *fiber.Ctx) error {
	var req service.HelpTopicInput
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	topic, err := h.service.CreateHelpTopic(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(helpTopicResponse(topic))
}

// UpdateHelpTopic PUT /help-topics/:id.
func (h *CatalogHandler) UpdateHelpTopic(c *fiber.Ctx) error {
	var req service.HelpTopicInput
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	topic, err := h.service.UpdateHelpTopic(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(helpTopicResponse(topic))
}

// ListCannedResponses GET /canned-responses.
func (h *CatalogHandler) ListCannedResponses(c *fiber.Ctx) error {
	responses, err := h.service.ListCannedResponses(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.CannedResponseResponse, 0, len(responses))
	for i := range responses {
		items = append(items, cannedResponseResponse(&responses[i]))
	}
	return c.JSON(items)
}

// CreateCannedResponse POST /canned-responses.
func (h *CatalogHandler) CreateCannedResponse(c *fiber.Ctx) error {
	var req service.CannedResponseInput
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	resp, err := h.service.CreateCannedResponse(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(cannedResponseResponse(resp))
}

// UpdateCannedResponse PUT /canned-responses/:id.
func (h *CatalogHandler) UpdateCannedResponse(c *fiber.Ctx) error {
	var req service.CannedResponseInput
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	resp, err := h.service.UpdateCannedResponse(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(cannedResponseResponse(resp))
}

// DeleteCannedResponse DELETE /canned-responses/:id.
func (h *CatalogHandler) DeleteCannedResponse(c *fiber.Ctx) error {
	if err := h.service.DeleteCannedResponse(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func helpTopicResponse(topic *domain.HelpTopic) dto.HelpTopicResponse {
	return dto.HelpTopicResponse{
		ID:          topic.ID,
		Name:        topic.Name,
		Description: topic.Description,
		IsActive:    topic.IsActive,
		CreatedAt:   topic.CreatedAt,
		UpdatedAt:   topic.UpdatedAt,
	}
}

func cannedResponseResponse(resp *domain.CannedResponse) dto.CannedResponseResponse {
	return dto.CannedResponseResponse{
		ID:        resp.ID,
		Title:     resp.Title,
		Body:      resp.Body,
		CreatedAt: resp.CreatedAt,
		UpdatedAt: resp.UpdatedAt,
	}
}
