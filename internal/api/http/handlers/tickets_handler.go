package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// TicketsHandler manages the /tickets resource.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.CreateTicket(c.UserContext(), service.TicketCreateInput{
		RequesterName:  req.RequesterName,
		RequesterEmail: req.RequesterEmail,
		HelpTopicID:    req.HelpTopicID,
		Title:          req.Title,
		Description:    req.Description,
		Priority:       req.Priority,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(ticketSummary(ticket))
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	tickets, err := h.service.ListTickets(c.UserContext(), parseTicketQuery(c))
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return c.JSON(items)
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	includeInternal := c.QueryBool("includeInternal", false)
	ticket, comments, err := h.service.GetTicket(c.UserContext(), c.Params("id"), includeInternal)
	if err != nil {
		return err
	}
	return c.JSON(ticketDetail(ticket, comments))
}

// UpdateStatus POST /tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateTicketStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.UpdateStatus(c.UserContext(), c.Params("id"), req.Status, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(ticketSummary(ticket))
}

// AddComment POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	comment, err := h.service.AddComment(c.UserContext(), c.Params("id"), service.CommentInput{
		AuthorName:       req.AuthorName,
		Visibility:       req.Visibility,
		Body:             req.Body,
		CannedResponseID: req.CannedResponseID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(commentResponse(comment))
}

func parseTicketQuery(c *fiber.Ctx) service.TicketListFilter {
	filter := service.TicketListFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.TicketStatus(strings.TrimSpace(part)))
		}
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		for _, part := range strings.Split(priorityStr, ",") {
			filter.Priorities = append(filter.Priorities, domain.Priority(strings.TrimSpace(part)))
		}
	}
	if topic := c.Query("helpTopicId"); topic != "" {
		filter.HelpTopicID = &topic
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	if from := parseTime(c.Query("createdFrom")); from != nil {
		filter.CreatedFrom = from
	}
	if to := parseTime(c.Query("createdTo")); to != nil {
		filter.CreatedTo = to
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("pageSize"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:              ticket.ID,
		ExternalKey:     ticket.ExternalKey,
		RequesterName:   ticket.RequesterName,
		HelpTopicID:     ticket.HelpTopicID,
		AssigneeRoleID:  ticket.AssigneeRoleID,
		Title:           ticket.Title,
		Status:          ticket.Status,
		Priority:        ticket.Priority,
		EscalationLevel: ticket.EscalationLevel,
		CreatedAt:       ticket.CreatedAt,
		UpdatedAt:       ticket.UpdatedAt,
	}
}

func ticketDetail(ticket *domain.Ticket, comments []domain.Comment) dto.TicketDetailResponse {
	items := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, commentResponse(&comments[i]))
	}
	return dto.TicketDetailResponse{
		ID:              ticket.ID,
		ExternalKey:     ticket.ExternalKey,
		RequesterName:   ticket.RequesterName,
		RequesterEmail:  ticket.RequesterEmail,
		HelpTopicID:     ticket.HelpTopicID,
		AssigneeRoleID:  ticket.AssigneeRoleID,
		Title:           ticket.Title,
		Description:     ticket.Description,
		Status:          ticket.Status,
		Priority:        ticket.Priority,
		EscalationLevel: ticket.EscalationLevel,
		CreatedAt:       ticket.CreatedAt,
		UpdatedAt:       ticket.UpdatedAt,
		ClosedAt:        ticket.ClosedAt,
		Comments:        items,
	}
}

func commentResponse(comment *domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:         comment.ID,
		AuthorName: comment.AuthorName,
		Visibility: comment.Visibility,
		Body:       comment.Body,
		CreatedAt:  comment.CreatedAt,
	}
}
