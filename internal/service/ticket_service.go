package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	comments   repository.CommentRepository
	topics     repository.HelpTopicRepository
	canned     repository.CannedResponseRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	CommentRepo repository.CommentRepository
	TopicRepo   repository.HelpTopicRepository
	CannedRepo  repository.CannedResponseRepository
	Dispatcher  events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	RequesterName  string
	RequesterEmail string
	HelpTopicID    *string
	Title          string
	Description    string
	Priority       domain.Priority
}

// TicketListFilter describes listing filters.
type TicketListFilter struct {
	HelpTopicID *string
	Statuses    []domain.TicketStatus
	Priorities  []domain.Priority
	SearchTerm  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// CommentInput describes a new comment. When CannedResponseID is set the
// template body is used and Body may be empty.
type CommentInput struct {
	AuthorName       string
	Visibility       domain.CommentVisibility
	Body             string
	CannedResponseID *string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		comments:   deps.CommentRepo,
		topics:     deps.TopicRepo,
		canned:     deps.CannedRepo,
		dispatcher: deps.Dispatcher,
	}
}

// CreateTicket creates a ticket.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.NewValidationError("title and description are required", nil)
	}
	if strings.TrimSpace(input.RequesterEmail) == "" {
		return nil, apperrors.NewValidationError("requester email is required", nil)
	}
	if input.Priority != "" && !input.Priority.Valid() {
		return nil, apperrors.NewValidationError(domain.MsgPriorityInvalid, nil)
	}
	if input.HelpTopicID != nil {
		topic, err := s.topics.GetByID(ctx, *input.HelpTopicID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("help topic", map[string]any{"helpTopicId": *input.HelpTopicID})
			}
			return nil, apperrors.MapError(err)
		}
		if !topic.IsActive {
			return nil, apperrors.NewConflict("help topic inactive", map[string]any{"helpTopicId": topic.ID})
		}
	}

	ticket := &domain.Ticket{
		ExternalKey:    generateTicketKey(),
		RequesterName:  strings.TrimSpace(input.RequesterName),
		RequesterEmail: strings.TrimSpace(input.RequesterEmail),
		HelpTopicID:    input.HelpTopicID,
		Title:          strings.TrimSpace(input.Title),
		Description:    strings.TrimSpace(input.Description),
		Status:         domain.TicketStatusOpen,
		Priority:       input.Priority,
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.PriorityMedium
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.EventTicketCreated, ticket.ID, events.TicketCreatedPayload{
		HelpTopicID: ticket.HelpTopicID,
		Priority:    ticket.Priority,
		Title:       ticket.Title,
	})
	return ticket, nil
}

// ListTickets returns tickets matching the filter.
func (s *TicketService) ListTickets(ctx context.Context, filter TicketListFilter) ([]domain.Ticket, error) {
	repoFilter := repository.TicketFilter{
		HelpTopicID: filter.HelpTopicID,
		Statuses:    filter.Statuses,
		Priorities:  filter.Priorities,
		SearchTerm:  filter.SearchTerm,
		CreatedFrom: filter.CreatedFrom,
		CreatedTo:   filter.CreatedTo,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	}
	tickets, err := s.tickets.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return tickets, nil
}

// GetTicket fetches a ticket with its comment thread. Internal notes are
// included only when includeInternal is set.
func (s *TicketService) GetTicket(ctx context.Context, id string, includeInternal bool) (*domain.Ticket, []domain.Comment, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("ticket", map[string]any{"ticketId": id})
		}
		return nil, nil, apperrors.MapError(err)
	}
	comments, err := s.comments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	if !includeInternal {
		visible := make([]domain.Comment, 0, len(comments))
		for _, comment := range comments {
			if comment.Visibility == domain.CommentInternal {
				continue
			}
			visible = append(visible, comment)
		}
		comments = visible
	}
	return ticket, comments, nil
}

// UpdateStatus moves a ticket through its lifecycle.
func (s *TicketService) UpdateStatus(ctx context.Context, id string, newStatus domain.TicketStatus, comment string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticketId": id})
		}
		return nil, apperrors.MapError(err)
	}
	if !isValidTransition(ticket.Status, newStatus) {
		return nil, apperrors.NewConflict("invalid status transition",
			map[string]any{"from": ticket.Status, "to": newStatus})
	}
	oldStatus := ticket.Status
	if newStatus == domain.TicketStatusClosed {
		now := time.Now()
		ticket.ClosedAt = &now
	} else if ticket.ClosedAt != nil {
		ticket.ClosedAt = nil
	}
	ticket.Status = newStatus
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.EventTicketStatus, ticket.ID, events.TicketStatusPayload{
		OldStatus: oldStatus,
		NewStatus: newStatus,
		Comment:   comment,
	})
	return ticket, nil
}

// AddComment appends a comment to a ticket, optionally expanding a canned
// response template.
func (s *TicketService) AddComment(ctx context.Context, ticketID string, input CommentInput) (*domain.Comment, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticketId": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	body := strings.TrimSpace(input.Body)
	if input.CannedResponseID != nil {
		canned, err := s.canned.GetByID(ctx, *input.CannedResponseID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("canned response", map[string]any{"cannedResponseId": *input.CannedResponseID})
			}
			return nil, apperrors.MapError(err)
		}
		body = canned.Body
	}
	if body == "" {
		return nil, apperrors.NewValidationError("comment body is required", nil)
	}

	visibility := input.Visibility
	if visibility == "" {
		visibility = domain.CommentPublic
	}
	if visibility != domain.CommentPublic && visibility != domain.CommentInternal {
		return nil, apperrors.NewValidationError("visibility must be public or internal", nil)
	}

	comment := &domain.Comment{
		TicketID:   ticket.ID,
		AuthorName: strings.TrimSpace(input.AuthorName),
		Visibility: visibility,
		Body:       body,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.EventCommentAdded, ticket.ID, events.CommentAddedPayload{
		CommentID:   comment.ID,
		AuthorName:  comment.AuthorName,
		Visibility:  comment.Visibility,
		BodyPreview: stringPreview(comment.Body, 120),
	})
	return comment, nil
}

func (s *TicketService) publish(ctx context.Context, eventType events.EventType, subject string, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Subject:   subject,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func generateTicketKey() string {
	return "TCK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}

var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusOpen:       {domain.TicketStatusInProgress, domain.TicketStatusCancelled},
	domain.TicketStatusInProgress: {domain.TicketStatusResolved, domain.TicketStatusCancelled},
	domain.TicketStatusResolved:   {domain.TicketStatusClosed, domain.TicketStatusInProgress},
	domain.TicketStatusClosed:     {},
	domain.TicketStatusCancelled:  {},
}

func isValidTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}
