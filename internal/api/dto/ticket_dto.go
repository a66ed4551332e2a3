package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	RequesterName  string          `json:"requesterName"`
	RequesterEmail string          `json:"requesterEmail"`
	HelpTopicID    *string         `json:"helpTopicId,omitempty"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Priority       domain.Priority `json:"priority,omitempty"`
}

// UpdateTicketStatusRequest payload.
type UpdateTicketStatusRequest struct {
	Status  domain.TicketStatus `json:"status"`
	Comment string              `json:"comment,omitempty"`
}

// TicketSummary response.
type TicketSummary struct {
	ID              string              `json:"id"`
	ExternalKey     string              `json:"externalKey"`
	RequesterName   string              `json:"requesterName"`
	HelpTopicID     *string             `json:"helpTopicId,omitempty"`
	AssigneeRoleID  *string             `json:"assigneeRoleId,omitempty"`
	Title           string              `json:"title"`
	Status          domain.TicketStatus `json:"status"`
	Priority        domain.Priority     `json:"priority"`
	EscalationLevel int                 `json:"escalationLevel"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	ID              string              `json:"id"`
	ExternalKey     string              `json:"externalKey"`
	RequesterName   string              `json:"requesterName"`
	RequesterEmail  string              `json:"requesterEmail"`
	HelpTopicID     *string             `json:"helpTopicId,omitempty"`
	AssigneeRoleID  *string             `json:"assigneeRoleId,omitempty"`
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	Status          domain.TicketStatus `json:"status"`
	Priority        domain.Priority     `json:"priority"`
	EscalationLevel int                 `json:"escalationLevel"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
	ClosedAt        *time.Time          `json:"closedAt,omitempty"`
	Comments        []CommentResponse   `json:"comments"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	AuthorName       string                   `json:"authorName"`
	Visibility       domain.CommentVisibility `json:"visibility,omitempty"`
	Body             string                   `json:"body,omitempty"`
	CannedResponseID *string                  `json:"cannedResponseId,omitempty"`
}

// CommentResponse represents one thread entry.
type CommentResponse struct {
	ID         string                   `json:"id"`
	AuthorName string                   `json:"authorName"`
	Visibility domain.CommentVisibility `json:"visibility"`
	Body       string                   `json:"body"`
	CreatedAt  time.Time                `json:"createdAt"`
}
