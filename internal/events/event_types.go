package events

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRuleCreated     EventType = "escalation_rule_created"
	EventRuleUpdated     EventType = "escalation_rule_updated"
	EventRuleDeleted     EventType = "escalation_rule_deleted"
	EventTicketCreated   EventType = "ticket_created"
	EventTicketStatus    EventType = "ticket_status_changed"
	EventTicketEscalated EventType = "ticket_escalated"
	EventCommentAdded    EventType = "comment_added"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Subject   string      `json:"subject"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// RuleChangedPayload payload for rule create/update/delete.
type RuleChangedPayload struct {
	RuleID   string          `json:"ruleId"`
	Name     string          `json:"name,omitempty"`
	Priority domain.Priority `json:"priority,omitempty"`
	Tiers    int             `json:"tiers,omitempty"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	HelpTopicID *string         `json:"helpTopicId,omitempty"`
	Priority    domain.Priority `json:"priority"`
	Title       string          `json:"title"`
}

// TicketStatusPayload payload.
type TicketStatusPayload struct {
	OldStatus domain.TicketStatus `json:"oldStatus"`
	NewStatus domain.TicketStatus `json:"newStatus"`
	Comment   string              `json:"comment,omitempty"`
}

// TicketEscalatedPayload payload emitted by the escalation sweep.
type TicketEscalatedPayload struct {
	RuleID         string  `json:"ruleId"`
	RuleName       string  `json:"ruleName"`
	Level          int     `json:"level"`
	AssigneeRoleID string  `json:"assigneeRoleId"`
	SLAHours       float64 `json:"slaHours"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	CommentID   string                   `json:"commentId"`
	AuthorName  string                   `json:"authorName"`
	Visibility  domain.CommentVisibility `json:"visibility"`
	BodyPreview string                   `json:"bodyPreview"`
}
