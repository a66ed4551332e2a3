package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
	TicketStatusCancelled  TicketStatus = "cancelled"
)

// Ticket is the aggregate for support requests. EscalationLevel records the
// deepest tier the escalation sweep has reached for this ticket; zero means
// not escalated.
type Ticket struct {
	ID              string
	ExternalKey     string
	RequesterName   string
	RequesterEmail  string
	HelpTopicID     *string
	AssigneeRoleID  *string
	Title           string
	Description     string
	Status          TicketStatus
	Priority        Priority
	EscalationLevel int
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ClosedAt        *time.Time
}

// Open reports whether the ticket still counts against escalation thresholds.
func (t *Ticket) Open() bool {
	return t.Status == TicketStatusOpen || t.Status == TicketStatusInProgress
}
