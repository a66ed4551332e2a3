package domain

import (
	"sort"
	"time"
)

// Priority enumerates escalation urgency. Shared by rules and tickets.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Priorities lists the accepted values in ascending urgency.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// Valid reports whether p is one of the four accepted values.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Tier is one step of an escalation rule: who gets it and for how long.
type Tier struct {
	ID             string  `json:"id,omitempty"`
	Level          int     `json:"level"`
	AssigneeRoleID string  `json:"assigneeRoleId"`
	SLAHours       float64 `json:"slaHours"`
}

// EscalationRule is a named escalation policy: a priority, a time threshold
// and an ordered sequence of tiers. Tier order is authoritative by level, not
// by slice position.
type EscalationRule struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Description          string    `json:"description,omitempty"`
	Priority             Priority  `json:"priority"`
	TimeThresholdMinutes int       `json:"timeThresholdMinutes"`
	Tiers                []Tier    `json:"tiers"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// TiersByLevel returns the tiers sorted ascending by level. Slice position of
// equal levels is preserved.
func (r *EscalationRule) TiersByLevel() []Tier {
	tiers := make([]Tier, len(r.Tiers))
	copy(tiers, r.Tiers)
	sort.SliceStable(tiers, func(i, j int) bool {
		return tiers[i].Level < tiers[j].Level
	})
	return tiers
}

// NextLevel returns the level a newly appended tier should get: one past the
// highest declared level, starting at 1.
func (r *EscalationRule) NextLevel() int {
	max := 0
	for _, t := range r.Tiers {
		if t.Level > max {
			max = t.Level
		}
	}
	return max + 1
}

// ActiveTier selects the tier responsible for a ticket that has been open for
// the given duration. Before the rule's time threshold elapses no tier is
// active. After that, each tier in level order holds the ticket for its SLA
// window; once every window is exhausted the deepest tier stays responsible.
func (r *EscalationRule) ActiveTier(openFor time.Duration) (Tier, bool) {
	threshold := time.Duration(r.TimeThresholdMinutes) * time.Minute
	if openFor < threshold || len(r.Tiers) == 0 {
		return Tier{}, false
	}
	elapsed := openFor - threshold
	tiers := r.TiersByLevel()
	for _, tier := range tiers {
		window := time.Duration(tier.SLAHours * float64(time.Hour))
		if elapsed < window {
			return tier, true
		}
		elapsed -= window
	}
	return tiers[len(tiers)-1], true
}
