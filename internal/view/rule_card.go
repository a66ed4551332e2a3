package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// EmptyListMessage is shown when no rules exist.
const EmptyListMessage = "No escalation rules configured."

// RuleCard renders one escalation rule. Expansion state is local to the card;
// toggling never touches the rule data or other cards.
type RuleCard struct {
	Rule     domain.EscalationRule
	expanded bool
}

// Toggle flips between collapsed and expanded.
func (c *RuleCard) Toggle() {
	c.expanded = !c.expanded
}

// Expanded reports the card's current state.
func (c *RuleCard) Expanded() bool {
	return c.expanded
}

// Render writes the card. Collapsed shows the summary line only; expanded
// adds one line per tier, indented by tier level.
func (c *RuleCard) Render(w io.Writer) {
	marker := "+"
	if c.expanded {
		marker = "-"
	}
	fmt.Fprintf(w, "%s %s [%s] threshold %dm\n",
		marker, c.Rule.Name, PriorityBadge(c.Rule.Priority), c.Rule.TimeThresholdMinutes)
	if c.Rule.Description != "" {
		fmt.Fprintf(w, "  %s\n", c.Rule.Description)
	}
	if !c.expanded {
		return
	}
	for _, tier := range c.Rule.TiersByLevel() {
		fmt.Fprintf(w, "%sL%d -> %s (SLA %gh)\n",
			strings.Repeat("  ", tier.Level), tier.Level, tier.AssigneeRoleID, tier.SLAHours)
	}
}

// RuleList renders a set of cards, one per rule, each starting collapsed.
type RuleList struct {
	Cards []*RuleCard
}

// NewRuleList builds a list of collapsed cards.
func NewRuleList(rules []domain.EscalationRule) *RuleList {
	list := &RuleList{}
	for _, rule := range rules {
		list.Cards = append(list.Cards, &RuleCard{Rule: rule})
	}
	return list
}

// Toggle expands or collapses the card at index i. Other cards keep their
// state.
func (l *RuleList) Toggle(i int) {
	if i < 0 || i >= len(l.Cards) {
		return
	}
	l.Cards[i].Toggle()
}

// Render writes every card, or the empty-state message when there are none.
func (l *RuleList) Render(w io.Writer) {
	if len(l.Cards) == 0 {
		fmt.Fprintln(w, EmptyListMessage)
		return
	}
	for i, card := range l.Cards {
		if i > 0 {
			fmt.Fprintln(w)
		}
		card.Render(w)
	}
}
