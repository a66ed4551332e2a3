package editor

import (
	"context"
	"errors"
	"sync"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

var (
	// ErrSubmitPending is returned when Submit is called while a previous
	// submission is still in flight.
	ErrSubmitPending = errors.New("a submission is already in progress")
	// ErrInvalidDraft is returned when the draft fails validation. Field
	// messages are available via ValidationErrors.
	ErrInvalidDraft = errors.New("draft failed validation")
	// ErrLastTier is returned by RemoveTier when only one tier remains.
	ErrLastTier = errors.New("a rule needs at least one tier")
	// ErrTierOutOfRange is returned for a tier index the draft does not have.
	ErrTierOutOfRange = errors.New("no tier at that position")
)

// RuleWriter is the slice of the API client the editor submits through.
type RuleWriter interface {
	CreateRule(ctx context.Context, input domain.EscalationRuleInput) (*domain.EscalationRule, error)
	UpdateRule(ctx context.Context, id string, patch domain.EscalationRulePatch) (*domain.EscalationRule, error)
}

// RuleEditor holds a draft escalation rule being created or edited. A zero
// rule id means create mode; otherwise Submit updates the existing rule. The
// rule id is fixed at construction and never editable.
type RuleEditor struct {
	writer RuleWriter

	mu      sync.Mutex
	ruleID  string
	draft   domain.EscalationRuleInput
	errs    *domain.RuleValidationErrors
	pending bool
}

// NewRuleEditor starts a create-mode editor with an empty draft.
func NewRuleEditor(writer RuleWriter) *RuleEditor {
	return &RuleEditor{writer: writer}
}

// NewRuleEditorFor starts an edit-mode editor seeded from an existing rule.
func NewRuleEditorFor(writer RuleWriter, rule domain.EscalationRule) *RuleEditor {
	e := &RuleEditor{writer: writer, ruleID: rule.ID}
	e.draft = domain.EscalationRuleInput{
		Name:                 rule.Name,
		Description:          rule.Description,
		Priority:             rule.Priority,
		TimeThresholdMinutes: rule.TimeThresholdMinutes,
	}
	for _, tier := range rule.TiersByLevel() {
		e.draft.Tiers = append(e.draft.Tiers, domain.TierInput{
			Level:          tier.Level,
			AssigneeRoleID: tier.AssigneeRoleID,
			SLAHours:       tier.SLAHours,
		})
	}
	return e
}

// RuleID returns the id being edited, empty in create mode.
func (e *RuleEditor) RuleID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ruleID
}

// Pending reports whether a submission is in flight.
func (e *RuleEditor) Pending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending
}

// Draft returns a copy of the current draft.
func (e *RuleEditor) Draft() domain.EscalationRuleInput {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draftCopy()
}

// ValidationErrors returns the field errors from the last failed validation,
// nil when the last validation passed or none has run.
func (e *RuleEditor) ValidationErrors() *domain.RuleValidationErrors {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.errs
}

func (e *RuleEditor) SetName(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.Name = name
}

func (e *RuleEditor) SetDescription(description string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.Description = description
}

func (e *RuleEditor) SetPriority(priority domain.Priority) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.Priority = priority
}

func (e *RuleEditor) SetTimeThreshold(minutes int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.TimeThresholdMinutes = minutes
}

// AddTier appends an empty tier at the next sequential level and returns its
// index in the draft.
func (e *RuleEditor) AddTier() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	level := 0
	for _, tier := range e.draft.Tiers {
		if tier.Level > level {
			level = tier.Level
		}
	}
	e.draft.Tiers = append(e.draft.Tiers, domain.TierInput{Level: level + 1})
	return len(e.draft.Tiers) - 1
}

// SetTier fills in the tier at index i.
func (e *RuleEditor) SetTier(i int, assigneeRoleID string, slaHours float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i < 0 || i >= len(e.draft.Tiers) {
		return ErrTierOutOfRange
	}
	e.draft.Tiers[i].AssigneeRoleID = assigneeRoleID
	e.draft.Tiers[i].SLAHours = slaHours
	return nil
}

// RemoveTier drops the tier at index i. The last remaining tier cannot be
// removed.
func (e *RuleEditor) RemoveTier(i int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i < 0 || i >= len(e.draft.Tiers) {
		return ErrTierOutOfRange
	}
	if len(e.draft.Tiers) == 1 {
		return ErrLastTier
	}
	e.draft.Tiers = append(e.draft.Tiers[:i], e.draft.Tiers[i+1:]...)
	return nil
}

// Submit validates the draft and sends it exactly once: create when no rule
// id is set, full-field update otherwise. While a submission is in flight
// further Submit calls fail with ErrSubmitPending.
func (e *RuleEditor) Submit(ctx context.Context) (*domain.EscalationRule, error) {
	e.mu.Lock()
	if e.pending {
		e.mu.Unlock()
		return nil, ErrSubmitPending
	}
	draft := e.draftCopy()
	if errs := draft.Validate(); errs != nil {
		e.errs = errs
		e.mu.Unlock()
		return nil, ErrInvalidDraft
	}
	e.errs = nil
	e.pending = true
	id := e.ruleID
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.pending = false
		e.mu.Unlock()
	}()

	if id == "" {
		return e.writer.CreateRule(ctx, draft)
	}
	return e.writer.UpdateRule(ctx, id, domain.EscalationRulePatch{
		Name:                 &draft.Name,
		Description:          &draft.Description,
		Priority:             &draft.Priority,
		TimeThresholdMinutes: &draft.TimeThresholdMinutes,
		Tiers:                draft.Tiers,
	})
}

func (e *RuleEditor) draftCopy() domain.EscalationRuleInput {
	draft := e.draft
	draft.Tiers = append([]domain.TierInput(nil), e.draft.Tiers...)
	return draft
}
