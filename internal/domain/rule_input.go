package domain

import "strings"

// TierInput is client-supplied tier data prior to persistence.
type TierInput struct {
	Level          int     `json:"level"`
	AssigneeRoleID string  `json:"assigneeRoleId"`
	SLAHours       float64 `json:"slaHours"`
}

// EscalationRuleInput is the payload accepted by create and update. Update
// treats it as partial; Validate covers the full-create contract.
type EscalationRuleInput struct {
	Name                 string      `json:"name"`
	Description          string      `json:"description,omitempty"`
	Priority             Priority    `json:"priority"`
	TimeThresholdMinutes int         `json:"timeThresholdMinutes"`
	Tiers                []TierInput `json:"tiers"`
}

// EscalationRulePatch is the partial payload accepted by update. Nil fields
// keep the stored value; a non-nil Tiers replaces the whole tier set.
type EscalationRulePatch struct {
	Name                 *string     `json:"name,omitempty"`
	Description          *string     `json:"description,omitempty"`
	Priority             *Priority   `json:"priority,omitempty"`
	TimeThresholdMinutes *int        `json:"timeThresholdMinutes,omitempty"`
	Tiers                []TierInput `json:"tiers,omitempty"`
}

// TierErrors holds field messages for a single tier.
type TierErrors struct {
	Level          string `json:"level,omitempty"`
	AssigneeRoleID string `json:"assigneeRoleId,omitempty"`
	SLAHours       string `json:"slaHours,omitempty"`
}

func (e TierErrors) empty() bool {
	return e == TierErrors{}
}

// RuleValidationErrors collects field messages for a rule. Tier errors are
// indexed by the tier's position in the input slice.
type RuleValidationErrors struct {
	Name          string             `json:"name,omitempty"`
	Priority      string             `json:"priority,omitempty"`
	TimeThreshold string             `json:"timeThresholdMinutes,omitempty"`
	Tiers         string             `json:"tiers,omitempty"`
	TierErrors    map[int]TierErrors `json:"tierErrors,omitempty"`
}

// Any reports whether at least one field failed.
func (e *RuleValidationErrors) Any() bool {
	if e == nil {
		return false
	}
	return e.Name != "" || e.Priority != "" || e.TimeThreshold != "" ||
		e.Tiers != "" || len(e.TierErrors) > 0
}

func (e *RuleValidationErrors) tier(i int) TierErrors {
	return e.TierErrors[i]
}

func (e *RuleValidationErrors) setTier(i int, te TierErrors) {
	if te.empty() {
		return
	}
	if e.TierErrors == nil {
		e.TierErrors = map[int]TierErrors{}
	}
	e.TierErrors[i] = te
}

// Validation messages surfaced to callers verbatim.
const (
	MsgRuleNameRequired     = "Rule name is required"
	MsgTiersRequired        = "At least one tier is required"
	MsgAssigneeRoleRequired = "Assignee role is required"
	MsgSLAHoursPositive     = "SLA hours must be greater than 0"
	MsgTimeThresholdInvalid = "Time threshold must be a positive integer"
	MsgTierLevelPositive    = "Tier level must be a positive integer"
	MsgPriorityInvalid      = "Priority must be one of low, medium, high, urgent"
)

// Validate checks the full create contract. Pure and synchronous; performs no
// I/O. Returns nil when the input is acceptable. Whether assigneeRoleId
// resolves to a real role is checked separately at persistence time.
func (in EscalationRuleInput) Validate() *RuleValidationErrors {
	errs := &RuleValidationErrors{}

	if strings.TrimSpace(in.Name) == "" {
		errs.Name = MsgRuleNameRequired
	}
	if !in.Priority.Valid() {
		errs.Priority = MsgPriorityInvalid
	}
	if in.TimeThresholdMinutes <= 0 {
		errs.TimeThreshold = MsgTimeThresholdInvalid
	}
	if len(in.Tiers) == 0 {
		errs.Tiers = MsgTiersRequired
	}
	for i, tier := range in.Tiers {
		te := TierErrors{}
		if tier.Level <= 0 {
			te.Level = MsgTierLevelPositive
		}
		if strings.TrimSpace(tier.AssigneeRoleID) == "" {
			te.AssigneeRoleID = MsgAssigneeRoleRequired
		}
		if tier.SLAHours <= 0 {
			te.SLAHours = MsgSLAHoursPositive
		}
		errs.setTier(i, te)
	}

	if !errs.Any() {
		return nil
	}
	return errs
}
