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
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// EscalationService coordinates escalation rule workflows: validation, role
// resolution, persistence and cache invalidation.
type EscalationService struct {
	rules      repository.EscalationRuleRepository
	roles      repository.RoleRepository
	cache      *persistence.RuleCache
	dispatcher events.Dispatcher
}

// EscalationDependencies bundles collaborators for the service.
type EscalationDependencies struct {
	RuleRepo   repository.EscalationRuleRepository
	RoleRepo   repository.RoleRepository
	Cache      *persistence.RuleCache
	Dispatcher events.Dispatcher
}

// NewEscalationService constructs the service.
func NewEscalationService(deps EscalationDependencies) *EscalationService {
	return &EscalationService{
		rules:      deps.RuleRepo,
		roles:      deps.RoleRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
	}
}

// ListRules returns the full rule collection, served from the cache when warm.
func (s *EscalationService) ListRules(ctx context.Context) ([]domain.EscalationRule, error) {
	if rules, ok := s.cache.GetCollection(ctx); ok {
		return rules, nil
	}
	rules, err := s.rules.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if rules == nil {
		rules = []domain.EscalationRule{}
	}
	s.cache.SetCollection(ctx, rules)
	return rules, nil
}

// GetRule fetches a single rule by id, served from the cache when warm.
func (s *EscalationService) GetRule(ctx context.Context, id string) (*domain.EscalationRule, error) {
	if rule, ok := s.cache.GetRule(ctx, id); ok {
		return rule, nil
	}
	rule, err := s.rules.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("escalation rule", map[string]any{"ruleId": id})
		}
		return nil, apperrors.MapError(err)
	}
	s.cache.SetRule(ctx, rule)
	return rule, nil
}

// CreateRule validates input, verifies tier roles exist and persists the rule.
func (s *EscalationService) CreateRule(ctx context.Context, input domain.EscalationRuleInput) (*domain.EscalationRule, error) {
	if errs := input.Validate(); errs != nil {
		return nil, validationFailed(errs)
	}
	if err := s.resolveTierRoles(ctx, input.Tiers); err != nil {
		return nil, err
	}

	rule := &domain.EscalationRule{
		Name:                 strings.TrimSpace(input.Name),
		Description:          strings.TrimSpace(input.Description),
		Priority:             input.Priority,
		TimeThresholdMinutes: input.TimeThresholdMinutes,
		Tiers:                tiersFromInput(input.Tiers),
	}
	if err := s.rules.Create(ctx, rule); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.cache.Invalidate(ctx, "")
	s.publish(ctx, events.EventRuleCreated, rule.ID, events.RuleChangedPayload{
		RuleID:   rule.ID,
		Name:     rule.Name,
		Priority: rule.Priority,
		Tiers:    len(rule.Tiers),
	})
	return rule, nil
}

// UpdateRule applies a partial update to an existing rule. The merged result
// must still satisfy the full create contract. Updating a rule deleted by
// another session surfaces as not-found rather than silently failing.
func (s *EscalationService) UpdateRule(ctx context.Context, id string, input domain.EscalationRulePatch) (*domain.EscalationRule, error) {
	existing, err := s.GetRule(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := domain.EscalationRuleInput{
		Name:                 existing.Name,
		Description:          existing.Description,
		Priority:             existing.Priority,
		TimeThresholdMinutes: existing.TimeThresholdMinutes,
		Tiers:                tierInputs(existing.Tiers),
	}
	if input.Name != nil {
		merged.Name = *input.Name
	}
	if input.Description != nil {
		merged.Description = *input.Description
	}
	if input.Priority != nil {
		merged.Priority = *input.Priority
	}
	if input.TimeThresholdMinutes != nil {
		merged.TimeThresholdMinutes = *input.TimeThresholdMinutes
	}
	if input.Tiers != nil {
		merged.Tiers = input.Tiers
	}

	if errs := merged.Validate(); errs != nil {
		return nil, validationFailed(errs)
	}
	if err := s.resolveTierRoles(ctx, merged.Tiers); err != nil {
		return nil, err
	}

	existing.Name = strings.TrimSpace(merged.Name)
	existing.Description = strings.TrimSpace(merged.Description)
	existing.Priority = merged.Priority
	existing.TimeThresholdMinutes = merged.TimeThresholdMinutes
	existing.Tiers = tiersFromInput(merged.Tiers)

	if err := s.rules.Update(ctx, existing); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("escalation rule", map[string]any{"ruleId": id})
		}
		return nil, apperrors.MapError(err)
	}
	s.cache.Invalidate(ctx, id)
	s.publish(ctx, events.EventRuleUpdated, id, events.RuleChangedPayload{
		RuleID:   id,
		Name:     existing.Name,
		Priority: existing.Priority,
		Tiers:    len(existing.Tiers),
	})
	return existing, nil
}

// DeleteRule removes a rule and its tiers.
func (s *EscalationService) DeleteRule(ctx context.Context, id string) error {
	if err := s.rules.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("escalation rule", map[string]any{"ruleId": id})
		}
		return apperrors.MapError(err)
	}
	s.cache.Invalidate(ctx, id)
	s.publish(ctx, events.EventRuleDeleted, id, events.RuleChangedPayload{RuleID: id})
	return nil
}

func (s *EscalationService) resolveTierRoles(ctx context.Context, tiers []domain.TierInput) error {
	seen := map[string]bool{}
	for _, tier := range tiers {
		if seen[tier.AssigneeRoleID] {
			continue
		}
		if _, err := s.roles.GetByID(ctx, tier.AssigneeRoleID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewValidationError("unknown assignee role",
					map[string]any{"assigneeRoleId": tier.AssigneeRoleID})
			}
			return apperrors.MapError(err)
		}
		seen[tier.AssigneeRoleID] = true
	}
	return nil
}

func (s *EscalationService) publish(ctx context.Context, eventType events.EventType, subject string, payload any) {
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

func validationFailed(errs *domain.RuleValidationErrors) error {
	return apperrors.NewValidationError("escalation rule validation failed",
		map[string]any{"fieldErrors": errs})
}

func tiersFromInput(inputs []domain.TierInput) []domain.Tier {
	tiers := make([]domain.Tier, 0, len(inputs))
	for _, in := range inputs {
		tiers = append(tiers, domain.Tier{
			Level:          in.Level,
			AssigneeRoleID: in.AssigneeRoleID,
			SLAHours:       in.SLAHours,
		})
	}
	return tiers
}

func tierInputs(tiers []domain.Tier) []domain.TierInput {
	inputs := make([]domain.TierInput, 0, len(tiers))
	for _, tier := range tiers {
		inputs = append(inputs, domain.TierInput{
			Level:          tier.Level,
			AssigneeRoleID: tier.AssigneeRoleID,
			SLAHours:       tier.SLAHours,
		})
	}
	return inputs
}
