package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// EscalationSweeper walks open tickets against the rule collection and raises
// their escalation level when a rule's time threshold and tier SLAs say so.
type EscalationSweeper struct {
	rules      *EscalationService
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	batchSize  int
}

// NewEscalationSweeper constructs the sweeper.
func NewEscalationSweeper(rules *EscalationService, tickets repository.TicketRepository, dispatcher events.Dispatcher, logger *zap.Logger, batchSize int) *EscalationSweeper {
	if batchSize <= 0 {
		batchSize = 200
	}
	return &EscalationSweeper{
		rules:      rules,
		tickets:    tickets,
		dispatcher: dispatcher,
		logger:     logger,
		batchSize:  batchSize,
	}
}

// Sweep runs one escalation pass and returns how many tickets were escalated.
func (s *EscalationSweeper) Sweep(ctx context.Context) (int, error) {
	rules, err := s.rules.ListRules(ctx)
	if err != nil {
		return 0, err
	}
	if len(rules) == 0 {
		return 0, nil
	}

	byPriority := map[domain.Priority][]domain.EscalationRule{}
	minThreshold := 0
	for _, rule := range rules {
		byPriority[rule.Priority] = append(byPriority[rule.Priority], rule)
		if minThreshold == 0 || rule.TimeThresholdMinutes < minThreshold {
			minThreshold = rule.TimeThresholdMinutes
		}
	}

	now := time.Now()
	cutoff := now.Add(-time.Duration(minThreshold) * time.Minute)
	tickets, err := s.tickets.ListOpenCreatedBefore(ctx, cutoff, s.batchSize)
	if err != nil {
		return 0, err
	}

	escalated := 0
	for i := range tickets {
		ticket := &tickets[i]
		rule, tier, ok := deepestActiveTier(byPriority[ticket.Priority], now.Sub(ticket.CreatedAt))
		if !ok || tier.Level <= ticket.EscalationLevel {
			continue
		}
		if err := s.tickets.UpdateEscalation(ctx, ticket.ID, tier.Level, tier.AssigneeRoleID); err != nil {
			s.logger.Warn("escalation update failed",
				zap.String("ticket_id", ticket.ID), zap.Error(err))
			continue
		}
		escalated++
		s.publishEscalated(ctx, ticket.ID, rule, tier)
	}

	if escalated > 0 {
		s.logger.Info("escalation sweep complete",
			zap.Int("candidates", len(tickets)), zap.Int("escalated", escalated))
	}
	return escalated, nil
}

// deepestActiveTier evaluates every rule for the ticket's priority and keeps
// the deepest tier any of them has reached.
func deepestActiveTier(rules []domain.EscalationRule, openFor time.Duration) (domain.EscalationRule, domain.Tier, bool) {
	var (
		bestRule domain.EscalationRule
		bestTier domain.Tier
		found    bool
	)
	for _, rule := range rules {
		tier, ok := rule.ActiveTier(openFor)
		if !ok {
			continue
		}
		if !found || tier.Level > bestTier.Level {
			bestRule = rule
			bestTier = tier
			found = true
		}
	}
	return bestRule, bestTier, found
}

func (s *EscalationSweeper) publishEscalated(ctx context.Context, ticketID string, rule domain.EscalationRule, tier domain.Tier) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketEscalated,
		Subject:   ticketID,
		Timestamp: time.Now(),
		Payload: events.TicketEscalatedPayload{
			RuleID:         rule.ID,
			RuleName:       rule.Name,
			Level:          tier.Level,
			AssigneeRoleID: tier.AssigneeRoleID,
			SLAHours:       tier.SLAHours,
		},
	})
}
