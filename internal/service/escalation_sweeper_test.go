package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
)

func sweepRule() domain.EscalationRule {
	return domain.EscalationRule{
		ID:                   "rule1",
		Name:                 "High Priority Issues",
		Priority:             domain.PriorityHigh,
		TimeThresholdMinutes: 60,
		Tiers: []domain.Tier{
			{Level: 1, AssigneeRoleID: "role1", SLAHours: 4},
			{Level: 2, AssigneeRoleID: "role2", SLAHours: 8},
		},
	}
}

func newSweeper(rules *MockRuleRepository, tickets *MockTicketRepository, dispatcher events.Dispatcher) *EscalationSweeper {
	svc := newEscalationService(rules, new(MockRoleRepository), nil)
	return NewEscalationSweeper(svc, tickets, dispatcher, zap.NewNop(), 100)
}

func TestSweepEscalatesOverdueTicket(t *testing.T) {
	rules := new(MockRuleRepository)
	tickets := new(MockTicketRepository)
	dispatcher := &recordingDispatcher{}
	sweeper := newSweeper(rules, tickets, dispatcher)

	rules.On("List", mock.Anything).Return([]domain.EscalationRule{sweepRule()}, nil)

	overdue := domain.Ticket{
		ID:        "t1",
		Priority:  domain.PriorityHigh,
		Status:    domain.TicketStatusOpen,
		CreatedAt: time.Now().Add(-2 * time.Hour),
	}
	tickets.On("ListOpenCreatedBefore", mock.Anything, mock.Anything, 100).
		Return([]domain.Ticket{overdue}, nil)
	tickets.On("UpdateEscalation", mock.Anything, "t1", 1, "role1").Return(nil)

	escalated, err := sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, escalated)

	published := dispatcher.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventTicketEscalated, published[0].Type)
	payload := published[0].Payload.(events.TicketEscalatedPayload)
	assert.Equal(t, "rule1", payload.RuleID)
	assert.Equal(t, 1, payload.Level)

	tickets.AssertExpectations(t)
}

func TestSweepSkipsTicketAlreadyAtLevel(t *testing.T) {
	rules := new(MockRuleRepository)
	tickets := new(MockTicketRepository)
	sweeper := newSweeper(rules, tickets, nil)

	rules.On("List", mock.Anything).Return([]domain.EscalationRule{sweepRule()}, nil)

	current := domain.Ticket{
		ID:              "t1",
		Priority:        domain.PriorityHigh,
		Status:          domain.TicketStatusOpen,
		EscalationLevel: 1,
		CreatedAt:       time.Now().Add(-2 * time.Hour),
	}
	tickets.On("ListOpenCreatedBefore", mock.Anything, mock.Anything, 100).
		Return([]domain.Ticket{current}, nil)

	escalated, err := sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, escalated)
	tickets.AssertNotCalled(t, "UpdateEscalation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSweepSkipsTicketWithoutMatchingRule(t *testing.T) {
	rules := new(MockRuleRepository)
	tickets := new(MockTicketRepository)
	sweeper := newSweeper(rules, tickets, nil)

	rules.On("List", mock.Anything).Return([]domain.EscalationRule{sweepRule()}, nil)

	lowPriority := domain.Ticket{
		ID:        "t2",
		Priority:  domain.PriorityLow,
		Status:    domain.TicketStatusOpen,
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}
	tickets.On("ListOpenCreatedBefore", mock.Anything, mock.Anything, 100).
		Return([]domain.Ticket{lowPriority}, nil)

	escalated, err := sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, escalated)
}

func TestSweepNoRulesIsNoop(t *testing.T) {
	rules := new(MockRuleRepository)
	tickets := new(MockTicketRepository)
	sweeper := newSweeper(rules, tickets, nil)

	rules.On("List", mock.Anything).Return([]domain.EscalationRule{}, nil)

	escalated, err := sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, escalated)
	tickets.AssertNotCalled(t, "ListOpenCreatedBefore", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeepestActiveTierAcrossRules(t *testing.T) {
	fast := sweepRule()
	fast.ID = "fast"
	fast.TimeThresholdMinutes = 30

	slow := sweepRule()
	slow.ID = "slow"
	slow.TimeThresholdMinutes = 240

	// 6h open: fast rule is past its first SLA window, slow rule just started
	rule, tier, ok := deepestActiveTier([]domain.EscalationRule{slow, fast}, 6*time.Hour)
	require.True(t, ok)
	assert.Equal(t, "fast", rule.ID)
	assert.Equal(t, 2, tier.Level)

	_, _, ok = deepestActiveTier([]domain.EscalationRule{slow, fast}, 10*time.Minute)
	assert.False(t, ok)
}
