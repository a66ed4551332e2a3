package service

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// MockRuleRepository is a mock implementation of EscalationRuleRepository
type MockRuleRepository struct {
	mock.Mock
}

func (m *MockRuleRepository) Create(ctx context.Context, rule *domain.EscalationRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockRuleRepository) Update(ctx context.Context, rule *domain.EscalationRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockRuleRepository) GetByID(ctx context.Context, id string) (*domain.EscalationRule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EscalationRule), args.Error(1)
}

func (m *MockRuleRepository) List(ctx context.Context) ([]domain.EscalationRule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EscalationRule), args.Error(1)
}

func (m *MockRuleRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRoleRepository is a mock implementation of RoleRepository
type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) Create(ctx context.Context, role *domain.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *MockRoleRepository) Update(ctx context.Context, role *domain.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *MockRoleRepository) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Role), args.Error(1)
}

func (m *MockRoleRepository) List(ctx context.Context) ([]domain.Role, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Role), args.Error(1)
}

func (m *MockRoleRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRoleRepository) TierReferences(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

// MockTicketRepository is a mock implementation of TicketRepository
type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockTicketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) ListWithFilter(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) ListOpenCreatedBefore(ctx context.Context, cutoff time.Time, limit int) ([]domain.Ticket, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) UpdateEscalation(ctx context.Context, id string, level int, assigneeRoleID string) error {
	args := m.Called(ctx, id, level, assigneeRoleID)
	return args.Error(0)
}

// MockCommentRepository is a mock implementation of CommentRepository
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Comment, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Comment), args.Error(1)
}

// MockHelpTopicRepository is a mock implementation of HelpTopicRepository
type MockHelpTopicRepository struct {
	mock.Mock
}

func (m *MockHelpTopicRepository) Create(ctx context.Context, topic *domain.HelpTopic) error {
	args := m.Called(ctx, topic)
	return args.Error(0)
}

func (m *MockHelpTopicRepository) Update(ctx context.Context, topic *domain.HelpTopic) error {
	args := m.Called(ctx, topic)
	return args.Error(0)
}

func (m *MockHelpTopicRepository) GetByID(ctx context.Context, id string) (*domain.HelpTopic, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HelpTopic), args.Error(1)
}

func (m *MockHelpTopicRepository) ListActive(ctx context.Context) ([]domain.HelpTopic, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HelpTopic), args.Error(1)
}

// MockCannedResponseRepository is a mock implementation of CannedResponseRepository
type MockCannedResponseRepository struct {
	mock.Mock
}

func (m *MockCannedResponseRepository) Create(ctx context.Context, resp *domain.CannedResponse) error {
	args := m.Called(ctx, resp)
	return args.Error(0)
}

func (m *MockCannedResponseRepository) Update(ctx context.Context, resp *domain.CannedResponse) error {
	args := m.Called(ctx, resp)
	return args.Error(0)
}

func (m *MockCannedResponseRepository) GetByID(ctx context.Context, id string) (*domain.CannedResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CannedResponse), args.Error(1)
}

func (m *MockCannedResponseRepository) List(ctx context.Context) ([]domain.CannedResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CannedResponse), args.Error(1)
}

func (m *MockCannedResponseRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// recordingDispatcher captures published events for assertions.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) SubscribeAll([]events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) published() []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]events.Event(nil), d.events...)
}
