package service

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

type ticketServiceMocks struct {
	tickets  *MockTicketRepository
	comments *MockCommentRepository
	topics   *MockHelpTopicRepository
	canned   *MockCannedResponseRepository
}

func newTicketService(dispatcher events.Dispatcher) (*TicketService, ticketServiceMocks) {
	mocks := ticketServiceMocks{
		tickets:  new(MockTicketRepository),
		comments: new(MockCommentRepository),
		topics:   new(MockHelpTopicRepository),
		canned:   new(MockCannedResponseRepository),
	}
	svc := NewTicketService(TicketDependencies{
		TicketRepo:  mocks.tickets,
		CommentRepo: mocks.comments,
		TopicRepo:   mocks.topics,
		CannedRepo:  mocks.canned,
		Dispatcher:  dispatcher,
	})
	return svc, mocks
}

func TestCreateTicketDefaultsToMediumPriority(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	svc, mocks := newTicketService(dispatcher)

	mocks.tickets.On("Create", mock.Anything, mock.AnythingOfType("*domain.Ticket")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Ticket).ID = "t1"
		}).Return(nil)

	ticket, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		RequesterName:  "Pat",
		RequesterEmail: "pat@example.com",
		Title:          "Printer is down",
		Description:    "Nothing prints since this morning",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.PriorityMedium, ticket.Priority)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.True(t, strings.HasPrefix(ticket.ExternalKey, "TCK-"))

	published := dispatcher.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventTicketCreated, published[0].Type)
}

func TestCreateTicketRequiresTitleAndEmail(t *testing.T) {
	svc, mocks := newTicketService(nil)

	_, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		RequesterEmail: "pat@example.com",
		Description:    "body",
	})
	require.Error(t, err)

	_, err = svc.CreateTicket(context.Background(), TicketCreateInput{
		Title:       "Printer is down",
		Description: "body",
	})
	require.Error(t, err)

	mocks.tickets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateTicketRejectsInactiveHelpTopic(t *testing.T) {
	svc, mocks := newTicketService(nil)

	topicID := "topic1"
	mocks.topics.On("GetByID", mock.Anything, topicID).
		Return(&domain.HelpTopic{ID: topicID, IsActive: false}, nil)

	_, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		RequesterEmail: "pat@example.com",
		HelpTopicID:    &topicID,
		Title:          "Printer is down",
		Description:    "body",
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestGetTicketFiltersInternalComments(t *testing.T) {
	svc, mocks := newTicketService(nil)

	mocks.tickets.On("GetByID", mock.Anything, "t1").
		Return(&domain.Ticket{ID: "t1"}, nil)
	mocks.comments.On("ListByTicket", mock.Anything, "t1").Return([]domain.Comment{
		{ID: "c1", Visibility: domain.CommentPublic},
		{ID: "c2", Visibility: domain.CommentInternal},
	}, nil)

	_, comments, err := svc.GetTicket(context.Background(), "t1", false)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "c1", comments[0].ID)

	_, comments, err = svc.GetTicket(context.Background(), "t1", true)
	require.NoError(t, err)
	assert.Len(t, comments, 2)
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	svc, mocks := newTicketService(nil)

	mocks.tickets.On("GetByID", mock.Anything, "t1").
		Return(&domain.Ticket{ID: "t1", Status: domain.TicketStatusOpen}, nil)

	_, err := svc.UpdateStatus(context.Background(), "t1", domain.TicketStatusClosed, "")
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
	mocks.tickets.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateStatusClosedSetsClosedAt(t *testing.T) {
	svc, mocks := newTicketService(nil)

	mocks.tickets.On("GetByID", mock.Anything, "t1").
		Return(&domain.Ticket{ID: "t1", Status: domain.TicketStatusResolved}, nil)
	mocks.tickets.On("Update", mock.Anything, mock.AnythingOfType("*domain.Ticket")).Return(nil)

	ticket, err := svc.UpdateStatus(context.Background(), "t1", domain.TicketStatusClosed, "done")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClosed, ticket.Status)
	require.NotNil(t, ticket.ClosedAt)
}

func TestAddCommentExpandsCannedResponse(t *testing.T) {
	svc, mocks := newTicketService(nil)

	cannedID := "canned1"
	mocks.tickets.On("GetByID", mock.Anything, "t1").
		Return(&domain.Ticket{ID: "t1"}, nil)
	mocks.canned.On("GetByID", mock.Anything, cannedID).
		Return(&domain.CannedResponse{ID: cannedID, Body: "Thanks, we are on it."}, nil)
	mocks.comments.On("Create", mock.Anything, mock.AnythingOfType("*domain.Comment")).Return(nil)

	comment, err := svc.AddComment(context.Background(), "t1", CommentInput{
		AuthorName:       "Agent",
		CannedResponseID: &cannedID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Thanks, we are on it.", comment.Body)
	assert.Equal(t, domain.CommentPublic, comment.Visibility)
}

func TestAddCommentRequiresBody(t *testing.T) {
	svc, mocks := newTicketService(nil)

	mocks.tickets.On("GetByID", mock.Anything, "t1").
		Return(&domain.Ticket{ID: "t1"}, nil)

	_, err := svc.AddComment(context.Background(), "t1", CommentInput{AuthorName: "Agent"})
	require.Error(t, err)
	mocks.comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAddCommentTicketNotFound(t *testing.T) {
	svc, mocks := newTicketService(nil)

	mocks.tickets.On("GetByID", mock.Anything, "missing").Return(nil, pgx.ErrNoRows)

	_, err := svc.AddComment(context.Background(), "missing", CommentInput{Body: "hello"})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}
