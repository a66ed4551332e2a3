package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// CatalogService manages the intake catalog: help topics and canned responses.
type CatalogService struct {
	topics repository.HelpTopicRepository
	canned repository.CannedResponseRepository
}

// HelpTopicInput is the payload for help topic create/update.
type HelpTopicInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

// CannedResponseInput is the payload for canned response create/update.
type CannedResponseInput struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// NewCatalogService constructs the service.
func NewCatalogService(topics repository.HelpTopicRepository, canned repository.CannedResponseRepository) *CatalogService {
	return &CatalogService{topics: topics, canned: canned}
}

// ListHelpTopics returns active help topics.
func (s *CatalogService) ListHelpTopics(ctx context.Context) ([]domain.HelpTopic, error) {
	topics, err := s.topics.ListActive(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if topics == nil {
		topics = []domain.HelpTopic{}
	}
	return topics, nil
}

// CreateHelpTopic persists a new help topic.
func (s *CatalogService) CreateHelpTopic(ctx context.Context, input HelpTopicInput) (*domain.HelpTopic, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("help topic name is required", nil)
	}
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	topic := &domain.HelpTopic{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		IsActive:    active,
	}
	if err := s.topics.Create(ctx, topic); err != nil {
		return nil, apperrors.MapError(err)
	}
	return topic, nil
}

// UpdateHelpTopic modifies an existing help topic.
func (s *CatalogService) UpdateHelpTopic(ctx context.Context, id string, input HelpTopicInput) (*domain.HelpTopic, error) {
	topic, err := s.topics.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("help topic", map[string]any{"helpTopicId": id})
		}
		return nil, apperrors.MapError(err)
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("help topic name is required", nil)
	}
	topic.Name = strings.TrimSpace(input.Name)
	topic.Description = strings.TrimSpace(input.Description)
	if input.IsActive != nil {
		topic.IsActive = *input.IsActive
	}
	if err := s.topics.Update(ctx, topic); err != nil {
		return nil, apperrors.MapError(err)
	}
	return topic, nil
}

// ListCannedResponses returns all reply templates.
func (s *CatalogService) ListCannedResponses(ctx context.Context) ([]domain.CannedResponse, error) {
	responses, err := s.canned.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if responses == nil {
		responses = []domain.CannedResponse{}
	}
	return responses, nil
}

// CreateCannedResponse persists a new reply template.
func (s *CatalogService) CreateCannedResponse(ctx context.Context, input CannedResponseInput) (*domain.CannedResponse, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Body) == "" {
		return nil, apperrors.NewValidationError("title and body are required", nil)
	}
	resp := &domain.CannedResponse{
		Title: strings.TrimSpace(input.Title),
		Body:  input.Body,
	}
	if err := s.canned.Create(ctx, resp); err != nil {
		return nil, apperrors.MapError(err)
	}
	return resp, nil
}

// UpdateCannedResponse modifies an existing reply template.
func (s *CatalogService) UpdateCannedResponse(ctx context.Context, id string, input CannedResponseInput) (*domain.CannedResponse, error) {
	resp, err := s.canned.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("canned response", map[string]any{"cannedResponseId": id})
		}
		return nil, apperrors.MapError(err)
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Body) == "" {
		return nil, apperrors.NewValidationError("title and body are required", nil)
	}
	resp.Title = strings.TrimSpace(input.Title)
	resp.Body = input.Body
	if err := s.canned.Update(ctx, resp); err != nil {
		return nil, apperrors.MapError(err)
	}
	return resp, nil
}

// DeleteCannedResponse removes a reply template.
func (s *CatalogService) DeleteCannedResponse(ctx context.Context, id string) error {
	if err := s.canned.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("canned response", map[string]any{"cannedResponseId": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}
