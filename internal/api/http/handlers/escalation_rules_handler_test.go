package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// stubRuleRepo keeps rules in memory, enough to drive the handler.
type stubRuleRepo struct {
	rules map[string]*domain.EscalationRule
	next  int
}

func newStubRuleRepo() *stubRuleRepo {
	return &stubRuleRepo{rules: map[string]*domain.EscalationRule{}}
}

func (r *stubRuleRepo) Create(_ context.Context, rule *domain.EscalationRule) error {
	r.next++
	rule.ID = "rule" + string(rune('0'+r.next))
	stored := *rule
	r.rules[rule.ID] = &stored
	return nil
}

func (r *stubRuleRepo) Update(_ context.Context, rule *domain.EscalationRule) error {
	if _, ok := r.rules[rule.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *rule
	r.rules[rule.ID] = &stored
	return nil
}

func (r *stubRuleRepo) GetByID(_ context.Context, id string) (*domain.EscalationRule, error) {
	rule, ok := r.rules[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *rule
	return &copied, nil
}

func (r *stubRuleRepo) List(_ context.Context) ([]domain.EscalationRule, error) {
	out := make([]domain.EscalationRule, 0, len(r.rules))
	for _, rule := range r.rules {
		out = append(out, *rule)
	}
	return out, nil
}

func (r *stubRuleRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.rules[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.rules, id)
	return nil
}

// stubRoleRepo resolves every role id it was seeded with.
type stubRoleRepo struct {
	known map[string]bool
}

func (r *stubRoleRepo) Create(context.Context, *domain.Role) error { return nil }
func (r *stubRoleRepo) Update(context.Context, *domain.Role) error { return nil }
func (r *stubRoleRepo) Delete(context.Context, string) error       { return nil }
func (r *stubRoleRepo) List(context.Context) ([]domain.Role, error) {
	return nil, nil
}
func (r *stubRoleRepo) TierReferences(context.Context, string) (int, error) { return 0, nil }
func (r *stubRoleRepo) GetByID(_ context.Context, id string) (*domain.Role, error) {
	if !r.known[id] {
		return nil, pgx.ErrNoRows
	}
	return &domain.Role{ID: id}, nil
}

func newRulesApp() (*fiber.App, *stubRuleRepo) {
	repo := newStubRuleRepo()
	svc := service.NewEscalationService(service.EscalationDependencies{
		RuleRepo: repo,
		RoleRepo: &stubRoleRepo{known: map[string]bool{"role1": true, "role2": true}},
	})
	handler := NewEscalationRulesHandler(svc)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		err := c.Next()
		if err == nil {
			return nil
		}
		domainErr := apperrors.ToDomainError(err)
		response := fiber.Map{"error": fiber.Map{
			"code":    domainErr.Code,
			"message": domainErr.Message,
		}}
		if len(domainErr.Details) > 0 {
			response["error"].(fiber.Map)["details"] = domainErr.Details
		}
		return c.Status(domainErr.HTTPStatus).JSON(response)
	})
	app.Get("/escalation-rules", handler.ListRules)
	app.Post("/escalation-rules", handler.CreateRule)
	app.Get("/escalation-rules/:id", handler.GetRule)
	app.Put("/escalation-rules/:id", handler.UpdateRule)
	app.Delete("/escalation-rules/:id", handler.DeleteRule)
	return app, repo
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}

const validRuleBody = `{
	"name": "High Priority Issues",
	"priority": "high",
	"timeThresholdMinutes": 60,
	"tiers": [
		{"level": 1, "assigneeRoleId": "role1", "slaHours": 4},
		{"level": 2, "assigneeRoleId": "role2", "slaHours": 8}
	]
}`

func TestCreateRuleReturns201(t *testing.T) {
	app, _ := newRulesApp()

	resp, err := app.Test(jsonRequest(http.MethodPost, "/escalation-rules", validRuleBody))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var rule domain.EscalationRule
	decodeBody(t, resp, &rule)
	assert.NotEmpty(t, rule.ID)
	assert.Equal(t, "High Priority Issues", rule.Name)
	assert.Len(t, rule.Tiers, 2)
}

func TestCreateRuleValidationErrorEnvelope(t *testing.T) {
	app, _ := newRulesApp()

	resp, err := app.Test(jsonRequest(http.MethodPost, "/escalation-rules", `{"name": ""}`))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				FieldErrors domain.RuleValidationErrors `json:"fieldErrors"`
			} `json:"details"`
		} `json:"error"`
	}
	decodeBody(t, resp, &envelope)
	assert.Equal(t, "VALIDATION_FAILED", envelope.Error.Code)
	assert.Equal(t, domain.MsgRuleNameRequired, envelope.Error.Details.FieldErrors.Name)
	assert.Equal(t, domain.MsgTiersRequired, envelope.Error.Details.FieldErrors.Tiers)
}

func TestGetRuleNotFoundMessage(t *testing.T) {
	app, _ := newRulesApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/escalation-rules/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	decodeBody(t, resp, &envelope)
	assert.Equal(t, "escalation rule no longer exists", envelope.Error.Message)
}

func TestUpdateDeletedRuleReturns404(t *testing.T) {
	app, repo := newRulesApp()

	resp, err := app.Test(jsonRequest(http.MethodPost, "/escalation-rules", validRuleBody))
	require.NoError(t, err)
	var rule domain.EscalationRule
	decodeBody(t, resp, &rule)

	delete(repo.rules, rule.ID)

	resp, err = app.Test(jsonRequest(http.MethodPut, "/escalation-rules/"+rule.ID, `{"name": "Renamed"}`))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDeleteRuleReturns204(t *testing.T) {
	app, _ := newRulesApp()

	resp, err := app.Test(jsonRequest(http.MethodPost, "/escalation-rules", validRuleBody))
	require.NoError(t, err)
	var rule domain.EscalationRule
	decodeBody(t, resp, &rule)

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/escalation-rules/"+rule.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/escalation-rules/"+rule.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
