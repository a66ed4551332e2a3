package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

const (
	resourceRules = "escalation-rules"
	resourceRoles = "roles"
)

// ErrEmptyID is returned by id-addressed operations given a blank id, before
// any request is made.
var ErrEmptyID = errors.New("id is required")

// APIError carries a non-2xx response. Message is the server's message
// verbatim.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    map[string]any
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client talks to the helpdesk API. Reads are served from a local cache once
// fetched; writes invalidate the affected keys so the next read refetches.
// Requests are attempted exactly once, no retries.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	cache   *cache
}

// New constructs a Client for the API at baseURL. Every request is bounded by
// timeout on top of whatever deadline the caller's context carries.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		timeout: timeout,
		cache:   newCache(),
	}
}

// ListRules returns every escalation rule, from cache when warm. Callers
// always receive copies; mutating a returned rule never touches the cache.
func (c *Client) ListRules(ctx context.Context) ([]domain.EscalationRule, error) {
	if v, ok := c.cache.get(resourceRules, ""); ok {
		return cloneRules(v.([]domain.EscalationRule)), nil
	}
	var rules []domain.EscalationRule
	if err := c.do(ctx, http.MethodGet, "/escalation-rules", nil, &rules); err != nil {
		return nil, err
	}
	if rules == nil {
		rules = []domain.EscalationRule{}
	}
	c.cache.set(resourceRules, "", cloneRules(rules))
	return rules, nil
}

// GetRule fetches one rule by id, from cache when warm.
func (c *Client) GetRule(ctx context.Context, id string) (*domain.EscalationRule, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrEmptyID
	}
	if v, ok := c.cache.get(resourceRules, id); ok {
		rule := cloneRule(v.(domain.EscalationRule))
		return &rule, nil
	}
	var rule domain.EscalationRule
	if err := c.do(ctx, http.MethodGet, "/escalation-rules/"+id, nil, &rule); err != nil {
		return nil, err
	}
	c.cache.set(resourceRules, id, cloneRule(rule))
	return &rule, nil
}

// CreateRule posts a new rule and invalidates the cached collection.
func (c *Client) CreateRule(ctx context.Context, input domain.EscalationRuleInput) (*domain.EscalationRule, error) {
	var rule domain.EscalationRule
	if err := c.do(ctx, http.MethodPost, "/escalation-rules", input, &rule); err != nil {
		return nil, err
	}
	c.cache.invalidate(resourceRules, "")
	return &rule, nil
}

// UpdateRule applies a partial update and invalidates both the cached
// collection and the item entry.
func (c *Client) UpdateRule(ctx context.Context, id string, patch domain.EscalationRulePatch) (*domain.EscalationRule, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrEmptyID
	}
	var rule domain.EscalationRule
	if err := c.do(ctx, http.MethodPut, "/escalation-rules/"+id, patch, &rule); err != nil {
		return nil, err
	}
	c.cache.invalidate(resourceRules, "")
	c.cache.invalidate(resourceRules, id)
	return &rule, nil
}

// DeleteRule removes a rule and invalidates the cached collection.
func (c *Client) DeleteRule(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrEmptyID
	}
	if err := c.do(ctx, http.MethodDelete, "/escalation-rules/"+id, nil, nil); err != nil {
		return err
	}
	c.cache.invalidate(resourceRules, "")
	c.cache.invalidate(resourceRules, id)
	return nil
}

// ListRoles returns the role directory, from cache when warm.
func (c *Client) ListRoles(ctx context.Context) ([]domain.Role, error) {
	if v, ok := c.cache.get(resourceRoles, ""); ok {
		return append([]domain.Role(nil), v.([]domain.Role)...), nil
	}
	var roles []domain.Role
	if err := c.do(ctx, http.MethodGet, "/roles", nil, &roles); err != nil {
		return nil, err
	}
	if roles == nil {
		roles = []domain.Role{}
	}
	c.cache.set(resourceRoles, "", append([]domain.Role(nil), roles...))
	return roles, nil
}

// cloneRule copies a rule including its tier slice so cached state never
// aliases what callers hold.
func cloneRule(rule domain.EscalationRule) domain.EscalationRule {
	rule.Tiers = append([]domain.Tier(nil), rule.Tiers...)
	return rule
}

func cloneRules(rules []domain.EscalationRule) []domain.EscalationRule {
	out := make([]domain.EscalationRule, len(rules))
	for i := range rules {
		out[i] = cloneRule(rules[i])
	}
	return out
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var envelope struct {
		Error struct {
			Code    string         `json:"code"`
			Message string         `json:"message"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		apiErr.Details = envelope.Error.Details
	}
	return apiErr
}
