package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/client"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/view"
)

func init() {
	color.NoColor = true
}

type fakeAPI struct {
	*httptest.Server
	deletes int32
	posts   int32
	puts    int32
	deleted atomic.Bool
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	api := &fakeAPI{}
	rule := domain.EscalationRule{
		ID:                   "rule1",
		Name:                 "High Priority Issues",
		Priority:             domain.PriorityHigh,
		TimeThresholdMinutes: 60,
		Tiers: []domain.Tier{
			{Level: 1, AssigneeRoleID: "role1", SLAHours: 4},
			{Level: 2, AssigneeRoleID: "role2", SLAHours: 8},
		},
	}
	api.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/escalation-rules":
			rules := []domain.EscalationRule{}
			if !api.deleted.Load() {
				rules = append(rules, rule)
			}
			_ = json.NewEncoder(w).Encode(rules)
		case r.Method == http.MethodDelete && r.URL.Path == "/escalation-rules/rule1":
			atomic.AddInt32(&api.deletes, 1)
			api.deleted.Store(true)
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodGet && r.URL.Path == "/escalation-rules/rule1":
			_ = json.NewEncoder(w).Encode(rule)
		case r.Method == http.MethodGet && r.URL.Path == "/escalation-rules/rule0":
			_ = json.NewEncoder(w).Encode(domain.EscalationRule{
				ID:                   "rule0",
				Name:                 "Untiered Rule",
				Priority:             domain.PriorityLow,
				TimeThresholdMinutes: 15,
			})
		case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/escalation-rules/"):
			atomic.AddInt32(&api.puts, 1)
			var patch domain.EscalationRulePatch
			_ = json.NewDecoder(r.Body).Decode(&patch)
			updated := domain.EscalationRule{
				ID:                   strings.TrimPrefix(r.URL.Path, "/escalation-rules/"),
				Name:                 "Untiered Rule",
				Priority:             domain.PriorityLow,
				TimeThresholdMinutes: 15,
			}
			if patch.Name != nil {
				updated.Name = *patch.Name
			}
			for i, tier := range patch.Tiers {
				updated.Tiers = append(updated.Tiers, domain.Tier{
					Level:          i + 1,
					AssigneeRoleID: tier.AssigneeRoleID,
					SLAHours:       tier.SLAHours,
				})
			}
			_ = json.NewEncoder(w).Encode(updated)
		case r.Method == http.MethodPost && r.URL.Path == "/escalation-rules":
			atomic.AddInt32(&api.posts, 1)
			var input domain.EscalationRuleInput
			_ = json.NewDecoder(r.Body).Decode(&input)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(domain.EscalationRule{ID: "rule2", Name: input.Name})
		default:
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"code": "NOT_FOUND", "message": "escalation rule no longer exists"},
			})
		}
	}))
	t.Cleanup(api.Close)
	return api
}

func runCommand(t *testing.T, api *client.Client, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := RulesCmd(api)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDeleteDeclinedSendsNothing(t *testing.T) {
	server := newFakeAPI(t)
	api := client.New(server.URL, 5*time.Second)

	out, err := runCommand(t, api, "n\n", "delete", "rule1")
	require.NoError(t, err)
	assert.Contains(t, out, "Delete escalation rule rule1?")
	assert.Contains(t, out, "Cancelled.")
	assert.Zero(t, server.deletes)
}

func TestDeleteConfirmedSendsSingleDelete(t *testing.T) {
	server := newFakeAPI(t)
	api := client.New(server.URL, 5*time.Second)

	out, err := runCommand(t, api, "y\n", "delete", "rule1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted rule rule1")
	assert.Equal(t, int32(1), server.deletes)

	// the collection cache was invalidated, so the list is empty now
	listOut, err := runCommand(t, api, "", "list")
	require.NoError(t, err)
	assert.Contains(t, listOut, view.EmptyListMessage)
}

func TestDeleteWithYesFlagSkipsPrompt(t *testing.T) {
	server := newFakeAPI(t)
	api := client.New(server.URL, 5*time.Second)

	out, err := runCommand(t, api, "", "delete", "rule1", "--yes")
	require.NoError(t, err)
	assert.NotContains(t, out, "?")
	assert.Equal(t, int32(1), server.deletes)
}

func TestListCollapsedByDefault(t *testing.T) {
	server := newFakeAPI(t)
	api := client.New(server.URL, 5*time.Second)

	out, err := runCommand(t, api, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "High Priority Issues")
	assert.Contains(t, out, "[High]")
	assert.NotContains(t, out, "role1")

	expanded, err := runCommand(t, api, "", "list", "--expand")
	require.NoError(t, err)
	assert.Contains(t, expanded, "L1 -> role1 (SLA 4h)")
	assert.Contains(t, expanded, "L2 -> role2 (SLA 8h)")
}

func TestCreateSendsSinglePost(t *testing.T) {
	server := newFakeAPI(t)
	api := client.New(server.URL, 5*time.Second)

	out, err := runCommand(t, api, "",
		"create",
		"--name", "New Test Rule",
		"--priority", "medium",
		"--threshold", "30",
		"--tier", "role1:2")
	require.NoError(t, err)
	assert.Contains(t, out, "Created rule rule2: New Test Rule")
	assert.Equal(t, int32(1), server.posts)
}

func TestUpdateReplacesTierSet(t *testing.T) {
	server := newFakeAPI(t)
	api := client.New(server.URL, 5*time.Second)

	out, err := runCommand(t, api, "", "update", "rule1", "--tier", "role3:6")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated rule rule1")
	assert.Equal(t, int32(1), server.puts)
}

func TestUpdateTiersOnRuleWithoutAny(t *testing.T) {
	server := newFakeAPI(t)
	api := client.New(server.URL, 5*time.Second)

	out, err := runCommand(t, api, "", "update", "rule0", "--tier", "role1:2")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated rule rule0: Untiered Rule")
	assert.Equal(t, int32(1), server.puts)
}

func TestCreateInvalidDraftShowsFieldErrors(t *testing.T) {
	server := newFakeAPI(t)
	api := client.New(server.URL, 5*time.Second)

	_, err := runCommand(t, api, "", "create", "--priority", "medium")
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.MsgRuleNameRequired)
	assert.Zero(t, server.posts)
}

func TestCreateRejectsMalformedTierFlag(t *testing.T) {
	server := newFakeAPI(t)
	api := client.New(server.URL, 5*time.Second)

	_, err := runCommand(t, api, "", "create", "--name", "x", "--tier", "role1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected roleId:slaHours")
	assert.Zero(t, server.posts)
}
