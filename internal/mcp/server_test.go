package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opentalent/talentgraph/internal/models"
	"github.com/opentalent/talentgraph/internal/roster"
	"github.com/opentalent/talentgraph/internal/search"
	"github.com/opentalent/talentgraph/internal/store"
)

// newMCPServer returns a Server backed by a MockStore.
func newMCPServer(t *testing.T) (*Server, *store.MockStore) {
	t.Helper()
	st := store.NewMockStore()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	ros := roster.NewService(st, logger)
	searcher := search.NewSearcher(st, search.Weights{Skill: 10, Role: 5, Company: 5}, 0, logger)
	return NewServer(st, ros, searcher, logger), st
}

// makeReq builds a CallToolRequest with the given string/number/bool arguments.
func makeReq(toolName string, args map[string]any) mcpgo.CallToolRequest {
	req := mcpgo.CallToolRequest{}
	req.Params.Name = toolName
	req.Params.Arguments = args
	return req
}

// textContent extracts the first TextContent string from a CallToolResult.
func textContent(t *testing.T, result *mcpgo.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content, "expected at least one content item")
	tc, ok := result.Content[0].(mcpgo.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return tc.Text
}

func seedConsultantWithSkill(t *testing.T, st *store.MockStore) *models.Consultant {
	t.Helper()
	ctx := context.Background()
	_, err := st.CreateSkill(ctx, models.Skill{ID: "s-go", Name: "Go"})
	require.NoError(t, err)
	c, err := st.CreateConsultant(ctx, models.Consultant{
		ID:              "c1",
		Name:            "Ada",
		Email:           "ada@example.com",
		Availability:    true,
		WantsNewProject: true,
		Skills:          []models.HasSkill{{SkillID: "s-go", YearsOfExperience: 5}},
	})
	require.NoError(t, err)
	return c
}

// --- search_consultants tests ---

func TestMCPSearchConsultants(t *testing.T) {
	srv, st := newMCPServer(t)
	ctx := context.Background()
	seedConsultantWithSkill(t, st)

	result, err := srv.HandleSearchConsultants(ctx, makeReq("search_consultants", map[string]any{
		"skills": "Go",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, "search returned error: %s", textContent(t, result))

	var out struct {
		Count   int                       `json:"count"`
		Results []search.RankedConsultant `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &out))
	require.Equal(t, 1, out.Count)
	assert.Equal(t, "c1", out.Results[0].Consultant.ID)
	assert.Equal(t, 10, out.Results[0].Score)
}

func TestMCPSearchConsultants_BooleanGates(t *testing.T) {
	srv, st := newMCPServer(t)
	ctx := context.Background()
	seedConsultantWithSkill(t, st)

	// wants_new_project=false is a supplied gate, not an absent one.
	result, err := srv.HandleSearchConsultants(ctx, makeReq("search_consultants", map[string]any{
		"skills":            "Go",
		"wants_new_project": false,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var out struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &out))
	assert.Equal(t, 0, out.Count, "consultant wants a new project, gate requires not")
}

func TestMCPSearchConsultants_InvalidDate(t *testing.T) {
	srv, _ := newMCPServer(t)

	result, err := srv.HandleSearchConsultants(context.Background(), makeReq("search_consultants", map[string]any{
		"start_date": "junk",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

// --- get_consultant tests ---

func TestMCPGetConsultant(t *testing.T) {
	srv, st := newMCPServer(t)
	ctx := context.Background()
	seedConsultantWithSkill(t, st)

	result, err := srv.HandleGetConsultant(ctx, makeReq("get_consultant", map[string]any{"id": "c1"}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var c models.Consultant
	require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &c))
	assert.Equal(t, "Ada", c.Name)
	require.Len(t, c.Skills, 1)
	assert.Equal(t, "Go", c.Skills[0].SkillName)
}

func TestMCPGetConsultant_MissingID(t *testing.T) {
	srv, _ := newMCPServer(t)

	result, err := srv.HandleGetConsultant(context.Background(), makeReq("get_consultant", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

// --- assign_project / deactivate_assignment tests ---

func TestMCPAssignProject(t *testing.T) {
	srv, st := newMCPServer(t)
	ctx := context.Background()
	seedConsultantWithSkill(t, st)
	_, err := st.CreateProject(ctx, models.Project{ID: "p1", Name: "Portal"})
	require.NoError(t, err)

	result, err := srv.HandleAssignProject(ctx, makeReq("assign_project", map[string]any{
		"consultant_id":      "c1",
		"project_id":         "p1",
		"role":               "Backend Developer",
		"allocation_percent": 80,
		"start_date":         "2026-01-01",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, "assign returned error: %s", textContent(t, result))

	var c models.Consultant
	require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &c))
	assert.False(t, c.Availability)
	require.Len(t, c.Assignments, 1)
	assert.Equal(t, 80, c.Assignments[0].AllocationPercent)
	require.NotNil(t, c.Assignments[0].StartDate)
}

func TestMCPAssignProject_MissingRole(t *testing.T) {
	srv, st := newMCPServer(t)
	ctx := context.Background()
	seedConsultantWithSkill(t, st)
	_, err := st.CreateProject(ctx, models.Project{ID: "p1", Name: "Portal"})
	require.NoError(t, err)

	result, err := srv.HandleAssignProject(ctx, makeReq("assign_project", map[string]any{
		"consultant_id": "c1",
		"project_id":    "p1",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestMCPDeactivateAssignment(t *testing.T) {
	srv, st := newMCPServer(t)
	ctx := context.Background()
	seedConsultantWithSkill(t, st)
	_, err := st.CreateProject(ctx, models.Project{ID: "p1", Name: "Portal"})
	require.NoError(t, err)

	result, err := srv.HandleAssignProject(ctx, makeReq("assign_project", map[string]any{
		"consultant_id": "c1",
		"project_id":    "p1",
		"role":          "Dev",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	result, err = srv.HandleDeactivateAssignment(ctx, makeReq("deactivate_assignment", map[string]any{
		"consultant_id": "c1",
		"project_id":    "p1",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var c models.Consultant
	require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &c))
	assert.True(t, c.Availability)
	require.Len(t, c.Assignments, 1)
	assert.False(t, c.Assignments[0].IsActive)
}

// --- stats tests ---

func TestMCPStats(t *testing.T) {
	srv, st := newMCPServer(t)
	ctx := context.Background()
	seedConsultantWithSkill(t, st)

	result, err := srv.HandleStats(ctx, makeReq("stats", nil))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var stats models.GraphStats
	require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &stats))
	assert.Equal(t, int64(1), stats.Consultants)
	assert.Equal(t, int64(1), stats.Skills)
}

func TestMCPNilStore(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	srv := NewServer(nil, nil, nil, logger)

	result, err := srv.HandleStats(context.Background(), makeReq("stats", nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
