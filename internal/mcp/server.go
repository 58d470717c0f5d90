// Package mcp implements the Model Context Protocol server for talentgraph.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/opentalent/talentgraph/internal/roster"
	"github.com/opentalent/talentgraph/internal/search"
	"github.com/opentalent/talentgraph/internal/store"
)

// Server wraps an MCPServer with talentgraph dependencies.
type Server struct {
	mcp      *mcpserver.MCPServer
	st       store.GraphStore
	roster   *roster.Service
	searcher *search.Searcher
	logger   *slog.Logger
}

// NewServer creates a new MCP server. If st is nil, tool calls return an
// error response instead of panicking.
func NewServer(st store.GraphStore, ros *roster.Service, searcher *search.Searcher, logger *slog.Logger) *Server {
	s := &Server{
		st:       st,
		roster:   ros,
		searcher: searcher,
		logger:   logger,
	}

	mcpSrv := mcpserver.NewMCPServer(
		"talentgraph",
		"1.0.0",
		mcpserver.WithToolCapabilities(true),
	)

	mcpSrv.AddTool(buildSearchConsultantsTool(), s.handleSearchConsultants)
	mcpSrv.AddTool(buildGetConsultantTool(), s.handleGetConsultant)
	mcpSrv.AddTool(buildAssignProjectTool(), s.handleAssignProject)
	mcpSrv.AddTool(buildDeactivateAssignmentTool(), s.handleDeactivateAssignment)
	mcpSrv.AddTool(buildStatsTool(), s.handleStats)

	s.mcp = mcpSrv
	return s
}

// MCPServer returns the underlying mcp-go MCPServer for use with ServeStdio.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcp
}

// HandleSearchConsultants is the exported handler for the "search_consultants"
// tool. It is exposed for direct testing without the mcp-go transport layer.
func (s *Server) HandleSearchConsultants(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleSearchConsultants(ctx, req)
}

// HandleGetConsultant is the exported handler for the "get_consultant" tool.
func (s *Server) HandleGetConsultant(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleGetConsultant(ctx, req)
}

// HandleAssignProject is the exported handler for the "assign_project" tool.
func (s *Server) HandleAssignProject(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleAssignProject(ctx, req)
}

// HandleDeactivateAssignment is the exported handler for the
// "deactivate_assignment" tool.
func (s *Server) HandleDeactivateAssignment(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleDeactivateAssignment(ctx, req)
}

// HandleStats is the exported handler for the "stats" tool.
func (s *Server) HandleStats(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleStats(ctx, req)
}

// --- helpers ---

// toolResultJSON marshals v to JSON and returns it as a tool text result.
func toolResultJSON(v any) (*mcpgo.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("mcp: marshaling result: %w", err)
	}
	return mcpgo.NewToolResultText(string(b)), nil
}

// splitList parses a comma-separated tool argument into trimmed values.
func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// parseDate accepts RFC 3339 timestamps or plain YYYY-MM-DD dates.
func parseDate(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: use YYYY-MM-DD or RFC 3339", raw)
	}
	return &t, nil
}

// --- tool definitions ---

func buildSearchConsultantsTool() mcpgo.Tool {
	return mcpgo.NewTool("search_consultants",
		mcpgo.WithDescription("Search consultants by skills, roles, previous companies and availability. Results are scored and sorted best match first."),
		mcpgo.WithString("skills",
			mcpgo.Description("Comma-separated skill names to match (primary names or synonyms)"),
		),
		mcpgo.WithString("roles",
			mcpgo.Description("Comma-separated role fragments to match against assignment roles"),
		),
		mcpgo.WithString("companies",
			mcpgo.Description("Comma-separated company names the consultant must have worked for"),
		),
		mcpgo.WithBoolean("availability",
			mcpgo.Description("Require the consultant to be available"),
		),
		mcpgo.WithBoolean("wants_new_project",
			mcpgo.Description("Require the consultant to want a new project"),
		),
		mcpgo.WithBoolean("open_to_remote",
			mcpgo.Description("Require the consultant to accept remote work"),
		),
		mcpgo.WithNumber("min_years_of_experience",
			mcpgo.Description("Minimum total years of experience"),
		),
		mcpgo.WithString("start_date",
			mcpgo.Description("Start of the engagement window (YYYY-MM-DD); requires availability=true"),
		),
		mcpgo.WithString("end_date",
			mcpgo.Description("End of the engagement window (YYYY-MM-DD)"),
		),
	)
}

func buildGetConsultantTool() mcpgo.Tool {
	return mcpgo.NewTool("get_consultant",
		mcpgo.WithDescription("Get a consultant by ID, including skills and project assignments."),
		mcpgo.WithString("id",
			mcpgo.Required(),
			mcpgo.Description("The ID of the consultant"),
		),
	)
}

func buildAssignProjectTool() mcpgo.Tool {
	return mcpgo.NewTool("assign_project",
		mcpgo.WithDescription("Assign a consultant to a project. Recomputes the consultant's availability."),
		mcpgo.WithString("consultant_id",
			mcpgo.Required(),
			mcpgo.Description("The ID of the consultant"),
		),
		mcpgo.WithString("project_id",
			mcpgo.Required(),
			mcpgo.Description("The ID of the project"),
		),
		mcpgo.WithString("role",
			mcpgo.Required(),
			mcpgo.Description("The role the consultant fills on the project"),
		),
		mcpgo.WithNumber("allocation_percent",
			mcpgo.Description("Allocation percentage 0-100 (default: 100)"),
		),
		mcpgo.WithString("start_date",
			mcpgo.Description("Assignment start date (YYYY-MM-DD)"),
		),
		mcpgo.WithString("end_date",
			mcpgo.Description("Assignment end date (YYYY-MM-DD); omit for open-ended"),
		),
	)
}

func buildDeactivateAssignmentTool() mcpgo.Tool {
	return mcpgo.NewTool("deactivate_assignment",
		mcpgo.WithDescription("Deactivate a consultant's project assignment and recompute availability. Idempotent."),
		mcpgo.WithString("consultant_id",
			mcpgo.Required(),
			mcpgo.Description("The ID of the consultant"),
		),
		mcpgo.WithString("project_id",
			mcpgo.Required(),
			mcpgo.Description("The ID of the project"),
		),
	)
}

func buildStatsTool() mcpgo.Tool {
	return mcpgo.NewTool("stats",
		mcpgo.WithDescription("Get graph statistics: consultant, skill, company, project and assignment counts."),
	)
}

// --- tool handlers ---

// handleSearchConsultants builds criteria from tool arguments and runs the
// scored search.
func (s *Server) handleSearchConsultants(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.searcher == nil {
		return mcpgo.NewToolResultError("searcher is unavailable"), nil
	}

	crit := search.Criteria{
		SkillNames:        splitList(req.GetString("skills", "")),
		Roles:             splitList(req.GetString("roles", "")),
		PreviousCompanies: splitList(req.GetString("companies", "")),
	}

	args := req.GetArguments()
	if _, ok := args["availability"]; ok {
		v := req.GetBool("availability", false)
		crit.Availability = &v
	}
	if _, ok := args["wants_new_project"]; ok {
		v := req.GetBool("wants_new_project", false)
		crit.WantsNewProject = &v
	}
	if _, ok := args["open_to_remote"]; ok {
		v := req.GetBool("open_to_remote", false)
		crit.OpenToRemote = &v
	}
	if _, ok := args["min_years_of_experience"]; ok {
		v := req.GetInt("min_years_of_experience", 0)
		crit.MinYearsOfExperience = &v
	}

	var err error
	if crit.StartDate, err = parseDate(req.GetString("start_date", "")); err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}
	if crit.EndDate, err = parseDate(req.GetString("end_date", "")); err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}

	results, err := s.searcher.Search(ctx, &crit)
	if err != nil {
		return mcpgo.NewToolResultErrorf("search failed: %s", err.Error()), nil
	}

	s.logger.Info("mcp: search_consultants", "results", len(results))

	result := map[string]any{
		"results": results,
		"count":   len(results),
	}
	return toolResultJSON(result)
}

// handleGetConsultant fetches a consultant with hydrated edges.
func (s *Server) handleGetConsultant(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.roster == nil {
		return mcpgo.NewToolResultError("store is unavailable"), nil
	}

	id := req.GetString("id", "")
	if strings.TrimSpace(id) == "" {
		return mcpgo.NewToolResultError("id is required and must not be empty"), nil
	}

	c, err := s.roster.Get(ctx, id)
	if err != nil {
		return mcpgo.NewToolResultErrorf("get failed: %s", err.Error()), nil
	}
	return toolResultJSON(c)
}

// handleAssignProject creates an assignment edge and recomputes availability.
func (s *Server) handleAssignProject(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.roster == nil {
		return mcpgo.NewToolResultError("store is unavailable"), nil
	}

	consultantID := req.GetString("consultant_id", "")
	projectID := req.GetString("project_id", "")
	role := req.GetString("role", "")
	if strings.TrimSpace(consultantID) == "" || strings.TrimSpace(projectID) == "" {
		return mcpgo.NewToolResultError("consultant_id and project_id are required"), nil
	}
	if strings.TrimSpace(role) == "" {
		return mcpgo.NewToolResultError("role is required and must not be empty"), nil
	}

	assign := roster.AssignRequest{Role: role}
	if _, ok := req.GetArguments()["allocation_percent"]; ok {
		v := req.GetInt("allocation_percent", 100)
		assign.AllocationPercent = &v
	}

	var err error
	if assign.StartDate, err = parseDate(req.GetString("start_date", "")); err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}
	if assign.EndDate, err = parseDate(req.GetString("end_date", "")); err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}

	c, err := s.roster.AssignToProject(ctx, consultantID, projectID, assign)
	if err != nil {
		return mcpgo.NewToolResultErrorf("assign failed: %s", err.Error()), nil
	}

	s.logger.Info("mcp: assign_project", "consultant", consultantID, "project", projectID, "role", role)
	return toolResultJSON(c)
}

// handleDeactivateAssignment flips an assignment inactive and recomputes
// availability.
func (s *Server) handleDeactivateAssignment(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.roster == nil {
		return mcpgo.NewToolResultError("store is unavailable"), nil
	}

	consultantID := req.GetString("consultant_id", "")
	projectID := req.GetString("project_id", "")
	if strings.TrimSpace(consultantID) == "" || strings.TrimSpace(projectID) == "" {
		return mcpgo.NewToolResultError("consultant_id and project_id are required"), nil
	}

	c, err := s.roster.DeactivateAssignment(ctx, consultantID, projectID)
	if err != nil {
		return mcpgo.NewToolResultErrorf("deactivate failed: %s", err.Error()), nil
	}

	s.logger.Info("mcp: deactivate_assignment", "consultant", consultantID, "project", projectID)
	return toolResultJSON(c)
}

// handleStats returns graph statistics.
func (s *Server) handleStats(ctx context.Context, _ mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.st == nil {
		return mcpgo.NewToolResultError("store is unavailable"), nil
	}

	stats, err := s.st.Stats(ctx)
	if err != nil {
		return mcpgo.NewToolResultErrorf("stats failed: %s", err.Error()), nil
	}
	return toolResultJSON(stats)
}
