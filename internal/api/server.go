package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/opentalent/talentgraph/internal/catalog"
	"github.com/opentalent/talentgraph/internal/roster"
	"github.com/opentalent/talentgraph/internal/search"
	"github.com/opentalent/talentgraph/internal/store"
)

// Server is an HTTP API server exposing consultant search and graph
// management operations.
type Server struct {
	store     store.GraphStore
	roster    *roster.Service
	catalog   *catalog.Service
	searcher  *search.Searcher
	logger    *slog.Logger
	authToken string // empty = no auth required
}

// NewServer creates a new Server with the given dependencies.
func NewServer(st store.GraphStore, ros *roster.Service, cat *catalog.Service, searcher *search.Searcher, logger *slog.Logger, authToken string) *Server {
	return &Server{
		store:     st,
		roster:    ros,
		catalog:   cat,
		searcher:  searcher,
		logger:    logger,
		authToken: authToken,
	}
}

// Handler returns an http.Handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check — no auth required.
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	mux.HandleFunc("POST /v1/consultants/search", s.auth(s.handleSearch))

	mux.HandleFunc("POST /v1/consultants", s.auth(s.handleCreateConsultant))
	mux.HandleFunc("GET /v1/consultants", s.auth(s.handleListConsultants))
	mux.HandleFunc("GET /v1/consultants/{id}", s.auth(s.handleGetConsultant))
	mux.HandleFunc("PATCH /v1/consultants/{id}", s.auth(s.handleUpdateConsultant))
	mux.HandleFunc("DELETE /v1/consultants/{id}", s.auth(s.handleDeleteConsultant))
	mux.HandleFunc("POST /v1/consultants/{id}/skills", s.auth(s.handleAddSkill))
	mux.HandleFunc("POST /v1/consultants/{id}/assignments", s.auth(s.handleAssign))
	mux.HandleFunc("POST /v1/consultants/{id}/assignments/{projectID}/deactivate", s.auth(s.handleDeactivateAssignment))
	mux.HandleFunc("DELETE /v1/consultants/{id}/assignments/{projectID}", s.auth(s.handleRemoveAssignment))

	mux.HandleFunc("POST /v1/skills", s.auth(s.handleCreateSkill))
	mux.HandleFunc("GET /v1/skills", s.auth(s.handleListSkills))
	mux.HandleFunc("GET /v1/skills/{id}", s.auth(s.handleGetSkill))
	mux.HandleFunc("PUT /v1/skills/{id}/synonyms", s.auth(s.handleUpdateSkillSynonyms))
	mux.HandleFunc("DELETE /v1/skills/{id}", s.auth(s.handleDeleteSkill))

	mux.HandleFunc("POST /v1/companies", s.auth(s.handleCreateCompany))
	mux.HandleFunc("GET /v1/companies", s.auth(s.handleListCompanies))
	mux.HandleFunc("GET /v1/companies/{id}", s.auth(s.handleGetCompany))
	mux.HandleFunc("DELETE /v1/companies/{id}", s.auth(s.handleDeleteCompany))

	mux.HandleFunc("POST /v1/projects", s.auth(s.handleCreateProject))
	mux.HandleFunc("GET /v1/projects", s.auth(s.handleListProjects))
	mux.HandleFunc("GET /v1/projects/{id}", s.auth(s.handleGetProject))
	mux.HandleFunc("DELETE /v1/projects/{id}", s.auth(s.handleDeleteProject))
	mux.HandleFunc("PUT /v1/projects/{id}/company", s.auth(s.handleAssignCompany))
	mux.HandleFunc("POST /v1/projects/{id}/required-skills", s.auth(s.handleAddRequiredSkill))
	mux.HandleFunc("PUT /v1/projects/{id}/roles-needed", s.auth(s.handleSetRolesNeeded))

	mux.HandleFunc("GET /v1/stats", s.auth(s.handleStats))

	return mux
}

// --- middleware ---

// auth wraps a handler with Bearer token authentication when authToken is set.
func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.authToken == "" {
			next(w, r)
			return
		}
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.authToken)) != 1 {
			s.writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}

// --- handlers ---

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// searchResponse is returned by POST /v1/consultants/search.
type searchResponse struct {
	Results []search.RankedConsultant `json:"results"`
	Count   int                       `json:"count"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var crit search.Criteria
	if !s.decodeBody(w, r, &crit) {
		return
	}

	results, err := s.searcher.Search(r.Context(), &crit)
	if err != nil {
		s.writeServiceError(w, err, "search failed")
		return
	}

	s.writeJSON(w, http.StatusOK, searchResponse{Results: results, Count: len(results)})
}

func (s *Server) handleCreateConsultant(w http.ResponseWriter, r *http.Request) {
	var req roster.CreateRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	c, err := s.roster.Create(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, err, "failed to create consultant")
		return
	}
	s.writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleListConsultants(w http.ResponseWriter, r *http.Request) {
	if email := r.URL.Query().Get("email"); email != "" {
		c, err := s.roster.GetByEmail(r.Context(), email)
		if err != nil {
			s.writeServiceError(w, err, "failed to get consultant")
			return
		}
		s.writeJSON(w, http.StatusOK, c)
		return
	}

	consultants, err := s.roster.List(r.Context())
	if err != nil {
		s.writeServiceError(w, err, "failed to list consultants")
		return
	}
	s.writeJSON(w, http.StatusOK, consultants)
}

func (s *Server) handleGetConsultant(w http.ResponseWriter, r *http.Request) {
	c, err := s.roster.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err, "failed to get consultant")
		return
	}
	s.writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleUpdateConsultant(w http.ResponseWriter, r *http.Request) {
	var req roster.UpdateRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	c, err := s.roster.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		s.writeServiceError(w, err, "failed to update consultant")
		return
	}
	s.writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteConsultant(w http.ResponseWriter, r *http.Request) {
	if err := s.roster.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeServiceError(w, err, "failed to delete consultant")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// addSkillRequest is the body accepted by POST /v1/consultants/{id}/skills.
type addSkillRequest struct {
	SkillID           string `json:"skill_id"`
	YearsOfExperience int    `json:"years_of_experience"`
}

func (s *Server) handleAddSkill(w http.ResponseWriter, r *http.Request) {
	var req addSkillRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.SkillID == "" {
		s.writeError(w, http.StatusBadRequest, "skill_id is required")
		return
	}

	c, err := s.roster.AddSkill(r.Context(), r.PathValue("id"), req.SkillID, req.YearsOfExperience)
	if err != nil {
		s.writeServiceError(w, err, "failed to add skill")
		return
	}
	s.writeJSON(w, http.StatusOK, c)
}

// assignRequest is the body accepted by POST /v1/consultants/{id}/assignments.
type assignRequest struct {
	ProjectID string `json:"project_id"`
	roster.AssignRequest
}

func (s *Server) handleAssign(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.ProjectID == "" {
		s.writeError(w, http.StatusBadRequest, "project_id is required")
		return
	}

	c, err := s.roster.AssignToProject(r.Context(), r.PathValue("id"), req.ProjectID, req.AssignRequest)
	if err != nil {
		s.writeServiceError(w, err, "failed to assign consultant")
		return
	}
	s.writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeactivateAssignment(w http.ResponseWriter, r *http.Request) {
	c, err := s.roster.DeactivateAssignment(r.Context(), r.PathValue("id"), r.PathValue("projectID"))
	if err != nil {
		s.writeServiceError(w, err, "failed to deactivate assignment")
		return
	}
	s.writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleRemoveAssignment(w http.ResponseWriter, r *http.Request) {
	c, err := s.roster.RemoveAssignment(r.Context(), r.PathValue("id"), r.PathValue("projectID"))
	if err != nil {
		s.writeServiceError(w, err, "failed to remove assignment")
		return
	}
	s.writeJSON(w, http.StatusOK, c)
}

// createSkillRequest is the body accepted by POST /v1/skills.
type createSkillRequest struct {
	Name     string   `json:"name"`
	Synonyms []string `json:"synonyms,omitempty"`
}

func (s *Server) handleCreateSkill(w http.ResponseWriter, r *http.Request) {
	var req createSkillRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	skill, err := s.catalog.CreateSkill(r.Context(), req.Name, req.Synonyms)
	if err != nil {
		s.writeServiceError(w, err, "failed to create skill")
		return
	}
	s.writeJSON(w, http.StatusCreated, skill)
}

func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := s.catalog.ListSkills(r.Context())
	if err != nil {
		s.writeServiceError(w, err, "failed to list skills")
		return
	}
	s.writeJSON(w, http.StatusOK, skills)
}

func (s *Server) handleGetSkill(w http.ResponseWriter, r *http.Request) {
	skill, err := s.catalog.GetSkill(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err, "failed to get skill")
		return
	}
	s.writeJSON(w, http.StatusOK, skill)
}

// synonymsRequest is the body accepted by PUT /v1/skills/{id}/synonyms.
type synonymsRequest struct {
	Synonyms []string `json:"synonyms"`
}

func (s *Server) handleUpdateSkillSynonyms(w http.ResponseWriter, r *http.Request) {
	var req synonymsRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	skill, err := s.catalog.UpdateSkillSynonyms(r.Context(), r.PathValue("id"), req.Synonyms)
	if err != nil {
		s.writeServiceError(w, err, "failed to update skill synonyms")
		return
	}
	s.writeJSON(w, http.StatusOK, skill)
}

func (s *Server) handleDeleteSkill(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteSkill(r.Context(), r.PathValue("id")); err != nil {
		s.writeServiceError(w, err, "failed to delete skill")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// createCompanyRequest is the body accepted by POST /v1/companies.
type createCompanyRequest struct {
	Name  string `json:"name"`
	Field string `json:"field,omitempty"`
}

func (s *Server) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	var req createCompanyRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	company, err := s.catalog.CreateCompany(r.Context(), req.Name, req.Field)
	if err != nil {
		s.writeServiceError(w, err, "failed to create company")
		return
	}
	s.writeJSON(w, http.StatusCreated, company)
}

func (s *Server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := s.catalog.ListCompanies(r.Context())
	if err != nil {
		s.writeServiceError(w, err, "failed to list companies")
		return
	}
	s.writeJSON(w, http.StatusOK, companies)
}

func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	company, err := s.catalog.GetCompany(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err, "failed to get company")
		return
	}
	s.writeJSON(w, http.StatusOK, company)
}

func (s *Server) handleDeleteCompany(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteCompany(r.Context(), r.PathValue("id")); err != nil {
		s.writeServiceError(w, err, "failed to delete company")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req catalog.CreateProjectRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	project, err := s.catalog.CreateProject(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, err, "failed to create project")
		return
	}
	s.writeJSON(w, http.StatusCreated, project)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.catalog.ListProjects(r.Context())
	if err != nil {
		s.writeServiceError(w, err, "failed to list projects")
		return
	}
	s.writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	project, err := s.catalog.GetProject(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err, "failed to get project")
		return
	}
	s.writeJSON(w, http.StatusOK, project)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteProject(r.Context(), r.PathValue("id")); err != nil {
		s.writeServiceError(w, err, "failed to delete project")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// assignCompanyRequest is the body accepted by PUT /v1/projects/{id}/company.
type assignCompanyRequest struct {
	CompanyID string `json:"company_id"`
}

func (s *Server) handleAssignCompany(w http.ResponseWriter, r *http.Request) {
	var req assignCompanyRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.CompanyID == "" {
		s.writeError(w, http.StatusBadRequest, "company_id is required")
		return
	}

	project, err := s.catalog.AssignCompany(r.Context(), r.PathValue("id"), req.CompanyID)
	if err != nil {
		s.writeServiceError(w, err, "failed to assign company")
		return
	}
	s.writeJSON(w, http.StatusOK, project)
}

// requiredSkillRequest is the body accepted by POST /v1/projects/{id}/required-skills.
type requiredSkillRequest struct {
	SkillID              string `json:"skill_id"`
	MinYearsOfExperience int    `json:"min_years_of_experience"`
	Mandatory            bool   `json:"mandatory"`
}

func (s *Server) handleAddRequiredSkill(w http.ResponseWriter, r *http.Request) {
	var req requiredSkillRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.SkillID == "" {
		s.writeError(w, http.StatusBadRequest, "skill_id is required")
		return
	}

	project, err := s.catalog.AddRequiredSkill(r.Context(), r.PathValue("id"), req.SkillID, req.MinYearsOfExperience, req.Mandatory)
	if err != nil {
		s.writeServiceError(w, err, "failed to add required skill")
		return
	}
	s.writeJSON(w, http.StatusOK, project)
}

// rolesNeededRequest is the body accepted by PUT /v1/projects/{id}/roles-needed.
type rolesNeededRequest struct {
	Roles map[string]int `json:"roles"`
}

func (s *Server) handleSetRolesNeeded(w http.ResponseWriter, r *http.Request) {
	var req rolesNeededRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	project, err := s.catalog.SetRolesNeeded(r.Context(), r.PathValue("id"), req.Roles)
	if err != nil {
		s.writeServiceError(w, err, "failed to set roles needed")
		return
	}
	s.writeJSON(w, http.StatusOK, project)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		s.writeServiceError(w, err, "failed to get stats")
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

// --- helpers ---

// decodeBody decodes the request body into v, writing a 400 on failure.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// writeServiceError maps store sentinel errors to HTTP status codes.
func (s *Server) writeServiceError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrInvalid):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrConflict):
		s.writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Error(msg, "error", err)
		s.writeError(w, http.StatusInternalServerError, msg)
	}
}

// writeJSON encodes v as JSON and writes it to w with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(v); encErr != nil {
		s.logger.Error("failed to encode response", "error", encErr)
	}
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// Shutdown gracefully shuts down an http.Server with the given timeout.
// This is a convenience helper used by the serve command.
func Shutdown(srv *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
