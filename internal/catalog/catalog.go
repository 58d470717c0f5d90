// Package catalog manages the non-consultant graph entities: skills,
// companies and projects, including the OWNED_BY and REQUIRES_SKILL edges
// the search chain traverses.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/opentalent/talentgraph/internal/models"
	"github.com/opentalent/talentgraph/internal/store"
)

// Service exposes catalog mutations over a GraphStore.
type Service struct {
	st     store.GraphStore
	logger *slog.Logger
}

// NewService creates a catalog service.
func NewService(st store.GraphStore, logger *slog.Logger) *Service {
	return &Service{st: st, logger: logger}
}

// --- skills ---

// CreateSkill stores a new skill. Name is a unique, case-sensitive key.
func (s *Service) CreateSkill(ctx context.Context, name string, synonyms []string) (*models.Skill, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: skill name is required", store.ErrInvalid)
	}
	now := time.Now().UTC()
	skill, err := s.st.CreateSkill(ctx, models.Skill{
		ID:        uuid.NewString(),
		Name:      name,
		Synonyms:  synonyms,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: creating skill %s: %w", name, err)
	}
	s.logger.Info("skill created", "id", skill.ID, "name", skill.Name)
	return skill, nil
}

// GetSkill retrieves a skill by id.
func (s *Service) GetSkill(ctx context.Context, id string) (*models.Skill, error) {
	return s.st.GetSkill(ctx, id)
}

// ListSkills returns all skills.
func (s *Service) ListSkills(ctx context.Context) ([]models.Skill, error) {
	return s.st.ListSkills(ctx)
}

// UpdateSkillSynonyms replaces a skill's synonym list.
func (s *Service) UpdateSkillSynonyms(ctx context.Context, id string, synonyms []string) (*models.Skill, error) {
	skill, err := s.st.GetSkill(ctx, id)
	if err != nil {
		return nil, err
	}
	skill.Synonyms = synonyms
	skill.UpdatedAt = time.Now().UTC()
	return s.st.SaveSkill(ctx, *skill)
}

// DeleteSkill removes a skill and the edges referencing it.
func (s *Service) DeleteSkill(ctx context.Context, id string) error {
	return s.st.DeleteSkill(ctx, id)
}

// --- companies ---

// CreateCompany stores a new company. Name is a unique key.
func (s *Service) CreateCompany(ctx context.Context, name, field string) (*models.Company, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: company name is required", store.ErrInvalid)
	}
	now := time.Now().UTC()
	company, err := s.st.CreateCompany(ctx, models.Company{
		ID:        uuid.NewString(),
		Name:      name,
		Field:     field,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: creating company %s: %w", name, err)
	}
	s.logger.Info("company created", "id", company.ID, "name", company.Name)
	return company, nil
}

// GetCompany retrieves a company by id.
func (s *Service) GetCompany(ctx context.Context, id string) (*models.Company, error) {
	return s.st.GetCompany(ctx, id)
}

// ListCompanies returns all companies.
func (s *Service) ListCompanies(ctx context.Context) ([]models.Company, error) {
	return s.st.ListCompanies(ctx)
}

// DeleteCompany removes a company.
func (s *Service) DeleteCompany(ctx context.Context, id string) error {
	return s.st.DeleteCompany(ctx, id)
}

// --- projects ---

// CreateProjectRequest carries the client-writable project fields.
type CreateProjectRequest struct {
	Name         string         `json:"name"`
	Requirements []string       `json:"requirements,omitempty"`
	StartDate    *time.Time     `json:"start_date,omitempty"`
	EndDate      *time.Time     `json:"end_date,omitempty"`
	RolesNeeded  map[string]int `json:"roles_needed,omitempty"`
	CompanyID    string         `json:"company_id,omitempty"`
}

// CreateProject stores a new project, optionally owned by a company.
func (s *Service) CreateProject(ctx context.Context, req CreateProjectRequest) (*models.Project, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: project name is required", store.ErrInvalid)
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, fmt.Errorf("%w: end_date is before start_date", store.ErrInvalid)
	}

	now := time.Now().UTC()
	p := models.Project{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Requirements: req.Requirements,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		RolesNeeded:  req.RolesNeeded,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.CompanyID != "" {
		company, err := s.st.GetCompany(ctx, req.CompanyID)
		if err != nil {
			return nil, err
		}
		p.Company = company
	}

	project, err := s.st.CreateProject(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("catalog: creating project %s: %w", req.Name, err)
	}
	s.logger.Info("project created", "id", project.ID, "name", project.Name)
	return project, nil
}

// GetProject retrieves a project by id.
func (s *Service) GetProject(ctx context.Context, id string) (*models.Project, error) {
	return s.st.GetProject(ctx, id)
}

// ListProjects returns all projects.
func (s *Service) ListProjects(ctx context.Context) ([]models.Project, error) {
	return s.st.ListProjects(ctx)
}

// DeleteProject removes a project and the assignment edges pointing at it.
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	return s.st.DeleteProject(ctx, id)
}

// AssignCompany sets the project's owning company (OWNED_BY edge).
func (s *Service) AssignCompany(ctx context.Context, projectID, companyID string) (*models.Project, error) {
	project, err := s.st.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	company, err := s.st.GetCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	project.Company = company
	project.UpdatedAt = time.Now().UTC()

	saved, err := s.st.SaveProject(ctx, *project)
	if err != nil {
		return nil, fmt.Errorf("catalog: assigning company to project %s: %w", projectID, err)
	}
	s.logger.Info("company assigned", "project_id", projectID, "company_id", companyID)
	return saved, nil
}

// AddRequiredSkill attaches a REQUIRES_SKILL edge to the project.
func (s *Service) AddRequiredSkill(ctx context.Context, projectID, skillID string, minYears int, mandatory bool) (*models.Project, error) {
	if minYears < 0 {
		return nil, fmt.Errorf("%w: min_years_of_experience must be >= 0", store.ErrInvalid)
	}

	project, err := s.st.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	skill, err := s.st.GetSkill(ctx, skillID)
	if err != nil {
		return nil, err
	}

	for _, rs := range project.RequiredSkills {
		if rs.SkillID == skill.ID {
			return nil, fmt.Errorf("%w: project %s already requires skill %s", store.ErrConflict, projectID, skill.Name)
		}
	}

	project.RequiredSkills = append(project.RequiredSkills, models.RequiresSkill{
		SkillID:              skill.ID,
		SkillName:            skill.Name,
		MinYearsOfExperience: minYears,
		Mandatory:            mandatory,
	})
	project.UpdatedAt = time.Now().UTC()

	saved, err := s.st.SaveProject(ctx, *project)
	if err != nil {
		return nil, fmt.Errorf("catalog: adding required skill to project %s: %w", projectID, err)
	}
	s.logger.Info("required skill added", "project_id", projectID, "skill", skill.Name, "mandatory", mandatory)
	return saved, nil
}

// SetRolesNeeded replaces the project's role→headcount map.
func (s *Service) SetRolesNeeded(ctx context.Context, projectID string, roles map[string]int) (*models.Project, error) {
	for role, count := range roles {
		if role == "" {
			return nil, fmt.Errorf("%w: role name must not be empty", store.ErrInvalid)
		}
		if count < 0 {
			return nil, fmt.Errorf("%w: headcount for role %s must be >= 0", store.ErrInvalid, role)
		}
	}

	project, err := s.st.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	project.RolesNeeded = roles
	project.UpdatedAt = time.Now().UTC()

	return s.st.SaveProject(ctx, *project)
}
