// Package roster manages consultant lifecycle: creation, updates, skill
// attachment, and project assignments. Every mutation recomputes the derived
// availability flag before persisting, so the stored value can never be set
// by a client.
package roster

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/opentalent/talentgraph/internal/availability"
	"github.com/opentalent/talentgraph/internal/metrics"
	"github.com/opentalent/talentgraph/internal/models"
	"github.com/opentalent/talentgraph/internal/store"
)

// Service exposes consultant mutations over a GraphStore.
type Service struct {
	st     store.GraphStore
	logger *slog.Logger
}

// NewService creates a roster service.
func NewService(st store.GraphStore, logger *slog.Logger) *Service {
	return &Service{st: st, logger: logger}
}

// CreateRequest carries the client-writable consultant fields. Availability
// is absent on purpose: it is derived.
type CreateRequest struct {
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	YearsOfExperience int      `json:"years_of_experience"`
	WantsNewProject   bool     `json:"wants_new_project"`
	OpenToRemote      bool     `json:"open_to_remote"`
	OpenToRelocation  bool     `json:"open_to_relocation"`
	PreferredRegions  []string `json:"preferred_regions,omitempty"`
}

// Create stores a new consultant. Email is a unique key.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Consultant, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", store.ErrInvalid)
	}
	if req.Email == "" {
		return nil, fmt.Errorf("%w: email is required", store.ErrInvalid)
	}
	if req.YearsOfExperience < 0 {
		return nil, fmt.Errorf("%w: years_of_experience must be >= 0", store.ErrInvalid)
	}

	now := time.Now().UTC()
	c := models.Consultant{
		ID:                uuid.NewString(),
		Name:              req.Name,
		Email:             req.Email,
		YearsOfExperience: req.YearsOfExperience,
		WantsNewProject:   req.WantsNewProject,
		OpenToRemote:      req.OpenToRemote,
		OpenToRelocation:  req.OpenToRelocation,
		PreferredRegions:  req.PreferredRegions,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	availability.Recompute(&c)
	metrics.Inc(metrics.AvailabilityRecomputations)

	created, err := s.st.CreateConsultant(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("roster: creating consultant %s: %w", req.Email, err)
	}

	metrics.Inc(metrics.ConsultantsCreated)
	s.logger.Info("consultant created", "id", created.ID, "email", created.Email)
	return created, nil
}

// Get retrieves a consultant by id.
func (s *Service) Get(ctx context.Context, id string) (*models.Consultant, error) {
	return s.st.GetConsultant(ctx, id)
}

// GetByEmail retrieves a consultant by its unique email.
func (s *Service) GetByEmail(ctx context.Context, email string) (*models.Consultant, error) {
	return s.st.GetConsultantByEmail(ctx, email)
}

// List returns all consultants, hydrated.
func (s *Service) List(ctx context.Context) ([]models.Consultant, error) {
	return s.st.FindAllConsultants(ctx, 0)
}

// UpdateRequest carries the updatable consultant fields. A nil field leaves
// the stored value unchanged.
type UpdateRequest struct {
	Name              *string   `json:"name,omitempty"`
	Email             *string   `json:"email,omitempty"`
	YearsOfExperience *int      `json:"years_of_experience,omitempty"`
	WantsNewProject   *bool     `json:"wants_new_project,omitempty"`
	OpenToRemote      *bool     `json:"open_to_remote,omitempty"`
	OpenToRelocation  *bool     `json:"open_to_relocation,omitempty"`
	PreferredRegions  *[]string `json:"preferred_regions,omitempty"`
}

// Update mutates a consultant's editable fields. Any availability value a
// client may have smuggled in is discarded by the recompute.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*models.Consultant, error) {
	c, err := s.st.GetConsultant(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Email != nil {
		c.Email = *req.Email
	}
	if req.YearsOfExperience != nil {
		if *req.YearsOfExperience < 0 {
			return nil, fmt.Errorf("%w: years_of_experience must be >= 0", store.ErrInvalid)
		}
		c.YearsOfExperience = *req.YearsOfExperience
	}
	if req.WantsNewProject != nil {
		c.WantsNewProject = *req.WantsNewProject
	}
	if req.OpenToRemote != nil {
		c.OpenToRemote = *req.OpenToRemote
	}
	if req.OpenToRelocation != nil {
		c.OpenToRelocation = *req.OpenToRelocation
	}
	if req.PreferredRegions != nil {
		c.PreferredRegions = *req.PreferredRegions
	}
	c.UpdatedAt = time.Now().UTC()

	availability.Recompute(c)
	metrics.Inc(metrics.AvailabilityRecomputations)

	saved, err := s.st.SaveConsultant(ctx, *c)
	if err != nil {
		return nil, fmt.Errorf("roster: updating consultant %s: %w", id, err)
	}
	s.logger.Info("consultant updated", "id", id)
	return saved, nil
}

// Delete removes a consultant and its owned edges.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.st.DeleteConsultant(ctx, id); err != nil {
		return err
	}
	s.logger.Info("consultant deleted", "id", id)
	return nil
}

// AddSkill attaches a HAS_SKILL edge to the consultant. Duplicate edges for
// the same skill are rejected.
func (s *Service) AddSkill(ctx context.Context, consultantID, skillID string, years int) (*models.Consultant, error) {
	if years < 0 {
		return nil, fmt.Errorf("%w: years_of_experience must be >= 0", store.ErrInvalid)
	}

	c, err := s.st.GetConsultant(ctx, consultantID)
	if err != nil {
		return nil, err
	}
	skill, err := s.st.GetSkill(ctx, skillID)
	if err != nil {
		return nil, err
	}

	for _, hs := range c.Skills {
		if hs.SkillID == skill.ID {
			return nil, fmt.Errorf("%w: consultant %s already has skill %s", store.ErrConflict, consultantID, skill.Name)
		}
	}

	c.Skills = append(c.Skills, models.HasSkill{
		SkillID:           skill.ID,
		SkillName:         skill.Name,
		Synonyms:          skill.Synonyms,
		YearsOfExperience: years,
	})
	c.UpdatedAt = time.Now().UTC()

	saved, err := s.st.SaveConsultant(ctx, *c)
	if err != nil {
		return nil, fmt.Errorf("roster: adding skill to consultant %s: %w", consultantID, err)
	}
	s.logger.Info("skill added", "consultant_id", consultantID, "skill", skill.Name, "years", years)
	return saved, nil
}

// AssignRequest carries the assignment edge fields. Allocation defaults to
// 100 percent and active defaults to true when unset.
type AssignRequest struct {
	Role              string     `json:"role"`
	AllocationPercent *int       `json:"allocation_percent,omitempty"`
	IsActive          *bool      `json:"is_active,omitempty"`
	StartDate         *time.Time `json:"start_date,omitempty"`
	EndDate           *time.Time `json:"end_date,omitempty"`
}

// AssignToProject attaches an ASSIGNED_TO edge and recomputes availability.
func (s *Service) AssignToProject(ctx context.Context, consultantID, projectID string, req AssignRequest) (*models.Consultant, error) {
	if req.Role == "" {
		return nil, fmt.Errorf("%w: role is required", store.ErrInvalid)
	}
	allocation := 100
	if req.AllocationPercent != nil {
		allocation = *req.AllocationPercent
	}
	if allocation < 0 || allocation > 100 {
		return nil, fmt.Errorf("%w: allocation_percent must be between 0 and 100", store.ErrInvalid)
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, fmt.Errorf("%w: end_date is before start_date", store.ErrInvalid)
	}

	c, err := s.st.GetConsultant(ctx, consultantID)
	if err != nil {
		return nil, err
	}
	project, err := s.st.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	assignment := models.AssignedTo{
		ProjectID:         project.ID,
		ProjectName:       project.Name,
		Role:              req.Role,
		AllocationPercent: allocation,
		IsActive:          active,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
	}
	if project.Company != nil {
		assignment.CompanyID = project.Company.ID
		assignment.CompanyName = project.Company.Name
	}

	c.Assignments = append(c.Assignments, assignment)
	c.UpdatedAt = time.Now().UTC()
	availability.Recompute(c)
	metrics.Inc(metrics.AvailabilityRecomputations)

	saved, err := s.st.SaveConsultant(ctx, *c)
	if err != nil {
		return nil, fmt.Errorf("roster: assigning consultant %s to project %s: %w", consultantID, projectID, err)
	}

	metrics.Inc(metrics.AssignmentsCreated)
	s.logger.Info("consultant assigned", "consultant_id", consultantID, "project_id", projectID, "role", req.Role)
	return saved, nil
}

// DeactivateAssignment marks the assignment to the given project inactive,
// preserving it for history. Deactivating an already-inactive assignment is
// a no-op on IsActive but still stamps EndDate when unset.
func (s *Service) DeactivateAssignment(ctx context.Context, consultantID, projectID string) (*models.Consultant, error) {
	c, err := s.st.GetConsultant(ctx, consultantID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range c.Assignments {
		if c.Assignments[i].ProjectID == projectID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: consultant %s has no assignment to project %s", store.ErrNotFound, consultantID, projectID)
	}

	c.Assignments[idx].IsActive = false
	if c.Assignments[idx].EndDate == nil {
		now := time.Now().UTC()
		c.Assignments[idx].EndDate = &now
	}
	c.UpdatedAt = time.Now().UTC()

	availability.Recompute(c)
	metrics.Inc(metrics.AvailabilityRecomputations)

	saved, err := s.st.SaveConsultant(ctx, *c)
	if err != nil {
		return nil, fmt.Errorf("roster: deactivating assignment of consultant %s: %w", consultantID, err)
	}

	metrics.Inc(metrics.AssignmentsDeactivated)
	s.logger.Info("assignment deactivated", "consultant_id", consultantID, "project_id", projectID)
	return saved, nil
}

// RemoveAssignment deletes the assignment edge entirely. Use
// DeactivateAssignment to preserve history instead.
func (s *Service) RemoveAssignment(ctx context.Context, consultantID, projectID string) (*models.Consultant, error) {
	c, err := s.st.GetConsultant(ctx, consultantID)
	if err != nil {
		return nil, err
	}

	kept := c.Assignments[:0]
	removed := false
	for _, a := range c.Assignments {
		if a.ProjectID == projectID {
			removed = true
			continue
		}
		kept = append(kept, a)
	}
	if !removed {
		return nil, fmt.Errorf("%w: consultant %s has no assignment to project %s", store.ErrNotFound, consultantID, projectID)
	}
	c.Assignments = kept
	c.UpdatedAt = time.Now().UTC()

	availability.Recompute(c)
	metrics.Inc(metrics.AvailabilityRecomputations)

	saved, err := s.st.SaveConsultant(ctx, *c)
	if err != nil {
		return nil, fmt.Errorf("roster: removing assignment of consultant %s: %w", consultantID, err)
	}

	metrics.Inc(metrics.AssignmentsRemoved)
	s.logger.Info("assignment removed", "consultant_id", consultantID, "project_id", projectID)
	return saved, nil
}
