package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/opentalent/talentgraph/internal/models"
)

// MockStore is an in-memory implementation of GraphStore for testing.
// Reads re-hydrate edge snapshots (skill synonyms, project and company
// names) from the catalog maps, mirroring what the graph database does.
type MockStore struct {
	mu          sync.RWMutex
	consultants map[string]models.Consultant
	skills      map[string]models.Skill
	companies   map[string]models.Company
	projects    map[string]models.Project
}

// NewMockStore creates a new mock store.
func NewMockStore() *MockStore {
	return &MockStore{
		consultants: make(map[string]models.Consultant),
		skills:      make(map[string]models.Skill),
		companies:   make(map[string]models.Company),
		projects:    make(map[string]models.Project),
	}
}

// --- consultants ---

// CreateConsultant inserts a consultant, enforcing email uniqueness.
func (m *MockStore) CreateConsultant(_ context.Context, c models.Consultant) (*models.Consultant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.consultants {
		if existing.Email == c.Email {
			return nil, fmt.Errorf("%w: consultant with email %s", ErrConflict, c.Email)
		}
	}
	m.consultants[c.ID] = copyConsultant(c)
	out := m.hydrateConsultant(c)
	return &out, nil
}

// GetConsultant retrieves a consultant by id.
func (m *MockStore) GetConsultant(_ context.Context, id string) (*models.Consultant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.consultants[id]
	if !ok {
		return nil, fmt.Errorf("%w: consultant %s", ErrNotFound, id)
	}
	out := m.hydrateConsultant(c)
	return &out, nil
}

// GetConsultantByEmail retrieves a consultant by its unique email.
func (m *MockStore) GetConsultantByEmail(_ context.Context, email string) (*models.Consultant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.consultants {
		if c.Email == email {
			out := m.hydrateConsultant(c)
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: consultant with email %s", ErrNotFound, email)
}

// FindAllConsultants returns all consultants ordered by id ascending.
func (m *MockStore) FindAllConsultants(_ context.Context, limit int) ([]models.Consultant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]models.Consultant, 0, len(m.consultants))
	for _, c := range m.consultants {
		all = append(all, m.hydrateConsultant(c))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// SaveConsultant replaces the stored consultant and its edges whole.
func (m *MockStore) SaveConsultant(_ context.Context, c models.Consultant) (*models.Consultant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.consultants[c.ID]; !ok {
		return nil, fmt.Errorf("%w: consultant %s", ErrNotFound, c.ID)
	}
	for id, existing := range m.consultants {
		if id != c.ID && existing.Email == c.Email {
			return nil, fmt.Errorf("%w: consultant with email %s", ErrConflict, c.Email)
		}
	}
	m.consultants[c.ID] = copyConsultant(c)
	out := m.hydrateConsultant(c)
	return &out, nil
}

// DeleteConsultant removes a consultant and its owned edges.
func (m *MockStore) DeleteConsultant(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.consultants[id]; !ok {
		return fmt.Errorf("%w: consultant %s", ErrNotFound, id)
	}
	delete(m.consultants, id)
	return nil
}

// --- skills ---

// CreateSkill inserts a skill, enforcing name uniqueness.
func (m *MockStore) CreateSkill(_ context.Context, s models.Skill) (*models.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.skills {
		if existing.Name == s.Name {
			return nil, fmt.Errorf("%w: skill with name %s", ErrConflict, s.Name)
		}
	}
	m.skills[s.ID] = copySkill(s)
	return &s, nil
}

// GetSkill retrieves a skill by id.
func (m *MockStore) GetSkill(_ context.Context, id string) (*models.Skill, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.skills[id]
	if !ok {
		return nil, fmt.Errorf("%w: skill %s", ErrNotFound, id)
	}
	out := copySkill(s)
	return &out, nil
}

// GetSkillByName retrieves a skill by its unique name.
func (m *MockStore) GetSkillByName(_ context.Context, name string) (*models.Skill, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.skills {
		if s.Name == name {
			out := copySkill(s)
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: skill with name %s", ErrNotFound, name)
}

// ListSkills returns all skills ordered by name.
func (m *MockStore) ListSkills(_ context.Context) ([]models.Skill, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := make([]models.Skill, 0, len(m.skills))
	for _, s := range m.skills {
		all = append(all, copySkill(s))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

// SaveSkill replaces a stored skill.
func (m *MockStore) SaveSkill(_ context.Context, s models.Skill) (*models.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.skills[s.ID]; !ok {
		return nil, fmt.Errorf("%w: skill %s", ErrNotFound, s.ID)
	}
	m.skills[s.ID] = copySkill(s)
	return &s, nil
}

// DeleteSkill removes a skill and cascades to HAS_SKILL and REQUIRES_SKILL
// edges referencing it.
func (m *MockStore) DeleteSkill(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.skills[id]; !ok {
		return fmt.Errorf("%w: skill %s", ErrNotFound, id)
	}
	delete(m.skills, id)
	for cid, c := range m.consultants {
		kept := c.Skills[:0]
		for _, hs := range c.Skills {
			if hs.SkillID != id {
				kept = append(kept, hs)
			}
		}
		c.Skills = kept
		m.consultants[cid] = c
	}
	for pid, p := range m.projects {
		kept := p.RequiredSkills[:0]
		for _, rs := range p.RequiredSkills {
			if rs.SkillID != id {
				kept = append(kept, rs)
			}
		}
		p.RequiredSkills = kept
		m.projects[pid] = p
	}
	return nil
}

// --- companies ---

// CreateCompany inserts a company, enforcing name uniqueness.
func (m *MockStore) CreateCompany(_ context.Context, c models.Company) (*models.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.companies {
		if existing.Name == c.Name {
			return nil, fmt.Errorf("%w: company with name %s", ErrConflict, c.Name)
		}
	}
	m.companies[c.ID] = c
	return &c, nil
}

// GetCompany retrieves a company by id.
func (m *MockStore) GetCompany(_ context.Context, id string) (*models.Company, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.companies[id]
	if !ok {
		return nil, fmt.Errorf("%w: company %s", ErrNotFound, id)
	}
	return &c, nil
}

// GetCompanyByName retrieves a company by its unique name.
func (m *MockStore) GetCompanyByName(_ context.Context, name string) (*models.Company, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.companies {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("%w: company with name %s", ErrNotFound, name)
}

// ListCompanies returns all companies ordered by name.
func (m *MockStore) ListCompanies(_ context.Context) ([]models.Company, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := make([]models.Company, 0, len(m.companies))
	for _, c := range m.companies {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

// DeleteCompany removes a company and detaches it from its projects.
func (m *MockStore) DeleteCompany(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.companies[id]; !ok {
		return fmt.Errorf("%w: company %s", ErrNotFound, id)
	}
	delete(m.companies, id)
	for pid, p := range m.projects {
		if p.Company != nil && p.Company.ID == id {
			p.Company = nil
			m.projects[pid] = p
		}
	}
	return nil
}

// --- projects ---

// CreateProject inserts a project, enforcing name uniqueness.
func (m *MockStore) CreateProject(_ context.Context, p models.Project) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.projects {
		if existing.Name == p.Name {
			return nil, fmt.Errorf("%w: project with name %s", ErrConflict, p.Name)
		}
	}
	m.projects[p.ID] = copyProject(p)
	return &p, nil
}

// GetProject retrieves a project by id.
func (m *MockStore) GetProject(_ context.Context, id string) (*models.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.projects[id]
	if !ok {
		return nil, fmt.Errorf("%w: project %s", ErrNotFound, id)
	}
	out := copyProject(p)
	return &out, nil
}

// GetProjectByName retrieves a project by its unique name.
func (m *MockStore) GetProjectByName(_ context.Context, name string) (*models.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.projects {
		if p.Name == name {
			out := copyProject(p)
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: project with name %s", ErrNotFound, name)
}

// ListProjects returns all projects ordered by name.
func (m *MockStore) ListProjects(_ context.Context) ([]models.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := make([]models.Project, 0, len(m.projects))
	for _, p := range m.projects {
		all = append(all, copyProject(p))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

// SaveProject replaces a stored project.
func (m *MockStore) SaveProject(_ context.Context, p models.Project) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[p.ID]; !ok {
		return nil, fmt.Errorf("%w: project %s", ErrNotFound, p.ID)
	}
	m.projects[p.ID] = copyProject(p)
	return &p, nil
}

// DeleteProject removes a project and cascades to assignment edges.
func (m *MockStore) DeleteProject(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[id]; !ok {
		return fmt.Errorf("%w: project %s", ErrNotFound, id)
	}
	delete(m.projects, id)
	for cid, c := range m.consultants {
		kept := c.Assignments[:0]
		for _, a := range c.Assignments {
			if a.ProjectID != id {
				kept = append(kept, a)
			}
		}
		c.Assignments = kept
		m.consultants[cid] = c
	}
	return nil
}

// --- misc ---

// EnsureIndexes is a no-op for the mock store.
func (m *MockStore) EnsureIndexes(_ context.Context) error {
	return nil
}

// Stats returns graph counts computed from the in-memory maps.
func (m *MockStore) Stats(_ context.Context) (*models.GraphStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &models.GraphStats{
		Consultants: int64(len(m.consultants)),
		Skills:      int64(len(m.skills)),
		Companies:   int64(len(m.companies)),
		Projects:    int64(len(m.projects)),
	}
	for _, c := range m.consultants {
		if c.Availability {
			stats.AvailableConsultants++
		}
		stats.Assignments += int64(len(c.Assignments))
		for _, a := range c.Assignments {
			if a.IsActive {
				stats.ActiveAssignments++
			}
		}
	}
	return stats, nil
}

// Close is a no-op for the mock store.
func (m *MockStore) Close(_ context.Context) error {
	return nil
}

// --- helpers ---

// hydrateConsultant deep-copies c and refreshes edge snapshots from the
// catalog maps, the way the graph store joins target nodes on read.
// Callers must hold at least a read lock.
func (m *MockStore) hydrateConsultant(c models.Consultant) models.Consultant {
	out := copyConsultant(c)
	for i := range out.Skills {
		if skill, ok := m.skills[out.Skills[i].SkillID]; ok {
			out.Skills[i].SkillName = skill.Name
			out.Skills[i].Synonyms = append([]string(nil), skill.Synonyms...)
		}
	}
	for i := range out.Assignments {
		project, ok := m.projects[out.Assignments[i].ProjectID]
		if !ok {
			continue
		}
		out.Assignments[i].ProjectName = project.Name
		if project.Company != nil {
			out.Assignments[i].CompanyID = project.Company.ID
			out.Assignments[i].CompanyName = project.Company.Name
		} else {
			out.Assignments[i].CompanyID = ""
			out.Assignments[i].CompanyName = ""
		}
	}
	return out
}

func copyConsultant(c models.Consultant) models.Consultant {
	out := c
	out.PreferredRegions = append([]string(nil), c.PreferredRegions...)
	out.Skills = make([]models.HasSkill, len(c.Skills))
	for i, hs := range c.Skills {
		out.Skills[i] = hs
		out.Skills[i].Synonyms = append([]string(nil), hs.Synonyms...)
	}
	out.Assignments = make([]models.AssignedTo, len(c.Assignments))
	for i, a := range c.Assignments {
		out.Assignments[i] = a
		out.Assignments[i].StartDate = copyTime(a.StartDate)
		out.Assignments[i].EndDate = copyTime(a.EndDate)
	}
	return out
}

func copySkill(s models.Skill) models.Skill {
	out := s
	out.Synonyms = append([]string(nil), s.Synonyms...)
	return out
}

func copyProject(p models.Project) models.Project {
	out := p
	out.Requirements = append([]string(nil), p.Requirements...)
	out.StartDate = copyTime(p.StartDate)
	out.EndDate = copyTime(p.EndDate)
	if p.RolesNeeded != nil {
		out.RolesNeeded = make(map[string]int, len(p.RolesNeeded))
		for k, v := range p.RolesNeeded {
			out.RolesNeeded[k] = v
		}
	}
	if p.Company != nil {
		company := *p.Company
		out.Company = &company
	}
	out.RequiredSkills = append([]models.RequiresSkill(nil), p.RequiredSkills...)
	return out
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
