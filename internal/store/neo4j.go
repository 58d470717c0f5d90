package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"

	"github.com/opentalent/talentgraph/internal/models"
)

// Neo4jStore implements GraphStore against a Neo4j database.
//
// Each call opens its own session, so a single store is safe for concurrent
// use. Consultant writes replace the node and all of its outgoing HAS_SKILL
// and ASSIGNED_TO edges within one managed transaction.
type Neo4jStore struct {
	client   neo4j.DriverWithContext
	database string
	logger   *slog.Logger
}

// NewNeo4jStore creates a store backed by the Neo4j instance at uri.
func NewNeo4jStore(uri, username, password, database string, logger *slog.Logger) (*Neo4jStore, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	if database == "" {
		database = "neo4j"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Neo4jStore{
		client:   driver,
		database: database,
		logger:   logger,
	}, nil
}

func (n *Neo4jStore) session(ctx context.Context) neo4j.SessionWithContext {
	return n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
}

// consultantReturn hydrates skill and assignment edges alongside the node.
// Company data rides on the assignment through the project's OWNED_BY edge.
const consultantReturn = `
	RETURN properties(c) AS c,
		[ (c)-[hs:HAS_SKILL]->(s:Skill) | {rel: properties(hs), skill: properties(s)} ] AS skills,
		[ (c)-[at:ASSIGNED_TO]->(p:Project) | {
			rel: properties(at),
			project: properties(p),
			company: head([ (p)-[:OWNED_BY]->(co:Company) | properties(co) ])
		} ] AS assignments
`

// --- consultants ---

// CreateConsultant inserts a consultant node. The email must be unique.
func (n *Neo4jStore) CreateConsultant(ctx context.Context, c models.Consultant) (*models.Consultant, error) {
	session := n.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (o:Consultant {email: $email})
			RETURN o.id LIMIT 1
		`, map[string]any{"email": c.Email})
		if err != nil {
			return nil, err
		}
		if rec, _ := res.Collect(ctx); len(rec) > 0 {
			return nil, fmt.Errorf("%w: consultant with email %s", ErrConflict, c.Email)
		}

		_, err = tx.Run(ctx, `
			CREATE (c:Consultant)
			SET c = $props
		`, map[string]any{"props": consultantProps(c)})
		if err != nil {
			return nil, err
		}
		return nil, n.writeConsultantEdges(ctx, tx, c)
	})
	if err != nil {
		return nil, err
	}
	return n.GetConsultant(ctx, c.ID)
}

// GetConsultant retrieves a consultant with hydrated edges.
func (n *Neo4jStore) GetConsultant(ctx context.Context, id string) (*models.Consultant, error) {
	session := n.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `MATCH (c:Consultant {id: $id})`+consultantReturn,
			map[string]any{"id": id})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}

	records := result.([]*db.Record)
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: consultant %s", ErrNotFound, id)
	}
	c, err := consultantFromRecord(records[0])
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetConsultantByEmail retrieves a consultant by its unique email.
func (n *Neo4jStore) GetConsultantByEmail(ctx context.Context, email string) (*models.Consultant, error) {
	session := n.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `MATCH (c:Consultant {email: $email})`+consultantReturn,
			map[string]any{"email": email})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}

	records := result.([]*db.Record)
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: consultant with email %s", ErrNotFound, email)
	}
	return consultantFromRecord(records[0])
}

// FindAllConsultants returns consultants with hydrated edges, ordered by id
// ascending. A limit of 0 means no cap.
func (n *Neo4jStore) FindAllConsultants(ctx context.Context, limit int) ([]models.Consultant, error) {
	session := n.session(ctx)
	defer session.Close(ctx)

	query := `MATCH (c:Consultant)` + consultantReturn + ` ORDER BY c.id ASC`
	params := map[string]any{}
	if limit > 0 {
		query += ` LIMIT $limit`
		params["limit"] = limit
	}

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}

	records := result.([]*db.Record)
	consultants := make([]models.Consultant, 0, len(records))
	for _, record := range records {
		c, err := consultantFromRecord(record)
		if err != nil {
			return nil, err
		}
		consultants = append(consultants, *c)
	}
	return consultants, nil
}

// SaveConsultant replaces the consultant node and all of its outgoing edges
// in one write transaction.
func (n *Neo4jStore) SaveConsultant(ctx context.Context, c models.Consultant) (*models.Consultant, error) {
	session := n.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (o:Consultant {email: $email})
			WHERE o.id <> $id
			RETURN o.id LIMIT 1
		`, map[string]any{"email": c.Email, "id": c.ID})
		if err != nil {
			return nil, err
		}
		if rec, _ := res.Collect(ctx); len(rec) > 0 {
			return nil, fmt.Errorf("%w: consultant with email %s", ErrConflict, c.Email)
		}

		res, err = tx.Run(ctx, `
			MATCH (c:Consultant {id: $id})
			SET c = $props
			RETURN c.id
		`, map[string]any{"id": c.ID, "props": consultantProps(c)})
		if err != nil {
			return nil, err
		}
		if rec, _ := res.Collect(ctx); len(rec) == 0 {
			return nil, fmt.Errorf("%w: consultant %s", ErrNotFound, c.ID)
		}

		_, err = tx.Run(ctx, `
			MATCH (c:Consultant {id: $id})-[r:HAS_SKILL|ASSIGNED_TO]->()
			DELETE r
		`, map[string]any{"id": c.ID})
		if err != nil {
			return nil, err
		}
		return nil, n.writeConsultantEdges(ctx, tx, c)
	})
	if err != nil {
		return nil, err
	}
	return n.GetConsultant(ctx, c.ID)
}

// DeleteConsultant removes a consultant node and its edges.
func (n *Neo4jStore) DeleteConsultant(ctx context.Context, id string) error {
	return n.deleteNode(ctx, "Consultant", "consultant", id)
}

// writeConsultantEdges recreates HAS_SKILL and ASSIGNED_TO edges from the
// consultant's in-memory edge records.
func (n *Neo4jStore) writeConsultantEdges(ctx context.Context, tx neo4j.ManagedTransaction, c models.Consultant) error {
	if len(c.Skills) > 0 {
		skills := make([]map[string]any, 0, len(c.Skills))
		for _, hs := range c.Skills {
			skills = append(skills, map[string]any{
				"skill_id":            hs.SkillID,
				"years_of_experience": hs.YearsOfExperience,
			})
		}
		_, err := tx.Run(ctx, `
			UNWIND $skills AS edge
			MATCH (c:Consultant {id: $id})
			MATCH (s:Skill {id: edge.skill_id})
			CREATE (c)-[:HAS_SKILL {years_of_experience: edge.years_of_experience}]->(s)
		`, map[string]any{"id": c.ID, "skills": skills})
		if err != nil {
			return err
		}
	}

	if len(c.Assignments) > 0 {
		assignments := make([]map[string]any, 0, len(c.Assignments))
		for _, a := range c.Assignments {
			assignments = append(assignments, map[string]any{
				"project_id":         a.ProjectID,
				"role":               a.Role,
				"allocation_percent": a.AllocationPercent,
				"is_active":          a.IsActive,
				"start_date":         timeParam(a.StartDate),
				"end_date":           timeParam(a.EndDate),
			})
		}
		_, err := tx.Run(ctx, `
			UNWIND $assignments AS edge
			MATCH (c:Consultant {id: $id})
			MATCH (p:Project {id: edge.project_id})
			CREATE (c)-[r:ASSIGNED_TO {
				role: edge.role,
				allocation_percent: edge.allocation_percent,
				is_active: edge.is_active
			}]->(p)
			SET r.start_date = edge.start_date, r.end_date = edge.end_date
		`, map[string]any{"id": c.ID, "assignments": assignments})
		if err != nil {
			return err
		}
	}
	return nil
}

// --- skills ---

// CreateSkill inserts a skill node. The name must be unique.
func (n *Neo4jStore) CreateSkill(ctx context.Context, s models.Skill) (*models.Skill, error) {
	session := n.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (o:Skill {name: $name})
			RETURN o.id LIMIT 1
		`, map[string]any{"name": s.Name})
		if err != nil {
			return nil, err
		}
		if rec, _ := res.Collect(ctx); len(rec) > 0 {
			return nil, fmt.Errorf("%w: skill with name %s", ErrConflict, s.Name)
		}

		_, err = tx.Run(ctx, `
			CREATE (s:Skill)
			SET s = $props
		`, map[string]any{"props": skillProps(s)})
		return nil, err
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetSkill retrieves a skill by id.
func (n *Neo4jStore) GetSkill(ctx context.Context, id string) (*models.Skill, error) {
	props, err := n.getNodeProps(ctx, `MATCH (s:Skill {id: $key}) RETURN properties(s) AS props`, id)
	if err != nil {
		return nil, err
	}
	if props == nil {
		return nil, fmt.Errorf("%w: skill %s", ErrNotFound, id)
	}
	s := skillFromProps(props)
	return &s, nil
}

// GetSkillByName retrieves a skill by its unique primary name.
func (n *Neo4jStore) GetSkillByName(ctx context.Context, name string) (*models.Skill, error) {
	props, err := n.getNodeProps(ctx, `MATCH (s:Skill {name: $key}) RETURN properties(s) AS props`, name)
	if err != nil {
		return nil, err
	}
	if props == nil {
		return nil, fmt.Errorf("%w: skill with name %s", ErrNotFound, name)
	}
	s := skillFromProps(props)
	return &s, nil
}

// ListSkills returns all skills ordered by name.
func (n *Neo4jStore) ListSkills(ctx context.Context) ([]models.Skill, error) {
	records, err := n.listNodeProps(ctx, `MATCH (s:Skill) RETURN properties(s) AS props ORDER BY s.name ASC`)
	if err != nil {
		return nil, err
	}
	skills := make([]models.Skill, 0, len(records))
	for _, props := range records {
		skills = append(skills, skillFromProps(props))
	}
	return skills, nil
}

// SaveSkill replaces a skill node's properties.
func (n *Neo4jStore) SaveSkill(ctx context.Context, s models.Skill) (*models.Skill, error) {
	err := n.saveNodeProps(ctx, "Skill", s.ID, skillProps(s), fmt.Sprintf("skill %s", s.ID))
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteSkill removes a skill node. Detach delete cascades to HAS_SKILL and
// REQUIRES_SKILL edges referencing it.
func (n *Neo4jStore) DeleteSkill(ctx context.Context, id string) error {
	return n.deleteNode(ctx, "Skill", "skill", id)
}

// --- companies ---

// CreateCompany inserts a company node. The name must be unique.
func (n *Neo4jStore) CreateCompany(ctx context.Context, c models.Company) (*models.Company, error) {
	session := n.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (o:Company {name: $name})
			RETURN o.id LIMIT 1
		`, map[string]any{"name": c.Name})
		if err != nil {
			return nil, err
		}
		if rec, _ := res.Collect(ctx); len(rec) > 0 {
			return nil, fmt.Errorf("%w: company with name %s", ErrConflict, c.Name)
		}

		_, err = tx.Run(ctx, `
			CREATE (co:Company)
			SET co = $props
		`, map[string]any{"props": companyProps(c)})
		return nil, err
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetCompany retrieves a company by id.
func (n *Neo4jStore) GetCompany(ctx context.Context, id string) (*models.Company, error) {
	props, err := n.getNodeProps(ctx, `MATCH (co:Company {id: $key}) RETURN properties(co) AS props`, id)
	if err != nil {
		return nil, err
	}
	if props == nil {
		return nil, fmt.Errorf("%w: company %s", ErrNotFound, id)
	}
	c := companyFromProps(props)
	return &c, nil
}

// GetCompanyByName retrieves a company by its unique name.
func (n *Neo4jStore) GetCompanyByName(ctx context.Context, name string) (*models.Company, error) {
	props, err := n.getNodeProps(ctx, `MATCH (co:Company {name: $key}) RETURN properties(co) AS props`, name)
	if err != nil {
		return nil, err
	}
	if props == nil {
		return nil, fmt.Errorf("%w: company with name %s", ErrNotFound, name)
	}
	c := companyFromProps(props)
	return &c, nil
}

// ListCompanies returns all companies ordered by name.
func (n *Neo4jStore) ListCompanies(ctx context.Context) ([]models.Company, error) {
	records, err := n.listNodeProps(ctx, `MATCH (co:Company) RETURN properties(co) AS props ORDER BY co.name ASC`)
	if err != nil {
		return nil, err
	}
	companies := make([]models.Company, 0, len(records))
	for _, props := range records {
		companies = append(companies, companyFromProps(props))
	}
	return companies, nil
}

// DeleteCompany removes a company node and its OWNED_BY edges.
func (n *Neo4jStore) DeleteCompany(ctx context.Context, id string) error {
	return n.deleteNode(ctx, "Company", "company", id)
}

// --- projects ---

const projectReturn = `
	RETURN properties(p) AS props,
		head([ (p)-[:OWNED_BY]->(co:Company) | properties(co) ]) AS company,
		[ (p)-[rs:REQUIRES_SKILL]->(s:Skill) | {rel: properties(rs), skill: properties(s)} ] AS required
`

// CreateProject inserts a project node plus its OWNED_BY and REQUIRES_SKILL
// edges. The name must be unique.
func (n *Neo4jStore) CreateProject(ctx context.Context, p models.Project) (*models.Project, error) {
	session := n.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (o:Project {name: $name})
			RETURN o.id LIMIT 1
		`, map[string]any{"name": p.Name})
		if err != nil {
			return nil, err
		}
		if rec, _ := res.Collect(ctx); len(rec) > 0 {
			return nil, fmt.Errorf("%w: project with name %s", ErrConflict, p.Name)
		}

		_, err = tx.Run(ctx, `
			CREATE (p:Project)
			SET p = $props
		`, map[string]any{"props": projectProps(p)})
		if err != nil {
			return nil, err
		}
		return nil, n.writeProjectEdges(ctx, tx, p)
	})
	if err != nil {
		return nil, err
	}
	return n.GetProject(ctx, p.ID)
}

// GetProject retrieves a project with its owning company and required skills.
func (n *Neo4jStore) GetProject(ctx context.Context, id string) (*models.Project, error) {
	session := n.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `MATCH (p:Project {id: $id})`+projectReturn,
			map[string]any{"id": id})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}

	records := result.([]*db.Record)
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: project %s", ErrNotFound, id)
	}
	return projectFromRecord(records[0])
}

// GetProjectByName retrieves a project by its unique name.
func (n *Neo4jStore) GetProjectByName(ctx context.Context, name string) (*models.Project, error) {
	session := n.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `MATCH (p:Project {name: $name})`+projectReturn,
			map[string]any{"name": name})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}

	records := result.([]*db.Record)
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: project with name %s", ErrNotFound, name)
	}
	return projectFromRecord(records[0])
}

// ListProjects returns all projects ordered by name.
func (n *Neo4jStore) ListProjects(ctx context.Context) ([]models.Project, error) {
	session := n.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `MATCH (p:Project)`+projectReturn+` ORDER BY p.name ASC`, nil)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}

	records := result.([]*db.Record)
	projects := make([]models.Project, 0, len(records))
	for _, record := range records {
		p, err := projectFromRecord(record)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, nil
}

// SaveProject replaces the project node and its outgoing edges.
func (n *Neo4jStore) SaveProject(ctx context.Context, p models.Project) (*models.Project, error) {
	session := n.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (p:Project {id: $id})
			SET p = $props
			RETURN p.id
		`, map[string]any{"id": p.ID, "props": projectProps(p)})
		if err != nil {
			return nil, err
		}
		if rec, _ := res.Collect(ctx); len(rec) == 0 {
			return nil, fmt.Errorf("%w: project %s", ErrNotFound, p.ID)
		}

		_, err = tx.Run(ctx, `
			MATCH (p:Project {id: $id})-[r:OWNED_BY|REQUIRES_SKILL]->()
			DELETE r
		`, map[string]any{"id": p.ID})
		if err != nil {
			return nil, err
		}
		return nil, n.writeProjectEdges(ctx, tx, p)
	})
	if err != nil {
		return nil, err
	}
	return n.GetProject(ctx, p.ID)
}

// DeleteProject removes a project node. Detach delete cascades to
// ASSIGNED_TO, OWNED_BY and REQUIRES_SKILL edges.
func (n *Neo4jStore) DeleteProject(ctx context.Context, id string) error {
	return n.deleteNode(ctx, "Project", "project", id)
}

func (n *Neo4jStore) writeProjectEdges(ctx context.Context, tx neo4j.ManagedTransaction, p models.Project) error {
	if p.Company != nil {
		_, err := tx.Run(ctx, `
			MATCH (p:Project {id: $id})
			MATCH (co:Company {id: $company_id})
			CREATE (p)-[:OWNED_BY]->(co)
		`, map[string]any{"id": p.ID, "company_id": p.Company.ID})
		if err != nil {
			return err
		}
	}
	if len(p.RequiredSkills) > 0 {
		required := make([]map[string]any, 0, len(p.RequiredSkills))
		for _, rs := range p.RequiredSkills {
			required = append(required, map[string]any{
				"skill_id":                rs.SkillID,
				"min_years_of_experience": rs.MinYearsOfExperience,
				"mandatory":               rs.Mandatory,
			})
		}
		_, err := tx.Run(ctx, `
			UNWIND $required AS edge
			MATCH (p:Project {id: $id})
			MATCH (s:Skill {id: edge.skill_id})
			CREATE (p)-[:REQUIRES_SKILL {
				min_years_of_experience: edge.min_years_of_experience,
				mandatory: edge.mandatory
			}]->(s)
		`, map[string]any{"id": p.ID, "required": required})
		if err != nil {
			return err
		}
	}
	return nil
}

// --- misc ---

// EnsureIndexes creates the uniqueness constraints and lookup indexes the
// queries rely on. Safe to call repeatedly.
func (n *Neo4jStore) EnsureIndexes(ctx context.Context) error {
	session := n.session(ctx)
	defer session.Close(ctx)

	statements := []string{
		"CREATE CONSTRAINT consultant_id IF NOT EXISTS FOR (c:Consultant) REQUIRE c.id IS UNIQUE",
		"CREATE CONSTRAINT consultant_email IF NOT EXISTS FOR (c:Consultant) REQUIRE c.email IS UNIQUE",
		"CREATE CONSTRAINT skill_id IF NOT EXISTS FOR (s:Skill) REQUIRE s.id IS UNIQUE",
		"CREATE CONSTRAINT skill_name IF NOT EXISTS FOR (s:Skill) REQUIRE s.name IS UNIQUE",
		"CREATE CONSTRAINT company_id IF NOT EXISTS FOR (co:Company) REQUIRE co.id IS UNIQUE",
		"CREATE CONSTRAINT company_name IF NOT EXISTS FOR (co:Company) REQUIRE co.name IS UNIQUE",
		"CREATE CONSTRAINT project_id IF NOT EXISTS FOR (p:Project) REQUIRE p.id IS UNIQUE",
		"CREATE CONSTRAINT project_name IF NOT EXISTS FOR (p:Project) REQUIRE p.name IS UNIQUE",
		"CREATE INDEX consultant_availability IF NOT EXISTS FOR (c:Consultant) ON (c.availability)",
	}
	for _, stmt := range statements {
		if _, err := session.Run(ctx, stmt, nil); err != nil {
			if !strings.Contains(err.Error(), "already exists") && !strings.Contains(err.Error(), "An equivalent") {
				return err
			}
		}
	}
	return nil
}

// Stats returns graph-wide node and edge counts.
func (n *Neo4jStore) Stats(ctx context.Context) (*models.GraphStats, error) {
	session := n.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			OPTIONAL MATCH (c:Consultant)
			WITH count(c) AS consultants,
				count(CASE WHEN c.availability THEN 1 END) AS available
			OPTIONAL MATCH (s:Skill)
			WITH consultants, available, count(s) AS skills
			OPTIONAL MATCH (co:Company)
			WITH consultants, available, skills, count(co) AS companies
			OPTIONAL MATCH (p:Project)
			WITH consultants, available, skills, companies, count(p) AS projects
			OPTIONAL MATCH ()-[a:ASSIGNED_TO]->()
			RETURN consultants, available, skills, companies, projects,
				count(a) AS assignments,
				count(CASE WHEN a.is_active THEN 1 END) AS active_assignments
		`, nil)
		if err != nil {
			return nil, err
		}
		return res.Single(ctx)
	})
	if err != nil {
		return nil, err
	}

	record := result.(*db.Record)
	stats := &models.GraphStats{}
	stats.Consultants = recordInt(record, "consultants")
	stats.AvailableConsultants = recordInt(record, "available")
	stats.Skills = recordInt(record, "skills")
	stats.Companies = recordInt(record, "companies")
	stats.Projects = recordInt(record, "projects")
	stats.Assignments = recordInt(record, "assignments")
	stats.ActiveAssignments = recordInt(record, "active_assignments")
	return stats, nil
}

// Close shuts down the underlying driver.
func (n *Neo4jStore) Close(ctx context.Context) error {
	return n.client.Close(ctx)
}

// --- shared query helpers ---

func (n *Neo4jStore) getNodeProps(ctx context.Context, query, key string) (map[string]any, error) {
	session := n.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, map[string]any{"key": key})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}

	records := result.([]*db.Record)
	if len(records) == 0 {
		return nil, nil
	}
	value, _ := records[0].Get("props")
	props, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected type for node properties: got %T", value)
	}
	return props, nil
}

func (n *Neo4jStore) listNodeProps(ctx context.Context, query string) ([]map[string]any, error) {
	session := n.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, nil)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}

	records := result.([]*db.Record)
	out := make([]map[string]any, 0, len(records))
	for _, record := range records {
		value, _ := record.Get("props")
		props, ok := value.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, props)
	}
	return out, nil
}

func (n *Neo4jStore) saveNodeProps(ctx context.Context, label, id string, props map[string]any, what string) error {
	session := n.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, fmt.Sprintf(`
			MATCH (n:%s {id: $id})
			SET n = $props
			RETURN n.id
		`, label), map[string]any{"id": id, "props": props})
		if err != nil {
			return nil, err
		}
		if rec, _ := res.Collect(ctx); len(rec) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, what)
		}
		return nil, nil
	})
	return err
}

func (n *Neo4jStore) deleteNode(ctx context.Context, label, what, id string) error {
	session := n.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, fmt.Sprintf(`
			MATCH (n:%s {id: $id})
			DETACH DELETE n
			RETURN count(n) AS deleted
		`, label), map[string]any{"id": id})
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		if recordInt(record, "deleted") == 0 {
			return nil, fmt.Errorf("%w: %s %s", ErrNotFound, what, id)
		}
		return nil, nil
	})
	return err
}

// --- property mapping ---

func consultantProps(c models.Consultant) map[string]any {
	return map[string]any{
		"id":                  c.ID,
		"name":                c.Name,
		"email":               c.Email,
		"years_of_experience": c.YearsOfExperience,
		"availability":        c.Availability,
		"wants_new_project":   c.WantsNewProject,
		"open_to_remote":      c.OpenToRemote,
		"open_to_relocation":  c.OpenToRelocation,
		"preferred_regions":   c.PreferredRegions,
		"created_at":          c.CreatedAt,
		"updated_at":          c.UpdatedAt,
	}
}

func skillProps(s models.Skill) map[string]any {
	return map[string]any{
		"id":         s.ID,
		"name":       s.Name,
		"synonyms":   s.Synonyms,
		"created_at": s.CreatedAt,
		"updated_at": s.UpdatedAt,
	}
}

func companyProps(c models.Company) map[string]any {
	return map[string]any{
		"id":         c.ID,
		"name":       c.Name,
		"field":      c.Field,
		"created_at": c.CreatedAt,
		"updated_at": c.UpdatedAt,
	}
}

// projectProps serializes RolesNeeded as JSON since Neo4j properties cannot
// hold maps.
func projectProps(p models.Project) map[string]any {
	props := map[string]any{
		"id":           p.ID,
		"name":         p.Name,
		"requirements": p.Requirements,
		"start_date":   timeParam(p.StartDate),
		"end_date":     timeParam(p.EndDate),
		"created_at":   p.CreatedAt,
		"updated_at":   p.UpdatedAt,
	}
	if len(p.RolesNeeded) > 0 {
		if raw, err := json.Marshal(p.RolesNeeded); err == nil {
			props["roles_needed"] = string(raw)
		}
	}
	return props
}

func consultantFromRecord(record *db.Record) (*models.Consultant, error) {
	value, found := record.Get("c")
	if !found {
		return nil, fmt.Errorf("consultant record missing node properties")
	}
	props, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected type for consultant properties: got %T", value)
	}

	c := models.Consultant{
		ID:                asString(props["id"]),
		Name:              asString(props["name"]),
		Email:             asString(props["email"]),
		YearsOfExperience: asInt(props["years_of_experience"]),
		Availability:      asBool(props["availability"]),
		WantsNewProject:   asBool(props["wants_new_project"]),
		OpenToRemote:      asBool(props["open_to_remote"]),
		OpenToRelocation:  asBool(props["open_to_relocation"]),
		PreferredRegions:  asStringSlice(props["preferred_regions"]),
		CreatedAt:         asTime(props["created_at"]),
		UpdatedAt:         asTime(props["updated_at"]),
	}

	if raw, found := record.Get("skills"); found {
		for _, item := range asSlice(raw) {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			rel := asMap(entry["rel"])
			skill := asMap(entry["skill"])
			c.Skills = append(c.Skills, models.HasSkill{
				SkillID:           asString(skill["id"]),
				SkillName:         asString(skill["name"]),
				Synonyms:          asStringSlice(skill["synonyms"]),
				YearsOfExperience: asInt(rel["years_of_experience"]),
			})
		}
	}

	if raw, found := record.Get("assignments"); found {
		for _, item := range asSlice(raw) {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			rel := asMap(entry["rel"])
			project := asMap(entry["project"])
			company := asMap(entry["company"])
			c.Assignments = append(c.Assignments, models.AssignedTo{
				ProjectID:         asString(project["id"]),
				ProjectName:       asString(project["name"]),
				CompanyID:         asString(company["id"]),
				CompanyName:       asString(company["name"]),
				Role:              asString(rel["role"]),
				AllocationPercent: asInt(rel["allocation_percent"]),
				IsActive:          asBool(rel["is_active"]),
				StartDate:         asTimePtr(rel["start_date"]),
				EndDate:           asTimePtr(rel["end_date"]),
			})
		}
	}

	return &c, nil
}

func skillFromProps(props map[string]any) models.Skill {
	return models.Skill{
		ID:        asString(props["id"]),
		Name:      asString(props["name"]),
		Synonyms:  asStringSlice(props["synonyms"]),
		CreatedAt: asTime(props["created_at"]),
		UpdatedAt: asTime(props["updated_at"]),
	}
}

func companyFromProps(props map[string]any) models.Company {
	return models.Company{
		ID:        asString(props["id"]),
		Name:      asString(props["name"]),
		Field:     asString(props["field"]),
		CreatedAt: asTime(props["created_at"]),
		UpdatedAt: asTime(props["updated_at"]),
	}
}

func projectFromRecord(record *db.Record) (*models.Project, error) {
	value, found := record.Get("props")
	if !found {
		return nil, fmt.Errorf("project record missing node properties")
	}
	props, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected type for project properties: got %T", value)
	}

	p := models.Project{
		ID:           asString(props["id"]),
		Name:         asString(props["name"]),
		Requirements: asStringSlice(props["requirements"]),
		StartDate:    asTimePtr(props["start_date"]),
		EndDate:      asTimePtr(props["end_date"]),
		CreatedAt:    asTime(props["created_at"]),
		UpdatedAt:    asTime(props["updated_at"]),
	}
	if raw := asString(props["roles_needed"]); raw != "" {
		roles := make(map[string]int)
		if err := json.Unmarshal([]byte(raw), &roles); err == nil {
			p.RolesNeeded = roles
		}
	}

	if companyValue, found := record.Get("company"); found && companyValue != nil {
		if companyProps, ok := companyValue.(map[string]any); ok {
			company := companyFromProps(companyProps)
			p.Company = &company
		}
	}

	if requiredValue, found := record.Get("required"); found {
		for _, item := range asSlice(requiredValue) {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			rel := asMap(entry["rel"])
			skill := asMap(entry["skill"])
			p.RequiredSkills = append(p.RequiredSkills, models.RequiresSkill{
				SkillID:              asString(skill["id"]),
				SkillName:            asString(skill["name"]),
				MinYearsOfExperience: asInt(rel["min_years_of_experience"]),
				Mandatory:            asBool(rel["mandatory"]),
			})
		}
	}

	return &p, nil
}

// --- value coercion ---

func timeParam(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func recordInt(record *db.Record, key string) int64 {
	value, found := record.Get(key)
	if !found {
		return 0
	}
	v, _ := value.(int64)
	return v
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func asSlice(v any) []any {
	items, _ := v.([]any)
	return items
}

func asMap(v any) map[string]any {
	m, ok := v.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return m
}

func asTime(v any) time.Time {
	if t, ok := v.(time.Time); ok {
		return t
	}
	return time.Time{}
}

func asTimePtr(v any) *time.Time {
	if t, ok := v.(time.Time); ok {
		out := t
		return &out
	}
	return nil
}
