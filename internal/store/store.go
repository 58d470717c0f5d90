package store

import (
	"context"
	"errors"

	"github.com/opentalent/talentgraph/internal/models"
)

// ErrNotFound is returned when a node referenced by id (or unique key) does
// not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a create would violate a unique key
// (consultant email, skill/company/project name).
var ErrConflict = errors.New("already exists")

// ErrInvalid is returned for invalid arguments: malformed search criteria,
// mutations referencing edges that do not exist.
var ErrInvalid = errors.New("invalid argument")

// GraphStore defines persistence for the consultant/skill/company/project
// graph. Consultants are saved whole: SaveConsultant rewrites the node's
// properties and its owned HAS_SKILL and ASSIGNED_TO edges in a single write
// transaction, so a read-modify-write on one consultant is atomic per entity.
// Deleting any node also removes its owned edges.
type GraphStore interface {
	// Consultants.
	CreateConsultant(ctx context.Context, c models.Consultant) (*models.Consultant, error)
	GetConsultant(ctx context.Context, id string) (*models.Consultant, error)
	GetConsultantByEmail(ctx context.Context, email string) (*models.Consultant, error)
	// FindAllConsultants returns all consultants hydrated with their skill
	// and assignment edges, ordered by id ascending, capped at limit
	// (0 = no cap).
	FindAllConsultants(ctx context.Context, limit int) ([]models.Consultant, error)
	SaveConsultant(ctx context.Context, c models.Consultant) (*models.Consultant, error)
	DeleteConsultant(ctx context.Context, id string) error

	// Skills.
	CreateSkill(ctx context.Context, s models.Skill) (*models.Skill, error)
	GetSkill(ctx context.Context, id string) (*models.Skill, error)
	GetSkillByName(ctx context.Context, name string) (*models.Skill, error)
	ListSkills(ctx context.Context) ([]models.Skill, error)
	SaveSkill(ctx context.Context, s models.Skill) (*models.Skill, error)
	DeleteSkill(ctx context.Context, id string) error

	// Companies.
	CreateCompany(ctx context.Context, c models.Company) (*models.Company, error)
	GetCompany(ctx context.Context, id string) (*models.Company, error)
	GetCompanyByName(ctx context.Context, name string) (*models.Company, error)
	ListCompanies(ctx context.Context) ([]models.Company, error)
	DeleteCompany(ctx context.Context, id string) error

	// Projects.
	CreateProject(ctx context.Context, p models.Project) (*models.Project, error)
	GetProject(ctx context.Context, id string) (*models.Project, error)
	GetProjectByName(ctx context.Context, name string) (*models.Project, error)
	ListProjects(ctx context.Context) ([]models.Project, error)
	SaveProject(ctx context.Context, p models.Project) (*models.Project, error)
	DeleteProject(ctx context.Context, id string) error

	// EnsureIndexes creates the uniqueness and lookup indexes if missing.
	EnsureIndexes(ctx context.Context) error

	// Stats returns node and edge counts for the whole graph.
	Stats(ctx context.Context) (*models.GraphStats, error)

	// Close cleans up resources.
	Close(ctx context.Context) error
}
