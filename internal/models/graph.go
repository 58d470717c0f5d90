package models

import (
	"time"
)

// Skill is a skill node. Name is the case-sensitive identity key; Synonyms
// are alternate names that also count for search matching.
type Skill struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Synonyms  []string  `json:"synonyms,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Company is a company node, reachable from consultants through
// ASSIGNED_TO → Project → OWNED_BY.
type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Field     string    `json:"field,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Project is a project node. RolesNeeded maps a role name to the headcount
// still wanted for it. A project is owned by zero or one company.
type Project struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Requirements   []string        `json:"requirements,omitempty"`
	StartDate      *time.Time      `json:"start_date,omitempty"`
	EndDate        *time.Time      `json:"end_date,omitempty"`
	RolesNeeded    map[string]int  `json:"roles_needed,omitempty"`
	Company        *Company        `json:"company,omitempty"`
	RequiredSkills []RequiresSkill `json:"required_skills,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// RequiresSkill is a project→skill edge record.
type RequiresSkill struct {
	SkillID              string `json:"skill_id"`
	SkillName            string `json:"skill_name"`
	MinYearsOfExperience int    `json:"min_years_of_experience"`
	Mandatory            bool   `json:"mandatory"`
}

// GraphStats holds summary counts for the whole graph.
type GraphStats struct {
	Consultants          int64 `json:"consultants"`
	AvailableConsultants int64 `json:"available_consultants"`
	Skills               int64 `json:"skills"`
	Companies            int64 `json:"companies"`
	Projects             int64 `json:"projects"`
	Assignments          int64 `json:"assignments"`
	ActiveAssignments    int64 `json:"active_assignments"`
}
