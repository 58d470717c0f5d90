package models

import (
	"time"
)

// Consultant is a person node in the staffing graph. It exclusively owns its
// HAS_SKILL and ASSIGNED_TO edge records; no other entity shares them.
//
// Availability is derived from the assignment set and is never accepted from
// clients — see the availability package.
type Consultant struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	Email             string       `json:"email"`
	YearsOfExperience int          `json:"years_of_experience"`
	Availability      bool         `json:"availability"`
	WantsNewProject   bool         `json:"wants_new_project"`
	OpenToRemote      bool         `json:"open_to_remote"`
	OpenToRelocation  bool         `json:"open_to_relocation"`
	PreferredRegions  []string     `json:"preferred_regions,omitempty"`
	Skills            []HasSkill   `json:"skills"`
	Assignments       []AssignedTo `json:"project_assignments"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// HasSkill is a consultant→skill edge record. SkillName and Synonyms are
// hydrated from the target skill node on read.
type HasSkill struct {
	SkillID           string   `json:"skill_id"`
	SkillName         string   `json:"skill_name"`
	Synonyms          []string `json:"synonyms,omitempty"`
	YearsOfExperience int      `json:"years_of_experience"`
}

// AssignedTo is a consultant→project edge record. ProjectName and CompanyName
// are hydrated from the target project (and its owning company) on read.
//
// An assignment with a start date and a nil end date is open-ended: it keeps
// occupying the consultant until deactivated.
type AssignedTo struct {
	ProjectID         string     `json:"project_id"`
	ProjectName       string     `json:"project_name"`
	CompanyID         string     `json:"company_id,omitempty"`
	CompanyName       string     `json:"company_name,omitempty"`
	Role              string     `json:"role"`
	AllocationPercent int        `json:"allocation_percent"`
	IsActive          bool       `json:"is_active"`
	StartDate         *time.Time `json:"start_date,omitempty"`
	EndDate           *time.Time `json:"end_date,omitempty"`
}

// SkillNames returns the primary names of all skills the consultant holds.
func (c *Consultant) SkillNames() []string {
	names := make([]string, 0, len(c.Skills))
	for _, hs := range c.Skills {
		names = append(names, hs.SkillName)
	}
	return names
}

// ActiveAssignments returns the subset of assignments with IsActive set.
func (c *Consultant) ActiveAssignments() []AssignedTo {
	var active []AssignedTo
	for _, a := range c.Assignments {
		if a.IsActive {
			active = append(active, a)
		}
	}
	return active
}
