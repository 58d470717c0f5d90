package search

import (
	"fmt"
	"time"

	"github.com/opentalent/talentgraph/internal/store"
)

// Criteria is a multi-criteria consultant filter. Every field is optional;
// nil or empty means "no constraint on this dimension".
//
// SkillNames, Roles and PreviousCompanies are matching criteria: they build
// matched sets used for scoring, and a consultant passes when at least one
// of the supplied dimensions matches (inclusive OR). Availability,
// WantsNewProject, OpenToRemote and MinYearsOfExperience are gates: failing
// any supplied gate excludes the consultant outright.
type Criteria struct {
	SkillNames           []string   `json:"skill_names,omitempty"`
	Roles                []string   `json:"roles,omitempty"`
	PreviousCompanies    []string   `json:"previous_companies,omitempty"`
	Availability         *bool      `json:"availability,omitempty"`
	WantsNewProject      *bool      `json:"wants_new_project,omitempty"`
	OpenToRemote         *bool      `json:"open_to_remote,omitempty"`
	MinYearsOfExperience *int       `json:"min_years_of_experience,omitempty"`
	StartDate            *time.Time `json:"start_date,omitempty"`
	EndDate              *time.Time `json:"end_date,omitempty"`
}

// Validate rejects criteria combinations that would otherwise be silently
// ignored. The date range is only meaningful together with availability=true,
// where it switches the availability gate from the stored flag to
// interval-overlap evaluation.
func (c *Criteria) Validate() error {
	if c.StartDate != nil && c.EndDate != nil && c.EndDate.Before(*c.StartDate) {
		return fmt.Errorf("%w: end_date %s is before start_date %s",
			store.ErrInvalid, c.EndDate.Format(time.RFC3339), c.StartDate.Format(time.RFC3339))
	}
	if (c.StartDate != nil || c.EndDate != nil) && (c.Availability == nil || !*c.Availability) {
		return fmt.Errorf("%w: start_date/end_date require availability=true", store.ErrInvalid)
	}
	if c.MinYearsOfExperience != nil && *c.MinYearsOfExperience < 0 {
		return fmt.Errorf("%w: min_years_of_experience must be >= 0", store.ErrInvalid)
	}
	return nil
}

// hasMatchCriteria reports whether any matching (non-gate) dimension was
// supplied.
func (c *Criteria) hasMatchCriteria() bool {
	return len(c.SkillNames) > 0 || len(c.Roles) > 0 || len(c.PreviousCompanies) > 0
}
