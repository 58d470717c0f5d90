package search

import (
	"strings"

	"github.com/opentalent/talentgraph/internal/availability"
	"github.com/opentalent/talentgraph/internal/models"
)

// MatchResult is the per-consultant outcome of evaluating search criteria.
// The matched sets are distinct: a skill counts once however many criteria
// names hit it, an assignment counts once however many role tokens it
// contains, a company counts once across all assignments that reach it.
type MatchResult struct {
	Passes           bool
	MatchedSkills    []models.HasSkill
	MatchedRoles     []models.AssignedTo
	MatchedCompanies []string
}

// Evaluate decides whether a consultant passes the supplied criteria and
// collects the matched sets used for scoring.
//
// Gating: all supplied equality/threshold gates must hold, and — when at
// least one matching dimension was supplied — at least one matched set must
// be non-empty. The OR across matching dimensions is deliberate: filters
// narrow the pool loosely and ranking does the discrimination.
func Evaluate(c *models.Consultant, crit *Criteria) MatchResult {
	mr := MatchResult{
		MatchedSkills:    matchSkills(c, crit.SkillNames),
		MatchedRoles:     matchRoles(c, crit.Roles),
		MatchedCompanies: matchCompanies(c, crit.PreviousCompanies),
	}

	if !passesGates(c, crit) {
		return mr
	}

	if crit.hasMatchCriteria() &&
		len(mr.MatchedSkills) == 0 && len(mr.MatchedRoles) == 0 && len(mr.MatchedCompanies) == 0 {
		return mr
	}

	mr.Passes = true
	return mr
}

func passesGates(c *models.Consultant, crit *Criteria) bool {
	if crit.Availability != nil {
		if *crit.Availability && (crit.StartDate != nil || crit.EndDate != nil) {
			// Effective availability: the consultant must be free of active
			// assignments overlapping the requested window.
			if availability.HasActiveOverlap(c, crit.StartDate, crit.EndDate) {
				return false
			}
		} else if c.Availability != *crit.Availability {
			return false
		}
	}
	if crit.WantsNewProject != nil && c.WantsNewProject != *crit.WantsNewProject {
		return false
	}
	if crit.OpenToRemote != nil && c.OpenToRemote != *crit.OpenToRemote {
		return false
	}
	if crit.MinYearsOfExperience != nil && c.YearsOfExperience < *crit.MinYearsOfExperience {
		return false
	}
	return true
}

// matchSkills returns the distinct HasSkill edges whose skill name or any
// synonym equals one of the requested names. Matching is exact and
// case-sensitive: the skill name is the identity key.
func matchSkills(c *models.Consultant, names []string) []models.HasSkill {
	if len(names) == 0 {
		return nil
	}
	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n != "" {
			wanted[n] = struct{}{}
		}
	}

	var matched []models.HasSkill
	seen := make(map[string]struct{})
	for _, hs := range c.Skills {
		if !skillMatches(hs, wanted) {
			continue
		}
		if _, dup := seen[hs.SkillID]; dup {
			continue
		}
		seen[hs.SkillID] = struct{}{}
		matched = append(matched, hs)
	}
	return matched
}

func skillMatches(hs models.HasSkill, wanted map[string]struct{}) bool {
	if _, ok := wanted[hs.SkillName]; ok {
		return true
	}
	for _, syn := range hs.Synonyms {
		if _, ok := wanted[syn]; ok {
			return true
		}
	}
	return false
}

// matchRoles returns the distinct assignments whose role contains any of the
// given tokens, case-insensitively. Substring semantics are deliberate:
// "Backend Developer" matches the filter "developer".
func matchRoles(c *models.Consultant, roles []string) []models.AssignedTo {
	if len(roles) == 0 {
		return nil
	}
	tokens := make([]string, 0, len(roles))
	for _, r := range roles {
		if r != "" {
			tokens = append(tokens, strings.ToLower(r))
		}
	}
	if len(tokens) == 0 {
		return nil
	}

	var matched []models.AssignedTo
	for _, a := range c.Assignments {
		role := strings.ToLower(a.Role)
		if role == "" {
			continue
		}
		for _, tok := range tokens {
			if strings.Contains(role, tok) {
				matched = append(matched, a)
				break
			}
		}
	}
	return matched
}

// matchCompanies returns the distinct company names reachable through the
// consultant's assignments (ASSIGNED_TO → Project → OWNED_BY) that appear in
// the requested set. Active and historical assignments both count: the
// signal is employer history, not current occupation.
func matchCompanies(c *models.Consultant, companies []string) []string {
	if len(companies) == 0 {
		return nil
	}
	wanted := make(map[string]struct{}, len(companies))
	for _, n := range companies {
		if n != "" {
			wanted[n] = struct{}{}
		}
	}

	var matched []string
	seen := make(map[string]struct{})
	for _, a := range c.Assignments {
		if a.CompanyName == "" {
			continue
		}
		if _, ok := wanted[a.CompanyName]; !ok {
			continue
		}
		if _, dup := seen[a.CompanyName]; dup {
			continue
		}
		seen[a.CompanyName] = struct{}{}
		matched = append(matched, a.CompanyName)
	}
	return matched
}
