package search

import (
	"fmt"
)

// Weights controls the relative importance of the three ranking signals.
// All three are required configuration: there are no defaults, and a missing
// or non-positive weight is a startup error. Gate criteria (availability,
// wantsNewProject) carry no score bonus — they already filtered the pool.
type Weights struct {
	Skill   int `json:"skill" mapstructure:"skill_weight"`
	Role    int `json:"role" mapstructure:"role_weight"`
	Company int `json:"company" mapstructure:"company_weight"`
}

// Validate checks that every weight is set and positive.
func (w Weights) Validate() error {
	if w.Skill <= 0 {
		return fmt.Errorf("scoring.skill_weight must be a positive integer, got %d", w.Skill)
	}
	if w.Role <= 0 {
		return fmt.Errorf("scoring.role_weight must be a positive integer, got %d", w.Role)
	}
	if w.Company <= 0 {
		return fmt.Errorf("scoring.company_weight must be a positive integer, got %d", w.Company)
	}
	return nil
}

// Score computes the relevance score for a match result:
//
//	|matchedSkills|*skill + |matchedRoles|*role + |matchedCompanies|*company
func Score(mr MatchResult, w Weights) int {
	return len(mr.MatchedSkills)*w.Skill +
		len(mr.MatchedRoles)*w.Role +
		len(mr.MatchedCompanies)*w.Company
}
