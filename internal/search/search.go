// Package search implements the consultant search-and-scoring engine:
// criteria evaluation against the staffing graph, weighted relevance
// scoring, and deterministic ranking.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/opentalent/talentgraph/internal/metrics"
	"github.com/opentalent/talentgraph/internal/models"
	"github.com/opentalent/talentgraph/internal/store"
)

// RankedConsultant is one search result: the fully hydrated consultant (all
// skills and assignments, not just the matched subsets) with its score
// breakdown.
type RankedConsultant struct {
	Consultant       models.Consultant `json:"consultant"`
	MatchedSkills    int               `json:"matched_skills"`
	MatchedRoles     int               `json:"matched_roles"`
	MatchedCompanies int               `json:"matched_companies"`
	Score            int               `json:"score"`
}

// Searcher composes the filter evaluator and the scorer over a GraphStore.
// It is stateless per call: concurrent searches need no coordination.
type Searcher struct {
	st            store.GraphStore
	weights       Weights
	maxCandidates int
	logger        *slog.Logger
}

// NewSearcher creates a Searcher. maxCandidates bounds the store scan
// (0 = unbounded).
func NewSearcher(st store.GraphStore, weights Weights, maxCandidates int, logger *slog.Logger) *Searcher {
	return &Searcher{
		st:            st,
		weights:       weights,
		maxCandidates: maxCandidates,
		logger:        logger,
	}
}

// Search evaluates the criteria against every consultant, scores the passing
// ones, and returns them ordered by score descending, id ascending on ties.
// An empty result is a valid outcome, not an error.
func (s *Searcher) Search(ctx context.Context, crit *Criteria) ([]RankedConsultant, error) {
	if crit == nil {
		crit = &Criteria{}
	}
	if err := crit.Validate(); err != nil {
		return nil, err
	}

	candidates, err := s.st.FindAllConsultants(ctx, s.maxCandidates)
	if err != nil {
		return nil, fmt.Errorf("search: loading candidates: %w", err)
	}

	ranked := make([]RankedConsultant, 0, len(candidates))
	for i := range candidates {
		mr := Evaluate(&candidates[i], crit)
		if !mr.Passes {
			continue
		}
		ranked = append(ranked, RankedConsultant{
			Consultant:       candidates[i],
			MatchedSkills:    len(mr.MatchedSkills),
			MatchedRoles:     len(mr.MatchedRoles),
			MatchedCompanies: len(mr.MatchedCompanies),
			Score:            Score(mr, s.weights),
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Consultant.ID < ranked[j].Consultant.ID
	})

	metrics.Inc(metrics.SearchTotal)
	s.logger.Debug("search completed",
		"candidates", len(candidates), "matches", len(ranked))

	return ranked, nil
}
