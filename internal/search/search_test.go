package search

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opentalent/talentgraph/internal/models"
	"github.com/opentalent/talentgraph/internal/store"
)

var testWeights = Weights{Skill: 10, Role: 5, Company: 5}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func boolPtr(v bool) *bool { return &v }
func intPtr(v int) *int    { return &v }

// seedConsultant inserts a consultant plus the skills and projects its edges
// point at, so the mock store can hydrate them on read.
func seedConsultant(t *testing.T, st *store.MockStore, c models.Consultant) {
	t.Helper()
	ctx := context.Background()
	for _, hs := range c.Skills {
		_, err := st.CreateSkill(ctx, models.Skill{ID: hs.SkillID, Name: hs.SkillName, Synonyms: hs.Synonyms})
		if err != nil {
			// Skill shared between consultants; already present is fine.
			require.ErrorIs(t, err, store.ErrConflict)
		}
	}
	for _, a := range c.Assignments {
		var company *models.Company
		if a.CompanyID != "" {
			company = &models.Company{ID: a.CompanyID, Name: a.CompanyName}
			if _, err := st.CreateCompany(ctx, *company); err != nil {
				require.ErrorIs(t, err, store.ErrConflict)
			}
		}
		_, err := st.CreateProject(ctx, models.Project{ID: a.ProjectID, Name: a.ProjectName, Company: company})
		if err != nil {
			require.ErrorIs(t, err, store.ErrConflict)
		}
	}
	_, err := st.CreateConsultant(ctx, c)
	require.NoError(t, err)
}

// TestSearch_SkillMatchScoring covers scenario: a consultant holding a
// requested skill passes the availability gate and scores one skill weight.
func TestSearch_SkillMatchScoring(t *testing.T) {
	st := store.NewMockStore()
	seedConsultant(t, st, models.Consultant{
		ID:           "c1",
		Name:         "Ada",
		Email:        "ada@example.com",
		Availability: true,
		Skills:       []models.HasSkill{{SkillID: "s-java", SkillName: "Java", YearsOfExperience: 5}},
	})

	s := NewSearcher(st, testWeights, 0, testLogger())
	results, err := s.Search(context.Background(), &Criteria{
		SkillNames:   []string{"Java"},
		Availability: boolPtr(true),
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "c1", results[0].Consultant.ID)
	assert.Equal(t, 1, results[0].MatchedSkills)
	assert.Equal(t, 1*testWeights.Skill, results[0].Score)
}

// TestSearch_ActiveAssignmentExcludedByAvailabilityGate covers scenario: an
// active assignment derives availability=false, so the gate excludes the
// consultant.
func TestSearch_ActiveAssignmentExcludedByAvailabilityGate(t *testing.T) {
	st := store.NewMockStore()
	seedConsultant(t, st, models.Consultant{
		ID:           "c1",
		Name:         "Dan",
		Email:        "dan@example.com",
		Availability: false,
		Assignments: []models.AssignedTo{{
			ProjectID: "p1", ProjectName: "Migration",
			CompanyID: "co1", CompanyName: "Acme",
			Role: "Developer", IsActive: true,
		}},
	})

	s := NewSearcher(st, testWeights, 0, testLogger())
	results, err := s.Search(context.Background(), &Criteria{Availability: boolPtr(true)})
	require.NoError(t, err)
	assert.Empty(t, results)
}

// TestSearch_TieBreakByID covers scenario: equal scores order by consultant
// id ascending.
func TestSearch_TieBreakByID(t *testing.T) {
	st := store.NewMockStore()
	seedConsultant(t, st, models.Consultant{
		ID: "c2", Name: "B", Email: "b@example.com", Availability: true,
		Skills: []models.HasSkill{{SkillID: "s-go", SkillName: "Go"}},
	})
	seedConsultant(t, st, models.Consultant{
		ID: "c1", Name: "A", Email: "a@example.com", Availability: true,
		Skills: []models.HasSkill{{SkillID: "s-go", SkillName: "Go"}},
	})

	s := NewSearcher(st, testWeights, 0, testLogger())
	results, err := s.Search(context.Background(), &Criteria{SkillNames: []string{"Go"}})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, results[0].Score, results[1].Score)
	assert.Equal(t, "c1", results[0].Consultant.ID)
	assert.Equal(t, "c2", results[1].Consultant.ID)
}

// TestSearch_RoleSubstringCaseInsensitive covers scenario: role filters use
// case-insensitive substring matching.
func TestSearch_RoleSubstringCaseInsensitive(t *testing.T) {
	st := store.NewMockStore()
	seedConsultant(t, st, models.Consultant{
		ID: "c1", Name: "Eve", Email: "eve@example.com", Availability: false,
		Assignments: []models.AssignedTo{{
			ProjectID: "p1", ProjectName: "Portal",
			Role: "Backend Developer", IsActive: true,
		}},
	})

	s := NewSearcher(st, testWeights, 0, testLogger())
	results, err := s.Search(context.Background(), &Criteria{Roles: []string{"developer"}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].MatchedRoles)
	assert.Equal(t, 1*testWeights.Role, results[0].Score)
}

// TestSearch_OpenEndedAssignmentBlocksWindow covers scenario: an open-ended
// active assignment overlaps every later window, so the interval-aware
// availability gate excludes the consultant.
func TestSearch_OpenEndedAssignmentBlocksWindow(t *testing.T) {
	st := store.NewMockStore()
	seedConsultant(t, st, models.Consultant{
		ID: "c1", Name: "Flo", Email: "flo@example.com", Availability: false,
		Assignments: []models.AssignedTo{{
			ProjectID: "p1", ProjectName: "Platform",
			Role: "Engineer", IsActive: true,
			StartDate: date("2025-01-01"), EndDate: nil,
		}},
	})

	s := NewSearcher(st, testWeights, 0, testLogger())
	results, err := s.Search(context.Background(), &Criteria{
		Availability: boolPtr(true),
		StartDate:    date("2025-06-01"),
		EndDate:      date("2025-12-01"),
	})
	require.NoError(t, err)
	assert.Empty(t, results)
}

// TestSearch_IntervalGateAdmitsBookedLater verifies the flip side: a stored
// availability=false consultant whose active assignment ends before the
// window still passes the interval-aware gate.
func TestSearch_IntervalGateAdmitsBookedLater(t *testing.T) {
	st := store.NewMockStore()
	seedConsultant(t, st, models.Consultant{
		ID: "c1", Name: "Gus", Email: "gus@example.com", Availability: false,
		Assignments: []models.AssignedTo{{
			ProjectID: "p1", ProjectName: "Integration",
			Role: "Engineer", IsActive: true,
			StartDate: date("2025-01-01"), EndDate: date("2025-03-01"),
		}},
	})

	s := NewSearcher(st, testWeights, 0, testLogger())
	results, err := s.Search(context.Background(), &Criteria{
		Availability: boolPtr(true),
		StartDate:    date("2025-06-01"),
		EndDate:      date("2025-12-01"),
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "c1", results[0].Consultant.ID)
}

// TestSearch_ORAcrossDimensions verifies the inclusive OR: matching only one
// of several supplied dimensions is enough to pass.
func TestSearch_ORAcrossDimensions(t *testing.T) {
	st := store.NewMockStore()
	seedConsultant(t, st, models.Consultant{
		ID: "c1", Name: "Hal", Email: "hal@example.com", Availability: true,
		Skills: []models.HasSkill{{SkillID: "s-rust", SkillName: "Rust"}},
	})

	s := NewSearcher(st, testWeights, 0, testLogger())
	results, err := s.Search(context.Background(), &Criteria{
		SkillNames:        []string{"Rust"},
		Roles:             []string{"architect"},
		PreviousCompanies: []string{"Globex"},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].MatchedSkills)
	assert.Equal(t, 0, results[0].MatchedRoles)
	assert.Equal(t, 0, results[0].MatchedCompanies)
}

// TestSearch_NoDimensionMatchExcludes verifies that supplying match criteria
// that hit nothing excludes the consultant even when all gates pass.
func TestSearch_NoDimensionMatchExcludes(t *testing.T) {
	st := store.NewMockStore()
	seedConsultant(t, st, models.Consultant{
		ID: "c1", Name: "Ivy", Email: "ivy@example.com", Availability: true,
		Skills: []models.HasSkill{{SkillID: "s-go", SkillName: "Go"}},
	})

	s := NewSearcher(st, testWeights, 0, testLogger())
	results, err := s.Search(context.Background(), &Criteria{SkillNames: []string{"COBOL"}})
	require.NoError(t, err)
	assert.Empty(t, results)
}

// TestSearch_SynonymMatch verifies that skill synonyms participate in
// matching without double-counting the skill.
func TestSearch_SynonymMatch(t *testing.T) {
	st := store.NewMockStore()
	seedConsultant(t, st, models.Consultant{
		ID: "c1", Name: "Joy", Email: "joy@example.com", Availability: true,
		Skills: []models.HasSkill{{
			SkillID: "s-k8s", SkillName: "Kubernetes", Synonyms: []string{"k8s"},
		}},
	})

	s := NewSearcher(st, testWeights, 0, testLogger())
	results, err := s.Search(context.Background(), &Criteria{SkillNames: []string{"k8s", "Kubernetes"}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].MatchedSkills)
	assert.Equal(t, 1*testWeights.Skill, results[0].Score)
}

// TestSearch_CompanyDistinctAcrossAssignments verifies that several
// assignments reaching the same company count it once.
func TestSearch_CompanyDistinctAcrossAssignments(t *testing.T) {
	st := store.NewMockStore()
	seedConsultant(t, st, models.Consultant{
		ID: "c1", Name: "Kim", Email: "kim@example.com", Availability: true,
		Assignments: []models.AssignedTo{
			{ProjectID: "p1", ProjectName: "Phase One", CompanyID: "co1", CompanyName: "Acme", Role: "Dev", IsActive: false},
			{ProjectID: "p2", ProjectName: "Phase Two", CompanyID: "co1", CompanyName: "Acme", Role: "Dev", IsActive: false},
		},
	})

	s := NewSearcher(st, testWeights, 0, testLogger())
	results, err := s.Search(context.Background(), &Criteria{PreviousCompanies: []string{"Acme"}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].MatchedCompanies)
	assert.Equal(t, 1*testWeights.Company, results[0].Score)
}

// TestSearch_MoreMatchesScoreHigher verifies score monotonicity: a superset
// of matched skills never ranks below a subset.
func TestSearch_MoreMatchesScoreHigher(t *testing.T) {
	st := store.NewMockStore()
	seedConsultant(t, st, models.Consultant{
		ID: "c1", Name: "One", Email: "one@example.com", Availability: true,
		Skills: []models.HasSkill{{SkillID: "s-go", SkillName: "Go"}},
	})
	seedConsultant(t, st, models.Consultant{
		ID: "c2", Name: "Two", Email: "two@example.com", Availability: true,
		Skills: []models.HasSkill{
			{SkillID: "s-go", SkillName: "Go"},
			{SkillID: "s-sql", SkillName: "SQL"},
		},
	})

	s := NewSearcher(st, testWeights, 0, testLogger())
	results, err := s.Search(context.Background(), &Criteria{SkillNames: []string{"Go", "SQL"}})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "c2", results[0].Consultant.ID)
	assert.Greater(t, results[0].Score, results[1].Score)
}

// TestSearch_EmptyCriteriaReturnsAll verifies that no criteria means no
// filtering: everyone passes with score zero.
func TestSearch_EmptyCriteriaReturnsAll(t *testing.T) {
	st := store.NewMockStore()
	seedConsultant(t, st, models.Consultant{ID: "c1", Name: "A", Email: "a@example.com", Availability: true})
	seedConsultant(t, st, models.Consultant{ID: "c2", Name: "B", Email: "b@example.com", Availability: false})

	s := NewSearcher(st, testWeights, 0, testLogger())
	results, err := s.Search(context.Background(), &Criteria{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Zero(t, r.Score)
	}
}

// TestSearch_MinYearsGate verifies the experience threshold gate.
func TestSearch_MinYearsGate(t *testing.T) {
	st := store.NewMockStore()
	seedConsultant(t, st, models.Consultant{
		ID: "c1", Name: "Junior", Email: "jr@example.com", Availability: true, YearsOfExperience: 2,
	})
	seedConsultant(t, st, models.Consultant{
		ID: "c2", Name: "Senior", Email: "sr@example.com", Availability: true, YearsOfExperience: 9,
	})

	s := NewSearcher(st, testWeights, 0, testLogger())
	results, err := s.Search(context.Background(), &Criteria{MinYearsOfExperience: intPtr(5)})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "c2", results[0].Consultant.ID)
}

func TestCriteriaValidate(t *testing.T) {
	t.Run("end before start", func(t *testing.T) {
		crit := &Criteria{
			Availability: boolPtr(true),
			StartDate:    date("2026-06-01"),
			EndDate:      date("2026-01-01"),
		}
		assert.ErrorIs(t, crit.Validate(), store.ErrInvalid)
	})

	t.Run("dates without availability", func(t *testing.T) {
		crit := &Criteria{StartDate: date("2026-06-01")}
		assert.ErrorIs(t, crit.Validate(), store.ErrInvalid)
	})

	t.Run("negative min years", func(t *testing.T) {
		crit := &Criteria{MinYearsOfExperience: intPtr(-1)}
		assert.ErrorIs(t, crit.Validate(), store.ErrInvalid)
	})

	t.Run("valid", func(t *testing.T) {
		crit := &Criteria{
			Availability: boolPtr(true),
			StartDate:    date("2026-01-01"),
			EndDate:      date("2026-06-01"),
		}
		assert.NoError(t, crit.Validate())
	})
}

func TestWeightsValidate(t *testing.T) {
	assert.NoError(t, testWeights.Validate())
	assert.Error(t, Weights{Skill: 0, Role: 5, Company: 5}.Validate())
	assert.Error(t, Weights{Skill: 10, Role: -1, Company: 5}.Validate())
	assert.Error(t, Weights{Skill: 10, Role: 5}.Validate())
}
