package roster

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

func testService() (*Service, *store.MockStore) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	st := store.NewMockStore()
	return NewService(st, logger), st
}

func seedProject(t *testing.T, st *store.MockStore, id, name string, company *models.Company) {
	t.Helper()
	ctx := context.Background()
	if company != nil {
		_, err := st.CreateCompany(ctx, *company)
		require.NoError(t, err)
	}
	_, err := st.CreateProject(ctx, models.Project{ID: id, Name: name, Company: company})
	require.NoError(t, err)
}

// TestCreate verifies that a new consultant starts available and carries the
// request fields.
func TestCreate(t *testing.T) {
	svc, _ := testService()

	c, err := svc.Create(context.Background(), CreateRequest{
		Name:              "Ada Lovelace",
		Email:             "ada@example.com",
		YearsOfExperience: 7,
		WantsNewProject:   true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.True(t, c.Availability)
	assert.Equal(t, 7, c.YearsOfExperience)
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateRequest{Email: "x@example.com"})
	assert.ErrorIs(t, err, store.ErrInvalid)

	_, err = svc.Create(ctx, CreateRequest{Name: "X"})
	assert.ErrorIs(t, err, store.ErrInvalid)

	_, err = svc.Create(ctx, CreateRequest{Name: "X", Email: "x@example.com", YearsOfExperience: -1})
	assert.ErrorIs(t, err, store.ErrInvalid)
}

// TestCreate_DuplicateEmail verifies the email uniqueness conflict.
func TestCreate_DuplicateEmail(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateRequest{Name: "A", Email: "same@example.com"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateRequest{Name: "B", Email: "same@example.com"})
	assert.ErrorIs(t, err, store.ErrConflict)
}

// TestAssignToProject verifies that assigning flips availability to false
// and hydrates project and company names onto the edge.
func TestAssignToProject(t *testing.T) {
	svc, st := testService()
	ctx := context.Background()
	seedProject(t, st, "p1", "Replatforming", &models.Company{ID: "co1", Name: "Acme"})

	c, err := svc.Create(ctx, CreateRequest{Name: "Dev", Email: "dev@example.com"})
	require.NoError(t, err)
	require.True(t, c.Availability)

	c, err = svc.AssignToProject(ctx, c.ID, "p1", AssignRequest{Role: "Backend Developer"})
	require.NoError(t, err)

	assert.False(t, c.Availability)
	require.Len(t, c.Assignments, 1)
	a := c.Assignments[0]
	assert.Equal(t, "Replatforming", a.ProjectName)
	assert.Equal(t, "Acme", a.CompanyName)
	assert.Equal(t, 100, a.AllocationPercent)
	assert.True(t, a.IsActive)
}

func TestAssignToProject_Validation(t *testing.T) {
	svc, st := testService()
	ctx := context.Background()
	seedProject(t, st, "p1", "Portal", nil)

	c, err := svc.Create(ctx, CreateRequest{Name: "Dev", Email: "dev@example.com"})
	require.NoError(t, err)

	_, err = svc.AssignToProject(ctx, c.ID, "p1", AssignRequest{})
	assert.ErrorIs(t, err, store.ErrInvalid)

	bad := 150
	_, err = svc.AssignToProject(ctx, c.ID, "p1", AssignRequest{Role: "Dev", AllocationPercent: &bad})
	assert.ErrorIs(t, err, store.ErrInvalid)

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = svc.AssignToProject(ctx, c.ID, "p1", AssignRequest{Role: "Dev", StartDate: &start, EndDate: &end})
	assert.ErrorIs(t, err, store.ErrInvalid)

	_, err = svc.AssignToProject(ctx, c.ID, "missing", AssignRequest{Role: "Dev"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

// TestDeactivateAssignment verifies that deactivation restores availability,
// stamps an end date, and stays idempotent.
func TestDeactivateAssignment(t *testing.T) {
	svc, st := testService()
	ctx := context.Background()
	seedProject(t, st, "p1", "Portal", nil)

	c, err := svc.Create(ctx, CreateRequest{Name: "Dev", Email: "dev@example.com"})
	require.NoError(t, err)
	c, err = svc.AssignToProject(ctx, c.ID, "p1", AssignRequest{Role: "Dev"})
	require.NoError(t, err)
	require.False(t, c.Availability)

	c, err = svc.DeactivateAssignment(ctx, c.ID, "p1")
	require.NoError(t, err)
	assert.True(t, c.Availability)
	require.Len(t, c.Assignments, 1)
	assert.False(t, c.Assignments[0].IsActive)
	assert.NotNil(t, c.Assignments[0].EndDate)

	// Second deactivation is a no-op, not an error.
	again, err := svc.DeactivateAssignment(ctx, c.ID, "p1")
	require.NoError(t, err)
	assert.True(t, again.Availability)
	assert.False(t, again.Assignments[0].IsActive)
}

func TestDeactivateAssignment_NotFound(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()

	c, err := svc.Create(ctx, CreateRequest{Name: "Dev", Email: "dev@example.com"})
	require.NoError(t, err)

	_, err = svc.DeactivateAssignment(ctx, c.ID, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

// TestRemoveAssignment verifies that removal deletes the edge and restores
// availability when it was the only active assignment.
func TestRemoveAssignment(t *testing.T) {
	svc, st := testService()
	ctx := context.Background()
	seedProject(t, st, "p1", "Portal", nil)

	c, err := svc.Create(ctx, CreateRequest{Name: "Dev", Email: "dev@example.com"})
	require.NoError(t, err)
	c, err = svc.AssignToProject(ctx, c.ID, "p1", AssignRequest{Role: "Dev"})
	require.NoError(t, err)

	c, err = svc.RemoveAssignment(ctx, c.ID, "p1")
	require.NoError(t, err)
	assert.Empty(t, c.Assignments)
	assert.True(t, c.Availability)

	_, err = svc.RemoveAssignment(ctx, c.ID, "p1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

// TestAvailabilityWithMultipleAssignments verifies the invariant: available
// iff no assignment is active.
func TestAvailabilityWithMultipleAssignments(t *testing.T) {
	svc, st := testService()
	ctx := context.Background()
	seedProject(t, st, "p1", "Portal", nil)
	seedProject(t, st, "p2", "Platform", nil)

	c, err := svc.Create(ctx, CreateRequest{Name: "Dev", Email: "dev@example.com"})
	require.NoError(t, err)

	c, err = svc.AssignToProject(ctx, c.ID, "p1", AssignRequest{Role: "Dev"})
	require.NoError(t, err)
	c, err = svc.AssignToProject(ctx, c.ID, "p2", AssignRequest{Role: "Dev"})
	require.NoError(t, err)
	require.False(t, c.Availability)

	c, err = svc.DeactivateAssignment(ctx, c.ID, "p1")
	require.NoError(t, err)
	assert.False(t, c.Availability, "one active assignment remains")

	c, err = svc.DeactivateAssignment(ctx, c.ID, "p2")
	require.NoError(t, err)
	assert.True(t, c.Availability)
}

// TestAddSkill verifies skill attachment with synonym hydration and
// duplicate rejection.
func TestAddSkill(t *testing.T) {
	svc, st := testService()
	ctx := context.Background()
	_, err := st.CreateSkill(ctx, models.Skill{ID: "s1", Name: "Go", Synonyms: []string{"Golang"}})
	require.NoError(t, err)

	c, err := svc.Create(ctx, CreateRequest{Name: "Dev", Email: "dev@example.com"})
	require.NoError(t, err)

	c, err = svc.AddSkill(ctx, c.ID, "s1", 4)
	require.NoError(t, err)
	require.Len(t, c.Skills, 1)
	assert.Equal(t, "Go", c.Skills[0].SkillName)
	assert.Equal(t, []string{"Golang"}, c.Skills[0].Synonyms)
	assert.Equal(t, 4, c.Skills[0].YearsOfExperience)

	_, err = svc.AddSkill(ctx, c.ID, "s1", 4)
	assert.ErrorIs(t, err, store.ErrConflict)

	_, err = svc.AddSkill(ctx, c.ID, "missing", 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

// TestUpdate verifies partial updates and that availability survives a
// recompute rather than any client value.
func TestUpdate(t *testing.T) {
	svc, st := testService()
	ctx := context.Background()
	seedProject(t, st, "p1", "Portal", nil)

	c, err := svc.Create(ctx, CreateRequest{Name: "Old Name", Email: "old@example.com"})
	require.NoError(t, err)
	_, err = svc.AssignToProject(ctx, c.ID, "p1", AssignRequest{Role: "Dev"})
	require.NoError(t, err)

	newName := "New Name"
	years := 12
	updated, err := svc.Update(ctx, c.ID, UpdateRequest{Name: &newName, YearsOfExperience: &years})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "old@example.com", updated.Email)
	assert.Equal(t, 12, updated.YearsOfExperience)
	assert.False(t, updated.Availability, "active assignment keeps consultant occupied")
}

func TestGetAndDelete(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()

	c, err := svc.Create(ctx, CreateRequest{Name: "Dev", Email: "dev@example.com"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	byEmail, err := svc.GetByEmail(ctx, "dev@example.com")
	require.NoError(t, err)
	assert.Equal(t, c.ID, byEmail.ID)

	require.NoError(t, svc.Delete(ctx, c.ID))
	_, err = svc.Get(ctx, c.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
