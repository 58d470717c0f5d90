package catalog

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opentalent/talentgraph/internal/store"
)

func testService() (*Service, *store.MockStore) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	st := store.NewMockStore()
	return NewService(st, logger), st
}

// TestSkillLifecycle covers create, get, synonym update and delete for skills.
func TestSkillLifecycle(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()

	skill, err := svc.CreateSkill(ctx, "Kubernetes", []string{"K8s"})
	require.NoError(t, err)
	assert.NotEmpty(t, skill.ID)

	got, err := svc.GetSkill(ctx, skill.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kubernetes", got.Name)
	assert.Equal(t, []string{"K8s"}, got.Synonyms)

	got, err = svc.UpdateSkillSynonyms(ctx, skill.ID, []string{"K8s", "kube"})
	require.NoError(t, err)
	assert.Equal(t, []string{"K8s", "kube"}, got.Synonyms)

	require.NoError(t, svc.DeleteSkill(ctx, skill.ID))
	_, err = svc.GetSkill(ctx, skill.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateSkill_Errors(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()

	_, err := svc.CreateSkill(ctx, "", nil)
	assert.ErrorIs(t, err, store.ErrInvalid)

	_, err = svc.CreateSkill(ctx, "Go", nil)
	require.NoError(t, err)
	_, err = svc.CreateSkill(ctx, "Go", nil)
	assert.ErrorIs(t, err, store.ErrConflict)
}

// TestListSkills verifies name-ordered listing.
func TestListSkills(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()

	for _, name := range []string{"Terraform", "Ansible", "Neo4j"} {
		_, err := svc.CreateSkill(ctx, name, nil)
		require.NoError(t, err)
	}

	skills, err := svc.ListSkills(ctx)
	require.NoError(t, err)
	require.Len(t, skills, 3)
	assert.Equal(t, "Ansible", skills[0].Name)
	assert.Equal(t, "Neo4j", skills[1].Name)
	assert.Equal(t, "Terraform", skills[2].Name)
}

func TestCompanyLifecycle(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()

	company, err := svc.CreateCompany(ctx, "Acme", "Logistics")
	require.NoError(t, err)

	got, err := svc.GetCompany(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)
	assert.Equal(t, "Logistics", got.Field)

	_, err = svc.CreateCompany(ctx, "Acme", "Retail")
	assert.ErrorIs(t, err, store.ErrConflict)

	_, err = svc.CreateCompany(ctx, "", "")
	assert.ErrorIs(t, err, store.ErrInvalid)

	require.NoError(t, svc.DeleteCompany(ctx, company.ID))
	_, err = svc.GetCompany(ctx, company.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

// TestCreateProject verifies owned and unowned projects plus date validation.
func TestCreateProject(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()

	company, err := svc.CreateCompany(ctx, "Acme", "Logistics")
	require.NoError(t, err)

	project, err := svc.CreateProject(ctx, CreateProjectRequest{
		Name:      "Replatforming",
		CompanyID: company.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, project.Company)
	assert.Equal(t, "Acme", project.Company.Name)

	bare, err := svc.CreateProject(ctx, CreateProjectRequest{Name: "Internal Tooling"})
	require.NoError(t, err)
	assert.Nil(t, bare.Company)

	_, err = svc.CreateProject(ctx, CreateProjectRequest{Name: ""})
	assert.ErrorIs(t, err, store.ErrInvalid)

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = svc.CreateProject(ctx, CreateProjectRequest{Name: "Backwards", StartDate: &start, EndDate: &end})
	assert.ErrorIs(t, err, store.ErrInvalid)

	_, err = svc.CreateProject(ctx, CreateProjectRequest{Name: "Orphan", CompanyID: "missing"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAssignCompany(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()

	company, err := svc.CreateCompany(ctx, "Acme", "")
	require.NoError(t, err)
	project, err := svc.CreateProject(ctx, CreateProjectRequest{Name: "Portal"})
	require.NoError(t, err)

	saved, err := svc.AssignCompany(ctx, project.ID, company.ID)
	require.NoError(t, err)
	require.NotNil(t, saved.Company)
	assert.Equal(t, company.ID, saved.Company.ID)

	_, err = svc.AssignCompany(ctx, project.ID, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

// TestAddRequiredSkill verifies edge creation, duplicate rejection and
// validation of the minimum-years bound.
func TestAddRequiredSkill(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()

	skill, err := svc.CreateSkill(ctx, "Go", nil)
	require.NoError(t, err)
	project, err := svc.CreateProject(ctx, CreateProjectRequest{Name: "Portal"})
	require.NoError(t, err)

	saved, err := svc.AddRequiredSkill(ctx, project.ID, skill.ID, 3, true)
	require.NoError(t, err)
	require.Len(t, saved.RequiredSkills, 1)
	rs := saved.RequiredSkills[0]
	assert.Equal(t, "Go", rs.SkillName)
	assert.Equal(t, 3, rs.MinYearsOfExperience)
	assert.True(t, rs.Mandatory)

	_, err = svc.AddRequiredSkill(ctx, project.ID, skill.ID, 3, true)
	assert.ErrorIs(t, err, store.ErrConflict)

	_, err = svc.AddRequiredSkill(ctx, project.ID, skill.ID, -1, false)
	assert.ErrorIs(t, err, store.ErrInvalid)
}

func TestSetRolesNeeded(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()

	project, err := svc.CreateProject(ctx, CreateProjectRequest{Name: "Portal"})
	require.NoError(t, err)

	saved, err := svc.SetRolesNeeded(ctx, project.ID, map[string]int{"Backend Developer": 2})
	require.NoError(t, err)
	assert.Equal(t, 2, saved.RolesNeeded["Backend Developer"])

	_, err = svc.SetRolesNeeded(ctx, project.ID, map[string]int{"": 1})
	assert.ErrorIs(t, err, store.ErrInvalid)

	_, err = svc.SetRolesNeeded(ctx, project.ID, map[string]int{"Dev": -1})
	assert.ErrorIs(t, err, store.ErrInvalid)
}

// TestDeleteSkill_Cascade verifies that deleting a skill also drops the
// project's REQUIRES_SKILL edge.
func TestDeleteSkill_Cascade(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()

	skill, err := svc.CreateSkill(ctx, "Go", nil)
	require.NoError(t, err)
	project, err := svc.CreateProject(ctx, CreateProjectRequest{Name: "Portal"})
	require.NoError(t, err)
	_, err = svc.AddRequiredSkill(ctx, project.ID, skill.ID, 1, false)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSkill(ctx, skill.ID))

	got, err := svc.GetProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Empty(t, got.RequiredSkills)
}
