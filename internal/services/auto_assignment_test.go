package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/janakural/internal/models"
	"github.com/janakural/internal/repositories"
)

type assignFixture struct {
	adminRepo repositories.AdministratorRepository
	issueRepo repositories.IssueRepository
	assigner  *AutoAssigner
}

func newAssignFixture(t *testing.T, roster ...models.Administrator) *assignFixture {
	t.Helper()
	conn := newTestDB(t)
	f := &assignFixture{
		adminRepo: repositories.NewGormAdministratorRepository(conn),
		issueRepo: repositories.NewGormIssueRepository(conn),
	}
	for i := range roster {
		require.NoError(t, f.adminRepo.Create(context.Background(), &roster[i]))
	}
	f.assigner = NewAutoAssigner(f.adminRepo, f.issueRepo, zap.NewNop())
	return f
}

func (f *assignFixture) submit(t *testing.T, districtID, subDistrictID string) *models.Issue {
	t.Helper()
	ctx := context.Background()
	issue := &models.Issue{
		Title:        "Broken hand pump",
		Category:     models.CategoryWater,
		Status:       models.IssueStatusSubmitted,
		Priority:     models.PriorityMedium,
		Location:     models.IssueLocation{DistrictID: districtID, SubDistrictID: subDistrictID},
		BeforePhotos: []string{},
		AfterPhotos:  []string{},
	}
	require.NoError(t, f.issueRepo.Create(ctx, issue))
	f.assigner.HandleIssueCreated(ctx, issue)

	stored, err := f.issueRepo.GetByID(ctx, issue.ID)
	require.NoError(t, err)
	return stored
}

func TestAutoAssigner_PrefersPanchayatLeader(t *testing.T) {
	district := admin("911", models.RoleDistrictLeader, "madurai", "", "dl-token")
	panchayat := admin("912", models.RolePanchayatLeader, "madurai", "melur", "")
	panchayat.Name = "Selvi"
	f := newAssignFixture(t, district, panchayat)

	stored := f.submit(t, "madurai", "melur")

	assert.Equal(t, models.IssueStatusAssigned, stored.Status)
	require.NotNil(t, stored.AssignedTo)
	assert.Equal(t, "Selvi", *stored.AssignedTo, "assignment ignores push tokens")
	require.NotNil(t, stored.AssignedBy)
	assert.Equal(t, AutoAssignedBy, *stored.AssignedBy)
}

func TestAutoAssigner_FallsBackToDistrictLeaderPhone(t *testing.T) {
	district := admin("911", models.RoleDistrictLeader, "madurai", "", "")
	district.Name = ""
	f := newAssignFixture(t, district)

	stored := f.submit(t, "madurai", "usilampatti")

	require.NotNil(t, stored.AssignedTo)
	assert.Equal(t, "+911", *stored.AssignedTo, "phone is used when the name is empty")
}

func TestAutoAssigner_NoCandidateLeavesIssueSubmitted(t *testing.T) {
	f := newAssignFixture(t,
		admin("911", models.RoleSuperAdmin, "", "", "t"),
		admin("912", models.RoleDistrictLeader, "salem", "", "t"),
	)

	stored := f.submit(t, "madurai", "melur")

	assert.Equal(t, models.IssueStatusSubmitted, stored.Status)
	assert.Nil(t, stored.AssignedTo)
	assert.Nil(t, stored.AssignedBy)
}

func TestAutoAssigner_NoDistrictMeansNoWrite(t *testing.T) {
	f := newAssignFixture(t, admin("911", models.RolePanchayatLeader, "", "", "t"))

	stored := f.submit(t, "", "")

	assert.Equal(t, models.IssueStatusSubmitted, stored.Status)
	assert.Nil(t, stored.AssignedTo)
}

func TestAutoAssigner_SkipsInactiveLeaders(t *testing.T) {
	inactive := admin("911", models.RolePanchayatLeader, "madurai", "melur", "")
	inactive.IsActive = false
	f := newAssignFixture(t, inactive)

	stored := f.submit(t, "madurai", "melur")

	assert.Equal(t, models.IssueStatusSubmitted, stored.Status)
	assert.Nil(t, stored.AssignedTo)
}

func TestAutoAssigner_RosterFailureIsSwallowed(t *testing.T) {
	f := newAssignFixture(t, admin("911", models.RolePanchayatLeader, "madurai", "melur", ""))
	f.assigner = NewAutoAssigner(failingRoster{AdministratorRepository: f.adminRepo, err: errors.New("timeout")}, f.issueRepo, zap.NewNop())

	stored := f.submit(t, "madurai", "melur")

	assert.Equal(t, models.IssueStatusSubmitted, stored.Status)
	assert.Nil(t, stored.AssignedTo)
}
