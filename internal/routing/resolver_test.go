package routing

import (
	"testing"

	"github.com/janakural/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func admin(id string, role models.AdminRole, district, sub, token string, active bool) models.Administrator {
	return models.Administrator{
		ID:           id,
		Phone:        "+" + id,
		Name:         "Admin " + id,
		Role:         role,
		AssignedArea: models.AssignedArea{DistrictID: district, SubDistrictID: sub},
		DeviceToken:  token,
		IsActive:     active,
	}
}

func ids(admins []models.Administrator) []string {
	out := make([]string, 0, len(admins))
	for _, a := range admins {
		out = append(out, a.ID)
	}
	return out
}

func TestResolveAudience_PanchayatExactMatch(t *testing.T) {
	roster := []models.Administrator{
		admin("1", models.RolePanchayatLeader, "madurai", "melur", "tok1", true),
	}

	audience := ResolveAudience(Jurisdiction{DistrictID: "madurai", SubDistrictID: "melur"}, roster)

	assert.Equal(t, []string{"1"}, ids(audience.Matched))
	assert.Equal(t, []string{"tok1"}, audience.Tokens())
}

func TestResolveAudience_SubDistrictMismatch(t *testing.T) {
	roster := []models.Administrator{
		admin("1", models.RolePanchayatLeader, "madurai", "melur", "tok1", true),
	}

	audience := ResolveAudience(Jurisdiction{DistrictID: "madurai", SubDistrictID: "usilampatti"}, roster)

	assert.Empty(t, audience.Matched)
	assert.Empty(t, audience.Tokens())
}

func TestResolveAudience_DistrictLeaderIgnoresSubDistrict(t *testing.T) {
	roster := []models.Administrator{
		admin("1", models.RoleDistrictLeader, "coimbatore", "", "t1", true),
		admin("2", models.RoleSuperAdmin, "", "", "t2", true),
	}

	audience := ResolveAudience(Jurisdiction{DistrictID: "coimbatore", SubDistrictID: "pollachi"}, roster)

	assert.ElementsMatch(t, []string{"1", "2"}, ids(audience.Matched))
	assert.ElementsMatch(t, []string{"t1", "t2"}, audience.Tokens())
}

func TestResolveAudience_MatchedVersusDeliverable(t *testing.T) {
	roster := []models.Administrator{
		admin("pl", models.RolePanchayatLeader, "madurai", "melur", "", true),
		admin("dl", models.RoleDistrictLeader, "madurai", "", "dl-token", true),
	}
	j := Jurisdiction{DistrictID: "madurai", SubDistrictID: "melur"}

	audience := ResolveAudience(j, roster)

	assert.Equal(t, 2, audience.MatchedCount())
	assert.Equal(t, 1, audience.DeliverableCount())
	assert.Equal(t, []string{"dl-token"}, audience.Tokens())

	assignee, ok := ResolveAssignee(j, roster)
	require.True(t, ok)
	assert.Equal(t, "pl", assignee.ID)
}

func TestResolveAudience_EmptySubDistrictOnlyMatchesEmptyAssignment(t *testing.T) {
	roster := []models.Administrator{
		admin("with-sub", models.RolePanchayatLeader, "madurai", "melur", "a", true),
		admin("without-sub", models.RolePanchayatLeader, "madurai", "", "b", true),
	}

	audience := ResolveAudience(Jurisdiction{DistrictID: "madurai"}, roster)

	assert.Equal(t, []string{"without-sub"}, ids(audience.Matched))
}

func TestResolveAudience_ExcludesInactiveAndUnrelated(t *testing.T) {
	roster := []models.Administrator{
		admin("inactive-state", models.RoleStateAdmin, "", "", "t1", false),
		admin("inactive-dl", models.RoleDistrictLeader, "madurai", "", "t2", false),
		admin("other-district", models.RoleDistrictLeader, "salem", "", "t3", true),
		admin("booth", models.RoleBoothAgent, "madurai", "melur", "t4", true),
		admin("constituency", models.RoleConstituencyHead, "madurai", "", "t5", true),
		admin("state", models.RoleStateAdmin, "", "", "t6", true),
	}

	audience := ResolveAudience(Jurisdiction{DistrictID: "madurai", SubDistrictID: "melur"}, roster)

	assert.Equal(t, []string{"state"}, ids(audience.Matched))
}

func TestResolveAudience_CollapsesDuplicateIDs(t *testing.T) {
	sa := admin("1", models.RoleSuperAdmin, "", "", "t", true)
	audience := ResolveAudience(Jurisdiction{DistrictID: "madurai"}, []models.Administrator{sa, sa})

	assert.Len(t, audience.Matched, 1)
	assert.Len(t, audience.Deliverable, 1)
}

func TestResolve_NoDistrictShortCircuits(t *testing.T) {
	roster := []models.Administrator{
		admin("1", models.RoleSuperAdmin, "", "", "t", true),
		admin("2", models.RoleDistrictLeader, "", "", "t2", true),
	}

	audience := ResolveAudience(Jurisdiction{}, roster)
	assert.Empty(t, audience.Matched)
	assert.Empty(t, audience.Deliverable)

	_, ok := ResolveAssignee(Jurisdiction{SubDistrictID: "melur"}, roster)
	assert.False(t, ok)
}

func TestResolve_EmptyRoster(t *testing.T) {
	j := Jurisdiction{DistrictID: "madurai", SubDistrictID: "melur"}

	audience := ResolveAudience(j, nil)
	assert.Zero(t, audience.MatchedCount())
	assert.Empty(t, audience.Tokens())

	_, ok := ResolveAssignee(j, nil)
	assert.False(t, ok)
}

func TestResolveAssignee_PanchayatBeatsDistrictRegardlessOfOrder(t *testing.T) {
	j := Jurisdiction{DistrictID: "madurai", SubDistrictID: "melur"}
	pl := admin("pl", models.RolePanchayatLeader, "madurai", "melur", "", true)
	dl := admin("dl", models.RoleDistrictLeader, "madurai", "", "", true)

	for name, roster := range map[string][]models.Administrator{
		"district first":  {dl, pl},
		"panchayat first": {pl, dl},
	} {
		t.Run(name, func(t *testing.T) {
			assignee, ok := ResolveAssignee(j, roster)
			require.True(t, ok)
			assert.Equal(t, "pl", assignee.ID)
		})
	}
}

func TestResolveAssignee_FallsBackToDistrictLeader(t *testing.T) {
	roster := []models.Administrator{
		admin("pl-other", models.RolePanchayatLeader, "madurai", "usilampatti", "", true),
		admin("dl", models.RoleDistrictLeader, "madurai", "", "", true),
	}

	assignee, ok := ResolveAssignee(Jurisdiction{DistrictID: "madurai", SubDistrictID: "melur"}, roster)
	require.True(t, ok)
	assert.Equal(t, "dl", assignee.ID)
}

func TestResolveAssignee_FirstInRosterWinsWithinTier(t *testing.T) {
	roster := []models.Administrator{
		admin("dl-a", models.RoleDistrictLeader, "madurai", "", "", true),
		admin("dl-b", models.RoleDistrictLeader, "madurai", "", "", true),
	}

	assignee, ok := ResolveAssignee(Jurisdiction{DistrictID: "madurai"}, roster)
	require.True(t, ok)
	assert.Equal(t, "dl-a", assignee.ID)
}

func TestResolveAssignee_SkipsInactive(t *testing.T) {
	roster := []models.Administrator{
		admin("pl", models.RolePanchayatLeader, "madurai", "melur", "", false),
		admin("dl", models.RoleDistrictLeader, "madurai", "", "", false),
		admin("sa", models.RoleSuperAdmin, "", "", "", true),
	}

	_, ok := ResolveAssignee(Jurisdiction{DistrictID: "madurai", SubDistrictID: "melur"}, roster)
	assert.False(t, ok)
}
