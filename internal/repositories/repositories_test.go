package repositories

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/janakural/internal/models"
	"github.com/janakural/pkg/db"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(conn) })
	return conn
}

func stringPtr(s string) *string { return &s }

func TestAdministratorRepository_CreateRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	repo := NewGormAdministratorRepository(newTestDB(t))

	admin := &models.Administrator{ID: "919876543210", Phone: "+919876543210", Name: "Kavitha", Role: models.RoleSuperAdmin, IsActive: true}
	require.NoError(t, repo.Create(ctx, admin))

	err := repo.Create(ctx, &models.Administrator{ID: "919876543210", Phone: "+91 98765 43210", Role: models.RoleBoothAgent})
	assert.ErrorIs(t, err, ErrAdministratorExists)

	stored, err := repo.GetByID(ctx, "919876543210")
	require.NoError(t, err)
	assert.Equal(t, "Kavitha", stored.Name)
	assert.True(t, stored.IsActive)
}

func TestAdministratorRepository_RosterOrderAndInactiveFlag(t *testing.T) {
	ctx := context.Background()
	repo := NewGormAdministratorRepository(newTestDB(t))

	for _, id := range []string{"3", "1", "2"} {
		require.NoError(t, repo.Create(ctx, &models.Administrator{ID: id, Phone: "+" + id, Role: models.RoleDistrictLeader, IsActive: id != "2"}))
	}

	roster, err := repo.ListRoster(ctx)
	require.NoError(t, err)
	require.Len(t, roster, 3)
	assert.Equal(t, "1", roster[0].ID)
	assert.Equal(t, "2", roster[1].ID)
	assert.False(t, roster[1].IsActive, "inactive administrators are stored with is_active=false")
	assert.Equal(t, "3", roster[2].ID)
}

func TestAdministratorRepository_UpdateDeleteAndToken(t *testing.T) {
	ctx := context.Background()
	repo := NewGormAdministratorRepository(newTestDB(t))
	require.NoError(t, repo.Create(ctx, &models.Administrator{ID: "1", Phone: "+1", Role: models.RoleBoothAgent, IsActive: true}))

	updated, err := repo.Update(ctx, "1", map[string]interface{}{"is_active": false, "district_id": "madurai"})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "madurai", updated.AssignedArea.DistrictID)

	require.NoError(t, repo.UpdateDeviceToken(ctx, "1", "fcm-token"))
	stored, err := repo.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "fcm-token", stored.DeviceToken)

	_, err = repo.Update(ctx, "missing", map[string]interface{}{"name": "x"})
	assert.ErrorIs(t, err, ErrRecordNotFound)
	assert.ErrorIs(t, repo.UpdateDeviceToken(ctx, "missing", "t"), ErrRecordNotFound)

	require.NoError(t, repo.Delete(ctx, "1"))
	assert.ErrorIs(t, repo.Delete(ctx, "1"), ErrRecordNotFound)
}

func TestIssueRepository_CreateListAndFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewGormIssueRepository(newTestDB(t))

	road := &models.Issue{Title: "Pothole near bus stand", Description: "Deep crater filled with rainwater", Category: models.CategoryRoad, Status: models.IssueStatusSubmitted, Priority: models.PriorityMedium,
		SubmitterPhone: "+919000000001", Location: models.IssueLocation{DistrictID: "madurai", SubDistrictID: "melur"}, BeforePhotos: []string{}, AfterPhotos: []string{}}
	water := &models.Issue{Title: "No water supply", Category: models.CategoryWater, Status: models.IssueStatusAssigned, Priority: models.PriorityHigh,
		SubmitterPhone: "+919000000002", Location: models.IssueLocation{DistrictID: "salem"}, BeforePhotos: []string{}, AfterPhotos: []string{}}
	require.NoError(t, repo.Create(ctx, road))
	require.NoError(t, repo.Create(ctx, water))
	assert.NotEmpty(t, road.ID)

	all, total, err := repo.List(ctx, models.IssueFilter{}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)

	filtered, total, err := repo.List(ctx, models.IssueFilter{DistrictID: "madurai", Search: "pothole"}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, road.ID, filtered[0].ID)

	byDescription, total, err := repo.List(ctx, models.IssueFilter{Search: "crater"}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, road.ID, byDescription[0].ID)

	byStatus, total, err := repo.List(ctx, models.IssueFilter{Status: models.IssueStatusAssigned}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, water.ID, byStatus[0].ID)

	mine, err := repo.ListBySubmitterPhone(ctx, "+919000000001")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, road.ID, mine[0].ID)
}

func TestIssueRepository_PhotosAndAssignment(t *testing.T) {
	ctx := context.Background()
	repo := NewGormIssueRepository(newTestDB(t))

	issue := &models.Issue{Title: "Streetlight out", Category: models.CategoryStreetlight, Status: models.IssueStatusSubmitted, Priority: models.PriorityMedium, BeforePhotos: []string{}, AfterPhotos: []string{}}
	require.NoError(t, repo.Create(ctx, issue))

	refs := []string{models.IssuePhotoPath(issue.ID, "before_0.jpg"), models.IssuePhotoPath(issue.ID, "before_1.jpg")}
	require.NoError(t, repo.SetBeforePhotos(ctx, issue.ID, refs))
	require.NoError(t, repo.SetAfterPhotos(ctx, issue.ID, []string{"after.jpg"}))
	require.NoError(t, repo.ApplyAssignment(ctx, issue.ID, "Murugan", "System (Auto-assignment)"))

	stored, err := repo.GetByID(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, refs, stored.BeforePhotos)
	assert.Equal(t, []string{"after.jpg"}, stored.AfterPhotos)
	assert.Equal(t, models.IssueStatusAssigned, stored.Status)
	require.NotNil(t, stored.AssignedTo)
	assert.Equal(t, "Murugan", *stored.AssignedTo)
	assert.Equal(t, "Streetlight out", stored.Title, "assignment leaves other fields untouched")

	assert.ErrorIs(t, repo.ApplyAssignment(ctx, "missing", "x", "y"), ErrRecordNotFound)
	assert.ErrorIs(t, repo.SetAfterPhotos(ctx, "missing", []string{"a"}), ErrRecordNotFound)
}

func TestIssueRepository_ResolvedAndStatistics(t *testing.T) {
	ctx := context.Background()
	repo := NewGormIssueRepository(newTestDB(t))

	older := time.Now().Add(-48 * time.Hour)
	newer := time.Now().Add(-1 * time.Hour)
	issues := []*models.Issue{
		{Title: "a", Category: models.CategoryRoad, Status: models.IssueStatusResolved, Priority: models.PriorityLow, ResolvedAt: &older},
		{Title: "b", Category: models.CategoryRoad, Status: models.IssueStatusClosed, Priority: models.PriorityLow, ResolvedAt: &newer},
		{Title: "c", Category: models.CategoryWater, Status: models.IssueStatusSubmitted, Priority: models.PriorityLow},
	}
	for _, issue := range issues {
		require.NoError(t, repo.Create(ctx, issue))
	}

	resolved, err := repo.ListResolved(ctx, 10)
	require.NoError(t, err)
	require.Len(t, resolved, 2)
	assert.Equal(t, "b", resolved[0].Title, "most recently resolved first")

	limited, err := repo.ListResolved(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	byCategory, err := repo.CountBy(ctx, "category")
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"road": 2, "water": 1}, byCategory)

	byStatus, err := repo.CountBy(ctx, "status")
	require.NoError(t, err)
	assert.EqualValues(t, 1, byStatus["submitted"])

	durations, err := repo.ResolutionDurations(ctx)
	require.NoError(t, err)
	assert.Len(t, durations, 2)
}

func TestNotificationRepository_MarkProcessed(t *testing.T) {
	ctx := context.Background()
	repo := NewGormNotificationRepository(newTestDB(t))

	t.Run("counts", func(t *testing.T) {
		n := &models.Notification{Type: models.NotificationTypeNewIssue, IssueID: "issue-1", DistrictID: "madurai"}
		require.NoError(t, repo.Create(ctx, n))

		require.NoError(t, repo.MarkProcessed(ctx, n.ID, models.DispatchOutcome{MatchedCount: 3, RecipientCount: 2, SuccessCount: 1, FailureCount: 1}))

		stored, err := repo.GetByID(ctx, n.ID)
		require.NoError(t, err)
		assert.True(t, stored.Processed)
		assert.NotNil(t, stored.ProcessedAt)
		assert.Equal(t, 3, stored.MatchedCount)
		assert.Equal(t, 2, stored.RecipientCount)
		assert.Equal(t, 1, stored.SuccessCount)
		assert.Equal(t, 1, stored.FailureCount)
		assert.Nil(t, stored.Error)
	})

	t.Run("error only", func(t *testing.T) {
		n := &models.Notification{Type: models.NotificationTypeNewIssue, IssueID: "issue-2"}
		require.NoError(t, repo.Create(ctx, n))

		require.NoError(t, repo.MarkProcessed(ctx, n.ID, models.DispatchOutcome{Error: stringPtr("roster unavailable")}))

		stored, err := repo.GetByID(ctx, n.ID)
		require.NoError(t, err)
		assert.True(t, stored.Processed)
		require.NotNil(t, stored.Error)
		assert.Equal(t, "roster unavailable", *stored.Error)
	})

	t.Run("missing record", func(t *testing.T) {
		assert.ErrorIs(t, repo.MarkProcessed(ctx, "missing", models.DispatchOutcome{}), ErrRecordNotFound)
	})

	listed, err := repo.ListByIssue(ctx, "issue-1")
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestIssueHistoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormIssueHistoryRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, &models.IssueHistory{IssueID: "i1", Action: models.HistoryActionAssigned, PerformedBy: "admin"}))
	require.NoError(t, repo.Create(ctx, &models.IssueHistory{IssueID: "i1", Action: models.HistoryActionStatusChange, PerformedBy: "admin",
		FromStatus: stringPtr("assigned"), ToStatus: stringPtr("in_progress")}))
	require.NoError(t, repo.Create(ctx, &models.IssueHistory{IssueID: "i2", Action: models.HistoryActionAssigned, PerformedBy: "admin"}))

	history, err := repo.ListByIssue(ctx, "i1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.HistoryActionAssigned, history[0].Action)
}
