package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/janakural/internal/models"
	"github.com/janakural/internal/repositories"
	"github.com/janakural/internal/routing"
)

// AutoAssignedBy is recorded as assignedBy on system assignments.
const AutoAssignedBy = "System (Auto-assignment)"

// AutoAssigner assigns a newly submitted issue to its local leader.
type AutoAssigner struct {
	adminRepo repositories.AdministratorRepository
	issueRepo repositories.IssueRepository
	logger    *zap.Logger
}

// NewAutoAssigner 创建自动分派处理器
func NewAutoAssigner(adminRepo repositories.AdministratorRepository, issueRepo repositories.IssueRepository, logger *zap.Logger) *AutoAssigner {
	return &AutoAssigner{
		adminRepo: adminRepo,
		issueRepo: issueRepo,
		logger:    logger,
	}
}

// HandleIssueCreated is best effort: failures are logged and the issue is left as submitted.
func (a *AutoAssigner) HandleIssueCreated(ctx context.Context, issue *models.Issue) {
	log := a.logger.With(zap.String("issue_id", issue.ID))

	j := routing.Jurisdiction{
		DistrictID:    issue.Location.DistrictID,
		SubDistrictID: issue.Location.SubDistrictID,
	}
	if !j.HasGeography() {
		log.Info("Issue has no district, skipping auto-assignment")
		return
	}

	roster, err := a.adminRepo.ListRoster(ctx)
	if err != nil {
		log.Error("Auto-assignment failed to load roster", zap.Error(err))
		return
	}

	assignee, ok := routing.ResolveAssignee(j, roster)
	if !ok {
		log.Info("No administrator found for auto-assignment",
			zap.String("district_id", j.DistrictID),
			zap.String("sub_district_id", j.SubDistrictID),
		)
		return
	}

	if err := a.issueRepo.ApplyAssignment(ctx, issue.ID, assignee.DisplayName(), AutoAssignedBy); err != nil {
		log.Error("Auto-assignment write failed", zap.String("admin_id", assignee.ID), zap.Error(err))
		return
	}
	log.Info("Issue auto-assigned",
		zap.String("admin_id", assignee.ID),
		zap.String("role", string(assignee.Role)),
	)
}
