package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/janakural/internal/models"
	"github.com/janakural/internal/push"
	"github.com/janakural/internal/repositories"
	"github.com/janakural/internal/routing"
)

// NewIssuePushTitle is the fixed title of every new-issue push notification.
const NewIssuePushTitle = "New Issue Reported"

// NotificationDispatcher fans a new_issue notification record out to the
// responsible administrators and writes the outcome back onto the record.
type NotificationDispatcher struct {
	adminRepo        repositories.AdministratorRepository
	notificationRepo repositories.NotificationRepository
	sender           push.Sender
	frontendBaseURL  string
	logger           *zap.Logger
}

// NewNotificationDispatcher 创建通知分发处理器
func NewNotificationDispatcher(adminRepo repositories.AdministratorRepository, notificationRepo repositories.NotificationRepository, sender push.Sender, frontendBaseURL string, logger *zap.Logger) *NotificationDispatcher {
	return &NotificationDispatcher{
		adminRepo:        adminRepo,
		notificationRepo: notificationRepo,
		sender:           sender,
		frontendBaseURL:  strings.TrimRight(frontendBaseURL, "/"),
		logger:           logger,
	}
}

// HandleNotificationCreated processes one notification record. Every path for
// an unprocessed new_issue record ends in exactly one MarkProcessed write; only
// a failure of that write (or of re-reading the record) is returned.
// A redelivered event for a record already marked processed is skipped.
func (d *NotificationDispatcher) HandleNotificationCreated(ctx context.Context, notification *models.Notification) error {
	if notification.Type != models.NotificationTypeNewIssue {
		return nil
	}

	log := d.logger.With(
		zap.String("notification_id", notification.ID),
		zap.String("issue_id", notification.IssueID),
	)

	stored, err := d.notificationRepo.GetByID(ctx, notification.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			log.Warn("Notification record not found, skipping")
			return nil
		}
		return fmt.Errorf("load notification %s: %w", notification.ID, err)
	}
	if stored.Processed {
		log.Info("Notification already processed, skipping redelivery")
		return nil
	}

	outcome := d.dispatch(ctx, stored, log)

	if err := d.notificationRepo.MarkProcessed(ctx, notification.ID, outcome); err != nil {
		log.Error("Failed to record notification outcome", zap.Error(err))
		return fmt.Errorf("mark notification %s processed: %w", notification.ID, err)
	}

	log.Info("Notification processed",
		zap.Int("matched_count", outcome.MatchedCount),
		zap.Int("recipient_count", outcome.RecipientCount),
		zap.Int("success_count", outcome.SuccessCount),
		zap.Int("failure_count", outcome.FailureCount),
	)
	return nil
}

func (d *NotificationDispatcher) dispatch(ctx context.Context, notification *models.Notification, log *zap.Logger) models.DispatchOutcome {
	roster, err := d.adminRepo.ListRoster(ctx)
	if err != nil {
		log.Error("Failed to load administrator roster", zap.Error(err))
		msg := err.Error()
		return models.DispatchOutcome{Error: &msg}
	}

	audience := routing.ResolveAudience(routing.Jurisdiction{
		DistrictID:    notification.DistrictID,
		SubDistrictID: notification.SubDistrictID,
	}, roster)

	outcome := models.DispatchOutcome{MatchedCount: audience.MatchedCount()}
	if audience.DeliverableCount() == 0 {
		log.Info("No deliverable administrators for notification",
			zap.String("district_id", notification.DistrictID),
			zap.String("sub_district_id", notification.SubDistrictID),
			zap.Int("matched_count", outcome.MatchedCount),
		)
		return outcome
	}

	tokens := audience.Tokens()
	outcome.RecipientCount = len(tokens)

	batch, err := d.sender.SendMulticast(ctx, push.Message{
		Tokens: tokens,
		Title:  NewIssuePushTitle,
		Body:   notification.Title,
		Data: map[string]string{
			"issueId": notification.IssueID,
			"type":    models.NotificationTypeNewIssue,
		},
		Link: d.issueLink(notification.IssueID),
	})
	if err != nil {
		log.Error("Multicast send failed", zap.Int("token_count", len(tokens)), zap.Error(err))
		msg := err.Error()
		outcome.FailureCount = len(tokens)
		outcome.Error = &msg
		return outcome
	}

	outcome.SuccessCount = batch.SuccessCount
	outcome.FailureCount = batch.FailureCount
	for idx, resp := range batch.Responses {
		if resp.Success {
			continue
		}
		fields := []zap.Field{zap.Int("token_index", idx), zap.Error(resp.Err)}
		if idx < len(audience.Deliverable) {
			fields = append(fields, zap.String("admin_id", audience.Deliverable[idx].ID))
		}
		log.Warn("Push delivery failed for token", fields...)
	}
	return outcome
}

// issueLink is the admin page that highlights the issue, or "" when no frontend is configured.
func (d *NotificationDispatcher) issueLink(issueID string) string {
	if d.frontendBaseURL == "" {
		return ""
	}
	return d.frontendBaseURL + "/admin/issues?highlight=" + url.QueryEscape(issueID)
}
