package repositories

import (
	"context"
	"time"

	"github.com/janakural/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository 定义了通知记录仓库的接口
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id string) (*models.Notification, error)
	ListByIssue(ctx context.Context, issueID string) ([]models.Notification, error)
	// MarkProcessed 是调度器对通知记录的唯一一次终态写入
	MarkProcessed(ctx context.Context, id string, outcome models.DispatchOutcome) error
}

type gormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository 创建一个新的 GORM 通知记录仓库实例
func NewGormNotificationRepository(db *gorm.DB) NotificationRepository {
	return &gormNotificationRepository{db: db}
}

// Create 在数据库中创建一个新的通知记录
func (r *gormNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

// GetByID 从数据库中按 ID 获取通知记录
func (r *gormNotificationRepository) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&notification).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

// ListByIssue 获取某个问题的全部通知记录
func (r *gormNotificationRepository) ListByIssue(ctx context.Context, issueID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("issue_id = ?", issueID).
		Order("created_at ASC").
		Find(&notifications).Error
	return notifications, err
}

// MarkProcessed 将通知标记为已处理并写入结果。
// 名册读取失败时 (有错误且没有收件人) 只写错误信息，不写计数。
func (r *gormNotificationRepository) MarkProcessed(ctx context.Context, id string, outcome models.DispatchOutcome) error {
	now := time.Now()
	updates := map[string]interface{}{
		"processed":    true,
		"processed_at": now,
		"updated_at":   now,
	}
	if outcome.Error != nil {
		updates["error"] = *outcome.Error
	}
	if outcome.Error == nil || outcome.RecipientCount > 0 {
		updates["matched_count"] = outcome.MatchedCount
		updates["recipient_count"] = outcome.RecipientCount
		updates["success_count"] = outcome.SuccessCount
		updates["failure_count"] = outcome.FailureCount
	}

	result := r.db.WithContext(ctx).Model(&models.Notification{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
