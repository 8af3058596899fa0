package repositories

import (
	"context"

	"github.com/janakural/internal/models"
	"gorm.io/gorm"
)

// IssueHistoryRepository 定义了问题操作历史数据仓库的接口
type IssueHistoryRepository interface {
	// Create 创建问题操作历史记录
	Create(ctx context.Context, history *models.IssueHistory) error
	// ListByIssue 根据问题ID获取操作历史，按时间正序
	ListByIssue(ctx context.Context, issueID string) ([]models.IssueHistory, error)
}

// gormIssueHistoryRepository 是 IssueHistoryRepository 的 GORM 实现
type gormIssueHistoryRepository struct {
	db *gorm.DB
}

// NewGormIssueHistoryRepository 创建一个新的 gormIssueHistoryRepository 实例
func NewGormIssueHistoryRepository(db *gorm.DB) IssueHistoryRepository {
	return &gormIssueHistoryRepository{db: db}
}

// Create 创建问题操作历史记录
func (r *gormIssueHistoryRepository) Create(ctx context.Context, history *models.IssueHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

// ListByIssue 根据问题ID获取操作历史
func (r *gormIssueHistoryRepository) ListByIssue(ctx context.Context, issueID string) ([]models.IssueHistory, error) {
	var histories []models.IssueHistory
	err := r.db.WithContext(ctx).
		Where("issue_id = ?", issueID).
		Order("timestamp ASC").
		Find(&histories).Error
	return histories, err
}
