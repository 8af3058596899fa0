package repositories

import (
	"context"
	"time"

	"github.com/janakural/internal/models"
	"gorm.io/gorm"
)

// IssueRepository 定义了问题数据仓库的接口
type IssueRepository interface {
	Create(ctx context.Context, issue *models.Issue) error
	GetByID(ctx context.Context, id string) (*models.Issue, error)
	// List 分页获取问题列表，按创建时间倒序
	List(ctx context.Context, filter models.IssueFilter, page, limit int) ([]models.Issue, int64, error)
	ListBySubmitterPhone(ctx context.Context, phone string) ([]models.Issue, error)
	// ListResolved 获取最近解决的问题 (展示墙)
	ListResolved(ctx context.Context, limit int) ([]models.Issue, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) (*models.Issue, error)
	SetBeforePhotos(ctx context.Context, id string, refs []string) error
	SetAfterPhotos(ctx context.Context, id string, refs []string) error
	// ApplyAssignment 写入自动或手动分配结果，只修改分配相关字段
	ApplyAssignment(ctx context.Context, id string, assignedTo string, assignedBy string) error
	CountBy(ctx context.Context, column string) (map[string]int64, error)
	ResolutionDurations(ctx context.Context) ([]time.Duration, error)
}

// gormIssueRepository 是 IssueRepository 的 GORM 实现
type gormIssueRepository struct {
	db *gorm.DB
}

// NewGormIssueRepository 创建一个新的 gormIssueRepository 实例
func NewGormIssueRepository(db *gorm.DB) IssueRepository {
	return &gormIssueRepository{db: db}
}

var doneStatuses = []models.IssueStatus{models.IssueStatusResolved, models.IssueStatusClosed}

// Create 创建问题记录，ID 由 BeforeCreate 生成
func (r *gormIssueRepository) Create(ctx context.Context, issue *models.Issue) error {
	return r.db.WithContext(ctx).Create(issue).Error
}

// GetByID 根据 ID 获取问题
func (r *gormIssueRepository) GetByID(ctx context.Context, id string) (*models.Issue, error) {
	var issue models.Issue
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&issue).Error; err != nil {
		return nil, err
	}
	return &issue, nil
}

// List 获取问题列表，支持按状态、分类、区县筛选和标题搜索
func (r *gormIssueRepository) List(ctx context.Context, filter models.IssueFilter, page, limit int) ([]models.Issue, int64, error) {
	var issues []models.Issue
	var totalItems int64

	tx := r.db.WithContext(ctx).Model(&models.Issue{})
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		tx = tx.Where("category = ?", filter.Category)
	}
	if filter.DistrictID != "" {
		tx = tx.Where("district_id = ?", filter.DistrictID)
	}
	if filter.Search != "" {
		searchTerm := "%" + filter.Search + "%"
		tx = tx.Where("title LIKE ? OR description LIKE ? OR address LIKE ?", searchTerm, searchTerm, searchTerm)
	}

	if err := tx.Count(&totalItems).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := tx.Order("created_at DESC").Offset(offset).Limit(limit).Find(&issues).Error; err != nil {
		return nil, 0, err
	}
	return issues, totalItems, nil
}

// ListBySubmitterPhone 获取某个手机号提交的全部问题
func (r *gormIssueRepository) ListBySubmitterPhone(ctx context.Context, phone string) ([]models.Issue, error) {
	var issues []models.Issue
	err := r.db.WithContext(ctx).
		Where("submitter_phone = ?", phone).
		Order("created_at DESC").
		Find(&issues).Error
	return issues, err
}

// ListResolved 获取已解决或已关闭的问题，按解决时间倒序
func (r *gormIssueRepository) ListResolved(ctx context.Context, limit int) ([]models.Issue, error) {
	var issues []models.Issue
	err := r.db.WithContext(ctx).
		Where("status IN ?", doneStatuses).
		Order("resolved_at DESC").
		Limit(limit).
		Find(&issues).Error
	return issues, err
}

// Update 按字段更新问题并返回更新后的记录
func (r *gormIssueRepository) Update(ctx context.Context, id string, updates map[string]interface{}) (*models.Issue, error) {
	result := r.db.WithContext(ctx).Model(&models.Issue{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

// SetBeforePhotos 覆盖问题的提交照片列表
func (r *gormIssueRepository) SetBeforePhotos(ctx context.Context, id string, refs []string) error {
	return r.setPhotos(ctx, id, "BeforePhotos", models.Issue{BeforePhotos: refs})
}

// SetAfterPhotos 覆盖问题的处理后照片列表
func (r *gormIssueRepository) SetAfterPhotos(ctx context.Context, id string, refs []string) error {
	return r.setPhotos(ctx, id, "AfterPhotos", models.Issue{AfterPhotos: refs})
}

func (r *gormIssueRepository) setPhotos(ctx context.Context, id string, field string, value models.Issue) error {
	result := r.db.WithContext(ctx).Model(&models.Issue{ID: id}).Select(field).Updates(&value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// ApplyAssignment 写入分配人和分配结果，状态置为 assigned
func (r *gormIssueRepository) ApplyAssignment(ctx context.Context, id string, assignedTo string, assignedBy string) error {
	result := r.db.WithContext(ctx).Model(&models.Issue{}).Where("id = ?", id).Updates(map[string]interface{}{
		"assigned_to": assignedTo,
		"assigned_by": assignedBy,
		"status":      models.IssueStatusAssigned,
		"updated_at":  time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// CountBy 按指定列分组计数，column 只能是 "status" 或 "category"
func (r *gormIssueRepository) CountBy(ctx context.Context, column string) (map[string]int64, error) {
	if column != "status" && column != "category" {
		column = "status"
	}

	var rows []struct {
		GroupKey string
		Count    int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Issue{}).
		Select(column + " AS group_key, COUNT(*) AS count").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.GroupKey] = row.Count
	}
	return counts, nil
}

// ResolutionDurations 返回已完成问题从提交到解决所用的时间
func (r *gormIssueRepository) ResolutionDurations(ctx context.Context) ([]time.Duration, error) {
	var rows []struct {
		CreatedAt  time.Time
		ResolvedAt *time.Time
	}
	err := r.db.WithContext(ctx).
		Model(&models.Issue{}).
		Select("created_at, resolved_at").
		Where("status IN ? AND resolved_at IS NOT NULL", doneStatuses).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	durations := make([]time.Duration, 0, len(rows))
	for _, row := range rows {
		if row.ResolvedAt == nil {
			continue
		}
		durations = append(durations, row.ResolvedAt.Sub(row.CreatedAt))
	}
	return durations, nil
}
