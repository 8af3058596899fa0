package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/janakural/internal/models"
	"gorm.io/gorm"
)

// ErrRecordNotFound 表示记录未找到
var ErrRecordNotFound = gorm.ErrRecordNotFound

// ErrAdministratorExists 表示该手机号对应的管理员已存在
var ErrAdministratorExists = errors.New("administrator with this phone number already exists")

// AdministratorRepository 定义了管理员数据仓库的接口
type AdministratorRepository interface {
	Create(ctx context.Context, admin *models.Administrator) error
	GetByID(ctx context.Context, id string) (*models.Administrator, error)
	// List 返回全部管理员，按创建时间倒序 (管理端列表)
	List(ctx context.Context) ([]models.Administrator, error)
	// ListRoster 返回全部管理员，按 ID 升序，作为路由使用的名册快照
	ListRoster(ctx context.Context) ([]models.Administrator, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) (*models.Administrator, error)
	Delete(ctx context.Context, id string) error
	UpdateDeviceToken(ctx context.Context, id string, token string) error
}

// gormAdministratorRepository 是 AdministratorRepository 的 GORM 实现
type gormAdministratorRepository struct {
	db *gorm.DB
}

// NewGormAdministratorRepository 创建一个新的 gormAdministratorRepository 实例
func NewGormAdministratorRepository(db *gorm.DB) AdministratorRepository {
	return &gormAdministratorRepository{db: db}
}

// Create 创建管理员记录，ID 已存在时返回 ErrAdministratorExists
func (r *gormAdministratorRepository) Create(ctx context.Context, admin *models.Administrator) error {
	var existing models.Administrator
	if err := r.db.WithContext(ctx).Where("id = ?", admin.ID).First(&existing).Error; err == nil {
		return ErrAdministratorExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err := r.db.WithContext(ctx).Create(admin).Error; err != nil {
		// 并发创建时由主键约束兜底
		lower := strings.ToLower(err.Error())
		if strings.Contains(lower, "unique constraint") || strings.Contains(lower, "duplicate key") {
			return ErrAdministratorExists
		}
		return err
	}
	return nil
}

// GetByID 根据 ID 获取管理员
func (r *gormAdministratorRepository) GetByID(ctx context.Context, id string) (*models.Administrator, error) {
	var admin models.Administrator
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

// List 获取管理员列表
func (r *gormAdministratorRepository) List(ctx context.Context) ([]models.Administrator, error) {
	var admins []models.Administrator
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id ASC").Find(&admins).Error
	return admins, err
}

// ListRoster 获取名册快照。每次调用都重新读取，不做缓存。
func (r *gormAdministratorRepository) ListRoster(ctx context.Context) ([]models.Administrator, error) {
	var admins []models.Administrator
	err := r.db.WithContext(ctx).Order("id ASC").Find(&admins).Error
	return admins, err
}

// Update 按字段更新管理员并返回更新后的记录
func (r *gormAdministratorRepository) Update(ctx context.Context, id string, updates map[string]interface{}) (*models.Administrator, error) {
	result := r.db.WithContext(ctx).Model(&models.Administrator{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete 物理删除管理员
func (r *gormAdministratorRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Administrator{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// UpdateDeviceToken 只更新推送令牌字段
func (r *gormAdministratorRepository) UpdateDeviceToken(ctx context.Context, id string, token string) error {
	result := r.db.WithContext(ctx).Model(&models.Administrator{}).Where("id = ?", id).Update("device_token", token)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
