package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/janakural/internal/models"
	"github.com/janakural/internal/repositories"
	"github.com/janakural/pkg/utils"
)

var (
	// ErrAdministratorNotFound 表示管理员不存在
	ErrAdministratorNotFound = errors.New("administrator not found")

	// ErrCannotModifySelf 表示不能停用或删除自己的账号
	ErrCannotModifySelf = errors.New("administrators cannot deactivate or delete their own account")

	ErrInvalidRole         = errors.New("invalid administrator role")
	ErrDistrictRequired    = errors.New("district is required for this role")
	ErrSubDistrictRequired = errors.New("panchayat union is required for this role")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters")

	// ErrInvalidCredentials 表示登录失败，不区分账号不存在与密码错误
	ErrInvalidCredentials = errors.New("invalid phone number or password")
)

const minPasswordLength = 8

// AdminService 定义了管理员管理服务的接口
type AdminService interface {
	CreateAdministrator(ctx context.Context, payload models.CreateAdministratorPayload) (*models.Administrator, error)
	ListAdministrators(ctx context.Context) ([]models.Administrator, error)
	GetAdministrator(ctx context.Context, id string) (*models.Administrator, error)
	UpdateAdministrator(ctx context.Context, actorID, id string, payload models.UpdateAdministratorPayload) (*models.Administrator, error)
	DeleteAdministrator(ctx context.Context, actorID, id string) error
	SaveDeviceToken(ctx context.Context, id, token string) error
	Authenticate(ctx context.Context, phone, password string) (*models.Administrator, error)
}

// adminService 是 AdminService 的实现
type adminService struct {
	repo repositories.AdministratorRepository
}

// NewAdminService 创建一个新的 adminService 实例
func NewAdminService(repo repositories.AdministratorRepository) AdminService {
	return &adminService{repo: repo}
}

// normalizeArea 校验角色所需的辖区，并清除不需要辖区的角色上的残留值
func normalizeArea(role models.AdminRole, area models.AssignedArea) (models.AssignedArea, error) {
	area.DistrictID = strings.TrimSpace(area.DistrictID)
	area.SubDistrictID = strings.TrimSpace(area.SubDistrictID)

	switch {
	case role.RequiresSubDistrict():
		if area.DistrictID == "" {
			return area, ErrDistrictRequired
		}
		if area.SubDistrictID == "" {
			return area, ErrSubDistrictRequired
		}
	case role.RequiresDistrict():
		if area.DistrictID == "" {
			return area, ErrDistrictRequired
		}
		area.SubDistrictID = ""
	default:
		area = models.AssignedArea{}
	}
	return area, nil
}

// CreateAdministrator 创建管理员，ID 由手机号派生
func (s *adminService) CreateAdministrator(ctx context.Context, payload models.CreateAdministratorPayload) (*models.Administrator, error) {
	if err := utils.ValidatePhoneNumber(payload.Phone); err != nil {
		return nil, err
	}
	if !payload.Role.IsValid() {
		return nil, ErrInvalidRole
	}
	area, err := normalizeArea(payload.Role, models.AssignedArea{
		DistrictID:    payload.DistrictID,
		SubDistrictID: payload.SubDistrictID,
	})
	if err != nil {
		return nil, err
	}

	phone := utils.NormalizePhoneNumber(payload.Phone)
	admin := &models.Administrator{
		ID:           utils.DeriveAdministratorID(phone),
		Phone:        phone,
		Name:         strings.TrimSpace(payload.Name),
		Role:         payload.Role,
		AssignedArea: area,
		IsActive:     true,
	}

	if payload.Password != "" {
		if len(payload.Password) < minPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		admin.PasswordHash = string(hash)
	}

	if err := s.repo.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// ListAdministrators 返回全部管理员，最新创建的在前
func (s *adminService) ListAdministrators(ctx context.Context) ([]models.Administrator, error) {
	return s.repo.List(ctx)
}

// GetAdministrator 根据 ID 获取管理员
func (s *adminService) GetAdministrator(ctx context.Context, id string) (*models.Administrator, error) {
	admin, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrAdministratorNotFound
		}
		return nil, err
	}
	return admin, nil
}

// UpdateAdministrator 更新管理员资料。管理员不能停用自己。
func (s *adminService) UpdateAdministrator(ctx context.Context, actorID, id string, payload models.UpdateAdministratorPayload) (*models.Administrator, error) {
	if actorID == id && payload.IsActive != nil && !*payload.IsActive {
		return nil, ErrCannotModifySelf
	}

	current, err := s.GetAdministrator(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if payload.Name != nil {
		updates["name"] = strings.TrimSpace(*payload.Name)
	}
	if payload.IsActive != nil {
		updates["is_active"] = *payload.IsActive
	}

	role := current.Role
	if payload.Role != nil {
		if !payload.Role.IsValid() {
			return nil, ErrInvalidRole
		}
		role = *payload.Role
		updates["role"] = role
	}

	if payload.Role != nil || payload.DistrictID != nil || payload.SubDistrictID != nil {
		area := current.AssignedArea
		if payload.DistrictID != nil {
			area.DistrictID = *payload.DistrictID
		}
		if payload.SubDistrictID != nil {
			area.SubDistrictID = *payload.SubDistrictID
		}
		area, err = normalizeArea(role, area)
		if err != nil {
			return nil, err
		}
		updates["district_id"] = area.DistrictID
		updates["sub_district_id"] = area.SubDistrictID
	}

	if len(updates) == 0 {
		return current, nil
	}

	updated, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrAdministratorNotFound
		}
		return nil, err
	}
	return updated, nil
}

// DeleteAdministrator 删除管理员。管理员不能删除自己。
func (s *adminService) DeleteAdministrator(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return ErrCannotModifySelf
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return ErrAdministratorNotFound
		}
		return err
	}
	return nil
}

// SaveDeviceToken 保存管理员的推送令牌
func (s *adminService) SaveDeviceToken(ctx context.Context, id, token string) error {
	if err := s.repo.UpdateDeviceToken(ctx, id, strings.TrimSpace(token)); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return ErrAdministratorNotFound
		}
		return err
	}
	return nil
}

// Authenticate 校验手机号和密码，仅允许启用状态且设置了密码的管理员登录
func (s *adminService) Authenticate(ctx context.Context, phone, password string) (*models.Administrator, error) {
	if utils.ValidatePhoneNumber(phone) != nil {
		return nil, ErrInvalidCredentials
	}
	admin, err := s.repo.GetByID(ctx, utils.DeriveAdministratorID(phone))
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !admin.IsActive || admin.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return admin, nil
}
