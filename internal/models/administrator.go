package models

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AdminRole 定义了管理员角色
type AdminRole string

const (
	RoleBoothAgent       AdminRole = "booth_agent"
	RolePanchayatLeader  AdminRole = "panchayat_leader"
	RoleConstituencyHead AdminRole = "constituency_head"
	RoleDistrictLeader   AdminRole = "district_leader"
	RoleStateAdmin       AdminRole = "state_admin"
	RoleSuperAdmin       AdminRole = "super_admin"
)

// AllAdminRoles lists every role in ascending order of reach.
var AllAdminRoles = []AdminRole{
	RoleBoothAgent,
	RolePanchayatLeader,
	RoleConstituencyHead,
	RoleDistrictLeader,
	RoleStateAdmin,
	RoleSuperAdmin,
}

var roleTitler = cases.Title(language.English)

// IsValid reports whether r is one of the known roles.
func (r AdminRole) IsValid() bool {
	for _, known := range AllAdminRoles {
		if r == known {
			return true
		}
	}
	return false
}

// Label returns a human readable role name, e.g. "Panchayat Leader".
func (r AdminRole) Label() string {
	return roleTitler.String(strings.ReplaceAll(string(r), "_", " "))
}

// RequiresDistrict reports whether the role is scoped to a district.
func (r AdminRole) RequiresDistrict() bool {
	return r == RolePanchayatLeader || r == RoleDistrictLeader
}

// RequiresSubDistrict reports whether the role is scoped to a panchayat union.
func (r AdminRole) RequiresSubDistrict() bool {
	return r == RolePanchayatLeader
}

// IsStateWide reports whether the role receives every issue regardless of location.
func (r AdminRole) IsStateWide() bool {
	return r == RoleStateAdmin || r == RoleSuperAdmin
}

// AssignedArea 管理员负责的地理范围。空字符串表示未设置。
type AssignedArea struct {
	DistrictID    string `json:"district,omitempty" gorm:"column:district_id;size:100;index"`
	SubDistrictID string `json:"panchayatUnion,omitempty" gorm:"column:sub_district_id;size:100"`
}

// Administrator 对应于数据库中的 administrators 表
// ID 由手机号去掉分隔符得到，同一手机号只能创建一次。
type Administrator struct {
	ID           string       `json:"id" gorm:"primaryKey;size:32"`
	Phone        string       `json:"phone" gorm:"column:phone;not null;size:32"`
	Name         string       `json:"name" gorm:"column:name;size:255"`
	Role         AdminRole    `json:"role" gorm:"column:role;not null;size:50;index"`
	AssignedArea AssignedArea `json:"assignedArea" gorm:"embedded"`
	DeviceToken  string       `json:"-" gorm:"column:device_token;size:512"`
	PasswordHash string       `json:"-" gorm:"column:password_hash;size:255"`
	IsActive     bool         `json:"isActive" gorm:"column:is_active;not null"`
	CreatedAt    time.Time    `json:"createdAt" gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt    time.Time    `json:"updatedAt" gorm:"column:updated_at;not null;autoUpdateTime"`
}

// TableName 指定 Administrator 结构体对应的数据库表名
func (Administrator) TableName() string {
	return "administrators"
}

// DisplayName returns the name, falling back to the phone number.
func (a Administrator) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Phone
}

// HasDeviceToken reports whether the administrator can receive push notifications.
func (a Administrator) HasDeviceToken() bool {
	return strings.TrimSpace(a.DeviceToken) != ""
}

// UpdateAdministratorPayload 定义了更新管理员时可修改的字段
type UpdateAdministratorPayload struct {
	Name          *string    `json:"name,omitempty" binding:"omitempty,max=255"`
	Role          *AdminRole `json:"role,omitempty"`
	DistrictID    *string    `json:"district,omitempty" binding:"omitempty,max=100"`
	SubDistrictID *string    `json:"panchayatUnion,omitempty" binding:"omitempty,max=100"`
	IsActive      *bool      `json:"isActive,omitempty"`
}

// CreateAdministratorPayload 定义了创建管理员时的输入
type CreateAdministratorPayload struct {
	Phone         string    `json:"phone" binding:"required"`
	Name          string    `json:"name" binding:"max=255"`
	Role          AdminRole `json:"role" binding:"required"`
	DistrictID    string    `json:"district" binding:"max=100"`
	SubDistrictID string    `json:"panchayatUnion" binding:"max=100"`
	Password      string    `json:"password,omitempty"`
}
