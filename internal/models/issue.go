package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IssueStatus 定义了问题的处理状态
type IssueStatus string

const (
	IssueStatusSubmitted  IssueStatus = "submitted"
	IssueStatusAssigned   IssueStatus = "assigned"
	IssueStatusInProgress IssueStatus = "in_progress"
	IssueStatusResolved   IssueStatus = "resolved"
	IssueStatusClosed     IssueStatus = "closed"
	IssueStatusRejected   IssueStatus = "rejected"
)

// AllIssueStatuses lists the lifecycle states in display order.
var AllIssueStatuses = []IssueStatus{
	IssueStatusSubmitted,
	IssueStatusAssigned,
	IssueStatusInProgress,
	IssueStatusResolved,
	IssueStatusClosed,
	IssueStatusRejected,
}

// IsValid reports whether s is a known status.
func (s IssueStatus) IsValid() bool {
	for _, known := range AllIssueStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status ends the lifecycle.
func (s IssueStatus) IsTerminal() bool {
	return s == IssueStatusClosed || s == IssueStatusRejected
}

// IsDone reports whether the issue counts as resolved for statistics and the showcase.
func (s IssueStatus) IsDone() bool {
	return s == IssueStatusResolved || s == IssueStatusClosed
}

// IssuePriority 定义了问题优先级
type IssuePriority string

const (
	PriorityLow      IssuePriority = "low"
	PriorityMedium   IssuePriority = "medium"
	PriorityHigh     IssuePriority = "high"
	PriorityCritical IssuePriority = "critical"
)

// IsValid reports whether p is a known priority.
func (p IssuePriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// IssueCategory 问题分类（固定集合）
type IssueCategory string

const (
	CategoryRoad        IssueCategory = "road"
	CategoryWater       IssueCategory = "water"
	CategoryElectricity IssueCategory = "electricity"
	CategorySanitation  IssueCategory = "sanitation"
	CategoryDrainage    IssueCategory = "drainage"
	CategoryStreetlight IssueCategory = "streetlight"
)

// AllIssueCategories lists the closed set of categories.
var AllIssueCategories = []IssueCategory{
	CategoryRoad,
	CategoryWater,
	CategoryElectricity,
	CategorySanitation,
	CategoryDrainage,
	CategoryStreetlight,
}

// IsValid reports whether c is one of the supported categories.
func (c IssueCategory) IsValid() bool {
	for _, known := range AllIssueCategories {
		if c == known {
			return true
		}
	}
	return false
}

// IssueLocation 问题发生的位置。DistrictID/SubDistrictID 是路由使用的标识，
// 其余名称字段仅用于展示。
type IssueLocation struct {
	Latitude      float64 `json:"latitude" gorm:"column:latitude"`
	Longitude     float64 `json:"longitude" gorm:"column:longitude"`
	Address       string  `json:"address" gorm:"column:address;size:500"`
	State         string  `json:"state" gorm:"column:state;size:100"`
	District      string  `json:"district" gorm:"column:district;size:100"`
	SubDistrict   string  `json:"panchayatUnion" gorm:"column:sub_district;size:100"`
	DistrictID    string  `json:"districtId" gorm:"column:district_id;size:100;index"`
	SubDistrictID string  `json:"panchayatUnionId" gorm:"column:sub_district_id;size:100"`
}

// Issue 对应于数据库中的 issues 表
type Issue struct {
	ID              string        `json:"id" gorm:"type:varchar(36);primaryKey"`
	Title           string        `json:"title" gorm:"column:title;not null;size:255"`
	Description     string        `json:"description" gorm:"column:description;type:text"`
	Category        IssueCategory `json:"category" gorm:"column:category;not null;size:50;index"`
	Location        IssueLocation `json:"location" gorm:"embedded"`
	BeforePhotos    []string      `json:"beforePhotos" gorm:"column:before_photos;serializer:json"`
	AfterPhotos     []string      `json:"afterPhotos" gorm:"column:after_photos;serializer:json"`
	Status          IssueStatus   `json:"status" gorm:"column:status;not null;size:50;index"`
	Priority        IssuePriority `json:"priority" gorm:"column:priority;not null;size:20"`
	SubmitterPhone  string        `json:"submitterPhone" gorm:"column:submitter_phone;size:32;index"`
	AssignedTo      *string       `json:"assignedTo,omitempty" gorm:"column:assigned_to;size:255"`
	AssignedBy      *string       `json:"assignedBy,omitempty" gorm:"column:assigned_by;size:255"`
	ResolutionNotes *string       `json:"resolutionNotes,omitempty" gorm:"column:resolution_notes;type:text"`
	ResolvedAt      *time.Time    `json:"resolvedAt,omitempty" gorm:"column:resolved_at;index"`
	ResolvedBy      *string       `json:"resolvedBy,omitempty" gorm:"column:resolved_by;size:255"`
	CreatedAt       time.Time     `json:"createdAt" gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt       time.Time     `json:"updatedAt" gorm:"column:updated_at;not null;autoUpdateTime"`
}

// TableName 指定 Issue 结构体对应的数据库表名
func (Issue) TableName() string {
	return "issues"
}

// BeforeCreate GORM hook 为 Issue 生成 UUID
func (i *Issue) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// IssuePhotoStorageRoot is the object-storage prefix for issue photos.
const IssuePhotoStorageRoot = "janakural/issues"

// IssuePhotoPath returns the storage path for a photo, namespaced by issue id.
func IssuePhotoPath(issueID, fileName string) string {
	return fmt.Sprintf("%s/%s/%s", IssuePhotoStorageRoot, issueID, fileName)
}

// IssueFilter 管理端问题列表的筛选条件
type IssueFilter struct {
	Status     IssueStatus
	Category   IssueCategory
	DistrictID string
	Search     string
}

// DashboardStats 管理端统计数据
type DashboardStats struct {
	TotalIssues       int64            `json:"totalIssues"`
	ResolvedIssues    int64            `json:"resolvedIssues"`
	PendingIssues     int64            `json:"pendingIssues"`
	AvgResolutionDays float64          `json:"avgResolutionDays"`
	ResolutionRate    int              `json:"resolutionRate"`
	ByCategory        map[string]int64 `json:"byCategory"`
	ByStatus          map[string]int64 `json:"byStatus"`
}

// SubmitIssuePayload 公众提交问题时的输入
type SubmitIssuePayload struct {
	Title          string        `json:"title" binding:"required,max=255"`
	Description    string        `json:"description" binding:"max=5000"`
	Category       IssueCategory `json:"category" binding:"required"`
	Priority       IssuePriority `json:"priority,omitempty"`
	Location       IssueLocation `json:"location"`
	SubmitterPhone string        `json:"submitterPhone" binding:"required"`
	BeforePhotos   []string      `json:"beforePhotos,omitempty"`
}

// UpdateIssueStatusPayload 管理员更新问题状态的输入
type UpdateIssueStatusPayload struct {
	Status IssueStatus `json:"status" binding:"required"`
	Notes  string      `json:"notes" binding:"max=5000"`
}

// AssignIssuePayload 管理员手动分派问题的输入
type AssignIssuePayload struct {
	AssignedTo string `json:"assignedTo" binding:"required,max=255"`
}

// PhotoRefsPayload 照片引用列表（存储路径或下载地址）
type PhotoRefsPayload struct {
	Photos []string `json:"photos" binding:"required,min=1,dive,required"`
}
