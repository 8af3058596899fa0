package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationTypeNewIssue 是唯一会触发推送的通知类型
const NotificationTypeNewIssue = "new_issue"

// Notification 代表一次推送扇出任务，同时作为处理结果的审计记录。
// Processed 在处理结束时置为 true，且只写一次。
type Notification struct {
	ID             string     `json:"id" gorm:"type:varchar(36);primaryKey"`
	Type           string     `json:"type" gorm:"column:type;not null;size:50;index"`
	IssueID        string     `json:"issueId" gorm:"column:issue_id;not null;size:36;index"`
	Title          string     `json:"title" gorm:"column:title;size:255"`
	DistrictID     string     `json:"districtId" gorm:"column:district_id;size:100"`
	SubDistrictID  string     `json:"panchayatUnionId" gorm:"column:sub_district_id;size:100"`
	Processed      bool       `json:"processed" gorm:"column:processed;not null;index"`
	MatchedCount   int        `json:"matchedCount" gorm:"column:matched_count;not null;default:0"`
	RecipientCount int        `json:"recipientCount" gorm:"column:recipient_count;not null;default:0"`
	SuccessCount   int        `json:"successCount" gorm:"column:success_count;not null;default:0"`
	FailureCount   int        `json:"failureCount" gorm:"column:failure_count;not null;default:0"`
	Error          *string    `json:"error,omitempty" gorm:"column:error;type:text"`
	ProcessedAt    *time.Time `json:"processedAt,omitempty" gorm:"column:processed_at"`
	CreatedAt      time.Time  `json:"createdAt" gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt      time.Time  `json:"updatedAt" gorm:"column:updated_at;not null;autoUpdateTime"`
}

// TableName 指定 Notification 结构体对应的数据库表名
func (Notification) TableName() string {
	return "notifications"
}

// BeforeCreate GORM hook 为 Notification 生成 UUID
func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

// DispatchOutcome 是调度器对通知记录的最终写入内容
type DispatchOutcome struct {
	MatchedCount   int
	RecipientCount int
	SuccessCount   int
	FailureCount   int
	Error          *string
}
