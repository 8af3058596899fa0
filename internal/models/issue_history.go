package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// History actions recorded against an issue.
const (
	HistoryActionStatusChange = "status_change"
	HistoryActionAssigned     = "assigned"
	HistoryActionAfterPhotos  = "after_photos"
)

// IssueHistory 对应于数据库中的 issue_history 表，记录管理员对问题的每次操作
type IssueHistory struct {
	ID          string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	IssueID     string    `json:"issueId" gorm:"column:issue_id;not null;size:36;index"`
	Action      string    `json:"action" gorm:"column:action;not null;size:50"`
	FromStatus  *string   `json:"fromStatus,omitempty" gorm:"column:from_status;size:50"`
	ToStatus    *string   `json:"toStatus,omitempty" gorm:"column:to_status;size:50"`
	PerformedBy string    `json:"performedBy" gorm:"column:performed_by;not null;size:255"`
	Notes       *string   `json:"notes,omitempty" gorm:"column:notes;type:text"`
	Timestamp   time.Time `json:"timestamp" gorm:"column:timestamp;not null;autoCreateTime"`
}

// TableName 指定 IssueHistory 结构体对应的数据库表名
func (IssueHistory) TableName() string {
	return "issue_history"
}

// BeforeCreate GORM hook 为 IssueHistory 生成 UUID
func (h *IssueHistory) BeforeCreate(tx *gorm.DB) (err error) {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}
