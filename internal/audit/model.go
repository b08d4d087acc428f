package audit

import (
	"time"
)

// AuditLog records one admin action against an entity record: who did what,
// to which record, and when.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Level     string    `gorm:"size:20;not null" json:"level"`
	Entity    string    `gorm:"size:100;not null" json:"entity"`
	Action    string    `gorm:"size:255;not null" json:"action"`
	UserID    *uint     `gorm:"index" json:"user_id,omitempty"`
	RecordID  string    `gorm:"size:64" json:"record_id,omitempty"`
	RequestID string    `gorm:"size:64;index" json:"request_id,omitempty"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Metadata  *string   `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }

type AuditFilterInput struct {
	UserID   *uint   `json:"user_id"`
	Level    *string `json:"level"`
	Entity   *string `json:"entity"`
	Action   *string `json:"action"`
	RecordID *string `json:"record_id"`

	StartDate *string `json:"start_date"` // "YYYY-MM-DD"
	EndDate   *string `json:"end_date"`   // "YYYY-MM-DD"

	Search   *string `json:"search"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}

type AggItem struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

type AuditAggregates struct {
	ByEntity []AggItem `json:"by_entity"`
	ByAction []AggItem `json:"by_action"`
}
