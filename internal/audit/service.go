package audit

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"contract-admin-api/internal/util"
)

type AuditService struct {
	DB *gorm.DB
}

// Log inserts one audit entry. A missing RequestID gets a fresh correlation
// id so multi-step operations can be tied together by the caller.
func (as *AuditService) Log(entry AuditLog, metadata interface{}) error {
	var metaStr *string
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			str := string(b)
			metaStr = &str
		}
	}

	if strings.TrimSpace(entry.RequestID) == "" {
		entry.RequestID = uuid.NewString()
	}

	newLog := AuditLog{
		Level:     entry.Level,
		Entity:    entry.Entity,
		Action:    entry.Action,
		UserID:    entry.UserID,
		RecordID:  strings.TrimSpace(entry.RecordID),
		RequestID: entry.RequestID,
		Message:   util.ClampMessage500(entry.Message),
		Metadata:  metaStr,
		CreatedAt: time.Now(),
	}

	return as.DB.Create(&newLog).Error
}

func (as *AuditService) GetLogs(input AuditFilterInput) ([]AuditLog, AuditAggregates, int64, int, error) {
	if input.Page <= 0 {
		input.Page = 1
	}
	if input.PageSize <= 0 || input.PageSize > 100 {
		input.PageSize = 20
	}

	base := as.DB.Table("audit_logs")

	// Default: last 30 days if no dates
	if input.StartDate == nil && input.EndDate == nil {
		base = base.Where("created_at >= ?", time.Now().AddDate(0, 0, -30))
	}

	if input.UserID != nil {
		base = base.Where("user_id = ?", *input.UserID)
	}
	if input.Level != nil && strings.TrimSpace(*input.Level) != "" {
		base = base.Where("level = ?", strings.TrimSpace(*input.Level))
	}
	if input.Entity != nil && strings.TrimSpace(*input.Entity) != "" {
		base = base.Where("lower(entity) = lower(?)", strings.TrimSpace(*input.Entity))
	}
	if input.Action != nil && strings.TrimSpace(*input.Action) != "" {
		base = base.Where("action = ?", strings.TrimSpace(*input.Action))
	}
	if input.RecordID != nil && strings.TrimSpace(*input.RecordID) != "" {
		base = base.Where("record_id = ?", strings.TrimSpace(*input.RecordID))
	}

	start, hasStart, endExclusive, hasEnd, err := util.ParseDateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, AuditAggregates{}, 0, 0, err
	}
	if hasStart {
		base = base.Where("created_at >= ?", start)
	}
	if hasEnd {
		base = base.Where("created_at < ?", endExclusive)
	}

	if input.Search != nil && strings.TrimSpace(*input.Search) != "" {
		like := "%" + strings.ToLower(strings.TrimSpace(*input.Search)) + "%"
		base = base.Where(
			`CAST(id AS TEXT) LIKE ?
			 OR lower(level) LIKE ?
			 OR lower(entity) LIKE ?
			 OR lower(action) LIKE ?
			 OR lower(message) LIKE ?
			 OR lower(COALESCE(record_id,'')) LIKE ?
			 OR lower(COALESCE(request_id,'')) LIKE ?`,
			like, like, like, like, like, like, like,
		)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, AuditAggregates{}, 0, 0, err
	}

	totalPages := int(math.Ceil(float64(total) / float64(input.PageSize)))
	if totalPages == 0 {
		totalPages = 1
	}

	var rows []AuditLog
	if err := base.
		Session(&gorm.Session{}).
		Order("created_at DESC").
		Limit(input.PageSize).
		Offset((input.Page - 1) * input.PageSize).
		Scan(&rows).Error; err != nil {
		return nil, AuditAggregates{}, 0, 0, err
	}

	aggs, err := as.getAggregatesFromBase(base)
	if err != nil {
		return nil, AuditAggregates{}, 0, 0, err
	}

	return rows, aggs, total, totalPages, nil
}

func (as *AuditService) getAggregatesFromBase(base *gorm.DB) (AuditAggregates, error) {
	aggs := AuditAggregates{
		ByEntity: []AggItem{},
		ByAction: []AggItem{},
	}
	limit := 12

	if err := base.Session(&gorm.Session{}).
		Select("entity AS label, COUNT(*) AS count").
		Group("entity").
		Order("count DESC").
		Limit(limit).
		Scan(&aggs.ByEntity).Error; err != nil {
		return AuditAggregates{}, err
	}

	if err := base.Session(&gorm.Session{}).
		Select("action AS label, COUNT(*) AS count").
		Group("action").
		Order("count DESC").
		Limit(limit).
		Scan(&aggs.ByAction).Error; err != nil {
		return AuditAggregates{}, err
	}

	return aggs, nil
}
