package audit

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq uint64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	id := atomic.AddUint64(&testDBSeq, 1)
	dsn := fmt.Sprintf("file:audit_test_%d?mode=memory&cache=shared", id)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := db.AutoMigrate(&AuditLog{}); err != nil {
		t.Fatalf("migrate db: %v", err)
	}

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func insertLog(t *testing.T, db *gorm.DB, entry AuditLog) AuditLog {
	t.Helper()

	wantCreatedAt := entry.CreatedAt
	if err := db.Create(&entry).Error; err != nil {
		t.Fatalf("insert log: %v", err)
	}
	if !wantCreatedAt.IsZero() {
		if err := db.Model(&AuditLog{}).
			Where("id = ?", entry.ID).
			UpdateColumn("created_at", wantCreatedAt).Error; err != nil {
			t.Fatalf("set created_at: %v", err)
		}
		entry.CreatedAt = wantCreatedAt
	}
	return entry
}

func uptr(v uint) *uint { return &v }

func sptr(s string) *string { return &s }

func TestAuditLog_TableName(t *testing.T) {
	if got := (AuditLog{}).TableName(); got != "audit_logs" {
		t.Fatalf("got %q want %q", got, "audit_logs")
	}
}

func TestAuditService_Log_Inserts(t *testing.T) {
	db := newTestDB(t)
	svc := &AuditService{DB: db}

	err := svc.Log(AuditLog{
		Level:    "INFO",
		Entity:   "contracts",
		Action:   "UPDATE_CELL",
		UserID:   uptr(4),
		RecordID: "17",
		Message:  "Monto: 1000 -> 1500.50",
	}, map[string]interface{}{"column": "Monto"})
	if err != nil {
		t.Fatalf("Log: %v", err)
	}

	var got AuditLog
	if err := db.First(&got).Error; err != nil {
		t.Fatalf("read back: %v", err)
	}
	if got.Entity != "contracts" || got.Action != "UPDATE_CELL" {
		t.Fatalf("unexpected row: %#v", got)
	}
	if got.RequestID == "" {
		t.Fatal("expected generated request id")
	}
	if got.Metadata == nil || !strings.Contains(*got.Metadata, "Monto") {
		t.Fatalf("metadata not stored: %v", got.Metadata)
	}
}

func TestAuditService_Log_KeepsProvidedRequestID(t *testing.T) {
	db := newTestDB(t)
	svc := &AuditService{DB: db}

	if err := svc.Log(AuditLog{
		Level:     "INFO",
		Entity:    "clients",
		Action:    "CREATE",
		RequestID: "req-123",
		Message:   "created",
	}, nil); err != nil {
		t.Fatalf("Log: %v", err)
	}

	var got AuditLog
	if err := db.First(&got).Error; err != nil {
		t.Fatalf("read back: %v", err)
	}
	if got.RequestID != "req-123" {
		t.Fatalf("request id = %q", got.RequestID)
	}
	if got.Metadata != nil {
		t.Fatalf("expected nil metadata, got %v", got.Metadata)
	}
}

func TestAuditService_Log_ClampsLongMessage(t *testing.T) {
	db := newTestDB(t)
	svc := &AuditService{DB: db}

	if err := svc.Log(AuditLog{
		Level:   "ERROR",
		Entity:  "invoices",
		Action:  "UPDATE",
		Message: strings.Repeat("x", 600),
	}, nil); err != nil {
		t.Fatalf("Log: %v", err)
	}

	var got AuditLog
	if err := db.First(&got).Error; err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len([]rune(got.Message)) != 500 {
		t.Fatalf("message length = %d, want 500", len([]rune(got.Message)))
	}
}

func TestAuditService_GetLogs_DefaultWindowExcludesOldEntries(t *testing.T) {
	db := newTestDB(t)
	svc := &AuditService{DB: db}

	insertLog(t, db, AuditLog{
		Level: "INFO", Entity: "clients", Action: "CREATE", Message: "recent",
		CreatedAt: time.Now().AddDate(0, 0, -2),
	})
	insertLog(t, db, AuditLog{
		Level: "INFO", Entity: "clients", Action: "CREATE", Message: "ancient",
		CreatedAt: time.Now().AddDate(0, 0, -45),
	})

	rows, _, total, _, err := svc.GetLogs(AuditFilterInput{})
	if err != nil {
		t.Fatalf("GetLogs: %v", err)
	}
	if total != 1 {
		t.Fatalf("total = %d, want 1", total)
	}
	if len(rows) != 1 || rows[0].Message != "recent" {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}

func TestAuditService_GetLogs_FiltersAndSearch(t *testing.T) {
	db := newTestDB(t)
	svc := &AuditService{DB: db}

	now := time.Now()
	insertLog(t, db, AuditLog{
		Level: "INFO", Entity: "contracts", Action: "UPDATE_CELL", UserID: uptr(1),
		RecordID: "17", Message: "Monto actualizado", CreatedAt: now.Add(-time.Hour),
	})
	insertLog(t, db, AuditLog{
		Level: "INFO", Entity: "contracts", Action: "DELETE", UserID: uptr(2),
		RecordID: "18", Message: "Contrato eliminado", CreatedAt: now.Add(-2 * time.Hour),
	})
	insertLog(t, db, AuditLog{
		Level: "ERROR", Entity: "invoices", Action: "UPDATE_CELL", UserID: uptr(1),
		RecordID: "99", Message: "upstream returned 422", CreatedAt: now.Add(-3 * time.Hour),
	})

	rows, _, total, _, err := svc.GetLogs(AuditFilterInput{
		Entity: sptr("Contracts"),
		Action: sptr("UPDATE_CELL"),
	})
	if err != nil {
		t.Fatalf("GetLogs: %v", err)
	}
	if total != 1 || rows[0].RecordID != "17" {
		t.Fatalf("filter mismatch: total=%d rows=%#v", total, rows)
	}

	rows, _, total, _, err = svc.GetLogs(AuditFilterInput{Search: sptr("ELIMINADO")})
	if err != nil {
		t.Fatalf("GetLogs search: %v", err)
	}
	if total != 1 || rows[0].Action != "DELETE" {
		t.Fatalf("search mismatch: total=%d rows=%#v", total, rows)
	}

	rows, _, total, _, err = svc.GetLogs(AuditFilterInput{UserID: uptr(1)})
	if err != nil {
		t.Fatalf("GetLogs user: %v", err)
	}
	if total != 2 {
		t.Fatalf("user filter total = %d, want 2", total)
	}
	if rows[0].CreatedAt.Before(rows[1].CreatedAt) {
		t.Fatal("expected newest-first ordering")
	}
}

func TestAuditService_GetLogs_PaginationAndAggregates(t *testing.T) {
	db := newTestDB(t)
	svc := &AuditService{DB: db}

	now := time.Now()
	for i := 0; i < 25; i++ {
		entity := "clients"
		if i%5 == 0 {
			entity = "contracts"
		}
		insertLog(t, db, AuditLog{
			Level: "INFO", Entity: entity, Action: "CREATE",
			Message:   fmt.Sprintf("entry %d", i),
			CreatedAt: now.Add(-time.Duration(i) * time.Minute),
		})
	}

	rows, aggs, total, totalPages, err := svc.GetLogs(AuditFilterInput{Page: 2, PageSize: 10})
	if err != nil {
		t.Fatalf("GetLogs: %v", err)
	}
	if total != 25 {
		t.Fatalf("total = %d, want 25", total)
	}
	if totalPages != 3 {
		t.Fatalf("total_pages = %d, want 3", totalPages)
	}
	if len(rows) != 10 {
		t.Fatalf("page size = %d, want 10", len(rows))
	}

	if len(aggs.ByEntity) != 2 {
		t.Fatalf("by_entity = %#v", aggs.ByEntity)
	}
	if aggs.ByEntity[0].Label != "clients" || aggs.ByEntity[0].Count != 20 {
		t.Fatalf("top entity = %#v", aggs.ByEntity[0])
	}
	if len(aggs.ByAction) != 1 || aggs.ByAction[0].Count != 25 {
		t.Fatalf("by_action = %#v", aggs.ByAction)
	}
}

func TestAuditService_GetLogs_InvalidDateRange_ReturnsError(t *testing.T) {
	svc := &AuditService{DB: newTestDB(t)}

	_, _, _, _, err := svc.GetLogs(AuditFilterInput{
		StartDate: sptr("not-a-date"),
	})
	if err == nil {
		t.Fatal("expected error for invalid date")
	}
}

func TestAuditService_GetLogs_DateRangeInclusiveEndDay(t *testing.T) {
	db := newTestDB(t)
	svc := &AuditService{DB: db}

	insertLog(t, db, AuditLog{
		Level: "INFO", Entity: "clients", Action: "CREATE", Message: "in range",
		CreatedAt: time.Date(2026, 8, 10, 23, 30, 0, 0, time.UTC),
	})
	insertLog(t, db, AuditLog{
		Level: "INFO", Entity: "clients", Action: "CREATE", Message: "out of range",
		CreatedAt: time.Date(2026, 8, 11, 0, 30, 0, 0, time.UTC),
	})

	rows, _, total, _, err := svc.GetLogs(AuditFilterInput{
		StartDate: sptr("2026-08-10"),
		EndDate:   sptr("2026-08-10"),
	})
	if err != nil {
		t.Fatalf("GetLogs: %v", err)
	}
	if total != 1 || rows[0].Message != "in range" {
		t.Fatalf("unexpected: total=%d rows=%#v", total, rows)
	}
}
