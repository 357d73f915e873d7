package database

import (
	"fmt"
	"log"
	"time"

	"go-jewel-backoffice/internal/models"

	"gorm.io/gorm"
)

// AuditEntry describes one change to be appended to audit_logs.
type AuditEntry struct {
	Actor         string
	Action        string
	EntityType    string
	EntityID      interface{}
	Detail        string
	SourceAddress string
}

// RecordAudit appends an entry using db (pass a transaction to tie the entry
// to the change). Failures are logged and never block the caller.
func RecordAudit(db *gorm.DB, e AuditEntry) {
	if db == nil {
		db = DB
	}
	entry := models.AuditLog{
		Actor:         e.Actor,
		Action:        e.Action,
		EntityType:    e.EntityType,
		EntityID:      fmt.Sprint(e.EntityID),
		Detail:        e.Detail,
		SourceAddress: e.SourceAddress,
		CreatedAt:     time.Now(),
	}
	if err := db.Create(&entry).Error; err != nil {
		log.Printf("audit: failed to record %s %s/%s: %v", e.Action, e.EntityType, entry.EntityID, err)
	}
}

// ListAuditLogs returns every entry, newest first.
func ListAuditLogs() ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := DB.Order("created_at desc").Order("id desc").Find(&logs).Error
	return logs, err
}
