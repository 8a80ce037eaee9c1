package models

import "time"

// Audit actions. Only storage-affecting operations are audited.
const (
	AuditUpload   = "upload"
	AuditDownload = "download"
	AuditDelete   = "delete"
)

// AuditLog is an append-only record of a storage-affecting action.
// Rows are never updated or deleted by the application. IP and
// user agent are best-effort and recorded as "unknown" when absent.
type AuditLog struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	DocumentID string    `gorm:"size:36;index;not null" json:"document_id"`
	Action     string    `gorm:"size:20;not null;index" json:"action"`
	IP         string    `gorm:"size:64" json:"ip"`
	UserAgent  string    `gorm:"size:512" json:"user_agent"`
}
