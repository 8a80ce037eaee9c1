package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/roomkeep/dataroom/internal/models"
	"github.com/roomkeep/dataroom/internal/policy"
)

// RequestMeta carries best-effort request attribution for audit rows.
type RequestMeta struct {
	IP        string
	UserAgent string
}

func (m RequestMeta) ip() string {
	if m.IP == "" {
		return "unknown"
	}
	return m.IP
}

func (m RequestMeta) userAgent() string {
	if m.UserAgent == "" {
		return "unknown"
	}
	return m.UserAgent
}

// AuditService appends and reads the append-only audit trail.
type AuditService struct {
	db   *gorm.DB
	gate *policy.AuthGate
}

// NewAuditService creates the service.
func NewAuditService(db *gorm.DB, gate *policy.AuthGate) *AuditService {
	return &AuditService{db: db, gate: gate}
}

// Record appends one audit row. Failures are logged and swallowed:
// a broken audit trail must not block the primary action.
func (s *AuditService) Record(ctx context.Context, actorID uint, documentID, action string, meta RequestMeta) {
	entry := models.AuditLog{
		ID:         uuid.NewString(),
		UserID:     actorID,
		DocumentID: documentID,
		Action:     action,
		IP:         meta.ip(),
		UserAgent:  meta.userAgent(),
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		slog.Error("audit append failed",
			"action", action,
			"document_id", documentID,
			"user_id", actorID,
			"error", err,
		)
	}
}

// AuditFilter narrows List results.
type AuditFilter struct {
	DocumentID string
	Action     string
	Page       int
	PageSize   int
}

// List returns audit rows, newest first. Admin-only.
func (s *AuditService) List(ctx context.Context, actorID uint, filter AuditFilter) ([]models.AuditLog, int64, error) {
	if !s.gate.IsAdmin(ctx, actorID) {
		return nil, 0, ErrForbidden
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 200 {
		filter.PageSize = 50
	}

	q := s.db.WithContext(ctx).Model(&models.AuditLog{})
	if filter.DocumentID != "" {
		q = q.Where("document_id = ?", filter.DocumentID)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var entries []models.AuditLog
	err := q.Order("created_at DESC").
		Limit(filter.PageSize).
		Offset((filter.Page - 1) * filter.PageSize).
		Find(&entries).Error
	return entries, total, err
}
