package policy

import (
	"context"

	"gorm.io/gorm"

	"github.com/roomkeep/dataroom/gate"
	"github.com/roomkeep/dataroom/internal/models"
)

// DocumentPolicy implements the dataroom's access rules for documents:
//
//	view/download: admin OR an explicit grant for (document, subject)
//	upload:        admin
//	delete:        admin
//	list:          any active subject (listings are filtered per-grant in SQL)
//
// Grants have no expiry; a grant is permanent until explicitly revoked.
type DocumentPolicy struct {
	db       *gorm.DB
	resolver gate.SubjectResolver[uint]
}

// NewDocumentPolicy creates the policy. The resolver supplies roles;
// grant rows are looked up per check, uncached.
func NewDocumentPolicy(db *gorm.DB, resolver gate.SubjectResolver[uint]) *DocumentPolicy {
	return &DocumentPolicy{db: db, resolver: resolver}
}

// Can evaluates the predicate. For view/download, resource must be the
// document id string.
func (p *DocumentPolicy) Can(ctx context.Context, userID uint, action gate.Action, resource any) bool {
	subject, err := p.resolver.Resolve(ctx, userID)
	if err != nil || subject == nil || !subject.Active {
		return false
	}
	if subject.IsAdmin() {
		return true
	}
	switch action {
	case gate.ActionView, gate.ActionDownload:
		docID, ok := resource.(string)
		if !ok || docID == "" {
			return false
		}
		var count int64
		if err := p.db.WithContext(ctx).Model(&models.AccessGrant{}).
			Where("document_id = ? AND user_id = ?", docID, userID).
			Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	case gate.ActionList:
		return true
	default:
		// upload, delete and manage are admin-only
		return false
	}
}

// AdminPolicy guards admin-only resources (users, grants, audit trail).
type AdminPolicy struct {
	resolver gate.SubjectResolver[uint]
}

// NewAdminPolicy creates the policy.
func NewAdminPolicy(resolver gate.SubjectResolver[uint]) *AdminPolicy {
	return &AdminPolicy{resolver: resolver}
}

// Can allows any action for active admins and nothing for anyone else.
func (p *AdminPolicy) Can(ctx context.Context, userID uint, _ gate.Action, _ any) bool {
	subject, err := p.resolver.Resolve(ctx, userID)
	if err != nil || subject == nil || !subject.Active {
		return false
	}
	return subject.IsAdmin()
}
