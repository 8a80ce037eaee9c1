package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/roomkeep/dataroom/gate"
	"github.com/roomkeep/dataroom/internal/models"
	"github.com/roomkeep/dataroom/internal/policy"
)

// GrantService manages per-document access grants for non-admin users.
type GrantService struct {
	db   *gorm.DB
	gate *policy.AuthGate
}

// NewGrantService creates the service.
func NewGrantService(db *gorm.DB, authGate *policy.AuthGate) *GrantService {
	return &GrantService{db: db, gate: authGate}
}

// SetAccessForUser replaces the complete grant set of targetUserID with
// documentIDs, each tagged with the granting admin. The replace runs in
// one transaction so a failure can never strand the user with a partial
// or empty grant set. Idempotent with respect to final state.
//
// Grants for admin grantees are rejected: admins bypass grants.
func (s *GrantService) SetAccessForUser(ctx context.Context, adminID, targetUserID uint, documentIDs []string) error {
	if err := s.gate.Authorize(ctx, adminID, gate.ActionManage, policy.ResourceGrant, nil); err != nil {
		return ErrForbidden
	}

	var target models.User
	err := s.db.WithContext(ctx).First(&target, targetUserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if target.IsAdmin() {
		return fmt.Errorf("%w: grants are meaningless for admin users", ErrValidation)
	}

	// Reject unknown document ids up front; a typo must not silently
	// shrink the grant set.
	if len(documentIDs) > 0 {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Document{}).
			Where("id IN ?", documentIDs).Count(&count).Error; err != nil {
			return err
		}
		if count != int64(len(dedupe(documentIDs))) {
			return fmt.Errorf("%w: unknown document id in grant set", ErrValidation)
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", targetUserID).Delete(&models.AccessGrant{}).Error; err != nil {
			return err
		}
		for _, docID := range dedupe(documentIDs) {
			grant := models.AccessGrant{
				DocumentID: docID,
				UserID:     targetUserID,
				GrantedBy:  adminID,
			}
			if err := tx.Create(&grant).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GrantsForUser returns the document id set currently granted to
// targetUserID. Admin-only.
func (s *GrantService) GrantsForUser(ctx context.Context, adminID, targetUserID uint) ([]string, error) {
	if err := s.gate.Authorize(ctx, adminID, gate.ActionManage, policy.ResourceGrant, nil); err != nil {
		return nil, ErrForbidden
	}
	var ids []string
	err := s.db.WithContext(ctx).Model(&models.AccessGrant{}).
		Where("user_id = ?", targetUserID).
		Order("created_at").
		Pluck("document_id", &ids).Error
	return ids, err
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
