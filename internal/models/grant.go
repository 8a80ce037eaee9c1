package models

import "time"

// AccessGrant lets a specific non-admin user view and download a
// specific document. Admins bypass grants entirely, so a grant for an
// admin grantee is meaningless and never written. Grants are replaced
// wholesale when an admin edits a user's access set.
type AccessGrant struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	DocumentID string    `gorm:"size:36;not null;uniqueIndex:idx_grant_doc_user" json:"document_id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_grant_doc_user" json:"user_id"`
	GrantedBy  uint      `gorm:"not null" json:"granted_by"`
	Document   Document  `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE" json:"-"`
	User       User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
