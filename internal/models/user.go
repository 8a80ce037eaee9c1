package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles a user can hold. Admins bypass per-document grants and hold
// exclusive rights to upload, delete, and manage users and grants.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents an authenticated identity with its dataroom profile.
// The very first user created in an empty system is promoted to admin
// and activated; every later user starts as an inactive regular user
// until an admin flips the activation flag.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FullName     string         `gorm:"size:255" json:"full_name,omitempty"`
	PasswordHash string         `gorm:"size:255;not null" json:"-"` // Hashed, never exposed in JSON
	Role         string         `gorm:"size:20;not null;default:user" json:"role"`
	IsActive     bool           `gorm:"not null;default:false" json:"is_active"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
