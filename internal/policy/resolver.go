package policy

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/roomkeep/dataroom/gate"
	"github.com/roomkeep/dataroom/internal/models"
)

// DBSubjectResolver resolves a user id to its role and activation flag
// from the users table.
type DBSubjectResolver struct {
	db *gorm.DB
}

// NewDBSubjectResolver creates a resolver backed by the given database.
func NewDBSubjectResolver(db *gorm.DB) *DBSubjectResolver {
	return &DBSubjectResolver{db: db}
}

// Resolve returns the subject record for userID, or nil when the user
// does not exist.
func (r *DBSubjectResolver) Resolve(ctx context.Context, userID uint) (*gate.Subject, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &gate.Subject{ID: user.ID, Role: gate.Role(user.Role), Active: user.IsActive}, nil
}
