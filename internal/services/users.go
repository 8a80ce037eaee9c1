package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/roomkeep/dataroom/gate"
	"github.com/roomkeep/dataroom/internal/auth"
	"github.com/roomkeep/dataroom/internal/mailer"
	"github.com/roomkeep/dataroom/internal/models"
	"github.com/roomkeep/dataroom/internal/policy"
)

// UserService manages identities and their dataroom profiles.
type UserService struct {
	db              *gorm.DB
	gate            *policy.AuthGate
	mail            mailer.Mailer
	defaultPassword string
}

// NewUserService creates the service. defaultPassword is the fixed
// password assigned to admin-provisioned users.
func NewUserService(db *gorm.DB, authGate *policy.AuthGate, mail mailer.Mailer, defaultPassword string) *UserService {
	return &UserService{db: db, gate: authGate, mail: mail, defaultPassword: defaultPassword}
}

// Signup creates a profile for a self-registered identity. The very
// first profile in an empty system is promoted to admin and activated;
// every later profile defaults to an inactive regular user until an
// admin activates it.
func (s *UserService) Signup(ctx context.Context, email, fullName, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{Email: email, FullName: fullName, PasswordHash: hash}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			user.Role = models.RoleAdmin
			user.IsActive = true
		} else {
			user.Role = models.RoleUser
			user.IsActive = false
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		if isDuplicate(err) {
			return nil, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return nil, err
	}
	return &user, nil
}

// Authenticate verifies credentials and the activation flag.
// Unknown email, wrong password and inactive account are
// indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrForbidden
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive || !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrForbidden
	}
	return &user, nil
}

// Create provisions a user on behalf of an admin: fixed default
// password, inactive by default (the first-profile rule still applies
// on an empty system), best-effort welcome mail carrying the default
// password. A mail failure never rolls back the creation.
func (s *UserService) Create(ctx context.Context, adminID uint, email, fullName string) (*models.User, error) {
	if err := s.gate.Authorize(ctx, adminID, gate.ActionManage, policy.ResourceUser, nil); err != nil {
		return nil, ErrForbidden
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	}

	user, err := s.Signup(ctx, email, fullName, s.defaultPassword)
	if err != nil {
		return nil, err
	}

	body := fmt.Sprintf(
		"Hello %s,\n\nAn account has been created for you on the dataroom.\n"+
			"Sign in with this email address and the temporary password: %s\n\n"+
			"Please change it after your first login.\n",
		fullName, s.defaultPassword,
	)
	if err := s.mail.Send(ctx, email, "Your dataroom account", body); err != nil {
		slog.Warn("welcome mail failed", "email", email, "error", err)
	}
	return user, nil
}

// List returns all users, newest first. Admin-only.
func (s *UserService) List(ctx context.Context, adminID uint) ([]models.User, error) {
	if err := s.gate.Authorize(ctx, adminID, gate.ActionManage, policy.ResourceUser, nil); err != nil {
		return nil, ErrForbidden
	}
	var users []models.User
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error
	return users, err
}

// SetActive toggles a user's activation flag. Admin-only. The cached
// role entry is invalidated so the change takes effect immediately.
func (s *UserService) SetActive(ctx context.Context, adminID, targetUserID uint, active bool) (*models.User, error) {
	if err := s.gate.Authorize(ctx, adminID, gate.ActionManage, policy.ResourceUser, nil); err != nil {
		return nil, ErrForbidden
	}
	var user models.User
	err := s.db.WithContext(ctx).First(&user, targetUserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&user).Update("is_active", active).Error; err != nil {
		return nil, err
	}
	user.IsActive = active
	s.gate.InvalidateUser(user.ID)
	return &user, nil
}

// Get returns one user by id.
func (s *UserService) Get(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Exists reports whether an active user with the given id exists. Used
// as the auth middleware's verifier.
func (s *UserService) Exists(ctx context.Context, userID uint) bool {
	var count int64
	s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND is_active = ?", userID, true).
		Count(&count)
	return count > 0
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
