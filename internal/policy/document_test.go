package policy

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/roomkeep/dataroom/gate"
	"github.com/roomkeep/dataroom/internal/models"
)

func setupPolicyTestDB(t *testing.T) *gorm.DB {
	// unique in-memory DB per test name to avoid leakage via shared cache
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Document{}, &models.AccessGrant{}, &models.AuditLog{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, role string, active bool) *models.User {
	t.Helper()
	u := models.User{Email: email, PasswordHash: "x", Role: role, IsActive: active}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func seedDocument(t *testing.T, db *gorm.DB, id string, uploader uint) *models.Document {
	t.Helper()
	d := models.Document{ID: id, Name: id + ".pdf", StoragePath: "p-" + id, Size: 1, UploadedBy: uploader}
	require.NoError(t, db.Create(&d).Error)
	return &d
}

func TestDocumentPolicy_AdminBypassesGrants(t *testing.T) {
	db := setupPolicyTestDB(t)
	admin := seedUser(t, db, "admin@example.com", models.RoleAdmin, true)
	doc := seedDocument(t, db, "doc-1", admin.ID)

	ag := NewAuthGate(db, time.Minute)
	ctx := context.Background()

	for _, action := range []gate.Action{gate.ActionView, gate.ActionDownload, gate.ActionUpload, gate.ActionDelete, gate.ActionList} {
		require.True(t, ag.Can(ctx, admin.ID, action, ResourceDocument, doc.ID), "admin should be allowed %s", action)
	}
}

func TestDocumentPolicy_GrantIffDownload(t *testing.T) {
	db := setupPolicyTestDB(t)
	admin := seedUser(t, db, "admin@example.com", models.RoleAdmin, true)
	user := seedUser(t, db, "user@example.com", models.RoleUser, true)
	granted := seedDocument(t, db, "doc-granted", admin.ID)
	other := seedDocument(t, db, "doc-other", admin.ID)
	require.NoError(t, db.Create(&models.AccessGrant{DocumentID: granted.ID, UserID: user.ID, GrantedBy: admin.ID}).Error)

	ag := NewAuthGate(db, time.Minute)
	ctx := context.Background()

	require.True(t, ag.Can(ctx, user.ID, gate.ActionDownload, ResourceDocument, granted.ID))
	require.True(t, ag.Can(ctx, user.ID, gate.ActionView, ResourceDocument, granted.ID))
	require.False(t, ag.Can(ctx, user.ID, gate.ActionDownload, ResourceDocument, other.ID))
}

func TestDocumentPolicy_UploadDeleteAdminOnly(t *testing.T) {
	db := setupPolicyTestDB(t)
	admin := seedUser(t, db, "admin@example.com", models.RoleAdmin, true)
	user := seedUser(t, db, "user@example.com", models.RoleUser, true)
	doc := seedDocument(t, db, "doc-1", admin.ID)
	// even with a grant, a regular user may not upload or delete
	require.NoError(t, db.Create(&models.AccessGrant{DocumentID: doc.ID, UserID: user.ID, GrantedBy: admin.ID}).Error)

	ag := NewAuthGate(db, time.Minute)
	ctx := context.Background()

	require.False(t, ag.Can(ctx, user.ID, gate.ActionUpload, ResourceDocument, nil))
	require.False(t, ag.Can(ctx, user.ID, gate.ActionDelete, ResourceDocument, doc.ID))
}

func TestDocumentPolicy_InactiveAndUnknownDenied(t *testing.T) {
	db := setupPolicyTestDB(t)
	admin := seedUser(t, db, "admin@example.com", models.RoleAdmin, true)
	inactive := seedUser(t, db, "inactive@example.com", models.RoleUser, false)
	doc := seedDocument(t, db, "doc-1", admin.ID)
	require.NoError(t, db.Create(&models.AccessGrant{DocumentID: doc.ID, UserID: inactive.ID, GrantedBy: admin.ID}).Error)

	ag := NewAuthGate(db, time.Minute)
	ctx := context.Background()

	require.False(t, ag.Can(ctx, inactive.ID, gate.ActionDownload, ResourceDocument, doc.ID),
		"inactive user should be denied despite holding a grant")
	require.False(t, ag.Can(ctx, 9999, gate.ActionDownload, ResourceDocument, doc.ID))
}

func TestAdminPolicy_ManageResources(t *testing.T) {
	db := setupPolicyTestDB(t)
	admin := seedUser(t, db, "admin@example.com", models.RoleAdmin, true)
	user := seedUser(t, db, "user@example.com", models.RoleUser, true)

	ag := NewAuthGate(db, time.Minute)
	ctx := context.Background()

	for _, res := range []string{ResourceUser, ResourceGrant, ResourceAudit} {
		require.True(t, ag.Can(ctx, admin.ID, gate.ActionManage, res, nil))
		require.False(t, ag.Can(ctx, user.ID, gate.ActionManage, res, nil))
	}
}
