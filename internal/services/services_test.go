package services

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/roomkeep/dataroom/internal/models"
	"github.com/roomkeep/dataroom/internal/policy"
	"github.com/roomkeep/dataroom/internal/storage"
)

const testMaxUpload = 1 << 20 // 1 MiB ceiling keeps oversize fixtures small

// captureMailer records sent messages instead of delivering them.
type captureMailer struct {
	sent []capturedMail
	fail bool
}

type capturedMail struct {
	To      string
	Subject string
	Body    string
}

func (m *captureMailer) Send(_ context.Context, to, subject, body string) error {
	if m.fail {
		return fmt.Errorf("provider unavailable")
	}
	m.sent = append(m.sent, capturedMail{To: to, Subject: subject, Body: body})
	return nil
}

type testEnv struct {
	db     *gorm.DB
	blobs  *storage.MemoryStore
	gate   *policy.AuthGate
	audit  *AuditService
	docs   *DocumentService
	grants *GrantService
	users  *UserService
	mail   *captureMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	// unique in-memory DB per test name to avoid leakage via shared cache
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Document{}, &models.AccessGrant{}, &models.AuditLog{}))

	blobs := storage.NewMemoryStore()
	authGate := policy.NewAuthGate(db, time.Minute)
	audit := NewAuditService(db, authGate)
	mail := &captureMailer{}
	return &testEnv{
		db:     db,
		blobs:  blobs,
		gate:   authGate,
		audit:  audit,
		docs:   NewDocumentService(db, blobs, authGate, audit, testMaxUpload),
		grants: NewGrantService(db, authGate),
		users:  NewUserService(db, authGate, mail, "ChangeMe123!"),
		mail:   mail,
	}
}

func (e *testEnv) seedUser(t *testing.T, email, role string, active bool) *models.User {
	t.Helper()
	u := models.User{Email: email, PasswordHash: "x", Role: role, IsActive: active}
	require.NoError(t, e.db.Create(&u).Error)
	return &u
}

func (e *testEnv) grantDirect(t *testing.T, docID string, userID, adminID uint) {
	t.Helper()
	require.NoError(t, e.db.Create(&models.AccessGrant{DocumentID: docID, UserID: userID, GrantedBy: adminID}).Error)
}

func (e *testEnv) countAudit(t *testing.T, docID, action string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.AuditLog{}).
		Where("document_id = ? AND action = ?", docID, action).
		Count(&n).Error)
	return n
}

func pdfUpload(name string, content []byte) UploadInput {
	return UploadInput{
		Filename:    name,
		ContentType: "application/pdf",
		Size:        int64(len(content)),
		Reader:      bytes.NewReader(content),
		Category:    "Financials",
		Subcategory: "Quarterly Reports",
	}
}

var testMeta = RequestMeta{IP: "203.0.113.7", UserAgent: "go-test"}
