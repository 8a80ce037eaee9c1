package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roomkeep/dataroom/internal/models"
)

func TestSignup_FirstUserBecomesActiveAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.users.Signup(ctx, "Owner@Example.com", "Owner", "s3cret-pw")
	require.NoError(t, err)
	require.Equal(t, "owner@example.com", first.Email)
	require.Equal(t, models.RoleAdmin, first.Role)
	require.True(t, first.IsActive)

	second, err := env.users.Signup(ctx, "viewer@example.com", "Viewer", "another-pw")
	require.NoError(t, err)
	require.Equal(t, models.RoleUser, second.Role)
	require.False(t, second.IsActive)
}

func TestSignup_DuplicateEmailConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.users.Signup(ctx, "owner@example.com", "Owner", "pw-one")
	require.NoError(t, err)

	_, err = env.users.Signup(ctx, "owner@example.com", "Again", "pw-two")
	require.ErrorIs(t, err, ErrConflict)
}

func TestSignup_RequiresEmailAndPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.users.Signup(ctx, "", "Nobody", "pw")
	require.ErrorIs(t, err, ErrValidation)
	_, err = env.users.Signup(ctx, "x@example.com", "Nobody", "")
	require.ErrorIs(t, err, ErrValidation)
}

func TestAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin, err := env.users.Signup(ctx, "owner@example.com", "Owner", "s3cret-pw")
	require.NoError(t, err)
	inactive, err := env.users.Signup(ctx, "viewer@example.com", "Viewer", "viewer-pw")
	require.NoError(t, err)

	got, err := env.users.Authenticate(ctx, "owner@example.com", "s3cret-pw")
	require.NoError(t, err)
	require.Equal(t, admin.ID, got.ID)

	// wrong password, unknown email and inactive account all fail the
	// same way
	_, err = env.users.Authenticate(ctx, "owner@example.com", "wrong")
	require.ErrorIs(t, err, ErrForbidden)
	_, err = env.users.Authenticate(ctx, "nobody@example.com", "s3cret-pw")
	require.ErrorIs(t, err, ErrForbidden)
	_, err = env.users.Authenticate(ctx, "viewer@example.com", "viewer-pw")
	require.ErrorIs(t, err, ErrForbidden)

	// activation unlocks login without a password change
	_, err = env.users.SetActive(ctx, admin.ID, inactive.ID, true)
	require.NoError(t, err)
	_, err = env.users.Authenticate(ctx, "viewer@example.com", "viewer-pw")
	require.NoError(t, err)
}

func TestCreate_SendsWelcomeMailWithDefaultPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin, err := env.users.Signup(ctx, "owner@example.com", "Owner", "s3cret-pw")
	require.NoError(t, err)

	user, err := env.users.Create(ctx, admin.ID, "New.Hire@Example.com", "New Hire")
	require.NoError(t, err)
	require.Equal(t, "new.hire@example.com", user.Email)
	require.Equal(t, models.RoleUser, user.Role)
	require.False(t, user.IsActive)

	require.Len(t, env.mail.sent, 1)
	require.Equal(t, "new.hire@example.com", env.mail.sent[0].To)
	require.True(t, strings.Contains(env.mail.sent[0].Body, "ChangeMe123!"))

	// the provisioned user can log in with the default password once
	// activated
	_, err = env.users.SetActive(ctx, admin.ID, user.ID, true)
	require.NoError(t, err)
	_, err = env.users.Authenticate(ctx, user.Email, "ChangeMe123!")
	require.NoError(t, err)
}

func TestCreate_MailFailureDoesNotRollBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin, err := env.users.Signup(ctx, "owner@example.com", "Owner", "s3cret-pw")
	require.NoError(t, err)
	env.mail.fail = true

	user, err := env.users.Create(ctx, admin.ID, "new@example.com", "New")
	require.NoError(t, err)

	got, err := env.users.Get(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "new@example.com", got.Email)
}

func TestCreate_Rejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin, err := env.users.Signup(ctx, "owner@example.com", "Owner", "s3cret-pw")
	require.NoError(t, err)
	viewer := env.seedUser(t, "viewer@example.com", models.RoleUser, true)

	_, err = env.users.Create(ctx, viewer.ID, "x@example.com", "X")
	require.ErrorIs(t, err, ErrForbidden)

	_, err = env.users.Create(ctx, admin.ID, "viewer@example.com", "Dup")
	require.ErrorIs(t, err, ErrConflict)

	_, err = env.users.Create(ctx, admin.ID, "   ", "Blank")
	require.ErrorIs(t, err, ErrValidation)
}

func TestSetActive_TogglesAndTakesEffectImmediately(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin@example.com", models.RoleAdmin, true)
	user := env.seedUser(t, "user@example.com", models.RoleUser, true)
	ctx := context.Background()

	doc, err := env.docs.Upload(ctx, admin.ID, pdfUpload("a.pdf", []byte("a")), testMeta)
	require.NoError(t, err)
	env.grantDirect(t, doc.ID, user.ID, admin.ID)

	// warm the subject cache with the active state
	_, obj, err := env.docs.Download(ctx, user.ID, doc.ID, testMeta)
	require.NoError(t, err)
	obj.Reader.Close()

	_, err = env.users.SetActive(ctx, admin.ID, user.ID, false)
	require.NoError(t, err)

	// deactivation must bypass the cached subject
	_, _, err = env.docs.Download(ctx, user.ID, doc.ID, testMeta)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = env.users.SetActive(ctx, admin.ID, user.ID, true)
	require.NoError(t, err)
	_, obj, err = env.docs.Download(ctx, user.ID, doc.ID, testMeta)
	require.NoError(t, err)
	obj.Reader.Close()

	_, err = env.users.SetActive(ctx, user.ID, admin.ID, false)
	require.ErrorIs(t, err, ErrForbidden)
	_, err = env.users.SetActive(ctx, admin.ID, 9999, true)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListUsers_AdminOnly(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin@example.com", models.RoleAdmin, true)
	user := env.seedUser(t, "user@example.com", models.RoleUser, true)
	ctx := context.Background()

	users, err := env.users.List(ctx, admin.ID)
	require.NoError(t, err)
	require.Len(t, users, 2)

	_, err = env.users.List(ctx, user.ID)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestExists_ChecksActivation(t *testing.T) {
	env := newTestEnv(t)
	active := env.seedUser(t, "a@example.com", models.RoleUser, true)
	inactive := env.seedUser(t, "b@example.com", models.RoleUser, false)
	ctx := context.Background()

	require.True(t, env.users.Exists(ctx, active.ID))
	require.False(t, env.users.Exists(ctx, inactive.ID))
	require.False(t, env.users.Exists(ctx, 9999))
}
