package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roomkeep/dataroom/internal/models"
)

func TestSetAccessForUser_ReplacesWholesale(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin@example.com", models.RoleAdmin, true)
	user := env.seedUser(t, "user@example.com", models.RoleUser, true)
	ctx := context.Background()

	d1, err := env.docs.Upload(ctx, admin.ID, pdfUpload("a.pdf", []byte("a")), testMeta)
	require.NoError(t, err)
	d2, err := env.docs.Upload(ctx, admin.ID, pdfUpload("b.pdf", []byte("b")), testMeta)
	require.NoError(t, err)
	d3, err := env.docs.Upload(ctx, admin.ID, pdfUpload("c.pdf", []byte("c")), testMeta)
	require.NoError(t, err)

	require.NoError(t, env.grants.SetAccessForUser(ctx, admin.ID, user.ID, []string{d1.ID}))

	got, err := env.grants.GrantsForUser(ctx, admin.ID, user.ID)
	require.NoError(t, err)
	require.Equal(t, []string{d1.ID}, got)

	// replacing with {d2,d3} must also revoke d1
	require.NoError(t, env.grants.SetAccessForUser(ctx, admin.ID, user.ID, []string{d2.ID, d3.ID}))

	got, err = env.grants.GrantsForUser(ctx, admin.ID, user.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{d2.ID, d3.ID}, got)

	_, _, err = env.docs.Download(ctx, user.ID, d1.ID, testMeta)
	require.ErrorIs(t, err, ErrForbidden)
	_, obj, err := env.docs.Download(ctx, user.ID, d2.ID, testMeta)
	require.NoError(t, err)
	obj.Reader.Close()
}

func TestSetAccessForUser_EmptySetRevokesAll(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin@example.com", models.RoleAdmin, true)
	user := env.seedUser(t, "user@example.com", models.RoleUser, true)
	ctx := context.Background()

	doc, err := env.docs.Upload(ctx, admin.ID, pdfUpload("a.pdf", []byte("a")), testMeta)
	require.NoError(t, err)
	require.NoError(t, env.grants.SetAccessForUser(ctx, admin.ID, user.ID, []string{doc.ID}))

	require.NoError(t, env.grants.SetAccessForUser(ctx, admin.ID, user.ID, nil))

	got, err := env.grants.GrantsForUser(ctx, admin.ID, user.ID)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestSetAccessForUser_IdempotentRetry(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin@example.com", models.RoleAdmin, true)
	user := env.seedUser(t, "user@example.com", models.RoleUser, true)
	ctx := context.Background()

	doc, err := env.docs.Upload(ctx, admin.ID, pdfUpload("a.pdf", []byte("a")), testMeta)
	require.NoError(t, err)

	set := []string{doc.ID, doc.ID} // duplicates collapse
	require.NoError(t, env.grants.SetAccessForUser(ctx, admin.ID, user.ID, set))
	require.NoError(t, env.grants.SetAccessForUser(ctx, admin.ID, user.ID, set))

	got, err := env.grants.GrantsForUser(ctx, admin.ID, user.ID)
	require.NoError(t, err)
	require.Equal(t, []string{doc.ID}, got)
}

func TestSetAccessForUser_Rejections(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin@example.com", models.RoleAdmin, true)
	other := env.seedUser(t, "admin2@example.com", models.RoleAdmin, true)
	user := env.seedUser(t, "user@example.com", models.RoleUser, true)
	ctx := context.Background()

	doc, err := env.docs.Upload(ctx, admin.ID, pdfUpload("a.pdf", []byte("a")), testMeta)
	require.NoError(t, err)

	err = env.grants.SetAccessForUser(ctx, user.ID, user.ID, []string{doc.ID})
	require.ErrorIs(t, err, ErrForbidden)

	err = env.grants.SetAccessForUser(ctx, admin.ID, other.ID, []string{doc.ID})
	require.ErrorIs(t, err, ErrValidation)

	err = env.grants.SetAccessForUser(ctx, admin.ID, 9999, []string{doc.ID})
	require.ErrorIs(t, err, ErrNotFound)

	err = env.grants.SetAccessForUser(ctx, admin.ID, user.ID, []string{doc.ID, "no-such-doc"})
	require.ErrorIs(t, err, ErrValidation)

	// none of the rejections may have touched the grant table
	got, err := env.grants.GrantsForUser(ctx, admin.ID, user.ID)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestGrantsForUser_AdminOnly(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "admin@example.com", models.RoleAdmin, true)
	user := env.seedUser(t, "user@example.com", models.RoleUser, true)

	_, err := env.grants.GrantsForUser(context.Background(), user.ID, user.ID)
	require.ErrorIs(t, err, ErrForbidden)
}
