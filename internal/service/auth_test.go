package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/hash"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/models"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/repo"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/tokens"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.RefreshToken{}))

	return &AuthService{
		Repo:          repo.New(db),
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}
}

func TestRegister_FirstUserIsAdmin(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, "Alice", "a@x.com", "pw123", "")
	require.NoError(t, err)

	assert.Equal(t, models.RoleAdmin, res.User.Role)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	assert.NotEqual(t, "pw123", res.User.PasswordHash)

	second, err := svc.Register(ctx, "Bob", "b@x.com", "pw456", "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleClient, second.User.Role)
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		role     models.Role
	}{
		{name: "missing name", userName: "", email: "a@x.com", password: "pw"},
		{name: "missing email", userName: "Alice", email: "", password: "pw"},
		{name: "missing password", userName: "Alice", email: "a@x.com", password: ""},
		{name: "unknown role", userName: "Alice", email: "a@x.com", password: "pw", role: "superuser"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := svc.Register(ctx, tt.userName, tt.email, tt.password, tt.role)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "a@x.com", "pw123", "")
	require.NoError(t, err)

	res, err := svc.Register(ctx, "Other Alice", "a@x.com", "pw456", "")
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrUserExists)

	count, err := svc.Repo.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRegister_RollsBackAsOneTransaction(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := svc.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		if err := tx.CreateUser(ctx, &models.User{
			Name: "Ghost", Email: "g@x.com", PasswordHash: "x", Role: models.RoleClient,
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	count, err := svc.Repo.CountUsers(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestLoginDummyHashIsRealBcrypt(t *testing.T) {
	t.Parallel()

	// The unknown-email branch must pay for a genuine compare, so the
	// hash it compares against has to be well formed.
	assert.True(t, hash.CheckPassword(dummyPasswordHash, "not-a-real-password"))
	assert.False(t, hash.CheckPassword(dummyPasswordHash, "anything else"))
}

func TestLogin(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "a@x.com", "pw123", "")
	require.NoError(t, err)

	res, err := svc.Login(ctx, "a@x.com", "pw123")
	require.NoError(t, err)
	assert.Equal(t, "Alice", res.User.Name)
	assert.Equal(t, models.RoleAdmin, res.User.Role)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)

	_, err = svc.Login(ctx, "a@x.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NotErrorIs(t, err, ErrValidation)

	_, err = svc.Login(ctx, "nobody@x.com", "pw123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCurrentUser(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, "Alice", "a@x.com", "pw123", "")
	require.NoError(t, err)

	user, err := svc.CurrentUser(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)

	_, err = svc.CurrentUser(ctx, "")
	assert.ErrorIs(t, err, ErrNoToken)

	_, err = svc.CurrentUser(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := tokens.SignAccess(res.User.ID, string(res.User.Role), svc.JWTSecret, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	_, err = svc.CurrentUser(ctx, expired)
	assert.ErrorIs(t, err, ErrTokenExpired)

	// Refresh token presented as an access token.
	_, err = svc.CurrentUser(ctx, res.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCurrentUser_UserVanished(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, "Alice", "a@x.com", "pw123", "")
	require.NoError(t, err)

	require.NoError(t, svc.Repo.DB.Delete(&models.User{}, res.User.ID).Error)

	_, err = svc.CurrentUser(ctx, res.AccessToken)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRefresh_IssuesOnlyAccessToken(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, "Alice", "a@x.com", "pw123", "")
	require.NoError(t, err)

	access, exp, err := svc.Refresh(ctx, res.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	assert.WithinDuration(t, time.Now().Add(tokens.AccessTTL), exp, 2*time.Second)

	claims, err := tokens.ParseAccess(access, svc.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, tokens.Subject(res.User.ID), claims.Subject)

	// Same refresh token stays usable: no rotation.
	again, _, err := svc.Refresh(ctx, res.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, again)
}

func TestRefresh_Failures(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, "Alice", "a@x.com", "pw123", "")
	require.NoError(t, err)

	_, _, err = svc.Refresh(ctx, "")
	assert.ErrorIs(t, err, ErrNoRefreshToken)

	_, _, err = svc.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	// Access token in the refresh slot: signed with the wrong secret.
	_, _, err = svc.Refresh(ctx, res.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	// Well-signed but never allow-listed.
	orphan, err := tokens.SignRefresh(res.User.ID, svc.RefreshSecret, time.Now().Add(tokens.RefreshTTL))
	require.NoError(t, err)
	_, _, err = svc.Refresh(ctx, orphan)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	expired, err := tokens.SignRefresh(res.User.ID, svc.RefreshSecret, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	_, _, err = svc.Refresh(ctx, expired)
	assert.ErrorIs(t, err, ErrRefreshExpired)
}

func TestLogOut_RevokesRefreshToken(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, "Alice", "a@x.com", "pw123", "")
	require.NoError(t, err)

	require.NoError(t, svc.LogOut(ctx, res.RefreshToken))

	_, _, err = svc.Refresh(ctx, res.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestLogOut_EmptyToken_NoError(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	require.NoError(t, svc.LogOut(context.Background(), ""))
}
