package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	pkghash "github.com/Skotchmaster/shop_admin/pkg/hash"
	"github.com/Skotchmaster/shop_admin/pkg/models"
	"github.com/Skotchmaster/shop_admin/pkg/testutil"
	"github.com/Skotchmaster/shop_admin/pkg/tokens"
	"github.com/Skotchmaster/shop_admin/services/auth/internal/repo"
	"github.com/Skotchmaster/shop_admin/services/auth/internal/transport"
)

type testEnv struct {
	svc      *AuthService
	issuer   *tokens.Issuer
	hashes   *atomic.Int32
	compares *atomic.Int32
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	hashes := &atomic.Int32{}
	compares := &atomic.Int32{}
	issuer := &tokens.Issuer{
		AccessSecret:  []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}

	return &testEnv{
		svc: &AuthService{
			Repo:   &repo.GormRepo{DB: testutil.NewDB(t)},
			Tokens: issuer,
			Hash: func(pw string) (string, error) {
				hashes.Add(1)
				return pkghash.HashPasswordCost(pw, bcrypt.MinCost)
			},
			Compare: func(hash, pw string) bool {
				compares.Add(1)
				return pkghash.CheckPassword(hash, pw)
			},
		},
		issuer:   issuer,
		hashes:   hashes,
		compares: compares,
	}
}

func registerReq(email string) transport.RegisterRequest {
	return transport.RegisterRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     email,
		Password:  "secret",
	}
}

func TestAuthService_Register_IssuesPairForNewUser(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	res, err := env.svc.Register(context.Background(), registerReq("  Ada@Example.com "), false)
	require.NoError(t, err)

	assert.NotZero(t, res.User.ID)
	assert.Equal(t, "ada@example.com", res.User.Email)
	assert.Equal(t, models.RoleList{models.RoleUser}, res.User.Roles)
	assert.NotEqual(t, "secret", res.User.PasswordHash)

	claims, err := env.issuer.ParseAccess(res.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, []string{models.RoleUser}, claims.Roles)

	refresh, err := env.issuer.ParseRefresh(res.Tokens.RefreshToken)
	require.NoError(t, err)
	id, err := tokens.SubjectID(refresh.Subject)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, id)
}

func TestAuthService_Register_AdminGetsBothRoles(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	res, err := env.svc.Register(context.Background(), registerReq("boss@example.com"), true)
	require.NoError(t, err)
	assert.True(t, res.User.HasRole(models.RoleUser))
	assert.True(t, res.User.HasRole(models.RoleAdmin))
}

func TestAuthService_Register_DuplicateEmailSkipsHashing(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Register(ctx, registerReq("dup@example.com"), false)
	require.NoError(t, err)
	require.EqualValues(t, 1, env.hashes.Load())

	_, err = env.svc.Register(ctx, registerReq("DUP@example.com"), false)
	require.ErrorIs(t, err, ErrDuplicateEmail)
	assert.EqualValues(t, 1, env.hashes.Load())
}

func TestAuthService_Register_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  transport.RegisterRequest
	}{
		{"bad email", transport.RegisterRequest{FirstName: "a", LastName: "b", Email: "not-an-email", Password: "secret"}},
		{"short password", transport.RegisterRequest{FirstName: "a", LastName: "b", Email: "a@b.io", Password: "abc"}},
		{"blank first name", transport.RegisterRequest{FirstName: "   ", LastName: "b", Email: "a@b.io", Password: "secret"}},
		{"missing last name", transport.RegisterRequest{FirstName: "a", Email: "a@b.io", Password: "secret"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t)

			_, err := env.svc.Register(context.Background(), tt.req, false)
			require.ErrorIs(t, err, ErrValidation)
			assert.Zero(t, env.hashes.Load())
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	reg, err := env.svc.Register(ctx, registerReq("login@example.com"), false)
	require.NoError(t, err)

	res, err := env.svc.Login(ctx, transport.LoginRequest{Email: "Login@Example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, res.User.ID)
	assert.NotEmpty(t, res.Tokens.AccessToken)
	assert.NotEmpty(t, res.Tokens.RefreshToken)
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Register(ctx, registerReq("known@example.com"), false)
	require.NoError(t, err)

	before := env.compares.Load()
	_, wrongPw := env.svc.Login(ctx, transport.LoginRequest{Email: "known@example.com", Password: "nope"})
	afterWrong := env.compares.Load()
	_, unknown := env.svc.Login(ctx, transport.LoginRequest{Email: "ghost@example.com", Password: "nope"})
	afterUnknown := env.compares.Load()

	require.ErrorIs(t, wrongPw, ErrInvalidCredentials)
	require.ErrorIs(t, unknown, ErrInvalidCredentials)
	assert.Equal(t, wrongPw.Error(), unknown.Error())
	assert.EqualValues(t, 1, afterWrong-before)
	assert.EqualValues(t, 1, afterUnknown-afterWrong)
}

func TestAuthService_Refresh(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	reg, err := env.svc.Register(ctx, registerReq("refresh@example.com"), false)
	require.NoError(t, err)

	res, err := env.svc.Refresh(ctx, reg.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, res.User.ID)
	assert.NotEmpty(t, res.Tokens.AccessToken)
}

func TestAuthService_Refresh_Rejects(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	reg, err := env.svc.Register(ctx, registerReq("rej@example.com"), false)
	require.NoError(t, err)

	expired := &tokens.Issuer{
		AccessSecret:  env.issuer.AccessSecret,
		RefreshSecret: env.issuer.RefreshSecret,
		Now:           func() time.Time { return time.Now().Add(-30 * 24 * time.Hour) },
	}
	old, err := expired.GenerateTokenPair(tokens.Subject{ID: reg.User.ID, Email: reg.User.Email})
	require.NoError(t, err)

	ghost, err := env.issuer.GenerateTokenPair(tokens.Subject{ID: reg.User.ID + 100, Email: "ghost@example.com"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-jwt"},
		{"access token used as refresh", reg.Tokens.AccessToken},
		{"expired", old.RefreshToken},
		{"deleted subject", ghost.RefreshToken},
	}

	for _, tt := range tests {
		_, err := env.svc.Refresh(ctx, tt.token)
		assert.ErrorIs(t, err, ErrInvalidOrExpiredToken, tt.name)
	}
}

func TestAuthService_UserAdministration(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	a, err := env.svc.Register(ctx, registerReq("a@example.com"), false)
	require.NoError(t, err)
	b, err := env.svc.Register(ctx, registerReq("b@example.com"), false)
	require.NoError(t, err)

	users, err := env.svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, a.User.ID, users[0].ID)

	updated, err := env.svc.UpdateRoles(ctx, b.User.ID, transport.UpdateRolesRequest{Roles: []string{"USER", "ADMIN", "ADMIN"}})
	require.NoError(t, err)
	assert.Equal(t, models.RoleList{"USER", "ADMIN"}, updated.Roles)

	got, err := env.svc.GetUser(ctx, b.User.ID)
	require.NoError(t, err)
	assert.True(t, got.HasRole(models.RoleAdmin))

	_, err = env.svc.UpdateRoles(ctx, b.User.ID, transport.UpdateRolesRequest{Roles: []string{"ROOT"}})
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, env.svc.DeleteUser(ctx, a.User.ID))
	assert.ErrorIs(t, env.svc.DeleteUser(ctx, a.User.ID), ErrNotFound)

	_, err = env.svc.Me(ctx, a.User.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.svc.GetUserByParam(ctx, "abc")
	assert.ErrorIs(t, err, ErrValidation)
}
