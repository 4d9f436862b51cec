package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer(now time.Time) *Issuer {
	return &Issuer{
		AccessSecret:  []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		Now:           func() time.Time { return now },
	}
}

func TestGenerateTokenPair_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	iss := newTestIssuer(now)

	pair, err := iss.GenerateTokenPair(Subject{ID: 42, Email: "alice@example.com", Roles: []string{"USER", "ADMIN"}})
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	assert.Equal(t, now.Add(15*time.Minute), pair.AccessExp)
	assert.Equal(t, now.Add(7*24*time.Hour), pair.RefreshExp)

	access, err := iss.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "42", access.Subject)
	assert.Equal(t, "alice@example.com", access.Email)
	assert.Equal(t, []string{"USER", "ADMIN"}, access.Roles)
	assert.WithinDuration(t, pair.AccessExp, access.ExpiresAt.Time, time.Second)

	refresh, err := iss.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "42", refresh.Subject)
	assert.WithinDuration(t, pair.RefreshExp, refresh.ExpiresAt.Time, time.Second)
}

func TestGenerateTokenPair_Deterministic(t *testing.T) {
	t.Parallel()

	iss := newTestIssuer(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	s := Subject{ID: 7, Email: "bob@example.com", Roles: []string{"USER"}}

	p1, err := iss.GenerateTokenPair(s)
	require.NoError(t, err)
	p2, err := iss.GenerateTokenPair(s)
	require.NoError(t, err)

	assert.Equal(t, p1, p2)
}

func TestRefreshToken_CannotAuthorizeResources(t *testing.T) {
	t.Parallel()

	iss := newTestIssuer(time.Now())
	// same secret on both sides so only the type claim keeps them apart
	iss.RefreshSecret = iss.AccessSecret

	pair, err := iss.GenerateTokenPair(Subject{ID: 1, Email: "a@b.c", Roles: []string{"USER"}})
	require.NoError(t, err)

	_, err = iss.ParseAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = iss.ParseRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestParse_RejectsForeignSecretAndExpiry(t *testing.T) {
	t.Parallel()

	issued := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	iss := newTestIssuer(issued)
	pair, err := iss.GenerateTokenPair(Subject{ID: 1, Email: "a@b.c", Roles: []string{"USER"}})
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(pair.AccessToken, []byte("other"), jwt.WithTimeFunc(func() time.Time { return issued }))
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	later := newTestIssuer(issued.Add(16 * time.Minute))
	_, err = later.ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	_, err = later.ParseRefresh(pair.RefreshToken)
	assert.NoError(t, err)

	muchLater := newTestIssuer(issued.Add(8 * 24 * time.Hour))
	_, err = muchLater.ParseRefresh(pair.RefreshToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParse_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	claims := AccessClaims{
		Type:             TypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-jwt-secret"))
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(tok, []byte("test-jwt-secret"))
	require.Error(t, err)
}

func TestSubjectID(t *testing.T) {
	t.Parallel()

	id, err := SubjectID("15")
	require.NoError(t, err)
	assert.EqualValues(t, 15, id)

	_, err = SubjectID("abc")
	assert.Error(t, err)
}
