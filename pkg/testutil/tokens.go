package testutil

import (
	"testing"

	"github.com/Skotchmaster/shop_admin/pkg/tokens"
)

var AccessSecret = []byte("test-access-secret")

// AccessToken signs an access token for user id with the given roles using AccessSecret.
func AccessToken(t testing.TB, id uint, roles ...string) string {
	t.Helper()
	issuer := &tokens.Issuer{AccessSecret: AccessSecret, RefreshSecret: []byte("test-refresh-secret")}
	pair, err := issuer.GenerateTokenPair(tokens.Subject{ID: id, Email: "user@example.com", Roles: roles})
	if err != nil {
		t.Fatalf("sign access token: %v", err)
	}
	return pair.AccessToken
}
