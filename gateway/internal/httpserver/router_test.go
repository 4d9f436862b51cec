package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_admin/pkg/logging"
	"github.com/Skotchmaster/shop_admin/pkg/middleware/ratelimit"
	"github.com/Skotchmaster/shop_admin/pkg/models"
	"github.com/Skotchmaster/shop_admin/pkg/testutil"
	"github.com/Skotchmaster/shop_admin/pkg/tokens"
)

type seen struct {
	Upstream string `json:"upstream"`
	Path     string `json:"path"`
	Query    string `json:"query"`
	Auth     string `json:"auth"`
}

// upstream answers with what it received.
func upstream(t *testing.T, name string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(seen{
			Upstream: name,
			Path:     r.URL.Path,
			Query:    r.URL.RawQuery,
			Auth:     r.Header.Get("Authorization"),
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newGateway(t *testing.T, limiter *ratelimit.Limiter) *echo.Echo {
	t.Helper()
	e := echo.New()
	err := Register(e, &Deps{
		Upstreams: Upstreams{
			Auth:    upstream(t, "auth").URL,
			Catalog: upstream(t, "catalog").URL,
			Order:   upstream(t, "order").URL,
			Report:  upstream(t, "report").URL,
		},
		AccessSecret: testutil.AccessSecret,
		AuthLimiter:  limiter,
		Log:          logging.Discard(),
	})
	require.NoError(t, err)
	return e
}

func send(e *echo.Echo, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeSeen(t *testing.T, rec *httptest.ResponseRecorder) seen {
	t.Helper()
	var s seen
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s), rec.Body.String())
	return s
}

func TestRouting_StripsPrefixPerUpstream(t *testing.T) {
	t.Parallel()
	e := newGateway(t, nil)
	token := testutil.AccessToken(t, 1, models.RoleUser, models.RoleAdmin)

	tests := []struct {
		path     string
		upstream string
		want     string
	}{
		{"/api/v1/users/me", "auth", "/users/me"},
		{"/api/v1/catalog/products?page=2", "catalog", "/catalog/products"},
		{"/api/v1/orders", "order", "/orders"},
		{"/api/v1/orders/7/status", "order", "/orders/7/status"},
		{"/api/v1/reports/sales?start_date=2025-01-01", "report", "/reports/sales"},
	}
	for _, tc := range tests {
		rec := send(e, http.MethodGet, tc.path, token)
		require.Equal(t, http.StatusOK, rec.Code, tc.path)
		s := decodeSeen(t, rec)
		assert.Equal(t, tc.upstream, s.Upstream, tc.path)
		assert.Equal(t, tc.want, s.Path, tc.path)
		assert.Equal(t, "Bearer "+token, s.Auth, "bearer forwarded for %s", tc.path)
	}

	s := decodeSeen(t, send(e, http.MethodGet, "/api/v1/catalog/products?page=2", token))
	assert.Equal(t, "page=2", s.Query)
}

func TestJWT_ProtectsEverythingButAuth(t *testing.T) {
	t.Parallel()
	e := newGateway(t, nil)

	rec := send(e, http.MethodPost, "/api/v1/auth/login", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/auth/login", decodeSeen(t, rec).Path)

	assert.Equal(t, http.StatusUnauthorized, send(e, http.MethodGet, "/api/v1/orders", "").Code)
	assert.Equal(t, http.StatusUnauthorized, send(e, http.MethodGet, "/api/v1/users/me", "garbage").Code)

	issuer := &tokens.Issuer{AccessSecret: testutil.AccessSecret, RefreshSecret: testutil.AccessSecret}
	pair, err := issuer.GenerateTokenPair(tokens.Subject{ID: 3, Email: "a@b.c", Roles: []string{models.RoleUser}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, send(e, http.MethodGet, "/api/v1/orders", pair.RefreshToken).Code,
		"refresh tokens are not access tokens")
	assert.Equal(t, http.StatusOK, send(e, http.MethodGet, "/api/v1/orders", pair.AccessToken).Code)
}

func TestRateLimit_AppliesToCredentialEndpointsOnly(t *testing.T) {
	t.Parallel()
	e := newGateway(t, ratelimit.PerMinute(2))

	assert.Equal(t, http.StatusOK, send(e, http.MethodPost, "/api/v1/auth/login", "").Code)
	assert.Equal(t, http.StatusOK, send(e, http.MethodPost, "/api/v1/auth/register", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, send(e, http.MethodPost, "/api/v1/auth/refresh", "").Code)

	assert.Equal(t, http.StatusOK, send(e, http.MethodPost, "/api/v1/auth/logout", "").Code)
	token := testutil.AccessToken(t, 1, models.RoleUser)
	assert.Equal(t, http.StatusOK, send(e, http.MethodGet, "/api/v1/orders", token).Code)
}

func TestUpstreamDown_Returns502(t *testing.T) {
	t.Parallel()
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	e := echo.New()
	require.NoError(t, Register(e, &Deps{
		Upstreams:    Upstreams{Auth: deadURL, Catalog: deadURL, Order: deadURL, Report: deadURL},
		AccessSecret: testutil.AccessSecret,
		Log:          logging.Discard(),
	}))

	rec := send(e, http.MethodPost, "/api/v1/auth/login", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestWebsocket_ProxiedWithoutToken(t *testing.T) {
	t.Parallel()

	upgrader := websocket.Upgrader{}
	notify := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws" {
			http.NotFound(w, r)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"productCreated"}`))
	}))
	t.Cleanup(notify.Close)

	e := echo.New()
	require.NoError(t, Register(e, &Deps{
		Upstreams: Upstreams{
			Auth: notify.URL, Catalog: notify.URL, Order: notify.URL, Report: notify.URL,
			Notify: notify.URL,
		},
		AccessSecret: testutil.AccessSecret,
		Log:          logging.Discard(),
	}))
	gw := httptest.NewServer(e)
	t.Cleanup(gw.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(gw.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"productCreated"}`, string(msg))
}
