package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_admin/pkg/events"
	"github.com/Skotchmaster/shop_admin/pkg/logging"
	"github.com/Skotchmaster/shop_admin/services/notify/internal/hub"
)

func newTestServer(t *testing.T, origins ...string) (*httptest.Server, *hub.Hub) {
	t.Helper()
	h := hub.New(4, logging.Discard())
	e := echo.New()
	Register(e, &Deps{WS: NewWSHandler(h, origins)})

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv, h
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func TestWS_ReceivesBroadcastEvents(t *testing.T) {
	t.Parallel()
	srv, h := newTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return h.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	h.Broadcast(events.Event{Type: events.TypeOrderStatusChanged, Message: "Order 7 changed to shipped", EntityID: 7, At: at})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got events.Event
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, events.TypeOrderStatusChanged, got.Type)
	assert.Equal(t, "Order 7 changed to shipped", got.Message)
	assert.Equal(t, uint(7), got.EntityID)
	assert.True(t, at.Equal(got.At))
}

func TestWS_DisconnectUnregisters(t *testing.T) {
	t.Parallel()
	srv, h := newTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return h.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return h.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestWS_RejectsUnknownOrigin(t *testing.T) {
	t.Parallel()
	srv, h := newTestServer(t, "http://localhost:5173")

	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv), header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Zero(t, h.Count())

	header.Set("Origin", "http://localhost:5173")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), header)
	require.NoError(t, err)
	_ = conn.Close()
}
