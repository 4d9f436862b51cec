package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_admin/pkg/logging"
)

func TestCommon_AddsCORSOnlyWithOrigins(t *testing.T) {
	t.Parallel()
	assert.Len(t, Common("svc", logging.Discard(), nil), 5)
	assert.Len(t, Common("svc", logging.Discard(), []string{"http://localhost:5173"}), 6)
}

func TestNew_CORSPreflightAllowsCredentials(t *testing.T) {
	t.Parallel()
	e := New("svc", logging.Discard(), []string{"http://localhost:5173"})
	e.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:5173")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodGet)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "true", rec.Header().Get(echo.HeaderAccessControlAllowCredentials))
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestRun_StopsWhenContextEndsAndRunsCleanup(t *testing.T) {
	t.Parallel()
	e := New("svc", logging.Discard(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cleaned := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, e, "127.0.0.1:0", logging.Discard(), func() { close(cleaned) })
	}()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	select {
	case <-cleaned:
	default:
		t.Fatal("cleanup not called")
	}
}
