package httpserver

import (
	"log/slog"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

const APIPrefix = "/api/v1"

var transport = &http.Transport{
	Proxy: http.ProxyFromEnvironment,
	DialContext: (&net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 60 * time.Second,
	}).DialContext,
	MaxIdleConns:          200,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: time.Second,
}

func stripAPIPrefix(u *url.URL) {
	if !strings.HasPrefix(u.Path, APIPrefix) {
		return
	}
	u.Path = strings.TrimPrefix(u.Path, APIPrefix)
	if u.RawPath != "" {
		u.RawPath = strings.TrimPrefix(u.RawPath, APIPrefix)
	}
}

// NewProxy forwards to target with the API prefix removed. Upgrade requests pass through.
func NewProxy(name, target string, log *slog.Logger) (echo.HandlerFunc, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, err
	}

	p := &httputil.ReverseProxy{
		Transport:     transport,
		FlushInterval: 100 * time.Millisecond,
		Rewrite: func(r *httputil.ProxyRequest) {
			stripAPIPrefix(r.Out.URL)
			r.SetURL(u)
			r.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Error("upstream_failed", "upstream", name, "path", r.URL.Path, "status", 502, "error", err)
			w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"message":"upstream unavailable"}`))
		},
	}

	return func(c echo.Context) error {
		if rid := c.Response().Header().Get(echo.HeaderXRequestID); rid != "" {
			c.Request().Header.Set(echo.HeaderXRequestID, rid)
		}
		p.ServeHTTP(c.Response(), c.Request())
		return nil
	}, nil
}
