package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

const refreshCookieName = "refreshToken"

var ErrSessionExpired = errors.New("session expired")

type Client struct {
	baseURL    string
	httpClient *http.Client

	refreshMu sync.Mutex
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type User struct {
	ID        uint     `json:"id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	Roles     []string `json:"roles"`
}

type AuthResponse struct {
	User         *User  `json:"user,omitempty"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	AccessExp    int64  `json:"access_exp"`
	RefreshExp   int64  `json:"refresh_exp"`
}

type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// StatusError carries the server message so callers can show it as is.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Message)
}

func (c *Client) Register(ctx context.Context, s *Session, req RegisterRequest) (*User, error) {
	resp, err := c.authCall(ctx, "/auth/register", req)
	if err != nil {
		return nil, err
	}
	s.authenticate(resp)
	return resp.User, nil
}

func (c *Client) Login(ctx context.Context, s *Session, email, password string) (*User, error) {
	resp, err := c.authCall(ctx, "/auth/login", map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}
	s.authenticate(resp)
	return resp.User, nil
}

// Init refreshes once when only a refresh token is held. Failure leaves the session Anonymous.
func (c *Client) Init(ctx context.Context, s *Session) error {
	if s.AccessToken() != "" || s.RefreshToken() == "" {
		return nil
	}
	return c.refresh(ctx, s, "")
}

// Refresh exchanges the refresh token for a new pair. Any failure clears the session.
func (c *Client) Refresh(ctx context.Context, s *Session) error {
	return c.refresh(ctx, s, "")
}

// Logout always ends Anonymous; the server keeps no session to invalidate.
func (c *Client) Logout(ctx context.Context, s *Session) error {
	defer s.Clear()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/logout", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Do sends an authenticated request. On 401 it refreshes once and retries once;
// a failed refresh or a second 401 clears the session and returns ErrSessionExpired.
func (c *Client) Do(ctx context.Context, s *Session, method, path string, body any) (*http.Response, error) {
	payload, err := encode(body)
	if err != nil {
		return nil, err
	}

	used := s.AccessToken()
	resp, err := c.send(ctx, method, path, payload, used)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	drain(resp)

	if err := c.refresh(ctx, s, used); err != nil {
		return nil, err
	}

	resp, err = c.send(ctx, method, path, payload, s.AccessToken())
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		drain(resp)
		s.Clear()
		return nil, ErrSessionExpired
	}
	return resp, nil
}

// DoJSON is Do plus decoding of a 2xx body into out.
func (c *Client) DoJSON(ctx context.Context, s *Session, method, path string, in, out any) error {
	resp, err := c.Do(ctx, s, method, path, in)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// refresh skips the network call when another caller already replaced the token that failed.
func (c *Client) refresh(ctx context.Context, s *Session, failed string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if failed != "" && s.AccessToken() != failed && s.State() == Authenticated {
		return nil
	}

	rt := s.RefreshToken()
	if rt == "" {
		s.Clear()
		return ErrSessionExpired
	}
	s.beginRefresh()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/refresh", nil)
	if err != nil {
		s.Clear()
		return fmt.Errorf("create request: %w", err)
	}
	req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: rt})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		s.Clear()
		return fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.Clear()
		return fmt.Errorf("%w: refresh failed with status %d", ErrSessionExpired, resp.StatusCode)
	}

	var result AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		s.Clear()
		return fmt.Errorf("%w: decode response: %v", ErrSessionExpired, err)
	}
	if result.RefreshToken == "" {
		result.RefreshToken = cookieValue(resp, refreshCookieName)
	}
	s.authenticate(&result)
	return nil
}

func (c *Client) authCall(ctx context.Context, path string, body any) (*AuthResponse, error) {
	payload, err := encode(body)
	if err != nil {
		return nil, err
	}
	resp, err := c.send(ctx, http.MethodPost, path, payload, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, statusError(resp)
	}

	var result AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if result.RefreshToken == "" {
		result.RefreshToken = cookieValue(resp, refreshCookieName)
	}
	return &result, nil
}

// send never attaches the refresh token.
func (c *Client) send(ctx context.Context, method, path string, payload []byte, accessToken string) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	return resp, nil
}

func encode(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	return b, nil
}

func statusError(resp *http.Response) error {
	var body struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body.Message == "" {
		body.Message = http.StatusText(resp.StatusCode)
	}
	return &StatusError{Code: resp.StatusCode, Message: body.Message}
}

func cookieValue(resp *http.Response, name string) string {
	for _, ck := range resp.Cookies() {
		if ck.Name == name {
			return ck.Value
		}
	}
	return ""
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
