package authclient

import "sync"

type State int

const (
	Anonymous State = iota
	Authenticated
	Refreshing
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Refreshing:
		return "refreshing"
	default:
		return "anonymous"
	}
}

// Session is the client-held identity: the short-lived access token, the refresh token and the current user.
// It is passed explicitly to every Client call.
type Session struct {
	mu           sync.Mutex
	state        State
	accessToken  string
	refreshToken string
	user         *User
}

func NewSession() *Session {
	return &Session{}
}

// Restore seeds a session from a persisted refresh token, e.g. a cookie kept across restarts.
func Restore(refreshToken string) *Session {
	return &Session{refreshToken: refreshToken}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

func (s *Session) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshToken
}

func (s *Session) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Session) authenticate(resp *AuthResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Authenticated
	s.accessToken = resp.AccessToken
	if resp.RefreshToken != "" {
		s.refreshToken = resp.RefreshToken
	}
	if resp.User != nil {
		s.user = resp.User
	}
}

func (s *Session) beginRefresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Refreshing
}

// Clear drops every token and returns the session to Anonymous.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Anonymous
	s.accessToken = ""
	s.refreshToken = ""
	s.user = nil
}
