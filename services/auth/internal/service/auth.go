package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"gorm.io/gorm"

	pkghash "github.com/Skotchmaster/shop_admin/pkg/hash"
	"github.com/Skotchmaster/shop_admin/pkg/logging"
	"github.com/Skotchmaster/shop_admin/pkg/metrics"
	"github.com/Skotchmaster/shop_admin/pkg/models"
	"github.com/Skotchmaster/shop_admin/pkg/tokens"
	"github.com/Skotchmaster/shop_admin/pkg/validate"
	"github.com/Skotchmaster/shop_admin/services/auth/internal/transport"
)

var (
	ErrValidation            = errors.New("validation")
	ErrNotFound              = errors.New("not found")
	ErrDuplicateEmail        = errors.New("email is already taken")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired refresh token")
)

type UserRepository interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, u *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id uint) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateRoles(ctx context.Context, id uint, roles []string) (*models.User, error)
	DeleteUser(ctx context.Context, id uint) error
}

type AuthService struct {
	Repo   UserRepository
	Tokens *tokens.Issuer

	// Hash and Compare default to bcrypt.
	Hash    func(password string) (string, error)
	Compare func(hash, password string) bool

	dummyOnce sync.Once
	dummyHash string
}

type AuthResult struct {
	User   *models.User
	Tokens *tokens.Pair
}

func (s *AuthService) hash(password string) (string, error) {
	if s.Hash != nil {
		return s.Hash(password)
	}
	return pkghash.HashPassword(password)
}

func (s *AuthService) compare(hash, password string) bool {
	if s.Compare != nil {
		return s.Compare(hash, password)
	}
	return pkghash.CheckPassword(hash, password)
}

// dummy is compared against when the email is unknown so both login failures cost one hash comparison.
func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.hash("dummy-password-for-timing")
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user with roles {USER} or {USER, ADMIN}. The email check runs before any hashing;
// the unique index on users.email settles concurrent registrations.
func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest, isAdmin bool) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	req.Email = normalizeEmail(req.Email)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if err := validate.Struct(req); err != nil {
		metrics.AuthEvent("register", false)
		return nil, fmt.Errorf("%w: %s", ErrValidation, validate.Describe(err))
	}

	exists, err := s.Repo.EmailExists(ctx, req.Email)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot check email", "error", err)
		return nil, err
	}
	if exists {
		l.Warn("register_error", "status", 409, "reason", "email already taken")
		metrics.AuthEvent("register", false)
		return nil, ErrDuplicateEmail
	}

	pwHash, err := s.hash(req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	roles := []string{models.RoleUser}
	if isAdmin {
		roles = append(roles, models.RoleAdmin)
	}

	user := &models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: pwHash,
		Roles:        roles,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			l.Warn("register_error", "status", 409, "reason", "email taken by concurrent registration")
			metrics.AuthEvent("register", false)
			return nil, ErrDuplicateEmail
		}
		l.Error("register_error", "status", 500, "reason", "cannot create user", "error", err)
		return nil, err
	}

	pair, err := s.issue(user)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot sign tokens", "error", err)
		return nil, err
	}

	metrics.AuthEvent("register", true)
	l.Info("register_success", "user_id", user.ID)
	return &AuthResult{User: user, Tokens: pair}, nil
}

// Login fails with ErrInvalidCredentials for an unknown email and for a wrong password alike.
func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if err := validate.Struct(req); err != nil {
		metrics.AuthEvent("login", false)
		return nil, ErrInvalidCredentials
	}

	user, err := s.Repo.FindUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		l.Error("login_error", "status", 500, "error", err)
		return nil, err
	}

	if user == nil {
		s.compare(s.dummy(), req.Password)
		l.Warn("login_failed", "status", 401, "reason", "invalid credentials")
		metrics.AuthEvent("login", false)
		return nil, ErrInvalidCredentials
	}
	if !s.compare(user.PasswordHash, req.Password) {
		l.Warn("login_failed", "status", 401, "reason", "invalid credentials")
		metrics.AuthEvent("login", false)
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issue(user)
	if err != nil {
		l.Error("login_error", "status", 500, "reason", "cannot sign tokens", "error", err)
		return nil, err
	}

	metrics.AuthEvent("login", true)
	l.Info("login_success", "user_id", user.ID)
	return &AuthResult{User: user, Tokens: pair}, nil
}

// Refresh rotates the pair. The subject must still exist.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := s.Tokens.ParseRefresh(refreshToken)
	if err != nil {
		l.Warn("refresh_failed", "status", 401, "reason", "token does not verify", "error", err)
		metrics.AuthEvent("refresh", false)
		return nil, ErrInvalidOrExpiredToken
	}

	id, err := tokens.SubjectID(claims.Subject)
	if err != nil {
		l.Warn("refresh_failed", "status", 401, "reason", "bad subject", "error", err)
		metrics.AuthEvent("refresh", false)
		return nil, ErrInvalidOrExpiredToken
	}

	user, err := s.Repo.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("refresh_failed", "status", 401, "reason", "subject no longer exists", "user_id", id)
			metrics.AuthEvent("refresh", false)
			return nil, ErrInvalidOrExpiredToken
		}
		l.Error("refresh_error", "status", 500, "error", err)
		return nil, err
	}

	pair, err := s.issue(user)
	if err != nil {
		l.Error("refresh_error", "status", 500, "reason", "cannot sign tokens", "error", err)
		return nil, err
	}

	metrics.AuthEvent("refresh", true)
	return &AuthResult{User: user, Tokens: pair}, nil
}

func (s *AuthService) issue(u *models.User) (*tokens.Pair, error) {
	return s.Tokens.GenerateTokenPair(tokens.Subject{
		ID:    u.ID,
		Email: u.Email,
		Roles: u.Roles,
	})
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: id must be a positive integer", ErrValidation)
	}
	return uint(id), nil
}
