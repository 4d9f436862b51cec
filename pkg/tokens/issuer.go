package tokens

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

type Issuer struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Now           func() time.Time
}

type Pair struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

type Subject struct {
	ID    uint
	Email string
	Roles []string
}

func (i *Issuer) now() time.Time {
	if i.Now != nil {
		return i.Now().UTC()
	}
	return time.Now().UTC()
}

func (i *Issuer) accessTTL() time.Duration {
	if i.AccessTTL > 0 {
		return i.AccessTTL
	}
	return DefaultAccessTTL
}

func (i *Issuer) refreshTTL() time.Duration {
	if i.RefreshTTL > 0 {
		return i.RefreshTTL
	}
	return DefaultRefreshTTL
}

// GenerateTokenPair is deterministic for a given subject, clock reading and configuration.
func (i *Issuer) GenerateTokenPair(s Subject) (*Pair, error) {
	now := i.now().Truncate(time.Second)
	sub := strconv.FormatUint(uint64(s.ID), 10)
	accessExp := now.Add(i.accessTTL())
	refreshExp := now.Add(i.refreshTTL())

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		Email: s.Email,
		Roles: s.Roles,
		Type:  TypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(accessExp),
		},
	}).SignedString(i.AccessSecret)
	if err != nil {
		return nil, err
	}

	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, RefreshClaims{
		Type: TypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(refreshExp),
		},
	}).SignedString(i.RefreshSecret)
	if err != nil {
		return nil, err
	}

	return &Pair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

func (i *Issuer) ParseAccess(tokenStr string) (*AccessClaims, error) {
	return AccessClaimsFromToken(tokenStr, i.AccessSecret, jwt.WithTimeFunc(i.now))
}

func (i *Issuer) ParseRefresh(tokenStr string) (*RefreshClaims, error) {
	return RefreshClaimsFromToken(tokenStr, i.RefreshSecret, jwt.WithTimeFunc(i.now))
}

func SubjectID(sub string) (uint, error) {
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
