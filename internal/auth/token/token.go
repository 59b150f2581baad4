package token

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt/v5"
	"github.com/smallbiznis/petalbook/internal/clock"
	"github.com/smallbiznis/petalbook/internal/config"
	"go.uber.org/fx"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var (
	ErrInvalidToken = errors.New("token: invalid token")
	ErrWrongType    = errors.New("token: wrong token type")
)

// Claims is the JWT payload carried by both access and refresh tokens. The
// caller's org role is deliberately absent; it is resolved from the user
// record on every request.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	Type  string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// Service signs and verifies the access/refresh token pair. The two token
// kinds use distinct secrets so one can never stand in for the other.
type Service struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	clock         clock.Clock
}

type Params struct {
	fx.In

	Config config.Config
	Clock  clock.Clock
}

func New(p Params) *Service {
	return &Service{
		accessSecret:  []byte(p.Config.JWTAccessSecret),
		refreshSecret: []byte(p.Config.JWTRefreshSecret),
		accessTTL:     p.Config.JWTAccessTTL,
		refreshTTL:    p.Config.JWTRefreshTTL,
		clock:         p.Clock,
	}
}

// GenerateAccessToken issues a short-lived access token for the user.
func (s *Service) GenerateAccessToken(userID snowflake.ID, email, role string) (string, error) {
	now := s.clock.Now()
	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.accessSecret)
}

// GenerateRefreshToken issues a long-lived refresh token for the user.
func (s *Service) GenerateRefreshToken(userID snowflake.ID, email string) (string, error) {
	now := s.clock.Now()
	claims := Claims{
		Email: email,
		Type:  TypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.refreshSecret)
}

// ParseAccessToken verifies signature and expiry of an access token.
func (s *Service) ParseAccessToken(raw string) (*Claims, error) {
	claims, err := s.parse(raw, s.accessSecret)
	if err != nil {
		return nil, err
	}
	if claims.Type == TypeRefresh {
		return nil, ErrWrongType
	}
	return claims, nil
}

// ParseRefreshToken verifies signature and expiry of a refresh token.
func (s *Service) ParseRefreshToken(raw string) (*Claims, error) {
	claims, err := s.parse(raw, s.refreshSecret)
	if err != nil {
		return nil, err
	}
	if claims.Type != TypeRefresh {
		return nil, ErrWrongType
	}
	return claims, nil
}

// RefreshTTL exposes the refresh token lifetime for cookie max-age.
func (s *Service) RefreshTTL() time.Duration {
	return s.refreshTTL
}

func (s *Service) parse(raw string, secret []byte) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	}, jwt.WithTimeFunc(s.clock.Now))
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// UserID parses the subject claim back into a snowflake id.
func (c *Claims) UserID() (snowflake.ID, error) {
	id, err := snowflake.ParseString(c.Subject)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}
	return id, nil
}
