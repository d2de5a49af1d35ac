package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/segmentio/ksuid"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenService signs and verifies HS256 tokens carrying email, id and user_type.
type TokenService struct {
	secret []byte
	// ttl of zero issues tokens without an exp claim.
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue mints a token for p.
func (s *TokenService) Issue(p Principal) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"email":     p.Email,
		"id":        p.ID,
		"user_type": string(p.Role),
		"iat":       now.Unix(),
		"jti":       ksuid.New().String(),
	}
	if s.ttl > 0 {
		claims["exp"] = now.Add(s.ttl).Unix()
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry and returns the embedded principal.
func (s *TokenService) Verify(token string) (Principal, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return Principal{}, ErrInvalidToken
	}

	email, _ := claims["email"].(string)
	role, _ := claims["user_type"].(string)
	// numbers decode as float64
	id, ok := claims["id"].(float64)
	if !ok || email == "" {
		return Principal{}, ErrInvalidToken
	}
	switch Role(role) {
	case RoleUser, RoleTradesman:
	default:
		return Principal{}, ErrInvalidToken
	}
	return Principal{ID: int64(id), Email: email, Role: Role(role)}, nil
}
