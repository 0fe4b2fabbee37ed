package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/oksasatya/go-cqrs-user-service/pkg/apperrors"
)

// JWTManager issues and verifies the signed, time-bound bearer tokens used
// by the login and refresh flows. Tokens carry subject = user id plus the
// private claims {email, phone}.
type JWTManager struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func NewJWTManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTManager {
	return &JWTManager{
		AccessSecret:  []byte(accessSecret),
		RefreshSecret: []byte(refreshSecret),
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
	}
}

type Claims struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
	jwt.RegisteredClaims
}

func (m *JWTManager) GenerateAccessToken(subject, email, phone string) (string, time.Time, error) {
	return m.generate(subject, email, phone, m.AccessSecret, m.AccessTTL)
}

func (m *JWTManager) GenerateRefreshToken(subject, email, phone string) (string, time.Time, error) {
	return m.generate(subject, email, phone, m.RefreshSecret, m.RefreshTTL)
}

func (m *JWTManager) generate(subject, email, phone string, secret []byte, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(ttl)
	claims := &Claims{
		Email: email,
		Phone: phone,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(secret)
	return s, exp, err
}

// ParseAccessToken verifies an access token. Callers map failures to their
// own error space (the auth middleware answers 401).
func (m *JWTManager) ParseAccessToken(tokenStr string) (*Claims, error) {
	return parseToken(tokenStr, m.AccessSecret)
}

// ParseRefreshToken verifies a refresh token. An expired token and a
// structurally invalid token both come back as forbidden, with distinct
// messages; no other error kind escapes.
func (m *JWTManager) ParseRefreshToken(tokenStr string) (*Claims, error) {
	claims, err := parseToken(tokenStr, m.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.Wrap(apperrors.KindForbidden, "refresh token expired", err)
		}
		return nil, apperrors.Wrap(apperrors.KindForbidden, "refresh token invalid", err)
	}
	return claims, nil
}

func parseToken(tokenStr string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
