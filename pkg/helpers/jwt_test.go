package helpers_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-cqrs-user-service/pkg/apperrors"
	"github.com/oksasatya/go-cqrs-user-service/pkg/helpers"
)

func manager() *helpers.JWTManager {
	return helpers.NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := manager()
	token, exp, err := m.GenerateAccessToken("u1", "a@example.com", "+628100")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.True(t, exp.After(time.Now()))

	claims, err := m.ParseAccessToken(token)
	require.NoError(t, err)
	require.Equal(t, "u1", claims.Subject)
	require.Equal(t, "a@example.com", claims.Email)
	require.Equal(t, "+628100", claims.Phone)
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, _, err := manager().GenerateAccessToken("u1", "a@example.com", "")
	require.NoError(t, err)

	other := helpers.NewJWTManager("different", "refresh-secret", time.Minute, time.Hour)
	_, err = other.ParseAccessToken(token)
	require.Error(t, err)
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	m := manager()
	refresh, _, err := m.GenerateRefreshToken("u1", "a@example.com", "")
	require.NoError(t, err)
	_, err = m.ParseAccessToken(refresh)
	require.Error(t, err, "a refresh token must not pass access validation")
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	m := manager()
	token, _, err := m.GenerateRefreshToken("u1", "a@example.com", "+628100")
	require.NoError(t, err)

	claims, err := m.ParseRefreshToken(token)
	require.NoError(t, err)
	require.Equal(t, "u1", claims.Subject)
}

func TestRefreshTokenExpired(t *testing.T) {
	m := helpers.NewJWTManager("access-secret", "refresh-secret", time.Minute, -time.Minute)
	token, _, err := m.GenerateRefreshToken("u1", "a@example.com", "")
	require.NoError(t, err)

	_, err = m.ParseRefreshToken(token)
	require.Error(t, err)
	require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
	require.Contains(t, err.Error(), "refresh token expired")
}

func TestRefreshTokenMalformed(t *testing.T) {
	_, err := manager().ParseRefreshToken("not-a-token")
	require.Error(t, err)
	require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
	require.Contains(t, err.Error(), "refresh token invalid")
}
