package jwtservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapters "thinkboard/internal/notes/adapters/services"
	"thinkboard/internal/notes/ports/services"
	"thinkboard/pkg/logger"
)

const testSecret = "test-secret-key"

func signToken(t *testing.T, secret, userID string, expiresAt time.Time) string {
	t.Helper()

	claims := adapters.Claims{
		UserID:   userID,
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestValidateAccessToken(t *testing.T) {
	testLogger, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)
	ctx := logger.NewContext(context.Background(), testLogger)

	service := adapters.NewJWT(testSecret)

	t.Run("valid token", func(t *testing.T) {
		token := signToken(t, testSecret, "user-1", time.Now().Add(time.Hour))

		userID, err := service.ValidateAccessToken(ctx, token)

		require.NoError(t, err)
		assert.Equal(t, "user-1", userID)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, testSecret, "user-1", time.Now().Add(-time.Hour))

		userID, err := service.ValidateAccessToken(ctx, token)

		assert.Empty(t, userID)
		require.ErrorIs(t, err, services.ErrExpiredJWTToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, "another-secret", "user-1", time.Now().Add(time.Hour))

		_, err := service.ValidateAccessToken(ctx, token)

		require.ErrorIs(t, err, services.ErrInvalidJWTToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := service.ValidateAccessToken(ctx, "not.a.token")

		require.ErrorIs(t, err, services.ErrInvalidJWTToken)
	})

	t.Run("missing user_id claim", func(t *testing.T) {
		token := signToken(t, testSecret, "", time.Now().Add(time.Hour))

		_, err := service.ValidateAccessToken(ctx, token)

		require.ErrorIs(t, err, services.ErrInvalidJWTToken)
	})

	t.Run("unexpected signing algorithm", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, adapters.Claims{UserID: "user-1"}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = service.ValidateAccessToken(ctx, token)

		require.ErrorIs(t, err, services.ErrInvalidJWTToken)
	})
}
