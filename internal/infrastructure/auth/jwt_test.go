package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-at-least-32-chars",
		Issuer:     "test-issuer",
		Expiration: time.Hour,
	})
}

func newTestInput() GenerateTokenInput {
	return GenerateTokenInput{
		AdminID:     uuid.New(),
		Username:    "alice",
		RoleName:    "Admin",
		Permissions: []string{"ViewProducts", "EditProduct"},
	}
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	token, err := svc.Generate(input)
	require.NoError(t, err)
	assert.NotEmpty(t, token.Value)
	assert.NotEmpty(t, token.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, 5*time.Second)

	claims, err := svc.Validate(token.Value)
	require.NoError(t, err)

	adminID, err := claims.GetAdminUUID()
	require.NoError(t, err)
	assert.Equal(t, input.AdminID, adminID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "Admin", claims.RoleName)
	assert.Equal(t, input.Permissions, claims.Permissions)
	assert.Equal(t, token.ID, claims.ID)
}

func TestJWTService_Validate(t *testing.T) {
	t.Run("expired token", func(t *testing.T) {
		svc := newTestJWTService()
		issued := time.Now().Add(-2 * time.Hour)
		svc.now = func() time.Time { return issued }
		token, err := svc.Generate(newTestInput())
		require.NoError(t, err)

		svc.now = time.Now
		_, err = svc.Validate(token.Value)

		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := newTestJWTService().Validate("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("different secret", func(t *testing.T) {
		token, err := newTestJWTService().Generate(newTestInput())
		require.NoError(t, err)

		other := NewJWTService(config.JWTConfig{Secret: "another-secret-key-at-least-32-chars", Issuer: "test-issuer", Expiration: time.Hour})
		_, err = other.Validate(token.Value)

		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("different issuer", func(t *testing.T) {
		token, err := newTestJWTService().Generate(newTestInput())
		require.NoError(t, err)

		other := NewJWTService(config.JWTConfig{Secret: "test-secret-key-at-least-32-chars", Issuer: "elsewhere", Expiration: time.Hour})
		_, err = other.Validate(token.Value)

		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing admin id", func(t *testing.T) {
		svc := newTestJWTService()
		now := time.Now()
		claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "test-issuer",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		}}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.secret)
		require.NoError(t, err)

		_, err = svc.Validate(signed)

		assert.ErrorIs(t, err, ErrMissingAdminID)
	})

	t.Run("none algorithm is rejected", func(t *testing.T) {
		svc := newTestJWTService()
		claims := &Claims{AdminID: uuid.NewString(), RegisteredClaims: jwt.RegisteredClaims{Issuer: "test-issuer"}}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.Validate(signed)

		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestClaims_GetRemainingTTL(t *testing.T) {
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	c := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(10 * time.Minute))}}

	assert.Equal(t, 10*time.Minute, c.GetRemainingTTL(now))
	assert.Equal(t, time.Duration(0), c.GetRemainingTTL(now.Add(time.Hour)))
	assert.Equal(t, time.Duration(0), (&Claims{}).GetRemainingTTL(now))
}
