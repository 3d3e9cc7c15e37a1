package middleware

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"live-service/internal/model"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func TestValidateTokenLocally(t *testing.T) {
	v := NewAuthServiceValidator("", testSecret, zap.NewNop())
	userID := uuid.New()

	token := signToken(t, jwt.MapClaims{"sub": userID.String(), "name": "alice"})

	identity, err := v.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, identity.UserID)
	assert.Equal(t, "alice", identity.DisplayName)
}

func TestValidateTokenClaimFallbacks(t *testing.T) {
	v := NewAuthServiceValidator("", testSecret, zap.NewNop())
	userID := uuid.New()

	for _, key := range []string{"sub", "userId", "user_id"} {
		identity, err := v.ValidateToken(context.Background(), signToken(t, jwt.MapClaims{key: userID.String()}))
		require.NoError(t, err, "claim key %q", key)
		assert.Equal(t, userID, identity.UserID)
	}
}

func TestValidateTokenRejections(t *testing.T) {
	v := NewAuthServiceValidator("", testSecret, zap.NewNop())

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"no user id claim", signToken(t, jwt.MapClaims{"name": "alice"})},
		{"user id not a uuid", signToken(t, jwt.MapClaims{"sub": "42"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.ValidateToken(context.Background(), tt.token)
			assert.ErrorIs(t, err, model.ErrAuthentication)
		})
	}

	t.Run("wrong secret", func(t *testing.T) {
		other, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": uuid.NewString()}).
			SignedString([]byte("other-secret"))
		require.NoError(t, err)
		_, err = v.ValidateToken(context.Background(), other)
		assert.ErrorIs(t, err, model.ErrAuthentication)
	})
}

func TestOriginAllowed(t *testing.T) {
	assert.True(t, OriginAllowed("*", "https://anywhere.example"))
	assert.True(t, OriginAllowed("https://app.example.com", "https://app.example.com"))
	assert.True(t, OriginAllowed("https://a.example, https://b.example", "https://b.example"))
	assert.False(t, OriginAllowed("https://app.example.com", "https://evil.example"))
	assert.True(t, OriginAllowed("https://app.example.com", ""), "non-browser clients send no origin")
}
