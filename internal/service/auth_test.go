package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michiganhackers/photo-assassin-backend/internal/apperror"
)

func TestAuthService_RoundTrip(t *testing.T) {
	auth := NewAuthService("test-secret")

	t.Run("Verifies a token it issued", func(t *testing.T) {
		// Given: a token issued for a user
		token, err := auth.GenerateToken("user42")
		require.NoError(t, err)

		// When: verifying the token
		userID, err := auth.VerifyToken(token)

		// Then: the original user id comes back
		require.NoError(t, err)
		assert.Equal(t, "user42", userID)
	})

	t.Run("Rejects a garbage token", func(t *testing.T) {
		_, err := auth.VerifyToken("not-a-token")

		assert.ErrorIs(t, err, apperror.ErrUnauthenticated)
	})

	t.Run("Rejects a token signed with another secret", func(t *testing.T) {
		other := NewAuthService("different-secret")
		token, err := other.GenerateToken("user42")
		require.NoError(t, err)

		_, err = auth.VerifyToken(token)

		assert.ErrorIs(t, err, apperror.ErrUnauthenticated)
	})
}
