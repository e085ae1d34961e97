package auth

import (
	"testing"

	"evenza/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToken(t *testing.T) {
	ident := model.Identity{UID: "user-1", Email: "user@example.com", EmailVerified: true}

	t.Run("Success - round trip", func(t *testing.T) {
		token, err := MakeToken(ident, "secret")
		require.NoError(t, err)

		parsed, err := ParseToken(token, "secret")
		require.NoError(t, err)
		assert.Equal(t, "user-1", parsed.UID)
		assert.Equal(t, "user@example.com", parsed.Email)
		assert.True(t, parsed.EmailVerified)
	})

	t.Run("Failed - wrong secret", func(t *testing.T) {
		token, err := MakeToken(ident, "secret")
		require.NoError(t, err)

		_, err = ParseToken(token, "other-secret")
		assert.Error(t, err)
	})

	t.Run("Failed - garbage token", func(t *testing.T) {
		_, err := ParseToken("not.a.token", "secret")
		assert.Error(t, err)
	})
}

func TestPassword(t *testing.T) {
	t.Run("Success - hash verifies original only", func(t *testing.T) {
		hash, err := HashPassword("correct horse battery staple")
		require.NoError(t, err)
		assert.NotEqual(t, "correct horse battery staple", hash)

		assert.True(t, CheckPassword(hash, "correct horse battery staple"))
		assert.False(t, CheckPassword(hash, "wrong password"))
	})
}

func TestGenerateVerificationCode(t *testing.T) {
	t.Run("Success - six digits", func(t *testing.T) {
		code, err := GenerateVerificationCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9')
		}
	})
}
