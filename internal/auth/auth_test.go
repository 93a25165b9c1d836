package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginAndToken(t *testing.T) {
	ac := Login(Principal{ID: "u-1", Email: "dev@example.com"}, NewStaticTokenSource("secret"))
	assert.True(t, ac.Active())
	assert.Equal(t, "dev@example.com", ac.Principal().Email)

	tok, err := ac.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "secret", tok)
}

func TestLogoutInvalidatesTokenLookups(t *testing.T) {
	ac := Login(Principal{Email: "dev@example.com"}, NewStaticTokenSource("secret"))
	ac.Logout()

	assert.False(t, ac.Active())
	_, err := ac.Token(context.Background())
	assert.ErrorIs(t, err, ErrLoggedOut)
}
