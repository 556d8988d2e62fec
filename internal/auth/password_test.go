package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$12$"), "cost 12 bcrypt hash")

	ok, err := CheckPassword(hash, "correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPassword(hash, "wrong password")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	ok, err := CheckPassword("not a bcrypt hash", "anything")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	h1, err := HashPassword("same password")
	require.NoError(t, err)
	h2, err := HashPassword("same password")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
