package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPasswordWithCost("correct horse", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.True(t, CheckPasswordHash("correct horse", hash))
	assert.False(t, CheckPasswordHash("battery staple", hash))
	assert.False(t, CheckPasswordHash("correct horse", "not-a-hash"))
}

func TestHashPasswordEmpty(t *testing.T) {
	_, err := HashPasswordWithCost("", bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrEmptyPassword)
}
