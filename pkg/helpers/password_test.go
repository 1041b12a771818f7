package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher(t *testing.T) {
	h, err := NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)

	a, err := h.HashPassword("correct horse")
	require.NoError(t, err)
	b, err := h.HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "hashes must be salted")

	assert.True(t, h.CompareHashAndPassword(a, "correct horse"))
	assert.False(t, h.CompareHashAndPassword(a, "battery staple"))
	assert.False(t, h.CompareHashAndPassword("not-a-hash", "correct horse"))

	h.CompareDummy("anything")
}

func TestNewPasswordHasher_CostBounds(t *testing.T) {
	_, err := NewPasswordHasher(bcrypt.MinCost - 1)
	assert.Error(t, err)
	_, err = NewPasswordHasher(bcrypt.MaxCost + 1)
	assert.Error(t, err)
}
