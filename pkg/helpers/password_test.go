package helpers_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-cqrs-user-service/pkg/helpers"
)

func TestHashVerify(t *testing.T) {
	h := &helpers.BcryptHasher{Cost: bcrypt.MinCost}
	hash, err := h.Hash("password123")
	require.NoError(t, err)
	require.NotEqual(t, "password123", hash)
	require.True(t, h.Verify(hash, "password123"))
	require.False(t, h.Verify(hash, "wrong"))
}

func TestHashesAreSalted(t *testing.T) {
	h := &helpers.BcryptHasher{Cost: bcrypt.MinCost}
	a, err := h.Hash("password123")
	require.NoError(t, err)
	b, err := h.Hash("password123")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestNeedsRehash(t *testing.T) {
	low := &helpers.BcryptHasher{Cost: bcrypt.MinCost}
	hash, err := low.Hash("password123")
	require.NoError(t, err)

	require.False(t, low.NeedsRehash(hash))

	strict := &helpers.BcryptHasher{Cost: bcrypt.MinCost + 2}
	require.True(t, strict.NeedsRehash(hash))

	require.True(t, low.NeedsRehash("not-a-bcrypt-hash"))
}

func TestNewBcryptHasherClampsCost(t *testing.T) {
	require.Equal(t, bcrypt.DefaultCost, helpers.NewBcryptHasher(0).Cost)
	require.Equal(t, bcrypt.DefaultCost, helpers.NewBcryptHasher(99).Cost)
	require.Equal(t, 12, helpers.NewBcryptHasher(12).Cost)
}
