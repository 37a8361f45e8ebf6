// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/userhub/internal/platform/sec"
)

// newTestHasher uses the minimum cost so the suite stays fast.
func newTestHasher(t *testing.T) *sec.Hasher {
	t.Helper()
	hasher, err := sec.NewHasher(bcrypt.MinCost)
	require.NoError(t, err)
	return hasher
}

/*
TestNewHasher_CostBounds verifies that an out-of-range cost is rejected up front.
*/
func TestNewHasher_CostBounds(t *testing.T) {
	tests := []struct {
		name    string
		cost    int
		wantErr bool
	}{
		{"minimum", bcrypt.MinCost, false},
		{"default", sec.DefaultHashCost, false},
		{"maximum", bcrypt.MaxCost, false},
		{"too_low", bcrypt.MinCost - 1, true},
		{"too_high", bcrypt.MaxCost + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hasher, err := sec.NewHasher(tt.cost)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, hasher)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, hasher)
		})
	}
}

func TestHasher_RoundTrip(t *testing.T) {
	hasher := newTestHasher(t)

	for _, password := range []string{"secret1", "abcde", "pässwörd-ü", " spaced out "} {
		t.Run(password, func(t *testing.T) {
			hash, err := hasher.Hash(password)
			require.NoError(t, err)

			assert.NotEqual(t, password, hash)
			assert.True(t, hasher.Verify(password, hash))
			assert.False(t, hasher.Verify(password+"x", hash))
		})
	}
}

/*
TestHasher_SaltIsRandom verifies that two hashes of one password differ yet both verify.
*/
func TestHasher_SaltIsRandom(t *testing.T) {
	hasher := newTestHasher(t)

	first, err := hasher.Hash("secret1")
	require.NoError(t, err)
	second, err := hasher.Hash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Verify("secret1", first))
	assert.True(t, hasher.Verify("secret1", second))
}

/*
TestHasher_MalformedHash verifies that a corrupt stored hash is a non-match, not a panic.
*/
func TestHasher_MalformedHash(t *testing.T) {
	hasher := newTestHasher(t)

	for _, stored := range []string{"", "plaintext", "$2a$04$short"} {
		assert.False(t, hasher.Verify("secret1", stored))

		ok, err := hasher.Compare("secret1", stored)
		assert.False(t, ok)
		assert.Error(t, err)
	}
}

func TestHasher_CompareMismatchHasNoError(t *testing.T) {
	hasher := newTestHasher(t)

	hash, err := hasher.Hash("secret1")
	require.NoError(t, err)

	ok, err := hasher.Compare("wrong1", hash)
	assert.False(t, ok)
	assert.NoError(t, err)
}

func TestHasher_RejectsOverlongPassword(t *testing.T) {
	hasher := newTestHasher(t)

	overlong := make([]byte, sec.MaxPasswordBytes+1)
	for i := range overlong {
		overlong[i] = 'a'
	}

	_, err := hasher.Hash(string(overlong))
	assert.Error(t, err)
}
