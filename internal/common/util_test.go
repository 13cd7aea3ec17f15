package common

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeRandHexString(t *testing.T) {
	for _, size := range []int{0, 1, 16, 32} {
		s, err := MakeRandHexString(size)
		require.NoError(t, err)
		assert.Len(t, s, size*2)

		raw, err := hex.DecodeString(s)
		require.NoError(t, err)
		assert.Len(t, raw, size)
	}
}

func TestMakeRandHexString_RefreshTokensDiffer(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		s, err := MakeRandHexString(32)
		require.NoError(t, err)
		require.False(t, seen[s], "duplicate token %s", s)
		seen[s] = true
	}
}

func TestWipeByteArray(t *testing.T) {
	pw := []byte("secret1")
	WipeByteArray(pw)
	assert.Equal(t, make([]byte, 7), pw)

	assert.NotPanics(t, func() { WipeByteArray(nil) })
}
