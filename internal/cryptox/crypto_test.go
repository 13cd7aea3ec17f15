package cryptox

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword([]byte("correct horse"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$10$"), "unexpected hash format %q", hash)

	assert.True(t, CheckPassword(hash, []byte("correct horse")))
	assert.False(t, CheckPassword(hash, []byte("wrong horse")))
	assert.False(t, CheckPassword("not-a-hash", []byte("correct horse")))
}

func TestHashPassword_Error(t *testing.T) {
	orig := hashFn
	t.Cleanup(func() { hashFn = orig })

	hashFn = func([]byte, int) ([]byte, error) { return nil, errors.New("boom") }

	_, err := HashPassword([]byte("x"))
	require.Error(t, err)
}

func TestIsPasswordTooLong(t *testing.T) {
	assert.False(t, IsPasswordTooLong([]byte("short-enough")))
	assert.True(t, IsPasswordTooLong([]byte(strings.Repeat("a", 73))))
}
