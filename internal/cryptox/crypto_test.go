package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cheap params keep the suite fast
var testParams = Params{Memory: 8 * 1024, Time: 1, Threads: 1, SaltLen: 8, KeyLen: 16}

func TestHashPassword_Format(t *testing.T) {
	h := HashPasswordWithParams("hunter2", testParams)

	assert.True(t, strings.HasPrefix(h, "$argon2id$v=19$m=8192,t=1,p=1$"), h)
	assert.Len(t, strings.Split(h, "$"), 6)
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	h1 := HashPasswordWithParams("same", testParams)
	h2 := HashPasswordWithParams("same", testParams)
	assert.NotEqual(t, h1, h2)
}

func TestVerifyPassword(t *testing.T) {
	h := HashPasswordWithParams("correct horse", testParams)

	ok, err := VerifyPassword("correct horse", h)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("battery staple", h)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPassword_DefaultParams(t *testing.T) {
	h := HashPassword("pw")
	ok, err := VerifyPassword("pw", h)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyPassword_Malformed(t *testing.T) {
	cases := []string{
		"",
		"plaintext",
		"$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=18$m=1,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=x,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=1,t=1,p=1$!!!$a2V5",
		"$argon2id$v=19$m=1,t=1,p=1$c2FsdA$",
	}
	for _, c := range cases {
		_, err := VerifyPassword("pw", c)
		assert.ErrorIs(t, err, ErrMalformedHash, c)
	}
}
