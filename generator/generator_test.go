package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateAccessCodeLength(t *testing.T) {
	assert := assert.New(t)
	gen := New()
	for i := 0; i < 100; i++ {
		code := string(gen.CreateAccessCode())
		assert.Len(code, AccessCodeLength)
	}
}

func TestCreateAccessCodeAlphabet(t *testing.T) {
	assert := assert.New(t)
	gen := New()
	for i := 0; i < 100; i++ {
		code := string(gen.CreateAccessCode())
		for _, r := range code {
			assert.True(strings.ContainsRune(accessCodeAlphabet, r), "unexpected symbol %q", r)
		}
	}
}

func TestCreateAccessCodeUnique(t *testing.T) {
	assert := assert.New(t)
	gen := New()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code := string(gen.CreateAccessCode())
		assert.False(seen[code])
		seen[code] = true
	}
}

func TestCreatePINLikeToken(t *testing.T) {
	assert := assert.New(t)
	gen := New()
	pin := string(gen.CreatePINLikeToken())
	assert.Len(pin, 8)
}

func TestCreateSecureTokenNoPadding(t *testing.T) {
	assert := assert.New(t)
	gen := New()
	token := string(gen.CreateSecureToken())
	assert.False(strings.HasSuffix(token, "="))
	assert.NotEmpty(token)
}
