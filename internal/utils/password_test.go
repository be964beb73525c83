package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$")

	ok, err := VerifyPassword("correct horse battery", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("mauvais mot de passe", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordRejectsShortPassword(t *testing.T) {
	_, err := HashPassword("court")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	_, err := VerifyPassword("whatever", "pas-un-hash")
	assert.Error(t, err)
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"ada@example.com", "a.b+c@sub.domain.ng"}
	invalid := []string{"", "sans-arobase", "a@b", "espace @domaine.com", "a@@b.com"}

	for _, e := range valid {
		assert.True(t, IsValidEmail(e), e)
	}
	for _, e := range invalid {
		assert.False(t, IsValidEmail(e), e)
	}
}
