package vaultcrypt

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncryptDecrypt(t *testing.T) {
	c := New("correct horse battery staple")

	ciphertext, err := c.Encrypt(`{"site":"example.org","password":"hunter2"}`)
	assert.NoError(t, err)
	assert.NotContains(t, ciphertext, "hunter2")

	plaintext, err := c.Decrypt(ciphertext)
	assert.NoError(t, err)
	assert.Equal(t, `{"site":"example.org","password":"hunter2"}`, plaintext)
}

func TestFreshSaltPerMessage(t *testing.T) {
	c := New("secret")

	first, err := c.Encrypt("same plaintext")
	assert.NoError(t, err)
	second, err := c.Encrypt("same plaintext")
	assert.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestWrongSecret(t *testing.T) {
	ciphertext, err := New("right secret").Encrypt("payload")
	assert.NoError(t, err)

	_, err = New("wrong secret").Decrypt(ciphertext)
	var eerr *EncryptionError
	assert.True(t, errors.As(err, &eerr))
	assert.Equal(t, "decrypt", eerr.Op)
	assert.NotContains(t, eerr.Error(), "payload")
}

func TestMalformedCiphertext(t *testing.T) {
	c := New("secret")

	for _, ciphertext := range []string{"", "zz", "deadbeef", "not hex at all"} {
		_, err := c.Decrypt(ciphertext)
		var eerr *EncryptionError
		assert.True(t, errors.As(err, &eerr), "input %q", ciphertext)
	}
}
