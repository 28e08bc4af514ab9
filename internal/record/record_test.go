package record

import (
	"errors"
	"testing"

	"github.com/punchamoorthee/chainvault/internal/vaultcrypt"
	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	codec := NewCodec(vaultcrypt.New("passphrase"))

	original := map[string]any{
		"site":     "example.org",
		"user":     "alice",
		"password": "hunter2",
	}

	ciphertext, err := codec.Encode(original)
	assert.NoError(t, err)

	decoded, err := codec.Decode(ciphertext)
	assert.NoError(t, err)

	assert.True(t, IsVaultRecord(decoded))
	assert.Equal(t, "example.org", decoded["site"])
	assert.Equal(t, "alice", decoded["user"])
	assert.Equal(t, "hunter2", decoded["password"])

	// input map must stay untouched
	_, tagged := original[DiscriminatorKey]
	assert.False(t, tagged)
}

func TestDecodeDistinguishesWrongSecretFromNotARecord(t *testing.T) {
	rightCipher := vaultcrypt.New("right")

	// wrong secret: cipher error, not a format error
	ciphertext, err := NewCodec(rightCipher).Encode(map[string]any{"k": "v"})
	assert.NoError(t, err)

	_, err = NewCodec(vaultcrypt.New("wrong")).Decode(ciphertext)
	var eerr *vaultcrypt.EncryptionError
	var ferr *FormatError
	assert.True(t, errors.As(err, &eerr))
	assert.False(t, errors.As(err, &ferr))

	// decryptable but unstructured content: format error
	notJSON, err := rightCipher.Encrypt("just a plain note")
	assert.NoError(t, err)

	_, err = NewCodec(rightCipher).Decode(notJSON)
	assert.True(t, errors.As(err, &ferr))
}

func TestIsVaultRecord(t *testing.T) {
	assert.True(t, IsVaultRecord(map[string]any{DiscriminatorKey: true}))
	assert.False(t, IsVaultRecord(map[string]any{DiscriminatorKey: false}))
	assert.False(t, IsVaultRecord(map[string]any{DiscriminatorKey: "true"}))
	assert.False(t, IsVaultRecord(map[string]any{"site": "example.org"}))
	assert.False(t, IsVaultRecord(nil))
}

func TestParse(t *testing.T) {
	m, err := Parse(`{"a":1}`)
	assert.NoError(t, err)
	assert.Equal(t, float64(1), m["a"])

	for _, bad := range []string{"", "[1,2]", `"string"`, "{broken"} {
		_, err := Parse(bad)
		var ferr *FormatError
		assert.True(t, errors.As(err, &ferr), "input %q", bad)
	}
}
