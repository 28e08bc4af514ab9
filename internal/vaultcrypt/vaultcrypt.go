package vaultcrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

const (
	saltSize = 16
	keySize  = 32

	// argon2id work parameters
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// EncryptionError wraps any failure of the cipher. The message never
// contains plaintext or the secret.
type EncryptionError struct {
	Op  string
	Err error
}

func (e *EncryptionError) Error() string {
	return fmt.Sprintf("vault %s failed: %v", e.Op, e.Err)
}

func (e *EncryptionError) Unwrap() error { return e.Err }

// Cipher provides symmetric encryption keyed by a secret fixed at
// construction. The key is derived per message with a fresh salt, so
// identical records never produce identical ciphertexts.
type Cipher struct {
	secret []byte
}

// New creates a cipher bound to the given secret.
func New(secret string) *Cipher {
	return &Cipher{secret: []byte(secret)}
}

// Encrypt returns hex(salt || nonce || sealed plaintext).
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", &EncryptionError{Op: "encrypt", Err: err}
	}

	gcm, err := c.aead(salt)
	if err != nil {
		return "", &EncryptionError{Op: "encrypt", Err: err}
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", &EncryptionError{Op: "encrypt", Err: err}
	}

	out := append(salt, nonce...)
	out = gcm.Seal(out, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. A wrong secret or tampered ciphertext
// fails authentication and surfaces as an EncryptionError.
func (c *Cipher) Decrypt(ciphertext string) (string, error) {
	raw, err := hex.DecodeString(ciphertext)
	if err != nil {
		return "", &EncryptionError{Op: "decrypt", Err: err}
	}
	if len(raw) < saltSize {
		return "", &EncryptionError{Op: "decrypt", Err: errors.New("ciphertext too short")}
	}

	salt, rest := raw[:saltSize], raw[saltSize:]
	gcm, err := c.aead(salt)
	if err != nil {
		return "", &EncryptionError{Op: "decrypt", Err: err}
	}
	if len(rest) < gcm.NonceSize() {
		return "", &EncryptionError{Op: "decrypt", Err: errors.New("ciphertext too short")}
	}

	nonce, sealed := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", &EncryptionError{Op: "decrypt", Err: err}
	}
	return string(plaintext), nil
}

func (c *Cipher) aead(salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey(c.secret, salt, argonTime, argonMemory, argonThreads, keySize)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
