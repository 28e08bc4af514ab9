package record

import (
	"encoding/json"
	"fmt"
)

// DiscriminatorKey marks a decrypted payload as one of ours, telling
// vault records apart from arbitrary messages sent to the same account.
// It is versioned in the name and must never change: records already on
// the chain were stored under it.
const DiscriminatorKey = "chainvault.record.v1"

// Cipher is the encryption capability the codec consumes. The secret
// is bound at the cipher's construction, not passed per call.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// FormatError reports decrypted content that is not a structured
// record. It is distinct from the cipher's own error so callers can
// tell "wrong secret" apart from "not a record".
type FormatError struct {
	Err error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("decrypted payload is not a record: %v", e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Codec serializes records to encrypted payloads and back.
type Codec struct {
	cipher Cipher
}

func NewCodec(cipher Cipher) *Codec {
	return &Codec{cipher: cipher}
}

// Encode merges the discriminator field into the record, serializes
// and encrypts. The input map is not modified.
func (c *Codec) Encode(record map[string]any) (string, error) {
	tagged := make(map[string]any, len(record)+1)
	for k, v := range record {
		tagged[k] = v
	}
	tagged[DiscriminatorKey] = true

	plaintext, err := json.Marshal(tagged)
	if err != nil {
		return "", &FormatError{Err: err}
	}
	return c.cipher.Encrypt(string(plaintext))
}

// Decode decrypts and parses a payload. It does not filter by the
// discriminator; history scanners use IsVaultRecord on the result.
func (c *Codec) Decode(ciphertext string) (map[string]any, error) {
	plaintext, err := c.cipher.Decrypt(ciphertext)
	if err != nil {
		return nil, err
	}
	return Parse(plaintext)
}

// Parse interprets already-decrypted plaintext as a record mapping.
func Parse(plaintext string) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(plaintext), &m); err != nil {
		return nil, &FormatError{Err: err}
	}
	return m, nil
}

// IsVaultRecord reports whether a decoded mapping carries the
// discriminator and therefore belongs to this application.
func IsVaultRecord(m map[string]any) bool {
	marked, ok := m[DiscriminatorKey].(bool)
	return ok && marked
}
