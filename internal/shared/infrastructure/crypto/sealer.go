// Package crypto seals backup blobs with AES-256-GCM.
package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

var (
	ErrEmptyKey    = errors.New("crypto: encryption key is empty")
	ErrKeySize     = errors.New("crypto: encryption key must be 32 bytes")
	ErrNotSealed   = errors.New("crypto: data is not sealed")
	ErrTooShort    = errors.New("crypto: sealed data too short")
	ErrAuthFailure = errors.New("crypto: message authentication failed")
)

// magic prefixes every sealed blob so readers can tell sealed data from
// plain JSON.
var magic = []byte("BLSEAL1\n")

// Sealer encrypts and decrypts blobs.
type Sealer interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(sealed []byte) ([]byte, error)
}

// AESSealer uses AES-GCM with a random nonce per blob.
type AESSealer struct {
	aead cipher.AEAD
}

// NewAESSealerFromBase64Key creates a sealer from a base64-encoded 32-byte
// key.
func NewAESSealerFromBase64Key(encodedKey string) (*AESSealer, error) {
	if encodedKey == "" {
		return nil, ErrEmptyKey
	}
	key, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("decode encryption key: %w", err)
	}
	if len(key) != 32 {
		return nil, ErrKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &AESSealer{aead: aead}, nil
}

// IsSealed reports whether data carries the sealed-blob prefix.
func IsSealed(data []byte) bool {
	return bytes.HasPrefix(data, magic)
}

// Seal encrypts plaintext. The output is magic | nonce | ciphertext.
func (s *AESSealer) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(magic)+len(nonce)+len(plaintext)+s.aead.Overhead())
	out = append(out, magic...)
	out = append(out, nonce...)
	return s.aead.Seal(out, nonce, plaintext, magic), nil
}

// Open decrypts a blob produced by Seal.
func (s *AESSealer) Open(sealed []byte) ([]byte, error) {
	if !IsSealed(sealed) {
		return nil, ErrNotSealed
	}
	body := sealed[len(magic):]
	nonceSize := s.aead.NonceSize()
	if len(body) < nonceSize+s.aead.Overhead() {
		return nil, ErrTooShort
	}
	plaintext, err := s.aead.Open(nil, body[:nonceSize], body[nonceSize:], magic)
	if err != nil {
		return nil, ErrAuthFailure
	}
	return plaintext, nil
}
