// Package vault provides reversible encryption for stored service-account
// passwords. The admin panel has to show the original password again, so
// values are encrypted with a process-wide secret rather than hashed.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/hkdf"

	"github.com/streamshare/subscription-manager/internal/pkg/metrics"
)

const (
	// versionPrefix tags ciphertexts produced by Encrypt.
	versionPrefix = "v1:"
	hkdfInfo      = "subscription-manager/credential-vault/v1"
	keySize       = 32
)

var (
	ErrEmptySecret = errors.New("vault: secret is empty")
	errMalformed   = errors.New("vault: unrecognised ciphertext format")
	errTooShort    = errors.New("vault: ciphertext too short")
)

// Vault encrypts and decrypts credentials with AES-256-GCM. Changing the
// secret makes every previously stored ciphertext unreadable.
type Vault struct {
	aead   cipher.AEAD
	secret []byte
	log    zerolog.Logger
}

// New derives the encryption key from secret. The secret itself is kept only
// for reading legacy ciphertexts and is never logged.
func New(secret string, log zerolog.Logger) (*Vault, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	key := make([]byte, keySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(hkdfInfo)), key); err != nil {
		return nil, fmt.Errorf("vault: derive key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("vault: create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("vault: create GCM: %w", err)
	}

	return &Vault{aead: gcm, secret: []byte(secret), log: log}, nil
}

// Encrypt returns the versioned, base64 encoded ciphertext of plaintext.
// An empty plaintext yields an empty string.
func (v *Vault) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	nonce := make([]byte, v.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("vault: generate nonce: %w", err)
	}

	sealed := v.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return versionPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt returns the plaintext of ciphertext. Any failure (wrong secret,
// corrupted or unknown data) is logged and reported as an empty string.
func (v *Vault) Decrypt(ciphertext string) string {
	if ciphertext == "" {
		return ""
	}

	plaintext, err := v.open(ciphertext)
	if err != nil {
		metrics.VaultDecryptFailuresTotal.Inc()
		v.log.Warn().Err(err).Msg("credential decrypt failed")
		return ""
	}
	return plaintext
}

func (v *Vault) open(ciphertext string) (string, error) {
	switch {
	case strings.HasPrefix(ciphertext, versionPrefix):
		return v.openGCM(strings.TrimPrefix(ciphertext, versionPrefix))
	case strings.HasPrefix(ciphertext, legacyPrefix):
		return openLegacy(ciphertext, v.secret)
	default:
		return "", errMalformed
	}
}

func (v *Vault) openGCM(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("vault: decode base64: %w", err)
	}

	nonceSize := v.aead.NonceSize()
	if len(raw) < nonceSize {
		return "", errTooShort
	}

	nonce, sealed := raw[:nonceSize], raw[nonceSize:]
	plaintext, err := v.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("vault: open: %w", err)
	}
	return string(plaintext), nil
}
