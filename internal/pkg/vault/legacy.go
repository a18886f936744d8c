package vault

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"encoding/base64"
	"errors"
	"fmt"
	"unicode/utf8"
)

// Passwords written by the previous deployment use the OpenSSL passphrase
// format: base64("Salted__" | salt[8] | AES-256-CBC ciphertext), with key and
// IV derived by EVP_BytesToKey over MD5. They are read-only here; Encrypt
// always writes the v1 format.

// legacyPrefix is how the base64 of every "Salted__" header begins.
const legacyPrefix = "U2FsdGVkX1"

const (
	saltedMagic = "Salted__"
	saltSize    = 8
	legacyKey   = 32
	legacyIV    = aes.BlockSize
)

var errBadPadding = errors.New("vault: invalid padding")

func openLegacy(ciphertext string, secret []byte) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("vault: decode legacy base64: %w", err)
	}
	if len(raw) < len(saltedMagic)+saltSize+aes.BlockSize || string(raw[:len(saltedMagic)]) != saltedMagic {
		return "", errTooShort
	}

	salt := raw[len(saltedMagic) : len(saltedMagic)+saltSize]
	body := raw[len(saltedMagic)+saltSize:]
	if len(body)%aes.BlockSize != 0 {
		return "", errMalformed
	}

	key, iv := evpBytesToKey(secret, salt)
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("vault: create legacy cipher: %w", err)
	}

	plain := make([]byte, len(body))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, body)

	plain, err = unpad(plain)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(plain) {
		return "", errMalformed
	}
	return string(plain), nil
}

// evpBytesToKey mirrors OpenSSL's EVP_BytesToKey with MD5 and one iteration.
func evpBytesToKey(secret, salt []byte) (key, iv []byte) {
	var out, prev []byte
	for len(out) < legacyKey+legacyIV {
		h := md5.New()
		h.Write(prev)
		h.Write(secret)
		h.Write(salt)
		prev = h.Sum(nil)
		out = append(out, prev...)
	}
	return out[:legacyKey], out[legacyKey : legacyKey+legacyIV]
}

func unpad(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, errBadPadding
	}
	n := int(b[len(b)-1])
	if n == 0 || n > aes.BlockSize || n > len(b) {
		return nil, errBadPadding
	}
	if !bytes.Equal(b[len(b)-n:], bytes.Repeat([]byte{byte(n)}, n)) {
		return nil, errBadPadding
	}
	return b[:len(b)-n], nil
}
