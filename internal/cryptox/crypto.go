// Package cryptox seals values stored on the device. Keys are derived with
// Argon2id and values are encrypted with AES-256-GCM.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"

	"github.com/dmitrijs2005/getfit/internal/common"
	"golang.org/x/crypto/argon2"
)

// KeySize is the length of keys returned by DeriveKey.
const KeySize = 32

// SaltSize is the recommended salt length for DeriveKey.
const SaltSize = 32

var ErrShortKey = errors.New("cryptox: key must be 16, 24 or 32 bytes")

// DeriveKey stretches secret with salt into a 32-byte AES key.
// Identical inputs always produce the identical key.
func DeriveKey(secret []byte, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, KeySize)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, ErrShortKey
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext with key using AES-GCM. A fresh random nonce is
// generated on every call and returned next to the ciphertext.
//
// The additional data binds the ciphertext to a context (e.g. the storage key
// it is saved under) so a value moved under another key fails to open.
//
// Example:
//
//	key := cryptox.DeriveKey([]byte("device secret"), salt)
//	ct, nonce, err := cryptox.Seal([]byte("token"), []byte("access_token"), key)
func Seal(plaintext, additionalData, key []byte) (ciphertext, nonce []byte, err error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	nonce = common.GenerateRandByteArray(aead.NonceSize())
	ciphertext = aead.Seal(nil, nonce, plaintext, additionalData)

	return ciphertext, nonce, nil
}

// Open reverses Seal. It fails if the key, nonce or additional data differ
// from the ones used to seal.
func Open(ciphertext, nonce, additionalData, key []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	return aead.Open(nil, nonce, ciphertext, additionalData)
}
