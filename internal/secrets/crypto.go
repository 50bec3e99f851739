package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	lerrors "github.com/PolarWolf314/lockd/internal/errors"
)

const (
	// NonceSize is the GCM nonce length at the start of every envelope.
	NonceSize = 12

	// TagSize is the GCM authentication tag length at the end of every envelope.
	TagSize = 16
)

func newAEAD(key Key) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", lerrors.ErrInvalidKeyLength, err)
	}
	return cipher.NewGCM(block)
}

// Encrypt seals plaintext under key with a nonce from crypto/rand.
func Encrypt(key Key, plaintext []byte) ([]byte, error) {
	return EncryptWithRand(rand.Reader, key, plaintext)
}

// EncryptWithRand seals plaintext under key, reading the nonce from random.
// The result is nonce || ciphertext || tag.
func EncryptWithRand(random io.Reader, key Key, plaintext []byte) ([]byte, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}

	envelope := make([]byte, NonceSize, NonceSize+len(plaintext)+TagSize)
	if _, err := io.ReadFull(random, envelope); err != nil {
		return nil, fmt.Errorf("failed to read nonce: %w", err)
	}

	return aead.Seal(envelope, envelope[:NonceSize], plaintext, nil), nil
}

// Decrypt opens an envelope produced by Encrypt.
//
// Returns ErrMalformedContainer if envelope is shorter than a nonce and
// ErrAuthenticationFailed if the tag does not verify. No plaintext is
// returned on failure.
func Decrypt(key Key, envelope []byte) ([]byte, error) {
	if len(envelope) < NonceSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the %d-byte nonce", lerrors.ErrMalformedContainer, len(envelope), NonceSize)
	}

	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}

	nonce, sealed := envelope[:NonceSize], envelope[NonceSize:]
	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, lerrors.ErrAuthenticationFailed
	}

	return plaintext, nil
}
