package secrets

import (
	"fmt"

	lerrors "github.com/PolarWolf314/lockd/internal/errors"
	"golang.org/x/crypto/argon2"
)

const (
	// KeySize is the AES-256 key length in bytes.
	KeySize = 32

	// MinSaltLength is the shortest salt Argon2 accepts; shorter usernames are zero-extended.
	MinSaltLength = 16
)

// Key is a derived symmetric key. It lives in memory only.
type Key [KeySize]byte

// Zero wipes the key in place.
func (k *Key) Zero() {
	for i := range k {
		k[i] = 0
	}
}

// Argon2Params are the Argon2id cost parameters.
type Argon2Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
}

// DefaultArgon2Params matches the Argon2 reference defaults (19 MiB, t=2, p=1).
var DefaultArgon2Params = Argon2Params{
	Time:    2,
	Memory:  19 * 1024,
	Threads: 1,
	KeyLen:  KeySize,
}

// Validate rejects parameters argon2.IDKey would panic on or that do not produce a Key.
func (p Argon2Params) Validate() error {
	if p.Time < 1 {
		return fmt.Errorf("%w: time cost must be at least 1", lerrors.ErrKeyDerivation)
	}
	if p.Threads < 1 {
		return fmt.Errorf("%w: threads must be at least 1", lerrors.ErrKeyDerivation)
	}
	if p.Memory < 8*uint32(p.Threads) {
		return fmt.Errorf("%w: memory must be at least %d KiB", lerrors.ErrKeyDerivation, 8*uint32(p.Threads))
	}
	if p.KeyLen != KeySize {
		return fmt.Errorf("%w: key length must be %d bytes, got %d", lerrors.ErrInvalidKeyLength, KeySize, p.KeyLen)
	}
	return nil
}

// DeriveKey derives the session key for username and password with the default parameters.
func DeriveKey(username, password string) (Key, error) {
	return DeriveKeyWithParams(username, password, DefaultArgon2Params)
}

// DeriveKeyWithParams derives a key with explicit Argon2id parameters.
func DeriveKeyWithParams(username, password string, params Argon2Params) (Key, error) {
	var key Key
	if err := params.Validate(); err != nil {
		return key, err
	}

	derived := argon2.IDKey([]byte(password), SaltFor(username), params.Time, params.Memory, params.Threads, params.KeyLen)
	copy(key[:], derived)
	for i := range derived {
		derived[i] = 0
	}

	return key, nil
}

// SaltFor returns the username bytes zero-extended to MinSaltLength.
// Longer usernames are used unchanged.
func SaltFor(username string) []byte {
	salt := []byte(username)
	if len(salt) < MinSaltLength {
		padded := make([]byte, MinSaltLength)
		copy(padded, salt)
		salt = padded
	}
	return salt
}
