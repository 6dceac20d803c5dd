package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/hkdf"
)

// keyBytes is the entropy expanded into a mask key. 64 bytes keeps the key
// space far larger than anything an observer could enumerate.
const keyBytes = 64

// Key is a party's secret mask seed: an arbitrary-precision positive integer,
// privately held and never attached to the poll it masks. The pollmaker needs
// every issued key, delivered out of band, to strip the noise at tally time.
type Key struct {
	secret *big.Int
}

// GenerateKey derives a fresh key from the system entropy source, expanded
// through HKDF so the raw entropy never becomes the key itself.
func GenerateKey() (Key, error) {
	seed := make([]byte, 32)
	if _, err := rand.Read(seed); err != nil {
		return Key{}, fmt.Errorf("reading entropy: %w", err)
	}

	expanded := make([]byte, keyBytes)
	if _, err := hkdf.New(sha256.New, seed, nil, []byte("qv-mask-key-v1")).Read(expanded); err != nil {
		return Key{}, fmt.Errorf("expanding key: %w", err)
	}

	return Key{secret: new(big.Int).SetBytes(expanded)}, nil
}

// NewKeyFromInt wraps an existing secret integer as a key. The integer must
// be positive.
func NewKeyFromInt(secret *big.Int) (Key, error) {
	if secret == nil || secret.Sign() <= 0 {
		return Key{}, errors.New("key secret must be a positive integer")
	}
	return Key{secret: new(big.Int).Set(secret)}, nil
}

// NewKeyFromString restores a key from its decimal string form.
func NewKeyFromString(s string) (Key, error) {
	secret, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Key{}, fmt.Errorf("invalid key string %q", s)
	}
	return NewKeyFromInt(secret)
}

// String returns the key's decimal form. Sensitive: this is the full secret,
// only ever for the out-of-band channel to the pollmaker or local storage.
func (k Key) String() string {
	return k.secret.String()
}

// Valid reports whether the key holds a secret.
func (k Key) Valid() bool {
	return k.secret != nil && k.secret.Sign() > 0
}

// MarshalText serializes the key for transport to the pollmaker.
func (k Key) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, errors.New("cannot marshal zero key")
	}
	return []byte(k.secret.String()), nil
}

// UnmarshalText restores a key from its text form.
func (k *Key) UnmarshalText(data []byte) error {
	restored, err := NewKeyFromString(string(data))
	if err != nil {
		return err
	}
	*k = restored
	return nil
}
