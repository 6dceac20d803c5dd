package crypto

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/big"

	"golang.org/x/crypto/sha3"
)

// DigestSize is the size in bytes of all digests used by the protocol.
const DigestSize = 32

// Digest is a SHA3-256 digest.
type Digest [DigestSize]byte

// String returns the hex encoding of the digest.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Equal compares two digests byte for byte.
func (d Digest) Equal(other Digest) bool {
	return d == other
}

// MarshalText renders the digest as hex, for JSON payloads and logs.
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(d[:])), nil
}

// UnmarshalText restores a digest from hex.
func (d *Digest) UnmarshalText(data []byte) error {
	raw, err := hex.DecodeString(string(data))
	if err != nil {
		return err
	}
	if len(raw) != DigestSize {
		return fmt.Errorf("digest must be %d bytes, got %d", DigestSize, len(raw))
	}
	copy(d[:], raw)
	return nil
}

// HashBytes returns the SHA3-256 digest of data.
func HashBytes(data []byte) Digest {
	return sha3.Sum256(data)
}

// HashParts returns the SHA3-256 digest of the concatenation of parts, each
// part prefixed with its length so that part boundaries are unambiguous.
func HashParts(parts ...[]byte) Digest {
	h := sha3.New256()
	var lenBuf [8]byte
	for _, part := range parts {
		binary.BigEndian.PutUint64(lenBuf[:], uint64(len(part)))
		h.Write(lenBuf[:])
		h.Write(part)
	}

	var d Digest
	h.Sum(d[:0])
	return d
}

// HashToInt hashes data and interprets the digest as a positive integer.
func HashToInt(data []byte) *big.Int {
	d := HashBytes(data)
	return new(big.Int).SetBytes(d[:])
}
