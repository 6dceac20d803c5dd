package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"errors"
)

// Pseudonym is a voter's throwaway marker identity for a single poll round.
// The public half is the Signature published in the ballot box; it proves
// participation count to observers without identifying the voter. The private
// half stays with the voter and lets them later prove ownership of their
// marker by signing a challenge.
type Pseudonym struct {
	public  ed25519.PublicKey
	private ed25519.PrivateKey
}

// NewPseudonym generates a fresh throwaway Ed25519 keypair. A pseudonym must
// never be reused across rounds; reuse links the voter's turns.
func NewPseudonym() (*Pseudonym, error) {
	public, private, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &Pseudonym{public: public, private: private}, nil
}

// Marker returns the published per-voter marker bytes.
func (p *Pseudonym) Marker() []byte {
	out := make([]byte, len(p.public))
	copy(out, p.public)
	return out
}

// Prove signs a challenge with the pseudonym's private half.
func (p *Pseudonym) Prove(challenge []byte) []byte {
	return ed25519.Sign(p.private, challenge)
}

// PrivateBytes exposes the private half for local receipt storage.
func (p *Pseudonym) PrivateBytes() []byte {
	out := make([]byte, len(p.private))
	copy(out, p.private)
	return out
}

// RestorePseudonym rebuilds a pseudonym from stored private bytes.
func RestorePseudonym(private []byte) (*Pseudonym, error) {
	if len(private) != ed25519.PrivateKeySize {
		return nil, errors.New("invalid pseudonym private key size")
	}
	sk := ed25519.PrivateKey(append([]byte(nil), private...))
	return &Pseudonym{public: sk.Public().(ed25519.PublicKey), private: sk}, nil
}

// VerifyMarkerProof checks a challenge signature against a published marker.
func VerifyMarkerProof(marker, challenge, proof []byte) bool {
	if len(marker) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(marker), challenge, proof)
}

// MarkerString renders a marker as hex for logs and published artifacts.
func MarkerString(marker []byte) string {
	return hex.EncodeToString(marker)
}
