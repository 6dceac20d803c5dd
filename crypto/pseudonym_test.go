package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPseudonymProveAndVerify(t *testing.T) {
	p, err := NewPseudonym()
	require.NoError(t, err)

	challenge := []byte("prove you cast marker 7")
	proof := p.Prove(challenge)

	require.True(t, VerifyMarkerProof(p.Marker(), challenge, proof))
	require.False(t, VerifyMarkerProof(p.Marker(), []byte("different challenge"), proof))

	other, err := NewPseudonym()
	require.NoError(t, err)
	require.False(t, VerifyMarkerProof(other.Marker(), challenge, proof))
}

func TestPseudonymRestore(t *testing.T) {
	p, err := NewPseudonym()
	require.NoError(t, err)

	restored, err := RestorePseudonym(p.PrivateBytes())
	require.NoError(t, err)
	require.Equal(t, p.Marker(), restored.Marker())

	challenge := []byte("still me")
	require.True(t, VerifyMarkerProof(p.Marker(), challenge, restored.Prove(challenge)))

	_, err = RestorePseudonym([]byte("short"))
	require.Error(t, err)
}

func TestVerifyMarkerProofRejectsBadMarker(t *testing.T) {
	require.False(t, VerifyMarkerProof([]byte("not a key"), []byte("c"), []byte("p")))
}
