package crypto

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateKeyIsFresh(t *testing.T) {
	a, err := GenerateKey()
	require.NoError(t, err)
	b, err := GenerateKey()
	require.NoError(t, err)

	require.True(t, a.Valid())
	require.True(t, b.Valid())
	require.NotEqual(t, a.String(), b.String())
}

func TestKeyTextRoundTrip(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)

	text, err := key.MarshalText()
	require.NoError(t, err)

	var restored Key
	require.NoError(t, restored.UnmarshalText(text))
	require.Equal(t, key.String(), restored.String())

	// Keys embed into JSON payloads for the out-of-band channel.
	blob, err := json.Marshal(key)
	require.NoError(t, err)
	var fromJSON Key
	require.NoError(t, json.Unmarshal(blob, &fromJSON))
	require.Equal(t, key.String(), fromJSON.String())
}

func TestNewKeyFromIntRejectsNonPositive(t *testing.T) {
	_, err := NewKeyFromInt(nil)
	require.Error(t, err)

	_, err = NewKeyFromInt(big.NewInt(0))
	require.Error(t, err)

	_, err = NewKeyFromInt(big.NewInt(-5))
	require.Error(t, err)

	key, err := NewKeyFromInt(big.NewInt(42))
	require.NoError(t, err)
	require.Equal(t, "42", key.String())
}

func TestZeroKeyIsInvalid(t *testing.T) {
	var key Key
	require.False(t, key.Valid())

	_, err := key.MarshalText()
	require.Error(t, err)
}

func TestHashPartsBoundaries(t *testing.T) {
	// Length prefixes keep part boundaries unambiguous.
	require.NotEqual(t, HashParts([]byte("ab"), []byte("c")), HashParts([]byte("a"), []byte("bc")))
	require.NotEqual(t, HashParts([]byte("abc")), HashParts([]byte("ab"), []byte("c")))
	require.Equal(t, HashParts([]byte("ab"), []byte("c")), HashParts([]byte("ab"), []byte("c")))
}

func TestDigestTextRoundTrip(t *testing.T) {
	d := HashBytes([]byte("hello"))

	text, err := d.MarshalText()
	require.NoError(t, err)

	var restored Digest
	require.NoError(t, restored.UnmarshalText(text))
	require.True(t, d.Equal(restored))

	require.Error(t, restored.UnmarshalText([]byte("not hex")))
	require.Error(t, restored.UnmarshalText([]byte("abcd")))
}
