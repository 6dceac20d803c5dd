package crypto

import "math/big"

// MaskChain is a pull-based iterator over the infinite pseudorandom integer
// sequence derived from a key: the first element is H(key), each subsequent
// element is H(key + previous). The sequence is deterministic in the key, so
// any party holding the key can re-derive it from scratch; no iterator state
// needs to survive between masking and unmasking.
type MaskChain struct {
	key  *big.Int
	prev *big.Int
}

// NewMaskChain starts a fresh chain for the key. Calling it twice with the
// same key yields two identical sequences.
func NewMaskChain(key Key) *MaskChain {
	return &MaskChain{key: new(big.Int).Set(key.secret)}
}

// Next returns the next element of the chain. Elements are positive integers
// below 2^256; sums of many elements grow beyond that, which is fine since
// all holder arithmetic is arbitrary precision.
func (c *MaskChain) Next() *big.Int {
	var preimage *big.Int
	if c.prev == nil {
		preimage = c.key
	} else {
		preimage = new(big.Int).Add(c.key, c.prev)
	}

	c.prev = HashToInt(preimage.Bytes())
	return new(big.Int).Set(c.prev)
}

// DeriveMasks materializes the first n elements of the key's chain.
func DeriveMasks(key Key, n int) []*big.Int {
	chain := NewMaskChain(key)
	masks := make([]*big.Int, n)
	for i := range masks {
		masks[i] = chain.Next()
	}
	return masks
}
