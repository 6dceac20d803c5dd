// Package crypto provides the cryptographic primitives for the anonymized
// voting protocol: secret mask keys, the deterministic mask chain used to
// seed and strip additive noise, pseudonymous voter markers, and the SHA3
// digest helpers used by audit commitments.
//
// The mask chain works over unbounded integers on purpose. Masks are removed
// by plain integer subtraction and no modulus is ever applied; truncating to
// a fixed width would silently corrupt recovered ballots.
package crypto
