// Package blake2 implements the BLAKE2s and BLAKE2b secure hashing algorithms
// with support for keying, salting, personalization and tree parameters.
// BLAKE2s is optimized for 8- to 32-bit platforms and produces digests of any
// size between 1 and 32 bytes. BLAKE2b is optimized for 64-bit platforms and
// produces digests of any size between 1 and 64 bytes.
//
// The hash engines live in the blake2b and blake2s subpackages. This package
// holds what they share: the validation errors returned by their constructors
// and the Hash interface both digests satisfy.
package blake2

import "hash"

//go:generate python3 gen_vectors.py testdata

// Hash is the common interface of BLAKE2b and BLAKE2s digests.
type Hash interface {
	hash.Hash

	// Name returns "blake2b" or "blake2s".
	Name() string

	// HexSum returns the lowercase hex encoding of Sum(nil).
	HexSum() string

	// Wipe zeroes the digest state, including any retained key material.
	// The digest must not be used afterwards.
	Wipe()
}
