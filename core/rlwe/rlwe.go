// Package rlwe implements the common in-memory representation of RLWE
// plaintexts, ciphertexts and key material over an RNS polynomial ring,
// together with their compact, bit-packed serialized forms.
//
// The package is the bridge between the scheme layer, which produces and
// consumes live polynomial structures, and a wire adapter, which maps the
// self-describing Serialized* containers one-to-one onto an external
// message schema. It performs no ring arithmetic and no domain conversion:
// the coefficient/evaluation tag is carried, never changed.
package rlwe

import (
	"errors"

	"github.com/privio/hepack/utils/sampling"
)

// SeedSize is the byte length of the seed that can replace a regenerable
// ciphertext component in its serialized form.
const SeedSize = sampling.SeedSize

var (
	// ErrContextMismatch is returned when a payload cannot have been
	// produced under the context supplied for deserialization.
	ErrContextMismatch = errors.New("context mismatch")

	// ErrModuliCountMismatch is returned when the moduli count supplied to
	// rebuild a ciphertext is inconsistent with the payload.
	ErrModuliCountMismatch = errors.New("moduli count mismatch")

	// ErrConfigurationMismatch is returned when a key bundle is
	// deserialized under a configuration different from the one that
	// produced it.
	ErrConfigurationMismatch = errors.New("key configuration mismatch")

	// ErrWrongDomain is returned by operations that require their operand
	// in the other polynomial domain.
	ErrWrongDomain = errors.New("wrong polynomial domain")

	// ErrUnsupportedDomain is returned by operations that are not defined
	// in the operand's polynomial domain.
	ErrUnsupportedDomain = errors.New("unsupported polynomial domain")
)
