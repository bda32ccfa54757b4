// Package ring implements the representation of polynomials over the ring
// Z_Q[X]/(X^N+1) with Q the product of a chain of RNS moduli, along with a
// compact bit-packed codec for their coefficients.
package ring

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math/bits"
	"sync"
	"unsafe"

	"github.com/zeebo/blake3"
)

// MaxLogN is the log2 of the largest supported ring degree.
const MaxLogN = 20

var (
	// ErrInvalidParameters is returned when a ring context is built with an
	// unsupported degree or moduli chain.
	ErrInvalidParameters = errors.New("invalid ring parameters")

	// ErrShapeMismatch is returned when the dimensions of a polynomial do
	// not match the dimensions implied by its context.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrIndexOutOfBounds is returned on out-of-range coefficient access.
	ErrIndexOutOfBounds = errors.New("index out of bounds")

	// ErrInsufficientModuli is returned when an operation would leave a
	// context or polynomial with less than one modulus.
	ErrInsufficientModuli = errors.New("insufficient moduli")

	// ErrTruncatedInput is returned when a packed payload is shorter than
	// the length implied by its row specification.
	ErrTruncatedInput = errors.New("truncated input")

	// ErrInvalidIndex is returned when a coefficient index is outside of
	// the ring degree.
	ErrInvalidIndex = errors.New("invalid coefficient index")
)

// Scalar is the constraint on the residue word size. The width is fixed by
// the type parameter at construction and never switches at runtime.
type Scalar interface {
	~uint32 | ~uint64
}

// scalarBits returns the width in bits of the scalar type T.
func scalarBits[T Scalar]() int {
	var t T
	return int(unsafe.Sizeof(t)) << 3
}

// Context is an immutable description of a ring: its degree and its ordered
// chain of RNS moduli. Contexts are interned in a process-wide registry, so
// that two Context instances describing the same ring are the same pointer
// and can be shared by reference among many polynomials.
type Context[T Scalar] struct {
	degree    int
	moduli    []T
	bitWidths []int
	digest    [32]byte
}

// contextRegistry interns *Context[T] values by digest. The digest binds
// the scalar width, so a given key maps to a single concrete type.
var contextRegistry sync.Map

// NewContext validates the provided degree and moduli chain and returns the
// shared immutable Context describing them. The same (degree, moduli) pair
// always returns the same pointer.
//
// The degree must be a power of two not larger than 2^MaxLogN. Each modulus
// must be at least 2, must be representable on strictly less than the
// scalar width (so that a residue always leaves headroom of at least one
// bit), and the chain must be non-empty and free of duplicates.
func NewContext[T Scalar](degree int, moduli []T) (*Context[T], error) {

	if degree < 1 || degree&(degree-1) != 0 || degree > 1<<MaxLogN {
		return nil, fmt.Errorf("cannot NewContext: degree %d is not a supported power of two: %w", degree, ErrInvalidParameters)
	}

	if len(moduli) == 0 {
		return nil, fmt.Errorf("cannot NewContext: empty moduli chain: %w", ErrInvalidParameters)
	}

	width := scalarBits[T]()
	bitWidths := make([]int, len(moduli))
	seen := make(map[T]bool, len(moduli))
	for i, q := range moduli {
		if q < 2 {
			return nil, fmt.Errorf("cannot NewContext: modulus at index %d is smaller than 2: %w", i, ErrInvalidParameters)
		}
		if seen[q] {
			return nil, fmt.Errorf("cannot NewContext: duplicate modulus at index %d: %w", i, ErrInvalidParameters)
		}
		seen[q] = true
		bitWidths[i] = bits.Len64(uint64(q) - 1)
		if bitWidths[i] >= width {
			return nil, fmt.Errorf("cannot NewContext: modulus at index %d exceeds the %d-bit scalar width: %w", i, width, ErrInvalidParameters)
		}
	}

	digest := contextDigest(degree, moduli)

	if c, ok := contextRegistry.Load(digest); ok {
		return c.(*Context[T]), nil
	}

	c := &Context[T]{
		degree:    degree,
		moduli:    append([]T(nil), moduli...),
		bitWidths: bitWidths,
		digest:    digest,
	}

	actual, _ := contextRegistry.LoadOrStore(digest, c)

	return actual.(*Context[T]), nil
}

// contextDigest fingerprints (scalar width, degree, moduli) with blake3.
func contextDigest[T Scalar](degree int, moduli []T) [32]byte {
	hasher := blake3.New()
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.BigEndian, uint8(scalarBits[T]()))
	binary.Write(buf, binary.BigEndian, uint64(degree))
	for _, q := range moduli {
		binary.Write(buf, binary.BigEndian, uint64(q))
	}
	hasher.Write(buf.Bytes())
	var digest [32]byte
	copy(digest[:], hasher.Sum(nil))
	return digest
}

// N returns the ring degree.
func (c *Context[T]) N() int {
	return c.degree
}

// ModuliCount returns the number of moduli in the chain.
func (c *Context[T]) ModuliCount() int {
	return len(c.moduli)
}

// Level returns the number of moduli in the chain minus one.
func (c *Context[T]) Level() int {
	return len(c.moduli) - 1
}

// Moduli returns a copy of the moduli chain.
func (c *Context[T]) Moduli() []T {
	return append([]T(nil), c.moduli...)
}

// Modulus returns the i-th modulus of the chain.
func (c *Context[T]) Modulus(i int) T {
	return c.moduli[i]
}

// BitWidths returns a copy of the per-modulus residue bit widths, with
// bitWidths[i] = ceil(log2(moduli[i])).
func (c *Context[T]) BitWidths() []int {
	return append([]int(nil), c.bitWidths...)
}

// BitWidth returns the residue bit width of the i-th modulus.
func (c *Context[T]) BitWidth(i int) int {
	return c.bitWidths[i]
}

// MinBitWidth returns the smallest residue bit width over the chain.
func (c *Context[T]) MinBitWidth() int {
	min := c.bitWidths[0]
	for _, w := range c.bitWidths[1:] {
		if w < min {
			min = w
		}
	}
	return min
}

// Digest returns the blake3 fingerprint that interns this context in the
// registry.
func (c *Context[T]) Digest() [32]byte {
	return c.digest
}

// Equal returns true if the two contexts describe the same ring. Because
// contexts are interned, this reduces to a pointer comparison.
func (c *Context[T]) Equal(other *Context[T]) bool {
	return c == other
}

// WithoutLastModuli returns the context obtained by dropping the last n
// moduli of the chain. At least one modulus must remain. The receiver is
// left untouched; the returned context is the shared registry instance.
func (c *Context[T]) WithoutLastModuli(n int) (*Context[T], error) {
	if n < 0 || n >= len(c.moduli) {
		return nil, fmt.Errorf("cannot WithoutLastModuli: dropping %d of %d moduli: %w", n, len(c.moduli), ErrInsufficientModuli)
	}
	if n == 0 {
		return c, nil
	}
	return NewContext(c.degree, c.moduli[:len(c.moduli)-n])
}

// NewPoly allocates a zero polynomial with the dimensions of the context.
func (c *Context[T]) NewPoly() Poly[T] {
	return NewPoly[T](c.degree, len(c.moduli))
}
