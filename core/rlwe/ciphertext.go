package rlwe

import (
	"fmt"

	"github.com/privio/hepack/ring"
	"github.com/privio/hepack/utils/sampling"
	"github.com/privio/hepack/utils/structs"
)

// Ciphertext is an ordered sequence of polynomial components sharing one
// context and one domain tag. A ciphertext whose last component was drawn
// deterministically from a seed keeps that seed around, so that its
// serialized form can ship the seed instead of the component.
type Ciphertext[T ring.Scalar] struct {
	Element[T]

	// Seed, when SeedSize bytes long, regenerates the last component
	// through a UniformSampler over a KeyedPRNG. It is cleared by
	// DropLastModuli since the expansion is bound to the construction-time
	// moduli chain.
	Seed []byte
}

// NewCiphertext allocates a new zero Ciphertext of the given degree over
// ctx.
func NewCiphertext[T ring.Scalar](ctx *ring.Context[T], degree int, isNTT bool) *Ciphertext[T] {
	return &Ciphertext[T]{Element: *NewElement(ctx, degree, isNTT)}
}

// NewCiphertextFromPolys wraps the provided polynomials into a Ciphertext
// over ctx, without copying.
func NewCiphertextFromPolys[T ring.Scalar](ctx *ring.Context[T], polys []ring.Poly[T], isNTT bool) (*Ciphertext[T], error) {
	el, err := NewElementFromPolys(ctx, polys, isNTT)
	if err != nil {
		return nil, fmt.Errorf("cannot NewCiphertextFromPolys: %w", err)
	}
	return &Ciphertext[T]{Element: *el}, nil
}

// NewSeededCiphertext allocates a new degree-one Ciphertext whose last
// component is expanded from the provided SeedSize-byte seed. The first
// component is zero and is expected to be populated by the scheme layer.
func NewSeededCiphertext[T ring.Scalar](ctx *ring.Context[T], seed []byte, isNTT bool) (*Ciphertext[T], error) {

	if len(seed) != SeedSize {
		return nil, fmt.Errorf("cannot NewSeededCiphertext: seed of %d bytes where %d are required: %w", len(seed), SeedSize, ring.ErrInvalidParameters)
	}

	ct := NewCiphertext(ctx, 1, isNTT)

	if err := expandSeed(ctx, seed, ct.Value[1]); err != nil {
		return nil, fmt.Errorf("cannot NewSeededCiphertext: %w", err)
	}

	ct.Seed = append([]byte(nil), seed...)

	return ct, nil
}

// expandSeed deterministically fills p from the seed.
func expandSeed[T ring.Scalar](ctx *ring.Context[T], seed []byte, p ring.Poly[T]) error {
	prng, err := sampling.NewKeyedPRNG(seed)
	if err != nil {
		return err
	}
	return ring.NewUniformSampler(prng, ctx).Read(p)
}

// IsSeedable returns true if the serialized form of the ciphertext can
// replace its last component by a seed.
func (ct *Ciphertext[T]) IsSeedable() bool {
	return len(ct.Seed) == SeedSize && ct.Degree() == 1
}

// Format returns the serialization format of the ciphertext. The result is
// a pure function of the ciphertext state.
func (ct *Ciphertext[T]) Format() CiphertextFormat {
	if ct.IsSeedable() {
		return FormatSeeded
	}
	return FormatFull
}

// DropLastModuli removes the last n moduli from every component. The seed
// shortcut does not survive the switch: the expanded component is kept in
// its truncated form and the seed is discarded.
func (ct *Ciphertext[T]) DropLastModuli(n int) error {
	if err := ct.Element.DropLastModuli(n); err != nil {
		return err
	}
	if n > 0 {
		ct.Seed = nil
	}
	return nil
}

// Equal performs a deep equal of the expanded components.
func (ct *Ciphertext[T]) Equal(other *Ciphertext[T]) bool {
	return ct.Element.Equal(&other.Element)
}

// CopyNew returns a deep copy of the ciphertext.
func (ct *Ciphertext[T]) CopyNew() *Ciphertext[T] {
	cpy := &Ciphertext[T]{Element: *ct.Element.CopyNew()}
	if ct.Seed != nil {
		cpy.Seed = append([]byte(nil), ct.Seed...)
	}
	return cpy
}

// Serialize packs every component at full width. A seedable ciphertext
// ships its seed instead of its last component.
func (ct *Ciphertext[T]) Serialize() (*SerializedCiphertext, error) {
	return ct.serialize(0, nil)
}

// SerializeForDecryption packs every component with skipBits low bits
// dropped from each residue. The bound is supplied by the scheme layer (it
// is the largest count that still decrypts correctly) and is never derived
// here. The result decrypts but must not feed further homomorphic
// computation, as the dropped bits are unrecoverable.
func (ct *Ciphertext[T]) SerializeForDecryption(skipBits int) (*SerializedCiphertext, error) {
	return ct.serialize(skipBits, nil)
}

// SerializeIndices packs only the listed coefficient columns of every
// component, in the given order. The ciphertext must be in the coefficient
// domain, where a coefficient column is meaningful on its own.
func (ct *Ciphertext[T]) SerializeIndices(indices []int) (*SerializedCiphertext, error) {
	if indices == nil {
		indices = []int{}
	}
	return ct.serialize(0, indices)
}

func (ct *Ciphertext[T]) serialize(skipBits int, indices []int) (*SerializedCiphertext, error) {

	if indices != nil && ct.IsNTT {
		return nil, fmt.Errorf("cannot Serialize: index subsets are not defined in the evaluation domain: %w", ErrUnsupportedDomain)
	}

	format := ct.Format()

	components := ct.Value
	if format == FormatSeeded {
		components = components[:len(components)-1]
	}

	polys := make(structs.Vector[SerializedPoly], len(components))
	for i := range components {
		data, err := ct.Ctx.PackPoly(components[i], indices, skipBits)
		if err != nil {
			return nil, fmt.Errorf("cannot Serialize: component %d: %w", i, err)
		}
		polys[i] = SerializedPoly{Data: data}
	}

	sct := &SerializedCiphertext{
		Format:   format,
		IsNTT:    ct.IsNTT,
		SkipBits: uint8(skipBits),
		Polys:    polys,
	}

	if indices != nil {
		sct.Indices = make(structs.Vector[uint32], len(indices))
		for i, idx := range indices {
			sct.Indices[i] = uint32(idx)
		}
	}

	if format == FormatSeeded {
		sct.Seed = append([]byte(nil), ct.Seed...)
	}

	return sct, nil
}

// DeserializeCiphertext rebuilds a Ciphertext from its serialized form.
// moduliCount is the number of moduli the ciphertext held when it was
// serialized, which lets a caller rebuild it after an upstream modulus
// switch; it must be consistent with both ctx and the payload sizes.
// Residues serialized with a non-zero skip count are restored with their
// dropped low bits zeroed, and coefficient columns outside of a serialized
// index subset are unspecified.
func DeserializeCiphertext[T ring.Scalar](sct *SerializedCiphertext, ctx *ring.Context[T], moduliCount int) (*Ciphertext[T], error) {

	if moduliCount < 1 || moduliCount > ctx.ModuliCount() {
		return nil, fmt.Errorf("cannot DeserializeCiphertext: %d moduli under a context with %d: %w", moduliCount, ctx.ModuliCount(), ErrModuliCountMismatch)
	}

	dctx, err := ctx.WithoutLastModuli(ctx.ModuliCount() - moduliCount)
	if err != nil {
		return nil, fmt.Errorf("cannot DeserializeCiphertext: %w", err)
	}

	var indices []int
	cols := dctx.N()
	if sct.Indices != nil {
		indices = make([]int, len(sct.Indices))
		for i, idx := range sct.Indices {
			indices[i] = int(idx)
		}
		cols = len(indices)
	}

	skip := int(sct.SkipBits)

	expected := dctx.PackedSize(cols, skip)
	for i := range sct.Polys {
		if len(sct.Polys[i].Data) != expected {
			return nil, fmt.Errorf("cannot DeserializeCiphertext: component %d holds %d bytes where %d moduli imply %d: %w",
				i, len(sct.Polys[i].Data), moduliCount, expected, ErrModuliCountMismatch)
		}
	}

	if len(sct.Polys) == 0 {
		return nil, fmt.Errorf("cannot DeserializeCiphertext: payload with no packed component")
	}

	degree := len(sct.Polys) - 1
	if sct.Format == FormatSeeded {
		if len(sct.Seed) != SeedSize {
			return nil, fmt.Errorf("cannot DeserializeCiphertext: seeded payload with a %d-byte seed where %d are required", len(sct.Seed), SeedSize)
		}
		degree++
	}

	value := make([]ring.Poly[T], degree+1)
	for i := range sct.Polys {
		if value[i], err = dctx.UnpackPoly(sct.Polys[i].Data, indices, skip); err != nil {
			return nil, fmt.Errorf("cannot DeserializeCiphertext: component %d: %w", i, err)
		}
	}

	ct := &Ciphertext[T]{Element: Element[T]{
		MetaData: &MetaData{IsNTT: sct.IsNTT},
		Ctx:      dctx,
		Value:    value,
	}}

	if sct.Format == FormatSeeded {
		value[degree] = dctx.NewPoly()
		if err = expandSeed(dctx, sct.Seed, value[degree]); err != nil {
			return nil, fmt.Errorf("cannot DeserializeCiphertext: %w", err)
		}
		ct.Seed = append([]byte(nil), sct.Seed...)
	}

	return ct, nil
}
