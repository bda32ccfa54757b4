package rlwe

import (
	"fmt"

	"github.com/privio/hepack/ring"
)

// Plaintext is a single-polynomial element.
type Plaintext[T ring.Scalar] struct {
	Element[T]
}

// NewPlaintext allocates a new zero Plaintext in the coefficient domain
// over ctx.
func NewPlaintext[T ring.Scalar](ctx *ring.Context[T]) *Plaintext[T] {
	return &Plaintext[T]{*NewElement(ctx, 0, false)}
}

// NewPlaintextFromPoly wraps the provided polynomial into a Plaintext over
// ctx, without copying.
func NewPlaintextFromPoly[T ring.Scalar](ctx *ring.Context[T], p ring.Poly[T], isNTT bool) (*Plaintext[T], error) {
	el, err := NewElementFromPolys(ctx, []ring.Poly[T]{p}, isNTT)
	if err != nil {
		return nil, fmt.Errorf("cannot NewPlaintextFromPoly: %w", err)
	}
	return &Plaintext[T]{*el}, nil
}

// Poly returns the single polynomial of the plaintext.
func (pt *Plaintext[T]) Poly() ring.Poly[T] {
	return pt.Value[0]
}

// Equal performs a deep equal.
func (pt *Plaintext[T]) Equal(other *Plaintext[T]) bool {
	return pt.Element.Equal(&other.Element)
}

// CopyNew returns a deep copy of the plaintext.
func (pt *Plaintext[T]) CopyNew() *Plaintext[T] {
	return &Plaintext[T]{*pt.Element.CopyNew()}
}

// Serialize packs the plaintext polynomial at full width. The plaintext
// must be in the coefficient domain.
func (pt *Plaintext[T]) Serialize() (*SerializedPlaintext, error) {

	if pt.IsNTT {
		return nil, fmt.Errorf("cannot Serialize: plaintext is not in the coefficient domain: %w", ErrWrongDomain)
	}

	data, err := pt.Ctx.PackPoly(pt.Value[0], nil, 0)
	if err != nil {
		return nil, fmt.Errorf("cannot Serialize: %w", err)
	}

	return &SerializedPlaintext{
		IsNTT: pt.IsNTT,
		Poly:  SerializedPoly{Data: data},
	}, nil
}

// DeserializePlaintext rebuilds a Plaintext from its serialized form under
// the supplied context, which must match the context the payload was
// packed under in degree and moduli.
func DeserializePlaintext[T ring.Scalar](sp *SerializedPlaintext, ctx *ring.Context[T]) (*Plaintext[T], error) {

	if len(sp.Poly.Data) != ctx.PackedSize(ctx.N(), 0) {
		return nil, fmt.Errorf("cannot DeserializePlaintext: %d payload bytes where the context requires %d: %w",
			len(sp.Poly.Data), ctx.PackedSize(ctx.N(), 0), ErrContextMismatch)
	}

	p, err := ctx.UnpackPoly(sp.Poly.Data, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("cannot DeserializePlaintext: %w", err)
	}

	return &Plaintext[T]{Element[T]{
		MetaData: &MetaData{IsNTT: sp.IsNTT},
		Ctx:      ctx,
		Value:    []ring.Poly[T]{p},
	}}, nil
}
