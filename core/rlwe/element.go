package rlwe

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/privio/hepack/ring"
)

// Element is the generic container shared by plaintexts, ciphertexts and
// keys: a vector of polynomials over one shared immutable ring context,
// tagged with a common domain. The context is held by reference and never
// owned; many elements may point to the same Context instance.
type Element[T ring.Scalar] struct {
	*MetaData

	// Ctx describes the ring every polynomial of Value lives in.
	Ctx *ring.Context[T]

	// Value holds the polynomial components, all with the shape of Ctx.
	Value []ring.Poly[T]
}

// NewElement allocates a new zero Element of the given degree (degree+1
// polynomial components) over ctx.
func NewElement[T ring.Scalar](ctx *ring.Context[T], degree int, isNTT bool) *Element[T] {
	value := make([]ring.Poly[T], degree+1)
	for i := range value {
		value[i] = ctx.NewPoly()
	}
	return &Element[T]{
		MetaData: &MetaData{IsNTT: isNTT},
		Ctx:      ctx,
		Value:    value,
	}
}

// NewElementFromPolys wraps the provided polynomials into an Element over
// ctx, without copying. Every polynomial must have the shape of ctx.
func NewElementFromPolys[T ring.Scalar](ctx *ring.Context[T], polys []ring.Poly[T], isNTT bool) (*Element[T], error) {
	for i := range polys {
		if polys[i].N() != ctx.N() || polys[i].ModuliCount() != ctx.ModuliCount() {
			return nil, fmt.Errorf("cannot NewElementFromPolys: component %d is %dx%d for a %dx%d context: %w",
				i, polys[i].ModuliCount(), polys[i].N(), ctx.ModuliCount(), ctx.N(), ring.ErrShapeMismatch)
		}
	}
	return &Element[T]{
		MetaData: &MetaData{IsNTT: isNTT},
		Ctx:      ctx,
		Value:    polys,
	}, nil
}

// N returns the ring degree of the element.
func (el *Element[T]) N() int {
	return el.Ctx.N()
}

// Degree returns the degree of the element, i.e. its number of polynomial
// components minus one.
func (el *Element[T]) Degree() int {
	return len(el.Value) - 1
}

// ModuliCount returns the current number of RNS moduli of the element.
func (el *Element[T]) ModuliCount() int {
	return el.Ctx.ModuliCount()
}

// Level returns the current number of RNS moduli of the element minus one.
func (el *Element[T]) Level() int {
	return el.Ctx.Level()
}

// El returns a pointer to the underlying Element.
func (el *Element[T]) El() *Element[T] {
	return el
}

// DropLastModuli removes the last n moduli rows from every component and
// re-points the element at the corresponding truncated context. The
// operation is in-place and irreversible; at least one modulus must remain.
// On failure the element is left unmodified.
func (el *Element[T]) DropLastModuli(n int) error {

	newCtx, err := el.Ctx.WithoutLastModuli(n)
	if err != nil {
		return fmt.Errorf("cannot DropLastModuli: %w", err)
	}

	keep := newCtx.ModuliCount()
	for i := range el.Value {
		if el.Value[i].ModuliCount() < keep {
			return fmt.Errorf("cannot DropLastModuli: component %d has %d moduli rows where %d are required: %w",
				i, el.Value[i].ModuliCount(), keep, ring.ErrShapeMismatch)
		}
	}

	for i := range el.Value {
		// Cannot fail: keep >= 1 and every component was checked above.
		_ = el.Value[i].Trunc(keep)
	}
	el.Ctx = newCtx

	return nil
}

// Equal performs a deep equal: same context, same domain tag and strictly
// identical coefficients.
func (el *Element[T]) Equal(other *Element[T]) bool {
	if !el.Ctx.Equal(other.Ctx) || !cmp.Equal(el.MetaData, other.MetaData) {
		return false
	}
	if len(el.Value) != len(other.Value) {
		return false
	}
	for i := range el.Value {
		if !el.Value[i].Equal(&other.Value[i]) {
			return false
		}
	}
	return true
}

// CopyNew returns a deep copy of the element. The context is shared, not
// copied.
func (el *Element[T]) CopyNew() *Element[T] {
	value := make([]ring.Poly[T], len(el.Value))
	for i := range value {
		value[i] = *el.Value[i].CopyNew()
	}
	return &Element[T]{
		MetaData: el.MetaData.CopyNew(),
		Ctx:      el.Ctx,
		Value:    value,
	}
}
