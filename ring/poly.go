package ring

import (
	"fmt"
)

// Poly is the dense residue store of a polynomial: one row of N residues
// per modulus, all rows resliced from a single row-major backing slice.
type Poly[T Scalar] struct {
	Coeffs [][]T // Dimension-2 view of the coefficients (re-slice of Buff)
	Buff   []T   // Dimension-1 backing slice
}

// NewPoly creates a new polynomial with n coefficients set to zero on each
// of the moduli rows.
func NewPoly[T Scalar](n, moduli int) Poly[T] {
	buff := make([]T, n*moduli)
	coeffs := make([][]T, moduli)
	for i := range coeffs {
		coeffs[i] = buff[i*n : (i+1)*n]
	}
	return Poly[T]{Coeffs: coeffs, Buff: buff}
}

// NewPolyFromBuff creates a polynomial of n coefficients per moduli row,
// taking ownership of the provided row-major backing slice. It returns
// ErrShapeMismatch if the slice length is not n*moduli.
func NewPolyFromBuff[T Scalar](n, moduli int, buff []T) (Poly[T], error) {
	if len(buff) != n*moduli {
		return Poly[T]{}, fmt.Errorf("cannot NewPolyFromBuff: backing slice of length %d for %dx%d: %w", len(buff), moduli, n, ErrShapeMismatch)
	}
	coeffs := make([][]T, moduli)
	for i := range coeffs {
		coeffs[i] = buff[i*n : (i+1)*n]
	}
	return Poly[T]{Coeffs: coeffs, Buff: buff}, nil
}

// N returns the number of coefficients per moduli row of the polynomial.
func (p Poly[T]) N() int {
	return len(p.Coeffs[0])
}

// ModuliCount returns the number of moduli rows of the polynomial.
func (p Poly[T]) ModuliCount() int {
	return len(p.Coeffs)
}

// Level returns the number of moduli rows minus one.
func (p Poly[T]) Level() int {
	return len(p.Coeffs) - 1
}

// At returns the residue at the given (row, column) position, or
// ErrIndexOutOfBounds if the position is outside of the store.
func (p Poly[T]) At(row, col int) (T, error) {
	var zero T
	if row < 0 || row >= len(p.Coeffs) || col < 0 || col >= len(p.Coeffs[0]) {
		return zero, fmt.Errorf("cannot At(%d, %d) on %dx%d store: %w", row, col, len(p.Coeffs), len(p.Coeffs[0]), ErrIndexOutOfBounds)
	}
	return p.Coeffs[row][col], nil
}

// SetAt sets the residue at the given (row, column) position, or returns
// ErrIndexOutOfBounds if the position is outside of the store.
func (p Poly[T]) SetAt(row, col int, v T) error {
	if row < 0 || row >= len(p.Coeffs) || col < 0 || col >= len(p.Coeffs[0]) {
		return fmt.Errorf("cannot SetAt(%d, %d) on %dx%d store: %w", row, col, len(p.Coeffs), len(p.Coeffs[0]), ErrIndexOutOfBounds)
	}
	p.Coeffs[row][col] = v
	return nil
}

// Row returns the residues of the i-th moduli row, as a re-slice of the
// backing slice.
func (p Poly[T]) Row(i int) []T {
	return p.Coeffs[i]
}

// Trunc removes the trailing rows of the polynomial so that exactly moduli
// rows remain. It re-slices the backing slice and never copies. It returns
// ErrInsufficientModuli if less than one row would remain and leaves the
// polynomial unmodified in that case.
func (p *Poly[T]) Trunc(moduli int) error {
	if moduli < 1 || moduli > len(p.Coeffs) {
		return fmt.Errorf("cannot Trunc %d rows to %d: %w", len(p.Coeffs), moduli, ErrInsufficientModuli)
	}
	n := p.N()
	p.Buff = p.Buff[:n*moduli]
	p.Coeffs = p.Coeffs[:moduli]
	return nil
}

// Zero sets all residues of the polynomial to 0.
func (p Poly[T]) Zero() {
	for i := range p.Buff {
		p.Buff[i] = 0
	}
}

// CopyNew returns a deep copy of the polynomial.
func (p Poly[T]) CopyNew() *Poly[T] {
	cpy := NewPoly[T](p.N(), p.ModuliCount())
	copy(cpy.Buff, p.Buff)
	return &cpy
}

// Copy copies the residues of other on the receiver. Shapes must match.
func (p Poly[T]) Copy(other *Poly[T]) {
	copy(p.Buff, other.Buff)
}

// Equal returns true if both polynomials have the same shape and strictly
// identical residues.
func (p Poly[T]) Equal(other *Poly[T]) bool {
	if len(p.Buff) != len(other.Buff) || len(p.Coeffs) != len(other.Coeffs) {
		return false
	}
	for i := range p.Buff {
		if p.Buff[i] != other.Buff[i] {
			return false
		}
	}
	return true
}
