package ring

import (
	"fmt"
)

// The packed form of a moduli row is the concatenation of its residues,
// each written as a fixed-width little-endian bit chunk of
// ceil(log2(modulus)) bits. Chunks are packed contiguously across the row
// without per-residue byte alignment, and the trailing partial byte of a
// row, if any, is zero-padded. Rows are concatenated in modulus order.

// PackedRowSize returns the number of bytes occupied by cols residues
// packed at the given bit width.
func PackedRowSize(cols, bitWidth int) int {
	return (cols*bitWidth + 7) >> 3
}

// checkPackWidth validates 0 < bitWidth-skip and bitWidth < scalar width.
func checkPackWidth[T Scalar](bitWidth, skip int) error {
	if bitWidth < 1 || bitWidth >= scalarBits[T]() {
		return fmt.Errorf("bit width %d outside of (0, %d): %w", bitWidth, scalarBits[T](), ErrInvalidParameters)
	}
	if skip < 0 || skip >= bitWidth {
		return fmt.Errorf("skip bits %d outside of [0, %d): %w", skip, bitWidth, ErrInvalidParameters)
	}
	return nil
}

// packRow packs src at width bitWidth-skip, dropping the skip low bits of
// every residue. It assumes dst is large enough and all arguments are
// validated. Returns the number of bytes written.
func packRow[T Scalar](dst []byte, src []T, bitWidth, skip int) int {
	w := bitWidth - skip
	mask := (uint64(1) << w) - 1

	var acc uint64
	var accBits, n int

	for _, c := range src {
		x := (uint64(c) >> skip) & mask

		// acc holds at most 7 bits here, so at least 57 bits of x fit.
		free := 64 - accBits
		acc |= x << accBits

		var hi uint64
		var hiBits int
		if w > free {
			hi = x >> free
			hiBits = w - free
			accBits = 64
		} else {
			accBits += w
		}

		for accBits >= 8 {
			dst[n] = byte(acc)
			n++
			acc >>= 8
			accBits -= 8
		}

		if hiBits > 0 {
			acc |= hi << accBits
			accBits += hiBits
		}
	}

	if accBits > 0 {
		dst[n] = byte(acc)
		n++
	}

	return n
}

// unpackRow is the inverse of packRow: it decodes len(dst) residues packed
// at width bitWidth-skip and restores the dropped low bits as zeros. It
// assumes src is large enough and all arguments are validated. Returns the
// number of bytes consumed.
func unpackRow[T Scalar](dst []T, src []byte, bitWidth, skip int) int {
	w := bitWidth - skip
	mask := (uint64(1) << w) - 1

	var acc uint64
	var accBits, off int

	for i := range dst {
		x := acc
		got := accBits

		if got >= w {
			acc >>= w
			accBits -= w
		} else {
			for got < w {
				x |= uint64(src[off]) << got
				off++
				got += 8
			}
			// The top got-w bits of the last byte belong to the next residue.
			accBits = got - w
			acc = uint64(src[off-1]) >> (8 - accBits)
		}

		dst[i] = T((x & mask) << skip)
	}

	return off
}

// PackRow packs the residues of src on dst, each on bitWidth bits. It
// returns the number of bytes written.
func PackRow[T Scalar](dst []byte, src []T, bitWidth int) (int, error) {
	return PackRowSkip(dst, src, bitWidth, 0)
}

// PackRowSkip packs the residues of src on dst at the reduced width
// bitWidth-skip, dropping the skip low bits of every residue. The dropped
// bits are not recoverable: unpacking zero-fills them.
func PackRowSkip[T Scalar](dst []byte, src []T, bitWidth, skip int) (int, error) {
	if err := checkPackWidth[T](bitWidth, skip); err != nil {
		return 0, fmt.Errorf("cannot PackRow: %w", err)
	}
	if len(dst) < PackedRowSize(len(src), bitWidth-skip) {
		return 0, fmt.Errorf("cannot PackRow: destination buffer too small")
	}
	return packRow(dst, src, bitWidth, skip), nil
}

// UnpackRow decodes len(dst) residues of bitWidth bits from src on dst. It
// returns the number of bytes consumed, and ErrTruncatedInput if src is
// shorter than the packed row. The values of padding bits are ignored.
func UnpackRow[T Scalar](dst []T, src []byte, bitWidth int) (int, error) {
	return UnpackRowSkip(dst, src, bitWidth, 0)
}

// UnpackRowSkip decodes len(dst) residues packed at the reduced width
// bitWidth-skip from src on dst, restoring the skip dropped low bits of
// every residue as zeros.
func UnpackRowSkip[T Scalar](dst []T, src []byte, bitWidth, skip int) (int, error) {
	if err := checkPackWidth[T](bitWidth, skip); err != nil {
		return 0, fmt.Errorf("cannot UnpackRow: %w", err)
	}
	if need := PackedRowSize(len(dst), bitWidth-skip); len(src) < need {
		return 0, fmt.Errorf("cannot UnpackRow: %d bytes where %d are required: %w", len(src), need, ErrTruncatedInput)
	}
	return unpackRow(dst, src, bitWidth, skip), nil
}

// PackRowIndex packs only the residues of src at the listed column indices,
// in the given order, each on bitWidth bits.
func PackRowIndex[T Scalar](dst []byte, src []T, indices []int, bitWidth int) (int, error) {
	if err := checkPackWidth[T](bitWidth, 0); err != nil {
		return 0, fmt.Errorf("cannot PackRowIndex: %w", err)
	}
	if len(dst) < PackedRowSize(len(indices), bitWidth) {
		return 0, fmt.Errorf("cannot PackRowIndex: destination buffer too small")
	}
	gathered := make([]T, len(indices))
	for k, idx := range indices {
		if idx < 0 || idx >= len(src) {
			return 0, fmt.Errorf("cannot PackRowIndex: index %d outside of [0, %d): %w", idx, len(src), ErrInvalidIndex)
		}
		gathered[k] = src[idx]
	}
	return packRow(dst, gathered, bitWidth, 0), nil
}

// UnpackRowIndex decodes len(indices) residues of bitWidth bits from src
// and scatters them on dst at the listed column indices. Columns not listed
// are left untouched.
func UnpackRowIndex[T Scalar](dst []T, src []byte, indices []int, bitWidth int) (int, error) {
	if err := checkPackWidth[T](bitWidth, 0); err != nil {
		return 0, fmt.Errorf("cannot UnpackRowIndex: %w", err)
	}
	if need := PackedRowSize(len(indices), bitWidth); len(src) < need {
		return 0, fmt.Errorf("cannot UnpackRowIndex: %d bytes where %d are required: %w", len(src), need, ErrTruncatedInput)
	}
	for _, idx := range indices {
		if idx < 0 || idx >= len(dst) {
			return 0, fmt.Errorf("cannot UnpackRowIndex: index %d outside of [0, %d): %w", idx, len(dst), ErrInvalidIndex)
		}
	}
	scattered := make([]T, len(indices))
	n := unpackRow(scattered, src, bitWidth, 0)
	for k, idx := range indices {
		dst[idx] = scattered[k]
	}
	return n, nil
}

// PackedSize returns the total number of bytes of a polynomial of the
// context packed over cols columns with skip dropped low bits per residue.
func (c *Context[T]) PackedSize(cols, skip int) int {
	var size int
	for _, w := range c.bitWidths {
		size += PackedRowSize(cols, w-skip)
	}
	return size
}

// checkPolySkip validates a skip count against the context moduli chain.
func (c *Context[T]) checkPolySkip(skip int) error {
	if skip < 0 || skip >= c.MinBitWidth() {
		return fmt.Errorf("skip bits %d outside of [0, %d): %w", skip, c.MinBitWidth(), ErrInvalidParameters)
	}
	return nil
}

// PackPoly packs the rows of p in modulus order, each residue on the
// context's per-modulus bit width reduced by skip. If indices is non-nil,
// only the listed coefficient columns are packed, in the given order.
func (c *Context[T]) PackPoly(p Poly[T], indices []int, skip int) ([]byte, error) {

	if p.N() != c.degree || p.ModuliCount() != len(c.moduli) {
		return nil, fmt.Errorf("cannot PackPoly: %dx%d store for a %dx%d context: %w", p.ModuliCount(), p.N(), len(c.moduli), c.degree, ErrShapeMismatch)
	}

	if err := c.checkPolySkip(skip); err != nil {
		return nil, fmt.Errorf("cannot PackPoly: %w", err)
	}

	cols := c.degree
	if indices != nil {
		for _, idx := range indices {
			if idx < 0 || idx >= c.degree {
				return nil, fmt.Errorf("cannot PackPoly: index %d outside of [0, %d): %w", idx, c.degree, ErrInvalidIndex)
			}
		}
		cols = len(indices)
	}

	data := make([]byte, c.PackedSize(cols, skip))

	var off int
	for i, row := range p.Coeffs {
		if indices != nil {
			gathered := make([]T, len(indices))
			for k, idx := range indices {
				gathered[k] = row[idx]
			}
			row = gathered
		}
		off += packRow(data[off:], row, c.bitWidths[i], skip)
	}

	return data, nil
}

// UnpackPoly is the inverse of PackPoly. Coefficient columns not listed in
// a non-nil indices are unspecified (left zero); residues packed with a
// non-zero skip have their dropped low bits restored as zeros.
func (c *Context[T]) UnpackPoly(data []byte, indices []int, skip int) (Poly[T], error) {

	if err := c.checkPolySkip(skip); err != nil {
		return Poly[T]{}, fmt.Errorf("cannot UnpackPoly: %w", err)
	}

	cols := c.degree
	if indices != nil {
		for _, idx := range indices {
			if idx < 0 || idx >= c.degree {
				return Poly[T]{}, fmt.Errorf("cannot UnpackPoly: index %d outside of [0, %d): %w", idx, c.degree, ErrInvalidIndex)
			}
		}
		cols = len(indices)
	}

	if need := c.PackedSize(cols, skip); len(data) < need {
		return Poly[T]{}, fmt.Errorf("cannot UnpackPoly: %d bytes where %d are required: %w", len(data), need, ErrTruncatedInput)
	}

	p := c.NewPoly()

	var off int
	for i, row := range p.Coeffs {
		if indices != nil {
			scattered := make([]T, len(indices))
			off += unpackRow(scattered, data[off:], c.bitWidths[i], skip)
			for k, idx := range indices {
				row[idx] = scattered[k]
			}
		} else {
			off += unpackRow(row, data[off:], c.bitWidths[i], skip)
		}
	}

	return p, nil
}
