package rlwe

import (
	"bufio"
	"fmt"
	"io"

	"github.com/privio/hepack/utils/buffer"
	"github.com/privio/hepack/utils/structs"
)

// CiphertextFormat tags the layout of a serialized ciphertext. It is a
// deterministic function of the ciphertext state, never chosen by the
// caller.
type CiphertextFormat uint8

const (
	// FormatFull means every polynomial component is present as packed
	// bytes.
	FormatFull CiphertextFormat = iota

	// FormatSeeded means the last component is replaced by the SeedSize
	// bytes it is deterministically regenerable from.
	FormatSeeded
)

// String implements fmt.Stringer.
func (f CiphertextFormat) String() string {
	switch f {
	case FormatFull:
		return "Full"
	case FormatSeeded:
		return "Seeded"
	default:
		return fmt.Sprintf("CiphertextFormat(%d)", uint8(f))
	}
}

// SerializedPoly holds the bit-packed residues of one polynomial. It
// carries no context reference: decoding requires the caller to supply a
// context of identical shape.
type SerializedPoly struct {
	Data []byte
}

// BinarySize returns the size in bytes of the object once marshalled.
func (s SerializedPoly) BinarySize() int {
	return 8 + len(s.Data)
}

// CopyNew returns a deep copy of the object.
func (s SerializedPoly) CopyNew() *SerializedPoly {
	return &SerializedPoly{Data: append([]byte(nil), s.Data...)}
}

// Equal performs a deep equal.
func (s SerializedPoly) Equal(other *SerializedPoly) bool {
	if len(s.Data) != len(other.Data) {
		return false
	}
	for i := range s.Data {
		if s.Data[i] != other.Data[i] {
			return false
		}
	}
	return true
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
func (s SerializedPoly) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:
		var inc int64
		if inc, err = buffer.WriteInt(w, len(s.Data)); err != nil {
			return n + inc, err
		}
		n += inc
		if inc, err = buffer.Write(w, s.Data); err != nil {
			return n + inc, err
		}
		return n + inc, w.Flush()
	default:
		return s.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads the object from an io.Reader. It implements the
// io.ReaderFrom interface.
func (s *SerializedPoly) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:
		var inc int64
		var size int
		if inc, err = buffer.ReadInt(r, &size); err != nil {
			return n + inc, err
		}
		n += inc
		if size < 0 {
			return n, fmt.Errorf("cannot ReadFrom: negative payload size")
		}
		s.Data = make([]byte, size)
		if inc, err = buffer.Read(r, s.Data); err != nil {
			return n + inc, err
		}
		return n + inc, nil
	default:
		return s.ReadFrom(bufio.NewReader(r))
	}
}

// SerializedPlaintext pairs one packed polynomial with its domain tag.
type SerializedPlaintext struct {
	IsNTT bool
	Poly  SerializedPoly
}

// BinarySize returns the size in bytes of the object once marshalled.
func (s SerializedPlaintext) BinarySize() int {
	return 1 + s.Poly.BinarySize()
}

// Equal performs a deep equal.
func (s SerializedPlaintext) Equal(other *SerializedPlaintext) bool {
	return s.IsNTT == other.IsNTT && s.Poly.Equal(&other.Poly)
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
func (s SerializedPlaintext) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:
		var inc int64
		if inc, err = buffer.WriteBool(w, s.IsNTT); err != nil {
			return n + inc, err
		}
		n += inc
		if inc, err = s.Poly.WriteTo(w); err != nil {
			return n + inc, err
		}
		return n + inc, w.Flush()
	default:
		return s.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads the object from an io.Reader. It implements the
// io.ReaderFrom interface.
func (s *SerializedPlaintext) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:
		var inc int64
		if inc, err = buffer.ReadBool(r, &s.IsNTT); err != nil {
			return n + inc, err
		}
		n += inc
		if inc, err = s.Poly.ReadFrom(r); err != nil {
			return n + inc, err
		}
		return n + inc, nil
	default:
		return s.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated
// slice of bytes.
func (s SerializedPlaintext) MarshalBinary() (p []byte, err error) {
	buf := buffer.NewBufferSize(s.BinarySize())
	_, err = s.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by MarshalBinary or
// WriteTo on the object.
func (s *SerializedPlaintext) UnmarshalBinary(p []byte) (err error) {
	_, err = s.ReadFrom(buffer.NewBuffer(p))
	return
}

// SerializedCiphertext is the wire-agnostic intermediate form of a
// ciphertext: an ordered list of packed components, or all but the last one
// plus the seed it is regenerable from, together with the metadata required
// to decode them against a matching context.
type SerializedCiphertext struct {
	// Format is Full or Seeded, derived from the ciphertext state.
	Format CiphertextFormat

	// IsNTT is the domain tag shared by all components.
	IsNTT bool

	// SkipBits is the number of low bits dropped from every residue by a
	// decryption-only serialization. Zero for lossless payloads.
	SkipBits uint8

	// Indices, when non-nil, lists the coefficient columns present in the
	// packed components. Nil means every column is present.
	Indices structs.Vector[uint32]

	// Polys holds the packed components, in component order. Under
	// FormatSeeded the last component is omitted.
	Polys structs.Vector[SerializedPoly]

	// Seed holds SeedSize bytes under FormatSeeded, nil otherwise.
	Seed []byte
}

// BinarySize returns the size in bytes of the object once marshalled.
func (s SerializedCiphertext) BinarySize() (size int) {
	size = 4 // format, domain, skip bits, indices presence flag
	if s.Indices != nil {
		size += s.Indices.BinarySize()
	}
	size += s.Polys.BinarySize()
	size += 8 + len(s.Seed)
	return
}

// CopyNew returns a deep copy of the object.
func (s SerializedCiphertext) CopyNew() *SerializedCiphertext {
	cpy := &SerializedCiphertext{
		Format:   s.Format,
		IsNTT:    s.IsNTT,
		SkipBits: s.SkipBits,
		Polys:    s.Polys.CopyNew(),
	}
	if s.Indices != nil {
		cpy.Indices = s.Indices.CopyNew()
	}
	if s.Seed != nil {
		cpy.Seed = append([]byte(nil), s.Seed...)
	}
	return cpy
}

// Equal performs a deep equal.
func (s SerializedCiphertext) Equal(other *SerializedCiphertext) bool {
	if s.Format != other.Format || s.IsNTT != other.IsNTT || s.SkipBits != other.SkipBits {
		return false
	}
	if (s.Indices == nil) != (other.Indices == nil) || !s.Indices.Equal(other.Indices) {
		return false
	}
	if !s.Polys.Equal(other.Polys) {
		return false
	}
	if len(s.Seed) != len(other.Seed) {
		return false
	}
	for i := range s.Seed {
		if s.Seed[i] != other.Seed[i] {
			return false
		}
	}
	return true
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
func (s SerializedCiphertext) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		var inc int64

		if inc, err = buffer.WriteUint8(w, uint8(s.Format)); err != nil {
			return n + inc, err
		}
		n += inc

		if inc, err = buffer.WriteBool(w, s.IsNTT); err != nil {
			return n + inc, err
		}
		n += inc

		if inc, err = buffer.WriteUint8(w, s.SkipBits); err != nil {
			return n + inc, err
		}
		n += inc

		if inc, err = buffer.WriteBool(w, s.Indices != nil); err != nil {
			return n + inc, err
		}
		n += inc

		if s.Indices != nil {
			if inc, err = s.Indices.WriteTo(w); err != nil {
				return n + inc, err
			}
			n += inc
		}

		if inc, err = s.Polys.WriteTo(w); err != nil {
			return n + inc, err
		}
		n += inc

		if inc, err = buffer.WriteInt(w, len(s.Seed)); err != nil {
			return n + inc, err
		}
		n += inc

		if inc, err = buffer.Write(w, s.Seed); err != nil {
			return n + inc, err
		}
		n += inc

		return n, w.Flush()

	default:
		return s.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads the object from an io.Reader. It implements the
// io.ReaderFrom interface.
func (s *SerializedCiphertext) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		var inc int64

		var format uint8
		if inc, err = buffer.ReadUint8(r, &format); err != nil {
			return n + inc, err
		}
		n += inc
		s.Format = CiphertextFormat(format)

		if inc, err = buffer.ReadBool(r, &s.IsNTT); err != nil {
			return n + inc, err
		}
		n += inc

		if inc, err = buffer.ReadUint8(r, &s.SkipBits); err != nil {
			return n + inc, err
		}
		n += inc

		var hasIndices bool
		if inc, err = buffer.ReadBool(r, &hasIndices); err != nil {
			return n + inc, err
		}
		n += inc

		if hasIndices {
			s.Indices = structs.Vector[uint32]{}
			if inc, err = s.Indices.ReadFrom(r); err != nil {
				return n + inc, err
			}
			n += inc
		} else {
			s.Indices = nil
		}

		if inc, err = s.Polys.ReadFrom(r); err != nil {
			return n + inc, err
		}
		n += inc

		var seedLen int
		if inc, err = buffer.ReadInt(r, &seedLen); err != nil {
			return n + inc, err
		}
		n += inc

		if seedLen < 0 {
			return n, fmt.Errorf("cannot ReadFrom: negative seed length")
		}

		if seedLen > 0 {
			s.Seed = make([]byte, seedLen)
			if inc, err = buffer.Read(r, s.Seed); err != nil {
				return n + inc, err
			}
			n += inc
		} else {
			s.Seed = nil
		}

		return n, nil

	default:
		return s.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated
// slice of bytes.
func (s SerializedCiphertext) MarshalBinary() (p []byte, err error) {
	buf := buffer.NewBufferSize(s.BinarySize())
	_, err = s.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by MarshalBinary or
// WriteTo on the object.
func (s *SerializedCiphertext) UnmarshalBinary(p []byte) (err error) {
	_, err = s.ReadFrom(buffer.NewBuffer(p))
	return
}

// PayloadSize returns the number of packed payload bytes carried by the
// container, seed included. This is the quantity the size-reduction modes
// (seeded, decryption-only, index subsets) shrink.
func (s SerializedCiphertext) PayloadSize() (size int) {
	for i := range s.Polys {
		size += len(s.Polys[i].Data)
	}
	return size + len(s.Seed)
}
