package rlwe

import (
	"io"

	"github.com/privio/hepack/utils/buffer"
)

// MetaData stores the representation tags of an element.
type MetaData struct {
	// IsNTT is true if the element's polynomials are in the evaluation
	// (NTT) domain, false if they are in the coefficient domain. The tag is
	// carried through serialization; converting between the two domains is
	// the scheme layer's job.
	IsNTT bool
}

// CopyNew returns a copy of the target.
func (m MetaData) CopyNew() *MetaData {
	return &m
}

// Equal returns true if the two MetaData are identical.
func (m *MetaData) Equal(other *MetaData) bool {
	return m.IsNTT == other.IsNTT
}

// BinarySize returns the size in bytes of the object once marshalled.
func (m MetaData) BinarySize() int {
	return 1
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
func (m MetaData) WriteTo(w io.Writer) (n int64, err error) {
	if bw, ok := w.(buffer.Writer); ok {
		if n, err = buffer.WriteBool(bw, m.IsNTT); err != nil {
			return n, err
		}
		return n, bw.Flush()
	}
	var b [1]byte
	if m.IsNTT {
		b[0] = 1
	}
	nint, err := w.Write(b[:])
	return int64(nint), err
}

// ReadFrom reads the object from an io.Reader. It implements the
// io.ReaderFrom interface.
func (m *MetaData) ReadFrom(r io.Reader) (n int64, err error) {
	if br, ok := r.(buffer.Reader); ok {
		return buffer.ReadBool(br, &m.IsNTT)
	}
	var b [1]byte
	nint, err := io.ReadFull(r, b[:])
	m.IsNTT = b[0] != 0
	return int64(nint), err
}

// MarshalBinary encodes the object into a binary form on a newly allocated
// slice of bytes.
func (m MetaData) MarshalBinary() (p []byte, err error) {
	buf := buffer.NewBufferSize(m.BinarySize())
	_, err = m.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by MarshalBinary or
// WriteTo on the object.
func (m *MetaData) UnmarshalBinary(p []byte) (err error) {
	_, err = m.ReadFrom(buffer.NewBuffer(p))
	return
}
