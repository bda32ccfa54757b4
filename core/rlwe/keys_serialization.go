package rlwe

import (
	"bufio"
	"io"

	"github.com/privio/hepack/utils/buffer"
	"github.com/privio/hepack/utils/structs"
)

// SerializedEvaluationKey is the wire-agnostic form of an EvaluationKey:
// its ciphertext components in order, each possibly seed-compressed.
type SerializedEvaluationKey struct {
	Components structs.Vector[SerializedCiphertext]
}

// BinarySize returns the size in bytes of the object once marshalled.
func (s SerializedEvaluationKey) BinarySize() int {
	return s.Components.BinarySize()
}

// CopyNew returns a deep copy of the object.
func (s SerializedEvaluationKey) CopyNew() *SerializedEvaluationKey {
	return &SerializedEvaluationKey{Components: s.Components.CopyNew()}
}

// Equal performs a deep equal.
func (s SerializedEvaluationKey) Equal(other *SerializedEvaluationKey) bool {
	return s.Components.Equal(other.Components)
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
func (s SerializedEvaluationKey) WriteTo(w io.Writer) (n int64, err error) {
	return s.Components.WriteTo(w)
}

// ReadFrom reads the object from an io.Reader. It implements the
// io.ReaderFrom interface.
func (s *SerializedEvaluationKey) ReadFrom(r io.Reader) (n int64, err error) {
	return s.Components.ReadFrom(r)
}

// SerializedGaloisKey pairs the serialized key-switching material with the
// Galois element it rotates by.
type SerializedGaloisKey struct {
	GaloisElement uint64
	Key           SerializedEvaluationKey
}

// BinarySize returns the size in bytes of the object once marshalled.
func (s SerializedGaloisKey) BinarySize() int {
	return 8 + s.Key.BinarySize()
}

// CopyNew returns a deep copy of the object.
func (s SerializedGaloisKey) CopyNew() *SerializedGaloisKey {
	return &SerializedGaloisKey{GaloisElement: s.GaloisElement, Key: *s.Key.CopyNew()}
}

// Equal performs a deep equal.
func (s SerializedGaloisKey) Equal(other *SerializedGaloisKey) bool {
	return s.GaloisElement == other.GaloisElement && s.Key.Equal(&other.Key)
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
func (s SerializedGaloisKey) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:
		var inc int64
		if inc, err = buffer.WriteUint64(w, s.GaloisElement); err != nil {
			return n + inc, err
		}
		n += inc
		if inc, err = s.Key.WriteTo(w); err != nil {
			return n + inc, err
		}
		return n + inc, w.Flush()
	default:
		return s.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads the object from an io.Reader. It implements the
// io.ReaderFrom interface.
func (s *SerializedGaloisKey) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:
		var inc int64
		if inc, err = buffer.ReadUint64(r, &s.GaloisElement); err != nil {
			return n + inc, err
		}
		n += inc
		if inc, err = s.Key.ReadFrom(r); err != nil {
			return n + inc, err
		}
		return n + inc, nil
	default:
		return s.ReadFrom(bufio.NewReader(r))
	}
}

// SerializedKeySet is the wire-agnostic form of a KeySet: the configuration
// it was generated for, followed by exactly the components that
// configuration requests. Galois keys appear in increasing element order.
type SerializedKeySet struct {
	Config          EvaluationKeyConfig
	Secret          *SerializedPlaintext
	Galois          structs.Vector[SerializedGaloisKey]
	Relinearization *SerializedEvaluationKey
}

// BinarySize returns the size in bytes of the object once marshalled.
func (s SerializedKeySet) BinarySize() (size int) {
	size = s.Config.BinarySize() + 2 // secret and relinearization presence flags
	if s.Secret != nil {
		size += s.Secret.BinarySize()
	}
	size += s.Galois.BinarySize()
	if s.Relinearization != nil {
		size += s.Relinearization.BinarySize()
	}
	return
}

// Equal performs a deep equal.
func (s SerializedKeySet) Equal(other *SerializedKeySet) bool {
	if !s.Config.Equal(&other.Config) {
		return false
	}
	if (s.Secret == nil) != (other.Secret == nil) {
		return false
	}
	if s.Secret != nil && !s.Secret.Equal(other.Secret) {
		return false
	}
	if !s.Galois.Equal(other.Galois) {
		return false
	}
	if (s.Relinearization == nil) != (other.Relinearization == nil) {
		return false
	}
	if s.Relinearization != nil && !s.Relinearization.Equal(other.Relinearization) {
		return false
	}
	return true
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
func (s SerializedKeySet) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		var inc int64

		if inc, err = s.Config.WriteTo(w); err != nil {
			return n + inc, err
		}
		n += inc

		if inc, err = buffer.WriteBool(w, s.Secret != nil); err != nil {
			return n + inc, err
		}
		n += inc

		if s.Secret != nil {
			if inc, err = s.Secret.WriteTo(w); err != nil {
				return n + inc, err
			}
			n += inc
		}

		if inc, err = s.Galois.WriteTo(w); err != nil {
			return n + inc, err
		}
		n += inc

		if inc, err = buffer.WriteBool(w, s.Relinearization != nil); err != nil {
			return n + inc, err
		}
		n += inc

		if s.Relinearization != nil {
			if inc, err = s.Relinearization.WriteTo(w); err != nil {
				return n + inc, err
			}
			n += inc
		}

		return n, w.Flush()

	default:
		return s.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads the object from an io.Reader. It implements the
// io.ReaderFrom interface.
func (s *SerializedKeySet) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		var inc int64

		if inc, err = s.Config.ReadFrom(r); err != nil {
			return n + inc, err
		}
		n += inc

		var hasSecret bool
		if inc, err = buffer.ReadBool(r, &hasSecret); err != nil {
			return n + inc, err
		}
		n += inc

		if hasSecret {
			s.Secret = &SerializedPlaintext{}
			if inc, err = s.Secret.ReadFrom(r); err != nil {
				return n + inc, err
			}
			n += inc
		} else {
			s.Secret = nil
		}

		if inc, err = s.Galois.ReadFrom(r); err != nil {
			return n + inc, err
		}
		n += inc

		var hasRelin bool
		if inc, err = buffer.ReadBool(r, &hasRelin); err != nil {
			return n + inc, err
		}
		n += inc

		if hasRelin {
			s.Relinearization = &SerializedEvaluationKey{}
			if inc, err = s.Relinearization.ReadFrom(r); err != nil {
				return n + inc, err
			}
			n += inc
		} else {
			s.Relinearization = nil
		}

		return n, nil

	default:
		return s.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated
// slice of bytes.
func (s SerializedKeySet) MarshalBinary() (p []byte, err error) {
	buf := buffer.NewBufferSize(s.BinarySize())
	_, err = s.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by MarshalBinary or
// WriteTo on the object.
func (s *SerializedKeySet) UnmarshalBinary(p []byte) (err error) {
	_, err = s.ReadFrom(buffer.NewBuffer(p))
	return
}
