package structs

import (
	"bufio"
	"fmt"
	"io"

	"github.com/privio/hepack/utils/buffer"
)

// Vector is a struct wrapping a slice of components of type T.
// T can be uint8, uint32, uint64 or any struct implementing CopyNewer,
// BinarySizer, Equatable, io.WriterTo or io.ReaderFrom, depending on the
// method called.
type Vector[T any] []T

// CopyNew returns a deep copy of the object.
// If T is a struct, this method requires that T implements CopyNewer.
func (v Vector[T]) CopyNew() (vcpy Vector[T]) {
	var t T
	switch any(t).(type) {
	case uint8, uint32, uint64:
		vcpy = make([]T, len(v))
		copy(vcpy, v)
	default:
		if _, isCopiable := any(&t).(CopyNewer[T]); !isCopiable {
			panic(fmt.Errorf("vector component of type %T does not comply to %T", t, new(CopyNewer[T])))
		}
		vcpy = make([]T, len(v))
		for i := range v {
			vcpy[i] = *any(&v[i]).(CopyNewer[T]).CopyNew()
		}
	}
	return
}

// BinarySize returns the serialized size of the object in bytes.
// If T is a struct, this method requires that T implements BinarySizer.
func (v Vector[T]) BinarySize() (size int) {
	size = 8
	var t T
	switch any(t).(type) {
	case uint8:
		size += len(v)
	case uint32:
		size += len(v) * 4
	case uint64:
		size += len(v) * 8
	default:
		if _, isSizable := any(&t).(BinarySizer); !isSizable {
			panic(fmt.Errorf("vector component of type %T does not comply to %T", t, new(BinarySizer)))
		}
		for i := range v {
			size += any(&v[i]).(BinarySizer).BinarySize()
		}
	}
	return
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
//
// If T is a struct, this method requires that T implements io.WriterTo.
//
// Unless w implements the buffer.Writer interface, it will be wrapped into
// a bufio.Writer.
func (v Vector[T]) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		var inc int64
		if inc, err = buffer.WriteInt(w, len(v)); err != nil {
			return inc, fmt.Errorf("buffer.WriteInt: %w", err)
		}
		n += inc

		var t T
		switch any(t).(type) {
		case uint8:
			for i := range v {
				if inc, err = buffer.WriteUint8(w, any(v[i]).(uint8)); err != nil {
					return n + inc, err
				}
				n += inc
			}
		case uint32:
			for i := range v {
				if inc, err = buffer.WriteUint32(w, any(v[i]).(uint32)); err != nil {
					return n + inc, err
				}
				n += inc
			}
		case uint64:
			for i := range v {
				if inc, err = buffer.WriteUint64(w, any(v[i]).(uint64)); err != nil {
					return n + inc, err
				}
				n += inc
			}
		default:
			if _, isWritable := any(&t).(io.WriterTo); !isWritable {
				return 0, fmt.Errorf("vector component of type %T does not comply to %T", t, new(io.WriterTo))
			}
			for i := range v {
				if inc, err = any(&v[i]).(io.WriterTo).WriteTo(w); err != nil {
					return n + inc, fmt.Errorf("%T.WriteTo: %w", t, err)
				}
				n += inc
			}
		}

		return n, w.Flush()

	default:
		return v.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads the object from an io.Reader. It implements the
// io.ReaderFrom interface.
//
// If T is a struct, this method requires that T implements io.ReaderFrom.
//
// Unless r implements the buffer.Reader interface, it will be wrapped into
// a bufio.Reader.
func (v *Vector[T]) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		var inc int64
		var size int
		if inc, err = buffer.ReadInt(r, &size); err != nil {
			return inc, fmt.Errorf("buffer.ReadInt: %w", err)
		}
		n += inc

		if size < 0 {
			return n, fmt.Errorf("cannot ReadFrom: negative vector size")
		}

		if cap(*v) < size {
			*v = make([]T, size)
		}
		*v = (*v)[:size]

		var t T
		switch any(t).(type) {
		case uint8:
			for i := range *v {
				var c uint8
				if inc, err = buffer.ReadUint8(r, &c); err != nil {
					return n + inc, err
				}
				(*v)[i] = any(c).(T)
				n += inc
			}
		case uint32:
			for i := range *v {
				var c uint32
				if inc, err = buffer.ReadUint32(r, &c); err != nil {
					return n + inc, err
				}
				(*v)[i] = any(c).(T)
				n += inc
			}
		case uint64:
			for i := range *v {
				var c uint64
				if inc, err = buffer.ReadUint64(r, &c); err != nil {
					return n + inc, err
				}
				(*v)[i] = any(c).(T)
				n += inc
			}
		default:
			if _, isReadable := any(&t).(io.ReaderFrom); !isReadable {
				return 0, fmt.Errorf("vector component of type %T does not comply to %T", t, new(io.ReaderFrom))
			}
			for i := range *v {
				if inc, err = any(&(*v)[i]).(io.ReaderFrom).ReadFrom(r); err != nil {
					return n + inc, fmt.Errorf("%T.ReadFrom: %w", t, err)
				}
				n += inc
			}
		}

		return n, nil

	default:
		return v.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated
// slice of bytes.
func (v Vector[T]) MarshalBinary() (p []byte, err error) {
	buf := buffer.NewBufferSize(v.BinarySize())
	_, err = v.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by MarshalBinary or
// WriteTo on the object.
func (v *Vector[T]) UnmarshalBinary(p []byte) (err error) {
	_, err = v.ReadFrom(buffer.NewBuffer(p))
	return
}

// Equal performs a deep equal.
// If T is a struct, this method requires that T implements Equatable.
func (v Vector[T]) Equal(other Vector[T]) bool {
	if len(v) != len(other) {
		return false
	}

	var t T
	switch any(t).(type) {
	case uint8, uint32, uint64:
		for i := range v {
			if any(v[i]) != any(other[i]) {
				return false
			}
		}
	default:
		if _, isEquatable := any(&t).(Equatable[T]); !isEquatable {
			panic(fmt.Errorf("vector component of type %T does not comply to %T", t, new(Equatable[T])))
		}
		for i := range v {
			if !any(&v[i]).(Equatable[T]).Equal(&other[i]) {
				return false
			}
		}
	}
	return true
}
