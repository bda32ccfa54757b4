package buffer

import (
	"encoding/binary"
)

// Write writes a slice of bytes on w.
func Write(w Writer, c []byte) (n int64, err error) {
	nint, err := w.Write(c)
	return int64(nint), err
}

// WriteUint8 writes a byte c on w.
func WriteUint8(w Writer, c uint8) (n int64, err error) {
	nint, err := w.Write([]byte{c})
	return int64(nint), err
}

// WriteUint8Slice writes a slice of bytes c on w.
func WriteUint8Slice(w Writer, c []uint8) (n int64, err error) {
	nint, err := w.Write(c)
	return int64(nint), err
}

// WriteUint16 writes a uint16 c on w.
func WriteUint16(w Writer, c uint16) (n int64, err error) {
	var bb [2]byte
	binary.BigEndian.PutUint16(bb[:], c)
	nint, err := w.Write(bb[:])
	return int64(nint), err
}

// WriteUint32 writes a uint32 c on w.
func WriteUint32(w Writer, c uint32) (n int64, err error) {
	var bb [4]byte
	binary.BigEndian.PutUint32(bb[:], c)
	nint, err := w.Write(bb[:])
	return int64(nint), err
}

// WriteUint32Slice writes a slice of uint32 c on w.
func WriteUint32Slice(w Writer, c []uint32) (n int64, err error) {
	var inc int64
	for _, ci := range c {
		if inc, err = WriteUint32(w, ci); err != nil {
			return n + inc, err
		}
		n += inc
	}
	return n, nil
}

// WriteUint64 writes a uint64 c on w.
func WriteUint64(w Writer, c uint64) (n int64, err error) {
	var bb [8]byte
	binary.BigEndian.PutUint64(bb[:], c)
	nint, err := w.Write(bb[:])
	return int64(nint), err
}

// WriteUint64Slice writes a slice of uint64 c on w.
func WriteUint64Slice(w Writer, c []uint64) (n int64, err error) {
	var inc int64
	for _, ci := range c {
		if inc, err = WriteUint64(w, ci); err != nil {
			return n + inc, err
		}
		n += inc
	}
	return n, nil
}

// WriteInt writes an int c on w as a uint64.
func WriteInt(w Writer, c int) (n int64, err error) {
	return WriteUint64(w, uint64(c))
}

// WriteBool writes a bool c on w as a single byte.
func WriteBool(w Writer, c bool) (n int64, err error) {
	var b uint8
	if c {
		b = 1
	}
	return WriteUint8(w, b)
}
