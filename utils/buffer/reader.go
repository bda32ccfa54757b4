package buffer

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Read reads len(c) bytes from r on c.
func Read(r Reader, c []byte) (n int64, err error) {
	nint, err := io.ReadFull(r, c)
	return int64(nint), err
}

// ReadUint8 reads a byte from r on c.
func ReadUint8(r Reader, c *uint8) (n int64, err error) {
	if c == nil {
		return 0, fmt.Errorf("cannot ReadUint8: c is nil")
	}
	var bb [1]byte
	nint, err := io.ReadFull(r, bb[:])
	*c = bb[0]
	return int64(nint), err
}

// ReadUint8Slice reads a slice of bytes from r on c.
func ReadUint8Slice(r Reader, c []uint8) (n int64, err error) {
	nint, err := io.ReadFull(r, c)
	return int64(nint), err
}

// ReadUint16 reads a uint16 from r on c.
func ReadUint16(r Reader, c *uint16) (n int64, err error) {
	if c == nil {
		return 0, fmt.Errorf("cannot ReadUint16: c is nil")
	}
	var bb [2]byte
	nint, err := io.ReadFull(r, bb[:])
	*c = binary.BigEndian.Uint16(bb[:])
	return int64(nint), err
}

// ReadUint32 reads a uint32 from r on c.
func ReadUint32(r Reader, c *uint32) (n int64, err error) {
	if c == nil {
		return 0, fmt.Errorf("cannot ReadUint32: c is nil")
	}
	var bb [4]byte
	nint, err := io.ReadFull(r, bb[:])
	*c = binary.BigEndian.Uint32(bb[:])
	return int64(nint), err
}

// ReadUint32Slice reads a slice of uint32 from r on c.
func ReadUint32Slice(r Reader, c []uint32) (n int64, err error) {
	var inc int64
	for i := range c {
		if inc, err = ReadUint32(r, &c[i]); err != nil {
			return n + inc, err
		}
		n += inc
	}
	return n, nil
}

// ReadUint64 reads a uint64 from r on c.
func ReadUint64(r Reader, c *uint64) (n int64, err error) {
	if c == nil {
		return 0, fmt.Errorf("cannot ReadUint64: c is nil")
	}
	var bb [8]byte
	nint, err := io.ReadFull(r, bb[:])
	*c = binary.BigEndian.Uint64(bb[:])
	return int64(nint), err
}

// ReadUint64Slice reads a slice of uint64 from r on c.
func ReadUint64Slice(r Reader, c []uint64) (n int64, err error) {
	var inc int64
	for i := range c {
		if inc, err = ReadUint64(r, &c[i]); err != nil {
			return n + inc, err
		}
		n += inc
	}
	return n, nil
}

// ReadInt reads an int encoded as a uint64 from r on c.
func ReadInt(r Reader, c *int) (n int64, err error) {
	if c == nil {
		return 0, fmt.Errorf("cannot ReadInt: c is nil")
	}
	var u uint64
	n, err = ReadUint64(r, &u)
	*c = int(u)
	return n, err
}

// ReadBool reads a single byte from r on c, mapping any non-zero value
// to true.
func ReadBool(r Reader, c *bool) (n int64, err error) {
	if c == nil {
		return 0, fmt.Errorf("cannot ReadBool: c is nil")
	}
	var b uint8
	n, err = ReadUint8(r, &b)
	*c = b != 0
	return n, err
}
