package structs

import (
	"io"
	"testing"

	"github.com/privio/hepack/utils/buffer"
	"github.com/stretchr/testify/require"
)

// box is a minimal struct component used to exercise the interface-based
// dispatch of Vector.
type box struct {
	V uint64
}

func (b box) BinarySize() int {
	return 8
}

func (b box) CopyNew() *box {
	return &box{V: b.V}
}

func (b box) Equal(other *box) bool {
	return b.V == other.V
}

func (b box) WriteTo(w io.Writer) (int64, error) {
	return buffer.WriteUint64(w.(buffer.Writer), b.V)
}

func (b *box) ReadFrom(r io.Reader) (int64, error) {
	return buffer.ReadUint64(r.(buffer.Reader), &b.V)
}

func TestVector(t *testing.T) {

	t.Run("Scalar", func(t *testing.T) {
		v := Vector[uint64]{1, 2, 1 << 40}
		require.Equal(t, 8+3*8, v.BinarySize())

		p, err := v.MarshalBinary()
		require.NoError(t, err)
		require.Equal(t, v.BinarySize(), len(p))

		var w Vector[uint64]
		require.NoError(t, w.UnmarshalBinary(p))
		require.True(t, v.Equal(w))

		w[0]++
		require.False(t, v.Equal(w))

		cpy := v.CopyNew()
		cpy[0]++
		require.True(t, v.Equal(Vector[uint64]{1, 2, 1 << 40}))
	})

	t.Run("Struct", func(t *testing.T) {
		v := Vector[box]{{V: 3}, {V: 5}}
		require.Equal(t, 8+2*8, v.BinarySize())

		p, err := v.MarshalBinary()
		require.NoError(t, err)

		var w Vector[box]
		require.NoError(t, w.UnmarshalBinary(p))
		require.True(t, v.Equal(w))

		cpy := v.CopyNew()
		cpy[1].V = 7
		require.Equal(t, uint64(5), v[1].V)
	})

	t.Run("Empty", func(t *testing.T) {
		v := Vector[uint32]{}
		p, err := v.MarshalBinary()
		require.NoError(t, err)
		require.Equal(t, 8, len(p))

		var w Vector[uint32]
		require.NoError(t, w.UnmarshalBinary(p))
		require.Equal(t, 0, len(w))
	})
}
