package ring

import (
	"sync"
	"testing"

	"github.com/privio/hepack/utils/sampling"
	"github.com/stretchr/testify/require"
)

func TestContext(t *testing.T) {

	t.Run("InvalidDegree", func(t *testing.T) {
		for _, degree := range []int{0, -4, 3, 6, 1 << (MaxLogN + 1)} {
			_, err := NewContext(degree, []uint64{97})
			require.ErrorIs(t, err, ErrInvalidParameters)
		}
	})

	t.Run("EmptyModuli", func(t *testing.T) {
		_, err := NewContext[uint64](16, nil)
		require.ErrorIs(t, err, ErrInvalidParameters)
	})

	t.Run("SmallModulus", func(t *testing.T) {
		_, err := NewContext(16, []uint64{97, 1})
		require.ErrorIs(t, err, ErrInvalidParameters)
		_, err = NewContext(16, []uint64{0})
		require.ErrorIs(t, err, ErrInvalidParameters)
	})

	t.Run("DuplicateModuli", func(t *testing.T) {
		_, err := NewContext(16, []uint64{2, 2, 3})
		require.ErrorIs(t, err, ErrInvalidParameters)
	})

	t.Run("OverwideModulus", func(t *testing.T) {
		// 2^31+1 needs 32 bits, which leaves no headroom on a 32-bit scalar.
		_, err := NewContext(16, []uint32{1<<31 + 1})
		require.ErrorIs(t, err, ErrInvalidParameters)
		_, err = NewContext(16, []uint32{1 << 31})
		require.NoError(t, err)
	})

	t.Run("BitWidths", func(t *testing.T) {
		ctx, err := NewContext(16, []uint64{2, 3, 5, 17, 65537})
		require.NoError(t, err)
		require.Equal(t, []int{1, 2, 3, 5, 17}, ctx.BitWidths())
		require.Equal(t, 1, ctx.MinBitWidth())
		require.Equal(t, 5, ctx.ModuliCount())
		require.Equal(t, 4, ctx.Level())
		require.Equal(t, 16, ctx.N())
		require.Equal(t, uint64(5), ctx.Modulus(2))
	})

	t.Run("Interning", func(t *testing.T) {
		a, err := NewContext(32, []uint64{97, 193})
		require.NoError(t, err)
		b, err := NewContext(32, []uint64{97, 193})
		require.NoError(t, err)
		require.True(t, a == b)
		require.True(t, a.Equal(b))

		c, err := NewContext(32, []uint64{193, 97})
		require.NoError(t, err)
		require.False(t, a == c)
		require.False(t, a.Equal(c))
		require.NotEqual(t, a.Digest(), c.Digest())
	})

	t.Run("ConcurrentInterning", func(t *testing.T) {
		const workers = 16
		ctxs := make([]*Context[uint64], workers)
		var wg sync.WaitGroup
		wg.Add(workers)
		for i := 0; i < workers; i++ {
			go func(i int) {
				defer wg.Done()
				ctx, err := NewContext(64, []uint64{7681, 12289})
				require.NoError(t, err)
				ctxs[i] = ctx
			}(i)
		}
		wg.Wait()
		for i := 1; i < workers; i++ {
			require.True(t, ctxs[0] == ctxs[i])
		}
	})

	t.Run("WithoutLastModuli", func(t *testing.T) {
		ctx, err := NewContext(16, []uint64{2, 3, 5})
		require.NoError(t, err)

		same, err := ctx.WithoutLastModuli(0)
		require.NoError(t, err)
		require.True(t, ctx == same)

		dropped, err := ctx.WithoutLastModuli(1)
		require.NoError(t, err)
		require.Equal(t, []uint64{2, 3}, dropped.Moduli())

		direct, err := NewContext(16, []uint64{2, 3})
		require.NoError(t, err)
		require.True(t, dropped == direct)

		// The receiver is untouched.
		require.Equal(t, []uint64{2, 3, 5}, ctx.Moduli())

		_, err = ctx.WithoutLastModuli(3)
		require.ErrorIs(t, err, ErrInsufficientModuli)
		_, err = ctx.WithoutLastModuli(-1)
		require.ErrorIs(t, err, ErrInsufficientModuli)
	})

	t.Run("DropScenario", func(t *testing.T) {
		ctx, err := NewContext(4, []uint64{2, 3, 5})
		require.NoError(t, err)

		p := ctx.NewPoly()
		copy(p.Coeffs[0], []uint64{0, 1, 0, 1})
		copy(p.Coeffs[1], []uint64{0, 1, 2, 0})
		copy(p.Coeffs[2], []uint64{0, 1, 2, 3})

		ctx, err = ctx.WithoutLastModuli(1)
		require.NoError(t, err)
		require.NoError(t, p.Trunc(ctx.ModuliCount()))
		require.Equal(t, []uint64{2, 3}, ctx.Moduli())
		require.Equal(t, []uint64{0, 1, 0, 1}, p.Coeffs[0])
		require.Equal(t, []uint64{0, 1, 2, 0}, p.Coeffs[1])

		ctx, err = ctx.WithoutLastModuli(1)
		require.NoError(t, err)
		require.NoError(t, p.Trunc(ctx.ModuliCount()))
		require.Equal(t, []uint64{2}, ctx.Moduli())
		require.Equal(t, 1, p.ModuliCount())
	})
}

func TestPoly(t *testing.T) {

	ctx, err := NewContext(8, []uint64{97, 193})
	require.NoError(t, err)

	t.Run("Shape", func(t *testing.T) {
		p := ctx.NewPoly()
		require.Equal(t, 8, p.N())
		require.Equal(t, 2, p.ModuliCount())
		require.Equal(t, 1, p.Level())
		require.Equal(t, 16, len(p.Buff))

		// Rows are reslices of the backing slice.
		p.Buff[8] = 42
		require.Equal(t, uint64(42), p.Coeffs[1][0])
	})

	t.Run("FromBuff", func(t *testing.T) {
		buff := make([]uint64, 16)
		buff[3] = 7
		p, err := NewPolyFromBuff(8, 2, buff)
		require.NoError(t, err)
		require.Equal(t, uint64(7), p.Coeffs[0][3])

		_, err = NewPolyFromBuff(8, 2, make([]uint64, 15))
		require.ErrorIs(t, err, ErrShapeMismatch)
	})

	t.Run("AtSetAt", func(t *testing.T) {
		p := ctx.NewPoly()
		require.NoError(t, p.SetAt(1, 3, 42))
		v, err := p.At(1, 3)
		require.NoError(t, err)
		require.Equal(t, uint64(42), v)

		_, err = p.At(2, 0)
		require.ErrorIs(t, err, ErrIndexOutOfBounds)
		_, err = p.At(0, 8)
		require.ErrorIs(t, err, ErrIndexOutOfBounds)
		require.ErrorIs(t, p.SetAt(-1, 0, 0), ErrIndexOutOfBounds)
		require.ErrorIs(t, p.SetAt(0, -1, 0), ErrIndexOutOfBounds)
	})

	t.Run("Trunc", func(t *testing.T) {
		p := ctx.NewPoly()
		require.ErrorIs(t, p.Trunc(0), ErrInsufficientModuli)
		require.ErrorIs(t, p.Trunc(3), ErrInsufficientModuli)
		require.Equal(t, 2, p.ModuliCount())

		require.NoError(t, p.Trunc(1))
		require.Equal(t, 1, p.ModuliCount())
		require.Equal(t, 8, len(p.Buff))
	})

	t.Run("CopyEqual", func(t *testing.T) {
		p := ctx.NewPoly()
		require.NoError(t, p.SetAt(0, 0, 1))

		cpy := p.CopyNew()
		require.True(t, p.Equal(cpy))

		cpy.Coeffs[0][0] = 2
		require.False(t, p.Equal(cpy))

		p.Copy(cpy)
		require.True(t, p.Equal(cpy))

		p.Zero()
		require.Equal(t, uint64(0), p.Coeffs[0][0])
	})
}

func TestUniformSampler(t *testing.T) {

	ctx, err := NewContext(64, []uint64{2, 97, 65537})
	require.NoError(t, err)

	seed := make([]byte, 32)
	seed[0] = 1

	t.Run("Bounds", func(t *testing.T) {
		prng, err := sampling.NewKeyedPRNG(seed)
		require.NoError(t, err)
		p, err := NewUniformSampler(prng, ctx).ReadNew()
		require.NoError(t, err)
		for i, row := range p.Coeffs {
			q := ctx.Modulus(i)
			for _, c := range row {
				require.Less(t, c, q)
			}
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		prngA, err := sampling.NewKeyedPRNG(seed)
		require.NoError(t, err)
		prngB, err := sampling.NewKeyedPRNG(seed)
		require.NoError(t, err)

		a, err := NewUniformSampler(prngA, ctx).ReadNew()
		require.NoError(t, err)
		b, err := NewUniformSampler(prngB, ctx).ReadNew()
		require.NoError(t, err)
		require.True(t, a.Equal(&b))

		other := make([]byte, 32)
		other[0] = 2
		prngC, err := sampling.NewKeyedPRNG(other)
		require.NoError(t, err)
		c, err := NewUniformSampler(prngC, ctx).ReadNew()
		require.NoError(t, err)
		require.False(t, a.Equal(&c))
	})

	t.Run("ShapeMismatch", func(t *testing.T) {
		prng, err := sampling.NewKeyedPRNG(seed)
		require.NoError(t, err)
		s := NewUniformSampler(prng, ctx)
		require.ErrorIs(t, s.Read(NewPoly[uint64](32, 3)), ErrShapeMismatch)
		require.ErrorIs(t, s.Read(NewPoly[uint64](64, 2)), ErrShapeMismatch)
	})
}
