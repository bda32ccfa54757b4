package rlwe

import (
	"testing"

	"github.com/privio/hepack/ring"
	"github.com/privio/hepack/utils/sampling"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) *ring.Context[uint64] {
	t.Helper()
	ctx, err := ring.NewContext(32, []uint64{7681, 65537, 1032193})
	require.NoError(t, err)
	return ctx
}

func testSeed(tag byte) []byte {
	seed := make([]byte, SeedSize)
	seed[0] = tag
	return seed
}

func randomPoly(t *testing.T, ctx *ring.Context[uint64], tag byte) ring.Poly[uint64] {
	t.Helper()
	prng, err := sampling.NewKeyedPRNG(testSeed(tag))
	require.NoError(t, err)
	p, err := ring.NewUniformSampler(prng, ctx).ReadNew()
	require.NoError(t, err)
	return p
}

func randomCiphertext(t *testing.T, ctx *ring.Context[uint64], degree int, isNTT bool, tag byte) *Ciphertext[uint64] {
	t.Helper()
	polys := make([]ring.Poly[uint64], degree+1)
	for i := range polys {
		polys[i] = randomPoly(t, ctx, tag+byte(i))
	}
	ct, err := NewCiphertextFromPolys(ctx, polys, isNTT)
	require.NoError(t, err)
	return ct
}

func TestMetaData(t *testing.T) {
	m := &MetaData{IsNTT: true}

	p, err := m.MarshalBinary()
	require.NoError(t, err)
	require.Equal(t, m.BinarySize(), len(p))

	other := new(MetaData)
	require.NoError(t, other.UnmarshalBinary(p))
	require.True(t, m.Equal(other))

	cpy := m.CopyNew()
	cpy.IsNTT = false
	require.True(t, m.IsNTT)
	require.False(t, m.Equal(cpy))
}

func TestElement(t *testing.T) {

	ctx := testContext(t)

	t.Run("New", func(t *testing.T) {
		el := NewElement(ctx, 2, true)
		require.Equal(t, 2, el.Degree())
		require.Equal(t, 32, el.N())
		require.Equal(t, 3, el.ModuliCount())
		require.Equal(t, 2, el.Level())
		require.True(t, el.IsNTT)
	})

	t.Run("FromPolys", func(t *testing.T) {
		_, err := NewElementFromPolys(ctx, []ring.Poly[uint64]{ring.NewPoly[uint64](16, 3)}, false)
		require.ErrorIs(t, err, ring.ErrShapeMismatch)
		_, err = NewElementFromPolys(ctx, []ring.Poly[uint64]{ring.NewPoly[uint64](32, 2)}, false)
		require.ErrorIs(t, err, ring.ErrShapeMismatch)
	})

	t.Run("DropLastModuli", func(t *testing.T) {
		el := NewElement(ctx, 1, false)
		require.NoError(t, el.DropLastModuli(1))
		require.Equal(t, 2, el.ModuliCount())
		require.Equal(t, []uint64{7681, 65537}, el.Ctx.Moduli())
		for i := range el.Value {
			require.Equal(t, 2, el.Value[i].ModuliCount())
		}

		require.ErrorIs(t, el.DropLastModuli(2), ring.ErrInsufficientModuli)
		require.Equal(t, 2, el.ModuliCount())
	})

	t.Run("CopyEqual", func(t *testing.T) {
		el, err := NewElementFromPolys(ctx, []ring.Poly[uint64]{randomPoly(t, ctx, 1)}, false)
		require.NoError(t, err)

		cpy := el.CopyNew()
		require.True(t, el.Equal(cpy))
		require.True(t, el.Ctx == cpy.Ctx)

		cpy.Value[0].Coeffs[0][0]++
		require.False(t, el.Equal(cpy))

		other := el.CopyNew()
		other.IsNTT = true
		require.False(t, el.Equal(other))
	})
}

func TestPlaintext(t *testing.T) {

	ctx := testContext(t)

	t.Run("RoundTrip", func(t *testing.T) {
		pt, err := NewPlaintextFromPoly(ctx, randomPoly(t, ctx, 2), false)
		require.NoError(t, err)

		sp, err := pt.Serialize()
		require.NoError(t, err)
		require.Equal(t, ctx.PackedSize(ctx.N(), 0), len(sp.Poly.Data))

		p, err := sp.MarshalBinary()
		require.NoError(t, err)
		require.Equal(t, sp.BinarySize(), len(p))

		back := new(SerializedPlaintext)
		require.NoError(t, back.UnmarshalBinary(p))
		require.True(t, sp.Equal(back))

		got, err := DeserializePlaintext(back, ctx)
		require.NoError(t, err)
		require.True(t, pt.Equal(got))
	})

	t.Run("WrongDomain", func(t *testing.T) {
		pt, err := NewPlaintextFromPoly(ctx, randomPoly(t, ctx, 3), true)
		require.NoError(t, err)
		_, err = pt.Serialize()
		require.ErrorIs(t, err, ErrWrongDomain)
	})

	t.Run("ContextMismatch", func(t *testing.T) {
		pt := NewPlaintext(ctx)
		sp, err := pt.Serialize()
		require.NoError(t, err)

		smaller, err := ctx.WithoutLastModuli(1)
		require.NoError(t, err)
		_, err = DeserializePlaintext(sp, smaller)
		require.ErrorIs(t, err, ErrContextMismatch)
	})
}

func TestCiphertext(t *testing.T) {

	ctx := testContext(t)

	t.Run("FullRoundTrip", func(t *testing.T) {
		ct := randomCiphertext(t, ctx, 2, true, 10)
		require.Equal(t, FormatFull, ct.Format())

		sct, err := ct.Serialize()
		require.NoError(t, err)
		require.Equal(t, FormatFull, sct.Format)
		require.Equal(t, 3, len(sct.Polys))
		require.Nil(t, sct.Indices)
		require.Nil(t, sct.Seed)

		p, err := sct.MarshalBinary()
		require.NoError(t, err)
		require.Equal(t, sct.BinarySize(), len(p))

		back := new(SerializedCiphertext)
		require.NoError(t, back.UnmarshalBinary(p))
		require.True(t, sct.Equal(back))

		got, err := DeserializeCiphertext(back, ctx, ctx.ModuliCount())
		require.NoError(t, err)
		require.True(t, ct.Equal(got))
	})

	t.Run("Seeded", func(t *testing.T) {
		ct, err := NewSeededCiphertext(ctx, testSeed(20), false)
		require.NoError(t, err)
		ct.Value[0].Copy(&randomCiphertext(t, ctx, 0, false, 21).Value[0])
		require.True(t, ct.IsSeedable())
		require.Equal(t, FormatSeeded, ct.Format())

		sct, err := ct.Serialize()
		require.NoError(t, err)
		require.Equal(t, FormatSeeded, sct.Format)
		require.Equal(t, 1, len(sct.Polys))
		require.Equal(t, SeedSize, len(sct.Seed))

		// The seed replaces a full packed component.
		full := ct.CopyNew()
		full.Seed = nil
		require.Equal(t, FormatFull, full.Format())
		fsct, err := full.Serialize()
		require.NoError(t, err)
		require.Less(t, sct.PayloadSize(), fsct.PayloadSize())

		got, err := DeserializeCiphertext(sct, ctx, ctx.ModuliCount())
		require.NoError(t, err)
		require.True(t, ct.Equal(got))
		require.True(t, got.IsSeedable())
	})

	t.Run("ForDecryption", func(t *testing.T) {
		const skip = 5
		ct := randomCiphertext(t, ctx, 1, false, 30)

		lossless, err := ct.Serialize()
		require.NoError(t, err)

		sct, err := ct.SerializeForDecryption(skip)
		require.NoError(t, err)
		require.Equal(t, uint8(skip), sct.SkipBits)
		require.Less(t, sct.PayloadSize(), lossless.PayloadSize())

		got, err := DeserializeCiphertext(sct, ctx, ctx.ModuliCount())
		require.NoError(t, err)
		for i := range ct.Value {
			for j, row := range ct.Value[i].Coeffs {
				for k, c := range row {
					require.Equal(t, c>>skip<<skip, got.Value[i].Coeffs[j][k])
				}
			}
		}

		_, err = ct.SerializeForDecryption(ctx.MinBitWidth())
		require.ErrorIs(t, err, ring.ErrInvalidParameters)
	})

	t.Run("Indices", func(t *testing.T) {
		ct := randomCiphertext(t, ctx, 1, false, 40)
		indices := []int{31, 0, 7}

		sct, err := ct.SerializeIndices(indices)
		require.NoError(t, err)
		require.NotNil(t, sct.Indices)
		require.Equal(t, 3, len(sct.Indices))

		got, err := DeserializeCiphertext(sct, ctx, ctx.ModuliCount())
		require.NoError(t, err)
		for i := range ct.Value {
			for j := range ct.Value[i].Coeffs {
				for _, idx := range indices {
					require.Equal(t, ct.Value[i].Coeffs[j][idx], got.Value[i].Coeffs[j][idx])
				}
			}
		}

		ntt := randomCiphertext(t, ctx, 1, true, 41)
		_, err = ntt.SerializeIndices(indices)
		require.ErrorIs(t, err, ErrUnsupportedDomain)

		_, err = ct.SerializeIndices([]int{32})
		require.ErrorIs(t, err, ring.ErrInvalidIndex)
	})

	t.Run("ModuliCountMismatch", func(t *testing.T) {
		ct := randomCiphertext(t, ctx, 1, true, 50)
		sct, err := ct.Serialize()
		require.NoError(t, err)

		_, err = DeserializeCiphertext(sct, ctx, ctx.ModuliCount()-1)
		require.ErrorIs(t, err, ErrModuliCountMismatch)
		_, err = DeserializeCiphertext(sct, ctx, 0)
		require.ErrorIs(t, err, ErrModuliCountMismatch)
		_, err = DeserializeCiphertext(sct, ctx, ctx.ModuliCount()+1)
		require.ErrorIs(t, err, ErrModuliCountMismatch)
	})

	t.Run("DropThenDeserialize", func(t *testing.T) {
		ct := randomCiphertext(t, ctx, 1, true, 60)
		require.NoError(t, ct.DropLastModuli(1))

		sct, err := ct.Serialize()
		require.NoError(t, err)

		got, err := DeserializeCiphertext(sct, ctx, ctx.ModuliCount()-1)
		require.NoError(t, err)
		require.True(t, ct.Equal(got))
		require.Equal(t, []uint64{7681, 65537}, got.Ctx.Moduli())
	})

	t.Run("SeedClearedByDrop", func(t *testing.T) {
		ct, err := NewSeededCiphertext(ctx, testSeed(70), false)
		require.NoError(t, err)
		require.Equal(t, FormatSeeded, ct.Format())

		require.NoError(t, ct.DropLastModuli(1))
		require.False(t, ct.IsSeedable())
		require.Equal(t, FormatFull, ct.Format())

		sct, err := ct.Serialize()
		require.NoError(t, err)
		require.Equal(t, FormatFull, sct.Format)
		require.Equal(t, 2, len(sct.Polys))
	})

	t.Run("EmptyPayload", func(t *testing.T) {
		_, err := DeserializeCiphertext(&SerializedCiphertext{}, ctx, ctx.ModuliCount())
		require.Error(t, err)
	})

	t.Run("BadSeed", func(t *testing.T) {
		_, err := NewSeededCiphertext(ctx, []byte{1, 2, 3}, false)
		require.ErrorIs(t, err, ring.ErrInvalidParameters)

		ct := randomCiphertext(t, ctx, 1, false, 80)
		sct, err := ct.Serialize()
		require.NoError(t, err)
		sct.Format = FormatSeeded
		sct.Polys = sct.Polys[:1]
		sct.Seed = []byte{1, 2, 3}
		_, err = DeserializeCiphertext(sct, ctx, ctx.ModuliCount())
		require.Error(t, err)
	})
}
