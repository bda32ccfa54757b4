package ring

import (
	"encoding/binary"

	"github.com/privio/hepack/utils/sampling"
)

// UniformSampler fills polynomial rows with residues drawn uniformly in
// [0, q_i) from the underlying PRNG, by rejection sampling masked draws.
// Instantiated over a KeyedPRNG, the produced polynomial is a deterministic
// function of the key, which is how seed-compressed ciphertext components
// are re-expanded.
type UniformSampler[T Scalar] struct {
	prng sampling.PRNG
	ctx  *Context[T]
	buff [512]byte
	ptr  int
}

// NewUniformSampler returns a new UniformSampler over the provided PRNG and
// ring context.
func NewUniformSampler[T Scalar](prng sampling.PRNG, ctx *Context[T]) *UniformSampler[T] {
	return &UniformSampler[T]{prng: prng, ctx: ctx, ptr: 512}
}

// next returns the next 8 pseudo-random bytes as a uint64, refilling the
// internal buffer from the PRNG when it runs out.
func (s *UniformSampler[T]) next() (uint64, error) {
	if s.ptr == len(s.buff) {
		if _, err := s.prng.Read(s.buff[:]); err != nil {
			return 0, err
		}
		s.ptr = 0
	}
	v := binary.LittleEndian.Uint64(s.buff[s.ptr:])
	s.ptr += 8
	return v, nil
}

// Read fills p with residues drawn uniformly below each modulus of the
// sampler's context. The polynomial shape must match the context.
func (s *UniformSampler[T]) Read(p Poly[T]) error {

	if p.N() != s.ctx.N() || p.ModuliCount() != s.ctx.ModuliCount() {
		return ErrShapeMismatch
	}

	for i, row := range p.Coeffs {
		q := uint64(s.ctx.Modulus(i))
		mask := (uint64(1) << s.ctx.BitWidth(i)) - 1
		for j := range row {
			for {
				v, err := s.next()
				if err != nil {
					return err
				}
				if c := v & mask; c < q {
					row[j] = T(c)
					break
				}
			}
		}
	}

	return nil
}

// ReadNew samples a fresh polynomial with the dimensions of the sampler's
// context.
func (s *UniformSampler[T]) ReadNew() (Poly[T], error) {
	p := s.ctx.NewPoly()
	err := s.Read(p)
	return p, err
}
