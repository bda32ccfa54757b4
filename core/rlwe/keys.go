package rlwe

import (
	"bufio"
	"fmt"
	"io"

	"github.com/privio/hepack/ring"
	"github.com/privio/hepack/utils"
	"github.com/privio/hepack/utils/buffer"
	"github.com/privio/hepack/utils/structs"
)

// SecretKey is a single-polynomial key element.
type SecretKey[T ring.Scalar] struct {
	Element[T]
}

// NewSecretKey allocates a new zero SecretKey over ctx.
func NewSecretKey[T ring.Scalar](ctx *ring.Context[T], isNTT bool) *SecretKey[T] {
	return &SecretKey[T]{*NewElement(ctx, 0, isNTT)}
}

// NewSecretKeyFromPoly wraps the provided polynomial into a SecretKey over
// ctx, without copying.
func NewSecretKeyFromPoly[T ring.Scalar](ctx *ring.Context[T], p ring.Poly[T], isNTT bool) (*SecretKey[T], error) {
	el, err := NewElementFromPolys(ctx, []ring.Poly[T]{p}, isNTT)
	if err != nil {
		return nil, fmt.Errorf("cannot NewSecretKeyFromPoly: %w", err)
	}
	return &SecretKey[T]{*el}, nil
}

// Equal performs a deep equal.
func (sk *SecretKey[T]) Equal(other *SecretKey[T]) bool {
	return sk.Element.Equal(&other.Element)
}

// CopyNew returns a deep copy of the secret key.
func (sk *SecretKey[T]) CopyNew() *SecretKey[T] {
	return &SecretKey[T]{*sk.Element.CopyNew()}
}

// Zeroize overwrites the secret key coefficients with zeros. The key is
// unusable afterwards. Callers owning long-lived secret material should
// call it before releasing the key.
func (sk *SecretKey[T]) Zeroize() {
	for i := range sk.Value {
		sk.Value[i].Zero()
	}
}

// Serialize packs the secret key polynomial at full width.
func (sk *SecretKey[T]) Serialize() (*SerializedPlaintext, error) {
	data, err := sk.Ctx.PackPoly(sk.Value[0], nil, 0)
	if err != nil {
		return nil, fmt.Errorf("cannot Serialize: %w", err)
	}
	return &SerializedPlaintext{IsNTT: sk.IsNTT, Poly: SerializedPoly{Data: data}}, nil
}

// DeserializeSecretKey rebuilds a SecretKey from its serialized form under
// the supplied context.
func DeserializeSecretKey[T ring.Scalar](s *SerializedPlaintext, ctx *ring.Context[T]) (*SecretKey[T], error) {

	if len(s.Poly.Data) != ctx.PackedSize(ctx.N(), 0) {
		return nil, fmt.Errorf("cannot DeserializeSecretKey: %d payload bytes where the context requires %d: %w",
			len(s.Poly.Data), ctx.PackedSize(ctx.N(), 0), ErrContextMismatch)
	}

	p, err := ctx.UnpackPoly(s.Poly.Data, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("cannot DeserializeSecretKey: %w", err)
	}

	return NewSecretKeyFromPoly(ctx, p, s.IsNTT)
}

// EvaluationKey is an ordered sequence of ciphertexts forming one piece of
// key-switching material. Individual components may be seed-compressible.
type EvaluationKey[T ring.Scalar] struct {
	Value []*Ciphertext[T]
}

// Equal performs a deep equal.
func (evk *EvaluationKey[T]) Equal(other *EvaluationKey[T]) bool {
	if len(evk.Value) != len(other.Value) {
		return false
	}
	for i := range evk.Value {
		if !evk.Value[i].Equal(other.Value[i]) {
			return false
		}
	}
	return true
}

// CopyNew returns a deep copy of the evaluation key.
func (evk *EvaluationKey[T]) CopyNew() *EvaluationKey[T] {
	value := make([]*Ciphertext[T], len(evk.Value))
	for i := range value {
		value[i] = evk.Value[i].CopyNew()
	}
	return &EvaluationKey[T]{Value: value}
}

// Serialize packs every ciphertext of the key, seed-compressing the ones
// that allow it.
func (evk *EvaluationKey[T]) Serialize() (*SerializedEvaluationKey, error) {
	components := make(structs.Vector[SerializedCiphertext], len(evk.Value))
	for i := range evk.Value {
		sct, err := evk.Value[i].Serialize()
		if err != nil {
			return nil, fmt.Errorf("cannot Serialize: component %d: %w", i, err)
		}
		components[i] = *sct
	}
	return &SerializedEvaluationKey{Components: components}, nil
}

func deserializeEvaluationKey[T ring.Scalar](s *SerializedEvaluationKey, ctx *ring.Context[T]) (*EvaluationKey[T], error) {
	value := make([]*Ciphertext[T], len(s.Components))
	for i := range s.Components {
		ct, err := DeserializeCiphertext(&s.Components[i], ctx, ctx.ModuliCount())
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
		value[i] = ct
	}
	return &EvaluationKey[T]{Value: value}, nil
}

// GaloisKey is the key-switching material for one Galois automorphism.
type GaloisKey[T ring.Scalar] struct {
	GaloisElement uint64
	EvaluationKey[T]
}

// Equal performs a deep equal.
func (gk *GaloisKey[T]) Equal(other *GaloisKey[T]) bool {
	return gk.GaloisElement == other.GaloisElement && gk.EvaluationKey.Equal(&other.EvaluationKey)
}

// CopyNew returns a deep copy of the Galois key.
func (gk *GaloisKey[T]) CopyNew() *GaloisKey[T] {
	return &GaloisKey[T]{GaloisElement: gk.GaloisElement, EvaluationKey: *gk.EvaluationKey.CopyNew()}
}

// RelinearizationKey is the key-switching material reducing the degree of
// a ciphertext after a homomorphic multiplication.
type RelinearizationKey[T ring.Scalar] struct {
	EvaluationKey[T]
}

// Equal performs a deep equal.
func (rlk *RelinearizationKey[T]) Equal(other *RelinearizationKey[T]) bool {
	return rlk.EvaluationKey.Equal(&other.EvaluationKey)
}

// CopyNew returns a deep copy of the relinearization key.
func (rlk *RelinearizationKey[T]) CopyNew() *RelinearizationKey[T] {
	return &RelinearizationKey[T]{*rlk.EvaluationKey.CopyNew()}
}

// EvaluationKeyConfig is the discrete configuration a key bundle was
// generated for: which Galois elements were requested and whether
// relinearization material was. A bundle deserializes only under the
// configuration that produced it.
type EvaluationKeyConfig struct {
	GaloisElements  []uint64
	Relinearization bool
}

// Equal returns true if both configurations request the same components.
// The order of the Galois elements is not significant.
func (cfg EvaluationKeyConfig) Equal(other *EvaluationKeyConfig) bool {
	if cfg.Relinearization != other.Relinearization {
		return false
	}
	a := append([]uint64(nil), cfg.GaloisElements...)
	b := append([]uint64(nil), other.GaloisElements...)
	utils.SortSlice(a)
	utils.SortSlice(b)
	return utils.EqualSlice(a, b)
}

// BinarySize returns the size in bytes of the object once marshalled.
func (cfg EvaluationKeyConfig) BinarySize() int {
	return structs.Vector[uint64](cfg.GaloisElements).BinarySize() + 1
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
func (cfg EvaluationKeyConfig) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:
		var inc int64
		if inc, err = structs.Vector[uint64](cfg.GaloisElements).WriteTo(w); err != nil {
			return n + inc, err
		}
		n += inc
		if inc, err = buffer.WriteBool(w, cfg.Relinearization); err != nil {
			return n + inc, err
		}
		return n + inc, w.Flush()
	default:
		return cfg.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads the object from an io.Reader. It implements the
// io.ReaderFrom interface.
func (cfg *EvaluationKeyConfig) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:
		var inc int64
		v := structs.Vector[uint64]{}
		if inc, err = v.ReadFrom(r); err != nil {
			return n + inc, err
		}
		n += inc
		cfg.GaloisElements = v
		if len(cfg.GaloisElements) == 0 {
			cfg.GaloisElements = nil
		}
		if inc, err = buffer.ReadBool(r, &cfg.Relinearization); err != nil {
			return n + inc, err
		}
		return n + inc, nil
	default:
		return cfg.ReadFrom(bufio.NewReader(r))
	}
}

// KeySet bundles the key material produced for one configuration. Absent
// components mean "not requested" and are a valid state, not an error.
type KeySet[T ring.Scalar] struct {
	Secret          *SecretKey[T]
	Galois          map[uint64]*GaloisKey[T]
	Relinearization *RelinearizationKey[T]
}

// NewKeySet returns an empty KeySet.
func NewKeySet[T ring.Scalar]() *KeySet[T] {
	return &KeySet[T]{Galois: map[uint64]*GaloisKey[T]{}}
}

// GaloisKey returns the key for the given Galois element and whether it is
// present, distinguishing "not requested" from a zero key.
func (ks *KeySet[T]) GaloisKey(galEl uint64) (*GaloisKey[T], bool) {
	gk, ok := ks.Galois[galEl]
	return gk, ok
}

// Config returns the configuration the present components correspond to.
func (ks *KeySet[T]) Config() EvaluationKeyConfig {
	cfg := EvaluationKeyConfig{Relinearization: ks.Relinearization != nil}
	if len(ks.Galois) > 0 {
		cfg.GaloisElements = utils.GetSortedKeys(ks.Galois)
	}
	return cfg
}

// Serialize packs exactly the present components, tagged with the
// configuration that produced them. Galois keys are emitted in increasing
// element order.
func (ks *KeySet[T]) Serialize() (*SerializedKeySet, error) {

	s := &SerializedKeySet{Config: ks.Config()}

	if ks.Secret != nil {
		secret, err := ks.Secret.Serialize()
		if err != nil {
			return nil, fmt.Errorf("cannot Serialize: secret key: %w", err)
		}
		s.Secret = secret
	}

	for _, galEl := range s.Config.GaloisElements {
		key, err := ks.Galois[galEl].EvaluationKey.Serialize()
		if err != nil {
			return nil, fmt.Errorf("cannot Serialize: Galois key %d: %w", galEl, err)
		}
		s.Galois = append(s.Galois, SerializedGaloisKey{GaloisElement: galEl, Key: *key})
	}

	if ks.Relinearization != nil {
		key, err := ks.Relinearization.EvaluationKey.Serialize()
		if err != nil {
			return nil, fmt.Errorf("cannot Serialize: relinearization key: %w", err)
		}
		s.Relinearization = key
	}

	return s, nil
}

// DeserializeKeySet rebuilds a KeySet from its serialized form under the
// supplied context. cfg must be identical to the configuration the bundle
// was serialized with.
func DeserializeKeySet[T ring.Scalar](s *SerializedKeySet, cfg EvaluationKeyConfig, ctx *ring.Context[T]) (*KeySet[T], error) {

	if !cfg.Equal(&s.Config) {
		return nil, fmt.Errorf("cannot DeserializeKeySet: %w", ErrConfigurationMismatch)
	}

	if len(s.Galois) != len(s.Config.GaloisElements) {
		return nil, fmt.Errorf("cannot DeserializeKeySet: %d Galois keys where the configuration requests %d: %w",
			len(s.Galois), len(s.Config.GaloisElements), ErrConfigurationMismatch)
	}

	if (s.Relinearization != nil) != s.Config.Relinearization {
		return nil, fmt.Errorf("cannot DeserializeKeySet: relinearization material inconsistent with the configuration: %w", ErrConfigurationMismatch)
	}

	ks := NewKeySet[T]()

	if s.Secret != nil {
		sk, err := DeserializeSecretKey(s.Secret, ctx)
		if err != nil {
			return nil, fmt.Errorf("cannot DeserializeKeySet: secret key: %w", err)
		}
		ks.Secret = sk
	}

	requested := map[uint64]bool{}
	for _, galEl := range s.Config.GaloisElements {
		requested[galEl] = true
	}

	for i := range s.Galois {
		galEl := s.Galois[i].GaloisElement
		if !requested[galEl] {
			return nil, fmt.Errorf("cannot DeserializeKeySet: Galois key %d not in the configuration: %w", galEl, ErrConfigurationMismatch)
		}
		evk, err := deserializeEvaluationKey(&s.Galois[i].Key, ctx)
		if err != nil {
			return nil, fmt.Errorf("cannot DeserializeKeySet: Galois key %d: %w", galEl, err)
		}
		ks.Galois[galEl] = &GaloisKey[T]{GaloisElement: galEl, EvaluationKey: *evk}
	}

	if s.Relinearization != nil {
		evk, err := deserializeEvaluationKey(s.Relinearization, ctx)
		if err != nil {
			return nil, fmt.Errorf("cannot DeserializeKeySet: relinearization key: %w", err)
		}
		ks.Relinearization = &RelinearizationKey[T]{*evk}
	}

	return ks, nil
}
