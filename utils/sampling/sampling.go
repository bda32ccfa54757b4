package sampling

import (
	"crypto/rand"
	"encoding/binary"
)

// SeedSize is the byte length of the seeds used to key a KeyedPRNG.
const SeedSize = 32

// NewSeed returns a fresh random seed of SeedSize bytes.
func NewSeed() []byte {
	seed := make([]byte, SeedSize)
	if _, err := rand.Read(seed); err != nil {
		panic(err)
	}
	return seed
}

// RandUint64 returns a random value between 0 and 0xFFFFFFFFFFFFFFFF.
func RandUint64() uint64 {
	b := []byte{0, 0, 0, 0, 0, 0, 0, 0}
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return binary.LittleEndian.Uint64(b)
}
