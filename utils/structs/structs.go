// Package structs implements generic wrappers around slices of structs,
// along with their serialization.
package structs

type CopyNewer[V any] interface {
	CopyNew() *V
}

type BinarySizer interface {
	BinarySize() int
}

type Equatable[V any] interface {
	Equal(*V) bool
}
