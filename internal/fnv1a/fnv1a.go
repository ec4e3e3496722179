// Package fnv1a folds fixed-width values into a 32-bit FNV-1a hash without
// allocating. hash/fnv needs a byte slice and a heap-allocated hasher for
// every key, which the cache-key path cannot afford.
package fnv1a

import "math"

const (
	offset32 = 2166136261
	prime32  = 16777619
)

// Hash is an in-progress FNV-1a hash. The zero value is not a valid start
// state; use New.
type Hash uint32

// New returns the FNV-1a offset basis.
func New() Hash {
	return offset32
}

// Byte folds one byte.
func (h Hash) Byte(b byte) Hash {
	h ^= Hash(b)
	h *= prime32
	return h
}

// Uint32 folds v in little-endian byte order.
func (h Hash) Uint32(v uint32) Hash {
	h = h.Byte(byte(v))
	h = h.Byte(byte(v >> 8))
	h = h.Byte(byte(v >> 16))
	return h.Byte(byte(v >> 24))
}

// Float32 folds the IEEE 754 bit pattern of f, so equal values hash
// equally and no rounding is involved.
func (h Hash) Float32(f float32) Hash {
	return h.Uint32(math.Float32bits(f))
}

// Float64 folds the bit pattern of f.
func (h Hash) Float64(f float64) Hash {
	bits := math.Float64bits(f)
	return h.Uint32(uint32(bits)).Uint32(uint32(bits >> 32))
}

// Bool folds a single 0 or 1 byte.
func (h Hash) Bool(b bool) Hash {
	if b {
		return h.Byte(1)
	}
	return h.Byte(0)
}

// String folds every byte of s.
func (h Hash) String(s string) Hash {
	for i := 0; i < len(s); i++ {
		h = h.Byte(s[i])
	}
	return h
}

// Sum32 returns the hash value.
func (h Hash) Sum32() uint32 {
	return uint32(h)
}
