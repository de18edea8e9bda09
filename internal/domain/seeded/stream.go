// Package seeded provides the counter-based draw source shared by every
// randomized computation: turn order, territory deal, army distribution,
// deck construction and combat dice.
//
// Draw n of a stream is blake3(seed || 0x00 || bigEndian(index)) truncated to
// 64 bits, so any (seed, index) pair yields the same subsequent draws no matter
// where the stream is re-created.
package seeded

import (
	"encoding/binary"
	"math/bits"

	"lukechampine.com/blake3"
)

// Cursor is the persisted form of a stream position.
type Cursor struct {
	Seed  string `json:"seed"`
	Index uint64 `json:"index"`
}

type Stream struct {
	seed  string
	index uint64
}

func New(seed string, index uint64) *Stream {
	return &Stream{seed: seed, index: index}
}

func FromCursor(c Cursor) *Stream {
	return New(c.Seed, c.Index)
}

func (s *Stream) Cursor() Cursor {
	return Cursor{Seed: s.seed, Index: s.index}
}

func (s *Stream) Uint64() uint64 {
	buf := make([]byte, len(s.seed)+1+8)
	copy(buf, s.seed)
	binary.BigEndian.PutUint64(buf[len(s.seed)+1:], s.index)
	sum := blake3.Sum256(buf)
	s.index++
	return binary.BigEndian.Uint64(sum[:8])
}

// NextInt draws an integer in the closed range [lo, hi]. The range is mapped
// with a 128-bit multiply, which keeps the result independent of platform int
// size.
func (s *Stream) NextInt(lo, hi int) int {
	if hi <= lo {
		s.Uint64()
		return lo
	}
	span := uint64(hi-lo) + 1
	top, _ := bits.Mul64(s.Uint64(), span)
	return lo + int(top)
}

// Shuffle returns a Fisher-Yates permutation of items, walking from the last
// position down. Consumes len(items)-1 draws. The input is not modified.
func Shuffle[T any](s *Stream, items []T) []T {
	out := append([]T(nil), items...)
	for i := len(out) - 1; i > 0; i-- {
		j := s.NextInt(0, i)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
