// Package random provides the seeded generator behind every dice draw and the
// unbiased integer-in-range algorithm built on top of it.
package random

import (
	"errors"
	"math"
	"math/rand/v2"
)

// MaxRange is the largest span IntegerN accepts (2^53, the safe-integer size).
const MaxRange uint64 = 1 << 53

var (
	ErrEmptyRange    = errors.New("random: empty range")
	ErrRangeTooLarge = errors.New("random: range exceeds 2^53")
)

// Source yields uniformly distributed 32-bit words.
type Source interface {
	Uint32() uint32
}

type pcgSource struct {
	pcg *rand.PCG
}

func (s pcgSource) Uint32() uint32 {
	return uint32(s.pcg.Uint64() >> 32)
}

// NewPCGSource returns a reproducible source for seed.
func NewPCGSource(seed uint64) Source {
	return pcgSource{pcg: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)}
}

// Generator turns raw words into integers and counts the draws it made.
type Generator struct {
	src   Source
	draws int
}

func New(src Source) *Generator {
	return &Generator{src: src}
}

// NewSeeded is New(NewPCGSource(seed)).
func NewSeeded(seed uint64) *Generator {
	return New(NewPCGSource(seed))
}

// Draws reports how many 32-bit words have been consumed.
func (g *Generator) Draws() int {
	return g.draws
}

func (g *Generator) Uint32() uint32 {
	g.draws++
	return g.src.Uint32()
}

// Integer returns a uniform integer in [lower, upper]; reversed bounds are
// swapped.
func (g *Generator) Integer(lower, upper int64) (int64, error) {
	if lower > upper {
		lower, upper = upper, lower
	}
	span := uint64(upper-lower) + 1
	n, err := g.IntegerN(span)
	if err != nil {
		return 0, err
	}
	return lower + int64(n), nil
}

// IntegerN returns a uniform integer in [0, n). Values are drawn by rejection
// sampling, so the number of underlying draws is unbounded but decays
// geometrically; at least half of all candidates are accepted.
func (g *Generator) IntegerN(n uint64) (uint64, error) {
	switch {
	case n == 0:
		return 0, ErrEmptyRange
	case n <= 1<<32:
		return g.integerN32(n), nil
	case n <= MaxRange:
		return g.integerN64(n), nil
	default:
		return 0, ErrRangeTooLarge
	}
}

func (g *Generator) integerN32(n uint64) uint64 {
	maxUnbiased := uint64(math.MaxUint32)
	if n > 2 {
		maxUnbiased = (1<<32)/n*n - 1
	}
	for {
		x := uint64(g.Uint32())
		if x <= maxUnbiased {
			return x % n
		}
	}
}

func (g *Generator) integerN64(n uint64) uint64 {
	// floor(2^64/n)*n - 1, computed without overflowing 2^64.
	maxUnbiased := uint64(math.MaxUint64)
	if q, r := math.MaxUint64/n, math.MaxUint64%n; r != n-1 {
		maxUnbiased = q*n - 1
	}
	for {
		hi := uint64(g.Uint32())
		lo := uint64(g.Uint32())
		x := hi<<32 | lo
		if x <= maxUnbiased {
			return x % n
		}
	}
}
