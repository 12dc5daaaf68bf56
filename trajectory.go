package hailstone

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
)

type (
	// Bit is one step of a Collatz trajectory: Even (0) when the value was
	// halved, Odd (1) when it was mapped to 3n+1.
	Bit byte

	// Packed is a bit-packed trajectory. Bits are stored most significant bit
	// first, in generation order; Length tells how many bits of Data are used.
	// Packed values handed out by a Generator share their Data with the cache
	// and must not be modified.
	Packed struct {
		Data   []byte
		Length int
	}

	// StepFunc advances a Collatz value by one step, returning the next value
	// and the parity bit of the step.
	StepFunc func(n uint64) (next uint64, bit Bit)

	// Generator computes and memoizes trajectories. The zero value is ready to
	// use and uses CollatzStep. The cache is never evicted.
	Generator struct {
		// Step is the step function used for new trajectories. Nil means
		// CollatzStep.
		Step StepFunc

		mu    sync.Mutex
		cache map[int]Packed
	}
)

const (
	Even Bit = 0
	Odd  Bit = 1
)

// largest value for which 3n+1 still fits in an uint64
const maxOddValue = (math.MaxUint64 - 1) / 3

var defaultGenerator Generator

// CollatzStep is the standard Collatz map.
func CollatzStep(n uint64) (uint64, Bit) {
	if n%2 == 0 {
		return n / 2, Even
	}
	return 3*n + 1, Odd
}

// Trajectory returns the packed trajectory of n using the process-wide cache.
func Trajectory(n int) (Packed, error) {
	return defaultGenerator.Trajectory(n)
}

// Trajectory returns the packed parity trajectory of n. The first call for a
// given n computes it; later calls return the cached value without calling
// the step function again.
func (g *Generator) Trajectory(n int) (Packed, error) {
	if n < 1 {
		return Packed{}, fmt.Errorf("hailstone.Trajectory(%d): %w: n must be a positive integer", n, ErrInvalidInput)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if p, ok := g.cache[n]; ok {
		return p, nil
	}
	step := g.Step
	if step == nil {
		step = CollatzStep
	}
	var bits []Bit
	current := uint64(n)
	for current != 1 {
		if current%2 == 1 && current > maxOddValue {
			return Packed{}, fmt.Errorf("hailstone.Trajectory(%d): %w: trajectory exceeds the uint64 range", n, ErrInvalidInput)
		}
		var bit Bit
		current, bit = step(current)
		bits = append(bits, bit)
	}
	bits = append(bits, Odd)
	p := Pack(bits)
	if g.cache == nil {
		g.cache = make(map[int]Packed)
	}
	g.cache[n] = p
	return p, nil
}

// Cached reports how many trajectories the generator holds.
func (g *Generator) Cached() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.cache)
}

// Pack packs bits into a byte buffer of ceil(len(bits)/8) bytes, MSB first.
// Any nonzero Bit is stored as 1.
func Pack(bits []Bit) Packed {
	data := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b != Even {
			data[i/8] |= 1 << (7 - i%8)
		}
	}
	return Packed{Data: data, Length: len(bits)}
}

// Unpack is the inverse of Pack.
func Unpack(p Packed) []Bit {
	bits := make([]Bit, p.Length)
	for i := range bits {
		bits[i] = p.Bit(i)
	}
	return bits
}

// Bits is a shorthand for Unpack(p).
func (p Packed) Bits() []Bit {
	return Unpack(p)
}

// Bit returns the i:th bit of the trajectory. It panics if i is not in
// [0, Length), including the padding bits of the last byte.
func (p Packed) Bit(i int) Bit {
	if i < 0 || i >= p.Length {
		panic(fmt.Sprintf("hailstone.Packed.Bit: index %d out of range [0, %d)", i, p.Length))
	}
	return Bit(p.Data[i/8]>>(7-i%8)) & 1
}

// String formats the bits as a string of 0s and 1s.
func (p Packed) String() string {
	var sb strings.Builder
	sb.Grow(p.Length)
	for i := 0; i < p.Length; i++ {
		sb.WriteByte('0' + byte(p.Bit(i)))
	}
	return sb.String()
}

// ParseInput parses the textual form of a trajectory start value. Anything
// that is not a positive base 10 integer is rejected with ErrInvalidInput.
func ParseInput(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("hailstone.ParseInput(%q): %w: not an integer", s, ErrInvalidInput)
	}
	if n < 1 {
		return 0, fmt.Errorf("hailstone.ParseInput(%q): %w: n must be at least 1", s, ErrInvalidInput)
	}
	return n, nil
}
