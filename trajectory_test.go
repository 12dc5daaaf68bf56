package hailstone_test

import (
	"math"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vsariola/hailstone"
)

func TestTrajectory(t *testing.T) {
	for _, tc := range []struct {
		n    int
		want []hailstone.Bit
	}{
		{1, []hailstone.Bit{1}},
		{2, []hailstone.Bit{0, 1}},
		{3, []hailstone.Bit{1, 0, 1, 0, 0, 0, 0, 1}},
		{6, []hailstone.Bit{0, 1, 0, 1, 0, 0, 0, 0, 1}},
	} {
		p, err := hailstone.Trajectory(tc.n)
		require.NoError(t, err)
		require.Equal(t, tc.want, p.Bits(), "n = %d", tc.n)
		require.Equal(t, len(tc.want), p.Length)
		require.Len(t, p.Data, (len(tc.want)+7)/8)
	}
}

func TestTrajectoryEndsWithOdd(t *testing.T) {
	for n := 1; n <= 1000; n++ {
		p, err := hailstone.Trajectory(n)
		require.NoError(t, err)
		require.Equal(t, hailstone.Odd, p.Bit(p.Length-1), "n = %d", n)
	}
}

func TestTrajectory27(t *testing.T) {
	p, err := hailstone.Trajectory(27)
	require.NoError(t, err)
	// 111 steps to reach 1, plus the terminating bit
	require.Equal(t, 112, p.Length)
}

func TestTrajectoryRejectsInvalidInput(t *testing.T) {
	var g hailstone.Generator
	for _, n := range []int{0, -1, math.MinInt} {
		_, err := g.Trajectory(n)
		require.ErrorIs(t, err, hailstone.ErrInvalidInput)
	}
	require.Zero(t, g.Cached())
}

func TestTrajectoryOverflow(t *testing.T) {
	// 3n+1 of an odd value this large does not fit in 64 bits
	var g hailstone.Generator
	_, err := g.Trajectory(math.MaxInt64)
	require.ErrorIs(t, err, hailstone.ErrInvalidInput)
	require.Zero(t, g.Cached())
}

func TestTrajectoryIsMemoized(t *testing.T) {
	var calls atomic.Int64
	g := hailstone.Generator{Step: func(n uint64) (uint64, hailstone.Bit) {
		calls.Add(1)
		return hailstone.CollatzStep(n)
	}}
	first, err := g.Trajectory(27)
	require.NoError(t, err)
	computed := calls.Load()
	require.EqualValues(t, first.Length-1, computed)
	second, err := g.Trajectory(27)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, computed, calls.Load(), "cached trajectory must not call the step function")
	require.Equal(t, 1, g.Cached())
}

func TestTrajectoryConcurrent(t *testing.T) {
	var g hailstone.Generator
	var wg sync.WaitGroup
	results := make([]hailstone.Packed, 16)
	errs := make([]error, len(results))
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = g.Trajectory(97)
		}(i)
	}
	wg.Wait()
	for i, p := range results {
		require.NoError(t, errs[i])
		require.Equal(t, results[0], p)
	}
	require.Equal(t, 1, g.Cached())
}

func TestPackRoundTrip(t *testing.T) {
	for _, bits := range [][]hailstone.Bit{
		{},
		{1},
		{0, 1, 0, 1, 0, 0, 0, 0},
		{0, 1, 0, 1, 0, 0, 0, 0, 1},
		{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0},
	} {
		p := hailstone.Pack(bits)
		require.Len(t, p.Data, (len(bits)+7)/8)
		require.Equal(t, len(bits), p.Length)
		require.Equal(t, bits, hailstone.Unpack(p))
	}
}

func TestPackIsMSBFirst(t *testing.T) {
	p := hailstone.Pack([]hailstone.Bit{1, 0, 0, 0, 0, 0, 0, 1, 1})
	require.Equal(t, []byte{0x81, 0x80}, p.Data)
	require.Equal(t, "100000011", p.String())
}

func TestPackedBitOutOfRange(t *testing.T) {
	p := hailstone.Pack([]hailstone.Bit{1, 0, 1})
	require.Equal(t, hailstone.Odd, p.Bit(2))
	// the padding bits of the last byte are not part of the trajectory
	require.Panics(t, func() { p.Bit(3) })
	require.Panics(t, func() { p.Bit(7) })
	require.Panics(t, func() { p.Bit(-1) })
}

func TestParseInput(t *testing.T) {
	for in, want := range map[string]int{"1": 1, "27": 27, " 6\n": 6} {
		n, err := hailstone.ParseInput(in)
		require.NoError(t, err)
		require.Equal(t, want, n)
	}
	for _, in := range []string{"", "0", "-5", "abc", "1.5", "99999999999999999999999"} {
		_, err := hailstone.ParseInput(in)
		require.ErrorIs(t, err, hailstone.ErrInvalidInput, "input %q", in)
	}
}

func TestStepDuration(t *testing.T) {
	d, err := hailstone.StepDuration(120)
	require.NoError(t, err)
	require.Equal(t, "125ms", d.String())
	d, err = hailstone.StepDuration(60)
	require.NoError(t, err)
	require.Equal(t, "250ms", d.String())
	for _, bpm := range []int{0, -1, hailstone.MaxBPM + 1} {
		_, err := hailstone.StepDuration(bpm)
		require.ErrorIs(t, err, hailstone.ErrInvalidInput)
	}
}
