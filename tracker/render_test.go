package tracker_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vsariola/hailstone"
	"github.com/vsariola/hailstone/tracker"
)

const step = 125 * time.Millisecond // at 120 bpm

func framesAt(d time.Duration) int {
	return int(int64(d) * hailstone.SampleRate / int64(time.Second))
}

func TestRenderLength(t *testing.T) {
	for _, loops := range []int{0, 1, 3} {
		buf, err := tracker.Render(tracker.RenderOptions{
			Number:     6,
			BPM:        120,
			Instrument: hailstone.InstrumentRunsA,
			Kit:        testKit(10 * time.Millisecond),
			Loops:      loops,
		})
		require.NoError(t, err)
		want := 2 * framesAt(time.Duration(max(loops, 1)*9)*step)
		require.Len(t, buf, want, "loops = %d", loops)
	}
}

func TestRenderOnsets(t *testing.T) {
	buf, err := tracker.Render(tracker.RenderOptions{
		Number:     6,
		BPM:        120,
		Instrument: hailstone.InstrumentOnsets,
		Kit:        testKit(10 * time.Millisecond),
	})
	require.NoError(t, err)
	sounding := func(i int) bool {
		return buf[2*framesAt(time.Duration(i)*step)] != 0
	}
	for i := 0; i < 9; i++ {
		onset := i <= 4 || i == 8
		require.Equal(t, onset, sounding(i), "step %d", i)
	}
	// a 10 ms sample is silent by the middle of the step
	require.Zero(t, buf[2*framesAt(step/2)])
}

func TestRenderPolyphony(t *testing.T) {
	buf, err := tracker.Render(tracker.RenderOptions{
		Number:     27,
		BPM:        120,
		Instrument: hailstone.InstrumentHatKick,
		Kit:        testKit(10 * time.Second),
		Polyphony:  2,
	})
	require.NoError(t, err)
	var peak float32
	for _, v := range buf {
		peak = max(peak, v)
	}
	// two voices of 0.25 at most
	require.InDelta(t, 0.5, peak, 1e-6)
}

func TestRenderRejectsInvalidOptions(t *testing.T) {
	kit := testKit(time.Millisecond)
	for _, o := range []tracker.RenderOptions{
		{Number: 0, BPM: 120, Instrument: hailstone.InstrumentHatKick, Kit: kit},
		{Number: 6, BPM: 0, Instrument: hailstone.InstrumentHatKick, Kit: kit},
		{Number: 6, BPM: 120, Instrument: 0, Kit: kit},
	} {
		_, err := tracker.Render(o)
		require.ErrorIs(t, err, hailstone.ErrInvalidInput)
	}
	_, err := tracker.Render(tracker.RenderOptions{Number: 6, BPM: 120, Instrument: hailstone.InstrumentHatKick})
	require.ErrorIs(t, err, hailstone.ErrPlaybackUnavailable)
}
