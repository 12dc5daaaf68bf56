package tracker

import (
	"fmt"
	"time"

	"github.com/viterin/vek/vek32"
	"github.com/vsariola/hailstone"
)

type (
	// RenderOptions describe an offline rendering of a trajectory.
	RenderOptions struct {
		Number     int
		BPM        int
		Instrument hailstone.Instrument
		Kit        *Kit
		Loops      int // how many times the sequence is played; < 1 means once
		Polyphony  int // 0 means DefaultPolyphony
	}

	// mixer is an AudioContext that records voices against a VirtualClock and
	// mixes them afterwards.
	mixer struct {
		clock  *VirtualClock
		voices []*mixVoice
	}

	mixVoice struct {
		clock      *VirtualClock
		sample     *hailstone.Sample
		start, end time.Duration
		done       bool
		timer      Timer
	}
)

// Render plays the sequence through a Player driven by a VirtualClock and
// returns the interleaved stereo mixdown at hailstone.SampleRate. Voice
// eviction and stopping behave exactly as in live playback.
func Render(o RenderOptions) ([]float32, error) {
	step, err := hailstone.StepDuration(o.BPM)
	if err != nil {
		return nil, fmt.Errorf("tracker.Render: %w", err)
	}
	if !o.Instrument.Valid() {
		return nil, fmt.Errorf("tracker.Render: %w: no such instrument %d", hailstone.ErrInvalidInput, int(o.Instrument))
	}
	if o.Kit == nil {
		return nil, fmt.Errorf("tracker.Render: %w: no kit", hailstone.ErrPlaybackUnavailable)
	}
	packed, err := hailstone.Trajectory(o.Number)
	if err != nil {
		return nil, fmt.Errorf("tracker.Render: %w", err)
	}
	loops := o.Loops
	if loops < 1 {
		loops = 1
	}
	polyphony := o.Polyphony
	if polyphony == 0 {
		polyphony = DefaultPolyphony
	}
	clock := &VirtualClock{}
	mix := &mixer{clock: clock}
	p := NewSyncPlayer(mix, clock, polyphony, nil)
	p.Handle(KitMsg{Kit: o.Kit})
	p.Handle(SetTempoMsg{BPM: o.BPM})
	p.Handle(SetInstrumentMsg{Instrument: o.Instrument})
	p.Handle(SetSequenceMsg{Number: o.Number})
	p.Handle(StartMsg{})
	// both run and bit stepping take one step per bit
	total := time.Duration(loops*packed.Length) * step
	// stop just before the next loop would start
	clock.Advance(total - 1)
	p.Handle(StopMsg{})
	return mix.mixdown(total), nil
}

func (m *mixer) Play(sample *hailstone.Sample, ended func()) (hailstone.Voice, error) {
	now := m.clock.Now()
	length := framesToDuration(sample.Frames())
	v := &mixVoice{clock: m.clock, sample: sample, start: now, end: now + length}
	v.timer = m.clock.AfterFunc(length, func() {
		v.done = true
		ended()
	})
	m.voices = append(m.voices, v)
	return v, nil
}

func (m *mixer) Close() error { return nil }

func (v *mixVoice) Stop() error {
	if v.done {
		return hailstone.ErrVoiceStopped
	}
	v.done = true
	v.timer.Stop()
	v.end = v.clock.Now()
	return nil
}

func (m *mixer) mixdown(total time.Duration) []float32 {
	frames := durationToFrames(total)
	out := make([]float32, 2*frames)
	for _, v := range m.voices {
		start := durationToFrames(v.start)
		end := durationToFrames(v.end)
		if end > frames {
			end = frames
		}
		n := end - start
		if n > v.sample.Frames() {
			n = v.sample.Frames()
		}
		if n <= 0 {
			continue
		}
		vek32.Add_Inplace(out[2*start:2*(start+n)], v.sample.Data[:2*n])
	}
	return out
}

func durationToFrames(d time.Duration) int {
	return int(int64(d) * hailstone.SampleRate / int64(time.Second))
}

func framesToDuration(frames int) time.Duration {
	return time.Duration(int64(frames) * int64(time.Second) / hailstone.SampleRate)
}
