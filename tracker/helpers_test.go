package tracker_test

import (
	"errors"
	"fmt"
	"time"

	"github.com/vsariola/hailstone"
	"github.com/vsariola/hailstone/tracker"
)

type (
	// fakeAudio records what is played. With a clock, voices end by themselves
	// after the sample duration.
	fakeAudio struct {
		clock   *tracker.VirtualClock
		played  []played
		voices  []*fakeVoice
		playErr error
		stopErr error
	}

	played struct {
		at     time.Duration
		sample string
	}

	fakeVoice struct {
		audio *fakeAudio
		stops int
		done  bool
		timer tracker.Timer
	}
)

var errBroken = errors.New("broken device")

func (a *fakeAudio) now() time.Duration {
	if a.clock == nil {
		return 0
	}
	return a.clock.Now()
}

func (a *fakeAudio) Play(s *hailstone.Sample, ended func()) (hailstone.Voice, error) {
	if a.playErr != nil {
		return nil, a.playErr
	}
	v := &fakeVoice{audio: a}
	a.played = append(a.played, played{at: a.now(), sample: s.Name})
	a.voices = append(a.voices, v)
	if a.clock != nil {
		v.timer = a.clock.AfterFunc(s.Duration(), func() {
			v.done = true
			ended()
		})
	}
	return v, nil
}

func (a *fakeAudio) Close() error { return nil }

func (a *fakeAudio) samples() []string {
	ret := make([]string, len(a.played))
	for i, p := range a.played {
		ret[i] = p.sample
	}
	return ret
}

func (a *fakeAudio) times() []time.Duration {
	ret := make([]time.Duration, len(a.played))
	for i, p := range a.played {
		ret[i] = p.at
	}
	return ret
}

func (v *fakeVoice) Stop() error {
	v.stops++
	if v.audio.stopErr != nil {
		return v.audio.stopErr
	}
	if v.done {
		return hailstone.ErrVoiceStopped
	}
	v.done = true
	if v.timer != nil {
		v.timer.Stop()
	}
	return nil
}

// newSample returns a constant stereo sample.
func newSample(name string, length time.Duration, value float32) *hailstone.Sample {
	frames := int(int64(length) * hailstone.SampleRate / int64(time.Second))
	data := make([]float32, 2*frames)
	for i := range data {
		data[i] = value
	}
	return &hailstone.Sample{Name: name, SampleRate: hailstone.SampleRate, Data: data}
}

// testKit names every sample "<instrument>/<sound>".
func testKit(length time.Duration) *tracker.Kit {
	var sounds [hailstone.NumInstruments][]*hailstone.Sample
	for i := range sounds {
		instr := hailstone.Instrument(i + 1)
		for s := 0; s < instr.NumSounds(); s++ {
			sounds[i] = append(sounds[i], newSample(fmt.Sprintf("%d/%d", i+1, s), length, 0.25))
		}
	}
	return tracker.NewKit(sounds)
}

func steps(bpm int, ns ...int) []time.Duration {
	step, err := hailstone.StepDuration(bpm)
	if err != nil {
		panic(err)
	}
	ret := make([]time.Duration, len(ns))
	for i, n := range ns {
		ret[i] = time.Duration(n) * step
	}
	return ret
}
