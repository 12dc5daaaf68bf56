// Package hailstone generates Collatz parity trajectories and the data types
// used to sonify them: packed bit sequences, capped runs, instruments, sample
// banks and decoded samples.
package hailstone

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidInput is returned for start values that are not positive
	// integers and for out of range tempos and instruments.
	ErrInvalidInput = errors.New("invalid input")
	// ErrPlaybackUnavailable is returned when playback is requested before the
	// samples have been decoded or the audio device is ready.
	ErrPlaybackUnavailable = errors.New("playback unavailable")
	// ErrVoiceStopped is returned by Voice.Stop when the voice has already
	// finished or was stopped before.
	ErrVoiceStopped = errors.New("voice already stopped")
)

const (
	// StepsPerBeat is the number of sequencer steps in one beat: a step is a
	// sixteenth note.
	StepsPerBeat = 4
	MinBPM       = 1
	MaxBPM       = 999
)

// StepDuration returns the length of one sequencer step (a sixteenth note) at
// the given tempo.
func StepDuration(bpm int) (time.Duration, error) {
	if bpm < MinBPM || bpm > MaxBPM {
		return 0, fmt.Errorf("hailstone.StepDuration(%d): %w: tempo must be in [%d, %d]", bpm, ErrInvalidInput, MinBPM, MaxBPM)
	}
	return time.Minute / time.Duration(bpm*StepsPerBeat), nil
}
