// Package midifile writes trajectory patterns as Standard MIDI Files.
package midifile

import (
	"fmt"
	"io"

	"github.com/vsariola/hailstone"
	"github.com/vsariola/hailstone/tracker"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	TicksPerQuarter = 960
	ticksPerStep    = TicksPerQuarter / hailstone.StepsPerBeat
	drumChannel     = 9
	velocity        = 100
)

// Options describe the file to write.
type Options struct {
	Number     int
	BPM        int
	Instrument hailstone.Instrument
	Bank       *hailstone.Bank // nil means hailstone.DefaultBank()
	Loops      int             // < 1 means once
}

// Write renders the pattern of o.Number as a single track SMF on the General
// MIDI drum channel. Each event becomes a note that lasts until the next
// event, as a held sample would.
func Write(w io.Writer, o Options) error {
	if _, err := hailstone.StepDuration(o.BPM); err != nil {
		return fmt.Errorf("midifile.Write: %w", err)
	}
	if !o.Instrument.Valid() {
		return fmt.Errorf("midifile.Write: %w: no such instrument %d", hailstone.ErrInvalidInput, int(o.Instrument))
	}
	packed, err := hailstone.Trajectory(o.Number)
	if err != nil {
		return fmt.Errorf("midifile.Write: %w", err)
	}
	bank := o.Bank
	if bank == nil {
		bank = hailstone.DefaultBank()
	}
	loops := o.Loops
	if loops < 1 {
		loops = 1
	}
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(TicksPerQuarter)
	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName(fmt.Sprintf("hailstone %d (%s)", o.Number, o.Instrument)))
	track.Add(0, smf.MetaMeter(4, 4))
	track.Add(0, smf.MetaTempo(float64(o.BPM)))
	events := tracker.Pattern(packed.Bits(), o.Instrument)
	var pending uint32 // ticks since the last written message
	for l := 0; l < loops; l++ {
		for _, e := range events {
			key := bank.Note(o.Instrument, e.Sound)
			length := uint32(e.Length * ticksPerStep)
			track.Add(pending, midi.NoteOn(drumChannel, key, velocity))
			track.Add(length-1, midi.NoteOff(drumChannel, key))
			pending = 1
		}
	}
	track.Close(pending)
	if err := s.Add(track); err != nil {
		return fmt.Errorf("midifile.Write: %w", err)
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("midifile.Write: %w", err)
	}
	return nil
}
