package hailstone

import "fmt"

type (
	// Instrument selects how a trajectory is played and which samples are
	// used. Valid instruments are numbered from 1, as in the user interface.
	Instrument int

	// Mode is the stepping strategy of an instrument.
	Mode int

	// Sound is an index into the sample list of an instrument.
	Sound int
)

const (
	InstrumentHatKick Instrument = iota + 1 // raw bits, two samples
	InstrumentOnsets                        // raw bits, sound only on the first bit of a stretch
	InstrumentRunsA                         // capped runs, eight samples
	InstrumentRunsB                         // capped runs, eight samples

	NumInstruments = int(InstrumentRunsB)
)

const (
	ModeRaw    Mode = iota // one bit per step
	ModeOnsets             // one bit per step, triggers at first-in-run indices only
	ModeRuns               // one run per step, held for Length steps
)

// sounds per bit value for raw and onset instruments
const rawSounds = 2

// runSounds maps (bit, length-1) to a sample of a run instrument. Lengths past
// the table use the last column.
var runSounds = [2][MaxRunLength]Sound{
	{0, 3, 6, 5},
	{4, 2, 7, 1},
}

var instrumentNames = [NumInstruments]string{"hat kick", "kick rim onsets", "runs a", "runs b"}

// ParseInstrument validates an instrument number coming from the outside.
func ParseInstrument(id int) (Instrument, error) {
	i := Instrument(id)
	if !i.Valid() {
		return 0, fmt.Errorf("hailstone.ParseInstrument(%d): %w: instrument must be in [1, %d]", id, ErrInvalidInput, NumInstruments)
	}
	return i, nil
}

func (i Instrument) Valid() bool {
	return i >= InstrumentHatKick && int(i) <= NumInstruments
}

func (i Instrument) Mode() Mode {
	switch i {
	case InstrumentOnsets:
		return ModeOnsets
	case InstrumentRunsA, InstrumentRunsB:
		return ModeRuns
	default:
		return ModeRaw
	}
}

// NumSounds is the number of samples an instrument needs.
func (i Instrument) NumSounds() int {
	if i.Mode() == ModeRuns {
		return len(runSounds) * MaxRunLength
	}
	return rawSounds
}

func (i Instrument) String() string {
	if !i.Valid() {
		return fmt.Sprintf("instrument(%d)", int(i))
	}
	return instrumentNames[i-1]
}

// BitSound is the sound of a single bit for the raw and onset instruments.
func BitSound(b Bit) Sound {
	return Sound(b & 1)
}

// RunSound is the sound of a run for the run instruments.
func RunSound(r Run) Sound {
	l := r.Length
	if l < 1 {
		l = 1
	}
	if l > MaxRunLength {
		l = MaxRunLength
	}
	return runSounds[r.Bit&1][l-1]
}

func (m Mode) String() string {
	switch m {
	case ModeRaw:
		return "raw"
	case ModeOnsets:
		return "onsets"
	case ModeRuns:
		return "runs"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}
