package hailstone

import (
	_ "embed"
	"fmt"
	"io"
	"path"

	"gopkg.in/yaml.v3"
)

type (
	// Bank tells which sample files each instrument uses. Paths are slash
	// separated and relative to the sample directory.
	Bank struct {
		Instruments []BankInstrument `yaml:"instruments"`
	}

	// BankInstrument lists the sample files of an instrument in Sound order.
	// Notes optionally gives a MIDI note per sound for MIDI output; missing
	// notes fall back to General MIDI drum keys.
	BankInstrument struct {
		Name   string   `yaml:"name"`
		Sounds []string `yaml:"sounds,flow"`
		Notes  []uint8  `yaml:"notes,flow,omitempty"`
	}
)

//go:embed bank.yml
var defaultBank []byte

// DefaultBank returns the built-in bank, which expects the sample directory
// layout 01/hat.wav, 01/kick.wav, 02/kick.wav, 02/rim.wav and 03/01.wav ...
// 04/08.wav.
func DefaultBank() *Bank {
	var b Bank
	if err := yaml.Unmarshal(defaultBank, &b); err != nil {
		panic(fmt.Sprintf("built-in bank is invalid: %v", err))
	}
	return &b
}

// ReadBank parses a bank from YAML and validates it.
func ReadBank(r io.Reader) (*Bank, error) {
	var b Bank
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("hailstone.ReadBank: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Write encodes the bank as YAML.
func (b *Bank) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("hailstone.Bank.Write: %w", err)
	}
	return enc.Close()
}

// Validate checks that every instrument has exactly the number of sounds its
// mode needs.
func (b *Bank) Validate() error {
	if len(b.Instruments) != NumInstruments {
		return fmt.Errorf("hailstone.Bank: %w: expected %d instruments, got %d", ErrInvalidInput, NumInstruments, len(b.Instruments))
	}
	for i, instr := range b.Instruments {
		id := Instrument(i + 1)
		if len(instr.Sounds) != id.NumSounds() {
			return fmt.Errorf("hailstone.Bank: %w: instrument %d (%s) needs %d sounds, got %d", ErrInvalidInput, id, id, id.NumSounds(), len(instr.Sounds))
		}
		if len(instr.Notes) > 0 && len(instr.Notes) != len(instr.Sounds) {
			return fmt.Errorf("hailstone.Bank: %w: instrument %d has %d notes for %d sounds", ErrInvalidInput, id, len(instr.Notes), len(instr.Sounds))
		}
		for _, n := range instr.Notes {
			if n > 127 {
				return fmt.Errorf("hailstone.Bank: %w: instrument %d has an out of range note %d", ErrInvalidInput, id, n)
			}
		}
		for _, s := range instr.Sounds {
			if s == "" || path.IsAbs(s) {
				return fmt.Errorf("hailstone.Bank: %w: instrument %d has an invalid sound path %q", ErrInvalidInput, id, s)
			}
		}
	}
	return nil
}

// Sounds returns the sample paths of an instrument.
func (b *Bank) Sounds(i Instrument) []string {
	if !i.Valid() || int(i) > len(b.Instruments) {
		return nil
	}
	return b.Instruments[i-1].Sounds
}

// General MIDI percussion keys used when the bank gives no notes.
var (
	defaultRawNotes = [NumInstruments][rawSounds]uint8{
		{42, 36}, // closed hi-hat, bass drum
		{36, 37}, // bass drum, side stick
	}
	defaultRunNotes = [len(runSounds) * MaxRunLength]uint8{36, 38, 42, 46, 39, 45, 48, 50}
)

// Note returns the MIDI note of a sound. Negative sounds get the note of
// sound 0.
func (b *Bank) Note(i Instrument, s Sound) uint8 {
	if s < 0 {
		s = 0
	}
	if i.Valid() && int(i) <= len(b.Instruments) {
		notes := b.Instruments[i-1].Notes
		if int(s) >= 0 && int(s) < len(notes) {
			return notes[s]
		}
	}
	if i.Mode() == ModeRuns {
		return defaultRunNotes[int(s)%len(defaultRunNotes)]
	}
	if !i.Valid() {
		i = InstrumentHatKick
	}
	return defaultRawNotes[i-1][int(s)&1]
}

// NotesBySample maps every sample path of the bank to its MIDI note. When a
// path is used by several instruments, the first one wins.
func (b *Bank) NotesBySample() map[string]uint8 {
	ret := make(map[string]uint8)
	for i, instr := range b.Instruments {
		for j, name := range instr.Sounds {
			if _, ok := ret[name]; !ok {
				ret[name] = b.Note(Instrument(i+1), Sound(j))
			}
		}
	}
	return ret
}
