// Package gomidi sends the triggered sounds to a MIDI output instead of the
// audio device. Each voice is a note that is released when the sample it
// stands for would have finished.
package gomidi

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vsariola/hailstone"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

type (
	// MIDIContext is a hailstone.AudioContext that plays notes on a MIDI
	// output.
	MIDIContext struct {
		mu      sync.Mutex // send may not be safe for concurrent use
		send    func(msg midi.Message) error
		closer  func() error
		notes   map[string]uint8
		channel uint8
	}

	MIDIVoice struct {
		context *MIDIContext
		note    uint8
		timer   *time.Timer
		state   atomic.Int32
	}
)

const (
	voicePlaying int32 = iota
	voiceFinished
	voiceStopped
)

const (
	DrumChannel = 9
	velocity    = 100
	// minimum note length, for samples too short to hear as a note
	minNoteLength = 10 * time.Millisecond
)

// NewContext plays on channel using send. notes maps sample names to keys,
// typically Bank.NotesBySample. closer, if not nil, is called by Close.
func NewContext(send func(msg midi.Message) error, closer func() error, notes map[string]uint8, channel uint8) *MIDIContext {
	return &MIDIContext{send: send, closer: closer, notes: notes, channel: channel}
}

// OpenOutput opens the first output port whose name starts with prefix and
// returns a context playing on the drum channel.
func OpenOutput(prefix string, notes map[string]uint8) (*MIDIContext, error) {
	outs, closeDriver, err := outputs()
	if err != nil {
		return nil, err
	}
	for _, out := range outs {
		if !strings.HasPrefix(out.String(), prefix) {
			continue
		}
		if err := out.Open(); err != nil {
			closeDriver()
			return nil, fmt.Errorf("opening MIDI output %q failed: %w", out.String(), err)
		}
		send, err := midi.SendTo(out)
		if err != nil {
			out.Close()
			closeDriver()
			return nil, fmt.Errorf("cannot send to MIDI output %q: %w", out.String(), err)
		}
		closer := func() error {
			err := out.Close()
			closeDriver()
			return err
		}
		return NewContext(send, closer, notes, DrumChannel), nil
	}
	closeDriver()
	return nil, fmt.Errorf("no MIDI output found with prefix %q", prefix)
}

// OutputNames lists the available MIDI output ports.
func OutputNames() ([]string, error) {
	outs, closeDriver, err := outputs()
	if err != nil {
		return nil, err
	}
	defer closeDriver()
	names := make([]string, len(outs))
	for i, out := range outs {
		names[i] = out.String()
	}
	return names, nil
}

func (c *MIDIContext) Play(sample *hailstone.Sample, ended func()) (hailstone.Voice, error) {
	note, ok := c.notes[sample.Name]
	if !ok {
		return nil, fmt.Errorf("no MIDI note for sample %q", sample.Name)
	}
	if err := c.sendMsg(midi.NoteOn(c.channel, note, velocity)); err != nil {
		return nil, err
	}
	v := &MIDIVoice{context: c, note: note}
	length := sample.Duration()
	if length < minNoteLength {
		length = minNoteLength
	}
	v.timer = time.AfterFunc(length, func() {
		if v.state.CompareAndSwap(voicePlaying, voiceFinished) {
			v.release()
			ended()
		}
	})
	return v, nil
}

func (c *MIDIContext) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}

func (c *MIDIContext) sendMsg(msg midi.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.send(msg); err != nil {
		return fmt.Errorf("sending %v failed: %w", msg, err)
	}
	return nil
}

func (v *MIDIVoice) Stop() error {
	if !v.state.CompareAndSwap(voicePlaying, voiceStopped) {
		return hailstone.ErrVoiceStopped
	}
	v.timer.Stop()
	v.release()
	return nil
}

func (v *MIDIVoice) release() {
	if err := v.context.sendMsg(midi.NoteOff(v.context.channel, v.note)); err != nil {
		slog.Debug("note off failed", "note", v.note, "error", err)
	}
}

var errNoDriver = errors.New("MIDI output is not available in this build (needs cgo)")

// used by the driver files
type outputLister func() ([]drivers.Out, func(), error)
