package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vsariola/hailstone"
)

type (
	// Player owns the playback state: the loaded trajectory, the instrument,
	// the tempo, the scheduler and the voice pool. All of it is touched only
	// from the goroutine running Run (or the caller of Handle, when the player
	// is driven synchronously), so none of it is locked.
	Player struct {
		audio     hailstone.AudioContext
		kit       *Kit
		generator *hailstone.Generator
		scheduler *Scheduler
		voices    *VoicePool

		post func(msg any)
		send func(msg MsgToModel)

		number     int
		bits       []hailstone.Bit
		runs       []hailstone.Run
		onsets     []bool
		instrument hailstone.Instrument
		bpm        int
		step       time.Duration
	}

	SetSequenceMsg struct {
		Number int
	}

	SetTempoMsg struct {
		BPM int
	}

	SetInstrumentMsg struct {
		Instrument hailstone.Instrument
	}

	StartMsg struct{}

	StopMsg struct{}

	// KitMsg delivers decoded samples. A non-nil Err means loading failed and
	// the player stays unready.
	KitMsg struct {
		Kit *Kit
		Err error
	}
)

const DefaultBPM = 120

// NewPlayer creates a player that communicates through the broker. Call Run in
// its own goroutine to process messages.
func NewPlayer(broker *Broker, audio hailstone.AudioContext, clock Clock) *Player {
	return newPlayer(audio, clock, DefaultPolyphony, broker.post, func(msg MsgToModel) {
		TrySend(broker.ToModel, msg)
	})
}

// NewSyncPlayer creates a player without a message loop: every message,
// including timer and voice callbacks, is handled synchronously by the
// goroutine that posts it. Used with a VirtualClock for offline rendering and
// deterministic tests. status may be nil.
func NewSyncPlayer(audio hailstone.AudioContext, clock Clock, polyphony int, status func(MsgToModel)) *Player {
	if status == nil {
		status = func(MsgToModel) {}
	}
	var p *Player
	p = newPlayer(audio, clock, polyphony, func(msg any) { p.Handle(msg) }, status)
	return p
}

func newPlayer(audio hailstone.AudioContext, clock Clock, polyphony int, post func(any), send func(MsgToModel)) *Player {
	p := &Player{
		audio:      audio,
		generator:  &hailstone.Generator{},
		post:       post,
		send:       send,
		instrument: hailstone.InstrumentHatKick,
		bpm:        DefaultBPM,
	}
	p.step, _ = hailstone.StepDuration(DefaultBPM)
	p.scheduler = NewScheduler(clock, post)
	p.scheduler.Len = p.length
	p.scheduler.Step = p.advance
	p.voices = NewVoicePool(audio, polyphony, post)
	return p
}

// Run processes messages until ctx is cancelled. Playback is stopped on exit.
func (p *Player) Run(ctx context.Context, broker *Broker) {
	defer close(broker.FinishedPlayer)
	for {
		select {
		case <-ctx.Done():
			p.stop()
			return
		case msg := <-broker.ToPlayer:
			p.Handle(msg)
		}
	}
}

// Handle processes a single message.
func (p *Player) Handle(msg any) {
	switch m := msg.(type) {
	case SetSequenceMsg:
		packed, err := p.generator.Trajectory(m.Number)
		if err != nil {
			p.alert("InvalidSequence", err.Error(), Warning)
			return
		}
		p.restart(func() {
			p.number = m.Number
			p.bits = packed.Bits()
			p.runs = hailstone.GroupRuns(p.bits, hailstone.MaxRunLength)
			p.onsets = hailstone.OnsetMask(p.bits)
		})
	case SetTempoMsg:
		step, err := hailstone.StepDuration(m.BPM)
		if err != nil {
			p.alert("InvalidTempo", err.Error(), Warning)
			return
		}
		p.restart(func() {
			p.bpm = m.BPM
			p.step = step
		})
	case SetInstrumentMsg:
		if !m.Instrument.Valid() {
			p.alert("InvalidInstrument", fmt.Sprintf("no such instrument: %d", int(m.Instrument)), Warning)
			return
		}
		p.restart(func() { p.instrument = m.Instrument })
	case StartMsg:
		p.start()
	case StopMsg:
		p.stop()
	case KitMsg:
		if m.Err != nil {
			p.alert("KitLoad", m.Err.Error(), Error)
			return
		}
		p.kit = m.Kit
		p.report(false, 0)
	case tickMsg:
		p.scheduler.Tick(m.gen)
	case voiceEndedMsg:
		p.voices.ended(m.id)
	default:
		// ignore unknown messages
	}
}

func (p *Player) Ready() bool   { return p.kit != nil && p.audio != nil }
func (p *Player) Playing() bool { return p.scheduler.Running() }
func (p *Player) Cursor() int   { return p.scheduler.Cursor() }
func (p *Player) Voices() int   { return p.voices.Len() }

func (p *Player) start() {
	if !p.Ready() {
		slog.Debug("start ignored", "reason", hailstone.ErrPlaybackUnavailable)
		p.alert("NotReady", hailstone.ErrPlaybackUnavailable.Error()+": samples are still loading", Info)
		return
	}
	if !p.scheduler.Start() && !p.scheduler.Running() {
		p.alert("EmptySequence", "no sequence loaded", Info)
	}
}

// stop returns whether the player was playing.
func (p *Player) stop() bool {
	was := p.scheduler.Running()
	p.scheduler.Stop()
	p.voices.StopAll()
	if was {
		p.report(false, 0)
	}
	return was
}

// restart applies a parameter change; a running sequence is stopped before
// and started again after it, so no tick of the old run survives.
func (p *Player) restart(change func()) {
	wasPlaying := p.stop()
	change()
	if wasPlaying {
		p.start()
	} else {
		p.report(false, 0)
	}
}

func (p *Player) length() int {
	if p.instrument.Mode() == hailstone.ModeRuns {
		return len(p.runs)
	}
	return len(p.bits)
}

// advance is the Scheduler.Step of the player.
func (p *Player) advance(cursor int) (int, time.Duration) {
	switch p.instrument.Mode() {
	case hailstone.ModeRuns:
		r := p.runs[cursor]
		p.trigger(hailstone.RunSound(r))
		return (cursor + 1) % len(p.runs), time.Duration(r.Length) * p.step
	case hailstone.ModeOnsets:
		if p.onsets[cursor] {
			p.trigger(hailstone.BitSound(p.bits[cursor]))
		} else {
			p.report(false, 0)
		}
	default:
		p.trigger(hailstone.BitSound(p.bits[cursor]))
	}
	return (cursor + 1) % len(p.bits), p.step
}

func (p *Player) trigger(sound hailstone.Sound) {
	sample := p.kit.Sample(p.instrument, sound)
	if sample == nil {
		slog.Debug("no sample for sound", "instrument", p.instrument, "sound", sound)
		p.report(false, 0)
		return
	}
	if err := p.voices.Trigger(sample); err != nil {
		slog.Debug("voice trigger failed", "sample", sample.Name, "error", err)
	}
	p.report(true, sound)
}

func (p *Player) report(triggered bool, sound hailstone.Sound) {
	p.send(MsgToModel{
		Ready:      p.Ready(),
		Playing:    p.scheduler.Running(),
		Cursor:     p.scheduler.Cursor(),
		Length:     p.length(),
		Number:     p.number,
		BPM:        p.bpm,
		Instrument: p.instrument,
		Triggered:  triggered,
		Sound:      sound,
	})
}

func (p *Player) alert(name, message string, priority AlertPriority) {
	slog.Debug("player alert", "name", name, "priority", priority, "message", message)
	p.send(MsgToModel{
		Ready:      p.Ready(),
		Playing:    p.scheduler.Running(),
		Cursor:     p.scheduler.Cursor(),
		Length:     p.length(),
		Number:     p.number,
		BPM:        p.bpm,
		Instrument: p.instrument,
		Data:       Alert{Name: name, Priority: priority, Message: message},
	})
}
