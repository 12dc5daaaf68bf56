package tracker

import (
	"errors"
	"fmt"

	"github.com/vsariola/hailstone"
)

// Model is the user interface side of the tracker. It validates input before
// anything is sent to the player, so invalid values never touch the playback
// state, and it keeps the latest status reported by the player.
//
// Model is owned by the UI goroutine and is not safe for concurrent use.
type Model struct {
	broker *Broker
	status MsgToModel
	// alerts drained by Start, returned by the next Update
	pending []Alert
}

var errPlayerBusy = errors.New("player message queue is full")

func NewModel(broker *Broker) *Model {
	return &Model{broker: broker, status: MsgToModel{BPM: DefaultBPM, Instrument: hailstone.InstrumentHatKick}}
}

// SetSequence selects the trajectory of n.
func (m *Model) SetSequence(n int) error {
	if n < 1 {
		return fmt.Errorf("tracker.Model.SetSequence(%d): %w: n must be a positive integer", n, hailstone.ErrInvalidInput)
	}
	return m.send(SetSequenceMsg{Number: n})
}

func (m *Model) SetTempo(bpm int) error {
	if _, err := hailstone.StepDuration(bpm); err != nil {
		return err
	}
	return m.send(SetTempoMsg{BPM: bpm})
}

func (m *Model) SetInstrument(id int) error {
	instr, err := hailstone.ParseInstrument(id)
	if err != nil {
		return err
	}
	return m.send(SetInstrumentMsg{Instrument: instr})
}

// Start asks the player to start. Before the samples are decoded it returns
// ErrPlaybackUnavailable and sends nothing.
func (m *Model) Start() error {
	m.pending = m.Update()
	if !m.status.Ready {
		return hailstone.ErrPlaybackUnavailable
	}
	return m.send(StartMsg{})
}

func (m *Model) Stop() error {
	return m.send(StopMsg{})
}

// Update drains the status messages from the player and returns the alerts
// among them.
func (m *Model) Update() []Alert {
	alerts := m.pending
	m.pending = nil
	for {
		select {
		case msg := <-m.broker.ToModel:
			m.status = msg
			if a, ok := msg.Data.(Alert); ok {
				alerts = append(alerts, a)
			}
		default:
			return alerts
		}
	}
}

func (m *Model) Status() MsgToModel { return m.status }
func (m *Model) Ready() bool        { return m.status.Ready }
func (m *Model) Playing() bool      { return m.status.Playing }
func (m *Model) Cursor() int        { return m.status.Cursor }

func (m *Model) send(msg any) error {
	if !TrySend(m.broker.ToPlayer, msg) {
		return errPlayerBusy
	}
	return nil
}
