package tracker

import (
	"time"

	"github.com/vsariola/hailstone"
)

type (
	// Broker connects the Model (UI side) and the Player (event loop). The
	// model sends commands on ToPlayer; the player reports status on ToModel.
	// Timer and voice callbacks, which run on their own goroutines, also post
	// into ToPlayer, so everything touching the playback state is serialized
	// on the player goroutine.
	//
	// FinishedPlayer is closed when Player.Run returns. Posts after that are
	// dropped instead of blocking forever.
	Broker struct {
		ToPlayer       chan any
		ToModel        chan MsgToModel
		FinishedPlayer chan struct{}
	}

	// MsgToModel is a status report from the player. The frequent fields are
	// unboxed; rare payloads such as Alert travel in Data.
	MsgToModel struct {
		Ready      bool
		Playing    bool
		Cursor     int
		Length     int
		Number     int
		BPM        int
		Instrument hailstone.Instrument

		Triggered bool
		Sound     hailstone.Sound

		Data any
	}

	// AlertPriority orders alerts by severity.
	AlertPriority int

	// Alert is a problem the player absorbed instead of failing.
	Alert struct {
		Name     string
		Priority AlertPriority
		Message  string
	}
)

const (
	Info AlertPriority = iota
	Warning
	Error
)

func NewBroker() *Broker {
	return &Broker{
		ToPlayer:       make(chan any, 1024),
		ToModel:        make(chan MsgToModel, 1024),
		FinishedPlayer: make(chan struct{}),
	}
}

// post delivers a message to the player, blocking until there is room or the
// player has finished.
func (b *Broker) post(msg any) {
	select {
	case b.ToPlayer <- msg:
	case <-b.FinishedPlayer:
	}
}

func (p AlertPriority) String() string {
	switch p {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return "unknown"
}

// TrySend is a helper function to send a value to a channel if it is not full.
// It is guaranteed to be non-blocking. Return true if the value was sent, false
// otherwise.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}

// TimeoutReceive is a helper function to block until a value is received from a
// channel, or timing out after t. ok will be false if the timeout occurred or
// if the channel is closed.
func TimeoutReceive[T any](c <-chan T, t time.Duration) (v T, ok bool) {
	select {
	case v, ok = <-c:
		return v, ok
	case <-time.After(t):
		return v, false
	}
}
