// Package oto plays samples on the audio device using ebitengine/oto.
package oto

import (
	"bytes"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/vsariola/hailstone"
)

type (
	// OtoContext is a hailstone.AudioContext backed by an oto context. Every
	// voice is its own oto player; oto mixes them.
	OtoContext struct {
		context *oto.Context
		ready   chan struct{}

		mu  sync.Mutex
		pcm map[*hailstone.Sample][]byte // converted once per sample
	}

	// OtoVoice is a single playing sample.
	OtoVoice struct {
		player *oto.Player
		state  atomic.Int32
	}
)

const (
	voicePlaying int32 = iota
	voiceFinished
	voiceStopped
)

const (
	otoBufferSize = 20 * time.Millisecond
	pollInterval  = 5 * time.Millisecond
)

// NewContext opens the audio device. The device may need a moment before it
// can play; Ready is closed once it can.
func NewContext() (*OtoContext, error) {
	context, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   hailstone.SampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   otoBufferSize,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	return &OtoContext{context: context, ready: ready, pcm: make(map[*hailstone.Sample][]byte)}, nil
}

func (c *OtoContext) Ready() <-chan struct{} {
	return c.ready
}

// Play starts the sample and returns immediately. ended is called from a
// polling goroutine when the sample has played to the end.
func (c *OtoContext) Play(sample *hailstone.Sample, ended func()) (hailstone.Voice, error) {
	select {
	case <-c.ready:
	default:
		return nil, hailstone.ErrPlaybackUnavailable
	}
	v := &OtoVoice{player: c.context.NewPlayer(bytes.NewReader(c.bytes(sample)))}
	v.player.Play()
	go v.wait(ended)
	return v, nil
}

// Close suspends the device. oto contexts live for the whole process, so the
// context cannot be reopened.
func (c *OtoContext) Close() error {
	if err := c.context.Suspend(); err != nil {
		return fmt.Errorf("cannot suspend oto context: %w", err)
	}
	return nil
}

func (c *OtoContext) bytes(sample *hailstone.Sample) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.pcm[sample]
	if !ok {
		b = FloatBufferTo16BitLE(sample.Data, make([]byte, 0, 2*len(sample.Data)))
		c.pcm[sample] = b
	}
	return b
}

// Stop silences the voice. It returns hailstone.ErrVoiceStopped if the voice
// already finished or was stopped.
func (v *OtoVoice) Stop() error {
	if !v.state.CompareAndSwap(voicePlaying, voiceStopped) {
		return hailstone.ErrVoiceStopped
	}
	v.player.Pause()
	return nil
}

func (v *OtoVoice) wait(ended func()) {
	for {
		time.Sleep(pollInterval)
		if v.state.Load() != voicePlaying {
			return
		}
		if !v.player.IsPlaying() {
			if v.state.CompareAndSwap(voicePlaying, voiceFinished) {
				if err := v.player.Err(); err != nil {
					slog.Debug("oto player stopped with an error", "error", err)
				}
				ended()
			}
			return
		}
	}
}
