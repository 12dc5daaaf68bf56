package tracker

import (
	"errors"
	"log/slog"

	"github.com/vsariola/hailstone"
)

// DefaultPolyphony is the number of voices that may sound at the same time.
const DefaultPolyphony = 3

type (
	// VoicePool bounds the number of simultaneously playing voices. When the
	// pool is full, triggering a new voice stops the one that was started
	// earliest. Like the Scheduler, it is driven from a single goroutine;
	// natural voice completions are posted back as voiceEndedMsg.
	VoicePool struct {
		audio    hailstone.AudioContext
		post     func(msg any)
		capacity int
		voices   []*pooledVoice // oldest first
		nextID   uint64
	}

	pooledVoice struct {
		id     uint64
		sample *hailstone.Sample
		voice  hailstone.Voice
	}

	voiceEndedMsg struct {
		id uint64
	}
)

func NewVoicePool(audio hailstone.AudioContext, capacity int, post func(msg any)) *VoicePool {
	if capacity < 1 {
		capacity = 1
	}
	return &VoicePool{audio: audio, capacity: capacity, post: post}
}

func (p *VoicePool) Len() int      { return len(p.voices) }
func (p *VoicePool) Capacity() int { return p.capacity }

// Samples returns the samples of the sounding voices, oldest first.
func (p *VoicePool) Samples() []*hailstone.Sample {
	ret := make([]*hailstone.Sample, len(p.voices))
	for i, v := range p.voices {
		ret[i] = v.sample
	}
	return ret
}

// Trigger starts a new voice, evicting the oldest one if the pool is full.
func (p *VoicePool) Trigger(sample *hailstone.Sample) error {
	if p.audio == nil {
		return hailstone.ErrPlaybackUnavailable
	}
	if sample == nil {
		return nil
	}
	for len(p.voices) >= p.capacity {
		oldest := p.voices[0]
		p.voices = p.voices[1:]
		p.stop(oldest)
	}
	pv := &pooledVoice{id: p.nextID, sample: sample}
	p.nextID++
	// appended before Play so that an immediate completion finds it
	p.voices = append(p.voices, pv)
	id := pv.id
	v, err := p.audio.Play(sample, func() { p.post(voiceEndedMsg{id: id}) })
	if err != nil {
		p.remove(id)
		return err
	}
	pv.voice = v
	return nil
}

// StopAll stops every voice and empties the pool.
func (p *VoicePool) StopAll() {
	for _, v := range p.voices {
		p.stop(v)
	}
	p.voices = p.voices[:0]
}

func (p *VoicePool) ended(id uint64) {
	p.remove(id)
}

func (p *VoicePool) remove(id uint64) {
	for i, v := range p.voices {
		if v.id == id {
			p.voices = append(p.voices[:i], p.voices[i+1:]...)
			return
		}
	}
}

// stop never fails: a voice that already ended is the expected race here.
func (p *VoicePool) stop(v *pooledVoice) {
	if v.voice == nil {
		return
	}
	if err := v.voice.Stop(); err != nil && !errors.Is(err, hailstone.ErrVoiceStopped) {
		slog.Debug("voice stop failed", "sample", v.sample.Name, "error", err)
	}
}
