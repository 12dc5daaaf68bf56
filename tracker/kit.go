package tracker

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/vsariola/hailstone"
)

// Kit holds the decoded samples of every instrument, indexed by Sound.
type Kit struct {
	sounds [hailstone.NumInstruments][]*hailstone.Sample
}

// NewKit builds a kit from already decoded samples; sounds[i] are the samples
// of instrument i+1.
func NewKit(sounds [hailstone.NumInstruments][]*hailstone.Sample) *Kit {
	return &Kit{sounds: sounds}
}

// LoadKit reads and decodes every sample the bank names.
func LoadKit(fsys fs.FS, bank *hailstone.Bank) (*Kit, error) {
	if err := bank.Validate(); err != nil {
		return nil, err
	}
	var k Kit
	decoded := make(map[string]*hailstone.Sample)
	for i := range k.sounds {
		instr := hailstone.Instrument(i + 1)
		for _, name := range bank.Sounds(instr) {
			s, ok := decoded[name]
			if !ok {
				raw, err := fs.ReadFile(fsys, name)
				if err != nil {
					return nil, fmt.Errorf("tracker.LoadKit: %w", err)
				}
				s, err = hailstone.DecodeWav(raw, name)
				if err != nil {
					return nil, fmt.Errorf("tracker.LoadKit: %w", err)
				}
				if s.SampleRate != hailstone.SampleRate {
					slog.Warn("sample rate differs from the device rate, playback pitch will be off",
						"sample", name, "rate", s.SampleRate, "deviceRate", hailstone.SampleRate)
				}
				decoded[name] = s
			}
			k.sounds[i] = append(k.sounds[i], s)
		}
	}
	return &k, nil
}

// LoadKit decodes the bank in the background and delivers the result to the
// player as a KitMsg. If the audio context needs time to open the device,
// loading waits for it first, so a kit arriving means playback can begin.
func (p *Player) LoadKit(ctx context.Context, fsys fs.FS, bank *hailstone.Bank) {
	go func() {
		if rw, ok := p.audio.(hailstone.ReadyWaiter); ok {
			select {
			case <-rw.Ready():
			case <-ctx.Done():
				return
			}
		}
		kit, err := LoadKit(fsys, bank)
		if ctx.Err() != nil {
			return
		}
		p.post(KitMsg{Kit: kit, Err: err})
	}()
}

// Sample returns the sample of a sound, or nil if there is none.
func (k *Kit) Sample(instr hailstone.Instrument, s hailstone.Sound) *hailstone.Sample {
	if k == nil || !instr.Valid() {
		return nil
	}
	sounds := k.sounds[instr-1]
	if s < 0 || int(s) >= len(sounds) {
		return nil
	}
	return sounds[s]
}
