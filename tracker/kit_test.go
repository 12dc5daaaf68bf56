package tracker_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vsariola/hailstone"
	"github.com/vsariola/hailstone/tracker"
)

// readyAudio is an audio context that opens its device asynchronously.
type readyAudio struct {
	fakeAudio
	ready chan struct{}
}

func (a *readyAudio) Ready() <-chan struct{} { return a.ready }

func wavFile(t *testing.T, sampleRate int, frames int) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "s.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	buffer := make([]float32, 2*frames)
	for i := range buffer {
		buffer[i] = 0.5
	}
	require.NoError(t, hailstone.WriteWav(f, buffer, sampleRate))
	require.NoError(t, f.Close())
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	return raw
}

func bankFS(t *testing.T, bank *hailstone.Bank) fstest.MapFS {
	raw := wavFile(t, hailstone.SampleRate, 441)
	fsys := fstest.MapFS{}
	for i := hailstone.InstrumentHatKick; int(i) <= hailstone.NumInstruments; i++ {
		for _, name := range bank.Sounds(i) {
			fsys[name] = &fstest.MapFile{Data: raw}
		}
	}
	return fsys
}

func TestLoadKit(t *testing.T) {
	bank := hailstone.DefaultBank()
	kit, err := tracker.LoadKit(bankFS(t, bank), bank)
	require.NoError(t, err)
	for i := hailstone.InstrumentHatKick; int(i) <= hailstone.NumInstruments; i++ {
		for s := 0; s < i.NumSounds(); s++ {
			sample := kit.Sample(i, hailstone.Sound(s))
			require.NotNil(t, sample)
			require.Equal(t, bank.Sounds(i)[s], sample.Name)
			require.Equal(t, 441, sample.Frames())
		}
		require.Nil(t, kit.Sample(i, hailstone.Sound(i.NumSounds())))
	}
	require.Nil(t, kit.Sample(0, 0))
	var nilKit *tracker.Kit
	require.Nil(t, nilKit.Sample(hailstone.InstrumentHatKick, 0))
}

func TestLoadKitMissingFile(t *testing.T) {
	bank := hailstone.DefaultBank()
	fsys := bankFS(t, bank)
	delete(fsys, "03/05.wav")
	_, err := tracker.LoadKit(fsys, bank)
	require.ErrorContains(t, err, "03/05.wav")
}

func TestLoadKitInvalidBank(t *testing.T) {
	_, err := tracker.LoadKit(fstest.MapFS{}, &hailstone.Bank{})
	require.ErrorIs(t, err, hailstone.ErrInvalidInput)
}

func TestLoadKitAcceptsOtherSampleRates(t *testing.T) {
	bank := hailstone.DefaultBank()
	fsys := bankFS(t, bank)
	fsys["01/hat.wav"] = &fstest.MapFile{Data: wavFile(t, 22050, 100)}
	kit, err := tracker.LoadKit(fsys, bank)
	require.NoError(t, err)
	require.Equal(t, 22050, kit.Sample(hailstone.InstrumentHatKick, 0).SampleRate)
}

func TestPlayerLoadKitWaitsForDevice(t *testing.T) {
	bank := hailstone.DefaultBank()
	broker := tracker.NewBroker()
	audio := &readyAudio{ready: make(chan struct{})}
	player := tracker.NewPlayer(broker, audio, tracker.RealClock{})
	player.LoadKit(context.Background(), bankFS(t, bank), bank)
	_, ok := tracker.TimeoutReceive(broker.ToPlayer, 50*time.Millisecond)
	require.False(t, ok, "kit must not arrive before the device is ready")
	close(audio.ready)
	msg, ok := tracker.TimeoutReceive(broker.ToPlayer, 5*time.Second)
	require.True(t, ok)
	kitMsg, ok := msg.(tracker.KitMsg)
	require.True(t, ok)
	require.NoError(t, kitMsg.Err)
	require.NotNil(t, kitMsg.Kit)
}

func TestPlayerLoadKitCancelled(t *testing.T) {
	bank := hailstone.DefaultBank()
	broker := tracker.NewBroker()
	audio := &readyAudio{ready: make(chan struct{})}
	player := tracker.NewPlayer(broker, audio, tracker.RealClock{})
	ctx, cancel := context.WithCancel(context.Background())
	player.LoadKit(ctx, bankFS(t, bank), bank)
	cancel()
	close(audio.ready)
	_, ok := tracker.TimeoutReceive(broker.ToPlayer, 100*time.Millisecond)
	require.False(t, ok)
}
