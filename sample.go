package hailstone

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/go-audio/wav"
	"github.com/viterin/vek/vek32"
)

// SampleRate is the rate of the audio device and of all mixdowns.
const SampleRate = 44100

// Sample is a decoded, immutable sound. Data holds interleaved stereo float32
// frames in [-1, 1].
type Sample struct {
	Name       string
	SampleRate int
	Data       []float32
}

// Frames returns the length of the sample in stereo frames.
func (s *Sample) Frames() int {
	return len(s.Data) / 2
}

func (s *Sample) Duration() time.Duration {
	if s.SampleRate <= 0 {
		return 0
	}
	return time.Duration(s.Frames()) * time.Second / time.Duration(s.SampleRate)
}

// Peak returns the largest absolute sample value.
func (s *Sample) Peak() float32 {
	if len(s.Data) == 0 {
		return 0
	}
	return vek32.Max(vek32.Abs(s.Data))
}

// DecodeWav decodes an integer PCM .wav file into a stereo Sample. Mono files
// are duplicated to both channels; files with more than two channels keep the
// first two. 8-bit data is unsigned and centered at 128.
func DecodeWav(raw []byte, name string) (*Sample, error) {
	d := wav.NewDecoder(bytes.NewReader(raw))
	if !d.IsValidFile() {
		return nil, fmt.Errorf("hailstone.DecodeWav(%s): not a valid wav file", name)
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("hailstone.DecodeWav(%s): %w", name, err)
	}
	if buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, fmt.Errorf("hailstone.DecodeWav(%s): missing channel information", name)
	}
	bitDepth := int(d.BitDepth)
	if bitDepth == 0 {
		return nil, fmt.Errorf("hailstone.DecodeWav(%s): unknown bit depth", name)
	}
	offset := 0
	if bitDepth == 8 {
		offset = 128
	}
	channels := buf.Format.NumChannels
	frames := len(buf.Data) / channels
	data := make([]float32, frames*2)
	for f := 0; f < frames; f++ {
		left := buf.Data[f*channels] - offset
		right := left
		if channels > 1 {
			right = buf.Data[f*channels+1] - offset
		}
		data[2*f] = float32(left)
		data[2*f+1] = float32(right)
	}
	if len(data) > 0 {
		vek32.MulNumber_Inplace(data, float32(1/math.Pow(2, float64(bitDepth-1))))
	}
	return &Sample{Name: name, SampleRate: buf.Format.SampleRate, Data: data}, nil
}
