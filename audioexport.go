package hailstone

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

var errEmptyBuffer = errors.New("empty audio buffer")

// WriteWav writes an interleaved stereo float32 buffer as a 16-bit PCM .wav
// file.
func WriteWav(w io.WriteSeeker, buffer []float32, sampleRate int) error {
	if len(buffer) == 0 {
		return fmt.Errorf("hailstone.WriteWav: %w", errEmptyBuffer)
	}
	enc := wav.NewEncoder(w, sampleRate, 16, 2, 1)
	intBuf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: sampleRate},
		Data:           make([]int, len(buffer)),
		SourceBitDepth: 16,
	}
	for i, v := range buffer {
		intBuf.Data[i] = clamp(int(v*math.MaxInt16), math.MinInt16, math.MaxInt16)
	}
	if err := enc.Write(intBuf); err != nil {
		return fmt.Errorf("hailstone.WriteWav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("hailstone.WriteWav: %w", err)
	}
	return nil
}

// Raw returns the buffer as headerless little-endian data, either as float32
// or as 16-bit signed integers.
func Raw(buffer []float32, pcm16 bool) ([]byte, error) {
	buf := new(bytes.Buffer)
	var err error
	if pcm16 {
		int16data := make([]int16, len(buffer))
		for i, v := range buffer {
			int16data[i] = int16(clamp(int(v*math.MaxInt16), math.MinInt16, math.MaxInt16))
		}
		err = binary.Write(buf, binary.LittleEndian, int16data)
	} else {
		err = binary.Write(buf, binary.LittleEndian, buffer)
	}
	if err != nil {
		return nil, fmt.Errorf("hailstone.Raw: could not binary write data: %w", err)
	}
	return buf.Bytes(), nil
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
