package oto

import (
	"encoding/binary"
	"math"
)

// FloatBufferTo16BitLE converts a float32 buffer to 16-bit little-endian
// integers, appending to out. Values outside [-1, 1] are clipped.
func FloatBufferTo16BitLE(buff []float32, out []byte) []byte {
	for _, v := range buff {
		var uv int16
		if v < -1.0 {
			uv = -math.MaxInt16
		} else if v > 1.0 {
			uv = math.MaxInt16
		} else {
			uv = int16(v * math.MaxInt16)
		}
		out = binary.LittleEndian.AppendUint16(out, uint16(uv))
	}
	return out
}
