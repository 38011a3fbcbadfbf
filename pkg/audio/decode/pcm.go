// ABOUTME: PCM audio decoder
// ABOUTME: Decodes 16-bit little-endian PCM into int16 samples
package decode

import (
	"encoding/binary"
	"fmt"

	"github.com/hearcheck/hearcheck-go/pkg/audio"
)

// PCMDecoder decodes PCM audio
type PCMDecoder struct {
	channels int
}

// NewPCM creates a new PCM decoder
func NewPCM(format audio.Format) (Decoder, error) {
	if format.BitDepth != audio.BitDepth {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16)", format.BitDepth)
	}

	if format.Channels < 1 {
		return nil, fmt.Errorf("invalid channel count: %d", format.Channels)
	}

	return &PCMDecoder{
		channels: format.Channels,
	}, nil
}

// Decode converts PCM bytes to int16 samples
func (d *PCMDecoder) Decode(data []byte) ([]int16, error) {
	frame := d.channels * 2
	if len(data)%frame != 0 {
		return nil, fmt.Errorf("truncated PCM: %d bytes is not a multiple of %d", len(data), frame)
	}

	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}
	return samples, nil
}

// Deinterleave splits interleaved samples into one slice per channel
func Deinterleave(samples []int16, channels int) [][]int16 {
	if channels < 1 {
		return nil
	}

	frames := len(samples) / channels
	out := make([][]int16, channels)
	for ch := range out {
		out[ch] = make([]int16, frames)
	}

	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			out[ch][i] = samples[i*channels+ch]
		}
	}
	return out
}

// Buffer decodes and deinterleaves an encoded buffer
func Buffer(buf audio.Buffer) ([][]int16, error) {
	decoder, err := NewPCM(buf.Format)
	if err != nil {
		return nil, err
	}

	samples, err := decoder.Decode(buf.Bytes())
	if err != nil {
		return nil, err
	}

	return Deinterleave(samples, buf.Format.Channels), nil
}
