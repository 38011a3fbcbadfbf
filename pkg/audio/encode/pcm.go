// ABOUTME: PCM channel encoder
// ABOUTME: Encodes waves to 16-bit little-endian mono or stereo PCM bytes
package encode

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/hearcheck/hearcheck-go/pkg/audio"
	"github.com/hearcheck/hearcheck-go/pkg/tone"
)

// PCMEncoder encodes 16-bit PCM
type PCMEncoder struct {
	format audio.Format
}

// NewPCM creates a new PCM encoder
func NewPCM(format audio.Format) (Encoder, error) {
	if format.BitDepth != audio.BitDepth {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16)", format.BitDepth)
	}

	if format.Channels != 1 && format.Channels != 2 {
		return nil, fmt.Errorf("unsupported channel count: %d (supported: 1, 2)", format.Channels)
	}

	if format.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", format.SampleRate)
	}

	return &PCMEncoder{
		format: format,
	}, nil
}

// ForLayout returns an encoder at audio.SampleRate for a layout
func ForLayout(layout audio.Layout) Encoder {
	return &PCMEncoder{format: audio.NewFormat(layout)}
}

// Format returns the output format
func (e *PCMEncoder) Format() audio.Format {
	return e.format
}

// Encode converts wave samples to PCM bytes
func (e *PCMEncoder) Encode(wave tone.Wave, amplitude int, channel audio.Channel) audio.Buffer {
	frame := e.format.BytesPerFrame()
	output := make([]byte, wave.Len()*frame)

	if e.format.Channels == 1 {
		// Mono: one slot, silent only for ChannelNone
		if channel == audio.ChannelNone {
			return audio.NewBuffer(output, e.format)
		}
		i := 0
		for s := range wave.All() {
			binary.LittleEndian.PutUint16(output[i*2:], uint16(Quantize(s, amplitude)))
			i++
		}
		return audio.NewBuffer(output, e.format)
	}

	left := channel.Carries(audio.ChannelLeft)
	right := channel.Carries(audio.ChannelRight)

	i := 0
	for s := range wave.All() {
		v := uint16(Quantize(s, amplitude))
		if left {
			binary.LittleEndian.PutUint16(output[i*4:], v)
		}
		if right {
			binary.LittleEndian.PutUint16(output[i*4+2:], v)
		}
		i++
	}

	return audio.NewBuffer(output, e.format)
}

// Quantize scales s by amplitude, rounds, and wraps into int16
func Quantize(s float64, amplitude int) int16 {
	return int16(int64(math.Round(s * float64(amplitude))))
}
