// ABOUTME: Linear resampler for tone buffers
// ABOUTME: Converts whole PCM buffers to a device rate channel by channel
package resample

import (
	"encoding/binary"
	"math"

	"github.com/hearcheck/hearcheck-go/pkg/audio"
	"github.com/hearcheck/hearcheck-go/pkg/audio/decode"
)

// Frames returns how many frames n input frames become at outputRate
func Frames(n, inputRate, outputRate int) int {
	if n <= 0 || inputRate <= 0 || outputRate <= 0 {
		return 0
	}
	return int(int64(n) * int64(outputRate) / int64(inputRate))
}

// Channel converts one channel's samples by linear interpolation.
// Positions past the last input sample hold that sample.
func Channel(in []int16, inputRate, outputRate int) []int16 {
	n := Frames(len(in), inputRate, outputRate)
	if n == 0 {
		return nil
	}
	if inputRate == outputRate {
		return append([]int16(nil), in...)
	}

	out := make([]int16, n)
	step := float64(inputRate) / float64(outputRate)
	last := len(in) - 1

	for i := range out {
		pos := float64(i) * step
		j := int(pos)
		if j >= last {
			out[i] = in[last]
			continue
		}
		frac := pos - float64(j)
		out[i] = int16(math.Round(float64(in[j])*(1-frac) + float64(in[j+1])*frac))
	}
	return out
}

// Buffer converts an encoded buffer to outputRate. Buffers already at
// outputRate are returned unchanged.
func Buffer(buf audio.Buffer, outputRate int) (audio.Buffer, error) {
	format := buf.Format
	if format.SampleRate == outputRate || outputRate <= 0 {
		return buf, nil
	}

	channels, err := decode.Buffer(buf)
	if err != nil {
		return audio.Buffer{}, err
	}

	for ch, samples := range channels {
		channels[ch] = Channel(samples, format.SampleRate, outputRate)
	}

	frames := Frames(buf.Frames(), format.SampleRate, outputRate)
	out := make([]byte, frames*len(channels)*2)
	for i := 0; i < frames; i++ {
		for ch, samples := range channels {
			binary.LittleEndian.PutUint16(out[(i*len(channels)+ch)*2:], uint16(samples[i]))
		}
	}

	format.SampleRate = outputRate
	return audio.NewBuffer(out, format), nil
}
