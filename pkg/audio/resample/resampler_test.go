// ABOUTME: Tests for the tone resampler
// ABOUTME: Covers frame counts, interpolation and channel isolation
package resample

import (
	"encoding/binary"
	"testing"

	"github.com/hearcheck/hearcheck-go/pkg/audio"
)

func TestFrames(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		in, out  int
		expected int
	}{
		{"upsample", 44100, 44100, 48000, 48000},
		{"downsample", 480, 48000, 44100, 441},
		{"same rate", 100, 44100, 44100, 100},
		{"empty", 0, 44100, 48000, 0},
		{"bad rate", 100, 0, 48000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Frames(tt.n, tt.in, tt.out); got != tt.expected {
				t.Errorf("expected %d frames, got %d", tt.expected, got)
			}
		})
	}
}

func TestChannelInterpolates(t *testing.T) {
	// Doubling the rate puts a midpoint between every pair
	out := Channel([]int16{0, 100, 200, 300}, 1000, 2000)

	expected := []int16{0, 50, 100, 150, 200, 250, 300, 300}
	if len(out) != len(expected) {
		t.Fatalf("expected %d samples, got %d", len(expected), len(out))
	}
	for i := range expected {
		if out[i] != expected[i] {
			t.Errorf("sample %d: expected %d, got %d", i, expected[i], out[i])
		}
	}
}

func TestChannelEmptyInput(t *testing.T) {
	if out := Channel(nil, 44100, 48000); out != nil {
		t.Errorf("expected no samples for empty input, got %d", len(out))
	}
}

func TestBufferKeepsSilentChannel(t *testing.T) {
	frames := 441
	data := make([]byte, frames*4)
	for i := 0; i < frames; i++ {
		binary.LittleEndian.PutUint16(data[i*4:], uint16(int16(i*50)))
	}
	buf := audio.NewBuffer(data, audio.NewFormat(audio.Stereo))

	out, err := Buffer(buf, 48000)
	if err != nil {
		t.Fatalf("Buffer() error = %v, want nil", err)
	}

	if out.Format.SampleRate != 48000 {
		t.Fatalf("expected 48000 Hz, got %d", out.Format.SampleRate)
	}
	if out.Frames() != 480 {
		t.Errorf("expected 480 frames, got %d", out.Frames())
	}

	b := out.Bytes()
	for i := 0; i < out.Frames(); i++ {
		if b[i*4+2] != 0 || b[i*4+3] != 0 {
			t.Fatalf("frame %d: right slot not silent after resampling", i)
		}
	}
}

func TestBufferSameRate(t *testing.T) {
	buf := audio.NewBuffer([]byte{1, 2, 3, 4}, audio.NewFormat(audio.Mono))

	out, err := Buffer(buf, audio.SampleRate)
	if err != nil {
		t.Fatalf("Buffer() error = %v, want nil", err)
	}
	if out.Len() != buf.Len() {
		t.Errorf("expected unchanged buffer, got %d bytes", out.Len())
	}
}

func TestBufferTruncated(t *testing.T) {
	buf := audio.NewBuffer([]byte{1, 2, 3}, audio.NewFormat(audio.Stereo))

	if _, err := Buffer(buf, 48000); err == nil {
		t.Error("expected error for truncated buffer")
	}
}
