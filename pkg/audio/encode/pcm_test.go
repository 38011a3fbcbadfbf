// ABOUTME: Unit tests for PCM channel encoder
// ABOUTME: Tests 16-bit encoding, channel isolation and round trips
package encode

import (
	"encoding/binary"
	"strings"
	"testing"
	"time"

	"github.com/hearcheck/hearcheck-go/pkg/audio"
	"github.com/hearcheck/hearcheck-go/pkg/tone"
)

func testWave(t *testing.T) tone.Wave {
	t.Helper()
	w, err := tone.Generate(1000, 20*time.Millisecond, audio.SampleRate)
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	return w
}

func TestNewPCM(t *testing.T) {
	tests := []struct {
		name        string
		format      audio.Format
		wantErr     bool
		errContains string
	}{
		{
			name:    "valid mono",
			format:  audio.NewFormat(audio.Mono),
			wantErr: false,
		},
		{
			name:    "valid stereo",
			format:  audio.NewFormat(audio.Stereo),
			wantErr: false,
		},
		{
			name:        "unsupported bit depth",
			format:      audio.Format{SampleRate: 44100, Channels: 2, BitDepth: 24},
			wantErr:     true,
			errContains: "unsupported bit depth",
		},
		{
			name:        "unsupported channels",
			format:      audio.Format{SampleRate: 44100, Channels: 6, BitDepth: 16},
			wantErr:     true,
			errContains: "unsupported channel count",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoder, err := NewPCM(tt.format)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NewPCM() expected error, got nil")
				} else if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("NewPCM() error = %v, want error containing %v", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Errorf("NewPCM() unexpected error = %v", err)
			}
			if encoder == nil {
				t.Errorf("NewPCM() returned nil encoder")
			}
		})
	}
}

func TestQuantize(t *testing.T) {
	tests := []struct {
		name      string
		sample    float64
		amplitude int
		expected  int16
	}{
		{"silence", 0, 32767, 0},
		{"full scale", 1, 32767, 32767},
		{"negative full scale", -1, 32767, -32767},
		{"rounds half away from zero", 0.5, 3, 2},
		{"rounds negative", -0.5, 3, -2},
		{"zero amplitude", 0.7, 0, 0},
		{"wraps above int16", 1, 40000, int16(-25536)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Quantize(tt.sample, tt.amplitude)
			if got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestPCMEncoder_EncodeMono(t *testing.T) {
	wave := testWave(t)
	encoder := ForLayout(audio.Mono)

	buf := encoder.Encode(wave, 8000, audio.ChannelBoth)

	expectedSize := wave.Len() * 2
	if buf.Len() != expectedSize {
		t.Fatalf("Encode() output size = %d, want %d", buf.Len(), expectedSize)
	}

	data := buf.Bytes()
	for i, s := range wave.Samples() {
		expected := Quantize(s, 8000)
		actual := int16(binary.LittleEndian.Uint16(data[i*2:]))
		if actual != expected {
			t.Fatalf("Sample %d: got %d, want %d", i, actual, expected)
		}
	}
}

func TestPCMEncoder_LittleEndian(t *testing.T) {
	// Sample 1 of a 11025Hz tone at 44100Hz is sin(pi/2) = 1
	wave, err := tone.Generate(11025, time.Millisecond, audio.SampleRate)
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	data := ForLayout(audio.Mono).Encode(wave, 0x1234, audio.ChannelBoth).Bytes()

	if data[2] != 0x34 || data[3] != 0x12 {
		t.Errorf("expected low byte first [0x34 0x12], got [%#x %#x]", data[2], data[3])
	}
}

func TestPCMEncoder_StereoIsolation(t *testing.T) {
	wave := testWave(t)
	encoder := ForLayout(audio.Stereo)

	tests := []struct {
		name      string
		channel   audio.Channel
		leftLive  bool
		rightLive bool
	}{
		{"left only", audio.ChannelLeft, true, false},
		{"right only", audio.ChannelRight, false, true},
		{"both", audio.ChannelBoth, true, true},
		{"none", audio.ChannelNone, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := encoder.Encode(wave, 10000, tt.channel)

			expectedSize := wave.Len() * 4
			if buf.Len() != expectedSize {
				t.Fatalf("Encode() output size = %d, want %d", buf.Len(), expectedSize)
			}

			data := buf.Bytes()
			for i, s := range wave.Samples() {
				expected := Quantize(s, 10000)
				left := int16(binary.LittleEndian.Uint16(data[i*4:]))
				right := int16(binary.LittleEndian.Uint16(data[i*4+2:]))

				if tt.leftLive && left != expected {
					t.Fatalf("frame %d: left = %d, want %d", i, left, expected)
				}
				if !tt.leftLive && (data[i*4] != 0 || data[i*4+1] != 0) {
					t.Fatalf("frame %d: left slot not silent", i)
				}
				if tt.rightLive && right != expected {
					t.Fatalf("frame %d: right = %d, want %d", i, right, expected)
				}
				if !tt.rightLive && (data[i*4+2] != 0 || data[i*4+3] != 0) {
					t.Fatalf("frame %d: right slot not silent", i)
				}
			}
		})
	}
}

func TestPCMEncoder_Format(t *testing.T) {
	buf := ForLayout(audio.Stereo).Encode(testWave(t), 1000, audio.ChannelLeft)

	if buf.Format.Channels != 2 {
		t.Errorf("expected 2 channels, got %d", buf.Format.Channels)
	}
	if buf.Format.SampleRate != audio.SampleRate {
		t.Errorf("expected %d Hz, got %d", audio.SampleRate, buf.Format.SampleRate)
	}
}
