// ABOUTME: Tests for audio types
// ABOUTME: Tests channel routing, formats and buffer accounting
package audio

import (
	"testing"
	"time"
)

func TestChannelCarries(t *testing.T) {
	tests := []struct {
		name      string
		directive Channel
		left      bool
		right     bool
	}{
		{"none", ChannelNone, false, false},
		{"left", ChannelLeft, true, false},
		{"right", ChannelRight, false, true},
		{"both", ChannelBoth, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.directive.Carries(ChannelLeft); got != tt.left {
				t.Errorf("expected left=%v, got %v", tt.left, got)
			}
			if got := tt.directive.Carries(ChannelRight); got != tt.right {
				t.Errorf("expected right=%v, got %v", tt.right, got)
			}
		})
	}
}

func TestParseChannel(t *testing.T) {
	tests := []struct {
		input    string
		expected Channel
		wantErr  bool
	}{
		{"left", ChannelLeft, false},
		{"r", ChannelRight, false},
		{"", ChannelBoth, false},
		{"none", ChannelNone, false},
		{"center", ChannelNone, true},
	}

	for _, tt := range tests {
		got, err := ParseChannel(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("input %q: expected error, got nil", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("input %q: unexpected error: %v", tt.input, err)
		}
		if got != tt.expected {
			t.Errorf("input %q: expected %v, got %v", tt.input, tt.expected, got)
		}
	}
}

func TestFormatBytesPerFrame(t *testing.T) {
	if got := NewFormat(Mono).BytesPerFrame(); got != 2 {
		t.Errorf("expected 2 bytes per mono frame, got %d", got)
	}
	if got := NewFormat(Stereo).BytesPerFrame(); got != 4 {
		t.Errorf("expected 4 bytes per stereo frame, got %d", got)
	}
}

func TestBufferDuration(t *testing.T) {
	buf := NewBuffer(make([]byte, SampleRate*4), NewFormat(Stereo))

	if buf.Frames() != SampleRate {
		t.Errorf("expected %d frames, got %d", SampleRate, buf.Frames())
	}
	if buf.Duration() != time.Second {
		t.Errorf("expected 1s, got %v", buf.Duration())
	}
}

func TestBufferBytesIsCopy(t *testing.T) {
	buf := NewBuffer([]byte{1, 2}, NewFormat(Mono))

	b := buf.Bytes()
	b[0] = 9

	if buf.Bytes()[0] != 1 {
		t.Error("expected buffer to be immutable through Bytes")
	}
}

func TestClampAmplitude(t *testing.T) {
	tests := []struct {
		amplitude int
		floor     int
		expected  int
	}{
		{500, 1000, 1000},
		{2000, 1000, 2000},
		{33000, 1000, MaxAmplitude},
		{0, 0, 0},
	}

	for _, tt := range tests {
		if got := ClampAmplitude(tt.amplitude, tt.floor); got != tt.expected {
			t.Errorf("ClampAmplitude(%d, %d): expected %d, got %d", tt.amplitude, tt.floor, tt.expected, got)
		}
	}
}
