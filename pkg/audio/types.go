// ABOUTME: Audio type definitions
// ABOUTME: Defines PCM formats, buffers and channel routing directives
package audio

import (
	"fmt"
	"time"
)

const (
	// SampleRate is the fixed playback rate for every generated tone
	SampleRate = 44100

	// BitDepth is the only supported PCM sample width
	BitDepth = 16

	// MaxAmplitude is the largest 16-bit signed sample value (Short.MAX_VALUE)
	MaxAmplitude = 32767
)

// Channel is a routing directive: which output channels carry the signal
type Channel int

const (
	ChannelNone Channel = iota
	ChannelLeft
	ChannelRight
	ChannelBoth
)

func (c Channel) String() string {
	switch c {
	case ChannelNone:
		return "none"
	case ChannelLeft:
		return "left"
	case ChannelRight:
		return "right"
	case ChannelBoth:
		return "both"
	default:
		return fmt.Sprintf("Channel(%d)", int(c))
	}
}

// ParseChannel converts a flag or wire value into a Channel
func ParseChannel(s string) (Channel, error) {
	switch s {
	case "none":
		return ChannelNone, nil
	case "left", "l":
		return ChannelLeft, nil
	case "right", "r":
		return ChannelRight, nil
	case "both", "b", "":
		return ChannelBoth, nil
	}
	return ChannelNone, fmt.Errorf("unknown channel: %q", s)
}

// Carries reports whether the directive routes signal to the given side.
// side must be ChannelLeft or ChannelRight.
func (c Channel) Carries(side Channel) bool {
	return c == ChannelBoth || c == side
}

// Layout selects the interleaving of the encoded buffer
type Layout int

const (
	Mono Layout = iota
	Stereo
)

// Channels returns the number of interleaved slots per sample
func (l Layout) Channels() int {
	if l == Stereo {
		return 2
	}
	return 1
}

func (l Layout) String() string {
	if l == Stereo {
		return "stereo"
	}
	return "mono"
}

// Format describes a PCM stream format
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// NewFormat returns the 16-bit format at SampleRate for a layout
func NewFormat(layout Layout) Format {
	return Format{
		SampleRate: SampleRate,
		Channels:   layout.Channels(),
		BitDepth:   BitDepth,
	}
}

// BytesPerFrame is the size of one interleaved sample across all channels
func (f Format) BytesPerFrame() int {
	return f.Channels * f.BitDepth / 8
}

// Buffer is an immutable block of interleaved little-endian PCM
type Buffer struct {
	data   []byte
	Format Format
}

// NewBuffer wraps encoded PCM. The caller must not modify data afterwards.
func NewBuffer(data []byte, format Format) Buffer {
	return Buffer{data: data, Format: format}
}

// Bytes returns a copy of the encoded PCM
func (b Buffer) Bytes() []byte {
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}

// Len returns the buffer length in bytes
func (b Buffer) Len() int {
	return len(b.data)
}

// Frames returns the number of samples per channel
func (b Buffer) Frames() int {
	if n := b.Format.BytesPerFrame(); n > 0 {
		return len(b.data) / n
	}
	return 0
}

// Duration returns how long the buffer plays at its sample rate
func (b Buffer) Duration() time.Duration {
	if b.Format.SampleRate == 0 {
		return 0
	}
	return time.Duration(b.Frames()) * time.Second / time.Duration(b.Format.SampleRate)
}

// ClampAmplitude bounds amplitude to [floor, MaxAmplitude]
func ClampAmplitude(amplitude, floor int) int {
	if amplitude < floor {
		return floor
	}
	if amplitude > MaxAmplitude {
		return MaxAmplitude
	}
	return amplitude
}
