// ABOUTME: Audio output interface definition
// ABOUTME: Write-then-play PCM sink contract shared by playback backends
package output

import (
	"errors"

	"github.com/hearcheck/hearcheck-go/pkg/audio"
)

var (
	// ErrDeviceUnavailable is returned when a track cannot be acquired
	ErrDeviceUnavailable = errors.New("audio device unavailable")

	// ErrNotInitialized is returned when using a released track
	ErrNotInitialized = errors.New("output not initialized")
)

// Output represents an audio output device
type Output interface {
	// Open acquires a track able to hold size bytes of PCM in format
	Open(format audio.Format, size int) (Track, error)

	// Close releases the device
	Close() error
}

// Track is one buffer-sized playback resource
type Track interface {
	// Write copies PCM into the track before playback
	Write(pcm []byte) (int, error)

	// Play starts playback of the written PCM
	Play() error

	// IsPlaying reports whether written PCM is still being played
	IsPlaying() bool

	// Stop halts playback
	Stop() error

	// Release frees the track; it cannot be used afterwards
	Release() error
}
