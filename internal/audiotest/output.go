// ABOUTME: Fake audio output for tests
// ABOUTME: Records opened tracks and lets tests control playback completion
package audiotest

import (
	"errors"
	"sync"

	"github.com/hearcheck/hearcheck-go/pkg/audio"
	"github.com/hearcheck/hearcheck-go/pkg/audio/output"
)

// Output is an in-memory output.Output. Tracks play until Finish is called
// unless AutoFinish is set.
type Output struct {
	mu         sync.Mutex
	tracks     []*Track
	openErr    error
	playErr    error
	autoFinish bool
	closed     bool
}

// NewOutput creates a fake output
func NewOutput() *Output {
	return &Output{}
}

// FailOpen makes every following Open return err
func (o *Output) FailOpen(err error) {
	o.mu.Lock()
	o.openErr = err
	o.mu.Unlock()
}

// FailPlay makes every following Play return err
func (o *Output) FailPlay(err error) {
	o.mu.Lock()
	o.playErr = err
	o.mu.Unlock()
}

// AutoFinish makes tracks report finished as soon as they start
func (o *Output) AutoFinish(v bool) {
	o.mu.Lock()
	o.autoFinish = v
	o.mu.Unlock()
}

func (o *Output) Open(format audio.Format, size int) (output.Track, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.openErr != nil {
		return nil, o.openErr
	}
	t := &Track{Format: format, size: size, out: o}
	o.tracks = append(o.tracks, t)
	return t, nil
}

func (o *Output) Close() error {
	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()
	return nil
}

// Closed reports whether Close was called
func (o *Output) Closed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.closed
}

// Tracks returns every track opened so far
func (o *Output) Tracks() []*Track {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]*Track, len(o.tracks))
	copy(out, o.tracks)
	return out
}

// Last returns the most recently opened track or nil
func (o *Output) Last() *Track {
	o.mu.Lock()
	defer o.mu.Unlock()

	if len(o.tracks) == 0 {
		return nil
	}
	return o.tracks[len(o.tracks)-1]
}

// Playing returns the tracks currently playing
func (o *Output) Playing() []*Track {
	var out []*Track
	for _, t := range o.Tracks() {
		if t.IsPlaying() {
			out = append(out, t)
		}
	}
	return out
}

// Track is a fake output.Track
type Track struct {
	Format audio.Format

	mu       sync.Mutex
	out      *Output
	size     int
	data     []byte
	playing  bool
	played   bool
	stopped  bool
	released bool
}

func (t *Track) Write(pcm []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.released {
		return 0, output.ErrNotInitialized
	}
	if len(t.data)+len(pcm) > t.size {
		return 0, errors.New("track overflow")
	}
	t.data = append(t.data, pcm...)
	return len(pcm), nil
}

func (t *Track) Play() error {
	t.out.mu.Lock()
	playErr, auto := t.out.playErr, t.out.autoFinish
	t.out.mu.Unlock()

	if playErr != nil {
		return playErr
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.released {
		return output.ErrNotInitialized
	}
	t.played = true
	t.playing = !auto
	return nil
}

func (t *Track) IsPlaying() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.playing
}

func (t *Track) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.playing = false
	t.stopped = true
	return nil
}

func (t *Track) Release() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.playing = false
	t.released = true
	return nil
}

// Finish ends playback as if the buffer ran out
func (t *Track) Finish() {
	t.mu.Lock()
	t.playing = false
	t.mu.Unlock()
}

// Data returns the bytes written to the track
func (t *Track) Data() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]byte, len(t.data))
	copy(out, t.data)
	return out
}

// Played reports whether Play was called
func (t *Track) Played() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.played
}

// Stopped reports whether Stop was called
func (t *Track) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Released reports whether Release was called
func (t *Track) Released() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.released
}
