// ABOUTME: Playback session managing one output track at a time
// ABOUTME: Provides fire-and-forget Start, idempotent Stop and waitable Begin
package playback

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/hearcheck/hearcheck-go/pkg/audio"
	"github.com/hearcheck/hearcheck-go/pkg/audio/output"
)

var (
	// ErrDeviceUnavailable is returned when no track could be acquired
	ErrDeviceUnavailable = output.ErrDeviceUnavailable

	// ErrStopped is returned by Wait when Stop ended the track early
	ErrStopped = errors.New("playback stopped")
)

// pollInterval is how often Wait checks the track
const pollInterval = 10 * time.Millisecond

// Session owns at most one active track
type Session struct {
	out output.Output

	mu    sync.Mutex
	track output.Track
	done  chan struct{}
}

// NewSession creates a session playing through out
func NewSession(out output.Output) *Session {
	return &Session{out: out}
}

// Start stops any active track, then writes buf to a new track and plays it.
// On failure the session is left stopped.
func (s *Session) Start(buf audio.Buffer) error {
	_, err := s.start(buf)
	return err
}

func (s *Session) start(buf audio.Buffer) (chan struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()

	track, err := s.out.Open(buf.Format, buf.Len())
	if err != nil {
		return nil, deviceError("failed to open track", err)
	}

	if _, err := track.Write(buf.Bytes()); err != nil {
		track.Release()
		return nil, deviceError("failed to write track", err)
	}

	if err := track.Play(); err != nil {
		track.Release()
		return nil, deviceError("failed to play track", err)
	}

	s.track = track
	s.done = make(chan struct{})

	log.Printf("Playback started: %d bytes, %dHz, %d channels, %v",
		buf.Len(), buf.Format.SampleRate, buf.Format.Channels, buf.Duration())

	return s.done, nil
}

// Stop halts and releases the active track. Safe to call at any time.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
}

func (s *Session) stopLocked() {
	if s.track == nil {
		return
	}

	if err := s.track.Stop(); err != nil {
		log.Printf("Track stop error: %v", err)
	}
	if err := s.track.Release(); err != nil {
		log.Printf("Track release error: %v", err)
	}

	close(s.done)
	s.track = nil
	s.done = nil
}

// finish releases the track started with done if it is still active
func (s *Session) finish(done chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done == done {
		s.stopLocked()
	}
}

// Active reports whether a track is acquired and still playing
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.track != nil && s.track.IsPlaying()
}

// Handle is a track started by Begin
type Handle struct {
	s    *Session
	done chan struct{}
}

// Begin starts buf like Start and returns a handle to wait on. The track is
// acquired before Begin returns, so a later Stop always silences it.
func (s *Session) Begin(buf audio.Buffer) (*Handle, error) {
	done, err := s.start(buf)
	if err != nil {
		return nil, err
	}
	return &Handle{s: s, done: done}, nil
}

// Wait blocks until the track drains, Stop is called, or ctx is cancelled.
// The track is released before returning.
func (h *Handle) Wait(ctx context.Context) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.s.finish(h.done)
			return ctx.Err()
		case <-h.done:
			return ErrStopped
		case <-ticker.C:
			if !h.s.playing(h.done) {
				h.s.finish(h.done)
				return nil
			}
		}
	}
}

// PlayBlocking starts buf and waits until it drains, Stop is called, or ctx
// is cancelled.
func (s *Session) PlayBlocking(ctx context.Context, buf audio.Buffer) error {
	h, err := s.Begin(buf)
	if err != nil {
		return err
	}
	return h.Wait(ctx)
}

func (s *Session) playing(done chan struct{}) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.done == done && s.track.IsPlaying()
}

func deviceError(msg string, err error) error {
	if errors.Is(err, ErrDeviceUnavailable) {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrDeviceUnavailable, msg, err)
}
