// ABOUTME: Tests for the playback session
// ABOUTME: Uses a fake output to check acquisition, release and blocking play
package playback

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hearcheck/hearcheck-go/internal/audiotest"
	"github.com/hearcheck/hearcheck-go/pkg/audio"
)

func testBuffer() audio.Buffer {
	return audio.NewBuffer(make([]byte, 400), audio.NewFormat(audio.Stereo))
}

func TestStartWritesAndPlays(t *testing.T) {
	out := audiotest.NewOutput()
	sess := NewSession(out)

	buf := testBuffer()
	if err := sess.Start(buf); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	track := out.Last()
	if track == nil {
		t.Fatal("expected a track to be opened")
	}
	if !track.Played() {
		t.Error("expected track to be played")
	}
	if len(track.Data()) != buf.Len() {
		t.Errorf("expected %d bytes written, got %d", buf.Len(), len(track.Data()))
	}
	if !sess.Active() {
		t.Error("expected session to be active")
	}
}

func TestStartStopsPrevious(t *testing.T) {
	out := audiotest.NewOutput()
	sess := NewSession(out)

	sess.Start(testBuffer())
	sess.Start(testBuffer())

	tracks := out.Tracks()
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(tracks))
	}
	if !tracks[0].Released() {
		t.Error("expected first track to be released")
	}
	if len(out.Playing()) != 1 {
		t.Errorf("expected exactly 1 playing track, got %d", len(out.Playing()))
	}
}

func TestStopIdempotent(t *testing.T) {
	out := audiotest.NewOutput()
	sess := NewSession(out)

	sess.Stop()

	sess.Start(testBuffer())
	sess.Stop()
	sess.Stop()

	if !out.Last().Released() {
		t.Error("expected track to be released")
	}
	if sess.Active() {
		t.Error("expected session to be inactive")
	}
}

func TestStartDeviceUnavailable(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*audiotest.Output)
	}{
		{"open fails", func(o *audiotest.Output) { o.FailOpen(errors.New("no device")) }},
		{"play fails", func(o *audiotest.Output) { o.FailPlay(errors.New("device busy")) }},
		{"already wrapped", func(o *audiotest.Output) { o.FailOpen(ErrDeviceUnavailable) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := audiotest.NewOutput()
			tt.setup(out)
			sess := NewSession(out)

			err := sess.Start(testBuffer())
			if !errors.Is(err, ErrDeviceUnavailable) {
				t.Fatalf("expected ErrDeviceUnavailable, got %v", err)
			}
			if sess.Active() {
				t.Error("expected session to remain stopped")
			}
			for _, track := range out.Tracks() {
				if !track.Released() {
					t.Error("expected acquired track to be released")
				}
			}

			// retry succeeds once the device is back
			out.FailOpen(nil)
			out.FailPlay(nil)
			if err := sess.Start(testBuffer()); err != nil {
				t.Errorf("expected retry to succeed, got %v", err)
			}
		})
	}
}

func TestPlayBlockingDrains(t *testing.T) {
	out := audiotest.NewOutput()
	sess := NewSession(out)

	errCh := make(chan error, 1)
	go func() {
		errCh <- sess.PlayBlocking(context.Background(), testBuffer())
	}()

	// wait for the track to start, then let it drain
	deadline := time.Now().Add(time.Second)
	for !sess.Active() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	out.Last().Finish()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("expected nil error, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("PlayBlocking did not return")
	}

	if !out.Last().Released() {
		t.Error("expected track to be released after draining")
	}
}

func TestPlayBlockingStopped(t *testing.T) {
	out := audiotest.NewOutput()
	sess := NewSession(out)

	errCh := make(chan error, 1)
	go func() {
		errCh <- sess.PlayBlocking(context.Background(), testBuffer())
	}()

	deadline := time.Now().Add(time.Second)
	for !sess.Active() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	sess.Stop()

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrStopped) {
			t.Errorf("expected ErrStopped, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("PlayBlocking did not return")
	}
}

func TestPlayBlockingContextCancel(t *testing.T) {
	out := audiotest.NewOutput()
	sess := NewSession(out)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := sess.PlayBlocking(ctx, testBuffer())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if sess.Active() {
		t.Error("expected session to be stopped")
	}
	if !out.Last().Released() {
		t.Error("expected track to be released")
	}
}

func TestPlayBlockingDeviceUnavailable(t *testing.T) {
	out := audiotest.NewOutput()
	out.FailOpen(errors.New("no device"))
	sess := NewSession(out)

	err := sess.PlayBlocking(context.Background(), testBuffer())
	if !errors.Is(err, ErrDeviceUnavailable) {
		t.Errorf("expected ErrDeviceUnavailable, got %v", err)
	}
}

func TestBeginAcquiresBeforeReturning(t *testing.T) {
	out := audiotest.NewOutput()
	sess := NewSession(out)

	h, err := sess.Begin(testBuffer())
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if len(out.Playing()) != 1 {
		t.Fatalf("expected 1 playing track after Begin, got %d", len(out.Playing()))
	}

	// a Stop issued before anyone waits still silences the track
	sess.Stop()
	if len(out.Playing()) != 0 {
		t.Errorf("expected no playing track after Stop, got %d", len(out.Playing()))
	}

	if err := h.Wait(context.Background()); !errors.Is(err, ErrStopped) {
		t.Errorf("expected ErrStopped, got %v", err)
	}
}
