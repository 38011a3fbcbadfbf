// ABOUTME: Effect runner connecting the controller to playback and timers
// ABOUTME: Serialises events on one loop and publishes snapshots after transitions
package hearing

import (
	"context"
	"log"
	"reflect"
	"sync"

	"github.com/hearcheck/hearcheck-go/pkg/audio"
	"github.com/hearcheck/hearcheck-go/pkg/audio/encode"
	"github.com/hearcheck/hearcheck-go/pkg/playback"
	"github.com/hearcheck/hearcheck-go/pkg/tone"
)

// eventBuffer is the depth of the runner's event queue
const eventBuffer = 64

// Runner owns the live session. All transitions happen on the Run loop.
type Runner struct {
	ctrl   *Controller
	player *playback.Session
	sched  *Scheduler
	layout audio.Layout

	events chan Event
	done   chan struct{}
	wg     sync.WaitGroup

	mu      sync.Mutex
	session *Session
	last    Snapshot
	subs    []func(Snapshot)
	onError func(error)
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithLayout sets the layout for tones routed to both sides. Tones routed
// to one side are always stereo.
func WithLayout(layout audio.Layout) RunnerOption {
	return func(r *Runner) { r.layout = layout }
}

// WithErrorHandler is called for every tone that could not be produced
func WithErrorHandler(fn func(error)) RunnerOption {
	return func(r *Runner) { r.onError = fn }
}

// WithScheduler replaces the timer scheduler
func WithScheduler(s *Scheduler) RunnerOption {
	return func(r *Runner) { r.sched = s }
}

// NewRunner creates a runner with an idle session
func NewRunner(ctrl *Controller, player *playback.Session, opts ...RunnerOption) *Runner {
	r := &Runner{
		ctrl:    ctrl,
		player:  player,
		sched:   NewScheduler(),
		layout:  audio.Stereo,
		events:  make(chan Event, eventBuffer),
		done:    make(chan struct{}),
		session: ctrl.NewSession(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.last = ctrl.Snapshot(r.session)
	return r
}

// Subscribe registers fn to receive a snapshot after every transition.
// fn runs on the Run loop and must not block.
func (r *Runner) Subscribe(fn func(Snapshot)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.subs = append(r.subs, fn)
}

// Snapshot returns the current session snapshot
func (r *Runner) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.ctrl.Snapshot(r.session)
}

// Controller returns the runner's controller
func (r *Runner) Controller() *Controller {
	return r.ctrl
}

// Send queues ev. Returns false once the runner has stopped.
func (r *Runner) Send(ev Event) bool {
	select {
	case <-r.done:
		return false
	default:
	}

	select {
	case r.events <- ev:
		return true
	case <-r.done:
		return false
	}
}

// Run processes events until ctx is cancelled. On exit the session is
// backgrounded, playback is stopped and workers are drained.
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.done)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.sched.Run(ctx, func(t Timer) { r.deliver(ctx, t) })
	}()

	for {
		select {
		case <-ctx.Done():
			r.shutdown()
			return nil
		case ev := <-r.events:
			r.handle(ctx, ev)
		}
	}
}

func (r *Runner) shutdown() {
	r.mu.Lock()
	r.ctrl.Step(r.session, Background{})
	r.mu.Unlock()

	r.sched.CancelAll()
	r.player.Stop()
	r.wg.Wait()

	log.Printf("Test runner stopped")
}

// handle applies ev and every follow-up event its effects produce
func (r *Runner) handle(ctx context.Context, ev Event) {
	queue := []Event{ev}

	for len(queue) > 0 {
		ev := queue[0]
		queue = queue[1:]

		r.mu.Lock()
		effects := r.ctrl.Step(r.session, ev)
		snap := r.ctrl.Snapshot(r.session)
		changed := !reflect.DeepEqual(snap, r.last)
		r.last = snap
		subs := r.subs
		r.mu.Unlock()

		for _, eff := range effects {
			if follow := r.execute(ctx, eff); follow != nil {
				queue = append(queue, follow)
			}
		}

		if changed {
			for _, fn := range subs {
				fn(snap)
			}
		}
	}
}

func (r *Runner) execute(ctx context.Context, eff Effect) Event {
	switch e := eff.(type) {
	case StopTone:
		r.player.Stop()
	case CancelTimers:
		r.sched.CancelAll()
	case Schedule:
		r.sched.Schedule(e.After, e.Timer)
	case PlayTone:
		buf, err := r.render(e.Request)
		if err != nil {
			log.Printf("Invalid tone request %v: %v", e.Request, err)
			r.reportError(err)
			return PlaybackFailed{Token: e.Token, Err: err}
		}

		if e.Blocking {
			// The track is acquired here on the loop; only the wait moves to a worker
			h, err := r.player.Begin(buf)
			if err != nil {
				log.Printf("Audio output unavailable: %v", err)
				r.reportError(err)
				return PlaybackFailed{Token: e.Token, Err: err}
			}
			r.wg.Add(1)
			go r.await(ctx, e.Token, h)
			return nil
		}

		if err := r.player.Start(buf); err != nil {
			log.Printf("Audio output unavailable: %v", err)
			r.reportError(err)
			return PlaybackFailed{Token: e.Token, Err: err}
		}
	}
	return nil
}

// await waits for a blocking tone off the event loop
func (r *Runner) await(ctx context.Context, tok Token, h *playback.Handle) {
	defer r.wg.Done()

	// Stopped or cancelled tones report nothing; a newer token owns the session
	if err := h.Wait(ctx); err == nil {
		r.deliver(ctx, PlaybackDone{Token: tok})
	}
}

func (r *Runner) render(req tone.Request) (audio.Buffer, error) {
	wave, err := req.Wave()
	if err != nil {
		return audio.Buffer{}, err
	}

	layout := r.layout
	if req.Channel != audio.ChannelBoth {
		layout = audio.Stereo
	}
	return encode.ForLayout(layout).Encode(wave, req.Amplitude, req.Channel), nil
}

func (r *Runner) reportError(err error) {
	r.mu.Lock()
	fn := r.onError
	r.mu.Unlock()

	if fn != nil {
		fn(err)
	}
}

// deliver queues an internally generated event unless ctx is done
func (r *Runner) deliver(ctx context.Context, ev Event) {
	select {
	case r.events <- ev:
	case <-ctx.Done():
	}
}
