// ABOUTME: Hearing test state machine
// ABOUTME: Applies events to a session and returns the effects to perform
package hearing

import (
	"log"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/hearcheck/hearcheck-go/pkg/audio"
	"github.com/hearcheck/hearcheck-go/pkg/tone"
)

// Controller runs the per-mode state machines
type Controller struct {
	cfg   Config
	randN func(n int) int
	newID func() string
}

// Option configures a Controller
type Option func(*Controller)

// WithRand sets the source used to pick the random stereo target
func WithRand(randN func(n int) int) Option {
	return func(c *Controller) { c.randN = randN }
}

// WithIDs sets the session id generator
func WithIDs(newID func() string) Option {
	return func(c *Controller) { c.newID = newID }
}

// NewController creates a controller. Zero config fields take defaults.
func NewController(cfg Config, opts ...Option) *Controller {
	c := &Controller{
		cfg:   cfg.withDefaults(),
		randN: rand.IntN,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the effective configuration
func (c *Controller) Config() Config {
	return c.cfg
}

// NewSession returns an idle session
func (c *Controller) NewSession() *Session {
	return &Session{ID: c.newID()}
}

// Step applies ev to s and returns the effects the caller must perform in
// order. Events that do not apply to the current state are ignored.
func (c *Controller) Step(s *Session, ev Event) []Effect {
	switch ev := ev.(type) {
	case Start:
		return c.start(s, ev.Mode)
	case Home:
		return c.home(s)
	case Background:
		return c.background(s)
	case Timer:
		if !s.Current(ev.Token) {
			return nil
		}
	case PlaybackDone:
		if !s.Current(ev.Token) {
			return nil
		}
	case PlaybackFailed:
		if !s.Current(ev.Token) {
			return nil
		}
		return c.playbackFailed(s, ev.Err)
	}

	if s.Status != StatusRunning {
		return nil
	}

	switch s.Mode {
	case ModeManual:
		return c.stepManual(s, ev)
	case ModeStaircase:
		return c.stepStaircase(s, ev)
	case ModeAgeBand:
		return c.stepAgeBand(s, ev)
	case ModeStereo:
		return c.stepStereo(s, ev)
	}
	return nil
}

func (c *Controller) start(s *Session, mode Mode) []Effect {
	if s.Status == StatusRunning && s.Mode == mode {
		return nil
	}

	var effects []Effect
	if s.Status == StatusRunning {
		log.Printf("Switching test from %s to %s", s.Mode, mode)
		effects = append(effects, StopTone{}, CancelTimers{})
	}

	*s = Session{
		ID:         c.newID(),
		Generation: s.Generation + 1,
		Mode:       mode,
		Status:     StatusRunning,
		Testing:    true,
	}
	log.Printf("Test started: %s (session %s)", mode, s.ID)

	switch mode {
	case ModeManual:
		s.Amplitude = *c.cfg.Manual.Floor
		s.State = StateAwaitingPlay
	case ModeStaircase:
		effects = append(effects, c.enterStaircaseStep(s)...)
	case ModeAgeBand:
		s.Amplitude = c.cfg.AgeBand.Amplitude
		s.State = StateAwaitingPlay
	case ModeStereo:
		s.Amplitude = c.cfg.Stereo.Amplitude
		s.Trials = c.stereoTrials()
		s.State = StateAwaitingPlay
	}

	return effects
}

func (c *Controller) home(s *Session) []Effect {
	*s = Session{
		ID:         c.newID(),
		Generation: s.Generation + 1,
	}
	return []Effect{StopTone{}, CancelTimers{}}
}

func (c *Controller) background(s *Session) []Effect {
	s.bump()
	s.Testing = false
	s.Played = false
	if s.Status == StatusRunning {
		log.Printf("Test cancelled: %s at step %d", s.Mode, s.StepIndex)
		s.Status = StatusIdle
		s.State = StateIdle
	}
	return []Effect{StopTone{}, CancelTimers{}}
}

func (c *Controller) playbackFailed(s *Session, err error) []Effect {
	if s.Status != StatusRunning {
		return nil
	}
	if err != nil {
		s.LastError = err.Error()
	}

	switch s.Mode {
	case ModeStaircase:
		// the sweep keeps its cadence; the failed tone is simply silent
		return nil
	case ModeAgeBand:
		s.Played = false
	}

	s.bump()
	s.State = StateAwaitingPlay
	return []Effect{CancelTimers{}}
}

// frequencies returns the step list for the session's mode
func (c *Controller) frequencies(mode Mode) []int {
	switch mode {
	case ModeManual:
		return c.cfg.Manual.Frequencies
	case ModeStaircase:
		return c.cfg.Staircase.Frequencies
	case ModeAgeBand:
		return c.cfg.AgeBand.Frequencies
	}
	return nil
}

// Total returns the number of steps in mode
func (c *Controller) Total(mode Mode) int {
	if mode == ModeStereo {
		return c.cfg.Stereo.Trials
	}
	return len(c.frequencies(mode))
}

// Frequency returns the frequency of the session's current step, or 0
func (c *Controller) Frequency(s *Session) int {
	if s.Status != StatusRunning {
		return 0
	}
	if s.Mode == ModeStereo {
		return c.cfg.Stereo.Frequency
	}
	freqs := c.frequencies(s.Mode)
	if s.StepIndex >= len(freqs) {
		return 0
	}
	return freqs[s.StepIndex]
}

// playTone issues a fire-and-forget tone that auto-stops after d
func (c *Controller) playTone(s *Session, freq, amplitude int, d time.Duration, ch audio.Channel) []Effect {
	tok := s.bump()
	s.State = StatePlaying
	return []Effect{
		PlayTone{Request: request(freq, amplitude, d, ch), Token: tok},
		Schedule{After: d, Timer: Timer{Token: tok, Kind: TimerToneEnd}},
	}
}

// advance moves to the next step or completes the session. It reports
// whether steps remain.
func (c *Controller) advance(s *Session) ([]Effect, bool) {
	s.bump()
	s.StepIndex++
	s.Played = false
	if s.StepIndex >= c.Total(s.Mode) {
		return c.complete(s), false
	}
	return nil, true
}

func (c *Controller) complete(s *Session) []Effect {
	s.bump()
	s.Status = StatusCompleted
	s.State = StateCompleted
	s.Testing = false
	log.Printf("Test completed: %s", s.Mode)
	return []Effect{StopTone{}, CancelTimers{}}
}

func request(freq, amplitude int, d time.Duration, ch audio.Channel) tone.Request {
	return tone.Request{
		Frequency: float64(freq),
		Amplitude: amplitude,
		Duration:  d,
		Channel:   ch,
	}
}
