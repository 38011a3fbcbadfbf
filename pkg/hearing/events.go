// ABOUTME: Controller input events and output effects
// ABOUTME: User commands, timer firings, playback completions and side effects
package hearing

import (
	"fmt"
	"strings"
	"time"

	"github.com/hearcheck/hearcheck-go/pkg/tone"
)

// Event is an input to Controller.Step
type Event interface {
	isEvent()
}

// Start begins a test in Mode
type Start struct{ Mode Mode }

// Increase raises the manual amplitude by one step
type Increase struct{}

// Decrease lowers the manual amplitude by one step
type Decrease struct{}

// Play plays the current step's tone
type Play struct{}

// Heard answers that the tone was heard
type Heard struct{}

// NotHeard answers that the tone was not heard
type NotHeard struct{}

// ChooseLeft answers a stereo trial with the left side
type ChooseLeft struct{}

// ChooseRight answers a stereo trial with the right side
type ChooseRight struct{}

// Home abandons the session and returns to idle
type Home struct{}

// Background stops playback when the application loses focus or exits.
// Recorded results are kept.
type Background struct{}

// TimerKind says which continuation a Timer is
type TimerKind int

const (
	// TimerToneEnd auto-stops a fire-and-forget tone
	TimerToneEnd TimerKind = iota
	// TimerCooldown ends the staircase pause between tones
	TimerCooldown
	// TimerAdvance moves to the next frequency after a response
	TimerAdvance
)

func (k TimerKind) String() string {
	switch k {
	case TimerToneEnd:
		return "tone-end"
	case TimerCooldown:
		return "cooldown"
	case TimerAdvance:
		return "advance"
	default:
		return fmt.Sprintf("timer(%d)", int(k))
	}
}

// Timer fires when a scheduled delay elapses
type Timer struct {
	Token Token
	Kind  TimerKind
}

// PlaybackDone reports that a blocking tone finished
type PlaybackDone struct{ Token Token }

// PlaybackFailed reports that a tone could not be produced
type PlaybackFailed struct {
	Token Token
	Err   error
}

func (Start) isEvent()          {}
func (Increase) isEvent()       {}
func (Decrease) isEvent()       {}
func (Play) isEvent()           {}
func (Heard) isEvent()          {}
func (NotHeard) isEvent()       {}
func (ChooseLeft) isEvent()     {}
func (ChooseRight) isEvent()    {}
func (Home) isEvent()           {}
func (Background) isEvent()     {}
func (Timer) isEvent()          {}
func (PlaybackDone) isEvent()   {}
func (PlaybackFailed) isEvent() {}

// Commands are the user command names accepted by ParseCommand
var Commands = []string{
	"start", "increase", "decrease", "play", "heard", "notHeard",
	"chooseLeft", "chooseRight", "home",
}

// ParseCommand maps a user command name to its event. mode is used by start.
func ParseCommand(name string, mode Mode) (Event, error) {
	switch strings.ToLower(name) {
	case "start":
		return Start{Mode: mode}, nil
	case "increase":
		return Increase{}, nil
	case "decrease":
		return Decrease{}, nil
	case "play":
		return Play{}, nil
	case "heard":
		return Heard{}, nil
	case "notheard", "not_heard":
		return NotHeard{}, nil
	case "chooseleft", "left":
		return ChooseLeft{}, nil
	case "chooseright", "right":
		return ChooseRight{}, nil
	case "home":
		return Home{}, nil
	default:
		return nil, fmt.Errorf("unknown command: %q", name)
	}
}

// Effect is an action requested by Controller.Step
type Effect interface {
	isEffect()
}

// PlayTone plays Request. Blocking tones run on a worker and report
// PlaybackDone; others are fire-and-forget and stopped by a TimerToneEnd.
type PlayTone struct {
	Request  tone.Request
	Token    Token
	Blocking bool
}

// StopTone stops and releases the active tone
type StopTone struct{}

// Schedule delivers Timer after After
type Schedule struct {
	After time.Duration
	Timer Timer
}

// CancelTimers drops every pending timer
type CancelTimers struct{}

func (PlayTone) isEffect()     {}
func (StopTone) isEffect()     {}
func (Schedule) isEffect()     {}
func (CancelTimers) isEffect() {}
