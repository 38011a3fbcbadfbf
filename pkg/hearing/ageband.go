// ABOUTME: Age banding test transitions
// ABOUTME: Fixed-amplitude tones answered heard or not heard per frequency
package hearing

import (
	"github.com/hearcheck/hearcheck-go/pkg/audio"
)

func (c *Controller) stepAgeBand(s *Session, ev Event) []Effect {
	cfg := c.cfg.AgeBand

	switch ev := ev.(type) {
	case Play:
		s.LastError = ""
		s.Played = true
		return c.playTone(s, c.Frequency(s), cfg.Amplitude, cfg.ToneDuration, audio.ChannelBoth)
	case Timer:
		if ev.Kind == TimerToneEnd {
			s.State = StateAwaitingResponse
			return []Effect{StopTone{}}
		}
	case Heard, NotHeard:
		if !s.Played {
			return nil
		}
		if _, ok := ev.(Heard); ok {
			s.Audible.Add(c.Frequency(s))
		}
		effects := []Effect{StopTone{}, CancelTimers{}}
		more, ok := c.advance(s)
		effects = append(effects, more...)
		if ok {
			s.State = StateAwaitingPlay
		}
		return effects
	}
	return nil
}
