// ABOUTME: Manual threshold test transitions
// ABOUTME: User adjusts amplitude, plays the tone and marks it heard
package hearing

import (
	"github.com/hearcheck/hearcheck-go/pkg/audio"
)

func (c *Controller) stepManual(s *Session, ev Event) []Effect {
	cfg := c.cfg.Manual

	switch ev := ev.(type) {
	case Increase:
		s.Amplitude = audio.ClampAmplitude(s.Amplitude+cfg.Step, *cfg.Floor)
	case Decrease:
		s.Amplitude = audio.ClampAmplitude(s.Amplitude-cfg.Step, *cfg.Floor)
	case Play:
		s.LastError = ""
		return c.playTone(s, c.Frequency(s), s.Amplitude, cfg.ToneDuration, audio.ChannelBoth)
	case Timer:
		if ev.Kind == TimerToneEnd {
			s.State = StateAwaitingResponse
			return []Effect{StopTone{}}
		}
	case Heard:
		s.Thresholds.Record(c.Frequency(s), s.Amplitude)
		effects := []Effect{StopTone{}, CancelTimers{}}
		more, ok := c.advance(s)
		effects = append(effects, more...)
		if ok {
			s.Amplitude = *cfg.Floor
			s.State = StateAwaitingPlay
		}
		return effects
	}
	return nil
}
