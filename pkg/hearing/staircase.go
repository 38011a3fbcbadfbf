// ABOUTME: Ascending staircase test transitions
// ABOUTME: Timer-driven sweep with increasing amplitude until heard or exhausted
package hearing

import (
	"github.com/hearcheck/hearcheck-go/pkg/audio"
)

// enterStaircaseStep resets the amplitude and starts the sweep for the
// current frequency
func (c *Controller) enterStaircaseStep(s *Session) []Effect {
	s.Amplitude = *c.cfg.Staircase.Floor
	return c.sweepTone(s)
}

func (c *Controller) sweepTone(s *Session) []Effect {
	return c.playTone(s, c.Frequency(s), s.Amplitude, c.cfg.Staircase.ToneDuration, audio.ChannelBoth)
}

func (c *Controller) stepStaircase(s *Session, ev Event) []Effect {
	cfg := c.cfg.Staircase

	switch ev := ev.(type) {
	case Timer:
		switch ev.Kind {
		case TimerToneEnd:
			s.State = StateAwaitingResponse
			return []Effect{
				StopTone{},
				Schedule{After: cfg.Cooldown, Timer: Timer{Token: ev.Token, Kind: TimerCooldown}},
			}
		case TimerCooldown:
			next := s.Amplitude + cfg.Step
			if next > audio.MaxAmplitude {
				s.Thresholds.RecordNotDetected(c.Frequency(s))
				return c.nextStaircaseStep(s)
			}
			s.Amplitude = next
			return c.sweepTone(s)
		case TimerAdvance:
			return c.nextStaircaseStep(s)
		}
	case Heard:
		if s.State != StatePlaying && s.State != StateAwaitingResponse {
			return nil
		}
		s.Thresholds.Record(c.Frequency(s), s.Amplitude)
		tok := s.bump()
		s.State = StateAdvancing
		return []Effect{
			StopTone{},
			CancelTimers{},
			Schedule{After: cfg.AdvanceDelay, Timer: Timer{Token: tok, Kind: TimerAdvance}},
		}
	}
	return nil
}

func (c *Controller) nextStaircaseStep(s *Session) []Effect {
	effects, ok := c.advance(s)
	if !ok {
		return effects
	}
	return c.enterStaircaseStep(s)
}
