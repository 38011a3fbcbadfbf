// ABOUTME: Stereo localization test transitions
// ABOUTME: Tones routed to one side, answered left or right
package hearing

import (
	"github.com/hearcheck/hearcheck-go/pkg/audio"
)

// stereoTrials builds the trial list: left, right, then random sides
func (c *Controller) stereoTrials() []StereoTrial {
	trials := make([]StereoTrial, c.cfg.Stereo.Trials)
	for i := range trials {
		switch {
		case i == 0:
			trials[i].Target = audio.ChannelLeft
		case i == 1:
			trials[i].Target = audio.ChannelRight
		case c.randN(2) == 0:
			trials[i].Target = audio.ChannelLeft
		default:
			trials[i].Target = audio.ChannelRight
		}
	}
	return trials
}

func (c *Controller) stepStereo(s *Session, ev Event) []Effect {
	cfg := c.cfg.Stereo

	switch ev.(type) {
	case Play:
		if s.State != StateAwaitingPlay && s.State != StateAwaitingResponse {
			return nil
		}
		s.LastError = ""
		tok := s.bump()
		s.State = StatePlaying
		target := s.Trials[s.StepIndex].Target
		return []Effect{PlayTone{
			Request:  request(cfg.Frequency, cfg.Amplitude, cfg.ToneDuration, target),
			Token:    tok,
			Blocking: true,
		}}
	case PlaybackDone:
		s.State = StateAwaitingResponse
	case ChooseLeft:
		return c.choose(s, audio.ChannelLeft)
	case ChooseRight:
		return c.choose(s, audio.ChannelRight)
	}
	return nil
}

func (c *Controller) choose(s *Session, side audio.Channel) []Effect {
	if s.State != StateAwaitingResponse {
		return nil
	}

	trial := &s.Trials[s.StepIndex]
	trial.Chosen = side
	trial.Correct = side == trial.Target
	if trial.Correct {
		s.Score++
	}

	effects, ok := c.advance(s)
	if ok {
		s.State = StateAwaitingPlay
	}
	return effects
}
