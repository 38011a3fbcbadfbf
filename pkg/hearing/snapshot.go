// ABOUTME: Display snapshot of a hearing test session
// ABOUTME: Status, current tone, enabled controls and result lines
package hearing

import (
	"github.com/hearcheck/hearcheck-go/pkg/audio"
)

// Controls says which user commands currently have an effect
type Controls struct {
	Start       bool `json:"start"`
	Increase    bool `json:"increase"`
	Decrease    bool `json:"decrease"`
	Play        bool `json:"play"`
	Heard       bool `json:"heard"`
	NotHeard    bool `json:"notHeard"`
	ChooseLeft  bool `json:"chooseLeft"`
	ChooseRight bool `json:"chooseRight"`
	Home        bool `json:"home"`
}

// Snapshot is the session as presented to a user interface
type Snapshot struct {
	SessionID string   `json:"sessionId"`
	Mode      string   `json:"mode"`
	Status    string   `json:"status"`
	State     string   `json:"state"`
	Frequency int      `json:"frequency"`
	Amplitude int      `json:"amplitude"`
	StepIndex int      `json:"stepIndex"`
	Total     int      `json:"total"`
	Testing   bool     `json:"testing"`
	Score     int      `json:"score"`
	Controls  Controls `json:"controls"`
	Lines     []string `json:"lines,omitempty"`
	LastError string   `json:"lastError,omitempty"`
}

// Snapshot describes s for display
func (c *Controller) Snapshot(s *Session) Snapshot {
	snap := Snapshot{
		SessionID: s.ID,
		Mode:      s.Mode.String(),
		Status:    s.Status.String(),
		State:     s.State.String(),
		Frequency: c.Frequency(s),
		StepIndex: s.StepIndex,
		Total:     c.Total(s.Mode),
		Testing:   s.Testing,
		Score:     s.Score,
		Controls:  c.controls(s),
		Lines:     c.Lines(s),
		LastError: s.LastError,
	}
	if s.Status == StatusRunning {
		snap.Amplitude = s.Amplitude
	}
	return snap
}

func (c *Controller) controls(s *Session) Controls {
	ctl := Controls{
		Start: s.Status != StatusRunning,
		Home:  true,
	}
	if s.Status != StatusRunning {
		return ctl
	}

	switch s.Mode {
	case ModeManual:
		ctl.Increase = s.Amplitude < audio.MaxAmplitude
		ctl.Decrease = s.Amplitude > *c.cfg.Manual.Floor
		ctl.Play = true
		ctl.Heard = true
	case ModeStaircase:
		ctl.Heard = s.State == StatePlaying || s.State == StateAwaitingResponse
	case ModeAgeBand:
		ctl.Play = true
		ctl.Heard = s.Played
		ctl.NotHeard = s.Played
	case ModeStereo:
		ctl.Play = s.State == StateAwaitingPlay || s.State == StateAwaitingResponse
		ctl.ChooseLeft = s.State == StateAwaitingResponse
		ctl.ChooseRight = s.State == StateAwaitingResponse
	}
	return ctl
}
