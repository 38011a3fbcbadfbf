// ABOUTME: Hearing test session model
// ABOUTME: Modes, states, threshold records, audible sets and stereo trials
package hearing

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hearcheck/hearcheck-go/pkg/audio"
)

// Mode selects a test
type Mode int

const (
	ModeManual Mode = iota
	ModeStaircase
	ModeAgeBand
	ModeStereo
)

// Modes lists every mode in menu order
var Modes = []Mode{ModeManual, ModeStaircase, ModeAgeBand, ModeStereo}

func (m Mode) String() string {
	switch m {
	case ModeManual:
		return "manual"
	case ModeStaircase:
		return "staircase"
	case ModeAgeBand:
		return "ageband"
	case ModeStereo:
		return "stereo"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Title is the human readable mode name
func (m Mode) Title() string {
	switch m {
	case ModeManual:
		return "Manual threshold"
	case ModeStaircase:
		return "Ascending staircase"
	case ModeAgeBand:
		return "Age banding"
	case ModeStereo:
		return "Stereo localization"
	default:
		return m.String()
	}
}

// ParseMode parses a mode name
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "manual":
		return ModeManual, nil
	case "staircase", "auto":
		return ModeStaircase, nil
	case "ageband", "age":
		return ModeAgeBand, nil
	case "stereo":
		return ModeStereo, nil
	default:
		return 0, fmt.Errorf("unknown mode: %q", s)
	}
}

// Status is the coarse session status
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// State is the step-level state shared by all modes
type State int

const (
	StateIdle State = iota
	StateAwaitingPlay
	StatePlaying
	StateAwaitingResponse
	StateAdvancing
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingPlay:
		return "awaiting-play"
	case StatePlaying:
		return "playing"
	case StateAwaitingResponse:
		return "awaiting-response"
	case StateAdvancing:
		return "advancing"
	case StateCompleted:
		return "completed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Threshold is one ThresholdRecord entry
type Threshold struct {
	Frequency int
	Amplitude int
	Detected  bool
}

// ThresholdRecord maps tested frequencies to detected amplitudes in test
// order. An entry is final once written.
type ThresholdRecord struct {
	entries []Threshold
}

// Record finalizes freq at amplitude. Returns false if freq already has an entry.
func (r *ThresholdRecord) Record(freq, amplitude int) bool {
	return r.add(Threshold{Frequency: freq, Amplitude: amplitude, Detected: true})
}

// RecordNotDetected finalizes freq as not detected
func (r *ThresholdRecord) RecordNotDetected(freq int) bool {
	return r.add(Threshold{Frequency: freq})
}

func (r *ThresholdRecord) add(t Threshold) bool {
	if _, ok := r.Get(t.Frequency); ok {
		return false
	}
	r.entries = append(r.entries, t)
	return true
}

// Get returns the entry for freq
func (r *ThresholdRecord) Get(freq int) (Threshold, bool) {
	for _, t := range r.entries {
		if t.Frequency == freq {
			return t, true
		}
	}
	return Threshold{}, false
}

// Entries returns a copy of the entries in test order
func (r *ThresholdRecord) Entries() []Threshold {
	return slices.Clone(r.entries)
}

// Len returns the number of finalized frequencies
func (r *ThresholdRecord) Len() int {
	return len(r.entries)
}

// AudibleSet holds the frequencies the listener confirmed hearing
type AudibleSet struct {
	freqs []int
}

// Add inserts freq
func (a *AudibleSet) Add(freq int) {
	if !a.Contains(freq) {
		a.freqs = append(a.freqs, freq)
	}
}

// Contains reports whether freq was heard
func (a *AudibleSet) Contains(freq int) bool {
	return slices.Contains(a.freqs, freq)
}

// Highest returns the highest audible frequency
func (a *AudibleSet) Highest() (int, bool) {
	if len(a.freqs) == 0 {
		return 0, false
	}
	return slices.Max(a.freqs), true
}

// Frequencies returns the heard frequencies in ascending order
func (a *AudibleSet) Frequencies() []int {
	out := slices.Clone(a.freqs)
	slices.Sort(out)
	return out
}

// Len returns the number of heard frequencies
func (a *AudibleSet) Len() int {
	return len(a.freqs)
}

// StereoTrial is one localization trial. Chosen is ChannelNone until answered.
type StereoTrial struct {
	Target  audio.Channel
	Chosen  audio.Channel
	Correct bool
}

// Answered reports whether a side was chosen
func (t StereoTrial) Answered() bool {
	return t.Chosen != audio.ChannelNone
}

// Token identifies the session step that issued a timer or playback
type Token struct {
	Session    string
	Generation uint64
}

// Session is the state of one test run. Only the Controller mutates it.
type Session struct {
	ID         string
	Generation uint64
	Mode       Mode
	Status     Status
	State      State
	StepIndex  int
	Amplitude  int
	Testing    bool

	// Played reports whether the current age-band step has produced a tone
	Played bool

	Thresholds ThresholdRecord
	Audible    AudibleSet
	Trials     []StereoTrial
	Score      int

	// LastError is the last playback failure, cleared by the next success
	LastError string
}

// Token returns the token for the current step
func (s *Session) Token() Token {
	return Token{Session: s.ID, Generation: s.Generation}
}

// Current reports whether tok was issued by the current step
func (s *Session) Current(tok Token) bool {
	return tok.Session == s.ID && tok.Generation == s.Generation
}

// bump retires every outstanding token
func (s *Session) bump() Token {
	s.Generation++
	return s.Token()
}
