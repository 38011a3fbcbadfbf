// ABOUTME: Result evaluation for finished hearing tests
// ABOUTME: Pure functions summarising thresholds, age bands and stereo scores
package hearing

import (
	"fmt"
)

// ThresholdSummary is the evaluation of a ThresholdRecord
type ThresholdSummary struct {
	Lines []string
	// Best is the detected frequency with the lowest amplitude
	Best  Threshold
	Found bool
}

// EvaluateThresholds reports every frequency and the most sensitive one.
// Ties keep the earlier frequency.
func EvaluateThresholds(rec ThresholdRecord) ThresholdSummary {
	var sum ThresholdSummary

	for _, t := range rec.Entries() {
		if !t.Detected {
			sum.Lines = append(sum.Lines, fmt.Sprintf("%dHz: not detected", t.Frequency))
			continue
		}
		sum.Lines = append(sum.Lines, fmt.Sprintf("%dHz: detected at %d", t.Frequency, t.Amplitude))
		if !sum.Found || t.Amplitude < sum.Best.Amplitude {
			sum.Best = t
			sum.Found = true
		}
	}

	if sum.Found {
		sum.Lines = append(sum.Lines, fmt.Sprintf("best frequency: %dHz (threshold %d)", sum.Best.Frequency, sum.Best.Amplitude))
	} else {
		sum.Lines = append(sum.Lines, "no frequency detected")
	}
	return sum
}

// ClassifyAge maps the highest audible frequency through bands. An empty
// set or a frequency below every band yields fallback.
func ClassifyAge(set AudibleSet, bands []Band, fallback string) string {
	highest, ok := set.Highest()
	if !ok {
		return fallback
	}
	for _, b := range bands {
		if highest >= b.MinFrequency {
			return b.Label
		}
	}
	return fallback
}

// AgeBandLines reports the highest audible frequency and its band
func AgeBandLines(set AudibleSet, cfg AgeBandConfig) []string {
	band := ClassifyAge(set, cfg.Bands, cfg.Fallback)

	highest, ok := set.Highest()
	if !ok {
		return []string{"no audible frequency", "estimated age band: " + band}
	}
	return []string{
		fmt.Sprintf("highest audible frequency: %dHz", highest),
		"estimated age band: " + band,
	}
}

// StereoLabel is the qualitative label for a stereo score
func StereoLabel(score, total int) string {
	if score == total {
		return "perfect"
	}
	return "check channel orientation"
}

// EvaluateStereo returns the score and label for the trials
func EvaluateStereo(trials []StereoTrial) (int, string) {
	score := 0
	for _, t := range trials {
		if t.Correct {
			score++
		}
	}
	return score, StereoLabel(score, len(trials))
}

// StereoLines reports every answered trial, the score and its label
func StereoLines(trials []StereoTrial) []string {
	var lines []string
	for i, t := range trials {
		if !t.Answered() {
			continue
		}
		mark := "wrong"
		if t.Correct {
			mark = "correct"
		}
		lines = append(lines, fmt.Sprintf("trial %d: %s, chose %s (%s)", i+1, t.Target, t.Chosen, mark))
	}

	score, label := EvaluateStereo(trials)
	lines = append(lines, fmt.Sprintf("score: %d/%d", score, len(trials)), label)
	return lines
}

// Lines returns the result text for s: the full result once completed,
// the partial record after a cancellation, and nothing before any result.
func (c *Controller) Lines(s *Session) []string {
	switch s.Status {
	case StatusCompleted:
		return c.results(s)
	case StatusIdle:
		if !s.hasRecords() {
			return nil
		}
		return append([]string{"test cancelled"}, c.results(s)...)
	}
	return nil
}

func (c *Controller) results(s *Session) []string {
	switch s.Mode {
	case ModeManual, ModeStaircase:
		return EvaluateThresholds(s.Thresholds).Lines
	case ModeAgeBand:
		return AgeBandLines(s.Audible, c.cfg.AgeBand)
	case ModeStereo:
		return StereoLines(s.Trials)
	}
	return nil
}

func (s *Session) hasRecords() bool {
	if s.Thresholds.Len() > 0 || s.Audible.Len() > 0 {
		return true
	}
	for _, t := range s.Trials {
		if t.Answered() {
			return true
		}
	}
	return false
}
