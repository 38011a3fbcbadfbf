// ABOUTME: Hearing test configuration
// ABOUTME: Per-mode frequencies, amplitudes and timings with defaults
package hearing

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/hearcheck/hearcheck-go/pkg/audio"
)

// Band maps a minimum highest-audible frequency to an age label
type Band struct {
	MinFrequency int
	Label        string
}

// ManualConfig configures the manual threshold test
type ManualConfig struct {
	Frequencies  []int
	// Floor is the starting and lowest amplitude; nil takes the default
	Floor        *int
	Step         int
	ToneDuration time.Duration
}

// StaircaseConfig configures the ascending staircase test
type StaircaseConfig struct {
	Frequencies  []int
	// Floor is the first amplitude of each sweep; nil takes the default
	Floor        *int
	Step         int
	ToneDuration time.Duration
	Cooldown     time.Duration
	AdvanceDelay time.Duration
}

// AgeBandConfig configures the age banding test. Bands must be sorted by
// descending MinFrequency.
type AgeBandConfig struct {
	Frequencies  []int
	Amplitude    int
	ToneDuration time.Duration
	Bands        []Band
	Fallback     string
}

// StereoConfig configures the stereo localization test
type StereoConfig struct {
	Frequency    int
	Amplitude    int
	ToneDuration time.Duration
	Trials       int
}

// Config holds every mode's settings. Zero or nil fields take defaults.
type Config struct {
	Manual    ManualConfig
	Staircase StaircaseConfig
	AgeBand   AgeBandConfig
	Stereo    StereoConfig
}

var (
	thresholdFrequencies = []int{250, 500, 1000, 2000, 4000, 6000, 8000}
	ageBandFrequencies   = []int{8000, 10000, 12000, 14000, 15000, 16000, 17000, 18000, 19000, 20000}

	defaultBands = []Band{
		{19000, "under 20"},
		{17000, "20-29"},
		{16000, "30-39"},
		{15000, "40-49"},
		{12000, "50-59"},
		{8000, "60+"},
	}
)

const (
	defaultFloor        = 1000
	defaultStep         = 1000
	defaultToneDuration = time.Second
	defaultCooldown     = 500 * time.Millisecond
	defaultAdvanceDelay = time.Second
	defaultAmplitude    = 16000
	defaultStereoFreq   = 1000
	defaultTrials       = 3
	defaultFallback     = "suspected hearing loss"
)

// Amplitude returns a pointer to v for the optional Floor fields
func Amplitude(v int) *int {
	return &v
}

// DefaultConfig returns the standard test settings
func DefaultConfig() Config {
	return Config{}.withDefaults()
}

func (c Config) withDefaults() Config {
	if len(c.Manual.Frequencies) == 0 {
		c.Manual.Frequencies = slices.Clone(thresholdFrequencies)
	}
	if c.Manual.Floor == nil {
		c.Manual.Floor = Amplitude(defaultFloor)
	}
	if c.Manual.Step == 0 {
		c.Manual.Step = defaultStep
	}
	if c.Manual.ToneDuration == 0 {
		c.Manual.ToneDuration = defaultToneDuration
	}

	if len(c.Staircase.Frequencies) == 0 {
		c.Staircase.Frequencies = slices.Clone(thresholdFrequencies)
	}
	if c.Staircase.Floor == nil {
		c.Staircase.Floor = Amplitude(defaultFloor)
	}
	if c.Staircase.Step == 0 {
		c.Staircase.Step = defaultStep
	}
	if c.Staircase.ToneDuration == 0 {
		c.Staircase.ToneDuration = defaultToneDuration
	}
	if c.Staircase.Cooldown == 0 {
		c.Staircase.Cooldown = defaultCooldown
	}
	if c.Staircase.AdvanceDelay == 0 {
		c.Staircase.AdvanceDelay = defaultAdvanceDelay
	}

	if len(c.AgeBand.Frequencies) == 0 {
		c.AgeBand.Frequencies = slices.Clone(ageBandFrequencies)
	}
	if c.AgeBand.Amplitude == 0 {
		c.AgeBand.Amplitude = defaultAmplitude
	}
	if c.AgeBand.ToneDuration == 0 {
		c.AgeBand.ToneDuration = defaultToneDuration
	}
	if len(c.AgeBand.Bands) == 0 {
		c.AgeBand.Bands = slices.Clone(defaultBands)
	}
	if c.AgeBand.Fallback == "" {
		c.AgeBand.Fallback = defaultFallback
	}

	if c.Stereo.Frequency == 0 {
		c.Stereo.Frequency = defaultStereoFreq
	}
	if c.Stereo.Amplitude == 0 {
		c.Stereo.Amplitude = defaultAmplitude
	}
	if c.Stereo.ToneDuration == 0 {
		c.Stereo.ToneDuration = defaultToneDuration
	}
	if c.Stereo.Trials == 0 {
		c.Stereo.Trials = defaultTrials
	}

	return c
}

// Validate checks the config after defaults are applied
func (c Config) Validate() error {
	c = c.withDefaults()

	var errs []error
	check := func(name string, freqs []int, floor, step int) {
		for _, f := range freqs {
			if f <= 0 {
				errs = append(errs, fmt.Errorf("%s: frequency %d must be positive", name, f))
			}
		}
		if floor < 0 || floor > audio.MaxAmplitude {
			errs = append(errs, fmt.Errorf("%s: floor %d outside [0, %d]", name, floor, audio.MaxAmplitude))
		}
		if step <= 0 {
			errs = append(errs, fmt.Errorf("%s: step %d must be positive", name, step))
		}
	}

	check("manual", c.Manual.Frequencies, *c.Manual.Floor, c.Manual.Step)
	check("staircase", c.Staircase.Frequencies, *c.Staircase.Floor, c.Staircase.Step)
	check("ageband", c.AgeBand.Frequencies, c.AgeBand.Amplitude, 1)
	check("stereo", []int{c.Stereo.Frequency}, c.Stereo.Amplitude, 1)

	if c.Stereo.Trials < 2 {
		errs = append(errs, fmt.Errorf("stereo: %d trials, need at least 2", c.Stereo.Trials))
	}
	if !slices.IsSortedFunc(c.AgeBand.Bands, func(a, b Band) int { return b.MinFrequency - a.MinFrequency }) {
		errs = append(errs, errors.New("ageband: bands must be sorted by descending frequency"))
	}

	return errors.Join(errs...)
}
