// ABOUTME: Tone request definition and validation
// ABOUTME: Describes one stimulus: frequency, amplitude, duration and routing
package tone

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/hearcheck/hearcheck-go/pkg/audio"
)

// ErrInvalidParameter marks a caller contract violation
var ErrInvalidParameter = errors.New("invalid tone parameter")

// Request is a single tone to synthesise and play
type Request struct {
	Frequency float64
	Amplitude int
	Duration  time.Duration
	Channel   audio.Channel
}

// Validate checks the request against the documented domain
func (r Request) Validate() error {
	if !(r.Frequency > 0) || math.IsInf(r.Frequency, 0) {
		return fmt.Errorf("%w: frequency %v Hz", ErrInvalidParameter, r.Frequency)
	}
	if r.Amplitude < 0 || r.Amplitude > audio.MaxAmplitude {
		return fmt.Errorf("%w: amplitude %d outside [0, %d]", ErrInvalidParameter, r.Amplitude, audio.MaxAmplitude)
	}
	if r.Duration <= 0 {
		return fmt.Errorf("%w: duration %v", ErrInvalidParameter, r.Duration)
	}
	switch r.Channel {
	case audio.ChannelLeft, audio.ChannelRight, audio.ChannelBoth:
	default:
		return fmt.Errorf("%w: channel %v", ErrInvalidParameter, r.Channel)
	}
	return nil
}

// Wave generates the request's waveform at audio.SampleRate
func (r Request) Wave() (Wave, error) {
	if err := r.Validate(); err != nil {
		return Wave{}, err
	}
	return Generate(r.Frequency, r.Duration, audio.SampleRate)
}

func (r Request) String() string {
	return fmt.Sprintf("%gHz amp=%d %v %s", r.Frequency, r.Amplitude, r.Duration, r.Channel)
}
