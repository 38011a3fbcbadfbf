// ABOUTME: Sine wave generator
// ABOUTME: Produces floor(d*r) samples of sin(2*pi*i/(r/f))
package tone

import (
	"fmt"
	"iter"
	"math"
	"time"
)

// Wave is a lazily evaluated sine wave
type Wave struct {
	frequency  float64
	sampleRate int
	samples    int
}

// Generate describes a sine wave of the given frequency and duration.
// Frequencies, durations or rates <= 0 are rejected with ErrInvalidParameter.
func Generate(frequency float64, duration time.Duration, sampleRate int) (Wave, error) {
	if !(frequency > 0) || math.IsInf(frequency, 0) {
		return Wave{}, fmt.Errorf("%w: frequency %v Hz", ErrInvalidParameter, frequency)
	}
	if duration <= 0 {
		return Wave{}, fmt.Errorf("%w: duration %v", ErrInvalidParameter, duration)
	}
	if sampleRate <= 0 {
		return Wave{}, fmt.Errorf("%w: sample rate %d", ErrInvalidParameter, sampleRate)
	}

	return Wave{
		frequency:  frequency,
		sampleRate: sampleRate,
		samples:    SampleCount(duration, sampleRate),
	}, nil
}

// MustGenerate is Generate for callers that already validated their input
func MustGenerate(frequency float64, duration time.Duration, sampleRate int) Wave {
	w, err := Generate(frequency, duration, sampleRate)
	if err != nil {
		panic(err)
	}
	return w
}

// SampleCount returns floor(d*r)
func SampleCount(duration time.Duration, sampleRate int) int {
	return int(math.Floor(duration.Seconds() * float64(sampleRate)))
}

// Len returns the number of samples in the wave
func (w Wave) Len() int {
	return w.samples
}

// Frequency returns the wave frequency in Hz
func (w Wave) Frequency() float64 {
	return w.frequency
}

// SampleRate returns the rate the wave was generated for
func (w Wave) SampleRate() int {
	return w.sampleRate
}

// At returns sample i. i must be in [0, Len()).
func (w Wave) At(i int) float64 {
	period := float64(w.sampleRate) / w.frequency
	return math.Sin(2.0 * math.Pi * float64(i) / period)
}

// All yields every sample in order. Each call restarts from sample 0.
func (w Wave) All() iter.Seq[float64] {
	return func(yield func(float64) bool) {
		for i := 0; i < w.samples; i++ {
			if !yield(w.At(i)) {
				return
			}
		}
	}
}

// Samples materialises the wave
func (w Wave) Samples() []float64 {
	out := make([]float64, 0, w.samples)
	for s := range w.All() {
		out = append(out, s)
	}
	return out
}
