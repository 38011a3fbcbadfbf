// ABOUTME: Pure tone synthesis package
// ABOUTME: Generates deterministic sine waves for hearing test stimuli
// Package tone generates the sine stimuli used by the hearing tests.
//
// A Wave is a finite, lazy and restartable sequence of samples in [-1, 1].
// Nothing is allocated until the samples are consumed, and every pass over
// the wave yields bit-identical values.
//
// Example:
//
//	req := tone.Request{Frequency: 1000, Amplitude: 8000, Duration: time.Second, Channel: audio.ChannelLeft}
//	if err := req.Validate(); err != nil {
//	    return err
//	}
//	wave := tone.MustGenerate(req.Frequency, req.Duration, audio.SampleRate)
//	for s := range wave.All() {
//	    _ = s
//	}
package tone
