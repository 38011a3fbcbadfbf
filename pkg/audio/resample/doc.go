// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts tone buffers between sample rates
// Package resample provides audio sample rate conversion.
//
// Tones are always generated at audio.SampleRate; when an output device
// runs at a different rate, buffers are converted with linear
// interpolation. Channels are interpolated independently, so a slot that
// is silent in the input stays exactly silent in the output.
//
// Example:
//
//	converted, err := resample.Buffer(buf, 48000)
//	left := resample.Channel(samples, 44100, 48000)
package resample
