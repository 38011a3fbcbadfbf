// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format, Buffer and channel routing types
// Package audio provides the PCM types shared by the tone pipeline.
//
// This package defines:
//   - Format: sample rate, channel count and bit depth of a PCM stream
//   - Buffer: an immutable block of interleaved 16-bit little-endian PCM
//   - Channel: routing directive (none, left, right, both)
//   - Layout: mono or stereo interleaving
//
// Example:
//
//	format := audio.NewFormat(audio.Stereo)
//	buf := audio.NewBuffer(pcm, format)
//	fmt.Println(buf.Duration())
package audio
