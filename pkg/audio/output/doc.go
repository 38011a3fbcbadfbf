// ABOUTME: Audio output package for playing tone buffers
// ABOUTME: Provides the Output/Track sink contract with oto and WAV backends
// Package output provides 16-bit linear PCM playback sinks.
//
// A Track is acquired per buffer, written once, then played and finally
// stopped and released. Backends:
//   - Oto: the system audio device through ebitengine/oto
//   - WAV: each played track is written to a .wav file (headless runs)
//
// Example:
//
//	out := output.NewOto(44100)
//	track, err := out.Open(buf.Format, buf.Len())
//	_, err = track.Write(buf.Bytes())
//	err = track.Play()
package output
