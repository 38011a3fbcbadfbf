// ABOUTME: Package playback owns the single active audio track
// ABOUTME: Start stops any previous track first; Stop is always safe
// Package playback is the scoped-resource wrapper around an output.Output.
//
// A Session holds at most one acquired track. Start performs an implicit
// Stop before acquiring a new track, and every failure path releases what
// was acquired, so two tracks never coexist.
//
// Example:
//
//	sess := playback.NewSession(output.NewOto(44100))
//	if err := sess.Start(buf); errors.Is(err, playback.ErrDeviceUnavailable) {
//		log.Printf("Audio output unavailable: %v", err)
//	}
//	defer sess.Stop()
package playback
