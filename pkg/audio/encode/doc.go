// ABOUTME: Channel encoder package for tone PCM
// ABOUTME: Scales waves to 16-bit samples and routes them to output channels
// Package encode turns generated waves into interleaved 16-bit PCM.
//
// Each sample is scaled by the amplitude, rounded and truncated to int16
// (two's complement), then written little-endian. Stereo buffers carry the
// signal only in the slots named by the channel directive; the other slot
// is written as exact silence.
//
// Example:
//
//	encoder, err := encode.NewPCM(audio.NewFormat(audio.Stereo))
//	buf := encoder.Encode(wave, 8000, audio.ChannelLeft)
package encode
