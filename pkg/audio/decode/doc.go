// ABOUTME: PCM decoder package for verifying encoded tones
// ABOUTME: Provides Decoder interface and a 16-bit little-endian implementation
// Package decode reads encoded tone buffers back into samples.
//
// It is the inverse of package encode and is used to verify channel
// isolation and to hand samples to file writers.
//
// Example:
//
//	decoder, err := decode.NewPCM(buf.Format)
//	samples, err := decoder.Decode(buf.Bytes())
//	channels := decode.Deinterleave(samples, buf.Format.Channels)
package decode
