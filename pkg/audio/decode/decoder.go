// ABOUTME: Decoder interface definition
// ABOUTME: Common interface for tone PCM decoders
package decode

// Decoder decodes PCM bytes into interleaved int16 samples
type Decoder interface {
	// Decode converts encoded audio data to interleaved samples
	Decode(data []byte) ([]int16, error)
}
