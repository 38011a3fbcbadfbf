// ABOUTME: Encoder interface definition
// ABOUTME: Common interface for tone encoders
package encode

import (
	"github.com/hearcheck/hearcheck-go/pkg/audio"
	"github.com/hearcheck/hearcheck-go/pkg/tone"
)

// Encoder converts a wave into a routed PCM buffer
type Encoder interface {
	// Encode scales wave by amplitude and routes it per channel
	Encode(wave tone.Wave, amplitude int, channel audio.Channel) audio.Buffer

	// Format returns the PCM format of produced buffers
	Format() audio.Format
}
