package tone

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hearcheck/hearcheck-go/pkg/audio"
)

func TestRequestValidate(t *testing.T) {
	valid := Request{Frequency: 1000, Amplitude: 1000, Duration: time.Second, Channel: audio.ChannelBoth}

	tests := []struct {
		name    string
		mutate  func(r *Request)
		wantErr bool
	}{
		{"valid", func(r *Request) {}, false},
		{"max amplitude", func(r *Request) { r.Amplitude = audio.MaxAmplitude }, false},
		{"zero amplitude", func(r *Request) { r.Amplitude = 0 }, false},
		{"amplitude too high", func(r *Request) { r.Amplitude = audio.MaxAmplitude + 1 }, true},
		{"negative amplitude", func(r *Request) { r.Amplitude = -1 }, true},
		{"zero frequency", func(r *Request) { r.Frequency = 0 }, true},
		{"zero duration", func(r *Request) { r.Duration = 0 }, true},
		{"no channel", func(r *Request) { r.Channel = audio.ChannelNone }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			err := r.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidParameter), "expected ErrInvalidParameter, got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRequestWave(t *testing.T) {
	r := Request{Frequency: 250, Amplitude: 1000, Duration: time.Second, Channel: audio.ChannelLeft}

	w, err := r.Wave()
	assert.NoError(t, err)
	assert.Equal(t, 44100, w.Len())
	assert.Equal(t, 250.0, w.Frequency())
}
