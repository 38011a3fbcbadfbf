// ABOUTME: Oto-based audio output implementation
// ABOUTME: Plays each tone buffer through its own oto player
package output

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log"
	"sync"

	"github.com/ebitengine/oto/v3"

	"github.com/hearcheck/hearcheck-go/pkg/audio"
	"github.com/hearcheck/hearcheck-go/pkg/audio/resample"
)

// Oto output implementation using oto library.
// oto allows one context per process, so the context is opened in stereo at
// the device rate on first use; mono tracks are duplicated into both slots
// and other rates are resampled.
type Oto struct {
	mu         sync.Mutex
	otoCtx     *oto.Context
	deviceRate int
	failed     error
}

// NewOto creates a new Oto output running the device at deviceRate
func NewOto(deviceRate int) *Oto {
	if deviceRate <= 0 {
		deviceRate = audio.SampleRate
	}
	return &Oto{deviceRate: deviceRate}
}

// Open acquires a track for a buffer
func (o *Oto) Open(format audio.Format, size int) (Track, error) {
	if format.BitDepth != audio.BitDepth {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16)", format.BitDepth)
	}
	if format.Channels != 1 && format.Channels != 2 {
		return nil, fmt.Errorf("unsupported channel count: %d", format.Channels)
	}

	ctx, err := o.context()
	if err != nil {
		return nil, err
	}

	return &otoTrack{
		ctx:        ctx,
		format:     format,
		deviceRate: o.deviceRate,
		data:       make([]byte, 0, size),
		size:       size,
	}, nil
}

// context lazily creates the shared oto context
func (o *Oto) context() (*oto.Context, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.otoCtx != nil {
		if err := o.otoCtx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
		}
		return o.otoCtx, nil
	}

	// oto cannot be recreated after a failed NewContext in the same process
	if o.failed != nil {
		return nil, o.failed
	}

	op := &oto.NewContextOptions{
		SampleRate:   o.deviceRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		o.failed = fmt.Errorf("%w: failed to create oto context: %v", ErrDeviceUnavailable, err)
		return nil, o.failed
	}

	<-readyChan

	o.otoCtx = ctx
	log.Printf("Audio output initialized: %dHz, 2 channels (oto)", o.deviceRate)

	return ctx, nil
}

// Close releases output resources
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.otoCtx == nil {
		return nil
	}
	o.otoCtx.Suspend()
	return nil
}

// otoTrack is a single write-then-play buffer
type otoTrack struct {
	mu         sync.Mutex
	ctx        *oto.Context
	format     audio.Format
	deviceRate int
	data       []byte
	size       int
	player     *oto.Player
	released   bool
}

func (t *otoTrack) Write(pcm []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.released {
		return 0, ErrNotInitialized
	}
	if len(t.data)+len(pcm) > t.size {
		return 0, fmt.Errorf("track overflow: %d bytes exceeds size %d", len(t.data)+len(pcm), t.size)
	}
	t.data = append(t.data, pcm...)
	return len(pcm), nil
}

func (t *otoTrack) Play() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.released {
		return ErrNotInitialized
	}
	if t.player != nil {
		t.player.Play()
		return nil
	}

	buf, err := resample.Buffer(audio.NewBuffer(t.data, t.format), t.deviceRate)
	if err != nil {
		return fmt.Errorf("failed to resample tone: %w", err)
	}
	pcm := buf.Bytes()
	if buf.Format.Channels == 1 {
		pcm = Upmix(pcm)
	}

	t.player = t.ctx.NewPlayer(bytes.NewReader(pcm))
	t.player.Play()
	return nil
}

func (t *otoTrack) IsPlaying() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.player != nil && t.player.IsPlaying()
}

func (t *otoTrack) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.player != nil && t.player.IsPlaying() {
		t.player.Pause()
	}
	return nil
}

func (t *otoTrack) Release() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.released {
		return nil
	}
	t.released = true

	if t.player != nil {
		t.player.Pause()
		t.player.Close()
		t.player = nil
	}
	t.data = nil
	return nil
}

// Upmix duplicates each mono 16-bit sample into a stereo frame
func Upmix(mono []byte) []byte {
	frames := len(mono) / 2
	stereo := make([]byte, frames*4)
	for i := 0; i < frames; i++ {
		v := binary.LittleEndian.Uint16(mono[i*2:])
		binary.LittleEndian.PutUint16(stereo[i*4:], v)
		binary.LittleEndian.PutUint16(stereo[i*4+2:], v)
	}
	return stereo
}
