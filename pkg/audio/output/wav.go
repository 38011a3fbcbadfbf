// ABOUTME: WAV file audio output implementation
// ABOUTME: Writes each played track to a numbered .wav file using go-audio
package output

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/hearcheck/hearcheck-go/pkg/audio"
)

// WAV output writes tracks to files instead of a device. A track reports
// IsPlaying for the buffer's real duration so timing matches a device.
type WAV struct {
	dir string

	mu    sync.Mutex
	seq   int
	paths []string
}

// NewWAV creates a WAV output writing into dir
func NewWAV(dir string) (*WAV, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: failed to create output directory: %v", ErrDeviceUnavailable, err)
	}
	return &WAV{dir: dir}, nil
}

// Open acquires a file-backed track
func (w *WAV) Open(format audio.Format, size int) (Track, error) {
	if format.BitDepth != audio.BitDepth {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16)", format.BitDepth)
	}

	w.mu.Lock()
	w.seq++
	path := filepath.Join(w.dir, fmt.Sprintf("tone-%04d.wav", w.seq))
	w.mu.Unlock()

	return &wavTrack{
		out:    w,
		path:   path,
		format: format,
		data:   make([]byte, 0, size),
		size:   size,
	}, nil
}

// Paths returns the files written so far
func (w *WAV) Paths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]string, len(w.paths))
	copy(out, w.paths)
	return out
}

// Close releases output resources
func (w *WAV) Close() error {
	return nil
}

func (w *WAV) record(path string) {
	w.mu.Lock()
	w.paths = append(w.paths, path)
	w.mu.Unlock()
}

type wavTrack struct {
	mu       sync.Mutex
	out      *WAV
	path     string
	format   audio.Format
	data     []byte
	size     int
	started  time.Time
	stopped  bool
	written  bool
	released bool
}

func (t *wavTrack) Write(pcm []byte) (int, error) {
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

func (t *wavTrack) Play() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.released {
		return ErrNotInitialized
	}

	if !t.written {
		f, err := os.Create(t.path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", t.path, err)
		}
		if err := WriteWAV(f, audio.NewBuffer(t.data, t.format)); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close %s: %w", t.path, err)
		}
		t.written = true
		t.out.record(t.path)
		log.Printf("Tone written: %s", t.path)
	}

	t.started = time.Now()
	t.stopped = false
	return nil
}

func (t *wavTrack) IsPlaying() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped || t.started.IsZero() {
		return false
	}
	return time.Since(t.started) < audio.NewBuffer(t.data, t.format).Duration()
}

func (t *wavTrack) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopped = true
	return nil
}

func (t *wavTrack) Release() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.released = true
	t.stopped = true
	t.data = nil
	return nil
}

// WriteWAV encodes a PCM buffer as a WAV stream
func WriteWAV(w io.WriteSeeker, buf audio.Buffer) error {
	format := buf.Format
	enc := wav.NewEncoder(w, format.SampleRate, format.BitDepth, format.Channels, 1)

	pcm := buf.Bytes()
	data := make([]int, len(pcm)/2)
	for i := range data {
		data[i] = int(int16(binary.LittleEndian.Uint16(pcm[i*2:])))
	}

	ib := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: format.Channels,
			SampleRate:  format.SampleRate,
		},
		Data:           data,
		SourceBitDepth: format.BitDepth,
	}

	if err := enc.Write(ib); err != nil {
		return fmt.Errorf("failed to encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize wav: %w", err)
	}
	return nil
}

// ReadWAV decodes a 16-bit WAV stream back into a PCM buffer
func ReadWAV(r io.ReadSeeker) (audio.Buffer, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return audio.Buffer{}, errors.New("not a valid WAV file")
	}

	ib, err := d.FullPCMBuffer()
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("failed to decode wav: %w", err)
	}
	if int(d.BitDepth) != audio.BitDepth {
		return audio.Buffer{}, fmt.Errorf("unsupported bit depth: %d (supported: 16)", d.BitDepth)
	}

	pcm := make([]byte, len(ib.Data)*2)
	for i, s := range ib.Data {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(int16(s)))
	}

	format := audio.Format{
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
		BitDepth:   int(d.BitDepth),
	}
	return audio.NewBuffer(pcm, format), nil
}
