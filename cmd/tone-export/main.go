// ABOUTME: Entry point for the tone export tool
// ABOUTME: Renders one tone request to a WAV file
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hearcheck/hearcheck-go/pkg/audio"
	"github.com/hearcheck/hearcheck-go/pkg/audio/encode"
	"github.com/hearcheck/hearcheck-go/pkg/audio/output"
	"github.com/hearcheck/hearcheck-go/pkg/tone"
)

var (
	freq    = flag.Float64("freq", 1000, "Tone frequency in Hz")
	amp     = flag.Int("amp", 16000, "Amplitude (0-32767)")
	dur     = flag.Float64("dur", 1, "Duration in seconds")
	channel = flag.String("channel", "both", "Channel: left, right or both")
	mono    = flag.Bool("mono", false, "Write a mono file (channel must be both)")
	outPath = flag.String("out", "tone.wav", "Output WAV file")
)

func main() {
	flag.Parse()

	ch, err := audio.ParseChannel(*channel)
	if err != nil {
		log.Fatalf("Invalid channel: %v", err)
	}

	req := tone.Request{
		Frequency: *freq,
		Amplitude: *amp,
		Duration:  time.Duration(*dur * float64(time.Second)),
		Channel:   ch,
	}

	if err := export(req, *mono, *outPath); err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	fmt.Printf("Wrote %s (%s)\n", *outPath, req)
}

func export(req tone.Request, mono bool, path string) error {
	layout := audio.Stereo
	if mono {
		if req.Channel != audio.ChannelBoth {
			return fmt.Errorf("mono output cannot route to %s", req.Channel)
		}
		layout = audio.Mono
	}

	wave, err := req.Wave()
	if err != nil {
		return err
	}
	buf := encode.ForLayout(layout).Encode(wave, req.Amplitude, req.Channel)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := output.WriteWAV(f, buf); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
