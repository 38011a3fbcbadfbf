// ABOUTME: Command line and environment configuration
// ABOUTME: Flags default to HEARCHECK_* environment values
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/hearcheck/hearcheck-go/pkg/audio"
	"github.com/hearcheck/hearcheck-go/pkg/hearing"
)

// DefaultFloor leaves the threshold modes at their own starting amplitude
const DefaultFloor = -1

// Output sinks
const (
	OutputOto = "oto"
	OutputWAV = "wav"
)

// Config holds runtime configuration for the hearcheck binary
type Config struct {
	Mode       hearing.Mode
	Output     string
	WAVDir     string
	DeviceRate int
	Mono       bool
	LogFile    string
	NoTUI      bool
	Debug      bool

	// Remote is the websocket listen address; empty disables it
	Remote string
	MDNS   bool
	Name   string

	// Discover lists instances on the LAN and exits
	Discover bool

	ToneDuration time.Duration
	// Floor is the threshold modes' starting amplitude; -1 keeps the mode default
	Floor        int
	Step         int
}

// Load parses args. Each flag's default comes from its environment variable.
func Load(args []string) (Config, error) {
	var cfg Config
	var mode string
	var toneMs int

	fs := flag.NewFlagSet("hearcheck", flag.ContinueOnError)
	fs.StringVar(&mode, "mode", envStr("HEARCHECK_MODE", "manual"), "Test mode: manual, staircase, ageband, stereo")
	fs.StringVar(&cfg.Output, "output", envStr("HEARCHECK_OUTPUT", OutputOto), "Audio output: oto or wav")
	fs.StringVar(&cfg.WAVDir, "wav-dir", envStr("HEARCHECK_WAV_DIR", "tones"), "Directory for -output wav")
	fs.IntVar(&cfg.DeviceRate, "device-rate", envInt("HEARCHECK_DEVICE_RATE", audio.SampleRate), "Audio device sample rate")
	fs.BoolVar(&cfg.Mono, "mono", envBool("HEARCHECK_MONO", false), "Encode tones for both ears as mono")
	fs.StringVar(&cfg.LogFile, "log-file", envStr("HEARCHECK_LOG_FILE", "hearcheck.log"), "Log file path")
	fs.BoolVar(&cfg.NoTUI, "no-tui", envBool("HEARCHECK_NO_TUI", false), "Disable TUI, use streaming logs instead")
	fs.BoolVar(&cfg.Debug, "debug", envBool("HEARCHECK_DEBUG", false), "Enable debug logging")
	fs.StringVar(&cfg.Remote, "remote", envStr("HEARCHECK_REMOTE", ""), "Websocket remote control address (e.g. :8930)")
	fs.BoolVar(&cfg.MDNS, "mdns", envBool("HEARCHECK_MDNS", false), "Advertise the remote control via mDNS")
	fs.StringVar(&cfg.Name, "name", envStr("HEARCHECK_NAME", ""), "Instance name (default: hostname-hearcheck)")
	fs.BoolVar(&cfg.Discover, "discover", false, "List instances on the local network and exit")
	fs.IntVar(&toneMs, "tone-ms", envInt("HEARCHECK_TONE_MS", 0), "Tone duration in milliseconds (0: mode default)")
	fs.IntVar(&cfg.Floor, "floor", envInt("HEARCHECK_FLOOR", DefaultFloor), "Starting amplitude for threshold modes (-1: mode default)")
	fs.IntVar(&cfg.Step, "step", envInt("HEARCHECK_STEP", 0), "Amplitude step for threshold modes (0: default)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	m, err := hearing.ParseMode(mode)
	if err != nil {
		return Config{}, err
	}
	cfg.Mode = m
	cfg.ToneDuration = time.Duration(toneMs) * time.Millisecond

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	if cfg.Name == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		cfg.Name = fmt.Sprintf("%s-hearcheck", hostname)
	}

	return cfg, nil
}

func (c Config) validate() error {
	switch c.Output {
	case OutputOto, OutputWAV:
	default:
		return fmt.Errorf("unknown output %q (supported: oto, wav)", c.Output)
	}
	if c.DeviceRate <= 0 {
		return fmt.Errorf("invalid device rate: %d", c.DeviceRate)
	}
	if c.ToneDuration < 0 {
		return fmt.Errorf("invalid tone duration: %v", c.ToneDuration)
	}
	if c.Floor < DefaultFloor {
		return fmt.Errorf("invalid floor: %d", c.Floor)
	}
	if c.MDNS && c.Remote == "" {
		return fmt.Errorf("-mdns requires -remote")
	}
	return c.Hearing().Validate()
}

// Layout returns the layout for tones routed to both ears
func (c Config) Layout() audio.Layout {
	if c.Mono {
		return audio.Mono
	}
	return audio.Stereo
}

// Hearing returns the test configuration with flag overrides applied
func (c Config) Hearing() hearing.Config {
	var hc hearing.Config

	if c.Floor != DefaultFloor {
		hc.Manual.Floor = hearing.Amplitude(c.Floor)
		hc.Staircase.Floor = hearing.Amplitude(c.Floor)
	}
	hc.Manual.Step = c.Step
	hc.Staircase.Step = c.Step

	if c.ToneDuration > 0 {
		hc.Manual.ToneDuration = c.ToneDuration
		hc.Staircase.ToneDuration = c.ToneDuration
		hc.AgeBand.ToneDuration = c.ToneDuration
		hc.Stereo.ToneDuration = c.ToneDuration
	}

	return hc
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
