// ABOUTME: Hearcheck application orchestration
// ABOUTME: Coordinates audio output, test runner, remote control, mDNS and UI
package app

import (
	"context"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/hearcheck/hearcheck-go/internal/config"
	"github.com/hearcheck/hearcheck-go/internal/discovery"
	"github.com/hearcheck/hearcheck-go/internal/remote"
	"github.com/hearcheck/hearcheck-go/internal/ui"
	"github.com/hearcheck/hearcheck-go/internal/version"
	"github.com/hearcheck/hearcheck-go/pkg/audio/output"
	"github.com/hearcheck/hearcheck-go/pkg/hearing"
	"github.com/hearcheck/hearcheck-go/pkg/playback"
)

// stopTimeout bounds the wait for the runner to shut down
const stopTimeout = 5 * time.Second

// App is a running hearcheck instance
type App struct {
	config config.Config

	output    output.Output
	runner    *hearing.Runner
	server    *remote.Server
	discovery *discovery.Manager

	cancel  context.CancelFunc
	runDone chan error
}

// New creates an app for config
func New(config config.Config) *App {
	return &App{config: config}
}

// Start opens the audio output and starts the runner and remote control.
// A headless app without a remote starts the configured test right away.
func (a *App) Start() error {
	log.Printf("Starting %s: %s", version.String(), a.config.Name)
	if a.config.Debug {
		log.Printf("Debug logging enabled")
	}

	out, err := openOutput(a.config)
	if err != nil {
		return fmt.Errorf("failed to open audio output: %w", err)
	}
	a.output = out

	ctrl := hearing.NewController(a.config.Hearing())
	a.runner = hearing.NewRunner(ctrl, playback.NewSession(out),
		hearing.WithLayout(a.config.Layout()),
		hearing.WithErrorHandler(func(err error) {
			log.Printf("Tone error: %v", err)
		}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.runDone = make(chan error, 1)
	go func() { a.runDone <- a.runner.Run(ctx) }()

	if a.config.Remote != "" {
		if err := a.startRemote(); err != nil {
			a.Stop()
			return err
		}
	}

	if a.config.NoTUI {
		a.runner.Subscribe(logSnapshot)
		if a.server == nil {
			a.runner.Send(hearing.Start{Mode: a.config.Mode})
		}
	}

	return nil
}

func (a *App) startRemote() error {
	a.server = remote.New(remote.Config{
		Addr:  a.config.Remote,
		Name:  a.config.Name,
		Debug: a.config.Debug,
	}, a.runner)
	if err := a.server.Listen(); err != nil {
		return fmt.Errorf("failed to start remote control: %w", err)
	}
	a.runner.Subscribe(a.server.Broadcast)

	go func() {
		if err := a.server.Serve(); err != nil {
			log.Printf("Remote control error: %v", err)
		}
	}()
	log.Printf("Remote control listening on %s", a.server.Addr())

	if a.config.MDNS {
		a.discovery = discovery.NewManager(discovery.Config{
			ServiceName: a.config.Name,
			Port:        a.server.Port(),
			Path:        remote.Path,
		})
		if err := a.discovery.Advertise(); err != nil {
			log.Printf("Failed to start mDNS advertisement: %v", err)
			a.discovery = nil
		} else {
			log.Printf("mDNS advertisement started")
		}
	}
	return nil
}

// Run starts the app and blocks until ctx is done or the TUI quits
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(); err != nil {
		return err
	}
	defer a.Stop()

	if a.config.NoTUI {
		<-ctx.Done()
		log.Printf("Shutdown signal received")
		return nil
	}

	tui := ui.NewTUI(a.runner, a.config.Mode, a.runner.Snapshot())
	a.runner.Subscribe(tui.Update)

	tuiDone := make(chan error, 1)
	go func() { tuiDone <- tui.Run() }()

	select {
	case <-tui.QuitChan():
		log.Printf("Received quit signal from TUI")
	case err := <-tuiDone:
		if err != nil {
			return fmt.Errorf("TUI error: %w", err)
		}
	case <-ctx.Done():
		log.Printf("Shutdown signal received")
		tui.Stop()
	}
	return nil
}

// Runner returns the test runner, or nil before Start
func (a *App) Runner() *hearing.Runner {
	return a.runner
}

// RemoteAddr returns the remote control address, or nil when disabled
func (a *App) RemoteAddr() net.Addr {
	if a.server == nil {
		return nil
	}
	return a.server.Addr()
}

// Stop silences the tone and tears everything down
func (a *App) Stop() {
	if a.runner == nil {
		return
	}

	// Backgrounding stops the tone before anything else is torn down
	a.runner.Send(hearing.Background{})
	a.cancel()

	select {
	case <-a.runDone:
	case <-time.After(stopTimeout):
		log.Printf("Timed out waiting for test runner")
	}

	if a.discovery != nil {
		a.discovery.Stop()
	}
	if a.server != nil {
		a.server.Stop()
	}
	if a.output != nil {
		a.output.Close()
	}
	a.runner = nil

	log.Printf("Hearcheck stopped")
}

func openOutput(cfg config.Config) (output.Output, error) {
	switch cfg.Output {
	case config.OutputWAV:
		log.Printf("Writing tones to %s", cfg.WAVDir)
		return output.NewWAV(cfg.WAVDir)
	default:
		return output.NewOto(cfg.DeviceRate), nil
	}
}

func logSnapshot(s hearing.Snapshot) {
	log.Printf("Session %s: %s/%s step %d/%d freq=%d amp=%d", s.Mode, s.Status, s.State, s.StepIndex+1, s.Total, s.Frequency, s.Amplitude)
	if s.LastError != "" {
		log.Printf("Audio error: %s", s.LastError)
	}
	for _, line := range s.Lines {
		log.Printf("Result: %s", line)
	}
}
