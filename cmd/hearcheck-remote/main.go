// ABOUTME: Entry point for the hearcheck remote control
// ABOUTME: Connects to a running instance and sends commands read from stdin
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/hearcheck/hearcheck-go/internal/client"
	"github.com/hearcheck/hearcheck-go/internal/discovery"
	"github.com/hearcheck/hearcheck-go/pkg/hearing"
)

var (
	serverURL = flag.String("url", "", "Websocket URL (default: first instance found via mDNS)")
	name      = flag.String("name", "remote", "Name reported to the instance")
	timeout   = flag.Duration("timeout", 3*time.Second, "Discovery timeout")
	verbose   = flag.Bool("v", false, "Log connection details to stderr")
)

func main() {
	flag.Parse()

	if !*verbose {
		log.SetOutput(io.Discard)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	url, err := resolveURL(ctx, *serverURL, *timeout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	c := client.NewClient(client.Config{URL: url, ClientID: uuid.NewString(), Name: *name})
	if err := c.Connect(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "connect failed: %v\n", err)
		os.Exit(1)
	}
	defer c.Close()

	fmt.Printf("Connected to %s\n", c.Server().Name)
	fmt.Printf("Commands: start <mode>, %s, quit\n", strings.Join(hearing.Commands[1:], ", "))

	go func() {
		for {
			select {
			case snap := <-c.Updates:
				fmt.Print(formatSnapshot(snap))
			case e := <-c.Errors:
				fmt.Printf("error: %s (%s)\n", e.Message, e.Error)
			case <-c.Done():
				cancel()
				return
			}
		}
	}()

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			command, mode, err := parseLine(line)
			if errors.Is(err, errQuit) {
				return
			}
			if err != nil {
				fmt.Println(err)
				continue
			}
			if command == "" {
				continue
			}
			if err := c.SendCommand(command, mode); err != nil {
				fmt.Fprintf(os.Stderr, "send failed: %v\n", err)
				return
			}
		}
	}
}

var errQuit = errors.New("quit")

// parseLine turns "start stereo" or "play" into a command and mode
func parseLine(line string) (command, mode string, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", "", nil
	}

	command = fields[0]
	switch command {
	case "quit", "exit":
		return "", "", errQuit
	case "start":
		mode = hearing.ModeManual.String()
		if len(fields) > 1 {
			m, err := hearing.ParseMode(fields[1])
			if err != nil {
				return "", "", err
			}
			mode = m.String()
		}
		return command, mode, nil
	}

	if len(fields) > 1 {
		return "", "", fmt.Errorf("%s takes no arguments", command)
	}
	if _, err := hearing.ParseCommand(command, hearing.ModeManual); err != nil {
		return "", "", err
	}
	return command, "", nil
}

func formatSnapshot(s hearing.Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s] %s/%s", s.Mode, s.Status, s.State)
	if s.Status == "running" {
		fmt.Fprintf(&b, " step %d/%d %dHz", s.StepIndex+1, s.Total, s.Frequency)
		if s.Amplitude > 0 {
			fmt.Fprintf(&b, " amp %d", s.Amplitude)
		}
	}
	if s.Testing {
		b.WriteString(" (tone)")
	}
	b.WriteString("\n")

	if s.LastError != "" {
		fmt.Fprintf(&b, "  audio error: %s\n", s.LastError)
	}
	for _, line := range s.Lines {
		fmt.Fprintf(&b, "  %s\n", line)
	}
	return b.String()
}

func resolveURL(ctx context.Context, url string, timeout time.Duration) (string, error) {
	if url != "" {
		return url, nil
	}

	instances, err := discovery.Discover(ctx, timeout)
	if err != nil {
		return "", fmt.Errorf("discovery failed: %w", err)
	}
	if len(instances) == 0 {
		return "", fmt.Errorf("no instances found; pass -url")
	}
	return instances[0].URL(), nil
}
