// ABOUTME: Entry point for the hearcheck hearing test
// ABOUTME: Parses configuration and runs the TUI or headless remote mode
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hearcheck/hearcheck-go/internal/app"
	"github.com/hearcheck/hearcheck-go/internal/config"
	"github.com/hearcheck/hearcheck-go/internal/discovery"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.Discover {
		discover(ctx)
		return
	}

	// Set up logging
	f, err := os.OpenFile(cfg.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if cfg.NoTUI {
		// Streaming logs mode: log to both stdout and file
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	} else {
		// TUI mode: log only to file
		log.SetOutput(f)
	}

	if err := app.New(cfg).Run(ctx); err != nil {
		log.Printf("Hearcheck failed: %v", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func discover(ctx context.Context) {
	instances, err := discovery.Discover(ctx, 3*time.Second)
	if err != nil {
		fmt.Fprintf(os.Stderr, "discovery failed: %v\n", err)
		os.Exit(1)
	}
	if len(instances) == 0 {
		fmt.Println("No instances found")
		return
	}
	for _, inst := range instances {
		fmt.Printf("%s\t%s\n", inst.Name, inst.URL())
	}
}
