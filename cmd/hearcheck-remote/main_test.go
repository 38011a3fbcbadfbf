// ABOUTME: Tests for the remote control command line
// ABOUTME: Covers command parsing and snapshot formatting
package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearcheck/hearcheck-go/pkg/hearing"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line    string
		command string
		mode    string
	}{
		{"start", "start", "manual"},
		{"start stereo", "start", "stereo"},
		{"  play  ", "play", ""},
		{"notHeard", "notHeard", ""},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			command, mode, err := parseLine(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.command, command)
			assert.Equal(t, tt.mode, mode)
		})
	}
}

func TestParseLineErrors(t *testing.T) {
	_, _, err := parseLine("quit")
	assert.ErrorIs(t, err, errQuit)

	_, _, err = parseLine("start opera")
	assert.Error(t, err)

	_, _, err = parseLine("play loud")
	assert.Error(t, err)

	_, _, err = parseLine("louder")
	assert.Error(t, err)
}

func TestFormatSnapshot(t *testing.T) {
	out := formatSnapshot(hearing.Snapshot{
		Mode: "staircase", Status: "running", State: "playing",
		StepIndex: 1, Total: 5, Frequency: 500, Amplitude: 1500, Testing: true,
	})
	assert.Equal(t, "[staircase] running/playing step 2/5 500Hz amp 1500 (tone)\n", out)

	out = formatSnapshot(hearing.Snapshot{
		Mode: "stereo", Status: "completed", State: "completed",
		Lines: []string{"score: 3/3"},
	})
	assert.Equal(t, "[stereo] completed/completed\n  score: 3/3\n", out)
}

func TestResolveURLExplicit(t *testing.T) {
	url, err := resolveURL(context.Background(), "ws://host:8930/hearcheck", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "ws://host:8930/hearcheck", url)
}
