// ABOUTME: Tests for application orchestration
// ABOUTME: Runs headless apps with WAV output and drives them over the remote control
package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearcheck/hearcheck-go/internal/client"
	"github.com/hearcheck/hearcheck-go/internal/config"
	"github.com/hearcheck/hearcheck-go/internal/remote"
	"github.com/hearcheck/hearcheck-go/pkg/hearing"
)

func headless(t *testing.T, remoteAddr string) config.Config {
	t.Helper()

	cfg, err := config.Load([]string{
		"-output", "wav",
		"-wav-dir", t.TempDir(),
		"-no-tui",
		"-name", "bench",
		"-tone-ms", "50",
		"-remote", remoteAddr,
	})
	require.NoError(t, err)
	return cfg
}

func waitFor(t *testing.T, r *hearing.Runner, cond func(hearing.Snapshot) bool) hearing.Snapshot {
	t.Helper()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if snap := r.Snapshot(); cond(snap) {
			return snap
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met, last snapshot %+v", r.Snapshot())
	return hearing.Snapshot{}
}

func TestHeadlessAutoStart(t *testing.T) {
	cfg := headless(t, "")
	a := New(cfg)
	require.NoError(t, a.Start())
	t.Cleanup(a.Stop)

	assert.Nil(t, a.RemoteAddr())
	snap := waitFor(t, a.Runner(), func(s hearing.Snapshot) bool { return s.Status == "running" })
	assert.Equal(t, "manual", snap.Mode)
}

func TestRemoteDrivesTest(t *testing.T) {
	cfg := headless(t, "127.0.0.1:0")
	a := New(cfg)
	require.NoError(t, a.Start())
	t.Cleanup(a.Stop)

	// With a remote the test waits for a start command
	assert.Equal(t, "idle", a.Runner().Snapshot().Status)

	addr := a.RemoteAddr()
	require.NotNil(t, addr)

	c := client.NewClient(client.Config{URL: "ws://" + addr.String() + remote.Path, ClientID: "phone", Name: "phone"})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, c.Connect(ctx))
	t.Cleanup(c.Close)

	require.NoError(t, c.SendCommand("start", "manual"))
	waitFor(t, a.Runner(), func(s hearing.Snapshot) bool { return s.Status == "running" })

	require.NoError(t, c.SendCommand("play", ""))

	var files []string
	require.Eventually(t, func() bool {
		files, _ = filepath.Glob(filepath.Join(cfg.WAVDir, "*.wav"))
		return len(files) == 1
	}, 3*time.Second, 10*time.Millisecond)
	info, err := os.Stat(files[0])
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(44))
}

func TestStopIsIdempotent(t *testing.T) {
	a := New(headless(t, ""))
	require.NoError(t, a.Start())

	a.Stop()
	a.Stop()
	assert.Nil(t, a.Runner())
}

func TestStartFailsOnBusyAddress(t *testing.T) {
	first := New(headless(t, "127.0.0.1:0"))
	require.NoError(t, first.Start())
	t.Cleanup(first.Stop)

	second := New(headless(t, first.RemoteAddr().String()))
	err := second.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remote control")
	assert.Nil(t, second.Runner())
}
