// ABOUTME: Tests for WebSocket client implementation
// ABOUTME: Runs the client against a real remote control server over httptest
package client

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearcheck/hearcheck-go/internal/remote"
	"github.com/hearcheck/hearcheck-go/pkg/hearing"
)

type fakeSession struct {
	sent chan hearing.Event
}

func (f *fakeSession) Send(ev hearing.Event) bool {
	f.sent <- ev
	return true
}

func (f *fakeSession) Snapshot() hearing.Snapshot {
	return hearing.Snapshot{Mode: "manual", Status: "idle", State: "idle", Total: 5}
}

func startServer(t *testing.T) (*remote.Server, *fakeSession, string) {
	t.Helper()

	sess := &fakeSession{sent: make(chan hearing.Event, 10)}
	srv := remote.New(remote.Config{Name: "bench"}, sess)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return srv, sess, "ws" + strings.TrimPrefix(ts.URL, "http") + remote.Path
}

func connect(t *testing.T, url, id string) *Client {
	t.Helper()

	c := NewClient(Config{URL: url, ClientID: id, Name: "phone"})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, c.Connect(ctx))
	t.Cleanup(c.Close)
	return c
}

func nextUpdate(t *testing.T, c *Client) hearing.Snapshot {
	t.Helper()

	select {
	case snap := <-c.Updates:
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("no session update")
		return hearing.Snapshot{}
	}
}

func TestNewClient(t *testing.T) {
	c := NewClient(Config{URL: "ws://localhost:8928/hearcheck", ClientID: "test-client"})
	require.NotNil(t, c)
	assert.False(t, c.IsConnected())
	assert.Error(t, c.SendCommand("play", ""))
}

func TestConnectHandshake(t *testing.T) {
	_, _, url := startServer(t)
	c := connect(t, url, "c1")

	assert.True(t, c.IsConnected())
	assert.Equal(t, "bench", c.Server().Name)

	snap := nextUpdate(t, c)
	assert.Equal(t, "idle", snap.Status)
	assert.Equal(t, 5, snap.Total)
}

func TestSendCommand(t *testing.T) {
	_, sess, url := startServer(t)
	c := connect(t, url, "c1")
	nextUpdate(t, c)

	require.NoError(t, c.SendCommand("start", "ageband"))
	require.NoError(t, c.SendCommand("heard", ""))

	for _, want := range []hearing.Event{hearing.Start{Mode: hearing.ModeAgeBand}, hearing.Heard{}} {
		select {
		case ev := <-sess.sent:
			assert.Equal(t, want, ev)
		case <-time.After(2 * time.Second):
			t.Fatalf("command %#v not forwarded", want)
		}
	}
}

func TestServerError(t *testing.T) {
	_, _, url := startServer(t)
	c := connect(t, url, "c1")
	nextUpdate(t, c)

	require.NoError(t, c.SendCommand("louder", ""))

	select {
	case e := <-c.Errors:
		assert.Equal(t, "bad_command", e.Error)
	case <-time.After(2 * time.Second):
		t.Fatal("no server error")
	}
}

func TestBroadcastUpdate(t *testing.T) {
	srv, _, url := startServer(t)
	c := connect(t, url, "c1")
	nextUpdate(t, c)

	srv.Broadcast(hearing.Snapshot{Mode: "stereo", Status: "running", State: "awaiting-play"})

	snap := nextUpdate(t, c)
	assert.Equal(t, "stereo", snap.Mode)
	assert.Equal(t, "running", snap.Status)
}

func TestDuplicateIDRejected(t *testing.T) {
	_, _, url := startServer(t)
	connect(t, url, "same")

	c := NewClient(Config{URL: url, ClientID: "same", Name: "second"})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := c.Connect(ctx)
	require.Error(t, err)
	assert.False(t, c.IsConnected())
}

func TestCloseEndsConnection(t *testing.T) {
	_, _, url := startServer(t)
	c := connect(t, url, "c1")

	c.Close()
	c.Close()

	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatal("done not closed")
	}
	assert.False(t, c.IsConnected())
}
