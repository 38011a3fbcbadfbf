// ABOUTME: WebSocket client for the hearcheck remote control
// ABOUTME: Handles connection, handshake, commands and session updates
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hearcheck/hearcheck-go/internal/remote"
	"github.com/hearcheck/hearcheck-go/internal/version"
	"github.com/hearcheck/hearcheck-go/pkg/hearing"
)

// handshakeTimeout bounds the wait for server/hello
const handshakeTimeout = 5 * time.Second

// Config holds client configuration
type Config struct {
	URL      string
	ClientID string
	Name     string
}

// Client is a remote control connection to a running test
type Client struct {
	config Config
	conn   *websocket.Conn
	mu     sync.Mutex
	wmu    sync.Mutex

	// Message channels
	Updates chan hearing.Snapshot
	Errors  chan remote.ErrorPayload

	server    remote.ServerHello
	connected bool
	ctx       context.Context
	cancel    context.CancelFunc
}

// envelope keeps the payload raw until the type is known
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// NewClient creates a new WebSocket client
func NewClient(config Config) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		config:  config,
		Updates: make(chan hearing.Snapshot, 16),
		Errors:  make(chan remote.ErrorPayload, 4),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Connect dials the server and performs the handshake
func (c *Client) Connect(ctx context.Context) error {
	log.Printf("Connecting to %s", c.config.URL)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.config.URL, nil)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	if err := c.handshake(); err != nil {
		c.Close()
		return fmt.Errorf("handshake failed: %w", err)
	}

	go c.readMessages()

	return nil
}

func (c *Client) handshake() error {
	hello := remote.ClientHello{
		ClientID: c.config.ClientID,
		Name:     c.config.Name,
		Version:  version.ProtocolVersion,
	}
	if err := c.send(remote.TypeClientHello, hello); err != nil {
		return fmt.Errorf("failed to send client/hello: %w", err)
	}

	c.conn.SetReadDeadline(time.Now().Add(handshakeTimeout))
	env, err := c.read()
	if err != nil {
		return fmt.Errorf("failed to read server/hello: %w", err)
	}
	c.conn.SetReadDeadline(time.Time{})

	switch env.Type {
	case remote.TypeServerHello:
	case remote.TypeError:
		var e remote.ErrorPayload
		_ = json.Unmarshal(env.Payload, &e)
		return fmt.Errorf("rejected: %s", e.Message)
	default:
		return fmt.Errorf("expected server/hello, got %s", env.Type)
	}

	var server remote.ServerHello
	if err := json.Unmarshal(env.Payload, &server); err != nil {
		return fmt.Errorf("failed to parse server/hello: %w", err)
	}
	c.mu.Lock()
	c.server = server
	c.mu.Unlock()

	log.Printf("Handshake complete with %s (%s)", server.Name, server.Product)
	return nil
}

// Server returns the server/hello received during the handshake
func (c *Client) Server() remote.ServerHello {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.server
}

func (c *Client) read() (envelope, error) {
	var env envelope
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return env, err
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return env, fmt.Errorf("invalid message: %w", err)
	}
	return env, nil
}

func (c *Client) send(msgType string, payload interface{}) error {
	c.mu.Lock()
	connected := c.connected
	c.mu.Unlock()
	if !connected {
		return fmt.Errorf("not connected")
	}

	c.wmu.Lock()
	defer c.wmu.Unlock()
	return c.conn.WriteJSON(remote.Message{Type: msgType, Payload: payload})
}

// readMessages reads and routes incoming messages
func (c *Client) readMessages() {
	defer c.Close()

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		env, err := c.read()
		if err != nil {
			if c.IsConnected() {
				log.Printf("Read error: %v", err)
			}
			return
		}
		c.handleMessage(env)
	}
}

func (c *Client) handleMessage(env envelope) {
	switch env.Type {
	case remote.TypeUpdate:
		var snap hearing.Snapshot
		if err := json.Unmarshal(env.Payload, &snap); err != nil {
			log.Printf("Failed to parse session update: %v", err)
			return
		}
		c.deliver(snap)

	case remote.TypeError:
		var e remote.ErrorPayload
		if err := json.Unmarshal(env.Payload, &e); err != nil {
			log.Printf("Failed to parse server error: %v", err)
			return
		}
		select {
		case c.Errors <- e:
		default:
			log.Printf("Server error dropped: %s", e.Message)
		}

	default:
		log.Printf("Unknown message type: %s", env.Type)
	}
}

// deliver queues snap, dropping the oldest update when the reader lags
func (c *Client) deliver(snap hearing.Snapshot) {
	for {
		select {
		case c.Updates <- snap:
			return
		case <-c.ctx.Done():
			return
		default:
		}
		select {
		case <-c.Updates:
		default:
		}
	}
}

// SendCommand sends a session/command. mode is only used by start.
func (c *Client) SendCommand(command, mode string) error {
	return c.send(remote.TypeCommand, remote.Command{Command: command, Mode: mode})
}

// Done is closed when the connection ends
func (c *Client) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Close closes the connection
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		c.connected = false
		c.cancel()
		c.conn.Close()
		log.Printf("Connection closed")
	}
}

// IsConnected returns connection status
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}
