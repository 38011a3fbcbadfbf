// ABOUTME: Remote control message type definitions
// ABOUTME: JSON envelopes for the websocket handshake, commands and updates
package remote

import (
	"encoding/json"
	"fmt"
)

// Message types
const (
	TypeClientHello = "client/hello"
	TypeServerHello = "server/hello"
	TypeCommand     = "session/command"
	TypeUpdate      = "session/update"
	TypeError       = "server/error"
)

// Message is the top-level wrapper for all messages
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// ClientHello is sent by clients to initiate the handshake
type ClientHello struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
	Version  int    `json:"version"`
}

// ServerHello is the server's response to client/hello
type ServerHello struct {
	ServerID string `json:"server_id"`
	Name     string `json:"name"`
	Product  string `json:"product"`
	Version  int    `json:"version"`
}

// Command is a user command sent by a remote client. Mode is used by start.
type Command struct {
	Command string `json:"command"`
	Mode    string `json:"mode,omitempty"`
}

// ErrorPayload reports a rejected message
type ErrorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// decodePayload re-decodes a generic payload into v
func decodePayload(payload interface{}, v interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return nil
}
