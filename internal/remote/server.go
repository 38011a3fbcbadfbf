// ABOUTME: Websocket remote control server
// ABOUTME: Accepts session commands and broadcasts snapshots to clients
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/hearcheck/hearcheck-go/internal/version"
	"github.com/hearcheck/hearcheck-go/pkg/hearing"
)

// Path is the websocket endpoint
const Path = "/hearcheck"

// Session is the test session the server controls
type Session interface {
	Send(ev hearing.Event) bool
	Snapshot() hearing.Snapshot
}

// Config holds server settings
type Config struct {
	Addr  string
	Name  string
	Debug bool
}

// Server exposes a Session over websocket
type Server struct {
	config   Config
	serverID string
	session  Session

	upgrader websocket.Upgrader

	httpServer *http.Server
	mux        *http.ServeMux
	listener   net.Listener

	clients   map[string]*Client
	clientsMu sync.RWMutex

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// Client is a connected remote
type Client struct {
	ID   string
	Name string
	Conn *websocket.Conn

	sendChan chan interface{}
}

// New creates a server controlling session
func New(config Config, session Session) *Server {
	if config.Name == "" {
		config.Name = version.Product
	}

	s := &Server{
		config:   config,
		serverID: uuid.New().String(),
		session:  session,
		mux:      http.NewServeMux(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Remote control is meant for trusted local networks
				if origin := r.Header.Get("Origin"); origin != "" {
					log.Printf("Accepting WebSocket from origin: %s", origin)
				}
				return true
			},
		},
		clients:  make(map[string]*Client),
		stopChan: make(chan struct{}),
	}
	s.mux.HandleFunc(Path, s.handleWebSocket)
	return s
}

// Handler returns the HTTP handler serving the websocket endpoint
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Listen binds the configured address. Addr is valid afterwards.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr, err)
	}
	s.listener = ln
	return nil
}

// Addr returns the bound address, or nil before Listen
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Port returns the bound TCP port, or 0
func (s *Server) Port() int {
	if addr, ok := s.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return 0
}

// Serve runs the HTTP server until Stop is called
func (s *Server) Serve() error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	log.Printf("Remote control listening on %s%s (ID: %s)", s.listener.Addr(), Path, s.serverID)

	s.httpServer = &http.Server{Handler: s.mux}

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(s.listener); !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	var serveErr error
	select {
	case <-s.stopChan:
		log.Printf("Remote control shutting down...")
	case err := <-errChan:
		log.Printf("Remote control server error: %v", err)
		serveErr = err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Printf("Remote control shutdown error: %v", err)
	}

	s.closeClients()
	s.wg.Wait()

	if serveErr != nil {
		return fmt.Errorf("remote control server failed: %w", serveErr)
	}
	return nil
}

// Stop stops the server
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

// Broadcast sends a session/update to every client
func (s *Server) Broadcast(snap hearing.Snapshot) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for _, client := range s.clients {
		if err := s.sendMessage(client, TypeUpdate, snap); err != nil {
			log.Printf("Dropping update for %s: %v", client.Name, err)
		}
	}
}

// ClientCount returns the number of connected clients
func (s *Server) ClientCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	return len(s.clients)
}

func (s *Server) closeClients() {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for _, client := range s.clients {
		client.Conn.Close()
	}
}

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	log.Printf("New remote connection from %s", r.RemoteAddr)

	s.handleConnection(conn)
}

// handleConnection manages a client connection
func (s *Server) handleConnection(conn *websocket.Conn) {
	defer conn.Close()

	select {
	case <-s.stopChan:
		log.Printf("Rejecting connection during shutdown")
		return
	default:
	}

	hello, err := readHello(conn)
	if err != nil {
		log.Printf("Handshake failed: %v", err)
		writeError(conn, "bad_hello", err.Error())
		return
	}

	log.Printf("Remote hello: %s (ID: %s)", hello.Name, hello.ClientID)

	client := &Client{
		ID:       hello.ClientID,
		Name:     hello.Name,
		Conn:     conn,
		sendChan: make(chan interface{}, 100),
	}

	s.clientsMu.Lock()
	if existing, exists := s.clients[client.ID]; exists {
		s.clientsMu.Unlock()
		log.Printf("Client ID %s already connected (name: %s), rejecting duplicate", client.ID, existing.Name)
		writeError(conn, "duplicate_client_id", "Client ID already connected")
		return
	}
	s.clients[client.ID] = client
	s.clientsMu.Unlock()

	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, client.ID)
		close(client.sendChan)
		s.clientsMu.Unlock()
		log.Printf("Remote disconnected: %s", client.Name)
	}()

	s.sendMessage(client, TypeServerHello, ServerHello{
		ServerID: s.serverID,
		Name:     s.config.Name,
		Product:  version.String(),
		Version:  version.ProtocolVersion,
	})
	s.sendMessage(client, TypeUpdate, s.session.Snapshot())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.clientWriter(client)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}

		s.handleClientMessage(client, data)
	}
}

func readHello(conn *websocket.Conn) (ClientHello, error) {
	var hello ClientHello

	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		return hello, fmt.Errorf("failed to read hello: %w", err)
	}
	conn.SetReadDeadline(time.Time{})

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return hello, fmt.Errorf("failed to unmarshal message: %w", err)
	}
	if msg.Type != TypeClientHello {
		return hello, fmt.Errorf("expected %s, got %s", TypeClientHello, msg.Type)
	}
	if err := decodePayload(msg.Payload, &hello); err != nil {
		return hello, err
	}
	if hello.ClientID == "" {
		return hello, errors.New("client hello missing client_id")
	}
	if hello.Name == "" {
		hello.Name = hello.ClientID
	}
	return hello, nil
}

func writeError(conn *websocket.Conn, code, message string) {
	data, err := json.Marshal(Message{
		Type:    TypeError,
		Payload: ErrorPayload{Error: code, Message: message},
	})
	if err == nil {
		conn.WriteMessage(websocket.TextMessage, data)
	}
}

// clientWriter sends messages to the client
func (s *Server) clientWriter(client *Client) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	const writeDeadline = 10 * time.Second

	for {
		select {
		case msg, ok := <-client.sendChan:
			if !ok {
				return
			}

			data, err := json.Marshal(msg)
			if err != nil {
				log.Printf("Error marshaling message: %v", err)
				continue
			}
			client.Conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := client.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Printf("Error writing message: %v", err)
				return
			}

		case <-ticker.C:
			if err := client.Conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeDeadline)); err != nil {
				return
			}
		}
	}
}

// handleClientMessage processes messages from clients
func (s *Server) handleClientMessage(client *Client, data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("Error unmarshaling message: %v", err)
		return
	}

	switch msg.Type {
	case TypeCommand:
		s.handleCommand(client, msg.Payload)
	default:
		log.Printf("Unknown message type: %s", msg.Type)
		s.sendMessage(client, TypeError, ErrorPayload{Error: "unknown_type", Message: msg.Type})
	}
}

func (s *Server) handleCommand(client *Client, payload interface{}) {
	var cmd Command
	if err := decodePayload(payload, &cmd); err != nil {
		s.sendMessage(client, TypeError, ErrorPayload{Error: "bad_command", Message: err.Error()})
		return
	}

	mode := hearing.ModeManual
	if cmd.Mode != "" {
		m, err := hearing.ParseMode(cmd.Mode)
		if err != nil {
			s.sendMessage(client, TypeError, ErrorPayload{Error: "bad_mode", Message: err.Error()})
			return
		}
		mode = m
	}

	ev, err := hearing.ParseCommand(cmd.Command, mode)
	if err != nil {
		s.sendMessage(client, TypeError, ErrorPayload{Error: "bad_command", Message: err.Error()})
		return
	}

	if s.config.Debug {
		log.Printf("[DEBUG] %s: %s %s", client.Name, cmd.Command, cmd.Mode)
	}
	s.session.Send(ev)
}

// sendMessage queues a JSON message for a client
func (s *Server) sendMessage(client *Client, msgType string, payload interface{}) error {
	msg := Message{
		Type:    msgType,
		Payload: payload,
	}

	select {
	case client.sendChan <- msg:
		return nil
	default:
		return fmt.Errorf("client send buffer full")
	}
}
