package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"eden/simulation"

	"github.com/gorilla/websocket"
)

// MaxStepsPerCommand bounds how many steps a single command may request
const MaxStepsPerCommand = 1000

// Command is a control message sent by a client over the websocket
type Command struct {
	TimeStepSize *float64      `json:"timeStepSize,omitempty"`
	RaiseCell    *RaiseCommand `json:"raiseCell,omitempty"`
	FastForward  bool          `json:"fastForward,omitempty"`
	SlowDown     bool          `json:"slowDown,omitempty"`
	Paused       *bool         `json:"paused,omitempty"`
	Step         int           `json:"step,omitempty"`
}

// RaiseCommand raises the terrain around one cell
type RaiseCommand struct {
	ID     int     `json:"id"`
	Height float64 `json:"height"`
}

// Reply acknowledges a command
type Reply struct {
	Type         string  `json:"type"`
	TimeStepSize float64 `json:"timeStepSize"`
	Paused       bool    `json:"paused"`
	Error        string  `json:"error,omitempty"`
}

// Server streams world snapshots to websocket clients and applies their commands
type Server struct {
	runner   *simulation.Runner
	addr     string
	interval time.Duration
	log      *slog.Logger

	upgrader websocket.Upgrader

	clientsMu sync.RWMutex
	clients   map[*websocket.Conn]*sync.Mutex
}

// New creates a server for the runner listening on port
func New(runner *simulation.Runner, port int, interval time.Duration, logger *slog.Logger) *Server {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		runner:   runner,
		addr:     fmt.Sprintf(":%d", port),
		interval: interval,
		log:      logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins for development
			},
		},
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
}

// Handler returns the HTTP routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/state", s.handleState)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// Run serves until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go s.broadcastLoop(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.closeClients()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.runner.Snapshot()); err != nil {
		s.log.Error("state encode error", "error", err)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade error", "error", err)
		return
	}
	defer conn.Close()

	connMutex := &sync.Mutex{}
	s.clientsMu.Lock()
	s.clients[conn] = connMutex
	s.clientsMu.Unlock()
	defer s.removeClient(conn)

	// Send initial state
	s.send(conn, connMutex, s.runner.Snapshot())

	// Handle incoming messages (speed controls, terrain edits)
	for {
		var cmd Command
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("websocket read error", "error", err)
			}
			return
		}
		s.send(conn, connMutex, s.Apply(cmd))
	}
}

// Apply executes a client command against the runner
func (s *Server) Apply(cmd Command) Reply {
	reply := Reply{Type: "ack"}
	if cmd.TimeStepSize != nil {
		s.runner.SetTimeStep(*cmd.TimeStepSize)
	}
	if cmd.FastForward {
		s.runner.FastForward()
	}
	if cmd.SlowDown {
		s.runner.SlowDown()
	}
	if cmd.Paused != nil {
		s.runner.SetPaused(*cmd.Paused)
	}
	if cmd.RaiseCell != nil {
		if err := s.runner.RaiseCell(cmd.RaiseCell.ID, cmd.RaiseCell.Height); err != nil {
			reply.Type = "error"
			reply.Error = err.Error()
		}
	}
	if cmd.Step > MaxStepsPerCommand {
		reply.Type = "error"
		reply.Error = fmt.Sprintf("step count %d exceeds limit of %d", cmd.Step, MaxStepsPerCommand)
	} else {
		for i := 0; i < cmd.Step; i++ {
			s.runner.Step()
		}
	}
	reply.TimeStepSize = s.runner.TimeStep()
	reply.Paused = s.runner.Paused()
	return reply
}

func (s *Server) send(conn *websocket.Conn, mutex *sync.Mutex, v any) {
	mutex.Lock()
	defer mutex.Unlock()
	if err := conn.WriteJSON(v); err != nil {
		s.log.Warn("websocket write error", "error", err)
	}
}

func (s *Server) broadcastLoop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.broadcast()
		}
	}
}

// broadcast sends the current snapshot to every client and drops the ones that fail
func (s *Server) broadcast() {
	s.clientsMu.RLock()
	if len(s.clients) == 0 {
		s.clientsMu.RUnlock()
		return
	}
	snapshot := s.runner.Snapshot()
	clientsToRemove := []*websocket.Conn{}
	for client, mutex := range s.clients {
		mutex.Lock()
		err := client.WriteJSON(snapshot)
		mutex.Unlock()
		if err != nil {
			s.log.Warn("websocket write error", "error", err)
			client.Close()
			clientsToRemove = append(clientsToRemove, client)
		}
	}
	s.clientsMu.RUnlock()

	for _, client := range clientsToRemove {
		s.removeClient(client)
	}
}

func (s *Server) removeClient(conn *websocket.Conn) {
	s.clientsMu.Lock()
	delete(s.clients, conn)
	s.clientsMu.Unlock()
}

func (s *Server) closeClients() {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for client := range s.clients {
		client.Close()
		delete(s.clients, client)
	}
}

// ClientCount returns the number of connected websocket clients
func (s *Server) ClientCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}
