package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/doxnav/doxnav-mcp/service"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// SSEEvent represents an SSE event structure
type SSEEvent struct {
	ID        string      `json:"id"`
	Event     string      `json:"event"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// SSEClient represents a connected SSE client. The mutex serializes
// frame writes: the broadcast loop and the per-connection keepalive
// goroutine both write to the same ResponseWriter.
type SSEClient struct {
	ID      string
	Writer  http.ResponseWriter
	Flusher http.Flusher
	Done    chan struct{}

	mu       sync.Mutex
	LastSeen time.Time
}

// MCPSSEServer wraps the MCP server with SSE capabilities
type MCPSSEServer struct {
	logger       *zap.Logger
	mcpServer    *server.MCPServer
	service      service.Service
	clients      map[string]*SSEClient
	clientsMutex sync.RWMutex
	broadcast    chan SSEEvent
	nextClientID int
}

// SSEServerConfig holds configuration for the SSE server
type SSEServerConfig struct {
	KeepaliveInterval time.Duration
	BufferSize        int
	ClientTimeout     time.Duration
}

// DefaultSSEServerConfig returns the default configuration for SSE server
func DefaultSSEServerConfig() *SSEServerConfig {
	return &SSEServerConfig{
		KeepaliveInterval: 30 * time.Second,
		BufferSize:        100,
		ClientTimeout:     60 * time.Second,
	}
}

// NewMCPSSEServer creates a new MCP SSE server
func NewMCPSSEServer(logger *zap.Logger, mcpServer *server.MCPServer, serviceInstance service.Service, config *SSEServerConfig) *MCPSSEServer {
	if config == nil {
		config = DefaultSSEServerConfig()
	}
	sseServer := &MCPSSEServer{
		logger:    logger,
		mcpServer: mcpServer,
		service:   serviceInstance,
		clients:   make(map[string]*SSEClient),
		broadcast: make(chan SSEEvent, config.BufferSize),
	}

	go sseServer.broadcastLoop()

	return sseServer
}

func newEvent(kind string, data interface{}) SSEEvent {
	return SSEEvent{
		ID:        fmt.Sprintf("%s_%d", kind, time.Now().UnixNano()),
		Event:     kind,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// writeEvent writes one SSE frame and flushes it.
func writeEvent(w http.ResponseWriter, flusher http.Flusher, event SSEEvent) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	fmt.Fprintf(w, "id: %s\n", event.ID)
	fmt.Fprintf(w, "event: %s\n", event.Event)
	fmt.Fprintf(w, "data: %s\n\n", string(eventJSON))
	flusher.Flush()
	return nil
}

func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// broadcastLoop handles broadcasting events to all connected clients
func (s *MCPSSEServer) broadcastLoop() {
	for event := range s.broadcast {
		s.clientsMutex.RLock()
		clients := make([]*SSEClient, 0, len(s.clients))
		for _, client := range s.clients {
			clients = append(clients, client)
		}
		s.clientsMutex.RUnlock()

		for _, client := range clients {
			select {
			case <-client.Done:
				s.removeClient(client.ID)
			default:
				if err := s.sendEventToClient(client, event); err != nil {
					s.logger.Error("failed to send event to client", zap.String("clientID", client.ID), zap.Error(err))
					s.removeClient(client.ID)
				}
			}
		}
	}
}

func (s *MCPSSEServer) sendEventToClient(client *SSEClient, event SSEEvent) error {
	client.mu.Lock()
	defer client.mu.Unlock()
	if err := writeEvent(client.Writer, client.Flusher, event); err != nil {
		return err
	}
	client.LastSeen = time.Now()
	return nil
}

// addClient adds a new SSE client
func (s *MCPSSEServer) addClient(w http.ResponseWriter, r *http.Request) *SSEClient {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return nil
	}

	s.clientsMutex.Lock()
	s.nextClientID++
	clientID := fmt.Sprintf("client_%d_%d", time.Now().Unix(), s.nextClientID)
	client := &SSEClient{
		ID:       clientID,
		Writer:   w,
		Flusher:  flusher,
		Done:     make(chan struct{}),
		LastSeen: time.Now(),
	}
	s.clients[clientID] = client
	s.clientsMutex.Unlock()

	connectEvent := newEvent("connected", map[string]string{
		"clientID": clientID,
		"message":  "Connected to doxnav SSE server",
	})
	if err := s.sendEventToClient(client, connectEvent); err != nil {
		s.logger.Error("failed to send connection event", zap.String("clientID", clientID), zap.Error(err))
		s.removeClient(clientID)
		return nil
	}

	s.logger.Info("SSE client connected", zap.String("clientID", clientID))
	return client
}

// removeClient removes a client from the server
func (s *MCPSSEServer) removeClient(clientID string) {
	s.clientsMutex.Lock()
	defer s.clientsMutex.Unlock()

	if client, exists := s.clients[clientID]; exists {
		close(client.Done)
		delete(s.clients, clientID)
		s.logger.Info("SSE client disconnected", zap.String("clientID", clientID))
	}
}

// BroadcastEvent sends an event to all connected clients, dropping it
// when the buffer is full.
func (s *MCPSSEServer) BroadcastEvent(event SSEEvent) {
	select {
	case s.broadcast <- event:
	default:
		s.logger.Warn("broadcast channel full, dropping event", zap.String("eventID", event.ID))
	}
}

// HandleSSE handles SSE client connections
func (s *MCPSSEServer) HandleSSE(w http.ResponseWriter, r *http.Request) {
	setSSEHeaders(w)
	w.Header().Set("Access-Control-Allow-Headers", "Cache-Control")

	client := s.addClient(w, r)
	if client == nil {
		return
	}

	ctx := r.Context()
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.removeClient(client.ID)
				return
			case <-client.Done:
				return
			case <-ticker.C:
				keepalive := newEvent("keepalive", map[string]interface{}{"timestamp": time.Now()})
				if err := s.sendEventToClient(client, keepalive); err != nil {
					s.removeClient(client.ID)
					return
				}
			}
		}
	}()

	<-client.Done
}

// runRequestSSE streams start / result-or-error events for one request.
func runRequestSSE(w http.ResponseWriter, kind string, startData interface{}, run func(ctx context.Context) (interface{}, error)) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}
	setSSEHeaders(w)

	_ = writeEvent(w, flusher, newEvent(kind+"_start", startData))

	result, err := run(context.Background())
	if err != nil {
		_ = writeEvent(w, flusher, newEvent(kind+"_error", map[string]string{"error": err.Error()}))
		return
	}
	_ = writeEvent(w, flusher, newEvent(kind+"_result", result))
	_ = writeEvent(w, flusher, newEvent(kind+"_complete", map[string]string{"status": "completed"}))
}

// HandleSearchSSE handles symbol search requests via SSE
func (s *MCPSSEServer) HandleSearchSSE(w http.ResponseWriter, r *http.Request) {
	if s.service == nil {
		http.Error(w, "Index service not available", http.StatusServiceUnavailable)
		return
	}

	var request struct {
		Query string `json:"query"`
		Limit int    `json:"limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if request.Query == "" {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}

	runRequestSSE(w, "search", map[string]string{"query": request.Query}, func(ctx context.Context) (interface{}, error) {
		hits, err := s.service.SearchSymbols(ctx, request.Query, request.Limit)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"hits": hits}, nil
	})
}

// HandlePageSSE handles page requests via SSE
func (s *MCPSSEServer) HandlePageSSE(w http.ResponseWriter, r *http.Request) {
	if s.service == nil {
		http.Error(w, "Index service not available", http.StatusServiceUnavailable)
		return
	}

	var request struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if request.Path == "" {
		http.Error(w, "path is required", http.StatusBadRequest)
		return
	}

	runRequestSSE(w, "page", map[string]string{"path": request.Path}, func(ctx context.Context) (interface{}, error) {
		page, err := s.service.GetPage(ctx, request.Path)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"page": page}, nil
	})
}

// GetConnectedClients returns information about connected clients
func (s *MCPSSEServer) GetConnectedClients() []map[string]interface{} {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()

	clients := make([]map[string]interface{}, 0, len(s.clients))
	for _, client := range s.clients {
		client.mu.Lock()
		lastSeen := client.LastSeen
		client.mu.Unlock()
		clients = append(clients, map[string]interface{}{
			"id":        client.ID,
			"lastSeen":  lastSeen,
			"connected": time.Since(lastSeen) < 60*time.Second,
		})
	}
	return clients
}

// GetStats returns server statistics
func (s *MCPSSEServer) GetStats() map[string]interface{} {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()

	return map[string]interface{}{
		"connectedClients": len(s.clients),
		"bufferSize":       len(s.broadcast),
		"serverVersion":    Version,
	}
}
