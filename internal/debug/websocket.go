package debug

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

// client is the part of *websocket.Conn the hub needs.
type client interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// WebSocketHub maneja las conexiones WebSocket del dashboard de debugging
type WebSocketHub struct {
	clients    map[client]bool
	broadcast  chan []byte
	register   chan client
	unregister chan client
	mu         sync.RWMutex
}

var (
	Hub = newHub()
)

func init() {
	go Hub.run()
}

func newHub() *WebSocketHub {
	return &WebSocketHub{
		broadcast:  make(chan []byte, 256),
		register:   make(chan client),
		unregister: make(chan client),
		clients:    make(map[client]bool),
	}
}

func (h *WebSocketHub) run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			n := len(h.clients)
			h.mu.Unlock()
			log.Printf("🔌 Dashboard conectado. Total clientes: %d", n)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				c.Close()
			}
			n := len(h.clients)
			h.mu.Unlock()
			log.Printf("🔌 Dashboard desconectado. Total clientes: %d", n)

		case message := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				if err := c.WriteMessage(websocket.TextMessage, message); err != nil {
					log.Printf("Error enviando mensaje al dashboard: %v", err)
					c.Close()
					delete(h.clients, c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// ClientCount returns the number of connected dashboards.
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// send encodes msg and queues it for every client. Dropped when nobody
// listens or the queue is full.
func (h *WebSocketHub) send(msg any) {
	if h.ClientCount() == 0 {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error al serializar mensaje para dashboard: %v", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		// Canal lleno, saltar mensaje
	}
}

// HandleWebSocketFiber maneja las conexiones WebSocket de Fiber
func HandleWebSocketFiber(conn *websocket.Conn) {
	Hub.register <- conn
	defer func() {
		Hub.unregister <- conn
	}()

	// Leer mensajes del cliente hasta que se desconecte
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// LogMessage representa un mensaje de log para el dashboard
type LogMessage struct {
	Type     string         `json:"type"`
	Source   string         `json:"source"`
	Level    string         `json:"level"`
	Message  string         `json:"message"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Time     int64          `json:"time"`
}

// SendLog envía un log al dashboard
func SendLog(source, level, message string, metadata map[string]any) {
	Hub.send(LogMessage{
		Type:     "log",
		Source:   source,
		Level:    level,
		Message:  message,
		Metadata: metadata,
		Time:     time.Now().UnixMilli(),
	})
}

// CrawlProgress is one step of a running crawl.
type CrawlProgress struct {
	RunID   string `json:"runId"`
	Stage   string `json:"stage"` // codes, routes, stops, done, failed
	Code    string `json:"code,omitempty"`
	Route   string `json:"route,omitempty"`
	Codes   int    `json:"codes"`
	Routes  int    `json:"routes"`
	Stops   int    `json:"stops"`
	Error   string `json:"error,omitempty"`
	Elapsed int64  `json:"elapsedMs"`
}

type crawlProgressMessage struct {
	Type     string        `json:"type"`
	Progress CrawlProgress `json:"progress"`
}

// SendCrawlProgress envía el avance del crawl al dashboard
func SendCrawlProgress(p CrawlProgress) {
	Hub.send(crawlProgressMessage{Type: "crawl_progress", Progress: p})
}

// ApiStatus representa el estado del servicio
type ApiStatus struct {
	Backend struct {
		Status  string `json:"status"`
		Uptime  int64  `json:"uptime"`
		Version string `json:"version"`
	} `json:"backend"`
	Store struct {
		Status    string `json:"status"`
		Driver    string `json:"driver"`
		Documents int    `json:"documents"`
	} `json:"store"`
}

type apiStatusMessage struct {
	Type   string    `json:"type"`
	Status ApiStatus `json:"status"`
}

var startTime = time.Now()

// SendApiStatus envía el estado del servicio al dashboard
func SendApiStatus(status ApiStatus) {
	status.Backend.Uptime = int64(time.Since(startTime).Seconds())
	Hub.send(apiStatusMessage{Type: "api_status", Status: status})
}
