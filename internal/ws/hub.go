package ws

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Message types pushed to live channel subscribers.
const (
	TypeInventoryUpdate = "inventory_update"
	TypeSaleCreated     = "sale_created"
	TypeBackupCreated   = "backup_created"
)

// Message is the envelope of every frame on the live channel.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
	logger     *zap.Logger
	quit       chan struct{}
	stopOnce   sync.Once
	// pubMu keeps Broadcast in Publish call order.
	pubMu sync.Mutex
}

const broadcastBuffer = 256

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte, broadcastBuffer),
		logger:     logger,
		quit:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			n := len(h.Clients)
			h.mutex.Unlock()
			h.logger.Debug("live client connected", zap.Int("clients", n))

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					h.logger.Warn("dropping live client", zap.Error(err))
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()

		case <-h.quit:
			h.mutex.Lock()
			for conn := range h.Clients {
				conn.Close()
				delete(h.Clients, conn)
			}
			h.mutex.Unlock()
			return
		}
	}
}

// Stop ends Run and closes every connection.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.quit) })
}

// Join registers conn; it returns false once the hub has stopped.
func (h *Hub) Join(conn *websocket.Conn) bool {
	select {
	case h.Register <- conn:
		return true
	case <-h.quit:
		return false
	}
}

func (h *Hub) Leave(conn *websocket.Conn) {
	select {
	case h.Unregister <- conn:
	case <-h.quit:
		conn.Close()
	}
}

// Encode wraps data in a typed envelope.
func Encode(msgType string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: msgType, Data: raw})
}

// Publish queues a broadcast. Messages reach Run in the order Publish was
// called; the caller only blocks while the queue is full. A nil hub is a no-op.
func (h *Hub) Publish(msgType string, data interface{}) {
	if h == nil {
		return
	}
	msg, err := Encode(msgType, data)
	if err != nil {
		h.logger.Error("failed to encode live message", zap.String("type", msgType), zap.Error(err))
		return
	}
	h.pubMu.Lock()
	defer h.pubMu.Unlock()
	select {
	case h.Broadcast <- msg:
	case <-h.quit:
	}
}

// SendTo writes to a single connection, serialized with broadcasts.
func (h *Hub) SendTo(conn *websocket.Conn, msg []byte) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return conn.WriteMessage(websocket.TextMessage, msg)
}
