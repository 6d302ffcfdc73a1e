package notification

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/sales"
	"github.com/storefront/backend/internal/domain/shared"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = 54 * time.Second
	maxMessageSize = 512
)

// Message is pushed to connected back-office clients when a sale
// changes state.
type Message struct {
	Type       string    `json:"type"`
	SaleID     string    `json:"saleId"`
	SaleNumber string    `json:"saleNumber"`
	Text       string    `json:"text"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Hub maintains websocket connections and broadcasts sale notifications.
// It implements shared.EventHandler and is wired to the event bus.
type Hub struct {
	mu          sync.RWMutex
	connections map[*websocket.Conn]bool
	upgrader    websocket.Upgrader
	logger      *zap.Logger
}

// NewHub creates a notification hub
func NewHub(logger *zap.Logger, allowedOrigins []string) *Hub {
	originSet := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		originSet[origin] = true
	}

	return &Hub{
		connections: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(originSet) == 0 {
					return true
				}
				return originSet[r.Header.Get("Origin")]
			},
		},
		logger: logger.Named("notification"),
	}
}

// HandleWS upgrades the request to a websocket connection and keeps it
// registered until the client disconnects.
func (h *Hub) HandleWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.mu.Lock()
	h.connections[conn] = true
	h.mu.Unlock()

	h.logger.Debug("client connected", zap.Int("connections", h.ConnectionCount()))

	go h.readLoop(conn)
}

func (h *Hub) readLoop(conn *websocket.Conn) {
	defer h.drop(conn)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			// Clients only listen; messages are drained to service pongs
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.connections, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

// Broadcast sends a message to every connected client. Connections
// that fail to write are dropped.
func (h *Hub) Broadcast(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.connections {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg); err != nil {
			delete(h.connections, conn)
			_ = conn.Close()
		}
	}
}

// ConnectionCount returns the number of connected clients
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// Close disconnects all clients
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.connections {
		_ = conn.Close()
		delete(h.connections, conn)
	}
}

// Handle implements shared.EventHandler, mapping sale events to
// client notifications.
func (h *Hub) Handle(_ context.Context, event shared.DomainEvent) error {
	msg := Message{
		Type:       event.EventType(),
		SaleID:     event.AggregateID().String(),
		OccurredAt: event.OccurredAt(),
	}

	switch e := event.(type) {
	case *sales.SaleCreatedEvent:
		msg.SaleNumber = e.SaleNumber
		msg.Text = "Sale " + e.SaleNumber + " recorded"
	case *sales.SaleApprovedEvent:
		msg.SaleNumber = e.SaleNumber
		msg.Text = "Sale " + e.SaleNumber + " approved for delivery"
	case *sales.SalePartiallyDeliveredEvent:
		msg.SaleNumber = e.SaleNumber
		msg.Text = "Sale " + e.SaleNumber + " partially delivered"
	case *sales.SaleDeliveredEvent:
		msg.SaleNumber = e.SaleNumber
		msg.Text = "Sale " + e.SaleNumber + " fully delivered"
	case *sales.SaleCancelledEvent:
		msg.SaleNumber = e.SaleNumber
		msg.Text = "Sale " + e.SaleNumber + " cancelled"
	default:
		return nil
	}

	h.Broadcast(msg)
	return nil
}

// EventTypes returns the sale events the hub pushes to clients
func (h *Hub) EventTypes() []string {
	return []string{
		sales.EventTypeSaleCreated,
		sales.EventTypeSaleApproved,
		sales.EventTypeSalePartiallyDelivered,
		sales.EventTypeSaleDelivered,
		sales.EventTypeSaleCancelled,
	}
}

var _ shared.EventHandler = (*Hub)(nil)
