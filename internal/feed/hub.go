package feed

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"burgerstock/internal/fulfillment"
	"burgerstock/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4 * 1024
	sendBuffer     = 32
)

// Event types pushed to subscribers.
const (
	EventSnapshot = "snapshot"
	EventOrder    = "order"
	EventRestock  = "restock"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The cashier TUI and local dashboards connect from arbitrary origins.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Event is one message on the stock feed.
type Event struct {
	Type  string              `json:"type"`
	Items []models.StockItem  `json:"items"`
	Order *models.OrderRecord `json:"order,omitempty"`
	At    time.Time           `json:"at"`
}

// SnapshotFunc loads the full stock list sent to a subscriber on connect.
type SnapshotFunc func(ctx context.Context) ([]models.StockItem, error)

// Hub fans stock changes out to websocket subscribers. A single goroutine
// started by Run owns the client set.
type Hub struct {
	log      *slog.Logger
	snapshot SnapshotFunc

	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	done       chan struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a hub. snapshot may be nil.
func NewHub(log *slog.Logger, snapshot SnapshotFunc) *Hub {
	return &Hub{
		log:        log,
		snapshot:   snapshot,
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
	}
}

// Run serves the hub until ctx is cancelled, then closes every subscriber.
func (h *Hub) Run(ctx context.Context) {
	clients := make(map[*client]bool)
	defer func() {
		close(h.done)
		for c := range clients {
			close(c.send)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			clients[c] = true
			h.log.Debug("stock feed subscriber joined", "subscribers", len(clients))
		case c := <-h.unregister:
			if clients[c] {
				delete(clients, c)
				close(c.send)
				h.log.Debug("stock feed subscriber left", "subscribers", len(clients))
			}
		case msg := <-h.broadcast:
			for c := range clients {
				select {
				case c.send <- msg:
				default:
					// Slow subscriber; drop it rather than stall the feed.
					delete(clients, c)
					close(c.send)
					h.log.Warn("dropping slow stock feed subscriber")
				}
			}
		}
	}
}

// Publish queues ev for every subscriber without blocking the caller.
func (h *Hub) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("failed to encode stock feed event", "error", err)
		return
	}

	select {
	case h.broadcast <- data:
	case <-h.done:
	default:
		h.log.Warn("stock feed buffer full, dropping event", "type", ev.Type)
	}
}

// OrderProcessed implements fulfillment.Observer. Only committed orders are published.
func (h *Hub) OrderProcessed(o fulfillment.Outcome) {
	if o.Err != nil || o.Receipt == nil {
		return
	}
	h.Publish(Event{Type: EventOrder, Items: o.Receipt.Stock, Order: o.Receipt.Record})
}

// StockRestocked implements fulfillment.Observer.
func (h *Hub) StockRestocked(item models.StockItem, _ decimal.Decimal) {
	h.Publish(Event{Type: EventRestock, Items: []models.StockItem{item}})
}

// ServeWS upgrades the request and subscribes the connection to the feed.
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("failed to upgrade stock feed connection", "error", err)
		return
	}

	cl := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	if h.snapshot != nil {
		items, err := h.snapshot(c.Request.Context())
		if err != nil {
			h.log.Error("failed to load stock snapshot", "error", err)
		} else if data, err := json.Marshal(Event{Type: EventSnapshot, Items: items, At: time.Now().UTC()}); err == nil {
			cl.send <- data
		}
	}

	select {
	case h.register <- cl:
	case <-h.done:
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"), time.Now().Add(writeWait))
		conn.Close()
		return
	}

	go cl.writePump()
	h.readPump(cl)
}

// readPump discards client messages and detects disconnects.
func (h *Hub) readPump(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.log.Warn("stock feed read error", "error", err)
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
