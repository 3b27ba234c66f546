package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	catalog "github.com/dwikikusuma/ec-training/internal/catalog/domain"
	order "github.com/dwikikusuma/ec-training/internal/order/domain"
)

const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	clientBufferSize = 16
)

type StockLevel struct {
	ProductID int64          `json:"product_id"`
	Stock     int            `json:"stock"`
	Status    catalog.Status `json:"status"`
}

type StockEvent struct {
	Type     string       `json:"type"`
	OrderID  string       `json:"order_id"`
	Products []StockLevel `json:"products"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// Hub pushes stock changes to every connected websocket subscriber. Slow
// subscribers miss messages rather than block the broadcaster.
type Hub struct {
	log *slog.Logger

	mu      sync.RWMutex
	clients map[*websocket.Conn]*client

	broadcast  chan []byte
	register   chan *client
	unregister chan *websocket.Conn
	done       chan struct{}

	upgrader websocket.Upgrader
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		log:        log,
		clients:    make(map[*websocket.Conn]*client),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *client),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Run owns the subscriber registry until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.conn] = c
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if c, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				c.close()
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			for _, c := range h.clients {
				select {
				case c.send <- msg:
				default:
				}
			}
			h.mu.RUnlock()

		case <-ctx.Done():
			h.mu.Lock()
			for conn, c := range h.clients {
				delete(h.clients, conn)
				c.close()
			}
			h.mu.Unlock()
			close(h.done)
			return
		}
	}
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Broadcast(v any) {
	msg, err := json.Marshal(v)
	if err != nil {
		h.log.Error("failed to encode event", slog.Any("err", err))
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn("event dropped, broadcast queue full")
	}
}

// OrderPlaced publishes the new stock of the products an order touched.
func (h *Hub) OrderPlaced(_ context.Context, o order.Order, products []catalog.Product) {
	ev := StockEvent{Type: "stock", OrderID: o.ID, Products: make([]StockLevel, 0, len(products))}
	for _, p := range products {
		ev.Products = append(ev.Products, StockLevel{ProductID: p.ID, Stock: p.Stock, Status: p.Status})
	}
	h.Broadcast(ev)
}

func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", slog.Any("err", err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientBufferSize)}
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) readPump(c *client) {
	defer func() {
		select {
		case h.unregister <- c.conn:
		case <-h.done:
		}
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Debug("websocket read error", slog.Any("err", err))
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
