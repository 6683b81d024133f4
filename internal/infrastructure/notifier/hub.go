package notifier

import (
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/janhq/jan-crm/internal/domain/notify"
	"github.com/janhq/jan-crm/internal/infrastructure/metrics"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 32
)

// Hub tracks the live websocket clients of each session.
type Hub struct {
	upgrader websocket.Upgrader
	log      zerolog.Logger

	mu      sync.RWMutex
	clients map[string]map[*wsClient]struct{}
}

type wsClient struct {
	hub  *Hub
	key  string
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

// NewHub creates a hub. Upgrades from browsers are accepted only from
// allowedOrigins; requests without an Origin header are always accepted.
func NewHub(allowedOrigins []string, log zerolog.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
			},
		},
		log:     log.With().Str("component", "notification-hub").Logger(),
		clients: make(map[string]map[*wsClient]struct{}),
	}
}

// Serve upgrades the request and streams notifications for key until the
// client goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, key string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &wsClient{hub: h, key: key, conn: conn, send: make(chan []byte, sendBuffer)}
	h.add(c)
	go c.writePump()
	c.readPump()
	return nil
}

func (h *Hub) add(c *wsClient) {
	h.mu.Lock()
	if h.clients[c.key] == nil {
		h.clients[c.key] = make(map[*wsClient]struct{})
	}
	h.clients[c.key][c] = struct{}{}
	h.mu.Unlock()
	metrics.LiveClients.Inc()
	h.log.Debug().Msg("websocket client connected")
}

func (h *Hub) remove(c *wsClient) {
	h.mu.Lock()
	conns, ok := h.clients[c.key]
	_, present := conns[c]
	if ok && present {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.clients, c.key)
		}
	}
	h.mu.Unlock()
	if present {
		metrics.LiveClients.Dec()
		h.log.Debug().Msg("websocket client disconnected")
	}
}

// Publish queues n for every client of key. A client whose buffer is full is
// disconnected.
func (h *Hub) Publish(key string, n notify.Notification) int {
	data, err := json.Marshal(n)
	if err != nil {
		h.log.Error().Err(err).Msg("encode notification")
		return 0
	}

	h.mu.RLock()
	var slow []*wsClient
	delivered := 0
	for c := range h.clients[key] {
		select {
		case c.send <- data:
			delivered++
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.log.Warn().Msg("dropping slow websocket client")
		c.close()
	}
	return delivered
}

// Disconnect closes every client of key, used when the session ends.
func (h *Hub) Disconnect(key string) {
	h.mu.RLock()
	var conns []*wsClient
	for c := range h.clients[key] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()
	for _, c := range conns {
		c.close()
	}
}

// Clients reports how many clients of key are connected.
func (h *Hub) Clients(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[key])
}

func (c *wsClient) close() {
	c.once.Do(func() {
		c.hub.remove(c)
		close(c.send)
	})
}

func (c *wsClient) readPump() {
	defer c.close()
	c.conn.SetReadLimit(1024)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *wsClient) writePump() {
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
				c.close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		}
	}
}
