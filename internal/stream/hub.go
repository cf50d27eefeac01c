// Package stream pushes periodic market snapshots to websocket clients.
package stream

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"cryptowatch/internal/market"
	"cryptowatch/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 8
)

// Message types.
const (
	TypeSnapshot = "snapshot"
	TypeError    = "error"
)

// Message is one frame sent to a client.
type Message struct {
	Type      string         `json:"type"`
	Data      []models.Asset `json:"data,omitempty"`
	Error     string         `json:"error,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Source produces listing pages.
type Source interface {
	ListAssets(ctx context.Context, opts market.ListOptions) ([]models.Asset, bool, error)
}

// Observer is notified as clients come and go.
type Observer interface {
	StreamClientConnected()
	StreamClientDisconnected()
}

// Subscription selects what a client receives.
type Subscription struct {
	Quote   models.QuoteCurrency
	Symbols []string
	Limit   int
}

func (s Subscription) options() market.ListOptions {
	return market.ListOptions{
		Quote:     s.Quote,
		Sort:      market.SortByVolume,
		Direction: market.SortDesc,
		Limit:     s.Limit,
		Symbols:   s.Symbols,
	}
}

func (s Subscription) key() string {
	return string(s.Quote) + "|" + strings.Join(s.Symbols, ",") + "|" + strconv.Itoa(s.Limit)
}

type client struct {
	conn *websocket.Conn
	sub  Subscription
	send chan Message
}

// Hub fans snapshots out to connected clients. Each distinct subscription
// is fetched once per tick.
type Hub struct {
	source   Source
	interval time.Duration
	upgrader websocket.Upgrader
	observer Observer
	log      *zap.SugaredLogger

	mu      sync.RWMutex
	clients map[*client]struct{}
}

// NewHub creates a Hub pushing every interval. checkOrigin may be nil to use
// the websocket default same-origin check.
func NewHub(source Source, interval time.Duration, checkOrigin func(*http.Request) bool, observer Observer, log *zap.SugaredLogger) *Hub {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Hub{
		source:   source,
		interval: interval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     checkOrigin,
		},
		observer: observer,
		log:      log,
		clients:  make(map[*client]struct{}),
	}
}

// Run broadcasts until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-ticker.C:
			h.Broadcast(ctx)
		}
	}
}

// Broadcast fetches every subscribed snapshot once and queues it for the
// matching clients. Slow clients whose buffer is full skip the frame.
func (h *Hub) Broadcast(ctx context.Context) {
	h.mu.RLock()
	subs := make(map[string]Subscription)
	for c := range h.clients {
		subs[c.sub.key()] = c.sub
	}
	h.mu.RUnlock()

	frames := make(map[string]Message, len(subs))
	for k, sub := range subs {
		frames[k] = h.snapshot(ctx, sub)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		msg, ok := frames[c.sub.key()]
		if !ok {
			continue
		}
		select {
		case c.send <- msg:
		default:
			h.log.Debugw("stream client lagging, frame dropped", "remote", c.conn.RemoteAddr().String())
		}
	}
}

// Serve upgrades the request and streams sub to the client until it
// disconnects. The first snapshot is sent immediately.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, sub Subscription) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{conn: conn, sub: sub, send: make(chan Message, sendBuffer)}
	c.send <- h.snapshot(r.Context(), sub)
	h.register(c)

	go h.writePump(c)
	h.readPump(c)
	return nil
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) snapshot(ctx context.Context, sub Subscription) Message {
	assets, _, err := h.source.ListAssets(ctx, sub.options())
	if err != nil {
		return Message{Type: TypeError, Error: err.Error(), Timestamp: time.Now().UTC()}
	}
	return Message{Type: TypeSnapshot, Data: assets, Timestamp: time.Now().UTC()}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	if h.observer != nil {
		h.observer.StreamClientConnected()
	}
	h.log.Debugw("stream client connected", "remote", c.conn.RemoteAddr().String())
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	if ok && h.observer != nil {
		h.observer.StreamClientDisconnected()
	}
}

func (h *Hub) closeAll() {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		h.unregister(c)
	}
}

// readPump discards client frames and keeps the read deadline alive on pongs.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debugw("stream read error", "error", err.Error())
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
			if err := c.conn.WriteJSON(msg); err != nil {
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
