package apihttp

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"pathportal/internal/domain"
	"pathportal/internal/metrics"
)

type wsMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type wsClient struct {
	id   string
	hub  *wsHub
	conn *websocket.Conn
	send chan []byte
}

func newWSClient(hub *wsHub, conn *websocket.Conn) *wsClient {
	return &wsClient{
		id:   uuid.NewString(),
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

type wsHub struct {
	clients    map[*wsClient]bool
	count      atomic.Int64
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *wsClient
	done       chan struct{}
	logger     *slog.Logger
}

func newWSHub(logger *slog.Logger) *wsHub {
	return &wsHub{
		clients:    make(map[*wsClient]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		done:       make(chan struct{}),
		logger:     logger.With(slog.String("component", "ws")),
	}
}

func (h *wsHub) run() {
	for {
		select {
		case <-h.done:
			for client := range h.clients {
				if client.conn != nil {
					_ = client.conn.WriteControl(
						websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
						time.Now().Add(2*time.Second),
					)
				}
				h.remove(client)
			}
			h.logger.Debug("ws hub stopped, all clients disconnected")
			return
		case client := <-h.register:
			h.clients[client] = true
			h.setCount()
			h.logger.Debug("ws client connected", slog.String("client", client.id), slog.Int("total", len(h.clients)))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.remove(client)
				h.logger.Debug("ws client disconnected", slog.String("client", client.id), slog.Int("total", len(h.clients)))
			}
		case msg := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					h.logger.Debug("ws client too slow, dropping", slog.String("client", client.id))
					h.remove(client)
				}
			}
		}
	}
}

func (h *wsHub) remove(client *wsClient) {
	delete(h.clients, client)
	close(client.send)
	h.setCount()
}

func (h *wsHub) setCount() {
	h.count.Store(int64(len(h.clients)))
	metrics.WSClients.Set(float64(len(h.clients)))
}

// Close signals the hub to stop and disconnect all clients.
func (h *wsHub) Close() {
	select {
	case <-h.done:
	default:
		close(h.done)
	}
}

func (h *wsHub) clientCount() int {
	return int(h.count.Load())
}

// Broadcast sends a typed JSON message to all connected WebSocket clients.
// It never blocks; the message is dropped when the buffer is full.
func (h *wsHub) Broadcast(msgType string, data interface{}) {
	if h.clientCount() == 0 {
		return
	}
	payload, err := encodeWSMessage(msgType, data)
	if err != nil {
		h.logger.Error("ws marshal failed", slog.String("error", err.Error()))
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		metrics.WSBroadcastDropsTotal.Inc()
	}
}

func encodeWSMessage(msgType string, data interface{}) ([]byte, error) {
	return json.Marshal(wsMessage{Type: msgType, Data: data})
}

type progressChange struct {
	TopicID domain.TopicID `json:"topicId"`
	Version uint64         `json:"version"`
	Percent float64        `json:"percent"`
}

type bookmarkChange struct {
	TopicID    domain.TopicID `json:"topicId"`
	Version    uint64         `json:"version"`
	Bookmarked bool           `json:"bookmarked"`
}

type noteChange struct {
	TopicID domain.TopicID `json:"topicId"`
	Version uint64         `json:"version"`
	Text    string         `json:"text"`
	HasNote bool           `json:"hasNote"`
}

// broadcastChange is registered as a store observer. It runs on the
// mutating goroutine, so it only reads the store and enqueues.
func (s *Server) broadcastChange(ev domain.ChangeEvent) {
	switch ev.Store {
	case domain.StoreProgress:
		s.wsHub.Broadcast(string(ev.Store), progressChange{
			TopicID: ev.TopicID,
			Version: ev.Version,
			Percent: s.state.Progress.Get(ev.TopicID),
		})
	case domain.StoreBookmarks:
		s.wsHub.Broadcast(string(ev.Store), bookmarkChange{
			TopicID:    ev.TopicID,
			Version:    ev.Version,
			Bookmarked: s.state.Bookmarks.IsBookmarked(ev.TopicID),
		})
	case domain.StoreNotes:
		text := s.state.Notes.Get(ev.TopicID)
		s.wsHub.Broadcast(string(ev.Store), noteChange{
			TopicID: ev.TopicID,
			Version: ev.Version,
			Text:    text,
			HasNote: domain.HasNote(text),
		})
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *wsClient) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	for {
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
	}
}
