package server

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/kode4food/flowdesk/internal/settings"
	"github.com/kode4food/flowdesk/pkg/api"
	"github.com/kode4food/flowdesk/pkg/log"
)

// Client is a WebSocket connection streaming preference changes
type Client struct {
	conn    *websocket.Conn
	changes <-chan settings.Change
	cancel  func()
	once    sync.Once
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	wsBufferSize   = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  wsBufferSize,
	WriteBufferSize: wsBufferSize,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handleWebSocket upgrades the connection, sends a snapshot of the current
// preferences, then streams every change. Repeated "key" query parameters
// narrow the stream to those preferences
func (s *Server) handleWebSocket(c *gin.Context) {
	var keys []settings.Key
	for _, k := range c.QueryArray("key") {
		keys = append(keys, settings.Key(k))
	}

	changes, cancel := s.settings.Subscribe(keys...)
	snapshot, err := s.snapshot(c)
	if err != nil {
		cancel()
		writeError(c, http.StatusInternalServerError, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		cancel()
		slog.Error("WebSocket upgrade failed",
			log.Error(err))
		return
	}

	client := &Client{
		conn:    conn,
		changes: changes,
		cancel:  cancel,
	}
	s.registerWebSocket(client)

	go func() {
		defer s.unregisterWebSocket(client)
		client.run(snapshot)
	}()
}

// Close releases the subscription, which ends the connection
func (c *Client) Close() {
	c.once.Do(c.cancel)
}

func (c *Client) run(snapshot map[string]string) {
	defer func() {
		c.Close()
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	if !c.send(api.SettingsEvent{
		Type:     api.SettingsEventSnapshot,
		Settings: snapshot,
	}) {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	closed := make(chan struct{})
	go c.readMessages(closed)

	for {
		select {
		case <-closed:
			return

		case change, ok := <-c.changes:
			if !ok {
				_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if !c.send(api.SettingsEvent{
				Type:  api.SettingsEventChanged,
				Key:   string(change.Key),
				Value: change.Value,
			}) {
				return
			}

		case <-ticker.C:
			if !c.sendPing() {
				return
			}
		}
	}
}

// readMessages drains the connection so control frames are processed.
// Client messages carry no meaning on this stream
func (c *Client) readMessages(closed chan struct{}) {
	defer close(closed)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) send(ev api.SettingsEvent) bool {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(ev); err != nil {
		slog.Error("WebSocket write failed",
			slog.String("context", ev.Type),
			log.Error(err))
		return false
	}
	return true
}

func (c *Client) sendPing() bool {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	err := c.conn.WriteMessage(websocket.PingMessage, nil)
	return err == nil
}
