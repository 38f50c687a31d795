package realtime

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"medhaven/internal/config"
	"medhaven/pkg/logger"
)

// Conn is a websocket connection attached to the hub.
type Conn struct {
	id     string
	userID string
	ws     *websocket.Conn
	hub    *Hub
	send   chan []byte
	cfg    config.RealtimeConfig
	log    logger.Logger

	closeOnce sync.Once
}

func NewConn(ws *websocket.Conn, hub *Hub, userID string, cfg config.RealtimeConfig, log logger.Logger) *Conn {
	id := uuid.NewString()
	return &Conn{
		id:     id,
		userID: userID,
		ws:     ws,
		hub:    hub,
		send:   make(chan []byte, cfg.SendBuffer),
		cfg:    cfg,
		log:    log.With("conn_id", id, "user_id", userID),
	}
}

func (c *Conn) ID() string          { return c.id }
func (c *Conn) UserID() string      { return c.userID }
func (c *Conn) Send() chan<- []byte { return c.send }

// Close stops the write pump, which then closes the socket.
func (c *Conn) Close() {
	c.closeOnce.Do(func() { close(c.send) })
}

// Serve registers the connection and pumps frames until the peer goes away.
// It blocks, so call it from the HTTP handler goroutine.
func (c *Conn) Serve() {
	if !c.hub.Register(c) {
		c.ws.Close()
		return
	}
	go c.writePump()
	c.readPump()
}

func (c *Conn) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.ws.Close()
	}()

	c.ws.SetReadLimit(c.cfg.MaxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
		return nil
	})

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.log.Warn("Websocket read failed", "error", err)
			}
			return
		}

		ev, err := Decode(raw)
		if err != nil {
			c.log.Warn("Dropped undecodable frame", "error", err)
			continue
		}
		c.hub.Publish(c, ev)
	}
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(c.cfg.PongWait * 9 / 10)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.log.Debug("Websocket write failed", "error", err)
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
