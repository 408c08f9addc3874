package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/conduit-lang/inspector/internal/scene"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum edit message size allowed from peer
	maxMessageSize = 64 * 1024

	sendBuffer = 256
)

// liveClient is one websocket session editing an instance. Every message
// from the client is a scene.Inputs; every message to it is a FrameMessage.
type liveClient struct {
	id       string
	conn     *websocket.Conn
	instance *liveInstance
	server   *Server
	send     chan []byte

	ctx    context.Context
	cancel context.CancelFunc
	closed atomic.Bool
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	li, ok := s.instance(w, r)
	if !ok {
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &liveClient{
		id:       uuid.NewString(),
		conn:     conn,
		instance: li,
		server:   s,
		send:     make(chan []byte, sendBuffer),
		ctx:      ctx,
		cancel:   cancel,
	}
	li.subscribe(c)
	if s.metrics != nil {
		s.metrics.SessionOpened()
	}
	s.logger.Info("live session opened", zap.String("client", c.id), zap.String("instance", li.id))

	// the first frame shows the current state
	msg, _ := li.edit(s.config.Style, scene.Inputs{})
	c.push(msg)

	go c.writePump()
	go c.readPump()
}

// push queues msg, dropping it when the client is slow or gone
func (c *liveClient) push(msg FrameMessage) {
	if c.closed.Load() {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		c.server.logger.Error("failed to encode frame", zap.Error(err))
		return
	}
	select {
	case c.send <- data:
	case <-c.ctx.Done():
	default:
		c.server.logger.Warn("live client send buffer full, dropping frame", zap.String("client", c.id))
	}
}

func (c *liveClient) close() {
	if c.closed.Swap(true) {
		return
	}
	c.instance.unsubscribe(c)
	c.cancel()
	if c.server.metrics != nil {
		c.server.metrics.SessionClosed()
	}
	c.server.logger.Info("live session closed", zap.String("client", c.id), zap.String("instance", c.instance.id))
}

func (c *liveClient) readPump() {
	defer func() {
		c.close()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.server.logger.Warn("websocket read failed", zap.String("client", c.id), zap.Error(err))
			}
			return
		}

		var in scene.Inputs
		if err := json.Unmarshal(data, &in); err != nil {
			c.push(FrameMessage{Instance: c.instance.id, Error: "invalid edit message: " + err.Error()})
			continue
		}

		// the editing client learns about unused inputs, the others only
		// see the new frame
		msg, err := c.server.apply(c.instance, in)
		if err != nil {
			msg.Error = err.Error()
			c.push(msg)
		}
	}
}

func (c *liveClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.close()
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		}
	}
}
