package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zeusync/worldpos/internal/core/models"
	"github.com/zeusync/worldpos/internal/core/observability/log"
	"github.com/zeusync/worldpos/internal/core/systems/movement"
)

const maxMessageSize = 4096

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// ControlMessage is sent by clients to steer an entity
type ControlMessage struct {
	Entity   models.EntityID   `json:"entity"`
	Controls movement.Controls `json:"controls"`
}

// ErrorMessage reports a rejected control message back to its sender
type ErrorMessage struct {
	Error string `json:"error"`
}

type client struct {
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	once   sync.Once
	logger log.Log
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
	})
}

// enqueue drops the oldest pending message when the buffer is full.
func (c *client) enqueue(data []byte) {
	for {
		select {
		case c.send <- data:
			return
		case <-c.done:
			return
		default:
		}
		select {
		case <-c.send:
		default:
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Websocket upgrade failed", log.Error(err))
		return
	}

	c := &client{
		conn:   conn,
		send:   make(chan []byte, s.config.SendBuffer),
		done:   make(chan struct{}),
		logger: s.logger.With(log.String("remote_addr", conn.RemoteAddr().String())),
	}
	if err = s.register(c); err != nil {
		s.logger.Warn("Rejecting websocket client", log.Error(err))
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error()),
			time.Now().Add(s.config.WriteTimeout))
		_ = conn.Close()
		return
	}
	c.logger.Info("Client connected")

	if snap := s.world.Snapshot(); snap != nil {
		if data, err := json.Marshal(snap); err == nil {
			c.enqueue(data)
		}
	}

	go s.writePump(c)
	go s.readPump(c)
}

func (s *Server) writePump(c *client) {
	ticker := time.NewTicker(s.config.PingInterval)
	defer func() {
		ticker.Stop()
		s.workerGroup.Done()
	}()

	for {
		select {
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Debug("Write failed", log.Error(err))
				c.close()
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.config.WriteTimeout)); err != nil {
				c.close()
				return
			}
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(s.config.WriteTimeout))
			_ = c.conn.Close()
			return
		}
	}
}

func (s *Server) readPump(c *client) {
	defer func() {
		s.unregister(c)
		c.close()
		s.workerGroup.Done()
		c.logger.Info("Client disconnected")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Debug("Read failed", log.Error(err))
			}
			return
		}

		var msg ControlMessage
		if err = json.Unmarshal(data, &msg); err != nil {
			c.reply(ErrorMessage{Error: fmt.Sprintf("%v: %v", ErrInvalidMessage, err)})
			continue
		}
		if err = s.world.SetControls(msg.Entity, msg.Controls); err != nil {
			c.reply(ErrorMessage{Error: err.Error()})
			continue
		}
		c.logger.Debug("Controls queued", log.Entity(msg.Entity.String()))
	}
}

func (c *client) reply(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.enqueue(data)
}
