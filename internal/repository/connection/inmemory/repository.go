package inmemory

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sharetube/frequency/internal/repository/connection"
)

const sendQueueSize = 256

type client struct {
	conn *websocket.Conn
	send chan any
	done chan struct{}
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

type repo struct {
	clients map[string]*client
	mu      sync.RWMutex
	logger  *slog.Logger
}

func NewRepo(logger *slog.Logger) *repo {
	return &repo{
		clients: make(map[string]*client),
		logger:  logger,
	}
}

// Add registers conn and starts its writer. Every write to conn must go
// through Send from then on.
func (r *repo) Add(connectionId string, conn *websocket.Conn) error {
	funcName := "connection.inmemory.Add"
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug(funcName, "connection_id", connectionId)
	if _, ok := r.clients[connectionId]; ok {
		r.logger.Info(funcName, "error", connection.ErrAlreadyExists)
		return connection.ErrAlreadyExists
	}

	c := &client{
		conn: conn,
		send: make(chan any, sendQueueSize),
		done: make(chan struct{}),
	}
	r.clients[connectionId] = c
	go r.writePump(connectionId, c)

	return nil
}

func (r *repo) Remove(connectionId string) error {
	funcName := "connection.inmemory.Remove"
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug(funcName, "connection_id", connectionId)
	c, ok := r.clients[connectionId]
	if !ok {
		r.logger.Info(funcName, "error", connection.ErrNotFound)
		return connection.ErrNotFound
	}
	c.close()
	delete(r.clients, connectionId)

	return nil
}

// Send queues msg for connectionId without blocking. A connection that cannot
// keep up is closed.
func (r *repo) Send(connectionId string, msg any) error {
	r.mu.RLock()
	c, ok := r.clients[connectionId]
	r.mu.RUnlock()
	if !ok {
		return connection.ErrNotFound
	}

	select {
	case <-c.done:
		return connection.ErrNotFound
	default:
	}

	select {
	case c.send <- msg:
		return nil
	case <-c.done:
		return connection.ErrNotFound
	default:
		r.logger.Warn("connection.inmemory.Send", "connection_id", connectionId, "error", connection.ErrSendQueueFull)
		c.close()
		return connection.ErrSendQueueFull
	}
}

func (r *repo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.clients)
}

func (r *repo) writePump(connectionId string, c *client) {
	ticker := time.NewTicker(connection.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(connection.WriteWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				r.logger.Info("connection.inmemory.writePump", "connection_id", connectionId, "error", err)
				c.close()
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(connection.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				r.logger.Info("connection.inmemory.writePump", "connection_id", connectionId, "error", err)
				c.close()
				return
			}
		}
	}
}
