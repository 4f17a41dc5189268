package server

import (
	"context"
	"sync"
	"time"

	"sp500-dashboard/src/dashboard"
	"sp500-dashboard/src/helpers"

	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Constants
// -----------------------------------------------------------------------------

const (
	writeWait       = 2 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = (pongWait * 9) / 10
	maxMessageSize  = 64 * 1024
	commandTimeout  = 60 * time.Second
	pendingCommands = 16
)

// -----------------------------------------------------------------------------
// Client Structure
// -----------------------------------------------------------------------------

type Client struct {
	hub      *DashboardServer
	conn     *websocket.Conn
	session  *dashboard.Session
	send     chan interface{}
	commands chan []byte
	done     chan struct{}
	once     sync.Once

	// Cancelled on close so an in-flight fetch stops with the connection
	ctx    context.Context
	cancel context.CancelFunc
}

// -----------------------------------------------------------------------------

func newClient(hub *DashboardServer, conn *websocket.Conn, session *dashboard.Session) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		hub:     hub,
		conn:    conn,
		session: session,
		// Buffered channel to prevent blocking the Hub loop
		send:     make(chan interface{}, 64),
		commands: make(chan []byte, pendingCommands),
		done:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// -----------------------------------------------------------------------------

// close stops the write pump and cancels pending work. Safe to call more
// than once.
func (c *Client) close() {
	c.once.Do(func() {
		close(c.done)
		c.cancel()
	})
}

// -----------------------------------------------------------------------------

// deliver queues a message, dropping it when the client is gone or full.
func (c *Client) deliver(message interface{}) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- message:
		return true
	case <-c.done:
		return false
	default:
		return false
	}
}

// -----------------------------------------------------------------------------
// readPump - queues session commands from the client
// Act as a Watchdog for the connection
// -----------------------------------------------------------------------------

func (c *Client) readPump() {
	defer func() {
		close(c.commands)
		select {
		case c.hub.unregister <- c:
		case <-c.hub.quit:
		}
		c.close()
		c.hub.Logger.Info("Client disconnected (session %s)", c.session.ID)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.hub.pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.hub.pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.Logger.Info("WebSocket error: %v", err)
			}
			break
		}
		c.conn.SetReadDeadline(time.Now().Add(c.hub.pongWait))

		select {
		case c.commands <- message:
		default:
			c.deliver(errorMessage(helpers.NewConfigurationError("too many pending session commands", nil)))
		}
	}
}

// -----------------------------------------------------------------------------
// runCommands - executes session commands one at a time, off the read loop
// -----------------------------------------------------------------------------

func (c *Client) runCommands() {
	c.hub.openSession(c)
	for message := range c.commands {
		c.hub.HandleClientMessage(c, message)
	}
}

// -----------------------------------------------------------------------------
// writePump - sends messages to client
// -----------------------------------------------------------------------------

func (c *Client) writePump() {
	ticker := time.NewTicker(c.hub.pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				c.hub.Logger.Info("Write error: %v", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.drain()
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// -----------------------------------------------------------------------------

// drain flushes replies queued before the client was closed.
func (c *Client) drain() {
	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				return
			}
		default:
			return
		}
	}
}
