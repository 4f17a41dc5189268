package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"sp500-dashboard/src/helpers"
	"sp500-dashboard/src/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// handleWebsockets is the main Hub loop. It tracks membership and fans out
// broadcasts; per-session traffic goes straight to the client.
func (s *DashboardServer) handleWebsockets() {
	for {
		select {
		case client := <-s.register:
			s.clients[client] = struct{}{}
			s.connections.Store(int32(len(s.clients)))
			s.Metrics.SessionOpened()

		case client := <-s.unregister:
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				s.connections.Store(int32(len(s.clients)))
				s.Metrics.SessionClosed()
			}
			client.close()

		case message := <-s.broadcast:
			s.lastUpdate.Store(time.Now().Unix())

			for client := range s.clients {
				if !client.deliver(message) {
					// Client too slow, disconnect to prevent Hub blocking
					delete(s.clients, client)
					s.Metrics.SessionClosed()
					client.close()
				}
			}
			s.connections.Store(int32(len(s.clients)))

		case <-s.quit:
			for client := range s.clients {
				client.close()
			}
			s.clients = make(map[*Client]struct{})
			s.connections.Store(0)
			return
		}
	}
}

// -----------------------------------------------------------------------------
// Data Exchange Interface Implementation
// -----------------------------------------------------------------------------

// Broadcast queues a message for every connected client.
func (s *DashboardServer) Broadcast(message interface{}) {
	select {
	case s.broadcast <- message:
	case <-s.quit:
	}
}

// -----------------------------------------------------------------------------

// PublishCatalog tells every client which symbols the reloaded catalog lists.
func (s *DashboardServer) PublishCatalog(catalog *models.MCatalog) {
	s.Broadcast(models.MCatalogMessage{
		Type:      "CATALOG",
		Symbols:   catalog.Symbols(),
		Timestamp: time.Now().Unix(),
	})
}

// -----------------------------------------------------------------------------
// WebSocket Handlers
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) handleWebSocket(c *gin.Context) {
	session, err := s.Service.NewSession(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	client := newClient(s, conn, session)
	select {
	case s.register <- client:
	case <-s.quit:
		conn.Close()
		return
	}
	s.Logger.Info("Client connected (session %s)", session.ID)

	// Start goroutines for reading/writing
	go client.writePump()
	go client.runCommands()
	go client.readPump()
}

// -----------------------------------------------------------------------------

// openSession sends the symbol list, then the view of the first symbol.
func (s *DashboardServer) openSession(client *Client) {
	client.deliver(models.MCatalogMessage{
		Type:      "CATALOG",
		Symbols:   client.session.Catalog().Symbols(),
		Timestamp: time.Now().Unix(),
	})

	ctx, cancel := context.WithTimeout(client.ctx, s.commandTimeout)
	defer cancel()
	s.reply(client, client.session.Open(ctx))
}

// -----------------------------------------------------------------------------
// Client Message Handling
// -----------------------------------------------------------------------------

func (s *DashboardServer) HandleClientMessage(client *Client, message []byte) {
	var cmd models.MSessionCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		s.reply(client, helpers.NewConfigurationError("malformed session command", err))
		return
	}

	ctx, cancel := context.WithTimeout(client.ctx, s.commandTimeout)
	defer cancel()

	var err error
	switch cmd.Command {
	case "select_symbol":
		err = client.session.SelectSymbol(ctx, cmd.Symbol)
	case "select_window":
		err = client.session.SelectWindow(ctx, cmd.Window)
	case "refresh":
		err = client.session.Refresh(ctx)
	default:
		err = helpers.NewConfigurationError(fmt.Sprintf("unknown command %q", cmd.Command), nil)
	}
	s.reply(client, err)
}

// -----------------------------------------------------------------------------

// reply sends the error, or the current view when there is one.
func (s *DashboardServer) reply(client *Client, err error) {
	if err != nil {
		s.errors.Handle(err, "session "+client.session.ID)
		client.deliver(errorMessage(err))
		return
	}
	if view := client.session.View(); view != nil {
		client.deliver(view)
	}
}
