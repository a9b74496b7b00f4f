package websocket

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from the peer.
	pongWait = 60 * time.Second

	// Ping period; must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Outbound buffer per client; the broadcaster never blocks on a slow
	// reader, it drops the connection instead.
	sendBufferSize = 32
)

// Client is one connected player from the server's point of view: the
// socket, its identity, and the room it currently sits in.
type Client struct {
	id       string
	roomCode string

	conn   *websocket.Conn
	server *Server
	send   chan Message
}

func newClient(id string, conn *websocket.Conn, server *Server) *Client {
	return &Client{
		id:     id,
		conn:   conn,
		server: server,
		send:   make(chan Message, sendBufferSize),
	}
}

// readPump reads intents off the socket and dispatches them until the
// connection dies. It runs on the connection's goroutine, so intents from a
// single client are applied in arrival order.
func (that *Client) readPump(ctx context.Context) {
	log := that.server.logger.With("method", "readPump", "client", that.id)

	defer func() {
		that.server.disconnect(ctx, that)
		_ = that.conn.Close()
	}()

	_ = that.conn.SetReadDeadline(time.Now().Add(pongWait))
	that.conn.SetPongHandler(func(string) error {
		return that.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var message Message
		if err := that.conn.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error("unexpected close", "error", err)
			}
			return
		}

		that.server.dispatch(ctx, that, &message)
	}
}

// writePump pumps queued messages onto the socket and keeps the connection
// alive with periodic pings.
func (that *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		_ = that.conn.Close()
	}()

	for {
		select {
		case message, ok := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if !ok {
				_ = that.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := that.conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
