package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"ludo-backend/internal/entity"
	"ludo-backend/internal/ludo"
	"ludo-backend/internal/pkg"
	"ludo-backend/internal/usecase"
)

type roomManager interface {
	CreateRoom(ctx context.Context, playerID, playerName string) (*entity.Room, *entity.Player, error)
	JoinRoom(ctx context.Context, code, playerID, playerName string) (*entity.Room, *entity.Player, error)
	StartGame(ctx context.Context, code, requesterID string) (*entity.GameState, error)
	RollDice(ctx context.Context, code, requesterID string) (*ludo.RollResult, *entity.GameState, error)
	MovePawn(ctx context.Context, code, requesterID string, pawnID int) (*ludo.MoveResult, *entity.GameState, error)
	Leave(ctx context.Context, code, playerID string) (*usecase.LeaveResult, error)
}

// Server is the connection gateway: it upgrades sockets, dispatches client
// intents to the room manager and broadcasts resulting state to every
// socket joined to a room.
type Server struct {
	logger  *slog.Logger
	manager roomManager

	upgrader websocket.Upgrader

	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}

	handlers map[string]func(ctx context.Context, client *Client, payload json.RawMessage) error
}

func New(logger *slog.Logger, manager roomManager) *Server {
	server := &Server{
		logger:  logger,
		manager: manager,

		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},

		rooms: make(map[string]map[*Client]struct{}),

		handlers: make(map[string]func(context.Context, *Client, json.RawMessage) error),
	}

	server.handlers[ActionCreateRoom] = server.handleCreateRoom
	server.handlers[ActionJoinRoom] = server.handleJoinRoom
	server.handlers[ActionStartGame] = server.handleStartGame
	server.handlers[ActionRollDice] = server.handleRollDice
	server.handlers[ActionMovePawn] = server.handleMovePawn

	return server
}

// Start - starts the WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection and runs its pumps.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	client := newClient(pkg.GenerateNewSessionID(), conn, that)

	log.Info("WebSocket connection established", "client", client.id)

	go client.writePump()
	client.readPump(ctx)
}

// dispatch - routes one intent to its handler. Handler errors are reported
// only to the requester; they never mutate room state.
func (that *Server) dispatch(ctx context.Context, client *Client, message *Message) {
	log := that.logger.With("method", "dispatch", "client", client.id)

	handler, ok := that.handlers[message.Action]
	if !ok {
		log.Error("unknown action", "action", message.Action)
		that.sendError(client, fmt.Errorf("unknown action: %s", message.Action))
		return
	}

	if err := handler(ctx, client, message.Payload); err != nil {
		log.Error("error processing message", "action", message.Action, "error", err)
		that.sendError(client, err)
	}
}

// disconnect - tears the client out of its room and notifies the rest.
func (that *Server) disconnect(ctx context.Context, client *Client) {
	log := that.logger.With("method", "disconnect", "client", client.id)

	roomCode := client.roomCode
	that.leaveRoomSet(client)

	if roomCode == "" {
		log.Info("client disconnected")
		return
	}

	result, err := that.manager.Leave(ctx, roomCode, client.id)
	if err != nil {
		log.Error("failed to leave room", "room", roomCode, "error", err)
		return
	}

	if !result.RoomDeleted {
		that.broadcast(roomCode, ActionPlayerLeft, playerLeftPayload{
			Player:  result.Player,
			Players: result.Players,
		})

		if result.GameAborted {
			that.broadcast(roomCode, ActionGameAborted, gameAbortedPayload{
				Message: "A player left the game",
			})
		}
	}

	log.Info("client disconnected", "room", roomCode)
}

// send - queues a message for one client, dropping the connection when its
// buffer is full.
func (that *Server) send(client *Client, action string, payload any) {
	message, err := newMessage(action, payload)
	if err != nil {
		that.logger.Error("failed to marshal message", "action", action, "error", err)
		return
	}

	select {
	case client.send <- message:
	default:
		that.logger.Error("client send buffer full, dropping connection", "client", client.id)
		_ = client.conn.Close()
	}
}

func (that *Server) sendError(client *Client, err error) {
	that.send(client, ActionError, errorPayload{Message: err.Error()})
}

// broadcast - fans a message out to every socket joined to a room.
func (that *Server) broadcast(roomCode, action string, payload any) {
	that.mu.RLock()
	members := make([]*Client, 0, len(that.rooms[roomCode]))
	for client := range that.rooms[roomCode] {
		members = append(members, client)
	}
	that.mu.RUnlock()

	for _, client := range members {
		that.send(client, action, payload)
	}
}

func (that *Server) joinRoomSet(client *Client, roomCode string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.rooms[roomCode]; !ok {
		that.rooms[roomCode] = make(map[*Client]struct{})
	}

	that.rooms[roomCode][client] = struct{}{}
	client.roomCode = roomCode
}

func (that *Server) leaveRoomSet(client *Client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if client.roomCode == "" {
		return
	}

	if members, ok := that.rooms[client.roomCode]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(that.rooms, client.roomCode)
		}
	}

	client.roomCode = ""
}
