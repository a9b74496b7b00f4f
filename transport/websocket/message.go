package websocket

import (
	"encoding/json"

	"ludo-backend/internal/entity"
)

// Client intents.
const (
	ActionCreateRoom = "createRoom"
	ActionJoinRoom   = "joinRoom"
	ActionStartGame  = "startGame"
	ActionRollDice   = "rollDice"
	ActionMovePawn   = "movePawn"
)

// Server events.
const (
	ActionRoomCreated  = "roomCreated"
	ActionRoomJoined   = "roomJoined"
	ActionPlayerJoined = "playerJoined"
	ActionPlayerLeft   = "playerLeft"
	ActionGameStarted  = "gameStarted"
	ActionDiceRolled   = "diceRolled"
	ActionThreeSixes   = "threeSixes"
	ActionPawnMoved    = "pawnMoved"
	ActionGameOver     = "gameOver"
	ActionGameAborted  = "gameAborted"
	ActionError        = "error"
)

// Message is the wire envelope for every event in both directions.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type createRoomPayload struct {
	PlayerName string `json:"playerName"`
}

type joinRoomPayload struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
}

type startGamePayload struct {
	RoomCode string `json:"roomCode"`
}

type rollDicePayload struct {
	RoomCode string `json:"roomCode"`
}

type movePawnPayload struct {
	RoomCode string `json:"roomCode"`
	PawnID   int    `json:"pawnId"`
}

type roomCreatedPayload struct {
	RoomCode string         `json:"roomCode"`
	Player   *entity.Player `json:"player"`
}

type roomJoinedPayload struct {
	RoomCode string         `json:"roomCode"`
	Player   *entity.Player `json:"player"`
}

type playerJoinedPayload struct {
	Player  *entity.Player   `json:"player"`
	Players []*entity.Player `json:"players"`
}

type playerLeftPayload struct {
	Player  *entity.Player   `json:"player"`
	Players []*entity.Player `json:"players"`
}

type gameStartedPayload struct {
	GameState *entity.GameState `json:"gameState"`
}

type diceRolledPayload struct {
	DiceValue  int               `json:"diceValue"`
	ValidMoves []int             `json:"validMoves"`
	GameState  *entity.GameState `json:"gameState"`
}

type threeSixesPayload struct {
	Message   string            `json:"message"`
	GameState *entity.GameState `json:"gameState"`
}

type pawnMovedPayload struct {
	PawnID    int               `json:"pawnId"`
	GameState *entity.GameState `json:"gameState"`
}

type gameOverPayload struct {
	Winner    *entity.Player    `json:"winner"`
	GameState *entity.GameState `json:"gameState"`
}

type gameAbortedPayload struct {
	Message string `json:"message"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func newMessage(action string, payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}

	return Message{Action: action, Payload: raw}, nil
}
