package apperror

import "errors"

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomFull            = errors.New("room is full")
	ErrGameAlreadyStarted  = errors.New("game already started")
	ErrAlreadyInRoom       = errors.New("player already in room")
	ErrNotHost             = errors.New("only host can start game")
	ErrInsufficientPlayers = errors.New("need at least 2 players")
	ErrNotYourTurn         = errors.New("it's not your turn")
	ErrInvalidMove         = errors.New("invalid move")
	ErrInvalidState        = errors.New("invalid game state")
)
