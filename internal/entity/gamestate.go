package entity

import (
	"fmt"

	"ludo-backend/internal/apperror"
)

// Phase - the turn state machine of an active game.
type Phase string

const (
	PhaseAwaitingRoll Phase = "awaiting_roll"
	PhaseAwaitingMove Phase = "awaiting_move"
	PhaseGameOver     Phase = "game_over"
	PhaseAborted      Phase = "aborted"
)

const PawnsPerPlayer = 4

type PlayerState struct {
	Player    *Player              `json:"player"`
	Pawns     [PawnsPerPlayer]Pawn `json:"pawns"`
	GoalCount int                  `json:"goalCount"`
}

type GameState struct {
	RoomCode           string         `json:"roomCode"`
	Players            []*PlayerState `json:"players"`
	CurrentPlayerIndex int            `json:"currentPlayerIndex"`
	DiceValue          int            `json:"diceValue"`
	Phase              Phase          `json:"phase"`
	LastRollWasSix     bool           `json:"lastRollWasSix"`
	ConsecutiveSixes   int            `json:"consecutiveSixes"`
	Winner             *Player        `json:"winner,omitempty"`
}

// NewGameState - builds the initial state for a started room. Colors are
// assigned by join order; every pawn starts at home and the first joiner
// (the host) rolls first.
func NewGameState(roomCode string, players []*Player) *GameState {
	states := make([]*PlayerState, 0, len(players))

	for i, player := range players {
		player.Color = TurnColors[i]

		state := &PlayerState{Player: player}
		for pawnID := range state.Pawns {
			state.Pawns[pawnID] = Pawn{ID: pawnID, Zone: ZoneHome}
		}

		states = append(states, state)
	}

	return &GameState{
		RoomCode:           roomCode,
		Players:            states,
		CurrentPlayerIndex: 0,
		DiceValue:          0,
		Phase:              PhaseAwaitingRoll,
	}
}

func (that *GameState) CurrentPlayer() *PlayerState {
	return that.Players[that.CurrentPlayerIndex]
}

func (that *GameState) IsAwaitingRoll() bool {
	return that.Phase == PhaseAwaitingRoll
}

func (that *GameState) IsAwaitingMove() bool {
	return that.Phase == PhaseAwaitingMove
}

// IsOver - true once the state reached a terminal phase; terminal states
// accept no further mutation.
func (that *GameState) IsOver() bool {
	return that.Phase == PhaseGameOver || that.Phase == PhaseAborted
}

// ConfirmActiveState - rejects intents against finished or aborted games.
func (that *GameState) ConfirmActiveState() error {
	if that.IsOver() {
		return fmt.Errorf("%w: %s", apperror.ErrInvalidState, that.Phase)
	}

	return nil
}

// Snapshot - a deep copy detached from the live state. The live state may
// only be touched under its room's lock; broadcasts marshal a snapshot taken
// before the lock is released.
func (that *GameState) Snapshot() *GameState {
	if that == nil {
		return nil
	}

	copied := *that
	copied.Players = make([]*PlayerState, len(that.Players))

	for i, playerState := range that.Players {
		state := *playerState
		state.Player = playerState.Player.Clone()
		copied.Players[i] = &state
	}

	copied.Winner = that.Winner.Clone()

	return &copied
}

// AdvanceTurn - hands the turn to the next player and resets the six streak.
func (that *GameState) AdvanceTurn() {
	that.CurrentPlayerIndex = (that.CurrentPlayerIndex + 1) % len(that.Players)
	that.ConsecutiveSixes = 0
}

// Abort - freezes an in-progress game when a player leaves mid-session.
func (that *GameState) Abort() {
	if that.IsOver() {
		return
	}

	that.Phase = PhaseAborted
}
