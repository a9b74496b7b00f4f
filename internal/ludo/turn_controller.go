package ludo

import (
	"fmt"
	"math/rand"
	"time"

	"ludo-backend/internal/apperror"
	"ludo-backend/internal/entity"
)

// maxConsecutiveSixes triggers the forced-skip penalty.
const maxConsecutiveSixes = 3

// RollResult - outcome of one dice roll. ForcedSkip marks the
// three-sixes penalty: the turn passed without a move phase.
type RollResult struct {
	DiceValue  int
	ValidMoves []int
	ForcedSkip bool
}

// MoveResult - outcome of one applied pawn move.
type MoveResult struct {
	PawnID   int
	Captured int
	GameOver bool
	Winner   *entity.Player
}

// TurnController drives the turn sequence of a single room: roll, six
// bookkeeping, move application, turn advance. It is the only writer of a
// room's GameState; callers serialize access per room.
type TurnController struct {
	roll func() int
}

func NewTurnController() *TurnController {
	rng := rand.New(rand.NewSource(time.Now().UnixNano())) //nolint: gosec // game dice, not crypto

	return &TurnController{
		roll: func() int { return rng.Intn(ExitRoll) + 1 },
	}
}

// NewTurnControllerWithRoll - controller with a deterministic dice source.
func NewTurnControllerWithRoll(roll func() int) *TurnController {
	return &TurnController{roll: roll}
}

// RollDice - draws the dice for the current player and decides whether a
// move phase follows. On three consecutive sixes the turn is forfeited; on a
// roll with no movable pawn the turn resolves immediately.
func (that *TurnController) RollDice(state *entity.GameState, playerID string) (*RollResult, error) {
	if err := state.ConfirmActiveState(); err != nil {
		return nil, err
	}

	if state.CurrentPlayer().Player.ID != playerID {
		return nil, apperror.ErrNotYourTurn
	}

	if !state.IsAwaitingRoll() {
		return nil, fmt.Errorf("%w: cannot roll dice now", apperror.ErrInvalidState)
	}

	dice := that.roll()
	state.DiceValue = dice
	state.Phase = entity.PhaseAwaitingMove
	state.LastRollWasSix = dice == ExitRoll

	if state.LastRollWasSix {
		state.ConsecutiveSixes++
	} else {
		state.ConsecutiveSixes = 0
	}

	if state.ConsecutiveSixes >= maxConsecutiveSixes {
		state.Phase = entity.PhaseAwaitingRoll
		state.LastRollWasSix = false
		state.AdvanceTurn()

		return &RollResult{DiceValue: dice, ForcedSkip: true}, nil
	}

	moves := ValidMoves(state, state.CurrentPlayerIndex)
	if len(moves) == 0 {
		state.Phase = entity.PhaseAwaitingRoll
		if !state.LastRollWasSix {
			state.AdvanceTurn()
		}
		state.LastRollWasSix = false
	}

	return &RollResult{DiceValue: dice, ValidMoves: moves}, nil
}

// MovePawn - applies the chosen pawn move for the rolled value, detects a
// win and otherwise hands the turn over unless the roll was a six.
func (that *TurnController) MovePawn(state *entity.GameState, playerID string, pawnID int) (*MoveResult, error) {
	if err := state.ConfirmActiveState(); err != nil {
		return nil, err
	}

	if state.CurrentPlayer().Player.ID != playerID {
		return nil, apperror.ErrNotYourTurn
	}

	if !state.IsAwaitingMove() {
		return nil, fmt.Errorf("%w: roll the dice first", apperror.ErrInvalidState)
	}

	if !isValidMove(state, pawnID) {
		return nil, fmt.Errorf("%w: pawn %d", apperror.ErrInvalidMove, pawnID)
	}

	current := state.CurrentPlayer()

	captured, err := ApplyMove(state, state.CurrentPlayerIndex, pawnID, state.DiceValue)
	if err != nil {
		return nil, err
	}

	result := &MoveResult{PawnID: pawnID, Captured: captured}

	if HasWon(current) {
		state.Phase = entity.PhaseGameOver
		state.Winner = current.Player
		result.GameOver = true
		result.Winner = current.Player

		return result, nil
	}

	state.Phase = entity.PhaseAwaitingRoll
	if !state.LastRollWasSix {
		state.AdvanceTurn()
	}
	state.LastRollWasSix = false

	return result, nil
}

func isValidMove(state *entity.GameState, pawnID int) bool {
	for _, id := range ValidMoves(state, state.CurrentPlayerIndex) {
		if id == pawnID {
			return true
		}
	}

	return false
}
