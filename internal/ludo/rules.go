package ludo

import (
	"fmt"

	"ludo-backend/internal/apperror"
	"ludo-backend/internal/entity"
)

const (
	// TrackLength is the shared ring every player races on.
	TrackLength = 52

	// ExitRoll is the dice value required to bring a pawn out of home.
	ExitRoll = 6

	// startSpacing keeps player entry tiles evenly spaced on the ring.
	startSpacing = 13

	// laneEntryDistance is the ring distance after which a pawn turns off
	// into its private lane instead of continuing on the track.
	laneEntryDistance = 50

	// GoalOffset is the final lane cell; landing exactly on it finishes
	// the pawn. Overshooting it is illegal.
	GoalOffset = 5
)

var safeTiles = map[int]struct{}{
	0: {}, 8: {}, 13: {}, 21: {}, 26: {}, 34: {}, 39: {}, 47: {},
}

// StartOffset - the entry tile of a player on the shared ring.
func StartOffset(playerIndex int) int {
	return playerIndex * startSpacing
}

// IsSafeTile - pawns resting on a safe tile cannot be captured.
func IsSafeTile(tile int) bool {
	_, ok := safeTiles[tile]
	return ok
}

// CanExitHome - a pawn leaves home only on a six.
func CanExitHome(pawn *entity.Pawn, dice int) bool {
	return pawn.IsHome() && dice == ExitRoll
}

// CanAdvance - whether a pawn already in play can move by the rolled value.
// A track pawn either stays on the ring or turns off into its lane; a lane
// pawn slides toward the goal cell. Any target past the goal cell forfeits
// the pawn's eligibility for this roll.
func CanAdvance(pawn *entity.Pawn, dice, startOffset int) bool {
	switch pawn.Zone {
	case entity.ZoneTrack:
		distance := trackDistance(pawn.TrackPosition, startOffset)
		if distance+dice < laneEntryDistance {
			return true
		}
		return distance+dice-laneEntryDistance <= GoalOffset
	case entity.ZoneLane:
		return pawn.LaneOffset+dice <= GoalOffset
	default:
		return false
	}
}

// ValidMoves - the IDs of the player's pawns movable under the current dice
// value, in pawn order.
func ValidMoves(state *entity.GameState, playerIndex int) []int {
	player := state.Players[playerIndex]
	startOffset := StartOffset(playerIndex)

	moves := make([]int, 0, entity.PawnsPerPlayer)
	for id := range player.Pawns {
		pawn := &player.Pawns[id]
		if CanExitHome(pawn, state.DiceValue) || CanAdvance(pawn, state.DiceValue, startOffset) {
			moves = append(moves, id)
		}
	}

	return moves
}

// ApplyMove - moves one pawn by the rolled value, resolving captures on the
// landing tile. Returns the number of opposing pawns captured. The state is
// only mutated when the move is legal.
func ApplyMove(state *entity.GameState, playerIndex, pawnID, dice int) (int, error) {
	if pawnID < 0 || pawnID >= entity.PawnsPerPlayer {
		return 0, fmt.Errorf("%w: pawn %d", apperror.ErrInvalidMove, pawnID)
	}

	player := state.Players[playerIndex]
	pawn := &player.Pawns[pawnID]
	startOffset := StartOffset(playerIndex)

	switch {
	case CanExitHome(pawn, dice):
		pawn.Zone = entity.ZoneTrack
		pawn.TrackPosition = startOffset

		return ResolveCapture(state, playerIndex, pawn.TrackPosition), nil

	case pawn.OnTrack() && CanAdvance(pawn, dice, startOffset):
		distance := trackDistance(pawn.TrackPosition, startOffset)
		if distance+dice >= laneEntryDistance {
			enterLane(player, pawn, distance+dice-laneEntryDistance)
			return 0, nil
		}

		pawn.TrackPosition = (pawn.TrackPosition + dice) % TrackLength

		return ResolveCapture(state, playerIndex, pawn.TrackPosition), nil

	case pawn.InLane() && CanAdvance(pawn, dice, startOffset):
		enterLane(player, pawn, pawn.LaneOffset+dice)

		return 0, nil

	default:
		return 0, fmt.Errorf("%w: pawn %d cannot move %d", apperror.ErrInvalidMove, pawnID, dice)
	}
}

// ResolveCapture - sends every opposing track pawn on the landed tile back
// home. Safe tiles and a player's own pawns are never touched; stacking own
// pawns is allowed. Returns the number of captured pawns.
func ResolveCapture(state *entity.GameState, attackerIndex, tile int) int {
	if IsSafeTile(tile) {
		return 0
	}

	captured := 0
	for i, player := range state.Players {
		if i == attackerIndex {
			continue
		}

		for id := range player.Pawns {
			pawn := &player.Pawns[id]
			if pawn.OnTrack() && pawn.TrackPosition == tile {
				pawn.SendHome()
				captured++
			}
		}
	}

	return captured
}

// HasWon - a player wins once all four pawns reached the goal.
func HasWon(player *entity.PlayerState) bool {
	for id := range player.Pawns {
		if !player.Pawns[id].InGoal() {
			return false
		}
	}

	return true
}

// trackDistance - how far a pawn has traveled from its own start tile.
func trackDistance(position, startOffset int) int {
	return (position - startOffset + TrackLength) % TrackLength
}

// enterLane - places a pawn on a lane cell, finishing it when the target is
// the goal cell.
func enterLane(player *entity.PlayerState, pawn *entity.Pawn, offset int) {
	pawn.TrackPosition = 0

	if offset == GoalOffset {
		pawn.Zone = entity.ZoneGoal
		pawn.LaneOffset = 0
		player.GoalCount++
		return
	}

	pawn.Zone = entity.ZoneLane
	pawn.LaneOffset = offset
}
