package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ludo-backend/internal/apperror"
	"ludo-backend/internal/entity"
	"ludo-backend/internal/ludo"
	"ludo-backend/internal/pkg"
)

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	DeleteByID(ctx context.Context, id string) error
}

type matchRepo interface {
	Save(ctx context.Context, record *entity.MatchRecord) error
}

// roomSession pairs a room with the lock that serializes its intents. Every
// read-modify-write of a room's state happens under this lock, so two
// intents for the same room never interleave.
type roomSession struct {
	mu   sync.Mutex
	room *entity.Room
}

// LeaveResult - what happened when a player left: the remaining roster, and
// whether the room died or its game got aborted.
type LeaveResult struct {
	Player      *entity.Player
	Players     []*entity.Player
	RoomDeleted bool
	GameAborted bool
	GameState   *entity.GameState
}

// RoomManager owns the collection of live rooms: creation, join, start,
// teardown, and the turn intents against a room's game state. Rooms exist
// only in memory; Redis keeps player sessions and finished-match records.
type RoomManager struct {
	logger     *slog.Logger
	controller *ludo.TurnController
	playerRepo playerRepo
	matchRepo  matchRepo

	mu    sync.RWMutex
	rooms map[string]*roomSession
}

func NewRoomManager(logger *slog.Logger, controller *ludo.TurnController, playerRepo playerRepo, matchRepo matchRepo) *RoomManager {
	return &RoomManager{
		logger:     logger,
		controller: controller,
		playerRepo: playerRepo,
		matchRepo:  matchRepo,

		rooms: make(map[string]*roomSession),
	}
}

// CreateRoom - opens a new room with the given player as host. The room code
// is regenerated until it does not collide with any live room. Like every
// intent, it returns a detached snapshot; the live room is only touched under
// its lock.
func (that *RoomManager) CreateRoom(ctx context.Context, playerID, playerName string) (*entity.Room, *entity.Player, error) {
	player := &entity.Player{ID: playerID, Name: playerName}
	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, nil, fmt.Errorf("failed to save player: %w", err)
	}

	that.mu.Lock()
	code := pkg.GenerateRoomCode()
	for _, exists := that.rooms[code]; exists; _, exists = that.rooms[code] {
		code = pkg.GenerateRoomCode()
	}

	room := entity.NewRoom(code, player)
	that.rooms[code] = &roomSession{room: room}
	snapshot := room.Snapshot()
	that.mu.Unlock()

	return snapshot, snapshot.Players[0], nil
}

// JoinRoom - adds a player to an existing room, preserving join order.
func (that *RoomManager) JoinRoom(ctx context.Context, code, playerID, playerName string) (*entity.Room, *entity.Player, error) {
	sess, err := that.session(code)
	if err != nil {
		return nil, nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	room := sess.room

	if room.IsEmpty() {
		// The last member left while we were looking the room up.
		return nil, nil, apperror.ErrRoomNotFound
	}

	if room.HasPlayer(playerID) {
		return nil, nil, apperror.ErrAlreadyInRoom
	}

	if room.IsFull() {
		return nil, nil, apperror.ErrRoomFull
	}

	if room.IsStarted() {
		return nil, nil, apperror.ErrGameAlreadyStarted
	}

	player := &entity.Player{ID: playerID, Name: playerName}
	if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, nil, fmt.Errorf("failed to save player: %w", err)
	}

	room.AddPlayer(player)
	snapshot := room.Snapshot()

	return snapshot, snapshot.Players[len(snapshot.Players)-1], nil
}

// StartGame - host-only; builds the initial game state once the roster has
// at least two players. A second invocation is rejected.
func (that *RoomManager) StartGame(_ context.Context, code, requesterID string) (*entity.GameState, error) {
	sess, err := that.session(code)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	room := sess.room

	if requesterID != room.HostID {
		return nil, apperror.ErrNotHost
	}

	if len(room.Players) < entity.MinPlayersToStart {
		return nil, apperror.ErrInsufficientPlayers
	}

	if room.IsStarted() {
		return nil, apperror.ErrGameAlreadyStarted
	}

	room.GameState = entity.NewGameState(room.Code, room.Players)

	return room.GameState.Snapshot(), nil
}

// RollDice - delegates the roll intent to the turn controller under the
// room's lock.
func (that *RoomManager) RollDice(_ context.Context, code, requesterID string) (*ludo.RollResult, *entity.GameState, error) {
	sess, err := that.session(code)
	if err != nil {
		return nil, nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	state := sess.room.GameState
	if state == nil {
		return nil, nil, apperror.ErrInvalidState
	}

	result, err := that.controller.RollDice(state, requesterID)
	if err != nil {
		return nil, nil, err
	}

	return result, state.Snapshot(), nil
}

// MovePawn - applies the move intent; a winning move archives the match.
func (that *RoomManager) MovePawn(ctx context.Context, code, requesterID string, pawnID int) (*ludo.MoveResult, *entity.GameState, error) {
	sess, err := that.session(code)
	if err != nil {
		return nil, nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	room := sess.room

	state := room.GameState
	if state == nil {
		return nil, nil, apperror.ErrInvalidState
	}

	result, err := that.controller.MovePawn(state, requesterID, pawnID)
	if err != nil {
		return nil, nil, err
	}

	if result.GameOver {
		that.archiveMatch(ctx, room, entity.OutcomeWon, result.Winner)
		result.Winner = result.Winner.Clone()
	}

	return result, state.Snapshot(), nil
}

// Leave - removes a player from a room. An emptied room is torn down; an
// in-progress game is aborted for everyone, with no pause or substitution.
func (that *RoomManager) Leave(ctx context.Context, code, playerID string) (*LeaveResult, error) {
	sess, err := that.session(code)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	room := sess.room

	player := room.RemovePlayer(playerID)
	if player == nil {
		return nil, apperror.ErrRoomNotFound
	}

	if err = that.playerRepo.DeleteByID(ctx, playerID); err != nil {
		that.logger.Error("failed to delete player session", "player", playerID, "error", err)
	}

	result := &LeaveResult{
		Player:  player.Clone(),
		Players: entity.ClonePlayers(room.Players),
	}

	if room.IsEmpty() {
		that.mu.Lock()
		delete(that.rooms, code)
		that.mu.Unlock()

		result.RoomDeleted = true
	}

	if room.IsStarted() && !room.GameState.IsOver() {
		room.GameState.Abort()
		result.GameAborted = true
		result.GameState = room.GameState.Snapshot()

		that.archiveMatch(ctx, room, entity.OutcomeAborted, nil)
	}

	return result, nil
}

// RoomCount - number of live rooms, reported in the shutdown log.
func (that *RoomManager) RoomCount() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.rooms)
}

func (that *RoomManager) session(code string) (*roomSession, error) {
	that.mu.RLock()
	sess, ok := that.rooms[code]
	that.mu.RUnlock()

	if !ok {
		return nil, apperror.ErrRoomNotFound
	}

	return sess, nil
}

func (that *RoomManager) archiveMatch(ctx context.Context, room *entity.Room, outcome string, winner *entity.Player) {
	log := that.logger.With("method", "archiveMatch")

	record := &entity.MatchRecord{
		ID:         pkg.GenerateMatchID(),
		RoomCode:   room.Code,
		Outcome:    outcome,
		Winner:     winner,
		Players:    append([]*entity.Player(nil), room.Players...),
		FinishedAt: time.Now().UTC(),
	}

	if err := that.matchRepo.Save(ctx, record); err != nil {
		log.Error("failed to archive match", "room", room.Code, "error", err)
		return
	}

	log.Info("match archived", "room", room.Code, "outcome", outcome)
}
