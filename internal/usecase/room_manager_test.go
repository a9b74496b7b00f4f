package usecase

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ludo-backend/internal/apperror"
	"ludo-backend/internal/entity"
	"ludo-backend/internal/ludo"
)

type stubPlayerRepo struct {
	players map[string]*entity.Player
}

func newStubPlayerRepo() *stubPlayerRepo {
	return &stubPlayerRepo{players: make(map[string]*entity.Player)}
}

func (that *stubPlayerRepo) CreateOrUpdate(_ context.Context, player *entity.Player) error {
	that.players[player.ID] = player
	return nil
}

func (that *stubPlayerRepo) DeleteByID(_ context.Context, id string) error {
	delete(that.players, id)
	return nil
}

type stubMatchRepo struct {
	records []*entity.MatchRecord
}

func (that *stubMatchRepo) Save(_ context.Context, record *entity.MatchRecord) error {
	that.records = append(that.records, record)
	return nil
}

func newTestManager(rolls ...int) (*RoomManager, *stubPlayerRepo, *stubMatchRepo) {
	i := 0
	controller := ludo.NewTurnControllerWithRoll(func() int {
		v := rolls[i]
		i++
		return v
	})

	players := newStubPlayerRepo()
	matches := &stubMatchRepo{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewRoomManager(logger, controller, players, matches), players, matches
}

func TestRoomManager_CreateRoom(t *testing.T) {
	t.Run("Creating a room registers the host", func(t *testing.T) {
		manager, players, _ := newTestManager()

		room, player, err := manager.CreateRoom(context.Background(), "p1", "Alice")

		require.NoError(t, err)
		assert.Len(t, room.Code, 6)
		assert.Equal(t, "p1", room.HostID)
		assert.Equal(t, room.Code, player.RoomCode)
		assert.Equal(t, 1, manager.RoomCount())
		assert.Contains(t, players.players, "p1")
	})
}

func TestRoomManager_JoinRoom(t *testing.T) {
	t.Run("A player joins an open room", func(t *testing.T) {
		manager, _, _ := newTestManager()
		room, _, err := manager.CreateRoom(context.Background(), "p1", "Alice")
		require.NoError(t, err)

		joined, player, err := manager.JoinRoom(context.Background(), room.Code, "p2", "Bob")

		require.NoError(t, err)
		assert.Len(t, joined.Players, 2)
		assert.Equal(t, room.Code, player.RoomCode)
	})

	t.Run("Joining an unknown room fails", func(t *testing.T) {
		manager, _, _ := newTestManager()

		_, _, err := manager.JoinRoom(context.Background(), "NOSUCH", "p2", "Bob")

		require.ErrorIs(t, err, apperror.ErrRoomNotFound)
	})

	t.Run("A full room rejects a fifth player", func(t *testing.T) {
		manager, _, _ := newTestManager()
		room, _, err := manager.CreateRoom(context.Background(), "p1", "Alice")
		require.NoError(t, err)

		for _, id := range []string{"p2", "p3", "p4"} {
			_, _, err = manager.JoinRoom(context.Background(), room.Code, id, id)
			require.NoError(t, err)
		}

		_, _, err = manager.JoinRoom(context.Background(), room.Code, "p5", "Eve")

		require.ErrorIs(t, err, apperror.ErrRoomFull)
	})

	t.Run("Joining the same room twice is rejected", func(t *testing.T) {
		manager, _, _ := newTestManager()
		room, _, err := manager.CreateRoom(context.Background(), "p1", "Alice")
		require.NoError(t, err)
		_, _, err = manager.JoinRoom(context.Background(), room.Code, "p2", "Bob")
		require.NoError(t, err)

		joined, _, err := manager.JoinRoom(context.Background(), room.Code, "p2", "Bob")

		require.ErrorIs(t, err, apperror.ErrAlreadyInRoom)
		assert.Nil(t, joined)
	})

	t.Run("A started game rejects joiners", func(t *testing.T) {
		manager, _, _ := newTestManager()
		room, _, err := manager.CreateRoom(context.Background(), "p1", "Alice")
		require.NoError(t, err)
		_, _, err = manager.JoinRoom(context.Background(), room.Code, "p2", "Bob")
		require.NoError(t, err)
		_, err = manager.StartGame(context.Background(), room.Code, "p1")
		require.NoError(t, err)

		_, _, err = manager.JoinRoom(context.Background(), room.Code, "p3", "Carol")

		require.ErrorIs(t, err, apperror.ErrGameAlreadyStarted)
	})
}

func TestRoomManager_StartGame(t *testing.T) {
	t.Run("Only the host may start", func(t *testing.T) {
		manager, _, _ := newTestManager()
		room, _, err := manager.CreateRoom(context.Background(), "p1", "Alice")
		require.NoError(t, err)
		_, _, err = manager.JoinRoom(context.Background(), room.Code, "p2", "Bob")
		require.NoError(t, err)

		_, err = manager.StartGame(context.Background(), room.Code, "p2")

		require.ErrorIs(t, err, apperror.ErrNotHost)
	})

	t.Run("A lone host cannot start", func(t *testing.T) {
		manager, _, _ := newTestManager()
		room, _, err := manager.CreateRoom(context.Background(), "p1", "Alice")
		require.NoError(t, err)

		_, err = manager.StartGame(context.Background(), room.Code, "p1")

		require.ErrorIs(t, err, apperror.ErrInsufficientPlayers)
	})

	t.Run("Starting twice is rejected", func(t *testing.T) {
		manager, _, _ := newTestManager()
		room, _, err := manager.CreateRoom(context.Background(), "p1", "Alice")
		require.NoError(t, err)
		_, _, err = manager.JoinRoom(context.Background(), room.Code, "p2", "Bob")
		require.NoError(t, err)

		state, err := manager.StartGame(context.Background(), room.Code, "p1")
		require.NoError(t, err)
		require.Len(t, state.Players, 2)

		_, err = manager.StartGame(context.Background(), room.Code, "p1")

		require.ErrorIs(t, err, apperror.ErrGameAlreadyStarted)
	})
}

func TestRoomManager_TurnIntents(t *testing.T) {
	t.Run("Rolling before the game started is rejected", func(t *testing.T) {
		manager, _, _ := newTestManager()
		room, _, err := manager.CreateRoom(context.Background(), "p1", "Alice")
		require.NoError(t, err)

		_, _, err = manager.RollDice(context.Background(), room.Code, "p1")

		require.ErrorIs(t, err, apperror.ErrInvalidState)
	})

	t.Run("Returned state is detached from later intents", func(t *testing.T) {
		// Given: a started game where the host rolled a six
		manager, _, _ := newTestManager(6)
		room, _, err := manager.CreateRoom(context.Background(), "p1", "Alice")
		require.NoError(t, err)
		_, _, err = manager.JoinRoom(context.Background(), room.Code, "p2", "Bob")
		require.NoError(t, err)
		startState, err := manager.StartGame(context.Background(), room.Code, "p1")
		require.NoError(t, err)

		_, rolledState, err := manager.RollDice(context.Background(), room.Code, "p1")
		require.NoError(t, err)

		// When: the host exits a pawn, mutating the live game
		_, movedState, err := manager.MovePawn(context.Background(), room.Code, "p1", 0)
		require.NoError(t, err)

		// Then: each earlier result still shows the moment it was taken
		assert.Zero(t, startState.DiceValue)
		assert.Equal(t, entity.PhaseAwaitingRoll, startState.Phase)
		assert.Equal(t, entity.ZoneHome, startState.Players[0].Pawns[0].Zone)

		assert.Equal(t, entity.PhaseAwaitingMove, rolledState.Phase)
		assert.Equal(t, entity.ZoneHome, rolledState.Players[0].Pawns[0].Zone)

		assert.Equal(t, entity.ZoneTrack, movedState.Players[0].Pawns[0].Zone)
	})

	t.Run("Marshaling a returned state does not observe new intents", func(t *testing.T) {
		// Given: a started game and one returned snapshot
		manager, _, _ := newTestManager(func() []int {
			rolls := make([]int, 0, 400)
			for i := 0; i < 200; i++ {
				rolls = append(rolls, 6, 3)
			}
			return rolls
		}()...)
		room, _, err := manager.CreateRoom(context.Background(), "p1", "Alice")
		require.NoError(t, err)
		_, _, err = manager.JoinRoom(context.Background(), room.Code, "p2", "Bob")
		require.NoError(t, err)
		_, err = manager.StartGame(context.Background(), room.Code, "p1")
		require.NoError(t, err)

		_, snapshot, err := manager.RollDice(context.Background(), room.Code, "p1")
		require.NoError(t, err)

		// When: intents keep flowing in one goroutine while the snapshot is
		// marshaled in another, the way the gateway broadcasts it
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, _, _ = manager.MovePawn(context.Background(), room.Code, "p1", 0)

			for i := 0; i < 50; i++ {
				for _, id := range []string{"p1", "p2"} {
					if _, _, rollErr := manager.RollDice(context.Background(), room.Code, id); rollErr != nil {
						continue
					}
					_, _, _ = manager.MovePawn(context.Background(), room.Code, id, 0)
				}
			}
		}()

		for i := 0; i < 50; i++ {
			_, marshalErr := json.Marshal(snapshot)
			require.NoError(t, marshalErr)
		}

		wg.Wait()

		// Then: the snapshot never changed under the marshaler
		assert.Equal(t, 6, snapshot.DiceValue)
		assert.Equal(t, entity.ZoneHome, snapshot.Players[0].Pawns[0].Zone)
	})

	t.Run("A winning move archives the match", func(t *testing.T) {
		// Given: a started game with the host one lane cell from winning
		manager, _, matches := newTestManager(2)
		room, _, err := manager.CreateRoom(context.Background(), "p1", "Alice")
		require.NoError(t, err)
		_, _, err = manager.JoinRoom(context.Background(), room.Code, "p2", "Bob")
		require.NoError(t, err)
		_, err = manager.StartGame(context.Background(), room.Code, "p1")
		require.NoError(t, err)

		sess, err := manager.session(room.Code)
		require.NoError(t, err)

		state := sess.room.GameState
		for i := 0; i < 3; i++ {
			state.Players[0].Pawns[i].Zone = entity.ZoneGoal
		}
		state.Players[0].GoalCount = 3
		state.Players[0].Pawns[3] = entity.Pawn{ID: 3, Zone: entity.ZoneLane, LaneOffset: 3}

		// When: the host rolls the exact 2 and moves the last pawn home
		_, _, err = manager.RollDice(context.Background(), room.Code, "p1")
		require.NoError(t, err)

		result, _, err := manager.MovePawn(context.Background(), room.Code, "p1", 3)

		// Then: the game is over and one won record was archived
		require.NoError(t, err)
		assert.True(t, result.GameOver)
		require.Len(t, matches.records, 1)
		assert.Equal(t, entity.OutcomeWon, matches.records[0].Outcome)
		assert.Equal(t, "p1", matches.records[0].Winner.ID)
		assert.Equal(t, room.Code, matches.records[0].RoomCode)
	})
}

func TestRoomManager_Leave(t *testing.T) {
	t.Run("The last player leaving deletes the room", func(t *testing.T) {
		manager, players, _ := newTestManager()
		room, _, err := manager.CreateRoom(context.Background(), "p1", "Alice")
		require.NoError(t, err)

		result, err := manager.Leave(context.Background(), room.Code, "p1")

		require.NoError(t, err)
		assert.True(t, result.RoomDeleted)
		assert.Zero(t, manager.RoomCount())
		assert.NotContains(t, players.players, "p1")
	})

	t.Run("Leaving mid-game aborts it for everyone", func(t *testing.T) {
		manager, _, matches := newTestManager()
		room, _, err := manager.CreateRoom(context.Background(), "p1", "Alice")
		require.NoError(t, err)
		_, _, err = manager.JoinRoom(context.Background(), room.Code, "p2", "Bob")
		require.NoError(t, err)
		_, err = manager.StartGame(context.Background(), room.Code, "p1")
		require.NoError(t, err)

		result, err := manager.Leave(context.Background(), room.Code, "p2")

		require.NoError(t, err)
		assert.True(t, result.GameAborted)
		assert.False(t, result.RoomDeleted)
		require.NotNil(t, result.GameState)
		assert.Equal(t, entity.PhaseAborted, result.GameState.Phase)
		require.Len(t, matches.records, 1)
		assert.Equal(t, entity.OutcomeAborted, matches.records[0].Outcome)
		assert.Nil(t, matches.records[0].Winner)
	})

	t.Run("Leaving a room you are not in fails", func(t *testing.T) {
		manager, _, _ := newTestManager()
		room, _, err := manager.CreateRoom(context.Background(), "p1", "Alice")
		require.NoError(t, err)

		_, err = manager.Leave(context.Background(), room.Code, "ghost")

		require.ErrorIs(t, err, apperror.ErrRoomNotFound)
	})

	t.Run("An aborted game is not archived twice", func(t *testing.T) {
		manager, _, matches := newTestManager()
		room, _, err := manager.CreateRoom(context.Background(), "p1", "Alice")
		require.NoError(t, err)
		_, _, err = manager.JoinRoom(context.Background(), room.Code, "p2", "Bob")
		require.NoError(t, err)
		_, _, err = manager.JoinRoom(context.Background(), room.Code, "p3", "Carol")
		require.NoError(t, err)
		_, err = manager.StartGame(context.Background(), room.Code, "p1")
		require.NoError(t, err)

		_, err = manager.Leave(context.Background(), room.Code, "p3")
		require.NoError(t, err)
		_, err = manager.Leave(context.Background(), room.Code, "p2")
		require.NoError(t, err)

		assert.Len(t, matches.records, 1)
	})
}
