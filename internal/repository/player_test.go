package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ludo-backend/internal/entity"
	"ludo-backend/testing/suite"
)

func TestPlayerRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	playerRepo := NewPlayerRepository(st.Storage)

	// Given: a player session
	player := &entity.Player{
		ID:   "123",
		Name: "Alice",
	}

	// When: CreateOrUpdate is called
	err := playerRepo.CreateOrUpdate(ctx, player)

	// Then: no error should be returned
	require.NoError(t, err)
}

func TestPlayerRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		playerRepo := NewPlayerRepository(st.Storage)

		// Given: a saved player session
		player := &entity.Player{
			ID:       "123",
			Name:     "Alice",
			Color:    entity.ColorRed,
			RoomCode: "ABC123",
		}

		err := playerRepo.CreateOrUpdate(ctx, player)
		require.NoError(t, err)

		// When: GetByID is called with the existing ID
		retrievedPlayer, err := playerRepo.GetByID(ctx, player.ID)

		// Then: the retrieved player matches the saved one
		require.NoError(t, err)
		assert.Equal(t, player.ID, retrievedPlayer.ID)
		assert.Equal(t, player.Name, retrievedPlayer.Name)
		assert.Equal(t, player.Color, retrievedPlayer.Color)
		assert.Equal(t, player.RoomCode, retrievedPlayer.RoomCode)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		playerRepo := NewPlayerRepository(st.Storage)

		// When: GetByID is called with a non-existent ID
		_, err := playerRepo.GetByID(ctx, "9999999")

		// Then: ErrPlayerNotFound is returned
		require.ErrorIs(t, err, ErrPlayerNotFound)
	})
}

func TestPlayerRepository_DeleteByID(t *testing.T) {
	ctx, st := suite.New(t)

	playerRepo := NewPlayerRepository(st.Storage)

	// Given: a saved player session
	player := &entity.Player{ID: "123", Name: "Alice"}
	err := playerRepo.CreateOrUpdate(ctx, player)
	require.NoError(t, err)

	// When: DeleteByID is called
	err = playerRepo.DeleteByID(ctx, player.ID)

	// Then: the player is gone
	require.NoError(t, err)

	_, err = playerRepo.GetByID(ctx, player.ID)
	require.ErrorIs(t, err, ErrPlayerNotFound)
}
