package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ludo-backend/internal/entity"
	"ludo-backend/testing/suite"
)

func TestMatchRepository_Save(t *testing.T) {
	ctx, st := suite.New(t)

	matchRepo := NewMatchRepository(st.Storage)

	// Given: a finished match record
	record := &entity.MatchRecord{
		ID:       "match-1",
		RoomCode: "ABC123",
		Outcome:  entity.OutcomeWon,
		Winner:   &entity.Player{ID: "p1", Name: "Alice"},
		Players: []*entity.Player{
			{ID: "p1", Name: "Alice"},
			{ID: "p2", Name: "Bob"},
		},
		FinishedAt: time.Now().UTC().Truncate(time.Second),
	}

	// When: Save is called
	err := matchRepo.Save(ctx, record)

	// Then: no error should be returned
	require.NoError(t, err)
}

func TestMatchRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		matchRepo := NewMatchRepository(st.Storage)

		// Given: an archived aborted match
		record := &entity.MatchRecord{
			ID:       "match-1",
			RoomCode: "ABC123",
			Outcome:  entity.OutcomeAborted,
			Players: []*entity.Player{
				{ID: "p1", Name: "Alice"},
				{ID: "p2", Name: "Bob"},
			},
			FinishedAt: time.Now().UTC().Truncate(time.Second),
		}

		err := matchRepo.Save(ctx, record)
		require.NoError(t, err)

		// When: GetByID is called with the existing ID
		retrieved, err := matchRepo.GetByID(ctx, record.ID)

		// Then: the retrieved record matches the saved one
		require.NoError(t, err)
		assert.Equal(t, record.RoomCode, retrieved.RoomCode)
		assert.Equal(t, record.Outcome, retrieved.Outcome)
		assert.Nil(t, retrieved.Winner)
		assert.Len(t, retrieved.Players, 2)
		assert.True(t, record.FinishedAt.Equal(retrieved.FinishedAt))
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		matchRepo := NewMatchRepository(st.Storage)

		// When: GetByID is called with a non-existent ID
		_, err := matchRepo.GetByID(ctx, "no-such-match")

		// Then: ErrMatchNotFound is returned
		require.ErrorIs(t, err, ErrMatchNotFound)
	})
}
