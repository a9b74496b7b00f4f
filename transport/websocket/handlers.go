package websocket

import (
	"context"
	"encoding/json"
	"fmt"
)

func (that *Server) handleCreateRoom(ctx context.Context, client *Client, payload json.RawMessage) error {
	log := that.logger.With("method", "handleCreateRoom")

	var req createRoomPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	room, player, err := that.manager.CreateRoom(ctx, client.id, req.PlayerName)
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}

	that.joinRoomSet(client, room.Code)

	that.send(client, ActionRoomCreated, roomCreatedPayload{
		RoomCode: room.Code,
		Player:   player,
	})

	log.Info("room created", "room", room.Code, "player", req.PlayerName)

	return nil
}

func (that *Server) handleJoinRoom(ctx context.Context, client *Client, payload json.RawMessage) error {
	log := that.logger.With("method", "handleJoinRoom")

	var req joinRoomPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	room, player, err := that.manager.JoinRoom(ctx, req.RoomCode, client.id, req.PlayerName)
	if err != nil {
		return err
	}

	that.joinRoomSet(client, room.Code)

	that.send(client, ActionRoomJoined, roomJoinedPayload{
		RoomCode: room.Code,
		Player:   player,
	})

	that.broadcast(room.Code, ActionPlayerJoined, playerJoinedPayload{
		Player:  player,
		Players: room.Players,
	})

	log.Info("player joined", "room", room.Code, "player", req.PlayerName)

	return nil
}

func (that *Server) handleStartGame(ctx context.Context, client *Client, payload json.RawMessage) error {
	log := that.logger.With("method", "handleStartGame")

	var req startGamePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	state, err := that.manager.StartGame(ctx, req.RoomCode, client.id)
	if err != nil {
		return err
	}

	that.broadcast(req.RoomCode, ActionGameStarted, gameStartedPayload{GameState: state})

	log.Info("game started", "room", req.RoomCode)

	return nil
}

func (that *Server) handleRollDice(ctx context.Context, client *Client, payload json.RawMessage) error {
	log := that.logger.With("method", "handleRollDice")

	var req rollDicePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	result, state, err := that.manager.RollDice(ctx, req.RoomCode, client.id)
	if err != nil {
		return err
	}

	if result.ForcedSkip {
		that.broadcast(req.RoomCode, ActionThreeSixes, threeSixesPayload{
			Message:   "Three sixes in a row! Turn skipped.",
			GameState: state,
		})

		log.Info("turn skipped after three sixes", "room", req.RoomCode)

		return nil
	}

	that.broadcast(req.RoomCode, ActionDiceRolled, diceRolledPayload{
		DiceValue:  result.DiceValue,
		ValidMoves: result.ValidMoves,
		GameState:  state,
	})

	log.Info("dice rolled", "room", req.RoomCode, "value", result.DiceValue)

	return nil
}

func (that *Server) handleMovePawn(ctx context.Context, client *Client, payload json.RawMessage) error {
	log := that.logger.With("method", "handleMovePawn")

	var req movePawnPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	result, state, err := that.manager.MovePawn(ctx, req.RoomCode, client.id, req.PawnID)
	if err != nil {
		return err
	}

	if result.GameOver {
		that.broadcast(req.RoomCode, ActionGameOver, gameOverPayload{
			Winner:    result.Winner,
			GameState: state,
		})

		log.Info("game over", "room", req.RoomCode, "winner", result.Winner.Name)

		return nil
	}

	that.broadcast(req.RoomCode, ActionPawnMoved, pawnMovedPayload{
		PawnID:    result.PawnID,
		GameState: state,
	})

	return nil
}
