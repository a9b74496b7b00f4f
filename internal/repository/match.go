package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"ludo-backend/internal/entity"
)

var ErrMatchNotFound = errors.New("match not found")

// MatchRepository archives finished and aborted sessions. Live rooms never
// touch Redis; this is write-mostly record keeping.
type MatchRepository interface {
	Save(ctx context.Context, record *entity.MatchRecord) error
	GetByID(ctx context.Context, id string) (*entity.MatchRecord, error)
}

type dbMatch struct {
	client *redis.Client
}

func NewMatchRepository(client *redis.Client) MatchRepository {
	return &dbMatch{
		client: client,
	}
}

func (that *dbMatch) Save(ctx context.Context, record *entity.MatchRecord) error {
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal match record: %w", err)
	}

	matchKey := "match:" + record.ID
	if err = that.client.Set(ctx, matchKey, recordJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set match record: %w", err)
	}

	return nil
}

func (that *dbMatch) GetByID(ctx context.Context, id string) (*entity.MatchRecord, error) {
	matchKey := "match:" + id

	response, err := that.client.Get(ctx, matchKey).Result()

	if errors.Is(err, redis.Nil) {
		return &entity.MatchRecord{}, ErrMatchNotFound
	}

	if err != nil {
		return &entity.MatchRecord{}, fmt.Errorf("failed to get match by ID: %w", err)
	}

	var record entity.MatchRecord
	if err = json.Unmarshal([]byte(response), &record); err != nil {
		return &entity.MatchRecord{}, fmt.Errorf("failed to unmarshal match record: %w", err)
	}

	return &record, nil
}
