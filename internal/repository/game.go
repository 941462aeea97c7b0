package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/michiganhackers/photo-assassin-backend/internal/apperror"
	"github.com/michiganhackers/photo-assassin-backend/internal/entity"
	"github.com/michiganhackers/photo-assassin-backend/internal/repository/storage"
)

// GameKey - the redis key holding one game document. The whole game,
// players and snipes included, lives under a single key so every per-game
// mutation is serialized by watching this one key.
func GameKey(id string) string {
	return "game:" + id
}

type GameRepository interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)

	GetTx(tx *storage.AtomicTx, id string) (*entity.Game, error)
	SaveTx(tx *storage.AtomicTx, game *entity.Game) error
}

type dbGame struct {
	client *redis.Client
}

func NewGameRepository(store *storage.RedisStorage) GameRepository {
	return &dbGame{
		client: store.Connection,
	}
}

func (that *dbGame) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	if err = that.client.Set(ctx, GameKey(game.ID), gameJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	return nil
}

func (that *dbGame) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	response, err := that.client.Get(ctx, GameKey(id)).Result()

	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrGameNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by ID: %w", err)
	}

	var existingGame entity.Game
	if err = json.Unmarshal([]byte(response), &existingGame); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &existingGame, nil
}

func (that *dbGame) GetTx(tx *storage.AtomicTx, id string) (*entity.Game, error) {
	var existingGame entity.Game

	err := tx.GetJSON(GameKey(id), &existingGame)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, apperror.ErrGameNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game in tx: %w", err)
	}

	return &existingGame, nil
}

func (that *dbGame) SaveTx(tx *storage.AtomicTx, game *entity.Game) error {
	if err := tx.SetJSON(GameKey(game.ID), game); err != nil {
		return fmt.Errorf("failed to save game in tx: %w", err)
	}

	return nil
}
