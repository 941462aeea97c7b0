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

// PictureKey - the redis key holding one evidence picture's metadata. The
// reference count is the only state shared between otherwise independent
// per-game transactions, so each of them watches this key.
func PictureKey(id string) string {
	return "picture:" + id
}

type PictureRepository interface {
	CreateOrUpdate(ctx context.Context, picture *entity.Picture) error
	GetByID(ctx context.Context, id string) (*entity.Picture, error)
	DeleteByID(ctx context.Context, id string) error

	GetTx(tx *storage.AtomicTx, id string) (*entity.Picture, error)
	SaveTx(tx *storage.AtomicTx, picture *entity.Picture) error
}

type dbPicture struct {
	client *redis.Client
}

func NewPictureRepository(store *storage.RedisStorage) PictureRepository {
	return &dbPicture{
		client: store.Connection,
	}
}

func (that *dbPicture) CreateOrUpdate(ctx context.Context, picture *entity.Picture) error {
	pictureJSON, err := json.Marshal(picture)
	if err != nil {
		return fmt.Errorf("could not marshal picture: %w", err)
	}

	if err = that.client.Set(ctx, PictureKey(picture.ID), pictureJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set picture: %w", err)
	}

	return nil
}

func (that *dbPicture) GetByID(ctx context.Context, id string) (*entity.Picture, error) {
	response, err := that.client.Get(ctx, PictureKey(id)).Result()

	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrPictureNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get picture by ID: %w", err)
	}

	var existingPicture entity.Picture
	if err = json.Unmarshal([]byte(response), &existingPicture); err != nil {
		return nil, fmt.Errorf("failed to unmarshal picture: %w", err)
	}

	return &existingPicture, nil
}

func (that *dbPicture) DeleteByID(ctx context.Context, id string) error {
	if err := that.client.Del(ctx, PictureKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete picture by ID: %w", err)
	}

	return nil
}

func (that *dbPicture) GetTx(tx *storage.AtomicTx, id string) (*entity.Picture, error) {
	var existingPicture entity.Picture

	err := tx.GetJSON(PictureKey(id), &existingPicture)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, apperror.ErrPictureNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get picture in tx: %w", err)
	}

	return &existingPicture, nil
}

func (that *dbPicture) SaveTx(tx *storage.AtomicTx, picture *entity.Picture) error {
	if err := tx.SetJSON(PictureKey(picture.ID), picture); err != nil {
		return fmt.Errorf("failed to save picture in tx: %w", err)
	}

	return nil
}
