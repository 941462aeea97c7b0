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

// UserKey - the redis key holding one user's cross-game statistics.
func UserKey(id string) string {
	return "user:" + id
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)

	// GetOrCreateTx returns the stats record for id, or a zeroed record
	// when the user has never appeared in a finished transaction before.
	GetOrCreateTx(tx *storage.AtomicTx, id string) (*entity.User, error)
	SaveTx(tx *storage.AtomicTx, user *entity.User) error
}

type dbUser struct {
	client *redis.Client
}

func NewUserRepository(store *storage.RedisStorage) UserRepository {
	return &dbUser{
		client: store.Connection,
	}
}

func (that *dbUser) GetByID(ctx context.Context, id string) (*entity.User, error) {
	response, err := that.client.Get(ctx, UserKey(id)).Result()

	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	var existingUser entity.User
	if err = json.Unmarshal([]byte(response), &existingUser); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return &existingUser, nil
}

func (that *dbUser) GetOrCreateTx(tx *storage.AtomicTx, id string) (*entity.User, error) {
	var existingUser entity.User

	err := tx.GetJSON(UserKey(id), &existingUser)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return &entity.User{ID: id}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get user in tx: %w", err)
	}

	return &existingUser, nil
}

func (that *dbUser) SaveTx(tx *storage.AtomicTx, user *entity.User) error {
	if err := tx.SetJSON(UserKey(user.ID), user); err != nil {
		return fmt.Errorf("failed to save user in tx: %w", err)
	}

	return nil
}
