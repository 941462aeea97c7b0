package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/michiganhackers/photo-assassin-backend/internal/apperror"
)

// maxTxAttempts bounds the optimistic retry loop before the caller sees a
// transient failure.
const maxTxAttempts = 5

// ErrKeyNotFound - returned by AtomicTx.GetJSON when the key is absent.
var ErrKeyNotFound = errors.New("key not found")

// AtomicTx is one attempt of an optimistic transaction. Reads go straight
// to redis under WATCH; writes are buffered and flushed in a single
// MULTI/EXEC that commits only if no watched key changed since the reads.
type AtomicTx struct {
	ctx    context.Context
	tx     *redis.Tx
	writes []func(pipe redis.Pipeliner)
}

// GetJSON - reads key into dest. Returns ErrKeyNotFound for absent keys.
func (that *AtomicTx) GetJSON(key string, dest any) error {
	response, err := that.tx.Get(that.ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return ErrKeyNotFound
	}

	if err != nil {
		return fmt.Errorf("failed to get %s: %w", key, err)
	}

	if err = json.Unmarshal([]byte(response), dest); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}

	return nil
}

// SetJSON - queues a write of value under key for the commit phase.
func (that *AtomicTx) SetJSON(key string, value any) error {
	buf, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	that.writes = append(that.writes, func(pipe redis.Pipeliner) {
		pipe.Set(that.ctx, key, buf, 0)
	})

	return nil
}

// Delete - queues a deletion of key for the commit phase.
func (that *AtomicTx) Delete(key string) {
	that.writes = append(that.writes, func(pipe redis.Pipeliner) {
		pipe.Del(that.ctx, key)
	})
}

// Atomically - runs fn as an all-or-nothing transaction over keys. The
// closure reads a consistent snapshot and queues writes; the commit fails
// if any watched key was modified concurrently, in which case the whole
// closure is retried from scratch. Exhausting the retry budget surfaces
// apperror.ErrTransient. fn must not have side effects outside the
// transaction, since it can run more than once.
func (that *RedisStorage) Atomically(ctx context.Context, fn func(tx *AtomicTx) error, keys ...string) error {
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err := that.Connection.Watch(ctx, func(rtx *redis.Tx) error {
			atomicTx := &AtomicTx{ctx: ctx, tx: rtx}

			if err := fn(atomicTx); err != nil {
				return err
			}

			_, err := rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				for _, write := range atomicTx.writes {
					write(pipe)
				}
				return nil
			})

			return err
		}, keys...)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}

		return err
	}

	return fmt.Errorf("%w: transaction conflicted %d times", apperror.ErrTransient, maxTxAttempts)
}
